package server

import (
	"github.com/feltstack/holdem-core/internal/engine"
	"github.com/feltstack/holdem-core/internal/protocol"
)

// handleMessage is the Message Router's single entry point: exactly one
// Controller call per inbound intent (§4.G), under that room's own
// single-writer lock. A malformed or contract-violating intent produces
// an error reply to the sender alone and no state change (§7a, §7b).
func (s *Server) handleMessage(c *Connection, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MessageTypeCreateRoom:
		s.handleCreateRoom(c, msg)
	case protocol.MessageTypeJoinRoom:
		s.handleJoinRoom(c, msg)
	case protocol.MessageTypeLeaveRoom:
		s.handleLeaveRoom(c, msg)
	case protocol.MessageTypeStartGame:
		s.handleStartGame(c, msg)
	case protocol.MessageTypePlayerAction:
		s.handlePlayerAction(c, msg)
	case protocol.MessageTypeGetRooms:
		s.handleGetRooms(c, msg)
	case protocol.MessageTypeRejoinGame:
		s.handleRejoinGame(c, msg)
	default:
		sendErr(c, "unknown message type %q", msg.Type)
	}
}

func (s *Server) handleCreateRoom(c *Connection, msg *protocol.Message) {
	var intent protocol.CreateRoomIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed create-room: %v", err)
		return
	}
	if intent.RoomName == "" || intent.PlayerName == "" {
		sendErr(c, "create-room requires roomName and playerName")
		return
	}

	ctrl := s.registry.CreateRoom(intent.RoomName)
	seatID, err := ctrl.Join(intent.PlayerName)
	if err != nil {
		s.registry.Dissolve(ctrl.RoomID())
		sendErr(c, "create-room: %v", err)
		return
	}
	s.bindConnection(c, ctrl.RoomID(), seatID)

	reply, _ := protocol.NewMessage(protocol.MessageTypeRoomCreated, protocol.RoomCreatedEvent{
		Room:   ctrl.Summary(),
		SeatID: seatID,
	})
	c.Send(reply)
}

func (s *Server) handleJoinRoom(c *Connection, msg *protocol.Message) {
	var intent protocol.JoinRoomIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed join-room: %v", err)
		return
	}
	if intent.RoomID == "" || intent.PlayerName == "" {
		sendErr(c, "join-room requires roomId and playerName")
		return
	}

	ctrl, ok := s.registry.Lookup(intent.RoomID)
	if !ok {
		sendErr(c, "no such room %q", intent.RoomID)
		return
	}
	seatID, err := ctrl.Join(intent.PlayerName)
	if err != nil {
		sendErr(c, "join-room: %v", err)
		return
	}
	s.bindConnection(c, intent.RoomID, seatID)

	reply, _ := protocol.NewMessage(protocol.MessageTypeRoomJoined, protocol.RoomJoinedEvent{
		Room:   ctrl.Summary(),
		SeatID: seatID,
	})
	c.Send(reply)
}

func (s *Server) handleLeaveRoom(c *Connection, msg *protocol.Message) {
	var intent protocol.LeaveRoomIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed leave-room: %v", err)
		return
	}

	ctrl, ok := s.registry.Lookup(intent.RoomID)
	if !ok {
		sendErr(c, "no such room %q", intent.RoomID)
		return
	}
	empty, err := ctrl.Leave(intent.SeatID)
	if err != nil {
		sendErr(c, "leave-room: %v", err)
		return
	}

	s.mu.Lock()
	delete(s.seatConns, intent.SeatID)
	if set, ok := s.roomConns[intent.RoomID]; ok {
		delete(set, c)
	}
	s.mu.Unlock()
	c.unbind()

	if empty {
		s.registry.Dissolve(intent.RoomID)
	}
}

func (s *Server) handleStartGame(c *Connection, msg *protocol.Message) {
	var intent protocol.StartGameIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed start-game: %v", err)
		return
	}

	ctrl, ok := s.registry.Lookup(intent.RoomID)
	if !ok {
		sendErr(c, "no such room %q", intent.RoomID)
		return
	}
	if err := ctrl.StartGame(); err != nil {
		sendErr(c, "start-game: %v", err)
	}
}

func (s *Server) handlePlayerAction(c *Connection, msg *protocol.Message) {
	var intent protocol.PlayerActionIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed player-action: %v", err)
		return
	}

	ctrl, ok := s.registry.Lookup(intent.RoomID)
	if !ok {
		sendErr(c, "no such room %q", intent.RoomID)
		return
	}

	actionType := engine.ActionType(intent.Action.Type)
	if err := ctrl.ApplyAction(intent.SeatID, actionType, intent.Action.Amount); err != nil {
		sendErr(c, "player-action: %v", err)
		return
	}
	ctrl.MarkPresent(intent.SeatID)
}

// handleRejoinGame re-binds a connection to a seat it already holds
// after a reconnect. Best-effort: an unknown room or seat just errors
// back to the sender, since by the time the reconnect arrives the seat
// may already have been cleaned up between hands.
func (s *Server) handleRejoinGame(c *Connection, msg *protocol.Message) {
	var intent protocol.RejoinGameIntent
	if err := msg.Decode(&intent); err != nil {
		sendErr(c, "malformed rejoin-game: %v", err)
		return
	}

	ctrl, ok := s.registry.Lookup(intent.RoomID)
	if !ok {
		sendErr(c, "no such room %q", intent.RoomID)
		return
	}
	if err := ctrl.Rejoin(intent.SeatID); err != nil {
		sendErr(c, "rejoin-game: %v", err)
		return
	}
	s.bindConnection(c, intent.RoomID, intent.SeatID)

	reply, _ := protocol.NewMessage(protocol.MessageTypeRoomJoined, protocol.RoomJoinedEvent{
		Room:   ctrl.Summary(),
		SeatID: intent.SeatID,
	})
	c.Send(reply)
}

func (s *Server) handleGetRooms(c *Connection, msg *protocol.Message) {
	reply, _ := protocol.NewMessage(protocol.MessageTypeRoomsList, protocol.RoomsListEvent{
		Rooms: s.registry.List(),
	})
	c.Send(reply)
}
