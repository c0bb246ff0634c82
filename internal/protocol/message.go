package protocol

import "encoding/json"

// MessageType identifies the shape of a Message's payload.
type MessageType string

// Client to server messages.
const (
	MessageTypeCreateRoom   MessageType = "create-room"
	MessageTypeJoinRoom     MessageType = "join-room"
	MessageTypeLeaveRoom    MessageType = "leave-room"
	MessageTypeStartGame    MessageType = "start-game"
	MessageTypePlayerAction MessageType = "player-action"
	MessageTypeGetRooms     MessageType = "get-rooms"
	MessageTypeRejoinGame   MessageType = "rejoin-game"
)

// Server to client messages.
const (
	MessageTypeRoomCreated  MessageType = "room-created"
	MessageTypeRoomJoined   MessageType = "room-joined"
	MessageTypePlayerJoined MessageType = "player-joined"
	MessageTypePlayerLeft   MessageType = "player-left"
	MessageTypeRoomsList    MessageType = "rooms-list"
	MessageTypeGameStarted  MessageType = "game-started"
	MessageTypeGameUpdated  MessageType = "game-updated"
	MessageTypeActionReq    MessageType = "action-required"
	MessageTypeHandComplete MessageType = "hand-complete"
	MessageTypeGameOver     MessageType = "game-over"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope every inbound and outbound frame uses: a type
// tag plus a payload whose shape is determined by that tag.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload and wraps it with its type tag.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: raw}, nil
}

// Decode unmarshals m.Payload into dst.
func (m *Message) Decode(dst interface{}) error {
	return json.Unmarshal(m.Payload, dst)
}
