// Package server is the duplex transport and Message Router (§4.G): it
// accepts WebSocket connections, frames protocol.Message values on the
// wire, translates inbound intents into Room Registry / Controller
// calls, and fans Controller-emitted deliveries back out to the right
// connections.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/feltstack/holdem-core/internal/protocol"
	"github.com/feltstack/holdem-core/internal/registry"
	"github.com/feltstack/holdem-core/internal/room"
)

// Server owns the WebSocket listener, the set of live connections, and
// the Room Registry. It implements room.Sink so every Controller routes
// its deliveries back through here.
type Server struct {
	cfg      *Config
	upgrader websocket.Upgrader
	registry *registry.Registry
	logger   *log.Logger

	mu        sync.RWMutex
	conns     map[*Connection]struct{}
	seatConns map[string]*Connection // seatID -> connection, across all rooms
	roomConns map[string]map[*Connection]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Server from its configuration and a clock, which is
// injected rather than read from time.Now so tests can control turn and
// inter-hand timing deterministically.
func New(cfg *Config, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:    logger.WithPrefix("server"),
		conns:     make(map[*Connection]struct{}),
		seatConns: make(map[string]*Connection),
		roomConns: make(map[string]map[*Connection]struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.registry = registry.New(cfg.RoomConfig(), clock, s, logger)
	return s
}

// Start blocks, serving WebSocket upgrades and health checks on cfg.Addr().
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("starting", "addr", s.cfg.Addr())
	return http.ListenAndServe(s.cfg.Addr(), mux)
}

// Stop cancels every outstanding room timer (via the Registry) and
// closes every live connection.
func (s *Server) Stop() {
	s.cancel()
	s.registry.Shutdown()

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}

	c := NewConnection(conn, s, s.logger)
	s.register(c)
	c.Start()

	go func() {
		<-c.Done()
		s.unregister(c)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) register(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = struct{}{}
}

// unregister drops a closed connection from every index and applies the
// disconnect policy (§4.E): mid-hand, the seat is only flagged "away" so
// the turn timer's auto-action covers it and a later rejoin can rebind
// to it; between hands, a disconnect is equivalent to leave-room.
func (s *Server) unregister(c *Connection) {
	roomID, seatID := c.Room(), c.Seat()

	s.mu.Lock()
	delete(s.conns, c)
	if seatID != "" {
		delete(s.seatConns, seatID)
	}
	if roomID != "" {
		if set, ok := s.roomConns[roomID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(s.roomConns, roomID)
			}
		}
	}
	s.mu.Unlock()

	if roomID == "" || seatID == "" {
		return
	}
	ctrl, ok := s.registry.Lookup(roomID)
	if !ok {
		return
	}

	if ctrl.HandInProgress() {
		ctrl.MarkAway(seatID)
		return
	}

	empty, err := ctrl.Leave(seatID)
	if err != nil {
		s.logger.Debug("disconnect leave failed", "error", err, "seatId", seatID)
		return
	}
	if empty {
		s.registry.Dissolve(roomID)
	}
}

// Deliver implements room.Sink. It is called synchronously from inside
// a Controller's locked methods, so it must never block longer than a
// single best-effort send per recipient (§5's suspension-point rule).
func (s *Server) Deliver(roomID string, d room.Delivery) {
	switch d.Scope {
	case room.ScopeSeat:
		s.mu.RLock()
		conn, ok := s.seatConns[d.SeatID]
		s.mu.RUnlock()
		if ok {
			conn.Send(d.Message)
		}

	case room.ScopeBroadcast:
		s.mu.RLock()
		set := s.roomConns[roomID]
		conns := make([]*Connection, 0, len(set))
		for c := range set {
			conns = append(conns, c)
		}
		s.mu.RUnlock()
		for _, c := range conns {
			c.Send(d.Message)
		}
	}
}

func (s *Server) bindConnection(c *Connection, roomID, seatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.bind(roomID, seatID)
	s.seatConns[seatID] = c
	if s.roomConns[roomID] == nil {
		s.roomConns[roomID] = make(map[*Connection]struct{})
	}
	s.roomConns[roomID][c] = struct{}{}
}

func sendErr(c *Connection, format string, args ...interface{}) {
	msg, err := protocol.NewMessage(protocol.MessageTypeError, protocol.ErrorEvent{
		Message: fmt.Sprintf(format, args...),
	})
	if err != nil {
		return
	}
	c.Send(msg)
}
