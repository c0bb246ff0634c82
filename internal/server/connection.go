package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/feltstack/holdem-core/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Connection wraps one WebSocket client. It has no knowledge of rooms or
// the engine; it only frames protocol.Message values on and off the
// wire and hands inbound ones to the Server's router.
type Connection struct {
	conn   *websocket.Conn
	send   chan *protocol.Message
	server *Server
	logger *log.Logger

	mu     sync.RWMutex
	roomID string
	seatID string

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps an upgraded WebSocket in a Connection. Callers
// must call Start to begin pumping messages.
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *protocol.Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the read and write pumps as their own goroutines; the
// only suspension points in the server are here and in the room
// controller's timers (§5).
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done returns a channel closed once the connection's context is
// cancelled, for the caller's unregister-on-exit goroutine.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Close tears down the connection idempotently.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Send enqueues an outbound message, dropping it silently if the
// connection's buffer is full or already closing — a transient delivery
// failure (§7c) never rolls back room state.
func (c *Connection) Send(msg *protocol.Message) {
	defer func() {
		_ = recover() // send on a closed channel during a close race
	}()
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// Room / Seat reports the connection's current binding, set by the
// router once a create-room or join-room intent succeeds.
func (c *Connection) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Connection) Seat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seatID
}

func (c *Connection) bind(roomID, seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
	c.seatID = seatID
}

func (c *Connection) unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = ""
	c.seatID = ""
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("read error", "error", err)
			}
			return
		}
		c.server.handleMessage(c, &msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
