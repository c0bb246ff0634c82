// Package registry is the process-wide mapping of room identifier to
// Room Controller (§4.F). It owns room creation and dissolution; it
// never holds its own lock while calling into a Controller.
package registry

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltstack/holdem-core/internal/gameid"
	"github.com/feltstack/holdem-core/internal/protocol"
	"github.com/feltstack/holdem-core/internal/room"
)

// ErrRoomNotFound is returned when a room ID has no live Controller.
var ErrRoomNotFound = errors.New("registry: no such room")

// Registry maps room IDs to their Controller. A Controller is created on
// the first join of a new room and dissolved once its last seat leaves
// with no hand in progress.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*room.Controller
	cfg    room.Config
	clock  quartz.Clock
	sink   room.Sink
	logger *log.Logger
}

// New builds an empty Registry. sink receives every Controller's
// deliveries, addressed by room ID, for the Message Router to resolve
// to live connections.
func New(cfg room.Config, clock quartz.Clock, sink room.Sink, logger *log.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*room.Controller),
		cfg:    cfg,
		clock:  clock,
		sink:   sink,
		logger: logger.WithPrefix("registry"),
	}
}

// CreateRoom allocates a fresh Controller under a newly generated room
// ID, regenerating on the vanishingly unlikely collision (§4.F).
func (reg *Registry) CreateRoom(name string) *room.Controller {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var id string
	for {
		id = gameid.Generate()
		if _, exists := reg.rooms[id]; !exists {
			break
		}
	}

	ctrl := room.NewController(id, name, reg.cfg, reg.clock, reg.sink, reg.logger)
	reg.rooms[id] = ctrl
	reg.logger.Info("room created", "roomId", id, "name", name)
	return ctrl
}

// Lookup returns the Controller for roomID, if one is live.
func (reg *Registry) Lookup(roomID string) (*room.Controller, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ctrl, ok := reg.rooms[roomID]
	return ctrl, ok
}

// Dissolve removes roomID's Controller from the registry and cancels
// its outstanding timers. Callers pass this as the continuation of a
// Leave call that reported the room now empty; Dissolve itself re-checks
// nothing, so callers must not call it for a room that still has seats.
func (reg *Registry) Dissolve(roomID string) {
	reg.mu.Lock()
	ctrl, ok := reg.rooms[roomID]
	if ok {
		delete(reg.rooms, roomID)
	}
	reg.mu.Unlock()

	if ok {
		ctrl.Shutdown()
		reg.logger.Info("room dissolved", "roomId", roomID)
	}
}

// List renders the room listing for get-rooms, in an unspecified order.
func (reg *Registry) List() []protocol.RoomSummary {
	reg.mu.RLock()
	ctrls := make([]*room.Controller, 0, len(reg.rooms))
	for _, ctrl := range reg.rooms {
		ctrls = append(ctrls, ctrl)
	}
	reg.mu.RUnlock()

	out := make([]protocol.RoomSummary, 0, len(ctrls))
	for _, ctrl := range ctrls {
		out = append(out, ctrl.Summary())
	}
	return out
}

// Shutdown dissolves every room, cancelling all outstanding timers.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	ctrls := make([]*room.Controller, 0, len(reg.rooms))
	for _, ctrl := range reg.rooms {
		ctrls = append(ctrls, ctrl)
	}
	reg.rooms = make(map[string]*room.Controller)
	reg.mu.Unlock()

	for _, ctrl := range ctrls {
		ctrl.Shutdown()
	}
}
