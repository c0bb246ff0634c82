package room

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltstack/holdem-core/internal/engine"
	"github.com/feltstack/holdem-core/internal/gameid"
	"github.com/feltstack/holdem-core/internal/protocol"
)

var (
	ErrRoomFull       = errors.New("room: seat limit reached")
	ErrSeatNotFound   = errors.New("room: no such seat")
	ErrGameInProgress = errors.New("room: a hand is already in progress")
	ErrShuttingDown   = errors.New("room: controller is shutting down")
	ErrInterHandDelay = errors.New("room: waiting out the inter-hand delay")
)

// Controller owns exactly one engine.HandState at a time (§4.E). All of
// its exported methods take its mutex for the duration of the call,
// satisfying the single-writer discipline §5 requires; nothing here
// ever blocks on connection I/O.
type Controller struct {
	mu sync.Mutex

	room *engine.Room
	hand *engine.HandState
	cfg  Config

	clock     quartz.Clock
	turnTimer *quartz.Timer
	pacer     *quartz.Timer

	dealerSeatID     string
	away             map[string]bool
	interHandPending bool
	shutdown         bool
	startingTotal    int

	sink   Sink
	logger *log.Logger
}

// NewController creates a Controller for a freshly registered room.
func NewController(id, name string, cfg Config, clock quartz.Clock, sink Sink, logger *log.Logger) *Controller {
	return &Controller{
		room:   engine.NewRoom(id, name, cfg.MaxSeats, cfg.SmallBlind, cfg.BigBlind),
		cfg:    cfg,
		clock:  clock,
		away:   make(map[string]bool),
		sink:   sink,
		logger: logger.WithPrefix("room").With("roomId", id),
	}
}

// RoomID returns the controller's room ID without taking the lock; it
// is immutable for the controller's lifetime.
func (c *Controller) RoomID() string { return c.room.ID }

// HandInProgress reports whether a hand is currently being played, the
// condition the disconnect policy (§4.E) branches on.
func (c *Controller) HandInProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hand != nil
}

// Summary renders the room listing shape for get-rooms / room-created.
func (c *Controller) Summary() protocol.RoomSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

func (c *Controller) summaryLocked() protocol.RoomSummary {
	return protocol.RoomSummary{
		RoomID:     c.room.ID,
		RoomName:   c.room.Name,
		SeatCount:  len(c.room.Seats),
		MaxSeats:   c.room.MaxSeats,
		InProgress: c.hand != nil,
	}
}

// Join seats a new player, broadcasts player-joined, and returns the
// new seat ID.
func (c *Controller) Join(displayName string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return "", ErrShuttingDown
	}

	seat := &engine.Seat{
		ID:          newSeatID(c.room),
		DisplayName: displayName,
		Chips:       c.cfg.StartingChips,
	}
	if !c.room.AddSeat(seat) {
		return "", ErrRoomFull
	}

	broadcast(c.room.ID, c.sink, protocol.MessageTypePlayerJoined, protocol.PlayerJoinedEvent{
		RoomID:      c.room.ID,
		SeatID:      seat.ID,
		DisplayName: seat.DisplayName,
	})

	return seat.ID, nil
}

// Leave vacates a seat. Mid-hand, the seat folds in place rather than
// being removed from the seating order, since removing an acting seat
// would corrupt playerOrder indices the engine is relying on; it is
// marked out and removed from the seating order when the pacer deals the
// next hand. It reports whether
// the room is now empty of seats and has no hand in progress, the
// Registry's dissolution condition (§4.F).
func (c *Controller) Leave(seatID string) (empty bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seat, ok := c.room.SeatByID(seatID)
	if !ok {
		return false, ErrSeatNotFound
	}

	if c.hand != nil && seat.Status == engine.StatusActive && seatID == c.hand.CurrentSeatID() {
		c.applyActionLocked(seatID, engine.ActionFold, 0)
	} else if c.hand != nil && (seat.Status == engine.StatusActive || seat.Status == engine.StatusAllIn) {
		seat.Status = engine.StatusFolded
	}

	if c.hand == nil {
		c.room.RemoveSeat(seatID)
	} else {
		seat.Status = engine.StatusOut
	}
	delete(c.away, seatID)

	broadcast(c.room.ID, c.sink, protocol.MessageTypePlayerLeft, protocol.PlayerLeftEvent{
		RoomID: c.room.ID,
		SeatID: seatID,
	})

	return len(c.room.Seats) == 0 && c.hand == nil, nil
}

// MarkAway flags a seat as disconnected without evicting it (§4.E
// disconnect policy); the turn timer's auto-action covers its turns
// until it reconnects or leaves between hands.
func (c *Controller) MarkAway(seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.away[seatID] = true
}

// MarkPresent clears a seat's away flag on reconnection.
func (c *Controller) MarkPresent(seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.away, seatID)
}

// Rejoin re-binds a reconnecting connection to a seat it still holds.
// It fails if the seat was already removed from the room (e.g. it left
// for good between hands), but otherwise just clears the away flag;
// the next view the seat receives is whatever renderGameView produces
// for the hand currently in progress, if any.
func (c *Controller) Rejoin(seatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.room.SeatByID(seatID); !ok {
		return ErrSeatNotFound
	}
	delete(c.away, seatID)
	return nil
}

// StartGame deals the first hand. It is a no-op error if a hand is
// already running; once the first hand completes, subsequent hands are
// started automatically by the inter-hand pacer, not by this method.
// Per §4.E, startHand intents arriving during the inter-hand delay are
// ignored rather than starting a hand early.
func (c *Controller) StartGame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hand != nil {
		return ErrGameInProgress
	}
	if c.interHandPending {
		return ErrInterHandDelay
	}
	eligible := c.room.EligibleSeats()
	if len(eligible) < 2 {
		return engine.ErrNotEnoughSeats
	}
	c.dealerSeatID = eligible[0].ID
	return c.startHandLocked()
}

func (c *Controller) startHandLocked() error {
	c.startingTotal = engine.StartingTotal(c.room)
	hand, events, err := engine.StartHand(c.room, c.dealerSeatID)
	if err != nil {
		return err
	}
	c.hand = hand
	c.publishEvents(events)
	if c.hand == nil {
		return nil
	}
	if err := engine.ValidateConservation(c.room, c.startingTotal); err != nil {
		c.abortHand(err)
		return nil
	}
	c.armTurnTimer()
	return nil
}

// ApplyAction validates and applies one seat's decision, exactly as if
// it arrived from the wire.
func (c *Controller) ApplyAction(seatID string, actionType engine.ActionType, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hand == nil {
		return engine.ErrHandNotInPlay
	}
	return c.applyActionLocked(seatID, actionType, amount)
}

func (c *Controller) applyActionLocked(seatID string, actionType engine.ActionType, amount int) error {
	c.stopTurnTimer()
	events, err := engine.ApplyAction(c.room, c.hand, seatID, engine.Action{Type: actionType, Amount: amount})
	if err != nil {
		c.logger.Debug("action rejected", "seatId", seatID, "action", actionType, "error", err)
		c.armTurnTimer()
		return err
	}
	c.publishEvents(events)
	if err := engine.ValidateConservation(c.room, c.startingTotal); err != nil {
		c.abortHand(err)
		return nil
	}
	if c.hand != nil && c.hand.Phase != engine.PhaseComplete {
		c.armTurnTimer()
	}
	return nil
}

// abortHand implements §7d: a chip-conservation violation means the
// engine corrupted state rather than a seat making a bad move, so the
// hand cannot continue. It refunds every seat's live contribution from
// the current hand, tells the room why, and ends the game rather than
// risk dealing another hand against a state that no longer balances.
func (c *Controller) abortHand(cause error) {
	c.logger.Error("aborting hand: chip conservation violated", "error", cause)
	c.stopTurnTimer()

	if c.hand != nil {
		for seatID, amount := range c.hand.Contributions {
			if seat, ok := c.room.SeatByID(seatID); ok {
				seat.Chips += amount
			}
		}
		c.hand = nil
		c.room.Hand = nil
	}

	broadcast(c.room.ID, c.sink, protocol.MessageTypeError, protocol.ErrorEvent{
		Message: "internal error: hand aborted, chips refunded",
	})
	broadcast(c.room.ID, c.sink, protocol.MessageTypeGameOver, protocol.GameOverEvent{
		FinalStandings: standings(c.room),
	})
}

// publishEvents fans engine events out to wire messages in the order
// they were produced, materializing a fresh GameView per recipient for
// hand-started, street-advanced and action-applied events; action-required
// and hand-complete are broadcast without a GameView.
func (c *Controller) publishEvents(events []engine.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case engine.HandStartedEvent:
			c.logger.Info("hand started", "handNumber", c.room.HandNumber, "dealer", e.DealerSeatID, "seats", len(e.PlayerOrder))
			c.broadcastViews(protocol.MessageTypeGameStarted, func(seatID string) interface{} {
				return protocol.GameStartedEvent{GameView: renderGameView(c.room, c.hand, seatID)}
			})

		case engine.StreetAdvancedEvent:
			c.logger.Info("street advanced", "phase", e.Phase, "handNumber", c.room.HandNumber)
			c.broadcastViews(protocol.MessageTypeGameUpdated, func(seatID string) interface{} {
				return protocol.GameUpdatedEvent{GameView: renderGameView(c.room, c.hand, seatID)}
			})

		case engine.ActionAppliedEvent:
			c.broadcastViews(protocol.MessageTypeGameUpdated, func(seatID string) interface{} {
				return protocol.GameUpdatedEvent{GameView: renderGameView(c.room, c.hand, seatID)}
			})

		case engine.ActionRequiredEvent:
			legal := make([]string, len(e.LegalActions))
			for i, a := range e.LegalActions {
				legal[i] = string(a)
			}
			broadcast(c.room.ID, c.sink, protocol.MessageTypeActionReq, protocol.ActionRequiredEvent{
				SeatID:       e.SeatID,
				LegalActions: legal,
				TurnDeadline: c.clock.Now().Add(c.cfg.TurnTimeout).UnixMilli(),
			})

		case engine.HandCompleteEvent:
			awarded := 0
			for _, w := range e.Winners {
				awarded += w.Amount
			}
			c.logger.Info("hand complete", "handNumber", c.room.HandNumber, "pot", awarded, "showdown", e.IsShowdown)
			payload := renderHandComplete(c.room, c.hand, e)
			broadcast(c.room.ID, c.sink, protocol.MessageTypeHandComplete, payload)
			c.onHandComplete()
		}
	}
}

func (c *Controller) broadcastViews(msgType protocol.MessageType, build func(seatID string) interface{}) {
	for _, s := range c.room.Seats {
		sendTo(c.room.ID, c.sink, s.ID, msgType, build(s.ID))
	}
}

// onHandComplete arms the inter-hand pacer and rotates the dealer for
// whichever hand comes next, per §4.E.
func (c *Controller) onHandComplete() {
	c.hand = nil
	c.room.Hand = nil
	c.interHandPending = true
	c.dealerSeatID = nextDealer(c.room, c.dealerSeatID)

	c.pacer = c.clock.AfterFunc(c.cfg.InterHandDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.afterInterHandDelay()
	})
}

func (c *Controller) afterInterHandDelay() {
	c.interHandPending = false
	if c.shutdown {
		return
	}

	eligible := c.room.EligibleSeats()
	switch len(eligible) {
	case 0:
		c.logger.Info("game over", "winner", "")
		broadcast(c.room.ID, c.sink, protocol.MessageTypeGameOver, protocol.GameOverEvent{
			FinalStandings: standings(c.room),
		})
	case 1:
		c.logger.Info("game over", "winner", eligible[0].ID)
		broadcast(c.room.ID, c.sink, protocol.MessageTypeGameOver, protocol.GameOverEvent{
			Winner:         eligible[0].ID,
			FinalStandings: standings(c.room),
		})
	default:
		for _, s := range append([]*engine.Seat(nil), c.room.Seats...) {
			if s.Status == engine.StatusOut {
				c.room.RemoveSeat(s.ID)
			}
		}
		if err := c.startHandLocked(); err != nil {
			c.logger.Error("failed to start next hand", "error", err)
		}
	}
}

func standings(r *engine.Room) []protocol.Standing {
	out := make([]protocol.Standing, 0, len(r.Seats))
	for _, s := range r.Seats {
		out = append(out, protocol.Standing{SeatID: s.ID, Chips: s.Chips, Out: s.Chips <= 0})
	}
	return out
}

func (c *Controller) armTurnTimer() {
	if c.hand == nil {
		return
	}
	seatID := c.hand.CurrentSeatID()
	c.turnTimer = c.clock.AfterFunc(c.cfg.TurnTimeout, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.onTurnTimeout(seatID)
	})
}

func (c *Controller) stopTurnTimer() {
	if c.turnTimer != nil {
		c.turnTimer.Stop()
		c.turnTimer = nil
	}
}

// onTurnTimeout synthesizes the auto-action policy: check if legal,
// else fold. It is idempotent against a timer that fires after the
// turn already advanced (cancellation races), since at that point
// seatID no longer matches the seat on the clock and the action would
// be rejected as not-your-turn; we just drop it silently instead.
func (c *Controller) onTurnTimeout(seatID string) {
	if c.hand == nil || c.hand.CurrentSeatID() != seatID {
		return
	}
	legal := engine.LegalActions(c.room, c.hand, seatID)
	auto := engine.ActionFold
	for _, a := range legal {
		if a == engine.ActionCheck {
			auto = engine.ActionCheck
			break
		}
	}
	_ = c.applyActionLocked(seatID, auto, 0)
}

// Shutdown cancels all outstanding timers and rejects further intents.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = true
	c.stopTurnTimer()
	if c.pacer != nil {
		c.pacer.Stop()
	}
}

func nextDealer(r *engine.Room, currentDealerID string) string {
	eligible := r.EligibleSeats()
	if len(eligible) == 0 {
		return ""
	}
	idx := -1
	for i, s := range eligible {
		if s.ID == currentDealerID {
			idx = i
			break
		}
	}
	return eligible[(idx+1)%len(eligible)].ID
}

func newSeatID(r *engine.Room) string {
	for {
		id := gameid.Generate()
		if _, exists := r.SeatByID(id); !exists {
			return id
		}
	}
}
