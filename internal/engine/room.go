// Package engine is the rules-complete, deterministic-on-input state
// machine for one hand of no-limit Texas Hold'em: blind posting,
// betting-round progression, legal-action derivation, all-in handling
// with side pots, hand evaluation, and pot distribution. Every exported
// function here is pure with respect to its arguments and never blocks;
// callers own all suspension (timers, I/O).
package engine

import "github.com/feltstack/holdem-core/internal/deck"

// SeatStatus is a seat's standing within the current hand.
type SeatStatus string

const (
	StatusWaiting SeatStatus = "waiting"
	StatusActive  SeatStatus = "active"
	StatusFolded  SeatStatus = "folded"
	StatusAllIn   SeatStatus = "allin"
	StatusOut     SeatStatus = "out"
)

// Seat is the durable identity of a player at a Room for the session.
type Seat struct {
	ID          string
	DisplayName string
	Chips       int
	Status      SeatStatus
	HoleCards   []deck.Card
	Dealer      bool
	SmallBlind  bool
	BigBlind    bool
}

// IsEligible reports whether the seat can be dealt into the next hand.
func (s *Seat) IsEligible() bool {
	return s.Chips > 0 && s.Status != StatusOut
}

// Room holds the seats at a table, in seating order, and the hand
// currently in progress, if any.
type Room struct {
	ID               string
	Name             string
	Seats            []*Seat
	MaxSeats         int
	SmallBlindAmount int
	BigBlindAmount   int
	Hand             *HandState
	HandNumber       int
}

// NewRoom builds an empty room with the given blinds and seat cap.
func NewRoom(id, name string, maxSeats, smallBlind, bigBlind int) *Room {
	return &Room{
		ID:               id,
		Name:             name,
		MaxSeats:         maxSeats,
		SmallBlindAmount: smallBlind,
		BigBlindAmount:   bigBlind,
	}
}

// SeatByID returns the seat with the given ID, if seated.
func (r *Room) SeatByID(seatID string) (*Seat, bool) {
	for _, s := range r.Seats {
		if s.ID == seatID {
			return s, true
		}
	}
	return nil, false
}

// IndexOf returns the seating-order index of a seat, or -1 if not seated.
func (r *Room) IndexOf(seatID string) int {
	for i, s := range r.Seats {
		if s.ID == seatID {
			return i
		}
	}
	return -1
}

// EligibleSeats returns seats with chips remaining that are not out, in
// seating order.
func (r *Room) EligibleSeats() []*Seat {
	var out []*Seat
	for _, s := range r.Seats {
		if s.IsEligible() {
			out = append(out, s)
		}
	}
	return out
}

// AddSeat appends a new seat in waiting status at the end of the seating
// order. It returns false if the room is already full.
func (r *Room) AddSeat(seat *Seat) bool {
	if len(r.Seats) >= r.MaxSeats {
		return false
	}
	seat.Status = StatusWaiting
	r.Seats = append(r.Seats, seat)
	return true
}

// RemoveSeat drops a seat from the seating order entirely. Callers must
// not call this while a hand is in progress for that seat; mid-hand
// departures are handled by forced-folding instead (see the room
// controller).
func (r *Room) RemoveSeat(seatID string) {
	for i, s := range r.Seats {
		if s.ID == seatID {
			r.Seats = append(r.Seats[:i], r.Seats[i+1:]...)
			return
		}
	}
}
