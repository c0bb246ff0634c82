package engine

import (
	"fmt"

	"github.com/feltstack/holdem-core/internal/deck"
)

// Phase is a hand's position in the street sequence.
type Phase string

const (
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseComplete Phase = "complete"
)

// HandState is the complete, mutable state of one hand in progress. It is
// owned exclusively by the room controller serializing access to it; the
// engine itself performs no locking.
type HandState struct {
	Phase          Phase
	Deck           *deck.Deck
	CommunityCards []deck.Card
	Pot            int
	CurrentBet     int
	MinRaise       int
	BigBlind       int
	DealerIndex    int
	PlayerOrder    []string
	CurrentIndex   int
	RoundBets      map[string]int
	Contributions  map[string]int
	ActedThisRound map[string]bool
	LastRaiserID   string
}

// currentSeatID returns the seat ID whose turn it is.
func (h *HandState) currentSeatID() string {
	return h.PlayerOrder[h.CurrentIndex]
}

// CurrentSeatID returns the seat ID whose turn it is. Valid for any
// phase before PhaseComplete.
func (h *HandState) CurrentSeatID() string {
	return h.currentSeatID()
}

// ValidateConservation checks the fatal invariant that no chips were
// created or destroyed: every seat's remaining chips plus the hand's pot
// must equal the total the hand started with. A violation means the
// engine has a bug and the caller should abort the hand rather than
// continue applying further actions to corrupted state.
func ValidateConservation(room *Room, startingTotal int) error {
	total := 0
	for _, s := range room.Seats {
		total += s.Chips
	}
	if room.Hand != nil {
		total += room.Hand.Pot
	}
	if total != startingTotal {
		return fmt.Errorf("engine: chip conservation violated: have %d, want %d", total, startingTotal)
	}
	return nil
}

// StartingTotal sums every seat's chips plus any pot already in play. It
// is called once before a hand starts so the controller has a baseline
// to pass to ValidateConservation afterward.
func StartingTotal(room *Room) int {
	total := 0
	for _, s := range room.Seats {
		total += s.Chips
	}
	if room.Hand != nil {
		total += room.Hand.Pot
	}
	return total
}
