package engine

import "github.com/feltstack/holdem-core/internal/deck"

// EventType discriminates the structured events the engine emits after
// every state transition. The room controller fans each one out through
// the message router; the engine itself never performs I/O.
type EventType string

const (
	EventHandStarted    EventType = "hand_started"
	EventStreetAdvanced EventType = "street_advanced"
	EventActionApplied  EventType = "action_applied"
	EventActionRequired EventType = "action_required"
	EventHandComplete   EventType = "hand_complete"
)

// Event is the common interface every engine event satisfies.
type Event interface {
	EventType() EventType
}

// HandStartedEvent fires once per hand, immediately after blinds post.
type HandStartedEvent struct {
	DealerSeatID     string
	SmallBlindSeatID string
	BigBlindSeatID   string
	PlayerOrder      []string
}

func (HandStartedEvent) EventType() EventType { return EventHandStarted }

// StreetAdvancedEvent fires whenever the phase moves to flop, turn, or
// river, carrying the community cards dealt so far. The move to showdown
// emits no StreetAdvancedEvent; it ends in the HandCompleteEvent.
type StreetAdvancedEvent struct {
	Phase          Phase
	CommunityCards []deck.Card
}

func (StreetAdvancedEvent) EventType() EventType { return EventStreetAdvanced }

// ActionAppliedEvent fires after every successfully applied player
// action. Blind postings at hand start emit no ActionAppliedEvent; they
// are already reflected in the state that follows HandStartedEvent.
type ActionAppliedEvent struct {
	SeatID     string
	Action     ActionType
	Amount     int
	ChipsAfter int
	PotAfter   int
}

func (ActionAppliedEvent) EventType() EventType { return EventActionApplied }

// ActionRequiredEvent names the seat now on the clock and its exact
// legal actions, derived fresh from the current state.
type ActionRequiredEvent struct {
	SeatID       string
	LegalActions []ActionType
	ToCall       int
	MinRaiseTo   int
}

func (ActionRequiredEvent) EventType() EventType { return EventActionRequired }

// WinnerShare is one seat's total award for the hand, summed over every
// pot (including any uncalled-bet return) it receives.
type WinnerShare struct {
	SeatID      string
	Amount      int
	Ranked      bool   // false for a walk (no showdown), where no hand was evaluated
	Description string // e.g. "Two Pair, Aces and Kings"; empty when Ranked is false
}

// HandCompleteEvent fires exactly once, when the hand reaches
// PhaseComplete, carrying everything a showdown view needs to render.
type HandCompleteEvent struct {
	Winners        []WinnerShare
	CommunityCards []deck.Card
	IsShowdown     bool
}

func (HandCompleteEvent) EventType() EventType { return EventHandComplete }
