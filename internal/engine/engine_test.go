package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltstack/holdem-core/internal/deck"
)

func newTestRoom(stacks ...int) *Room {
	room := NewRoom("room-1", "test", 6, 10, 20)
	for i, chips := range stacks {
		room.Seats = append(room.Seats, &Seat{
			ID:          seatLabel(i),
			DisplayName: seatLabel(i),
			Chips:       chips,
			Status:      StatusWaiting,
		})
	}
	return room
}

func seatLabel(i int) string {
	return string(rune('A' + i))
}

func TestHeadsUpFoldToBigBlind(t *testing.T) {
	room := newTestRoom(1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	a, _ := room.SeatByID("A")
	b, _ := room.SeatByID("B")
	require.Equal(t, 990, a.Chips)
	require.Equal(t, 980, b.Chips)
	require.Equal(t, 30, hand.Pot)

	_, err = ApplyAction(room, hand, "A", Action{Type: ActionFold})
	require.NoError(t, err)

	require.Equal(t, PhaseComplete, hand.Phase)
	require.Equal(t, 990, a.Chips)
	require.Equal(t, 1010, b.Chips)
}

// With three seats A, B, C and A as dealer, StartHand makes B the small
// blind, C the big blind, and A (the dealer) first to act preflop; after
// the flop action resumes from the seat left of the dealer, B.

func TestCheckThroughToRiverShowdownAwardsPot(t *testing.T) {
	room := newTestRoom(1000, 1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	_, err = ApplyAction(room, hand, "A", Action{Type: ActionCall})
	require.NoError(t, err)
	_, err = ApplyAction(room, hand, "B", Action{Type: ActionCall})
	require.NoError(t, err)
	_, err = ApplyAction(room, hand, "C", Action{Type: ActionCheck})
	require.NoError(t, err)
	require.Equal(t, PhaseFlop, hand.Phase)
	require.Equal(t, 60, hand.Pot)

	for _, street := range []Phase{PhaseFlop, PhaseTurn, PhaseRiver} {
		require.Equal(t, street, hand.Phase)
		_, err = ApplyAction(room, hand, "B", Action{Type: ActionCheck})
		require.NoError(t, err)
		_, err = ApplyAction(room, hand, "C", Action{Type: ActionCheck})
		require.NoError(t, err)
		_, err = ApplyAction(room, hand, "A", Action{Type: ActionCheck})
		require.NoError(t, err)
	}

	require.Equal(t, PhaseComplete, hand.Phase)
	totalChips := 0
	for _, s := range room.Seats {
		totalChips += s.Chips
	}
	require.Equal(t, 3000, totalChips)
}

func TestBigBlindOptionNotCall(t *testing.T) {
	room := newTestRoom(1000, 1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	_, err = ApplyAction(room, hand, "A", Action{Type: ActionCall})
	require.NoError(t, err)
	_, err = ApplyAction(room, hand, "B", Action{Type: ActionCall})
	require.NoError(t, err)

	legal := LegalActions(room, hand, "C")
	require.Contains(t, legal, ActionCheck)
	require.NotContains(t, legal, ActionCall)
}

func TestSidePotSplitThreeWay(t *testing.T) {
	room := newTestRoom(1000, 1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	a, _ := room.SeatByID("A")
	b, _ := room.SeatByID("B")
	c, _ := room.SeatByID("C")

	// Force the scenario's final contributions directly: A=200, B=500, C=500.
	a.Chips = 1000 - hand.RoundBets["A"]
	b.Chips = 1000 - hand.RoundBets["B"]
	c.Chips = 1000 - hand.RoundBets["C"]
	hand.Contributions = map[string]int{"A": 200, "B": 500, "C": 500}
	hand.Pot = 1200
	hand.Phase = PhaseRiver
	hand.CommunityCards = []deck.Card{
		deck.NewCard(deck.Two, deck.Clubs), deck.NewCard(deck.Five, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Hearts), deck.NewCard(deck.Three, deck.Spades),
		deck.NewCard(deck.Jack, deck.Clubs),
	}
	a.HoleCards = []deck.Card{deck.NewCard(deck.Ace, deck.Spades), deck.NewCard(deck.Ace, deck.Hearts)}
	b.HoleCards = []deck.Card{deck.NewCard(deck.King, deck.Spades), deck.NewCard(deck.King, deck.Hearts)}
	c.HoleCards = []deck.Card{deck.NewCard(deck.Seven, deck.Diamonds), deck.NewCard(deck.Six, deck.Clubs)}

	events := resolve(room, hand)
	require.Len(t, events, 1)
	complete := events[0].(HandCompleteEvent)
	require.True(t, complete.IsShowdown)

	won := map[string]int{}
	described := map[string]string{}
	for _, w := range complete.Winners {
		won[w.SeatID] = w.Amount
		described[w.SeatID] = w.Description
	}
	require.Equal(t, 600, won["A"])
	require.Equal(t, 600, won["B"])
	require.Equal(t, 0, won["C"])
	require.Contains(t, described["A"], "Pair", "A's pocket aces should describe as at least a pair")
	require.Contains(t, described["B"], "Pair", "B's pocket kings should describe as at least a pair")
}

func TestResolveUncontestedPotIsNotRanked(t *testing.T) {
	room := newTestRoom(1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	events, err := ApplyAction(room, hand, "A", Action{Type: ActionFold})
	require.NoError(t, err)

	var complete HandCompleteEvent
	for _, ev := range events {
		if hc, ok := ev.(HandCompleteEvent); ok {
			complete = hc
		}
	}
	require.False(t, complete.IsShowdown)
	require.Len(t, complete.Winners, 1)
	require.False(t, complete.Winners[0].Ranked)
	require.Empty(t, complete.Winners[0].Description)
}

func TestAllInUnderMinRaiseDoesNotReopenAction(t *testing.T) {
	room := newTestRoom(1000, 130, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)
	require.Equal(t, 20, hand.CurrentBet)
	require.Equal(t, 20, hand.MinRaise)
	require.Equal(t, "C", hand.LastRaiserID, "the big blind is the initial last raiser")

	// A acts first, then B (the small blind) is on the clock.
	_, err = ApplyAction(room, hand, "A", Action{Type: ActionCall})
	require.NoError(t, err)

	// Shrink B's remaining stack so an all-in raises above the current
	// bet (20) but short of a full min-raise (40): B already has 10 in
	// from the small blind, and 15 more chips takes the bet to 25.
	b, _ := room.SeatByID("B")
	b.Chips = 15
	_, err = ApplyAction(room, hand, "B", Action{Type: ActionAllIn})
	require.NoError(t, err)
	require.Equal(t, 25, hand.CurrentBet)
	require.Equal(t, 20, hand.MinRaise, "an under-sized all-in raise must not change minRaise")
	require.Equal(t, "C", hand.LastRaiserID, "an under-sized all-in raise must not reopen the action")
}

func TestTurnTimeoutAutoActionRequiresControllerPolicy(t *testing.T) {
	room := newTestRoom(1000, 1000)
	hand, _, err := StartHand(room, "A")
	require.NoError(t, err)

	legal := LegalActions(room, hand, hand.currentSeatID())
	autoAction := ActionFold
	for _, a := range legal {
		if a == ActionCheck {
			autoAction = ActionCheck
			break
		}
	}
	_, err = ApplyAction(room, hand, hand.currentSeatID(), Action{Type: autoAction})
	require.NoError(t, err)
}
