package engine

import (
	"errors"
	"fmt"

	"github.com/feltstack/holdem-core/internal/deck"
)

// ErrNotEnoughSeats is returned by StartHand when fewer than two seats
// have chips to play with.
var ErrNotEnoughSeats = errors.New("engine: need at least two eligible seats to start a hand")

// StartHand deals a new hand into the room. dealerSeatID must be the ID
// of an eligible seat; the caller (the room controller) is responsible
// for rotating it hand to hand. It returns the HandStartedEvent and the
// first ActionRequiredEvent for the seat now on the clock; when the
// blinds leave fewer than two seats able to act, the run-out's events
// follow the HandStartedEvent instead of an ActionRequiredEvent.
func StartHand(room *Room, dealerSeatID string) (*HandState, []Event, error) {
	eligible := room.EligibleSeats()
	if len(eligible) < 2 {
		return nil, nil, ErrNotEnoughSeats
	}

	playerOrder := make([]string, 0, len(eligible))
	dealerIdx := -1
	for _, s := range eligible {
		s.Status = StatusActive
		s.Dealer = false
		s.SmallBlind = false
		s.BigBlind = false
		playerOrder = append(playerOrder, s.ID)
		if s.ID == dealerSeatID {
			dealerIdx = len(playerOrder) - 1
		}
	}
	if dealerIdx == -1 {
		return nil, nil, fmt.Errorf("engine: dealer seat %s is not eligible", dealerSeatID)
	}

	n := len(playerOrder)
	var sbIdx, bbIdx, firstToActIdx int
	if n == 2 {
		sbIdx = dealerIdx
		bbIdx = (dealerIdx + 1) % n
		firstToActIdx = sbIdx
	} else {
		sbIdx = (dealerIdx + 1) % n
		bbIdx = (dealerIdx + 2) % n
		firstToActIdx = (bbIdx + 1) % n
	}

	d := deck.New()
	if err := d.Shuffle(); err != nil {
		return nil, nil, fmt.Errorf("engine: start hand: %w", err)
	}

	hand := &HandState{
		Phase:          PhasePreflop,
		Deck:           d,
		CommunityCards: nil,
		RoundBets:      make(map[string]int),
		Contributions:  make(map[string]int),
		ActedThisRound: make(map[string]bool),
		DealerIndex:    dealerIdx,
		PlayerOrder:    playerOrder,
		BigBlind:       room.BigBlindAmount,
	}

	for _, s := range eligible {
		s.HoleCards = d.Draw(2)
	}

	dealerSeat, _ := room.SeatByID(dealerSeatID)
	dealerSeat.Dealer = true
	sbSeat, _ := room.SeatByID(playerOrder[sbIdx])
	sbSeat.SmallBlind = true
	bbSeat, _ := room.SeatByID(playerOrder[bbIdx])
	bbSeat.BigBlind = true

	postBlind(room, hand, sbSeat, room.SmallBlindAmount)
	postBlind(room, hand, bbSeat, room.BigBlindAmount)

	hand.CurrentBet = room.BigBlindAmount
	hand.MinRaise = room.BigBlindAmount
	hand.LastRaiserID = bbSeat.ID
	hand.CurrentIndex = firstToActIdx

	room.Hand = hand
	room.HandNumber++

	events := []Event{
		HandStartedEvent{
			DealerSeatID:     dealerSeat.ID,
			SmallBlindSeatID: sbSeat.ID,
			BigBlindSeatID:   bbSeat.ID,
			PlayerOrder:      playerOrder,
		},
	}

	// A short-stacked blind can go all-in posting it (§4.D.1 step 5); if
	// that leaves fewer than two seats able to voluntarily act, there is
	// no preflop betting round to run, so the hand proceeds straight into
	// the same run-out §4.D.5 uses mid-hand instead of requiring an
	// action from a seat that cannot give one.
	if canActCount(room, hand) < 2 {
		events = append(events, advancePhase(room, hand)...)
		return hand, events, nil
	}

	hand.CurrentIndex = seekActiveIndex(room, hand, firstToActIdx)
	events = append(events, requireActionEvent(room, hand))
	return hand, events, nil
}

// seekActiveIndex returns idx if its seat is active, otherwise the
// nearest active seat at or after idx in playerOrder, wrapping around.
func seekActiveIndex(room *Room, hand *HandState, idx int) int {
	n := len(hand.PlayerOrder)
	for i := 0; i < n; i++ {
		candidate := (idx + i) % n
		seat, ok := room.SeatByID(hand.PlayerOrder[candidate])
		if ok && seat.Status == StatusActive {
			return candidate
		}
	}
	return idx
}

// postBlind transfers a blind from a seat's stack into the pot, capping
// it at the seat's remaining chips if it is short.
func postBlind(room *Room, hand *HandState, seat *Seat, amount int) {
	posted := amount
	if seat.Chips < posted {
		posted = seat.Chips
	}
	seat.Chips -= posted
	hand.RoundBets[seat.ID] = posted
	hand.Contributions[seat.ID] = posted
	hand.Pot += posted
	if seat.Chips == 0 {
		seat.Status = StatusAllIn
	}
}

// requireActionEvent derives the legal actions for the seat now on the
// clock and packages them as an ActionRequiredEvent.
func requireActionEvent(room *Room, hand *HandState) Event {
	seatID := hand.currentSeatID()
	toCall := hand.CurrentBet - hand.RoundBets[seatID]
	return ActionRequiredEvent{
		SeatID:       seatID,
		LegalActions: LegalActions(room, hand, seatID),
		ToCall:       toCall,
		MinRaiseTo:   hand.CurrentBet + hand.MinRaise,
	}
}
