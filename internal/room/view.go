package room

import (
	"github.com/feltstack/holdem-core/internal/engine"
	"github.com/feltstack/holdem-core/internal/protocol"
)

// renderGameView materializes the per-seat view §4.E requires: public
// fields for every seat, plus myCards for recipientSeatID alone.
func renderGameView(r *engine.Room, hand *engine.HandState, recipientSeatID string) protocol.GameView {
	view := protocol.GameView{
		RoomID:     r.ID,
		HandNumber: r.HandNumber,
	}

	if hand != nil {
		view.Phase = string(hand.Phase)
		view.Pot = hand.Pot
		view.CurrentBet = hand.CurrentBet
		view.CommunityCards = hand.CommunityCards
		if hand.Phase != engine.PhaseComplete {
			view.CurrentSeatID = hand.CurrentSeatID()
		}
	}

	for _, s := range r.Seats {
		sv := protocol.SeatView{
			SeatID:      s.ID,
			DisplayName: s.DisplayName,
			Chips:       s.Chips,
			Status:      string(s.Status),
			IsDealer:    s.Dealer,
			IsSmallBlnd: s.SmallBlind,
			IsBigBlind:  s.BigBlind,
			HandSize:    len(s.HoleCards),
		}
		if hand != nil {
			sv.RoundBet = hand.RoundBets[s.ID]
		}
		if s.ID == recipientSeatID {
			sv.MyCards = s.HoleCards
		}
		view.Seats = append(view.Seats, sv)
	}

	return view
}

// renderHandComplete turns an engine.HandCompleteEvent into the wire
// payload, revealing holeCards only for seats that reached showdown
// (status active or allIn) and only when the hand went to showdown.
func renderHandComplete(r *engine.Room, hand *engine.HandState, event engine.HandCompleteEvent) protocol.HandCompleteEvent {
	out := protocol.HandCompleteEvent{
		CommunityCards: event.CommunityCards,
		IsShowdown:     event.IsShowdown,
	}
	for _, w := range event.Winners {
		out.Winners = append(out.Winners, protocol.WinnerShare{SeatID: w.SeatID, Amount: w.Amount, HandDescription: w.Description})
		out.Pot += w.Amount
	}

	for _, id := range hand.PlayerOrder {
		seat, ok := r.SeatByID(id)
		if !ok {
			continue
		}
		rp := protocol.RevealedPlayer{SeatID: seat.ID, Chips: seat.Chips}
		if event.IsShowdown && (seat.Status == engine.StatusActive || seat.Status == engine.StatusAllIn) {
			rp.HoleCards = seat.HoleCards
		}
		out.Players = append(out.Players, rp)
	}

	return out
}
