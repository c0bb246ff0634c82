package engine

import (
	"github.com/feltstack/holdem-core/internal/deck"
	"github.com/feltstack/holdem-core/internal/evaluator"
	"github.com/feltstack/holdem-core/internal/pot"
)

// resolve implements §4.D.6. If exactly one seat remains in the hand it
// takes the entire pot uncontested; otherwise side pots are computed and
// each is awarded to the best hand among its eligible seats, splitting
// ties evenly with the odd chip going to the seat closest to the dealer
// clockwise.
func resolve(room *Room, hand *HandState) []Event {
	hand.Phase = PhaseComplete

	contenders := contendersInHand(room, hand)
	if len(contenders) == 1 {
		winner := contenders[0]
		winner.Chips += hand.Pot
		return []Event{HandCompleteEvent{
			Winners:        []WinnerShare{{SeatID: winner.ID, Amount: hand.Pot, Ranked: false}},
			CommunityCards: hand.CommunityCards,
			IsShowdown:     false,
		}}
	}

	contributions := make([]pot.Contribution, 0, len(hand.PlayerOrder))
	for _, id := range hand.PlayerOrder {
		seat, _ := room.SeatByID(id)
		contributions = append(contributions, pot.Contribution{
			SeatID: id,
			Amount: hand.Contributions[id],
			Folded: seat.Status == StatusFolded,
		})
	}
	pots := pot.Calculate(contributions)

	rankings := make(map[string]evaluator.HandRanking, len(contenders))
	for _, seat := range contenders {
		cards := append(append([]deck.Card{}, seat.HoleCards...), hand.CommunityCards...)
		ranking, err := evaluator.EvaluateBest(cards)
		if err == nil {
			rankings[seat.ID] = ranking
		}
	}

	totals := make(map[string]int)
	for _, p := range pots {
		if p.Uncalled {
			totals[p.EligibleSeats[0]] += p.Amount
			continue
		}
		awardPot(room, hand, p, rankings, totals)
	}

	var winners []WinnerShare
	for _, id := range hand.PlayerOrder {
		if amount, ok := totals[id]; ok && amount > 0 {
			seat, _ := room.SeatByID(id)
			seat.Chips += amount
			ranking, ranked := rankings[id]
			description := ""
			if ranked {
				description = ranking.Description()
			}
			winners = append(winners, WinnerShare{SeatID: id, Amount: amount, Ranked: ranked, Description: description})
		}
	}

	return []Event{HandCompleteEvent{
		Winners:        winners,
		CommunityCards: hand.CommunityCards,
		IsShowdown:     true,
	}}
}

// awardPot splits one side pot among its eligible seats' best hands,
// accumulating into totals rather than mutating chips directly so that
// multiple pots awarded to the same seat combine into one event.
func awardPot(room *Room, hand *HandState, p pot.SidePot, rankings map[string]evaluator.HandRanking, totals map[string]int) {
	var best int64 = -1
	var tied []string
	for _, id := range p.EligibleSeats {
		r, ok := rankings[id]
		if !ok {
			continue
		}
		switch {
		case r.Score > best:
			best = r.Score
			tied = []string{id}
		case r.Score == best:
			tied = append(tied, id)
		}
	}
	if len(tied) == 0 {
		return
	}

	share := p.Amount / len(tied)
	remainder := p.Amount % len(tied)
	for _, id := range tied {
		totals[id] += share
	}
	if remainder > 0 {
		totals[oddChipRecipient(hand, tied)] += remainder
	}
}

// oddChipRecipient picks the tied seat closest to the dealer clockwise,
// so an indivisible remainder always lands on the same seat a human
// dealer would hand it to.
func oddChipRecipient(hand *HandState, tied []string) string {
	n := len(hand.PlayerOrder)
	tiedSet := make(map[string]bool, len(tied))
	for _, id := range tied {
		tiedSet[id] = true
	}
	for i := 1; i <= n; i++ {
		id := hand.PlayerOrder[(hand.DealerIndex+i)%n]
		if tiedSet[id] {
			return id
		}
	}
	return tied[0]
}

// contendersInHand returns the seats still holding cards at hand's end,
// in playerOrder. A seat that left mid-hand (status out) was folded on
// the way out and is not a contender.
func contendersInHand(room *Room, hand *HandState) []*Seat {
	var out []*Seat
	for _, id := range hand.PlayerOrder {
		seat, ok := room.SeatByID(id)
		if ok && seat.Status != StatusFolded && seat.Status != StatusOut {
			out = append(out, seat)
		}
	}
	return out
}
