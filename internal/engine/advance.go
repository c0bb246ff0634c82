package engine

// advance runs the turn-advance decision (§4.D.4) once, then recurses
// into phase advance or resolution as far as the hand can go without
// another player intent. It never suspends.
func advance(room *Room, hand *HandState) []Event {
	remaining := countStatuses(room, hand, StatusActive, StatusAllIn)
	if remaining <= 1 {
		return resolve(room, hand)
	}

	if bettingComplete(room, hand) {
		return advancePhase(room, hand)
	}

	hand.CurrentIndex = nextActiveIndex(room, hand, hand.CurrentIndex)
	return []Event{requireActionEvent(room, hand)}
}

// countStatuses counts seats in playerOrder whose current status is one
// of the given statuses.
func countStatuses(room *Room, hand *HandState, statuses ...SeatStatus) int {
	want := make(map[SeatStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	n := 0
	for _, id := range hand.PlayerOrder {
		seat, ok := room.SeatByID(id)
		if ok && want[seat.Status] {
			n++
		}
	}
	return n
}

// bettingComplete implements §4.D.4 step 2: every active seat has acted
// since the last raise and matched the current bet, with the usual
// preflop big-blind option carve-out.
func bettingComplete(room *Room, hand *HandState) bool {
	for _, id := range hand.PlayerOrder {
		seat, ok := room.SeatByID(id)
		if !ok || seat.Status != StatusActive {
			continue
		}
		if hand.RoundBets[id] != hand.CurrentBet {
			return false
		}
		if !hand.ActedThisRound[id] {
			return false
		}
	}
	return true
}

// nextActiveIndex advances from idx to the next seat in playerOrder with
// status active, wrapping around. It also picks the first seat to act on
// each street after preflop.
func nextActiveIndex(room *Room, hand *HandState, idx int) int {
	n := len(hand.PlayerOrder)
	for i := 1; i <= n; i++ {
		candidate := (idx + i) % n
		seat, ok := room.SeatByID(hand.PlayerOrder[candidate])
		if ok && seat.Status == StatusActive {
			return candidate
		}
	}
	return idx
}

// advancePhase implements §4.D.5: reset round-scoped betting state, deal
// the next street's community cards, and either stop to await action or
// keep dealing through a run-out when fewer than two seats can still
// act.
func advancePhase(room *Room, hand *HandState) []Event {
	hand.RoundBets = make(map[string]int)
	hand.ActedThisRound = make(map[string]bool)
	hand.CurrentBet = 0
	hand.MinRaise = hand.BigBlind
	hand.LastRaiserID = ""

	switch hand.Phase {
	case PhasePreflop:
		hand.Phase = PhaseFlop
		hand.CommunityCards = append(hand.CommunityCards, hand.Deck.Draw(3)...)
	case PhaseFlop:
		hand.Phase = PhaseTurn
		hand.CommunityCards = append(hand.CommunityCards, hand.Deck.Draw(1)...)
	case PhaseTurn:
		hand.Phase = PhaseRiver
		hand.CommunityCards = append(hand.CommunityCards, hand.Deck.Draw(1)...)
	case PhaseRiver:
		hand.Phase = PhaseShowdown
		return resolve(room, hand)
	}

	events := []Event{StreetAdvancedEvent{Phase: hand.Phase, CommunityCards: hand.CommunityCards}}

	if canActCount(room, hand) < 2 {
		events = append(events, advancePhase(room, hand)...)
		return events
	}

	hand.CurrentIndex = nextActiveIndex(room, hand, hand.DealerIndex)
	events = append(events, requireActionEvent(room, hand))
	return events
}

// canActCount counts seats still able to voluntarily act: active seats
// with chips. All-in seats can no longer act but remain in the hand for
// showdown purposes.
func canActCount(room *Room, hand *HandState) int {
	n := 0
	for _, id := range hand.PlayerOrder {
		seat, ok := room.SeatByID(id)
		if ok && seat.Status == StatusActive {
			n++
		}
	}
	return n
}
