// Package pot computes side pots from per-seat contributions, the way a
// no-limit hand can split into several pots once one or more seats are
// all-in at different stack depths.
package pot

import "sort"

// Contribution is one seat's total chips committed to the hand and
// whether it has folded. A folded seat's chips still belong to whichever
// pot layer they reached, but the seat cannot win that layer.
type Contribution struct {
	SeatID string
	Amount int
	Folded bool
}

// SidePot is one pot in the ordered list a hand distributes at showdown.
// Uncalled is true only for a pot at the top contribution level with a
// single eligible seat: the excess no one else matched, returned to its
// owner without evaluation.
type SidePot struct {
	Amount        int
	EligibleSeats []string
	Uncalled      bool
}

// Calculate lays out side pots from ascending contribution levels. The
// amount of each layer is the per-seat slice size times the number of
// seats that reached at least that level; a seat is eligible for a layer
// iff it reached that level and has not folded. Adjacent pots with
// identical eligible sets are merged, which changes nothing about
// distribution.
func Calculate(contributions []Contribution) []SidePot {
	levels := distinctLevels(contributions)

	var pots []SidePot
	prev := 0
	for _, level := range levels {
		layerSize := level - prev
		if layerSize <= 0 {
			prev = level
			continue
		}

		var reached, eligible []string
		for _, c := range contributions {
			if c.Amount >= level {
				reached = append(reached, c.SeatID)
				if !c.Folded {
					eligible = append(eligible, c.SeatID)
				}
			}
		}

		amount := layerSize * len(reached)
		if amount > 0 {
			pots = append(pots, SidePot{Amount: amount, EligibleSeats: eligible})
		}
		prev = level
	}

	pots = mergeAdjacentEqualEligibility(pots)

	if n := len(pots); n > 0 && len(pots[n-1].EligibleSeats) == 1 {
		pots[n-1].Uncalled = true
	}

	return pots
}

func distinctLevels(contributions []Contribution) []int {
	seen := make(map[int]bool)
	for _, c := range contributions {
		if c.Amount > 0 {
			seen[c.Amount] = true
		}
	}
	levels := make([]int, 0, len(seen))
	for l := range seen {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

func mergeAdjacentEqualEligibility(pots []SidePot) []SidePot {
	if len(pots) == 0 {
		return pots
	}
	merged := []SidePot{pots[0]}
	for _, p := range pots[1:] {
		last := &merged[len(merged)-1]
		if sameSeats(last.EligibleSeats, p.EligibleSeats) {
			last.Amount += p.Amount
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func sameSeats(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}

// Total sums the amount across every pot, which must equal the sum of
// every contribution.
func Total(pots []SidePot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
