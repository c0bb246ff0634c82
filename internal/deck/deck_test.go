package deck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	d := New()
	require.Equal(t, 52, d.CardsRemaining())

	seen := make(map[Card]bool, 52)
	for _, c := range d.cards {
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	require.Len(t, seen, 52)
}

func TestShufflePreservesComposition(t *testing.T) {
	before := New()
	after := New()
	require.NoError(t, after.Shuffle())

	beforeSet := make(map[Card]bool, 52)
	for _, c := range before.cards {
		beforeSet[c] = true
	}
	for _, c := range after.cards {
		require.True(t, beforeSet[c], "shuffled deck contains unexpected card %v", c)
	}
	require.Len(t, after.cards, 52)
}

func TestDrawRemovesFromHead(t *testing.T) {
	d := New()
	first := d.cards[0]
	second := d.cards[1]

	drawn := d.Draw(2)
	require.Equal(t, []Card{first, second}, drawn)
	require.Equal(t, 50, d.CardsRemaining())
}

func TestDrawMoreThanRemainingIsCapped(t *testing.T) {
	d := New()
	d.Draw(50)
	require.Equal(t, 2, d.CardsRemaining())

	drawn := d.Draw(10)
	require.Len(t, drawn, 2)
	require.Equal(t, 0, d.CardsRemaining())
}

func TestShuffleIsNotIdentityAcrossManyTrials(t *testing.T) {
	original := New()
	identical := 0
	const trials = 20
	for i := 0; i < trials; i++ {
		d := New()
		require.NoError(t, d.Shuffle())
		if cardsEqual(original.cards, d.cards) {
			identical++
		}
	}
	require.Less(t, identical, trials, "shuffle produced the identity permutation on every trial")
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
