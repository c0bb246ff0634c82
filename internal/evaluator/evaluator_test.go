package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltstack/holdem-core/internal/deck"
)

func c(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.NewCard(rank, suit)
}

func TestEvaluateBestRequiresFiveCards(t *testing.T) {
	_, err := EvaluateBest([]deck.Card{c(deck.Ace, deck.Spades)})
	require.Error(t, err)
}

func TestCategoryDetection(t *testing.T) {
	tests := []struct {
		name  string
		cards []deck.Card
		want  Category
	}{
		{
			name: "royal flush",
			cards: []deck.Card{
				c(deck.Ace, deck.Spades), c(deck.King, deck.Spades), c(deck.Queen, deck.Spades),
				c(deck.Jack, deck.Spades), c(deck.Ten, deck.Spades),
			},
			want: RoyalFlush,
		},
		{
			name: "straight flush not ace high",
			cards: []deck.Card{
				c(deck.Nine, deck.Hearts), c(deck.Eight, deck.Hearts), c(deck.Seven, deck.Hearts),
				c(deck.Six, deck.Hearts), c(deck.Five, deck.Hearts),
			},
			want: StraightFlush,
		},
		{
			name: "four of a kind",
			cards: []deck.Card{
				c(deck.Nine, deck.Hearts), c(deck.Nine, deck.Spades), c(deck.Nine, deck.Clubs),
				c(deck.Nine, deck.Diamonds), c(deck.Two, deck.Clubs),
			},
			want: FourOfAKind,
		},
		{
			name: "full house",
			cards: []deck.Card{
				c(deck.Nine, deck.Hearts), c(deck.Nine, deck.Spades), c(deck.Nine, deck.Clubs),
				c(deck.Two, deck.Diamonds), c(deck.Two, deck.Clubs),
			},
			want: FullHouse,
		},
		{
			name: "wheel straight",
			cards: []deck.Card{
				c(deck.Ace, deck.Hearts), c(deck.Two, deck.Spades), c(deck.Three, deck.Clubs),
				c(deck.Four, deck.Diamonds), c(deck.Five, deck.Clubs),
			},
			want: Straight,
		},
		{
			name: "two pair",
			cards: []deck.Card{
				c(deck.Nine, deck.Hearts), c(deck.Nine, deck.Spades), c(deck.Two, deck.Clubs),
				c(deck.Two, deck.Diamonds), c(deck.Four, deck.Clubs),
			},
			want: TwoPair,
		},
		{
			name: "high card",
			cards: []deck.Card{
				c(deck.Ace, deck.Hearts), c(deck.King, deck.Spades), c(deck.Nine, deck.Clubs),
				c(deck.Four, deck.Diamonds), c(deck.Two, deck.Clubs),
			},
			want: HighCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateBest(tt.cards)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Category)
		})
	}
}

func TestWheelLosesToSixHighStraight(t *testing.T) {
	wheel, err := EvaluateBest([]deck.Card{
		c(deck.Ace, deck.Hearts), c(deck.Two, deck.Spades), c(deck.Three, deck.Clubs),
		c(deck.Four, deck.Diamonds), c(deck.Five, deck.Clubs),
	})
	require.NoError(t, err)

	sixHigh, err := EvaluateBest([]deck.Card{
		c(deck.Two, deck.Hearts), c(deck.Three, deck.Spades), c(deck.Four, deck.Clubs),
		c(deck.Five, deck.Diamonds), c(deck.Six, deck.Clubs),
	})
	require.NoError(t, err)

	require.Greater(t, sixHigh.Score, wheel.Score)
}

func TestScoreStableUnderPermutation(t *testing.T) {
	hand := []deck.Card{
		c(deck.Ace, deck.Hearts), c(deck.King, deck.Spades), c(deck.Queen, deck.Clubs),
		c(deck.Jack, deck.Diamonds), c(deck.Ten, deck.Clubs), c(deck.Two, deck.Hearts), c(deck.Three, deck.Spades),
	}
	reversed := make([]deck.Card, len(hand))
	for i, card := range hand {
		reversed[len(hand)-1-i] = card
	}

	a, err := EvaluateBest(hand)
	require.NoError(t, err)
	b, err := EvaluateBest(reversed)
	require.NoError(t, err)
	require.Equal(t, a.Score, b.Score)
}

func TestSevenCardPicksBestFive(t *testing.T) {
	// Two hole cards complete a flush buried among a weaker pair.
	hand := []deck.Card{
		c(deck.Ace, deck.Spades), c(deck.King, deck.Spades),
		c(deck.Queen, deck.Spades), c(deck.Jack, deck.Spades), c(deck.Two, deck.Spades),
		c(deck.Two, deck.Hearts), c(deck.Two, deck.Diamonds),
	}
	got, err := EvaluateBest(hand)
	require.NoError(t, err)
	require.Equal(t, Flush, got.Category)
}

func TestFourOfAKindBeatsFullHouse(t *testing.T) {
	quads, err := EvaluateBest([]deck.Card{
		c(deck.Nine, deck.Hearts), c(deck.Nine, deck.Spades), c(deck.Nine, deck.Clubs),
		c(deck.Nine, deck.Diamonds), c(deck.Two, deck.Clubs),
	})
	require.NoError(t, err)

	full, err := EvaluateBest([]deck.Card{
		c(deck.Ace, deck.Hearts), c(deck.Ace, deck.Spades), c(deck.Ace, deck.Clubs),
		c(deck.King, deck.Diamonds), c(deck.King, deck.Clubs),
	})
	require.NoError(t, err)

	require.Greater(t, quads.Score, full.Score)
}
