package deck

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Deck is a sequence of cards not yet dealt. A freshly built Deck holds all
// 52 distinct cards; Shuffle and Draw consume it from the head.
type Deck struct {
	cards []Card
}

// New builds a full, unshuffled 52-card deck.
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// Shuffle permutes the deck in place using Fisher-Yates over a
// cryptographically secure random source. The resulting permutation is
// uniform over all 52! orderings, which is load-bearing for fairness: a
// deck shuffled with a predictable source lets a client infer hidden cards.
func (d *Deck) Shuffle() error {
	for i := len(d.cards) - 1; i > 0; i-- {
		j, err := cryptoIntn(i + 1)
		if err != nil {
			return fmt.Errorf("deck: shuffle: %w", err)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return nil
}

// cryptoIntn returns a uniformly distributed integer in [0, n) drawn from
// crypto/rand. n must be positive.
func cryptoIntn(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Draw removes and returns the first n cards from the head of the deck.
// It returns fewer than n cards, without error, if the deck is short —
// callers that need an exact count should check CardsRemaining first.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	drawn := d.cards[:n]
	d.cards = d.cards[n:]
	return drawn
}

// CardsRemaining reports how many cards are left to draw.
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}
