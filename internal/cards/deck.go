package cards

import "math/rand/v2"

// Deck is an ordered sequence of cards acting as a LIFO draw pile (spec §3).
// The top of the deck is index len(cards)-1 so Deal is an O(1) slice
// truncation, matching the teacher's internal/deck.Deck shape but over the
// 54-card ZapZap set and a match-scoped RNG rather than time.Now().
type Deck struct {
	cards []Card
}

// NewShuffledDeck returns a full 54-card deck permuted by rng.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: All()}
	d.shuffle(rng)
	return d
}

// NewDeckFromCards builds a deck from an explicit card list, top of deck
// last. Used by reshuffle (spec §4.2 T3) to turn the history region back
// into a deck.
func NewDeckFromCards(cs []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cs...)}
}

func (d *Deck) shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// ShuffleWith permutes d's remaining cards in place using rng. Used by
// reshuffle (spec §4.2 T3) to re-permute the history region into a deck.
func (d *Deck) ShuffleWith(rng *rand.Rand) {
	d.shuffle(rng)
}

// Deal removes and returns the top card. The second return is false if the
// deck is empty.
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	n := len(d.cards) - 1
	card := d.cards[n]
	d.cards = d.cards[:n]
	return card, true
}

// DealN deals up to n cards, stopping early if the deck empties.
func (d *Deck) DealN(n int) []Card {
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Deal()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of cards remaining in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty reports whether the deck has no cards left.
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a defensive copy of the remaining cards, bottom to top.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Clone returns a deep copy of d, or nil if d is nil.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{cards: append([]Card(nil), d.cards...)}
}
