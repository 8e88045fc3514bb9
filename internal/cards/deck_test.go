package cards

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShuffledDeckHas54DistinctCards(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	d := NewShuffledDeck(rng)
	require.Equal(t, Total, d.Len())

	seen := make(map[Card]bool, Total)
	for !d.IsEmpty() {
		c, ok := d.Deal()
		require.True(t, ok)
		assert.False(t, seen[c])
		seen[c] = true
	}
	assert.Len(t, seen, Total)
}

func TestDeckDealEmpty(t *testing.T) {
	d := NewDeckFromCards(nil)
	_, ok := d.Deal()
	assert.False(t, ok)
	assert.True(t, d.IsEmpty())
}

func TestDeckDealNStopsAtEmpty(t *testing.T) {
	d := NewDeckFromCards([]Card{0, 1, 2})
	cards := d.DealN(5)
	assert.Len(t, cards, 3)
	assert.True(t, d.IsEmpty())
}

func TestShuffleIsDeterministicForSameSeed(t *testing.T) {
	r1 := rand.New(rand.NewPCG(42, 7))
	r2 := rand.New(rand.NewPCG(42, 7))
	d1 := NewShuffledDeck(r1)
	d2 := NewShuffledDeck(r2)
	assert.Equal(t, d1.Cards(), d2.Cards())
}
