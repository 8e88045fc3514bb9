package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardPoints(t *testing.T) {
	tests := []struct {
		name           string
		card           Card
		wantEligible   int
		wantScoring    int
	}{
		{"ace of spades", Card(0), 1, 1},
		{"ten of spades", Card(9), 10, 10},
		{"jack of spades", Card(10), 10, 10},
		{"king of spades", Card(12), 10, 10},
		{"five of hearts", Card(13 + 4), 5, 5},
		{"joker one", JokerOne, 0, 25},
		{"joker two", JokerTwo, 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEligible, tt.card.EligibilityPoints())
			assert.Equal(t, tt.wantScoring, tt.card.ScoringPoints())
		})
	}
}

func TestCardSuitRank(t *testing.T) {
	require.Equal(t, Spades, Card(0).Suit())
	require.Equal(t, Ace, Card(0).Rank())
	require.Equal(t, Diamonds, Card(51).Suit())
	require.Equal(t, King, Card(51).Rank())
	require.True(t, JokerOne.IsJoker())
	require.True(t, JokerTwo.IsJoker())
	require.False(t, Card(0).IsJoker())
}

func TestCardSuitPanicsOnJoker(t *testing.T) {
	assert.Panics(t, func() { JokerOne.Suit() })
	assert.Panics(t, func() { JokerOne.Rank() })
}

func TestAllReturns54DistinctCards(t *testing.T) {
	all := All()
	require.Len(t, all, Total)
	seen := make(map[Card]bool, Total)
	for _, c := range all {
		assert.False(t, seen[c], "duplicate card id %d", c)
		seen[c] = true
	}
}
