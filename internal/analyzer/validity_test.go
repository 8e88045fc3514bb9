package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/lox/zapzap/internal/cards"
)

func TestIsValidPlaySingle(t *testing.T) {
	assert.True(t, IsValidPlay(cards.Hand{cards.Card(0)}))
}

func TestIsValidPlaySameRankSet(t *testing.T) {
	// Two aces of different suits.
	assert.True(t, IsValidPlay(cards.Hand{cards.Card(0), cards.Card(13)}))
}

func TestIsValidPlayJokerSequence(t *testing.T) {
	// S3: [5♠, Joker, 7♠] — one gap at rank 6♠, filled by the joker.
	hand := cards.Hand{cards.Card(4), cards.JokerOne, cards.Card(6)}
	assert.True(t, IsValidPlay(hand))
}

func TestIsValidPlayMixedSuitSequenceInvalid(t *testing.T) {
	// S4: [5♠, 6♥, 7♣] — not all one suit.
	hand := cards.Hand{cards.Card(4), cards.Card(18), cards.Card(32)}
	assert.False(t, IsValidPlay(hand))
}

func TestIsValidPlayAllJokers(t *testing.T) {
	assert.True(t, IsValidPlay(cards.Hand{cards.JokerOne, cards.JokerTwo}))
}

func TestIsValidPlayEmpty(t *testing.T) {
	assert.False(t, IsValidPlay(cards.Hand{}))
}

func TestIsValidPlaySequenceTooShort(t *testing.T) {
	// Two same-suit cards do not form a sequence (needs ≥3).
	hand := cards.Hand{cards.Card(4), cards.Card(6)}
	assert.False(t, IsValidPlay(hand))
}

func TestIsValidPlayNotEnoughJokersForGap(t *testing.T) {
	// 5♠ .. 9♠ needs 3 jokers to bridge but only one is present.
	hand := cards.Hand{cards.Card(4), cards.Card(8), cards.JokerOne}
	assert.False(t, IsValidPlay(hand))
}

func TestIsValidPlayAceDoesNotWrap(t *testing.T) {
	// Ace (rank 0) and King (rank 12) of spades: huge gap, not a valid run
	// even with jokers, since Ace does not wrap to King.
	hand := cards.Hand{cards.Card(0), cards.Card(12), cards.JokerOne, cards.JokerTwo}
	assert.False(t, IsValidPlay(hand))
}
