package strategy

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/learner"
)

func testRNG() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestEasyShouldZapZapThreshold(t *testing.T) {
	e := NewEasy()
	low := cards.Hand{cards.Card(0)} // ace, 1 point
	assert.True(t, e.ShouldZapZap(context.Background(), low, PublicState{}))

	high := cards.Hand{cards.Card(9), cards.Card(22)} // two tens, 20 points
	assert.False(t, e.ShouldZapZap(context.Background(), high, PublicState{}))
}

func TestEasySelectPlayReturnsValidSubsetOfHand(t *testing.T) {
	e := NewEasy()
	hand := cards.Hand{cards.Card(0), cards.Card(1), cards.Card(13)}
	play := e.SelectPlay(context.Background(), hand, PublicState{}, testRNG())
	require.NotEmpty(t, play)
	assert.True(t, hand.ContainsAll(play))
}

func TestMediumSelectsMultiCardPlayWhenTopEnablesCombo(t *testing.T) {
	m := NewMedium()
	// Hand holds a lone five of spades; the top region's five of hearts
	// would unlock a same-rank pair.
	hand := cards.Hand{cards.Card(4)} // 5 of spades (rank index 4)
	state := PublicState{TopRegion: cards.Hand{cards.Card(17)}}

	src, card := m.SelectDrawSource(context.Background(), hand, state, testRNG())
	assert.Equal(t, engine.SourceTopRegion, src)
	assert.Equal(t, cards.Card(17), card)
}

func TestHardTightensZapThresholdOverRounds(t *testing.T) {
	h := NewHard()
	hand := cards.Hand{cards.Card(3)} // 4 points
	assert.False(t, h.ShouldZapZap(context.Background(), hand, PublicState{RoundNumber: 1}))
	assert.True(t, h.ShouldZapZap(context.Background(), hand, PublicState{RoundNumber: 10}))
}

func TestThibotSwitchesToDumpWhenOpponentClose(t *testing.T) {
	tb := NewThibot()
	hand := cards.Hand{cards.Card(9), cards.Card(0)} // ten + ace
	state := PublicState{OpponentHandSizes: map[int]int{1: 2}, Self: 0}
	play := tb.SelectPlay(context.Background(), hand, state, testRNG())
	// Dump-highest-points: should shed the ten, not the ace, when acting
	// defensively alone (FindHighValuePlay over singles picks the higher
	// average-value single).
	assert.Contains(t, play, cards.Card(9))
}

func TestBanditHardRuleBlocksJokerInGoldenScore(t *testing.T) {
	model := learner.NewBandit(0.5, 0.01, 0.05)
	b := NewBandit(model)
	hand := cards.Hand{cards.JokerOne, cards.Card(0)}
	state := PublicState{IsGoldenScore: true}

	play := b.SelectPlay(context.Background(), hand, state, testRNG())
	for _, c := range play {
		assert.False(t, c.IsJoker())
	}
}

func TestBanditHardRulePrefersJokerComboWhenOpponentLow(t *testing.T) {
	model := learner.NewBandit(0.5, 0.01, 0.05)
	b := NewBandit(model)
	hand := cards.Hand{cards.JokerOne, cards.Card(9)} // joker + ten, can play together
	state := PublicState{OpponentHandSizes: map[int]int{1: 2}, Self: 0}

	play := b.SelectPlay(context.Background(), hand, state, testRNG())
	assert.True(t, hasJoker(play))
}

func TestMCTSSelectPlayReturnsValidSubset(t *testing.T) {
	m := NewMCTS()
	m.rollouts = 4 // keep the test fast
	hand := cards.Hand{cards.Card(0), cards.Card(1), cards.Card(13)}
	state := PublicState{OpponentHandSizes: map[int]int{1: 5}, Self: 0}

	play := m.SelectPlay(context.Background(), hand, state, testRNG())
	require.NotEmpty(t, play)
	assert.True(t, hand.ContainsAll(play))
}

type fakeCaller struct {
	err error
}

func (f fakeCaller) SelectPlay(ctx context.Context, hand cards.Hand, state PublicState) (cards.Hand, error) {
	if f.err != nil {
		return nil, f.err
	}
	return hand[:1], nil
}
func (f fakeCaller) ShouldZapZap(ctx context.Context, hand cards.Hand, state PublicState) (bool, error) {
	return false, f.err
}
func (f fakeCaller) SelectDrawSource(ctx context.Context, hand cards.Hand, state PublicState) (engine.DrawSource, cards.Card, error) {
	return engine.SourceDeck, 0, f.err
}

func TestExternalFallsBackToHardOnError(t *testing.T) {
	ext := NewExternal(fakeCaller{err: assert.AnError}, 0, nil, nil)
	hand := cards.Hand{cards.Card(0), cards.Card(1)}
	play := ext.SelectPlay(context.Background(), hand, PublicState{}, testRNG())
	require.NotEmpty(t, play)
	assert.True(t, hand.ContainsAll(play))
}

func TestExternalUsesCallerOnSuccess(t *testing.T) {
	ext := NewExternal(fakeCaller{}, 0, nil, nil)
	hand := cards.Hand{cards.Card(0), cards.Card(1)}
	play := ext.SelectPlay(context.Background(), hand, PublicState{}, testRNG())
	assert.Equal(t, cards.Hand{cards.Card(0)}, play)
}
