package probability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

func TestProbabilityInDeckZeroForKnownCard(t *testing.T) {
	tr := New(cards.Hand{cards.Card(0)}, 3)
	assert.Equal(t, 0.0, tr.ProbabilityInDeck(cards.Card(0), 40))
}

func TestProbabilityInDeckUniformOverUnknown(t *testing.T) {
	tr := New(cards.Hand{cards.Card(0), cards.Card(1)}, 3)
	// 2 known cards out of 54 -> 52 unknown.
	p := tr.ProbabilityInDeck(cards.Card(10), 26)
	assert.InDelta(t, 26.0/52.0, p, 1e-9)
}

func TestObservePlayMovesTopRegionToHistory(t *testing.T) {
	tr := New(cards.Hand{}, 2)
	tr.inTopRegion[cards.Card(5)] = true

	obs := &engine.Observation{Type: engine.ActionPlay, Actor: 1}
	tr.Observe(obs, cards.Hand{cards.Card(7)}, nil)

	assert.True(t, tr.history[cards.Card(5)])
	assert.False(t, tr.inTopRegion[cards.Card(5)])
	assert.True(t, tr.inTopRegion[cards.Card(7)])
}

func TestObserveDrawFromTopTracksPickedCard(t *testing.T) {
	tr := New(cards.Hand{}, 2)
	tr.inTopRegion[cards.Card(9)] = true

	obs := &engine.Observation{
		Type:  engine.ActionDraw,
		Actor: 0,
		Payload: map[string]any{
			"source": string(engine.SourceTopRegion),
			"cardId": cards.Card(9),
		},
	}
	tr.Observe(obs, nil, nil)

	m := tr.Opponent(0)
	assert.Equal(t, 1, m.DrawsFromTop)
	assert.True(t, m.PickedCardsStillHeld[cards.Card(9)])
}

func TestObserveCallSetsMaxEstAndZapCalled(t *testing.T) {
	tr := New(cards.Hand{}, 2)
	obs := &engine.Observation{Type: engine.ActionCall, Actor: 1}
	tr.Observe(obs, nil, nil)

	m := tr.Opponent(1)
	assert.True(t, m.ZapCalled)
	assert.Equal(t, 5, m.MaxEst)
	assert.Equal(t, 1.0, m.ZapRisk())
}

func TestResetForReshuffleClearsHistoryOnly(t *testing.T) {
	tr := New(cards.Hand{}, 2)
	tr.history[cards.Card(3)] = true
	tr.Opponent(0).DrawsFromTop = 4

	tr.ResetForReshuffle()

	assert.False(t, tr.history[cards.Card(3)])
	assert.Equal(t, 4, tr.Opponent(0).DrawsFromTop)
}

// R3: two trackers fed the same observations (in any order, for the
// set-valued parts) produce identical derived state.
func TestTrackerDeterministicUnderObservationOrder(t *testing.T) {
	obsA := &engine.Observation{Type: engine.ActionDraw, Actor: 0, Payload: map[string]any{"source": "Deck"}}
	obsB := &engine.Observation{Type: engine.ActionPlay, Actor: 1}

	t1 := New(cards.Hand{}, 2)
	t1.Observe(obsA, nil, nil)
	t1.Observe(obsB, cards.Hand{cards.Card(2)}, nil)

	t2 := New(cards.Hand{}, 2)
	t2.Observe(obsB, cards.Hand{cards.Card(2)}, nil)
	t2.Observe(obsA, nil, nil)

	require.Equal(t, t1.Opponent(0).DrawsFromDeck, t2.Opponent(0).DrawsFromDeck)
	assert.Equal(t, t1.inTopRegion, t2.inTopRegion)
}

func TestOpponentModelThreatLevel(t *testing.T) {
	m := newOpponentModel()
	m.HandSize = 1
	assert.Equal(t, ThreatHigh, m.ThreatLevel())
	m.HandSize = 4
	assert.Equal(t, ThreatMedium, m.ThreatLevel())
	m.HandSize = 7
	assert.Equal(t, ThreatLow, m.ThreatLevel())
}
