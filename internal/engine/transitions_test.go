package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lox/zapzap/internal/cards"
)

func newTestState(playerCount int) *GameState {
	s, err := NewMatch("party-1", playerCount, 42)
	if err != nil {
		panic(err)
	}
	s.Deck = cards.NewDeckFromCards(nil)
	s.CurrentAction = PhasePlay
	return s
}

// S1 — Successful Call.
func TestCallZapZapSuccessfulCall(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(0), cards.Card(1)}   // A♠, 2♠ => 3
	s.Hands[1] = cards.Hand{cards.Card(9), cards.Card(10)}  // 10♠, J♠ => 20
	s.Hands[2] = cards.Hand{cards.Card(22), cards.Card(25)} // 10♥, K♥ => 20
	s.CurrentTurn = 0

	next, obs, outcome, err := sm.CallZapZap(s, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionCall, obs.Type)
	assert.Equal(t, 0, next.Scores[0])
	assert.Equal(t, s.Hands[1].ScoringValue(), next.Scores[1])
	assert.Equal(t, s.Hands[2].ScoringValue(), next.Scores[2])
	assert.Equal(t, PhaseFinished, next.CurrentAction)
	assert.True(t, outcome.PerPlayer[0].IsLowest)
	assert.False(t, outcome.PerPlayer[0].WasCounteracted)
}

// S2 — Counteract.
func TestCallZapZapCounteract(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(0), cards.Card(1)}    // A♠, 2♠ => base 3
	s.Hands[1] = cards.Hand{cards.Card(9), cards.Card(10)}   // base 20
	s.Hands[2] = cards.Hand{cards.Card(0 + 13), cards.JokerOne} // A♥, joker => base 1
	s.CurrentTurn = 0

	next, _, outcome, err := sm.CallZapZap(s, 0)
	require.NoError(t, err)
	// lowest = player 2 (base 1), actor = player 0 => counteract
	assert.True(t, outcome.PerPlayer[0].WasCounteracted)
	assert.Equal(t, s.Hands[0].ScoringValue()+5*3, next.Scores[0])
	assert.Equal(t, 0, next.Scores[2])
	assert.Equal(t, s.Hands[1].ScoringValue(), next.Scores[1])
}

// B1 — all jokers, remaining hand value 0.
func TestCallZapZapAllJokersSucceeds(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.JokerOne, cards.JokerTwo}
	s.Hands[1] = cards.Hand{cards.Card(9)}
	s.CurrentTurn = 0

	next, _, outcome, err := sm.CallZapZap(s, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, next.Scores[0])
	assert.True(t, outcome.PerPlayer[0].IsLowest)
}

// B2 — identical base values, non-caller has the lower index => counteract.
func TestCallZapZapTieBreaksOnLowestIndex(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(0)} // base 1
	s.Hands[1] = cards.Hand{cards.Card(13)} // base 1, same as actor (player 2)
	s.Hands[2] = cards.Hand{cards.Card(26)} // base 1, the caller
	s.CurrentTurn = 2

	next, _, outcome, err := sm.CallZapZap(s, 2)
	require.NoError(t, err)
	assert.True(t, outcome.PerPlayer[2].WasCounteracted)
	assert.Equal(t, s.Hands[2].ScoringValue()+5*3, next.Scores[2])
	assert.Equal(t, 0, next.Scores[0])
}

func TestCallZapZapHandValueTooHighRejected(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(9), cards.Card(10)} // 10+10=20 > 5
	s.Hands[1] = cards.Hand{cards.Card(0)}
	s.CurrentTurn = 0

	_, _, _, err := sm.CallZapZap(s, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindHandValueTooHigh})
}

func TestPlayCardsMovesTopRegionToHistory(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(4), cards.Card(6)}
	s.LastCardsPlayed = cards.Hand{cards.Card(20)}
	s.CurrentTurn = 0

	next, obs, err := sm.PlayCards(s, 0, cards.Hand{cards.Card(4)})
	require.NoError(t, err)
	assert.Equal(t, ActionPlay, obs.Type)
	assert.Equal(t, cards.Hand{cards.Card(4)}, next.LastCardsPlayed)
	assert.Contains(t, next.DiscardPile, cards.Card(20))
	assert.Equal(t, PhaseDraw, next.CurrentAction)
	assert.NotContains(t, next.Hands[0], cards.Card(4))
}

func TestPlayCardsRejectsCardNotInHand(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(4)}
	s.CurrentTurn = 0

	_, _, err := sm.PlayCards(s, 0, cards.Hand{cards.Card(9)})
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindCardNotInHand})
}

func TestPlayCardsRejectsInvalidPlay(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[0] = cards.Hand{cards.Card(4), cards.Card(18)} // 5♠, 6♥: not same rank or suit
	s.CurrentTurn = 0

	_, _, err := sm.PlayCards(s, 0, cards.Hand{cards.Card(4), cards.Card(18)})
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidPlay})
}

func TestPlayCardsRejectsWrongPhase(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseDraw
	s.Hands[0] = cards.Hand{cards.Card(4)}
	s.CurrentTurn = 0

	_, _, err := sm.PlayCards(s, 0, cards.Hand{cards.Card(4)})
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidActionPhase})
}

func TestPlayCardsRejectsWrongActor(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.Hands[1] = cards.Hand{cards.Card(4)}
	s.CurrentTurn = 0

	_, _, err := sm.PlayCards(s, 1, cards.Hand{cards.Card(4)})
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindNotYourTurn})
}

// B3 — reshuffle when deck is empty and history is non-empty.
func TestDrawCardReshufflesFromHistory(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseDraw
	s.CurrentTurn = 0
	s.Hands[0] = cards.Hand{}
	s.Hands[1] = cards.Hand{}
	s.Deck = cards.NewDeckFromCards(nil)
	s.DiscardPile = cards.Hand{cards.Card(1), cards.Card(2), cards.Card(3)}

	next, obs, err := sm.DrawCard(s, 0, SourceDeck, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionDraw, obs.Type)
	assert.Empty(t, next.DiscardPile)
	assert.Len(t, next.Hands[0], 1)
	assert.Equal(t, 2, next.Deck.Len())
}

// B4 — deck and history both empty but top region non-empty: redirected to
// the top region.
func TestDrawCardRedirectsToTopRegionWhenDeckAndHistoryEmpty(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseDraw
	s.CurrentTurn = 0
	s.Deck = cards.NewDeckFromCards(nil)
	s.DiscardPile = nil
	s.LastCardsPlayed = cards.Hand{cards.Card(7)}

	next, _, err := sm.DrawCard(s, 0, SourceDeck, 0)
	require.NoError(t, err)
	assert.Contains(t, next.Hands[0], cards.Card(7))
	assert.Empty(t, next.LastCardsPlayed)
}

func TestDrawCardDeckAndHistoryAndTopAllEmptyErrors(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseDraw
	s.CurrentTurn = 0
	s.Deck = cards.NewDeckFromCards(nil)

	_, _, err := sm.DrawCard(s, 0, SourceDeck, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindDeckAndHistoryEmpty})
}

func TestDrawCardFromTopRegionAdvancesTurn(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseDraw
	s.CurrentTurn = 0
	s.LastCardsPlayed = cards.Hand{cards.Card(5)}

	next, _, err := sm.DrawCard(s, 0, SourceTopRegion, cards.Card(5))
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentTurn)
	assert.Equal(t, PhasePlay, next.CurrentAction)
}

func TestSelectHandSizeDealsAndFlipsTopCard(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseSelectHandSize
	s.CurrentTurn = 0

	next, obs, err := sm.SelectHandSize(s, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, ActionSelectHandSize, obs.Type)
	for i := 0; i < 3; i++ {
		assert.Len(t, next.Hands[i], 5)
	}
	assert.Len(t, next.LastCardsPlayed, 1)
	assert.Equal(t, PhasePlay, next.CurrentAction)
	// I1: card conservation.
	total := next.Deck.Len() + len(next.LastCardsPlayed) + len(next.DiscardPile)
	for i := 0; i < 3; i++ {
		total += len(next.Hands[i])
	}
	assert.Equal(t, cards.Total, total)
}

func TestSelectHandSizeRejectsOutOfRange(t *testing.T) {
	sm := NewStateMachine()
	s := newTestState(3)
	s.CurrentAction = PhaseSelectHandSize

	_, _, err := sm.SelectHandSize(s, 0, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, &Error{Kind: KindInvalidHandSize})
}
