package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lox/zapzap/internal/engine"
)

func newFinishedState(playerCount int) *engine.GameState {
	s, err := engine.NewMatch("party-1", playerCount, 42)
	if err != nil {
		panic(err)
	}
	s.CurrentAction = engine.PhaseFinished
	return s
}

// B5 — elimination excludes a player from currentTurn rotation at the next
// round start.
func TestAdvanceSkipsEliminatedPlayers(t *testing.T) {
	s := newFinishedState(4)
	s.CurrentTurn = 0
	s.Scores = map[int]int{0: 102, 1: 40, 2: 30, 3: 105}
	s.EliminatedPlayers = map[int]bool{0: true, 3: true}

	next, status, record, err := Advance(s)
	require.NoError(t, err)
	assert.Equal(t, Continuing, status)
	assert.Nil(t, record)
	assert.True(t, next.IsGoldenScore)
	assert.Equal(t, 1, next.CurrentTurn)
	assert.Equal(t, engine.PhaseSelectHandSize, next.CurrentAction)
	min, max := next.HandSizeRange()
	assert.Equal(t, 4, min)
	assert.Equal(t, 10, max)
}

func TestAdvanceRequiresFinishedPhase(t *testing.T) {
	s := newFinishedState(3)
	s.CurrentAction = engine.PhasePlay

	_, _, _, err := Advance(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, &engine.Error{Kind: engine.KindRoundNotFinished})
}

func TestAdvanceEndsMatchWithOneSurvivor(t *testing.T) {
	s := newFinishedState(3)
	s.Scores = map[int]int{0: 150, 1: 30, 2: 160}
	s.EliminatedPlayers = map[int]bool{0: true, 2: true}

	_, status, record, err := Advance(s)
	require.NoError(t, err)
	assert.Equal(t, Finished, status)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.WinnerID)
}

func TestAdvanceEndsMatchWithZeroSurvivors(t *testing.T) {
	s := newFinishedState(3)
	s.Scores = map[int]int{0: 150, 1: 120, 2: 135}
	s.EliminatedPlayers = map[int]bool{0: true, 1: true, 2: true}

	_, status, record, err := Advance(s)
	require.NoError(t, err)
	assert.Equal(t, Finished, status)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.WinnerID) // lower cumulative score wins
}

// S6 — Golden Score trigger.
func TestAdvanceGoldenScoreTrigger(t *testing.T) {
	s := newFinishedState(4)
	s.Scores = map[int]int{0: 102, 1: 40, 2: 30, 3: 105}
	s.EliminatedPlayers = map[int]bool{0: true, 3: true}

	next, status, _, err := Advance(s)
	require.NoError(t, err)
	assert.Equal(t, Continuing, status)
	assert.True(t, next.IsGoldenScore)
	min, max := next.HandSizeRange()
	assert.Equal(t, 4, min)
	assert.Equal(t, 10, max)
}
