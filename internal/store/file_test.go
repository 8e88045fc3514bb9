package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/lifecycle"
)

func TestFileStoreRoundTripsGameStateThroughDisk(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	want := sampleState()

	require.NoError(t, fs.Save(ctx, want))
	got, err := fs.Load(ctx, "party-1")
	require.NoError(t, err)

	assert.Equal(t, want.PartyID, got.PartyID)
	assert.Equal(t, want.Hands, got.Hands)
	assert.Equal(t, want.CurrentTurn, got.CurrentTurn)
	assert.Equal(t, want.CurrentAction, got.CurrentAction)
	assert.Equal(t, want.Scores, got.Scores)
	assert.Equal(t, want.IsGoldenScore, got.IsGoldenScore)
}

func TestFileStoreLoadUnknownPartyFails(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = fs.Load(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFileStoreSaveOverwritesPreviousSnapshotAtomically(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	first := sampleState()
	require.NoError(t, fs.Save(ctx, first))

	second := sampleState()
	second.CurrentTurn = 3
	second.Scores[0] = 99
	require.NoError(t, fs.Save(ctx, second))

	got, err := fs.Load(ctx, "party-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentTurn)
	assert.Equal(t, 99, got.Scores[0])

	entries, err := filepath.Glob(filepath.Join(dir, "*.tmp.*"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no leftover temp files after a successful save")
}

func TestFileStoreAppendRoundOutcomeAccumulatesInOrder(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	o1 := &engine.RoundOutcome{PartyID: "party-1", RoundNumber: 1}
	o2 := &engine.RoundOutcome{PartyID: "party-1", RoundNumber: 2}
	require.NoError(t, fs.AppendRoundOutcome(ctx, o1))
	require.NoError(t, fs.AppendRoundOutcome(ctx, o2))

	got := fs.RoundOutcomes("party-1")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].RoundNumber)
	assert.Equal(t, 2, got[1].RoundNumber)
}

func TestFileStoreAppendMatchEndPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	record := &lifecycle.MatchEndRecord{PartyID: "party-1", WinnerID: 2, WinnerScore: 50, PlayerCount: 4}
	require.NoError(t, fs.AppendMatchEnd(ctx, record))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	got, ok := reopened.MatchEnd("party-1")
	require.True(t, ok)
	assert.Equal(t, record.WinnerID, got.WinnerID)
	assert.Equal(t, record.WinnerScore, got.WinnerScore)
}

func TestFileStoreMatchEndUnknownPartyMisses(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, ok := fs.MatchEnd("missing")
	assert.False(t, ok)
}
