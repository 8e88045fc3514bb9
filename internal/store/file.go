package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/fileutil"
	"github.com/lox/zapzap/internal/lifecycle"
)

// FileStore is a lifecycle.Store that snapshots each party's GameState to
// its own file under dir, crash-safely (spec §1 Non-goals excludes SQLite,
// not a durable-across-restarts reference store). One party's current
// snapshot always lives at <dir>/<partyID>.state; the match-end record is
// written the same way to <dir>/<partyID>.matchend.json. Round outcomes
// are kept in memory only and are lost when the process exits. Grounded on
// fileutil.WriteFileAtomic's temp-file-plus-rename pattern, carried over
// from the teacher's internal/fileutil unchanged, composed here with the
// same msgpack codec MemoryStore uses so both Store implementations agree
// on wire format.
type FileStore struct {
	dir string

	mu            sync.Mutex
	roundOutcomes map[string][]*engine.RoundOutcome
}

// NewFileStore constructs a FileStore rooted at dir, creating it if
// necessary.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, roundOutcomes: map[string][]*engine.RoundOutcome{}}, nil
}

var _ lifecycle.Store = (*FileStore)(nil)

func (f *FileStore) statePath(partyID string) string {
	return filepath.Join(f.dir, partyID+".state")
}

func (f *FileStore) matchEndPath(partyID string) string {
	return filepath.Join(f.dir, partyID+".matchend.json")
}

func (f *FileStore) Load(_ context.Context, partyID string) (*engine.GameState, error) {
	data, err := os.ReadFile(f.statePath(partyID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: no state for party %q", partyID)
		}
		return nil, fmt.Errorf("store: read state for party %q: %w", partyID, err)
	}
	return decodeGameState(data)
}

func (f *FileStore) Save(_ context.Context, state *engine.GameState) error {
	data, err := encodeGameState(state)
	if err != nil {
		return fmt.Errorf("store: encode state for party %q: %w", state.PartyID, err)
	}
	if err := fileutil.WriteFileAtomic(f.statePath(state.PartyID), data, 0o644); err != nil {
		return fmt.Errorf("store: write state for party %q: %w", state.PartyID, err)
	}
	return nil
}

// AppendRoundOutcome accumulates outcomes in memory, matching MemoryStore's
// read-side RoundOutcomes contract; round-outcome history is analytics
// data, not recovery-critical, so it is not separately fsynced per append.
func (f *FileStore) AppendRoundOutcome(_ context.Context, outcome *engine.RoundOutcome) error {
	f.mu.Lock()
	f.roundOutcomes[outcome.PartyID] = append(f.roundOutcomes[outcome.PartyID], outcome)
	f.mu.Unlock()
	return nil
}

func (f *FileStore) AppendMatchEnd(_ context.Context, record *lifecycle.MatchEndRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: encode match end for party %q: %w", record.PartyID, err)
	}
	if err := fileutil.WriteFileAtomic(f.matchEndPath(record.PartyID), data, 0o644); err != nil {
		return fmt.Errorf("store: write match end for party %q: %w", record.PartyID, err)
	}
	return nil
}

// RoundOutcomes returns every outcome appended for partyID this process's
// lifetime, in append order — not part of lifecycle.Store, mirroring
// MemoryStore's own read-side extension.
func (f *FileStore) RoundOutcomes(partyID string) []*engine.RoundOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*engine.RoundOutcome, len(f.roundOutcomes[partyID]))
	copy(out, f.roundOutcomes[partyID])
	return out
}

// MatchEnd reads partyID's persisted MatchEndRecord from disk, if any.
func (f *FileStore) MatchEnd(partyID string) (*lifecycle.MatchEndRecord, bool) {
	data, err := os.ReadFile(f.matchEndPath(partyID))
	if err != nil {
		return nil, false
	}
	var record lifecycle.MatchEndRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false
	}
	return &record, true
}
