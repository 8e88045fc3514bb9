// Package store provides in-memory (MemoryStore) and file-backed
// (FileStore) implementations of lifecycle.Store, each
// round-tripping GameState through a genuine msgpack encode/decode cycle
// (see codec.go) rather than holding the live pointer, so a caller mutating
// a previously-Saved GameState can never corrupt what Load later returns.
// Grounded on the teacher's internal/protocol package, which likewise
// treats msgpack as the wire/storage format for GameState-shaped payloads,
// and on internal/server/store (a mutex-guarded in-memory map keyed by
// party/session ID) for the locking and per-key-append shape.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/lifecycle"
)

// MemoryStore is a mutex-guarded, process-local lifecycle.Store. It exists
// for the simulator's opposite number — local play and tests — where a real
// database is overkill (spec §1 Non-goals: no database is specified).
type MemoryStore struct {
	mu sync.RWMutex

	states        map[string][]byte
	roundOutcomes map[string][]*engine.RoundOutcome
	matchEnds     map[string]*lifecycle.MatchEndRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:        map[string][]byte{},
		roundOutcomes: map[string][]*engine.RoundOutcome{},
		matchEnds:     map[string]*lifecycle.MatchEndRecord{},
	}
}

var _ lifecycle.Store = (*MemoryStore)(nil)

func (m *MemoryStore) Load(_ context.Context, partyID string) (*engine.GameState, error) {
	m.mu.RLock()
	data, ok := m.states[partyID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: no state for party %q", partyID)
	}
	return decodeGameState(data)
}

func (m *MemoryStore) Save(_ context.Context, state *engine.GameState) error {
	data, err := encodeGameState(state)
	if err != nil {
		return fmt.Errorf("store: encode state for party %q: %w", state.PartyID, err)
	}
	m.mu.Lock()
	m.states[state.PartyID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) AppendRoundOutcome(_ context.Context, outcome *engine.RoundOutcome) error {
	m.mu.Lock()
	m.roundOutcomes[outcome.PartyID] = append(m.roundOutcomes[outcome.PartyID], outcome)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) AppendMatchEnd(_ context.Context, record *lifecycle.MatchEndRecord) error {
	m.mu.Lock()
	m.matchEnds[record.PartyID] = record
	m.mu.Unlock()
	return nil
}

// RoundOutcomes returns every outcome appended for partyID, in append order.
// Not part of lifecycle.Store — a read-side extension for callers (tests,
// a future hand-history view) that need the full round-by-round record.
func (m *MemoryStore) RoundOutcomes(partyID string) []*engine.RoundOutcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*engine.RoundOutcome, len(m.roundOutcomes[partyID]))
	copy(out, m.roundOutcomes[partyID])
	return out
}

// MatchEnd returns the persisted MatchEndRecord for partyID, if any.
func (m *MemoryStore) MatchEnd(partyID string) (*lifecycle.MatchEndRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.matchEnds[partyID]
	return rec, ok
}
