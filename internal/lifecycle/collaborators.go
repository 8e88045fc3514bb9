package lifecycle

import (
	"context"

	"github.com/lox/zapzap/internal/engine"
)

// Store is the durability boundary (spec §5): a linearizable per-key snapshot
// store, one GameState per party. Neither engine transitions nor Advance call
// Store directly — the caller persists the returned snapshot after a
// successful call, before publishing to the EventSink. It lives in this
// package rather than internal/engine because AppendMatchEnd's record is a
// match-lifecycle concept, not a single-transition one.
type Store interface {
	Load(ctx context.Context, partyID string) (*engine.GameState, error)
	Save(ctx context.Context, state *engine.GameState) error
	AppendRoundOutcome(ctx context.Context, outcome *engine.RoundOutcome) error
	AppendMatchEnd(ctx context.Context, record *MatchEndRecord) error
}

// EventSink publishes committed observations in commit order (spec §5
// Ordering). Publish is called only after a successful Store write.
type EventSink interface {
	Publish(ctx context.Context, obs *engine.Observation) error
}
