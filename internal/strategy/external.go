package strategy

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// Caller is the out-of-process decision source External defers to — an LLM
// or a remote bot service (spec §9 design note: async collaborator behind
// a bounded timeout). Implementations must respect ctx cancellation.
type Caller interface {
	SelectPlay(ctx context.Context, hand cards.Hand, state PublicState) (cards.Hand, error)
	ShouldZapZap(ctx context.Context, hand cards.Hand, state PublicState) (bool, error)
	SelectDrawSource(ctx context.Context, hand cards.Hand, state PublicState) (engine.DrawSource, cards.Card, error)
}

// External wraps a Caller behind a context.Context timeout and falls back
// to Hard on timeout or error (spec §4.4 External, §5 Bot cadence: "that
// call is bounded by a timeout and, on timeout or error, falls back to the
// Hard strategy"). Grounded on the teacher's quartz.Clock injection
// (internal/server/hand_history/monitor.go's clock.Now() pattern) so tests
// can use quartz.NewMock instead of a wall clock.
type External struct {
	caller   Caller
	fallback *Hard
	timeout  time.Duration
	clock    quartz.Clock
	logger   *log.Logger
}

// NewExternal constructs an External strategy. clock defaults to
// quartz.NewReal() if nil; logger defaults to a discarding logger if nil.
func NewExternal(caller Caller, timeout time.Duration, clock quartz.Clock, logger *log.Logger) *External {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &External{
		caller:   caller,
		fallback: NewHard(),
		timeout:  timeout,
		clock:    clock,
		logger:   logger.WithPrefix("strategy").With("strategy", "external"),
	}
}

// SelectHandSize has no remote-call path in spec §4.4; External defers to
// Hard for it directly.
func (e *External) SelectHandSize(ctx context.Context, min, max int, rng *rand.Rand) int {
	return e.fallback.SelectHandSize(ctx, min, max, rng)
}

func (e *External) SelectPlay(ctx context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) cards.Hand {
	start := e.clock.Now()
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	play, err := e.caller.SelectPlay(callCtx, hand, state)
	if err != nil {
		e.logger.Warn("external call failed, falling back to hard", "err", err, "elapsed", e.clock.Now().Sub(start))
		return e.fallback.SelectPlay(ctx, hand, state, rng)
	}
	return play
}

func (e *External) ShouldZapZap(ctx context.Context, hand cards.Hand, state PublicState) bool {
	start := e.clock.Now()
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ok, err := e.caller.ShouldZapZap(callCtx, hand, state)
	if err != nil {
		e.logger.Warn("external call failed, falling back to hard", "err", err, "elapsed", e.clock.Now().Sub(start))
		return e.fallback.ShouldZapZap(ctx, hand, state)
	}
	return ok
}

func (e *External) SelectDrawSource(ctx context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) (engine.DrawSource, cards.Card) {
	start := e.clock.Now()
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	src, card, err := e.caller.SelectDrawSource(callCtx, hand, state)
	if err != nil {
		e.logger.Warn("external call failed, falling back to hard", "err", err, "elapsed", e.clock.Now().Sub(start))
		return e.fallback.SelectDrawSource(ctx, hand, state, rng)
	}
	return src, card
}
