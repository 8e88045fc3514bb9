// Package simulator implements the Batch Simulator (spec §4.5, §6
// RunBatch): a seedable, in-memory runner that drives internal/engine and
// internal/lifecycle directly, bypassing Store/EventSink entirely, and
// accumulates per-seat outcomes across many independent matches in
// parallel. Grounded on the teacher's internal/simulator/simulator.go
// Config/Run shape, generalized from "play N poker hands against one
// opponent type, rotating position" to "play N ZapZap matches against a
// fixed strategy lineup, one independent RNG stream per match".
package simulator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/zapzap/internal/bot"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/lifecycle"
	"github.com/lox/zapzap/internal/probability"
	"github.com/lox/zapzap/internal/randsrc"
	"github.com/lox/zapzap/internal/strategy"
)

// maxTurnsPerMatch bounds a single match's turn count as a hang detector —
// the state machine's B3/B4 reshuffle rules guarantee a match always makes
// progress, so hitting this is a bug, not an expected outcome. Mirrors the
// teacher's playHandWithTimeout "hang detected" guard.
const maxTurnsPerMatch = 200_000

// Config configures one batch run.
type Config struct {
	Matches     int
	PlayerCount int
	Seed        int64

	// Strategies assigns one Strategy per seat index; len(Strategies) must
	// equal PlayerCount. The same Strategy value is reused across every
	// match in the batch — stateless strategies are safe to share, and
	// Bandit is deliberately shared so its value estimates accumulate
	// across the whole batch (spec §4.6).
	Strategies []strategy.Strategy

	// Timeout bounds a single match's wall-clock time; zero means no
	// per-match timeout.
	Timeout time.Duration
	// Workers caps how many matches run concurrently; zero means
	// unbounded (errgroup's default).
	Workers int

	Logger *log.Logger
}

// MatchResult is one completed match's outcome, independent of
// lifecycle.MatchEndRecord's persistence shape since the simulator never
// touches Store.
type MatchResult struct {
	PartyID        string
	Seed           int64
	Rounds         int
	WinnerSeat     int
	WasGoldenScore bool
	FinalScores    map[int]int
}

// RunBatch plays cfg.Matches independent matches, each with its own RNG
// stream derived from cfg.Seed via randsrc.Derive (spec §9 RNG discipline),
// and returns the aggregated Statistics. A single match's failure aborts
// the whole batch (errgroup semantics) since a match-level error indicates
// a state-machine bug, not an expected outcome to tally.
func RunBatch(ctx context.Context, cfg Config) (*Statistics, error) {
	if len(cfg.Strategies) != cfg.PlayerCount {
		return nil, fmt.Errorf("simulator: len(Strategies)=%d does not match PlayerCount=%d", len(cfg.Strategies), cfg.PlayerCount)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	stats := NewStatistics()
	var mu sync.Mutex

	for i := 0; i < cfg.Matches; i++ {
		i := i
		g.Go(func() error {
			matchSeed := randsrc.Derive(cfg.Seed, i)
			matchCtx := gctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				matchCtx, cancel = context.WithTimeout(gctx, cfg.Timeout)
				defer cancel()
			}

			result, err := runMatch(matchCtx, cfg, matchSeed, i, logger)
			if err != nil {
				return fmt.Errorf("match %d (seed %d): %w", i, matchSeed, err)
			}

			mu.Lock()
			stats.Add(result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// runMatch drives one match from creation to a terminal MatchEndRecord,
// re-seeding its own Tracker set at the start of every round (spec §4.3:
// the tracker is per-bot-per-round) and handling round advancement via
// internal/lifecycle between hands.
func runMatch(ctx context.Context, cfg Config, matchSeed int64, index int, logger *log.Logger) (*MatchResult, error) {
	partyID := fmt.Sprintf("sim-%d", index)
	state, err := engine.NewMatch(partyID, cfg.PlayerCount, matchSeed)
	if err != nil {
		return nil, err
	}

	seats := make(map[int]*bot.Seat, cfg.PlayerCount)
	for i := 0; i < cfg.PlayerCount; i++ {
		seats[i] = &bot.Seat{Strategy: cfg.Strategies[i], Tracker: probability.New(nil, cfg.PlayerCount)}
	}
	driver := bot.NewDriver(seats, logger)
	rng := randsrc.New(matchSeed)

	for turn := 0; turn < maxTurnsPerMatch; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("match timed out or cancelled after %d turns: %w", turn, err)
		}

		if state.CurrentAction == engine.PhaseFinished {
			next, status, record, err := lifecycle.Advance(state)
			if err != nil {
				return nil, err
			}
			if status == lifecycle.Finished {
				return &MatchResult{
					PartyID:        record.PartyID,
					Seed:           matchSeed,
					Rounds:         record.TotalRounds,
					WinnerSeat:     record.WinnerID,
					WasGoldenScore: record.WasGoldenScore,
					FinalScores:    next.Scores,
				}, nil
			}
			state = next
			continue
		}

		result, err := driver.PlayTurn(ctx, state, rng)
		if err != nil {
			return nil, err
		}
		state = result.State
		if result.Observation != nil && result.Observation.Type == engine.ActionSelectHandSize {
			driver.ResetRound(state)
		}
	}

	return nil, fmt.Errorf("match exceeded %d turns without finishing (seed %d)", maxTurnsPerMatch, matchSeed)
}
