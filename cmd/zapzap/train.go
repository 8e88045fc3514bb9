package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/zapzap/internal/bot"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/config"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/learner"
	"github.com/lox/zapzap/internal/lifecycle"
	"github.com/lox/zapzap/internal/probability"
	"github.com/lox/zapzap/internal/randsrc"
	"github.com/lox/zapzap/internal/strategy"
)

// TrainCmd runs the iterative simulate-batch-then-update loop spec §4.6
// calls for ("simulate batch, update weights, repeat"), specialized to the
// one decision with a cleanly attributable terminal outcome: whether to
// call ZapZap. Seat 0's call decision is driven by a DQN over
// ExtractFeatures; every other decision for seat 0, and every decision for
// the opposing seats, is driven by ordinary Strategy implementations —
// mirroring bot.Driver's own convention that a seat absent from its Seats
// map is owned by an external controller, here the learner, rather than
// inventing a DQN-backed Strategy the rest of the spec never names.
// Grounded on the teacher's sdk/solver trainer.go iterative train loop,
// generalized from regret-matching over the full game tree to a
// Monte-Carlo terminal-reward DQN update over one decision type.
type TrainCmd struct {
	Iterations  int    `kong:"default='2000',help='Number of matches to train over'"`
	Players     int    `kong:"default='4',help='Number of players per match'"`
	Opponents   string `kong:"default='easy,easy,medium',help='Comma-separated strategy for seats 1..N-1'"`
	Seed        int64  `kong:"help='Deterministic RNG seed (0 = derive from current time)'"`
	Config      string `kong:"help='HCL config file overriding rules/Thibot weights/DQN hyperparameters'"`
	ReportEvery int    `kong:"default='100',help='Print a progress line every N matches'"`
	Verbose     bool   `kong:"help='Enable debug logging'"`
}

func (c *TrainCmd) Run() error {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(level)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	cfg.ApplyRules()
	cfg.ApplyThibotWeights()

	opponentNames := strings.Split(c.Opponents, ",")
	if len(opponentNames) != c.Players-1 {
		return fmt.Errorf("zapzap: --opponents has %d entries, need %d for --players=%d", len(opponentNames), c.Players-1, c.Players)
	}
	opponents := make([]strategy.Strategy, 0, len(opponentNames))
	for _, name := range opponentNames {
		s, err := cfg.Strategy(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		opponents = append(opponents, s)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("training", "iterations", c.Iterations, "players", c.Players, "seed", seed)

	dqn := learner.NewDQN(cfg.NewDQNConfig(learner.FeatureCount, 2))
	fallback := strategy.NewHard()

	wins, golden := 0, 0
	recentRewards := make([]float64, 0, c.ReportEvery)

	for i := 0; i < c.Iterations; i++ {
		matchSeed := randsrc.Derive(seed, i)
		result, reward, err := trainOneMatch(context.Background(), c.Players, opponents, fallback, dqn, matchSeed, logger)
		if err != nil {
			return fmt.Errorf("zapzap: train: match %d: %w", i, err)
		}
		if result.winnerSeat == 0 {
			wins++
		}
		if result.wasGoldenScore {
			golden++
		}
		recentRewards = append(recentRewards, reward)

		if (i+1)%c.ReportEvery == 0 || i == c.Iterations-1 {
			normalized := learner.NormalizeRewards(recentRewards)
			mean := 0.0
			for _, r := range recentRewards {
				mean += r
			}
			mean /= float64(len(recentRewards))
			fmt.Printf("match %5d: win_rate=%.1f%% golden=%.1f%% mean_reward=%.3f reward_spread=%.3f\n",
				i+1, float64(wins)/float64(i+1)*100, float64(golden)/float64(i+1)*100, mean, spread(normalized))
			recentRewards = recentRewards[:0]
		}
	}
	return nil
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

// trainMatchResult is train.go's own slimmer view of a completed match,
// independent of lifecycle.MatchEndRecord's persistence shape since
// training never touches Store.
type trainMatchResult struct {
	winnerSeat     int
	wasGoldenScore bool
}

// maxTurnsPerTrainMatch bounds one match's turn count the same way
// internal/simulator bounds a batch match: the state machine always makes
// progress, so hitting this is a bug.
const maxTurnsPerTrainMatch = 200_000

// trainOneMatch drives a single match to completion, with seat 0's Call
// decision routed through dqn and every other decision routed through
// ordinary strategies, then folds the match's terminal reward into every
// Call decision seat 0 made before training the DQN on the resulting
// batch of experiences.
func trainOneMatch(ctx context.Context, playerCount int, opponents []strategy.Strategy, fallback strategy.Strategy, dqn *learner.DQN, matchSeed int64, logger *log.Logger) (*trainMatchResult, float64, error) {
	partyID := fmt.Sprintf("train-%d", matchSeed)
	state, err := engine.NewMatch(partyID, playerCount, matchSeed)
	if err != nil {
		return nil, 0, err
	}

	seats := make(map[int]*bot.Seat, playerCount-1)
	for i := 1; i < playerCount; i++ {
		seats[i] = &bot.Seat{Strategy: opponents[i-1], Tracker: probability.New(nil, playerCount)}
	}
	driver := bot.NewDriver(seats, logger)
	sm := engine.NewStateMachine()
	rng := randsrc.New(matchSeed)

	var experiences []learner.Experience

	for turn := 0; turn < maxTurnsPerTrainMatch; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		if state.CurrentAction == engine.PhaseFinished {
			next, status, record, err := lifecycle.Advance(state)
			if err != nil {
				return nil, 0, err
			}
			if status == lifecycle.Finished {
				reward := finalReward(record)
				for i := range experiences {
					experiences[i].Reward = reward
					experiences[i].Done = i == len(experiences)-1
					dqn.Remember(experiences[i])
				}
				dqn.Train(rng)
				return &trainMatchResult{winnerSeat: record.WinnerID, wasGoldenScore: record.WasGoldenScore}, reward, nil
			}
			state = next
			continue
		}

		if state.CurrentTurn != 0 {
			result, err := driver.PlayTurn(ctx, state, rng)
			if err != nil {
				return nil, 0, err
			}
			state = result.State
			continue
		}

		next, err := trainSeatZeroTurn(ctx, sm, state, fallback, dqn, rng, &experiences)
		if err != nil {
			return nil, 0, err
		}
		state = next
	}

	return nil, 0, fmt.Errorf("zapzap: train match exceeded %d turns (seed %d)", maxTurnsPerTrainMatch, matchSeed)
}

// trainSeatZeroTurn submits exactly one transition for seat 0, recording a
// Call-decision Experience whenever its hand qualifies for the eligibility
// gate, and backfilling the previous experience's NextFeatures once a new
// state exists (one-step TD bootstrapping target, spec §4.6).
func trainSeatZeroTurn(ctx context.Context, sm *engine.StateMachine, state *engine.GameState, fallback strategy.Strategy, dqn *learner.DQN, rng *rand.Rand, experiences *[]learner.Experience) (*engine.GameState, error) {
	var next *engine.GameState

	switch state.CurrentAction {
	case engine.PhaseSelectHandSize:
		min, max := state.HandSizeRange()
		handSize := fallback.SelectHandSize(ctx, min, max, rng)
		n, _, err := sm.SelectHandSize(state, 0, handSize)
		if err != nil {
			return nil, err
		}
		next = n

	case engine.PhasePlay:
		hand := state.Hands[0]
		public := seatZeroPublicState(state)
		if hand.EligibilityValue() <= engine.EligibilityMax() {
			features := learner.ExtractFeatures(hand, opponentSizes(state), state.RoundNumber, state.IsGoldenScore)
			action := dqn.SelectAction(features, rng)
			*experiences = append(*experiences, learner.Experience{Features: features, Action: action})
			if action == 1 {
				n, _, _, err := sm.CallZapZap(state, 0)
				if err != nil {
					return nil, err
				}
				next = n
				break
			}
		}
		play := fallback.SelectPlay(ctx, hand, public, rng)
		n, _, err := sm.PlayCards(state, 0, play)
		if err != nil {
			play = cards.Hand{lowestCard(hand)}
			n, _, err = sm.PlayCards(state, 0, play)
			if err != nil {
				return nil, err
			}
		}
		next = n

	case engine.PhaseDraw:
		hand := state.Hands[0]
		public := seatZeroPublicState(state)
		source, card := fallback.SelectDrawSource(ctx, hand, public, rng)
		n, _, err := sm.DrawCard(state, 0, source, card)
		if err != nil {
			n, _, err = sm.DrawCard(state, 0, engine.SourceDeck, 0)
			if err != nil {
				return nil, err
			}
		}
		next = n

	default:
		return nil, fmt.Errorf("zapzap: unexpected phase %s for seat 0", state.CurrentAction)
	}

	if n := len(*experiences); n > 0 {
		idx := n - 1
		if (*experiences)[idx].NextFeatures == nil {
			if h, ok := next.Hands[0]; ok && len(h) > 0 {
				(*experiences)[idx].NextFeatures = learner.ExtractFeatures(h, opponentSizes(next), next.RoundNumber, next.IsGoldenScore)
			}
		}
	}
	return next, nil
}

func lowestCard(hand cards.Hand) cards.Card {
	lowest := hand[0]
	for _, c := range hand[1:] {
		if c.EligibilityPoints() < lowest.EligibilityPoints() {
			lowest = c
		}
	}
	return lowest
}

func seatZeroPublicState(state *engine.GameState) strategy.PublicState {
	return strategy.PublicState{
		RoundNumber:       state.RoundNumber,
		IsGoldenScore:     state.IsGoldenScore,
		TopRegion:         state.LastCardsPlayed,
		OpponentHandSizes: opponentSizesMap(state),
		Self:              0,
	}
}

func opponentSizesMap(state *engine.GameState) map[int]int {
	sizes := make(map[int]int, state.PlayerCount)
	for i := 0; i < state.PlayerCount; i++ {
		if i == 0 || state.EliminatedPlayers[i] {
			continue
		}
		sizes[i] = len(state.Hands[i])
	}
	return sizes
}

func opponentSizes(state *engine.GameState) []int {
	m := opponentSizesMap(state)
	out := make([]int, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	return out
}

// finalReward computes seat 0's terminal reward for the whole match from
// the match-end record, reusing learner.Reward's rank/win/elimination
// blend with ScoreDelta left at 0 since a match-end record carries no
// single round's score delta for a non-winning seat.
func finalReward(record *lifecycle.MatchEndRecord) float64 {
	rank := 1
	if record.WinnerID != 0 {
		rank = 2
	}
	return learner.Reward(learner.Outcome{
		Rank:        rank,
		PlayerCount: record.PlayerCount,
		Won:         record.WinnerID == 0,
	})
}
