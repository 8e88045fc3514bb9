package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// mctsDefaultRollouts and mctsDefaultDepth bound MCTS's per-decision search
// budget (spec §4.4 MCTS: "simulate N rollouts ... uniform-random legal
// actions for unknown hands"). NewMCTS always uses these values;
// internal/config has no setting for them.
const (
	mctsDefaultRollouts = 64
	mctsDefaultDepth    = 3
)

// MCTS simulates forward from the current public state with uniform-random
// play for every seat (since opponents' hands are unknown) and scores each
// candidate play by the average final rank it led to, using that to pick
// SelectPlay only; every other decision defers to Hard (spec §4.4 MCTS:
// "used optionally for PlayCards selection"). Grounded on the teacher's
// sdk/solver Monte-Carlo CFR traversal shape (random-walk rollouts scored
// at a terminal node), simplified from full counterfactual-regret
// bookkeeping to plain rollout averaging since ZapZap has no betting tree
// to traverse.
type MCTS struct {
	fallback  *Hard
	rollouts  int
	depth     int
	unseen    cards.Hand // pool to draw simulated opponent hands/redraws from
	oppCounts []int      // hand sizes of opponents at rollout start
}

// NewMCTS constructs an MCTS strategy with the default rollout budget.
func NewMCTS() *MCTS {
	return &MCTS{fallback: NewHard(), rollouts: mctsDefaultRollouts, depth: mctsDefaultDepth}
}

func (m *MCTS) SelectHandSize(ctx context.Context, min, max int, rng *rand.Rand) int {
	return m.fallback.SelectHandSize(ctx, min, max, rng)
}

func (m *MCTS) ShouldZapZap(ctx context.Context, hand cards.Hand, state PublicState) bool {
	return m.fallback.ShouldZapZap(ctx, hand, state)
}

func (m *MCTS) SelectDrawSource(ctx context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) (engine.DrawSource, cards.Card) {
	return m.fallback.SelectDrawSource(ctx, hand, state, rng)
}

// SelectPlay rolls out mcts.rollouts random continuations per candidate
// play and returns the one with the best (lowest) average final rank for
// this seat.
func (m *MCTS) SelectPlay(_ context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) cards.Hand {
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}
	if len(plays) == 1 {
		return plays[0]
	}

	unseen := unseenPool(hand, state)
	oppCounts := opponentHandSizes(state)

	best := plays[0]
	bestAvgRank := mctsAverageRank(best, hand, oppCounts, unseen, m.rollouts, m.depth, rng)
	for _, p := range plays[1:] {
		r := mctsAverageRank(p, hand, oppCounts, unseen, m.rollouts, m.depth, rng)
		if r < bestAvgRank {
			best, bestAvgRank = p, r
		}
	}
	return best
}

func unseenPool(hand cards.Hand, state PublicState) cards.Hand {
	known := map[cards.Card]bool{}
	for _, c := range hand {
		known[c] = true
	}
	for _, c := range state.TopRegion {
		known[c] = true
	}
	var pool cards.Hand
	for _, c := range cards.All() {
		if !known[c] {
			pool = append(pool, c)
		}
	}
	return pool
}

func opponentHandSizes(state PublicState) []int {
	var out []int
	for seat, n := range state.OpponentHandSizes {
		if seat == state.Self {
			continue
		}
		out = append(out, n)
	}
	return out
}

// mctsAverageRank rolls out `rollouts` random continuations of playing
// `play` from `hand`, each dealing the unseen pool to fake opponent hands
// of size oppCounts, then simulating `depth` more rounds of uniform-random
// discard+redraw for every seat, and returns self's average final rank
// (1=lowest scoring value, best) across rollouts.
func mctsAverageRank(play, hand cards.Hand, oppCounts []int, unseen cards.Hand, rollouts, depth int, rng *rand.Rand) float64 {
	total := 0.0
	for i := 0; i < rollouts; i++ {
		total += float64(rolloutRank(play, hand, oppCounts, unseen, depth, rng))
	}
	return total / float64(rollouts)
}

func rolloutRank(play, hand cards.Hand, oppCounts []int, unseen cards.Hand, depth int, rng *rand.Rand) int {
	pool := append(cards.Hand(nil), unseen...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	selfHand := hand.Remove(play)
	oppHands := make([]cards.Hand, len(oppCounts))
	for i, n := range oppCounts {
		take := n
		if take > len(pool) {
			take = len(pool)
		}
		oppHands[i] = append(cards.Hand(nil), pool[:take]...)
		pool = pool[take:]
	}

	allHands := append([]cards.Hand{selfHand}, oppHands...)
	for step := 0; step < depth; step++ {
		for i := range allHands {
			allHands[i], pool = randomTurn(allHands[i], pool, rng)
		}
	}

	selfValue := allHands[0].ScoringValue()
	rank := 1
	for _, h := range allHands[1:] {
		if h.ScoringValue() < selfValue {
			rank++
		}
	}
	return rank
}

// randomTurn simulates one uniform-random discard-then-redraw turn: play a
// random valid play (nothing, if none enumerate), then draw the next card
// from pool, which rolloutRank shuffled up front.
func randomTurn(hand cards.Hand, pool cards.Hand, rng *rand.Rand) (cards.Hand, cards.Hand) {
	plays := analyzer.FindAllValidPlays(hand)
	play := analyzer.FindRandomPlay(plays, rng)
	next := hand.Remove(play)

	if len(pool) == 0 {
		return next, pool
	}
	drawn := pool[0]
	return next.Add(drawn), pool[1:]
}
