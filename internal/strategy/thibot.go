package strategy

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// ThibotJokerScore etc. are the fixed, published weight vector Thibot
// evaluates remaining-hand combo potential with (spec §4.4 Thibot:
// "documented constants for joker score, pair/sequence bonuses, dead-rank
// penalties"). They default to the spec's published values but are plain
// package vars, not consts, so internal/config can override them for
// experimentation at process start — before any match begins, never mid-run.
var (
	ThibotJokerScore      = 8.0
	ThibotPairBonus       = 4.0
	ThibotSequenceBonus   = 6.0
	ThibotDeadRankPenalty = 2.0

	// thibotDumpThreshold is the minimum-opponent-hand-size at/below which
	// Thibot switches from building combo potential to dumping its
	// highest-point card (spec §4.4 Thibot).
	thibotDumpThreshold = 4
)

// Thibot evaluates combo-building potential with a published weight vector,
// switching between an offensive (build toward a low hand) and defensive
// (dump highest points) posture based on how close the nearest opponent is
// to calling. Grounded on the teacher's range-based equity model
// (internal/bot/bot.go's evaluateHandStrengthWithThinking +
// internal/bot/range_builder.go), generalized from "range vs. board
// equity" to "weighted combo potential vs. remaining turns before an
// opponent can call".
type Thibot struct{}

// NewThibot constructs the Thibot strategy. It is stateless.
func NewThibot() *Thibot { return &Thibot{} }

func (Thibot) SelectHandSize(_ context.Context, min, max int, rng *rand.Rand) int {
	return randHandSize(min, max, rng)
}

func (Thibot) SelectPlay(_ context.Context, hand cards.Hand, state PublicState, _ *rand.Rand) cards.Hand {
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}
	if state.MinOpponentHandSize() <= thibotDumpThreshold {
		return analyzer.FindHighValuePlay(plays)
	}

	base := comboPotential(hand)
	best := plays[0]
	bestScore := math.Inf(-1)
	for _, p := range plays {
		remaining := hand.Remove(p)
		lostPotential := base - comboPotential(remaining)
		score := float64(p.ScoringValue()) - lostPotential
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	return best
}

// ShouldZapZap stratifies the Call-ZapZap eligibility gate by how close the
// nearest opponent is to calling (spec §4.4 Thibot).
func (Thibot) ShouldZapZap(_ context.Context, hand cards.Hand, state PublicState) bool {
	minOpp := state.MinOpponentHandSize()
	var threshold int
	switch {
	case minOpp <= 2:
		threshold = 2
	case minOpp <= 4:
		threshold = 4
	default:
		threshold = 6
	}
	return hand.EligibilityValue() <= threshold
}

// SelectDrawSource draws the top-region card that most improves combo
// potential, provided it clears a minimum improvement — matching the same
// weight vector used for SelectPlay.
func (Thibot) SelectDrawSource(_ context.Context, hand cards.Hand, state PublicState, _ *rand.Rand) (engine.DrawSource, cards.Card) {
	base := comboPotential(hand)
	var bestCard cards.Card
	bestDelta := 2.0 // minimum improvement to bother with a public card
	found := false

	for _, c := range state.TopRegion {
		delta := comboPotential(hand.Add(c)) - base
		if delta > bestDelta {
			bestCard, bestDelta, found = c, delta, true
		}
	}
	if found {
		return engine.SourceTopRegion, bestCard
	}
	return engine.SourceDeck, 0
}

// comboPotential scores a hand's latent combo value using the published
// weight vector: jokers are pure potential (ThibotJokerScore each), every
// same-rank pairing beyond the first card in a group adds ThibotPairBonus,
// every adjacent same-suit rank pair adds ThibotSequenceBonus, and a
// non-joker card with no same-rank or adjacent-suit neighbor (a "dead
// rank") subtracts ThibotDeadRankPenalty.
func comboPotential(hand cards.Hand) float64 {
	score := float64(hand.JokerCount()) * ThibotJokerScore

	byRank := map[cards.Rank][]cards.Card{}
	bySuit := map[cards.Suit][]cards.Card{}
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		byRank[c.Rank()] = append(byRank[c.Rank()], c)
		bySuit[c.Suit()] = append(bySuit[c.Suit()], c)
	}

	for _, group := range byRank {
		if len(group) >= 2 {
			score += float64(len(group)-1) * ThibotPairBonus
		}
	}

	connected := map[cards.Card]bool{}
	for _, group := range bySuit {
		sorted := append([]cards.Card(nil), group...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank() < sorted[j].Rank() })
		for i := 1; i < len(sorted); i++ {
			if int(sorted[i].Rank())-int(sorted[i-1].Rank()) == 1 {
				score += ThibotSequenceBonus
				connected[sorted[i]] = true
				connected[sorted[i-1]] = true
			}
		}
	}

	for _, c := range hand {
		if c.IsJoker() || connected[c] {
			continue
		}
		if len(byRank[c.Rank()]) >= 2 {
			continue
		}
		score -= ThibotDeadRankPenalty
	}

	return score
}
