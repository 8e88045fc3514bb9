// Package strategy implements the Strategy zoo (spec §4.4): Easy, Medium,
// Hard, Thibot, Bandit, MCTS, and External, each exposing the same four
// decisions over public state and a bot's own hand. Grounded on the
// teacher's one-bot-per-file convention in internal/bot
// (foldbot.go/randbot.go/maniacbot.go/tagbot.go/chartbot.go/bot.go), where
// every bot implements a single MakeDecision method over a shared
// TableState/ValidAction contract.
package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// PublicState is everything a strategy may see besides its own hand: no
// component ever hands a strategy another seat's cards (spec §4.3/§4.4 only
// operate over public state and own hand).
type PublicState struct {
	RoundNumber       int
	IsGoldenScore     bool
	TopRegion         cards.Hand
	OpponentHandSizes map[int]int // seat -> hand size, excludes Self
	Self              int
}

// MinOpponentHandSize returns the smallest hand size among tracked
// opponents, or a large sentinel if there are none (so "min <= N" checks
// never misfire on a single-opponent edge case).
func (s PublicState) MinOpponentHandSize() int {
	min := 1 << 30
	for seat, n := range s.OpponentHandSizes {
		if seat == s.Self {
			continue
		}
		if n < min {
			min = n
		}
	}
	return min
}

// Strategy is the decision contract every bot implementation satisfies (spec
// §4.4). Context is threaded through every method only because External
// needs it for its remote-call timeout; in-process strategies ignore it.
type Strategy interface {
	// SelectHandSize chooses a value in the legal [min,max] range for T1.
	SelectHandSize(ctx context.Context, min, max int, rng *rand.Rand) int
	// SelectPlay chooses a non-empty subset of hand to play for T2.
	SelectPlay(ctx context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) cards.Hand
	// ShouldZapZap reports whether to call ZapZap instead of playing, given
	// hand's eligibility value already qualifies (spec §4.2 T4 gate).
	ShouldZapZap(ctx context.Context, hand cards.Hand, state PublicState) bool
	// SelectDrawSource chooses where T3 draws from; the returned card id is
	// only meaningful when the source is engine.SourceTopRegion.
	SelectDrawSource(ctx context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) (engine.DrawSource, cards.Card)
}

// randHandSize picks uniformly within [min,max]. Spec §4.4 only specifies
// differentiated play/draw/call logic per strategy and is silent on
// selectHandSize; every strategy below shares this default (an Open
// Question decision recorded in DESIGN.md).
func randHandSize(min, max int, rng *rand.Rand) int {
	if max <= min {
		return min
	}
	return min + rng.IntN(max-min+1)
}

// enablesMultiCardPlay reports whether adding c to hand would let a play
// that includes c reach size >= 2, i.e. drawing c "unlocks" a combo it
// cannot form alone.
func enablesMultiCardPlay(hand cards.Hand, c cards.Card) (cards.Hand, bool) {
	candidate := hand.Add(c)
	for _, p := range allValidPlaysContaining(candidate, c) {
		if len(p) >= 2 {
			return p, true
		}
	}
	return nil, false
}

func allValidPlaysContaining(hand cards.Hand, c cards.Card) []cards.Hand {
	var out []cards.Hand
	for _, p := range analyzer.FindAllValidPlays(hand) {
		if p.Contains(c) {
			out = append(out, p)
		}
	}
	return out
}
