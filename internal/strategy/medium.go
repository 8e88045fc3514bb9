package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// mediumZapThreshold is Medium's Call-ZapZap eligibility gate (spec §4.4
// Medium).
const mediumZapThreshold = 3

// Medium sheds the most points per turn (tie-broken by playing more
// cards), calls on a tighter threshold than Easy, and only reaches for the
// top region when doing so unlocks a new multi-card play — grounded on the
// teacher's TAGBot/ChartBot (internal/bot/tagbot.go, chartbot.go), which
// apply one concrete heuristic consistently rather than Easy's uniform
// randomness or the full opponent-modeling Bot.
type Medium struct{}

// NewMedium constructs the Medium strategy. It is stateless.
func NewMedium() *Medium { return &Medium{} }

func (Medium) SelectHandSize(_ context.Context, min, max int, rng *rand.Rand) int {
	return randHandSize(min, max, rng)
}

func (Medium) SelectPlay(_ context.Context, hand cards.Hand, _ PublicState, _ *rand.Rand) cards.Hand {
	return analyzer.FindMaxPointPlay(analyzer.FindAllValidPlays(hand))
}

func (Medium) ShouldZapZap(_ context.Context, hand cards.Hand, _ PublicState) bool {
	return hand.EligibilityValue() <= mediumZapThreshold
}

// SelectDrawSource picks from the top region iff some top card would
// unlock a multi-card play that the hand cannot already form (spec §4.4
// Medium). Among qualifying cards it prefers the one whose unlocked play
// sheds the most points.
func (Medium) SelectDrawSource(_ context.Context, hand cards.Hand, state PublicState, _ *rand.Rand) (engine.DrawSource, cards.Card) {
	var bestCard cards.Card
	var bestPlay cards.Hand
	found := false

	for _, c := range state.TopRegion {
		play, ok := enablesMultiCardPlay(hand, c)
		if !ok {
			continue
		}
		if !found || play.ScoringValue() > bestPlay.ScoringValue() {
			bestCard, bestPlay, found = c, play, true
		}
	}
	if found {
		return engine.SourceTopRegion, bestCard
	}
	return engine.SourceDeck, 0
}
