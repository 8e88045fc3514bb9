package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// easyZapThreshold is Easy's Call-ZapZap eligibility gate (spec §4.4 Easy).
const easyZapThreshold = 5

// Easy plays a uniformly random valid play, calls on a loose eligibility
// threshold, and only reaches into the top region when it can strictly
// lower its hand value — grounded on the teacher's RandBot
// (internal/bot/randbot.go), which picks uniformly among valid actions with
// no opponent modeling at all.
type Easy struct{}

// NewEasy constructs the Easy strategy. It is stateless.
func NewEasy() *Easy { return &Easy{} }

func (Easy) SelectHandSize(_ context.Context, min, max int, rng *rand.Rand) int {
	return randHandSize(min, max, rng)
}

func (Easy) SelectPlay(_ context.Context, hand cards.Hand, _ PublicState, rng *rand.Rand) cards.Hand {
	return analyzer.FindRandomPlay(analyzer.FindAllValidPlays(hand), rng)
}

func (Easy) ShouldZapZap(_ context.Context, hand cards.Hand, _ PublicState) bool {
	return hand.EligibilityValue() <= easyZapThreshold
}

// SelectDrawSource draws from the top region only if it holds a card whose
// eligibility points are lower than the average of the hand's own cards —
// i.e. a card that would pull the hand's eligibility value down if kept
// (spec §4.4 Easy: "draw from top only if an eligibility-point-lower card
// is available").
func (Easy) SelectDrawSource(_ context.Context, hand cards.Hand, state PublicState, _ *rand.Rand) (engine.DrawSource, cards.Card) {
	if len(state.TopRegion) == 0 || len(hand) == 0 {
		return engine.SourceDeck, 0
	}
	avg := float64(hand.EligibilityValue()) / float64(len(hand))

	best := state.TopRegion[0]
	bestPoints := best.EligibilityPoints()
	for _, c := range state.TopRegion[1:] {
		if p := c.EligibilityPoints(); p < bestPoints {
			best, bestPoints = c, p
		}
	}
	if float64(bestPoints) < avg {
		return engine.SourceTopRegion, best
	}
	return engine.SourceDeck, 0
}
