package strategy

import (
	"context"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// Round bands for Hard's Call-ZapZap threshold (spec §4.4 Hard: "varies by
// roundNumber"). Spec leaves the exact band boundaries open; these mirror a
// tightening-as-the-match-progresses curve and are recorded as an Open
// Question decision in DESIGN.md.
const (
	hardEarlyRoundMax = 2
	hardMidRoundMax   = 5

	hardEarlyZapThreshold = 2
	hardMidZapThreshold   = 3
	hardLateZapThreshold  = 4

	hardDrawValueThreshold = 5.0
	hardSetBonus           = 3.0
)

// Hard ranks candidate plays by a value function that trades off points
// shed against play size, tightens its Call threshold as the match
// progresses, and values top-region draws by the combos they would create
// — grounded on the teacher's fully opponent-modeled Bot
// (internal/bot/bot.go), whose MakeDecision blends an equity estimate, a
// positional factor, and pot odds into weighted action probabilities; Hard
// keeps that "weighted value function over several signals" shape without
// the betting-specific inputs that don't exist in ZapZap.
type Hard struct{}

// NewHard constructs the Hard strategy. It is stateless.
func NewHard() *Hard { return &Hard{} }

func (Hard) SelectHandSize(_ context.Context, min, max int, rng *rand.Rand) int {
	return randHandSize(min, max, rng)
}

// SelectPlay ranks analyzer.FindAllValidPlays by -remainingHandValue +
// 0.5*playSize (spec §4.4 Hard) and returns the maximizer.
func (Hard) SelectPlay(_ context.Context, hand cards.Hand, _ PublicState, _ *rand.Rand) cards.Hand {
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}
	best := plays[0]
	bestScore := hardPlayScore(hand, best)
	for _, p := range plays[1:] {
		if s := hardPlayScore(hand, p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best
}

func hardPlayScore(hand, play cards.Hand) float64 {
	remaining := hand.Remove(play)
	return -float64(remaining.ScoringValue()) + 0.5*float64(len(play))
}

func (Hard) ShouldZapZap(_ context.Context, hand cards.Hand, state PublicState) bool {
	var threshold int
	switch {
	case state.RoundNumber <= hardEarlyRoundMax:
		threshold = hardEarlyZapThreshold
	case state.RoundNumber <= hardMidRoundMax:
		threshold = hardMidZapThreshold
	default:
		threshold = hardLateZapThreshold
	}
	return hand.EligibilityValue() <= threshold
}

// SelectDrawSource values each top-region card by combosCreated (number of
// new multi-card plays it unlocks) plus a low-point bonus (reward for cards
// near the eligibility floor) plus a set bonus (reward for matching an
// existing rank in hand), and draws from the top region if the best value
// exceeds hardDrawValueThreshold (spec §4.4 Hard).
func (Hard) SelectDrawSource(_ context.Context, hand cards.Hand, state PublicState, _ *rand.Rand) (engine.DrawSource, cards.Card) {
	var bestCard cards.Card
	bestValue := hardDrawValueThreshold
	found := false

	for _, c := range state.TopRegion {
		v := hardDrawValue(hand, c)
		if v > bestValue || (!found && v == bestValue) {
			bestCard, bestValue, found = c, v, true
		}
	}
	if found {
		return engine.SourceTopRegion, bestCard
	}
	return engine.SourceDeck, 0
}

func hardDrawValue(hand cards.Hand, c cards.Card) float64 {
	combosCreated := 0
	for _, p := range allValidPlaysContaining(hand.Add(c), c) {
		if len(p) >= 2 {
			combosCreated++
		}
	}

	lowPointBonus := 0.0
	if !c.IsJoker() {
		if pts := c.EligibilityPoints(); pts < 5 {
			lowPointBonus = float64(5 - pts)
		}
	}

	setBonus := 0.0
	if !c.IsJoker() {
		for _, hc := range hand {
			if !hc.IsJoker() && hc.Rank() == c.Rank() {
				setBonus = hardSetBonus
				break
			}
		}
	}

	return float64(combosCreated)*2.0 + lowPointBonus + setBonus
}
