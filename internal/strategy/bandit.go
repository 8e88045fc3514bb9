package strategy

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/learner"
)

// Discrete action spaces for the Bandit's four decision types (spec §4.4
// Bandit).
const (
	playSingleHigh  = "single_high"
	playMultiHigh   = "multi_high"
	playAvoidJoker  = "avoid_joker"
	playUseJokerCombo = "use_joker_combo"
	playOptimal     = "optimal"

	drawDeck = "Deck"
	drawTop  = "TopRegion"

	callYes = "call"
	callNo  = "no_call"
)

var playActions = []string{playSingleHigh, playMultiHigh, playAvoidJoker, playUseJokerCombo, playOptimal}
var drawActions = []string{drawDeck, drawTop}
var callActions = []string{callYes, callNo}

// Bandit drives each of the four decisions through its own contextual
// bandit over a small discrete action space (spec §4.4 Bandit), with two
// hard-rule safety nets that override the learned policy: never play a
// joker in Golden Score, and prefer joker-inclusive combos once any
// opponent is down to <=2 cards.
type Bandit struct {
	model *learner.Bandit
}

// NewBandit wraps model (shared across a simulator/training run so value
// estimates accumulate across matches) into a Strategy.
func NewBandit(model *learner.Bandit) *Bandit {
	return &Bandit{model: model}
}

func (b *Bandit) SelectHandSize(_ context.Context, min, max int, rng *rand.Rand) int {
	actions := make([]string, 0, max-min+1)
	for n := min; n <= max; n++ {
		actions = append(actions, fmt.Sprintf("%d", n))
	}
	ctx := fmt.Sprintf("min=%d,max=%d", min, max)
	chosen := b.model.SelectAction(learner.DecisionHandSize, ctx, actions, rng)
	var n int
	fmt.Sscanf(chosen, "%d", &n)
	if n < min || n > max {
		return min
	}
	return n
}

func (b *Bandit) SelectPlay(_ context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) cards.Hand {
	plays := analyzer.FindAllValidPlays(hand)
	if len(plays) == 0 {
		return nil
	}

	// Hard rule: never play a joker in Golden Score.
	if state.IsGoldenScore {
		if filtered := filterPlays(plays, hasNoJoker); len(filtered) > 0 {
			plays = filtered
		}
	}

	actionType := b.model.SelectAction(learner.DecisionPlay, playContext(hand, state), playActions, rng)

	// Hard rule: once any opponent is down to <=2 cards, prefer
	// joker-inclusive combos over whatever the bandit picked.
	if state.MinOpponentHandSize() <= 2 {
		if jokerPlays := filterPlays(plays, hasJoker); len(jokerPlays) > 0 {
			return analyzer.FindMaxPointPlay(jokerPlays)
		}
	}

	return selectByPlayType(plays, actionType)
}

func (b *Bandit) ShouldZapZap(_ context.Context, hand cards.Hand, state PublicState) bool {
	rng := rand.New(rand.NewPCG(uint64(hand.EligibilityValue()), uint64(state.RoundNumber)))
	action := b.model.SelectAction(learner.DecisionCall, callContext(hand, state), callActions, rng)
	return action == callYes
}

func (b *Bandit) SelectDrawSource(_ context.Context, hand cards.Hand, state PublicState, rng *rand.Rand) (engine.DrawSource, cards.Card) {
	if len(state.TopRegion) == 0 {
		return engine.SourceDeck, 0
	}
	action := b.model.SelectAction(learner.DecisionDraw, drawContext(hand, state), drawActions, rng)
	if action != drawTop {
		return engine.SourceDeck, 0
	}
	best := analyzer.FindHighValuePlay([]cards.Hand{state.TopRegion})
	if len(best) == 0 {
		return engine.SourceDeck, 0
	}
	// Prefer the lowest-points public card, mirroring Easy's draw
	// preference, since the bandit only decides source not which card.
	lowest := state.TopRegion[0]
	for _, c := range state.TopRegion[1:] {
		if c.EligibilityPoints() < lowest.EligibilityPoints() {
			lowest = c
		}
	}
	return engine.SourceTopRegion, lowest
}

// Update forwards an observed reward to the underlying learner.Bandit for
// (decision, context, action); called by the training driver once a
// match's outcome is known (spec §4.6).
func (b *Bandit) Update(decision learner.Decision, context, action string, reward float64) {
	b.model.Update(decision, context, action, reward)
}

func hasJoker(h cards.Hand) bool   { return h.JokerCount() > 0 }
func hasNoJoker(h cards.Hand) bool { return h.JokerCount() == 0 }

func filterPlays(plays []cards.Hand, keep func(cards.Hand) bool) []cards.Hand {
	var out []cards.Hand
	for _, p := range plays {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func selectByPlayType(plays []cards.Hand, actionType string) cards.Hand {
	switch actionType {
	case playSingleHigh:
		if singles := filterPlays(plays, func(h cards.Hand) bool { return len(h) == 1 }); len(singles) > 0 {
			return analyzer.FindHighValuePlay(singles)
		}
	case playMultiHigh:
		if multi := filterPlays(plays, func(h cards.Hand) bool { return len(h) >= 2 }); len(multi) > 0 {
			return analyzer.FindMaxPointPlay(multi)
		}
	case playAvoidJoker:
		if clean := filterPlays(plays, hasNoJoker); len(clean) > 0 {
			return analyzer.FindMaxPointPlay(clean)
		}
	case playUseJokerCombo:
		if withJoker := filterPlays(plays, hasJoker); len(withJoker) > 0 {
			return analyzer.FindMaxPointPlay(withJoker)
		}
	}
	return analyzer.FindMaxPointPlay(plays)
}

// Context builders bucket continuous/unbounded state into small discrete
// strings (spec §4.4 Bandit: "a fixed feature vector (hand value, hand
// size buckets, minimum opponent hand size, golden flag, joker count,
// etc.)").
func playContext(hand cards.Hand, state PublicState) string {
	return fmt.Sprintf("hv=%s,hs=%s,minOpp=%d,golden=%t,jokers=%d",
		bucket(hand.EligibilityValue(), 5), bucket(len(hand), 2), state.MinOpponentHandSize(), state.IsGoldenScore, hand.JokerCount())
}

func drawContext(hand cards.Hand, state PublicState) string {
	return fmt.Sprintf("hv=%s,top=%d,minOpp=%d", bucket(hand.EligibilityValue(), 5), len(state.TopRegion), state.MinOpponentHandSize())
}

func callContext(hand cards.Hand, state PublicState) string {
	return fmt.Sprintf("hv=%d,round=%s,minOpp=%d,golden=%t", hand.EligibilityValue(), bucket(state.RoundNumber, 3), state.MinOpponentHandSize(), state.IsGoldenScore)
}

func bucket(v, size int) string {
	return fmt.Sprintf("%d", v/size)
}
