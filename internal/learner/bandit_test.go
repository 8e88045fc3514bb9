package learner

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanditConvergesToBestAction(t *testing.T) {
	b := NewBandit(0.5, 0.01, 0.05)
	rng := rand.New(rand.NewPCG(1, 2))
	actions := []string{"low", "high"}

	for i := 0; i < 2000; i++ {
		a := b.SelectAction(DecisionCall, "ctx", actions, rng)
		reward := 0.0
		if a == "high" {
			reward = 1.0
		}
		b.Update(DecisionCall, "ctx", a, reward)
	}

	assert.Greater(t, b.ValueEstimate(DecisionCall, "ctx", "high"), b.ValueEstimate(DecisionCall, "ctx", "low"))
}

func TestBanditEpsilonDecays(t *testing.T) {
	b := NewBandit(0.5, 0.01, 1.0)
	initial := b.epsilonFor(DecisionPlay)
	b.visits[DecisionPlay] = 100
	later := b.epsilonFor(DecisionPlay)
	assert.Less(t, later, initial)
}

func TestRewardCallScaling(t *testing.T) {
	base := Outcome{Rank: 1, PlayerCount: 4, ScoreDelta: 0, WasCallDecision: false}
	success := base
	success.WasCallDecision, success.CallSucceeded = true, true
	failure := base
	failure.WasCallDecision, failure.CallSucceeded = true, false

	assert.Greater(t, Reward(success), Reward(failure))
}

func TestNormalizeRewardsZeroMean(t *testing.T) {
	out := NormalizeRewards([]float64{1, 2, 3, 4, 5})
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}
