package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/learner"
)

// BenchCmd times the two learner diagnostics named by the feature and DQN
// inference hot paths, outside `go test -bench` since the toolchain is
// never invoked here. Grounded on the teacher's cmd/benchmark/main.go's
// CLI-flag shape (iteration count, human-readable timing report), adapted
// from "bots vs a running poker server" to "pure in-process function
// timing" since ZapZap's learner has no network/server component to
// benchmark against.
type BenchCmd struct {
	Iterations int `kong:"default='200000',help='Iterations per benchmark'"`
}

func (c *BenchCmd) Run() error {
	n := c.Iterations
	if n <= 0 {
		n = 1
	}

	fmt.Printf("feature extraction: %s\n", formatPerOp(benchFeatureExtraction(n), n))
	fmt.Printf("dqn inference:      %s\n", formatPerOp(benchDqnInference(n), n))
	return nil
}

func benchFeatureExtraction(n int) time.Duration {
	hand := cards.Hand{cards.Card(0), cards.Card(13), cards.Card(26), cards.Card(5)}
	opp := []int{4, 5, 3}

	started := time.Now()
	for i := 0; i < n; i++ {
		learner.ExtractFeatures(hand, opp, 3, false)
	}
	return time.Since(started)
}

func benchDqnInference(n int) time.Duration {
	cfg := learner.DefaultDQNConfig(learner.FeatureCount, 5)
	dqn := learner.NewDQN(cfg)
	rng := rand.New(rand.NewPCG(1, 2))
	features := learner.ExtractFeatures(cards.Hand{cards.Card(0), cards.Card(13)}, []int{4, 5}, 1, false)

	started := time.Now()
	for i := 0; i < n; i++ {
		dqn.SelectAction(features, rng)
	}
	return time.Since(started)
}

func formatPerOp(total time.Duration, n int) string {
	perOp := total / time.Duration(n)
	return fmt.Sprintf("%s total, %s/op (%d ops)", total.Round(time.Microsecond), perOp, n)
}
