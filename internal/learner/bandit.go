// Package learner implements the contextual bandit and deep-Q-style
// learner consuming Batch Simulator outcomes (spec §4.6). Grounded on the
// teacher's sdk/solver CFR machinery (regret.go's RegretEntry/InfoSetKey
// shape, trainer.go's iterative train loop): regret-matching is replaced
// by ε-greedy running averages per spec §4.6, but the per-infoset
// mutex-guarded accumulator and the "run a batch, then update" loop are
// carried over directly.
package learner

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Decision names one of the four decision types a strategy makes (spec
// §4.4 Bandit: "four contextual bandits, one per decision type").
type Decision string

const (
	DecisionHandSize Decision = "HandSize"
	DecisionPlay     Decision = "Play"
	DecisionDraw     Decision = "Draw"
	DecisionCall     Decision = "Call"
)

// infoSetKey identifies one (decision, context, action) cell, mirroring the
// teacher's InfoSetKey string-keyed regret table.
type infoSetKey struct {
	decision Decision
	context  string
	action   string
}

func (k infoSetKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.decision, k.context, k.action)
}

type valueEntry struct {
	sum   float64
	count int
}

func (e *valueEntry) mean() float64 {
	if e.count == 0 {
		return 0
	}
	return e.sum / float64(e.count)
}

// Bandit is a running-average contextual bandit over a small discrete
// action space per decision type, with ε-greedy exploration that decays
// per decision type as more observations accumulate (spec §4.6).
type Bandit struct {
	mu      sync.Mutex
	values  map[infoSetKey]*valueEntry
	visits  map[Decision]int
	epsilon0 float64
	epsilonMin float64
	decay    float64
}

// NewBandit constructs a Bandit. epsilon0 is the initial exploration rate,
// epsilonMin is the floor it decays toward, and decay controls how fast
// (larger decay = faster convergence to epsilonMin) — all exposed via
// internal/config per spec §4.6 ("all parameters exposed").
func NewBandit(epsilon0, epsilonMin, decay float64) *Bandit {
	return &Bandit{
		values:     make(map[infoSetKey]*valueEntry),
		visits:     make(map[Decision]int),
		epsilon0:   epsilon0,
		epsilonMin: epsilonMin,
		decay:      decay,
	}
}

// epsilonFor returns the current exploration rate for decision, decaying
// with the number of times that decision type has been selected.
func (b *Bandit) epsilonFor(decision Decision) float64 {
	n := float64(b.visits[decision])
	eps := b.epsilon0 / (1 + b.decay*n)
	if eps < b.epsilonMin {
		return b.epsilonMin
	}
	return eps
}

// SelectAction picks an action for decision in context from actions:
// ε-greedy over the running-average value estimates. On the greedy branch,
// ties (including the all-zero case before anything has been observed) go
// to the earliest action in actions.
func (b *Bandit) SelectAction(decision Decision, context string, actions []string, rng *rand.Rand) string {
	if len(actions) == 0 {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visits[decision]++

	if rng.Float64() < b.epsilonFor(decision) {
		return actions[rng.IntN(len(actions))]
	}

	best := actions[0]
	bestVal := b.values[infoSetKey{decision, context, best}].mean()
	for _, a := range actions[1:] {
		v := b.values[infoSetKey{decision, context, a}].mean()
		if v > bestVal {
			best, bestVal = a, v
		}
	}
	return best
}

// Update folds an observed reward into the running average for
// (decision, context, action) (spec §4.6: "running averages").
func (b *Bandit) Update(decision Decision, context, action string, reward float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := infoSetKey{decision, context, action}
	e, ok := b.values[key]
	if !ok {
		e = &valueEntry{}
		b.values[key] = e
	}
	e.sum += reward
	e.count++
}

// ValueEstimate returns the current running-average value for
// (decision, context, action), or 0 if unobserved. Exposed for diagnostics
// and tests; not used by SelectAction's hot path.
func (b *Bandit) ValueEstimate(decision Decision, context, action string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[infoSetKey{decision, context, action}].mean()
}
