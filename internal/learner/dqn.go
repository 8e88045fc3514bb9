package learner

import (
	"math/rand/v2"
	"sync"
)

// Experience is one (context features, action, reward, next-context
// features) transition stored in the replay buffer (spec §4.6: "experience
// replay").
type Experience struct {
	Features     []float64
	Action       int
	Reward       float64
	NextFeatures []float64
	Done         bool
}

// DQNConfig exposes every deep-Q hyperparameter spec §4.6 requires
// ("experience replay, target network soft-update, and ε-decay schedules
// (all parameters exposed)"). There is no neural-network library anywhere
// in the example pack (see DESIGN.md), so the "deep" network here is a
// linear function approximator per action over the feature vector — the
// same replay/target-network/ε-decay training loop the spec calls for,
// without inventing a dependency the corpus never reaches for.
type DQNConfig struct {
	Features     int
	Actions      int
	LearningRate float64
	Gamma        float64 // discount factor
	Epsilon0     float64
	EpsilonMin   float64
	EpsilonDecay float64
	TargetTau    float64 // soft-update rate, target += tau*(online-target)
	ReplayCap    int
	BatchSize    int
}

// DefaultDQNConfig returns reasonable defaults for a ZapZap-scale decision
// space (small feature vectors, a handful of discrete actions).
func DefaultDQNConfig(features, actions int) DQNConfig {
	return DQNConfig{
		Features:     features,
		Actions:      actions,
		LearningRate: 0.01,
		Gamma:        0.9,
		Epsilon0:     0.3,
		EpsilonMin:   0.02,
		EpsilonDecay: 0.0005,
		TargetTau:    0.01,
		ReplayCap:    10000,
		BatchSize:    32,
	}
}

// DQN is a linear-approximation Q-learner with a soft-updated target
// network and a replay buffer, trained iteratively over simulator batches
// (spec §4.6). Online and target weights are both [actions][features]
// matrices; Q(features, a) = dot(weights[a], features).
type DQN struct {
	mu     sync.Mutex
	cfg    DQNConfig
	online [][]float64
	target [][]float64
	replay []Experience
	steps  int
}

// NewDQN constructs a DQN with zero-initialized weights.
func NewDQN(cfg DQNConfig) *DQN {
	online := make([][]float64, cfg.Actions)
	target := make([][]float64, cfg.Actions)
	for a := range online {
		online[a] = make([]float64, cfg.Features)
		target[a] = make([]float64, cfg.Features)
	}
	return &DQN{cfg: cfg, online: online, target: target}
}

func (d *DQN) epsilon() float64 {
	eps := d.cfg.Epsilon0 / (1 + d.cfg.EpsilonDecay*float64(d.steps))
	if eps < d.cfg.EpsilonMin {
		return d.cfg.EpsilonMin
	}
	return eps
}

// SelectAction returns an ε-greedy action index over the online network's
// Q-values for features.
func (d *DQN) SelectAction(features []float64, rng *rand.Rand) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps++

	if rng.Float64() < d.epsilon() {
		return rng.IntN(d.cfg.Actions)
	}
	return argmaxQ(d.online, features)
}

func argmaxQ(weights [][]float64, features []float64) int {
	best := 0
	bestQ := dot(weights[0], features)
	for a := 1; a < len(weights); a++ {
		if q := dot(weights[a], features); q > bestQ {
			best, bestQ = a, q
		}
	}
	return best
}

func dot(w, x []float64) float64 {
	n := len(w)
	if len(x) < n {
		n = len(x)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += w[i] * x[i]
	}
	return sum
}

// Remember appends an experience to the replay buffer, evicting the oldest
// entry once ReplayCap is reached (spec §4.6 experience replay).
func (d *DQN) Remember(e Experience) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replay = append(d.replay, e)
	if len(d.replay) > d.cfg.ReplayCap {
		d.replay = d.replay[len(d.replay)-d.cfg.ReplayCap:]
	}
}

// Train samples a batch from the replay buffer, applies one gradient step
// of TD-learning against the target network's bootstrapped value, and
// soft-updates the target network toward the online weights (spec §4.6:
// "target network soft-update"). A no-op if the buffer is smaller than one
// batch.
func (d *DQN) Train(rng *rand.Rand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.replay) < d.cfg.BatchSize {
		return
	}

	for i := 0; i < d.cfg.BatchSize; i++ {
		e := d.replay[rng.IntN(len(d.replay))]

		targetQ := e.Reward
		if !e.Done && len(e.NextFeatures) > 0 {
			targetQ += d.cfg.Gamma * maxQ(d.target, e.NextFeatures)
		}
		predicted := dot(d.online[e.Action], e.Features)
		tdError := targetQ - predicted

		w := d.online[e.Action]
		for j := range w {
			if j >= len(e.Features) {
				break
			}
			w[j] += d.cfg.LearningRate * tdError * e.Features[j]
		}
	}

	for a := range d.online {
		for j := range d.online[a] {
			d.target[a][j] += d.cfg.TargetTau * (d.online[a][j] - d.target[a][j])
		}
	}
}

func maxQ(weights [][]float64, features []float64) float64 {
	best := dot(weights[0], features)
	for a := 1; a < len(weights); a++ {
		if q := dot(weights[a], features); q > best {
			best = q
		}
	}
	return best
}
