// Package config loads HCL configuration for cmd/zapzap (spec §3.11):
// simulator run parameters, per-strategy weight overrides (Thibot's
// published weight vector), learner hyperparameters, and the
// elimination/Golden-Score thresholds — all kept overridable rather than
// hard-coded, though every default matches spec.md exactly. Grounded on the
// teacher's internal/server.LoadServerConfig/ServerConfig shape:
// hclparse.NewParser + gohcl.DecodeBody into a tagged struct, missing-file
// falls back to defaults, omitted blocks and the zero-value fields of the
// rules/thibot/simulator blocks are backfilled from the defaults after
// decode, and a Validate method rejects an inconsistent config
// before it reaches any component.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/learner"
	"github.com/lox/zapzap/internal/strategy"
)

// Config is the complete root of a zapzap HCL file. Every block is a
// pointer so a file may omit any of them entirely; applyDefaults fills in
// whichever blocks were absent after decoding.
type Config struct {
	Rules     *RulesConfig     `hcl:"rules,block"`
	Thibot    *ThibotConfig    `hcl:"thibot,block"`
	Bandit    *BanditConfig    `hcl:"bandit,block"`
	DQN       *DQNConfig       `hcl:"dqn,block"`
	Simulator *SimulatorConfig `hcl:"simulator,block"`
}

// RulesConfig overrides engine.GameState's thresholds (spec §3 constants).
type RulesConfig struct {
	EliminationThreshold int `hcl:"elimination_threshold,optional"`
	EligibilityMax       int `hcl:"eligibility_max,optional"`
	NormalHandSizeMin    int `hcl:"normal_hand_size_min,optional"`
	NormalHandSizeMax    int `hcl:"normal_hand_size_max,optional"`
	GoldenHandSizeMin    int `hcl:"golden_hand_size_min,optional"`
	GoldenHandSizeMax    int `hcl:"golden_hand_size_max,optional"`
}

// ThibotConfig overrides Thibot's published weight vector (spec §4.4).
type ThibotConfig struct {
	JokerScore      float64 `hcl:"joker_score,optional"`
	PairBonus       float64 `hcl:"pair_bonus,optional"`
	SequenceBonus   float64 `hcl:"sequence_bonus,optional"`
	DeadRankPenalty float64 `hcl:"dead_rank_penalty,optional"`
}

// BanditConfig overrides the contextual bandit's exploration schedule
// (internal/learner.NewBandit).
type BanditConfig struct {
	Epsilon0   float64 `hcl:"epsilon0,optional"`
	EpsilonMin float64 `hcl:"epsilon_min,optional"`
	Decay      float64 `hcl:"decay,optional"`
}

// DQNConfig overrides the linear-approximator learner's hyperparameters
// (internal/learner.DQNConfig).
type DQNConfig struct {
	LearningRate float64 `hcl:"learning_rate,optional"`
	Gamma        float64 `hcl:"gamma,optional"`
	Epsilon0     float64 `hcl:"epsilon0,optional"`
	EpsilonMin   float64 `hcl:"epsilon_min,optional"`
	EpsilonDecay float64 `hcl:"epsilon_decay,optional"`
	TargetTau    float64 `hcl:"target_tau,optional"`
	ReplayCap    int     `hcl:"replay_cap,optional"`
	BatchSize    int     `hcl:"batch_size,optional"`
}

// SimulatorConfig names a batch run's shape; strategy names are resolved by
// StrategyByName.
type SimulatorConfig struct {
	Matches     int      `hcl:"matches,optional"`
	PlayerCount int      `hcl:"player_count,optional"`
	Seed        int64    `hcl:"seed,optional"`
	Workers     int      `hcl:"workers,optional"`
	Strategies  []string `hcl:"strategies,optional"`
}

// Default returns the configuration spec.md's own published values
// describe, with no overrides applied.
func Default() *Config {
	return &Config{
		Rules: &RulesConfig{
			EliminationThreshold: 100,
			EligibilityMax:       5,
			NormalHandSizeMin:    4,
			NormalHandSizeMax:    7,
			GoldenHandSizeMin:    4,
			GoldenHandSizeMax:    10,
		},
		Thibot: &ThibotConfig{
			JokerScore:      8.0,
			PairBonus:       4.0,
			SequenceBonus:   6.0,
			DeadRankPenalty: 2.0,
		},
		Bandit: &BanditConfig{Epsilon0: 0.5, EpsilonMin: 0.01, Decay: 0.05},
		DQN: &DQNConfig{
			LearningRate: 0.01, Gamma: 0.9, Epsilon0: 0.3, EpsilonMin: 0.02,
			EpsilonDecay: 0.0005, TargetTau: 0.01, ReplayCap: 10000, BatchSize: 32,
		},
		Simulator: &SimulatorConfig{
			Matches: 1000, PlayerCount: 4, Seed: 1,
			Strategies: []string{"easy", "easy", "medium", "hard"},
		},
	}
}

// Load reads filename as HCL. A block the file omits is taken whole from
// Default(); zero-valued fields are also backfilled from Default() inside
// the rules and thibot blocks and for simulator matches, player_count and
// strategies. Fields left out of a bandit or dqn block that is present stay
// zero. A missing file is not an error — Load returns Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	cfg := &Config{}
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Rules == nil {
		c.Rules = d.Rules
	} else {
		if c.Rules.EliminationThreshold == 0 {
			c.Rules.EliminationThreshold = d.Rules.EliminationThreshold
		}
		if c.Rules.EligibilityMax == 0 {
			c.Rules.EligibilityMax = d.Rules.EligibilityMax
		}
		if c.Rules.NormalHandSizeMin == 0 {
			c.Rules.NormalHandSizeMin = d.Rules.NormalHandSizeMin
		}
		if c.Rules.NormalHandSizeMax == 0 {
			c.Rules.NormalHandSizeMax = d.Rules.NormalHandSizeMax
		}
		if c.Rules.GoldenHandSizeMin == 0 {
			c.Rules.GoldenHandSizeMin = d.Rules.GoldenHandSizeMin
		}
		if c.Rules.GoldenHandSizeMax == 0 {
			c.Rules.GoldenHandSizeMax = d.Rules.GoldenHandSizeMax
		}
	}

	if c.Thibot == nil {
		c.Thibot = d.Thibot
	} else {
		if c.Thibot.JokerScore == 0 {
			c.Thibot.JokerScore = d.Thibot.JokerScore
		}
		if c.Thibot.PairBonus == 0 {
			c.Thibot.PairBonus = d.Thibot.PairBonus
		}
		if c.Thibot.SequenceBonus == 0 {
			c.Thibot.SequenceBonus = d.Thibot.SequenceBonus
		}
		if c.Thibot.DeadRankPenalty == 0 {
			c.Thibot.DeadRankPenalty = d.Thibot.DeadRankPenalty
		}
	}

	if c.Bandit == nil {
		c.Bandit = d.Bandit
	}
	if c.DQN == nil {
		c.DQN = d.DQN
	}

	if c.Simulator == nil {
		c.Simulator = d.Simulator
	} else {
		if c.Simulator.Matches == 0 {
			c.Simulator.Matches = d.Simulator.Matches
		}
		if c.Simulator.PlayerCount == 0 {
			c.Simulator.PlayerCount = d.Simulator.PlayerCount
		}
		if len(c.Simulator.Strategies) == 0 {
			c.Simulator.Strategies = d.Simulator.Strategies
		}
	}
}

// Validate rejects a configuration no match could legally run under.
func (c *Config) Validate() error {
	if c.Rules.EliminationThreshold <= 0 {
		return fmt.Errorf("config: elimination_threshold must be positive")
	}
	if c.Rules.NormalHandSizeMin > c.Rules.NormalHandSizeMax {
		return fmt.Errorf("config: normal_hand_size_min must be <= normal_hand_size_max")
	}
	if c.Rules.GoldenHandSizeMin > c.Rules.GoldenHandSizeMax {
		return fmt.Errorf("config: golden_hand_size_min must be <= golden_hand_size_max")
	}
	if c.Simulator.PlayerCount < engine.MinPlayers || c.Simulator.PlayerCount > engine.MaxPlayers {
		return fmt.Errorf("config: simulator.player_count must be between %d and %d", engine.MinPlayers, engine.MaxPlayers)
	}
	if len(c.Simulator.Strategies) != c.Simulator.PlayerCount {
		return fmt.Errorf("config: simulator.strategies must have player_count entries")
	}
	for _, name := range c.Simulator.Strategies {
		if _, err := c.Strategy(name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyRules pushes the Rules block into internal/engine's package-level
// overrides. Must be called before any match is created (spec §3
// constants are read once per HandSizeRange/CallZapZap call, not cached
// per-state).
func (c *Config) ApplyRules() {
	engine.EliminationThreshold = c.Rules.EliminationThreshold
	engine.SetEligibilityMax(c.Rules.EligibilityMax)
	engine.SetHandSizeBounds(
		c.Rules.NormalHandSizeMin, c.Rules.NormalHandSizeMax,
		c.Rules.GoldenHandSizeMin, c.Rules.GoldenHandSizeMax,
	)
}

// ApplyThibotWeights pushes the Thibot block into internal/strategy's
// package-level weight vector. Must be called before any Thibot decision
// runs.
func (c *Config) ApplyThibotWeights() {
	strategy.ThibotJokerScore = c.Thibot.JokerScore
	strategy.ThibotPairBonus = c.Thibot.PairBonus
	strategy.ThibotSequenceBonus = c.Thibot.SequenceBonus
	strategy.ThibotDeadRankPenalty = c.Thibot.DeadRankPenalty
}

// NewBandit constructs a learner.Bandit from the Bandit block.
func (c *Config) NewBandit() *learner.Bandit {
	return learner.NewBandit(c.Bandit.Epsilon0, c.Bandit.EpsilonMin, c.Bandit.Decay)
}

// NewDQNConfig builds a learner.DQNConfig from the DQN block for the given
// feature/action dimensions.
func (c *Config) NewDQNConfig(features, actions int) learner.DQNConfig {
	return learner.DQNConfig{
		Features:     features,
		Actions:      actions,
		LearningRate: c.DQN.LearningRate,
		Gamma:        c.DQN.Gamma,
		Epsilon0:     c.DQN.Epsilon0,
		EpsilonMin:   c.DQN.EpsilonMin,
		EpsilonDecay: c.DQN.EpsilonDecay,
		TargetTau:    c.DQN.TargetTau,
		ReplayCap:    c.DQN.ReplayCap,
		BatchSize:    c.DQN.BatchSize,
	}
}

// StrategyByName resolves a simulator.Strategies entry to a Strategy
// instance using spec-default hyperparameters. "bandit" and "mcts" get
// freshly constructed state since they carry per-run learned/search state;
// "easy"/"medium"/"hard"/"thibot" are stateless and a fresh instance is
// equivalent to a shared one.
func StrategyByName(name string) (strategy.Strategy, error) {
	return Default().Strategy(name)
}

// Strategy resolves name the same way StrategyByName does, but constructs
// "bandit" with this Config's Bandit block instead of spec defaults.
func (c *Config) Strategy(name string) (strategy.Strategy, error) {
	switch name {
	case "easy":
		return strategy.NewEasy(), nil
	case "medium":
		return strategy.NewMedium(), nil
	case "hard":
		return strategy.NewHard(), nil
	case "thibot":
		return strategy.NewThibot(), nil
	case "bandit":
		return strategy.NewBandit(c.NewBandit()), nil
	case "mcts":
		return strategy.NewMCTS(), nil
	default:
		return nil, fmt.Errorf("config: unknown strategy %q", name)
	}
}
