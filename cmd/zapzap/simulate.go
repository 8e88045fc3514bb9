package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/zapzap/internal/config"
	"github.com/lox/zapzap/internal/simulator"
	"github.com/lox/zapzap/internal/strategy"
)

// SimulateCmd wraps internal/simulator.RunBatch and prints a statistical
// summary. Grounded on the teacher's cmd/simulate/main.go: CLI flags for
// match count/seed/timeout, a seed-from-time.Now() fallback, and a
// printf-based mean/median/stddev/percentile report (there: per hand
// across one opponent type; here: per seat across a fixed strategy
// lineup).
type SimulateCmd struct {
	Matches    int           `kong:"default='1000',help='Number of matches to simulate'"`
	Players    int           `kong:"default='4',help='Number of players per match'"`
	Strategies string        `kong:"default='easy,easy,medium,hard',help='Comma-separated strategy name per seat'"`
	Seed       int64         `kong:"help='Deterministic RNG seed (0 = derive from current time)'"`
	Timeout    time.Duration `kong:"default='10s',help='Per-match timeout'"`
	Workers    int           `kong:"help='Maximum concurrent matches (0 = unbounded)'"`
	Config     string        `kong:"help='HCL config file overriding rules/Thibot weights'"`
	Verbose    bool          `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(level)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	cfg.ApplyRules()
	cfg.ApplyThibotWeights()

	names := strings.Split(c.Strategies, ",")
	if len(names) != c.Players {
		return fmt.Errorf("zapzap: --strategies has %d entries, --players=%d", len(names), c.Players)
	}
	strategies := make([]strategy.Strategy, 0, len(names))
	for _, name := range names {
		s, err := cfg.Strategy(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		strategies = append(strategies, s)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using time-derived seed", "seed", seed)
	} else {
		logger.Info("using deterministic seed", "seed", seed)
	}

	batchCfg := simulator.Config{
		Matches:     c.Matches,
		PlayerCount: c.Players,
		Seed:        seed,
		Strategies:  strategies,
		Timeout:     c.Timeout,
		Workers:     c.Workers,
		Logger:      logger,
	}

	started := time.Now()
	stats, err := simulator.RunBatch(context.Background(), batchCfg)
	if err != nil {
		return fmt.Errorf("zapzap: simulate: %w", err)
	}
	elapsed := time.Since(started)

	printSimulateResults(names, stats, elapsed)
	return nil
}

func printSimulateResults(names []string, stats *simulator.Statistics, elapsed time.Duration) {
	fmt.Printf("\nSimulated %d matches in %s (%.0f matches/sec)\n", stats.Matches, elapsed.Round(time.Millisecond), float64(stats.Matches)/elapsed.Seconds())
	fmt.Printf("Golden Score rate: %.1f%%\n", stats.GoldenScoreRate()*100)
	fmt.Printf("Match length (rounds): mean=%.1f median=%.1f p90=%.1f\n",
		stats.MeanRounds(), stats.MedianRounds(), stats.RoundsPercentile(0.9))

	fmt.Println()
	fmt.Printf("%-4s %-10s %8s %10s %10s\n", "Seat", "Strategy", "Win%", "MeanScore", "StdDev")
	for seat, name := range names {
		fmt.Printf("%-4d %-10s %7.1f%% %10.1f %10.1f\n",
			seat, name, stats.WinRate(seat)*100, stats.MeanScore(seat), stats.StdDevScore(seat))
	}
}
