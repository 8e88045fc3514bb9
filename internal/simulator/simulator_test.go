package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/zapzap/internal/strategy"
)

func easyLineup(n int) []strategy.Strategy {
	out := make([]strategy.Strategy, n)
	for i := range out {
		out[i] = strategy.NewEasy()
	}
	return out
}

func TestRunBatchProducesOneResultPerMatch(t *testing.T) {
	cfg := Config{
		Matches:     5,
		PlayerCount: 3,
		Seed:        1234,
		Strategies:  easyLineup(3),
		Timeout:     5 * time.Second,
		Workers:     2,
	}
	stats, err := RunBatch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Matches)

	totalWins := 0
	for seat := 0; seat < 3; seat++ {
		totalWins += int(stats.WinRate(seat) * float64(stats.Matches))
	}
	assert.Equal(t, 5, totalWins)
}

func TestRunBatchIsDeterministicForTheSameSeed(t *testing.T) {
	cfg := Config{
		Matches:     3,
		PlayerCount: 4,
		Seed:        777,
		Strategies:  easyLineup(4),
		Timeout:     5 * time.Second,
	}
	a, err := RunBatch(context.Background(), cfg)
	require.NoError(t, err)
	b, err := RunBatch(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.MeanRounds(), b.MeanRounds())
	for seat := 0; seat < 4; seat++ {
		assert.Equal(t, a.WinRate(seat), b.WinRate(seat))
		assert.Equal(t, a.MeanScore(seat), b.MeanScore(seat))
	}
}

func TestRunBatchRejectsMismatchedStrategyLineup(t *testing.T) {
	cfg := Config{Matches: 1, PlayerCount: 3, Strategies: easyLineup(2)}
	_, err := RunBatch(context.Background(), cfg)
	assert.Error(t, err)
}

func TestStatisticsAddAccumulatesAcrossMatches(t *testing.T) {
	s := NewStatistics()
	s.Add(&MatchResult{WinnerSeat: 0, Rounds: 3, FinalScores: map[int]int{0: 10, 1: 105}})
	s.Add(&MatchResult{WinnerSeat: 0, Rounds: 5, FinalScores: map[int]int{0: 20, 1: 102}, WasGoldenScore: true})

	assert.Equal(t, 2, s.Matches)
	assert.Equal(t, 1.0, s.WinRate(0))
	assert.Equal(t, 0.0, s.WinRate(1))
	assert.Equal(t, 15.0, s.MeanScore(0))
	assert.Equal(t, 4.0, s.MeanRounds())
	assert.Equal(t, 0.5, s.GoldenScoreRate())
}
