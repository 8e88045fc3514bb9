package learner

import "gonum.org/v1/gonum/stat"

// Outcome is the per-decision signal the Batch Simulator hands back to the
// learner after a match completes (spec §4.6: "for each decision made by a
// learning strategy in a match, it receives a differentiated scalar
// reward").
type Outcome struct {
	Rank            int // 1 = best cumulative score at match end
	PlayerCount     int
	ScoreDelta      int // this round's ScoreThisRound for the deciding player
	Won             bool
	Eliminated      bool
	WasCallDecision bool
	CallSucceeded   bool
}

const (
	rankWeight  = 0.6
	scoreWeight = 0.4

	winBonus        = 0.5
	eliminationCost = 0.5

	callSuccessScale = 1.5
	callFailureScale = 0.8
)

// Reward computes the differentiated scalar reward for one decision (spec
// §4.6): a blend of ranked final standing and this round's score quality,
// a win/elimination bonus/penalty, with Call decisions scaled up on
// success and down on failure.
func Reward(o Outcome) float64 {
	ranked := 0.5
	if o.PlayerCount > 1 {
		ranked = float64(o.PlayerCount-o.Rank) / float64(o.PlayerCount-1)
	}
	scoreQuality := 1.0 - clamp01(float64(o.ScoreDelta)/100.0)

	reward := rankWeight*ranked + scoreWeight*scoreQuality
	if o.Won {
		reward += winBonus
	}
	if o.Eliminated {
		reward -= eliminationCost
	}
	if o.WasCallDecision {
		if o.CallSucceeded {
			reward *= callSuccessScale
		} else {
			reward *= callFailureScale
		}
	}
	return reward
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeRewards z-score normalizes a batch of rewards (mean 0, unit
// variance) before they are folded into Bandit.Update, so a batch with
// unusually high or low absolute scores doesn't skew the running averages.
// Grounded on the teacher's internal/regression/statistics.go, which runs
// raw per-hand outcome samples through gonum/stat before feeding them to a
// significance test; here the same gonum/stat.Mean/StdDev pair normalizes
// a reward batch instead.
func NormalizeRewards(rewards []float64) []float64 {
	if len(rewards) == 0 {
		return rewards
	}
	mean := stat.Mean(rewards, nil)
	std := stat.StdDev(rewards, nil)
	if std == 0 {
		out := make([]float64, len(rewards))
		return out
	}
	out := make([]float64, len(rewards))
	for i, r := range rewards {
		out[i] = (r - mean) / std
	}
	return out
}
