package analyzer

import (
	"math/rand/v2"
	"sort"

	"github.com/lox/zapzap/internal/cards"
)

// FindMaxPointPlay returns the enumerated play that sheds the most scoring
// points, tie-broken by playing more cards. Returns nil if plays is empty.
func FindMaxPointPlay(plays []cards.Hand) cards.Hand {
	return best(plays, func(h cards.Hand) int { return h.ScoringValue() })
}

// FindHighValuePlay returns the enumerated play with the highest per-card
// average scoring value, tie-broken by fewer cards — the "dump my single
// highest card" selector used by strategies in their defensive posture
// (spec §4.4 Thibot).
func FindHighValuePlay(plays []cards.Hand) cards.Hand {
	if len(plays) == 0 {
		return nil
	}
	sorted := append([]cards.Hand(nil), plays...)
	sort.SliceStable(sorted, func(i, j int) bool {
		avgI := float64(sorted[i].ScoringValue()) / float64(len(sorted[i]))
		avgJ := float64(sorted[j].ScoringValue()) / float64(len(sorted[j]))
		if avgI != avgJ {
			return avgI > avgJ
		}
		return len(sorted[i]) < len(sorted[j])
	})
	return sorted[0]
}

// FindRandomPlay returns a uniformly random play from plays, drawing from
// rng (the match's single RNG stream per spec §9 RNG discipline).
func FindRandomPlay(plays []cards.Hand, rng *rand.Rand) cards.Hand {
	if len(plays) == 0 {
		return nil
	}
	return plays[rng.IntN(len(plays))]
}

// best ranks plays by descending metric, tie-broken by more cards in the
// play, matching FindMaxPointPlay's documented tie-break.
func best(plays []cards.Hand, metric func(cards.Hand) int) cards.Hand {
	if len(plays) == 0 {
		return nil
	}
	winner := plays[0]
	winnerScore := metric(winner)
	for _, p := range plays[1:] {
		score := metric(p)
		if score > winnerScore || (score == winnerScore && len(p) > len(winner)) {
			winner = p
			winnerScore = score
		}
	}
	return winner
}
