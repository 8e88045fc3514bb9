// Package analyzer implements the Hand Analyzer (spec §4.1): pure,
// deterministic functions over a hand and a candidate play. Grounded on the
// teacher's internal/evaluator package (pure, allocation-light functions over
// a fixed-size card slice) and on the Chinchón/Thirteen meld validators in
// other_examples for the same-rank-set / sequence rules.
package analyzer

import (
	"sort"

	"github.com/lox/zapzap/internal/cards"
)

// IsValidPlay reports whether play is a legal ZapZap play: a single card, a
// same-rank set (size ≥2, jokers wild), or a same-suit sequence (size ≥3,
// strictly increasing ranks whose gaps are covered by jokers in the play).
// Illegal inputs (empty play) simply return false; there are no error cases
// (spec §4.1 Errors: validity checks are total).
func IsValidPlay(play cards.Hand) bool {
	if len(play) == 0 {
		return false
	}
	if len(play) == 1 {
		return true
	}

	jokers := play.JokerCount()
	nonJokers := play.NonJokers()

	if len(nonJokers) == 0 {
		// An all-joker play is valid under either rule (spec §4.1).
		return len(play) >= 2
	}

	return isSameRankSet(nonJokers) || isSequence(nonJokers, jokers)
}

// isSameRankSet reports whether every non-joker card shares a rank. The
// caller is responsible for ensuring the overall play size (nonJokers plus
// any jokers) is at least 2.
func isSameRankSet(nonJokers []cards.Card) bool {
	rank := nonJokers[0].Rank()
	for _, c := range nonJokers[1:] {
		if c.Rank() != rank {
			return false
		}
	}
	return true
}

// isSequence reports whether the non-joker cards share a suit and, once
// sorted by rank, their gaps (sum of consecutive differences minus one) are
// covered by the jokers in the play. Requires a final play size of at least
// 3; Ace does not wrap to King.
func isSequence(nonJokers []cards.Card, jokers int) bool {
	if len(nonJokers)+jokers < 3 {
		return false
	}
	suit := nonJokers[0].Suit()
	ranks := make([]int, len(nonJokers))
	for i, c := range nonJokers {
		if c.Suit() != suit {
			return false
		}
		ranks[i] = int(c.Rank())
	}
	sort.Ints(ranks)

	gaps := 0
	for i := 1; i < len(ranks); i++ {
		diff := ranks[i] - ranks[i-1]
		if diff <= 0 {
			// Two cards of the same suit and rank cannot coexist (no
			// duplicate ids), so this only guards against malformed input.
			return false
		}
		gaps += diff - 1
	}
	return gaps <= jokers
}
