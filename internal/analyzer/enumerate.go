package analyzer

import (
	"sort"

	"github.com/lox/zapzap/internal/cards"
)

// FindAllValidPlays produces every valid play of every size in hand (spec
// §4.1 findAllValidPlays): every singleton, every same-rank grouping (with
// and without joker augmentation), and every same-suit run (with the jokers
// needed to bridge its gaps). R1 (spec §8) requires this to agree exactly
// with IsValidPlay for every subset of hand; the same-rank branch goes beyond
// the prose algorithm's "combinations of size ≥2" reading, since IsValidPlay
// also accepts a single non-joker plus enough jokers to reach a same-rank set
// of size ≥2, and the sequence branch also emits two-card runs padded with a
// joker. Some plays IsValidPlay accepts are still not produced: a play made
// only of jokers, a run that skips a card of its suit held in hand, a run
// carrying more jokers than it needs, and a same-rank set of more than four
// cards.
func FindAllValidPlays(hand cards.Hand) []cards.Hand {
	var plays []cards.Hand

	for _, c := range hand {
		plays = append(plays, cards.Hand{c})
	}

	jokers := jokersIn(hand)
	plays = append(plays, sameRankPlays(hand, jokers)...)
	plays = append(plays, sequencePlays(hand, jokers)...)

	return plays
}

func jokersIn(hand cards.Hand) []cards.Card {
	var out []cards.Card
	for _, c := range hand {
		if c.IsJoker() {
			out = append(out, c)
		}
	}
	return out
}

// sameRankPlays groups hand's non-joker cards by rank, then for every
// non-empty subset of each rank's group (there are at most 4, one per suit)
// emits the subset alone when it already has ≥2 cards, and the subset
// augmented with 1..k jokers (k = min(len(jokers), 4-subsetSize)) whenever
// the augmented size reaches ≥2.
func sameRankPlays(hand cards.Hand, jokers []cards.Card) []cards.Hand {
	byRank := make(map[cards.Rank][]cards.Card)
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		byRank[c.Rank()] = append(byRank[c.Rank()], c)
	}

	ranks := make([]cards.Rank, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	var plays []cards.Hand
	for _, r := range ranks {
		group := byRank[r]
		for mask := 1; mask < (1 << len(group)); mask++ {
			subset := subsetOf(group, mask)

			if len(subset) >= 2 {
				plays = append(plays, cards.Hand(append([]cards.Card(nil), subset...)))
			}

			maxAugment := len(jokers)
			if cap := 4 - len(subset); cap < maxAugment {
				maxAugment = cap
			}
			for k := 1; k <= maxAugment; k++ {
				if len(subset)+k < 2 {
					continue
				}
				play := append([]cards.Card(nil), subset...)
				play = append(play, jokers[:k]...)
				plays = append(plays, cards.Hand(play))
			}
		}
	}
	return plays
}

func subsetOf(group []cards.Card, mask int) []cards.Card {
	out := make([]cards.Card, 0, len(group))
	for i, c := range group {
		if mask&(1<<i) != 0 {
			out = append(out, c)
		}
	}
	return out
}

// sequencePlays finds, for each suit, every contiguous window (length ≥2) of
// that suit's non-joker cards sorted by rank whose internal gaps, plus the
// joker needed to bring a two-card window up to three cards, are covered by
// the jokers in hand, and emits the window plus exactly that many jokers.
func sequencePlays(hand cards.Hand, jokers []cards.Card) []cards.Hand {
	bySuit := make(map[cards.Suit][]cards.Card)
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		bySuit[c.Suit()] = append(bySuit[c.Suit()], c)
	}

	var plays []cards.Hand
	for _, group := range bySuit {
		sort.Slice(group, func(i, j int) bool { return group[i].Rank() < group[j].Rank() })

		for start := 0; start < len(group); start++ {
			for end := start + 1; end < len(group); end++ {
				window := group[start : end+1]
				gaps := int(window[len(window)-1].Rank()) - int(window[0].Rank()) - (len(window) - 1)
				need := gaps
				if len(window)+need < 3 {
					need = 3 - len(window)
				}
				if gaps < 0 || need > len(jokers) {
					continue
				}
				play := append([]cards.Card(nil), window...)
				play = append(play, jokers[:need]...)
				plays = append(plays, cards.Hand(play))
			}
		}
	}
	return plays
}
