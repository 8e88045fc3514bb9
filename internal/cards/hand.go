package cards

// Hand is an unordered multiset of cards, represented as a slice since no two
// cards share an id (spec §3: "no duplicate ids").
type Hand []Card

// Contains reports whether the hand holds c.
func (h Hand) Contains(c Card) bool {
	for _, hc := range h {
		if hc == c {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every card in cards is present in h, honoring
// per-card multiplicity (irrelevant here since ids never repeat, but kept
// honest against duplicate entries in cards itself).
func (h Hand) ContainsAll(played []Card) bool {
	remaining := append(Hand(nil), h...)
	for _, c := range played {
		idx := -1
		for i, rc := range remaining {
			if rc == c {
				idx = i
				break
			}
		}
		if idx == -1 {
			return false
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return true
}

// Remove returns a new Hand with the given cards removed. It does not
// mutate h.
func (h Hand) Remove(played []Card) Hand {
	out := append(Hand(nil), h...)
	for _, c := range played {
		for i, hc := range out {
			if hc == c {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// Add returns a new Hand with c appended.
func (h Hand) Add(c Card) Hand {
	return append(append(Hand(nil), h...), c)
}

// EligibilityValue sums EligibilityPoints across the hand (joker=0); used for
// the Call-ZapZap gate and for finding the round's lowest hand.
func (h Hand) EligibilityValue() int {
	total := 0
	for _, c := range h {
		total += c.EligibilityPoints()
	}
	return total
}

// ScoringValue sums ScoringPoints across the hand (joker=25); used to compute
// the score delta applied to non-lowest hands at round settlement.
func (h Hand) ScoringValue() int {
	total := 0
	for _, c := range h {
		total += c.ScoringPoints()
	}
	return total
}

// JokerCount returns how many jokers are in the hand.
func (h Hand) JokerCount() int {
	n := 0
	for _, c := range h {
		if c.IsJoker() {
			n++
		}
	}
	return n
}

// NonJokers returns the non-joker cards in the hand, preserving order.
func (h Hand) NonJokers() []Card {
	out := make([]Card, 0, len(h))
	for _, c := range h {
		if !c.IsJoker() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	return append(Hand(nil), h...)
}
