// Package randsrc centralises how ZapZap derives seeded RNG streams.
//
// Every match owns exactly one stream (spec §9 RNG discipline): deck shuffles,
// reshuffles, and any strategy tie-breaks all draw from it, so a match seeded
// with the same value replays identically regardless of which component asks
// for randomness next.
package randsrc

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Two streams
// created from the same seed produce the same sequence; streams from
// different seeds are independent for all practical purposes.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive deterministically produces a child seed from a parent stream and an
// index, used when the simulator needs one seed per match from a single
// top-level batch seed.
func Derive(parentSeed int64, index int) int64 {
	return int64(mix(uint64(parentSeed) ^ (uint64(index) * goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
