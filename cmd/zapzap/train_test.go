package main

import (
	"testing"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/lifecycle"
)

func TestSpread(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{0.5}, want: 0},
		{name: "mixed", values: []float64{-1, 0.25, 1, -0.5}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spread(tt.values); got != tt.want {
				t.Errorf("spread(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestFinalReward(t *testing.T) {
	winnerRecord := &lifecycle.MatchEndRecord{WinnerID: 0, PlayerCount: 4}
	loserRecord := &lifecycle.MatchEndRecord{WinnerID: 2, PlayerCount: 4}

	winnerReward := finalReward(winnerRecord)
	loserReward := finalReward(loserRecord)

	if winnerReward <= loserReward {
		t.Errorf("winner reward %v should exceed loser reward %v", winnerReward, loserReward)
	}
}

func TestLowestCard(t *testing.T) {
	hand := cards.Hand{cards.Card(10), cards.Card(0), cards.Card(25)}
	got := lowestCard(hand)
	if got.EligibilityPoints() > cards.Card(0).EligibilityPoints() {
		t.Errorf("lowestCard(%v) = %v, want lowest-points card", hand, got)
	}
}

func TestOpponentSizesMapSkipsSelfAndEliminated(t *testing.T) {
	state, err := engine.NewMatch("party-test", 4, 7)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	state.Hands[0] = cards.Hand{cards.Card(0)}
	state.Hands[1] = cards.Hand{cards.Card(1), cards.Card(2)}
	state.Hands[2] = cards.Hand{cards.Card(3), cards.Card(4), cards.Card(5)}
	state.Hands[3] = cards.Hand{cards.Card(6)}
	state.EliminatedPlayers[3] = true

	got := opponentSizesMap(state)
	if _, ok := got[0]; ok {
		t.Errorf("opponentSizesMap should not include seat 0 (self): %v", got)
	}
	if _, ok := got[3]; ok {
		t.Errorf("opponentSizesMap should not include eliminated seat 3: %v", got)
	}
	if got[1] != 2 || got[2] != 3 {
		t.Errorf("opponentSizesMap = %v, want {1:2, 2:3}", got)
	}
}

func TestOpponentSizesMatchesMapLength(t *testing.T) {
	state, err := engine.NewMatch("party-test", 4, 9)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	state.Hands[1] = cards.Hand{cards.Card(1)}
	state.Hands[2] = cards.Hand{cards.Card(2), cards.Card(3)}
	state.Hands[3] = cards.Hand{cards.Card(4)}

	sizes := opponentSizes(state)
	if len(sizes) != len(opponentSizesMap(state)) {
		t.Errorf("opponentSizes returned %d entries, want %d", len(sizes), len(opponentSizesMap(state)))
	}
}
