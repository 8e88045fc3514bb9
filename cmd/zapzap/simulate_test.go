package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lox/zapzap/internal/simulator"
)

func TestPrintSimulateResults(t *testing.T) {
	stats := simulator.NewStatistics()
	stats.Add(&simulator.MatchResult{WinnerSeat: 0, Rounds: 3, FinalScores: map[int]int{0: 50, 1: 30, 2: 10, 3: 5}})
	stats.Add(&simulator.MatchResult{WinnerSeat: 1, Rounds: 5, FinalScores: map[int]int{0: 20, 1: 50, 2: 15, 3: 8}})

	names := []string{"easy", "easy", "medium", "hard"}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	printSimulateResults(names, stats, 2*time.Second)
	w.Close()
	os.Stdout = orig

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}

	out := sb.String()
	if !strings.Contains(out, "Simulated 2 matches") {
		t.Errorf("output missing match count summary: %q", out)
	}
	for _, name := range names {
		if !strings.Contains(out, name) {
			t.Errorf("output missing strategy name %q: %q", name, out)
		}
	}
}
