// Package lifecycle implements match-level orchestration that spans rounds
// rather than a single transition (spec §4.2 Round Advancement, §6 Match-end
// record): elimination bookkeeping already lives inside a CallZapZap
// transition, but deciding whether to start a fresh round or end the match,
// and producing the match-end summary, is multi-round and lives here —
// analogous to the teacher keeping per-hand logic in internal/game but
// multi-hand orchestration in cmd/simulate/internal/regression.
package lifecycle

import "github.com/lox/zapzap/internal/engine"

// Status reports whether Advance continued the match or ended it.
type Status string

const (
	Continuing Status = "Continuing"
	Finished   Status = "Finished"
)

// MatchEndRecord is the summary persisted when a match terminates (spec §6
// Match-end record).
type MatchEndRecord struct {
	PartyID        string
	WinnerID       int
	WinnerScore    int
	TotalRounds    int
	WasGoldenScore bool
	PlayerCount    int
}

// Advance implements the Round Advancement procedure (spec §4.2), callable
// only when the match's CurrentAction is Finished. It returns the new state
// and, when the match has ended, a non-nil MatchEndRecord.
func Advance(s *engine.GameState) (*engine.GameState, Status, *MatchEndRecord, error) {
	if s.CurrentAction != engine.PhaseFinished {
		return nil, "", nil, &engine.Error{Kind: engine.KindRoundNotFinished}
	}

	next := s.Clone()
	active := next.NonEliminated()

	if len(active) <= 1 {
		winner := 0
		if len(active) == 1 {
			winner = active[0]
		} else {
			winner = lowestScorer(next.Scores)
		}
		record := &MatchEndRecord{
			PartyID:        s.PartyID,
			WinnerID:       winner,
			WinnerScore:    next.Scores[winner],
			TotalRounds:    s.RoundNumber,
			WasGoldenScore: s.IsGoldenScore,
			PlayerCount:    s.PlayerCount,
		}
		return next, Finished, record, nil
	}

	next.IsGoldenScore = len(active) == 2
	next.Deck = nil
	next.LastCardsPlayed = nil
	next.DiscardPile = nil
	for i := 0; i < s.PlayerCount; i++ {
		next.Hands[i] = nil
	}
	next.CurrentTurn = next.NextNonEliminated(s.CurrentTurn)
	next.CurrentAction = engine.PhaseSelectHandSize
	next.RoundNumber++

	return next, Continuing, nil, nil
}

func lowestScorer(scores map[int]int) int {
	winner := -1
	best := 0
	for i, sc := range scores {
		if winner == -1 || sc < best || (sc == best && i < winner) {
			winner = i
			best = sc
		}
	}
	return winner
}
