package engine

import (
	"github.com/lox/zapzap/internal/cards"
)

// Phase is the coarse phase a match is in (spec §3 currentAction).
type Phase string

const (
	PhaseSelectHandSize Phase = "SelectHandSize"
	PhasePlay           Phase = "Play"
	PhaseDraw           Phase = "Draw"
	PhaseFinished       Phase = "Finished"
)

// DrawSource names where DrawCard pulls from.
type DrawSource string

const (
	SourceDeck       DrawSource = "Deck"
	SourceTopRegion  DrawSource = "TopRegion"
)

// MinPlayers and MaxPlayers bound a match's seating (spec §3 Lifecycle).
const (
	MinPlayers = 3
	MaxPlayers = 8

)

// EliminationThreshold, the hand-size bounds, and eligibilityMax default to
// spec.md's published values but are plain package vars, not consts, so
// internal/config can override them for experimentation at process start —
// never mid-match, since GameState stores none of them: HandSizeRange() and
// the Call gate read these vars on every call, so a change would also apply
// to matches already in flight.
var (
	EliminationThreshold = 100

	minHandSizeNormal = 4
	maxHandSizeNormal = 7
	minHandSizeGolden = 4
	maxHandSizeGolden = 10

	eligibilityMax = 5
)

// ActionType tags an observation record (spec §6 Observation record).
type ActionType string

const (
	ActionSelectHandSize ActionType = "SelectHandSize"
	ActionPlay           ActionType = "Play"
	ActionDraw           ActionType = "Draw"
	ActionCall           ActionType = "Call"
	ActionNextRound      ActionType = "NextRound"
)

// Observation is the public record of a committed transition (spec §6): it
// never includes unrevealed cards — a deck draw's card is only visible to the
// drawer via the return value of DrawCard, never through Observation.
type Observation struct {
	PartyID     string
	RoundNumber int
	Actor       int
	Type        ActionType
	Payload     map[string]any
}

// GameState is the complete state of one match (spec §3). The StateMachine is
// its only mutator; callers must treat a GameState returned from a transition
// as the new snapshot, not mutate it directly.
type GameState struct {
	PartyID string

	Deck            *cards.Deck
	Hands           map[int]cards.Hand
	LastCardsPlayed cards.Hand // top region
	DiscardPile     cards.Hand // history region

	CurrentTurn   int
	CurrentAction Phase

	Scores            map[int]int
	RoundNumber       int
	EliminatedPlayers map[int]bool
	IsGoldenScore     bool

	LastAction *Observation

	PlayerCount int
	Seed        int64
}

// NewMatch constructs the initial state for a match of playerCount players
// (spec §6 CreateMatch), ready for T1 SelectHandSize.
func NewMatch(partyID string, playerCount int, seed int64) (*GameState, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, newErr(KindInvalidHandSize)
	}
	hands := make(map[int]cards.Hand, playerCount)
	scores := make(map[int]int, playerCount)
	for i := 0; i < playerCount; i++ {
		hands[i] = cards.Hand{}
		scores[i] = 0
	}
	return &GameState{
		PartyID:           partyID,
		Hands:             hands,
		Scores:            scores,
		RoundNumber:       1,
		EliminatedPlayers: map[int]bool{},
		CurrentAction:     PhaseSelectHandSize,
		CurrentTurn:       0,
		PlayerCount:       playerCount,
		Seed:              seed,
	}, nil
}

// NonEliminated returns the player indices still in the turn rotation, in
// seating order.
func (s *GameState) NonEliminated() []int {
	var out []int
	for i := 0; i < s.PlayerCount; i++ {
		if !s.EliminatedPlayers[i] {
			out = append(out, i)
		}
	}
	return out
}

// HandSizeRange returns the legal [min,max] for SelectHandSize given the
// Golden Score flag (spec T1).
func (s *GameState) HandSizeRange() (int, int) {
	if s.IsGoldenScore {
		return minHandSizeGolden, maxHandSizeGolden
	}
	return minHandSizeNormal, maxHandSizeNormal
}

// SetHandSizeBounds overrides the [min,max] hand-size range for normal and
// Golden Score rounds. Exported for internal/config; callers must do this
// before any match is created.
func SetHandSizeBounds(normalMin, normalMax, goldenMin, goldenMax int) {
	minHandSizeNormal, maxHandSizeNormal = normalMin, normalMax
	minHandSizeGolden, maxHandSizeGolden = goldenMin, goldenMax
}

// SetEligibilityMax overrides the Call-ZapZap eligibility gate. Exported
// for internal/config; callers must do this before any match is created.
func SetEligibilityMax(v int) {
	eligibilityMax = v
}

// EligibilityMax returns the current Call-ZapZap eligibility gate, so
// callers outside this package (internal/bot's own pre-check) stay in sync
// with any internal/config override.
func EligibilityMax() int {
	return eligibilityMax
}

// NextNonEliminated returns the next player index after from, cycling modulo
// PlayerCount, skipping eliminated players.
func (s *GameState) NextNonEliminated(from int) int {
	for i := 1; i <= s.PlayerCount; i++ {
		next := (from + i) % s.PlayerCount
		if !s.EliminatedPlayers[next] {
			return next
		}
	}
	return from
}

// Clone produces a deep-enough copy for a transition (or the lifecycle
// package's Advance) to mutate freely before committing — transitions
// never partially mutate the GameState a caller is holding (spec §4.2
// Failure semantics).
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.Hands = make(map[int]cards.Hand, len(s.Hands))
	for k, v := range s.Hands {
		cp.Hands[k] = v.Clone()
	}
	cp.Scores = make(map[int]int, len(s.Scores))
	for k, v := range s.Scores {
		cp.Scores[k] = v
	}
	cp.EliminatedPlayers = make(map[int]bool, len(s.EliminatedPlayers))
	for k, v := range s.EliminatedPlayers {
		cp.EliminatedPlayers[k] = v
	}
	cp.LastCardsPlayed = append(cards.Hand(nil), s.LastCardsPlayed...)
	cp.DiscardPile = append(cards.Hand(nil), s.DiscardPile...)
	cp.Deck = s.Deck.Clone()
	return &cp
}
