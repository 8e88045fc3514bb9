// Package bot implements the Bot Driver (spec §4.2 data flow, §5 Bot
// cadence): given a GameState whose currentTurn belongs to a configured
// seat, it asks that seat's Strategy for a decision and submits it through
// internal/engine's transitions, updating the seat's probability.Tracker as
// observations are produced. Grounded on the teacher's GameEngine.PlayHand
// agent-dispatch loop (internal/game/engine.go), which likewise resolves an
// Agent for the current player, builds a public TableState, and applies the
// resulting decision through the engine rather than mutating state itself.
package bot

import (
	"context"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/probability"
	"github.com/lox/zapzap/internal/strategy"
)

// Seat pairs a configured Strategy with the per-seat Tracker that observes
// on its behalf (spec §4.3: the tracker is per-bot-per-round).
type Seat struct {
	Strategy strategy.Strategy
	Tracker  *probability.Tracker
}

// Driver dispatches one turn at a time for whichever seats it has been
// configured with; seats absent from Seats are treated as not bot-driven
// (a human or external controller owns their turns).
type Driver struct {
	sm     *engine.StateMachine
	Seats  map[int]*Seat
	logger *log.Logger
}

// NewDriver constructs a Driver. logger defaults to the teacher's
// charmbracelet/log convention if nil; callers typically share one logger
// across the whole match.
func NewDriver(seats map[int]*Seat, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Driver{sm: engine.NewStateMachine(), Seats: seats, logger: logger.With("component", "bot")}
}

// ResetRound re-creates a fresh Tracker for every configured seat from its
// just-dealt hand (spec §4.3: the tracker is per-bot-per-round, not carried
// across rounds). Callers invoke this once per round, right after the
// SelectHandSize transition has dealt hands and before any further turn is
// driven.
func (d *Driver) ResetRound(state *engine.GameState) {
	for i, seat := range d.Seats {
		seat.Tracker = probability.New(state.Hands[i], state.PlayerCount)
	}
}

// Result is what one PlayTurn call produced, mirroring the StateMachine's
// own (state, observation, outcome, error) shape plus the phase-specific
// intent the driver chose.
type Result struct {
	State       *engine.GameState
	Observation *engine.Observation
	Outcome     *engine.RoundOutcome // non-nil only on a successful ZapZap call
}

// PlayTurn resolves the bot at state.CurrentTurn (a no-op, returning state
// unchanged, if that seat has no configured Seat) and submits exactly one
// transition for it — SelectHandSize, a ZapZap call, PlayCards, or
// DrawCard, depending on CurrentAction and, in the Play phase, whether the
// seat's hand already clears the Call-ZapZap eligibility gate.
func (d *Driver) PlayTurn(ctx context.Context, state *engine.GameState, rng *rand.Rand) (*Result, error) {
	actor := state.CurrentTurn
	seat, ok := d.Seats[actor]
	if !ok {
		return &Result{State: state}, nil
	}

	switch state.CurrentAction {
	case engine.PhaseSelectHandSize:
		min, max := state.HandSizeRange()
		handSize := seat.Strategy.SelectHandSize(ctx, min, max, rng)
		next, obs, err := d.sm.SelectHandSize(state, actor, handSize)
		if err != nil {
			return nil, err
		}
		d.observeAll(next, obs)
		return &Result{State: next, Observation: obs}, nil

	case engine.PhasePlay:
		hand := state.Hands[actor]
		if hand.EligibilityValue() <= engine.EligibilityMax() && seat.Strategy.ShouldZapZap(ctx, hand, d.publicState(state, actor)) {
			next, obs, outcome, err := d.sm.CallZapZap(state, actor)
			if err != nil {
				return nil, err
			}
			d.observeAll(next, obs)
			return &Result{State: next, Observation: obs, Outcome: outcome}, nil
		}

		play := seat.Strategy.SelectPlay(ctx, hand, d.publicState(state, actor), rng)
		next, obs, err := d.sm.PlayCards(state, actor, play)
		if err != nil {
			d.logger.Warn("strategy produced invalid play, falling back to lowest-point single card", "seat", actor, "err", err)
			play = fallbackSingleton(hand)
			next, obs, err = d.sm.PlayCards(state, actor, play)
			if err != nil {
				return nil, err
			}
		}
		d.observeAll(next, obs)
		return &Result{State: next, Observation: obs}, nil

	case engine.PhaseDraw:
		hand := state.Hands[actor]
		source, card := seat.Strategy.SelectDrawSource(ctx, hand, d.publicState(state, actor), rng)
		next, obs, err := d.sm.DrawCard(state, actor, source, card)
		if err != nil {
			d.logger.Warn("strategy produced invalid draw, falling back to deck", "seat", actor, "err", err)
			next, obs, err = d.sm.DrawCard(state, actor, engine.SourceDeck, 0)
			if err != nil {
				return nil, err
			}
		}
		// The acting seat's own tracker must learn the drawn card regardless
		// of source: a deck draw never appears in Observation at all, and a
		// top-region draw's Observe only marks it as "known to be held by
		// actor" on opponents' trackers, never this seat's own inMyHand set.
		if c, ok := drawnCard(next, actor, state); ok {
			seat.Tracker.AddToMyHand(c)
		}
		d.observeAll(next, obs)
		return &Result{State: next, Observation: obs}, nil

	default:
		return &Result{State: state}, nil
	}
}

// observeAll folds obs into every configured seat's tracker, including the
// actor's own (a bot observes its own actions the same way it observes
// opponents', per spec §4.3 R3: the tracker is a pure fold over the
// observation log regardless of whose log it was built from).
func (d *Driver) observeAll(state *engine.GameState, obs *engine.Observation) {
	handSizes := make(map[int]int, state.PlayerCount)
	for i := 0; i < state.PlayerCount; i++ {
		handSizes[i] = len(state.Hands[i])
	}
	for _, seat := range d.Seats {
		seat.Tracker.Observe(obs, state.LastCardsPlayed, handSizes)
	}
}

// publicState projects the authoritative GameState down to what self may
// legally see (spec §4.4: a strategy never receives another seat's hand).
func (d *Driver) publicState(state *engine.GameState, self int) strategy.PublicState {
	sizes := make(map[int]int, state.PlayerCount)
	for i := 0; i < state.PlayerCount; i++ {
		if i == self || state.EliminatedPlayers[i] {
			continue
		}
		sizes[i] = len(state.Hands[i])
	}
	return strategy.PublicState{
		RoundNumber:       state.RoundNumber,
		IsGoldenScore:     state.IsGoldenScore,
		TopRegion:         state.LastCardsPlayed,
		OpponentHandSizes: sizes,
		Self:              self,
	}
}

// fallbackSingleton is the Bot Driver's last-resort recovery when a
// strategy returns an invalid play: the single card with the fewest
// eligibility points, which is always a legal T2 play. Mirrors the teacher's PlayHand fallback-to-
// validActions[0] behavior on an invalid agent decision.
func fallbackSingleton(hand cards.Hand) cards.Hand {
	if len(hand) == 0 {
		return nil
	}
	lowest := hand[0]
	for _, c := range hand[1:] {
		if c.EligibilityPoints() < lowest.EligibilityPoints() {
			lowest = c
		}
	}
	return cards.Hand{lowest}
}

// drawnCard recovers the card actor just drew from the deck by diffing its
// hand before and after the transition — DrawCard's Observation never
// reveals a private deck draw (spec §6), so the driver must read it off the
// authoritative state instead.
func drawnCard(next *engine.GameState, actor int, prev *engine.GameState) (cards.Card, bool) {
	before := map[cards.Card]bool{}
	for _, c := range prev.Hands[actor] {
		before[c] = true
	}
	for _, c := range next.Hands[actor] {
		if !before[c] {
			return c, true
		}
	}
	return 0, false
}
