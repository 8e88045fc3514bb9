package engine

import (
	"github.com/lox/zapzap/internal/analyzer"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/randsrc"
)

// StateMachine is the only mutator of GameState (spec §4.2). Every method is
// an atomic pre-condition check followed by a deterministic state update;
// transitions never partially mutate state and never perform I/O — the Store
// write and EventSink publish happen after a transition returns, in the
// caller's orchestration layer (mirroring the teacher's split between Table,
// which only mutates in-memory state, and the outer engine that persists and
// publishes).
type StateMachine struct{}

// NewStateMachine constructs a StateMachine. It is stateless; one instance
// may serve any number of matches.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// SelectHandSize implements T1 (spec §4.2).
func (StateMachine) SelectHandSize(s *GameState, actor int, handSize int) (*GameState, *Observation, error) {
	if s.CurrentAction != PhaseSelectHandSize {
		return nil, nil, newErr(KindInvalidActionPhase)
	}
	if actor != s.CurrentTurn {
		return nil, nil, newErr(KindNotYourTurn)
	}
	min, max := s.HandSizeRange()
	if handSize < min || handSize > max {
		return nil, nil, newErr(KindInvalidHandSize)
	}

	next := s.Clone()
	next.Deck = cards.NewShuffledDeck(randsrc.New(randsrc.Derive(s.Seed, s.RoundNumber)))

	for i := 0; i < s.PlayerCount; i++ {
		if next.EliminatedPlayers[i] {
			next.Hands[i] = cards.Hand{}
			continue
		}
		next.Hands[i] = cards.Hand(next.Deck.DealN(handSize))
	}
	if flip, ok := next.Deck.Deal(); ok {
		next.LastCardsPlayed = cards.Hand{flip}
	}
	next.CurrentAction = PhasePlay

	obs := &Observation{
		PartyID:     s.PartyID,
		RoundNumber: s.RoundNumber,
		Actor:       actor,
		Type:        ActionSelectHandSize,
		Payload:     map[string]any{"handSize": handSize},
	}
	next.LastAction = obs
	return next, obs, nil
}

// PlayCards implements T2 (spec §4.2).
func (StateMachine) PlayCards(s *GameState, actor int, play cards.Hand) (*GameState, *Observation, error) {
	if s.CurrentAction != PhasePlay {
		return nil, nil, newErr(KindInvalidActionPhase)
	}
	if actor != s.CurrentTurn {
		return nil, nil, newErr(KindNotYourTurn)
	}
	hand := s.Hands[actor]
	if !hand.ContainsAll(play) {
		return nil, nil, newErr(KindCardNotInHand)
	}
	if !analyzer.IsValidPlay(play) {
		return nil, nil, newErrReason(KindInvalidPlay, invalidPlayReason(play))
	}

	next := s.Clone()
	next.Hands[actor] = hand.Remove(play)
	next.DiscardPile = append(next.DiscardPile, next.LastCardsPlayed...)
	next.LastCardsPlayed = append(cards.Hand(nil), play...)
	next.CurrentAction = PhaseDraw

	obs := &Observation{
		PartyID:     s.PartyID,
		RoundNumber: s.RoundNumber,
		Actor:       actor,
		Type:        ActionPlay,
		Payload:     map[string]any{"count": len(play)},
	}
	next.LastAction = obs
	return next, obs, nil
}

// invalidPlayReason gives a best-effort sub-reason for an InvalidPlay error
// (spec §7): mixed-suit, non-consecutive, too-short, or joker-overcount. This
// is diagnostic only — it never changes whether the play is rejected.
func invalidPlayReason(play cards.Hand) string {
	if len(play) == 0 {
		return "too-short"
	}
	nonJokers := play.NonJokers()
	if len(nonJokers) == 0 {
		return "too-short"
	}
	suit := nonJokers[0].Suit()
	mixedSuit := false
	mixedRank := false
	rank := nonJokers[0].Rank()
	for _, c := range nonJokers[1:] {
		if c.Suit() != suit {
			mixedSuit = true
		}
		if c.Rank() != rank {
			mixedRank = true
		}
	}
	switch {
	case !mixedRank:
		return "too-short"
	case mixedSuit:
		return "mixed-suit"
	default:
		return "non-consecutive-or-joker-overcount"
	}
}

// DrawCard implements T3 (spec §4.2).
func (StateMachine) DrawCard(s *GameState, actor int, source DrawSource, optCardID cards.Card) (*GameState, *Observation, error) {
	if s.CurrentAction != PhaseDraw {
		return nil, nil, newErr(KindInvalidActionPhase)
	}
	if actor != s.CurrentTurn {
		return nil, nil, newErr(KindNotYourTurn)
	}

	next := s.Clone()
	var drawn cards.Card

	switch source {
	case SourceTopRegion:
		if !next.LastCardsPlayed.Contains(optCardID) {
			return nil, nil, newErr(KindCardNotInTopRegion)
		}
		drawn = optCardID
		next.LastCardsPlayed = next.LastCardsPlayed.Remove(cards.Hand{optCardID})

	case SourceDeck:
		if next.Deck.IsEmpty() {
			if len(next.DiscardPile) == 0 {
				if len(next.LastCardsPlayed) == 0 {
					return nil, nil, newErr(KindDeckAndHistoryEmpty)
				}
				// B4: redirect to the top region when deck and history are
				// both empty but the top region is not.
				drawn = next.LastCardsPlayed[0]
				next.LastCardsPlayed = next.LastCardsPlayed.Remove(cards.Hand{drawn})
				break
			}
			// B3/S5: reshuffle the history region into a fresh deck using a
			// fresh seeded permutation.
			next.Deck = cards.NewDeckFromCards(next.DiscardPile)
			next.Deck.ShuffleWith(randsrc.New(randsrc.Derive(s.Seed, s.RoundNumber*31+s.CurrentTurn)))
			next.DiscardPile = nil
			d, ok := next.Deck.Deal()
			if !ok {
				return nil, nil, newErr(KindDeckAndHistoryEmpty)
			}
			drawn = d
		} else {
			d, ok := next.Deck.Deal()
			if !ok {
				return nil, nil, newErr(KindDeckAndHistoryEmpty)
			}
			drawn = d
		}

	default:
		return nil, nil, newErr(KindTopRegionEmpty)
	}

	next.Hands[actor] = append(next.Hands[actor].Clone(), drawn)
	next.CurrentAction = PhasePlay
	next.CurrentTurn = next.NextNonEliminated(s.CurrentTurn)

	payload := map[string]any{"source": string(source)}
	if source == SourceTopRegion {
		// The top region is public, so which card was taken is observable;
		// a deck draw's card is only visible to the drawer (spec §6).
		payload["cardId"] = drawn
	}
	obs := &Observation{
		PartyID:     s.PartyID,
		RoundNumber: s.RoundNumber,
		Actor:       actor,
		Type:        ActionDraw,
		Payload:     payload,
	}
	next.LastAction = obs
	return next, obs, nil
}

// CallZapZap implements T4 (spec §4.2): round settlement.
func (StateMachine) CallZapZap(s *GameState, actor int) (*GameState, *Observation, *RoundOutcome, error) {
	if s.CurrentAction != PhasePlay && s.CurrentAction != PhaseDraw {
		return nil, nil, nil, newErr(KindInvalidActionPhase)
	}
	if actor != s.CurrentTurn {
		return nil, nil, nil, newErr(KindNotYourTurn)
	}
	if s.EliminatedPlayers[actor] {
		return nil, nil, nil, newErr(KindPlayerEliminated)
	}
	if s.Hands[actor].EligibilityValue() > eligibilityMax {
		return nil, nil, nil, newErr(KindHandValueTooHigh)
	}

	next := s.Clone()
	base := make(map[int]int, s.PlayerCount)
	score := make(map[int]int, s.PlayerCount)
	for i := 0; i < s.PlayerCount; i++ {
		if next.EliminatedPlayers[i] {
			continue
		}
		base[i] = next.Hands[i].EligibilityValue()
		score[i] = next.Hands[i].ScoringValue()
	}

	active := next.NonEliminated()
	lowest := active[0]
	for _, i := range active {
		if base[i] < base[lowest] {
			lowest = i
		}
	}

	deltas := make(map[int]int, s.PlayerCount)
	counteracted := lowest != actor
	for _, i := range next.NonEliminated() {
		switch {
		case counteracted && i == actor:
			deltas[i] = score[i] + 5*s.PlayerCount
		case counteracted && base[i] == base[lowest]:
			deltas[i] = 0
		case !counteracted && i == actor:
			deltas[i] = 0
		default:
			deltas[i] = score[i]
		}
	}

	outcome := &RoundOutcome{
		PartyID:     s.PartyID,
		RoundNumber: s.RoundNumber,
		PerPlayer:   make(map[int]PlayerRoundResult, len(deltas)),
	}
	for _, i := range next.NonEliminated() {
		next.Scores[i] += deltas[i]
		isEliminated := next.Scores[i] > EliminationThreshold
		if isEliminated {
			next.EliminatedPlayers[i] = true
		}
		outcome.PerPlayer[i] = PlayerRoundResult{
			HandPointsAtEnd: score[i],
			ScoreThisRound:  deltas[i],
			CumulativeAfter: next.Scores[i],
			IsLowest:        i == lowest,
			WasZapCaller:    i == actor,
			WasCounteracted: counteracted && i == actor,
			IsEliminated:    isEliminated,
		}
	}
	next.CurrentAction = PhaseFinished

	obs := &Observation{
		PartyID:     s.PartyID,
		RoundNumber: s.RoundNumber,
		Actor:       actor,
		Type:        ActionCall,
		Payload:     map[string]any{"counteracted": counteracted, "lowest": lowest},
	}
	next.LastAction = obs
	return next, obs, outcome, nil
}

// RoundOutcome is the append-only round-outcome record (spec §6 Persistence
// shape).
type RoundOutcome struct {
	PartyID     string
	RoundNumber int
	PerPlayer   map[int]PlayerRoundResult
}

// PlayerRoundResult is one player's row of a RoundOutcome.
type PlayerRoundResult struct {
	HandPointsAtEnd int
	ScoreThisRound  int
	CumulativeAfter int
	IsLowest        bool
	WasZapCaller    bool
	WasCounteracted bool
	IsEliminated    bool
}
