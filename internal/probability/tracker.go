// Package probability implements the per-bot-per-round Probability Tracker
// (spec §4.3): an append-only observer over public actions that estimates
// deck/opponent-hold probabilities and maintains per-opponent behavioral
// aggregates. Grounded on the teacher's internal/regression/statistics.go
// use of gonum/stat and gonum/stat/distuv for turning raw observation
// counts into calibrated estimates, generalized here from poker-hand
// win-rate confidence intervals to ZapZap's threat/zapRisk scoring.
package probability

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// ThreatLevel buckets an opponent's hand size into a coarse danger tier.
type ThreatLevel string

const (
	ThreatLow    ThreatLevel = "low"
	ThreatMedium ThreatLevel = "medium"
	ThreatHigh   ThreatLevel = "high"
)

// PlayStyle labels an opponent's observed drawing/playing habits.
type PlayStyle string

const (
	StyleUnknown PlayStyle = "unknown"
	StyleTight   PlayStyle = "tight"
	StyleLoose   PlayStyle = "loose"
	StyleAggressive PlayStyle = "aggressive"
	StylePassive PlayStyle = "passive"
)

// OpponentModel is the per-opponent aggregate (spec §4.3 Opponent model).
type OpponentModel struct {
	DrawsFromTop    int
	DrawsFromDeck   int
	TotalPlays      int
	MultiCardPlays  int
	ZapCalled       bool

	PickedCardsStillHeld map[cards.Card]bool
	RankHistogram        map[cards.Rank]int

	MinEst int
	MaxEst int

	HandSize int
}

func newOpponentModel() *OpponentModel {
	return &OpponentModel{
		PickedCardsStillHeld: map[cards.Card]bool{},
		RankHistogram:        map[cards.Rank]int{},
		MinEst:               0,
		MaxEst:                cards.Total * 10, // unconstrained until observations narrow it
	}
}

// ThreatLevel derives a coarse threat tier from the tracked hand size (spec
// §4.3 derived fields).
func (m *OpponentModel) ThreatLevel() ThreatLevel {
	switch {
	case m.HandSize <= 2:
		return ThreatHigh
	case m.HandSize <= 5:
		return ThreatMedium
	default:
		return ThreatLow
	}
}

// PlayStyle derives a behavioral label from the draw-source ratio and play
// size distribution. ZapZap has no betting, so the teacher's
// tight/loose/aggressive/passive labels are repurposed from bet-sizing
// aggression to draw-and-play aggression: an opponent that draws from the
// discard (top region) a lot and plays multi-card combos often is
// "aggressive"; one that mostly draws blind from the deck and plays
// singles is "tight".
func (m *OpponentModel) PlayStyle() PlayStyle {
	totalDraws := m.DrawsFromTop + m.DrawsFromDeck
	if totalDraws == 0 || m.TotalPlays == 0 {
		return StyleUnknown
	}
	topRatio := float64(m.DrawsFromTop) / float64(totalDraws)
	comboRatio := float64(m.MultiCardPlays) / float64(m.TotalPlays)

	switch {
	case topRatio >= 0.5 && comboRatio >= 0.3:
		return StyleAggressive
	case topRatio >= 0.5:
		return StyleLoose
	case comboRatio < 0.15:
		return StyleTight
	default:
		return StylePassive
	}
}

// ZapRisk blends hand size, the estimated-value envelope, and the draw-style
// aggression signal into a [0,1] estimate of how likely this opponent is to
// call ZapZap soon, via a Beta distribution whose shape parameters tighten
// as more of the envelope narrows (a joker-heavy estimate or a very small
// hand pulls the distribution's mean toward 1).
func (m *OpponentModel) ZapRisk() float64 {
	if m.ZapCalled {
		return 1
	}
	handFactor := 1.0
	if m.HandSize > 0 {
		handFactor = 1.0 / float64(m.HandSize)
	}
	estFactor := 0.5
	if m.MaxEst > 0 {
		estFactor = 1.0 - clamp01(float64(m.MinEst+m.MaxEst)/2/50.0)
	}

	alpha := 1.0 + 4.0*handFactor
	beta := 1.0 + 4.0*(1-estFactor)
	dist := distuv.Beta{Alpha: alpha, Beta: beta}
	return dist.Mean()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Tracker is the per-bot-per-round observer (spec §4.3). It is append-only
// and recomputable from the action log: two trackers fed the same
// observations produce identical state (R3 in spec §8).
type Tracker struct {
	playerCount int

	inMyHand    map[cards.Card]bool
	inTopRegion map[cards.Card]bool
	history     map[cards.Card]bool

	opponents map[int]*OpponentModel
}

// New constructs a Tracker for a round with the given own hand and
// playerCount.
func New(ownHand cards.Hand, playerCount int) *Tracker {
	t := &Tracker{
		playerCount: playerCount,
		inMyHand:    map[cards.Card]bool{},
		inTopRegion: map[cards.Card]bool{},
		history:     map[cards.Card]bool{},
		opponents:   map[int]*OpponentModel{},
	}
	for _, c := range ownHand {
		t.inMyHand[c] = true
	}
	for i := 0; i < playerCount; i++ {
		t.opponents[i] = newOpponentModel()
	}
	return t
}

// AddToMyHand records a card the tracking bot itself drew (spec §4.3: a
// deck draw's card is only visible to the drawer). The bot driver calls
// this after its own DrawCard, since Observe alone never reveals a private
// deck draw.
func (t *Tracker) AddToMyHand(c cards.Card) {
	t.inMyHand[c] = true
}

// Opponent returns the tracked model for player i, creating one if absent —
// tolerating unknown indices keeps the tracker consistent under any
// observed action sequence (spec §7).
func (t *Tracker) Opponent(i int) *OpponentModel {
	m, ok := t.opponents[i]
	if !ok {
		m = newOpponentModel()
		t.opponents[i] = m
	}
	return m
}

// Observe folds one committed Observation into the tracker's state. Unknown
// action types are a no-op (spec §7).
func (t *Tracker) Observe(obs *engine.Observation, revealedPlayed cards.Hand, handSizes map[int]int) {
	switch obs.Type {
	case engine.ActionPlay:
		t.observePlay(obs.Actor, revealedPlayed)
	case engine.ActionDraw:
		t.observeDraw(obs.Actor, obs.Payload)
	case engine.ActionCall:
		if m, ok := t.opponents[obs.Actor]; ok {
			m.ZapCalled = true
			m.MaxEst = 5
		}
	}
	for i, sz := range handSizes {
		t.Opponent(i).HandSize = sz
	}
}

func (t *Tracker) observePlay(actor int, played cards.Hand) {
	m := t.Opponent(actor)
	m.TotalPlays++
	if len(played) > 1 {
		m.MultiCardPlays++
	}

	// The previous top region is superseded: its cards move into history
	// (spec §4.2 T2 — "move the previous top region into the history
	// region"). The newly played cards become the new top region.
	for c := range t.inTopRegion {
		t.history[c] = true
	}
	t.inTopRegion = map[cards.Card]bool{}

	for _, c := range played {
		t.inTopRegion[c] = true
		delete(t.inMyHand, c)
		delete(m.PickedCardsStillHeld, c)
		if !c.IsJoker() {
			m.RankHistogram[c.Rank()]++
		}
		if v := valueOf(c); v < m.MaxEst {
			m.MaxEst = v
		}
	}
}

func (t *Tracker) observeDraw(actor int, payload map[string]any) {
	m := t.Opponent(actor)
	src, _ := payload["source"].(string)
	if src == string(engine.SourceTopRegion) {
		m.DrawsFromTop++
		if c, ok := payload["cardId"].(cards.Card); ok {
			delete(t.inTopRegion, c)
			m.PickedCardsStillHeld[c] = true
		}
	} else {
		m.DrawsFromDeck++
	}
}

// ResetForReshuffle clears the history region tracking when the engine
// reshuffles it into the deck (spec §4.3: opponent behavioral aggregates
// persist across a reshuffle, only the history set clears).
func (t *Tracker) ResetForReshuffle() {
	t.history = map[cards.Card]bool{}
}

// ProbabilityInDeck returns the probability that card c is still in the
// deck (spec §4.3 Inference): 0 if c is in any known set, else
// deckSize/unknownCount.
func (t *Tracker) ProbabilityInDeck(c cards.Card, deckSize int) float64 {
	if t.inMyHand[c] || t.inTopRegion[c] || t.history[c] {
		return 0
	}
	unknown := t.unknownCount()
	if unknown == 0 {
		return 0
	}
	return float64(deckSize) / float64(unknown)
}

// ProbabilityOpponentHolds estimates the probability that opponent j holds
// unseen card c (spec §4.3): handSize[j]/unknownCount, raised toward ≈0.8
// for cards j was observed to pick from the top region and has not since
// played.
func (t *Tracker) ProbabilityOpponentHolds(j int, c cards.Card) float64 {
	if t.inMyHand[c] || t.inTopRegion[c] || t.history[c] {
		return 0
	}
	unknown := t.unknownCount()
	if unknown == 0 {
		return 0
	}
	m := t.Opponent(j)
	base := float64(m.HandSize) / float64(unknown)
	if m.PickedCardsStillHeld[c] {
		return 0.8
	}
	return base
}

func (t *Tracker) unknownCount() int {
	known := len(t.inMyHand) + len(t.inTopRegion) + len(t.history)
	return cards.Total - known
}

func valueOf(c cards.Card) int {
	return c.ScoringPoints()
}
