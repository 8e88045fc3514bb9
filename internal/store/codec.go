package store

import (
	"bytes"
	"sort"

	"github.com/tinylib/msgp/msgp"

	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
)

// encodeGameState serializes state to msgpack by hand, using msgp's
// low-level Writer primitives directly rather than generated
// EncodeMsg/DecodeMsg methods (spec §1 Non-goals: no real DB is wired up,
// but Save still round-trips through a genuine binary codec the way a
// SQLite BLOB column would, per internal/protocol/marshal.go's
// msgp.NewWriter/msgp.NewReader pattern). Map keys are written in sorted
// order so two encodes of an identical state produce identical bytes.
func encodeGameState(s *engine.GameState) ([]byte, error) {
	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)

	if err := w.WriteString(s.PartyID); err != nil {
		return nil, err
	}
	if err := writeDeck(w, s.Deck); err != nil {
		return nil, err
	}
	if err := writeHandMap(w, s.Hands, s.PlayerCount); err != nil {
		return nil, err
	}
	if err := writeHand(w, s.LastCardsPlayed); err != nil {
		return nil, err
	}
	if err := writeHand(w, s.DiscardPile); err != nil {
		return nil, err
	}
	if err := w.WriteInt(s.CurrentTurn); err != nil {
		return nil, err
	}
	if err := w.WriteString(string(s.CurrentAction)); err != nil {
		return nil, err
	}
	if err := writeIntMap(w, s.Scores, s.PlayerCount); err != nil {
		return nil, err
	}
	if err := w.WriteInt(s.RoundNumber); err != nil {
		return nil, err
	}
	if err := writeBoolMap(w, s.EliminatedPlayers, s.PlayerCount); err != nil {
		return nil, err
	}
	if err := w.WriteBool(s.IsGoldenScore); err != nil {
		return nil, err
	}
	if err := writeObservation(w, s.LastAction); err != nil {
		return nil, err
	}
	if err := w.WriteInt(s.PlayerCount); err != nil {
		return nil, err
	}
	if err := w.WriteInt64(s.Seed); err != nil {
		return nil, err
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGameState(data []byte) (*engine.GameState, error) {
	r := msgp.NewReader(bytes.NewReader(data))
	s := &engine.GameState{}

	var err error
	if s.PartyID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if s.Deck, err = readDeck(r); err != nil {
		return nil, err
	}
	if s.Hands, err = readHandMap(r); err != nil {
		return nil, err
	}
	if s.LastCardsPlayed, err = readHand(r); err != nil {
		return nil, err
	}
	if s.DiscardPile, err = readHand(r); err != nil {
		return nil, err
	}
	if s.CurrentTurn, err = r.ReadInt(); err != nil {
		return nil, err
	}
	action, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	s.CurrentAction = engine.Phase(action)
	if s.Scores, err = readIntMap(r); err != nil {
		return nil, err
	}
	if s.RoundNumber, err = r.ReadInt(); err != nil {
		return nil, err
	}
	if s.EliminatedPlayers, err = readBoolMap(r); err != nil {
		return nil, err
	}
	if s.IsGoldenScore, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if s.LastAction, err = readObservation(r); err != nil {
		return nil, err
	}
	if s.PlayerCount, err = r.ReadInt(); err != nil {
		return nil, err
	}
	if s.Seed, err = r.ReadInt64(); err != nil {
		return nil, err
	}
	return s, nil
}

func writeDeck(w *msgp.Writer, d *cards.Deck) error {
	if d == nil {
		return w.WriteArrayHeader(0)
	}
	return writeCards(w, d.Cards())
}

func readDeck(r *msgp.Reader) (*cards.Deck, error) {
	cs, err := readCards(r)
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return cards.NewDeckFromCards(cs), nil
}

func writeHand(w *msgp.Writer, h cards.Hand) error {
	return writeCards(w, []cards.Card(h))
}

func readHand(r *msgp.Reader) (cards.Hand, error) {
	cs, err := readCards(r)
	if err != nil {
		return nil, err
	}
	return cards.Hand(cs), nil
}

func writeCards(w *msgp.Writer, cs []cards.Card) error {
	if err := w.WriteArrayHeader(uint32(len(cs))); err != nil {
		return err
	}
	for _, c := range cs {
		if err := w.WriteInt(int(c)); err != nil {
			return err
		}
	}
	return nil
}

func readCards(r *msgp.Reader) ([]cards.Card, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make([]cards.Card, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		out = append(out, cards.Card(v))
	}
	return out, nil
}

func writeHandMap(w *msgp.Writer, hands map[int]cards.Hand, playerCount int) error {
	if err := w.WriteMapHeader(uint32(len(hands))); err != nil {
		return err
	}
	for _, seat := range sortedSeats(hands, playerCount) {
		if err := w.WriteInt(seat); err != nil {
			return err
		}
		if err := writeHand(w, hands[seat]); err != nil {
			return err
		}
	}
	return nil
}

func readHandMap(r *msgp.Reader) (map[int]cards.Hand, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[int]cards.Hand, n)
	for i := uint32(0); i < n; i++ {
		seat, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		hand, err := readHand(r)
		if err != nil {
			return nil, err
		}
		out[seat] = hand
	}
	return out, nil
}

func writeIntMap(w *msgp.Writer, m map[int]int, playerCount int) error {
	if err := w.WriteMapHeader(uint32(len(m))); err != nil {
		return err
	}
	for _, seat := range sortedIntKeys(m, playerCount) {
		if err := w.WriteInt(seat); err != nil {
			return err
		}
		if err := w.WriteInt(m[seat]); err != nil {
			return err
		}
	}
	return nil
}

func readIntMap(r *msgp.Reader) (map[int]int, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[int]int, n)
	for i := uint32(0); i < n; i++ {
		k, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func writeBoolMap(w *msgp.Writer, m map[int]bool, playerCount int) error {
	if err := w.WriteMapHeader(uint32(len(m))); err != nil {
		return err
	}
	for _, seat := range sortedBoolKeys(m, playerCount) {
		if err := w.WriteInt(seat); err != nil {
			return err
		}
		if err := w.WriteBool(m[seat]); err != nil {
			return err
		}
	}
	return nil
}

func readBoolMap(r *msgp.Reader) (map[int]bool, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, n)
	for i := uint32(0); i < n; i++ {
		k, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// writeObservation encodes a possibly-nil Observation. Payload is a
// map[string]any in memory (engine.Observation, spec §6); it is written via
// msgp's dynamic-value support (WriteIntf) rather than a fixed schema,
// since its shape varies by ActionType.
func writeObservation(w *msgp.Writer, obs *engine.Observation) error {
	if obs == nil {
		return w.WriteBool(false)
	}
	if err := w.WriteBool(true); err != nil {
		return err
	}
	if err := w.WriteString(obs.PartyID); err != nil {
		return err
	}
	if err := w.WriteInt(obs.RoundNumber); err != nil {
		return err
	}
	if err := w.WriteInt(obs.Actor); err != nil {
		return err
	}
	if err := w.WriteString(string(obs.Type)); err != nil {
		return err
	}
	return w.WriteIntf(obs.Payload)
}

func readObservation(r *msgp.Reader) (*engine.Observation, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	obs := &engine.Observation{}
	if obs.PartyID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if obs.RoundNumber, err = r.ReadInt(); err != nil {
		return nil, err
	}
	if obs.Actor, err = r.ReadInt(); err != nil {
		return nil, err
	}
	actionType, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	obs.Type = engine.ActionType(actionType)
	payload, err := r.ReadIntf()
	if err != nil {
		return nil, err
	}
	obs.Payload, _ = payload.(map[string]interface{})
	return obs, nil
}

func sortedSeats(hands map[int]cards.Hand, playerCount int) []int {
	out := make([]int, 0, len(hands))
	for i := 0; i < playerCount; i++ {
		if _, ok := hands[i]; ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func sortedIntKeys(m map[int]int, playerCount int) []int {
	out := make([]int, 0, len(m))
	for i := 0; i < playerCount; i++ {
		if _, ok := m[i]; ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func sortedBoolKeys(m map[int]bool, playerCount int) []int {
	out := make([]int, 0, len(m))
	for i := 0; i < playerCount; i++ {
		if _, ok := m[i]; ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
