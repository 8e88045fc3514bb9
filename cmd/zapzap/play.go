package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/zapzap/internal/bot"
	"github.com/lox/zapzap/internal/config"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/probability"
	"github.com/lox/zapzap/internal/randsrc"

	"github.com/lox/zapzap/cmd/zapzap/tui"
)

// PlayCmd starts an interactive human-vs-bots match. Grounded on the
// teacher's cmd/pokerforbots ClientCmd/BotCmd split — here collapsed into
// one subcommand since a ZapZap match has no separate server process to
// dial into, matching internal/tui's own single-process assumption.
type PlayCmd struct {
	Players   int    `kong:"default='4',help='Number of players, including you'"`
	HumanSeat int    `kong:"default='0',help='Which seat you occupy'"`
	Opponents string `kong:"default='easy,medium,hard',help='Comma-separated strategy for every non-human seat, in seat order'"`
	Seed      int64  `kong:"help='Deterministic RNG seed (0 = derive from current time)'"`
	Config    string `kong:"help='HCL config file overriding rules/Thibot weights'"`
	Debug     bool   `kong:"help='Enable debug logging to stderr'"`
}

func (c *PlayCmd) Run() error {
	level := log.WarnLevel
	if c.Debug {
		level = log.DebugLevel
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(level)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	cfg.ApplyRules()
	cfg.ApplyThibotWeights()

	if c.HumanSeat < 0 || c.HumanSeat >= c.Players {
		return fmt.Errorf("zapzap: --human-seat must be in [0,%d)", c.Players)
	}
	names := strings.Split(c.Opponents, ",")
	if len(names) != c.Players-1 {
		return fmt.Errorf("zapzap: --opponents has %d entries, need %d for --players=%d", len(names), c.Players-1, c.Players)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	partyID := uuid.New().String()
	state, err := engine.NewMatch(partyID, c.Players, seed)
	if err != nil {
		return err
	}

	seats := make(map[int]*bot.Seat, c.Players-1)
	nameIdx := 0
	for seat := 0; seat < c.Players; seat++ {
		if seat == c.HumanSeat {
			continue
		}
		s, err := cfg.Strategy(strings.TrimSpace(names[nameIdx]))
		if err != nil {
			return err
		}
		nameIdx++
		seats[seat] = &bot.Seat{Strategy: s, Tracker: probability.New(nil, c.Players)}
	}

	// The first round's hand sizes are chosen via SelectHandSize before any
	// Tracker is useful, so seats start with an empty-hand Tracker here and
	// the tui package's round-advance loop re-seeds every Tracker from the
	// just-dealt hand, matching internal/simulator's runMatch.
	model := tui.NewModel(state, c.HumanSeat, seats, logger, randsrc.New(seed))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
