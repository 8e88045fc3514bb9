// Package tui implements the interactive human-vs-bots match surface for
// cmd/zapzap's play subcommand. Grounded on the teacher's internal/tui/tui.go
// Bubble Tea model: the same log-viewport/action-textinput/sidebar layout
// and the same "parse the free-text action line, apply it, re-render" loop,
// generalized from poker's call/raise/fold vocabulary to ZapZap's hand-size/
// play/draw/call vocabulary. Unlike the teacher's model, which hands
// completed actions back to an external game loop over a channel, this
// model applies a human action and drives every subsequent bot turn
// in-line before returning to Update, since ZapZap has no per-street
// betting clock an external loop needs to coordinate.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/zapzap/internal/bot"
	"github.com/lox/zapzap/internal/cards"
	"github.com/lox/zapzap/internal/engine"
	"github.com/lox/zapzap/internal/lifecycle"
)

// Model is the Bubble Tea model for one interactive ZapZap match.
type Model struct {
	state      *engine.GameState
	sm         *engine.StateMachine
	driver     *bot.Driver
	humanSeat  int
	rng        *rand.Rand
	logger     *log.Logger
	finished   bool
	winnerSeat int

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width  int
	height int
}

// NewModel constructs the play surface. seats configures every non-human
// seat the same way internal/simulator does; humanSeat must not appear in
// seats (bot.Driver treats an absent seat as externally controlled).
func NewModel(state *engine.GameState, humanSeat int, seats map[int]*bot.Seat, logger *log.Logger, rng *rand.Rand) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "size 5 | play 0,2 | call | draw deck | draw top 0"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		state:       state,
		sm:          engine.NewStateMachine(),
		driver:      bot.NewDriver(seats, logger),
		humanSeat:   humanSeat,
		rng:         rng,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1,
	}
	m.AddLogEntry(fmt.Sprintf("Match started: %d players, seat %d is you.", state.PlayerCount, humanSeat))
	m.advance()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.finished {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
				if input == "quit" {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
				if input != "" {
					m.processAction(input)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 2).
		Height(actionHeight - 2)
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := 25
	if w := lipgloss.Width(sidebarContent); w > sidebarWidth {
		sidebarWidth = w
	}
	sidebarHeight := m.height - actionHeight - 4
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	logWidth := m.width - sidebarWidth - 4
	logHeight := m.height - actionHeight - 4
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// AddLogEntry appends a line to the game log and scrolls to the bottom.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// processAction parses one free-text command for the human seat, applies
// it, then drives every subsequent bot turn (and round transition) until
// control returns to the human or the match ends.
func (m *Model) processAction(input string) {
	if m.state.CurrentTurn != m.humanSeat {
		m.AddLogEntry(ErrorStyle.Render("not your turn"))
		return
	}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return
	}

	var err error
	switch m.state.CurrentAction {
	case engine.PhaseSelectHandSize:
		err = m.applySelectHandSize(fields)
	case engine.PhasePlay:
		err = m.applyPlay(fields)
	case engine.PhaseDraw:
		err = m.applyDraw(fields)
	default:
		err = fmt.Errorf("no action expected right now")
	}
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return
	}
	m.advance()
}

func (m *Model) applySelectHandSize(fields []string) error {
	if len(fields) > 0 && fields[0] == "size" {
		fields = fields[1:]
	}
	if len(fields) != 1 {
		return fmt.Errorf("usage: size <n>")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("hand size must be a number")
	}
	min, max := m.state.HandSizeRange()
	if n < min || n > max {
		return fmt.Errorf("hand size must be between %d and %d", min, max)
	}
	next, obs, err := m.sm.SelectHandSize(m.state, m.humanSeat, n)
	if err != nil {
		return err
	}
	m.commit(next, obs)
	return nil
}

func (m *Model) applyPlay(fields []string) error {
	if fields[0] == "call" {
		next, obs, outcome, err := m.sm.CallZapZap(m.state, m.humanSeat)
		if err != nil {
			return err
		}
		m.commit(next, obs)
		if outcome != nil {
			m.logRoundOutcome(outcome)
		}
		return nil
	}
	if fields[0] != "play" || len(fields) != 2 {
		return fmt.Errorf("usage: play <idx,idx,...> | call")
	}
	hand := m.state.Hands[m.humanSeat]
	indices := strings.Split(fields[1], ",")
	play := make(cards.Hand, 0, len(indices))
	for _, s := range indices {
		idx, err := strconv.Atoi(s)
		if err != nil || idx < 0 || idx >= len(hand) {
			return fmt.Errorf("invalid card index %q", s)
		}
		play = append(play, hand[idx])
	}
	next, obs, err := m.sm.PlayCards(m.state, m.humanSeat, play)
	if err != nil {
		return err
	}
	m.commit(next, obs)
	return nil
}

func (m *Model) applyDraw(fields []string) error {
	if len(fields) > 0 && fields[0] == "draw" {
		fields = fields[1:]
	}
	if len(fields) < 1 {
		return fmt.Errorf("usage: draw deck | draw top <idx>")
	}
	switch fields[0] {
	case "deck":
		next, obs, err := m.sm.DrawCard(m.state, m.humanSeat, engine.SourceDeck, 0)
		if err != nil {
			return err
		}
		m.commit(next, obs)
		return nil
	case "top":
		if len(fields) != 2 {
			return fmt.Errorf("usage: draw top <idx>")
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 0 || idx >= len(m.state.LastCardsPlayed) {
			return fmt.Errorf("invalid top-region index %q", fields[1])
		}
		card := m.state.LastCardsPlayed[idx]
		next, obs, err := m.sm.DrawCard(m.state, m.humanSeat, engine.SourceTopRegion, card)
		if err != nil {
			return err
		}
		m.commit(next, obs)
		return nil
	default:
		return fmt.Errorf("usage: draw deck | draw top <idx>")
	}
}

func (m *Model) commit(next *engine.GameState, obs *engine.Observation) {
	m.state = next
	m.AddLogEntry(describeObservation(obs))
}

func (m *Model) logRoundOutcome(outcome *engine.RoundOutcome) {
	for seat, r := range outcome.PerPlayer {
		tag := ""
		if r.IsLowest {
			tag = " (lowest)"
		}
		if r.IsEliminated {
			tag += " ELIMINATED"
		}
		m.AddLogEntry(fmt.Sprintf("  seat %d: +%d this round, %d total%s", seat, r.ScoreThisRound, r.CumulativeAfter, tag))
	}
}

// advance runs the bot driver (and round advancement) until the human's
// turn comes up again or the match ends.
func (m *Model) advance() {
	for {
		if m.state.CurrentAction == engine.PhaseFinished {
			next, status, record, err := lifecycle.Advance(m.state)
			if err != nil {
				m.AddLogEntry(ErrorStyle.Render(err.Error()))
				return
			}
			m.state = next
			if status == lifecycle.Finished {
				m.finished = true
				m.winnerSeat = record.WinnerID
				m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("Match over after %d rounds. Winner: seat %d (score %d). Press Enter to exit.",
					record.TotalRounds, record.WinnerID, record.WinnerScore)))
				return
			}
			m.AddLogEntry(fmt.Sprintf("-- round %d begins --", m.state.RoundNumber))
			continue
		}
		if m.state.LastAction != nil && m.state.LastAction.Type == engine.ActionSelectHandSize {
			// Hands were just dealt: re-seed every bot's Tracker from them.
			m.driver.ResetRound(m.state)
		}
		if m.state.CurrentTurn == m.humanSeat {
			return
		}
		result, err := m.driver.PlayTurn(context.Background(), m.state, m.rng)
		if err != nil {
			m.AddLogEntry(ErrorStyle.Render(err.Error()))
			return
		}
		m.state = result.State
		if result.Observation != nil {
			m.AddLogEntry(describeObservation(result.Observation))
		}
		if result.Outcome != nil {
			m.logRoundOutcome(result.Outcome)
		}
	}
}

func describeObservation(obs *engine.Observation) string {
	switch obs.Type {
	case engine.ActionSelectHandSize:
		return fmt.Sprintf("seat %d selects a hand size", obs.Actor)
	case engine.ActionPlay:
		return fmt.Sprintf("seat %d plays %v card(s)", obs.Actor, obs.Payload["count"])
	case engine.ActionDraw:
		return fmt.Sprintf("seat %d draws from %v", obs.Actor, obs.Payload["source"])
	case engine.ActionCall:
		return SuccessStyle.Render(fmt.Sprintf("seat %d calls ZapZap!", obs.Actor))
	default:
		return fmt.Sprintf("seat %d: %s", obs.Actor, obs.Type)
	}
}

func (m *Model) renderSidebarPane() string {
	var content strings.Builder
	for i := 0; i < m.state.PlayerCount; i++ {
		prefix := "  "
		if m.state.CurrentTurn == i {
			prefix = "▶ "
		}
		name := fmt.Sprintf("seat %d", i)
		if i == m.humanSeat {
			name = "You"
		}
		line := fmt.Sprintf("%s%s  score=%d  hand=%d", prefix, name, m.state.Scores[i], len(m.state.Hands[i]))
		if m.state.EliminatedPlayers[i] {
			line += " [OUT]"
		}
		style := PlayerInfoStyle
		if m.state.EliminatedPlayers[i] {
			style = InfoStyle
		} else if m.state.CurrentTurn == i {
			style = SuccessStyle
		}
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Round %d", m.state.RoundNumber)))
	if m.state.IsGoldenScore {
		content.WriteString(WarningStyle.Render(" (Golden Score)"))
	}
	return content.String()
}

func (m *Model) renderActionPane() string {
	var content strings.Builder

	if !m.finished && m.state.CurrentTurn == m.humanSeat {
		hand := m.state.Hands[m.humanSeat]
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Your hand: %s", formatHand(hand))))
		content.WriteString("\n")
		if len(m.state.LastCardsPlayed) > 0 {
			content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Top region: %s", formatHand(m.state.LastCardsPlayed))))
			content.WriteString("\n")
		}
		content.WriteString(ActionsStyle.Render(m.renderPrompt()))
		content.WriteString("\n")
	} else if m.finished {
		content.WriteString(HandInfoStyle.Render("Match complete"))
		content.WriteString("\n")
	} else {
		content.WriteString(InfoStyle.Render("Waiting for other seats..."))
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	return content.String()
}

func (m *Model) renderPrompt() string {
	switch m.state.CurrentAction {
	case engine.PhaseSelectHandSize:
		min, max := m.state.HandSizeRange()
		return fmt.Sprintf("choose a hand size between %d and %d", min, max)
	case engine.PhasePlay:
		hand := m.state.Hands[m.humanSeat]
		if hand.EligibilityValue() <= engine.EligibilityMax() {
			return "play <idx,...> or call ZapZap"
		}
		return "play <idx,...>"
	case engine.PhaseDraw:
		return "draw deck or draw top <idx>"
	default:
		return ""
	}
}

func formatHand(hand cards.Hand) string {
	if len(hand) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(hand))
	for i, c := range hand {
		label := fmt.Sprintf("[%d]%s", i, c.String())
		if !c.IsJoker() && (c.Suit() == cards.Hearts || c.Suit() == cards.Diamonds) {
			parts[i] = RedCardStyle.Render(label)
		} else {
			parts[i] = BlackCardStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}
