package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/service"
)

// logLines is how many of the newest event log entries are shown
const logLines = 6

// Recorder stores a finished run
type Recorder interface {
	SaveResult(ctx context.Context, result service.RunResult) (service.RunResult, error)
}

// Option configures a Model
type Option func(*Model)

// WithRecorder records every finished run
func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithLogger reports recorder failures
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSessionID tags recorded runs with the given identifier
func WithSessionID(id string) Option {
	return func(m *Model) { m.sessionID = id }
}

// WithLevelID records runs under the level ID the server uses, rather than
// the level's display name
func WithLevelID(id string) Option {
	return func(m *Model) { m.levelID = id }
}

// Model is the Bubble Tea model for a single local game.
type Model struct {
	engine    *engine.GameEngine
	keys      KeyMap
	help      help.Model
	recorder  Recorder
	logger    *log.Logger
	sessionID string
	levelID   string
	recorded  bool
	last      engine.Outcome
	width     int
	quitting  bool
}

// NewModel creates a play model over the given engine
func NewModel(e *engine.GameEngine, opts ...Option) Model {
	m := Model{
		engine:    e,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logger:    log.New(io.Discard),
		sessionID: "local",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.engine.Reset()
			m.recorded = false
			m.last = ""
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.North):
			m.step(engine.North)
		case key.Matches(msg, m.keys.South):
			m.step(engine.South)
		case key.Matches(msg, m.keys.West):
			m.step(engine.West)
		case key.Matches(msg, m.keys.East):
			m.step(engine.East)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *Model) step(dir engine.Direction) {
	m.last = m.engine.Step(dir)
	if m.engine.IsOver() && !m.recorded {
		m.record()
	}
}

func (m *Model) record() {
	m.recorded = true
	if m.recorder == nil {
		return
	}
	snap := m.engine.Snapshot()
	level := m.levelID
	if level == "" {
		level = snap.Level
	}
	_, err := m.recorder.SaveResult(context.Background(), service.RunResult{
		SessionID:  m.sessionID,
		Level:      level,
		Won:        snap.IsWon,
		Score:      snap.Score,
		Delivered:  snap.Delivered,
		MovesUsed:  snap.MovesUsed,
		FinishedAt: time.Now(),
	})
	if err != nil {
		m.logger.Warn("failed to record run", "err", err)
	}
}

// Engine returns the engine being played
func (m Model) Engine() *engine.GameEngine {
	return m.engine
}

// LastOutcome returns the outcome of the most recent move
func (m Model) LastOutcome() engine.Outcome {
	return m.last
}

// Recorded reports whether the current run has been stored
func (m Model) Recorded() bool {
	return m.recorded
}

// IsQuitting returns true once the user asked to leave
func (m Model) IsQuitting() bool {
	return m.quitting
}

// View renders the board, stats and newest log lines.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("GIFT RUN - %s", snap.Level)))
	b.WriteString("\n\n")

	board := boardStyle.Render(renderBoard(snap))
	side := lipgloss.JoinVertical(lipgloss.Left, renderStats(snap), "", renderLog(snap.History))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", side))
	b.WriteString("\n")

	if snap.Message != "" {
		b.WriteString(noticeStyle.Render(snap.Message))
		b.WriteString("\n")
	}
	switch {
	case snap.IsWon:
		b.WriteString(winStyle.Render("Every gift delivered! Press r to play again."))
		b.WriteString("\n")
	case snap.IsLost:
		b.WriteString(loseStyle.Render("Out of moves. Press r to try again."))
		b.WriteString("\n")
	case m.last == engine.OutcomeBlocked:
		b.WriteString(mutedStyle.Render("Bump! That way is blocked."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run plays the engine in the terminal until the user quits.
func Run(e *engine.GameEngine, opts ...Option) error {
	p := tea.NewProgram(NewModel(e, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
