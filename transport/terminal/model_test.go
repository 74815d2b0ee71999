package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/service"
)

type fakeRecorder struct {
	results []service.RunResult
	err     error
}

func (f *fakeRecorder) SaveResult(_ context.Context, r service.RunResult) (service.RunResult, error) {
	f.results = append(f.results, r)
	return r, f.err
}

func newTestEngine(t *testing.T) *engine.GameEngine {
	t.Helper()
	e, err := engine.NewEngine(&engine.GameConfig{
		Name:     "terminal_test",
		MaxMoves: 10,
		Layout: []string{
			"#####",
			"#SGH#",
			"#.#.#",
			"#...#",
			"#####",
		},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestModel_MoveKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want engine.Position
	}{
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, engine.Position{Row: 1, Col: 2}},
		{"d", runes("d"), engine.Position{Row: 1, Col: 2}},
		{"l", runes("l"), engine.Position{Row: 1, Col: 2}},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, engine.Position{Row: 2, Col: 1}},
		{"s", runes("s"), engine.Position{Row: 2, Col: 1}},
		{"j", runes("j"), engine.Position{Row: 2, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, NewModel(newTestEngine(t)), tt.key)
			if got := m.Engine().Position(); got != tt.want {
				t.Errorf("position = %+v, want %+v", got, tt.want)
			}
			if m.LastOutcome() != engine.OutcomeMoved {
				t.Errorf("outcome = %s, want moved", m.LastOutcome())
			}
		})
	}
}

func TestModel_BlockedMove(t *testing.T) {
	m := press(t, NewModel(newTestEngine(t)), tea.KeyMsg{Type: tea.KeyUp})

	if m.LastOutcome() != engine.OutcomeBlocked {
		t.Fatalf("outcome = %s, want blocked", m.LastOutcome())
	}
	if m.Engine().MovesUsed() != 0 {
		t.Errorf("blocked move spent budget: %d", m.Engine().MovesUsed())
	}
	if !strings.Contains(m.View(), "blocked") {
		t.Error("view should mention the blocked move")
	}
}

func TestModel_WinRecordsOnce(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(newTestEngine(t), WithRecorder(rec), WithSessionID("tty"))

	m = press(t, m, runes("d"), runes("d"))
	if !m.Engine().IsWon() {
		t.Fatal("expected the run to be won")
	}
	if !m.Recorded() {
		t.Error("finished run should be marked recorded")
	}

	m = press(t, m, runes("a"))
	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(rec.results))
	}
	got := rec.results[0]
	if got.SessionID != "tty" || got.Level != "terminal_test" || !got.Won || got.Delivered != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
	if !strings.Contains(m.View(), "Every gift delivered") {
		t.Error("view should show the victory banner")
	}
}

func TestModel_RecordsLevelID(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(newTestEngine(t), WithRecorder(rec), WithLevelID("tiny_file"))

	press(t, m, runes("d"), runes("d"))
	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(rec.results))
	}
	if got := rec.results[0].Level; got != "tiny_file" {
		t.Errorf("recorded level %q, want tiny_file", got)
	}
}

func TestModel_RecorderErrorIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	m := press(t, NewModel(newTestEngine(t), WithRecorder(rec)), runes("d"), runes("d"))

	if !m.Recorded() || len(rec.results) != 1 {
		t.Errorf("recorder should have been called once, got %d", len(rec.results))
	}
}

func TestModel_Reset(t *testing.T) {
	m := press(t, NewModel(newTestEngine(t)), runes("d"), runes("d"), runes("r"))

	if m.Engine().IsOver() {
		t.Error("reset should start a fresh run")
	}
	if m.Recorded() {
		t.Error("reset should clear the recorded flag")
	}
	if got := m.Engine().Position(); got != (engine.Position{Row: 1, Col: 1}) {
		t.Errorf("position after reset = %+v", got)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		next, cmd := NewModel(newTestEngine(t)).Update(k)
		m := next.(Model)
		if !m.IsQuitting() {
			t.Errorf("%s should quit", k.String())
		}
		if cmd == nil {
			t.Errorf("%s should return tea.Quit", k.String())
		}
		if m.View() != "" {
			t.Error("view should be empty after quitting")
		}
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(newTestEngine(t))
	view := m.View()

	for _, want := range []string{"GIFT RUN - terminal_test", "@", "Moves     10/10", "Delivered 0/1", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderLog_NewestFirst(t *testing.T) {
	e := newTestEngine(t)
	e.Step(engine.East)
	history := e.Snapshot().History
	if len(history) < 2 {
		t.Fatalf("expected at least two log entries, got %d", len(history))
	}

	lines := strings.Split(renderLog(history), "\n")
	newest := history[0].Message
	if !strings.Contains(lines[0], newest) {
		t.Errorf("first line %q should hold newest entry %q", lines[0], newest)
	}
}
