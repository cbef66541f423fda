package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
	"github.com/vovakirdan/tui-pinball/internal/messages"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/session"
	"github.com/vovakirdan/tui-pinball/internal/storage"
	"github.com/vovakirdan/tui-pinball/internal/tables"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{runes("z"), core.ActionLeftFlipper},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeftFlipper},
		{runes("m"), core.ActionRightFlipper},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRightFlipper},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionLaunch},
		{runes("n"), core.ActionNudge},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{runes("p"), core.ActionPause},
		{runes("e"), core.ActionEndGame},
		{runes("t"), core.ActionSwitchTable},
		{runes("u"), core.ActionToggleUnlimited},
		{runes("v"), core.ActionToggleRenderer},
		{runes("f"), core.ActionToggleFPS},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("?"), core.ActionNone},
		{runes("x"), core.ActionNone},
	}

	for _, tt := range tests {
		if got := keys.Action(tt.msg); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func newTestModel(t *testing.T) (Model, *session.Session, []*render.FrameRenderer) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "pinball.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	src, err := tables.Embedded()
	if err != nil {
		t.Fatalf("Embedded() failed: %v", err)
	}

	cfg := config.Default()
	frames := NewFrameRenderers(60, 30)
	sess, err := session.New(session.Options{
		Config:    cfg,
		Tables:    src,
		Store:     store,
		Messages:  messages.Default(),
		Renderers: Renderers(frames),
	})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	t.Cleanup(sess.Close)

	return NewModel(sess, cfg, frames), sess, frames
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return nm, cmd
}

func TestModelResizesFrames(t *testing.T) {
	m, sess, frames := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 24})

	if err := sess.Dispatcher().Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	lines := strings.Split(frames[0].Frame(), "\n")
	if len(lines) != m.tableHeight() {
		t.Errorf("frame has %d rows, want %d", len(lines), m.tableHeight())
	}
	if m.tableHeight() >= 24 {
		t.Errorf("tableHeight() = %d, want room for the HUD", m.tableHeight())
	}
}

func TestModelHelpShrinksTable(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	short := m.tableHeight()

	m, _ = update(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Fatal("expected full help after ?")
	}
	if m.tableHeight() >= short {
		t.Errorf("tableHeight() = %d with full help, want less than %d", m.tableHeight(), short)
	}
}

func TestModelStartAndQuit(t *testing.T) {
	m, sess, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.display.State.State != field.InProgress {
		t.Fatalf("state after enter = %v, want in-progress", m.display.State.State)
	}

	// Escape pauses rather than leaving.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.quitting {
		t.Fatal("esc during a game should pause, not quit")
	}
	if !sess.Field().GameState().IsPaused() {
		t.Fatal("expected the game to be paused")
	}

	m, cmd = update(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("quit command produced %T", cmd())
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelStopsPollingAfterQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, runes("q"))
	if _, cmd := update(t, m, pollMsg{}); cmd != nil {
		t.Error("poll rescheduled after quit")
	}
	if _, cmd := update(t, m, frameMsg{}); cmd != nil {
		t.Error("frame rescheduled after quit")
	}
}

func TestViewShowsPanelAndTable(t *testing.T) {
	m, sess, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if err := sess.Dispatcher().Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	view := m.View()
	for _, want := range []string{"Start game [enter]", "Switch table [t]", "Table 1/3: Classic", "High scores"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if !strings.ContainsRune(view, render.GlyphWall) {
		t.Error("View() should contain the table")
	}
}
