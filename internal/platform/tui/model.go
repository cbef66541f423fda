package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/session"
	"github.com/vovakirdan/tui-pinball/internal/storage"
)

// statusRows is the HUD height above the help footer.
const statusRows = 2

// Model is the Bubble Tea model for a pinball session. The tick driver
// draws into frame renderers on its own goroutine; the model pulls the
// latest frame at the tick rate and polls the session for the HUD.
type Model struct {
	sess     *session.Session
	frames   []*render.FrameRenderer
	config   config.Config
	keys     KeyMap
	help     help.Model
	display  session.Display
	width    int
	height   int
	quitting bool
}

// NewFrameRenderers returns the styled and plain renderers sized for the
// table area of a width x height terminal.
func NewFrameRenderers(width, height int) []*render.FrameRenderer {
	h := max(height-statusRows-1, 1)
	return []*render.FrameRenderer{
		render.NewStyled(width, h),
		render.NewPlain(width, h),
	}
}

// Renderers adapts frame renderers for session.Options.
func Renderers(frames []*render.FrameRenderer) []render.Renderer {
	out := make([]render.Renderer, len(frames))
	for i, f := range frames {
		out[i] = f
	}
	return out
}

// NewModel creates a model over a session built with frames.
func NewModel(sess *session.Session, cfg config.Config, frames []*render.FrameRenderer) Model {
	return Model{
		sess:    sess,
		frames:  frames,
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		display: sess.Poll(),
	}
}

// Init starts the frame and poll loops.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.config.TickRate), pollCmd(m.config.PollInterval()))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.FocusMsg:
		m.sess.FocusChanged(true)
		m.display = m.sess.Poll()
		return m, nil

	case tea.BlurMsg:
		m.sess.FocusChanged(false)
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		return m, frameCmd(m.config.TickRate)

	case pollMsg:
		if m.quitting {
			return m, nil
		}
		m.display = m.sess.Poll()
		return m, pollCmd(m.config.PollInterval())
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if m.sess.Handle(m.keys.Action(msg)) {
		m.quitting = true
		return m, tea.Quit
	}
	m.display = m.sess.Poll()
	return m, nil
}

// tableHeight is what is left for the table below the HUD and help.
func (m Model) tableHeight() int {
	return max(m.height-statusRows-lipgloss.Height(m.help.View(m.keys)), 1)
}

func (m Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.tableHeight()
	for _, f := range m.frames {
		f.Resize(m.width, h)
	}
}

// saveScreenshot writes the table as plain text next to the database.
func (m Model) saveScreenshot() {
	dir, err := storage.ExpandHome(filepath.Join(filepath.Dir(m.config.DBPath), "screenshots"))
	if err != nil {
		return
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	screen := core.NewScreen(max(m.width, 40), m.tableHeight())
	render.Projector{Zoom: m.sess.Preferences().Zoom}.Project(m.sess.Field().Snapshot(), screen)

	name := fmt.Sprintf("table%d_%s.txt", m.display.Level, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(screen.String()), 0o600)
}

// View renders the current frame, the HUD and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	frame := ""
	if f, ok := m.sess.Dispatcher().Active().(render.Framer); ok {
		frame = f.Frame()
	}
	table := lipgloss.NewStyle().Height(m.tableHeight()).MaxHeight(m.tableHeight()).Render(frame)

	return lipgloss.JoinVertical(lipgloss.Left,
		table,
		statusLine(m.display, m.sess, m.width),
		panelLine(m.display, m.sess, m.keys),
		dimStyle.Render(m.help.View(m.keys)),
	)
}

// Run plays sess in the current terminal until the user quits.
// The session is closed on return.
func Run(sess *session.Session, cfg config.Config, frames []*render.FrameRenderer) error {
	sess.Start()
	defer sess.Close()

	p := tea.NewProgram(
		NewModel(sess, cfg, frames),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
