package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pinball/internal/scores"
	"github.com/vovakirdan/tui-pinball/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the table list sidebar
	sidebarWidth       = 22
	maxGames           = 50 // Recent games loaded per table
)

// ScoreSource is what the scoreboard reads.
type ScoreSource interface {
	scores.Backend
	RecentGames(level, limit int) ([]storage.GameRecord, error)
	LevelStats(level int) (*storage.LevelStats, error)
}

// TableNames lists the tables by level.
type TableNames interface {
	NumberOfLevels() int
	Name(level int) string
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextTable key.Binding
	PrevTable key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTable, k.PrevTable, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.NextTable, k.PrevTable}, {k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTable: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next table"),
		),
		PrevTable: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev table"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the high scores and recent games of each table.
type ScoreboardModel struct {
	source      ScoreSource
	tables      TableNames
	ledger      *scores.Ledger
	level       int // 1-based
	highScores  scores.List
	stats       *storage.LevelStats
	games       []storage.GameRecord
	err         error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoreboardModel creates a scoreboard opened on level.
func NewScoreboardModel(source ScoreSource, tables TableNames, level, width, height int) ScoreboardModel {
	if level < 1 || level > tables.NumberOfLevels() {
		level = 1
	}
	m := ScoreboardModel{
		source:      source,
		tables:      tables,
		ledger:      scores.NewLedger(source),
		level:       level,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Score", Width: 10},
		{Title: "Balls", Width: 9},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)), // Title, high scores, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads everything shown for the current level.
func (m *ScoreboardModel) load() {
	m.err = nil
	list, err := m.ledger.Load(m.level)
	m.highScores = list
	if err != nil {
		m.err = err
	}

	m.stats, err = m.source.LevelStats(m.level)
	if err != nil {
		m.err = err
	}
	m.games, err = m.source.RecentGames(m.level, maxGames)
	if err != nil {
		m.err = err
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.games))
	for i, g := range m.games {
		balls := "limited"
		if g.Unlimited {
			balls = "unlimited"
		}
		rows[i] = table.Row{
			strconv.FormatInt(g.Score, 10),
			balls,
			g.Duration.Round(time.Second).String(),
			g.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := m.tables.NumberOfLevels()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTable):
			m.level = m.level%n + 1
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevTable):
			m.level--
			if m.level < 1 {
				m.level = n
			}
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Level returns the table being shown.
func (m ScoreboardModel) Level() int {
	return m.level
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("HIGH SCORES - %s", m.tables.Name(m.level))
	b.WriteString(scoreStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderMain()))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %d/%d >", m.level, m.tables.NumberOfLevels()), m.width))
		b.WriteString("\n\n")
		b.WriteString(m.renderMain())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderSidebar() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Tables\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for level := 1; level <= m.tables.NumberOfLevels(); level++ {
		cursor := "  "
		line := lipgloss.NewStyle()
		if level == m.level {
			cursor = "> "
			line = line.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := m.tables.Name(level)
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(line.Render(cursor + name))
		sb.WriteString("\n")
	}
	return style.Render(sb.String())
}

func (m ScoreboardModel) renderMain() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(recordStyle.Render("Best: " + formatList(m.highScores)))
	b.WriteString("\n")
	if m.stats != nil && m.stats.GamesCount > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d games, average %.0f, last played %s",
			m.stats.GamesCount, m.stats.AvgScore, m.stats.LastPlayed.Local().Format("Jan 02 15:04"))))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.games) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2).
			Render("No games recorded yet.\nPlay a game to set a high score!"))
	} else {
		b.WriteString(m.table.View())
	}
	return box.Render(b.String())
}

func formatList(l scores.List) string {
	vals := make([]string, len(l))
	for i, v := range l {
		vals[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(vals, "  ")
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(source ScoreSource, tables TableNames, level, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(source, tables, level, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
