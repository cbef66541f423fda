package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pinball/internal/field"
	"github.com/vovakirdan/tui-pinball/internal/session"
)

var (
	scoreStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	recordStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	buttonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	toggleOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 1)
)

// statusLine renders score, ball, table and frame rate on one row.
func statusLine(d session.Display, res field.Resolver, width int) string {
	left := scoreStyle.Render(fmt.Sprintf("%s %d", res.Resolve("score"), d.State.Score))
	if d.State.IsInProgress() {
		ball := res.Resolve("ball_number", d.State.Ball)
		if d.State.UnlimitedBalls {
			ball = res.Resolve("unlimited_balls")
		} else if d.State.TotalBalls > 0 {
			ball = fmt.Sprintf("%s/%d", ball, d.State.TotalBalls)
		}
		left += "  " + ball
	}

	right := dimStyle.Render(res.Resolve("table", d.Level, d.Levels, d.TableName))
	if d.ShowFPS {
		right += "  " + dimStyle.Render(res.Resolve("fps", d.FPS))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// panelLine renders the control panel buttons and the high scores. Empty
// while a game is running.
func panelLine(d session.Display, res field.Resolver, keys KeyMap) string {
	if !d.Panel.Visible {
		return ""
	}

	var parts []string
	button := func(label string, k string) {
		parts = append(parts, buttonStyle.Render(label+" ["+k+"]"))
	}

	if d.State.IsPaused() {
		button(res.Resolve("resume"), keys.Pause.Help().Key)
	} else {
		button(res.Resolve("start_game"), keys.Start.Help().Key)
	}
	if d.Panel.EndGame {
		button(res.Resolve("end_game"), keys.EndGame.Help().Key)
	}
	if d.Panel.SwitchTable {
		button(res.Resolve("switch_table"), keys.SwitchTable.Help().Key)
	}
	if d.Panel.Unlimited {
		label := res.Resolve("unlimited_balls") + " [" + keys.ToggleUnlimited.Help().Key + "]"
		if d.Unlimited {
			parts = append(parts, buttonStyle.Render("✓ "+label))
		} else {
			parts = append(parts, toggleOffStyle.Render(label))
		}
	}

	if !d.State.IsInProgress() {
		parts = append(parts, highScores(d, res))
	}
	return strings.Join(parts, " ")
}

func highScores(d session.Display, res field.Resolver) string {
	if d.NewHighScore > 0 {
		return recordStyle.Render(res.Resolve("new_high_score", d.NewHighScore))
	}
	return dimStyle.Render(res.Resolve("high_scores") + ": " + formatList(d.HighScores))
}
