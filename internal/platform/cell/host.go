// Package cell hosts a pinball session directly on a tcell screen.
package cell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-pinball/internal/config"
	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/render"
	"github.com/vovakirdan/tui-pinball/internal/session"
)

// HUDRows is how many bottom rows the host keeps for its status lines.
const HUDRows = 2

var (
	scoreStyle  = tcell.StyleDefault.Bold(true).Foreground(tcell.PaletteColor(229))
	dimStyle    = tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	buttonStyle = tcell.StyleDefault.Foreground(tcell.PaletteColor(229)).Background(tcell.PaletteColor(57))
	recordStyle = tcell.StyleDefault.Bold(true).Foreground(tcell.PaletteColor(10))
)

// NewRenderer returns the cell renderer for screen, leaving the HUD rows free.
func NewRenderer(screen tcell.Screen) *render.CellRenderer {
	return render.NewCell(screen, HUDRows)
}

// Action maps a key event to a table action.
func Action(ev *tcell.EventKey) core.Action {
	switch ev.Key() {
	case tcell.KeyLeft:
		return core.ActionLeftFlipper
	case tcell.KeyRight:
		return core.ActionRightFlipper
	case tcell.KeyDown:
		return core.ActionLaunch
	case tcell.KeyUp:
		return core.ActionNudge
	case tcell.KeyEnter:
		return core.ActionStart
	case tcell.KeyTab:
		return core.ActionSwitchTable
	case tcell.KeyEscape:
		return core.ActionBack
	case tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyRune:
	default:
		return core.ActionNone
	}

	switch ev.Rune() {
	case 'z':
		return core.ActionLeftFlipper
	case 'm':
		return core.ActionRightFlipper
	case ' ':
		return core.ActionLaunch
	case 'n':
		return core.ActionNudge
	case 'p':
		return core.ActionPause
	case 'e':
		return core.ActionEndGame
	case 't':
		return core.ActionSwitchTable
	case 'u':
		return core.ActionToggleUnlimited
	case 'v':
		return core.ActionToggleRenderer
	case 'f':
		return core.ActionToggleFPS
	case 'b':
		return core.ActionBack
	case 'q':
		return core.ActionQuit
	}
	return core.ActionNone
}

type host struct {
	screen tcell.Screen
	sess   *session.Session
	cfg    config.Config
}

// Run plays sess on an initialized screen until the user quits. The
// session is started here and closed on return; the caller finalizes the
// screen.
func Run(screen tcell.Screen, sess *session.Session, cfg config.Config) error {
	h := &host{screen: screen, sess: sess, cfg: cfg}
	screen.EnableFocus()
	screen.Clear()

	sess.Start()
	defer sess.Close()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	h.refresh()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if h.handle(ev) {
				return nil
			}
		case <-ticker.C:
			h.refresh()
		}
	}
}

// handle reacts to one event and reports whether to exit.
func (h *host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventFocus:
		h.sess.FocusChanged(ev.Focused)
	case *tcell.EventKey:
		if h.sess.Handle(Action(ev)) {
			return true
		}
	default:
		return false
	}
	h.refresh()
	return false
}

// refresh polls the session and redraws the HUD rows.
func (h *host) refresh() {
	d := h.sess.Poll()
	w, ht := h.screen.Size()
	status, panel := ht-2, ht-1

	h.clearRow(status, w)
	h.clearRow(panel, w)

	x := h.text(0, status, fmt.Sprintf("%s %d", h.sess.Resolve("score"), d.State.Score), scoreStyle)
	if d.State.IsInProgress() {
		ball := h.sess.Resolve("ball_number", d.State.Ball)
		if d.State.UnlimitedBalls {
			ball = h.sess.Resolve("unlimited_balls")
		}
		h.text(x+2, status, ball, tcell.StyleDefault)
	}
	right := h.sess.Resolve("table", d.Level, d.Levels, d.TableName)
	if d.ShowFPS {
		right += "  " + h.sess.Resolve("fps", d.FPS)
	}
	h.text(w-len([]rune(right)), status, right, dimStyle)

	if d.Panel.Visible {
		x = 0
		button := func(label, k string) {
			x = h.text(x, panel, " "+label+" ["+k+"] ", buttonStyle) + 1
		}
		if d.State.IsPaused() {
			button(h.sess.Resolve("resume"), "p")
		} else {
			button(h.sess.Resolve("start_game"), "enter")
		}
		if d.Panel.EndGame {
			button(h.sess.Resolve("end_game"), "e")
		}
		if d.Panel.SwitchTable {
			button(h.sess.Resolve("switch_table"), "t")
		}
		if d.Panel.Unlimited {
			mark := " "
			if d.Unlimited {
				mark = "x"
			}
			button("["+mark+"] "+h.sess.Resolve("unlimited_balls"), "u")
		}
		if !d.State.IsInProgress() {
			if d.NewHighScore > 0 {
				h.text(x, panel, h.sess.Resolve("new_high_score", d.NewHighScore), recordStyle)
			} else {
				vals := make([]string, len(d.HighScores))
				for i, v := range d.HighScores {
					vals[i] = strconv.FormatInt(v, 10)
				}
				h.text(x, panel, h.sess.Resolve("high_scores")+": "+strings.Join(vals, " "), dimStyle)
			}
		}
	}
	h.screen.Show()
}

func (h *host) clearRow(y, w int) {
	for x := 0; x < w; x++ {
		h.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

// text draws s at (x, y) and returns the column after it.
func (h *host) text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
