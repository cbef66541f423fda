package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
)

// CellRenderer draws straight onto a tcell screen. The bottom reserved
// rows are left to the host for its status line.
type CellRenderer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	buf      *core.Screen
	proj     Projector
	reserved int
	active   bool
}

// NewCell creates a renderer for screen, leaving reserved rows free.
func NewCell(screen tcell.Screen, reserved int) *CellRenderer {
	return &CellRenderer{
		screen:   screen,
		buf:      core.NewScreen(0, 0),
		proj:     Projector{Zoom: 1},
		reserved: reserved,
	}
}

// Name returns the registry name.
func (r *CellRenderer) Name() string { return NameCell }

// Activate allows drawing.
func (r *CellRenderer) Activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
}

// Deactivate stops drawing.
func (r *CellRenderer) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
}

// SetZoom sets the magnification.
func (r *CellRenderer) SetZoom(zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proj.Zoom = zoom
}

// Draw projects snap and pushes the changed cells to the terminal.
func (r *CellRenderer) Draw(snap field.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return ErrNotActive
	}

	w, h := r.screen.Size()
	h -= r.reserved
	if h < 0 {
		h = 0
	}
	if w != r.buf.Width() || h != r.buf.Height() {
		r.buf.Resize(w, h)
	}
	r.proj.Project(snap, r.buf)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := r.buf.Get(x, y)
			r.screen.SetContent(x, y, c.Rune, nil, CellStyle(c.Color))
		}
	}
	r.screen.Show()
	return nil
}

// CellStyle converts a core.Color to a tcell style.
func CellStyle(c core.Color) tcell.Style {
	n := c.ANSI()
	if n < 0 {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.PaletteColor(n))
}
