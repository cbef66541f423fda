package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
)

// Renderer names.
const (
	NameStyled = "styled"
	NamePlain  = "plain"
	NameCell   = "cell"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = func() map[core.Color]lipgloss.Style {
	m := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c := core.ColorRed; c <= core.ColorGray; c++ {
		m[c] = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(c.ANSI()))
	}
	return m
}()

// StyledString converts a Screen buffer to an ANSI-colored string.
// Groups adjacent cells with the same color to minimize escape sequences.
func StyledString(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.Get(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.Get(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// FrameRenderer projects snapshots into a text frame the host pulls with
// Frame. The styled and plain renderers only differ in how the cell buffer
// is turned into text.
type FrameRenderer struct {
	name  string
	flush func(*core.Screen) string

	mu     sync.Mutex
	active bool
	screen *core.Screen
	proj   Projector
	frame  string
	frames uint64
}

// NewStyled returns the lipgloss-colored renderer.
func NewStyled(width, height int) *FrameRenderer {
	return newFrameRenderer(NameStyled, width, height, StyledString)
}

// NewPlain returns the uncolored fallback renderer.
func NewPlain(width, height int) *FrameRenderer {
	return newFrameRenderer(NamePlain, width, height, (*core.Screen).String)
}

func newFrameRenderer(name string, w, h int, flush func(*core.Screen) string) *FrameRenderer {
	return &FrameRenderer{
		name:   name,
		flush:  flush,
		screen: core.NewScreen(w, h),
		proj:   Projector{Zoom: 1},
	}
}

// Name returns the registry name.
func (r *FrameRenderer) Name() string { return r.name }

// Activate allows drawing.
func (r *FrameRenderer) Activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
}

// Deactivate stops drawing and drops the last frame.
func (r *FrameRenderer) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	r.frame = ""
}

// Draw projects snap and stores the resulting frame.
func (r *FrameRenderer) Draw(snap field.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return ErrNotActive
	}
	r.proj.Project(snap, r.screen)
	r.frame = r.flush(r.screen)
	r.frames++
	return nil
}

// Frame returns the last drawn frame.
func (r *FrameRenderer) Frame() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Frames returns how many frames were drawn.
func (r *FrameRenderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Resize changes the frame size in cells.
func (r *FrameRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width != r.screen.Width() || height != r.screen.Height() {
		r.screen.Resize(width, height)
	}
}

// SetZoom sets the magnification.
func (r *FrameRenderer) SetZoom(zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proj.Zoom = zoom
}
