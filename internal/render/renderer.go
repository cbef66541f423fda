// Package render hands field snapshots to exactly one active renderer.
package render

import (
	"errors"

	"github.com/vovakirdan/tui-pinball/internal/field"
)

// ErrNotActive is returned by a renderer asked to draw while inactive.
var ErrNotActive = errors.New("render: renderer is not active")

// Renderer is a drawing back-end. Activate and Deactivate bracket the
// period during which Draw may be called.
type Renderer interface {
	Name() string
	Activate()
	Deactivate()
	Draw(snap field.Snapshot) error
}

// Zoomer is implemented by renderers whose view can be magnified.
type Zoomer interface {
	SetZoom(zoom float64)
}

// Framer is implemented by renderers that keep the last frame as text for
// hosts that pull frames.
type Framer interface {
	Frame() string
}
