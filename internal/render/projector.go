package render

import (
	"math"

	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
)

// Glyphs used for table bodies.
const (
	GlyphBall     = '●'
	GlyphBumper   = 'o'
	GlyphWall     = '#'
	GlyphFlipper  = '='
	GlyphLauncher = '^'
)

// cellAspect is how many columns make up the height of one row.
const cellAspect = 2.0

// Projector maps table units onto a cell screen. Terminal cells are about
// twice as tall as wide, so one table unit is one column but half a row.
type Projector struct {
	// Zoom above 1 magnifies the table and follows the first ball.
	Zoom float64
}

type view struct {
	scale  float64 // Columns per table unit
	center core.Vec
	w, h   int
}

func (v view) toCell(p core.Vec) (int, int) {
	x := (p.X-v.center.X)*v.scale + float64(v.w)/2
	y := (p.Y-v.center.Y)*v.scale/cellAspect + float64(v.h)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

// Project draws snap onto dst. dst is cleared first.
func (p Projector) Project(snap field.Snapshot, dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w == 0 || h == 0 || snap.Size.X <= 0 || snap.Size.Y <= 0 {
		return
	}

	zoom := p.Zoom
	if zoom < 1 {
		zoom = 1
	}
	scale := math.Min(float64(w)/snap.Size.X, float64(h)*cellAspect/snap.Size.Y) * zoom
	v := view{scale: scale, center: snap.Size.Scale(0.5), w: w, h: h}
	if zoom > 1 {
		v.center = followBall(snap, v)
	}

	for _, b := range snap.Bodies {
		switch b.Kind {
		case field.BodyWall:
			drawSegment(dst, v, b.Pos, b.End, GlyphWall, core.ColorGray)
		case field.BodyFlipper:
			c := core.ColorYellow
			if b.Lit {
				c = core.ColorBrightYellow
			}
			drawSegment(dst, v, b.Pos, b.End, GlyphFlipper, c)
		case field.BodyBumper:
			c := core.ColorRed
			if b.Lit {
				c = core.ColorBrightRed
			}
			drawDisc(dst, v, b.Pos, b.Radius, GlyphBumper, c)
		case field.BodyLauncher:
			x, y := v.toCell(b.Pos)
			dst.Set(x, y, GlyphLauncher, core.ColorCyan)
		}
	}
	// Balls last so they are never hidden.
	for _, b := range snap.Bodies {
		if b.Kind == field.BodyBall {
			x, y := v.toCell(b.Pos)
			dst.Set(x, y, GlyphBall, core.ColorBrightWhite)
		}
	}

	if snap.Message != "" {
		dst.DrawTextCentered(h/3, snap.Message, core.ColorBrightCyan)
	}
}

// followBall centers the view on the first ball, kept inside the table.
func followBall(snap field.Snapshot, v view) core.Vec {
	center := v.center
	for _, b := range snap.Bodies {
		if b.Kind == field.BodyBall {
			center = b.Pos
			break
		}
	}
	halfW := float64(v.w) / 2 / v.scale
	halfH := float64(v.h) / 2 * cellAspect / v.scale
	center.X = clampCenter(center.X, halfW, snap.Size.X)
	center.Y = clampCenter(center.Y, halfH, snap.Size.Y)
	return center
}

func clampCenter(c, half, size float64) float64 {
	if 2*half >= size {
		return size / 2
	}
	return core.ClampF(c, half, size-half)
}

func drawSegment(dst *core.Screen, v view, a, b core.Vec, r rune, c core.Color) {
	x0, y0 := v.toCell(a)
	x1, y1 := v.toCell(b)
	n := core.Max(abs(x1-x0), abs(y1-y0))
	if n == 0 {
		dst.Set(x0, y0, r, c)
		return
	}
	for i := 0; i <= n; i++ {
		p := a.Add(b.Sub(a).Scale(float64(i) / float64(n)))
		x, y := v.toCell(p)
		dst.Set(x, y, r, c)
	}
}

func drawDisc(dst *core.Screen, v view, center core.Vec, radius float64, r rune, c core.Color) {
	cx, cy := v.toCell(center)
	rx := int(math.Ceil(radius * v.scale))
	ry := int(math.Ceil(radius * v.scale / cellAspect))
	for y := cy - ry; y <= cy+ry; y++ {
		for x := cx - rx; x <= cx+rx; x++ {
			dx := float64(x-cx) / v.scale
			dy := float64(y-cy) * cellAspect / v.scale
			if dx*dx+dy*dy <= radius*radius {
				dst.Set(x, y, r, c)
			}
		}
	}
	dst.Set(cx, cy, r, c)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
