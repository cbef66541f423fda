// Package physics is a small deterministic pinball engine: gravity, static
// walls, scoring bumpers, timed flippers, a plunger and a drain.
package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
)

// Defaults for layout keys that may be omitted.
const (
	DefaultGravity     = 40.0
	DefaultMaxSpeed    = 90.0
	DefaultBallRadius  = 0.7
	DefaultRestitution = 0.6
	DefaultLaunchSpeed = 75.0
	DefaultFlipperHold = 0.25 // seconds
	DefaultFlipSpeed   = 16.0 // rad/s
	DefaultNudge       = 6.0
	DefaultLitTime     = 0.2 // seconds
)

// World implements field.Engine.
type World struct {
	size        core.Vec
	gravity     float64
	maxSpeed    float64
	ballRadius  float64
	restitution float64
	flipSpeed   float64
	flipHold    float64
	nudge       float64
	drainY      float64

	launcher    core.Vec
	launchSpeed float64

	walls    []segment
	bumpers  []bumper
	flippers [2]*flipper // Indexed by field.Side
	balls    []*ball

	nudges int
}

// New returns an empty world. Load must be called before stepping.
func New() *World {
	return &World{}
}

// Load rebuilds every body from layout.
func (w *World) Load(l field.Layout) error {
	width, height := l.Float("width", 0), l.Float("height", 0)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("physics: table size %vx%v", width, height)
	}

	*w = World{
		size:        core.V(width, height),
		gravity:     l.Float("gravity", DefaultGravity),
		maxSpeed:    l.Float("maxSpeed", DefaultMaxSpeed),
		ballRadius:  l.Float("ballRadius", DefaultBallRadius),
		restitution: l.Float("restitution", DefaultRestitution),
		flipSpeed:   l.Float("flipSpeed", DefaultFlipSpeed),
		flipHold:    l.Float("flipperHold", DefaultFlipperHold),
		nudge:       l.Float("nudge", DefaultNudge),
		drainY:      l.Float("drainY", height),
	}

	// Outer frame: left, top and right. The bottom is the drain.
	w.walls = append(w.walls,
		segment{core.V(0, height), core.V(0, 0)},
		segment{core.V(0, 0), core.V(width, 0)},
		segment{core.V(width, 0), core.V(width, height)},
	)
	for _, s := range l.List("walls") {
		w.walls = append(w.walls, segment{
			a: core.V(s.Float("x1", 0), s.Float("y1", 0)),
			b: core.V(s.Float("x2", 0), s.Float("y2", 0)),
		})
	}

	for _, b := range l.List("bumpers") {
		w.bumpers = append(w.bumpers, bumper{
			pos:    core.V(b.Float("x", 0), b.Float("y", 0)),
			radius: b.Float("radius", 2),
			points: int64(b.Int("points", 100)),
			kick:   b.Float("kick", 10),
		})
	}

	for _, f := range l.List("flippers") {
		side := field.SideLeft
		if f.String("side", "left") == "right" {
			side = field.SideRight
		}
		rest := f.Float("restAngle", 30) * math.Pi / 180
		w.flippers[side] = &flipper{
			pivot:  core.V(f.Float("x", 0), f.Float("y", 0)),
			length: f.Float("length", 6),
			rest:   rest,
			up:     f.Float("upAngle", -30) * math.Pi / 180,
			angle:  rest,
		}
	}

	launcher := l.Map("launcher")
	w.launcher = core.V(launcher.Float("x", width-1.5), launcher.Float("y", height-3))
	w.launchSpeed = launcher.Float("speed", DefaultLaunchSpeed)
	return nil
}

// ServeBall puts a new ball on the plunger.
func (w *World) ServeBall() {
	w.balls = append(w.balls, &ball{pos: w.launcher, radius: w.ballRadius, held: true})
}

// Launch fires every ball held on the plunger or resting at it.
func (w *World) Launch() {
	for _, b := range w.balls {
		resting := b.pos.Sub(w.launcher).Len() < 2*b.radius+1 && b.vel.Len() < 5
		if b.held || resting {
			b.held = false
			b.vel = core.V(0, -w.launchSpeed)
		}
	}
}

// Flip raises or drops one flipper.
func (w *World) Flip(side field.Side, active bool) {
	if int(side) < 0 || int(side) >= len(w.flippers) || w.flippers[side] == nil {
		return
	}
	if active {
		w.flippers[side].hold = w.flipHold
	} else {
		w.flippers[side].hold = 0
	}
}

// Nudge shoves free balls sideways, alternating direction, and slightly up.
func (w *World) Nudge() {
	dir := 1.0
	if w.nudges%2 == 1 {
		dir = -1
	}
	w.nudges++
	for _, b := range w.balls {
		if !b.held {
			b.vel = b.vel.Add(core.V(dir*w.nudge, -w.nudge/2))
		}
	}
}

// Step integrates dt seconds. Fast balls are moved in several sub-steps so
// they cannot pass through thin walls.
func (w *World) Step(dt float64) field.Events {
	var ev field.Events
	if dt <= 0 {
		return ev
	}

	for i := range w.bumpers {
		if w.bumpers[i].lit > 0 {
			w.bumpers[i].lit = math.Max(0, w.bumpers[i].lit-dt)
		}
	}
	for _, f := range w.flippers {
		if f != nil {
			f.advance(dt, w.flipSpeed)
		}
	}

	kept := w.balls[:0]
	for _, b := range w.balls {
		if w.moveBall(b, dt, &ev) {
			kept = append(kept, b)
		} else {
			ev.BallsLost++
		}
	}
	for i := len(kept); i < len(w.balls); i++ {
		w.balls[i] = nil
	}
	w.balls = kept
	return ev
}

// moveBall advances one ball. Returns false when it drained.
func (w *World) moveBall(b *ball, dt float64, ev *field.Events) bool {
	if b.held {
		return true
	}
	b.vel = clampSpeed(b.vel.Add(core.V(0, w.gravity*dt)), w.maxSpeed)

	n := int(math.Ceil(b.vel.Len() * dt / (b.radius * 0.5)))
	n = core.Clamp(n, 1, 32)
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		b.pos = b.pos.Add(b.vel.Scale(h))
		w.collide(b, ev)
		if b.pos.Y-b.radius > w.drainY {
			return false
		}
	}
	b.vel = clampSpeed(b.vel, w.maxSpeed)
	return true
}

func (w *World) collide(b *ball, ev *field.Events) {
	for _, s := range w.walls {
		bounce(b, closestOnSegment(b.pos, s.a, s.b), core.Vec{}, w.restitution)
	}
	for _, f := range w.flippers {
		if f == nil {
			continue
		}
		c := closestOnSegment(b.pos, f.pivot, f.tip())
		bounce(b, c, f.surfaceVelocity(c), w.restitution)
	}
	for i := range w.bumpers {
		bp := &w.bumpers[i]
		if hitBumper(b, bp) {
			ev.Points += bp.points
			ev.BumperHits++
			bp.lit = DefaultLitTime
		}
	}
}

// Bodies returns render descriptors for everything on the table.
func (w *World) Bodies() []field.Body {
	out := make([]field.Body, 0, len(w.walls)+len(w.bumpers)+len(w.balls)+3)
	for _, s := range w.walls {
		out = append(out, field.Body{Kind: field.BodyWall, Pos: s.a, End: s.b})
	}
	for _, bp := range w.bumpers {
		out = append(out, field.Body{Kind: field.BodyBumper, Pos: bp.pos, Radius: bp.radius, Lit: bp.lit > 0})
	}
	for _, f := range w.flippers {
		if f != nil {
			out = append(out, field.Body{Kind: field.BodyFlipper, Pos: f.pivot, End: f.tip(), Lit: f.hold > 0})
		}
	}
	out = append(out, field.Body{Kind: field.BodyLauncher, Pos: w.launcher})
	for _, b := range w.balls {
		out = append(out, field.Body{Kind: field.BodyBall, Pos: b.pos, Radius: b.radius})
	}
	return out
}

// Size returns the table dimensions.
func (w *World) Size() core.Vec {
	return w.size
}

// Balls returns the number of balls on the table.
func (w *World) Balls() int {
	return len(w.balls)
}
