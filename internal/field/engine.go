package field

import "github.com/vovakirdan/tui-pinball/internal/core"

// BodyKind identifies what a body is so renderers can pick a glyph.
type BodyKind int

const (
	BodyBall BodyKind = iota
	BodyBumper
	BodyFlipper
	BodyWall
	BodyLauncher
)

// Body is a render descriptor for one simulated object.
// The field never inspects bodies; it only hands copies to renderers.
type Body struct {
	Kind   BodyKind
	Pos    core.Vec
	End    core.Vec // Second end point for segments (walls, flippers)
	Radius float64
	Lit    bool // Recently hit bumper or raised flipper
}

// Side selects a flipper.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Events reports what happened during one engine step.
type Events struct {
	Points     int64
	BallsLost  int
	BumperHits int
}

// Engine is the physics collaborator owned by the field.
// All calls are made with the field lock held, so implementations need no
// locking of their own.
type Engine interface {
	// Load discards all bodies and rebuilds them from the layout.
	Load(layout Layout) error
	// Step integrates dt seconds of simulated time.
	Step(dt float64) Events
	// ServeBall places a new ball at the launcher.
	ServeBall()
	// Launch fires the plunger if a ball is waiting on it.
	Launch()
	// Flip raises (active) or drops a flipper. A raised flipper drops by
	// itself after the engine's hold time, since terminals report no key-up.
	Flip(side Side, active bool)
	// Nudge bumps the table.
	Nudge()
	// Bodies returns a copy of all bodies for drawing.
	Bodies() []Body
	// Size returns the table dimensions in table units.
	Size() core.Vec
}

// Resolver maps a message key and parameters to display text.
type Resolver interface {
	Resolve(key string, params ...any) string
}

// Sounds receives fire-and-forget notifications for engine events.
type Sounds interface {
	PlayBumper()
}
