package physics

import (
	"math"

	"github.com/vovakirdan/tui-pinball/internal/core"
)

// ball is a moving disc.
type ball struct {
	pos, vel core.Vec
	radius   float64
	held     bool // Resting on the plunger, gravity off
}

// segment is a static line obstacle.
type segment struct {
	a, b core.Vec
}

// bumper is a round kicker that scores when hit.
type bumper struct {
	pos    core.Vec
	radius float64
	points int64
	kick   float64
	lit    float64 // Seconds left to show as lit
}

// flipper rotates around pivot between rest and up angles (radians).
type flipper struct {
	pivot  core.Vec
	length float64
	rest   float64
	up     float64
	angle  float64
	omega  float64 // Current angular velocity, rad/s
	hold   float64 // Seconds left to stay raised
}

func (f *flipper) tip() core.Vec {
	return f.pivot.Add(core.V(math.Cos(f.angle), math.Sin(f.angle)).Scale(f.length))
}

// surfaceVelocity is the velocity of the flipper surface at point p.
func (f *flipper) surfaceVelocity(p core.Vec) core.Vec {
	r := p.Sub(f.pivot)
	return core.V(-r.Y, r.X).Scale(f.omega)
}

// advance rotates the flipper toward its target angle.
func (f *flipper) advance(dt, speed float64) {
	target := f.rest
	if f.hold > 0 {
		target = f.up
		f.hold -= dt
	}
	diff := target - f.angle
	maxMove := speed * dt
	switch {
	case math.Abs(diff) <= maxMove:
		f.angle = target
		f.omega = 0
		if dt > 0 && diff != 0 {
			f.omega = diff / dt
		}
	case diff > 0:
		f.angle += maxMove
		f.omega = speed
	default:
		f.angle -= maxMove
		f.omega = -speed
	}
}

// closestOnSegment returns the point of segment ab nearest to p.
func closestOnSegment(p, a, b core.Vec) core.Vec {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return a
	}
	t := core.ClampF(p.Sub(a).Dot(ab)/den, 0, 1)
	return a.Add(ab.Scale(t))
}

// bounce pushes b out of contact at point c and reflects the velocity
// relative to a surface moving at surfVel. Returns true on contact.
func bounce(b *ball, c, surfVel core.Vec, restitution float64) bool {
	d := b.pos.Sub(c)
	dist := d.Len()
	if dist >= b.radius {
		return false
	}
	n := core.V(0, -1)
	if dist > 1e-9 {
		n = d.Scale(1 / dist)
	}
	b.pos = c.Add(n.Scale(b.radius))
	rel := b.vel.Sub(surfVel)
	if vn := rel.Dot(n); vn < 0 {
		rel = rel.Sub(n.Scale((1 + restitution) * vn))
		b.vel = rel.Add(surfVel)
	}
	return true
}

// hitBumper resolves contact with a bumper. Bumpers are perfectly elastic
// and add their kick along the contact normal.
func hitBumper(b *ball, bp *bumper) bool {
	d := b.pos.Sub(bp.pos)
	reach := b.radius + bp.radius
	if d.Len() >= reach {
		return false
	}
	n := d.Norm()
	if n.Len() == 0 {
		n = core.V(0, -1)
	}
	b.pos = bp.pos.Add(n.Scale(reach))
	if b.vel.Dot(n) < 0 {
		b.vel = b.vel.Reflect(n)
	}
	b.vel = b.vel.Add(n.Scale(bp.kick))
	return true
}

func clampSpeed(v core.Vec, limit float64) core.Vec {
	if limit <= 0 {
		return v
	}
	if l := v.Len(); l > limit {
		return v.Scale(limit / l)
	}
	return v
}
