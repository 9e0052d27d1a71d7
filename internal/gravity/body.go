package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/vecmath"
)

// Body is a gravitating sphere. Velocity is a displacement per sub-step.
type Body struct {
	Name     string
	Position vecmath.Vec3
	Velocity vecmath.Vec3
	Radius   float64
	Mass     float64
	Friction float64

	InitialOrigin   vecmath.Vec3
	InitialVelocity vecmath.Vec3

	Trail     []vecmath.Vec3
	trailDone bool
	force     vecmath.Vec3
}

func NewBody(origin, velocity vecmath.Vec3, radius, mass, friction float64) *Body {
	return &Body{
		Position:        origin,
		Velocity:        velocity,
		Radius:          radius,
		Mass:            mass,
		Friction:        friction,
		InitialOrigin:   origin,
		InitialVelocity: velocity,
	}
}

// Validate rejects bodies that cannot take part in the force computation.
func (b *Body) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil body", ErrInvalidBody)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: radius %g", ErrInvalidBody, b.Radius)
	}
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: mass %g", ErrInvalidBody, b.Mass)
	}
	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return fmt.Errorf("%w: non-finite state", ErrInvalidBody)
	}
	return nil
}

// attraction is the force on b toward other, or zero when the two are
// closer than minSeparation.
func (b *Body) attraction(other *Body, g float64) vecmath.Vec3 {
	dir := other.Position.Sub(b.Position)
	r := dir.Norm()
	if r < minSeparation {
		return vecmath.Vec3{}
	}
	return dir.Scale(g * b.Mass * other.Mass / (r * r * r))
}

func (b *Body) integrate() {
	next := b.Position.Add(b.Velocity).Add(b.force.Scale(1 / b.Mass))
	b.Velocity = next.Sub(b.Position)
	b.Position = next
	b.force = vecmath.Vec3{}
}

// Reset restores the initial origin and velocity and clears the trail.
func (b *Body) Reset() {
	b.Position = b.InitialOrigin
	b.Velocity = b.InitialVelocity
	b.force = vecmath.Vec3{}
	b.Trail = b.Trail[:0]
	b.trailDone = false
}

// RecordTrail appends the current position unless the orbit has closed. The
// orbit counts as closed once the body is back within one trail step of the
// first recorded point.
func (b *Body) RecordTrail() {
	if b.trailDone {
		return
	}
	if len(b.Trail) > 2 {
		step := vecmath.Dist(b.Trail[0], b.Trail[1])
		if vecmath.Dist(b.Trail[0], b.Position) < step {
			b.trailDone = true
			return
		}
	}
	b.Trail = append(b.Trail, b.Position)
}

func (b *Body) TrailDone() bool { return b.trailDone }

// Collider exposes the body at its current position as a cloth obstacle.
func (b *Body) Collider() collision.Sphere {
	return collision.NewSphere(b.Position, b.Radius, b.Friction)
}

// Speed is the length of the per-step displacement.
func (b *Body) Speed() float64 { return b.Velocity.Norm() }

func (b *Body) clone() *Body {
	c := *b
	c.Trail = append([]vecmath.Vec3(nil), b.Trail...)
	return &c
}
