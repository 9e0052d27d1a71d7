// Package collision implements the fixed set of obstacles a point mass can be
// pushed out of: spheres and planes. Each primitive is a value type; the
// cloth step borrows them read-only and only mutates the point it is handed.
package collision

import "github.com/san-kum/clothsim/internal/vecmath"

// SurfaceOffset keeps a corrected point slightly off a plane so the next
// step does not see it as lying exactly on the surface.
const SurfaceOffset = 1e-4

// Primitive resolves a single point against an obstacle. position is updated
// in place when the point penetrates; last is the point's previous position.
// The set of implementations is closed to Sphere and Plane.
type Primitive interface {
	Collide(position *vecmath.Vec3, last vecmath.Vec3) bool
	primitive()
}

type Sphere struct {
	Origin   vecmath.Vec3
	Radius   float64
	Friction float64
}

func NewSphere(origin vecmath.Vec3, radius, friction float64) Sphere {
	return Sphere{Origin: origin, Radius: radius, Friction: friction}
}

func (Sphere) primitive() {}

// Collide moves a point inside the sphere toward the tangent point on its
// surface, starting from last and scaled by (1 - friction).
func (s Sphere) Collide(position *vecmath.Vec3, last vecmath.Vec3) bool {
	dir := position.Sub(s.Origin)
	if dir.Norm2() > s.Radius*s.Radius {
		return false
	}
	n := dir.Unit()
	if n == (vecmath.Vec3{}) {
		// point sits on the centre; push it out along +Y
		n = vecmath.Vec3{Y: 1}
	}
	tangent := s.Origin.Add(n.Scale(s.Radius))
	correction := tangent.Sub(last)
	*position = last.Add(correction.Scale(1 - s.Friction))
	return true
}

type Plane struct {
	Point    vecmath.Vec3
	Normal   vecmath.Vec3
	Friction float64
}

// NewPlane normalizes the given normal.
func NewPlane(point, normal vecmath.Vec3, friction float64) Plane {
	return Plane{Point: point, Normal: normal.Unit(), Friction: friction}
}

func (Plane) primitive() {}

// Collide fires when the point crossed the plane during the last step (the
// signed distance changed sign) or lies on it.
func (p Plane) Collide(position *vecmath.Vec3, last vecmath.Vec3) bool {
	n := p.Normal.Unit()
	d := position.Sub(p.Point).Dot(n)
	lastD := last.Sub(p.Point).Dot(n)
	if d*lastD > 0 {
		return false
	}

	side := 1.0
	if lastD < 0 {
		side = -1.0
	}
	tangent := position.Sub(n.Scale(d))
	correction := tangent.Sub(last).Add(n.Scale(SurfaceOffset * side))
	*position = last.Add(correction.Scale(1 - p.Friction))
	return true
}

// ResolveAll applies each primitive in order; later primitives see the
// corrections made by earlier ones.
func ResolveAll(prims []Primitive, position *vecmath.Vec3, last vecmath.Vec3) {
	for _, prim := range prims {
		prim.Collide(position, last)
	}
}
