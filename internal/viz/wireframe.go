package viz

import (
	"math"
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/gravity"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/vecmath"
)

const (
	ringSegments = 24
	planeHalf    = 1.0
)

// Edge is a segment between two world points. A zero-length edge with a
// positive Radius is drawn as a circle of that world radius.
type Edge struct {
	Start, End vecmath.Vec3
	Radius     float64
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{} }

func (w *Wireframe) AddEdge(s, e vecmath.Vec3) {
	w.Edges = append(w.Edges, Edge{Start: s, End: e})
}

func (w *Wireframe) AddPoint(p vecmath.Vec3) {
	w.Edges = append(w.Edges, Edge{Start: p, End: p})
}

// AddDisc adds a circle of world radius r centred on p.
func (w *Wireframe) AddDisc(p vecmath.Vec3, r float64) {
	w.Edges = append(w.Edges, Edge{Start: p, End: p, Radius: r})
}

func (w *Wireframe) Clear() { w.Edges = w.Edges[:0] }

// AddPolyline joins consecutive points.
func (w *Wireframe) AddPolyline(pts []vecmath.Vec3) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i])
	}
}

// AddRing adds a circle of radius r around center in the plane spanned by u
// and v, which must be orthonormal.
func (w *Wireframe) AddRing(center, u, v vecmath.Vec3, r float64) {
	prev := center.Add(u.Scale(r))
	for i := 1; i <= ringSegments; i++ {
		a := 2 * math.Pi * float64(i) / ringSegments
		next := center.Add(u.Scale(r * math.Cos(a))).Add(v.Scale(r * math.Sin(a)))
		w.AddEdge(prev, next)
		prev = next
	}
}

// Points returns every endpoint, for camera fitting.
func (w *Wireframe) Points() []vecmath.Vec3 {
	pts := make([]vecmath.Vec3, 0, 2*len(w.Edges))
	for _, e := range w.Edges {
		pts = append(pts, e.Start, e.End)
	}
	return pts
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	radius         int
	depth          float64
}

// Render draws w onto c, far edges first.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	dw, dh := c.DotWidth(), c.DotHeight()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, dw, dh)
		x2, y2, d2, v2 := cam.Project(e.End, dw, dh)
		if (!v1 && !v2) || behind(d1) || behind(d2) {
			continue
		}
		pe := projectedEdge{x1: x1, y1: y1, x2: x2, y2: y2, depth: (d1 + d2) / 2}
		if e.Radius > 0 {
			pe.radius = cam.ScaleLength(e.Radius, dw, dh)
		}
		proj = append(proj, pe)
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		switch {
		case e.radius > 0:
			c.DrawCircle(e.x1, e.y1, e.radius)
		case e.x1 == e.x2 && e.y1 == e.y2:
			c.Set(e.x1, e.y1)
		default:
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

func behind(depth float64) bool { return depth >= cameraDistance-cameraNear }

// ClothWireframe draws the structural springs of g and outlines the
// obstacles it collides with.
func ClothWireframe(g *cloth.Grid, prims []collision.Primitive) *Wireframe {
	w := NewWireframe()
	if g == nil {
		return w
	}
	pos := g.Positions()
	for _, s := range g.Springs() {
		if s.Kind == cloth.Structural {
			w.AddEdge(pos[s.A], pos[s.B])
		}
	}
	for _, p := range prims {
		addPrimitive(w, p)
	}
	return w
}

func addPrimitive(w *Wireframe, p collision.Primitive) {
	switch p := p.(type) {
	case collision.Sphere:
		x, y, z := vecmath.New(1, 0, 0), vecmath.New(0, 1, 0), vecmath.New(0, 0, 1)
		w.AddRing(p.Origin, x, y, p.Radius)
		w.AddRing(p.Origin, x, z, p.Radius)
		w.AddRing(p.Origin, y, z, p.Radius)
	case *collision.Sphere:
		addPrimitive(w, *p)
	case collision.Plane:
		u, v := tangents(p.Normal.Unit())
		corners := []vecmath.Vec3{
			p.Point.Add(u.Scale(planeHalf)).Add(v.Scale(planeHalf)),
			p.Point.Add(u.Scale(-planeHalf)).Add(v.Scale(planeHalf)),
			p.Point.Add(u.Scale(-planeHalf)).Add(v.Scale(-planeHalf)),
			p.Point.Add(u.Scale(planeHalf)).Add(v.Scale(-planeHalf)),
		}
		w.AddPolyline(append(corners, corners[0]))
	case *collision.Plane:
		addPrimitive(w, *p)
	}
}

// tangents returns two unit vectors orthogonal to n and to each other.
func tangents(n vecmath.Vec3) (vecmath.Vec3, vecmath.Vec3) {
	ref := vecmath.New(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		ref = vecmath.New(0, 1, 0)
	}
	u := n.Cross(ref).Unit()
	return u, n.Cross(u).Unit()
}

// GalaxyWireframe draws planets as discs, their trails and asteroids as dots.
// Coordinates are divided by displayScale.
func GalaxyWireframe(g *gravity.Galaxy, displayScale float64) *Wireframe {
	w := NewWireframe()
	if g == nil {
		return w
	}
	if displayScale <= 0 {
		displayScale = 1
	}
	inv := 1 / displayScale
	for _, b := range g.Bodies() {
		w.AddDisc(b.Position.Scale(inv), b.Radius*inv)
		trail := make([]vecmath.Vec3, len(b.Trail))
		for i, p := range b.Trail {
			trail[i] = p.Scale(inv)
		}
		w.AddPolyline(trail)
	}
	for _, a := range g.Asteroids() {
		w.AddPoint(a.Position.Scale(inv))
	}
	return w
}

// SystemWireframe picks the wireframe builder for sys. Unknown systems are
// drawn as a point cloud of their snapshot.
func SystemWireframe(sys sim.System, displayScale float64) *Wireframe {
	switch s := sys.(type) {
	case *sim.ClothSystem:
		return ClothWireframe(s.Grid(), s.Primitives())
	case *sim.GalaxySystem:
		return GalaxyWireframe(s.Galaxy(), displayScale)
	}
	w := NewWireframe()
	if sys != nil {
		for _, p := range sys.Snapshot().Positions {
			w.AddPoint(p)
		}
	}
	return w
}

// FitCamera returns a camera framing the system's current layout. Galaxies
// are framed on the farthest body's starting orbit and tilted so the orbital
// plane reads as an ellipse.
func FitCamera(sys sim.System, displayScale float64) *Camera {
	cam := NewCamera()
	switch s := sys.(type) {
	case *sim.GalaxySystem:
		if displayScale <= 0 {
			displayScale = 1
		}
		if far := s.Galaxy().Farthest(); far != nil {
			r := far.InitialOrigin.Norm() / displayScale
			if r > 0 {
				cam.Extent = r
			}
		}
		cam.RotX = -1.0
		return cam
	}
	cam.Fit(SystemWireframe(sys, displayScale).Points())
	return cam
}

// Draw clears c and renders the system through cam.
func Draw(c *Canvas, sys sim.System, cam *Camera, displayScale float64) {
	c.Clear()
	Render(c, SystemWireframe(sys, displayScale), cam)
}
