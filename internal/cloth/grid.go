package cloth

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/clothsim/internal/vecmath"
)

type Orientation int

const (
	// Horizontal lays the sheet flat at y=1, spanning x and z.
	Horizontal Orientation = iota
	// Vertical hangs the sheet in the xy-plane with a small z jitter so it
	// folds instead of staying perfectly planar.
	Vertical
)

// jitterScale bounds the z offset of a vertical sheet.
const jitterScale = 1e-3

type Options struct {
	Width, Height   float64
	NumWidthPoints  int
	NumHeightPoints int
	Thickness       float64
	Orientation     Orientation
	Pinned          [][2]int
	Seed            int64
}

type Grid struct {
	width, height float64
	nw, nh        int
	thickness     float64
	orientation   Orientation
	pinned        [][2]int

	points  []PointMass
	springs []Spring
	hash    *SpatialHash
}

// New builds the point masses and spring topology once. Pinned coordinates
// that fall outside the grid are ignored.
func New(opts Options) (*Grid, error) {
	if opts.NumWidthPoints <= 0 || opts.NumHeightPoints <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidGrid, opts.NumWidthPoints, opts.NumHeightPoints)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: extent %gx%g", ErrInvalidGrid, opts.Width, opts.Height)
	}

	g := &Grid{
		width:       opts.Width,
		height:      opts.Height,
		nw:          opts.NumWidthPoints,
		nh:          opts.NumHeightPoints,
		thickness:   opts.Thickness,
		orientation: opts.Orientation,
		pinned:      append([][2]int(nil), opts.Pinned...),
	}

	g.buildPoints(rand.New(rand.NewSource(opts.Seed)))
	g.buildSprings()

	cw := 3 * g.width / float64(g.nw)
	ch := 3 * g.height / float64(g.nh)
	g.hash = NewSpatialHash(cw, ch, max(cw, ch))

	return g, nil
}

func (g *Grid) buildPoints(rng *rand.Rand) {
	g.points = make([]PointMass, 0, g.nw*g.nh)
	dx := g.width / float64(g.nw)
	dy := g.height / float64(g.nh)

	for j := 0; j < g.nh; j++ {
		for i := 0; i < g.nw; i++ {
			var pos vecmath.Vec3
			switch g.orientation {
			case Vertical:
				jitter := (rng.Float64()*2 - 1) * jitterScale
				pos = vecmath.Vec3{X: float64(i) * dx, Y: float64(j) * dy, Z: jitter}
			default:
				pos = vecmath.Vec3{X: float64(i) * dx, Y: 1, Z: float64(j) * dy}
			}
			g.points = append(g.points, newPointMass(pos, false))
		}
	}

	for _, c := range g.pinned {
		i, j := c[0], c[1]
		if i < 0 || i >= g.nw || j < 0 || j >= g.nh {
			continue
		}
		g.points[g.Index(i, j)].Pinned = true
	}
}

// buildSprings only looks left and up from each cell so every spring is
// created exactly once.
func (g *Grid) buildSprings() {
	g.springs = g.springs[:0]
	for j := 0; j < g.nh; j++ {
		for i := 0; i < g.nw; i++ {
			if i >= 1 {
				g.addSpring(i, j, i-1, j, Structural)
			}
			if j >= 1 {
				g.addSpring(i, j, i, j-1, Structural)
			}
			if i >= 1 && j >= 1 {
				g.addSpring(i, j, i-1, j-1, Shearing)
			}
			if i+1 < g.nw && j >= 1 {
				g.addSpring(i, j, i+1, j-1, Shearing)
			}
			if i >= 2 {
				g.addSpring(i, j, i-2, j, Bending)
			}
			if j >= 2 {
				g.addSpring(i, j, i, j-2, Bending)
			}
		}
	}
}

func (g *Grid) addSpring(i, j, oi, oj int, kind SpringKind) {
	a, b := g.Index(i, j), g.Index(oi, oj)
	rest := vecmath.Dist(g.points[a].Position, g.points[b].Position)
	g.springs = append(g.springs, Spring{A: a, B: b, Kind: kind, RestLength: rest})
}

// Index maps grid coordinates to storage. The layout never changes after New.
func (g *Grid) Index(i, j int) int { return j*g.nw + i }

func (g *Grid) Width() float64           { return g.width }
func (g *Grid) Height() float64          { return g.height }
func (g *Grid) NumWidthPoints() int      { return g.nw }
func (g *Grid) NumHeightPoints() int     { return g.nh }
func (g *Grid) Thickness() float64       { return g.thickness }
func (g *Grid) Orientation() Orientation { return g.orientation }
func (g *Grid) Len() int                 { return len(g.points) }

// Point returns a copy of the point mass at index i.
func (g *Grid) Point(i int) PointMass { return g.points[i] }

// Points returns a copy of every point mass in storage order.
func (g *Grid) Points() []PointMass {
	return append([]PointMass(nil), g.points...)
}

// Positions returns a fresh slice of current positions in storage order.
func (g *Grid) Positions() []vecmath.Vec3 {
	out := make([]vecmath.Vec3, len(g.points))
	for i := range g.points {
		out[i] = g.points[i].Position
	}
	return out
}

// Springs returns a copy of the spring list.
func (g *Grid) Springs() []Spring {
	return append([]Spring(nil), g.springs...)
}

// SpringLength is the current distance between a spring's endpoints.
func (g *Grid) SpringLength(s Spring) float64 {
	return vecmath.Dist(g.points[s.A].Position, g.points[s.B].Position)
}

// CountSprings returns the number of springs of the given kind.
func (g *Grid) CountSprings(kind SpringKind) int {
	n := 0
	for _, s := range g.springs {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Reset puts every point mass back at its start position with zero implicit
// velocity. Topology is untouched.
func (g *Grid) Reset() {
	for i := range g.points {
		pm := &g.points[i]
		pm.Position = pm.StartPosition
		pm.LastPosition = pm.StartPosition
		pm.Force = vecmath.Vec3{}
	}
}
