package cloth

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/vecmath"
)

func newTestGrid(t *testing.T, opts Options) *Grid {
	t.Helper()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestSpringCounts(t *testing.T) {
	tests := []struct {
		name                          string
		nw, nh                        int
		structural, shearing, bending int
	}{
		{"1x1", 1, 1, 0, 0, 0},
		{"2x2", 2, 2, 4, 2, 0},
		{"3x3", 3, 3, 12, 8, 6},
		{"4x3", 4, 3, 17, 12, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: tt.nw, NumHeightPoints: tt.nh})
			if got := g.CountSprings(Structural); got != tt.structural {
				t.Errorf("structural: expected %d, got %d", tt.structural, got)
			}
			if got := g.CountSprings(Shearing); got != tt.shearing {
				t.Errorf("shearing: expected %d, got %d", tt.shearing, got)
			}
			if got := g.CountSprings(Bending); got != tt.bending {
				t.Errorf("bending: expected %d, got %d", tt.bending, got)
			}
		})
	}
}

func TestSpringCountsClosedForm(t *testing.T) {
	for nw := 2; nw <= 6; nw++ {
		for nh := 2; nh <= 6; nh++ {
			g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: nw, NumHeightPoints: nh})
			structural := (nw-1)*nh + nw*(nh-1)
			shearing := 2 * (nw - 1) * (nh - 1)
			bending := (nw-2)*nh + nw*(nh-2)
			if g.CountSprings(Structural) != structural ||
				g.CountSprings(Shearing) != shearing ||
				g.CountSprings(Bending) != bending {
				t.Errorf("%dx%d: got %d/%d/%d springs, expected %d/%d/%d", nw, nh,
					g.CountSprings(Structural), g.CountSprings(Shearing), g.CountSprings(Bending),
					structural, shearing, bending)
			}
		}
	}
}

func TestRestLengthMatchesInitialDistance(t *testing.T) {
	g := newTestGrid(t, Options{Width: 2, Height: 1, NumWidthPoints: 5, NumHeightPoints: 4, Orientation: Vertical, Seed: 7})
	for _, s := range g.Springs() {
		if got := g.SpringLength(s); got != s.RestLength {
			t.Errorf("spring %d-%d: rest %v, current %v", s.A, s.B, s.RestLength, got)
		}
		if s.A == s.B {
			t.Errorf("spring joins point %d to itself", s.A)
		}
	}
}

func TestInvalidGrid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero width points", Options{Width: 1, Height: 1, NumWidthPoints: 0, NumHeightPoints: 3}},
		{"negative height points", Options{Width: 1, Height: 1, NumWidthPoints: 3, NumHeightPoints: -1}},
		{"zero extent", Options{Width: 0, Height: 1, NumWidthPoints: 3, NumHeightPoints: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestPinnedOutOfRangeIgnored(t *testing.T) {
	g := newTestGrid(t, Options{
		Width: 1, Height: 1, NumWidthPoints: 3, NumHeightPoints: 3,
		Pinned: [][2]int{{0, 0}, {5, 5}, {-1, 0}},
	})
	pinned := 0
	for i := 0; i < g.Len(); i++ {
		if g.Point(i).Pinned {
			pinned++
		}
	}
	if pinned != 1 {
		t.Errorf("expected 1 pinned point, got %d", pinned)
	}
}

func TestVerticalJitterSeeded(t *testing.T) {
	opts := Options{Width: 1, Height: 1, NumWidthPoints: 6, NumHeightPoints: 6, Orientation: Vertical, Seed: 42}
	a := newTestGrid(t, opts).Positions()
	b := newTestGrid(t, opts).Positions()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between runs with the same seed: %v vs %v", i, a[i], b[i])
		}
		if math.Abs(a[i].Z) > jitterScale {
			t.Errorf("point %d jitter %v outside bound", i, a[i].Z)
		}
	}
}

func TestStepDeterministic(t *testing.T) {
	opts := Options{
		Width: 1, Height: 1, NumWidthPoints: 10, NumHeightPoints: 10,
		Thickness: 0.02, Orientation: Vertical, Seed: 11,
		Pinned: [][2]int{{0, 9}},
	}
	a, b := newTestGrid(t, opts), newTestGrid(t, opts)
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}, {X: 0.5}}
	prims := []collision.Primitive{
		collision.NewSphere(vecmath.Vec3{X: 0.5, Y: 0.2, Z: 0.3}, 0.25, 0.4),
		collision.NewPlane(vecmath.Vec3{Y: -0.5}, vecmath.Vec3{Y: 1}, 0.5),
	}
	for i := 0; i < 150; i++ {
		a.Step(90, 30, &p, accel, prims)
		b.Step(90, 30, &p, accel, prims)
	}

	pa, pb := a.Points(), b.Points()
	for i := range pa {
		if !pa[i].Position.IsFinite() {
			t.Fatalf("point %d is not finite: %v", i, pa[i].Position)
		}
		if pa[i].Position != pb[i].Position || pa[i].LastPosition != pb[i].LastPosition {
			t.Fatalf("point %d diverged: %v vs %v", i, pa[i].Position, pb[i].Position)
		}
	}
}

func TestHorizontalLayout(t *testing.T) {
	g := newTestGrid(t, Options{Width: 2, Height: 1, NumWidthPoints: 4, NumHeightPoints: 2})
	p := g.Point(g.Index(3, 1)).Position
	want := vecmath.Vec3{X: 1.5, Y: 1, Z: 0.5}
	if p != want {
		t.Errorf("expected %v, got %v", want, p)
	}
}

func TestPinnedPointsNeverMove(t *testing.T) {
	g := newTestGrid(t, Options{
		Width: 1, Height: 1, NumWidthPoints: 8, NumHeightPoints: 8,
		Thickness: 0.01, Orientation: Vertical, Seed: 1,
		Pinned: [][2]int{{0, 7}, {7, 7}},
	})
	top0 := g.Point(g.Index(0, 7)).Position
	top7 := g.Point(g.Index(7, 7)).Position

	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	prims := []collision.Primitive{collision.NewSphere(vecmath.Vec3{X: 0.5, Y: 0.3, Z: 0.5}, 0.2, 0.3)}
	for i := 0; i < 300; i++ {
		g.Step(90, 30, &p, accel, prims)
	}

	if got := g.Point(g.Index(0, 7)).Position; got != top0 {
		t.Errorf("pinned (0,7) moved: %v -> %v", top0, got)
	}
	if got := g.Point(g.Index(7, 7)).Position; got != top7 {
		t.Errorf("pinned (7,7) moved: %v -> %v", top7, got)
	}
	if bottom := g.Point(g.Index(3, 0)).Position; bottom.Y >= 0 {
		t.Errorf("free point should hang below its start, got %v", bottom)
	}
}

func TestStrainStaysBounded(t *testing.T) {
	g := newTestGrid(t, Options{
		Width: 1, Height: 1, NumWidthPoints: 8, NumHeightPoints: 8,
		Thickness: 0.01, Orientation: Vertical, Seed: 3,
		Pinned: [][2]int{{0, 7}, {7, 7}},
	})
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	for i := 0; i < 200; i++ {
		g.Step(90, 30, &p, accel, nil)
		if s := g.MaxStrain(&p); s > maxStretch+1e-9 {
			t.Fatalf("step %d: strain %v", i, s)
		}
	}
	for i, pos := range g.Positions() {
		if !pos.IsFinite() {
			t.Fatalf("point %d is not finite: %v", i, pos)
		}
	}
}

func TestFlatSheetAtRest(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 10, NumHeightPoints: 10, Thickness: 0.01})
	before := g.Positions()
	p := DefaultParams()
	for i := 0; i < 100; i++ {
		g.Step(90, 1, &p, nil, nil)
	}
	after := g.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("point %d moved without external forces: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestFreeFallStaysFlat(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 5, NumHeightPoints: 5, Thickness: 0.01})
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	for i := 0; i < 20; i++ {
		g.Step(60, 4, &p, accel, nil)
	}
	pos := g.Positions()
	if pos[0].Y >= 1 {
		t.Fatalf("sheet did not fall: y=%v", pos[0].Y)
	}
	for i := range pos {
		if pos[i].Y != pos[0].Y {
			t.Errorf("point %d at y=%v, expected %v", i, pos[i].Y, pos[0].Y)
		}
	}
}

func TestPlaneStopsFall(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 5, NumHeightPoints: 5, Thickness: 0.01})
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	prims := []collision.Primitive{collision.NewPlane(vecmath.Vec3{}, vecmath.Vec3{Y: 1}, 0.5)}
	for i := 0; i < 600; i++ {
		g.Step(60, 4, &p, accel, prims)
	}
	for i, pos := range g.Positions() {
		if pos.Y < 0 {
			t.Errorf("point %d fell through the plane: %v", i, pos)
		}
	}
}

func TestSelfCollisionSeparates(t *testing.T) {
	g := newTestGrid(t, Options{Width: 0.02, Height: 1, NumWidthPoints: 2, NumHeightPoints: 1, Thickness: 0.01})
	p := Params{Density: DefaultDensity}
	g.Step(60, 1, &p, nil, nil)

	d := vecmath.Dist(g.Point(0).Position, g.Point(1).Position)
	if d < 2*g.Thickness()-1e-12 {
		t.Errorf("points not separated: distance %v, want >= %v", d, 2*g.Thickness())
	}
}

func TestStepNoopOnBadRate(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 3, NumHeightPoints: 3})
	before := g.Positions()
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	g.Step(0, 10, &p, accel, nil)
	g.Step(60, 0, &p, accel, nil)
	after := g.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("point %d moved on a no-op step", i)
		}
	}
}

func TestReset(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 4, NumHeightPoints: 4, Thickness: 0.01})
	start := g.Positions()
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	for i := 0; i < 10; i++ {
		g.Step(60, 2, &p, accel, nil)
	}
	g.Reset()
	for i, pos := range g.Positions() {
		if pos != start[i] {
			t.Errorf("point %d not reset: %v", i, pos)
		}
		if v := g.Point(i).Velocity(); v != (vecmath.Vec3{}) {
			t.Errorf("point %d kept velocity %v", i, v)
		}
	}
	if len(g.Springs()) != 24+18+16 {
		t.Errorf("reset changed topology: %d springs", len(g.Springs()))
	}
}

func TestTriangles(t *testing.T) {
	g := newTestGrid(t, Options{Width: 1, Height: 1, NumWidthPoints: 4, NumHeightPoints: 3})
	tris := g.Triangles()
	if len(tris) != 2*3*2 {
		t.Fatalf("expected 12 triangles, got %d", len(tris))
	}
	for _, tri := range tris {
		for _, idx := range []int{tri.A, tri.B, tri.C} {
			if idx < 0 || idx >= g.Len() {
				t.Errorf("triangle index %d out of range", idx)
			}
		}
		for _, uv := range tri.UV {
			if uv.X < 0 || uv.X > 1+1e-12 || uv.Y < 0 || uv.Y > 1+1e-12 {
				t.Errorf("uv %v outside unit square", uv)
			}
		}
		if g.Normal(tri).Norm() == 0 {
			t.Errorf("degenerate triangle %+v", tri)
		}
	}
}

func BenchmarkStep(b *testing.B) {
	g, err := New(Options{
		Width: 1, Height: 1, NumWidthPoints: 32, NumHeightPoints: 32,
		Thickness: 0.01, Orientation: Vertical, Pinned: [][2]int{{0, 31}, {31, 31}},
	})
	if err != nil {
		b.Fatal(err)
	}
	p := DefaultParams()
	accel := []vecmath.Vec3{{Y: -9.8}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(90, 30, &p, accel, nil)
	}
}
