package cloth

import (
	"testing"

	"github.com/san-kum/clothsim/internal/vecmath"
)

func TestSpatialHashKey(t *testing.T) {
	h := NewSpatialHash(0.1, 0.1, 0.1)
	if h.Key(vecmath.Vec3{X: 0.01, Y: 0.02}) != h.Key(vecmath.Vec3{X: 0.09, Y: 0.05}) {
		t.Error("points in the same cell should share a key")
	}
	if h.Key(vecmath.Vec3{X: 0.05}) == h.Key(vecmath.Vec3{X: -0.05}) {
		t.Error("points on either side of zero should land in different cells")
	}
}

func TestSpatialHashRebuild(t *testing.T) {
	h := NewSpatialHash(1, 1, 1)
	points := []PointMass{
		newPointMass(vecmath.Vec3{X: 0.1}, false),
		newPointMass(vecmath.Vec3{X: 0.2}, false),
		newPointMass(vecmath.Vec3{X: 5}, false),
	}
	h.Build(points)
	if h.Len() != 3 {
		t.Fatalf("expected 3 indexed points, got %d", h.Len())
	}
	if got := h.Cell(h.Key(points[0].Position)); len(got) != 2 {
		t.Errorf("expected 2 points in the first cell, got %v", got)
	}

	points[1].Position = vecmath.Vec3{X: 9}
	h.Build(points)
	if h.Len() != 3 {
		t.Errorf("rebuild should not accumulate stale entries, got %d", h.Len())
	}
	if got := h.Cell(h.Key(points[0].Position)); len(got) != 1 {
		t.Errorf("expected 1 point after move, got %v", got)
	}
}

func TestSpatialHashDropsVacatedCells(t *testing.T) {
	h := NewSpatialHash(1, 1, 1)
	points := []PointMass{
		newPointMass(vecmath.Vec3{}, false),
		newPointMass(vecmath.Vec3{Z: 0.5}, false),
	}
	for i := 0; i < 500; i++ {
		points[0].Position = vecmath.Vec3{X: float64(i) + 0.5}
		points[1].Position = vecmath.Vec3{Y: -float64(i) - 0.5}
		h.Build(points)
		if len(h.cells) > 2*len(points) {
			t.Fatalf("build %d: %d cells kept for %d points", i, len(h.cells), len(points))
		}
	}
	if h.Len() != len(points) {
		t.Errorf("expected %d indexed points, got %d", len(points), h.Len())
	}
}
