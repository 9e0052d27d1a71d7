package cloth

import (
	"math"

	"github.com/san-kum/clothsim/internal/vecmath"
)

// SpatialHash buckets point indices by a coarse 3D cell. Two points that map
// to the same key are candidates for self-collision; hash collisions between
// distant cells only cost extra distance checks.
type SpatialHash struct {
	cellX, cellY, cellZ float64
	cells               map[int64][]int
}

func NewSpatialHash(cellX, cellY, cellZ float64) *SpatialHash {
	return &SpatialHash{
		cellX: cellX,
		cellY: cellY,
		cellZ: cellZ,
		cells: make(map[int64][]int),
	}
}

// Key truncates p into its cell and mixes the cell coordinates with three
// large primes.
func (h *SpatialHash) Key(p vecmath.Vec3) int64 {
	x := int64(math.Floor(p.X / h.cellX))
	y := int64(math.Floor(p.Y / h.cellY))
	z := int64(math.Floor(p.Z / h.cellZ))
	return x*73856093 + y*19349663 + z*83492791
}

// Build clears the table and inserts every point by its current position.
// Buckets filled by the previous call are reused; cells left empty since then
// are dropped, so the table holds at most twice as many keys as points.
func (h *SpatialHash) Build(points []PointMass) {
	for k, bucket := range h.cells {
		if len(bucket) == 0 {
			delete(h.cells, k)
			continue
		}
		h.cells[k] = bucket[:0]
	}
	for i := range points {
		k := h.Key(points[i].Position)
		h.cells[k] = append(h.cells[k], i)
	}
}

func (h *SpatialHash) Cell(key int64) []int { return h.cells[key] }

// Len counts indexed points.
func (h *SpatialHash) Len() int {
	n := 0
	for _, bucket := range h.cells {
		n += len(bucket)
	}
	return n
}
