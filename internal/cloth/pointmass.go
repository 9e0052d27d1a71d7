package cloth

import (
	"fmt"

	"github.com/san-kum/clothsim/internal/vecmath"
)

type PointMass struct {
	Position      vecmath.Vec3
	LastPosition  vecmath.Vec3
	StartPosition vecmath.Vec3
	Pinned        bool
	Force         vecmath.Vec3
}

func newPointMass(pos vecmath.Vec3, pinned bool) PointMass {
	return PointMass{
		Position:      pos,
		LastPosition:  pos,
		StartPosition: pos,
		Pinned:        pinned,
	}
}

// Velocity is the implicit per-step displacement Verlet carries.
func (pm PointMass) Velocity() vecmath.Vec3 {
	return pm.Position.Sub(pm.LastPosition)
}

type SpringKind int

const (
	Structural SpringKind = iota
	Shearing
	Bending
)

func (k SpringKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Shearing:
		return "shearing"
	case Bending:
		return "bending"
	}
	return fmt.Sprintf("SpringKind(%d)", int(k))
}

// Spring links two point masses of the same grid by index.
type Spring struct {
	A, B       int
	Kind       SpringKind
	RestLength float64
}
