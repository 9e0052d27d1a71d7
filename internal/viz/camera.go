package viz

import (
	"math"

	"github.com/san-kum/clothsim/internal/vecmath"
)

const (
	cameraDistance = 4.0
	cameraNear     = 0.1
)

// Camera rotates the scene about Center, scales it so that Extent maps to a
// third of the shorter screen side and applies a weak perspective.
type Camera struct {
	Center           vecmath.Vec3
	Extent           float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Extent: 1, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.05, c.Zoom/1.2) }

// Fit centers the camera on the bounding box of points.
func (c *Camera) Fit(points []vecmath.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = vecmath.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = vecmath.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	c.Center = lo.Add(hi).Scale(0.5)
	half := hi.Sub(lo).Scale(0.5)
	c.Extent = math.Max(half.X, math.Max(half.Y, half.Z))
	if !c.Center.IsFinite() {
		c.Center = vecmath.Vec3{}
	}
	if c.Extent <= 0 || math.IsNaN(c.Extent) || math.IsInf(c.Extent, 0) {
		c.Extent = 1
	}
}

// Rotate applies the X, then Y, then Z rotation to p relative to Center.
func (c *Camera) Rotate(p vecmath.Vec3) vecmath.Vec3 {
	p = p.Sub(c.Center)
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to dot coordinates on a sw x sh surface. It returns the
// depth and whether the point lies in front of the camera and on screen.
func (c *Camera) Project(p vecmath.Vec3, sw, sh int) (int, int, float64, bool) {
	extent := c.Extent
	if extent <= 0 {
		extent = 1
	}
	q := c.Rotate(p).Scale(c.Zoom / extent)
	if q.Z >= cameraDistance-cameraNear {
		return 0, 0, q.Z, false
	}
	persp := cameraDistance / (cameraDistance - q.Z)
	unit := float64(min(sw, sh)) / 3
	sx := int(math.Round(q.X*persp*unit)) + sw/2
	sy := int(math.Round(-q.Y*persp*unit)) + sh/2
	return sx, sy, q.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// ScaleLength converts a world length to dots at the camera's nominal scale.
func (c *Camera) ScaleLength(l float64, sw, sh int) int {
	extent := c.Extent
	if extent <= 0 {
		extent = 1
	}
	return int(math.Round(l * c.Zoom / extent * float64(min(sw, sh)) / 3))
}
