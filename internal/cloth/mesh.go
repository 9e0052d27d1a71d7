package cloth

import "github.com/san-kum/clothsim/internal/vecmath"

// Triangle references three point masses and carries per-corner texture
// coordinates in [0,1].
type Triangle struct {
	A, B, C int
	UV      [3]vecmath.Vec3
}

// Triangles splits each grid quad into two triangles for rendering and
// export. The result depends only on the topology.
func (g *Grid) Triangles() []Triangle {
	if g.nw < 2 || g.nh < 2 {
		return nil
	}
	du := 1 / float64(g.nw-1)
	dv := 1 / float64(g.nh-1)
	tris := make([]Triangle, 0, 2*(g.nw-1)*(g.nh-1))

	for j := 0; j < g.nh-1; j++ {
		for i := 0; i < g.nw-1; i++ {
			a, b := g.Index(i, j), g.Index(i+1, j)
			c, d := g.Index(i, j+1), g.Index(i+1, j+1)

			u, v := float64(i)*du, float64(j)*dv
			uvA := vecmath.Vec3{X: u, Y: v}
			uvB := vecmath.Vec3{X: u + du, Y: v}
			uvC := vecmath.Vec3{X: u, Y: v + dv}
			uvD := vecmath.Vec3{X: u + du, Y: v + dv}

			tris = append(tris,
				Triangle{A: a, B: c, C: b, UV: [3]vecmath.Vec3{uvA, uvC, uvB}},
				Triangle{A: b, B: c, C: d, UV: [3]vecmath.Vec3{uvB, uvC, uvD}},
			)
		}
	}
	return tris
}

// Normal is the unnormalized face normal of t at the current positions.
func (g *Grid) Normal(t Triangle) vecmath.Vec3 {
	a := g.points[t.A].Position
	return g.points[t.B].Position.Sub(a).Cross(g.points[t.C].Position.Sub(a))
}
