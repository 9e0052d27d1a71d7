package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/clothsim/internal/cloth"
)

// checker cells per side of the cloth texture
const checkerCells = 8

// ClothToSVG draws the render mesh of g seen from +z as filled triangles,
// far faces first. Faces are shaded by how squarely they face the viewer and
// textured with a checkerboard from their UV coordinates.
func ClothToSVG(g *cloth.Grid, width, height int) string {
	if g == nil {
		return ""
	}
	tris := g.Triangles()
	if len(tris) == 0 {
		return ""
	}
	pos := g.Positions()

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	side := float64(min(width, height))
	toX := func(x float64) float64 { return (x-cx)/span*side + float64(width)/2 }
	toY := func(y float64) float64 { return float64(height)/2 - (y-cy)/span*side }

	depth := func(t cloth.Triangle) float64 { return pos[t.A].Z + pos[t.B].Z + pos[t.C].Z }
	sort.SliceStable(tris, func(i, j int) bool { return depth(tris[i]) < depth(tris[j]) })

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, t := range tris {
		a, b, c := pos[t.A], pos[t.B], pos[t.C]
		fmt.Fprintf(&sb, "<polygon fill=\"%s\" points=\"%.1f,%.1f %.1f,%.1f %.1f,%.1f\"/>\n",
			faceColor(g, t), toX(a.X), toY(a.Y), toX(b.X), toY(b.Y), toX(c.X), toY(c.Y))
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// faceColor picks the checker colour at the face's UV centroid and dims it by
// the angle between the face normal and the view axis.
func faceColor(g *cloth.Grid, t cloth.Triangle) string {
	u := (t.UV[0].X + t.UV[1].X + t.UV[2].X) / 3
	v := (t.UV[0].Y + t.UV[1].Y + t.UV[2].Y) / 3
	base := [3]float64{200, 60, 60}
	if (int(u*checkerCells)+int(v*checkerCells))%2 == 1 {
		base = [3]float64{230, 230, 230}
	}
	light := 0.25 + 0.75*math.Abs(g.Normal(t).Unit().Z)
	return fmt.Sprintf("#%02x%02x%02x", int(base[0]*light), int(base[1]*light), int(base[2]*light))
}
