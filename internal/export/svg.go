// Package export writes rendered frames as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/vecmath"
	"github.com/san-kum/clothsim/internal/viz"
)

const background = "#0a0a0a"

var trailColors = []string{"#ffcc00", "#00ccff", "#ff66aa", "#88ff44", "#ff8844", "#aa88ff"}

// CanvasToSVG draws every braille dot of canvas as a circle. scale is the
// distance between neighbouring dots in SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}
	width := float64(canvas.DotWidth()) * scale
	height := float64(canvas.DotHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, background)

	r := scale * 0.4
	for y := 0; y < canvas.DotHeight(); y++ {
		for x := 0; x < canvas.DotWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := (float64(x) + 0.5) * scale
			cy := (float64(y) + 0.5) * scale
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrailsToSVG plots orbit trails projected onto the xz plane, one path per
// trail. Trails with fewer than two points are skipped.
func TrailsToSVG(trails [][]vecmath.Vec3, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, tr := range trails {
		if len(tr) < 2 {
			continue
		}
		for _, p := range tr {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// square viewport with 10% padding
	span := math.Max(maxX-minX, maxZ-minZ)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	side := float64(min(width, height))
	toX := func(x float64) float64 { return (x-cx)/span*side + float64(width)/2 }
	toY := func(z float64) float64 { return float64(height)/2 - (z-cz)/span*side }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	n := 0
	for _, tr := range trails {
		if len(tr) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M%.1f,%.1f`,
			trailColors[n%len(trailColors)], toX(tr[0].X), toY(tr[0].Z))
		for _, p := range tr[1:] {
			fmt.Fprintf(&sb, " L%.1f,%.1f", toX(p.X), toY(p.Z))
		}
		sb.WriteString("\"/>\n")
		n++
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Write writes an SVG document to w.
func Write(w io.Writer, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	_, err := io.WriteString(w, svg)
	return err
}
