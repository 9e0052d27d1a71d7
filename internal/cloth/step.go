package cloth

import (
	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/vecmath"
)

// PointMassMass is the uniform mass of each point for the given areal density.
func (g *Grid) PointMassMass(density float64) float64 {
	return g.width * g.height * density / float64(g.nw) / float64(g.nh)
}

// Step advances the cloth by one sub-step of 1/(fps*substeps) seconds.
// Non-positive fps or substeps make Step a no-op.
func (g *Grid) Step(fps float64, substeps int, p *Params, accelerations []vecmath.Vec3, primitives []collision.Primitive) {
	if fps <= 0 || substeps <= 0 || p == nil {
		return
	}
	mass := g.PointMassMass(p.Density)
	dt := 1.0 / fps / float64(substeps)

	g.accumulateForces(mass, p, accelerations)
	g.integrate(mass, dt, p.Damping)

	g.hash.Build(g.points)
	for i := range g.points {
		g.selfCollide(i, substeps)
	}

	for i := range g.points {
		pm := &g.points[i]
		if pm.Pinned {
			continue
		}
		collision.ResolveAll(primitives, &pm.Position, pm.LastPosition)
	}

	g.limitStrain(p)
}

func (g *Grid) accumulateForces(mass float64, p *Params, accelerations []vecmath.Vec3) {
	external := vecmath.Sum(accelerations).Scale(mass)
	for i := range g.points {
		g.points[i].Force = external
	}

	for _, s := range g.springs {
		if !p.Enabled(s.Kind) {
			continue
		}
		a, b := &g.points[s.A], &g.points[s.B]
		d := b.Position.Sub(a.Position)
		f := d.Unit().Scale(p.stiffness(s.Kind) * (d.Norm() - s.RestLength))
		a.Force = a.Force.Add(f)
		b.Force = b.Force.Sub(f)
	}
}

func (g *Grid) integrate(mass, dt, damping float64) {
	keep := 1 - damping/100
	dt2 := dt * dt
	for i := range g.points {
		pm := &g.points[i]
		if pm.Pinned {
			continue
		}
		next := pm.Position.Add(pm.Position.Sub(pm.LastPosition).Scale(keep))
		if mass > 0 {
			next = next.Add(pm.Force.Scale(dt2 / mass))
		}
		pm.LastPosition = pm.Position
		pm.Position = next
	}
}

// selfCollide pushes point i away from every other point in its hash cell
// closer than twice the thickness. The summed correction is averaged over
// the contributing neighbours and divided by substeps.
func (g *Grid) selfCollide(i, substeps int) {
	pm := &g.points[i]
	if pm.Pinned {
		return
	}
	minDist := 2 * g.thickness

	var correction vecmath.Vec3
	n := 0
	for _, j := range g.hash.Cell(g.hash.Key(pm.Position)) {
		if j == i {
			continue
		}
		d := pm.Position.Sub(g.points[j].Position)
		dist := d.Norm()
		if dist < minDist {
			correction = correction.Add(d.Unit().Scale(minDist - dist))
			n++
		}
	}
	if n == 0 {
		return
	}
	pm.Position = pm.Position.Add(correction.Scale(1 / float64(substeps) / float64(n)))
}

// limitStrain pulls springs stretched past maxStretch back to that length.
// A pinned endpoint never moves; if both ends are pinned nothing happens.
func (g *Grid) limitStrain(p *Params) {
	for _, s := range g.springs {
		if !p.Enabled(s.Kind) {
			continue
		}
		a, b := &g.points[s.A], &g.points[s.B]
		if a.Pinned && b.Pinned {
			continue
		}
		d := b.Position.Sub(a.Position)
		length := d.Norm()
		limit := maxStretch * s.RestLength
		if length <= limit {
			continue
		}
		c := d.Unit().Scale(length - limit)
		switch {
		case a.Pinned:
			b.Position = b.Position.Sub(c)
		case b.Pinned:
			a.Position = a.Position.Add(c)
		default:
			half := c.Scale(0.5)
			a.Position = a.Position.Add(half)
			b.Position = b.Position.Sub(half)
		}
	}
}

// MaxStrain returns the largest length/rest ratio over enabled springs.
func (g *Grid) MaxStrain(p *Params) float64 {
	worst := 0.0
	for _, s := range g.springs {
		if !p.Enabled(s.Kind) || s.RestLength == 0 {
			continue
		}
		if r := g.SpringLength(s) / s.RestLength; r > worst {
			worst = r
		}
	}
	return worst
}

// KineticEnergy sums 0.5*m*|v|^2 using the implicit Verlet velocity over dt.
func (g *Grid) KineticEnergy(density, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	m := g.PointMassMass(density)
	e := 0.0
	for _, pm := range g.points {
		v := pm.Velocity().Scale(1 / dt)
		e += 0.5 * m * v.Norm2()
	}
	return e
}
