package sim

import (
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/gravity"
	"github.com/san-kum/clothsim/internal/vecmath"
)

// ClothSystem drives a cloth grid with a fixed set of accelerations and
// obstacles.
type ClothSystem struct {
	grid          *cloth.Grid
	params        *cloth.Params
	accelerations []vecmath.Vec3
	primitives    []collision.Primitive
	lastDt        float64
}

func NewClothSystem(grid *cloth.Grid, params *cloth.Params, accelerations []vecmath.Vec3, primitives []collision.Primitive) *ClothSystem {
	if params == nil {
		p := cloth.DefaultParams()
		params = &p
	}
	return &ClothSystem{
		grid:          grid,
		params:        params,
		accelerations: accelerations,
		primitives:    primitives,
	}
}

func (c *ClothSystem) Name() string { return "cloth" }

func (c *ClothSystem) Advance(fps float64, substeps int) {
	if fps <= 0 || substeps <= 0 {
		return
	}
	for i := 0; i < substeps; i++ {
		c.grid.Step(fps, substeps, c.params, c.accelerations, c.primitives)
	}
	c.lastDt = 1 / fps / float64(substeps)
}

func (c *ClothSystem) Reset() {
	c.grid.Reset()
	c.lastDt = 0
}

// Snapshot reports kinetic energy from the implicit Verlet velocity of the
// last sub-step.
func (c *ClothSystem) Snapshot() State {
	return State{
		Positions: c.grid.Positions(),
		Energy:    c.grid.KineticEnergy(c.params.Density, c.lastDt),
		Strain:    c.grid.MaxStrain(c.params),
	}
}

func (c *ClothSystem) GetParams() map[string]float64 { return c.params.GetParams() }

func (c *ClothSystem) SetParam(name string, value float64) { c.params.SetParam(name, value) }

func (c *ClothSystem) Grid() *cloth.Grid                 { return c.grid }
func (c *ClothSystem) Params() *cloth.Params             { return c.params }
func (c *ClothSystem) Primitives() []collision.Primitive { return c.primitives }

// GalaxySystem drives a gravity system and records trails once per frame.
type GalaxySystem struct {
	galaxy *gravity.Galaxy
}

func NewGalaxySystem(g *gravity.Galaxy) *GalaxySystem {
	return &GalaxySystem{galaxy: g}
}

func (g *GalaxySystem) Name() string { return "galaxy" }

func (g *GalaxySystem) Advance(fps float64, substeps int) {
	if fps <= 0 || substeps <= 0 {
		return
	}
	for i := 0; i < substeps; i++ {
		g.galaxy.Step(fps, substeps)
	}
	g.galaxy.RecordTrails()
}

func (g *GalaxySystem) Reset() { g.galaxy.Reset() }

// Snapshot lists planets first, then asteroids.
func (g *GalaxySystem) Snapshot() State {
	bodies := g.galaxy.Bodies()
	asteroids := g.galaxy.Asteroids()
	pos := make([]vecmath.Vec3, 0, len(bodies)+len(asteroids))
	for _, b := range bodies {
		pos = append(pos, b.Position)
	}
	for _, a := range asteroids {
		pos = append(pos, a.Position)
	}
	return State{Positions: pos, Energy: g.galaxy.TotalEnergy()}
}

func (g *GalaxySystem) GetParams() map[string]float64 {
	return map[string]float64{"gravity_scale": g.galaxy.Options().Scale}
}

func (g *GalaxySystem) SetParam(name string, value float64) {
	if name == "gravity_scale" {
		g.galaxy.SetScale(value)
	}
}

func (g *GalaxySystem) Galaxy() *gravity.Galaxy { return g.galaxy }
