package gravity

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/clothsim/internal/vecmath"
)

const (
	DefaultG             = 6.67408e-11
	DefaultMinMultiplier = 2.0
	DefaultMaxMultiplier = 3.0

	minSeparation = 1e-9
)

type Options struct {
	G     float64
	Scale float64
	// MinMultiplier and MaxMultiplier bound the factor AddRandomBody applies
	// to the farthest planet.
	MinMultiplier float64
	MaxMultiplier float64
	Seed          int64
	Trails        bool
}

func DefaultOptions() Options {
	return Options{
		G:             DefaultG,
		Scale:         1,
		MinMultiplier: DefaultMinMultiplier,
		MaxMultiplier: DefaultMaxMultiplier,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.G == 0 {
		o.G = d.G
	}
	if o.Scale == 0 {
		o.Scale = d.Scale
	}
	if o.MinMultiplier == 0 {
		o.MinMultiplier = d.MinMultiplier
	}
	if o.MaxMultiplier == 0 {
		o.MaxMultiplier = d.MaxMultiplier
	}
	if o.MaxMultiplier < o.MinMultiplier {
		o.MaxMultiplier = o.MinMultiplier
	}
	return o
}

// Galaxy owns its planets and asteroids. Planets are kept ordered by the
// norm of their initial origin, so the last planet is always the farthest.
type Galaxy struct {
	planets   []*Body
	asteroids []*Body
	last      *Body
	opts      Options
	rng       *rand.Rand
}

// New validates every body and takes ownership of them. Zero option fields
// fall back to DefaultOptions.
func New(planets, asteroids []*Body, opts Options) (*Galaxy, error) {
	if len(planets) == 0 {
		return nil, ErrEmptyGalaxy
	}
	for i, b := range planets {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("planet %d: %w", i, err)
		}
	}
	for i, b := range asteroids {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("asteroid %d: %w", i, err)
		}
	}

	opts = opts.withDefaults()
	g := &Galaxy{
		planets:   append([]*Body(nil), planets...),
		asteroids: append([]*Body(nil), asteroids...),
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}
	g.sortPlanets()
	return g, nil
}

func (g *Galaxy) sortPlanets() {
	sort.SliceStable(g.planets, func(i, j int) bool {
		return g.planets[i].InitialOrigin.Norm() < g.planets[j].InitialOrigin.Norm()
	})
	g.last = g.planets[len(g.planets)-1]
}

func (g *Galaxy) Options() Options { return g.opts }

// SetScale changes the gravity multiplier for subsequent steps.
func (g *Galaxy) SetScale(scale float64) {
	if scale > 0 {
		g.opts.Scale = scale
	}
}

// Step advances every body by one sub-step. fps and substeps only gate the
// call: non-positive values make it a no-op.
func (g *Galaxy) Step(fps float64, substeps int) {
	if fps <= 0 || substeps <= 0 {
		return
	}
	k := g.opts.G * g.opts.Scale

	for i, a := range g.planets {
		for _, b := range g.planets[i+1:] {
			f := a.attraction(b, k)
			a.force = a.force.Add(f)
			b.force = b.force.Sub(f)
		}
	}

	star := g.planets[0]
	for _, a := range g.asteroids {
		a.force = a.force.Add(a.attraction(star, k))
	}

	for _, b := range g.planets {
		b.integrate()
	}
	for _, a := range g.asteroids {
		a.integrate()
	}
}

// RecordTrails appends one trail point per planet when trails are enabled.
// Call it once per frame, not per sub-step.
func (g *Galaxy) RecordTrails() {
	if !g.opts.Trails {
		return
	}
	for _, b := range g.planets {
		b.RecordTrail()
	}
}

// AddBody validates b, inserts it and keeps the planet ordering.
func (g *Galaxy) AddBody(b *Body) error {
	if err := b.Validate(); err != nil {
		return err
	}
	g.planets = append(g.planets, b)
	g.sortPlanets()
	return nil
}

// AddRandomBody derives a new planet from the farthest one by scaling its
// initial origin, velocity, radius and mass with a single multiplier drawn
// from [MinMultiplier, MaxMultiplier]. The body is named after the planet
// count before it was added.
func (g *Galaxy) AddRandomBody() (*Body, error) {
	m := g.opts.MinMultiplier + g.rng.Float64()*(g.opts.MaxMultiplier-g.opts.MinMultiplier)
	ref := g.last

	origin := ref.InitialOrigin.Scale(m)
	if origin.Norm() == 0 {
		origin = vecmath.Vec3{X: 2 * ref.Radius * m}
	}
	b := NewBody(origin, ref.InitialVelocity.Scale(m), ref.Radius*m, ref.Mass*m, ref.Friction)
	b.Name = fmt.Sprintf("planet-%d", len(g.planets))
	if err := g.AddBody(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveLast drops the farthest planet.
func (g *Galaxy) RemoveLast() error {
	return g.RemoveAt(len(g.planets) - 1)
}

// RemoveAt drops the planet at index i of Bodies().
func (g *Galaxy) RemoveAt(i int) error {
	if i < 0 || i >= len(g.planets) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(g.planets))
	}
	if len(g.planets) == 1 {
		return ErrLastBody
	}
	g.planets = append(g.planets[:i], g.planets[i+1:]...)
	g.last = g.planets[len(g.planets)-1]
	return nil
}

// Reset returns every body to its initial state. Added bodies stay.
func (g *Galaxy) Reset() {
	for _, b := range g.planets {
		b.Reset()
	}
	for _, a := range g.asteroids {
		a.Reset()
	}
}

// Size is the number of planets.
func (g *Galaxy) Size() int { return len(g.planets) }

// Farthest is the planet with the largest initial distance from the origin.
func (g *Galaxy) Farthest() *Body { return g.last }

func (g *Galaxy) Bodies() []*Body { return append([]*Body(nil), g.planets...) }

func (g *Galaxy) Asteroids() []*Body { return append([]*Body(nil), g.asteroids...) }

// Clone deep-copies the galaxy. The clone gets its own random source seeded
// with seed.
func (g *Galaxy) Clone(seed int64) *Galaxy {
	c := &Galaxy{opts: g.opts, rng: rand.New(rand.NewSource(seed))}
	c.opts.Seed = seed
	for _, b := range g.planets {
		c.planets = append(c.planets, b.clone())
	}
	for _, a := range g.asteroids {
		c.asteroids = append(c.asteroids, a.clone())
	}
	c.last = c.planets[len(c.planets)-1]
	return c
}

// KineticEnergy sums 0.5*m*|v|^2 over planets, with v in units per step.
func (g *Galaxy) KineticEnergy() float64 {
	e := 0.0
	for _, b := range g.planets {
		e += 0.5 * b.Mass * b.Velocity.Norm2()
	}
	return e
}

// PotentialEnergy is the pairwise Newtonian potential between planets.
func (g *Galaxy) PotentialEnergy() float64 {
	k := g.opts.G * g.opts.Scale
	e := 0.0
	for i, a := range g.planets {
		for _, b := range g.planets[i+1:] {
			r := vecmath.Dist(a.Position, b.Position)
			if r < minSeparation {
				continue
			}
			e -= k * a.Mass * b.Mass / r
		}
	}
	return e
}

func (g *Galaxy) TotalEnergy() float64 { return g.KineticEnergy() + g.PotentialEnergy() }
