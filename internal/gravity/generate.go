package gravity

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/clothsim/internal/vecmath"
)

// GenerateOptions describes a procedural system: a star at the origin,
// planets on circular orbits in the xz-plane and an optional asteroid belt.
type GenerateOptions struct {
	Planets      int
	Asteroids    int
	StarMass     float64
	StarRadius   float64
	PlanetMass   float64
	PlanetRadius float64
	// InnerOrbit is the first planet's orbit radius; each further planet
	// sits Spacing farther out.
	InnerOrbit float64
	Spacing    float64
	BeltInner  float64
	BeltOuter  float64
	G          float64
	Scale      float64
	Seed       int64
}

// CircularSpeed is the per-step speed of a circular orbit of radius r around
// a mass m.
func CircularSpeed(g, scale, m, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * scale * m / r)
}

// Generate builds the bodies for New. Angles are drawn from a source seeded
// with opts.Seed.
func Generate(opts GenerateOptions) (planets, asteroids []*Body, err error) {
	if opts.StarMass <= 0 || opts.StarRadius <= 0 {
		return nil, nil, fmt.Errorf("%w: star mass %g radius %g", ErrInvalidBody, opts.StarMass, opts.StarRadius)
	}
	if opts.Planets < 0 || opts.Asteroids < 0 {
		return nil, nil, fmt.Errorf("%w: negative body count", ErrInvalidBody)
	}
	if opts.G == 0 {
		opts.G = DefaultG
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	star := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, opts.StarRadius, opts.StarMass, 0)
	star.Name = "star"
	planets = append(planets, star)

	for i := 0; i < opts.Planets; i++ {
		r := opts.InnerOrbit + float64(i)*opts.Spacing
		b := orbiting(rng, opts, r, opts.PlanetRadius, opts.PlanetMass)
		b.Name = fmt.Sprintf("planet-%d", i+1)
		planets = append(planets, b)
	}

	for i := 0; i < opts.Asteroids; i++ {
		r := opts.BeltInner + rng.Float64()*(opts.BeltOuter-opts.BeltInner)
		b := orbiting(rng, opts, r, opts.PlanetRadius/10, opts.PlanetMass*1e-6)
		b.Name = fmt.Sprintf("asteroid-%d", i+1)
		asteroids = append(asteroids, b)
	}

	for _, set := range [][]*Body{planets, asteroids} {
		for _, b := range set {
			if err := b.Validate(); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", b.Name, err)
			}
		}
	}
	return planets, asteroids, nil
}

func orbiting(rng *rand.Rand, opts GenerateOptions, r, radius, mass float64) *Body {
	theta := rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(theta)
	pos := vecmath.Vec3{X: r * cos, Z: r * sin}
	v := CircularSpeed(opts.G, opts.Scale, opts.StarMass, r)
	vel := vecmath.Vec3{X: -sin * v, Z: cos * v}
	return NewBody(pos, vel, radius, mass, 0)
}
