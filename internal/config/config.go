package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/collision"
	"github.com/san-kum/clothsim/internal/gravity"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/vecmath"
)

const (
	DefaultFPS         = 90.0
	DefaultSubsteps    = 30
	DefaultFrames      = 300
	DefaultGridPoints  = 32
	DefaultThickness   = 0.01
	DefaultGravity     = -9.8
	DefaultOrientation = "vertical"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Cloth      ClothConfig      `yaml:"cloth"`
	Galaxy     GalaxyConfig     `yaml:"galaxy"`
}

type SimulationConfig struct {
	FPS      float64 `yaml:"fps"`
	Substeps int     `yaml:"substeps"`
	Frames   int     `yaml:"frames"`
	Seed     int64   `yaml:"seed"`
}

type ClothConfig struct {
	Width           float64        `yaml:"width"`
	Height          float64        `yaml:"height"`
	NumWidthPoints  int            `yaml:"num_width_points"`
	NumHeightPoints int            `yaml:"num_height_points"`
	Thickness       float64        `yaml:"thickness"`
	Orientation     string         `yaml:"orientation"`
	Pinned          [][2]int       `yaml:"pinned"`
	Params          cloth.Params   `yaml:"params"`
	Accelerations   [][3]float64   `yaml:"accelerations"`
	Spheres         []SphereConfig `yaml:"spheres,omitempty"`
	Planes          []PlaneConfig  `yaml:"planes,omitempty"`
}

type SphereConfig struct {
	Origin   [3]float64 `yaml:"origin"`
	Radius   float64    `yaml:"radius"`
	Friction float64    `yaml:"friction"`
}

type PlaneConfig struct {
	Point    [3]float64 `yaml:"point"`
	Normal   [3]float64 `yaml:"normal"`
	Friction float64    `yaml:"friction"`
}

type GalaxyConfig struct {
	G             float64         `yaml:"g"`
	Scale         float64         `yaml:"scale"`
	MinMultiplier float64         `yaml:"min_multiplier"`
	MaxMultiplier float64         `yaml:"max_multiplier"`
	Trails        bool            `yaml:"trails"`
	Bodies        []BodyConfig    `yaml:"bodies,omitempty"`
	Asteroids     []BodyConfig    `yaml:"asteroids,omitempty"`
	Generate      *GenerateConfig `yaml:"generate,omitempty"`
}

type BodyConfig struct {
	Name     string     `yaml:"name,omitempty"`
	Origin   [3]float64 `yaml:"origin"`
	Velocity [3]float64 `yaml:"velocity"`
	Radius   float64    `yaml:"radius"`
	Mass     float64    `yaml:"mass"`
	Friction float64    `yaml:"friction"`
}

type GenerateConfig struct {
	Planets      int     `yaml:"planets"`
	Asteroids    int     `yaml:"asteroids"`
	StarMass     float64 `yaml:"star_mass"`
	StarRadius   float64 `yaml:"star_radius"`
	PlanetMass   float64 `yaml:"planet_mass"`
	PlanetRadius float64 `yaml:"planet_radius"`
	InnerOrbit   float64 `yaml:"inner_orbit"`
	Spacing      float64 `yaml:"spacing"`
	BeltInner    float64 `yaml:"belt_inner"`
	BeltOuter    float64 `yaml:"belt_outer"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FPS:      DefaultFPS,
			Substeps: DefaultSubsteps,
			Frames:   DefaultFrames,
		},
		Cloth: ClothConfig{
			Width:           1,
			Height:          1,
			NumWidthPoints:  DefaultGridPoints,
			NumHeightPoints: DefaultGridPoints,
			Thickness:       DefaultThickness,
			Orientation:     DefaultOrientation,
			Pinned:          [][2]int{{0, DefaultGridPoints - 1}, {DefaultGridPoints - 1, DefaultGridPoints - 1}},
			Params:          cloth.DefaultParams(),
			Accelerations:   [][3]float64{{0, DefaultGravity, 0}},
		},
		Galaxy: GalaxyConfig{
			G:             gravity.DefaultG,
			Scale:         1,
			MinMultiplier: gravity.DefaultMinMultiplier,
			MaxMultiplier: gravity.DefaultMaxMultiplier,
			Trails:        true,
			Generate: &GenerateConfig{
				Planets:      4,
				StarMass:     1e13,
				StarRadius:   8,
				PlanetMass:   1e3,
				PlanetRadius: 2,
				InnerOrbit:   100,
				Spacing:      60,
			},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays a YAML file on cfg. Keys absent from the file keep their
// current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	s := c.Simulation
	if !(s.FPS > 0) {
		return fmt.Errorf("%w: fps must be positive, got %f", ErrInvalidConfig, s.FPS)
	}
	if s.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidConfig, s.Substeps)
	}
	if s.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, s.Frames)
	}
	if c.Cloth.NumWidthPoints <= 0 || c.Cloth.NumHeightPoints <= 0 {
		return fmt.Errorf("%w: cloth resolution %dx%d", ErrInvalidConfig, c.Cloth.NumWidthPoints, c.Cloth.NumHeightPoints)
	}
	if _, err := parseOrientation(c.Cloth.Orientation); err != nil {
		return err
	}
	if c.Galaxy.Scale < 0 {
		return fmt.Errorf("%w: gravity scale must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Sim converts the simulation section into a frame driver config.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		FPS:           c.Simulation.FPS,
		Substeps:      c.Simulation.Substeps,
		Frames:        c.Simulation.Frames,
		Seed:          c.Simulation.Seed,
		ValidateState: true,
	}
}

func parseOrientation(s string) (cloth.Orientation, error) {
	switch s {
	case "", "vertical":
		return cloth.Vertical, nil
	case "horizontal":
		return cloth.Horizontal, nil
	}
	return 0, fmt.Errorf("%w: unknown orientation %q", ErrInvalidConfig, s)
}

func (c *ClothConfig) Options(seed int64) (cloth.Options, error) {
	o, err := parseOrientation(c.Orientation)
	if err != nil {
		return cloth.Options{}, err
	}
	return cloth.Options{
		Width:           c.Width,
		Height:          c.Height,
		NumWidthPoints:  c.NumWidthPoints,
		NumHeightPoints: c.NumHeightPoints,
		Thickness:       c.Thickness,
		Orientation:     o,
		Pinned:          c.Pinned,
		Seed:            seed,
	}, nil
}

func (c *ClothConfig) AccelerationVectors() []vecmath.Vec3 {
	out := make([]vecmath.Vec3, len(c.Accelerations))
	for i, a := range c.Accelerations {
		out[i] = vecmath.FromSlice(a[:])
	}
	return out
}

// Primitives lists spheres before planes.
func (c *ClothConfig) Primitives() []collision.Primitive {
	prims := make([]collision.Primitive, 0, len(c.Spheres)+len(c.Planes))
	for _, s := range c.Spheres {
		prims = append(prims, collision.NewSphere(vecmath.FromSlice(s.Origin[:]), s.Radius, s.Friction))
	}
	for _, p := range c.Planes {
		prims = append(prims, collision.NewPlane(vecmath.FromSlice(p.Point[:]), vecmath.FromSlice(p.Normal[:]), p.Friction))
	}
	return prims
}

// BuildCloth assembles a ready-to-run cloth system.
func (c *Config) BuildCloth() (*sim.ClothSystem, error) {
	opts, err := c.Cloth.Options(c.Simulation.Seed)
	if err != nil {
		return nil, err
	}
	grid, err := cloth.New(opts)
	if err != nil {
		return nil, err
	}
	params := c.Cloth.Params
	return sim.NewClothSystem(grid, &params, c.Cloth.AccelerationVectors(), c.Cloth.Primitives()), nil
}

func (g *GalaxyConfig) Options(seed int64) gravity.Options {
	return gravity.Options{
		G:             g.G,
		Scale:         g.Scale,
		MinMultiplier: g.MinMultiplier,
		MaxMultiplier: g.MaxMultiplier,
		Seed:          seed,
		Trails:        g.Trails,
	}
}

func (b BodyConfig) Body() *gravity.Body {
	body := gravity.NewBody(vecmath.FromSlice(b.Origin[:]), vecmath.FromSlice(b.Velocity[:]), b.Radius, b.Mass, b.Friction)
	body.Name = b.Name
	return body
}

// BuildGalaxy uses explicit bodies when present and the generator otherwise.
func (c *Config) BuildGalaxy() (*sim.GalaxySystem, error) {
	g := c.Galaxy
	var planets, asteroids []*gravity.Body

	switch {
	case len(g.Bodies) > 0:
		for _, b := range g.Bodies {
			planets = append(planets, b.Body())
		}
		for _, a := range g.Asteroids {
			asteroids = append(asteroids, a.Body())
		}
	case g.Generate != nil:
		var err error
		planets, asteroids, err = gravity.Generate(gravity.GenerateOptions{
			Planets:      g.Generate.Planets,
			Asteroids:    g.Generate.Asteroids,
			StarMass:     g.Generate.StarMass,
			StarRadius:   g.Generate.StarRadius,
			PlanetMass:   g.Generate.PlanetMass,
			PlanetRadius: g.Generate.PlanetRadius,
			InnerOrbit:   g.Generate.InnerOrbit,
			Spacing:      g.Generate.Spacing,
			BeltInner:    g.Generate.BeltInner,
			BeltOuter:    g.Generate.BeltOuter,
			G:            g.G,
			Scale:        g.Scale,
			Seed:         c.Simulation.Seed,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: galaxy has neither bodies nor a generator", ErrInvalidConfig)
	}

	galaxy, err := gravity.New(planets, asteroids, g.Options(c.Simulation.Seed))
	if err != nil {
		return nil, err
	}
	return sim.NewGalaxySystem(galaxy), nil
}
