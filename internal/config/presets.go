package config

import (
	"sort"

	"github.com/san-kum/clothsim/internal/gravity"
)

// Presets modify DefaultConfig per scenario. Scenarios are "cloth" and
// "galaxy".
var Presets = map[string]map[string]func(*Config){
	"cloth": {
		"pinned2": func(c *Config) {
			n := c.Cloth.NumWidthPoints
			c.Cloth.Orientation = "vertical"
			c.Cloth.Pinned = [][2]int{{0, n - 1}, {n - 1, n - 1}}
		},
		"pinned4": func(c *Config) {
			w, h := c.Cloth.NumWidthPoints, c.Cloth.NumHeightPoints
			c.Cloth.Orientation = "horizontal"
			c.Cloth.Pinned = [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}}
		},
		"sphere": func(c *Config) {
			c.Cloth.Orientation = "horizontal"
			c.Cloth.Pinned = nil
			c.Cloth.Spheres = []SphereConfig{{Origin: [3]float64{0.5, 0, 0.5}, Radius: 0.08, Friction: 0.3}}
		},
		"plane": func(c *Config) {
			c.Cloth.Orientation = "vertical"
			c.Cloth.Pinned = nil
			c.Cloth.Planes = []PlaneConfig{{Point: [3]float64{0.5, -0.5, 0}, Normal: [3]float64{0, 1, 0}, Friction: 0.5}}
		},
	},
	"galaxy": {
		"solar": func(c *Config) {
			c.Galaxy.Bodies = nil
			c.Galaxy.Generate = &GenerateConfig{
				Planets: 5, StarMass: 1e13, StarRadius: 8,
				PlanetMass: 1e3, PlanetRadius: 2, InnerOrbit: 100, Spacing: 60,
			}
		},
		"binary": func(c *Config) {
			// equal masses circling their midpoint at distance r
			const m, r = 1e13, 50.0
			v := gravity.CircularSpeed(c.Galaxy.G, c.Galaxy.Scale, m, r) / 2
			c.Galaxy.Generate = nil
			c.Galaxy.Bodies = []BodyConfig{
				{Name: "a", Origin: [3]float64{-r, 0, 0}, Velocity: [3]float64{0, 0, -v}, Radius: 6, Mass: m},
				{Name: "b", Origin: [3]float64{r, 0, 0}, Velocity: [3]float64{0, 0, v}, Radius: 6, Mass: m},
			}
		},
		"belt": func(c *Config) {
			c.Galaxy.Bodies = nil
			c.Galaxy.Generate = &GenerateConfig{
				Planets: 3, Asteroids: 150, StarMass: 1e13, StarRadius: 8,
				PlanetMass: 1e3, PlanetRadius: 2, InnerOrbit: 100, Spacing: 60,
				BeltInner: 300, BeltOuter: 340,
			}
		},
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	apply, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply runs a preset on an existing config.
func Apply(cfg *Config, scenario, preset string) bool {
	apply, ok := Presets[scenario][preset]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Scenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
