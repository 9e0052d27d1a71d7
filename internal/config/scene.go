package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSceneObject = errors.New("config: invalid scene object found")
	ErrIncompleteSphere   = errors.New("config: incomplete sphere definition")
)

// sceneKeys are the top-level objects a legacy scene may carry. Only
// "spheres" is read; the others are accepted and ignored.
var sceneKeys = map[string]bool{
	"sphere":  true,
	"spheres": true,
	"plane":   true,
	"cloth":   true,
}

// Scene is a legacy JSON scene: {"spheres": [{origin, radius, friction,
// velocity, mass}, ...]}.
type Scene struct {
	Bodies []BodyConfig
	// DisplayScale divides positions for display. It is 10^k where k is the
	// number of decimal digits of the smallest non-zero origin coordinate,
	// minus one.
	DisplayScale float64
}

type sphereDef struct {
	Origin   *[3]float64 `yaml:"origin"`
	Radius   *float64    `yaml:"radius"`
	Friction *float64    `yaml:"friction"`
	Velocity *[3]float64 `yaml:"velocity"`
	Mass     *float64    `yaml:"mass"`
}

func (d sphereDef) missing() string {
	switch {
	case d.Origin == nil:
		return "origin"
	case d.Radius == nil:
		return "radius"
	case d.Friction == nil:
		return "friction"
	case d.Velocity == nil:
		return "velocity"
	case d.Mass == nil:
		return "mass"
	}
	return ""
}

func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// ParseScene decodes a legacy scene. JSON is read through the YAML decoder.
func ParseScene(data []byte) (*Scene, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scene := &Scene{}
	for _, key := range keys {
		if !sceneKeys[key] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSceneObject, key)
		}
		if key != "spheres" {
			continue
		}
		node := raw[key]
		var defs []sphereDef
		if err := node.Decode(&defs); err != nil {
			return nil, fmt.Errorf("spheres: %w", err)
		}
		for i, d := range defs {
			if field := d.missing(); field != "" {
				return nil, fmt.Errorf("%w, missing %s (sphere %d)", ErrIncompleteSphere, field, i)
			}
			scene.Bodies = append(scene.Bodies, BodyConfig{
				Name:     fmt.Sprintf("sphere-%d", i),
				Origin:   *d.Origin,
				Velocity: *d.Velocity,
				Radius:   *d.Radius,
				Mass:     *d.Mass,
				Friction: *d.Friction,
			})
		}
	}

	scene.DisplayScale = DisplayScale(scene.Bodies)
	return scene, nil
}

// DisplayScale picks a power of ten from the smallest non-zero origin
// coordinate so that the scene fits a unit-sized view.
func DisplayScale(bodies []BodyConfig) float64 {
	smallest := math.Inf(1)
	for _, b := range bodies {
		for _, c := range b.Origin {
			if c != 0 && c < smallest {
				smallest = c
			}
		}
	}
	if math.IsInf(smallest, 1) {
		return 1
	}
	count := 0
	for v := smallest; v >= 10; v /= 10 {
		count++
	}
	return math.Pow(10, float64(count))
}

// ApplyScene replaces the configured galaxy bodies with the scene's.
func (c *Config) ApplyScene(s *Scene) {
	c.Galaxy.Bodies = append([]BodyConfig(nil), s.Bodies...)
	c.Galaxy.Asteroids = nil
	c.Galaxy.Generate = nil
}
