package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// Rates is an INI overlay for run rates:
//
//	[simulation]
//	fps = 90
//	substeps = 30
//	frames = 300
//
//	[galaxy]
//	gravity-scale = 1e-5
//
// Zero values leave the config untouched.
type Rates struct {
	Simulation struct {
		FPS      float64 `gcfg:"fps"`
		Substeps int     `gcfg:"substeps"`
		Frames   int     `gcfg:"frames"`
	}
	Galaxy struct {
		GravityScale float64 `gcfg:"gravity-scale"`
	}
}

func LoadRates(path string) (*Rates, error) {
	r := &Rates{}
	if err := gcfg.ReadFileInto(r, path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func ParseRates(text string) (*Rates, error) {
	r := &Rates{}
	if err := gcfg.ReadStringInto(r, text); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Config) ApplyRates(r *Rates) {
	if r.Simulation.FPS > 0 {
		c.Simulation.FPS = r.Simulation.FPS
	}
	if r.Simulation.Substeps > 0 {
		c.Simulation.Substeps = r.Simulation.Substeps
	}
	if r.Simulation.Frames > 0 {
		c.Simulation.Frames = r.Simulation.Frames
	}
	if r.Galaxy.GravityScale > 0 {
		c.Galaxy.Scale = r.Galaxy.GravityScale
	}
}
