// Package automation runs scripted batches and one-dimensional parameter
// sweeps over cloth and galaxy scenarios.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

// stability bound per scenario, in scene units
var bounds = map[string]float64{"cloth": 1e3, "galaxy": 1e9}

// Batch is a YAML-defined sequence of runs.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step describes one run. Preset and Config are applied over the defaults in
// that order, then Frames and Seed when non-zero, then Params on the built
// system.
type Step struct {
	System string             `yaml:"system"`
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Frames int                `yaml:"frames"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(b.Steps) == 0 {
		return nil, fmt.Errorf("%s: batch has no steps", path)
	}
	return &b, nil
}

// StepResult pairs a finished run with the driver config it used.
type StepResult struct {
	Step   Step
	Config sim.Config
	Result *sim.Result
}

// Resolve builds the merged config for a step.
func (s Step) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" && !config.Apply(cfg, s.System, s.Preset) {
		return nil, fmt.Errorf("unknown preset %s/%s", s.System, s.Preset)
	}
	if s.Config != "" {
		if err := config.LoadInto(s.Config, cfg); err != nil {
			return nil, err
		}
	}
	if s.Frames > 0 {
		cfg.Simulation.Frames = s.Frames
	}
	if s.Seed != 0 {
		cfg.Simulation.Seed = s.Seed
	}
	return cfg, cfg.Validate()
}

// Build returns the system for a scenario name.
func Build(cfg *config.Config, system string) (sim.System, error) {
	switch system {
	case "cloth":
		return cfg.BuildCloth()
	case "galaxy":
		return cfg.BuildGalaxy()
	}
	return nil, fmt.Errorf("unknown system %q", system)
}

// Metrics returns the standard metric set for a scenario.
func Metrics(system string) []sim.Metric {
	bound, ok := bounds[system]
	if !ok {
		bound = bounds["cloth"]
	}
	return metrics.Standard(bound)
}

func runOne(ctx context.Context, cfg *config.Config, system string, params map[string]float64) (*sim.Result, error) {
	sys, err := Build(cfg, system)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		t, ok := sys.(sim.Configurable)
		if !ok {
			return nil, fmt.Errorf("system %s has no parameters", system)
		}
		for k, v := range params {
			t.SetParam(k, v)
		}
	}
	s := sim.New()
	for _, m := range Metrics(system) {
		s.AddMetric(m)
	}
	return s.Run(ctx, sys, cfg.Sim())
}

// RunBatch executes the steps in order. It stops at the first failing step
// and returns what finished before it.
func RunBatch(ctx context.Context, b *Batch, progress func(i int, s Step)) ([]StepResult, error) {
	out := make([]StepResult, 0, len(b.Steps))
	for i, step := range b.Steps {
		if progress != nil {
			progress(i, step)
		}
		cfg, err := step.Resolve()
		if err != nil {
			return out, fmt.Errorf("step %d: %w", i+1, err)
		}
		result, err := runOne(ctx, cfg, step.System, step.Params)
		if err != nil {
			return out, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, StepResult{Step: step, Config: cfg.Sim(), Result: result})
	}
	return out, nil
}

// Sweep varies one parameter linearly between Min and Max.
type Sweep struct {
	System string
	Param  string
	Min    float64
	Max    float64
	Steps  int
}

type SweepPoint struct {
	Value   float64
	Metrics map[string]float64
	Drift   float64
	Stopped bool
}

// Values returns the sampled parameter values. A single step samples Min.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep runs base once per sampled value on a freshly built system.
func RunSweep(ctx context.Context, base *config.Config, s Sweep) ([]SweepPoint, error) {
	vals := s.Values()
	out := make([]SweepPoint, 0, len(vals))
	for _, v := range vals {
		result, err := runOne(ctx, base, s.System, map[string]float64{s.Param: v})
		if err != nil {
			return out, err
		}
		out = append(out, SweepPoint{
			Value:   v,
			Metrics: result.Metrics,
			Drift:   result.EnergyDrift,
			Stopped: len(result.Errors) > 0,
		})
	}
	return out, nil
}
