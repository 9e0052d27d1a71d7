package sim

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances sys for cfg.Frames frames and records a snapshot after each.
// Cancellation is checked between frames. When validation finds a bad
// snapshot the run stops and the partial result is returned with a SimError
// in Result.Errors.
func (s *Simulator) Run(ctx context.Context, sys System, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		System:  sys.Name(),
		States:  make([]State, 0, cfg.Frames+1),
		Times:   make([]float64, 0, cfg.Frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dt := cfg.FrameTime()
	t := 0.0
	x := sys.Snapshot()
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)
	s.observe(0, x, t)

	initialEnergy := x.Energy

	for frame := 1; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			s.collect(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		sys.Advance(cfg.FPS, cfg.Substeps)
		t += dt
		x = sys.Snapshot()

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{Frame: frame, Time: t, Message: "invalid state (NaN/Inf)"})
			break
		}

		result.StepsTaken++
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
		s.observe(frame, x, t)
	}

	s.collect(result, initialEnergy)
	return result, nil
}

func (s *Simulator) observe(frame int, x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnFrame(frame, x, t)
	}
}

func (s *Simulator) collect(result *Result, initialEnergy float64) {
	if initialEnergy != 0 {
		final := result.Final().Energy
		result.EnergyDrift = math.Abs(final-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.FPS > 0) {
		return fmt.Errorf("%w: fps must be positive, got %f", ErrInvalidConfig, cfg.FPS)
	}
	if cfg.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidConfig, cfg.Substeps)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, cfg.Frames)
	}
	return nil
}

// RunWithCallback advances sys frame by frame until cfg.Frames is reached,
// the callback returns false, or ctx is done. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, sys System, cfg Config, callback func(frame int, x State, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	dt := cfg.FrameTime()
	t := 0.0
	for frame := 0; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := sys.Snapshot()
		if cfg.ValidateState && !x.IsValid() {
			return SimError{Frame: frame, Time: t, Message: "invalid state (NaN/Inf)"}
		}
		if !callback(frame, x, t) {
			return nil
		}
		if frame == cfg.Frames {
			break
		}
		sys.Advance(cfg.FPS, cfg.Substeps)
		t += dt
	}
	return nil
}
