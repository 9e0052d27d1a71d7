package sim

import (
	"math"

	"github.com/san-kum/clothsim/internal/vecmath"
)

// State is a read-only snapshot of a system taken once per frame.
type State struct {
	Positions []vecmath.Vec3
	Energy    float64
	Strain    float64
}

func (s State) Clone() State {
	c := s
	c.Positions = append([]vecmath.Vec3(nil), s.Positions...)
	return c
}

func (s State) IsValid() bool {
	for _, p := range s.Positions {
		if !p.IsFinite() {
			return false
		}
	}
	return !math.IsNaN(s.Energy) && !math.IsInf(s.Energy, 0)
}

// Flatten lays positions out as x0, y0, z0, x1, ...
func (s State) Flatten() []float64 {
	out := make([]float64, 0, 3*len(s.Positions))
	for _, p := range s.Positions {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// Centroid is the mean position, or zero for an empty snapshot.
func (s State) Centroid() vecmath.Vec3 {
	if len(s.Positions) == 0 {
		return vecmath.Vec3{}
	}
	return vecmath.Sum(s.Positions).Scale(1 / float64(len(s.Positions)))
}

// System is one simulation the frame driver can advance. Advance runs a
// whole frame, i.e. substeps calls of the underlying step.
type System interface {
	Name() string
	Advance(fps float64, substeps int)
	Reset()
	Snapshot() State
}

// Configurable systems expose named parameters that can change mid-run.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

type Metric interface {
	Name() string
	Observe(s State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, s State, t float64)
}

type Config struct {
	FPS           float64
	Substeps      int
	Frames        int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		FPS:           90,
		Substeps:      30,
		Frames:        300,
		ValidateState: true,
	}
}

// FrameTime is the simulated length of one frame.
func (c Config) FrameTime() float64 { return 1 / c.FPS }

type Result struct {
	System      string
	States      []State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last recorded snapshot.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return State{}
	}
	return r.States[len(r.States)-1]
}
