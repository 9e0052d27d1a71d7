package metrics

import "github.com/san-kum/clothsim/internal/sim"

// Strain tracks the worst spring stretch seen in any frame.
type Strain struct {
	name string
	max  float64
}

func NewStrain() *Strain {
	return &Strain{name: "max_strain"}
}

func (s *Strain) Name() string { return s.name }

func (s *Strain) Observe(x sim.State, t float64) {
	if x.Strain > s.max {
		s.max = x.Strain
	}
}

func (s *Strain) Value() float64 { return s.max }

func (s *Strain) Reset() { s.max = 0 }
