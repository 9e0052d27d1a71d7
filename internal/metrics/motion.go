package metrics

import (
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/vecmath"
)

// Motion is the mean distance the centroid travels per frame. A settled
// cloth drives it toward zero.
type Motion struct {
	name    string
	last    vecmath.Vec3
	sum     float64
	samples int
}

func NewMotion() *Motion {
	return &Motion{name: "motion"}
}

func (m *Motion) Name() string { return m.name }

func (m *Motion) Observe(x sim.State, t float64) {
	c := x.Centroid()
	if m.samples > 0 {
		m.sum += vecmath.Dist(m.last, c)
	}
	m.last = c
	m.samples++
}

func (m *Motion) Value() float64 {
	if m.samples < 2 {
		return 0
	}
	return m.sum / float64(m.samples-1)
}

func (m *Motion) Reset() {
	m.last = vecmath.Vec3{}
	m.sum = 0
	m.samples = 0
}

// Standard returns the metrics every run records.
func Standard(threshold float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStrain(),
		NewStability(threshold),
		NewMotion(),
	}
}
