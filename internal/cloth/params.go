package cloth

const (
	DefaultKs      = 5000.0
	DefaultDamping = 0.2
	DefaultDensity = 15.0

	// bendingFactor softens bending springs relative to ks.
	bendingFactor = 0.2
	// maxStretch is the strain limit applied after collisions.
	maxStretch = 1.1
)

// Params is the per-step parameter block a driver pushes into Step.
// Damping is a percentage of the implicit velocity removed each step.
type Params struct {
	Structural bool    `yaml:"structural"`
	Shearing   bool    `yaml:"shearing"`
	Bending    bool    `yaml:"bending"`
	Ks         float64 `yaml:"ks"`
	Damping    float64 `yaml:"damping"`
	Density    float64 `yaml:"density"`
}

func DefaultParams() Params {
	return Params{
		Structural: true,
		Shearing:   true,
		Bending:    true,
		Ks:         DefaultKs,
		Damping:    DefaultDamping,
		Density:    DefaultDensity,
	}
}

// Enabled reports whether springs of kind take part in forces and strain
// limiting.
func (p *Params) Enabled(kind SpringKind) bool {
	switch kind {
	case Structural:
		return p.Structural
	case Shearing:
		return p.Shearing
	case Bending:
		return p.Bending
	}
	return false
}

// stiffness is the effective ks for a spring kind.
func (p *Params) stiffness(kind SpringKind) float64 {
	if kind == Bending {
		return p.Ks * bendingFactor
	}
	return p.Ks
}

// GetParams exposes the tunable values by name for the live view.
func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"ks":      p.Ks,
		"damping": p.Damping,
		"density": p.Density,
	}
}

func (p *Params) SetParam(name string, value float64) {
	switch name {
	case "ks":
		p.Ks = value
	case "damping":
		p.Damping = value
	case "density":
		p.Density = value
	}
}
