package collision

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Type is the outcome class of a collision.
type Type int

const (
	Merge Type = iota
	Explosion
	Fragment
	BlackHoleConsume
	BlackHoleMerge
	NeutronConsume
)

var typeNames = [...]string{"merge", "explosion", "fragment", "black_hole_consume", "black_hole_merge", "neutron_consume"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// Event is one detected overlap. Detection fills A, B, ImpactVelocity,
// Position and Type; resolution fills the rest.
type Event struct {
	A, B           *physics.Body
	ImpactVelocity float64
	Position       dynamo.Vector3
	Type           Type

	// Supernova is set when a star merge crossed the supernova mass.
	Supernova bool
	// Remnant is the compact object a supernova left behind.
	Remnant physics.Kind
	// Products are the bodies scheduled for addition by this event.
	Products []*physics.Body
}

func (e *Event) String() string {
	s := fmt.Sprintf("%s: %s + %s at %.1f", e.Type, e.A.Name, e.B.Name, e.ImpactVelocity)
	if e.Supernova {
		s += fmt.Sprintf(" (supernova, %s)", e.Remnant)
	}
	return s
}

// TotalMass is the combined mass of the two colliding bodies.
func (e *Event) TotalMass() float64 { return e.A.Mass + e.B.Mass }

// Thresholds parameterise classification and supernova onset.
type Thresholds struct {
	ExplosionSpeed      float64 `yaml:"explosion_speed" json:"explosion_speed"`
	FragmentSpeed       float64 `yaml:"fragment_speed" json:"fragment_speed"`
	FragmentMassRatio   float64 `yaml:"fragment_mass_ratio" json:"fragment_mass_ratio"`
	NeutronConsumeRatio float64 `yaml:"neutron_consume_ratio" json:"neutron_consume_ratio"`
	SupernovaMass       float64 `yaml:"supernova_mass" json:"supernova_mass"`
	BlackHoleMass       float64 `yaml:"black_hole_mass" json:"black_hole_mass"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ExplosionSpeed:      50,
		FragmentSpeed:       20,
		FragmentMassRatio:   5,
		NeutronConsumeRatio: 0.5,
		SupernovaMass:       4000,
		BlackHoleMass:       6000,
	}
}

// Validate rejects non-positive thresholds and a black hole mass below the
// supernova mass.
func (t Thresholds) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"explosion_speed", t.ExplosionSpeed},
		{"fragment_speed", t.FragmentSpeed},
		{"fragment_mass_ratio", t.FragmentMassRatio},
		{"neutron_consume_ratio", t.NeutronConsumeRatio},
		{"supernova_mass", t.SupernovaMass},
		{"black_hole_mass", t.BlackHoleMass},
	}
	for _, f := range fields {
		if err := dynamo.CheckPositive(f.name, f.v, dynamo.ErrParameterBounds); err != nil {
			return err
		}
	}
	if t.BlackHoleMass < t.SupernovaMass {
		return &dynamo.ValidationError{Field: "black_hole_mass", Value: t.BlackHoleMass, Err: dynamo.ErrParameterBounds}
	}
	return nil
}
