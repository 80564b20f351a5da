package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Kind tags the physical class of a body. It drives collision
// classification in place of name matching.
type Kind int

const (
	Normal Kind = iota
	Star
	NeutronStar
	BlackHole
)

var kindNames = [...]string{"normal", "star", "neutron_star", "black_hole"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	if s == "" {
		return Normal, nil
	}
	return Normal, fmt.Errorf("physics: unknown body kind %q", s)
}

// IsStar is true for every kind except Normal. Compact remnants count.
func (k Kind) IsStar() bool { return k != Normal }

// IsExotic is true for neutron stars and black holes.
func (k Kind) IsExotic() bool { return k == NeutronStar || k == BlackHole }

const (
	DefaultTrailLength = 500
	DefaultTrailEvery  = 5
)

// Spec is a request to build a body. Zero TrailLength and TrailEvery pick
// the defaults; use NoTrail to disable the trail.
type Spec struct {
	Name        string
	Mass        float64
	Radius      float64
	Position    dynamo.Vector3
	Velocity    dynamo.Vector3
	Color       dynamo.Color
	IsStar      bool
	Kind        Kind
	TrailLength int
	TrailEvery  int
}

// NoTrail as a TrailLength disables position history.
const NoTrail = -1

type Body struct {
	Name         string
	Kind         Kind
	Mass         float64
	Radius       float64
	Position     dynamo.Vector3
	Velocity     dynamo.Vector3
	Acceleration dynamo.Vector3
	Color        dynamo.Color
	Trail        *Trail
}

// NewBody validates s and builds a body at rest acceleration.
func NewBody(s Spec) (*Body, error) {
	if err := dynamo.CheckPositive("mass", s.Mass, dynamo.ErrInvalidMass); err != nil {
		return nil, err
	}
	if err := dynamo.CheckNonNegative("radius", s.Radius, dynamo.ErrInvalidRadius); err != nil {
		return nil, err
	}
	if err := dynamo.CheckVector("position", s.Position); err != nil {
		return nil, err
	}
	if err := dynamo.CheckVector("velocity", s.Velocity); err != nil {
		return nil, err
	}
	if s.TrailEvery < 0 {
		return nil, &dynamo.ValidationError{Field: "trail_every", Value: s.TrailEvery, Err: dynamo.ErrInvalidTrail}
	}
	if s.TrailLength < 0 && s.TrailLength != NoTrail {
		return nil, &dynamo.ValidationError{Field: "trail_length", Value: s.TrailLength, Err: dynamo.ErrInvalidTrail}
	}
	if s.Kind < Normal || s.Kind > BlackHole {
		return nil, fmt.Errorf("physics: body %q: unknown kind %d", s.Name, int(s.Kind))
	}

	kind := s.Kind
	if s.IsStar && kind == Normal {
		kind = Star
	}

	length, every := s.TrailLength, s.TrailEvery
	if length == 0 {
		length = DefaultTrailLength
	}
	if length == NoTrail {
		length = 0
	}
	if every == 0 {
		every = DefaultTrailEvery
	}

	return &Body{
		Name:     s.Name,
		Kind:     kind,
		Mass:     s.Mass,
		Radius:   s.Radius,
		Position: s.Position,
		Velocity: s.Velocity,
		Color:    s.Color.Clamp(),
		Trail:    NewTrail(length, every),
	}, nil
}

// MustBody is NewBody for literals known to be valid. It panics otherwise.
func MustBody(s Spec) *Body {
	b, err := NewBody(s)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Body) IsStar() bool { return b.Kind.IsStar() }

func (b *Body) ResetAcceleration() { b.Acceleration = dynamo.Zero }

// ApplyForce adds f/m to the acceleration accumulator.
func (b *Body) ApplyForce(f dynamo.Vector3) {
	b.Acceleration = b.Acceleration.Add(f.Div(b.Mass))
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LengthSquared()
}

func (b *Body) Momentum() dynamo.Vector3 {
	return b.Velocity.Scale(b.Mass)
}

// PotentialEnergyWith is the pair potential -G m1 m2 / d, or 0 when the
// bodies coincide.
func (b *Body) PotentialEnergyWith(o *Body, g float64) float64 {
	d := b.Position.DistanceTo(o.Position)
	if d == 0 {
		return 0
	}
	return -g * b.Mass * o.Mass / d
}

func (b *Body) String() string {
	return fmt.Sprintf("%s[%s m=%.3g r=%.3g at %s]", b.Name, b.Kind, b.Mass, b.Radius, b.Position)
}

// OrbitalVelocity is the circular orbit speed at distance r from a
// central mass.
func OrbitalVelocity(g, centralMass, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * centralMass / r)
}
