package config

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Triple is an [x, y, z] vector or an [r, g, b] color in YAML.
type Triple [3]float64

func (t Triple) Vector() dynamo.Vector3 { return dynamo.V(t[0], t[1], t[2]) }

func (t Triple) Color() dynamo.Color { return dynamo.RGB(t[0], t[1], t[2]) }

func tripleOf(v dynamo.Vector3) Triple { return Triple{v.X, v.Y, v.Z} }

type Scene struct {
	Name       string       `yaml:"name"`
	Bodies     []BodyConfig `yaml:"bodies,omitempty"`
	Generators []Generator  `yaml:"generators,omitempty"`
}

// BodyConfig describes one body. Template fills mass, radius, color and
// star flag from the catalog; explicit non-zero fields override it. With
// Orbit set, Position and Velocity are offsets from a circular orbit.
type BodyConfig struct {
	Name        string  `yaml:"name"`
	Template    string  `yaml:"template,omitempty"`
	Kind        string  `yaml:"kind,omitempty"`
	Mass        float64 `yaml:"mass,omitempty"`
	Radius      float64 `yaml:"radius,omitempty"`
	Position    Triple  `yaml:"position,flow"`
	Velocity    Triple  `yaml:"velocity,flow"`
	Color       *Triple `yaml:"color,flow,omitempty"`
	IsStar      bool    `yaml:"is_star,omitempty"`
	TrailLength int     `yaml:"trail_length,omitempty"`
	Orbit       *Orbit  `yaml:"orbit,omitempty"`
}

// Orbit places a body on a circular orbit around an earlier body. Angle
// is measured in the xz plane from +x; Inclination tilts the orbital
// plane about the x axis. Both are radians.
type Orbit struct {
	Around      string  `yaml:"around"`
	Distance    float64 `yaml:"distance"`
	Angle       float64 `yaml:"angle,omitempty"`
	Inclination float64 `yaml:"inclination,omitempty"`
	Retrograde  bool    `yaml:"retrograde,omitempty"`
}

const (
	GeneratorBelt    = "belt"
	GeneratorPlanets = "planets"
)

// Generator scatters bodies around a central body. A belt is a ring of
// light asteroids between Inner and Outer; planets are spaced evenly out
// to Outer with small random jitter.
type Generator struct {
	Type   string  `yaml:"type"`
	Around string  `yaml:"around"`
	Count  int     `yaml:"count"`
	Inner  float64 `yaml:"inner"`
	Outer  float64 `yaml:"outer"`
	Height float64 `yaml:"height,omitempty"`
	Mass   float64 `yaml:"mass,omitempty"`
}

var asteroidGray = Triple{0.5, 0.5, 0.5}

var planetPalette = []Triple{
	{0.8, 0.4, 0.2},
	{0.3, 0.6, 0.9},
	{0.2, 0.8, 0.3},
	{0.9, 0.7, 0.4},
	{0.6, 0.2, 0.6},
	{0.9, 0.5, 0.5},
	{0.4, 0.8, 0.8},
	{0.8, 0.8, 0.2},
}

// Template is a catalog entry for a common body.
type Template struct {
	Mass   float64
	Radius float64
	Color  Triple
	IsStar bool
}

var templates = map[string]Template{
	"sun":        {1000, 30, Triple{1, 0.9, 0}, true},
	"red_dwarf":  {500, 15, Triple{1, 0.4, 0.2}, true},
	"blue_giant": {2000, 45, Triple{0.6, 0.8, 1}, true},
	"mercury":    {0.06, 3, Triple{0.7, 0.7, 0.7}, false},
	"venus":      {0.8, 5, Triple{0.9, 0.7, 0.5}, false},
	"earth":      {1, 6, Triple{0.2, 0.5, 1}, false},
	"mars":       {0.1, 4, Triple{0.8, 0.3, 0.1}, false},
	"jupiter":    {10, 15, Triple{0.8, 0.7, 0.6}, false},
	"saturn":     {5, 12, Triple{0.9, 0.8, 0.5}, false},
	"uranus":     {3, 8, Triple{0.6, 0.8, 0.9}, false},
	"neptune":    {3, 8, Triple{0.3, 0.4, 0.9}, false},
	"moon":       {0.01, 4, Triple{0.7, 0.7, 0.7}, false},
	"asteroid":   {0.001, 2, asteroidGray, false},
	"comet":      {0.0001, 2, Triple{0.8, 0.9, 1}, false},
}

func GetTemplate(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

func ListTemplates() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build resolves the scene into body specs. Bodies come first in file
// order, then generated bodies; g sets orbital speeds and seed drives the
// generators.
func (s Scene) Build(g float64, seed int64) ([]physics.Spec, error) {
	specs := make([]physics.Spec, 0, len(s.Bodies))
	byName := make(map[string]physics.Spec, len(s.Bodies))

	for i, bc := range s.Bodies {
		spec, err := bc.spec(g, byName)
		if err != nil {
			return nil, fmt.Errorf("scene %q body %d (%s): %w", s.Name, i, bc.Name, err)
		}
		if _, err := physics.NewBody(spec); err != nil {
			return nil, fmt.Errorf("scene %q body %d (%s): %w", s.Name, i, bc.Name, err)
		}
		specs = append(specs, spec)
		byName[spec.Name] = spec
	}

	rng := rand.New(rand.NewSource(seed))
	for i, gen := range s.Generators {
		out, err := gen.generate(g, byName, rng)
		if err != nil {
			return nil, fmt.Errorf("scene %q generator %d (%s): %w", s.Name, i, gen.Type, err)
		}
		specs = append(specs, out...)
	}
	return specs, nil
}

func (bc BodyConfig) spec(g float64, known map[string]physics.Spec) (physics.Spec, error) {
	spec := physics.Spec{
		Name:        bc.Name,
		Mass:        bc.Mass,
		Radius:      bc.Radius,
		Position:    bc.Position.Vector(),
		Velocity:    bc.Velocity.Vector(),
		Color:       dynamo.White,
		IsStar:      bc.IsStar,
		TrailLength: bc.TrailLength,
	}

	if bc.Template != "" {
		t, ok := templates[bc.Template]
		if !ok {
			return spec, fmt.Errorf("unknown template %q", bc.Template)
		}
		if spec.Mass == 0 {
			spec.Mass = t.Mass
		}
		if spec.Radius == 0 {
			spec.Radius = t.Radius
		}
		spec.Color = t.Color.Color()
		spec.IsStar = spec.IsStar || t.IsStar
	}
	if bc.Color != nil {
		spec.Color = bc.Color.Color()
	}

	kind, err := physics.ParseKind(bc.Kind)
	if err != nil {
		return spec, err
	}
	spec.Kind = kind

	if bc.Orbit != nil {
		o := bc.Orbit
		center, ok := known[o.Around]
		if !ok {
			return spec, fmt.Errorf("orbit around unknown body %q", o.Around)
		}
		if err := dynamo.CheckPositive("orbit.distance", o.Distance, dynamo.ErrParameterBounds); err != nil {
			return spec, err
		}
		pos, vel := circularOrbit(g, center, o)
		spec.Position = spec.Position.Add(pos)
		spec.Velocity = spec.Velocity.Add(vel)
	}
	return spec, nil
}

// circularOrbit returns the absolute position and velocity of a body on a
// circular orbit around center, ignoring the orbiting body's own mass.
func circularOrbit(g float64, center physics.Spec, o *Orbit) (dynamo.Vector3, dynamo.Vector3) {
	sa, ca := math.Sincos(o.Angle)
	si, ci := math.Sincos(o.Inclination)
	v := physics.OrbitalVelocity(g, center.Mass, o.Distance)
	if o.Retrograde {
		v = -v
	}
	offset := dynamo.V(o.Distance*ca, o.Distance*sa*si, o.Distance*sa*ci)
	dir := dynamo.V(-sa, ca*si, ca*ci)
	return center.Position.Add(offset), center.Velocity.Add(dir.Scale(v))
}

func (gen Generator) generate(g float64, known map[string]physics.Spec, rng *rand.Rand) ([]physics.Spec, error) {
	center, ok := known[gen.Around]
	if !ok {
		return nil, fmt.Errorf("unknown central body %q", gen.Around)
	}
	if gen.Count < 0 {
		return nil, &dynamo.ValidationError{Field: "count", Value: gen.Count, Err: dynamo.ErrParameterBounds}
	}
	if !(gen.Inner > 0) || gen.Outer < gen.Inner {
		return nil, &dynamo.ValidationError{Field: "inner", Value: gen.Inner, Err: dynamo.ErrParameterBounds}
	}

	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	switch gen.Type {
	case GeneratorBelt:
		mass := gen.Mass
		if mass == 0 {
			mass = templates["asteroid"].Mass
		}
		out := make([]physics.Spec, 0, gen.Count)
		for i := 0; i < gen.Count; i++ {
			r := uniform(gen.Inner, gen.Outer)
			angle := uniform(0, 2*math.Pi)
			h := uniform(-gen.Height, gen.Height)
			sa, ca := math.Sincos(angle)
			v := physics.OrbitalVelocity(g, center.Mass, r)
			vel := dynamo.V(-v*sa+uniform(-0.05*v, 0.05*v), 0, v*ca+uniform(-0.05*v, 0.05*v))
			out = append(out, physics.Spec{
				Name:        fmt.Sprintf("Asteroid_%d", i),
				Mass:        mass,
				Radius:      uniform(1, 3),
				Position:    center.Position.Add(dynamo.V(r*ca, h, r*sa)),
				Velocity:    center.Velocity.Add(vel),
				Color:       asteroidGray.Color(),
				TrailLength: 100,
			})
		}
		return out, nil

	case GeneratorPlanets:
		out := make([]physics.Spec, 0, gen.Count)
		span := gen.Outer - gen.Inner
		for i := 0; i < gen.Count; i++ {
			d := gen.Inner + span*float64(i+1)/float64(gen.Count+1) + uniform(-20, 20)
			if d < gen.Inner {
				d = gen.Inner
			}
			o := &Orbit{Distance: d, Angle: uniform(0, 2*math.Pi)}
			pos, vel := circularOrbit(g, center, o)
			pos.Y = center.Position.Y + d*uniform(-0.05, 0.05)
			out = append(out, physics.Spec{
				Name:     fmt.Sprintf("Planet_%d", i+1),
				Mass:     uniform(0.5, 10),
				Radius:   uniform(4, 10),
				Position: pos,
				Velocity: vel,
				Color:    planetPalette[rng.Intn(len(planetPalette))].Color(),
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown generator type %q", gen.Type)
}
