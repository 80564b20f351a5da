package collision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(name string, kind physics.Kind, mass, radius float64) *physics.Body {
	return physics.MustBody(physics.Spec{Name: name, Kind: kind, Mass: mass, Radius: radius})
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name   string
		a, b   *physics.Body
		impact float64
		want   Type
	}{
		{"black hole eats planet", body("bh", physics.BlackHole, 100, 8), body("p", physics.Normal, 1, 1), 500, BlackHoleConsume},
		{"black hole eats star", body("s", physics.Star, 1000, 20), body("bh", physics.BlackHole, 10, 8), 0, BlackHoleConsume},
		{"two black holes", body("a", physics.BlackHole, 100, 8), body("b", physics.BlackHole, 100, 8), 0, BlackHoleMerge},
		{"neutron eats light rock", body("ns", physics.NeutronStar, 100, 4), body("r", physics.Normal, 49, 1), 100, NeutronConsume},
		{"neutron vs heavy rock", body("ns", physics.NeutronStar, 100, 4), body("r", physics.Normal, 50, 1), 100, Merge},
		{"neutron vs star", body("ns", physics.NeutronStar, 100, 4), body("s", physics.Star, 1, 1), 100, Merge},
		{"star always merges", body("s", physics.Star, 10, 5), body("r", physics.Normal, 10, 1), 1000, Merge},
		{"fast rocks explode", body("a", physics.Normal, 1, 1), body("b", physics.Normal, 1, 1), 51, Explosion},
		{"medium equal rocks fragment", body("a", physics.Normal, 2, 1), body("b", physics.Normal, 1, 1), 30, Fragment},
		{"medium unequal rocks merge", body("a", physics.Normal, 10, 1), body("b", physics.Normal, 1, 1), 30, Merge},
		{"slow rocks merge", body("a", physics.Normal, 1, 1), body("b", physics.Normal, 1, 1), 20, Merge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.a, tt.b, tt.impact, th))
			assert.Equal(t, tt.want, Classify(tt.b, tt.a, tt.impact, th), "symmetric")
		})
	}
}

func TestDetect(t *testing.T) {
	a := physics.MustBody(physics.Spec{Name: "a", Mass: 3, Radius: 1, Velocity: dynamo.V(1, 0, 0)})
	b := physics.MustBody(physics.Spec{Name: "b", Mass: 1, Radius: 1, Position: dynamo.V(1.5, 0, 0), Velocity: dynamo.V(-2, 4, 0)})
	far := physics.MustBody(physics.Spec{Name: "far", Mass: 1, Radius: 1, Position: dynamo.V(100, 0, 0)})
	touching := physics.MustBody(physics.Spec{Name: "t", Mass: 1, Radius: 1, Position: dynamo.V(102, 0, 0)})

	events := Detect([]*physics.Body{a, b, far, touching}, NewBatch(), DefaultThresholds())
	require.Len(t, events, 1, "exact contact is not a collision")

	ev := events[0]
	assert.Same(t, a, ev.A)
	assert.Same(t, b, ev.B)
	assert.InDelta(t, 5.0, ev.ImpactVelocity, 1e-12)
	assert.InDelta(t, 0.375, ev.Position.X, 1e-12, "centre of mass of the pair")
	assert.Equal(t, Merge, ev.Type)

	batch := NewBatch()
	batch.Remove(a)
	assert.Empty(t, Detect([]*physics.Body{a, b}, batch, DefaultThresholds()))
}

func TestBatch_Apply(t *testing.T) {
	a := body("a", physics.Normal, 1, 1)
	b := body("b", physics.Normal, 1, 1)
	c := body("c", physics.Normal, 1, 1)
	d := body("d", physics.Normal, 1, 1)
	e := body("e", physics.Normal, 1, 1)

	batch := NewBatch()
	batch.Remove(b)
	batch.Add(d)
	batch.Add(e)
	assert.Equal(t, 3, batch.Len())
	assert.True(t, batch.Removed(b))
	assert.False(t, batch.Removed(a))

	roster := []*physics.Body{a, b, c}
	out := batch.Apply(roster)
	assert.Equal(t, []*physics.Body{a, c, d, e}, out)
	assert.Equal(t, []*physics.Body{a, b, c}, roster, "input roster untouched")
	assert.Equal(t, 0, batch.Len())

	var nilBatch *Batch
	assert.False(t, nilBatch.Removed(a))
}

func newResolver() (*Resolver, *particles.System) {
	rng := rand.New(rand.NewSource(7))
	ps := particles.NewSystem(particles.DefaultCapacity, rng)
	return NewResolver(DefaultThresholds(), ps, rng, nil), ps
}

func resolveOne(t *testing.T, r *Resolver, a, b *physics.Body, impact float64) (*Event, *Batch) {
	t.Helper()
	batch := NewBatch()
	ev := &Event{
		A: a, B: b,
		ImpactVelocity: impact,
		Position:       a.Position.Scale(a.Mass).Add(b.Position.Scale(b.Mass)).Div(a.Mass + b.Mass),
		Type:           Classify(a, b, impact, r.Thresholds),
	}
	require.True(t, r.Resolve(ev, batch))
	return ev, batch
}

func TestResolve_MergeConservesMassAndMomentum(t *testing.T) {
	r, ps := newResolver()
	a := physics.MustBody(physics.Spec{Name: "Sun", IsStar: true, Mass: 1000, Radius: 3, Velocity: dynamo.V(1, 0, 0), Color: dynamo.RGB(1, 1, 0)})
	b := physics.MustBody(physics.Spec{Name: "Rock", Mass: 10, Radius: 4, Position: dynamo.V(2, 0, 0), Velocity: dynamo.V(0, -50, 0), Color: dynamo.RGB(0, 0, 1)})

	ev, _ := resolveOne(t, r, a, b, 50)
	require.Equal(t, Merge, ev.Type)
	require.Len(t, ev.Products, 1)

	m := ev.Products[0]
	assert.Equal(t, "Sun+", m.Name)
	assert.Equal(t, physics.Star, m.Kind)
	assert.InDelta(t, 1010.0, m.Mass, 1e-9)
	assert.InDelta(t, math.Cbrt(27+64), m.Radius, 1e-9)

	before := physics.TotalMomentum([]*physics.Body{a, b})
	after := m.Momentum()
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.LessOrEqual(t, m.Color.R, 1.0)
	assert.Equal(t, 30, ps.Len())
	assert.False(t, ev.Supernova)
}

func TestResolve_Supernova(t *testing.T) {
	tests := []struct {
		name        string
		mass        float64
		remnant     physics.Kind
		remnantMass float64
	}{
		{"neutron star remnant", 2500, physics.NeutronStar, 5000 * 0.3},
		{"black hole remnant", 3500, physics.BlackHole, 7000 * 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newResolver()
			a := physics.MustBody(physics.Spec{Name: "A", IsStar: true, Mass: tt.mass, Radius: 10})
			b := physics.MustBody(physics.Spec{Name: "B", IsStar: true, Mass: tt.mass, Radius: 10, Position: dynamo.V(5, 0, 0)})

			ev, batch := resolveOne(t, r, a, b, 0)
			assert.True(t, ev.Supernova)
			assert.Equal(t, tt.remnant, ev.Remnant)

			var remnants, nebula int
			for _, p := range ev.Products {
				switch {
				case p.Kind.IsExotic():
					remnants++
					assert.InDelta(t, tt.remnantMass, p.Mass, 1e-9)
				default:
					nebula++
					assert.Contains(t, p.Name, "Nebula_1_")
					assert.NotEqual(t, "B+", p.Name)
				}
			}
			assert.Equal(t, 1, remnants)
			assert.GreaterOrEqual(t, nebula, 3)
			assert.LessOrEqual(t, nebula, 6)
			assert.Equal(t, 2+len(ev.Products), batch.Len())
		})
	}
}

func TestResolve_ExoticMergeNeverSupernova(t *testing.T) {
	r, _ := newResolver()
	ns := physics.MustBody(physics.Spec{Name: "Neutron Star", Kind: physics.NeutronStar, Mass: 3000, Radius: 4})
	s := physics.MustBody(physics.Spec{Name: "Sun", IsStar: true, Mass: 2000, Radius: 10})

	ev, _ := resolveOne(t, r, ns, s, 10)
	assert.False(t, ev.Supernova)
	require.Len(t, ev.Products, 1)
	assert.Equal(t, physics.NeutronStar, ev.Products[0].Kind, "larger exotic parent keeps its kind")
}

func TestResolve_Explosion(t *testing.T) {
	r, ps := newResolver()
	a := physics.MustBody(physics.Spec{Name: "a", Mass: 2, Radius: 2, Velocity: dynamo.V(40, 0, 0)})
	b := physics.MustBody(physics.Spec{Name: "b", Mass: 2, Radius: 2, Position: dynamo.V(1, 0, 0), Velocity: dynamo.V(-40, 0, 0)})

	ev, _ := resolveOne(t, r, a, b, 80)
	require.Equal(t, Explosion, ev.Type)
	assert.GreaterOrEqual(t, len(ev.Products), 2)
	assert.LessOrEqual(t, len(ev.Products), 5)
	for _, p := range ev.Products {
		assert.InDelta(t, 0.2, p.Mass, 1e-12)
		assert.Equal(t, 1.0, p.Radius)
		assert.InDelta(t, 4.0, p.Position.Sub(ev.Position).Length(), 1e-9)
	}
	// 200 burst, 80 ring, 100 debris
	assert.Equal(t, 380, ps.Len())
}

func TestResolve_ExplosionTinyMassNoFragments(t *testing.T) {
	r, _ := newResolver()
	a := physics.MustBody(physics.Spec{Mass: 0.005, Radius: 1})
	b := physics.MustBody(physics.Spec{Mass: 0.005, Radius: 1, Position: dynamo.V(1, 0, 0)})

	ev, _ := resolveOne(t, r, a, b, 100)
	assert.Empty(t, ev.Products)
}

func TestResolve_Fragment(t *testing.T) {
	r, _ := newResolver()
	a := physics.MustBody(physics.Spec{Name: "Big", Mass: 20, Radius: 5, Velocity: dynamo.V(0, 10, 0)})
	b := physics.MustBody(physics.Spec{Name: "Small", Mass: 10, Radius: 4, Position: dynamo.V(6, 0, 0), Velocity: dynamo.V(0, -20, 0)})

	ev, _ := resolveOne(t, r, a, b, 30)
	require.Equal(t, Fragment, ev.Type)

	core := ev.Products[0]
	assert.Equal(t, "Big*", core.Name)
	assert.InDelta(t, 18.0, core.Mass, 1e-9)
	assert.InDelta(t, math.Cbrt((125+64)*0.6), core.Radius, 1e-9)

	frags := ev.Products[1:]
	assert.GreaterOrEqual(t, len(frags), 3)
	assert.LessOrEqual(t, len(frags), 7)
	share := 12.0 / float64(len(frags))
	for _, f := range frags {
		assert.GreaterOrEqual(t, f.Mass, share*0.5)
		assert.LessOrEqual(t, f.Mass, share*1.5)
		assert.GreaterOrEqual(t, f.Radius, 1.0)
	}
}

func TestResolve_Consume(t *testing.T) {
	r, _ := newResolver()
	bh := physics.MustBody(physics.Spec{Name: "Sag A", Kind: physics.BlackHole, Mass: 100, Radius: 10, Position: dynamo.V(1, 2, 3)})
	rock := physics.MustBody(physics.Spec{Name: "rock", Mass: 20, Radius: 1, Velocity: dynamo.V(60, 0, 0)})

	ev, _ := resolveOne(t, r, rock, bh, 60)
	require.Equal(t, BlackHoleConsume, ev.Type)
	require.Len(t, ev.Products, 1)

	fed := ev.Products[0]
	assert.Equal(t, "Sag A", fed.Name)
	assert.Equal(t, physics.BlackHole, fed.Kind)
	assert.InDelta(t, 120.0, fed.Mass, 1e-9)
	assert.InDelta(t, 10*(1+0.05*0.2), fed.Radius, 1e-9)
	assert.Equal(t, bh.Position, fed.Position)
	assert.InDelta(t, 10.0, fed.Velocity.X, 1e-9)

	ns := physics.MustBody(physics.Spec{Name: "PSR", Kind: physics.NeutronStar, Mass: 100, Radius: 4})
	pebble := physics.MustBody(physics.Spec{Name: "pebble", Mass: 10, Radius: 1})
	ev, _ = resolveOne(t, r, ns, pebble, 5)
	require.Equal(t, NeutronConsume, ev.Type)
	assert.InDelta(t, 4*(1+0.02*0.1), ev.Products[0].Radius, 1e-9)
}

func TestResolve_BlackHoleMerge(t *testing.T) {
	r, ps := newResolver()
	a := physics.MustBody(physics.Spec{Name: "BH1", Kind: physics.BlackHole, Mass: 300, Radius: 8})
	b := physics.MustBody(physics.Spec{Name: "BH2", Kind: physics.BlackHole, Mass: 100, Radius: 10, Position: dynamo.V(5, 0, 0)})

	ev, _ := resolveOne(t, r, a, b, 0)
	require.Len(t, ev.Products, 1)
	m := ev.Products[0]
	assert.Equal(t, "Supermassive Black Hole", m.Name)
	assert.InDelta(t, 380.0, m.Mass, 1e-9)
	assert.InDelta(t, 14.0, m.Radius, 1e-9)
	assert.Equal(t, 400, ps.Len())
}

func TestResolve_AlreadyRemoved(t *testing.T) {
	r, _ := newResolver()
	a := body("a", physics.Normal, 1, 1)
	b := body("b", physics.Normal, 1, 1)
	c := body("c", physics.Normal, 1, 1)

	batch := NewBatch()
	require.True(t, r.Resolve(&Event{A: a, B: b}, batch))
	assert.False(t, r.Resolve(&Event{A: b, B: c}, batch))
	assert.Equal(t, 1, r.Count())
	assert.False(t, batch.Removed(c))
}

func TestThresholds_Validate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.BlackHoleMass = 1000
	assert.ErrorIs(t, bad.Validate(), dynamo.ErrParameterBounds)

	bad = DefaultThresholds()
	bad.FragmentSpeed = 0
	assert.ErrorIs(t, bad.Validate(), dynamo.ErrParameterBounds)
}
