package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	if m.Value() != 0 {
		t.Errorf("expected 0 before any sample, got %f", m.Value())
	}

	m.Observe(sim.Stats{Total: -10})
	m.Observe(sim.Stats{Total: -20})
	if math.Abs(m.Value()-(-15)) > 1e-12 {
		t.Errorf("expected mean -15, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(sim.Stats{Total: -100, Bodies: 3})
	m.Observe(sim.Stats{Total: -101, Bodies: 3})
	m.Observe(sim.Stats{Total: -99.5, Bodies: 3})

	assert.InDelta(t, 0.01, m.Value(), 1e-12)
	assert.Len(t, m.Series(), 3)

	// a collision changes the roster and rebases the drift
	m.Observe(sim.Stats{Total: -500, Bodies: 2})
	m.Observe(sim.Stats{Total: -500, Bodies: 2})
	assert.InDelta(t, 0.01, m.Value(), 1e-12)
	assert.Equal(t, 0.0, m.Series()[4])

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
	assert.Empty(t, m.Series())
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	m.Observe(sim.Stats{Momentum: dynamo.V(1, 0, 0)})
	m.Observe(sim.Stats{Momentum: dynamo.V(1, 0.5, 0)})
	m.Observe(sim.Stats{Momentum: dynamo.V(1, 0, 0)})
	assert.InDelta(t, 0.5, m.Value(), 1e-12)

	// an explosion changes the roster and its momentum; only later frames count
	m.Observe(sim.Stats{Momentum: dynamo.V(40, 0, 0), Bodies: 4})
	m.Observe(sim.Stats{Momentum: dynamo.V(40, 0.25, 0), Bodies: 4})
	assert.InDelta(t, 0.5, m.Value(), 1e-12)
	m.Observe(sim.Stats{Momentum: dynamo.V(41, 0, 0), Bodies: 4})
	assert.InDelta(t, 1, m.Value(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestEnergyDrift_SeriesBounded(t *testing.T) {
	m := NewEnergyDrift()
	for i := 0; i < SeriesCapacity+10; i++ {
		m.Observe(sim.Stats{Total: -100 - float64(i), Bodies: 2})
	}
	series := m.Series()
	require.Len(t, series, SeriesCapacity)
	assert.InDelta(t, float64(SeriesCapacity+9)/100, series[len(series)-1], 1e-12)
	assert.InDelta(t, 0.10, series[0], 1e-12)
}

func TestStability(t *testing.T) {
	m := NewStability()
	assert.Equal(t, 1.0, m.Value())

	for _, e := range []float64{-5, -3, 2, -1} {
		m.Observe(sim.Stats{Total: e})
	}
	assert.InDelta(t, 0.75, m.Value(), 1e-12)
}

func TestCollisionTally(t *testing.T) {
	c := NewCollisionTally()
	c.OnCollision(&collision.Event{Type: collision.Merge})
	c.OnCollision(&collision.Event{Type: collision.Merge, Supernova: true})
	c.OnCollision(&collision.Event{Type: collision.Explosion})
	c.Observe(sim.Stats{Time: 2})

	assert.Equal(t, 3, c.Total())
	assert.Equal(t, 2, c.Count(collision.Merge))
	assert.Equal(t, 1, c.Supernovae())
	assert.Equal(t, 0, c.Count(collision.Fragment))
	assert.InDelta(t, 1.5, c.Value(), 1e-12)

	c.Reset()
	assert.Equal(t, 0.0, c.Value())
}

func TestMetricsWithSimulation(t *testing.T) {
	s := sim.New(sim.DefaultOptions())
	_, err := s.Spawn(physics.Spec{Name: "Sun", Mass: 1000, Radius: 10, IsStar: true})
	require.NoError(t, err)
	_, err = s.Spawn(physics.Spec{
		Name:     "Planet",
		Mass:     1,
		Radius:   1,
		Position: dynamo.V(100, 0, 0),
		Velocity: dynamo.V(0, 0, physics.OrbitalVelocity(physics.DefaultG, 1000, 100)),
	})
	require.NoError(t, err)

	drift := NewEnergyDrift()
	stability := NewStability()
	s.AddMetric(drift)
	s.AddMetric(stability)

	for i := 0; i < 600; i++ {
		s.Update(1.0 / 60)
	}

	assert.Less(t, drift.Value(), 1e-6)
	assert.Equal(t, 1.0, stability.Value())
	assert.Len(t, drift.Series(), 600)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	one := Summarize([]float64{4})
	assert.Equal(t, 0.0, one.StdDev)
	assert.Equal(t, 4.0, one.Mean)

	xs := []float64{5, 1, 3, 2, 4}
	s := Summarize(xs)
	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 5.0, s.P95)
	assert.Equal(t, []float64{5, 1, 3, 2, 4}, xs, "input left unsorted")
}
