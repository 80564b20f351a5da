package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circularOrbit is a light planet on a circular orbit around a heavy
// central body, period about 20 time units.
func circularOrbit() []*physics.Body {
	const (
		central = 1000.0
		r       = 100.0
	)
	v := physics.OrbitalVelocity(physics.DefaultG, central, r)
	return []*physics.Body{
		physics.MustBody(physics.Spec{Name: "sun", Mass: central, Radius: 10, TrailEvery: 1}),
		physics.MustBody(physics.Spec{
			Name:       "planet",
			Mass:       0.001,
			Radius:     1,
			Position:   dynamo.V(r, 0, 0),
			Velocity:   dynamo.V(0, 0, v),
			TrailEvery: 1,
		}),
	}
}

func energy(bodies []*physics.Body) float64 {
	return physics.KineticEnergy(bodies) + physics.PotentialEnergy(bodies, physics.DefaultG)
}

func relativeDrift(t *testing.T, integ Integrator, steps int, h float64) float64 {
	t.Helper()
	bodies := circularOrbit()
	ff := physics.NewForceField()
	e0 := energy(bodies)

	worst := 0.0
	for i := 0; i < steps; i++ {
		integ.Step(bodies, ff, h)
		worst = math.Max(worst, math.Abs((energy(bodies)-e0)/e0))
	}
	return worst
}

func TestEnergyDrift(t *testing.T) {
	const (
		steps = 4000
		h     = 0.01
	)

	tests := []struct {
		integ    Integrator
		maxDrift float64
	}{
		{NewYoshida4(), 1e-5},
		{NewLeapfrog(), 1e-3},
		{NewRK4(), 1e-4},
	}

	for _, tt := range tests {
		t.Run(tt.integ.Name(), func(t *testing.T) {
			drift := relativeDrift(t, tt.integ, steps, h)
			assert.Less(t, drift, tt.maxDrift)
		})
	}
}

func TestEulerDriftsMoreThanYoshida(t *testing.T) {
	yoshida := relativeDrift(t, NewYoshida4(), 4000, 0.01)
	euler := relativeDrift(t, NewEuler(), 4000, 0.01)

	assert.Greater(t, euler, 10*yoshida)
	assert.Greater(t, euler, 1e-3, "explicit Euler should visibly drift")
}

func TestYoshidaOrbitStaysCircular(t *testing.T) {
	bodies := circularOrbit()
	ff := physics.NewForceField()
	integ := NewYoshida4()

	for i := 0; i < 2000; i++ {
		integ.Step(bodies, ff, 0.01)
	}

	r := bodies[1].Position.DistanceTo(bodies[0].Position)
	assert.InDelta(t, 100.0, r, 0.1)
}

func TestStep_SamplesTrailOnce(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := Lookup(name)
			require.NoError(t, err)

			bodies := circularOrbit()
			ff := physics.NewForceField()
			for i := 0; i < 3; i++ {
				integ.Step(bodies, ff, 0.01)
			}
			assert.Equal(t, 3, bodies[1].Trail.Len())
			pts := bodies[1].Trail.Points()
			assert.Equal(t, bodies[1].Position, pts[len(pts)-1], "sampled after the final drift")
		})
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"euler", "leapfrog", "rk4", "yoshida4"}, Names())

	integ, err := Lookup("yoshida4")
	require.NoError(t, err)
	assert.Equal(t, "yoshida4", integ.Name())

	_, err = Lookup("rk45")
	assert.ErrorIs(t, err, ErrUnknownIntegrator)
}

func TestYoshidaCoefficients(t *testing.T) {
	// drift and kick weights each sum to one
	assert.InDelta(t, 1.0, 2*yoshidaC1+2*yoshidaC2, 1e-12)
	assert.InDelta(t, 1.0, 2*yoshidaD1+yoshidaD2, 1e-12)
}
