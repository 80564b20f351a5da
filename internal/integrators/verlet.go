package integrators

import "github.com/san-kum/orbitsim/internal/physics"

// Leapfrog is the kick-drift-kick form of velocity Verlet: second order
// and symplectic, with two force evaluations per step.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog { return &Leapfrog{} }

func (*Leapfrog) Name() string { return "leapfrog" }

func (*Leapfrog) Step(bodies []*physics.Body, f Accelerator, h float64) {
	half := 0.5 * h

	f.Accelerate(bodies)
	kick(bodies, half)
	drift(bodies, h)
	f.Accelerate(bodies)
	kick(bodies, half)

	sampleTrails(bodies)
}
