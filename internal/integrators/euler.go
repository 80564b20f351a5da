package integrators

import "github.com/san-kum/orbitsim/internal/physics"

// Euler is explicit first-order Euler. Orbits spiral outward under it; it
// is kept as a baseline for comparing the symplectic schemes.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (*Euler) Name() string { return "euler" }

func (*Euler) Step(bodies []*physics.Body, f Accelerator, h float64) {
	f.Accelerate(bodies)
	drift(bodies, h)
	kick(bodies, h)
	sampleTrails(bodies)
}
