package integrators

import "github.com/san-kum/orbitsim/internal/physics"

// Yoshida 4th-order coefficients.
const (
	yoshidaW0 = -1.7024143839193153
	yoshidaW1 = 1.3512071919596578

	yoshidaC1 = yoshidaW1 / 2
	yoshidaC2 = (yoshidaW0 + yoshidaW1) / 2
	yoshidaD1 = yoshidaW1
	yoshidaD2 = yoshidaW0
)

// Yoshida4 is the 4th-order symplectic drift-kick composition. It needs
// three force evaluations per step and keeps energy error bounded over
// long orbits.
type Yoshida4 struct{}

func NewYoshida4() *Yoshida4 { return &Yoshida4{} }

func (*Yoshida4) Name() string { return "yoshida4" }

func (*Yoshida4) Step(bodies []*physics.Body, f Accelerator, h float64) {
	drift(bodies, yoshidaC1*h)
	f.Accelerate(bodies)
	kick(bodies, yoshidaD1*h)

	drift(bodies, yoshidaC2*h)
	f.Accelerate(bodies)
	kick(bodies, yoshidaD2*h)

	drift(bodies, yoshidaC2*h)
	f.Accelerate(bodies)
	kick(bodies, yoshidaD1*h)

	drift(bodies, yoshidaC1*h)
	sampleTrails(bodies)
}
