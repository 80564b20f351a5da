package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/physics"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Accelerator fills in the acceleration of every body from the current
// positions. *physics.ForceField satisfies it.
type Accelerator interface {
	Accelerate(bodies []*physics.Body)
}

// Integrator advances a roster by one sub-step of length h. Each Step
// samples every body's trail exactly once.
type Integrator interface {
	Name() string
	Step(bodies []*physics.Body, f Accelerator, h float64)
}

var registry = map[string]func() Integrator{
	"yoshida4": func() Integrator { return NewYoshida4() },
	"leapfrog": func() Integrator { return NewLeapfrog() },
	"rk4":      func() Integrator { return NewRK4() },
	"euler":    func() Integrator { return NewEuler() },
}

// Lookup returns a fresh integrator by name.
func Lookup(name string) (Integrator, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
	return mk(), nil
}

// Names lists the registered integrators, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func drift(bodies []*physics.Body, h float64) {
	for _, b := range bodies {
		b.Position = b.Position.Add(b.Velocity.Scale(h))
	}
}

func kick(bodies []*physics.Body, h float64) {
	for _, b := range bodies {
		b.Velocity = b.Velocity.Add(b.Acceleration.Scale(h))
	}
}

func sampleTrails(bodies []*physics.Body) {
	for _, b := range bodies {
		b.Trail.Sample(b.Position)
	}
}
