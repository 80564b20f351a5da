package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// RK4 is classical fourth-order Runge-Kutta over positions and
// velocities. It is accurate per step but not symplectic, so energy
// drifts slowly over many orbits.
type RK4 struct {
	x0, v0             []dynamo.Vector3
	kx1, kx2, kx3, kx4 []dynamo.Vector3
	kv1, kv2, kv3, kv4 []dynamo.Vector3
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.x0) != n {
		r.x0 = make([]dynamo.Vector3, n)
		r.v0 = make([]dynamo.Vector3, n)
		r.kx1 = make([]dynamo.Vector3, n)
		r.kx2 = make([]dynamo.Vector3, n)
		r.kx3 = make([]dynamo.Vector3, n)
		r.kx4 = make([]dynamo.Vector3, n)
		r.kv1 = make([]dynamo.Vector3, n)
		r.kv2 = make([]dynamo.Vector3, n)
		r.kv3 = make([]dynamo.Vector3, n)
		r.kv4 = make([]dynamo.Vector3, n)
	}
}

// stage evaluates accelerations with every body moved to x0 + h*kx and
// records the stage derivatives.
func (r *RK4) stage(bodies []*physics.Body, f Accelerator, h float64, kx, kv, outX, outV []dynamo.Vector3) {
	for i, b := range bodies {
		b.Position = r.x0[i].Add(kx[i].Scale(h))
		outX[i] = r.v0[i].Add(kv[i].Scale(h))
	}
	f.Accelerate(bodies)
	for i, b := range bodies {
		outV[i] = b.Acceleration
	}
}

func (r *RK4) Step(bodies []*physics.Body, f Accelerator, h float64) {
	n := len(bodies)
	r.ensureScratch(n)

	for i, b := range bodies {
		r.x0[i] = b.Position
		r.v0[i] = b.Velocity
	}

	f.Accelerate(bodies)
	for i, b := range bodies {
		r.kx1[i] = b.Velocity
		r.kv1[i] = b.Acceleration
	}

	r.stage(bodies, f, h*0.5, r.kx1, r.kv1, r.kx2, r.kv2)
	r.stage(bodies, f, h*0.5, r.kx2, r.kv2, r.kx3, r.kv3)
	r.stage(bodies, f, h, r.kx3, r.kv3, r.kx4, r.kv4)

	h6 := h / 6.0
	for i, b := range bodies {
		dx := r.kx1[i].Add(r.kx2[i].Scale(2)).Add(r.kx3[i].Scale(2)).Add(r.kx4[i])
		dv := r.kv1[i].Add(r.kv2[i].Scale(2)).Add(r.kv3[i].Scale(2)).Add(r.kv4[i])
		b.Position = r.x0[i].Add(dx.Scale(h6))
		b.Velocity = r.v0[i].Add(dv.Scale(h6))
	}

	sampleTrails(bodies)
}
