package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// DefaultG is the gravitational constant in simulation units.
	DefaultG = 100.0
	// DefaultMinSoftening is the floor on the softening length.
	DefaultMinSoftening = 0.1
)

// ForceField computes pairwise Newtonian gravity with radius-scaled
// softening.
type ForceField struct {
	G            float64
	MinSoftening float64
}

func NewForceField() *ForceField {
	return &ForceField{G: DefaultG, MinSoftening: DefaultMinSoftening}
}

// Accelerate zeroes every acceleration, then accumulates the pair forces.
// Pairs closer than half their combined radii are skipped; overlap is the
// collision pass's concern.
func (f *ForceField) Accelerate(bodies []*Body) {
	for _, b := range bodies {
		b.ResetAcceleration()
	}

	n := len(bodies)
	for i := 0; i < n; i++ {
		bi := bodies[i]
		for j := i + 1; j < n; j++ {
			bj := bodies[j]

			dir := bj.Position.Sub(bi.Position)
			dist := dir.Length()
			minDist := (bi.Radius + bj.Radius) * 0.5
			if dist < minDist || dist == 0 {
				continue
			}

			soft := math.Max(f.MinSoftening, minDist*0.1)
			eff := math.Max(dist, soft)
			mag := f.G * bi.Mass * bj.Mass / (eff * eff)

			force := dir.Scale(mag / dist)
			bi.ApplyForce(force)
			bj.ApplyForce(force.Neg())
		}
	}
}

// PairForce is the force on a from b, as Accelerate would apply it.
func (f *ForceField) PairForce(a, b *Body) dynamo.Vector3 {
	dir := b.Position.Sub(a.Position)
	dist := dir.Length()
	minDist := (a.Radius + b.Radius) * 0.5
	if dist < minDist || dist == 0 {
		return dynamo.Zero
	}
	soft := math.Max(f.MinSoftening, minDist*0.1)
	eff := math.Max(dist, soft)
	return dir.Scale(f.G * a.Mass * b.Mass / (eff * eff) / dist)
}
