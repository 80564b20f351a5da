package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

func KineticEnergy(bodies []*Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += b.KineticEnergy()
	}
	return ke
}

// PotentialEnergy sums the pair potentials over unordered pairs.
func PotentialEnergy(bodies []*Body, g float64) float64 {
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			pe += bodies[i].PotentialEnergyWith(bodies[j], g)
		}
	}
	return pe
}

func TotalMass(bodies []*Body) float64 {
	m := 0.0
	for _, b := range bodies {
		m += b.Mass
	}
	return m
}

// CenterOfMass is the mass-weighted mean position, or the zero vector for
// an empty roster.
func CenterOfMass(bodies []*Body) dynamo.Vector3 {
	var sum dynamo.Vector3
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Scale(b.Mass))
		total += b.Mass
	}
	if total <= 0 {
		return dynamo.Zero
	}
	return sum.Div(total)
}

func TotalMomentum(bodies []*Body) dynamo.Vector3 {
	var p dynamo.Vector3
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum is the total r x p about the origin.
func AngularMomentum(bodies []*Body) dynamo.Vector3 {
	var l dynamo.Vector3
	for _, b := range bodies {
		l = l.Add(b.Position.Cross(b.Momentum()))
	}
	return l
}
