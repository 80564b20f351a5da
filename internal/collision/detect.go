package collision

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Classify picks the outcome for a collision of a and b. The first
// matching rule wins.
func Classify(a, b *physics.Body, impact float64, th Thresholds) Type {
	aBH, bBH := a.Kind == physics.BlackHole, b.Kind == physics.BlackHole
	switch {
	case aBH && bBH:
		return BlackHoleMerge
	case aBH || bBH:
		return BlackHoleConsume
	}

	if neutronConsumes(a, b, th) || neutronConsumes(b, a, th) {
		return NeutronConsume
	}
	if a.Kind == physics.NeutronStar || b.Kind == physics.NeutronStar {
		return Merge
	}
	if a.IsStar() || b.IsStar() {
		return Merge
	}

	ratio := math.Max(a.Mass, b.Mass) / math.Max(0.001, math.Min(a.Mass, b.Mass))
	switch {
	case impact > th.ExplosionSpeed:
		return Explosion
	case impact > th.FragmentSpeed && ratio < th.FragmentMassRatio:
		return Fragment
	}
	return Merge
}

func neutronConsumes(ns, other *physics.Body, th Thresholds) bool {
	return ns.Kind == physics.NeutronStar && !other.IsStar() && other.Mass < ns.Mass*th.NeutronConsumeRatio
}

// Detect returns an event for every overlapping pair whose bodies are not
// already removed in batch, in roster pair order.
func Detect(bodies []*physics.Body, batch *Batch, th Thresholds) []Event {
	var events []Event
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i]
		if batch.Removed(bi) {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			if batch.Removed(bj) {
				continue
			}
			if bi.Position.DistanceTo(bj.Position) >= bi.Radius+bj.Radius {
				continue
			}

			impact := bj.Velocity.Sub(bi.Velocity).Length()
			total := bi.Mass + bj.Mass
			pos := bi.Position.Scale(bi.Mass).Add(bj.Position.Scale(bj.Mass)).Div(total)

			events = append(events, Event{
				A:              bi,
				B:              bj,
				ImpactVelocity: impact,
				Position:       pos,
				Type:           Classify(bi, bj, impact, th),
			})
		}
	}
	return events
}
