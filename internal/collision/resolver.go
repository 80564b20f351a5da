package collision

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Effect colors.
var (
	mergeFlash      = dynamo.RGB(1, 0.9, 0.5)
	supernovaDebris = dynamo.RGB(0.8, 0.4, 0.2)
	explosionFlash  = dynamo.RGB(1, 0.8, 0.3)
	explosionRing   = dynamo.RGB(1, 0.5, 0.2)
	fragmentFlash   = dynamo.RGB(1, 0.6, 0.2)
	accretionGlow   = dynamo.RGB(0.8, 0.4, 1)
	xrayBurst       = dynamo.RGB(0.7, 0.9, 1)
	gravityWave     = dynamo.RGB(0.5, 0.2, 0.8)

	blackHoleColor   = dynamo.RGB(0.1, 0, 0.1)
	neutronColor     = dynamo.RGB(0.7, 0.9, 1)
	fedBlackHole     = dynamo.RGB(0.05, 0, 0.1)
	fedNeutronStar   = dynamo.RGB(0.8, 0.95, 1)
	supermassiveHole = dynamo.RGB(0.02, 0, 0.05)
)

// Resolver turns collision events into roster changes and particle
// effects. Particles may be nil, in which case no effects are emitted.
type Resolver struct {
	Thresholds Thresholds
	Particles  *particles.System
	Rand       *rand.Rand
	Logger     *slog.Logger

	count int
}

func NewResolver(th Thresholds, ps *particles.System, rng *rand.Rand, logger *slog.Logger) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{Thresholds: th, Particles: ps, Rand: rng, Logger: logger}
}

// Count is the number of events resolved so far.
func (r *Resolver) Count() int { return r.count }

// ResetCount zeroes the resolved event counter.
func (r *Resolver) ResetCount() { r.count = 0 }

// Resolve applies ev to batch. It returns false without touching anything
// when either body was already consumed by an earlier event this frame.
func (r *Resolver) Resolve(ev *Event, batch *Batch) bool {
	if batch.Removed(ev.A) || batch.Removed(ev.B) {
		return false
	}
	batch.Remove(ev.A)
	batch.Remove(ev.B)
	r.count++

	switch ev.Type {
	case BlackHoleConsume:
		r.consume(ev, batch, physics.BlackHole)
	case BlackHoleMerge:
		r.blackHoleMerge(ev, batch)
	case NeutronConsume:
		r.consume(ev, batch, physics.NeutronStar)
	case Explosion:
		r.explode(ev, batch)
	case Fragment:
		r.fragment(ev, batch)
	default:
		r.merge(ev, batch)
	}
	return true
}

func (r *Resolver) uniform(lo, hi float64) float64 {
	return lo + r.Rand.Float64()*(hi-lo)
}

// between returns an int in [lo, hi].
func (r *Resolver) between(lo, hi int) int {
	return lo + r.Rand.Intn(hi-lo+1)
}

func (r *Resolver) spawn(ev *Event, batch *Batch, s physics.Spec) {
	b, err := physics.NewBody(s)
	if err != nil {
		r.Logger.Warn("dropped collision product", "name", s.Name, "error", err)
		return
	}
	batch.Add(b)
	ev.Products = append(ev.Products, b)
}

func momentumVelocity(a, b *physics.Body) dynamo.Vector3 {
	return a.Momentum().Add(b.Momentum()).Div(a.Mass + b.Mass)
}

func larger(a, b *physics.Body) *physics.Body {
	if a.Mass > b.Mass {
		return a
	}
	return b
}

// direction builds a unit vector from an azimuth in the orbital plane and
// an elevation off it. Y is up.
func direction(angle, elevation float64) dynamo.Vector3 {
	return dynamo.V(
		math.Cos(angle)*math.Cos(elevation),
		math.Sin(elevation),
		math.Sin(angle)*math.Cos(elevation),
	)
}

func (r *Resolver) merge(ev *Event, batch *Batch) {
	a, b := ev.A, ev.B
	total := a.Mass + b.Mass
	vel := momentumVelocity(a, b)
	radius := math.Cbrt(math.Pow(a.Radius, 3) + math.Pow(b.Radius, 3))
	color := dynamo.BlendByMass(a.Color, a.Mass, b.Color, b.Mass)
	star := a.IsStar() || b.IsStar()
	big := larger(a, b)

	if star && !a.Kind.IsExotic() && !b.Kind.IsExotic() && total > r.Thresholds.SupernovaMass {
		r.supernova(ev, batch, total, vel)
		return
	}

	kind := physics.Normal
	switch {
	case big.Kind.IsExotic():
		kind = big.Kind
	case star:
		kind = physics.Star
	}

	r.spawn(ev, batch, physics.Spec{
		Name:     big.Name + "+",
		Kind:     kind,
		Mass:     total,
		Radius:   radius,
		Position: ev.Position,
		Velocity: vel,
		Color:    color,
	})

	if r.Particles != nil {
		r.Particles.Explosion(ev.Position, color, 30, 20, 2, 1)
	}
	r.Logger.Debug("bodies merged", "type", ev.Type, "mass", total, "into", big.Name+"+")
}

func (r *Resolver) supernova(ev *Event, batch *Batch, total float64, vel dynamo.Vector3) {
	pos := ev.Position
	ev.Supernova = true

	if ps := r.Particles; ps != nil {
		ps.Explosion(pos, mergeFlash, 800, 150, 8, 5)
		for i := 0; i < 3; i++ {
			ps.Shockwave(pos, dynamo.RGB(1, 0.7-float64(i)*0.2, 0.3), 100+float64(i)*50, 150)
		}
		ps.Debris(pos, vel, supernovaDebris, 200, 100, 4)
	}

	remnant := physics.Spec{Position: pos, Velocity: vel}
	if total > r.Thresholds.BlackHoleMass {
		remnant.Name, remnant.Kind = "Black Hole", physics.BlackHole
		remnant.Mass, remnant.Radius, remnant.Color = total*0.4, 8, blackHoleColor
	} else {
		remnant.Name, remnant.Kind = "Neutron Star", physics.NeutronStar
		remnant.Mass, remnant.Radius, remnant.Color = total*0.3, 4, neutronColor
	}
	ev.Remnant = remnant.Kind
	r.spawn(ev, batch, remnant)

	n := r.between(3, 6)
	each := total * 0.1 / float64(n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + r.uniform(-0.3, 0.3)
		dir := direction(angle, r.uniform(-0.5, 0.5))
		r.spawn(ev, batch, physics.Spec{
			Name:     fmt.Sprintf("Nebula_%d_%d", r.count, i),
			Mass:     each,
			Radius:   r.uniform(3, 8),
			Position: pos.Add(dir.Scale(50)),
			Velocity: vel.Add(dir.Scale(r.uniform(80, 150))),
			Color:    dynamo.RGB(r.uniform(0.5, 1), r.uniform(0.3, 0.7), r.uniform(0.5, 1)),
		})
	}

	r.Logger.Info("supernova", "type", ev.Type, "mass", total, "remnant", ev.Remnant, "nebula", n)
}

func (r *Resolver) explode(ev *Event, batch *Batch) {
	a, b := ev.A, ev.B
	total := a.Mass + b.Mass
	// unweighted mean velocity
	vel := a.Velocity.Add(b.Velocity).Scale(0.5)
	avg := dynamo.Average(a.Color, b.Color)
	size := (a.Radius + b.Radius) * 2
	n := int(math.Min(500, total*50))

	if ps := r.Particles; ps != nil {
		ps.Explosion(ev.Position, explosionFlash, n, ev.ImpactVelocity*2, size*0.1, 3)
		ps.Shockwave(ev.Position, explosionRing, size*3, 80)
		ps.Debris(ev.Position, vel, avg, n/2, ev.ImpactVelocity, 3)
	}

	frags := r.between(2, 5)
	each := total * 0.05
	if each >= 0.001 {
		for i := 0; i < frags; i++ {
			dir := direction(r.uniform(0, 2*math.Pi), r.uniform(-0.5, 0.5))
			r.spawn(ev, batch, physics.Spec{
				Name:     fmt.Sprintf("Fragment_%d_%d", r.count, i),
				Mass:     each,
				Radius:   math.Max(1, (a.Radius+b.Radius)*0.1),
				Position: ev.Position.Add(dir.Scale(a.Radius + b.Radius)),
				Velocity: vel.Add(dir.Scale(ev.ImpactVelocity * 0.5)),
				Color:    avg,
			})
		}
	}
	r.Logger.Debug("bodies exploded", "type", ev.Type, "mass", total, "impact", ev.ImpactVelocity, "fragments", len(ev.Products))
}

func (r *Resolver) fragment(ev *Event, batch *Batch) {
	a, b := ev.A, ev.B
	total := a.Mass + b.Mass
	vel := momentumVelocity(a, b)
	avg := dynamo.Average(a.Color, b.Color)
	coreMass := total * 0.6
	coreRadius := math.Cbrt((math.Pow(a.Radius, 3) + math.Pow(b.Radius, 3)) * 0.6)

	kind := physics.Normal
	if a.IsStar() || b.IsStar() {
		kind = physics.Star
	}
	r.spawn(ev, batch, physics.Spec{
		Name:     larger(a, b).Name + "*",
		Kind:     kind,
		Mass:     coreMass,
		Radius:   coreRadius,
		Position: ev.Position,
		Velocity: vel,
		Color:    avg,
	})

	n := r.between(3, 7)
	each := (total - coreMass) / float64(n)
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + r.uniform(-0.3, 0.3)
		dir := direction(angle, r.uniform(-0.3, 0.3))
		speed := ev.ImpactVelocity * r.uniform(0.3, 0.7)
		r.spawn(ev, batch, physics.Spec{
			Name:     fmt.Sprintf("Fragment_%d_%d", r.count, i),
			Mass:     each * r.uniform(0.5, 1.5),
			Radius:   math.Max(1, coreRadius*0.3*r.uniform(0.5, 1.5)),
			Position: ev.Position.Add(dir.Scale(coreRadius + 5)),
			Velocity: vel.Add(dir.Scale(speed)),
			Color:    dynamo.RGB(avg.R*r.uniform(0.8, 1), avg.G*r.uniform(0.8, 1), avg.B*r.uniform(0.8, 1)),
		})
	}

	if ps := r.Particles; ps != nil {
		ps.Explosion(ev.Position, fragmentFlash, 100, ev.ImpactVelocity, 3, 2)
		ps.Debris(ev.Position, vel, avg, 50, ev.ImpactVelocity*0.5, 2)
	}
	r.Logger.Debug("bodies fragmented", "type", ev.Type, "mass", total, "fragments", n)
}

// consume lets the body of the given exotic kind swallow the other one.
// The survivor keeps its name, kind and position.
func (r *Resolver) consume(ev *Event, batch *Batch, kind physics.Kind) {
	eater, food := ev.A, ev.B
	if eater.Kind != kind {
		eater, food = food, eater
	}
	total := eater.Mass + food.Mass
	vel := momentumVelocity(eater, food)

	growth, color := 0.02, fedNeutronStar
	if kind == physics.BlackHole {
		growth, color = 0.05, fedBlackHole
	}

	r.spawn(ev, batch, physics.Spec{
		Name:     eater.Name,
		Kind:     kind,
		Mass:     total,
		Radius:   eater.Radius * (1 + growth*food.Mass/eater.Mass),
		Position: eater.Position,
		Velocity: vel,
		Color:    color,
	})

	if ps := r.Particles; ps != nil {
		if kind == physics.BlackHole {
			ps.Debris(eater.Position, vel, accretionGlow, 80, 30, 3)
		} else {
			ps.Explosion(eater.Position, xrayBurst, 60, 80, 3, 1.5)
		}
	}
	r.Logger.Info("body consumed", "type", ev.Type, "by", eater.Name, "consumed", food.Name, "mass", total)
}

func (r *Resolver) blackHoleMerge(ev *Event, batch *Batch) {
	a, b := ev.A, ev.B
	total := a.Mass + b.Mass

	r.spawn(ev, batch, physics.Spec{
		Name:     "Supermassive Black Hole",
		Kind:     physics.BlackHole,
		Mass:     total * 0.95,
		Radius:   math.Max(a.Radius, b.Radius) * 1.4,
		Position: ev.Position,
		Velocity: momentumVelocity(a, b),
		Color:    supermassiveHole,
	})

	if ps := r.Particles; ps != nil {
		for i := 0; i < 4; i++ {
			ps.Shockwave(ev.Position, gravityWave, 150+float64(i)*50, 100)
		}
	}
	r.Logger.Info("black hole merger", "type", ev.Type, "mass", total*0.95, "radiated", total*0.05)
}
