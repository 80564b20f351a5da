package particles

import (
	"math"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// DefaultCapacity bounds the live particle count of a System.
const DefaultCapacity = 10000

// System owns a capacity-bounded pool of particles. Adds past capacity are
// dropped, live particles are never evicted. Not safe for concurrent use.
type System struct {
	parts []Particle
	cap   int
	rng   *rand.Rand
}

// NewSystem creates a pool. A nil rng gets a fixed-seed source so effects
// are reproducible by default.
func NewSystem(capacity int, rng *rand.Rand) *System {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{parts: make([]Particle, 0, min(capacity, 1024)), cap: capacity, rng: rng}
}

func (s *System) Len() int { return len(s.parts) }
func (s *System) Cap() int { return s.cap }

// Particles exposes the live particles for rendering. The slice is only
// valid until the next Update or emit call.
func (s *System) Particles() []Particle { return s.parts }

func (s *System) Clear() { s.parts = s.parts[:0] }

// Add appends p and reports whether there was room.
func (s *System) Add(p Particle) bool {
	if len(s.parts) >= s.cap {
		return false
	}
	s.parts = append(s.parts, p)
	return true
}

func (s *System) full() bool { return len(s.parts) >= s.cap }

// Update advances every particle and compacts out the dead ones in place.
func (s *System) Update(dt float64) {
	live := s.parts[:0]
	for i := range s.parts {
		p := &s.parts[i]
		p.update(dt)
		if p.Alive() {
			live = append(live, *p)
		}
	}
	s.parts = live
}

func (s *System) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// sphere returns a uniformly distributed unit direction.
func (s *System) sphere() dynamo.Vector3 {
	z := s.uniform(-1, 1)
	r := math.Sqrt(1 - z*z)
	sin, cos := dynamo.FastSinCos(s.rng.Float64() * 2 * math.Pi)
	return dynamo.V(r*cos, r*sin, z).Normalize()
}

// Explosion emits n fading particles flying out of pos in all directions.
func (s *System) Explosion(pos dynamo.Vector3, c dynamo.Color, n int, speed, size, lifetime float64) {
	for i := 0; i < n && !s.full(); i++ {
		life := lifetime * s.uniform(0.5, 1.5)
		s.Add(Particle{
			Position:    pos,
			Velocity:    s.sphere().Scale(speed * s.uniform(0.3, 1)),
			Color:       c.Scale(s.uniform(0.8, 1.2)).Clamp(),
			Size:        size * s.uniform(0.5, 1.5),
			Lifetime:    life,
			MaxLifetime: life,
			Fade:        true,
			Type:        Explosion,
		})
	}
}

// Debris emits n slow, long-lived fragments that partly inherit vel.
func (s *System) Debris(pos, vel dynamo.Vector3, c dynamo.Color, n int, spread, size float64) {
	for i := 0; i < n && !s.full(); i++ {
		life := s.uniform(3, 8)
		v := vel.Scale(s.uniform(0.2, 0.8)).Add(s.sphere().Scale(spread))
		s.Add(Particle{
			Position:    pos,
			Velocity:    v,
			Color:       c.Clamp(),
			Size:        size * s.uniform(0.3, 1),
			Lifetime:    life,
			MaxLifetime: life,
			Fade:        true,
			Type:        Debris,
		})
	}
}

// Shockwave emits an expanding shell that reaches roughly radius by the
// end of its half-second life.
func (s *System) Shockwave(pos dynamo.Vector3, c dynamo.Color, radius float64, n int) {
	const life = 0.5
	for i := 0; i < n && !s.full(); i++ {
		s.Add(Particle{
			Position:    pos,
			Velocity:    s.sphere().Scale(radius * 2),
			Color:       c.Clamp(),
			Size:        4,
			Lifetime:    life,
			MaxLifetime: life,
			Fade:        true,
			Type:        Shockwave,
		})
	}
}

// FireTrail emits one ember behind a fast moving body.
func (s *System) FireTrail(pos, vel dynamo.Vector3, c dynamo.Color) {
	if s.full() {
		return
	}
	jitter := dynamo.V(s.uniform(-5, 5), s.uniform(-5, 5), s.uniform(-5, 5))
	life := s.uniform(0.3, 0.8)
	s.Add(Particle{
		Position:    pos,
		Velocity:    vel.Scale(-0.1).Add(jitter),
		Color:       c.Clamp(),
		Size:        s.uniform(2, 5),
		Lifetime:    life,
		MaxLifetime: life,
		Fade:        true,
		Type:        Fire,
	})
}
