package particles

import "github.com/san-kum/orbitsim/internal/dynamo"

type Type int

const (
	Debris Type = iota
	Explosion
	Shockwave
	Fire
)

func (t Type) String() string {
	switch t {
	case Debris:
		return "debris"
	case Explosion:
		return "explosion"
	case Shockwave:
		return "shockwave"
	case Fire:
		return "fire"
	}
	return "unknown"
}

// Drag is the per-update velocity damping factor.
const Drag = 0.995

// Particle is a short-lived visual effect point. It carries no mass and
// never feels gravity.
type Particle struct {
	Position    dynamo.Vector3
	Velocity    dynamo.Vector3
	Color       dynamo.Color
	Size        float64
	Lifetime    float64
	MaxLifetime float64
	Fade        bool
	Type        Type
}

func (p *Particle) Alive() bool { return p.Lifetime > 0 }

// Alpha is the remaining lifetime fraction for fading particles, else 1.
func (p *Particle) Alpha() float64 {
	if !p.Fade {
		return 1
	}
	if p.MaxLifetime <= 0 {
		return 0
	}
	a := p.Lifetime / p.MaxLifetime
	if a < 0 {
		return 0
	}
	return a
}

func (p *Particle) update(dt float64) {
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Velocity = p.Velocity.Scale(Drag)
	p.Lifetime -= dt
}
