package metrics

import (
	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/sim"
)

// CollisionTally counts resolved collisions by outcome. It is both a
// collision observer and a metric whose value is the collision rate per
// unit of simulated time.
type CollisionTally struct {
	byType     map[collision.Type]int
	supernovae int
	total      int
	time       float64
}

func NewCollisionTally() *CollisionTally {
	return &CollisionTally{byType: make(map[collision.Type]int)}
}

func (c *CollisionTally) OnCollision(ev *collision.Event) {
	c.byType[ev.Type]++
	c.total++
	if ev.Supernova {
		c.supernovae++
	}
}

func (c *CollisionTally) Name() string { return "collision_rate" }

func (c *CollisionTally) Observe(st sim.Stats) { c.time = st.Time }

func (c *CollisionTally) Value() float64 {
	if c.time <= 0 {
		return 0
	}
	return float64(c.total) / c.time
}

func (c *CollisionTally) Reset() {
	clear(c.byType)
	c.supernovae = 0
	c.total = 0
	c.time = 0
}

func (c *CollisionTally) Count(t collision.Type) int { return c.byType[t] }

func (c *CollisionTally) Total() int { return c.total }

func (c *CollisionTally) Supernovae() int { return c.supernovae }
