package viz

import (
	"sort"

	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Layers selects what Draw paints besides the bodies.
type Layers struct {
	Trails    bool
	Particles bool
}

const trailDim = 0.45

// Draw paints one frame: trails first, then particles, then bodies far to
// near so nearer bodies cover farther ones.
func Draw(c *Canvas, vp Viewport, bodies []*physics.Body, parts []particles.Particle, l Layers) {
	if l.Trails {
		for _, b := range bodies {
			drawTrail(c, vp, b)
		}
	}

	if l.Particles {
		for i := range parts {
			p := &parts[i]
			x, y, depth, ok := vp.Project(p.Position)
			if !ok {
				continue
			}
			c.FillDisk(x, y, vp.Size(p.Size, depth), p.Color.Scale(0.3+0.7*p.Alpha()))
		}
	}

	type projected struct {
		b          *physics.Body
		x, y, r, d float64
	}
	visible := make([]projected, 0, len(bodies))
	for _, b := range bodies {
		x, y, depth, ok := vp.Project(b.Position)
		if !ok {
			continue
		}
		visible = append(visible, projected{b, x, y, vp.Size(b.Radius, depth), depth})
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].d > visible[j].d })
	for _, p := range visible {
		c.FillDisk(p.x, p.y, p.r, p.b.Color)
	}
}

func drawTrail(c *Canvas, vp Viewport, b *physics.Body) {
	pts := b.Trail.Points()
	if len(pts) < 2 {
		return
	}
	col := b.Color.Scale(trailDim)
	px, py, _, pok := vp.Project(pts[0])
	for _, pt := range pts[1:] {
		x, y, _, ok := vp.Project(pt)
		if ok && pok {
			c.DrawLine(int(px), int(py), int(x), int(y), col)
		}
		px, py, pok = x, y, ok
	}
}
