package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
)

// bounds is the padded extent of everything drawn, on the x/z plane.
type bounds struct {
	minX, maxX, minZ, maxZ float64
}

func extent(bodies []experiment.BodyState) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	grow := func(p dynamo.Vector3, r float64) {
		b.minX, b.maxX = min(b.minX, p.X-r), max(b.maxX, p.X+r)
		b.minZ, b.maxZ = min(b.minZ, p.Z-r), max(b.maxZ, p.Z+r)
	}
	for _, body := range bodies {
		grow(body.Position, body.Radius)
		for _, p := range body.Trail {
			grow(p, 0)
		}
	}

	// Square the view so orbits keep their shape, then pad by 10%.
	cx, cz := (b.minX+b.maxX)/2, (b.minZ+b.maxZ)/2
	half := max(b.maxX-b.minX, b.maxZ-b.minZ, 1) / 2 * 1.1
	return bounds{cx - half, cx + half, cz - half, cz + half}
}

func (b bounds) project(p dynamo.Vector3, size float64) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * size
	y := (p.Z - b.minZ) / (b.maxZ - b.minZ) * size
	return x, y
}

// TrailsToSVG draws the final bodies and their trails seen from above,
// looking down the y axis. It returns "" when there is nothing to draw.
func TrailsToSVG(bodies []experiment.BodyState, size int) string {
	if len(bodies) == 0 || size <= 0 {
		return ""
	}
	b := extent(bodies)
	s := float64(size)
	scale := s / (b.maxX - b.minX)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	for _, body := range bodies {
		if len(body.Trail) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="1" d="`, body.Color)
		for i, p := range body.Trail {
			x, y := b.project(p, s)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, body := range bodies {
		x, y := b.project(body.Position, s)
		r := max(1.5, body.Radius*scale)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>
`, x, y, r, body.Color, escape(body.Name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return xmlEscaper.Replace(s) }
