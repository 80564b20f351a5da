package dynamo

import (
	"fmt"
	"math"
)

// Color is an RGB triple. Channels are expected in [0, 1]; use Clamp after
// arithmetic that can leave that range.
type Color struct {
	R, G, B float64
}

func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b} }

var White = Color{1, 1, 1}

func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f}
}

// Average is the unweighted mean of two colors.
func Average(a, b Color) Color {
	return Color{(a.R + b.R) / 2, (a.G + b.G) / 2, (a.B + b.B) / 2}
}

// BlendByMass mixes two colors weighted by the masses of their owners.
func BlendByMass(a Color, ma float64, b Color, mb float64) Color {
	total := ma + mb
	if total <= 0 {
		return Average(a, b).Clamp()
	}
	return Color{
		(a.R*ma + b.R*mb) / total,
		(a.G*ma + b.G*mb) / total,
		(a.B*ma + b.B*mb) / total,
	}.Clamp()
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func to8(v float64) int { return int(math.Round(v * 255)) }

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
