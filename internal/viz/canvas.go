package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var pixelMap = [4][2]uint8{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille raster with one color per cell. Width and Height
// are in cells; dot coordinates run over (2*Width) x (4*Height).
type Canvas struct {
	Width, Height int
	dots          []uint8
	colors        []dynamo.Color
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(1, w), max(1, h)
	return &Canvas{
		Width:  w,
		Height: h,
		dots:   make([]uint8, w*h),
		colors: make([]dynamo.Color, w*h),
	}
}

// DotWidth and DotHeight are the raster size in dots.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.DotWidth() || y >= c.DotHeight() {
		return 0, false
	}
	return (y/4)*c.Width + x/2, true
}

// Set lights the dot at (x, y). The cell takes col; the last write wins.
func (c *Canvas) Set(x, y int, col dynamo.Color) {
	i, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.dots[i] |= pixelMap[y%4][x%2]
	c.colors[i] = col
}

func (c *Canvas) Unset(x, y int) {
	if i, ok := c.cell(x, y); ok {
		c.dots[i] &^= pixelMap[y%4][x%2]
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	i, ok := c.cell(x, y)
	return ok && c.dots[i]&pixelMap[y%4][x%2] != 0
}

// CellColor is the color of the cell holding dot (x, y).
func (c *Canvas) CellColor(x, y int) dynamo.Color {
	i, ok := c.cell(x, y)
	if !ok {
		return dynamo.Color{}
	}
	return c.colors[i]
}

func (c *Canvas) Clear() {
	clear(c.dots)
	clear(c.colors)
}

// Resize reallocates the raster when the size changes.
func (c *Canvas) Resize(w, h int) {
	w, h = max(1, w), max(1, h)
	if w == c.Width && h == c.Height {
		return
	}
	*c = *NewCanvas(w, h)
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col dynamo.Color) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	// Off-screen segments are clipped per dot; cap the walk so a wild
	// projection can't stall a frame.
	for steps := 0; steps <= 4*(c.DotWidth()+c.DotHeight()); steps++ {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDisk lights every dot within r of (cx, cy). A radius under one dot
// still lights the center.
func (c *Canvas) FillDisk(cx, cy, r float64, col dynamo.Color) {
	x, y := int(cx), int(cy)
	if r < 1 {
		c.Set(x, y, col)
		return
	}
	ir := int(r) + 1
	r2 := r * r
	for dy := -ir; dy <= ir; dy++ {
		for dx := -ir; dx <= ir; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				c.Set(x+dx, y+dy, col)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rune is the braille character of the cell at (col, row).
func (c *Canvas) Rune(col, row int) rune {
	return rune(brailleBase + int(c.dots[row*c.Width+col]))
}

// String renders the raster without color.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow((c.Width*3 + 1) * c.Height)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			sb.WriteRune(c.Rune(col, row))
		}
		if row < c.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Render colors each run of equally colored cells with lipgloss.
func (c *Canvas) Render() string {
	var sb strings.Builder
	var run strings.Builder
	for row := 0; row < c.Height; row++ {
		var cur dynamo.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cur.Hex())).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.Width; col++ {
			i := row*c.Width + col
			if c.colors[i] != cur {
				flush()
				cur = c.colors[i]
			}
			run.WriteRune(c.Rune(col, row))
		}
		flush()
		if row < c.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
