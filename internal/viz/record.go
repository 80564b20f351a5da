package viz

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
)

// MaxFrames bounds the memory held by a recording.
const MaxFrames = 600

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterizes canvas frames into an animated GIF. Each braille
// dot becomes a cellW/2 x cellH/4 block in the cell's color.
type Recorder struct {
	frames       []*image.Paletted
	cellW, cellH int
	delay        int
}

func NewRecorder() *Recorder {
	return &Recorder{cellW: 8, cellH: 16, delay: 2}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = nil }

// Capture appends a frame. It reports false once MaxFrames is reached.
func (r *Recorder) Capture(c *Canvas) bool {
	if len(r.frames) >= MaxFrames {
		return false
	}

	img := image.NewPaletted(image.Rect(0, 0, c.Width*r.cellW, c.Height*r.cellH), palette.WebSafe)
	dotW, dotH := r.cellW/2, r.cellH/4
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			col := c.CellColor(x, y).Clamp()
			idx := uint8(img.Palette.Index(color.RGBA{
				R: uint8(col.R * 255),
				G: uint8(col.G * 255),
				B: uint8(col.B * 255),
				A: 255,
			}))
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
	return true
}

// Encode writes the recorded frames as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
