package dynamo

import "math"

// TrigTable is a sin/cos lookup table with linear interpolation between
// entries. It trades a few parts in 1e7 of accuracy for speed, which is
// fine for cosmetic work such as particle spray directions.
type TrigTable struct {
	sin []float64
	cos []float64
}

// DefaultTrigTable has 4096 entries, about 0.0015 rad apart.
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	n = max(n, 4)
	t := &TrigTable{sin: make([]float64, n), cos: make([]float64, n)}
	for i := 0; i < n; i++ {
		t.sin[i], t.cos[i] = math.Sincos(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

// SinCos returns approximate sin(x) and cos(x) for any finite x.
func (t *TrigTable) SinCos(x float64) (float64, float64) {
	n := len(t.sin)
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	idx := x * float64(n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)
	i0, i1 := i%n, (i+1)%n
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac, t.cos[i0]*(1-frac) + t.cos[i1]*frac
}

func FastSinCos(x float64) (float64, float64) { return DefaultTrigTable.SinCos(x) }
