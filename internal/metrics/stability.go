package metrics

import "github.com/san-kum/orbitsim/internal/sim"

// Stability is the fraction of frames in which the system stayed
// gravitationally bound, i.e. its total energy was negative.
type Stability struct {
	name    string
	bound   int
	samples int
}

func NewStability() *Stability {
	return &Stability{name: "stability"}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(st sim.Stats) {
	s.samples++
	if st.Total < 0 {
		s.bound++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.bound) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.bound = 0
	s.samples = 0
}
