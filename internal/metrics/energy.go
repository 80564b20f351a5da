package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/sim"
)

// Energy is the mean total energy over the observed frames.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(st sim.Stats) {
	e.total += st.Total
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// SeriesCapacity bounds the per-frame drift history kept by EnergyDrift.
const SeriesCapacity = 1024

// EnergyDrift tracks the worst relative deviation of total energy from the
// first observed frame. It restarts its baseline whenever the body count
// changes, since collisions legitimately add or remove energy.
type EnergyDrift struct {
	name     string
	initial  float64
	bodies   int
	maxDrift float64
	samples  int
	series   []float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(st sim.Stats) {
	if e.samples == 0 || st.Bodies != e.bodies {
		e.initial = st.Total
		e.bodies = st.Bodies
	}
	e.samples++

	drift := 0.0
	if e.initial != 0 {
		drift = math.Abs(st.Total-e.initial) / math.Abs(e.initial)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
	if len(e.series) == SeriesCapacity {
		copy(e.series, e.series[1:])
		e.series = e.series[:SeriesCapacity-1]
	}
	e.series = append(e.series, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Series is the relative drift of the most recent frames, oldest first.
func (e *EnergyDrift) Series() []float64 { return e.series }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.bodies = 0
	e.maxDrift = 0
	e.samples = 0
	e.series = e.series[:0]
}

// MomentumDrift is the worst absolute change of total momentum from the
// first observed frame. Like EnergyDrift it rebases when the body count
// changes: explosion and fragment outcomes do not conserve momentum.
type MomentumDrift struct {
	name     string
	started  bool
	initial  sim.Stats
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(st sim.Stats) {
	if !m.started || st.Bodies != m.initial.Bodies {
		m.initial = st
		m.started = true
	}
	d := st.Momentum.Sub(m.initial.Momentum).Length()
	m.maxDrift = math.Max(m.maxDrift, d)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.started = false
	m.initial = sim.Stats{}
	m.maxDrift = 0
}
