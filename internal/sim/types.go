package sim

import (
	"io"
	"log/slog"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Metric observes a snapshot at the end of every running frame.
type Metric interface {
	Name() string
	Observe(st Stats)
	Value() float64
	Reset()
}

// CollisionObserver is told about every resolved collision, after the
// roster changes of its frame have been applied.
type CollisionObserver interface {
	OnCollision(ev *collision.Event)
}

// CollisionFunc adapts a plain function to CollisionObserver.
type CollisionFunc func(ev *collision.Event)

func (f CollisionFunc) OnCollision(ev *collision.Event) { f(ev) }

// Stats is a point-in-time summary of a simulation.
type Stats struct {
	Frame        int
	Time         float64
	Bodies       int
	Particles    int
	Kinetic      float64
	Potential    float64
	Total        float64
	Momentum     dynamo.Vector3
	CenterOfMass dynamo.Vector3
	Collisions   int
	TimeScale    float64
	Paused       bool
}

const (
	DefaultBaseSubsteps  = 8
	DefaultMaxSubstepDt  = 0.02
	DefaultMaxFrameDelta = 0.25

	MinTimeScale = 0.01
	MaxTimeScale = 100.0

	DefaultFireTrailSpeed  = 80.0
	DefaultFireTrailRadius = 5.0
	DefaultFireTrailChance = 0.3
)

var fireColor = dynamo.RGB(1, 0.5, 0.1)

// Options configures a Simulation. Start from DefaultOptions; New replaces
// zero or out-of-range numeric fields with their defaults.
type Options struct {
	G                float64
	MinSoftening     float64
	BaseSubsteps     int
	MaxSubstepDt     float64
	MaxFrameDelta    float64
	TimeScale        float64
	ParticleCapacity int
	Seed             int64

	// Integrator defaults to Yoshida4.
	Integrator integrators.Integrator
	// Accelerator defaults to the exact ForceField built from G and
	// MinSoftening. A physics.TreeField trades accuracy for speed on large
	// rosters.
	Accelerator integrators.Accelerator
	Thresholds  collision.Thresholds

	FireTrailSpeed  float64
	FireTrailRadius float64
	FireTrailChance float64

	CollisionsEnabled bool
	Logger            *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		G:                 physics.DefaultG,
		MinSoftening:      physics.DefaultMinSoftening,
		BaseSubsteps:      DefaultBaseSubsteps,
		MaxSubstepDt:      DefaultMaxSubstepDt,
		MaxFrameDelta:     DefaultMaxFrameDelta,
		TimeScale:         1,
		ParticleCapacity:  particles.DefaultCapacity,
		Seed:              1,
		Thresholds:        collision.DefaultThresholds(),
		FireTrailSpeed:    DefaultFireTrailSpeed,
		FireTrailRadius:   DefaultFireTrailRadius,
		FireTrailChance:   DefaultFireTrailChance,
		CollisionsEnabled: true,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if !(o.G > 0) {
		o.G = d.G
	}
	if !(o.MinSoftening > 0) {
		o.MinSoftening = d.MinSoftening
	}
	if o.BaseSubsteps < 1 {
		o.BaseSubsteps = d.BaseSubsteps
	}
	if !(o.MaxSubstepDt > 0) {
		o.MaxSubstepDt = d.MaxSubstepDt
	}
	if !(o.MaxFrameDelta > 0) {
		o.MaxFrameDelta = d.MaxFrameDelta
	}
	if o.TimeScale == 0 {
		o.TimeScale = 1
	}
	o.TimeScale = clampTimeScale(o.TimeScale)
	if o.ParticleCapacity <= 0 {
		o.ParticleCapacity = d.ParticleCapacity
	}
	if o.Integrator == nil {
		o.Integrator = integrators.NewYoshida4()
	}
	if o.Thresholds.Validate() != nil {
		o.Thresholds = d.Thresholds
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
