package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Simulation owns the body roster, the particle effects and the frame
// pipeline: sub-stepped integration, one collision pass, particle update
// and fire trails. It is not safe for concurrent use.
type Simulation struct {
	opts       Options
	field      *physics.ForceField
	accel      integrators.Accelerator
	integrator integrators.Integrator
	resolver   *collision.Resolver
	particles  *particles.System
	rng        *rand.Rand
	logger     *slog.Logger

	bodies     []*physics.Body
	batch      *collision.Batch
	timeScale  float64
	paused     bool
	collisions bool
	time       float64
	frame      int

	metrics   []Metric
	observers []CollisionObserver
	resolved  []collision.Event
}

func New(opts Options) *Simulation {
	opts = opts.normalized()
	rng := rand.New(rand.NewSource(opts.Seed))
	ps := particles.NewSystem(opts.ParticleCapacity, rng)

	field := &physics.ForceField{G: opts.G, MinSoftening: opts.MinSoftening}
	var accel integrators.Accelerator = field
	if opts.Accelerator != nil {
		accel = opts.Accelerator
	}

	return &Simulation{
		opts:       opts,
		field:      field,
		accel:      accel,
		integrator: opts.Integrator,
		resolver:   collision.NewResolver(opts.Thresholds, ps, rng, opts.Logger),
		particles:  ps,
		rng:        rng,
		logger:     opts.Logger,
		batch:      collision.NewBatch(),
		timeScale:  opts.TimeScale,
		collisions: opts.CollisionsEnabled,
	}
}

func (s *Simulation) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulation) OnCollision(o CollisionObserver) { s.observers = append(s.observers, o) }

// AddBody appends b to the roster. Nil is ignored.
func (s *Simulation) AddBody(b *physics.Body) {
	if b == nil {
		return
	}
	s.bodies = append(s.bodies, b)
}

// Spawn validates spec, builds the body and adds it.
func (s *Simulation) Spawn(spec physics.Spec) (*physics.Body, error) {
	b, err := physics.NewBody(spec)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}
	s.AddBody(b)
	return b, nil
}

// RemoveBody drops b from the roster. Absent bodies are a no-op.
func (s *Simulation) RemoveBody(b *physics.Body) {
	i := slices.Index(s.bodies, b)
	if i < 0 {
		return
	}
	s.bodies = slices.Delete(slices.Clone(s.bodies), i, i+1)
}

// Clear removes every body, every particle and any pending roster change.
func (s *Simulation) Clear() {
	s.bodies = nil
	s.particles.Clear()
	s.batch.Reset()
}

// Bodies is the current roster in insertion order. Callers must not
// modify the slice.
func (s *Simulation) Bodies() []*physics.Body { return s.bodies }

func (s *Simulation) Particles() []particles.Particle { return s.particles.Particles() }

func (s *Simulation) ParticleSystem() *particles.System { return s.particles }

func (s *Simulation) Integrator() integrators.Integrator { return s.integrator }

func (s *Simulation) ForceField() *physics.ForceField { return s.field }

// Accelerator is the field the integrator steps with.
func (s *Simulation) Accelerator() integrators.Accelerator { return s.accel }

// SetTimeScale clamps scale into [MinTimeScale, MaxTimeScale] and returns
// the applied value. NaN resets the scale to 1.
func (s *Simulation) SetTimeScale(scale float64) float64 {
	s.timeScale = clampTimeScale(scale)
	return s.timeScale
}

func (s *Simulation) TimeScale() float64 { return s.timeScale }

func clampTimeScale(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(MinTimeScale, math.Min(v, MaxTimeScale))
}

// TogglePause flips between running and paused and returns the new
// paused state.
func (s *Simulation) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

func (s *Simulation) Paused() bool { return s.paused }

func (s *Simulation) ToggleCollisions() bool {
	s.collisions = !s.collisions
	return s.collisions
}

func (s *Simulation) CollisionsEnabled() bool { return s.collisions }

// Time is the accumulated simulated time.
func (s *Simulation) Time() float64 { return s.time }

// Frame is the number of running frames so far.
func (s *Simulation) Frame() int { return s.frame }

func (s *Simulation) CollisionCount() int { return s.resolver.Count() }

func (s *Simulation) TotalKineticEnergy() float64 { return physics.KineticEnergy(s.bodies) }

func (s *Simulation) TotalPotentialEnergy() float64 {
	return physics.PotentialEnergy(s.bodies, s.field.G)
}

func (s *Simulation) TotalEnergy() float64 {
	return s.TotalKineticEnergy() + s.TotalPotentialEnergy()
}

func (s *Simulation) CenterOfMass() dynamo.Vector3 { return physics.CenterOfMass(s.bodies) }

func (s *Simulation) TotalMomentum() dynamo.Vector3 { return physics.TotalMomentum(s.bodies) }

func (s *Simulation) Stats() Stats {
	ke := s.TotalKineticEnergy()
	pe := s.TotalPotentialEnergy()
	return Stats{
		Frame:        s.frame,
		Time:         s.time,
		Bodies:       len(s.bodies),
		Particles:    s.particles.Len(),
		Kinetic:      ke,
		Potential:    pe,
		Total:        ke + pe,
		Momentum:     s.TotalMomentum(),
		CenterOfMass: s.CenterOfMass(),
		Collisions:   s.resolver.Count(),
		TimeScale:    s.timeScale,
		Paused:       s.paused,
	}
}

// Substeps returns the sub-step count and length used for a frame of
// scaled duration at the current time scale.
func (s *Simulation) Substeps(scaled float64) (int, float64) {
	base := s.opts.BaseSubsteps
	n := max(base, int(float64(base)*s.timeScale/2))
	h := scaled / float64(n)
	if h > s.opts.MaxSubstepDt {
		n = int(scaled/s.opts.MaxSubstepDt) + 1
		h = scaled / float64(n)
	}
	return n, h
}

// Update advances the simulation by a wall-clock delta dt. Non-positive or
// non-finite deltas are ignored and dt is capped at MaxFrameDelta.
func (s *Simulation) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	dt = math.Min(dt, s.opts.MaxFrameDelta)

	if s.paused {
		s.particles.Update(dt)
		return
	}

	scaled := dt * s.timeScale
	n, h := s.Substeps(scaled)
	for i := 0; i < n; i++ {
		s.integrator.Step(s.bodies, s.accel, h)
	}
	s.time += scaled
	s.frame++

	if s.collisions {
		s.collide()
	}

	s.particles.Update(scaled)
	s.emitFireTrails()

	if len(s.metrics) > 0 {
		st := s.Stats()
		for _, m := range s.metrics {
			m.Observe(st)
		}
	}
}

func (s *Simulation) collide() {
	events := collision.Detect(s.bodies, s.batch, s.resolver.Thresholds)
	if len(events) == 0 {
		return
	}

	s.resolved = s.resolved[:0]
	for i := range events {
		if s.resolver.Resolve(&events[i], s.batch) {
			s.resolved = append(s.resolved, events[i])
		}
	}
	s.bodies = s.batch.Apply(s.bodies)

	for i := range s.resolved {
		ev := &s.resolved[i]
		for _, o := range s.observers {
			o.OnCollision(ev)
		}
	}
}

func (s *Simulation) emitFireTrails() {
	if s.opts.FireTrailChance <= 0 {
		return
	}
	for _, b := range s.bodies {
		if b.Velocity.Length() > s.opts.FireTrailSpeed && b.Radius < s.opts.FireTrailRadius {
			if s.rng.Float64() < s.opts.FireTrailChance {
				s.particles.FireTrail(b.Position, b.Velocity, fireColor)
			}
		}
	}
}

// Run drives frames fixed-delta frames headlessly, calling fn after each
// one. It stops early when fn returns false or ctx is done. A dt above
// MaxFrameDelta is rejected rather than capped.
func (s *Simulation) Run(ctx context.Context, frames int, dt float64, fn func(st Stats) bool) error {
	if frames <= 0 {
		return &dynamo.ValidationError{Field: "frames", Value: frames, Err: dynamo.ErrParameterBounds}
	}
	if err := dynamo.CheckPositive("frame_dt", dt, dynamo.ErrParameterBounds); err != nil {
		return err
	}
	if dt > s.opts.MaxFrameDelta {
		return &dynamo.ValidationError{Field: "frame_dt", Value: dt, Err: dynamo.ErrParameterBounds}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Update(dt)

		if fn != nil && !fn(s.Stats()) {
			return nil
		}
	}
	return nil
}
