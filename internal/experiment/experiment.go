package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Sample is one row of the recorded energy series.
type Sample struct {
	Frame     int     `json:"frame" msgpack:"frame"`
	Time      float64 `json:"time" msgpack:"time"`
	Bodies    int     `json:"bodies" msgpack:"bodies"`
	Particles int     `json:"particles" msgpack:"particles"`
	Kinetic   float64 `json:"kinetic" msgpack:"kinetic"`
	Potential float64 `json:"potential" msgpack:"potential"`
	Total     float64 `json:"total" msgpack:"total"`
	Momentum  float64 `json:"momentum" msgpack:"momentum"`
}

// CollisionRecord is a resolved collision, flattened for output.
type CollisionRecord struct {
	Frame     int            `json:"frame" msgpack:"frame"`
	Time      float64        `json:"time" msgpack:"time"`
	Type      string         `json:"type" msgpack:"type"`
	A         string         `json:"a" msgpack:"a"`
	B         string         `json:"b" msgpack:"b"`
	Mass      float64        `json:"mass" msgpack:"mass"`
	Impact    float64        `json:"impact" msgpack:"impact"`
	Position  dynamo.Vector3 `json:"position" msgpack:"position"`
	Supernova bool           `json:"supernova,omitempty" msgpack:"supernova,omitempty"`
	Remnant   string         `json:"remnant,omitempty" msgpack:"remnant,omitempty"`
	Products  []string       `json:"products,omitempty" msgpack:"products,omitempty"`
}

// BodyState is a body at the end of a run, with its trail.
type BodyState struct {
	Name     string           `json:"name" msgpack:"name"`
	Kind     string           `json:"kind" msgpack:"kind"`
	Mass     float64          `json:"mass" msgpack:"mass"`
	Radius   float64          `json:"radius" msgpack:"radius"`
	Position dynamo.Vector3   `json:"position" msgpack:"position"`
	Velocity dynamo.Vector3   `json:"velocity" msgpack:"velocity"`
	Color    string           `json:"color" msgpack:"color"`
	Trail    []dynamo.Vector3 `json:"trail,omitempty" msgpack:"trail,omitempty"`
}

type Result struct {
	Scene      string             `json:"scene" msgpack:"scene"`
	Integrator string             `json:"integrator" msgpack:"integrator"`
	Force      string             `json:"force" msgpack:"force"`
	Seed       int64              `json:"seed" msgpack:"seed"`
	Frames     int                `json:"frames" msgpack:"frames"`
	FrameDt    float64            `json:"frame_dt" msgpack:"frame_dt"`
	Elapsed    time.Duration      `json:"elapsed" msgpack:"elapsed"`
	Samples    []Sample           `json:"samples" msgpack:"samples"`
	Collisions []CollisionRecord  `json:"collisions" msgpack:"collisions"`
	Metrics    map[string]float64 `json:"metrics" msgpack:"metrics"`
	Bodies     []BodyState        `json:"bodies" msgpack:"bodies"`
}

// Totals returns the total energy column of the samples.
func (r *Result) Totals() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Total
	}
	return out
}

// Experiment is a configured, headless simulation run.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *slog.Logger
	simulator *sim.Simulation
	metrics   []sim.Metric
	tally     *metrics.CollisionTally
	records   []CollisionRecord
}

func New(cfg *config.Config, registry *Registry, logger *slog.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// Setup validates the config, builds the simulation and spawns the scene.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	opts, err := e.registry.Options(e.cfg)
	if err != nil {
		return err
	}
	opts.Logger = e.logger

	specs, err := e.cfg.Scene.Build(e.cfg.Simulation.G, e.cfg.Simulation.Seed)
	if err != nil {
		return err
	}

	s := sim.New(opts)
	for _, spec := range specs {
		if _, err := s.Spawn(spec); err != nil {
			return fmt.Errorf("spawn %s: %w", spec.Name, err)
		}
	}

	e.metrics = e.registry.DefaultMetrics()
	e.tally = metrics.NewCollisionTally()
	e.metrics = append(e.metrics, e.tally)
	for _, m := range e.metrics {
		s.AddMetric(m)
	}
	s.OnCollision(e.tally)
	s.OnCollision(sim.CollisionFunc(func(ev *collision.Event) {
		e.records = append(e.records, record(s, ev))
	}))

	e.simulator = s
	e.logger.Debug("experiment ready",
		"scene", e.cfg.Scene.Name,
		"bodies", len(specs),
		"integrator", opts.Integrator.Name(),
		"force", e.cfg.Simulation.Force)
	return nil
}

func record(s *sim.Simulation, ev *collision.Event) CollisionRecord {
	rec := CollisionRecord{
		Frame:     s.Frame(),
		Time:      s.Time(),
		Type:      ev.Type.String(),
		A:         ev.A.Name,
		B:         ev.B.Name,
		Mass:      ev.TotalMass(),
		Impact:    ev.ImpactVelocity,
		Position:  ev.Position,
		Supernova: ev.Supernova,
	}
	if ev.Supernova {
		rec.Remnant = ev.Remnant.String()
	}
	for _, p := range ev.Products {
		rec.Products = append(rec.Products, p.Name)
	}
	return rec
}

// Run drives the configured number of frames and collects the result.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.records = e.records[:0]

	every := e.cfg.Run.SampleEvery
	samples := []Sample{sampleOf(e.simulator.Stats())}
	start := time.Now()

	err := e.simulator.Run(ctx, e.cfg.Run.Frames, e.cfg.Run.FrameDt, func(st sim.Stats) bool {
		if st.Frame%every == 0 {
			samples = append(samples, sampleOf(st))
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Scene:      e.cfg.Scene.Name,
		Integrator: e.simulator.Integrator().Name(),
		Force:      e.cfg.Simulation.Force,
		Seed:       e.cfg.Simulation.Seed,
		Frames:     e.cfg.Run.Frames,
		FrameDt:    e.cfg.Run.FrameDt,
		Elapsed:    time.Since(start),
		Samples:    samples,
		Collisions: append([]CollisionRecord(nil), e.records...),
		Metrics:    make(map[string]float64, len(e.metrics)),
		Bodies:     Snapshot(e.simulator.Bodies()),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	e.logger.Info("run complete",
		"scene", res.Scene,
		"integrator", res.Integrator,
		"frames", res.Frames,
		"bodies", len(res.Bodies),
		"collisions", len(res.Collisions),
		"elapsed", res.Elapsed)
	return res, nil
}

func sampleOf(st sim.Stats) Sample {
	return Sample{
		Frame:     st.Frame,
		Time:      st.Time,
		Bodies:    st.Bodies,
		Particles: st.Particles,
		Kinetic:   st.Kinetic,
		Potential: st.Potential,
		Total:     st.Total,
		Momentum:  st.Momentum.Length(),
	}
}

// Snapshot copies the roster into output form.
func Snapshot(bodies []*physics.Body) []BodyState {
	out := make([]BodyState, len(bodies))
	for i, b := range bodies {
		out[i] = BodyState{
			Name:     b.Name,
			Kind:     b.Kind.String(),
			Mass:     b.Mass,
			Radius:   b.Radius,
			Position: b.Position,
			Velocity: b.Velocity,
			Color:    b.Color.Hex(),
			Trail:    b.Trail.Points(),
		}
	}
	return out
}

// Simulation returns the underlying simulation, nil before Setup.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulator
}

// Tally returns the collision counts of the last run.
func (e *Experiment) Tally() *metrics.CollisionTally {
	return e.tally
}
