package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Registry resolves the names used in configs and on the command line.
type Registry struct {
	forces map[string]func(cfg config.SimulationConfig) integrators.Accelerator
}

func NewRegistry() *Registry {
	r := &Registry{
		forces: make(map[string]func(config.SimulationConfig) integrators.Accelerator),
	}

	r.forces["direct"] = func(c config.SimulationConfig) integrators.Accelerator {
		return &physics.ForceField{G: c.G, MinSoftening: c.MinSoftening}
	}
	r.forces["tree"] = func(c config.SimulationConfig) integrators.Accelerator {
		return &physics.TreeField{G: c.G, MinSoftening: c.MinSoftening, Theta: c.Theta}
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	return integrators.Lookup(name)
}

func (r *Registry) GetAccelerator(c config.SimulationConfig) (integrators.Accelerator, error) {
	fn, ok := r.forces[c.Force]
	if !ok {
		return nil, fmt.Errorf("unknown force model: %s", c.Force)
	}
	return fn(c), nil
}

func (r *Registry) GetScene(name string) (config.Scene, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return config.Scene{}, fmt.Errorf("unknown scene: %s", name)
	}
	return cfg.Scene, nil
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

func (r *Registry) ListScenes() []string { return config.ListPresets() }

func (r *Registry) ListForces() []string {
	names := make([]string, 0, len(r.forces))
	for name := range r.forces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the metric set every run records.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewStability(),
	}
}

// Options translates the simulation section of a config into sim.Options.
func (r *Registry) Options(cfg *config.Config) (sim.Options, error) {
	c := cfg.Simulation
	integ, err := r.GetIntegrator(c.Integrator)
	if err != nil {
		return sim.Options{}, err
	}
	accel, err := r.GetAccelerator(c)
	if err != nil {
		return sim.Options{}, err
	}

	opts := sim.DefaultOptions()
	opts.G = c.G
	opts.MinSoftening = c.MinSoftening
	opts.BaseSubsteps = c.BaseSubsteps
	opts.MaxSubstepDt = c.MaxSubstepDt
	opts.MaxFrameDelta = c.MaxFrameDelta
	opts.TimeScale = c.TimeScale
	opts.ParticleCapacity = c.ParticleCapacity
	opts.Seed = c.Seed
	opts.Integrator = integ
	opts.Accelerator = accel
	opts.Thresholds = cfg.Thresholds
	opts.CollisionsEnabled = c.Collisions
	if !c.FireTrails {
		opts.FireTrailChance = 0
	}
	return opts, nil
}
