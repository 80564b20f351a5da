package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/particles"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultIntegrator   = "yoshida4"
	DefaultForce        = "direct"
	DefaultTheta        = 0.5
	DefaultFrames       = 3600
	DefaultFrameDt      = 1.0 / 60
	DefaultSampleEvery  = 10
	DefaultBaseSubsteps = 8
	DefaultMaxSubstepDt = 0.02
	DefaultMaxFrameDt   = 0.25
)

type Config struct {
	Simulation SimulationConfig     `yaml:"simulation"`
	Thresholds collision.Thresholds `yaml:"thresholds"`
	Run        RunConfig            `yaml:"run"`
	Scene      Scene                `yaml:"scene"`
}

type SimulationConfig struct {
	G                float64 `yaml:"g"`
	MinSoftening     float64 `yaml:"min_softening"`
	BaseSubsteps     int     `yaml:"base_substeps"`
	MaxSubstepDt     float64 `yaml:"max_substep_dt"`
	MaxFrameDelta    float64 `yaml:"max_frame_delta"`
	TimeScale        float64 `yaml:"time_scale"`
	ParticleCapacity int     `yaml:"particle_capacity"`
	Seed             int64   `yaml:"seed"`
	Integrator       string  `yaml:"integrator"`
	// Force is "direct" for exact pairwise gravity or "tree" for the
	// Barnes-Hut approximation.
	Force      string  `yaml:"force"`
	Theta      float64 `yaml:"theta"`
	Collisions bool    `yaml:"collisions"`
	FireTrails bool    `yaml:"fire_trails"`
}

type RunConfig struct {
	Frames      int     `yaml:"frames"`
	FrameDt     float64 `yaml:"frame_dt"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			G:                physics.DefaultG,
			MinSoftening:     physics.DefaultMinSoftening,
			BaseSubsteps:     DefaultBaseSubsteps,
			MaxSubstepDt:     DefaultMaxSubstepDt,
			MaxFrameDelta:    DefaultMaxFrameDt,
			TimeScale:        1,
			ParticleCapacity: particles.DefaultCapacity,
			Seed:             1,
			Integrator:       DefaultIntegrator,
			Force:            DefaultForce,
			Theta:            DefaultTheta,
			Collisions:       true,
			FireTrails:       true,
		},
		Thresholds: collision.DefaultThresholds(),
		Run: RunConfig{
			Frames:      DefaultFrames,
			FrameDt:     DefaultFrameDt,
			SampleEvery: DefaultSampleEvery,
		},
		Scene: SolarSystem(1),
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes. A file that names a scene preset without listing bodies gets
// that preset's bodies.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Scene = Scene{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Scene.Bodies) == 0 && len(cfg.Scene.Generators) == 0 {
		name := cfg.Scene.Name
		if name == "" {
			name = "solar"
		}
		p := GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("%s: unknown scene %q", path, name)
		}
		cfg.Scene = p.Scene
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the numeric settings. Integrator names and scene bodies
// are checked when they are built.
func (c *Config) Validate() error {
	s := c.Simulation
	checks := []struct {
		field string
		v     float64
	}{
		{"simulation.g", s.G},
		{"simulation.min_softening", s.MinSoftening},
		{"simulation.max_substep_dt", s.MaxSubstepDt},
		{"simulation.max_frame_delta", s.MaxFrameDelta},
		{"simulation.time_scale", s.TimeScale},
		{"run.frame_dt", c.Run.FrameDt},
	}
	for _, ch := range checks {
		if err := dynamo.CheckPositive(ch.field, ch.v, dynamo.ErrParameterBounds); err != nil {
			return err
		}
	}

	ints := []struct {
		field string
		v     int
	}{
		{"simulation.base_substeps", s.BaseSubsteps},
		{"simulation.particle_capacity", s.ParticleCapacity},
		{"run.frames", c.Run.Frames},
		{"run.sample_every", c.Run.SampleEvery},
	}
	for _, ch := range ints {
		if ch.v < 1 {
			return &dynamo.ValidationError{Field: ch.field, Value: ch.v, Err: dynamo.ErrParameterBounds}
		}
	}

	// Update caps each frame at max_frame_delta, so a longer run frame
	// would silently lose simulated time.
	if c.Run.FrameDt > s.MaxFrameDelta {
		return &dynamo.ValidationError{Field: "run.frame_dt", Value: c.Run.FrameDt, Err: dynamo.ErrParameterBounds}
	}

	switch s.Force {
	case "direct", "tree":
	default:
		return &dynamo.ValidationError{Field: "simulation.force", Value: s.Force, Err: dynamo.ErrParameterBounds}
	}
	if s.Force == "tree" && !(s.Theta >= 0 && s.Theta <= 2) {
		return &dynamo.ValidationError{Field: "simulation.theta", Value: s.Theta, Err: dynamo.ErrParameterBounds}
	}

	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}
