package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.Integrator != "yoshida4" {
		t.Errorf("expected integrator yoshida4, got %s", cfg.Simulation.Integrator)
	}
	if cfg.Run.FrameDt <= 0 {
		t.Error("frame_dt should be positive")
	}
	if cfg.Scene.Name != "solar" {
		t.Errorf("expected solar scene, got %s", cfg.Scene.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			assert.Equal(t, name, cfg.Scene.Name)

			specs, err := cfg.Scene.Build(cfg.Simulation.G, cfg.Simulation.Seed)
			require.NoError(t, err)
			assert.NotEmpty(t, specs)
		})
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	assert.Len(t, presets, len(Presets))
	assert.IsNonDecreasing(t, presets)
	assert.Contains(t, presets, "supernova")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero g", func(c *Config) { c.Simulation.G = 0 }},
		{"nan time scale", func(c *Config) { c.Simulation.TimeScale = math.NaN() }},
		{"no frames", func(c *Config) { c.Run.Frames = 0 }},
		{"negative frame dt", func(c *Config) { c.Run.FrameDt = -1 }},
		{"frame dt above cap", func(c *Config) { c.Run.FrameDt = c.Simulation.MaxFrameDelta * 2 }},
		{"zero substeps", func(c *Config) { c.Simulation.BaseSubsteps = 0 }},
		{"unknown force", func(c *Config) { c.Simulation.Force = "fmm" }},
		{"tree theta", func(c *Config) { c.Simulation.Force = "tree"; c.Simulation.Theta = -1 }},
		{"thresholds", func(c *Config) { c.Thresholds.BlackHoleMass = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, dynamo.ErrParameterBounds), "got %v", err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("binary")
	cfg.Simulation.Integrator = "leapfrog"
	cfg.Simulation.G = 50
	cfg.Run.Frames = 120
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "leapfrog", got.Simulation.Integrator)
	assert.Equal(t, 50.0, got.Simulation.G)
	assert.Equal(t, 120, got.Run.Frames)
	assert.Equal(t, cfg.Scene, got.Scene)
}

func TestLoad_PartialFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "simulation:\n  integrator: euler\nscene:\n  name: earth_moon\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "euler", cfg.Simulation.Integrator)
	assert.Equal(t, physics.DefaultG, cfg.Simulation.G)
	assert.Equal(t, DefaultFrames, cfg.Run.Frames)
	require.Len(t, cfg.Scene.Bodies, 2)
	assert.Equal(t, "Moon", cfg.Scene.Bodies[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("scene:\n  name: andromeda\n"), 0644))
	_, err = Load(unknown)
	assert.ErrorContains(t, err, "andromeda")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("run:\n  frames: 0\n"), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestLoad_ExplicitBodies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `scene:
  name: custom
  bodies:
    - name: Star
      template: sun
    - name: Rock
      mass: 2
      radius: 3
      color: [0.5, 0.25, 0]
      orbit: {around: Star, distance: 250}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	specs, err := cfg.Scene.Build(cfg.Simulation.G, 1)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.True(t, specs[0].IsStar)
	assert.Equal(t, 1000.0, specs[0].Mass)
	assert.Equal(t, dynamo.RGB(0.5, 0.25, 0), specs[1].Color)
	assert.InDelta(t, 250, specs[1].Position.X, 1e-9)
	assert.InDelta(t, math.Sqrt(100*1000/250.0), specs[1].Velocity.Z, 1e-9)
}

func TestScene_Orbit(t *testing.T) {
	const g = 100.0
	scene := Scene{
		Name: "orbits",
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1000, Radius: 10, Position: Triple{10, 0, 0}, Velocity: Triple{1, 0, 0}},
			{Name: "Flat", Mass: 1, Radius: 1, Orbit: around("Sun", 200)},
			{Name: "Polar", Mass: 1, Radius: 1, Orbit: &Orbit{Around: "Sun", Distance: 100, Angle: math.Pi / 2, Inclination: math.Pi / 2}},
			{Name: "Back", Mass: 1, Radius: 1, Orbit: &Orbit{Around: "Sun", Distance: 200, Retrograde: true}},
		},
	}
	specs, err := scene.Build(g, 1)
	require.NoError(t, err)

	v200 := physics.OrbitalVelocity(g, 1000, 200)
	flat := specs[1]
	assert.InDelta(t, 210, flat.Position.X, 1e-9)
	assert.InDelta(t, 1, flat.Velocity.X, 1e-9)
	assert.InDelta(t, v200, flat.Velocity.Z, 1e-9)

	polar := specs[2]
	assert.InDelta(t, 10, polar.Position.X, 1e-9)
	assert.InDelta(t, 100, polar.Position.Y, 1e-9)
	assert.InDelta(t, 0, polar.Position.Z, 1e-9)
	assert.InDelta(t, physics.OrbitalVelocity(g, 1000, 100)-1, polar.Velocity.Length(), 1e-9)

	assert.InDelta(t, -v200, specs[3].Velocity.Z, 1e-9)
}

func TestScene_Errors(t *testing.T) {
	sun := BodyConfig{Name: "Sun", Mass: 1000, Radius: 10}
	tests := []struct {
		name  string
		scene Scene
	}{
		{"unknown center", Scene{Bodies: []BodyConfig{{Name: "P", Mass: 1, Orbit: around("Nowhere", 10)}}}},
		{"orbit before center", Scene{Bodies: []BodyConfig{{Name: "P", Mass: 1, Orbit: around("Sun", 10)}, sun}}},
		{"zero distance", Scene{Bodies: []BodyConfig{sun, {Name: "P", Mass: 1, Orbit: around("Sun", 0)}}}},
		{"unknown template", Scene{Bodies: []BodyConfig{{Name: "P", Template: "pluto"}}}},
		{"unknown kind", Scene{Bodies: []BodyConfig{{Name: "P", Mass: 1, Kind: "white_dwarf"}}}},
		{"no mass", Scene{Bodies: []BodyConfig{{Name: "P", Radius: 1}}}},
		{"unknown generator", Scene{Bodies: []BodyConfig{sun}, Generators: []Generator{{Type: "comets", Around: "Sun", Count: 1, Inner: 1, Outer: 2}}}},
		{"inverted belt", Scene{Bodies: []BodyConfig{sun}, Generators: []Generator{{Type: GeneratorBelt, Around: "Sun", Count: 1, Inner: 300, Outer: 200}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scene.Build(100, 1)
			assert.Error(t, err)
		})
	}
}

func TestBinaryStar_Balanced(t *testing.T) {
	specs, err := BinaryStar(physics.DefaultG).Build(physics.DefaultG, 1)
	require.NoError(t, err)

	stars := []*physics.Body{physics.MustBody(specs[0]), physics.MustBody(specs[1])}
	assert.InDelta(t, 0, physics.TotalMomentum(stars).Length(), 1e-9)
	assert.InDelta(t, 0, physics.CenterOfMass(stars).Length(), 1e-9)
}

func TestBeltGenerator(t *testing.T) {
	scene := AsteroidBelt(physics.DefaultG)
	a, err := scene.Build(physics.DefaultG, 7)
	require.NoError(t, err)
	b, err := scene.Build(physics.DefaultG, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same belt")

	gen := scene.Generators[0]
	belt := a[len(scene.Bodies):]
	require.Len(t, belt, gen.Count)
	for _, s := range belt {
		r := math.Hypot(s.Position.X, s.Position.Z)
		assert.GreaterOrEqual(t, r, gen.Inner)
		assert.LessOrEqual(t, r, gen.Outer)
		assert.LessOrEqual(t, math.Abs(s.Position.Y), gen.Height)
		assert.Equal(t, 0.001, s.Mass)
		assert.Equal(t, 100, s.TrailLength)
	}
}

func TestTemplates(t *testing.T) {
	names := ListTemplates()
	assert.Contains(t, names, "jupiter")

	sun, ok := GetTemplate("sun")
	require.True(t, ok)
	assert.True(t, sun.IsStar)

	_, ok = GetTemplate("pluto")
	assert.False(t, ok)
}
