package config

import (
	"math"
	"sort"
)

// Preset is a named starting scene.
type Preset struct {
	Description string
	Scene       func(g float64) Scene
}

var Presets = map[string]Preset{
	"solar":      {"Sun with six planets on circular orbits", SolarSystem},
	"binary":     {"two stars about their barycentre with a circumbinary planet", BinaryStar},
	"earth_moon": {"Earth and Moon", EarthMoon},
	"belt":       {"Sun, Jupiter and an asteroid belt", AsteroidBelt},
	"random":     {"central star with randomly spaced planets", RandomSystem},
	"collision":  {"two rocky pairs on collision courses, one fast and one slow", CollisionCourse},
	"supernova":  {"two heavy stars falling together past the supernova mass", Supernova},
	"black_hole": {"black hole with an orbiting star and an infalling rock", BlackHole},
}

// GetPreset returns the default configuration with the named scene, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scene = p.Scene(cfg.Simulation.G)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func around(name string, d float64) *Orbit { return &Orbit{Around: name, Distance: d} }

func color(r, g, b float64) *Triple { return &Triple{r, g, b} }

func SolarSystem(float64) Scene {
	return Scene{
		Name: "solar",
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1000, Radius: 25, Color: color(1, 0.9, 0), IsStar: true},
			{Name: "Mercury", Template: "mercury", Orbit: around("Sun", 80)},
			{Name: "Venus", Template: "venus", Orbit: around("Sun", 140)},
			{Name: "Earth", Template: "earth", Orbit: around("Sun", 200)},
			{Name: "Mars", Template: "mars", Orbit: around("Sun", 280)},
			{Name: "Jupiter", Template: "jupiter", Orbit: around("Sun", 420)},
			{Name: "Saturn", Template: "saturn", Orbit: around("Sun", 580)},
		},
	}
}

// BinaryStar puts both stars on circular orbits about their common centre
// of mass, so the system has zero net momentum.
func BinaryStar(g float64) Scene {
	const m1, m2, sep = 800.0, 640.0, 240.0
	total := m1 + m2
	r1 := sep * m2 / total
	r2 := sep * m1 / total
	v1 := math.Sqrt(g * m2 * m2 / total / sep)
	v2 := math.Sqrt(g * m1 * m1 / total / sep)

	return Scene{
		Name: "binary",
		Bodies: []BodyConfig{
			{Name: "Star Alpha", Mass: m1, Radius: 22, Color: color(1, 0.8, 0.4), IsStar: true,
				Position: Triple{-r1, 0, 0}, Velocity: Triple{0, 0, -v1}},
			{Name: "Star Beta", Mass: m2, Radius: 20, Color: color(0.8, 0.9, 1), IsStar: true,
				Position: Triple{r2, 0, 0}, Velocity: Triple{0, 0, v2}},
			{Name: "Circumbinary Planet", Mass: 2, Radius: 8, Color: color(0.3, 0.8, 0.4),
				Position: Triple{450, 0, 0}, Velocity: Triple{0, 0, math.Sqrt(g * total / 450)}},
		},
	}
}

func EarthMoon(float64) Scene {
	return Scene{
		Name: "earth_moon",
		Bodies: []BodyConfig{
			{Name: "Earth", Mass: 100, Radius: 25, Color: color(0.2, 0.5, 1)},
			{Name: "Moon", Mass: 0.1, Radius: 8, Color: color(0.7, 0.7, 0.7), Orbit: around("Earth", 120)},
		},
	}
}

func AsteroidBelt(float64) Scene {
	return Scene{
		Name: "belt",
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1000, Radius: 25, Color: color(1, 0.9, 0), IsStar: true},
			{Name: "Mars", Template: "mars", Orbit: around("Sun", 280)},
			{Name: "Jupiter", Template: "jupiter", Orbit: around("Sun", 420)},
		},
		Generators: []Generator{
			{Type: GeneratorBelt, Around: "Sun", Count: 50, Inner: 320, Outer: 380, Height: 20},
		},
	}
}

func RandomSystem(float64) Scene {
	return Scene{
		Name: "random",
		Bodies: []BodyConfig{
			{Name: "Central Star", Mass: 1000, Radius: 25, Color: color(1, 0.95, 0.8), IsStar: true},
		},
		Generators: []Generator{
			{Type: GeneratorPlanets, Around: "Central Star", Count: 9, Inner: 100, Outer: 500},
		},
	}
}

// CollisionCourse sends one pair in fast enough to explode and a second,
// well separated pair slowly enough to fragment.
func CollisionCourse(float64) Scene {
	rock := color(0.6, 0.5, 0.4)
	ice := color(0.7, 0.85, 1)
	return Scene{
		Name: "collision",
		Bodies: []BodyConfig{
			{Name: "Rock A", Mass: 5, Radius: 10, Color: rock, Position: Triple{-100, 0, 0}, Velocity: Triple{40, 0, 0}},
			{Name: "Rock B", Mass: 4, Radius: 10, Color: rock, Position: Triple{100, 0, 0}, Velocity: Triple{-40, 0, 0}},
			{Name: "Ice A", Mass: 3, Radius: 8, Color: ice, Position: Triple{-60, 0, 600}, Velocity: Triple{12, 0, 0}},
			{Name: "Ice B", Mass: 2, Radius: 8, Color: ice, Position: Triple{60, 0, 600}, Velocity: Triple{-12, 0, 0}},
		},
	}
}

// Supernova drops two stars together whose combined mass lies between the
// supernova and black hole thresholds, leaving a neutron star.
func Supernova(float64) Scene {
	return Scene{
		Name: "supernova",
		Bodies: []BodyConfig{
			{Name: "Blue Giant", Template: "blue_giant", Mass: 2500, Position: Triple{-120, 0, 0}, Velocity: Triple{5, 0, 0}},
			{Name: "Yellow Giant", Mass: 2000, Radius: 35, Color: color(1, 0.85, 0.3), IsStar: true,
				Position: Triple{120, 0, 0}, Velocity: Triple{-5, 0, 0}},
			{Name: "Outer Planet", Template: "neptune", Orbit: around("Blue Giant", 900)},
		},
	}
}

func BlackHole(float64) Scene {
	return Scene{
		Name: "black_hole",
		Bodies: []BodyConfig{
			{Name: "Black Hole", Kind: "black_hole", Mass: 3000, Radius: 8, Color: color(0.1, 0.1, 0.1)},
			{Name: "Companion", Template: "red_dwarf", Mass: 50, Orbit: around("Black Hole", 400)},
			{Name: "Wanderer", Template: "jupiter", Orbit: &Orbit{Around: "Black Hole", Distance: 250, Angle: math.Pi}},
			{Name: "Infaller", Template: "asteroid", Mass: 1, Radius: 3, Position: Triple{0, 0, -300}, Velocity: Triple{0, 0, 20}},
		},
	}
}
