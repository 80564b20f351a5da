package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/collision"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 46
	historyCapacity = 600
	maxEvents       = 6
	frameRate       = 60
	rotateStep      = 5.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// eventLog keeps the most recent collision lines for the side panel.
type eventLog struct {
	lines      []string
	supernovae int
}

func (l *eventLog) OnCollision(ev *collision.Event) {
	if ev.Supernova {
		l.supernovae++
	}
	l.lines = append(l.lines, ev.String())
	if len(l.lines) > maxEvents {
		l.lines = l.lines[len(l.lines)-maxEvents:]
	}
}

// Model is the live view of a running simulation. It steps the
// simulation by a fixed frame delta on every tick.
type Model struct {
	sim     *sim.Simulation
	scene   string
	frameDt float64

	canvas *Canvas
	camera *Camera
	theme  Theme
	layers Layers

	energy   []float64
	roster   []float64
	events   *eventLog
	recorder *Recorder

	recording bool
	gifPath   string
	status    string
	showHelp  bool
}

type Option func(*Model)

func WithTheme(name string) Option { return func(m *Model) { m.theme = GetTheme(name) } }

func WithGIFPath(path string) Option { return func(m *Model) { m.gifPath = path } }

// WithFrameDt sets the simulated wall-clock delta of one tick.
func WithFrameDt(dt float64) Option {
	return func(m *Model) {
		if dt > 0 {
			m.frameDt = dt
		}
	}
}

// NewModel registers a collision observer on s and aims the camera at
// its bodies.
func NewModel(s *sim.Simulation, scene string, opts ...Option) Model {
	m := Model{
		sim:      s,
		scene:    scene,
		frameDt:  1.0 / frameRate,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(),
		theme:    Themes[0],
		layers:   Layers{Trails: true, Particles: true},
		energy:   make([]float64, 0, historyCapacity),
		roster:   make([]float64, 0, historyCapacity),
		events:   &eventLog{},
		recorder: NewRecorder(),
		gifPath:  "orbitsim.gif",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.camera.Fit(s.Bodies())
	s.OnCollision(m.events)
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(20, msg.Width-panelWidth-6), max(8, msg.Height-2))
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case TickMsg:
		m.step()
		m.draw()
		if m.recording && !m.recorder.Capture(m.canvas) {
			m.stopRecording()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(key string) (Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		if m.sim.TogglePause() {
			m.status = "paused"
		} else {
			m.status = "resumed"
		}
	case "c":
		if m.sim.ToggleCollisions() {
			m.status = "collisions on"
		} else {
			m.status = "collisions off"
		}
	case "+", "=":
		m.status = fmt.Sprintf("time scale %.2gx", m.sim.SetTimeScale(m.sim.TimeScale()*2))
	case "-", "_":
		m.status = fmt.Sprintf("time scale %.2gx", m.sim.SetTimeScale(m.sim.TimeScale()/2))
	case "backspace", "x":
		m.removeLatest()
	case "left", "h":
		m.camera.Rotate(-rotateStep, 0)
	case "right", "l":
		m.camera.Rotate(rotateStep, 0)
	case "up", "k":
		m.camera.Rotate(0, rotateStep)
	case "down", "j":
		m.camera.Rotate(0, -rotateStep)
	case "z":
		m.camera.Zoom(-1)
	case "Z":
		m.camera.Zoom(1)
	case "f":
		m.camera.Fit(m.sim.Bodies())
	case "t":
		m.layers.Trails = !m.layers.Trails
	case "p":
		m.layers.Particles = !m.layers.Particles
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.recorder.Reset()
			m.status = "recording"
		}
	case "T":
		m.theme = NextTheme(m.theme)
		m.status = "theme " + m.theme.Name
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// removeLatest drops the most recently added body.
func (m *Model) removeLatest() {
	bodies := m.sim.Bodies()
	if len(bodies) == 0 {
		m.status = "no bodies"
		return
	}
	b := bodies[len(bodies)-1]
	m.sim.RemoveBody(b)
	m.status = "removed " + b.Name
}

func (m *Model) stopRecording() {
	m.recording = false
	n := m.recorder.Len()
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", n, m.gifPath)
	}
	m.recorder.Reset()
}

func (m *Model) step() {
	m.sim.Update(m.frameDt)
	if m.sim.Paused() {
		return
	}
	m.energy = appendBounded(m.energy, m.sim.TotalEnergy())
	m.roster = appendBounded(m.roster, float64(len(m.sim.Bodies())))
}

func appendBounded(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[len(xs)-historyCapacity:]
	}
	return xs
}

func (m *Model) draw() {
	m.canvas.Clear()
	vp := m.camera.Viewport(m.canvas.DotWidth(), m.canvas.DotHeight())
	Draw(m.canvas, vp, m.sim.Bodies(), m.sim.Particles(), m.layers)
}

func (m Model) View() string {
	st := m.theme.styles()
	canvasView := st.canvas.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.scene)) + "\n")

	state := st.running.Render("RUNNING")
	if m.sim.Paused() {
		state = st.paused.Render("PAUSED")
	}
	if m.recording {
		state += "  " + st.warning.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	s.WriteString(state + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-16),
			asciigraph.Precision(1),
			asciigraph.Caption("total energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	ps := m.sim.ParticleSystem()
	collisions := "on"
	if !m.sim.CollisionsEnabled() {
		collisions = "off"
	}
	row("Time", fmt.Sprintf("%.2f", m.sim.Time()))
	row("Scale", fmt.Sprintf("%.2gx", m.sim.TimeScale()))
	row("Integrator", m.sim.Integrator().Name())
	row("Bodies", fmt.Sprintf("%d  %s", len(m.sim.Bodies()), st.graph.Render(Sparkline(m.roster, 16))))
	row("Particles", fmt.Sprintf("%d ", ps.Len())+ProgressBar(m.theme, float64(ps.Len())/float64(ps.Cap()), 12))
	row("Collisions", fmt.Sprintf("%d (%s)", m.sim.CollisionCount(), collisions))
	row("Supernovae", fmt.Sprintf("%d", m.events.supernovae))
	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.4g", m.energy[len(m.energy)-1]))
	}

	if len(m.events.lines) > 0 {
		s.WriteString("\n" + st.dim.Render("RECENT") + "\n")
		for _, line := range m.events.lines {
			s.WriteString(st.event.Render(truncate(line, panelWidth-6)) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + st.selected.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause C:Collide +/-:Speed\nX:Remove T:Theme G:Record ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const helpText = `
  Space      pause / resume
  c          toggle collisions
  + / -      time scale x2 / /2
  x, bksp    remove the newest body
  arrows     rotate camera (hjkl)
  z / Z      zoom in / out
  f          fit camera to bodies
  t / p      toggle trails / particles
  g          start / stop GIF recording
  T          next theme
  ?          toggle this help
  q          quit
`

// Run shows m full screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
