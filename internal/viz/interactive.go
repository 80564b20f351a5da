package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SceneEntry is one row of the picker menu.
type SceneEntry struct {
	Name        string
	Description string
}

// Launcher builds the live model for a picked scene.
type Launcher func(scene string) (Model, error)

const (
	stateMenu = iota
	stateSim
)

// picker is a scene menu that hands over to the live view on enter.
type picker struct {
	state   int
	cursor  int
	entries []SceneEntry
	launch  Launcher
	theme   Theme
	err     error
	live    Model
}

func NewPicker(entries []SceneEntry, launch Launcher) tea.Model {
	return picker{entries: entries, launch: launch, theme: Themes[0]}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateSim {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		p.cursor = max(0, p.cursor-1)
	case "down", "j":
		p.cursor = min(len(p.entries)-1, p.cursor+1)
	case "T":
		p.theme = NextTheme(p.theme)
	case "enter", " ":
		if len(p.entries) == 0 {
			return p, nil
		}
		live, err := p.launch(p.entries[p.cursor].Name)
		if err != nil {
			p.err = err
			return p, nil
		}
		live.theme = p.theme
		p.live, p.state, p.err = live, stateSim, nil
		return p, p.live.Init()
	}
	return p, nil
}

func (p picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}

	st := p.theme.styles()
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("ORBITSIM") + "\n")
	b.WriteString("    " + st.dim.Render("n-body gravity with collisions") + "\n\n")
	for i, e := range p.entries {
		name := fmt.Sprintf("%-12s", e.Name)
		if i == p.cursor {
			b.WriteString("    " + st.selected.Render("▸ "+name) + " " + st.event.Render(e.Description) + "\n")
		} else {
			b.WriteString("      " + st.value.Render(name) + " " + st.dim.Render(e.Description) + "\n")
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + st.warning.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.dim.Render("j/k navigate  enter launch  T theme  q quit") + "\n")
	return b.String()
}

// RunPicker shows the scene menu full screen.
func RunPicker(entries []SceneEntry, launch Launcher) error {
	_, err := tea.NewProgram(NewPicker(entries, launch), tea.WithAltScreen()).Run()
	return err
}
