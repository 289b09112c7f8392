package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/solution"
)

const (
	stateMenu = iota
	stateLab
)

type app struct {
	state    int
	cursor   int
	registry *solution.Registry
	names    []string
	species  chem.SpeciesTable
	theme    Theme
	recorder Recorder
	lab      Lab
	err      error
}

// NewApp returns the menu-driven lab. recorder may be nil.
func NewApp(registry *solution.Registry, theme Theme, recorder Recorder) tea.Model {
	return app{
		state:    stateMenu,
		registry: registry,
		names:    registry.List(),
		species:  chem.NewSpeciesTable(),
		theme:    theme,
		recorder: recorder,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLab {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.lab.Close()
			m.state = stateMenu
			return m, nil
		}
		next, cmd := m.lab.Update(msg)
		m.lab = next.(Lab)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		sol, err := m.registry.Get(m.names[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.lab = NewLab(sol, m.species, m.theme, m.recorder)
		m.state = stateLab
		return m, m.lab.Init()
	}
	return m, nil
}

func (m app) View() string {
	if m.state == stateLab {
		return m.lab.View()
	}

	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	b.WriteString("\n\n    " + h.Render("ACID-BASE SOLUTIONS") + "\n    " + Subtle.Render("equilibrium lab") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.names {
		desc := m.registry.Describe(name)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-12s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + ErrorText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k") + Subtle.Render(" navigate  ") + KeyHint.Render("enter") + Subtle.Render(" select  ") + KeyHint.Render("q") + Subtle.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive starts the menu-driven lab on the alternate screen.
func RunInteractive(registry *solution.Registry, theme Theme, recorder Recorder) error {
	_, err := tea.NewProgram(NewApp(registry, theme, recorder), tea.WithAltScreen()).Run()
	return err
}

// RunLab opens the bench for a single solution.
func RunLab(sol *solution.Solution, theme Theme, recorder Recorder) error {
	lab := NewLab(sol, chem.NewSpeciesTable(), theme, recorder)
	defer lab.Close()
	_, err := tea.NewProgram(lab, tea.WithAltScreen()).Run()
	return err
}
