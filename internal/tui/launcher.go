// Package tui implements the terminal front end: the launcher for
// picking a template or a recent project, and the run view that streams
// execution output.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/codecell/internal/project"
	"github.com/joss/codecell/internal/template"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type launcherKeys struct {
	Up      key.Binding
	Down    key.Binding
	Section key.Binding
	Select  key.Binding
	Quit    key.Binding
}

var defaultLauncherKeys = launcherKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Section: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch section")),
	Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

const (
	sectionTemplates = iota
	sectionRecents
)

// Selection is the launcher's outcome. Exactly one field is set; both
// nil means the user quit.
type Selection struct {
	Template *template.QuickTemplate
	Recent   *project.RecentProject
}

// Launcher is the start screen: quick templates on top, recent projects
// below.
type Launcher struct {
	templates []template.QuickTemplate
	recents   []project.RecentProject
	keys      launcherKeys

	section int
	cursor  int
	choice  *Selection
	done    bool
}

// NewLauncher creates the launcher model.
func NewLauncher(templates []template.QuickTemplate, recents []project.RecentProject) Launcher {
	return Launcher{templates: templates, recents: recents, keys: defaultLauncherKeys}
}

// Choice returns the selection made, or nil if the user quit.
func (m Launcher) Choice() *Selection {
	return m.choice
}

func (m Launcher) Init() tea.Cmd {
	return nil
}

func (m Launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.sectionLen()-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Section):
		if len(m.recents) > 0 {
			m.section = (m.section + 1) % 2
			m.cursor = 0
		}

	case key.Matches(keyMsg, m.keys.Select):
		m.choice = m.selected()
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Launcher) sectionLen() int {
	if m.section == sectionRecents {
		return len(m.recents)
	}
	return len(m.templates)
}

func (m Launcher) selected() *Selection {
	if m.section == sectionRecents {
		if m.cursor >= len(m.recents) {
			return nil
		}
		r := m.recents[m.cursor]
		return &Selection{Recent: &r}
	}
	if m.cursor >= len(m.templates) {
		return nil
	}
	t := m.templates[m.cursor]
	return &Selection{Template: &t}
}

func (m Launcher) View() string {
	if m.done {
		return ""
	}

	s := titleStyle.Render("CodeCell") + "\n"

	s += sectionStyle.Render("Templates") + "\n"
	for i, t := range m.templates {
		line := t.Icon + " " + t.Name
		if m.section == sectionTemplates && i == m.cursor {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	if len(m.recents) > 0 {
		s += sectionStyle.Render("Recent") + "\n"
		for i, r := range m.recents {
			line := r.Name + " " + dimStyle.Render(string(r.Template))
			if m.section == sectionRecents && i == m.cursor {
				s += selectedStyle.Render("> "+line) + "\n"
			} else {
				s += "  " + line + "\n"
			}
		}
	}

	s += helpStyle.Render("↑/↓ move · tab section · enter open · q quit")
	return s
}
