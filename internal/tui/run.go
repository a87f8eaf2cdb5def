package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/session"
)

var (
	stderrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

type runKeys struct {
	Stop  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

var defaultRunKeys = runKeys{
	Stop:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type eventMsg events.Event

type streamClosedMsg struct{}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// RunView streams one run's output. It consumes its own bus
// subscription for wakeups and reads display state from the session.
type RunView struct {
	sess   *session.Session
	events <-chan events.Event
	keys   runKeys
	spin   spinner.Model
	done   bool
}

// NewRunView creates the run view over an existing session and bus
// subscription for the same window.
func NewRunView(sess *session.Session, ch <-chan events.Event) RunView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	return RunView{sess: sess, events: ch, keys: defaultRunKeys, spin: sp}
}

// Done reports whether the run reached a terminal result.
func (m RunView) Done() bool {
	return m.done
}

func (m RunView) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

func (m RunView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.sess.Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Stop):
			m.sess.Stop()
		case key.Matches(msg, m.keys.Clear):
			m.sess.Clear()
		}
		return m, nil

	case eventMsg:
		if msg.Kind == events.KindCompleted {
			m.done = true
		}
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m RunView) View() string {
	v := m.sess.Snapshot()

	s := v.Stdout
	if v.Stderr != "" {
		s += stderrStyle.Render(v.Stderr)
	}

	switch {
	case v.Running:
		s += m.spin.View() + " running · s stop · q quit\n"
	case v.Result != nil:
		s += "\n" + resultLine(v.Result) + "\n"
	}
	return s
}

func resultLine(r *events.Result) string {
	if r.ExitCode == 0 {
		return okStyle.Render(fmt.Sprintf("✓ finished in %dms", r.DurationMs))
	}
	return failStyle.Render(fmt.Sprintf("✗ exit code %d after %dms", r.ExitCode, r.DurationMs))
}
