// Package mirror provides the miniature timer surface: a read-mostly view of
// a focus timer hosted by another process. It free-runs its own countdown
// between replication events and closes itself shortly after the timer hits
// zero.
package mirror

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/timersync"
)

// Styles holds the styles for the mirror TUI.
type Styles struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Timer lipgloss.Style
	Idle  lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Bold(true),
		Timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981")),
		Idle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")),
	}
}

// MsgTick drives the free-running countdown.
type MsgTick struct{}

// MsgEvent wraps a replicated timer event from the bus.
type MsgEvent struct {
	Event domain.TimerEvent
}

// Model is the mirror TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	mirror *timersync.Mirror
	events <-chan domain.TimerEvent
	styles Styles
	quit   key.Binding
}

// New creates a mirror model. Events received on the channel are applied to
// the mirror; between events the countdown free-runs.
func New(mirror *timersync.Mirror, events <-chan domain.TimerEvent) *Model {
	return &Model{
		mirror: mirror,
		events: events,
		styles: DefaultStyles(),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "close"),
		),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForEvent())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

// waitForEvent blocks on the replication channel.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return MsgEvent{Event: ev}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.mirror.Tick()
		if m.mirror.Closed() {
			return m, tea.Quit
		}
		return m, tickCmd()
	case MsgEvent:
		m.mirror.ApplyEvent(msg.Event)
		if m.mirror.Closed() {
			return m, tea.Quit
		}
		return m, m.waitForEvent()
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the miniature surface.
func (m *Model) View() string {
	snap := m.mirror.Snapshot()
	st := m.styles

	var b strings.Builder
	title := snap.TaskTitle
	if title == "" {
		title = "Focus timer"
	}
	b.WriteString(st.Title.Render(title) + "\n")

	mins, secs := snap.TimeLeft/60, snap.TimeLeft%60
	text := fmt.Sprintf("%02d:%02d", mins, secs)
	if snap.Running {
		b.WriteString(st.Timer.Render(text))
	} else {
		b.WriteString(st.Idle.Render(text + " (paused)"))
	}
	b.WriteString("\n")

	return st.Frame.Render(b.String()) + "\n"
}
