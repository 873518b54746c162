// Package focus provides the focus-session TUI: one unit at a time, a
// countdown, and nothing else to look at.
package focus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/session"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/usecase"
)

// Model is the focus TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	c    *app.Container
	task *domain.Task

	// Components
	keys      KeyMap
	styles    Styles
	help      help.Model
	chatInput textinput.Model

	// State
	err         error
	unitFocused time.Duration // Focused time on the current unit

	// Numeric state
	width  int
	height int

	// Boolean state
	chatting bool
	quitting bool
}

// New creates a focus TUI model over an already entered session.
func New(c *app.Container, task *domain.Task) *Model {
	ci := textinput.New()
	ci.Placeholder = "Note to self..."
	ci.CharLimit = 500

	return &Model{
		c:         c,
		task:      task,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		chatInput: ci,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd schedules the next countdown refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return MsgTick{}
	})
}

// persistCompletion writes a completed unit through to the task store.
func (m *Model) persistCompletion(subtaskID string) tea.Cmd {
	taskID := m.task.ID
	uc := m.c.ToggleSubtaskUseCase()
	return func() tea.Msg {
		_, err := uc.Execute(context.Background(), usecase.ToggleSubtaskInput{
			TaskID:    taskID,
			SubtaskID: subtaskID,
		})
		return MsgSaved{Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case MsgTick:
		if m.quitting {
			return m, tea.Quit
		}
		ctrl := m.c.Controller
		if !ctrl.Active() {
			return m, tea.Quit
		}
		if ctrl.Session() != nil && m.timerRunning() {
			m.unitFocused += time.Second
		}
		ctrl.Tick()
		ctrl.CheckInterleaveBreak()
		return m, tickCmd()

	case MsgSaved:
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) timerRunning() bool {
	return m.c.Timer.State().Running
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.c.Controller
	keys := m.keys

	if m.chatting {
		switch msg.String() {
		case "enter":
			if v := strings.TrimSpace(m.chatInput.Value()); v != "" {
				ctrl.AddMessage("user", v)
			}
			m.chatInput.SetValue("")
			m.chatInput.Blur()
			m.chatting = false
			return m, nil
		case "esc":
			m.chatInput.Blur()
			m.chatting = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.chatInput, cmd = m.chatInput.Update(msg)
			return m, cmd
		}
	}

	sess := ctrl.Session()
	switch {
	case key.Matches(msg, keys.Quit):
		ctrl.ExitFocusMode()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Dismiss):
		if sess != nil && sess.InterleaveSuggested {
			ctrl.DismissInterleavePopup()
		}
		return m, nil

	case key.Matches(msg, keys.Start):
		if err := ctrl.StartTimer(time.Duration(m.c.Config.Timer.DefaultMinutes) * time.Minute); err != nil {
			m.err = err
		}
		return m, nil

	case key.Matches(msg, keys.Pause):
		ctrl.PauseTimer()
		return m, nil

	case key.Matches(msg, keys.Resume):
		ctrl.ResumeTimer()
		return m, nil

	case key.Matches(msg, keys.Confirm):
		if sess != nil && sess.ParentConfirm {
			if !ctrl.AcknowledgeParent() {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, nil

	case key.Matches(msg, keys.Complete):
		cur := ctrl.Current()
		if cur == nil {
			return m, nil
		}
		if sess != nil && sess.ParentConfirm {
			// Composite parents resolve through the confirm key.
			return m, nil
		}
		id := cur.ID
		focused := m.unitFocused
		m.unitFocused = 0
		cmd := m.persistCompletion(id)
		if !ctrl.CompleteCurrentSubtask(focused) {
			m.quitting = true
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, cmd

	case key.Matches(msg, keys.Skip):
		m.unitFocused = 0
		if !ctrl.SkipCurrentSubtask() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Chat):
		m.chatting = true
		return m, m.chatInput.Focus()
	}
	return m, nil
}

// View renders the focus surface.
func (m *Model) View() string {
	ctrl := m.c.Controller
	sess := ctrl.Session()
	if sess == nil {
		return "Session ended.\n"
	}
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("Focus: "+m.task.Title) + "\n")

	done := 0
	for i := range sess.Queue {
		if sess.Queue[i].IsCompleted {
			done++
		}
	}
	b.WriteString(st.Progress.Render(fmt.Sprintf("%d/%d steps done", done, len(sess.Queue))) + "\n\n")

	cur := ctrl.Current()
	if cur != nil {
		line := st.Unit.Render(cur.Title)
		if cur.EstimatedMinutes > 0 {
			line += st.Progress.Render(fmt.Sprintf("  (~%d min)", cur.EstimatedMinutes))
		}
		b.WriteString("> " + line + "\n")
	}
	if sess.LearningMode {
		b.WriteString(st.Badge.Render("learning mode") + "\n")
	}

	b.WriteString("\n" + m.timerView() + "\n")

	switch {
	case sess.ParentConfirm && cur != nil:
		b.WriteString("\n" + st.ParentConfirm.Render(
			fmt.Sprintf("All steps of %q are done. Press y to mark it complete.", cur.Title)) + "\n")
	case sess.BreakActive:
		b.WriteString("\n" + st.Break.Render("Focus block complete. Take a break, then press s to start the next one.") + "\n")
	}

	if sess.InterleaveSuggested {
		b.WriteString("\n" + st.Popup.Render("You have been on this topic a while. Consider switching to a different one. (esc to dismiss)") + "\n")
	}

	if n := len(sess.Messages); n > 0 {
		b.WriteString("\n")
		start := n - 3
		if start < 0 {
			start = 0
		}
		for _, msg := range sess.Messages[start:] {
			b.WriteString(st.ChatRole.Render(msg.Role+": ") + st.ChatBody.Render(msg.Content) + "\n")
		}
	}
	if m.chatting {
		b.WriteString("\n" + m.chatInput.View() + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + st.Error.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString(st.Help.Render(m.help.ShortHelpView(m.keys.ShortHelp)))
	b.WriteString("\n")
	return b.String()
}

// timerView renders the countdown from the authoritative timer state.
func (m *Model) timerView() string {
	st := m.styles
	state := m.c.Timer.State()
	left := state.TimeLeft
	mins, secs := left/60, left%60
	text := fmt.Sprintf("%02d:%02d", mins, secs)
	switch {
	case state.Running:
		return st.Timer.Render(text)
	case left > 0:
		return st.TimerPaused.Render(text + " (paused)")
	default:
		return st.Progress.Render(text + "  press s to start a focus block")
	}
}

// RunTarget enters focus mode on the task (optionally narrowed to one
// subtask) and runs the TUI until the session ends.
func RunTarget(c *app.Container, task *domain.Task, target *session.FocusTarget) error {
	if err := c.Controller.EnterFocusMode(task.ID, task.Subtasks, target); err != nil {
		return err
	}
	if !c.Controller.Active() {
		fmt.Println("Nothing to focus on: every step is already done.")
		return nil
	}
	p := tea.NewProgram(New(c, task), tea.WithAltScreen())
	_, err := p.Run()
	c.Controller.ExitFocusMode()
	return err
}
