// Package session owns the focus-session state machine: the working queue of
// subtasks, the active unit, the timer handoff, learning-mode nudges, and the
// chat transcript. One Controller instance is created per application root
// and injected where needed; there are no package-level singletons.
package session

import (
	"fmt"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/gamify"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/timersync"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/traversal"
	"github.com/google/uuid"
)

// FocusTarget narrows a task's subtask list to a focus queue when entering
// focus mode on a specific subtask instead of the whole task.
type FocusTarget struct {
	SubtaskID       string // The clicked unit
	IncludeChildren bool   // Also queue the unit's children (composite click)
}

// Session is the transient state of one focus session. It is never persisted
// to the backend; the controller's working copy of the queue is authoritative
// for in-session sequencing.
// Fields are ordered to minimize memory padding.
type Session struct {
	InterleaveStart     time.Time
	ID                  string // Guards delayed callbacks against stale sessions
	TaskID              string
	Queue               []domain.Subtask // Working copy, mutated locally
	Messages            []ChatMessage
	Accumulated         time.Duration // Total focused time this session
	ActiveIndex         int
	ParentConfirm       bool // Current unit is a composite awaiting acknowledgment
	LearningMode        bool
	InterleaveSuggested bool
	BreakActive         bool // Timer completed; break surface is showing
}

// Controller orchestrates focus sessions.
// Fields are ordered to minimize memory padding.
type Controller struct {
	clock           domain.Clock
	timer           *timersync.Syncer
	ledger          *gamify.Store
	chats           *ChatArchive
	logger          domain.Logger
	notifier        domain.Notifier
	sound           domain.SoundPlayer
	sess            *Session
	interleaveAfter time.Duration
}

// NewController creates a Controller. The timer syncer's completion callback
// is claimed by the controller; completion fires the chime synchronously,
// raises the break surface, then issues the notification, in that order.
func NewController(
	clock domain.Clock,
	timer *timersync.Syncer,
	ledger *gamify.Store,
	chats *ChatArchive,
	logger domain.Logger,
	notifier domain.Notifier,
	sound domain.SoundPlayer,
	interleaveAfter time.Duration,
) *Controller {
	if interleaveAfter <= 0 {
		interleaveAfter = time.Duration(domain.DefaultInterleaveMinutes) * time.Minute
	}
	c := &Controller{
		clock:           clock,
		timer:           timer,
		ledger:          ledger,
		chats:           chats,
		logger:          logger,
		notifier:        notifier,
		sound:           sound,
		interleaveAfter: interleaveAfter,
	}
	if timer != nil {
		timer.SetOnComplete(c.handleTimerComplete)
	}
	return c
}

// Session returns the active session, or nil when idle.
func (c *Controller) Session() *Session {
	return c.sess
}

// Active reports whether a focus session is in progress.
func (c *Controller) Active() bool {
	return c.sess != nil
}

// Current returns the unit at the active index, or nil when idle.
func (c *Controller) Current() *domain.Subtask {
	if c.sess == nil || c.sess.ActiveIndex < 0 || c.sess.ActiveIndex >= len(c.sess.Queue) {
		return nil
	}
	return &c.sess.Queue[c.sess.ActiveIndex]
}

// EnterFocusMode starts a session over the given task's subtasks, narrowed by
// the optional target. When no incomplete unit exists in the narrowed queue
// the call logs and takes no action. The persisted chat transcript is loaded
// into the session, and learning mode is detected from the first unit's
// strategy tag.
func (c *Controller) EnterFocusMode(taskID string, subtasks []domain.Subtask, target *FocusTarget) error {
	if c.sess != nil {
		return domain.ErrSessionActive
	}

	queue := buildQueue(subtasks, target)
	idx, ok := traversal.FirstFocusable(queue)
	if !ok {
		if c.logger != nil {
			c.logger.Info(taskID, "session", "enter focus mode: no incomplete unit in queue")
		}
		return nil
	}

	sess := &Session{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Queue:       queue,
		ActiveIndex: idx,
	}
	if c.chats != nil {
		sess.Messages = c.chats.Load(taskID)
	}
	if queue[idx].StrategyTag != "" {
		sess.LearningMode = true
		sess.InterleaveStart = c.clock.Now()
	}
	c.sess = sess

	if c.timer != nil && c.timer.Recover(taskID) {
		if c.logger != nil {
			c.logger.Info(taskID, "session", "recovered persisted timer state")
		}
	}
	if c.logger != nil {
		c.logger.Info(taskID, "session", fmt.Sprintf("entered focus mode, %d unit(s) queued", len(queue)))
	}
	return nil
}

// ExitFocusMode ends the session, persisting the transcript and clearing all
// timer state. Idempotent; leftover timer callbacks from the old session are
// neutralized by the session identity check.
func (c *Controller) ExitFocusMode() {
	if c.sess == nil {
		return
	}
	if c.chats != nil {
		c.chats.Save(c.sess.TaskID, c.sess.Messages)
	}
	if c.logger != nil {
		c.logger.Info(c.sess.TaskID, "session", "exited focus mode")
	}
	c.sess = nil
	if c.timer != nil {
		c.timer.Reset()
	}
}

// StartTimer begins a countdown for the current unit with a fresh end time.
func (c *Controller) StartTimer(d time.Duration) error {
	if c.sess == nil {
		return domain.ErrNoSession
	}
	c.sess.BreakActive = false
	c.timer.Start(c.sess.TaskID, c.sess.ID, d)
	return nil
}

// PauseTimer pauses the countdown.
func (c *Controller) PauseTimer() {
	if c.sess != nil {
		c.timer.Pause()
	}
}

// ResumeTimer resumes from pause, recomputing the end time from the paused
// remaining seconds.
func (c *Controller) ResumeTimer() {
	if c.sess != nil {
		c.timer.Resume()
	}
}

// Tick is the display-refresh hook; it reconciles the cached countdown
// against the authoritative end time and returns the seconds remaining.
func (c *Controller) Tick() int {
	if c.sess == nil {
		return 0
	}
	return c.timer.Tick()
}

// AddMessage appends a message to the session transcript and writes through
// to the archive.
func (c *Controller) AddMessage(role, content string) {
	if c.sess == nil {
		return
	}
	c.sess.Messages = append(c.sess.Messages, ChatMessage{
		Time:    c.clock.Now(),
		Role:    role,
		Content: content,
	})
	if c.chats != nil {
		c.chats.Save(c.sess.TaskID, c.sess.Messages)
	}
}

// CompleteCurrentSubtask marks the active unit completed in the working copy,
// credits the focused time to the ledger, and advances to the next unit. When
// the next unit is a composite parent whose children are all done the session
// switches to the parent-confirmation state instead of starting a timer.
// Returns false when the queue is exhausted and the session has ended.
func (c *Controller) CompleteCurrentSubtask(focused time.Duration) bool {
	if c.sess == nil {
		return false
	}
	sess := c.sess
	cur := sess.ActiveIndex
	sess.Queue[cur].IsCompleted = true
	sess.Accumulated += focused

	if c.ledger != nil && !sess.Queue[cur].IsComposite {
		if err := c.ledger.RecordCompletion(int(focused / time.Minute)); err != nil && c.logger != nil {
			c.logger.Warn(sess.TaskID, "gamify", fmt.Sprintf("record completion: %v", err))
		}
	}

	next, ok := traversal.NextAfterCompletion(sess.Queue, cur)
	if !ok {
		c.ExitFocusMode()
		return false
	}
	c.advanceTo(next)
	return true
}

// AcknowledgeParent resolves the parent-confirmation step: the composite
// parent is marked completed and the session advances past it.
// Returns false when nothing remains and the session has ended.
func (c *Controller) AcknowledgeParent() bool {
	if c.sess == nil || !c.sess.ParentConfirm {
		return false
	}
	return c.CompleteCurrentSubtask(0)
}

// SkipCurrentSubtask advances to the next incomplete unit in queue order
// without completing the current one. The composite confirmation flow is not
// consulted; this is a plain linear skip. Returns false when no other
// incomplete unit remains and the session has ended.
func (c *Controller) SkipCurrentSubtask() bool {
	if c.sess == nil {
		return false
	}
	next, ok := traversal.NextIncomplete(c.sess.Queue, c.sess.ActiveIndex)
	if !ok {
		c.ExitFocusMode()
		return false
	}
	c.advanceTo(next)
	return true
}

// CheckInterleaveBreak reports whether the learning-mode topic-switch nudge
// should be shown. The flag latches on the first crossing of the threshold
// and stays set until dismissed; this is advisory UI state, not an interrupt.
func (c *Controller) CheckInterleaveBreak() bool {
	sess := c.sess
	if sess == nil || !sess.LearningMode {
		return false
	}
	if sess.InterleaveSuggested {
		return true
	}
	if c.clock.Now().Sub(sess.InterleaveStart) >= c.interleaveAfter {
		sess.InterleaveSuggested = true
	}
	return sess.InterleaveSuggested
}

// DismissInterleavePopup clears the nudge and restarts its clock.
func (c *Controller) DismissInterleavePopup() {
	if c.sess == nil {
		return
	}
	c.sess.InterleaveSuggested = false
	c.sess.InterleaveStart = c.clock.Now()
}

// advanceTo moves the active index and resets per-unit state. The timer is
// stopped, not restarted; the next unit waits for an explicit StartTimer.
func (c *Controller) advanceTo(next int) {
	sess := c.sess
	sess.ActiveIndex = next
	sess.BreakActive = false
	unit := &sess.Queue[next]
	sess.ParentConfirm = unit.IsComposite && !unit.IsCompleted &&
		domain.AllChildrenDone(sess.Queue, unit.ID)
	c.timer.Stop()
}

// handleTimerComplete runs synchronously inside the tick that observes the
// zero crossing. The chime fires first, in the same call stack, so a
// re-render triggered by the state change cannot lose it; the break surface
// and the notification follow.
func (c *Controller) handleTimerComplete(sessionID string) {
	if c.sess == nil || c.sess.ID != sessionID {
		return // Stale callback from a previous session
	}
	if c.sound != nil {
		c.sound.PlayChime()
	}
	c.sess.BreakActive = true
	if c.notifier != nil {
		c.notifier.Notify("Focus block complete", "Time for a break.")
	}
	if c.logger != nil {
		c.logger.Info(c.sess.TaskID, "timer", "focus block completed")
	}
}

// buildQueue narrows the full subtask list per the focus target: the whole
// list for a task-level entry, one unit plus its children for a composite
// click, or the single unit otherwise. Draft and archived subtasks never
// enter a queue.
func buildQueue(subtasks []domain.Subtask, target *FocusTarget) []domain.Subtask {
	var queue []domain.Subtask
	for _, s := range subtasks {
		if s.IsArchived || s.State == domain.SubtaskDraft {
			continue
		}
		if target == nil {
			queue = append(queue, s)
			continue
		}
		if s.ID == target.SubtaskID {
			queue = append(queue, s)
			continue
		}
		if target.IncludeChildren && s.ParentSubtaskID == target.SubtaskID {
			queue = append(queue, s)
		}
	}
	return queue
}
