// Package timersync keeps one focus countdown consistent across the owning
// process, other processes of the same instance, and a mirror surface.
//
// The authoritative clock is an absolute end time. Every displayed
// "seconds remaining" value is recomputed from it, so dropped ticks,
// runtime throttling, and sleep/wake gaps cannot cause drift. The cached
// TimeLeft exists only so renderers have something to show between
// recomputations.
package timersync

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/google/uuid"
)

// DefaultGraceWindow is how long after a locally observed stop incoming tick
// events are ignored. A stale mirror that has not yet learned of completion
// must never resurrect a finished countdown.
const DefaultGraceWindow = 2 * time.Second

// State is the replicated timer state.
// Fields are ordered to minimize memory padding.
type State struct {
	EndTime   time.Time // Authoritative; zero when stopped
	TaskID    string
	SessionID string
	Duration  int // Seconds, as originally started
	TimeLeft  int // Seconds, cached for render only
	Running   bool
}

// Record is the durable reload-recovery snapshot written through on every
// state change and deleted on stop.
// Fields are ordered to minimize memory padding.
type Record struct {
	EndTime    time.Time `json:"endTime"`
	TaskID     string    `json:"taskID"`
	SessionID  string    `json:"sessionID"`
	Duration   int       `json:"duration"`
	PausedLeft int       `json:"pausedLeft"` // Seconds remaining when paused
	Paused     bool      `json:"paused"`
}

// Syncer owns the countdown for one process and reconciles it with events
// from other participants.
// Fields are ordered to minimize memory padding.
type Syncer struct {
	clock      domain.Clock
	bus        domain.TimerBus
	kv         domain.KeyValueStore
	logger     domain.Logger
	onComplete func(sessionID string)
	unsub      func()
	origin     string
	firedFor   string // Session whose completion callback already ran
	state      State
	lastStop   time.Time
	grace      time.Duration
	mu         sync.Mutex
}

// New creates a Syncer and subscribes it to the bus. The key-value store may
// be nil for purely in-memory use (tests, mirrors).
func New(clock domain.Clock, bus domain.TimerBus, kv domain.KeyValueStore, logger domain.Logger, grace time.Duration) *Syncer {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	s := &Syncer{
		clock:  clock,
		bus:    bus,
		kv:     kv,
		logger: logger,
		origin: uuid.NewString(),
		grace:  grace,
	}
	if bus != nil {
		s.unsub = bus.Subscribe(s.receive)
	}
	return s
}

// Close removes the bus subscription.
func (s *Syncer) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// SetOnComplete registers the zero-crossing callback. It runs synchronously
// inside the Tick call that observes zero, at most once per session.
func (s *Syncer) SetOnComplete(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// State returns a copy of the current timer state with TimeLeft freshly
// recomputed from the end time.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Running {
		st.TimeLeft = s.remainingLocked()
	}
	return st
}

// Remaining recomputes seconds left from the authoritative end time.
func (s *Syncer) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

// Start begins a countdown with a fresh end time, publishes the start event,
// and writes through the durable record.
func (s *Syncer) Start(taskID, sessionID string, d time.Duration) {
	s.mu.Lock()
	now := s.clock.Now()
	secs := int(d / time.Second)
	s.state = State{
		EndTime:   now.Add(d),
		TaskID:    taskID,
		SessionID: sessionID,
		Duration:  secs,
		TimeLeft:  secs,
		Running:   true,
	}
	ev := s.eventLocked(domain.TimerStart)
	s.mu.Unlock()

	s.publish(ev)
	s.writeRecord()
}

// Pause stops the countdown without losing the remaining time.
func (s *Syncer) Pause() {
	s.mu.Lock()
	if !s.state.Running {
		s.mu.Unlock()
		return
	}
	s.state.TimeLeft = s.remainingLocked()
	s.state.Running = false
	ev := s.eventLocked(domain.TimerPause)
	ev.Paused = true
	s.mu.Unlock()

	s.publish(ev)
	s.writeRecord()
}

// Resume recomputes a fresh end time from the paused remaining seconds.
// A stale end time is never reused.
func (s *Syncer) Resume() {
	s.mu.Lock()
	if s.state.Running || s.state.TimeLeft <= 0 {
		s.mu.Unlock()
		return
	}
	s.state.EndTime = s.clock.Now().Add(time.Duration(s.state.TimeLeft) * time.Second)
	s.state.Running = true
	ev := s.eventLocked(domain.TimerResume)
	s.mu.Unlock()

	s.publish(ev)
	s.writeRecord()
}

// Stop zeroes the countdown, publishes the stop event, deletes the durable
// record, and opens the grace window against stale ticks.
func (s *Syncer) Stop() {
	s.mu.Lock()
	s.state.Running = false
	s.state.TimeLeft = 0
	s.state.EndTime = time.Time{}
	s.lastStop = s.clock.Now()
	ev := s.eventLocked(domain.TimerStop)
	s.mu.Unlock()

	s.publish(ev)
	s.deleteRecord()
}

// Reset clears all timer state without publishing. Used when a session ends
// for reasons other than the timer (exit, queue exhaustion).
func (s *Syncer) Reset() {
	s.Stop()
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
}

// Tick refreshes the cached TimeLeft from the end time and returns it. When
// the recomputation crosses zero the completion callback fires synchronously
// in this call stack, once per session, before the stop event is published.
func (s *Syncer) Tick() int {
	s.mu.Lock()
	if !s.state.Running {
		left := s.state.TimeLeft
		s.mu.Unlock()
		return left
	}

	left := s.remainingLocked()
	s.state.TimeLeft = left
	if left > 0 {
		ev := s.eventLocked(domain.TimerTick)
		s.mu.Unlock()
		s.publish(ev)
		return left
	}

	// Zero crossing: complete exactly once per session.
	s.state.Running = false
	s.state.EndTime = time.Time{}
	s.lastStop = s.clock.Now()
	var complete func(string)
	session := s.state.SessionID
	if s.onComplete != nil && s.firedFor != session {
		s.firedFor = session
		complete = s.onComplete
	}
	ev := s.eventLocked(domain.TimerStop)
	s.mu.Unlock()

	if complete != nil {
		complete(session)
	}
	s.publish(ev)
	s.deleteRecord()
	return 0
}

// Recover restores timer state from the durable record on startup. The record
// only applies when it belongs to the given task and its end time is still in
// the future (or it was paused); anything stale is discarded.
func (s *Syncer) Recover(taskID string) bool {
	if s.kv == nil {
		return false
	}
	var rec Record
	ok, err := s.kv.Get(domain.TimerRecordKey(), &rec)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(taskID, "timer", fmt.Sprintf("read timer record: %v", err))
		}
		return false
	}
	if !ok || rec.TaskID != taskID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if rec.Paused {
		if rec.PausedLeft <= 0 {
			s.discardRecordLocked()
			return false
		}
		s.state = State{
			TaskID:    rec.TaskID,
			SessionID: rec.SessionID,
			Duration:  rec.Duration,
			TimeLeft:  rec.PausedLeft,
		}
		return true
	}
	if !rec.EndTime.After(now) {
		s.discardRecordLocked()
		return false
	}
	s.state = State{
		EndTime:   rec.EndTime,
		TaskID:    rec.TaskID,
		SessionID: rec.SessionID,
		Duration:  rec.Duration,
		Running:   true,
	}
	s.state.TimeLeft = s.remainingLocked()
	return true
}

// receive applies an event published by another participant. The most recent
// end-time-bearing message wins, except for ticks arriving inside the grace
// window after a stop.
func (s *Syncer) receive(ev domain.TimerEvent) {
	if ev.Origin == s.origin {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case domain.TimerStart, domain.TimerResume:
		s.state.EndTime = ev.EndTime
		s.state.TaskID = ev.TaskID
		s.state.SessionID = ev.SessionID
		s.state.Running = true
		s.state.TimeLeft = s.remainingLocked()
	case domain.TimerPause:
		s.state.TaskID = ev.TaskID
		s.state.SessionID = ev.SessionID
		s.state.Running = false
		s.state.TimeLeft = ev.TimeLeft
	case domain.TimerStop:
		s.state.Running = false
		s.state.TimeLeft = 0
		s.state.EndTime = time.Time{}
		s.lastStop = s.clock.Now()
	case domain.TimerTick:
		if !s.lastStop.IsZero() && s.clock.Now().Sub(s.lastStop) <= s.grace {
			// Stale tick racing a stop; a finished timer stays finished.
			return
		}
		if !ev.EndTime.IsZero() {
			s.state.EndTime = ev.EndTime
			s.state.Running = true
			s.state.TimeLeft = s.remainingLocked()
		} else if s.state.Running {
			s.state.TimeLeft = ev.TimeLeft
		}
	}
}

func (s *Syncer) remainingLocked() int {
	if s.state.EndTime.IsZero() {
		return s.state.TimeLeft
	}
	left := math.Round(s.state.EndTime.Sub(s.clock.Now()).Seconds())
	if left < 0 {
		return 0
	}
	return int(left)
}

// eventLocked snapshots the current state into an outgoing event.
func (s *Syncer) eventLocked(t domain.TimerEventType) domain.TimerEvent {
	return domain.TimerEvent{
		Type:      t,
		EndTime:   s.state.EndTime,
		TaskID:    s.state.TaskID,
		SessionID: s.state.SessionID,
		TimeLeft:  s.state.TimeLeft,
		Origin:    s.origin,
	}
}

func (s *Syncer) publish(ev domain.TimerEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Syncer) writeRecord() {
	if s.kv == nil {
		return
	}
	s.mu.Lock()
	rec := Record{
		EndTime:    s.state.EndTime,
		TaskID:     s.state.TaskID,
		SessionID:  s.state.SessionID,
		Duration:   s.state.Duration,
		PausedLeft: s.state.TimeLeft,
		Paused:     !s.state.Running,
	}
	s.mu.Unlock()

	if err := s.kv.Put(domain.TimerRecordKey(), rec); err != nil && s.logger != nil {
		s.logger.Warn(rec.TaskID, "timer", fmt.Sprintf("write timer record: %v", err))
	}
}

func (s *Syncer) deleteRecord() {
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(domain.TimerRecordKey()); err != nil && s.logger != nil {
		s.logger.Warn("", "timer", fmt.Sprintf("delete timer record: %v", err))
	}
}

func (s *Syncer) discardRecordLocked() {
	if s.kv != nil {
		_ = s.kv.Delete(domain.TimerRecordKey())
	}
}
