package timersync

import (
	"sync"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// DefaultCloseDelay is how long a mirror lingers at zero before closing
// itself and notifying the host.
const DefaultCloseDelay = 3 * time.Second

// Snapshot is the host-provided view a mirror renders.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	SessionID string
	TaskTitle string
	Duration  int // Seconds
	TimeLeft  int // Seconds
	Running   bool
}

// Mirror is a read-only secondary renderer of the timer. It free-runs its own
// one-second ticks between syncs so the display keeps moving even when no
// host updates arrive, but a host snapshot always wins: local ticking is a
// smoothing measure, never a source of truth. Reaching zero only schedules a
// self-close and a callback to the host; deciding that the timer actually
// completed belongs to the session controller's end-time check.
type Mirror struct {
	clock      domain.Clock
	onClose    func(sessionID string)
	snap       Snapshot
	zeroAt     time.Time // When the local countdown hit zero
	closeDelay time.Duration
	closed     bool
	mu         sync.Mutex
}

// NewMirror creates a mirror seeded with an initial snapshot.
func NewMirror(clock domain.Clock, initial Snapshot, closeDelay time.Duration, onClose func(sessionID string)) *Mirror {
	if closeDelay <= 0 {
		closeDelay = DefaultCloseDelay
	}
	return &Mirror{
		clock:      clock,
		onClose:    onClose,
		snap:       initial,
		closeDelay: closeDelay,
	}
}

// ApplySnapshot replaces the mirror's cache with the host's state. A snapshot
// with time remaining cancels any pending self-close.
func (m *Mirror) ApplySnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.snap = s
	if s.TimeLeft > 0 {
		m.zeroAt = time.Time{}
	}
}

// ApplyEvent translates a bus event into a snapshot update, for mirrors fed
// directly from the replication channel.
func (m *Mirror) ApplyEvent(ev domain.TimerEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	switch ev.Type {
	case domain.TimerStart, domain.TimerResume:
		left := ev.TimeLeft
		if !ev.EndTime.IsZero() {
			if l := int(ev.EndTime.Sub(m.clock.Now()).Round(time.Second) / time.Second); l > 0 {
				left = l
			}
		}
		m.snap.SessionID = ev.SessionID
		m.snap.TimeLeft = left
		m.snap.Running = true
		m.zeroAt = time.Time{}
	case domain.TimerPause:
		m.snap.Running = false
		m.snap.TimeLeft = ev.TimeLeft
	case domain.TimerTick:
		if m.snap.Running {
			m.snap.TimeLeft = ev.TimeLeft
		}
	case domain.TimerStop:
		m.snap.Running = false
		m.snap.TimeLeft = 0
		if m.zeroAt.IsZero() {
			m.zeroAt = m.clock.Now()
		}
	}
}

// Tick advances the local free-running countdown by one second and returns
// the displayed time left. Once the display reaches zero and the close delay
// elapses, the mirror closes itself and invokes the close callback with the
// session it was mirroring.
func (m *Mirror) Tick() int {
	m.mu.Lock()
	if m.closed {
		left := m.snap.TimeLeft
		m.mu.Unlock()
		return left
	}

	// The close delay arms only on an actual zero crossing (or a stop event
	// via ApplyEvent), so a mirror opened while the timer is idle stays up.
	if m.snap.Running && m.snap.TimeLeft > 0 {
		m.snap.TimeLeft--
		if m.snap.TimeLeft == 0 && m.zeroAt.IsZero() {
			m.zeroAt = m.clock.Now()
		}
	}

	var closeFn func(string)
	session := m.snap.SessionID
	if !m.zeroAt.IsZero() && m.clock.Now().Sub(m.zeroAt) >= m.closeDelay {
		m.closed = true
		closeFn = m.onClose
	}
	left := m.snap.TimeLeft
	m.mu.Unlock()

	if closeFn != nil {
		closeFn(session)
	}
	return left
}

// Snapshot returns a copy of the current display state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Closed reports whether the mirror has shut itself down.
func (m *Mirror) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
