package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes a data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// TaskRepository manages local (guest-mode) task persistence.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(id string) (*Task, error)

	// List retrieves all tasks, sorted by creation time.
	List() ([]*Task, error)

	// Save creates or updates a task.
	Save(task *Task) error

	// Delete removes a task by ID.
	Delete(id string) error

	// GuestID returns the generated identifier for this guest store.
	GuestID() (string, error)

	// Clear removes all tasks. Used after a successful migration.
	Clear() error
}

// TaskAPI is the backend task service a signed-in user migrates into.
// Only the surface the migration replay needs is modeled here; the full REST
// client is an external collaborator.
type TaskAPI interface {
	// CreateTask creates a task with its subtasks (including completion and
	// archive state) on the backend. Returns the created task.
	CreateTask(ctx context.Context, task *Task) (*Task, error)
}

// KeyValueStore is durable, namespaced key-value storage. Values are JSON
// encoded. Readers tolerate missing keys; corrupt values degrade to "not
// found" rather than failing the caller.
type KeyValueStore interface {
	// Get unmarshals the value for key into dst. Returns false if absent.
	Get(key string, dst any) (bool, error)

	// Put stores value under key.
	Put(key string, value any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all keys with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
}

// TimerEventType is the vocabulary of timer replication events.
type TimerEventType string

const (
	TimerStart  TimerEventType = "start"
	TimerPause  TimerEventType = "pause"
	TimerResume TimerEventType = "resume"
	TimerStop   TimerEventType = "stop"
	TimerTick   TimerEventType = "tick"
)

// TimerEvent is the message published on every timer state change. EndTime is
// the authoritative clock; TimeLeft is a display hint for events that carry no
// end time (pause, tick from a free-running mirror).
// Fields are ordered to minimize memory padding.
type TimerEvent struct {
	EndTime   time.Time      `json:"endTime,omitzero"`
	Type      TimerEventType `json:"type"`
	TaskID    string         `json:"taskID"`
	SessionID string         `json:"sessionID"`
	Origin    string         `json:"origin,omitempty"` // Publisher ID, used to skip self-delivery
	TimeLeft  int            `json:"timeLeft"`         // Seconds
	Paused    bool           `json:"paused,omitempty"`
}

// TimerBus replicates timer events to other participants (other processes of
// the same instance, or a server-assisted realtime channel). Delivery is
// best-effort and unordered across participants.
type TimerBus interface {
	// Publish sends an event to all other subscribers.
	Publish(ev TimerEvent)

	// Subscribe registers a handler for incoming events. The returned
	// function removes the subscription.
	Subscribe(fn func(TimerEvent)) (unsubscribe func())
}

// Notifier raises a user-visible notification. Best-effort, fire-and-forget.
type Notifier interface {
	Notify(title, body string)
}

// SoundPlayer plays the completion chime. Best-effort, fire-and-forget.
type SoundPlayer interface {
	PlayChime()
}

// Logger writes application logs to the global log and, when taskID is
// non-empty, to a per-task log file.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}
