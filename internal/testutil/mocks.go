// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// MockClock is a test double for domain.Clock. Advance moves it forward so
// time-dependent behavior can be exercised deterministically.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks    map[string]*domain.Task
	ID       string
	SaveErr  error
	GetErr   error
	ClearErr error
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[string]*domain.Task),
		ID:    "guest-test",
	}
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Tasks[id], nil
}

// List returns all tasks sorted by creation time.
func (m *MockTaskRepository) List() ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].Created.Equal(tasks[j].Created) {
			return tasks[i].Created.Before(tasks[j].Created)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

// Save saves a task.
func (m *MockTaskRepository) Save(task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete removes a task.
func (m *MockTaskRepository) Delete(id string) error {
	delete(m.Tasks, id)
	return nil
}

// GuestID returns the configured guest identifier.
func (m *MockTaskRepository) GuestID() (string, error) {
	return m.ID, nil
}

// Clear removes all tasks.
func (m *MockTaskRepository) Clear() error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Tasks = make(map[string]*domain.Task)
	return nil
}

// MockTaskAPI is a test double for domain.TaskAPI.
// Fields are ordered to minimize memory padding.
type MockTaskAPI struct {
	Created []*domain.Task
	// FailTitles causes CreateTask to fail for tasks with these titles.
	FailTitles map[string]error
}

// CreateTask records the task, or fails if its title is marked to fail.
func (m *MockTaskAPI) CreateTask(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if err, ok := m.FailTitles[task.Title]; ok {
		return nil, err
	}
	m.Created = append(m.Created, task)
	return task, nil
}

// MockKV is an in-memory test double for domain.KeyValueStore. Values are
// stored JSON encoded like the real store.
type MockKV struct {
	Values map[string]json.RawMessage
	PutErr error
}

// NewMockKV creates a new MockKV with an initialized map.
func NewMockKV() *MockKV {
	return &MockKV{Values: make(map[string]json.RawMessage)}
}

// Get unmarshals the value for key into dst.
func (m *MockKV) Get(key string, dst any) (bool, error) {
	raw, ok := m.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// Put stores value under key.
func (m *MockKV) Put(key string, value any) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Values[key] = raw
	return nil
}

// Delete removes key.
func (m *MockKV) Delete(key string) error {
	delete(m.Values, key)
	return nil
}

// Keys returns all keys with the given prefix, sorted.
func (m *MockKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range m.Values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MockBus is an in-process test double for domain.TimerBus. Published events
// are recorded and delivered synchronously to all subscribers, which lets a
// test wire two Syncers together and observe replication.
type MockBus struct {
	mu        sync.Mutex
	subs      map[int]func(domain.TimerEvent)
	nextID    int
	Published []domain.TimerEvent
}

// NewMockBus creates a new MockBus.
func NewMockBus() *MockBus {
	return &MockBus{subs: make(map[int]func(domain.TimerEvent))}
}

// Publish records the event and delivers it to every subscriber.
func (m *MockBus) Publish(ev domain.TimerEvent) {
	m.mu.Lock()
	m.Published = append(m.Published, ev)
	fns := make([]func(domain.TimerEvent), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registers a handler.
func (m *MockBus) Subscribe(fn func(domain.TimerEvent)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// MockNotifier records notifications for assertions.
type MockNotifier struct {
	Notifications []string
}

// Notify records the notification title.
func (m *MockNotifier) Notify(title, _ string) {
	m.Notifications = append(m.Notifications, title)
}

// MockSound records chime plays for assertions.
type MockSound struct {
	Chimes int
}

// PlayChime counts the call.
func (m *MockSound) PlayChime() {
	m.Chimes++
}

// NopLogger is a domain.Logger that discards everything.
type NopLogger struct{}

// Debug discards the message.
func (NopLogger) Debug(_, _, _ string) {}

// Info discards the message.
func (NopLogger) Info(_, _, _ string) {}

// Warn discards the message.
func (NopLogger) Warn(_, _, _ string) {}

// Error discards the message.
func (NopLogger) Error(_, _, _ string) {}
