package timersync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

func newTestSyncer(t *testing.T) (*Syncer, *testutil.MockClock, *testutil.MockBus, *testutil.MockKV) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	bus := testutil.NewMockBus()
	kv := testutil.NewMockKV()
	s := New(clock, bus, kv, testutil.NopLogger{}, DefaultGraceWindow)
	t.Cleanup(s.Close)
	return s, clock, bus, kv
}

func TestStart_PublishesAndPersists(t *testing.T) {
	s, clock, bus, kv := newTestSyncer(t)

	s.Start("task-1", "sess-1", 10*time.Minute)

	st := s.State()
	assert.True(t, st.Running)
	assert.Equal(t, 600, st.TimeLeft)
	assert.Equal(t, clock.NowTime.Add(10*time.Minute), st.EndTime)

	require.Len(t, bus.Published, 1)
	assert.Equal(t, domain.TimerStart, bus.Published[0].Type)

	var rec Record
	found, err := kv.Get(domain.TimerRecordKey(), &rec)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "task-1", rec.TaskID)
	assert.False(t, rec.Paused)
}

func TestTick_RecomputesFromEndTime(t *testing.T) {
	// A 63 second gap between ticks must surface in full; cached countdowns
	// that decrement once per observed tick would lose 62 seconds here.
	s, clock, _, _ := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)

	clock.Advance(63 * time.Second)
	assert.Equal(t, 537, s.Tick())
}

func TestTick_CompletionFiresOncePerSession(t *testing.T) {
	s, clock, bus, kv := newTestSyncer(t)

	var completed []string
	s.SetOnComplete(func(sessionID string) {
		completed = append(completed, sessionID)
	})

	s.Start("task-1", "sess-1", 5*time.Second)
	clock.Advance(10 * time.Second)

	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, []string{"sess-1"}, completed)

	// The durable record is gone after completion.
	var rec Record
	found, err := kv.Get(domain.TimerRecordKey(), &rec)
	require.NoError(t, err)
	assert.False(t, found)

	// A stop event went out for mirrors.
	last := bus.Published[len(bus.Published)-1]
	assert.Equal(t, domain.TimerStop, last.Type)

	// A new session completes again.
	s.Start("task-1", "sess-2", 1*time.Second)
	clock.Advance(2 * time.Second)
	s.Tick()
	assert.Equal(t, []string{"sess-1", "sess-2"}, completed)
}

func TestPauseResume_FreshEndTime(t *testing.T) {
	s, clock, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)

	clock.Advance(2 * time.Minute)
	s.Pause()

	st := s.State()
	assert.False(t, st.Running)
	assert.Equal(t, 480, st.TimeLeft)

	var rec Record
	found, _ := kv.Get(domain.TimerRecordKey(), &rec)
	require.True(t, found)
	assert.True(t, rec.Paused)
	assert.Equal(t, 480, rec.PausedLeft)

	// A long pause must not consume time: resume recomputes the end time
	// from the remaining seconds, never reuses the stale one.
	clock.Advance(1 * time.Hour)
	s.Resume()

	st = s.State()
	assert.True(t, st.Running)
	assert.Equal(t, 480, st.TimeLeft)
	assert.Equal(t, clock.NowTime.Add(480*time.Second), st.EndTime)
}

func TestPause_NotRunningNoOp(t *testing.T) {
	s, _, bus, _ := newTestSyncer(t)
	s.Pause()
	assert.Empty(t, bus.Published)
}

func TestResume_AtZeroNoOp(t *testing.T) {
	s, clock, _, _ := newTestSyncer(t)
	s.Start("task-1", "sess-1", 1*time.Second)
	clock.Advance(2 * time.Second)
	s.Tick()

	s.Resume()
	assert.False(t, s.State().Running)
}

func TestReceive_RemoteEventsApply(t *testing.T) {
	// Two syncers sharing one bus: the second mirrors the first's state.
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	bus := testutil.NewMockBus()
	host := New(clock, bus, nil, testutil.NopLogger{}, DefaultGraceWindow)
	other := New(clock, bus, nil, testutil.NopLogger{}, DefaultGraceWindow)
	defer host.Close()
	defer other.Close()

	host.Start("task-1", "sess-1", 10*time.Minute)

	st := other.State()
	assert.True(t, st.Running)
	assert.Equal(t, 600, st.TimeLeft)
	assert.Equal(t, "sess-1", st.SessionID)

	clock.Advance(2 * time.Minute)
	host.Pause()
	st = other.State()
	assert.False(t, st.Running)
	assert.Equal(t, 480, st.TimeLeft)

	host.Resume()
	assert.True(t, other.State().Running)

	host.Stop()
	st = other.State()
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.TimeLeft)
}

func TestReceive_PauseCarriesSessionIdentity(t *testing.T) {
	// A mirror that joins mid-session may see a pause before any start or
	// resume; the paused session must still identify its task.
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	bus := testutil.NewMockBus()
	host := New(clock, bus, nil, testutil.NopLogger{}, DefaultGraceWindow)
	defer host.Close()

	host.Start("task-1", "sess-1", 10*time.Minute)

	late := New(clock, bus, nil, testutil.NopLogger{}, DefaultGraceWindow)
	defer late.Close()

	clock.Advance(2 * time.Minute)
	host.Pause()

	st := late.State()
	assert.False(t, st.Running)
	assert.Equal(t, 480, st.TimeLeft)
	assert.Equal(t, "task-1", st.TaskID)
	assert.Equal(t, "sess-1", st.SessionID)
}

func TestReceive_StaleTickInsideGraceWindowIgnored(t *testing.T) {
	s, clock, _, _ := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)
	s.Stop()

	// A tick from a mirror that has not learned of the stop yet.
	clock.Advance(1 * time.Second)
	s.receive(domain.TimerEvent{
		Type:     domain.TimerTick,
		Origin:   "mirror",
		EndTime:  clock.NowTime.Add(5 * time.Minute),
		TimeLeft: 300,
	})

	st := s.State()
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.TimeLeft)

	// Outside the window the same tick applies again.
	clock.Advance(5 * time.Second)
	s.receive(domain.TimerEvent{
		Type:     domain.TimerTick,
		Origin:   "mirror",
		EndTime:  clock.NowTime.Add(5 * time.Minute),
		TimeLeft: 300,
	})
	assert.True(t, s.State().Running)
}

func TestReceive_OwnOriginSkipped(t *testing.T) {
	s, _, _, _ := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)

	s.receive(domain.TimerEvent{Type: domain.TimerStop, Origin: s.origin})
	assert.True(t, s.State().Running)
}

func TestRecover_RunningRecord(t *testing.T) {
	s, clock, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)

	// A fresh syncer over the same store, as after a process restart.
	clock.Advance(3 * time.Minute)
	reloaded := New(clock, testutil.NewMockBus(), kv, testutil.NopLogger{}, DefaultGraceWindow)
	defer reloaded.Close()

	require.True(t, reloaded.Recover("task-1"))
	st := reloaded.State()
	assert.True(t, st.Running)
	assert.Equal(t, 420, st.TimeLeft)
	assert.Equal(t, "sess-1", st.SessionID)
}

func TestRecover_PausedRecord(t *testing.T) {
	s, clock, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)
	clock.Advance(1 * time.Minute)
	s.Pause()

	clock.Advance(24 * time.Hour)
	reloaded := New(clock, testutil.NewMockBus(), kv, testutil.NopLogger{}, DefaultGraceWindow)
	defer reloaded.Close()

	require.True(t, reloaded.Recover("task-1"))
	st := reloaded.State()
	assert.False(t, st.Running)
	assert.Equal(t, 540, st.TimeLeft)
}

func TestRecover_ExpiredRecordDiscarded(t *testing.T) {
	s, clock, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 1*time.Minute)

	clock.Advance(5 * time.Minute)
	reloaded := New(clock, testutil.NewMockBus(), kv, testutil.NopLogger{}, DefaultGraceWindow)
	defer reloaded.Close()

	assert.False(t, reloaded.Recover("task-1"))

	var rec Record
	found, _ := kv.Get(domain.TimerRecordKey(), &rec)
	assert.False(t, found)
}

func TestRecover_WrongTask(t *testing.T) {
	s, clock, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)

	reloaded := New(clock, testutil.NewMockBus(), kv, testutil.NopLogger{}, DefaultGraceWindow)
	defer reloaded.Close()

	assert.False(t, reloaded.Recover("task-2"))
}

func TestStop_DeletesRecord(t *testing.T) {
	s, _, _, kv := newTestSyncer(t)
	s.Start("task-1", "sess-1", 10*time.Minute)
	s.Stop()

	var rec Record
	found, _ := kv.Get(domain.TimerRecordKey(), &rec)
	assert.False(t, found)
}
