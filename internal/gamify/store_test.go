package gamify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.MockKV, *testutil.MockClock, *testutil.MockNotifier) {
	t.Helper()
	kv := testutil.NewMockKV()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	notifier := &testutil.MockNotifier{}
	return New(kv, clock, notifier, testutil.NopLogger{}, domain.DefaultBaseXP), kv, clock, notifier
}

func TestRequiredXP(t *testing.T) {
	assert.Equal(t, 0, RequiredXP(1))
	assert.Equal(t, 150, RequiredXP(2))
	assert.Equal(t, 225, RequiredXP(3))
	assert.Equal(t, 337, RequiredXP(4)) // floor(337.5)
	assert.Equal(t, 506, RequiredXP(5)) // floor(506.25)
}

func TestNew_FreshLedger(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	led := s.Ledger()

	assert.Equal(t, 1, led.Level)
	assert.Equal(t, 0, led.XP)
	assert.Equal(t, 0, led.Streak)
}

func TestNew_CorruptLedgerStartsFresh(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Values[domain.LedgerKey()] = []byte(`"not a ledger"`)
	clock := &testutil.MockClock{NowTime: time.Now()}

	s := New(kv, clock, nil, testutil.NopLogger{}, domain.DefaultBaseXP)
	assert.Equal(t, 1, s.Ledger().Level)
}

func TestAddXP_LevelUpCarriesOverflow(t *testing.T) {
	s, kv, _, notifier := newTestStore(t)

	require.NoError(t, s.AddXP(180))
	led := s.Ledger()
	assert.Equal(t, 2, led.Level)
	assert.Equal(t, 30, led.XP) // 180 - RequiredXP(2)
	assert.Equal(t, []string{"Level up!"}, notifier.Notifications)

	// Persisted through the key-value store.
	var persisted Ledger
	found, err := kv.Get(domain.LedgerKey(), &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, persisted.Level)
}

func TestAddXP_AtMostOneLevelPerGrant(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	// 400 XP spans level 2 (150) and level 3 (225), but only one level-up
	// happens per grant; the rest waits for the next one.
	require.NoError(t, s.AddXP(400))
	led := s.Ledger()
	assert.Equal(t, 2, led.Level)
	assert.Equal(t, 250, led.XP)

	require.NoError(t, s.AddXP(1))
	led = s.Ledger()
	assert.Equal(t, 3, led.Level)
	assert.Equal(t, 26, led.XP)
}

func TestAddXP_BelowThreshold(t *testing.T) {
	s, _, _, notifier := newTestStore(t)

	require.NoError(t, s.AddXP(99))
	led := s.Ledger()
	assert.Equal(t, 1, led.Level)
	assert.Equal(t, 99, led.XP)
	assert.Empty(t, notifier.Notifications)
}

func TestCheckStreak_SameDayNoOp(t *testing.T) {
	s, _, clock, _ := newTestStore(t)

	require.NoError(t, s.CheckStreak())
	assert.Equal(t, 1, s.Ledger().Streak)

	clock.Advance(4 * time.Hour)
	require.NoError(t, s.CheckStreak())
	assert.Equal(t, 1, s.Ledger().Streak)
}

func TestCheckStreak_ConsecutiveDayIncrements(t *testing.T) {
	s, _, clock, _ := newTestStore(t)

	require.NoError(t, s.CheckStreak())
	clock.Advance(24 * time.Hour)
	require.NoError(t, s.CheckStreak())
	clock.Advance(24 * time.Hour)
	require.NoError(t, s.CheckStreak())

	assert.Equal(t, 3, s.Ledger().Streak)
}

func TestCheckStreak_GapResets(t *testing.T) {
	s, _, clock, _ := newTestStore(t)

	require.NoError(t, s.CheckStreak())
	clock.Advance(24 * time.Hour)
	require.NoError(t, s.CheckStreak())
	assert.Equal(t, 2, s.Ledger().Streak)

	clock.Advance(48 * time.Hour)
	require.NoError(t, s.CheckStreak())
	assert.Equal(t, 1, s.Ledger().Streak)
}

func TestRecordCompletion(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	require.NoError(t, s.RecordCompletion(25))
	led := s.Ledger()
	// Base 10 plus one per focused minute.
	assert.Equal(t, 35, led.XP)
	assert.Equal(t, 25, led.TotalMinutes)
	assert.Equal(t, 1, led.Completions)
	assert.Equal(t, 1, led.Streak)
}

func TestRecordCompletion_NegativeMinutesClamped(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	require.NoError(t, s.RecordCompletion(-5))
	led := s.Ledger()
	assert.Equal(t, 10, led.XP)
	assert.Equal(t, 0, led.TotalMinutes)
}

func TestNew_LoadsPersistedLedger(t *testing.T) {
	s, kv, clock, _ := newTestStore(t)
	require.NoError(t, s.AddXP(130))

	reloaded := New(kv, clock, nil, testutil.NopLogger{}, domain.DefaultBaseXP)
	assert.Equal(t, s.Ledger(), reloaded.Ledger())
}
