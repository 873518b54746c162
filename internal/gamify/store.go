// Package gamify keeps the XP/level/streak ledger. The ledger is durable and
// independent of any focus session; the session controller feeds it on every
// subtask completion.
package gamify

import (
	"fmt"
	"math"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// dateLayout is the calendar-day granularity used for streak tracking.
const dateLayout = "2006-01-02"

// Ledger is the persisted gamification state.
// Fields are ordered to minimize memory padding.
type Ledger struct {
	LastCompletion string `json:"lastCompletion,omitempty"` // Calendar day of the last completion
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	Streak         int    `json:"streak"`
	TotalMinutes   int    `json:"totalMinutes"` // Lifetime focused minutes
	Completions    int    `json:"completions"`  // Lifetime completed units
}

// Store owns the ledger and persists it through the key-value store.
// Fields are ordered to minimize memory padding.
type Store struct {
	kv       domain.KeyValueStore
	clock    domain.Clock
	notifier domain.Notifier
	logger   domain.Logger
	ledger   Ledger
	baseXP   int
}

// New creates a Store and loads any persisted ledger. A missing or corrupt
// record starts a fresh ledger at level 1.
func New(kv domain.KeyValueStore, clock domain.Clock, notifier domain.Notifier, logger domain.Logger, baseXP int) *Store {
	s := &Store{
		kv:       kv,
		clock:    clock,
		notifier: notifier,
		logger:   logger,
		baseXP:   baseXP,
	}
	var led Ledger
	ok, err := kv.Get(domain.LedgerKey(), &led)
	if err != nil && logger != nil {
		logger.Warn("", "gamify", fmt.Sprintf("load ledger: %v", err))
	}
	if ok && err == nil && led.Level >= 1 {
		s.ledger = led
	} else {
		s.ledger = Ledger{Level: 1}
	}
	return s
}

// Ledger returns a copy of the current ledger.
func (s *Store) Ledger() Ledger {
	return s.ledger
}

// RequiredXP returns the XP threshold to reach the given level:
// floor(100 * 1.5^(level-1)).
func RequiredXP(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(1.5, float64(level-1))))
}

// AddXP grants XP and performs at most one level-up per call, carrying the
// overflow into the new level. A grant spanning more than one threshold
// leaves the remainder in place; the next grant levels again.
func (s *Store) AddXP(amount int) error {
	if amount <= 0 {
		return s.persist()
	}
	s.ledger.XP += amount

	need := RequiredXP(s.ledger.Level + 1)
	if s.ledger.XP >= need {
		s.ledger.XP -= need
		s.ledger.Level++
		if s.notifier != nil {
			s.notifier.Notify("Level up!", fmt.Sprintf("You reached level %d", s.ledger.Level))
		}
		if s.logger != nil {
			s.logger.Info("", "gamify", fmt.Sprintf("level up to %d", s.ledger.Level))
		}
	}
	return s.persist()
}

// CheckStreak updates the daily streak: a same-day repeat is a no-op, a
// completion exactly one day after the last increments, and a longer gap
// resets the streak to 1.
func (s *Store) CheckStreak() error {
	today := s.clock.Now().Format(dateLayout)
	if s.ledger.LastCompletion == today {
		return nil
	}

	switch {
	case s.ledger.LastCompletion == "":
		s.ledger.Streak = 1
	case isNextDay(s.ledger.LastCompletion, today):
		s.ledger.Streak++
	default:
		s.ledger.Streak = 1
	}
	s.ledger.LastCompletion = today
	return s.persist()
}

// RecordCompletion is the session controller's entry point: it grants XP for
// one completed unit (base XP plus one per focused minute) and updates the
// streak and lifetime counters.
func (s *Store) RecordCompletion(focusedMinutes int) error {
	if focusedMinutes < 0 {
		focusedMinutes = 0
	}
	s.ledger.TotalMinutes += focusedMinutes
	s.ledger.Completions++
	if err := s.AddXP(s.baseXP + focusedMinutes); err != nil {
		return err
	}
	return s.CheckStreak()
}

func (s *Store) persist() error {
	if err := s.kv.Put(domain.LedgerKey(), s.ledger); err != nil {
		if s.logger != nil {
			s.logger.Error("", "gamify", fmt.Sprintf("persist ledger: %v", err))
		}
		return err
	}
	return nil
}

func isNextDay(last, today string) bool {
	lastT, err := time.Parse(dateLayout, last)
	if err != nil {
		return false
	}
	todayT, err := time.Parse(dateLayout, today)
	if err != nil {
		return false
	}
	return todayT.Sub(lastT) == 24*time.Hour
}
