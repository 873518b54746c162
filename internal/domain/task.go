// Package domain contains core business entities and interfaces.
package domain

import (
	"math"
	"time"
)

// Task represents a top-level unit of work.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created     time.Time `json:"created"`               // Creation time
	Updated     time.Time `json:"updated"`               // Last mutation time
	ID          string    `json:"-"`                     // Task ID (stored as map key, not in value)
	Title       string    `json:"title"`                 // Title (required)
	Description string    `json:"description,omitempty"` // Description (optional)
	Status      Status    `json:"status"`                // Current status
	Subtasks    []Subtask `json:"subtasks,omitempty"`    // Flat arena; children carry ParentSubtaskID
	Progress    int       `json:"progress"`              // 0-100, derived from subtask completion
}

// RecomputeProgress re-derives Progress and Status from the non-archived
// subtasks. Progress is round(100 * completed / total), 0 when there are no
// non-archived subtasks. Status moves to completed only at 100 and to
// in_progress for any partial progress.
func (t *Task) RecomputeProgress() {
	total := 0
	done := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].IsArchived {
			continue
		}
		total++
		if t.Subtasks[i].IsCompleted {
			done++
		}
	}

	if total == 0 {
		t.Progress = 0
		t.Status = StatusPending
		return
	}

	t.Progress = int(math.Round(100 * float64(done) / float64(total)))
	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.Progress > 0:
		t.Status = StatusInProgress
	default:
		t.Status = StatusPending
	}
}

// SubtaskIndex returns the index of the subtask with the given ID, or -1.
func (t *Task) SubtaskIndex(subtaskID string) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return i
		}
	}
	return -1
}

// NextOrder returns the next free order value among the siblings sharing the
// given parent subtask ID (empty = top-level siblings).
func (t *Task) NextOrder(parentSubtaskID string) int {
	next := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].ParentSubtaskID != parentSubtaskID {
			continue
		}
		if t.Subtasks[i].Order >= next {
			next = t.Subtasks[i].Order + 1
		}
	}
	return next
}
