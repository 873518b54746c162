// Package traversal answers "what is the next focusable unit" over an
// ordered, flat subtask arena. All functions are pure; the session controller
// owns the working copy they operate on.
//
// A "none found" result is a sentinel, never an error: callers no-op or end
// the session (see the controller).
package traversal

import "github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"

// FirstFocusable returns the index of the first unit to focus on, walking
// top-level subtasks in ascending order and descending into composite
// parents' children before considering anything after the parent.
//
// If every subtask in the slice is a child (the queue was seeded from a
// single atomic and pre-filtered by the caller), the first incomplete index
// wins regardless of parent state. A composite parent whose children are all
// done is skipped; it should already have been resolved to completed.
func FirstFocusable(subtasks []domain.Subtask) (int, bool) {
	if len(subtasks) == 0 {
		return 0, false
	}

	if allChildren(subtasks) {
		for _, i := range domain.RootsOf(subtasks) {
			if subtasks[i].Focusable() {
				return i, true
			}
		}
		return 0, false
	}

	for _, i := range domain.RootsOf(subtasks) {
		s := &subtasks[i]
		if !s.Focusable() {
			continue
		}
		if s.IsComposite {
			if ci, ok := firstIncompleteChild(subtasks, s.ID); ok {
				return ci, true
			}
			continue
		}
		return i, true
	}
	return 0, false
}

// NextAfterCompletion returns the index of the unit to focus on after the
// unit at completedIndex has been marked completed.
//
// Completing a child looks for the next incomplete sibling first; when none
// remain, the parent's index is returned so the caller can show the parent
// confirmation step. Completing a composite parent (the confirmation
// acknowledgment) resumes the top-level walk. When neither branch yields a
// unit, the search falls back to FirstFocusable over the whole arena; false
// means no incomplete unit exists anywhere and the session should end.
func NextAfterCompletion(subtasks []domain.Subtask, completedIndex int) (int, bool) {
	if completedIndex < 0 || completedIndex >= len(subtasks) {
		return FirstFocusable(subtasks)
	}
	done := &subtasks[completedIndex]

	if done.IsChild() {
		if pi := indexByID(subtasks, done.ParentSubtaskID); pi >= 0 {
			for _, si := range domain.ChildrenOf(subtasks, done.ParentSubtaskID) {
				if si != completedIndex && subtasks[si].Focusable() {
					return si, true
				}
			}
			if !subtasks[pi].IsCompleted {
				return pi, true
			}
		}
	}

	if done.IsComposite {
		for _, i := range domain.RootsOf(subtasks) {
			s := &subtasks[i]
			if i == completedIndex || !s.Focusable() {
				continue
			}
			if s.IsComposite {
				if ci, ok := firstIncompleteChild(subtasks, s.ID); ok {
					return ci, true
				}
				continue
			}
			return i, true
		}
	}

	return FirstFocusable(subtasks)
}

// NextIncomplete returns the index of the next focusable unit after the given
// index in queue order, wrapping around once. Used by skip, which ignores the
// composite confirmation flow entirely.
func NextIncomplete(subtasks []domain.Subtask, after int) (int, bool) {
	n := len(subtasks)
	if n == 0 {
		return 0, false
	}
	for off := 1; off <= n; off++ {
		i := (after + off) % n
		if i == after {
			break
		}
		if subtasks[i].Focusable() {
			return i, true
		}
	}
	return 0, false
}

func allChildren(subtasks []domain.Subtask) bool {
	for i := range subtasks {
		if !subtasks[i].IsChild() {
			return false
		}
	}
	return true
}

func firstIncompleteChild(subtasks []domain.Subtask, parentID string) (int, bool) {
	for _, ci := range domain.ChildrenOf(subtasks, parentID) {
		if subtasks[ci].Focusable() {
			return ci, true
		}
	}
	return 0, false
}

func indexByID(subtasks []domain.Subtask, id string) int {
	for i := range subtasks {
		if subtasks[i].ID == id {
			return i
		}
	}
	return -1
}
