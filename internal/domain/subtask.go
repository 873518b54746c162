package domain

import "slices"

// StepType categorizes the kind of effort a subtask requires.
type StepType string

const (
	StepMental   StepType = "mental"
	StepPhysical StepType = "physical"
	StepCreative StepType = "creative"
)

// SubtaskState distinguishes AI-suggested drafts from approved subtasks.
type SubtaskState string

const (
	SubtaskDraft  SubtaskState = "draft"  // Suggested, not yet approved
	SubtaskActive SubtaskState = "active" // Approved and focusable
)

// Subtask is a step within a task. A subtask with a non-empty ParentSubtaskID
// is an atomic child of a composite parent; a subtask with IsComposite set
// has been decomposed into such children. Children are never stored on the
// parent; they are looked up through the back-reference (see ChildrenOf).
// Fields are ordered to minimize memory padding.
type Subtask struct {
	ID               string       `json:"id"`
	ParentTaskID     string       `json:"parentTaskID"`
	ParentSubtaskID  string       `json:"parentSubtaskID,omitempty"` // Empty = top-level
	Title            string       `json:"title"`
	StepType         StepType     `json:"stepType,omitempty"`
	State            SubtaskState `json:"state"`
	LinkedTaskID     string       `json:"linkedTaskID,omitempty"` // Cross-task reference
	StrategyTag      string       `json:"strategyTag,omitempty"`  // Learning-strategy marker
	Order            int          `json:"order"`                  // Sibling sequence, unique per group
	EstimatedMinutes int          `json:"estimatedMinutes,omitempty"`
	IsComposite      bool         `json:"isComposite,omitempty"`
	IsCompleted      bool         `json:"isCompleted"`
	IsArchived       bool         `json:"isArchived,omitempty"`
}

// IsChild returns true if this subtask belongs to a composite parent.
func (s *Subtask) IsChild() bool {
	return s.ParentSubtaskID != ""
}

// Focusable returns true if the subtask can still be worked on.
func (s *Subtask) Focusable() bool {
	return !s.IsCompleted && !s.IsArchived
}

// ChildrenOf returns the indices of the children of the given parent subtask,
// sorted by Order.
func ChildrenOf(subtasks []Subtask, parentSubtaskID string) []int {
	var out []int
	for i := range subtasks {
		if subtasks[i].ParentSubtaskID == parentSubtaskID {
			out = append(out, i)
		}
	}
	sortByOrder(subtasks, out)
	return out
}

// RootsOf returns the indices of subtasks that have no parent present in the
// slice, sorted by Order. A child whose parent is absent (e.g. a pre-filtered
// focus queue) counts as a root.
func RootsOf(subtasks []Subtask) []int {
	ids := make(map[string]bool, len(subtasks))
	for i := range subtasks {
		ids[subtasks[i].ID] = true
	}
	var out []int
	for i := range subtasks {
		if subtasks[i].ParentSubtaskID == "" || !ids[subtasks[i].ParentSubtaskID] {
			out = append(out, i)
		}
	}
	sortByOrder(subtasks, out)
	return out
}

// AllChildrenDone returns true if the parent has at least one child in the
// slice and every non-archived child is completed.
func AllChildrenDone(subtasks []Subtask, parentSubtaskID string) bool {
	children := ChildrenOf(subtasks, parentSubtaskID)
	if len(children) == 0 {
		return false
	}
	for _, ci := range children {
		if subtasks[ci].Focusable() {
			return false
		}
	}
	return true
}

func sortByOrder(subtasks []Subtask, idx []int) {
	slices.SortStableFunc(idx, func(a, b int) int {
		return subtasks[a].Order - subtasks[b].Order
	})
}
