package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ReorderSubtasksInput contains the parameters for reordering a sibling group.
type ReorderSubtasksInput struct {
	TaskID string
	// ParentSubtaskID selects the sibling group. Empty means top level.
	ParentSubtaskID string
	// SubtaskIDs is the desired order. It must be a permutation of the
	// sibling group's IDs.
	SubtaskIDs []string
}

// ReorderSubtasksOutput contains the updated task.
type ReorderSubtasksOutput struct {
	Task *domain.Task
}

// ReorderSubtasks is the use case for rearranging subtasks within one sibling
// group. Order values elsewhere in the task are untouched.
type ReorderSubtasks struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewReorderSubtasks creates a new ReorderSubtasks use case.
func NewReorderSubtasks(tasks domain.TaskRepository, clock domain.Clock) *ReorderSubtasks {
	return &ReorderSubtasks{tasks: tasks, clock: clock}
}

// Execute rewrites the Order of the named sibling group to match the given
// sequence. Returns domain.ErrInvalidOrder unless SubtaskIDs is an exact
// permutation of the group.
func (uc *ReorderSubtasks) Execute(_ context.Context, in ReorderSubtasksInput) (*ReorderSubtasksOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	group := domain.ChildrenOf(task.Subtasks, in.ParentSubtaskID)
	if len(group) != len(in.SubtaskIDs) {
		return nil, fmt.Errorf("%w: got %d ids for a group of %d", domain.ErrInvalidOrder, len(in.SubtaskIDs), len(group))
	}

	byID := make(map[string]int, len(group))
	for _, gi := range group {
		byID[task.Subtasks[gi].ID] = gi
	}
	seen := make(map[string]bool, len(in.SubtaskIDs))
	for pos, id := range in.SubtaskIDs {
		gi, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not in the group", domain.ErrInvalidOrder, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidOrder, id)
		}
		seen[id] = true
		task.Subtasks[gi].Order = pos
	}

	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &ReorderSubtasksOutput{Task: task}, nil
}
