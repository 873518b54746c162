package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ToggleSubtaskInput contains the parameters for toggling completion.
type ToggleSubtaskInput struct {
	TaskID    string
	SubtaskID string
}

// ToggleSubtaskOutput contains the updated task.
type ToggleSubtaskOutput struct {
	Task *domain.Task
}

// ToggleSubtask is the use case for flipping a subtask's completion state.
// A composite parent cannot be toggled directly; it resolves through the
// focus session's confirmation step once all children are done.
type ToggleSubtask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewToggleSubtask creates a new ToggleSubtask use case.
func NewToggleSubtask(tasks domain.TaskRepository, clock domain.Clock) *ToggleSubtask {
	return &ToggleSubtask{tasks: tasks, clock: clock}
}

// Execute toggles the subtask. When the last child of a composite parent
// completes, the parent completes with it; un-toggling a child reopens the
// parent. Task progress and status are recomputed afterwards.
func (uc *ToggleSubtask) Execute(_ context.Context, in ToggleSubtaskInput) (*ToggleSubtaskOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	idx, err := findSubtask(task, in.SubtaskID)
	if err != nil {
		return nil, err
	}
	sub := &task.Subtasks[idx]
	if sub.IsComposite {
		return nil, fmt.Errorf("%w: %s", domain.ErrCompositeToggle, sub.ID)
	}

	sub.IsCompleted = !sub.IsCompleted

	if sub.ParentSubtaskID != "" {
		if pi := task.SubtaskIndex(sub.ParentSubtaskID); pi >= 0 {
			task.Subtasks[pi].IsCompleted = domain.AllChildrenDone(task.Subtasks, sub.ParentSubtaskID)
		}
	}

	task.RecomputeProgress()
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &ToggleSubtaskOutput{Task: task}, nil
}
