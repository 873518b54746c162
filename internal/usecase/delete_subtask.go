package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// DeleteSubtaskInput contains the parameters for deleting a subtask.
type DeleteSubtaskInput struct {
	TaskID    string
	SubtaskID string
}

// DeleteSubtaskOutput contains the updated task.
type DeleteSubtaskOutput struct {
	Task *domain.Task
}

// DeleteSubtask is the use case for removing a subtask. Deleting a composite
// parent removes its children with it; an ownership link never outlives the
// parent.
type DeleteSubtask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewDeleteSubtask creates a new DeleteSubtask use case.
func NewDeleteSubtask(tasks domain.TaskRepository, clock domain.Clock) *DeleteSubtask {
	return &DeleteSubtask{tasks: tasks, clock: clock}
}

// Execute removes the subtask (and any children) and recomputes progress.
func (uc *DeleteSubtask) Execute(_ context.Context, in DeleteSubtaskInput) (*DeleteSubtaskOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if _, err := findSubtask(task, in.SubtaskID); err != nil {
		return nil, err
	}

	kept := task.Subtasks[:0:0]
	for _, s := range task.Subtasks {
		if s.ID == in.SubtaskID || s.ParentSubtaskID == in.SubtaskID {
			continue
		}
		kept = append(kept, s)
	}
	task.Subtasks = kept

	// A parent whose remaining children are all done resolves with them;
	// a parent left with no children reverts to an atomic subtask.
	for i := range task.Subtasks {
		p := &task.Subtasks[i]
		if !p.IsComposite {
			continue
		}
		if len(domain.ChildrenOf(task.Subtasks, p.ID)) == 0 {
			p.IsComposite = false
		} else if !p.IsCompleted {
			p.IsCompleted = domain.AllChildrenDone(task.Subtasks, p.ID)
		}
	}

	task.RecomputeProgress()
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &DeleteSubtaskOutput{Task: task}, nil
}
