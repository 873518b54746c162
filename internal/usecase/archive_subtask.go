package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ArchiveSubtaskInput contains the parameters for archiving a subtask.
type ArchiveSubtaskInput struct {
	TaskID    string
	SubtaskID string
	// Unarchive restores an archived subtask instead.
	Unarchive bool
}

// ArchiveSubtaskOutput contains the updated task.
type ArchiveSubtaskOutput struct {
	Task *domain.Task
}

// ArchiveSubtask is the use case for hiding a subtask without deleting it.
// Archived subtasks keep their data but are excluded from progress, focus
// queues and parent-completion checks.
type ArchiveSubtask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewArchiveSubtask creates a new ArchiveSubtask use case.
func NewArchiveSubtask(tasks domain.TaskRepository, clock domain.Clock) *ArchiveSubtask {
	return &ArchiveSubtask{tasks: tasks, clock: clock}
}

// Execute toggles the archived flag. Archiving a composite parent archives
// its children with it.
func (uc *ArchiveSubtask) Execute(_ context.Context, in ArchiveSubtaskInput) (*ArchiveSubtaskOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	idx, err := findSubtask(task, in.SubtaskID)
	if err != nil {
		return nil, err
	}
	sub := &task.Subtasks[idx]

	archived := !in.Unarchive
	sub.IsArchived = archived
	for _, ci := range domain.ChildrenOf(task.Subtasks, sub.ID) {
		task.Subtasks[ci].IsArchived = archived
	}

	// Archiving the last open child can resolve the parent.
	if sub.IsChild() {
		for i := range task.Subtasks {
			p := &task.Subtasks[i]
			if p.ID == sub.ParentSubtaskID && p.IsComposite && !p.IsCompleted {
				p.IsCompleted = domain.AllChildrenDone(task.Subtasks, p.ID)
			}
		}
	}

	task.RecomputeProgress()
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &ArchiveSubtaskOutput{Task: task}, nil
}
