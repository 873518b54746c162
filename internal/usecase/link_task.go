package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// LinkTaskInput contains the parameters for promoting a subtask to a task.
type LinkTaskInput struct {
	TaskID    string
	SubtaskID string
}

// LinkTaskOutput contains the updated source task and the newly created one.
type LinkTaskOutput struct {
	Task   *domain.Task
	Linked *domain.Task
}

// LinkTask is the use case for spinning a subtask off into a full task of its
// own. The subtask stays in place and records the new task's ID so the two
// can be navigated between.
type LinkTask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewLinkTask creates a new LinkTask use case.
func NewLinkTask(tasks domain.TaskRepository, clock domain.Clock) *LinkTask {
	return &LinkTask{tasks: tasks, clock: clock}
}

// Execute creates a new task titled after the subtask and stores its ID on
// the subtask. A subtask that is already linked is returned unchanged.
func (uc *LinkTask) Execute(_ context.Context, in LinkTaskInput) (*LinkTaskOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	idx, err := findSubtask(task, in.SubtaskID)
	if err != nil {
		return nil, err
	}
	sub := &task.Subtasks[idx]

	if sub.LinkedTaskID != "" {
		linked, err := uc.tasks.Get(sub.LinkedTaskID)
		if err != nil {
			return nil, fmt.Errorf("get linked task: %w", err)
		}
		return &LinkTaskOutput{Task: task, Linked: linked}, nil
	}

	title := strings.TrimSpace(sub.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	now := uc.clock.Now()
	linked := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: fmt.Sprintf("Split off from %q", task.Title),
		Status:      domain.StatusPending,
		Created:     now,
		Updated:     now,
	}
	if err := uc.tasks.Save(linked); err != nil {
		return nil, fmt.Errorf("save linked task: %w", err)
	}

	sub.LinkedTaskID = linked.ID
	task.Updated = now
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &LinkTaskOutput{Task: task, Linked: linked}, nil
}
