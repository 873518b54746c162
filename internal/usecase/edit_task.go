package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// EditTaskInput contains the fields to update. Nil means "leave unchanged".
type EditTaskInput struct {
	Title       *string
	Description *string
	TaskID      string
}

// EditTaskOutput contains the updated task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask is the use case for updating a task's title or description.
type EditTask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, clock domain.Clock) *EditTask {
	return &EditTask{tasks: tasks, clock: clock}
}

// Execute applies the updates and saves the task.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}

	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &EditTaskOutput{Task: task}, nil
}
