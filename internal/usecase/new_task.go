package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/google/uuid"
)

// NewTaskInput contains the parameters for creating a task.
type NewTaskInput struct {
	Title       string
	Description string
}

// NewTaskOutput contains the result of creating a task.
type NewTaskOutput struct {
	Task *domain.Task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, clock domain.Clock) *NewTask {
	return &NewTask{tasks: tasks, clock: clock}
}

// Execute creates a task with status pending and no subtasks.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	now := uc.clock.Now()
	task := &domain.Task{
		Created:     now,
		Updated:     now,
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		Status:      domain.StatusPending,
	}

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &NewTaskOutput{Task: task}, nil
}
