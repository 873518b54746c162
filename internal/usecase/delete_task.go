package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTask is the use case for deleting a task. Deletion is destructive;
// the CLI confirms with the user before calling this.
type DeleteTask struct {
	tasks domain.TaskRepository
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository) *DeleteTask {
	return &DeleteTask{tasks: tasks}
}

// Execute removes the task.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) error {
	if _, err := getTask(uc.tasks, in.TaskID); err != nil {
		return err
	}
	if err := uc.tasks.Delete(in.TaskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
