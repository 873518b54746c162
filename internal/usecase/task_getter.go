// Package usecase contains the application use cases. Together they mirror
// the backend task API surface against the local guest store, so guest mode
// behaves like a signed-in session until migration.
package usecase

import (
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// getTask retrieves a task and converts "not found" into the domain error.
func getTask(tasks domain.TaskRepository, id string) (*domain.Task, error) {
	task, err := tasks.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return task, nil
}

// findSubtask returns the index of a subtask or the domain error.
func findSubtask(task *domain.Task, subtaskID string) (int, error) {
	idx := task.SubtaskIndex(subtaskID)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, subtaskID)
	}
	return idx, nil
}
