package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ListTasksInput filters the listing.
type ListTasksInput struct {
	Status domain.Status // Empty = all
}

// ListTasksOutput contains the matching tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks, optionally filtered by status.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, in.Status)
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if in.Status == "" {
		return &ListTasksOutput{Tasks: all}, nil
	}

	var filtered []*domain.Task
	for _, t := range all {
		if t.Status == in.Status {
			filtered = append(filtered, t)
		}
	}
	return &ListTasksOutput{Tasks: filtered}, nil
}
