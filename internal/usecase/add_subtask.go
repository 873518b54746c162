package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/google/uuid"
)

// AddSubtaskInput contains the parameters for adding a subtask.
// Fields are ordered to minimize memory padding.
type AddSubtaskInput struct {
	TaskID           string
	ParentSubtaskID  string // Empty = top-level; set = atomic child of a composite
	Title            string
	StepType         domain.StepType
	StrategyTag      string
	EstimatedMinutes int
	Draft            bool // AI-suggested, awaiting approval
}

// AddSubtaskOutput contains the updated task and the new subtask's ID.
type AddSubtaskOutput struct {
	Task      *domain.Task
	SubtaskID string
}

// AddSubtask is the use case for adding a subtask to a task. Adding a child
// under an existing subtask marks that parent composite; the parent is from
// then on resolved through the confirmation step, never completed directly.
type AddSubtask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewAddSubtask creates a new AddSubtask use case.
func NewAddSubtask(tasks domain.TaskRepository, clock domain.Clock) *AddSubtask {
	return &AddSubtask{tasks: tasks, clock: clock}
}

// Execute appends the subtask at the end of its sibling group and recomputes
// task progress.
func (uc *AddSubtask) Execute(_ context.Context, in AddSubtaskInput) (*AddSubtaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	task, err := getTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if in.ParentSubtaskID != "" {
		pi, err := findSubtask(task, in.ParentSubtaskID)
		if err != nil {
			return nil, err
		}
		task.Subtasks[pi].IsComposite = true
	}

	state := domain.SubtaskActive
	if in.Draft {
		state = domain.SubtaskDraft
	}
	sub := domain.Subtask{
		ID:               uuid.NewString(),
		ParentTaskID:     task.ID,
		ParentSubtaskID:  in.ParentSubtaskID,
		Title:            title,
		StepType:         in.StepType,
		State:            state,
		StrategyTag:      in.StrategyTag,
		Order:            task.NextOrder(in.ParentSubtaskID),
		EstimatedMinutes: in.EstimatedMinutes,
	}
	task.Subtasks = append(task.Subtasks, sub)

	task.RecomputeProgress()
	task.Updated = uc.clock.Now()
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return &AddSubtaskOutput{Task: task, SubtaskID: sub.ID}, nil
}
