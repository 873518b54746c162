package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// ImportTasksInput contains the parameters for a bulk import.
type ImportTasksInput struct {
	// Reader supplies the YAML document.
	Reader io.Reader
}

// ImportTasksOutput contains the created tasks.
type ImportTasksOutput struct {
	Tasks []*domain.Task
}

type importDoc struct {
	Tasks []importTask `yaml:"tasks"`
}

type importTask struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Subtasks    []importSubtask `yaml:"subtasks"`
}

type importSubtask struct {
	Title            string          `yaml:"title"`
	StepType         string          `yaml:"stepType"`
	StrategyTag      string          `yaml:"strategyTag"`
	EstimatedMinutes int             `yaml:"estimatedMinutes"`
	Children         []importSubtask `yaml:"children"`
}

// ImportTasks is the use case for creating tasks in bulk from a YAML
// document. One level of subtask nesting is supported; a subtask with
// children becomes a composite parent.
type ImportTasks struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskRepository, clock domain.Clock) *ImportTasks {
	return &ImportTasks{tasks: tasks, clock: clock}
}

// Execute parses the document and saves one task per entry. The whole
// document is validated before anything is written, so a malformed entry
// fails the import without partial state.
func (uc *ImportTasks) Execute(_ context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	var doc importDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	for ti, t := range doc.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: task %d", domain.ErrEmptyTitle, ti+1)
		}
		for si, s := range t.Subtasks {
			if strings.TrimSpace(s.Title) == "" {
				return nil, fmt.Errorf("%w: task %d subtask %d", domain.ErrEmptyTitle, ti+1, si+1)
			}
			for ci, c := range s.Children {
				if strings.TrimSpace(c.Title) == "" {
					return nil, fmt.Errorf("%w: task %d subtask %d child %d", domain.ErrEmptyTitle, ti+1, si+1, ci+1)
				}
				if len(c.Children) > 0 {
					return nil, fmt.Errorf("task %d subtask %d: nesting deeper than one level is not supported", ti+1, si+1)
				}
			}
		}
	}

	now := uc.clock.Now()
	out := make([]*domain.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		task := &domain.Task{
			ID:          uuid.NewString(),
			Title:       strings.TrimSpace(t.Title),
			Description: t.Description,
			Status:      domain.StatusPending,
			Created:     now,
			Updated:     now,
		}
		for order, s := range t.Subtasks {
			parent := domain.Subtask{
				ID:               uuid.NewString(),
				ParentTaskID:     task.ID,
				Title:            strings.TrimSpace(s.Title),
				StepType:         domain.StepType(s.StepType),
				State:            domain.SubtaskActive,
				StrategyTag:      s.StrategyTag,
				Order:            order,
				EstimatedMinutes: s.EstimatedMinutes,
				IsComposite:      len(s.Children) > 0,
			}
			task.Subtasks = append(task.Subtasks, parent)
			for corder, c := range s.Children {
				task.Subtasks = append(task.Subtasks, domain.Subtask{
					ID:               uuid.NewString(),
					ParentTaskID:     task.ID,
					ParentSubtaskID:  parent.ID,
					Title:            strings.TrimSpace(c.Title),
					StepType:         domain.StepType(c.StepType),
					State:            domain.SubtaskActive,
					StrategyTag:      c.StrategyTag,
					Order:            corder,
					EstimatedMinutes: c.EstimatedMinutes,
				})
			}
		}
		task.RecomputeProgress()
		if err := uc.tasks.Save(task); err != nil {
			return nil, fmt.Errorf("save task %q: %w", task.Title, err)
		}
		out = append(out, task)
	}
	return &ImportTasksOutput{Tasks: out}, nil
}
