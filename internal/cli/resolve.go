package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// resolveTask finds a task by ID or unique ID prefix. IDs are UUIDs, so a
// short prefix is usually enough on the command line.
func resolveTask(tasks domain.TaskRepository, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, fmt.Errorf("task id is required")
	}
	if task, err := tasks.Get(ref); err != nil {
		return nil, err
	} else if task != nil {
		return task, nil
	}

	all, err := tasks.List()
	if err != nil {
		return nil, err
	}
	var matches []*domain.Task
	for _, t := range all {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveSubtask finds a subtask within a task by ID or unique ID prefix.
func resolveSubtask(task *domain.Task, ref string) (*domain.Subtask, error) {
	if ref == "" {
		return nil, fmt.Errorf("subtask id is required")
	}
	var matches []*domain.Subtask
	for i := range task.Subtasks {
		s := &task.Subtasks[i]
		if s.ID == ref {
			return s, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("subtask id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// confirm asks the user a yes/no question on in/out. Anything other than
// "y" or "yes" declines.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// shortID returns the first 8 characters of a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
