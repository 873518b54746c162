package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Short:   "Manage tasks",
		GroupID: groupTask,
	}
	cmd.AddCommand(
		newTaskNewCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskEditCommand(c),
		newTaskRmCommand(c),
		newTaskImportCommand(c),
	)
	return cmd
}

// newTaskNewCommand creates the task new command.
func newTaskNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
	}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Title:       args[0],
				Description: opts.Description,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")

	return cmd
}

// newTaskListCommand creates the task list command.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Status: domain.Status(opts.Status),
			})
			if err != nil {
				return err
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tSTEPS\tTITLE")
			for _, t := range out.Tasks {
				open := 0
				for i := range t.Subtasks {
					if t.Subtasks[i].Focusable() {
						open++
					}
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d%%\t%d open\t%s\n",
					shortID(t.ID), t.Status.Display(), t.Progress, open, t.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (pending, in_progress, completed)")

	return cmd
}

// newTaskShowCommand creates the task show command.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			printTask(cmd, task)
			return nil
		},
	}
	return cmd
}

// printTask writes a task with its subtask tree to the command's stdout.
func printTask(cmd *cobra.Command, task *domain.Task) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Task %s: %s\n", shortID(task.ID), task.Title)
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", task.Description)
	}
	_, _ = fmt.Fprintf(w, "\nStatus: %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "Progress: %d%%\n", task.Progress)
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.Created.Format(time.RFC3339))

	if len(task.Subtasks) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "\nSubtasks:")
	for _, ri := range domain.RootsOf(task.Subtasks) {
		printSubtaskLine(w, &task.Subtasks[ri], "  ")
		for _, ci := range domain.ChildrenOf(task.Subtasks, task.Subtasks[ri].ID) {
			printSubtaskLine(w, &task.Subtasks[ci], "    ")
		}
	}
}

func printSubtaskLine(w interface{ Write([]byte) (int, error) }, s *domain.Subtask, indent string) {
	mark := "[ ]"
	switch {
	case s.IsArchived:
		mark = "[a]"
	case s.IsCompleted:
		mark = "[x]"
	}
	extra := ""
	if s.IsComposite {
		extra = " (composite)"
	}
	if s.State == domain.SubtaskDraft {
		extra += " (draft)"
	}
	if s.LinkedTaskID != "" {
		extra += fmt.Sprintf(" -> task %s", shortID(s.LinkedTaskID))
	}
	_, _ = fmt.Fprintf(w, "%s%s %s %s%s\n", indent, mark, shortID(s.ID), s.Title, extra)
}

// newTaskEditCommand creates the task edit command.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			in := usecase.EditTaskInput{TaskID: task.ID}
			if cmd.Flags().Changed("title") {
				in.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				in.Description = &opts.Description
			}
			if in.Title == nil && in.Description == nil {
				return fmt.Errorf("nothing to change, pass --title or --body")
			}
			if _, err := c.EditTaskUseCase().Execute(cmd.Context(), in); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")

	return cmd
}

// newTaskRmCommand creates the task rm command.
func newTaskRmCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			if !force {
				prompt := fmt.Sprintf("Delete task %s (%q) and its %d subtasks?", shortID(task.ID), task.Title, len(task.Subtasks))
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: task.ID}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(task.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

// newTaskImportCommand creates the task import command.
func newTaskImportCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create tasks in bulk from a YAML file",
		Long: `Create tasks in bulk from a YAML file.

File format:
  tasks:
    - title: Write report
      description: Quarterly summary
      subtasks:
        - title: Gather numbers
          stepType: mental
          estimatedMinutes: 15
        - title: Draft intro
          children:
            - title: Outline
            - title: First paragraph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{Reader: f})
			if err != nil {
				return err
			}
			for _, t := range out.Tasks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s (%d subtasks)\n",
					shortID(t.ID), t.Title, len(t.Subtasks))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nImported %d task(s)\n", len(out.Tasks))
			return nil
		},
	}
	return cmd
}
