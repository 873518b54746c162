package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/usecase"
)

// newSubtaskCommand creates the subtask command group.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"st"},
		Short:   "Manage subtasks within a task",
		GroupID: groupTask,
	}
	cmd.AddCommand(
		newSubtaskAddCommand(c),
		newSubtaskDoneCommand(c),
		newSubtaskRmCommand(c),
		newSubtaskMoveCommand(c),
		newSubtaskArchiveCommand(c),
		newSubtaskLinkCommand(c),
	)
	return cmd
}

// newSubtaskAddCommand creates the subtask add command.
func newSubtaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Parent      string
		StepType    string
		StrategyTag string
		Estimate    int
		Draft       bool
	}

	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask",
		Long: `Add a subtask to a task.

With --parent the new subtask becomes a child of an existing subtask,
which turns that subtask into a composite parent. Only one level of
nesting is supported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			in := usecase.AddSubtaskInput{
				TaskID:           task.ID,
				Title:            args[1],
				StepType:         domain.StepType(opts.StepType),
				StrategyTag:      opts.StrategyTag,
				EstimatedMinutes: opts.Estimate,
				Draft:            opts.Draft,
			}
			if opts.Parent != "" {
				parent, err := resolveSubtask(task, opts.Parent)
				if err != nil {
					return err
				}
				in.ParentSubtaskID = parent.ID
			}
			out, err := c.AddSubtaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %s to task %s\n",
				shortID(out.SubtaskID), shortID(task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Parent subtask ID (creates a child step)")
	cmd.Flags().StringVar(&opts.StepType, "type", "", "Step type ("+validStepTypes+")")
	cmd.Flags().StringVar(&opts.StrategyTag, "strategy", "", "Learning-strategy tag")
	cmd.Flags().IntVar(&opts.Estimate, "estimate", 0, "Estimated minutes")
	cmd.Flags().BoolVar(&opts.Draft, "draft", false, "Create as an unapproved draft")

	return cmd
}

// newSubtaskDoneCommand creates the subtask done command.
func newSubtaskDoneCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id> <subtask-id>",
		Short: "Toggle a subtask's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			sub, err := resolveSubtask(task, args[1])
			if err != nil {
				return err
			}
			out, err := c.ToggleSubtaskUseCase().Execute(cmd.Context(), usecase.ToggleSubtaskInput{
				TaskID:    task.ID,
				SubtaskID: sub.ID,
			})
			if err != nil {
				return err
			}
			state := "incomplete"
			if si := out.Task.SubtaskIndex(sub.ID); si >= 0 && out.Task.Subtasks[si].IsCompleted {
				state = "done"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Subtask %s is now %s (task at %d%%)\n",
				shortID(sub.ID), state, out.Task.Progress)
			return nil
		},
	}
	return cmd
}

// newSubtaskRmCommand creates the subtask rm command.
func newSubtaskRmCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <task-id> <subtask-id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			sub, err := resolveSubtask(task, args[1])
			if err != nil {
				return err
			}
			if !force {
				prompt := fmt.Sprintf("Delete subtask %s (%q)?", shortID(sub.ID), sub.Title)
				if children := domain.ChildrenOf(task.Subtasks, sub.ID); len(children) > 0 {
					prompt = fmt.Sprintf("Delete subtask %s (%q) and its %d children?", shortID(sub.ID), sub.Title, len(children))
				}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if _, err := c.DeleteSubtaskUseCase().Execute(cmd.Context(), usecase.DeleteSubtaskInput{
				TaskID:    task.ID,
				SubtaskID: sub.ID,
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted subtask %s\n", shortID(sub.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}

// newSubtaskMoveCommand creates the subtask move command.
func newSubtaskMoveCommand(c *app.Container) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "move <task-id> <subtask-id>...",
		Short: "Reorder subtasks within a sibling group",
		Long: `Reorder subtasks within one sibling group.

List every subtask of the group in the desired order. With --parent the
group is the children of that subtask; otherwise the top level.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			in := usecase.ReorderSubtasksInput{TaskID: task.ID}
			if parent != "" {
				p, err := resolveSubtask(task, parent)
				if err != nil {
					return err
				}
				in.ParentSubtaskID = p.ID
			}
			for _, ref := range args[1:] {
				sub, err := resolveSubtask(task, ref)
				if err != nil {
					return err
				}
				in.SubtaskIDs = append(in.SubtaskIDs, sub.ID)
			}
			if _, err := c.ReorderSubtasksUseCase().Execute(cmd.Context(), in); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d subtasks\n", len(in.SubtaskIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Reorder the children of this subtask instead of the top level")

	return cmd
}

// newSubtaskArchiveCommand creates the subtask archive command.
func newSubtaskArchiveCommand(c *app.Container) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <task-id> <subtask-id>",
		Short: "Archive a subtask without deleting it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			sub, err := resolveSubtask(task, args[1])
			if err != nil {
				return err
			}
			out, err := c.ArchiveSubtaskUseCase().Execute(cmd.Context(), usecase.ArchiveSubtaskInput{
				TaskID:    task.ID,
				SubtaskID: sub.ID,
				Unarchive: restore,
			})
			if err != nil {
				return err
			}
			verb := "Archived"
			if restore {
				verb = "Restored"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s subtask %s (task at %d%%)\n",
				verb, shortID(sub.ID), out.Task.Progress)
			return nil
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Restore an archived subtask")

	return cmd
}

// newSubtaskLinkCommand creates the subtask link command.
func newSubtaskLinkCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <task-id> <subtask-id>",
		Short: "Split a subtask off into a task of its own",
		Long: `Split a subtask off into a full task of its own.

The subtask stays in place and records the new task's ID. Running link
again on an already linked subtask just prints the existing link.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}
			sub, err := resolveSubtask(task, args[1])
			if err != nil {
				return err
			}
			already := sub.LinkedTaskID != ""
			out, err := c.LinkTaskUseCase().Execute(cmd.Context(), usecase.LinkTaskInput{
				TaskID:    task.ID,
				SubtaskID: sub.ID,
			})
			if err != nil {
				return err
			}
			if already {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Subtask %s is already linked to task %s: %s\n",
					shortID(sub.ID), shortID(out.Linked.ID), out.Linked.Title)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Linked subtask %s to new task %s: %s\n",
				shortID(sub.ID), shortID(out.Linked.ID), out.Linked.Title)
			return nil
		},
	}
	return cmd
}

// validStepTypes is used in help text and validation messages.
var validStepTypes = strings.Join([]string{
	string(domain.StepMental),
	string(domain.StepPhysical),
	string(domain.StepCreative),
}, ", ")
