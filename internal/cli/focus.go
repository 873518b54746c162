package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/session"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/tui/focus"
)

// newFocusCommand creates the focus command.
func newFocusCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Subtask      string
		WithChildren bool
	}

	cmd := &cobra.Command{
		Use:     "focus <task-id>",
		Short:   "Run a focus session over a task",
		GroupID: groupFocus,
		Long: `Run a focus session over a task's subtasks.

The session walks the incomplete steps in order, one at a time, with a
countdown timer. The timer stays in sync with every other running
taskflow process; pausing here pauses everywhere. Completed steps are
saved as you go.

With --subtask the session covers just that step; add --with-children
to include a composite step's children.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := resolveTask(c.Tasks, args[0])
			if err != nil {
				return err
			}

			var target *session.FocusTarget
			if opts.Subtask != "" {
				sub, err := resolveSubtask(task, opts.Subtask)
				if err != nil {
					return err
				}
				target = &session.FocusTarget{
					SubtaskID:       sub.ID,
					IncludeChildren: opts.WithChildren || sub.IsComposite,
				}
			}

			// Pump cross-process timer events for the session's lifetime.
			if c.Events != nil {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				go c.Events.Run(ctx)
			}

			return focus.RunTarget(c, task, target)
		},
	}

	cmd.Flags().StringVar(&opts.Subtask, "subtask", "", "Focus on a single subtask")
	cmd.Flags().BoolVar(&opts.WithChildren, "with-children", false, "Include the subtask's children in the queue")

	return cmd
}
