// Package cli provides the command-line interface for taskflow.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
	groupFocus = "focus"
)

// NewRootCommand creates the root command for taskflow.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Task breakdown and focus timer CLI",
		Long: `taskflow manages tasks broken into small, focusable steps and runs
distraction-resistant focus sessions over them.

Tasks hold subtasks; a subtask can be decomposed one level further into
children. 'taskflow focus' walks the incomplete steps in order with a
countdown timer that stays in sync across every running taskflow process.
Completing steps earns XP and maintains a daily streak.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupFocus, Title: "Focus Commands:"},
	)

	root.AddCommand(
		newInitCommand(c),
		newTaskCommand(c),
		newSubtaskCommand(c),
		newFocusCommand(c),
		newMirrorCommand(c),
		newStatsCommand(c),
		newMigrateCommand(c),
	)

	return root
}
