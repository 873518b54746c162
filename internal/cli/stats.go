package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/gamify"
)

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show XP, level, and streak",
		GroupID: groupFocus,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := c.Ledger.Ledger()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Level %d (%d/%d XP)\n", l.Level, l.XP, gamify.RequiredXP(l.Level))
			_, _ = fmt.Fprintf(w, "Streak: %d day(s)\n", l.Streak)
			_, _ = fmt.Fprintf(w, "Completed steps: %d\n", l.Completions)
			_, _ = fmt.Fprintf(w, "Focused minutes: %d\n", l.TotalMinutes)
			if l.LastCompletion != "" {
				_, _ = fmt.Fprintf(w, "Last completion: %s\n", l.LastCompletion)
			}
			return nil
		},
	}
	return cmd
}
