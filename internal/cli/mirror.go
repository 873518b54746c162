package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/timersync"
	tuimirror "github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/tui/mirror"
)

// newMirrorCommand creates the mirror command.
func newMirrorCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mirror",
		Short:   "Show a miniature timer mirroring another process",
		GroupID: groupFocus,
		Long: `Show a miniature read-only timer.

The mirror follows a focus timer hosted by another taskflow process
through the shared event channel. It keeps counting between updates and
closes itself a few seconds after the timer completes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			initial := initialSnapshot(c)

			events := make(chan domain.TimerEvent, 16)
			unsubscribe := c.Bus.Subscribe(func(ev domain.TimerEvent) {
				select {
				case events <- ev:
				default: // Drop rather than block the bus
				}
			})
			defer unsubscribe()

			if c.Events != nil {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				go c.Events.Run(ctx)
			}

			mirror := timersync.NewMirror(c.Clock, initial, timersync.DefaultCloseDelay, nil)
			p := tea.NewProgram(tuimirror.New(mirror, events))
			if _, err := p.Run(); err != nil {
				return err
			}
			close(events)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Mirror closed.")
			return nil
		},
	}
	return cmd
}

// initialSnapshot seeds the mirror from the persisted timer record, so a
// mirror opened mid-session starts at the right place without waiting for
// the first replication event.
func initialSnapshot(c *app.Container) timersync.Snapshot {
	var rec timersync.Record
	found, err := c.KV.Get(domain.TimerRecordKey(), &rec)
	if err != nil || !found {
		return timersync.Snapshot{}
	}

	snap := timersync.Snapshot{
		SessionID: rec.SessionID,
		Duration:  rec.Duration,
	}
	if task, err := c.Tasks.Get(rec.TaskID); err == nil && task != nil {
		snap.TaskTitle = task.Title
	}
	if rec.Paused {
		snap.TimeLeft = rec.PausedLeft
		return snap
	}
	if left := int(rec.EndTime.Sub(c.Clock.Now()).Round(time.Second) / time.Second); left > 0 {
		snap.TimeLeft = left
		snap.Running = true
	}
	return snap
}
