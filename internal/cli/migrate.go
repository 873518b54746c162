package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		UserID string
		Force  bool
		Yes    bool
	}

	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Move guest tasks to a signed-in account",
		GroupID: groupSetup,
		Long: `Move locally stored guest tasks to a signed-in account.

Every guest task is replayed against the backend, including completion
and archive state. Failed uploads are reported per task and local data
is kept so the migration can be retried; local data is cleared only
after every task made it across.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.API == nil {
				return errors.New("no backend configured, sign in first")
			}
			if opts.UserID == "" {
				return errors.New("required flag \"user\" not set")
			}

			tasks, err := c.Tasks.List()
			if err != nil {
				return err
			}
			if !opts.Yes {
				prompt := fmt.Sprintf("Migrate %d guest task(s) to account %s? Local data is cleared on success.", len(tasks), opts.UserID)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			out, err := c.MigrateGuestUseCase().Execute(cmd.Context(), usecase.MigrateGuestInput{
				UserID: opts.UserID,
				Force:  opts.Force,
			})
			if err != nil {
				if errors.Is(err, domain.ErrMigrationFailed) && out != nil {
					for _, f := range out.Failed {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s (%s): %v\n", f.Title, shortID(f.TaskID), f.Err)
					}
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d task(s) migrated, %d failed. Local data kept; rerun to retry.\n",
						out.Migrated, len(out.Failed))
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d task(s). Local guest data cleared.\n", out.Migrated)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "Account user ID (required)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Re-run a migration already recorded for this user")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
