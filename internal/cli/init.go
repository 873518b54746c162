package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/app"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/config"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var writeConfig bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize the local data store",
		GroupID: groupSetup,
		Long: `Initialize the local guest store.

A guest identity is generated on first init. All tasks created before
signing in belong to this identity and can later be moved to an account
with 'taskflow migrate'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.InitStoreUseCase().Execute(cmd.Context()); err != nil {
				return err
			}
			if writeConfig {
				if err := config.NewLoader(c.Paths.DataDir).WriteDefault(); err != nil {
					return err
				}
			}
			guestID, err := c.Tasks.GuestID()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized store in %s (guest %s)\n", c.Paths.DataDir, guestID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeConfig, "with-config", false, "Also write a default config.toml")

	return cmd
}
