package admins

import (
	"github.com/spf13/cobra"

	"github.com/terraconstructs/logbook/internal/config"
)

// NewCommand returns the parent command for administrator management.
// loadConfig returns the configuration the root command already loaded.
func NewCommand(loadConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Manage administrator accounts",
		Long:  `Commands for bootstrapping administrators directly against the database.`,
	}
	cmd.AddCommand(newCreateCmd(loadConfig))
	return cmd
}
