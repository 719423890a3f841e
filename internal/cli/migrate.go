package cli

import (
	"fmt"

	"github.com/skillanthropy/skillanthropy-api/internal/config"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.connect(config.Load())
			if err != nil {
				return err
			}
			if err := database.MigrateDatabase(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
