// Package cli implements skillctl, the operator command line.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/skillanthropy/skillanthropy-api/internal/config"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	EnvFile string

	// connect opens the database. Tests replace it.
	connect func(cfg *config.Config) (*gorm.DB, error)
}

// NewRootCommand creates the root command for skillctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{connect: connectDatabase})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillctl",
		Short: "Operate the Skillanthropy API",
		Long:  "Administrative tasks for the Skillanthropy API: schema migrations and search reindexing.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.EnvFile != "" {
				if err := godotenv.Load(opts.EnvFile); err != nil {
					return fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
				}
			}
			return logger.Init("", opts.Verbose)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment variables from this file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewReindexCommand(opts))

	return cmd
}

func connectDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.GetDB(), nil
}
