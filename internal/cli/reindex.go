package cli

import (
	"errors"
	"fmt"

	"github.com/skillanthropy/skillanthropy-api/internal/config"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var ErrSearchNotConfigured = errors.New("search is not configured: set ELASTIC_URL")

// NewReindexCommand creates the reindex command.
func NewReindexCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every task, charity and user into the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if !cfg.SearchEnabled() {
				return ErrSearchNotConfigured
			}

			engine, closeEngine, err := search.NewEngineFromConfig(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeEngine() }()

			db, err := rootOpts.connect(cfg)
			if err != nil {
				return err
			}
			return runReindex(cmd, db, engine)
		},
	}
}

func runReindex(cmd *cobra.Command, db *gorm.DB, engine search.Engine) error {
	svc := services.NewSearchService(
		engine,
		repository.NewTaskRepository(db),
		repository.NewApplicationRepository(db),
		repository.NewCharityRepository(db),
		repository.NewUserRepository(db),
	)

	stats, err := svc.Reindex(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d tasks, %d charities, %d users\n", stats.Tasks, stats.Charities, stats.Users)
	return nil
}
