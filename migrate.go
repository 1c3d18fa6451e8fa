package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keithsimkin/moneymanager-sub001/internal/config"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
	"github.com/keithsimkin/moneymanager-sub001/internal/remote"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var verifyOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the user_finance_data table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			ctx := logger.WithContext(cmd.Context(), log)
			if verifyOnly {
				return verifyDatabaseConnection(ctx, cfg, log)
			}
			return setupDatabase(ctx, cfg, log)
		},
	}
	cmd.Flags().BoolVar(&verifyOnly, "verify", false, "only check that the database is reachable")
	return cmd
}

// setupDatabase applies the embedded migrations to the hosted database.
func setupDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := openRemoteDB(ctx, cfg.Remote.DatabaseURL, serveDBRetries)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("Creating database schema...")
	applied, err := remote.Migrate(db)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if applied {
		log.Info().Msg("Migration completed successfully")
	} else {
		log.Info().Msg("Schema already up to date")
	}
	return nil
}

// verifyDatabaseConnection tests the database connection
func verifyDatabaseConnection(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := openRemoteDB(ctx, cfg.Remote.DatabaseURL, 1)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("Database connection verified")
	return nil
}
