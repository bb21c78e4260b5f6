package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/i474232898/urbo/internal/config"
	"github.com/i474232898/urbo/internal/store"
	"github.com/i474232898/urbo/internal/store/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate requires STORE_DRIVER=%s", config.StoreDriverPostgres)
		}

		pool, err := store.NewConnectionPool(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.RunMigrationsUp(cmd.Context(), pool); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	},
}
