package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/persist"
	"github.com/spf13/cobra"
)

func newMigrateCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending snapshot-store migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			db, err := persist.NewDB(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer db.Close()

			version, err := persist.RunMigrations(ctx, db.Pool, log)
			if err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			printOK(os.Stdout, fmt.Sprintf("schema at version %d", version))
			return nil
		},
	}
}
