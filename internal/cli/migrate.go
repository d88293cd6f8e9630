package cli

import (
	"region-latency-demo/internal/app"
	"region-latency-demo/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand(opts *options) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to every configured region",
		Long: `Apply pending goose migrations to every region that has a connection string.
Regions without a URL are skipped. A region that cannot be reached is logged,
the remaining regions are still migrated and the command exits with its error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config(cmd)
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			stores := database.OpenAll(cmd.Context(), app.RegionURLs(cfg), cfg.Database.MaxConns, log)
			defer func() {
				for _, store := range stores {
					store.Close()
				}
			}()

			if status {
				for _, store := range stores {
					log.Info("Migration status", zap.String("region", store.Region))
					if err := database.GetMigrationStatus(store.DB, cfg.Database.MigrationsDir); err != nil {
						return err
					}
				}
				return nil
			}

			return database.MigrateAll(stores, cfg.Database.MigrationsDir, log)
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print migration status instead of migrating")
	return cmd
}
