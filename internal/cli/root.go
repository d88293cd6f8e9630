// Package cli implements the seeder command line tool.
package cli

import (
	"fmt"

	"region-latency-demo/internal/config"
	"region-latency-demo/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	total         int
	batchSize     int
	parallel      int
	migrationsDir string
	loadConfig    func() *config.Config
}

// NewRootCommand builds the seeder command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.Load)
}

func newRootCommand(load func() *config.Config) *cobra.Command {
	opts := &options{loadConfig: load}

	root := &cobra.Command{
		Use:   "seeder [command]",
		Short: "Seed and inspect the regional demo databases",
		Long: `Generate synthetic users, products, orders and order items and bulk load
them into the regional PostgreSQL databases configured by DATABASE_REGION_A/B/C.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().IntVarP(&opts.total, "total", "n", 0, "Records per table (overrides SEED_TOTAL_RECORDS)")
	root.PersistentFlags().IntVarP(&opts.batchSize, "batch-size", "b", 0, "Records per insert batch (overrides SEED_BATCH_SIZE)")
	root.PersistentFlags().IntVarP(&opts.parallel, "parallel", "p", 0, "Batches inserted concurrently (overrides SEED_PARALLEL_BATCHES)")
	root.PersistentFlags().StringVar(&opts.migrationsDir, "migrations-dir", "", "Directory of goose migrations (overrides DB_MIGRATIONS_DIR)")

	root.AddCommand(
		newSeedCommand(opts),
		newCountCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
	)
	return root
}

// config loads the configuration and applies the flags set on cmd
func (o *options) config(cmd *cobra.Command) *config.Config {
	cfg := o.loadConfig()
	flags := cmd.Flags()

	if flags.Changed("total") {
		cfg.Seed.TotalRecords = o.total
	}
	if flags.Changed("batch-size") {
		cfg.Seed.BatchSize = o.batchSize
	}
	if flags.Changed("parallel") {
		cfg.Seed.ParallelBatches = o.parallel
	}
	if flags.Changed("migrations-dir") {
		cfg.Database.MigrationsDir = o.migrationsDir
	}
	return cfg
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Server.Env, "seeder")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
