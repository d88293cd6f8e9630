// Package app wires configuration, regional stores and the seeding and
// analytics components together for the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"region-latency-demo/internal/config"
	"region-latency-demo/internal/database"
	"region-latency-demo/internal/loader"
	"region-latency-demo/internal/region"
	"region-latency-demo/internal/repository"
	"region-latency-demo/internal/seeder"
	"region-latency-demo/internal/service"

	"go.uber.org/zap"
)

// App holds the components built once at startup
type App struct {
	Stores    []*database.Store
	Regions   *region.Registry[repository.Region]
	Seeder    *seeder.Seeder
	Analytics service.AnalyticsService
	logger    *zap.Logger
}

// RegionURLs lists the configured regions with their connection strings
func RegionURLs(cfg *config.Config) []database.RegionURL {
	urls := make([]database.RegionURL, len(cfg.Regions))
	for i, r := range cfg.Regions {
		urls[i] = database.RegionURL{Code: r.Code, URL: r.URL}
	}
	return urls
}

// New opens every configured region and builds the seeder and the analytics
// service over the same registry. Regions without a usable connection string
// are left out of the registry; regions that are down stay registered.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	stores := database.OpenAll(ctx, RegionURLs(cfg), cfg.Database.MaxConns, logger)

	if cfg.Database.AutoMigrate {
		if err := database.MigrateAll(stores, cfg.Database.MigrationsDir, logger); err != nil {
			logger.Error("Failed to migrate regions", zap.Error(err))
		}
	}

	return build(stores, cfg, logger)
}

func build(stores []*database.Store, cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry, err := repository.NewRegistry(stores)
	if err != nil {
		closeStores(stores, logger)
		return nil, fmt.Errorf("failed to build region registry: %w", err)
	}

	ld, err := loader.New(loader.Config{
		BatchSize:       cfg.Seed.BatchSize,
		ParallelBatches: cfg.Seed.ParallelBatches,
	}, logger.Named("loader"))
	if err != nil {
		closeStores(stores, logger)
		return nil, err
	}

	s, err := seeder.New(seeder.Config{TotalRecords: cfg.Seed.TotalRecords}, registry, ld, logger.Named("seeder"))
	if err != nil {
		closeStores(stores, logger)
		return nil, err
	}

	if registry.Len() == 0 {
		logger.Warn("No region databases are configured")
	}

	return &App{
		Stores:    stores,
		Regions:   registry,
		Seeder:    s,
		Analytics: service.NewAnalyticsService(registry, logger.Named("analytics")),
		logger:    logger,
	}, nil
}

// Close releases every regional store
func (a *App) Close() {
	closeStores(a.Stores, a.logger)
}

func closeStores(stores []*database.Store, logger *zap.Logger) {
	for _, store := range stores {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.String("region", store.Region), zap.Error(err))
		}
	}
}
