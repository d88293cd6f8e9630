package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations executes all pending database migrations
func RunMigrations(db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", migrationsDir))

	if err := goose.Up(db, migrationsDir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// MigrateAll brings every region's schema up to date. A failing region is
// logged and the remaining regions are still migrated; the first error is returned.
func MigrateAll(stores []*Store, migrationsDir string, logger *zap.Logger) error {
	var firstErr error
	for _, store := range stores {
		regionLogger := logger.With(zap.String("region", store.Region))
		if err := RunMigrations(store.DB, migrationsDir, regionLogger); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("region %s: %w", store.Region, err)
			}
			continue
		}
	}
	return firstErr
}

// GetMigrationStatus returns the current migration status
func GetMigrationStatus(db *sql.DB, migrationsDir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.Status(db, migrationsDir)
}
