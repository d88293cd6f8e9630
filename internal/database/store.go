package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Store is the storage handle of one region. Pool serves bulk COPY writes and
// DB exposes the same connections through database/sql for queries and goose.
type Store struct {
	Region string
	Pool   *pgxpool.Pool
	DB     *sql.DB
}

// Open creates the connection pool of a region. Connections are established
// lazily, so an unreachable database surfaces on the first query.
func Open(ctx context.Context, region, url string, maxConns int32) (*Store, error) {
	if url == "" {
		return nil, fmt.Errorf("missing database URL for region %s", region)
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL for region %s: %w", region, err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool for region %s: %w", region, err)
	}

	return &Store{
		Region: region,
		Pool:   pool,
		DB:     stdlib.OpenDBFromPool(pool),
	}, nil
}

// Ping checks that the region's database answers within five seconds
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database for region %s: %w", s.Region, err)
	}
	return nil
}

// RegionURL names a region and its connection string
type RegionURL struct {
	Code string
	URL  string
}

// OpenAll opens every region that has a connection string. Regions missing a
// URL or with an unusable one are logged and skipped. A region that does not
// answer at startup is kept; its requests fail until the database is back.
func OpenAll(ctx context.Context, regions []RegionURL, maxConns int32, logger *zap.Logger) []*Store {
	stores := make([]*Store, 0, len(regions))
	for _, r := range regions {
		store, err := Open(ctx, r.Code, r.URL, maxConns)
		if err != nil {
			logger.Error("Skipping region", zap.String("region", r.Code), zap.Error(err))
			continue
		}

		if err := store.Ping(ctx); err != nil {
			logger.Warn("Database unreachable at startup", zap.String("region", r.Code), zap.Error(err))
		} else {
			logger.Info("Database connection established", zap.String("region", r.Code))
		}
		stores = append(stores, store)
	}
	return stores
}

// Health reports pool statistics for the region
func (s *Store) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := map[string]string{"region": s.Region}

	if err := s.Pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	poolStats := s.Pool.Stat()
	stats["status"] = "up"
	stats["total_conns"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_conns"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_conns"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	stats["max_conns"] = strconv.Itoa(int(poolStats.MaxConns()))
	return stats
}

// Close releases the sql.DB wrapper and the pool underneath it
func (s *Store) Close() error {
	err := s.DB.Close()
	s.Pool.Close()
	return err
}
