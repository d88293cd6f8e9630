package service

import (
	"context"
	"fmt"
	"time"

	"region-latency-demo/internal/domain"
	"region-latency-demo/internal/metrics"
	"region-latency-demo/internal/region"
	"region-latency-demo/internal/repository"

	"go.uber.org/zap"
)

const (
	TopProductsLimit  = 10
	RecentOrdersLimit = 20
	TrendsWindow      = 24 * time.Hour
)

// QueryTimings holds the duration of each analytic query in milliseconds
type QueryTimings struct {
	Stats    int64  `json:"stats"`
	Products int64  `json:"products"`
	Orders   int64  `json:"orders"`
	Trends   *int64 `json:"trends,omitempty"`
}

// Timing splits the request time into total, database and per-query parts
type Timing struct {
	Total   int64        `json:"total"`
	DB      int64        `json:"db"`
	Queries QueryTimings `json:"queries"`
}

// DatabaseStats is the analytics snapshot of one region
type DatabaseStats struct {
	Region       string               `json:"region"`
	Stats        *domain.OrderStats   `json:"stats"`
	TopProducts  []domain.TopProduct  `json:"topProducts"`
	RecentOrders []domain.RecentOrder `json:"recentOrders"`
	Trends       []domain.HourlyTrend `json:"trends,omitempty"`
	Timing       Timing               `json:"timing"`
	Timestamp    time.Time            `json:"timestamp"`
}

// StatsRequest selects the region to query and whether to include trends
type StatsRequest struct {
	Region        string
	IncludeTrends bool
	// Start is when request handling began; zero means now
	Start time.Time
}

// AnalyticsService defines the read-only queries served per region
type AnalyticsService interface {
	GetDatabaseStats(ctx context.Context, req StatsRequest) (*DatabaseStats, error)
	Regions() []string
	DefaultRegion() string
}

type analyticsService struct {
	regions *region.Registry[repository.Region]
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new instance of AnalyticsService
func NewAnalyticsService(regions *region.Registry[repository.Region], logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		regions: regions,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *analyticsService) Regions() []string {
	return s.regions.Codes()
}

func (s *analyticsService) DefaultRegion() string {
	return s.regions.Default()
}

// GetDatabaseStats runs the analytic queries one after another against the
// requested region and reports how long each of them took.
func (s *analyticsService) GetDatabaseStats(ctx context.Context, req StatsRequest) (*DatabaseStats, error) {
	start := req.Start
	if start.IsZero() {
		start = s.now()
	}

	code := req.Region
	if code == "" {
		code = s.regions.Default()
	}

	repo, err := s.regions.Resolve(code)
	if err != nil {
		return nil, err
	}

	result := &DatabaseStats{Region: code}
	dbStart := s.now()

	var elapsed time.Duration

	if result.Stats, elapsed, err = timed(s, code, "stats", func() (*domain.OrderStats, error) {
		return repo.GetOrderStats(ctx)
	}); err != nil {
		return nil, err
	}
	result.Timing.Queries.Stats = elapsed.Milliseconds()

	if result.TopProducts, elapsed, err = timed(s, code, "products", func() ([]domain.TopProduct, error) {
		return repo.GetTopProducts(ctx, TopProductsLimit)
	}); err != nil {
		return nil, err
	}
	result.Timing.Queries.Products = elapsed.Milliseconds()

	if result.RecentOrders, elapsed, err = timed(s, code, "orders", func() ([]domain.RecentOrder, error) {
		return repo.GetRecentOrders(ctx, RecentOrdersLimit)
	}); err != nil {
		return nil, err
	}
	result.Timing.Queries.Orders = elapsed.Milliseconds()

	if req.IncludeTrends {
		since := s.now().Add(-TrendsWindow)
		if result.Trends, elapsed, err = timed(s, code, "trends", func() ([]domain.HourlyTrend, error) {
			return repo.GetHourlyTrends(ctx, since)
		}); err != nil {
			return nil, err
		}
		ms := elapsed.Milliseconds()
		result.Timing.Queries.Trends = &ms
	}

	end := s.now()
	result.Timing.DB = end.Sub(dbStart).Milliseconds()
	result.Timing.Total = end.Sub(start).Milliseconds()
	result.Timestamp = end.UTC()

	s.logger.Debug("Database statistics fetched",
		zap.String("region", code),
		zap.Int64("db_ms", result.Timing.DB),
		zap.Int64("total_ms", result.Timing.Total),
	)

	return result, nil
}

func timed[T any](s *analyticsService, code, query string, fn func() (T, error)) (T, time.Duration, error) {
	start := s.now()
	value, err := fn()
	elapsed := s.now().Sub(start)
	if err != nil {
		var zero T
		return zero, elapsed, fmt.Errorf("%s query failed: %w", query, err)
	}
	metrics.RecordAnalyticsQuery(code, query, elapsed)
	return value, elapsed, nil
}
