// Package seeder fills a region's database with synthetic users, products,
// orders and order items, in that order.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"region-latency-demo/internal/domain"
	"region-latency-demo/internal/generator"
	"region-latency-demo/internal/loader"
	"region-latency-demo/internal/logger"
	"region-latency-demo/internal/metrics"
	"region-latency-demo/internal/region"
	"region-latency-demo/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultTotalRecords = 20000

const (
	PhaseUsers      = "users"
	PhaseProducts   = "products"
	PhaseOrders     = "orders"
	PhaseOrderItems = "order_items"
)

var (
	ErrNoRegions     = errors.New("no regions configured")
	ErrInvalidConfig = errors.New("invalid seeder configuration")
)

// Config holds the per-phase record count
type Config struct {
	TotalRecords int
}

// PhaseReport describes one completed phase
type PhaseReport struct {
	Phase     string        `json:"phase"`
	Rows      int           `json:"rows"`
	Elapsed   time.Duration `json:"-"`
	ElapsedMs int64         `json:"elapsedMs"`
}

// Report summarises a seeding run of one region
type Report struct {
	Region    string        `json:"region"`
	Phases    []PhaseReport `json:"phases"`
	TotalRows int           `json:"totalRows"`
	Elapsed   time.Duration `json:"-"`
	ElapsedMs int64         `json:"elapsedMs"`
}

func (r *Report) add(phase string, rows int, elapsed time.Duration) {
	r.Phases = append(r.Phases, PhaseReport{
		Phase:     phase,
		Rows:      rows,
		Elapsed:   elapsed,
		ElapsedMs: elapsed.Milliseconds(),
	})
	r.TotalRows += rows
}

// Seeder runs the four loading phases against regions of a registry
type Seeder struct {
	cfg     Config
	regions *region.Registry[repository.Region]
	loader  *loader.Loader
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a Seeder
func New(cfg Config, regions *region.Registry[repository.Region], ld *loader.Loader, logger *zap.Logger) (*Seeder, error) {
	if cfg.TotalRecords < 0 {
		return nil, fmt.Errorf("total records %d: %w", cfg.TotalRecords, ErrInvalidConfig)
	}
	return &Seeder{
		cfg:     cfg,
		regions: regions,
		loader:  ld,
		logger:  logger,
		tracer:  otel.Tracer("region-latency-demo/seeder"),
	}, nil
}

// SeedRegion loads TotalRecords rows into every table of the region.
// Phases run strictly one after another; a failing phase stops the run and
// rows written by earlier phases or batches are kept.
func (s *Seeder) SeedRegion(ctx context.Context, code string) (*Report, error) {
	target, err := s.regions.Resolve(code)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "SeedRegion", trace.WithAttributes(
		attribute.String("region", code),
		attribute.Int("total_records", s.cfg.TotalRecords),
	))
	defer span.End()

	log := logger.ForRegion(s.logger, code)
	ld := s.loader.WithLogger(log)
	report := &Report{Region: code}
	start := time.Now()

	log.Info("Seeding region",
		zap.Int("total_records", s.cfg.TotalRecords),
		zap.Int("batch_size", ld.Config().BatchSize),
		zap.Int("parallel_batches", ld.Config().ParallelBatches),
	)

	r := phaseRunner{seeder: s, loader: ld, logger: log, region: code, report: report}
	n := s.cfg.TotalRecords

	users, err := runPhase(ctx, r, loader.Job[domain.User]{
		Entity:   PhaseUsers,
		Total:    n,
		Generate: generator.Users,
		Write:    target.InsertUsers,
	})
	if err != nil {
		return nil, failSpan(span, err)
	}

	products, err := runPhase(ctx, r, loader.Job[domain.Product]{
		Entity:   PhaseProducts,
		Total:    n,
		Generate: generator.Products,
		Write:    target.InsertProducts,
	})
	if err != nil {
		return nil, failSpan(span, err)
	}

	orders, err := runPhase(ctx, r, loader.Job[domain.Order]{
		Entity:   PhaseOrders,
		Total:    n,
		Generate: generator.Orders(generator.OrderParams{UserIDs: domain.UserIDs(users)}),
		Write:    target.InsertOrders,
	})
	if err != nil {
		return nil, failSpan(span, err)
	}

	_, err = runPhase(ctx, r, loader.Job[domain.OrderItem]{
		Entity: PhaseOrderItems,
		Total:  n,
		Generate: generator.OrderItems(generator.OrderItemParams{
			OrderIDs:   domain.OrderIDs(orders),
			ProductIDs: domain.ProductIDs(products),
		}),
		Write: target.InsertOrderItems,
	})
	if err != nil {
		return nil, failSpan(span, err)
	}

	report.Elapsed = time.Since(start)
	report.ElapsedMs = report.Elapsed.Milliseconds()

	log.Info("Region seeded",
		zap.Int("total_rows", report.TotalRows),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// SeedAll seeds every registered region one after another. It stops at the
// first failing region and returns the reports completed so far.
func (s *Seeder) SeedAll(ctx context.Context) ([]*Report, error) {
	regionCodes := s.regions.Codes()
	if len(regionCodes) == 0 {
		return nil, ErrNoRegions
	}

	reports := make([]*Report, 0, len(regionCodes))
	for _, code := range regionCodes {
		report, err := s.SeedRegion(ctx, code)
		if err != nil {
			return reports, fmt.Errorf("failed to seed region %s: %w", code, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// RecordCount returns the number of users stored in the region
func (s *Seeder) RecordCount(ctx context.Context, code string) (int64, error) {
	target, err := s.regions.Resolve(code)
	if err != nil {
		return 0, err
	}
	return target.CountUsers(ctx)
}

// RecordCounts returns the user count of every registered region
func (s *Seeder) RecordCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, s.regions.Len())
	for _, code := range s.regions.Codes() {
		count, err := s.RecordCount(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to count region %s: %w", code, err)
		}
		counts[code] = count
	}
	return counts, nil
}

// Regions lists the codes the seeder can target
func (s *Seeder) Regions() []string {
	return s.regions.Codes()
}

type phaseRunner struct {
	seeder *Seeder
	loader *loader.Loader
	logger *zap.Logger
	region string
	report *Report
}

func runPhase[T any](ctx context.Context, r phaseRunner, job loader.Job[T]) ([]T, error) {
	ctx, span := r.seeder.tracer.Start(ctx, "SeedPhase", trace.WithAttributes(
		attribute.String("region", r.region),
		attribute.String("phase", job.Entity),
	))
	defer span.End()

	r.logger.Info("Creating records", zap.String("phase", job.Entity), zap.Int("count", job.Total))

	start := time.Now()
	records, err := loader.Load(ctx, r.loader, job)
	elapsed := time.Since(start)
	if err != nil {
		r.logger.Error("Phase failed", zap.String("phase", job.Entity), zap.Error(err))
		return nil, failSpan(span, fmt.Errorf("seed %s: %w", job.Entity, err))
	}

	metrics.RecordPhase(r.region, job.Entity, elapsed)
	r.report.add(job.Entity, len(records), elapsed)

	r.logger.Info("Records created",
		zap.String("phase", job.Entity),
		zap.Int("rows", len(records)),
		zap.Duration("elapsed", elapsed),
	)
	return records, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
