// Package loader inserts generated records in fixed-size batches, running at
// most ParallelBatches inserts at a time.
//
// Batches are grouped into chunks of ParallelBatches. All batches of a chunk
// start together and the next chunk starts only once every batch of the
// current one has finished. A failed batch fails the whole load after its
// chunk resolves; batches that were already written stay written.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"region-latency-demo/internal/generator"
	"region-latency-demo/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize       = 1000
	DefaultParallelBatches = 5
)

var ErrInvalidConfig = errors.New("invalid loader configuration")

// Config controls batching and concurrency
type Config struct {
	BatchSize       int
	ParallelBatches int
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		BatchSize:       DefaultBatchSize,
		ParallelBatches: DefaultParallelBatches,
	}
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size %d: %w", c.BatchSize, ErrInvalidConfig)
	}
	if c.ParallelBatches <= 0 {
		return fmt.Errorf("parallel batches %d: %w", c.ParallelBatches, ErrInvalidConfig)
	}
	return nil
}

// Batch is one slice of the total, inserted in a single storage call
type Batch struct {
	Index      int
	StartIndex int
	Count      int
}

// Plan splits total records into ceil(total/batchSize) batches. Every batch
// holds batchSize records except possibly the last.
func Plan(total, batchSize int) []Batch {
	if total <= 0 || batchSize <= 0 {
		return nil
	}

	batches := make([]Batch, 0, (total+batchSize-1)/batchSize)
	for start := 0; start < total; start += batchSize {
		batches = append(batches, Batch{
			Index:      len(batches),
			StartIndex: start,
			Count:      min(batchSize, total-start),
		})
	}
	return batches
}

// Chunks groups batches into runs of at most size
func Chunks(batches []Batch, size int) [][]Batch {
	if size <= 0 {
		return nil
	}

	chunks := make([][]Batch, 0, (len(batches)+size-1)/size)
	for i := 0; i < len(batches); i += size {
		chunks = append(chunks, batches[i:min(i+size, len(batches))])
	}
	return chunks
}

// WriteFunc persists one batch of records
type WriteFunc[T any] func(ctx context.Context, records []T) error

// Job describes one entity type to load
type Job[T any] struct {
	Entity   string
	Total    int
	Generate generator.Func[T]
	Write    WriteFunc[T]
}

// Loader runs jobs with a fixed batching configuration
type Loader struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Loader after validating cfg
func New(cfg Config, logger *zap.Logger) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loader{cfg: cfg, logger: logger}, nil
}

// Config returns the batching configuration
func (l *Loader) Config() Config {
	return l.cfg
}

// WithLogger returns a copy of the loader that logs through logger
func (l *Loader) WithLogger(logger *zap.Logger) *Loader {
	return &Loader{cfg: l.cfg, logger: logger}
}

// Load generates and writes job.Total records and returns them ordered by batch
func Load[T any](ctx context.Context, l *Loader, job Job[T]) ([]T, error) {
	if job.Total < 0 {
		return nil, fmt.Errorf("%s: negative total %d: %w", job.Entity, job.Total, ErrInvalidConfig)
	}

	batches := Plan(job.Total, l.cfg.BatchSize)
	chunks := Chunks(batches, l.cfg.ParallelBatches)
	results := make([][]T, len(batches))
	done := 0

	for ci, chunk := range chunks {
		l.logger.Info("Processing chunk",
			zap.String("entity", job.Entity),
			zap.Int("chunk", ci+1),
			zap.Int("chunks", len(chunks)),
			zap.Int("parallel_batches", len(chunk)),
		)

		// A plain group: a failing batch must not cancel its siblings
		var g errgroup.Group
		for _, batch := range chunk {
			g.Go(func() error {
				records, err := runBatch(ctx, job, batch)
				if err != nil {
					return err
				}
				results[batch.Index] = records
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			l.logger.Error("Batch load failed",
				zap.String("entity", job.Entity),
				zap.Int("chunk", ci+1),
				zap.Error(err),
			)
			return nil, err
		}

		done += len(chunk)
		l.logger.Info("Chunk completed",
			zap.String("entity", job.Entity),
			zap.Int("progress_percent", done*100/len(batches)),
		)
	}

	records := make([]T, 0, job.Total)
	for _, batch := range results {
		records = append(records, batch...)
	}
	return records, nil
}

func runBatch[T any](ctx context.Context, job Job[T], batch Batch) ([]T, error) {
	records, err := job.Generate(batch.Count, batch.StartIndex)
	if err != nil {
		return nil, fmt.Errorf("generate %s batch %d: %w", job.Entity, batch.Index, err)
	}

	start := time.Now()
	err = job.Write(ctx, records)
	metrics.RecordBatch(job.Entity, len(records), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("insert %s batch %d (start=%d, count=%d): %w",
			job.Entity, batch.Index, batch.StartIndex, batch.Count, err)
	}
	return records, nil
}
