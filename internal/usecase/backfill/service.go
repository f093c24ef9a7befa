// Package backfill fills the precomputed geography column from zip codes and
// warms the coordinate cache on the way.
package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// DefaultProgressEvery is how many zips pass between progress log lines.
const DefaultProgressEvery = 50

// Options control one backfill run.
type Options struct {
	// AllowApproximate also writes prefix-table centers. Off by default: an
	// approximate point can be tens of miles off.
	AllowApproximate bool
	ProgressEvery    int
}

// Summary reports what one run did.
type Summary struct {
	RunID       string
	Zips        int
	FromCache   int
	FromLookup  int
	Approximate int
	Skipped     int
	NotFound    int
	RowsUpdated int64
	Elapsed     time.Duration
}

// Service runs geolocation backfills.
type Service struct {
	resolver Resolver
	writer   GeoWriter
	lister   ZipLister
	flusher  Flusher
	logger   *zap.Logger
}

// New creates a backfill service. With a nil writer the run only warms the
// coordinate cache from lister. flusher may be nil.
func New(resolver Resolver, writer GeoWriter, lister ZipLister, flusher Flusher, logger *zap.Logger) *Service {
	return &Service{resolver: resolver, writer: writer, lister: lister, flusher: flusher, logger: logger}
}

// Run resolves every zip that still needs a point and writes it to matching
// records. On cancellation it returns the partial summary with the context error.
func (s *Service) Run(ctx context.Context, opts Options) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	start := time.Now()
	log := s.logger.With(zap.String("run_id", sum.RunID))
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	defer s.flush(log)

	zips, err := s.pending(ctx, log)
	if err != nil {
		return sum, err
	}
	sum.Zips = len(zips)
	log.Info("backfill started",
		zap.Int("zips", len(zips)),
		zap.Bool("write_points", s.writer != nil),
		zap.Bool("allow_approximate", opts.AllowApproximate),
	)

	for i, zip := range zips {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		if err := s.process(ctx, zip, opts, &sum); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		if n := i + 1; n%every == 0 || n == len(zips) {
			log.Info("backfill progress",
				zap.Int("done", n),
				zap.Int("total", len(zips)),
				zap.Int("not_found", sum.NotFound),
				zap.Int64("rows_updated", sum.RowsUpdated),
			)
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info("backfill finished",
		zap.Int("zips", sum.Zips),
		zap.Int("from_cache", sum.FromCache),
		zap.Int("from_lookup", sum.FromLookup),
		zap.Int("approximate", sum.Approximate),
		zap.Int("skipped", sum.Skipped),
		zap.Int("not_found", sum.NotFound),
		zap.Int64("rows_updated", sum.RowsUpdated),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// pending prepares the schema and lists the zips to process.
func (s *Service) pending(ctx context.Context, log *zap.Logger) ([]string, error) {
	if s.writer == nil {
		zips, err := s.lister.DistinctZips(ctx)
		if err != nil {
			return nil, fmt.Errorf("list zips: %w", err)
		}
		return zips, nil
	}

	if err := s.writer.EnsureGeoColumn(ctx); err != nil {
		return nil, fmt.Errorf("ensure geo column: %w", err)
	}
	if err := s.writer.EnsureSpatialIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure spatial index: %w", err)
	}
	log.Info("geography column and index ready")

	zips, err := s.writer.ZipsWithoutPoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zips without point: %w", err)
	}
	return zips, nil
}

func (s *Service) process(ctx context.Context, zip string, opts Options, sum *Summary) error {
	res, ok := s.resolver.ResolveZip(ctx, zip)
	if !ok {
		sum.NotFound++
		return nil
	}

	switch res.Source {
	case geo.SourceCache:
		sum.FromCache++
	case geo.SourceLookup:
		sum.FromLookup++
	case geo.SourcePrefix:
		sum.Approximate++
	}

	if s.writer == nil {
		return nil
	}
	if res.Precision != geo.Exact && !opts.AllowApproximate {
		sum.Skipped++
		return nil
	}

	n, err := s.writer.SetPointForZip(ctx, zip, res.Point)
	if err != nil {
		return fmt.Errorf("set point for %q: %w", zip, err)
	}
	sum.RowsUpdated += n
	return nil
}

func (s *Service) flush(log *zap.Logger) {
	if s.flusher == nil {
		return
	}
	if err := s.flusher.Flush(); err != nil {
		log.Warn("flush coordinate cache", zap.Error(err))
	}
}
