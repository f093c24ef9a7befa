package backfill

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// GeoWriter maintains the precomputed point column. Only spatial stores have one.
type GeoWriter interface {
	EnsureGeoColumn(ctx context.Context) error
	EnsureSpatialIndex(ctx context.Context) error
	ZipsWithoutPoint(ctx context.Context) ([]string, error)
	SetPointForZip(ctx context.Context, zip string, p geo.Point) (int64, error)
}

// ZipLister lists the distinct zips of active records.
type ZipLister interface {
	DistinctZips(ctx context.Context) ([]string, error)
}

// Resolver resolves zip codes, cache first.
type Resolver interface {
	ResolveZip(ctx context.Context, raw string) (geo.Resolution, bool)
}

// Flusher persists buffered cache writes.
type Flusher interface {
	Flush() error
}
