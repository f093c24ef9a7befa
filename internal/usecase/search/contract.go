package search

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/center"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/repository/directory"
	"github.com/kailas-cloud/talentdex/internal/repository/spatial"
	"github.com/kailas-cloud/talentdex/internal/usecase/radius"
)

// Records reads directory records for the exact and application-tier searches.
type Records interface {
	List(ctx context.Context, q directory.ListQuery) ([]record.Record, int, error)
	Candidates(ctx context.Context, filters filter.Expression, zip5In []string, limit int) ([]record.Candidate, error)
	ByIDs(ctx context.Context, ids []string) (map[string]record.Record, error)
}

// SpatialSearcher runs indexed radius queries in the store.
type SpatialSearcher interface {
	Search(ctx context.Context, q spatial.Query) ([]record.Ranked, int, error)
}

// ZipIndex lists known zips around a point, and the record zips it cannot place.
type ZipIndex interface {
	NearbyZips(ctx context.Context, p geo.Point, radiusMiles float64) (map[string]float64, error)
	Unlocated(ctx context.Context) ([]string, error)
}

// Resolver turns location tokens into coordinates.
type Resolver interface {
	ResolveZip(ctx context.Context, raw string) (geo.Resolution, bool)
	ResolveCity(ctx context.Context, city, state string) (geo.Resolution, bool)
}

// RadiusFilter keeps candidates within a radius of a center.
type RadiusFilter interface {
	WithinRadius(ctx context.Context, c center.Center, radiusMiles float64, candidates []record.Candidate) []radius.Match
}
