package geocode

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// Cache is the persistent zip coordinate cache. ok is false on a miss.
type Cache interface {
	Get(ctx context.Context, zip string) (entry geo.CacheEntry, ok bool, err error)
	Put(ctx context.Context, zip string, entry geo.CacheEntry) error
}

// ZipLookup resolves a five-digit zip through an external service. It returns
// an error wrapping domain.ErrLocationNotFound for a definitive miss.
type ZipLookup interface {
	LookupZip(ctx context.Context, zip5 string) (geo.Point, error)
}

// PlaceLookup resolves free-text city (+state) through an external service.
type PlaceLookup interface {
	LookupPlace(ctx context.Context, city, state string) (geo.Point, error)
}
