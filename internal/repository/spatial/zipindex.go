package spatial

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// zipStore is the consumer interface for the stored zip coordinate table (ISP).
type zipStore interface {
	ZipsInBox(ctx context.Context, box geo.Box) ([]db.ZipRow, error)
	UnlocatedZips(ctx context.Context) ([]string, error)
}

// ZipIndex answers "which known zips lie within r miles of p" from the
// zip_coordinates table: a bounding box in the store, exact Haversine here.
type ZipIndex struct {
	store zipStore
}

// NewZipIndex creates a zip index over the store.
func NewZipIndex(s zipStore) *ZipIndex {
	return &ZipIndex{store: s}
}

// NearbyZips maps each known zip within radiusMiles of p to its distance.
func (z *ZipIndex) NearbyZips(ctx context.Context, p geo.Point, radiusMiles float64) (map[string]float64, error) {
	rows, err := z.store.ZipsInBox(ctx, geo.BoundingBox(p, radiusMiles))
	if err != nil {
		return nil, fmt.Errorf("zips in box: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		d := geo.DistanceMiles(p, geo.Point{Lat: row.Lat, Lon: row.Lon})
		if d <= radiusMiles {
			out[row.Zip] = d
		}
	}
	return out, nil
}

// Unlocated returns the zip keys of active records the table cannot place.
func (z *ZipIndex) Unlocated(ctx context.Context) ([]string, error) {
	keys, err := z.store.UnlocatedZips(ctx)
	if err != nil {
		return nil, fmt.Errorf("unlocated zips: %w", err)
	}
	return keys, nil
}
