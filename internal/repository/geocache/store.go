package geocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// zipStore is the consumer interface for the relational zip table (ISP).
type zipStore interface {
	GetZip(ctx context.Context, zip string) (db.ZipRow, error)
	PutZip(ctx context.Context, row db.ZipRow) error
}

// Table caches zip coordinates in the zip_coordinates table. Entries written
// here also feed the nearby-zip index.
type Table struct {
	store zipStore
}

// NewTable creates a table-backed cache.
func NewTable(s zipStore) *Table {
	return &Table{store: s}
}

// Get returns the cached entry; ok is false on a miss.
func (c *Table) Get(ctx context.Context, zip string) (geo.CacheEntry, bool, error) {
	row, err := c.store.GetZip(ctx, zip)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return geo.CacheEntry{}, false, nil
		}
		return geo.CacheEntry{}, false, fmt.Errorf("get zip %s: %w", zip, err)
	}
	if !row.Found {
		return geo.CacheEntry{}, true, nil
	}
	return geo.CacheEntry{Point: geo.Point{Lat: row.Lat, Lon: row.Lon}, Found: true}, true, nil
}

// Put upserts an entry.
func (c *Table) Put(ctx context.Context, zip string, e geo.CacheEntry) error {
	row := db.ZipRow{Zip: zip, Found: e.Found}
	if e.Found {
		row.Lat, row.Lon = e.Point.Lat, e.Point.Lon
	}
	if err := c.store.PutZip(ctx, row); err != nil {
		return fmt.Errorf("put zip %s: %w", zip, err)
	}
	return nil
}
