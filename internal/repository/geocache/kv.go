// Package geocache holds the persistent zip coordinate cache backends used by
// the coordinate resolver.
package geocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

const missingValue = "-"

// kvStore is the consumer interface for the key-value backend (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KV caches zip coordinates in a key-value store under "<prefix>zip:<zip5>".
// Values are "lat,lon" or "-" for a known-missing zip.
type KV struct {
	store       kvStore
	prefix      string
	negativeTTL time.Duration
}

// NewKV creates a key-value cache. negativeTTL bounds how long known-missing
// entries live; zero keeps them forever.
func NewKV(s kvStore, prefix string, negativeTTL time.Duration) *KV {
	return &KV{store: s, prefix: prefix, negativeTTL: negativeTTL}
}

// Get returns the cached entry; ok is false on a miss.
func (c *KV) Get(ctx context.Context, zip string) (geo.CacheEntry, bool, error) {
	raw, err := c.store.Get(ctx, c.key(zip))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return geo.CacheEntry{}, false, nil
		}
		return geo.CacheEntry{}, false, fmt.Errorf("get %s: %w", zip, err)
	}
	e, err := decodeEntry(string(raw))
	if err != nil {
		return geo.CacheEntry{}, false, fmt.Errorf("decode %s: %w", zip, err)
	}
	return e, true, nil
}

// Put stores an entry.
func (c *KV) Put(ctx context.Context, zip string, e geo.CacheEntry) error {
	var err error
	if e.Found {
		err = c.store.Set(ctx, c.key(zip), []byte(encodeEntry(e)))
	} else {
		err = c.store.SetWithTTL(ctx, c.key(zip), []byte(missingValue), c.negativeTTL)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", zip, err)
	}
	return nil
}

func (c *KV) key(zip string) string {
	return c.prefix + "zip:" + zip
}

func encodeEntry(e geo.CacheEntry) string {
	if !e.Found {
		return missingValue
	}
	return strconv.FormatFloat(e.Point.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(e.Point.Lon, 'f', 6, 64)
}

func decodeEntry(s string) (geo.CacheEntry, error) {
	if s == missingValue {
		return geo.CacheEntry{}, nil
	}
	latS, lonS, ok := strings.Cut(s, ",")
	if !ok {
		return geo.CacheEntry{}, fmt.Errorf("malformed value %q", s)
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return geo.CacheEntry{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return geo.CacheEntry{}, fmt.Errorf("longitude: %w", err)
	}
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.CacheEntry{}, err
	}
	return geo.CacheEntry{Point: p, Found: true}, nil
}
