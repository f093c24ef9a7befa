// Package bootstrap builds the store, coordinate cache and resolver shared by
// the API server and the backfill job.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/talentdex/internal/db/redis"
	"github.com/kailas-cloud/talentdex/internal/db/sqldb"
	"github.com/kailas-cloud/talentdex/internal/db/sqlite"
	"github.com/kailas-cloud/talentdex/internal/domain/search/capability"
	"github.com/kailas-cloud/talentdex/internal/repository/geocache"
	"github.com/kailas-cloud/talentdex/internal/transport/nominatim"
	"github.com/kailas-cloud/talentdex/internal/transport/zippopotam"
	"github.com/kailas-cloud/talentdex/internal/usecase/geocode"
	"github.com/kailas-cloud/talentdex/internal/usecase/health"
)

// Store is the opened directory store. Postgres is nil for SQLite.
type Store struct {
	*sqldb.Store
	Postgres *postgres.Store
}

// OpenStore opens the configured directory store, waits for it and applies the schema.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := postgres.Open(postgres.Config{DSN: cfg.DSN, MaxOpenConns: cfg.MaxOpenConns})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.WaitForReady(ctx, readiness); err != nil {
			pg.Close()
			return nil, fmt.Errorf("postgres not ready: %w", err)
		}
		if err := pg.Init(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return &Store{Store: pg.Store, Postgres: pg}, nil
	case config.DriverSQLite:
		lite, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.DSN, MaxOpenConns: cfg.MaxOpenConns})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Store{Store: lite.Store}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Cache is the opened coordinate cache.
type Cache struct {
	geocode.Cache
	// Health is nil unless the cache lives in its own server.
	Health health.Pinger
	// Flusher is nil unless writes are buffered.
	Flusher interface{ Flush() error }

	close func() error
}

// Close releases the cache backend, flushing buffered writes.
func (c *Cache) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// OpenCache opens the configured coordinate cache. The store driver reuses
// the directory store's zip table.
func OpenCache(ctx context.Context, cfg config.CacheConfig, store *Store, logger *zap.Logger) (*Cache, error) {
	switch cfg.Driver {
	case config.CacheRedis:
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			LocalTTL: time.Duration(cfg.LocalCacheSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		if err := rs.WaitForReady(ctx, 10*time.Second); err != nil {
			rs.Close()
			return nil, fmt.Errorf("redis cache not ready: %w", err)
		}
		ttl := time.Duration(cfg.NegativeTTLHours) * time.Hour
		return &Cache{
			Cache:  geocache.NewKV(rs, cfg.KeyPrefix, ttl),
			Health: rs,
			close:  func() error { rs.Close(); return nil },
		}, nil
	case config.CacheStore:
		return &Cache{Cache: geocache.NewTable(store)}, nil
	case config.CacheFile:
		f, err := geocache.OpenFile(cfg.FilePath, cfg.FlushEvery, logger)
		if err != nil {
			return nil, fmt.Errorf("open cache file: %w", err)
		}
		return &Cache{Cache: f, Flusher: f, close: f.Close}, nil
	case config.CacheMemory:
		return &Cache{Cache: geocache.NewMemory()}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// NewResolver wires the outbound geocoders behind the coordinate resolver.
// An empty place URL disables city resolution.
func NewResolver(cfg config.GeocodingConfig, cache geocode.Cache, logger *zap.Logger) *geocode.Resolver {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	zips := zippopotam.New(&zippopotam.Config{
		BaseURL:           cfg.ZipURL,
		UserAgent:         cfg.UserAgent,
		Timeout:           timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger,
	})

	// Pass nil interface (not typed nil pointer) when city lookups are off.
	var places geocode.PlaceLookup
	if cfg.PlaceURL != "" {
		places = nominatim.New(&nominatim.Config{
			BaseURL:           cfg.PlaceURL,
			UserAgent:         cfg.UserAgent,
			Timeout:           timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Logger:            logger,
		})
	}

	return geocode.New(cache, zips, places, logger)
}

// ProbeCapabilities decides once which radius tiers the store can serve.
func ProbeCapabilities(ctx context.Context, mode string, store *Store, logger *zap.Logger) (capability.Capabilities, error) {
	spatial := false
	if store.Postgres != nil && mode != config.SpatialOff {
		ok, err := store.Postgres.ProbeSpatial(ctx)
		if err != nil {
			return capability.None(), fmt.Errorf("probe spatial: %w", err)
		}
		spatial = ok
	}
	if mode == config.SpatialOn && !spatial {
		return capability.None(), fmt.Errorf("spatial.mode is on but the store has no spatial support")
	}

	zipIndex, err := store.ZipCoverage(ctx)
	if err != nil {
		logger.Warn("zip coverage probe failed; zip index disabled", zap.Error(err))
		zipIndex = false
	}

	return capability.New(spatial, zipIndex), nil
}
