package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenCache_Drivers(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)
	entry := geo.CacheEntry{Point: geo.Point{Lat: 41.92, Lon: -87.65}, Found: true}

	tests := []struct {
		name        string
		cfg         config.CacheConfig
		wantFlusher bool
	}{
		{"memory", config.CacheConfig{Driver: config.CacheMemory}, false},
		{"store", config.CacheConfig{Driver: config.CacheStore}, false},
		{"file", config.CacheConfig{Driver: config.CacheFile, FilePath: filepath.Join(t.TempDir(), "zips.json")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := OpenCache(ctx, tt.cfg, store, zap.NewNop())
			if err != nil {
				t.Fatalf("open cache: %v", err)
			}
			defer func() { _ = c.Close() }()

			if c.Health != nil {
				t.Error("local caches have no health probe")
			}
			if (c.Flusher != nil) != tt.wantFlusher {
				t.Errorf("flusher = %v, want %v", c.Flusher != nil, tt.wantFlusher)
			}
			if err := c.Put(ctx, "60614", entry); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, ok, err := c.Get(ctx, "60614")
			if err != nil || !ok || got.Point != entry.Point {
				t.Errorf("get = %+v ok=%v err=%v", got, ok, err)
			}
		})
	}
}

func TestOpenCache_UnknownDriver(t *testing.T) {
	if _, err := OpenCache(context.Background(), config.CacheConfig{Driver: "memcached"}, nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestProbeCapabilities_SQLite(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	caps, err := ProbeCapabilities(ctx, config.SpatialAuto, store, zap.NewNop())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if caps.Spatial() || caps.ZipIndex() {
		t.Errorf("empty sqlite store must have no capabilities, got %s", caps)
	}

	if err := store.UpsertRecords(ctx, []db.RecordRow{{ID: "a", FirstName: "Ann", ZipCode: "60614", Active: true}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.PutZip(ctx, db.ZipRow{Zip: "60614", Lat: 41.92, Lon: -87.65, Found: true}); err != nil {
		t.Fatalf("put zip: %v", err)
	}
	caps, err = ProbeCapabilities(ctx, config.SpatialAuto, store, zap.NewNop())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if caps.Spatial() || !caps.ZipIndex() {
		t.Errorf("expected zip index only, got %s", caps)
	}

	if _, err := ProbeCapabilities(ctx, config.SpatialOn, store, zap.NewNop()); err == nil {
		t.Error("spatial on without postgres must fail")
	}
}

func TestNewResolver_NoPlaceURL(t *testing.T) {
	r := NewResolver(config.GeocodingConfig{ZipURL: "http://127.0.0.1:1"}, nil, zap.NewNop())
	if _, ok := r.ResolveCity(context.Background(), "Chicago", "IL"); ok {
		t.Error("city resolution must be disabled without a place URL")
	}
}
