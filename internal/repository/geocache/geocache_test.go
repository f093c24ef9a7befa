package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/db/sqlite"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

var lincolnPark = geo.CacheEntry{Point: geo.Point{Lat: 41.9227, Lon: -87.6533}, Found: true}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMockKV() *mockKVStore {
	return &mockKVStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (m *mockKVStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = string(value)
	return nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = string(value)
	m.ttls[key] = ttl
	return nil
}

func TestKV_RoundTrip(t *testing.T) {
	ms := newMockKV()
	c := NewKV(ms, "talentdex:", time.Hour)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "60614"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, "60614", lincolnPark); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := ms.data["talentdex:zip:60614"]; got != "41.922700,-87.653300" {
		t.Errorf("stored value = %q", got)
	}
	e, ok, err := c.Get(ctx, "60614")
	if err != nil || !ok || !e.Found || e.Point != lincolnPark.Point {
		t.Errorf("get = %+v ok=%v err=%v", e, ok, err)
	}

	if err := c.Put(ctx, "00000", geo.CacheEntry{}); err != nil {
		t.Fatalf("put negative: %v", err)
	}
	if ms.data["talentdex:zip:00000"] != "-" || ms.ttls["talentdex:zip:00000"] != time.Hour {
		t.Errorf("negative entry = %q ttl %v", ms.data["talentdex:zip:00000"], ms.ttls["talentdex:zip:00000"])
	}
	e, ok, _ = c.Get(ctx, "00000")
	if !ok || e.Found {
		t.Errorf("expected known-missing entry, got %+v ok=%v", e, ok)
	}
}

func TestKV_Errors(t *testing.T) {
	ms := newMockKV()
	ms.data["zip:11111"] = "garbage"
	c := NewKV(ms, "", 0)

	if _, _, err := c.Get(context.Background(), "11111"); err == nil {
		t.Error("expected decode error")
	}

	ms.getErr = errors.New("connection refused")
	if _, ok, err := c.Get(context.Background(), "60614"); err == nil || ok {
		t.Error("expected store error")
	}
}

func TestDecodeEntry_RejectsOutOfRange(t *testing.T) {
	if _, err := decodeEntry("91,0"); err == nil {
		t.Error("expected invalid latitude error")
	}
}

func TestMemory(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	_ = c.Put(ctx, "60614", lincolnPark)
	_ = c.Put(ctx, "00000", geo.CacheEntry{})

	if e, ok, _ := c.Get(ctx, "60614"); !ok || !e.Found {
		t.Error("expected found entry")
	}
	if e, ok, _ := c.Get(ctx, "00000"); !ok || e.Found {
		t.Error("expected known-missing entry")
	}
	if _, ok, _ := c.Get(ctx, "99999"); ok {
		t.Error("expected miss")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestFile_FlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zip_cache.json")
	ctx := context.Background()

	c, err := OpenFile(path, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = c.Put(ctx, "60614", lincolnPark)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("flushed before the threshold")
	}
	_ = c.Put(ctx, "00000", geo.CacheEntry{})
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected flush at threshold: %v", err)
	}

	raw, _ := os.ReadFile(path)
	var doc map[string]*fileCoords
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["00000"] != nil || doc["60614"] == nil || doc["60614"].Lng != -87.6533 {
		t.Errorf("unexpected document %s", raw)
	}

	_ = c.Put(ctx, "90210", geo.CacheEntry{Point: geo.Point{Lat: 34.0901, Lon: -118.4065}, Found: true})
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := OpenFile(path, 2, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reloaded.Len())
	}
	if e, ok, _ := reloaded.Get(ctx, "00000"); !ok || e.Found {
		t.Error("negative entry lost on reload")
	}
}

func TestFile_CorruptIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zip_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := OpenFile(path, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestTable_SQLite(t *testing.T) {
	s, err := sqlite.Open(context.Background(), sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)

	c := NewTable(s)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "60614"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(ctx, "60614", lincolnPark); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, "00000", geo.CacheEntry{}); err != nil {
		t.Fatalf("put negative: %v", err)
	}

	e, ok, err := c.Get(ctx, "60614")
	if err != nil || !ok || e.Point != lincolnPark.Point {
		t.Errorf("get = %+v ok=%v err=%v", e, ok, err)
	}
	e, ok, _ = c.Get(ctx, "00000")
	if !ok || e.Found {
		t.Errorf("expected known-missing, got %+v", e)
	}
}
