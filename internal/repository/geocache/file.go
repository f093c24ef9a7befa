package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// DefaultFlushEvery is the number of writes between automatic flushes.
const DefaultFlushEvery = 50

// fileCoords is one JSON entry; a null value marks a known-missing zip.
type fileCoords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// File caches zip coordinates in a JSON document of the form
// {"60614": {"lat": 41.92, "lng": -87.65}, "00000": null}.
// The whole document is held in memory and rewritten on flush.
type File struct {
	path       string
	flushEvery int
	logger     *zap.Logger

	mu      sync.Mutex
	mem     *Memory
	pending int
}

// OpenFile loads path if it exists. A missing file starts an empty cache; an
// unreadable one is logged and ignored so a corrupt cache never blocks startup.
func OpenFile(path string, flushEvery int, logger *zap.Logger) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("cache file path is required")
	}
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	f := &File{path: path, flushEvery: flushEvery, logger: logger, mem: NewMemory()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var doc map[string]*fileCoords
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("ignoring unreadable zip cache file", zap.String("path", path), zap.Error(err))
		return f, nil
	}
	for zip, c := range doc {
		e := geo.CacheEntry{}
		if c != nil {
			p, err := geo.NewPoint(c.Lat, c.Lng)
			if err != nil {
				continue
			}
			e = geo.CacheEntry{Point: p, Found: true}
		}
		f.mem.entries[zip] = e
	}
	logger.Info("loaded zip cache file", zap.String("path", path), zap.Int("entries", len(doc)))
	return f, nil
}

// Get returns the cached entry; ok is false on a miss.
func (f *File) Get(ctx context.Context, zip string) (geo.CacheEntry, bool, error) {
	return f.mem.Get(ctx, zip)
}

// Put stores an entry and flushes every flushEvery writes.
func (f *File) Put(ctx context.Context, zip string, e geo.CacheEntry) error {
	_ = f.mem.Put(ctx, zip, e)

	f.mu.Lock()
	f.pending++
	due := f.pending >= f.flushEvery
	f.mu.Unlock()

	if due {
		return f.Flush()
	}
	return nil
}

// Len returns the number of entries.
func (f *File) Len() int { return f.mem.Len() }

// Flush writes the document atomically (temp file + rename).
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mem.mu.RLock()
	doc := make(map[string]*fileCoords, len(f.mem.entries))
	for zip, e := range f.mem.entries {
		if e.Found {
			doc[zip] = &fileCoords{Lat: e.Point.Lat, Lng: e.Point.Lon}
		} else {
			doc[zip] = nil
		}
	}
	f.mem.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace cache file: %w", err)
	}

	f.pending = 0
	f.logger.Debug("flushed zip cache file", zap.String("path", f.path), zap.Int("entries", len(doc)))
	return nil
}

// Close flushes outstanding writes.
func (f *File) Close() error {
	f.mu.Lock()
	dirty := f.pending > 0
	f.mu.Unlock()
	if !dirty {
		return nil
	}
	return f.Flush()
}
