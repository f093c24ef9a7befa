package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/metrics"
)

const (
	kindZip  = "zip"
	kindCity = "city"
)

// Resolver turns zip codes and city names into coordinates. It never returns
// an error: every failure ends as NotFound (ok == false).
type Resolver struct {
	cache  Cache
	zips   ZipLookup
	places PlaceLookup
	logger *zap.Logger

	inflight singleflight.Group
	zipMemo  sync.Map // zip5 -> geo.CacheEntry
	cityMemo sync.Map // city key -> cityResult
}

type cityResult struct {
	point geo.Point
	found bool
}

// New creates a resolver. places may be nil, in which case cities never resolve.
func New(cache Cache, zips ZipLookup, places PlaceLookup, logger *zap.Logger) *Resolver {
	return &Resolver{cache: cache, zips: zips, places: places, logger: logger}
}

// ResolveZip resolves a raw zip code: cache, external lookup, then the
// 3-digit prefix table.
func (r *Resolver) ResolveZip(ctx context.Context, raw string) (geo.Resolution, bool) {
	zip, ok := geo.NormalizeZip(raw)
	if !ok {
		return r.prefixFallback(raw)
	}

	entry, cached := r.cached(ctx, zip)
	switch {
	case cached && entry.Found:
		r.countResolution(kindZip, geo.SourceCache)
		return geo.Resolution{Point: entry.Point, Precision: geo.Exact, Source: geo.SourceCache}, true
	case cached:
		// Known-missing: the lookup service has already said no.
		return r.prefixFallback(zip)
	}

	p, err := r.lookupZip(ctx, zip)
	if err == nil {
		r.countResolution(kindZip, geo.SourceLookup)
		return geo.Resolution{Point: p, Precision: geo.Exact, Source: geo.SourceLookup}, true
	}
	if !errors.Is(err, domain.ErrLocationNotFound) {
		r.logger.Warn("zip lookup failed", zap.String("zip", zip), zap.Error(err))
	}
	return r.prefixFallback(zip)
}

// ResolveCity resolves a city, optionally qualified by state. An unqualified
// city is forwarded to the place service as-is.
func (r *Resolver) ResolveCity(ctx context.Context, city, state string) (geo.Resolution, bool) {
	city = strings.TrimSpace(city)
	state = geo.NormalizeState(state)
	if city == "" || r.places == nil {
		r.countResolution(kindCity, "none")
		return geo.Resolution{}, false
	}

	key := strings.ToLower(city) + "|" + state
	if v, ok := r.cityMemo.Load(key); ok {
		res := v.(cityResult)
		if !res.found {
			r.countResolution(kindCity, "none")
			return geo.Resolution{}, false
		}
		r.countResolution(kindCity, geo.SourceCache)
		return geo.Resolution{Point: res.point, Precision: geo.Exact, Source: geo.SourceCache}, true
	}

	v, err, _ := r.inflight.Do("city:"+key, func() (any, error) {
		return r.places.LookupPlace(context.WithoutCancel(ctx), city, state)
	})
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			r.cityMemo.Store(key, cityResult{})
			r.logger.Debug("city not found", zap.String("city", city), zap.String("state", state))
		} else {
			r.logger.Warn("city lookup failed", zap.String("city", city), zap.String("state", state), zap.Error(err))
		}
		r.countResolution(kindCity, "none")
		return geo.Resolution{}, false
	}

	p := v.(geo.Point)
	r.cityMemo.Store(key, cityResult{point: p, found: true})
	r.countResolution(kindCity, geo.SourceLookup)
	return geo.Resolution{Point: p, Precision: geo.Exact, Source: geo.SourceLookup}, true
}

// cached consults the in-process memo, then the persistent cache.
func (r *Resolver) cached(ctx context.Context, zip string) (geo.CacheEntry, bool) {
	if v, ok := r.zipMemo.Load(zip); ok {
		e := v.(geo.CacheEntry)
		r.countCache(e)
		return e, true
	}
	if r.cache == nil {
		metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
		return geo.CacheEntry{}, false
	}

	e, ok, err := r.cache.Get(ctx, zip)
	if err != nil {
		r.logger.Warn("zip cache read failed", zap.String("zip", zip), zap.Error(err))
		ok = false
	}
	if !ok {
		metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
		return geo.CacheEntry{}, false
	}
	r.zipMemo.Store(zip, e)
	r.countCache(e)
	return e, true
}

// lookupZip asks the external service once per zip across concurrent callers
// and records the answer. Transient failures are not recorded.
func (r *Resolver) lookupZip(ctx context.Context, zip string) (geo.Point, error) {
	if r.zips == nil {
		return geo.Point{}, domain.ErrLocationNotFound
	}
	v, err, _ := r.inflight.Do("zip:"+zip, func() (any, error) {
		if v, ok := r.zipMemo.Load(zip); ok {
			if e := v.(geo.CacheEntry); e.Found {
				return e.Point, nil
			}
			return geo.Point{}, domain.ErrLocationNotFound
		}
		// Detached so one caller's cancellation does not fail the shared call;
		// the lookup client bounds its own duration.
		lctx := context.WithoutCancel(ctx)
		p, err := r.zips.LookupZip(lctx, zip)
		switch {
		case err == nil:
			r.remember(lctx, zip, geo.CacheEntry{Point: p, Found: true})
		case errors.Is(err, domain.ErrLocationNotFound):
			r.remember(lctx, zip, geo.CacheEntry{})
		}
		return p, err
	})
	if err != nil {
		return geo.Point{}, err
	}
	return v.(geo.Point), nil
}

func (r *Resolver) remember(ctx context.Context, zip string, e geo.CacheEntry) {
	r.zipMemo.Store(zip, e)
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, zip, e); err != nil {
		r.logger.Warn("zip cache write failed", zap.String("zip", zip), zap.Error(err))
	}
}

// prefixFallback maps the leading three digits to a regional center. The
// result is approximate and never cached.
func (r *Resolver) prefixFallback(raw string) (geo.Resolution, bool) {
	prefix, ok := geo.ZipPrefix(raw)
	if ok {
		if p, _, found := geo.PrefixCenter(prefix); found {
			r.countResolution(kindZip, geo.SourcePrefix)
			return geo.Resolution{Point: p, Precision: geo.Approximate, Source: geo.SourcePrefix}, true
		}
	}
	r.logger.Debug("zip not resolvable", zap.String("zip", raw))
	r.countResolution(kindZip, "none")
	return geo.Resolution{}, false
}

func (r *Resolver) countCache(e geo.CacheEntry) {
	if e.Found {
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	metrics.GeocodeCacheTotal.WithLabelValues("negative").Inc()
}

func (r *Resolver) countResolution(kind string, source geo.Source) {
	metrics.GeocodeResolutionsTotal.WithLabelValues(kind, string(source)).Inc()
}
