// Package radius filters candidate records by great-circle distance from a
// search center, resolving their zip codes on the application tier.
package radius

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/center"
)

const defaultConcurrency = 8

// Match is a candidate inside the radius.
type Match struct {
	ID            string
	DistanceMiles float64
	Center        string
}

// Filter keeps candidates whose zip lies within a radius of a center.
type Filter struct {
	resolver    ZipResolver
	concurrency int
}

// New creates a radius filter. concurrency bounds parallel zip resolutions.
func New(r ZipResolver, concurrency int) *Filter {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Filter{resolver: r, concurrency: concurrency}
}

// WithinRadius returns the candidates at most radiusMiles from c. Each distinct
// zip is resolved once; candidates with unresolvable zips are dropped. Order
// of the result is unspecified.
func (f *Filter) WithinRadius(
	ctx context.Context, c center.Center, radiusMiles float64, candidates []record.Candidate,
) []Match {
	byZip := make(map[string][]string)
	var zips []string
	for _, cand := range candidates {
		key := zipKey(cand.ZipCode)
		if key == "" {
			continue
		}
		if _, seen := byZip[key]; !seen {
			zips = append(zips, key)
		}
		byZip[key] = append(byZip[key], cand.ID)
	}

	points := f.resolveAll(ctx, zips)

	var out []Match
	origin := c.Point()
	for i, zip := range zips {
		p := points[i]
		if p == nil {
			continue
		}
		d := geo.DistanceMiles(origin, *p)
		if d > radiusMiles {
			continue
		}
		for _, id := range byZip[zip] {
			out = append(out, Match{ID: id, DistanceMiles: d, Center: c.Label()})
		}
	}
	return out
}

// resolveAll resolves zips concurrently; nil marks an unresolvable zip. Once
// ctx is done the remaining zips are skipped.
func (f *Filter) resolveAll(ctx context.Context, zips []string) []*geo.Point {
	points := make([]*geo.Point, len(zips))
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, zip := range zips {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if res, ok := f.resolver.ResolveZip(ctx, zip); ok {
				p := res.Point
				points[i] = &p
			}
			return nil
		})
	}
	_ = g.Wait()
	return points
}

// zipKey groups candidates by normalized zip. Malformed values are kept as
// typed so the resolver can still try the prefix fallback.
func zipKey(raw string) string {
	if zip, ok := geo.NormalizeZip(raw); ok {
		return zip
	}
	return strings.TrimSpace(raw)
}

// Merge unions per-center matches, keeping the smallest distance (and its
// center) for every id. The first occurrence wins a tie.
func Merge(sets ...[]Match) []Match {
	idx := make(map[string]int)
	var out []Match
	for _, set := range sets {
		for _, m := range set {
			i, ok := idx[m.ID]
			if !ok {
				idx[m.ID] = len(out)
				out = append(out, m)
				continue
			}
			if m.DistanceMiles < out[i].DistanceMiles {
				out[i] = m
			}
		}
	}
	return out
}
