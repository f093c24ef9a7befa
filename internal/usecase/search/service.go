package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/capability"
	"github.com/kailas-cloud/talentdex/internal/domain/search/center"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	"github.com/kailas-cloud/talentdex/internal/domain/search/tier"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	"github.com/kailas-cloud/talentdex/internal/repository/directory"
	"github.com/kailas-cloud/talentdex/internal/repository/spatial"
	"github.com/kailas-cloud/talentdex/internal/usecase/radius"
)

// Config tunes the orchestrator.
type Config struct {
	// RequestTimeout bounds one search; zero disables the bound.
	RequestTimeout time.Duration
	// MaxCandidates triggers a warning when the geocode tier has to filter
	// more candidates than this. Zero disables the warning.
	MaxCandidates int
}

// Deps are the collaborators of the orchestrator. Spatial and Zips may be nil
// when the store lacks the matching capability.
type Deps struct {
	Records  Records
	Spatial  SpatialSearcher
	Zips     ZipIndex
	Resolver Resolver
	Radius   RadiusFilter
}

// Service answers directory searches, picking the most capable radius tier
// the store supports.
type Service struct {
	deps   Deps
	caps   capability.Capabilities
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. caps is fixed for the life of the service.
func New(deps Deps, caps capability.Capabilities, cfg Config, logger *zap.Logger) *Service {
	return &Service{deps: deps, caps: caps, cfg: cfg, logger: logger}
}

// Capabilities returns the store capabilities the service was built with.
func (s *Service) Capabilities() capability.Capabilities { return s.caps }

// Search returns one page of matching records. If the request timeout fires
// while the caller is still waiting, the page is empty and flagged degraded.
func (s *Service) Search(ctx context.Context, p params.Params) (result.Page, error) {
	filters, err := p.Filters()
	if err != nil {
		return result.Page{}, fmt.Errorf("%w: %w", domain.ErrInvalidParams, err)
	}

	start := time.Now()
	sctx := ctx
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	run := &searchRun{params: &p, filters: filters}
	page, err := s.search(sctx, run)
	if errors.Is(err, domain.ErrInvalidParams) {
		return result.Page{}, err
	}
	if err != nil {
		if errors.Is(sctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			s.logger.Warn("search timed out",
				zap.String("tier", string(run.tier)),
				zap.Duration("timeout", s.cfg.RequestTimeout),
				zap.Error(err),
			)
			page = result.Empty(p.Page(), p.PageSize(), run.tier).Degrade()
		} else {
			s.logger.Error("search failed", zap.String("tier", string(run.tier)), zap.Error(err))
			return result.Page{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}

	metrics.SearchTotal.WithLabelValues(string(page.Tier())).Inc()
	metrics.SearchDuration.WithLabelValues(string(page.Tier())).Observe(time.Since(start).Seconds())
	s.logger.Debug("search",
		zap.String("tier", string(page.Tier())),
		zap.Strings("centers", run.labels()),
		zap.Int("candidates", run.candidates),
		zap.Int("total", page.Total()),
		zap.Int("returned", len(page.Items())),
		zap.Bool("degraded", page.Degraded()),
	)
	return page, nil
}

// searchRun carries per-request state for logging.
type searchRun struct {
	params     *params.Params
	filters    filter.Expression
	tier       tier.Tier
	centers    []center.Center
	candidates int
}

func (r *searchRun) labels() []string {
	out := make([]string, len(r.centers))
	for i, c := range r.centers {
		out[i] = c.Label()
	}
	return out
}

func (r *searchRun) empty(t tier.Tier) result.Page {
	r.tier = t
	return result.Empty(r.params.Page(), r.params.PageSize(), t)
}

func (s *Service) search(ctx context.Context, run *searchRun) (result.Page, error) {
	p := run.params
	if !p.RadiusRequested() {
		return s.exact(ctx, run, func() (filter.Expression, error) { return p.ExactFilters(true) })
	}

	// Zips win over city when both are supplied.
	if len(p.ZipCodes()) > 0 {
		run.centers = s.resolveZipCenters(ctx, p.ZipCodes())
		if len(run.centers) > 0 {
			return s.radiusSearch(ctx, run)
		}
		if p.State() != "" {
			return s.exact(ctx, run, p.StateOnlyFilters)
		}
		return run.empty(tier.Empty), ctx.Err()
	}

	res, ok := s.deps.Resolver.ResolveCity(ctx, p.City(), p.State())
	if !ok {
		return s.exact(ctx, run, func() (filter.Expression, error) { return p.ExactFilters(false) })
	}
	c, err := center.New(center.CityLabel(p.City(), p.State()), res)
	if err != nil {
		return s.exact(ctx, run, func() (filter.Expression, error) { return p.ExactFilters(false) })
	}
	run.centers = []center.Center{c}
	return s.radiusSearch(ctx, run)
}

// resolveZipCenters resolves every zip token concurrently and drops the ones
// that cannot be resolved. Order follows the request.
func (s *Service) resolveZipCenters(ctx context.Context, zips []string) []center.Center {
	resolved := make([]*center.Center, len(zips))
	var g errgroup.Group
	for i, z := range zips {
		g.Go(func() error {
			res, ok := s.deps.Resolver.ResolveZip(ctx, z)
			if !ok {
				return nil
			}
			if c, err := center.New(z, res); err == nil {
				resolved[i] = &c
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]center.Center, 0, len(zips))
	for _, c := range resolved {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func (s *Service) exact(
	ctx context.Context, run *searchRun, build func() (filter.Expression, error),
) (result.Page, error) {
	run.tier = tier.Exact
	p := run.params
	filters, err := build()
	if err != nil {
		return run.empty(tier.Exact), fmt.Errorf("%w: %w", domain.ErrInvalidParams, err)
	}

	recs, total, err := s.deps.Records.List(ctx, directory.ListQuery{
		Filters: filters,
		SortBy:  p.SortBy(),
		Dir:     p.Direction(),
		Offset:  p.Offset(),
		Limit:   p.PageSize(),
	})
	if err != nil {
		return run.empty(tier.Exact), err
	}

	items := make([]record.Ranked, len(recs))
	for i, r := range recs {
		items[i] = record.NewRanked(r)
	}
	return result.New(items, total, p.Page(), p.PageSize(), tier.Exact), nil
}

// radiusSearch dispatches to the most capable radius tier.
func (s *Service) radiusSearch(ctx context.Context, run *searchRun) (result.Page, error) {
	switch {
	case s.caps.Spatial() && s.deps.Spatial != nil:
		return s.searchSpatial(ctx, run)
	case s.caps.ZipIndex() && s.deps.Zips != nil:
		return s.searchZipList(ctx, run)
	default:
		return s.searchGeocode(ctx, run)
	}
}

func (s *Service) searchSpatial(ctx context.Context, run *searchRun) (result.Page, error) {
	run.tier = tier.Spatial
	p := run.params
	items, total, err := s.deps.Spatial.Search(ctx, spatial.Query{
		Centers:     run.centers,
		RadiusMiles: p.RadiusMiles(),
		Filters:     run.filters,
		SortBy:      p.SortBy(),
		Dir:         p.Direction(),
		Offset:      p.Offset(),
		Limit:       p.PageSize(),
	})
	if err != nil {
		return run.empty(tier.Spatial), err
	}
	return result.New(items, total, p.Page(), p.PageSize(), tier.Spatial), nil
}

// searchZipList expands every center into the known zips within the radius
// and selects records by zip membership. Records whose zip the table cannot
// place are measured by the radius filter, so both tiers agree on membership.
func (s *Service) searchZipList(ctx context.Context, run *searchRun) (result.Page, error) {
	run.tier = tier.ZipList
	p := run.params

	nearest := make(map[string]radius.Match)
	for _, c := range run.centers {
		near, err := s.deps.Zips.NearbyZips(ctx, c.Point(), p.RadiusMiles())
		if err != nil {
			return run.empty(tier.ZipList), err
		}
		for zip, d := range near {
			if m, ok := nearest[zip]; !ok || d < m.DistanceMiles {
				nearest[zip] = radius.Match{ID: zip, DistanceMiles: d, Center: c.Label()}
			}
		}
	}
	unlocated, err := s.deps.Zips.Unlocated(ctx)
	if err != nil {
		return run.empty(tier.ZipList), err
	}
	if len(nearest) == 0 && len(unlocated) == 0 {
		return run.empty(tier.ZipList), nil
	}

	zips := make([]string, 0, len(nearest)+len(unlocated))
	for z := range nearest {
		zips = append(zips, z)
	}
	zips = append(zips, unlocated...)
	sort.Strings(zips)

	cands, err := s.deps.Records.Candidates(ctx, run.filters, zips, 0)
	if err != nil {
		return run.empty(tier.ZipList), err
	}
	run.candidates = len(cands)

	hits := make([]hit, 0, len(cands))
	var rest []record.Candidate
	for _, c := range cands {
		if zip, ok := geo.NormalizeZip(c.ZipCode); ok {
			if m, ok := nearest[zip]; ok {
				hits = append(hits, hit{cand: c, distance: m.DistanceMiles, center: m.Center})
				continue
			}
		}
		rest = append(rest, c)
	}
	if len(rest) > 0 {
		more, err := s.measure(ctx, run, rest)
		if err != nil {
			return run.empty(tier.ZipList), err
		}
		hits = append(hits, more...)
	}
	return s.page(ctx, run, hits)
}

// searchGeocode pre-filters candidates in the store and measures each one on
// the application tier.
func (s *Service) searchGeocode(ctx context.Context, run *searchRun) (result.Page, error) {
	run.tier = tier.Geocode

	cands, err := s.deps.Records.Candidates(ctx, run.filters, nil, 0)
	if err != nil {
		return run.empty(tier.Geocode), err
	}
	run.candidates = len(cands)
	if len(cands) == 0 {
		return run.empty(tier.Geocode), nil
	}
	if s.cfg.MaxCandidates > 0 && len(cands) > s.cfg.MaxCandidates {
		s.logger.Warn("radius candidate set exceeds limit",
			zap.Int("candidates", len(cands)),
			zap.Int("max_candidates", s.cfg.MaxCandidates),
		)
	}

	hits, err := s.measure(ctx, run, cands)
	if err != nil {
		return run.empty(tier.Geocode), err
	}
	return s.page(ctx, run, hits)
}

// measure keeps the candidates within the radius of any center, each at its
// smallest distance.
func (s *Service) measure(ctx context.Context, run *searchRun, cands []record.Candidate) ([]hit, error) {
	sets := make([][]radius.Match, len(run.centers))
	for i, c := range run.centers {
		sets[i] = s.deps.Radius.WithinRadius(ctx, c, run.params.RadiusMiles(), cands)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]record.Candidate, len(cands))
	for _, c := range cands {
		byID[c.ID] = c
	}
	merged := radius.Merge(sets...)
	hits := make([]hit, 0, len(merged))
	for _, m := range merged {
		hits = append(hits, hit{cand: byID[m.ID], distance: m.DistanceMiles, center: m.Center})
	}
	return hits, nil
}

// page ranks application-tier hits, cuts the requested page and loads the
// full records for it.
func (s *Service) page(ctx context.Context, run *searchRun, hits []hit) (result.Page, error) {
	p := run.params
	rank(hits, p.SortBy(), p.Direction())
	win := window(hits, p.Offset(), p.PageSize())

	ids := make([]string, len(win))
	for i, h := range win {
		ids[i] = h.cand.ID
	}
	recs, err := s.deps.Records.ByIDs(ctx, ids)
	if err != nil {
		return run.empty(run.tier), err
	}

	total := len(hits)
	items := make([]record.Ranked, 0, len(win))
	for _, h := range win {
		r, ok := recs[h.cand.ID]
		if !ok || !r.Active() {
			// Removed or deactivated since the candidate fetch. Records gone
			// from other pages are still counted until the next search.
			total--
			continue
		}
		items = append(items, record.WithDistance(r, h.distance, h.center))
	}
	return result.New(items, total, p.Page(), p.PageSize(), run.tier), nil
}
