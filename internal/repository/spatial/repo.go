package spatial

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/center"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
	"github.com/kailas-cloud/talentdex/internal/repository/directory"
)

// store is the consumer interface for indexed radius search (ISP).
type store interface {
	SpatialSearch(ctx context.Context, q *db.SpatialQuery) (*db.SpatialResult, error)
}

// Query is one indexed radius search.
type Query struct {
	Centers     []center.Center
	RadiusMiles float64
	Filters     filter.Expression
	SortBy      params.SortBy
	Dir         params.Direction
	Offset      int
	Limit       int
}

// Repo runs radius searches in the store.
type Repo struct {
	store store
}

// New creates a spatial repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search returns one ranked page and the deduplicated total.
func (r *Repo) Search(ctx context.Context, q Query) ([]record.Ranked, int, error) {
	centers := make([]db.SpatialCenter, len(q.Centers))
	for i, c := range q.Centers {
		p := c.Point()
		centers[i] = db.SpatialCenter{Label: c.Label(), Lat: p.Lat, Lon: p.Lon}
	}

	res, err := r.store.SpatialSearch(ctx, &db.SpatialQuery{
		Centers:     centers,
		RadiusMiles: q.RadiusMiles,
		Filters:     q.Filters,
		Sort:        directory.SortFor(q.SortBy, q.Dir),
		Offset:      q.Offset,
		Limit:       q.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("spatial search: %w", err)
	}

	out := make([]record.Ranked, 0, len(res.Hits))
	for _, h := range res.Hits {
		label := ""
		if h.CenterIndex >= 0 && h.CenterIndex < len(centers) {
			label = centers[h.CenterIndex].Label
		}
		out = append(out, record.WithDistance(directory.FromRow(h.Row), h.DistanceMiles, label))
	}
	return out, res.Total, nil
}
