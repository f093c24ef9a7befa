package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
)

// hit is an application-tier radius match carrying the keys ranking needs.
type hit struct {
	cand     record.Candidate
	distance float64
	center   string
}

// rank orders hits the same way the spatial query does: distance bucket
// first, then the requested key, then id. A distance sort applies the
// requested direction to the bucket and the exact distance.
func rank(hits []hit, by params.SortBy, dir params.Direction) {
	desc := dir == params.Desc
	slices.SortStableFunc(hits, func(a, b hit) int {
		c := cmp.Compare(geo.DistanceBucket(a.distance), geo.DistanceBucket(b.distance))
		if by == params.SortDistance {
			c = cmp.Or(c, cmp.Compare(a.distance, b.distance))
			if desc {
				c = -c
			}
			return cmp.Or(c, strings.Compare(a.cand.ID, b.cand.ID))
		}
		if c != 0 {
			return c
		}
		if k := compareKey(a.cand, b.cand, by); k != 0 {
			if desc {
				return -k
			}
			return k
		}
		return strings.Compare(a.cand.ID, b.cand.ID)
	})
}

// compareKey compares the secondary sort key. Unknown keys sort by name.
func compareKey(a, b record.Candidate, by params.SortBy) int {
	switch by {
	case params.SortLocation:
		return cmp.Or(
			strings.Compare(a.State, b.State),
			strings.Compare(strings.ToLower(a.City), strings.ToLower(b.City)),
		)
	case params.SortProfession:
		return strings.Compare(strings.ToLower(a.Profession), strings.ToLower(b.Profession))
	default:
		return cmp.Or(
			strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)),
			strings.Compare(a.LastInitial, b.LastInitial),
		)
	}
}

// window returns the [offset, offset+limit) slice of hits, clamped.
func window(hits []hit, offset, limit int) []hit {
	if offset >= len(hits) {
		return nil
	}
	end := min(offset+limit, len(hits))
	return hits[offset:end]
}
