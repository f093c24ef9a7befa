package db

import "github.com/kailas-cloud/talentdex/internal/domain/search/filter"

// SpatialCenter is one radius origin.
type SpatialCenter struct {
	Label string
	Lat   float64
	Lon   float64
}

// SpatialQuery is the input for an indexed radius search.
type SpatialQuery struct {
	Centers     []SpatialCenter
	RadiusMiles float64
	Filters     filter.Expression
	Sort        Sort
	Offset      int
	Limit       int
}

// SpatialResult is the output of a spatial search. Total counts distinct
// records within radius of any center.
type SpatialResult struct {
	Total int
	Hits  []SpatialHit
}

// SpatialHit is a record with its distance to the nearest center.
type SpatialHit struct {
	Row           RecordRow
	DistanceMiles float64
	CenterIndex   int
}
