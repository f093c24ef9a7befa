package geo

// Precision tells how far a resolved coordinate can be trusted.
type Precision string

const (
	// Exact comes from the cache or an authoritative lookup.
	Exact Precision = "exact"
	// Approximate comes from the regional prefix table (tens of miles of error).
	Approximate Precision = "approximate"
)

// Source names the resolver tier that produced a coordinate.
type Source string

const (
	SourceCache  Source = "cache"
	SourceLookup Source = "lookup"
	SourcePrefix Source = "prefix"
)

// Resolution is a resolved location.
type Resolution struct {
	Point     Point
	Precision Precision
	Source    Source
}

// CacheEntry is a cached zip coordinate. Found is false for a zip the lookup
// service definitively does not know.
type CacheEntry struct {
	Point Point
	Found bool
}
