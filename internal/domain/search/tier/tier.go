package tier

// Tier is the strategy the orchestrator used to answer a search.
type Tier string

// Search tiers, from most to least capable.
const (
	// Spatial runs a single indexed distance query in the store.
	Spatial Tier = "spatial"
	// ZipList expands centers into nearby known zips and filters by zip membership.
	ZipList Tier = "zip_list"
	// Geocode pre-filters candidates and resolves their zips one by one.
	Geocode Tier = "geocode"
	// Exact applies plain location predicates without a radius.
	Exact Tier = "exact"
	// Empty short-circuits with no store access.
	Empty Tier = "empty"
)

// IsValid checks if the tier is one of the supported values.
func (t Tier) IsValid() bool {
	return t == Spatial || t == ZipList || t == Geocode || t == Exact || t == Empty
}

// IsRadius reports whether results of this tier carry distances.
func (t Tier) IsRadius() bool {
	return t == Spatial || t == ZipList || t == Geocode
}
