package record

// Ranked is a record as it appears in a result page.
type Ranked struct {
	Record Record
	// DistanceMiles is set only when a radius search produced the record.
	DistanceMiles *float64
	// Center labels the nearest search center (diagnostics only).
	Center string
}

// NewRanked wraps a record without distance information.
func NewRanked(r Record) Ranked {
	return Ranked{Record: r}
}

// WithDistance wraps a record with the distance to its nearest center.
func WithDistance(r Record, miles float64, center string) Ranked {
	d := miles
	return Ranked{Record: r, DistanceMiles: &d, Center: center}
}
