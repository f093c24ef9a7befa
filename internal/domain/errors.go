package domain

import "errors"

var (
	// ErrNotFound signals a missing or inactive directory record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals that the system of record could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidParams signals search parameters that cannot be clamped into shape.
	ErrInvalidParams = errors.New("invalid params")
)

// ErrLocationNotFound signals a definitive "no such place" answer from a geocoder,
// as opposed to a transient failure.
var ErrLocationNotFound = errors.New("location not found")
