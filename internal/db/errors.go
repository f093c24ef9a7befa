package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound  = errors.New("db: key not found")
	ErrNotSupported = errors.New("db: operation not supported by this store")
)

// Op names used for error context.
const (
	OpSelect  = "SELECT"
	OpCount   = "COUNT"
	OpUpsert  = "UPSERT"
	OpUpdate  = "UPDATE"
	OpMigrate = "MIGRATE"
	OpProbe   = "PROBE"
	OpSpatial = "SPATIAL"
	OpDDL     = "DDL"
	OpGet     = "GET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
