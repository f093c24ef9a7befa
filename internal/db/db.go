package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

// Store is the relational facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	RecordStore
	ZipStore
	Dialect() Dialect
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordRow is a directory_records row.
type RecordRow struct {
	ID          string
	FirstName   string
	LastInitial string
	Profession  string
	Office      string
	City        string
	State       string
	ZipCode     string
	Bio         string
	Skills      string // comma-joined
	Active      bool
	UpdatedAt   int64 // unix seconds
	Lat, Lon    *float64
}

// CandidateRow is the slim projection used by application-tier radius filtering:
// enough to resolve a zip and to rank without loading bios.
type CandidateRow struct {
	ID          string
	ZipCode     string
	FirstName   string
	LastInitial string
	Profession  string
	City        string
	State       string
}

// Sort is a whitelisted ordering request.
type Sort struct {
	By   string // name | location | profession | distance
	Desc bool
}

// ListQuery selects active records by predicates with store-side paging.
type ListQuery struct {
	Filters filter.Expression
	Sort    Sort
	Offset  int
	Limit   int
}

// ListResult is a page of rows plus the total match count.
type ListResult struct {
	Total int
	Rows  []RecordRow
}

// CandidateQuery selects active candidates for radius filtering.
// Zip5In, when non-empty, restricts to records whose first five zip characters
// are in the list.
type CandidateQuery struct {
	Filters filter.Expression
	Zip5In  []string
	Limit   int // 0 = unbounded
}

// RecordStore provides directory record access.
type RecordStore interface {
	GetRecord(ctx context.Context, id string) (RecordRow, error)
	ListRecords(ctx context.Context, q *ListQuery) (*ListResult, error)
	Candidates(ctx context.Context, q *CandidateQuery) ([]CandidateRow, error)
	RecordsByIDs(ctx context.Context, ids []string) ([]RecordRow, error)
	UpsertRecords(ctx context.Context, rows []RecordRow) error
	DeactivateRecord(ctx context.Context, id string) error
}

// ZipRow is a zip_coordinates row. Found=false marks a known-missing zip.
type ZipRow struct {
	Zip       string
	Found     bool
	Lat, Lon  float64
	UpdatedAt int64
}

// ZipStore provides the persistent zip coordinate table.
type ZipStore interface {
	GetZip(ctx context.Context, zip string) (ZipRow, error)
	PutZip(ctx context.Context, row ZipRow) error
	ZipsInBox(ctx context.Context, box geo.Box) ([]ZipRow, error)
	DistinctZips(ctx context.Context) ([]string, error)
	ZipCoverage(ctx context.Context) (covered bool, err error)
	UnlocatedZips(ctx context.Context) ([]string, error)
}

// KVStore provides simple key-value operations. Get returns ErrKeyNotFound
// for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SpatialStore is implemented by stores with an indexed geography column.
type SpatialStore interface {
	SpatialSearch(ctx context.Context, q *SpatialQuery) (*SpatialResult, error)
	ProbeSpatial(ctx context.Context) (bool, error)
}

// GeoWriter maintains the precomputed point column.
type GeoWriter interface {
	EnsureGeoColumn(ctx context.Context) error
	EnsureSpatialIndex(ctx context.Context) error
	ZipsWithoutPoint(ctx context.Context) ([]string, error)
	SetPointForZip(ctx context.Context, zip string, p geo.Point) (int64, error)
}
