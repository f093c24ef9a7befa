package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
)

// store is the consumer interface for directory records (ISP).
type store interface {
	GetRecord(ctx context.Context, id string) (db.RecordRow, error)
	ListRecords(ctx context.Context, q *db.ListQuery) (*db.ListResult, error)
	Candidates(ctx context.Context, q *db.CandidateQuery) ([]db.CandidateRow, error)
	RecordsByIDs(ctx context.Context, ids []string) ([]db.RecordRow, error)
}

// ListQuery selects one page of active records.
type ListQuery struct {
	Filters filter.Expression
	SortBy  params.SortBy
	Dir     params.Direction
	Offset  int
	Limit   int
}

// Repo implements the record-reading contracts of the search and directory use cases.
type Repo struct {
	store store
}

// New creates a directory repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a record by id regardless of its active flag.
func (r *Repo) Get(ctx context.Context, id string) (record.Record, error) {
	row, err := r.store.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return record.Record{}, domain.ErrNotFound
		}
		return record.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return FromRow(row), nil
}

// List returns a page of active records and the total match count.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]record.Record, int, error) {
	res, err := r.store.ListRecords(ctx, &db.ListQuery{
		Filters: q.Filters,
		Sort:    SortFor(q.SortBy, q.Dir),
		Offset:  q.Offset,
		Limit:   q.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return fromRows(res.Rows), res.Total, nil
}

// Candidates returns active records matching filters. A non-nil zip5In
// restricts the result to records whose zip starts with one of the listed
// five-digit codes (an empty list matches nothing). limit 0 means unbounded.
func (r *Repo) Candidates(
	ctx context.Context, filters filter.Expression, zip5In []string, limit int,
) ([]record.Candidate, error) {
	rows, err := r.store.Candidates(ctx, &db.CandidateQuery{
		Filters: filters,
		Zip5In:  zip5In,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}
	out := make([]record.Candidate, len(rows))
	for i, c := range rows {
		out[i] = record.Candidate{
			ID:          c.ID,
			ZipCode:     c.ZipCode,
			FirstName:   c.FirstName,
			LastInitial: c.LastInitial,
			Profession:  c.Profession,
			City:        c.City,
			State:       c.State,
		}
	}
	return out, nil
}

// ByIDs loads full records keyed by id. Missing ids are absent from the map.
func (r *Repo) ByIDs(ctx context.Context, ids []string) (map[string]record.Record, error) {
	if len(ids) == 0 {
		return map[string]record.Record{}, nil
	}
	rows, err := r.store.RecordsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("records by ids: %w", err)
	}
	out := make(map[string]record.Record, len(rows))
	for _, row := range rows {
		out[row.ID] = FromRow(row)
	}
	return out, nil
}

// SortFor maps a search sort onto the store's whitelisted sort keys.
func SortFor(by params.SortBy, dir params.Direction) db.Sort {
	return db.Sort{By: string(by), Desc: dir == params.Desc}
}
