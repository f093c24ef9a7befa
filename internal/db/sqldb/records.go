package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/db"
)

// RecordProjection returns the full record column list for alias, ending with
// updated_at (unix seconds), latitude and longitude.
func (s *Store) RecordProjection(alias string) []string {
	cols := db.Qualify(alias, db.RecordColumns)
	updated := "updated_at"
	if alias != "" {
		updated = alias + ".updated_at"
	}
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	lat, lon := "NULL", "NULL"
	if s.latExpr != "" {
		lat = strings.ReplaceAll(s.latExpr, "%s", prefix)
		lon = strings.ReplaceAll(s.lonExpr, "%s", prefix)
	}
	return append(cols, s.dialect.Epoch(updated), lat, lon)
}

// ScanRecord scans a RecordProjection row followed by extra destinations.
func ScanRecord(sc Scanner, r *db.RecordRow, extra ...any) error {
	var lat, lon sql.NullFloat64
	dest := []any{
		&r.ID, &r.FirstName, &r.LastInitial, &r.Profession, &r.Office,
		&r.City, &r.State, &r.ZipCode, &r.Bio, &r.Skills, &r.Active,
		&r.UpdatedAt, &lat, &lon,
	}
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		return err
	}
	if lat.Valid && lon.Valid {
		la, lo := lat.Float64, lon.Float64
		r.Lat, r.Lon = &la, &lo
	}
	return nil
}

// GetRecord loads one record regardless of its active flag.
func (s *Store) GetRecord(ctx context.Context, id string) (db.RecordRow, error) {
	q := db.Select(s.RecordProjection("")...).From(db.TableRecords).Where("id = ?", id)

	var r db.RecordRow
	if err := ScanRecord(s.queryRow(ctx, q), &r); err != nil {
		if notFound(err) {
			return db.RecordRow{}, db.ErrKeyNotFound
		}
		return db.RecordRow{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return r, nil
}

// ListRecords returns one page of active records plus the total match count.
func (s *Store) ListRecords(ctx context.Context, lq *db.ListQuery) (*db.ListResult, error) {
	base := db.Select(s.RecordProjection("")...).
		From(db.TableRecords).
		Where("active = ?", true)
	db.ApplyFilters(base, lq.Filters, "")

	total, err := s.count(ctx, base)
	if err != nil {
		return nil, err
	}
	if total == 0 || lq.Offset >= total {
		return &db.ListResult{Total: total, Rows: []db.RecordRow{}}, nil
	}

	base.OrderBy(db.OrderTerms(lq.Sort, "")...).Limit(lq.Limit).Offset(lq.Offset)
	rows, err := s.query(ctx, base)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := make([]db.RecordRow, 0, lq.Limit)
	for rows.Next() {
		var r db.RecordRow
		if err := ScanRecord(rows, &r); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return &db.ListResult{Total: total, Rows: out}, nil
}

// Candidates returns the slim projection of active records matching the query.
func (s *Store) Candidates(ctx context.Context, cq *db.CandidateQuery) ([]db.CandidateRow, error) {
	q := db.Select(db.CandidateColumns...).
		From(db.TableRecords).
		Where("active = ?", true)
	db.ApplyFilters(q, cq.Filters, "")
	if cq.Zip5In != nil {
		q.WhereIn("substr(zip_code, 1, 5)", cq.Zip5In)
	}
	q.OrderBy("id")
	if cq.Limit > 0 {
		q.Limit(cq.Limit)
	}

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []db.CandidateRow
	for rows.Next() {
		var c db.CandidateRow
		if err := rows.Scan(&c.ID, &c.ZipCode, &c.FirstName, &c.LastInitial, &c.Profession, &c.City, &c.State); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// RecordsByIDs loads records by id. Missing ids are skipped; order is unspecified.
func (s *Store) RecordsByIDs(ctx context.Context, ids []string) ([]db.RecordRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := db.Select(s.RecordProjection("")...).From(db.TableRecords).WhereIn("id", ids)

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := make([]db.RecordRow, 0, len(ids))
	for rows.Next() {
		var r db.RecordRow
		if err := ScanRecord(rows, &r); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// UpsertRecords inserts or replaces records in one transaction. A zero
// UpdatedAt is stamped with the store clock.
func (s *Store) UpsertRecords(ctx context.Context, rows []db.RecordRow) error {
	if len(rows) == 0 {
		return nil
	}
	text := s.dialect.Rebind(`INSERT INTO directory_records
		(id, first_name, last_initial, profession, office, city, state, zip_code, bio, skills, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ` + s.dialect.EpochParam() + `)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_initial = excluded.last_initial,
			profession = excluded.profession,
			office = excluded.office,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			bio = excluded.bio,
			skills = excluded.skills,
			active = excluded.active,
			updated_at = excluded.updated_at`)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, text)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		updated := r.UpdatedAt
		if updated == 0 {
			updated = s.now().Unix()
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.FirstName, r.LastInitial, r.Profession, r.Office,
			r.City, r.State, r.ZipCode, r.Bio, r.Skills, r.Active, updated,
		); err != nil {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("record %s: %w", r.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// DeactivateRecord soft-deletes a record.
func (s *Store) DeactivateRecord(ctx context.Context, id string) error {
	res, err := s.exec(ctx,
		`UPDATE directory_records SET active = ?, updated_at = `+s.dialect.EpochParam()+` WHERE id = ?`,
		false, s.now().Unix(), id)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}
