package sqldb

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

var zipColumns = []string{"zip", "found", "latitude", "longitude"}

func (s *Store) zipProjection() []string {
	return append(append([]string{}, zipColumns...), s.dialect.Epoch("updated_at"))
}

// GetZip returns a stored zip coordinate or db.ErrKeyNotFound.
func (s *Store) GetZip(ctx context.Context, zip string) (db.ZipRow, error) {
	q := db.Select(s.zipProjection()...).From(db.TableZips).Where("zip = ?", zip)

	var z db.ZipRow
	if err := s.queryRow(ctx, q).Scan(&z.Zip, &z.Found, &z.Lat, &z.Lon, &z.UpdatedAt); err != nil {
		if notFound(err) {
			return db.ZipRow{}, db.ErrKeyNotFound
		}
		return db.ZipRow{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return z, nil
}

// PutZip upserts a zip coordinate (or a known-missing marker).
func (s *Store) PutZip(ctx context.Context, z db.ZipRow) error {
	updated := z.UpdatedAt
	if updated == 0 {
		updated = s.now().Unix()
	}
	_, err := s.exec(ctx, `INSERT INTO zip_coordinates (zip, found, latitude, longitude, updated_at)
		VALUES (?, ?, ?, ?, `+s.dialect.EpochParam()+`)
		ON CONFLICT (zip) DO UPDATE SET
			found = excluded.found,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at`,
		z.Zip, z.Found, z.Lat, z.Lon, updated)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// ZipsInBox lists found zips whose coordinate lies inside box.
func (s *Store) ZipsInBox(ctx context.Context, box geo.Box) ([]db.ZipRow, error) {
	q := db.Select(s.zipProjection()...).
		From(db.TableZips).
		Where("found = ?", true).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLon, box.MaxLon)

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []db.ZipRow
	for rows.Next() {
		var z db.ZipRow
		if err := rows.Scan(&z.Zip, &z.Found, &z.Lat, &z.Lon, &z.UpdatedAt); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// DistinctZips lists distinct raw zip values of active records.
func (s *Store) DistinctZips(ctx context.Context) ([]string, error) {
	q := db.Select("DISTINCT zip_code").
		From(db.TableRecords).
		Where("active = ?", true).
		Where("zip_code <> ?", "").
		OrderBy("zip_code")
	return s.scanStrings(ctx, q)
}

// ZipCoverage reports whether every well-formed active zip has a row in
// zip_coordinates (found or known-missing). An empty zip table is never covered.
func (s *Store) ZipCoverage(ctx context.Context) (bool, error) {
	raw, err := s.DistinctZips(ctx)
	if err != nil {
		return false, &db.Error{Op: db.OpProbe, Err: err}
	}
	known, err := s.scanStrings(ctx, db.Select("zip").From(db.TableZips))
	if err != nil {
		return false, &db.Error{Op: db.OpProbe, Err: err}
	}
	if len(known) == 0 {
		return false, nil
	}

	set := make(map[string]bool, len(known))
	for _, z := range known {
		set[z] = true
	}
	for _, r := range raw {
		zip, ok := geo.NormalizeZip(r)
		if !ok {
			continue
		}
		if !set[zip] {
			return false, nil
		}
	}
	return true, nil
}

// UnlocatedZips lists the five-character keys (as matched by
// CandidateQuery.Zip5In) of active record zips that have no found coordinate:
// malformed values, known-missing zips and zips absent from zip_coordinates.
// Radius searches over the zip table resolve these on the application tier.
func (s *Store) UnlocatedZips(ctx context.Context) ([]string, error) {
	raw, err := s.DistinctZips(ctx)
	if err != nil {
		return nil, err
	}
	found, err := s.scanStrings(ctx, db.Select("zip").From(db.TableZips).Where("found = ?", true))
	if err != nil {
		return nil, err
	}
	located := make(map[string]bool, len(found))
	for _, z := range found {
		located[z] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range raw {
		if zip, ok := geo.NormalizeZip(r); ok && located[zip] {
			continue
		}
		key := r
		if len(key) > 5 {
			key = key[:5]
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out, nil
}

func (s *Store) scanStrings(ctx context.Context, q *db.Query) ([]string, error) {
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}
