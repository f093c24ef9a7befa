package postgres

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// GeoPointIndex is the GiST index radius queries depend on.
func GeoPointIndex() *db.IndexDefinition {
	return db.NewIndex(spatialIndex).
		On(db.TableRecords).
		Using(db.IndexGiST).
		Column(geoColumn).
		MustBuild()
}

// EnsureGeoColumn installs PostGIS if permitted and adds the geography column.
func (s *Store) EnsureGeoColumn(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s geography(Point, 4326)`,
			db.TableRecords, geoColumn),
	}
	for _, stmt := range stmts {
		if _, err := s.DB().ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpDDL, Err: err}
		}
	}
	s.SetPointColumns(latExpr, lonExpr)
	return nil
}

// EnsureSpatialIndex creates the GiST index on the geography column.
func (s *Store) EnsureSpatialIndex(ctx context.Context) error {
	if _, err := s.DB().ExecContext(ctx, GeoPointIndex().DDL()); err != nil {
		return &db.Error{Op: db.OpDDL, Err: err}
	}
	return nil
}

// ZipsWithoutPoint lists distinct raw zip values of records still lacking a point.
func (s *Store) ZipsWithoutPoint(ctx context.Context) ([]string, error) {
	q := db.Select("DISTINCT zip_code").
		From(db.TableRecords).
		Where("zip_code <> ?", "").
		Where(geoColumn + " IS NULL").
		OrderBy("zip_code")

	text, args := q.BuildFor(s.Dialect())
	rows, err := s.DB().QueryContext(ctx, text, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var z string
		if err := rows.Scan(&z); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// SetPointForZip writes p to every record with the raw zip value that has no
// point yet, and returns the number of records updated.
func (s *Store) SetPointForZip(ctx context.Context, zip string, p geo.Point) (int64, error) {
	res, err := s.DB().ExecContext(ctx, s.Dialect().Rebind(`UPDATE directory_records
		SET geo_point = `+centerGeography+`
		WHERE zip_code = ? AND geo_point IS NULL`), p.Lon, p.Lat, zip)
	if err != nil {
		return 0, &db.Error{Op: db.OpUpdate, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &db.Error{Op: db.OpUpdate, Err: err}
	}
	return n, nil
}
