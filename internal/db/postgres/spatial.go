package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/db/sqldb"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

const centerGeography = "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography"

// ProbeSpatial reports whether indexed radius queries can run: PostGIS is
// installed, the geography column and its GiST index exist, and at least one
// record has a point.
func (s *Store) ProbeSpatial(ctx context.Context) (bool, error) {
	checks := []struct {
		query string
		args  []any
	}{
		{`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'postgis')`, nil},
		{`SELECT EXISTS (SELECT 1 FROM information_schema.columns
			WHERE table_name = $1 AND column_name = $2)`, []any{db.TableRecords, geoColumn}},
		{`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = $1 AND indexname = $2)`,
			[]any{db.TableRecords, spatialIndex}},
	}
	for _, c := range checks {
		ok, err := s.exists(ctx, c.query, c.args...)
		if err != nil || !ok {
			return false, err
		}
	}
	// Only safe to reference geo_point once the column is known to exist.
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM directory_records WHERE geo_point IS NOT NULL)`)
}

// SpatialSearch runs one radius query over all centers. Records within radius
// of several centers appear once, with their minimum distance.
func (s *Store) SpatialSearch(ctx context.Context, q *db.SpatialQuery) (*db.SpatialResult, error) {
	if len(q.Centers) == 0 {
		return &db.SpatialResult{Hits: []db.SpatialHit{}}, nil
	}

	page := BuildSpatialQuery(s.RecordProjection("r"), q)

	total, err := s.countSpatial(ctx, page)
	if err != nil {
		return nil, err
	}
	if total == 0 || q.Offset >= total {
		return &db.SpatialResult{Total: total, Hits: []db.SpatialHit{}}, nil
	}

	text, args := page.BuildFor(s.Dialect())
	rows, err := s.DB().QueryContext(ctx, text, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSpatial, Err: err}
	}
	defer rows.Close()

	hits := make([]db.SpatialHit, 0, q.Limit)
	for rows.Next() {
		var h db.SpatialHit
		if err := sqldb.ScanRecord(rows, &h.Row, &h.DistanceMiles, &h.CenterIndex); err != nil {
			return nil, &db.Error{Op: db.OpSpatial, Err: err}
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSpatial, Err: err}
	}
	return &db.SpatialResult{Total: total, Hits: hits}, nil
}

func (s *Store) countSpatial(ctx context.Context, page *db.Query) (int, error) {
	text, args := page.Count().BuildFor(s.Dialect())
	var n int
	if err := s.DB().QueryRowContext(ctx, text, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpSpatial, Err: fmt.Errorf("count: %w", err)}
	}
	return n, nil
}

// BuildSpatialQuery assembles the paged radius query:
//
//	WITH hits AS (<branch per center> UNION ALL ...),
//	     nearest AS (SELECT DISTINCT ON (id) ... ORDER BY id, distance_miles)
//	SELECT <record>, n.distance_miles, n.center_idx
//	FROM nearest n JOIN directory_records r ON r.id = n.id
//	ORDER BY FLOOR(n.distance_miles / 0.1), <secondary>, r.id
//
// A single center skips the DISTINCT ON step. Each branch is an ST_DWithin
// filter so the GiST index serves it.
func BuildSpatialQuery(projection []string, q *db.SpatialQuery) *db.Query {
	meters := q.RadiusMiles * geo.MetersPerMile

	branches := make([]*db.Query, 0, len(q.Centers))
	for i, c := range q.Centers {
		b := db.Select("b.id").
			Column("ST_Distance(b.geo_point, "+centerGeography+") / "+milesDivisor+" AS distance_miles", c.Lon, c.Lat).
			Column("CAST(? AS INTEGER) AS center_idx", i).
			From(db.TableRecords+" b").
			Where("b.active = ?", true).
			Where("b.geo_point IS NOT NULL").
			Where("ST_DWithin(b.geo_point, "+centerGeography+", ?)", c.Lon, c.Lat, meters)
		db.ApplyFilters(b, q.Filters, "b")
		branches = append(branches, b)
	}

	source := "hits"
	outer := db.Select(projection...).With("hits", branches...)
	if len(q.Centers) > 1 {
		outer.With("nearest", db.Select("id", "distance_miles", "center_idx").
			DistinctOn("id").
			From("hits").
			OrderBy("id", "distance_miles", "center_idx"))
		source = "nearest"
	}

	return outer.
		Column("n.distance_miles").
		Column("n.center_idx").
		From(source + " n").
		Join("JOIN " + db.TableRecords + " r ON r.id = n.id").
		OrderBy(spatialOrder(q.Sort)...).
		Limit(q.Limit).
		Offset(q.Offset)
}

var milesDivisor = strconv.FormatFloat(geo.MetersPerMile, 'f', -1, 64)

// spatialOrder puts the near-distance bucket first. Distance sorts use the
// exact distance inside a bucket; other sorts use the requested key.
func spatialOrder(srt db.Sort) []string {
	bucket := "FLOOR(n.distance_miles / " + strconv.FormatFloat(geo.NearTieMiles, 'f', -1, 64) + ")"
	if srt.By == "distance" {
		dir := " ASC"
		if srt.Desc {
			dir = " DESC"
		}
		return []string{bucket + dir, "n.distance_miles" + dir, "r.id ASC"}
	}
	return append([]string{bucket + " ASC"}, db.OrderTerms(srt, "r")...)
}
