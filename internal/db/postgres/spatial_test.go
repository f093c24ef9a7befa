package postgres

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

func TestBuildSpatialQuery_SingleCenter(t *testing.T) {
	q := BuildSpatialQuery([]string{"r.id"}, &db.SpatialQuery{
		Centers:     []db.SpatialCenter{{Label: "60614", Lat: 41.9, Lon: -87.6}},
		RadiusMiles: 10,
		Sort:        db.Sort{By: "name"},
		Limit:       20,
	})
	text, args := q.Build()

	if strings.Contains(text, "DISTINCT ON") {
		t.Error("single center must not deduplicate")
	}
	if !strings.Contains(text, "FROM hits n JOIN directory_records r ON r.id = n.id") {
		t.Errorf("unexpected source: %s", text)
	}
	if !strings.Contains(text, "ORDER BY FLOOR(n.distance_miles / 0.1) ASC, LOWER(r.first_name) ASC") {
		t.Errorf("unexpected order: %s", text)
	}
	if !strings.HasSuffix(text, "r.id ASC LIMIT 20") {
		t.Errorf("unexpected tail: %s", text)
	}

	// lon, lat (distance), center index, active, lon, lat, meters (DWithin).
	if len(args) != 7 {
		t.Fatalf("args = %v", args)
	}
	if args[0] != -87.6 || args[1] != 41.9 || args[2] != 0 || args[3] != true {
		t.Errorf("unexpected leading args %v", args[:4])
	}
	if m, ok := args[6].(float64); !ok || m < 16093 || m > 16094 {
		t.Errorf("radius meters = %v", args[6])
	}
}

func TestBuildSpatialQuery_MultiCenterDedup(t *testing.T) {
	prof, _ := filter.NewAnyOf(filter.Profession, "Nurse")
	expr, _ := filter.NewExpression(prof)

	q := BuildSpatialQuery([]string{"r.id"}, &db.SpatialQuery{
		Centers: []db.SpatialCenter{
			{Label: "60614", Lat: 41.9, Lon: -87.6},
			{Label: "90210", Lat: 34.1, Lon: -118.4},
		},
		RadiusMiles: 5,
		Filters:     expr,
		Sort:        db.Sort{By: "distance", Desc: true},
		Limit:       10,
		Offset:      30,
	})
	text, args := q.BuildFor(db.Postgres{})

	if strings.Count(text, "ST_DWithin(") != 2 {
		t.Errorf("expected one branch per center: %s", text)
	}
	if !strings.Contains(text, " UNION ALL ") {
		t.Error("branches must be combined with UNION ALL")
	}
	if !strings.Contains(text, "nearest AS (SELECT DISTINCT ON (id) id, distance_miles, center_idx FROM hits ORDER BY id, distance_miles, center_idx)") {
		t.Errorf("missing dedup step: %s", text)
	}
	if !strings.Contains(text, "ORDER BY FLOOR(n.distance_miles / 0.1) DESC, n.distance_miles DESC, r.id ASC") {
		t.Errorf("unexpected distance order: %s", text)
	}
	if strings.Count(text, "LOWER(b.profession) IN (") != 2 {
		t.Errorf("filters must apply to every branch: %s", text)
	}
	if strings.Contains(text, "?") {
		t.Errorf("placeholders not rebound: %s", text)
	}
	if !strings.HasSuffix(text, "LIMIT 10 OFFSET 30") {
		t.Errorf("unexpected paging: %s", text)
	}
	// Two branches of 8 args each (7 spatial + 1 filter value).
	if len(args) != 16 {
		t.Errorf("len(args) = %d, want 16", len(args))
	}
}

func TestBuildSpatialQuery_Count(t *testing.T) {
	q := BuildSpatialQuery([]string{"r.id"}, &db.SpatialQuery{
		Centers:     []db.SpatialCenter{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}},
		RadiusMiles: 1,
		Limit:       5,
		Offset:      5,
	})
	text, _ := q.Count().Build()
	if !strings.HasPrefix(text, "WITH hits AS (") {
		t.Errorf("CTEs must stay on the outer count: %s", text)
	}
	if !strings.Contains(text, "SELECT COUNT(*) FROM (SELECT r.id") {
		t.Errorf("unexpected count: %s", text)
	}
	if strings.Contains(text, "LIMIT") || strings.Contains(text, "FLOOR(") {
		t.Errorf("count must drop order and paging: %s", text)
	}
}

func TestGeoPointIndex(t *testing.T) {
	want := "CREATE INDEX IF NOT EXISTS ix_directory_records_geo_point ON directory_records USING GIST (geo_point)"
	if got := GeoPointIndex().DDL(); got != want {
		t.Errorf("DDL() = %q, want %q", got, want)
	}
}
