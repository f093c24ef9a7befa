package spatial

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/search/center"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
)

type mockSpatialStore struct {
	res  *db.SpatialResult
	err  error
	last *db.SpatialQuery
}

func (m *mockSpatialStore) SpatialSearch(_ context.Context, q *db.SpatialQuery) (*db.SpatialResult, error) {
	m.last = q
	return m.res, m.err
}

type mockZipStore struct {
	rows      []db.ZipRow
	unlocated []string
	err       error
	box       geo.Box
}

func (m *mockZipStore) ZipsInBox(_ context.Context, box geo.Box) ([]db.ZipRow, error) {
	m.box = box
	return m.rows, m.err
}

func (m *mockZipStore) UnlocatedZips(context.Context) ([]string, error) {
	return m.unlocated, m.err
}

func mustCenter(t *testing.T, label string, lat, lon float64) center.Center {
	t.Helper()
	c, err := center.New(label, geo.Resolution{Point: geo.Point{Lat: lat, Lon: lon}, Precision: geo.Exact})
	if err != nil {
		t.Fatalf("center: %v", err)
	}
	return c
}

func TestSearch_MapsHits(t *testing.T) {
	ms := &mockSpatialStore{res: &db.SpatialResult{
		Total: 7,
		Hits: []db.SpatialHit{
			{Row: db.RecordRow{ID: "a", FirstName: "Ann"}, DistanceMiles: 1.5, CenterIndex: 1},
			{Row: db.RecordRow{ID: "b", FirstName: "Bob"}, DistanceMiles: 2.5, CenterIndex: 0},
		},
	}}
	got, total, err := New(ms).Search(context.Background(), Query{
		Centers: []center.Center{
			mustCenter(t, "60614", 41.92, -87.65),
			mustCenter(t, "Chicago, IL", 41.88, -87.63),
		},
		RadiusMiles: 10,
		SortBy:      params.SortDistance,
		Dir:         params.Desc,
		Offset:      0,
		Limit:       2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || len(got) != 2 {
		t.Fatalf("total=%d len=%d", total, len(got))
	}
	if got[0].Center != "Chicago, IL" || *got[0].DistanceMiles != 1.5 {
		t.Errorf("first hit = %+v", got[0])
	}
	if got[1].Center != "60614" || got[1].Record.ID() != "b" {
		t.Errorf("second hit = %+v", got[1])
	}

	q := ms.last
	if len(q.Centers) != 2 || q.Centers[1].Lat != 41.88 || q.Centers[1].Lon != -87.63 {
		t.Errorf("centers = %+v", q.Centers)
	}
	if q.Sort != (db.Sort{By: "distance", Desc: true}) || q.Limit != 2 || q.RadiusMiles != 10 {
		t.Errorf("query = %+v", q)
	}
}

func TestSearch_Error(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := New(&mockSpatialStore{err: boom}).Search(context.Background(), Query{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestNearbyZips(t *testing.T) {
	lincolnPark := geo.Point{Lat: 41.9227, Lon: -87.6533}
	ms := &mockZipStore{rows: []db.ZipRow{
		{Zip: "60614", Found: true, Lat: 41.9227, Lon: -87.6533},
		{Zip: "60647", Found: true, Lat: 41.9210, Lon: -87.7016},
		// Inside the box but past the radius (box corner).
		{Zip: "corner", Found: true, Lat: 41.9227 + 0.14, Lon: -87.6533 + 0.19},
	}}

	got, err := NewZipIndex(ms).NearbyZips(context.Background(), lincolnPark, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got["60614"] != 0 {
		t.Errorf("distance to self = %v", got["60614"])
	}
	if d := got["60647"]; d < 2.3 || d > 2.6 {
		t.Errorf("60614 -> 60647 = %v", d)
	}
	if !ms.box.Contains(lincolnPark) {
		t.Error("query box must contain the center")
	}
}

func TestNearbyZips_Error(t *testing.T) {
	_, err := NewZipIndex(&mockZipStore{err: errors.New("down")}).NearbyZips(context.Background(), geo.Point{}, 5)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUnlocated(t *testing.T) {
	idx := NewZipIndex(&mockZipStore{unlocated: []string{"606", "60699"}})
	got, err := idx.Unlocated(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "606" || got[1] != "60699" {
		t.Errorf("got %v", got)
	}

	if _, err := NewZipIndex(&mockZipStore{err: errors.New("down")}).Unlocated(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
