package center

import (
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

func TestNew(t *testing.T) {
	r := geo.Resolution{Point: geo.Point{Lat: 41.9, Lon: -87.6}, Precision: geo.Approximate, Source: geo.SourcePrefix}
	c, err := New("60614", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Label() != "60614" || c.Precision() != geo.Approximate || c.Point() != r.Point {
		t.Errorf("unexpected center %+v", c)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(" ", geo.Resolution{}); err == nil {
		t.Error("expected error for empty label")
	}
	if _, err := New("x", geo.Resolution{Point: geo.Point{Lat: 100}}); err == nil {
		t.Error("expected error for invalid point")
	}
}

func TestCityLabel(t *testing.T) {
	if got := CityLabel(" Chicago ", "il"); got != "Chicago, IL" {
		t.Errorf("CityLabel = %q", got)
	}
	if got := CityLabel("Springfield", ""); got != "Springfield" {
		t.Errorf("CityLabel = %q", got)
	}
}
