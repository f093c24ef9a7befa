package result

import (
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/tier"
)

func TestNew(t *testing.T) {
	items := []record.Ranked{
		record.NewRanked(record.Reconstruct(record.Attrs{ID: "a", FirstName: "A"})),
	}
	p := New(items, 41, 2, 20, tier.Spatial)

	if len(p.Items()) != 1 {
		t.Errorf("Items() len = %d", len(p.Items()))
	}
	if p.Total() != 41 {
		t.Errorf("Total() = %d", p.Total())
	}
	if p.TotalPages() != 3 {
		t.Errorf("TotalPages() = %d, want 3", p.TotalPages())
	}
	if p.Page() != 2 || p.PageSize() != 20 {
		t.Errorf("Page()/PageSize() = %d/%d", p.Page(), p.PageSize())
	}
	if p.Tier() != tier.Spatial {
		t.Errorf("Tier() = %q", p.Tier())
	}
	if p.Degraded() {
		t.Error("Degraded() = true")
	}
}

func TestEmpty_Degrade(t *testing.T) {
	p := Empty(1, 20, tier.Geocode).Degrade()
	if p.Items() == nil || len(p.Items()) != 0 {
		t.Errorf("Items() = %v, want empty non-nil", p.Items())
	}
	if p.TotalPages() != 0 {
		t.Errorf("TotalPages() = %d", p.TotalPages())
	}
	if !p.Degraded() {
		t.Error("Degraded() = false")
	}
}

func TestTotalPages_Exact(t *testing.T) {
	p := New(nil, 40, 1, 20, tier.Exact)
	if p.TotalPages() != 2 {
		t.Errorf("TotalPages() = %d, want 2", p.TotalPages())
	}
}
