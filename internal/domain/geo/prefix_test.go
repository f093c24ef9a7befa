package geo

import "testing"

func TestPrefixTable_SortedNoOverlap(t *testing.T) {
	for i, r := range prefixTable {
		if r.lo > r.hi {
			t.Errorf("range %d: lo %d > hi %d", i, r.lo, r.hi)
		}
		if !r.center.Valid() {
			t.Errorf("range %d: invalid center %v", i, r.center)
		}
		if i > 0 && prefixTable[i-1].hi >= r.lo {
			t.Errorf("range %d overlaps previous (%d >= %d)", i, prefixTable[i-1].hi, r.lo)
		}
	}
}

func TestPrefixCenter(t *testing.T) {
	tests := []struct {
		prefix     string
		wantRegion string
		wantOK     bool
	}{
		{"606", "IL-CHI", true},
		{"902", "CA-LA", true},
		{"100", "NY-NYC", true},
		{"005", "NY-LI", true},
		{"969", "GU", true},
		{"999", "AK", true},
		{"000", "", false},
		{"004", "", false},
		{"095", "", false},
		{"340", "", false},
		{"964", "", false},
		{"60", "", false},
		{"6x6", "", false},
	}
	for _, tt := range tests {
		_, region, ok := PrefixCenter(tt.prefix)
		if ok != tt.wantOK || region != tt.wantRegion {
			t.Errorf("PrefixCenter(%q) = (%q, %v), want (%q, %v)", tt.prefix, region, ok, tt.wantRegion, tt.wantOK)
		}
	}
}

func TestPrefixCenter_NearActualZip(t *testing.T) {
	p, _, ok := PrefixCenter("606")
	if !ok {
		t.Fatal("expected 606 to resolve")
	}
	if d := DistanceMiles(p, lincolnPark); d > 50 {
		t.Errorf("606 center is %.1f miles from 60614, want < 50", d)
	}
}
