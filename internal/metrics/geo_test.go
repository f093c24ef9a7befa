package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterGeoMetrics_Idempotent(t *testing.T) {
	RegisterGeoMetrics()
	RegisterGeoMetrics()

	SearchTotal.WithLabelValues("geocode").Inc()
	if got := testutil.ToFloat64(SearchTotal.WithLabelValues("geocode")); got < 1 {
		t.Errorf("expected search_total >= 1, got %f", got)
	}
}

func TestGeocodeCounters(t *testing.T) {
	before := testutil.ToFloat64(GeocodeCacheTotal.WithLabelValues("negative"))
	GeocodeCacheTotal.WithLabelValues("negative").Inc()
	if got := testutil.ToFloat64(GeocodeCacheTotal.WithLabelValues("negative")); got != before+1 {
		t.Errorf("expected %f, got %f", before+1, got)
	}

	GeocoderRequestDuration.WithLabelValues("zippopotam").Observe(0.2)
	if testutil.CollectAndCount(GeocoderRequestDuration) == 0 {
		t.Error("expected geocoder duration observations")
	}
}
