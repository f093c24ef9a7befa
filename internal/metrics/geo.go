package metrics

import "github.com/prometheus/client_golang/prometheus"

// Geocoding and search Prometheus metrics.
var (
	GeocoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "geocoder_requests_total",
			Help:      "Total number of outbound geocoder requests",
		},
		[]string{"provider", "status"}, // "found" / "not_found" / "error"
	)

	GeocoderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "geocoder_request_duration_seconds",
			Help:      "Outbound geocoder request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	GeocodeResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "geocode_resolutions_total",
			Help:      "Coordinate resolutions by input kind and producing tier",
		},
		[]string{"kind", "source"}, // kind: zip/city; source: cache/lookup/prefix/none
	)

	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "geocode_cache_total",
			Help:      "Zip coordinate cache hits, misses and known-missing hits",
		},
		[]string{"result"}, // "hit" / "miss" / "negative"
	)

	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "search_total",
			Help:      "Searches by execution tier",
		},
		[]string{"tier"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds by execution tier",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"tier"},
	)
)

var geoMetricsRegistered bool

// RegisterGeoMetrics registers geocoding and search metrics. Must be called once from main.
func RegisterGeoMetrics() {
	if geoMetricsRegistered {
		return
	}
	prometheus.MustRegister(GeocoderRequestsTotal)
	prometheus.MustRegister(GeocoderRequestDuration)
	prometheus.MustRegister(GeocodeResolutionsTotal)
	prometheus.MustRegister(GeocodeCacheTotal)
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchDuration)
	geoMetricsRegistered = true
}
