package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// TierNone labels requests that did not run a search.
const TierNone = "none"

// HTTP metrics. Searches are labelled with the tier that answered them so
// latency can be split between the spatial index and application-tier filtering.
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by route and search tier",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status", "tier"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and search tier",
		},
		[]string{"method", "route", "status", "tier"},
	)

	DegradedResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "http_degraded_responses_total",
			Help:      "Search responses served empty after the request timeout",
		},
		[]string{"tier"},
	)
)

var httpMetricsRegistered bool

// RegisterHTTPMetrics registers the HTTP metrics. Must be called once from main.
func RegisterHTTPMetrics() {
	if httpMetricsRegistered {
		return
	}
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(DegradedResponsesTotal)
	httpMetricsRegistered = true
}

type annotationKey struct{}

// annotation is filled in by handlers while the request is served.
type annotation struct {
	tier     string
	degraded bool
}

// AnnotateSearch records which tier answered the search on the request
// context. It is a no-op outside Middleware.
func AnnotateSearch(ctx context.Context, tier string, degraded bool) {
	if a, ok := ctx.Value(annotationKey{}).(*annotation); ok {
		a.tier = tier
		a.degraded = degraded
	}
}

// Middleware records HTTP request duration and count, keyed by chi route
// pattern and the search tier annotated by the handler.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			a := &annotation{tier: TierNone}
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), annotationKey{}, a)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			labels := []string{r.Method, routeLabel(r), strconv.Itoa(status), a.tier}
			HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			if a.degraded {
				DegradedResponsesTotal.WithLabelValues(a.tier).Inc()
			}
		})
	}
}

// routeLabel keeps label cardinality bounded: /v1/records/{id}, never the id.
func routeLabel(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil || rc.RoutePattern() == "" {
		return "unmatched"
	}
	return rc.RoutePattern()
}
