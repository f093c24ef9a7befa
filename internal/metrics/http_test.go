package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		degraded := r.URL.Query().Get("slow") == "1"
		AnnotateSearch(r.Context(), "zip_list", degraded)
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	r.Get("/v1/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	return r
}

func get(h http.Handler, target string) int {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr.Code
}

func TestMiddleware_SearchTierLabel(t *testing.T) {
	h := newRouter()
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/v1/search", "200", "zip_list")
	before := testutil.ToFloat64(counter)

	if code := get(h, "/v1/search?zip_code=60614&radius_enabled=true"); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests{tier=zip_list} = %v, want %v", got, before+1)
	}
	if testutil.CollectAndCount(HTTPRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_Degraded(t *testing.T) {
	h := newRouter()
	before := testutil.ToFloat64(DegradedResponsesTotal.WithLabelValues("zip_list"))

	get(h, "/v1/search?slow=1")
	get(h, "/v1/search")

	if got := testutil.ToFloat64(DegradedResponsesTotal.WithLabelValues("zip_list")); got != before+1 {
		t.Errorf("degraded = %v, want %v", got, before+1)
	}
}

func TestMiddleware_RecordRoutePattern(t *testing.T) {
	h := newRouter()
	ok := HTTPRequestsTotal.WithLabelValues("GET", "/v1/records/{id}", "200", TierNone)
	missing := HTTPRequestsTotal.WithLabelValues("GET", "/v1/records/{id}", "404", TierNone)
	okBefore, missingBefore := testutil.ToFloat64(ok), testutil.ToFloat64(missing)

	get(h, "/v1/records/r-1")
	get(h, "/v1/records/r-2")
	get(h, "/v1/records/missing")

	if got := testutil.ToFloat64(ok); got != okBefore+2 {
		t.Errorf("200s = %v, want %v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(missing); got != missingBefore+1 {
		t.Errorf("404s = %v, want %v", got, missingBefore+1)
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	h := newRouter()
	counter := HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404", TierNone)
	before := testutil.ToFloat64(counter)

	get(h, "/v1/candidates/42")
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("unmatched = %v, want %v", got, before+1)
	}
}

func TestAnnotateSearch_OutsideMiddleware(t *testing.T) {
	// Must not panic without the middleware's annotation.
	AnnotateSearch(context.Background(), "exact", false)
}

func TestRegisterHTTPMetrics_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
}
