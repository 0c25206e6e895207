package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func serveWithChi(mw func(http.Handler) http.Handler, pattern string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get(pattern, handler)
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	handler := serveWithChi(PrometheusMetrics("count-svc"), "/api/v1/vehicles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/vehicles/1", "/api/v1/vehicles/2", "/api/v1/vehicles/3"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("count-svc", "GET", "/api/v1/vehicles/{id}", "200"))
	assert.Equal(t, float64(3), got)
}

func TestPrometheusMetrics_CapturesStatus(t *testing.T) {
	handler := serveWithChi(PrometheusMetrics("status-svc"), "/details", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/details", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("status-svc", "GET", "/details", "404"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	var seen float64
	handler := serveWithChi(PrometheusMetrics("inflight-svc"), "/vehicles", func(w http.ResponseWriter, r *http.Request) {
		seen = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/vehicles", nil))

	assert.Equal(t, float64(1), seen)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

func TestPrometheusMetrics_FragmentRequests(t *testing.T) {
	handler := serveWithChi(PrometheusMetrics("htmx-svc"), "/vehicles/grid", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/vehicles/grid?color=Red", nil)
	req.Header.Set("HX-Request", "true")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/vehicles/grid", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(htmxRequestsTotal.WithLabelValues("htmx-svc", "/vehicles/grid")))
}

func TestRoutePattern_WithoutChi(t *testing.T) {
	assert.Equal(t, "unknown", routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}
