package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest("POST", "POST /api/movie/{id}/vote", 200, 0.01)
	m.RecordRequest("POST", "POST /api/movie/{id}/vote", 200, 0.02)
	m.RecordRequest("GET", "", 404, 0.001)

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "POST /api/movie/{id}/vote", "200")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requestTotal.WithLabelValues("GET", unmatchedRoute, "404")), "empty route is grouped")
	assert.Equal(t, 2, promtestutil.CollectAndCount(m.requestDuration), "one series per method, route and status")
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordRequest("GET", "GET /api/movie", 200, 0.5)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="GET /api/movie",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines", "runtime collectors registered")
}
