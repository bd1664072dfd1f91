package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-value-dashboard/internal/config"
)

func TestManager(t *testing.T) {
	t.Run("CountsFetches", func(t *testing.T) {
		m := NewManager()
		m.RecordFetch("predictions", OutcomeSuccess)
		m.RecordFetch("predictions", OutcomeSuccess)
		m.RecordFetch("history", OutcomeFailure)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.sourceFetches.WithLabelValues("predictions", OutcomeSuccess)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFetches.WithLabelValues("history", OutcomeFailure)))
	})

	t.Run("GaugesReflectLoad", func(t *testing.T) {
		m := NewManager()
		m.SetSourceRows("profiles", 42)
		m.SetRecordsLoaded(7, 1500*time.Millisecond)

		assert.Equal(t, 42.0, testutil.ToFloat64(m.sourceRows.WithLabelValues("profiles")))
		assert.Equal(t, 7.0, testutil.ToFloat64(m.recordsLoaded))
		assert.Equal(t, 1.5, testutil.ToFloat64(m.loadDuration))
	})

	t.Run("NilManagerIsNoop", func(t *testing.T) {
		var m *Manager
		assert.NotPanics(t, func() {
			m.RecordFetch("predictions", OutcomeRetry)
			m.ObserveFetchDuration("predictions", time.Second)
			m.SetSourceRows("predictions", 1)
			m.SetRecordsLoaded(1, time.Second)
			m.RecordHTTPRequest("/api/top", http.MethodGet, http.StatusOK, time.Millisecond)
		})
	})

	t.Run("HandlerExposesMetrics", func(t *testing.T) {
		m := NewManager(WithNamespace("test"))
		m.RecordHTTPRequest("/api/top", http.MethodGet, http.StatusOK, time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `test_dashboard_http_requests_total{endpoint="/api/top",method="GET",status_code="200"} 1`)
	})

	t.Run("FromConfig", func(t *testing.T) {
		m := NewManagerFromConfig(&config.Metrics{
			Namespace: "mv",
			Subsystem: "api",
			Buckets:   []float64{1, 5},
		})
		m.RecordHTTPRequest("/api/top", http.MethodGet, http.StatusOK, 3*time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		body := rec.Body.String()
		assert.Contains(t, body, `mv_api_http_request_duration_milliseconds_bucket{endpoint="/api/top",method="GET",le="1"} 0`)
		assert.Contains(t, body, `mv_api_http_request_duration_milliseconds_bucket{endpoint="/api/top",method="GET",le="5"} 1`)
		assert.NotContains(t, body, `le="0.005"`)
	})

	t.Run("FromConfigKeepsDefaults", func(t *testing.T) {
		m := NewManagerFromConfig(&config.Metrics{})
		m.RecordFetch("predictions", OutcomeSuccess)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Contains(t, rec.Body.String(), `market_value_dashboard_source_fetches_total{outcome="success",source="predictions"} 1`)
	})
}
