package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsAndExposes(t *testing.T) {
	m := New()

	m.SetOpenConnections(3)
	m.Acquire("ok")
	m.Query("rows", 120*time.Millisecond)
	m.Retry("connection_reset")
	m.Retry("connection_reset")
	m.CacheLookup("HIT")

	assert.Equal(t, float64(3), testutil.ToFloat64(m.PoolOpenConnections))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.QueryRetries.WithLabelValues("connection_reset")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookups.WithLabelValues("HIT")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "media_pacing_warehouse_queries_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SetOpenConnections(1)
		m.Acquire("timeout")
		m.Query("error", time.Second)
		m.Retry("dns")
		m.CacheLookup("MISS")
	})
}
