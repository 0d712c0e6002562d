package metric

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Generation("backend", ResultSuccess)
	m.Generation("backend", ResultSuccess)
	m.ConversionFailure(ReasonUnresolvedComponent)
	m.CacheHit()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.Vec().WithLabelValues("backend", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionFailures.Vec().WithLabelValues(ReasonUnresolvedComponent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.Vec().WithLabelValues()))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Generation("frontend", ResultError)
		m.ConversionFailure(ReasonMissingName)
		m.CacheHit()
	})
}

func TestGetHandlerForRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg).Generation("frontend", ResultEmpty)

	rec := httptest.NewRecorder()
	GetHandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `access_generations_total{mode="frontend",result="empty"} 1`)
}
