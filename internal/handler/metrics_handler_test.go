package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/internal/state"
)

type stubReadiness struct{ stats state.Stats }

func (s stubReadiness) Stats() state.Stats { return s.stats }

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, stubReadiness{})
	c, rec := newTestContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewMetricsHandler(nil, stubReadiness{stats: state.Stats{Loaded: true, Classes: 2}})
	c, rec = newTestContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"classes":2`)

	c, rec = newTestContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordCacheOperation(true, 0)
	metrics.RecordCacheOperation(false, 0)

	h := NewMetricsHandler(metrics, stubReadiness{})
	c, rec := newTestContext(http.MethodGet, "/metrics/summary", nil)
	h.Summary(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache_hit_ratio":0.5`)

	c, rec = newTestContext(http.MethodGet, "/metrics/summary", nil)
	NewMetricsHandler(nil, stubReadiness{}).Summary(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
