package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

type metricsExporter interface {
	Handler() http.Handler
	Snapshot() service.MetricsSnapshot
}

type readinessSource interface {
	Stats() state.Stats
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics metricsExporter
	ready   readinessSource
}

func NewMetricsHandler(metrics metricsExporter, ready readinessSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, ready: ready}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary returns cache counters as JSON.
func (h *MetricsHandler) Summary(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "metrics disabled"))
		return
	}
	response.OK(c, h.metrics.Snapshot())
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 503 until the register has been loaded once.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.ready == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	stats := h.ready.Stats()
	if !stats.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "state": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "state": stats})
}
