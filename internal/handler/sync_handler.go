package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/state"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

type syncService interface {
	Sync(ctx context.Context) (state.Stats, error)
	Stats() state.Stats
}

// SyncHandler exposes the manual reload and the register status.
type SyncHandler struct {
	service syncService
}

func NewSyncHandler(svc syncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// Sync godoc
// @Summary Reload all tables
// @Description Selects every class, student and attendance row and replaces the in-memory register
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	stats, err := h.service.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// State godoc
// @Summary Register status
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *SyncHandler) State(c *gin.Context) {
	response.OK(c, h.service.Stats())
}
