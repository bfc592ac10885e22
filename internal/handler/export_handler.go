package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

type exportService interface {
	Request(ctx context.Context, params models.ReportParams) (*models.ExportJob, error)
	Status(ctx context.Context, id string) (*models.ExportJob, error)
	Resolve(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler queues background renders and serves signed downloads.
type ExportHandler struct {
	service exportService
}

func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Request godoc
// @Summary Queue a report export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body models.ReportParams true "Report to render"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	var params models.ReportParams
	if !bindJSON(c, &params) {
		return
	}
	job, err := h.service.Request(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Export status
// @Tags Exports
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, job)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
