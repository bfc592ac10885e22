package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/middleware"
	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

type reportService interface {
	Daily(ctx context.Context, classID, date string) (*service.DailyReport, error)
	Monthly(ctx context.Context, classID string, month, year int) (*service.MonthlyReport, bool, error)
	Render(ctx context.Context, params models.ReportParams) (*service.RenderedReport, error)
}

// ReportHandler serves the daily and monthly sheets as JSON or as a downloadable file.
type ReportHandler struct {
	service reportService
}

func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Daily godoc
// @Summary Daily attendance sheet
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv, pdf or xlsx; JSON when omitted"
// @Success 200 {object} response.Envelope
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	q, ok := requiredQuery(c, "classId", "date")
	if !ok {
		return
	}
	if format := strings.TrimSpace(c.Query("format")); format != "" {
		h.render(c, models.ReportParams{Kind: models.ReportDaily, Format: models.ReportFormat(format), ClassID: q["classId"], Date: q["date"]})
		return
	}
	report, err := h.service.Daily(c.Request.Context(), q["classId"], q["date"])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Monthly godoc
// @Summary Monthly attendance recap
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param classId query string true "Class ID"
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Param format query string false "csv, pdf or xlsx; JSON when omitted"
// @Success 200 {object} response.Envelope
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	q, ok := requiredQuery(c, "classId", "month", "year")
	if !ok {
		return
	}
	month, ok := intQuery(c, "month")
	if !ok {
		return
	}
	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	if format := strings.TrimSpace(c.Query("format")); format != "" {
		h.render(c, models.ReportParams{Kind: models.ReportMonthly, Format: models.ReportFormat(format), ClassID: q["classId"], Month: month, Year: year})
		return
	}
	report, cacheHit, err := h.service.Monthly(c.Request.Context(), q["classId"], month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, report, middleware.ResponseMeta(c))
}

func (h *ReportHandler) render(c *gin.Context, params models.ReportParams) {
	out, err := h.service.Render(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, out.Filename, out.ContentType, out.Data)
}
