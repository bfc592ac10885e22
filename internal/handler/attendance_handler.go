package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/attendance"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

type attendanceService interface {
	Session(ctx context.Context, classID, date string) (*service.Session, error)
	Status(ctx context.Context, studentID, date string) (attendance.DailyEntry, error)
	SaveRoster(ctx context.Context, req service.SaveRosterRequest) (*service.SaveResult, error)
}

// AttendanceHandler serves the daily attendance form.
type AttendanceHandler struct {
	service attendanceService
}

func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Session godoc
// @Summary Attendance form for a class and date
// @Description Roster of the class with any entries already recorded on the date
// @Tags Attendance
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/session [get]
func (h *AttendanceHandler) Session(c *gin.Context) {
	q, ok := requiredQuery(c, "classId", "date")
	if !ok {
		return
	}
	session, err := h.service.Session(c.Request.Context(), q["classId"], q["date"])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Status godoc
// @Summary Student status on a date
// @Tags Attendance
// @Produce json
// @Param studentId query string true "Student ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/status [get]
func (h *AttendanceHandler) Status(c *gin.Context) {
	q, ok := requiredQuery(c, "studentId", "date")
	if !ok {
		return
	}
	entry, err := h.service.Status(c.Request.Context(), q["studentId"], q["date"])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"studentId": q["studentId"], "date": q["date"], "status": entry.Display(), "note": entry.Note, "marked": entry.Marked})
}

// SaveRoster godoc
// @Summary Save a class roster
// @Description Every student of the class needs a status; Sakit and Izin need a note
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.SaveRosterRequest true "Roster"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance/roster [post]
func (h *AttendanceHandler) SaveRoster(c *gin.Context) {
	var req service.SaveRosterRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.SaveRoster(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
