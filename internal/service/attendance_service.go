package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/attendance"
	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

// SaveRosterRequest is the whole roster of one class for one date.
// An entry with an empty status counts as not yet marked.
type SaveRosterRequest struct {
	ClassID string                `json:"classId" validate:"required"`
	Date    string                `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []RosterEntryRequest `json:"entries" validate:"dive"`
}

type RosterEntryRequest struct {
	StudentID string                  `json:"studentId" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"omitempty,attendance_status"`
	Note      string                  `json:"note"`
}

// Session is the data behind the attendance form: the class roster with any existing entries.
type Session struct {
	Class    models.ClassRoom        `json:"class"`
	Date     string                  `json:"date"`
	Lines    []attendance.RosterLine `json:"lines"`
	Unmarked int                     `json:"unmarked"`
}

// SaveResult summarises a saved roster.
type SaveResult struct {
	ClassID string           `json:"classId"`
	Date    string           `json:"date"`
	Saved   int              `json:"saved"`
	Tally   attendance.Tally `json:"tally"`
}

type AttendanceService struct {
	store     attendanceStore
	register  *state.Register
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewAttendanceService(store attendanceStore, register *state.Register, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, register: register, cache: cache, metrics: metrics, validator: registerValidations(validate), logger: logger}
}

// Session loads the roster of classID with the entries recorded on date.
func (s *AttendanceService) Session(ctx context.Context, classID, date string) (*Session, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	class, ok := s.register.FindClass(classID)
	if !ok {
		return nil, errClassNotFound
	}
	lines := attendance.DailyRoster(s.register.Attendance(), s.register.Roster(classID), date)
	unmarked := 0
	for _, l := range lines {
		if !l.Entry.Marked {
			unmarked++
		}
	}
	return &Session{Class: class, Date: date, Lines: lines, Unmarked: unmarked}, nil
}

// Status returns one student's entry on date; a missing record is the unmarked entry, not an error.
func (s *AttendanceService) Status(ctx context.Context, studentID, date string) (attendance.DailyEntry, error) {
	if err := checkDate(date); err != nil {
		return attendance.DailyEntry{}, err
	}
	if strings.TrimSpace(studentID) == "" {
		return attendance.DailyEntry{}, invalid("studentId wajib diisi")
	}
	return attendance.DailyStatus(s.register.Attendance(), studentID, date), nil
}

// SaveRoster validates the full roster, upserts it in one store call and then updates the register.
// Nothing is written when any check fails.
func (s *AttendanceService) SaveRoster(ctx context.Context, req SaveRosterRequest) (*SaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "data absensi tidak valid")
	}
	if _, ok := s.register.FindClass(req.ClassID); !ok {
		return nil, errClassNotFound
	}
	roster := s.register.Roster(req.ClassID)
	if len(roster) == 0 {
		return nil, invalid("kelas belum memiliki siswa")
	}

	inRoster := make(map[string]models.Student, len(roster))
	for _, st := range roster {
		inRoster[st.ID] = st
	}
	entries := make(map[string]RosterEntryRequest, len(req.Entries))
	for _, e := range req.Entries {
		if _, ok := inRoster[e.StudentID]; !ok {
			return nil, invalid("siswa %s bukan anggota kelas ini", e.StudentID)
		}
		if _, dup := entries[e.StudentID]; dup {
			return nil, invalid("siswa %s tercantum lebih dari sekali", e.StudentID)
		}
		entries[e.StudentID] = e
	}

	missing := make([]string, 0)
	for _, st := range roster {
		if e, ok := entries[st.ID]; !ok || e.Status == "" {
			missing = append(missing, st.ID)
		}
	}
	if len(missing) > 0 {
		err := appErrors.Clone(appErrors.ErrIncompleteRoster, fmt.Sprintf("Ada %d anak yang belum diabsen", len(missing)))
		return nil, appErrors.WithDetails(err, map[string]interface{}{"missing": len(missing), "studentIds": missing})
	}

	records := make([]models.AttendanceRecord, 0, len(roster))
	rosterIDs := make([]string, 0, len(roster))
	var tally attendance.Tally
	for _, st := range roster {
		e := entries[st.ID]
		if e.Status.NoteRequired() && strings.TrimSpace(e.Note) == "" {
			err := appErrors.Clone(appErrors.ErrNoteRequired, fmt.Sprintf("Keterangan wajib diisi untuk %s (%s)", st.Name, e.Status))
			return nil, appErrors.WithDetails(err, map[string]interface{}{"studentId": st.ID, "status": e.Status})
		}
		records = append(records, models.AttendanceRecord{
			ID:        models.AttendanceRecordID(req.Date, st.ID),
			StudentID: st.ID,
			Date:      req.Date,
			Status:    e.Status,
			Note:      e.Note,
		})
		rosterIDs = append(rosterIDs, st.ID)
		tally.Add(e.Status)
	}

	if err := storeCall(s.metrics, s.logger, tableAttendance, "upsert", nil, func() error {
		return s.store.Upsert(ctx, records)
	}); err != nil {
		return nil, err
	}

	s.register.ApplyAttendance(req.Date, rosterIDs, records)
	s.cache.InvalidateDerived(ctx)
	s.logger.Info("attendance saved", zap.String("class_id", req.ClassID), zap.String("date", req.Date), zap.Int("records", len(records)))
	return &SaveResult{ClassID: req.ClassID, Date: req.Date, Saved: len(records), Tally: tally}, nil
}

func checkDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return invalid("tanggal harus berformat YYYY-MM-DD")
	}
	return nil
}
