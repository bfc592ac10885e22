package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

func newAttendanceServiceForTest(reg *state.Register, store *fakeAttendanceStore) *AttendanceService {
	return NewAttendanceService(store, reg, nil, nil, NewValidator(), nil)
}

func fullRoster(date string) SaveRosterRequest {
	return SaveRosterRequest{
		ClassID: "c1",
		Date:    date,
		Entries: []RosterEntryRequest{
			{StudentID: "s1", Status: models.StatusHadir},
			{StudentID: "s2", Status: models.StatusIzin, Note: "acara keluarga"},
			{StudentID: "s3", Status: models.StatusAlpha},
		},
	}
}

func TestAttendanceServiceSaveRosterRoundTrip(t *testing.T) {
	reg := seededRegister()
	store := &fakeAttendanceStore{}
	svc := newAttendanceServiceForTest(reg, store)

	result, err := svc.SaveRoster(context.Background(), fullRoster("2024-05-10"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Saved)
	assert.Equal(t, 1, result.Tally.H)
	assert.Equal(t, 1, result.Tally.I)
	assert.Equal(t, 1, result.Tally.A)

	require.Len(t, store.upserts, 1)
	assert.Equal(t, "2024-05-10-s1", store.upserts[0][0].ID)

	entry, err := svc.Status(context.Background(), "s2", "2024-05-10")
	require.NoError(t, err)
	assert.True(t, entry.Marked)
	assert.Equal(t, models.StatusIzin, entry.Status)
	assert.Equal(t, "acara keluarga", entry.Note)
}

func TestAttendanceServiceSaveTwiceKeepsOneRecord(t *testing.T) {
	reg := seededRegister()
	svc := newAttendanceServiceForTest(reg, &fakeAttendanceStore{})

	req := fullRoster("2024-05-01")
	req.Entries[0].Status = models.StatusSakit
	req.Entries[0].Note = "batuk"
	_, err := svc.SaveRoster(context.Background(), req)
	require.NoError(t, err)

	count := 0
	for _, r := range reg.Attendance() {
		if r.StudentID == "s1" && r.Date == "2024-05-01" {
			count++
			assert.Equal(t, models.StatusSakit, r.Status)
		}
	}
	assert.Equal(t, 1, count)
}

func TestAttendanceServiceRejectsSakitWithoutNote(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := newAttendanceServiceForTest(seededRegister(), store)

	req := fullRoster("2024-05-10")
	req.Entries[0].Status = models.StatusSakit
	req.Entries[0].Note = "   "

	_, err := svc.SaveRoster(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNoteRequired))
	assert.Contains(t, err.Error(), "Citra")
	assert.Empty(t, store.upserts)
}

func TestAttendanceServiceRejectsIncompleteRoster(t *testing.T) {
	store := &fakeAttendanceStore{}
	svc := newAttendanceServiceForTest(seededRegister(), store)

	req := fullRoster("2024-05-10")
	req.Entries = req.Entries[:1]
	req.Entries = append(req.Entries, RosterEntryRequest{StudentID: "s2"})

	_, err := svc.SaveRoster(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrIncompleteRoster.Code, appErr.Code)
	assert.Equal(t, "Ada 2 anak yang belum diabsen", appErr.Message)
	assert.Equal(t, 2, appErr.Details["missing"])
	assert.Empty(t, store.upserts)
}

func TestAttendanceServiceRejectsForeignAndDuplicateStudents(t *testing.T) {
	svc := newAttendanceServiceForTest(seededRegister(), &fakeAttendanceStore{})

	req := fullRoster("2024-05-10")
	req.Entries = append(req.Entries, RosterEntryRequest{StudentID: "s4", Status: models.StatusHadir})
	_, err := svc.SaveRoster(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	req = fullRoster("2024-05-10")
	req.Entries = append(req.Entries, RosterEntryRequest{StudentID: "s1", Status: models.StatusHadir})
	_, err = svc.SaveRoster(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAttendanceServiceValidatesPayload(t *testing.T) {
	svc := newAttendanceServiceForTest(seededRegister(), &fakeAttendanceStore{})

	req := fullRoster("10-05-2024")
	_, err := svc.SaveRoster(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	req = fullRoster("2024-05-10")
	req.Entries[0].Status = models.AttendanceStatus("Terlambat")
	_, err = svc.SaveRoster(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	req = fullRoster("2024-05-10")
	req.ClassID = "missing"
	_, err = svc.SaveRoster(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAttendanceServiceStoreFailureLeavesRegister(t *testing.T) {
	reg := seededRegister()
	before := reg.Attendance()
	svc := newAttendanceServiceForTest(reg, &fakeAttendanceStore{upsertErr: errors.New("connection reset")})

	_, err := svc.SaveRoster(context.Background(), fullRoster("2024-05-10"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
	assert.Equal(t, before, reg.Attendance())
}

func TestAttendanceServiceSession(t *testing.T) {
	svc := newAttendanceServiceForTest(seededRegister(), &fakeAttendanceStore{})

	session, err := svc.Session(context.Background(), "c1", "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, "TK A", session.Class.Name)
	require.Len(t, session.Lines, 3)
	assert.Equal(t, models.StatusAlpha, session.Lines[0].Entry.Status)
	assert.Equal(t, 2, session.Unmarked)

	entry, err := svc.Status(context.Background(), "s1", "2024-05-10")
	require.NoError(t, err)
	assert.False(t, entry.Marked)
	assert.Equal(t, "-", entry.Display())
}
