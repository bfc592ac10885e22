package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttendanceStatus(t *testing.T) {
	for raw, want := range map[string]AttendanceStatus{
		"hadir":   StatusHadir,
		"Hadir ":  StatusHadir,
		" SAKIT":  StatusSakit,
		"izin":    StatusIzin,
		"alpha\t": StatusAlpha,
	} {
		got, ok := ParseAttendanceStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseAttendanceStatus("telat")
	assert.False(t, ok)
}

func TestNormalizeKeepsUnknownTrimmed(t *testing.T) {
	s := NormalizeAttendanceStatus("  telat ")
	assert.Equal(t, AttendanceStatus("telat"), s)
	assert.False(t, s.Valid())
	assert.Equal(t, "T", s.Mark())
	assert.Equal(t, "", AttendanceStatus("").Mark())
}

func TestStatusScan(t *testing.T) {
	var s AttendanceStatus
	require.NoError(t, s.Scan([]byte("sakit ")))
	assert.Equal(t, StatusSakit, s)
	require.NoError(t, s.Scan("IZIN"))
	assert.Equal(t, StatusIzin, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, AttendanceStatus(""), s)
	assert.Error(t, s.Scan(42))
}

func TestStatusUnmarshalJSON(t *testing.T) {
	var rec AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(`{"studentId":"S1","date":"2024-05-01","status":" alpha"}`), &rec))
	assert.Equal(t, StatusAlpha, rec.Status)
	assert.Error(t, json.Unmarshal([]byte(`{"status":1}`), &rec))
}

func TestNoteRequired(t *testing.T) {
	assert.True(t, StatusSakit.NoteRequired())
	assert.True(t, StatusIzin.NoteRequired())
	assert.False(t, StatusHadir.NoteRequired())
	assert.False(t, StatusAlpha.NoteRequired())
}

func TestAttendanceRecordID(t *testing.T) {
	assert.Equal(t, "2024-05-01-S1", AttendanceRecordID("2024-05-01", "S1"))
}

func TestPatchesApply(t *testing.T) {
	name := "B2"
	teacher := "Bu Rina"
	c := ClassPatch{Name: &name, TeacherName: &teacher}.Apply(ClassRoom{ID: "C1", Name: "B1"})
	assert.Equal(t, "B2", c.Name)
	assert.Equal(t, "Bu Rina", *c.TeacherName)
	assert.True(t, ClassPatch{}.Empty())

	class := "C9"
	s := StudentPatch{ClassID: &class}.Apply(Student{ID: "S1", NIS: "01", Name: "Ani", ClassID: "C1"})
	assert.Equal(t, Student{ID: "S1", NIS: "01", Name: "Ani", ClassID: "C9"}, s)
}
