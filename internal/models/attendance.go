package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AttendanceStatus is one of Hadir, Sakit, Izin or Alpha.
// Values are normalised once, when they are scanned from the store or decoded from JSON.
type AttendanceStatus string

const (
	StatusHadir AttendanceStatus = "Hadir"
	StatusSakit AttendanceStatus = "Sakit"
	StatusIzin  AttendanceStatus = "Izin"
	StatusAlpha AttendanceStatus = "Alpha"
)

// AttendanceStatuses lists the statuses in tally order (H, S, I, A).
var AttendanceStatuses = []AttendanceStatus{StatusHadir, StatusSakit, StatusIzin, StatusAlpha}

// ParseAttendanceStatus matches raw case-insensitively after trimming.
func ParseAttendanceStatus(raw string) (AttendanceStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range AttendanceStatuses {
		if strings.ToLower(string(s)) == key {
			return s, true
		}
	}
	return "", false
}

// NormalizeAttendanceStatus returns the canonical status, or the trimmed input when it is not recognised.
func NormalizeAttendanceStatus(raw string) AttendanceStatus {
	if s, ok := ParseAttendanceStatus(raw); ok {
		return s
	}
	return AttendanceStatus(strings.TrimSpace(raw))
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusHadir, StatusSakit, StatusIzin, StatusAlpha:
		return true
	default:
		return false
	}
}

// Mark is the first character of the status in upper case, e.g. "H" for Hadir.
func (s AttendanceStatus) Mark() string {
	r, size := utf8.DecodeRuneInString(string(s))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// NoteRequired reports whether a record with this status must carry a note.
func (s AttendanceStatus) NoteRequired() bool {
	return s == StatusSakit || s == StatusIzin
}

func (s *AttendanceStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = NormalizeAttendanceStatus(v)
	case []byte:
		*s = NormalizeAttendanceStatus(string(v))
	default:
		return fmt.Errorf("scan attendance status: unsupported type %T", src)
	}
	return nil
}

func (s AttendanceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *AttendanceStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("attendance status must be a string: %w", err)
	}
	*s = NormalizeAttendanceStatus(raw)
	return nil
}

// AttendanceRecord is one student's status on one date. ID is AttendanceRecordID(Date, StudentID).
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"studentId" json:"studentId"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Note      string           `db:"note" json:"note"`
}

// AttendanceRecordID builds the deterministic identity used for upserts.
func AttendanceRecordID(date, studentID string) string {
	return date + "-" + studentID
}
