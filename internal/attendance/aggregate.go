// Package attendance derives read-only views over attendance history:
// a student's status on a date, the monthly matrix with H/S/I/A tallies and present rates.
// Nothing here performs I/O or keeps state; callers recompute on every request.
package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/noah-isme/absensi-tk-api/internal/models"
)

// Unmarked is shown for a student with no record on a date.
const Unmarked = "-"

// DaysInMonth returns the number of days in month (1-12) of year, leap years included.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateKey formats a YYYY-MM-DD key.
func DateKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func monthPrefix(month, year int) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

// InMonth compares the date string prefix; no time zone conversion takes place.
func InMonth(date string, month, year int) bool {
	return strings.HasPrefix(date, monthPrefix(month, year))
}

// DailyEntry is a student's status and note on one date.
type DailyEntry struct {
	Status models.AttendanceStatus `json:"status"`
	Note   string                  `json:"note"`
	Marked bool                    `json:"marked"`
}

// Display renders the status, or Unmarked when there is no record.
func (e DailyEntry) Display() string {
	if !e.Marked {
		return Unmarked
	}
	return string(e.Status)
}

// DailyStatus finds the first record for studentID on date.
func DailyStatus(records []models.AttendanceRecord, studentID, date string) DailyEntry {
	for _, r := range records {
		if r.StudentID == studentID && r.Date == date {
			return DailyEntry{Status: r.Status, Note: r.Note, Marked: true}
		}
	}
	return DailyEntry{}
}

// Tally counts records per status. Unrecognised statuses are not counted.
type Tally struct {
	H int `json:"H"`
	S int `json:"S"`
	I int `json:"I"`
	A int `json:"A"`
}

func (t *Tally) Add(status models.AttendanceStatus) {
	switch status {
	case models.StatusHadir:
		t.H++
	case models.StatusSakit:
		t.S++
	case models.StatusIzin:
		t.I++
	case models.StatusAlpha:
		t.A++
	}
}

// MonthlyRow is one student's line of the monthly matrix. Marks[d-1] is the mark for day d.
type MonthlyRow struct {
	Student models.Student `json:"student"`
	Marks   []string       `json:"marks"`
	Tally   Tally          `json:"tally"`
}

// MonthlyMatrix builds one row per student, in the order given.
func MonthlyMatrix(records []models.AttendanceRecord, students []models.Student, month, year int) []MonthlyRow {
	days := DaysInMonth(month, year)

	type key struct{ student, date string }
	first := make(map[key]models.AttendanceStatus)
	tallies := make(map[string]*Tally)
	for _, r := range records {
		if !InMonth(r.Date, month, year) {
			continue
		}
		k := key{r.StudentID, r.Date}
		if _, seen := first[k]; !seen {
			first[k] = r.Status
		}
		t, ok := tallies[r.StudentID]
		if !ok {
			t = &Tally{}
			tallies[r.StudentID] = t
		}
		t.Add(r.Status)
	}

	rows := make([]MonthlyRow, 0, len(students))
	for _, s := range students {
		row := MonthlyRow{Student: s, Marks: make([]string, days)}
		for d := 1; d <= days; d++ {
			if status, ok := first[key{s.ID, DateKey(year, month, d)}]; ok {
				row.Marks[d-1] = status.Mark()
			}
		}
		if t, ok := tallies[s.ID]; ok {
			row.Tally = *t
		}
		rows = append(rows, row)
	}
	return rows
}

// Rates are integer present percentages.
type Rates struct {
	Daily   int `json:"daily"`
	Monthly int `json:"monthly"`
}

// PresentRates computes the Hadir share of records dated today and of records in month/year.
func PresentRates(records []models.AttendanceRecord, today string, month, year int) Rates {
	var dayTotal, dayPresent, monthTotal, monthPresent int
	for _, r := range records {
		present := r.Status == models.StatusHadir
		if r.Date == today {
			dayTotal++
			if present {
				dayPresent++
			}
		}
		if InMonth(r.Date, month, year) {
			monthTotal++
			if present {
				monthPresent++
			}
		}
	}
	return Rates{Daily: Percent(dayPresent, dayTotal), Monthly: Percent(monthPresent, monthTotal)}
}

// Percent rounds part/total*100 to the nearest integer and returns 0 for an empty total.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
