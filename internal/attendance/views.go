package attendance

import "github.com/noah-isme/absensi-tk-api/internal/models"

// DayBreakdown tallies every record dated date.
func DayBreakdown(records []models.AttendanceRecord, date string) Tally {
	var t Tally
	for _, r := range records {
		if r.Date == date {
			t.Add(r.Status)
		}
	}
	return t
}

// MonthRecordCount counts records in month/year regardless of status.
func MonthRecordCount(records []models.AttendanceRecord, month, year int) int {
	n := 0
	for _, r := range records {
		if InMonth(r.Date, month, year) {
			n++
		}
	}
	return n
}

// ClassSize is the bar chart datum for one class.
type ClassSize struct {
	ClassID  string `json:"classId"`
	Name     string `json:"name"`
	Students int    `json:"students"`
}

// ClassSizes counts students per class in class order. Orphaned students are ignored.
func ClassSizes(classes []models.ClassRoom, students []models.Student) []ClassSize {
	counts := make(map[string]int, len(classes))
	for _, s := range students {
		counts[s.ClassID]++
	}
	out := make([]ClassSize, 0, len(classes))
	for _, c := range classes {
		out = append(out, ClassSize{ClassID: c.ID, Name: c.Name, Students: counts[c.ID]})
	}
	return out
}

// RosterLine pairs a student with their entry for one date.
type RosterLine struct {
	Student models.Student `json:"student"`
	Entry   DailyEntry     `json:"entry"`
}

// DailyRoster resolves DailyStatus for every student, preserving order.
func DailyRoster(records []models.AttendanceRecord, students []models.Student, date string) []RosterLine {
	byStudent := make(map[string]DailyEntry, len(students))
	for _, r := range records {
		if r.Date != date {
			continue
		}
		if _, seen := byStudent[r.StudentID]; !seen {
			byStudent[r.StudentID] = DailyEntry{Status: r.Status, Note: r.Note, Marked: true}
		}
	}
	lines := make([]RosterLine, 0, len(students))
	for _, s := range students {
		lines = append(lines, RosterLine{Student: s, Entry: byStudent[s.ID]})
	}
	return lines
}
