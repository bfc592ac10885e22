// Package state holds the in-memory copy of the classes, students and attendance tables.
// The store stays the source of truth: the register is rebuilt wholesale by a sync and
// otherwise changed only through the commands below after a store write has succeeded.
package state

import (
	"sync"
	"time"

	"github.com/noah-isme/absensi-tk-api/internal/models"
)

// Snapshot is a copy of the three collections.
type Snapshot struct {
	Classes    []models.ClassRoom        `json:"classes"`
	Students   []models.Student          `json:"students"`
	Attendance []models.AttendanceRecord `json:"attendance"`
	SyncedAt   time.Time                 `json:"syncedAt"`
}

// Stats summarises the register for health and status endpoints.
type Stats struct {
	Loaded     bool       `json:"loaded"`
	Classes    int        `json:"classes"`
	Students   int        `json:"students"`
	Attendance int        `json:"attendance"`
	SyncedAt   *time.Time `json:"syncedAt,omitempty"`
}

type Register struct {
	mu         sync.RWMutex
	classes    []models.ClassRoom
	students   []models.Student
	attendance []models.AttendanceRecord
	syncedAt   time.Time
	loaded     bool
}

func New() *Register {
	return &Register{}
}

// Replace swaps all three collections at once.
func (r *Register) Replace(snap Snapshot) {
	classes := cloneSlice(snap.Classes)
	students := cloneSlice(snap.Students)
	attendance := cloneSlice(snap.Attendance)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes, r.students, r.attendance = classes, students, attendance
	r.syncedAt = snap.SyncedAt
	r.loaded = true
}

func (r *Register) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Classes:    cloneSlice(r.classes),
		Students:   cloneSlice(r.students),
		Attendance: cloneSlice(r.attendance),
		SyncedAt:   r.syncedAt,
	}
}

func (r *Register) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := Stats{Loaded: r.loaded, Classes: len(r.classes), Students: len(r.students), Attendance: len(r.attendance)}
	if r.loaded {
		synced := r.syncedAt
		st.SyncedAt = &synced
	}
	return st
}

func (r *Register) Classes() []models.ClassRoom {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.classes)
}

func (r *Register) Students() []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.students)
}

func (r *Register) Attendance() []models.AttendanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSlice(r.attendance)
}

func (r *Register) FindClass(id string) (models.ClassRoom, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.classes {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClassRoom{}, false
}

func (r *Register) FindStudent(id string) (models.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}

// Roster returns the students of classID in register order.
func (r *Register) Roster(classID string) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roster := make([]models.Student, 0)
	for _, s := range r.students {
		if s.ClassID == classID {
			roster = append(roster, s)
		}
	}
	return roster
}

func (r *Register) AddClass(c models.ClassRoom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = append(r.classes, c)
}

// PutClass replaces the class with the same id. It reports false when the id is unknown.
func (r *Register) PutClass(c models.ClassRoom) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.classes {
		if r.classes[i].ID == c.ID {
			r.classes[i] = c
			return true
		}
	}
	return false
}

// RemoveClass drops the class only. Students referencing it become orphans.
func (r *Register) RemoveClass(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.classes, removed = removeByID(r.classes, id, func(c models.ClassRoom) string { return c.ID })
	return removed
}

func (r *Register) AddStudent(s models.Student) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = append(r.students, s)
}

func (r *Register) PutStudent(s models.Student) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.students {
		if r.students[i].ID == s.ID {
			r.students[i] = s
			return true
		}
	}
	return false
}

// RemoveStudent drops the student only; their attendance records stay.
func (r *Register) RemoveStudent(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.students, removed = removeByID(r.students, id, func(s models.Student) string { return s.ID })
	return removed
}

// ApplyAttendance drops every record on date belonging to the roster and appends records.
func (r *Register) ApplyAttendance(date string, rosterIDs []string, records []models.AttendanceRecord) {
	inRoster := make(map[string]struct{}, len(rosterIDs))
	for _, id := range rosterIDs {
		inRoster[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := make([]models.AttendanceRecord, 0, len(r.attendance)+len(records))
	for _, rec := range r.attendance {
		if rec.Date == date {
			if _, ok := inRoster[rec.StudentID]; ok {
				continue
			}
		}
		kept = append(kept, rec)
	}
	r.attendance = append(kept, records...)
}

func removeByID[T any](items []T, id string, key func(T) string) ([]T, bool) {
	for i, item := range items {
		if key(item) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
