package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

type fakeClassStore struct {
	rows      []models.ClassRoom
	selectErr error
	writeErr  error
	seq       int
}

func (f *fakeClassStore) SelectAll(context.Context) ([]models.ClassRoom, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]models.ClassRoom(nil), f.rows...), nil
}

func (f *fakeClassStore) Insert(_ context.Context, class models.ClassRoom) (*models.ClassRoom, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.seq++
	class.ID = fmt.Sprintf("class-%d", f.seq)
	f.rows = append(f.rows, class)
	return &class, nil
}

func (f *fakeClassStore) Update(_ context.Context, id string, patch models.ClassPatch) (*models.ClassRoom, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i, c := range f.rows {
		if c.ID == id {
			f.rows[i] = patch.Apply(c)
			updated := f.rows[i]
			return &updated, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeClassStore) Delete(_ context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeStudentStore struct {
	rows      []models.Student
	selectErr error
	writeErr  error
	seq       int
}

func (f *fakeStudentStore) SelectAll(context.Context) ([]models.Student, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]models.Student(nil), f.rows...), nil
}

func (f *fakeStudentStore) Insert(_ context.Context, student models.Student) (*models.Student, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.seq++
	student.ID = fmt.Sprintf("student-%d", f.seq)
	f.rows = append(f.rows, student)
	return &student, nil
}

func (f *fakeStudentStore) Update(_ context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i, s := range f.rows {
		if s.ID == id {
			f.rows[i] = patch.Apply(s)
			updated := f.rows[i]
			return &updated, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) Delete(_ context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for i, s := range f.rows {
		if s.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeAttendanceStore struct {
	rows      []models.AttendanceRecord
	selectErr error
	upsertErr error
	upserts   [][]models.AttendanceRecord
}

func (f *fakeAttendanceStore) SelectAll(context.Context) ([]models.AttendanceRecord, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return append([]models.AttendanceRecord(nil), f.rows...), nil
}

func (f *fakeAttendanceStore) Upsert(_ context.Context, records []models.AttendanceRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, records)
	return nil
}

// memoryCache is a CacheRepository that keeps JSON payloads in a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

func strPtr(s string) *string { return &s }

// seededRegister holds two classes, three students of TK A, one of TK B and an orphan.
func seededRegister() *state.Register {
	reg := state.New()
	reg.Replace(state.Snapshot{
		Classes: []models.ClassRoom{
			{ID: "c1", Name: "TK A", TeacherName: strPtr("Bu Sari"), TeacherNIP: strPtr("19800101"), HeadmasterName: strPtr("Pak Budi")},
			{ID: "c2", Name: "TK B"},
		},
		Students: []models.Student{
			{ID: "s1", NIS: "1001", Name: "Citra", ClassID: "c1"},
			{ID: "s2", NIS: "1002", Name: "adi", ClassID: "c1"},
			{ID: "s3", NIS: "2001", Name: "Bima", ClassID: "c1"},
			{ID: "s4", NIS: "3001", Name: "Dewi", ClassID: "c2"},
			{ID: "s5", NIS: "9001", Name: "Eka", ClassID: "gone"},
		},
		Attendance: []models.AttendanceRecord{
			{ID: "2024-05-01-s1", StudentID: "s1", Date: "2024-05-01", Status: models.StatusHadir},
			{ID: "2024-05-01-s2", StudentID: "s2", Date: "2024-05-01", Status: models.StatusSakit, Note: "demam"},
			{ID: "2024-05-01-s3", StudentID: "s3", Date: "2024-05-01", Status: models.StatusHadir},
			{ID: "2024-05-02-s1", StudentID: "s1", Date: "2024-05-02", Status: models.StatusAlpha},
			{ID: "2024-04-30-s1", StudentID: "s1", Date: "2024-04-30", Status: models.StatusHadir},
		},
		SyncedAt: time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC),
	})
	return reg
}
