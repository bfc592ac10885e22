package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
)

// SyncService reloads the three tables and replaces the register in one step.
type SyncService struct {
	classes    classStore
	students   studentStore
	attendance attendanceStore
	register   *state.Register
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time

	mu sync.Mutex
}

func NewSyncService(classes classStore, students studentStore, attendance attendanceStore, register *state.Register, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		classes:    classes,
		students:   students,
		attendance: attendance,
		register:   register,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Sync selects every row of every table. Any failure aborts before the register is touched.
// Concurrent calls are serialised.
func (s *SyncService) Sync(ctx context.Context) (state.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var (
		classes    []models.ClassRoom
		students   []models.Student
		attendance []models.AttendanceRecord
	)
	if err := storeCall(s.metrics, s.logger, tableClasses, "select", nil, func() (err error) {
		classes, err = s.classes.SelectAll(ctx)
		return err
	}); err != nil {
		return s.register.Stats(), err
	}
	if err := storeCall(s.metrics, s.logger, tableStudents, "select", nil, func() (err error) {
		students, err = s.students.SelectAll(ctx)
		return err
	}); err != nil {
		return s.register.Stats(), err
	}
	if err := storeCall(s.metrics, s.logger, tableAttendance, "select", nil, func() (err error) {
		attendance, err = s.attendance.SelectAll(ctx)
		return err
	}); err != nil {
		return s.register.Stats(), err
	}

	syncedAt := s.now().UTC()
	s.register.Replace(state.Snapshot{Classes: classes, Students: students, Attendance: attendance, SyncedAt: syncedAt})
	s.cache.InvalidateDerived(ctx)
	s.metrics.ObserveSync(time.Since(start), syncedAt)

	stats := s.register.Stats()
	s.logger.Info("register synced",
		zap.Int("classes", stats.Classes),
		zap.Int("students", stats.Students),
		zap.Int("attendance", stats.Attendance),
		zap.Duration("took", time.Since(start)),
	)
	return stats, nil
}

// Stats reports the register counts and the last sync time.
func (s *SyncService) Stats() state.Stats {
	return s.register.Stats()
}
