package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

// Table names used for metrics and log fields.
const (
	tableClasses    = "classes"
	tableStudents   = "students"
	tableAttendance = "attendance"
)

type classStore interface {
	SelectAll(ctx context.Context) ([]models.ClassRoom, error)
	Insert(ctx context.Context, class models.ClassRoom) (*models.ClassRoom, error)
	Update(ctx context.Context, id string, patch models.ClassPatch) (*models.ClassRoom, error)
	Delete(ctx context.Context, id string) error
}

type studentStore interface {
	SelectAll(ctx context.Context) ([]models.Student, error)
	Insert(ctx context.Context, student models.Student) (*models.Student, error)
	Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type attendanceStore interface {
	SelectAll(ctx context.Context) ([]models.AttendanceRecord, error)
	Upsert(ctx context.Context, records []models.AttendanceRecord) error
}

// storeCall times fn, records it and converts failures. sql.ErrNoRows becomes notFound when given.
func storeCall(metrics *MetricsService, logger *zap.Logger, table, op string, notFound *appErrors.Error, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveStoreCall(table, op, time.Since(start), err)
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	logger.Error("store call failed", zap.String("table", table), zap.String("op", op), zap.Error(err))
	return appErrors.Store(err, "failed to "+op+" "+table)
}
