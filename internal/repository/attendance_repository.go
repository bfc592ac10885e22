package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/absensi-tk-api/internal/models"
)

// AttendanceRepository reads and upserts the attendance table. Rows are keyed by date-studentId.
type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// SelectAll returns every record ordered by date. The date column is read back as YYYY-MM-DD text.
func (r *AttendanceRepository) SelectAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, "studentId", "date"::text AS date, status, COALESCE(note, '') AS note FROM attendance ORDER BY "date", id`
	records := make([]models.AttendanceRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select attendance: %w", err)
	}
	return records, nil
}

// Upsert writes the batch in one transaction; an existing id is overwritten.
func (r *AttendanceRepository) Upsert(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance upsert: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO attendance (id, "studentId", "date", status, note)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id)
DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note`
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare attendance upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.StudentID, rec.Date, rec.Status, rec.Note); err != nil {
			return fmt.Errorf("upsert attendance %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance upsert: %w", err)
	}
	committed = true
	return nil
}
