package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/absensi-tk-api/internal/models"
)

const studentColumns = `id, nis, name, "classId"`

// StudentRepository reads and writes the students table.
type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) SelectAll(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY name`
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("select students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) Insert(ctx context.Context, student models.Student) (*models.Student, error) {
	student.ID = uuid.NewString()
	query := `INSERT INTO students (` + studentColumns + `) VALUES (:id, :nis, :name, :classId) RETURNING ` + studentColumns
	rows, err := r.db.NamedQueryContext(ctx, query, student)
	if err != nil {
		return nil, fmt.Errorf("insert student: %w", err)
	}
	defer rows.Close()

	var stored models.Student
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("insert student: %w", err)
		}
		return nil, fmt.Errorf("insert student: no row returned")
	}
	if err := rows.StructScan(&stored); err != nil {
		return nil, fmt.Errorf("scan student: %w", err)
	}
	return &stored, nil
}

// Update applies the non-nil patch fields. A missing id yields sql.ErrNoRows.
func (r *StudentRepository) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if patch.NIS != nil {
		args = append(args, *patch.NIS)
		sets = append(sets, fmt.Sprintf("nis = $%d", len(args)))
	}
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.ClassID != nil {
		args = append(args, *patch.ClassID)
		sets = append(sets, fmt.Sprintf(`"classId" = $%d`, len(args)))
	}

	var stored models.Student
	if len(sets) == 0 {
		if err := r.db.GetContext(ctx, &stored, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id); err != nil {
			return nil, err
		}
		return &stored, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), studentColumns)
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	return &stored, nil
}

// Delete removes a student row. Attendance rows are left to the store's own constraints.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}
