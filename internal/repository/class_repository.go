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

const classColumns = `id, name, "teacherName", "teacherNip", "headmasterName", "headmasterNip"`

// ClassRepository reads and writes the classes table.
type ClassRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// SelectAll returns every class.
func (r *ClassRepository) SelectAll(ctx context.Context) ([]models.ClassRoom, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY name`
	classes := make([]models.ClassRoom, 0)
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("select classes: %w", err)
	}
	return classes, nil
}

// Insert stores a class with a fresh id and returns the stored row.
func (r *ClassRepository) Insert(ctx context.Context, class models.ClassRoom) (*models.ClassRoom, error) {
	class.ID = uuid.NewString()
	query := `INSERT INTO classes (` + classColumns + `) VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + classColumns
	var stored models.ClassRoom
	if err := r.db.GetContext(ctx, &stored, query, class.ID, class.Name, class.TeacherName, class.TeacherNIP, class.HeadmasterName, class.HeadmasterNIP); err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}
	return &stored, nil
}

// Update applies the non-nil patch fields. A missing id yields sql.ErrNoRows.
func (r *ClassRepository) Update(ctx context.Context, id string, patch models.ClassPatch) (*models.ClassRoom, error) {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", patch.Name)
	add(`"teacherName"`, patch.TeacherName)
	add(`"teacherNip"`, patch.TeacherNIP)
	add(`"headmasterName"`, patch.HeadmasterName)
	add(`"headmasterNip"`, patch.HeadmasterNIP)

	var stored models.ClassRoom
	if len(sets) == 0 {
		query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
		if err := r.db.GetContext(ctx, &stored, query, id); err != nil {
			return nil, err
		}
		return &stored, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE classes SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), classColumns)
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update class: %w", err)
	}
	return &stored, nil
}

// Delete removes a class only; students keep their classId.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
