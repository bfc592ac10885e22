package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

// CreateStudentRequest captures creation payload.
type CreateStudentRequest struct {
	NIS     string `json:"nis" validate:"required,notblank"`
	Name    string `json:"name" validate:"required,notblank"`
	ClassID string `json:"classId" validate:"required,notblank"`
}

// StudentFilter narrows List. Search matches the name case-insensitively or the NIS as a substring.
type StudentFilter struct {
	Search  string
	ClassID string
}

var errStudentNotFound = appErrors.Clone(appErrors.ErrNotFound, "student not found")

type StudentService struct {
	store     studentStore
	register  *state.Register
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewStudentService(store studentStore, register *state.Register, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, register: register, cache: cache, metrics: metrics, validator: registerValidations(validate), logger: logger}
}

// List returns students in register order with their class name resolved.
func (s *StudentService) List(ctx context.Context, filter StudentFilter) []models.StudentView {
	names := classNames(s.register.Classes())
	search := strings.TrimSpace(filter.Search)
	needle := strings.ToLower(search)

	out := make([]models.StudentView, 0)
	for _, st := range s.register.Students() {
		if filter.ClassID != "" && st.ClassID != filter.ClassID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(st.Name), needle) && !strings.Contains(st.NIS, search) {
			continue
		}
		out = append(out, models.StudentView{Student: st, ClassName: names[st.ClassID]})
	}
	return out
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentView, error) {
	st, ok := s.register.FindStudent(id)
	if !ok {
		return nil, errStudentNotFound
	}
	view := models.StudentView{Student: st}
	if class, ok := s.register.FindClass(st.ClassID); ok {
		view.ClassName = class.Name
	}
	return &view, nil
}

// Create stores a student. The class reference is not checked against the store.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "NIS, nama dan kelas wajib diisi")
	}
	student := models.Student{
		NIS:     strings.TrimSpace(req.NIS),
		Name:    strings.TrimSpace(req.Name),
		ClassID: strings.TrimSpace(req.ClassID),
	}
	if _, ok := s.register.FindClass(student.ClassID); !ok {
		s.logger.Warn("student assigned to unknown class", zap.String("class_id", student.ClassID))
	}

	var stored *models.Student
	if err := storeCall(s.metrics, s.logger, tableStudents, "insert", nil, func() (err error) {
		stored, err = s.store.Insert(ctx, student)
		return err
	}); err != nil {
		return nil, err
	}

	s.register.AddStudent(*stored)
	s.cache.InvalidateDerived(ctx)
	return stored, nil
}

func (s *StudentService) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "NIS, nama dan kelas wajib diisi")
	}
	for _, field := range []*string{patch.NIS, patch.Name, patch.ClassID} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}

	var stored *models.Student
	if err := storeCall(s.metrics, s.logger, tableStudents, "update", errStudentNotFound, func() (err error) {
		stored, err = s.store.Update(ctx, id, patch)
		return err
	}); err != nil {
		return nil, err
	}

	if !s.register.PutStudent(*stored) {
		s.register.AddStudent(*stored)
	}
	s.cache.InvalidateDerived(ctx)
	return stored, nil
}

// Delete removes the student. Attendance rows are not deleted here.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := storeCall(s.metrics, s.logger, tableStudents, "delete", errStudentNotFound, func() error {
		return s.store.Delete(ctx, id)
	}); err != nil {
		return err
	}
	s.register.RemoveStudent(id)
	s.cache.InvalidateDerived(ctx)
	return nil
}

func classNames(classes []models.ClassRoom) map[string]string {
	names := make(map[string]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return names
}
