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

// CreateClassRequest captures creation payload.
type CreateClassRequest struct {
	Name           string  `json:"name" validate:"required,notblank"`
	TeacherName    *string `json:"teacherName"`
	TeacherNIP     *string `json:"teacherNip"`
	HeadmasterName *string `json:"headmasterName"`
	HeadmasterNIP  *string `json:"headmasterNip"`
}

var errClassNotFound = appErrors.Clone(appErrors.ErrNotFound, "class not found")

// ClassService writes classes to the store first and mirrors successful writes in the register.
type ClassService struct {
	store     classStore
	register  *state.Register
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewClassService(store classStore, register *state.Register, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{store: store, register: register, cache: cache, metrics: metrics, validator: registerValidations(validate), logger: logger}
}

func (s *ClassService) List(ctx context.Context) []models.ClassRoom {
	return s.register.Classes()
}

func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassRoom, error) {
	class, ok := s.register.FindClass(id)
	if !ok {
		return nil, errClassNotFound
	}
	return &class, nil
}

func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "nama kelas wajib diisi")
	}
	class := models.ClassRoom{
		Name:           strings.TrimSpace(req.Name),
		TeacherName:    trimmedOrNil(req.TeacherName),
		TeacherNIP:     trimmedOrNil(req.TeacherNIP),
		HeadmasterName: trimmedOrNil(req.HeadmasterName),
		HeadmasterNIP:  trimmedOrNil(req.HeadmasterNIP),
	}

	var stored *models.ClassRoom
	if err := storeCall(s.metrics, s.logger, tableClasses, "insert", nil, func() (err error) {
		stored, err = s.store.Insert(ctx, class)
		return err
	}); err != nil {
		return nil, err
	}

	s.register.AddClass(*stored)
	s.cache.InvalidateDerived(ctx)
	return stored, nil
}

// Update applies patch. Optional fields sent as blank strings are cleared.
func (s *ClassService) Update(ctx context.Context, id string, patch models.ClassPatch) (*models.ClassRoom, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "nama kelas wajib diisi")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	patch.TeacherName = blankToEmpty(patch.TeacherName)
	patch.TeacherNIP = blankToEmpty(patch.TeacherNIP)
	patch.HeadmasterName = blankToEmpty(patch.HeadmasterName)
	patch.HeadmasterNIP = blankToEmpty(patch.HeadmasterNIP)

	var stored *models.ClassRoom
	if err := storeCall(s.metrics, s.logger, tableClasses, "update", errClassNotFound, func() (err error) {
		stored, err = s.store.Update(ctx, id, patch)
		return err
	}); err != nil {
		return nil, err
	}

	if !s.register.PutClass(*stored) {
		s.register.AddClass(*stored)
	}
	s.cache.InvalidateDerived(ctx)
	return stored, nil
}

// Delete removes the class. Its students and their attendance are left untouched.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := storeCall(s.metrics, s.logger, tableClasses, "delete", errClassNotFound, func() error {
		return s.store.Delete(ctx, id)
	}); err != nil {
		return err
	}
	s.register.RemoveClass(id)
	s.cache.InvalidateDerived(ctx)
	return nil
}

func blankToEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
