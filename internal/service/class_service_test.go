package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

func TestClassServiceCreate(t *testing.T) {
	reg := seededRegister()
	store := &fakeClassStore{}
	svc := NewClassService(store, reg, nil, nil, NewValidator(), nil)

	class, err := svc.Create(context.Background(), CreateClassRequest{Name: "  TK C ", TeacherName: strPtr(" "), TeacherNIP: strPtr("123")})
	require.NoError(t, err)
	assert.Equal(t, "TK C", class.Name)
	assert.Nil(t, class.TeacherName)
	require.NotNil(t, class.TeacherNIP)
	assert.Equal(t, "123", *class.TeacherNIP)

	found, err := svc.Get(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Equal(t, "TK C", found.Name)
	assert.Len(t, svc.List(context.Background()), 3)
}

func TestClassServiceCreateRequiresName(t *testing.T) {
	store := &fakeClassStore{}
	svc := NewClassService(store, seededRegister(), nil, nil, NewValidator(), nil)

	_, err := svc.Create(context.Background(), CreateClassRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, store.rows)
}

func TestClassServiceUpdate(t *testing.T) {
	reg := seededRegister()
	store := &fakeClassStore{rows: reg.Classes()}
	svc := NewClassService(store, reg, nil, nil, NewValidator(), nil)

	updated, err := svc.Update(context.Background(), "c1", models.ClassPatch{Name: strPtr("TK A1"), TeacherName: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "TK A1", updated.Name)
	require.NotNil(t, updated.TeacherName)
	assert.Equal(t, "", *updated.TeacherName)

	inRegister, ok := reg.FindClass("c1")
	require.True(t, ok)
	assert.Equal(t, "TK A1", inRegister.Name)

	_, err = svc.Update(context.Background(), "nope", models.ClassPatch{Name: strPtr("x")})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceDeleteDoesNotCascade(t *testing.T) {
	reg := seededRegister()
	store := &fakeClassStore{rows: reg.Classes()}
	svc := NewClassService(store, reg, nil, nil, NewValidator(), nil)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	_, ok := reg.FindClass("c1")
	assert.False(t, ok)
	assert.Len(t, reg.Roster("c1"), 3)
	assert.Len(t, reg.Attendance(), 5)
}

func TestClassServiceStoreFailure(t *testing.T) {
	reg := seededRegister()
	svc := NewClassService(&fakeClassStore{writeErr: errors.New("down")}, reg, nil, nil, NewValidator(), nil)

	_, err := svc.Create(context.Background(), CreateClassRequest{Name: "TK C"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
	assert.Len(t, reg.Classes(), 2)

	err = svc.Delete(context.Background(), "c1")
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
	_, ok := reg.FindClass("c1")
	assert.True(t, ok)
}
