package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-tk-api/internal/middleware"
	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

type fakeClassSrv struct {
	classes []models.ClassRoom
	deleted string
}

func (f *fakeClassSrv) List(context.Context) []models.ClassRoom { return f.classes }

func (f *fakeClassSrv) Get(_ context.Context, id string) (*models.ClassRoom, error) {
	for _, c := range f.classes {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
}

func (f *fakeClassSrv) Create(_ context.Context, req service.CreateClassRequest) (*models.ClassRoom, error) {
	return &models.ClassRoom{ID: "new", Name: req.Name}, nil
}

func (f *fakeClassSrv) Update(_ context.Context, id string, patch models.ClassPatch) (*models.ClassRoom, error) {
	c := patch.Apply(models.ClassRoom{ID: id})
	return &c, nil
}

func (f *fakeClassSrv) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

type fakeStudentSrv struct {
	lastFilter service.StudentFilter
}

func (f *fakeStudentSrv) List(_ context.Context, filter service.StudentFilter) []models.StudentView {
	f.lastFilter = filter
	return []models.StudentView{{Student: models.Student{ID: "s1", Name: "Adi"}, ClassName: "TK A"}}
}

func (f *fakeStudentSrv) Get(context.Context, string) (*models.StudentView, error) {
	return nil, appErrors.ErrNotFound
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.CreateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: "s9", NIS: req.NIS, Name: req.Name, ClassID: req.ClassID}, nil
}

func (f *fakeStudentSrv) Update(context.Context, string, models.StudentPatch) (*models.Student, error) {
	return nil, appErrors.ErrNotFound
}

func (f *fakeStudentSrv) Delete(context.Context, string) error { return nil }

type fakeSyncSrv struct{ calls int }

func (f *fakeSyncSrv) Sync(context.Context) (state.Stats, error) {
	f.calls++
	return state.Stats{Loaded: true, Classes: 1}, nil
}

func (f *fakeSyncSrv) Stats() state.Stats { return state.Stats{Loaded: true} }

type fakeAuthSrv struct{}

func (fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "good", TokenType: "Bearer"}, nil
}

type guardStub struct{}

func (guardStub) Enabled() bool { return true }

func (guardStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{Username: "operator"}, nil
}

func newTestRouter(classes *fakeClassSrv, students *fakeStudentSrv, syncSrv *fakeSyncSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	RegisterRoutes(api, Handlers{
		Auth:       NewAuthHandler(fakeAuthSrv{}),
		Sync:       NewSyncHandler(syncSrv),
		Class:      NewClassHandler(classes),
		Student:    NewStudentHandler(students),
		Attendance: NewAttendanceHandler(&fakeAttendanceSrv{}),
		Dashboard:  NewDashboardHandler(&fakeDashboardSrv{summary: &service.DashboardSummary{}}),
		Report:     NewReportHandler(&fakeReportSrv{}),
		Export:     NewExportHandler(&fakeExportSrv{job: &models.ExportJob{ID: "exp-1"}}),
	}, middleware.Operator(guardStub{}))
	return router
}

func TestRoutesGuardMutations(t *testing.T) {
	classes := &fakeClassSrv{classes: []models.ClassRoom{{ID: "c1", Name: "TK A"}}}
	syncSrv := &fakeSyncSrv{}
	router := newTestRouter(classes, &fakeStudentSrv{}, syncSrv)

	rec := serve(router, http.MethodGet, "/api/v1/classes", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/classes", `{"name":"TK C"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := map[string]string{"Authorization": "Bearer good"}
	rec = serve(router, http.MethodPost, "/api/v1/classes", `{"name":"TK C"}`, auth)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodDelete, "/api/v1/classes/c1", "", auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "c1", classes.deleted)

	rec = serve(router, http.MethodPost, "/api/v1/sync", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = serve(router, http.MethodPost, "/api/v1/sync", "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, syncSrv.calls)
}

func TestRoutesReadEndpoints(t *testing.T) {
	students := &fakeStudentSrv{}
	router := newTestRouter(&fakeClassSrv{}, students, &fakeSyncSrv{})

	rec := serve(router, http.MethodGet, "/api/v1/students?search=adi&classId=c1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StudentFilter{Search: "adi", ClassID: "c1"}, students.lastFilter)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), env.Meta["total"])

	rec = serve(router, http.MethodGet, "/api/v1/classes/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/exports/exp-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/state", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/auth/login", `{"username":"operator","password":"x"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"good"`)
}
