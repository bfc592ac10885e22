package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

type fakeExportSrv struct {
	job       *models.ExportJob
	download  *service.ExportDownload
	err       error
	lastToken string
}

func (f *fakeExportSrv) Request(_ context.Context, params models.ReportParams) (*models.ExportJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ExportJob{ID: "exp-1", Params: params, Status: models.ExportQueued}, nil
}

func (f *fakeExportSrv) Status(context.Context, string) (*models.ExportJob, error) {
	return f.job, f.err
}

func (f *fakeExportSrv) Resolve(_ context.Context, token string) (*service.ExportDownload, error) {
	f.lastToken = token
	return f.download, f.err
}

func TestExportHandlerRequestAccepted(t *testing.T) {
	h := NewExportHandler(&fakeExportSrv{})
	c, rec := newTestContext(http.MethodPost, "/exports", jsonBody(`{"kind":"monthly","format":"xlsx","classId":"c1","month":5,"year":2024}`))

	h.Request(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"queued"`)
}

func TestExportHandlerDownload(t *testing.T) {
	srv := &fakeExportSrv{download: &service.ExportDownload{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}}
	h := NewExportHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/exports/download/tok", nil)
	c.AddParam("token", "tok")

	h.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", srv.lastToken)
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestExportHandlerDownloadForbidden(t *testing.T) {
	h := NewExportHandler(&fakeExportSrv{err: appErrors.Clone(appErrors.ErrForbidden, "invalid download link")})
	c, rec := newTestContext(http.MethodGet, "/exports/download/bad", nil)
	c.AddParam("token", "bad")

	h.Download(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
