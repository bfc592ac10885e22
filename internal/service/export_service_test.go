package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
	"github.com/noah-isme/absensi-tk-api/pkg/storage"
)

type failingRenderer struct{ calls int }

func (f *failingRenderer) CheckParams(models.ReportParams) error { return nil }

func (f *failingRenderer) Render(context.Context, models.ReportParams) (*RenderedReport, error) {
	f.calls++
	return nil, errors.New("renderer exploded")
}

func newExportServiceForTest(t *testing.T, reports reportRenderer) *ExportService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(reports, files, signer, ExportConfig{APIPrefix: "/api/v1", RetryDelay: 10 * time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		svc.Stop()
		cancel()
	})
	return svc
}

func waitForExport(t *testing.T, svc *ExportService, id string, want models.ExportStatus) *models.ExportJob {
	t.Helper()
	var job *models.ExportJob
	require.Eventually(t, func() bool {
		var err error
		job, err = svc.Status(context.Background(), id)
		return err == nil && job.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return job
}

func TestExportServiceRendersAndSignsDownload(t *testing.T) {
	svc := newExportServiceForTest(t, newReportServiceForTest())

	queued, err := svc.Request(context.Background(), models.ReportParams{Kind: models.ReportDaily, Format: models.FormatCSV, ClassID: "c1", Date: "2024-05-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, queued.ID)

	job := waitForExport(t, svc, queued.ID, models.ExportFinished)
	assert.Equal(t, "Absensi_Harian_TK_A_2024-05-01.csv", job.Filename)
	require.True(t, strings.HasPrefix(job.DownloadURL, "/api/v1/exports/download/"))
	require.NotNil(t, job.ExpiresAt)

	token := strings.TrimPrefix(job.DownloadURL, "/api/v1/exports/download/")
	download, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, job.Filename, download.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", download.ContentType)
	assert.True(t, strings.HasPrefix(string(download.Data), "No;NIS;Nama"))
}

func TestExportServiceRejectsBadParamsAndTokens(t *testing.T) {
	svc := newExportServiceForTest(t, newReportServiceForTest())

	_, err := svc.Request(context.Background(), models.ReportParams{Kind: models.ReportMonthly, Format: models.FormatPDF, ClassID: "c1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Resolve(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Status(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestExportServiceMarksFailedAfterRetries(t *testing.T) {
	renderer := &failingRenderer{}
	svc := newExportServiceForTest(t, renderer)

	queued, err := svc.Request(context.Background(), models.ReportParams{Kind: models.ReportDaily, Format: models.FormatCSV, ClassID: "c1", Date: "2024-05-01"})
	require.NoError(t, err)

	job := waitForExport(t, svc, queued.ID, models.ExportFailed)
	assert.Contains(t, job.Error, "renderer exploded")
	assert.NotNil(t, job.FinishedAt)
}

func TestExportServiceCleanupForgetsExpiredJobs(t *testing.T) {
	svc := newExportServiceForTest(t, newReportServiceForTest())

	queued, err := svc.Request(context.Background(), models.ReportParams{Kind: models.ReportDaily, Format: models.FormatCSV, ClassID: "c1", Date: "2024-05-01"})
	require.NoError(t, err)
	waitForExport(t, svc, queued.ID, models.ExportFinished)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, svc.Cleanup(context.Background()))

	_, err = svc.Status(context.Background(), queued.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
