package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
	"github.com/noah-isme/absensi-tk-api/pkg/jobs"
	"github.com/noah-isme/absensi-tk-api/pkg/storage"
)

const exportJobType = "report_export"

var errExportNotFound = appErrors.Clone(appErrors.ErrNotFound, "export not found")

type reportRenderer interface {
	CheckParams(params models.ReportParams) error
	Render(ctx context.Context, params models.ReportParams) (*RenderedReport, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes the export worker pool.
type ExportConfig struct {
	APIPrefix  string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ExportDownload is a resolved signed download.
type ExportDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders reports in the background and hands out signed download links.
// Job status lives in memory only; a restart forgets queued jobs but files stay downloadable until expiry.
type ExportService struct {
	reports reportRenderer
	storage fileStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue
	cfg     ExportConfig
	logger  *zap.Logger
	now     func() time.Time

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

func NewExportService(reports reportRenderer, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	s := &ExportService{
		reports: reports,
		storage: files,
		signer:  signer,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		jobs:    make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		OnDead:     s.markFailed,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request validates params and queues a render.
func (s *ExportService) Request(ctx context.Context, params models.ReportParams) (*models.ExportJob, error) {
	if err := s.reports.CheckParams(params); err != nil {
		return nil, err
	}
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Params:    params,
		Status:    models.ExportQueued,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType, Payload: job.ID}); err != nil {
		s.markFailed(jobs.Job{ID: job.ID}, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	s.logger.Info("export queued", zap.String("export_id", job.ID), zap.String("kind", string(params.Kind)), zap.String("format", string(params.Format)))
	return s.Status(ctx, job.ID)
}

// Status returns a copy of the job.
func (s *ExportService) Status(ctx context.Context, id string) (*models.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, errExportNotFound
	}
	cp := *job
	return &cp, nil
}

// Resolve verifies a download token and loads the file it points at.
func (s *ExportService) Resolve(ctx context.Context, token string) (*ExportDownload, error) {
	claims, err := s.signer.Verify(token)
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "download link expired")
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download link")
	}
	data, err := s.storage.Read(claims.File)
	if err != nil {
		s.logger.Warn("export file unavailable", zap.String("export_id", claims.ExportID), zap.Error(err))
		return nil, errExportNotFound
	}
	return &ExportDownload{Filename: path.Base(claims.File), ContentType: contentTypeFor(claims.File), Data: data}, nil
}

// Cleanup removes files older than the download TTL and forgets expired jobs.
func (s *ExportService) Cleanup(ctx context.Context) error {
	removed, err := s.storage.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return fmt.Errorf("cleanup exports: %w", err)
	}
	now := s.now()
	forgotten := 0
	s.mu.Lock()
	for id, job := range s.jobs {
		if job.ExpiresAt != nil && now.After(*job.ExpiresAt) {
			delete(s.jobs, id)
			forgotten++
		}
	}
	s.mu.Unlock()
	s.logger.Info("exports cleaned up", zap.Int("files", len(removed)), zap.Int("jobs", forgotten))
	return nil
}

func (s *ExportService) process(ctx context.Context, j jobs.Job) error {
	id, _ := j.Payload.(string)
	s.mu.Lock()
	job, ok := s.jobs[id]
	if ok {
		job.Status = models.ExportProcessing
	}
	var params models.ReportParams
	if ok {
		params = job.Params
	}
	s.mu.Unlock()
	if !ok {
		s.logger.Warn("export job vanished", zap.String("export_id", id))
		return nil
	}

	rendered, err := s.reports.Render(ctx, params)
	if err != nil {
		return err
	}
	file, err := s.storage.Save(id+"/"+rendered.Filename, rendered.Data)
	if err != nil {
		return err
	}
	token, expiresAt, err := s.signer.Sign(id, file)
	if err != nil {
		return err
	}

	finished := s.now().UTC()
	s.mu.Lock()
	job.Status = models.ExportFinished
	job.Filename = rendered.Filename
	job.File = file
	job.DownloadURL = strings.TrimRight(s.cfg.APIPrefix, "/") + "/exports/download/" + token
	job.ExpiresAt = &expiresAt
	job.FinishedAt = &finished
	job.Error = ""
	s.mu.Unlock()

	s.logger.Info("export finished", zap.String("export_id", id), zap.String("file", file))
	return nil
}

func (s *ExportService) markFailed(j jobs.Job, err error) {
	finished := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[j.ID]; ok {
		job.Status = models.ExportFailed
		job.Error = err.Error()
		job.FinishedAt = &finished
	}
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
