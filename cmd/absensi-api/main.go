package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/absensi-tk-api/api/swagger"
	"github.com/noah-isme/absensi-tk-api/internal/handler"
	internalmiddleware "github.com/noah-isme/absensi-tk-api/internal/middleware"
	"github.com/noah-isme/absensi-tk-api/internal/repository"
	"github.com/noah-isme/absensi-tk-api/internal/service"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	"github.com/noah-isme/absensi-tk-api/pkg/cache"
	"github.com/noah-isme/absensi-tk-api/pkg/config"
	"github.com/noah-isme/absensi-tk-api/pkg/database"
	"github.com/noah-isme/absensi-tk-api/pkg/jobs"
	"github.com/noah-isme/absensi-tk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/absensi-tk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/absensi-tk-api/pkg/middleware/requestid"
	"github.com/noah-isme/absensi-tk-api/pkg/storage"
)

// @title Absensi TK API
// @version 1.0.0
// @description Kindergarten attendance register: classes, students, daily rosters and printable recaps.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		logr.Sugar().Warnw("unknown timezone, falling back to UTC", "timezone", cfg.Sync.Timezone, "error", err)
		loc = time.UTC
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var (
		redisClient *redis.Client
		cacheRepo   service.CacheRepository
	)
	cacheEnabled := cfg.Dashboard.CacheEnabled
	if cacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			cacheEnabled = false
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheEnabled)

	validate := service.NewValidator()
	register := state.New()

	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	syncSvc := service.NewSyncService(classRepo, studentRepo, attendanceRepo, register, cacheSvc, metrics, logr)
	classSvc := service.NewClassService(classRepo, register, cacheSvc, metrics, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, register, cacheSvc, metrics, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, register, cacheSvc, metrics, validate, logr)
	dashboardSvc := service.NewDashboardService(register, cacheSvc, cfg.Dashboard.CacheTTL, loc, logr)
	reportSvc := service.NewReportService(register, cacheSvc, metrics, validate, service.ReportConfig{
		SchoolTitle: cfg.Reports.SchoolTitle,
		City:        cfg.Reports.City,
		CacheTTL:    cfg.Dashboard.CacheTTL,
	}, logr)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "dir", cfg.Exports.StorageDir, "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(reportSvc, files, signer, service.ExportConfig{
		APIPrefix:  cfg.APIPrefix,
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	}, logr)

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Enabled:           cfg.Auth.Enabled,
		OperatorUsername:  cfg.Auth.OperatorUsername,
		PasswordHash:      cfg.Auth.PasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})

	if cfg.Sync.OnStart {
		syncCtx, cancel := context.WithTimeout(ctx, cfg.Sync.Timeout)
		stats, err := syncSvc.Sync(syncCtx)
		cancel()
		if err != nil {
			logr.Sugar().Warnw("initial sync failed, serving empty register until next sync", "error", err)
		} else {
			logr.Sugar().Infow("register loaded", "classes", stats.Classes, "students", stats.Students, "attendance", stats.Attendance)
		}
	}

	scheduler := jobs.NewScheduler(logr, cfg.Sync.Timeout, loc)
	if err := scheduler.Register("sync", cfg.Sync.Cron, func(ctx context.Context) error {
		_, err := syncSvc.Sync(ctx)
		return err
	}); err != nil {
		logr.Sugar().Fatalw("invalid sync schedule", "error", err)
	}
	if err := scheduler.Register("exports_cleanup", cfg.Exports.CleanupCron, exportSvc.Cleanup); err != nil {
		logr.Sugar().Fatalw("invalid cleanup schedule", "error", err)
	}
	scheduler.Start()
	exportSvc.Start(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metrics, syncSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Sync:       handler.NewSyncHandler(syncSvc),
		Class:      handler.NewClassHandler(classSvc),
		Student:    handler.NewStudentHandler(studentSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Export:     handler.NewExportHandler(exportSvc),
	}, internalmiddleware.Operator(authSvc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "auth", authSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	exportSvc.Stop()
}
