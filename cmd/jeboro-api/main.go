package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jeboro/jeboro-api/api/swagger"
	"github.com/jeboro/jeboro-api/internal/handler"
	"github.com/jeboro/jeboro-api/internal/middleware"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	"github.com/jeboro/jeboro-api/internal/service"
	"github.com/jeboro/jeboro-api/pkg/cache"
	"github.com/jeboro/jeboro-api/pkg/config"
	"github.com/jeboro/jeboro-api/pkg/database"
	"github.com/jeboro/jeboro-api/pkg/jobs"
	"github.com/jeboro/jeboro-api/pkg/logger"
	corsmiddleware "github.com/jeboro/jeboro-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jeboro/jeboro-api/pkg/middleware/requestid"
	"github.com/jeboro/jeboro-api/pkg/storage"
)

// @title Jeboro API
// @version 1.0.0
// @description Anonymous tip platform with embargoed exclusive reporting
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}
	uploadSigner := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	pickRepo := repository.NewPickRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Handlers are registered after the services that enqueue onto the queue
	// exist, so dispatch goes through a late-bound table.
	jobHandlers := map[string]jobs.Handler{}
	queue := jobs.NewQueue("background", func(ctx context.Context, job jobs.Job) error {
		h, ok := jobHandlers[job.Type]
		if !ok {
			logr.Warn("no handler for job type", zap.String("type", job.Type))
			return nil
		}
		return h(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})

	oauthProviders := make([]models.AuthProvider, 0, 3)
	for _, name := range cfg.OAuth.EnabledProviders() {
		oauthProviders = append(oauthProviders, models.AuthProvider(name))
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		EnabledProviders:   oauthProviders,
	})
	reportService := service.NewReportService(reportRepo, pickRepo, cacheRepo, queue, metrics, validate, logr, service.ReportServiceConfig{
		EmbargoDuration: cfg.Embargo.Duration,
		FeedCacheTTL:    cfg.Feed.CacheTTL,
	})
	pickService := service.NewPickService(pickRepo, reportRepo, userRepo, metrics, logr)
	embargoService := service.NewEmbargoService(reportRepo, cacheRepo, metrics, logr)
	userService := service.NewUserService(userRepo, reportRepo, logr)
	uploadService := service.NewUploadService(uploadStore, uploadSigner, logr, service.UploadServiceConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})
	gateway := service.NewTossGateway(cfg.Payments.ConfirmURL, cfg.Payments.SecretKey, cfg.Payments.Sandbox, cfg.Payments.Timeout)
	paymentService := service.NewPaymentService(paymentRepo, gateway, validate, logr)
	exportService := service.NewExportService(exportRepo, reportRepo, queue, exportStore, exportSigner, validate, logr)

	jobHandlers[service.ReputationJobType] = userService.ReputationJobHandler()
	jobHandlers[service.ExportJobType] = exportService.JobHandler()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()

	if cfg.Cron.SweepEnabled {
		go embargoService.Run(ctx, cfg.Cron.SweepInterval)
	}

	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	pickHandler := handler.NewPickHandler(pickService)
	cronHandler := handler.NewCronHandler(embargoService)
	userHandler := handler.NewUserHandler(userService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metrics, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/cron/embargo", middleware.CronAuth(cfg.Cron.Secret), cronHandler.Sweep)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(authService)
	optionalAuth := middleware.OptionalJWT(authService)
	requireReporter := middleware.RequireRoles(models.RoleReporter, models.RoleAdmin)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/login", authHandler.Login)
		auth.POST("/oauth", authHandler.OAuthLogin)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", requireAuth, authHandler.Logout)

		api.GET("/reports", optionalAuth, reportHandler.List)
		api.GET("/reports/:id", optionalAuth, reportHandler.Get)
		api.POST("/reports", requireAuth, reportHandler.Create)

		api.POST("/picks", requireAuth, requireReporter, pickHandler.Create)
		api.GET("/picks", requireAuth, requireReporter, pickHandler.ListByReport)

		api.POST("/upload", requireAuth, uploadHandler.Upload)
		api.GET("/uploads/:token", uploadHandler.Download)

		api.POST("/payments", requireAuth, paymentHandler.Confirm)

		api.GET("/users/me", requireAuth, userHandler.Me)

		api.GET("/admin/exports/download/:token", exportHandler.Download)

		admin := api.Group("/admin", requireAuth, middleware.RequireRoles(models.RoleAdmin))
		admin.GET("/reports", reportHandler.ListForReview)
		admin.PATCH("/reports/:id/status", reportHandler.UpdateStatus)
		admin.POST("/exports", exportHandler.Create)
		admin.GET("/exports/:id", exportHandler.Status)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
