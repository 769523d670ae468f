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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/edulytics/grade-analytics-api/api/swagger"
	"github.com/edulytics/grade-analytics-api/internal/engine"
	"github.com/edulytics/grade-analytics-api/internal/handler"
	"github.com/edulytics/grade-analytics-api/internal/middleware"
	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/internal/repository"
	"github.com/edulytics/grade-analytics-api/internal/service"
	"github.com/edulytics/grade-analytics-api/pkg/cache"
	"github.com/edulytics/grade-analytics-api/pkg/config"
	"github.com/edulytics/grade-analytics-api/pkg/database"
	"github.com/edulytics/grade-analytics-api/pkg/logger"
	corsmiddleware "github.com/edulytics/grade-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edulytics/grade-analytics-api/pkg/middleware/requestid"
)

// @title Grade Analytics API
// @version 1.0.0
// @description Grade averages, statistics, trends and predictions for the 1-10 grading scale
// @BasePath /api/v1
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

	metrics := service.NewMetricsService()

	cacheRepo, closeCache := newCacheRepository(cfg, logr)
	defer closeCache()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Engine.CacheTTL, logr, true)

	var accelerated engine.Accelerator
	if cfg.Accelerator.Enabled {
		accelerated = engine.NewAcceleratedBackend(cfg.Accelerator)
	}
	gateway := engine.NewGateway(engine.NewPureBackend(), accelerated, logr, metrics.RecordFallback)

	scale := models.GradeScale{
		MaxGrade:     cfg.Engine.MaxGrade,
		PassingGrade: cfg.Engine.PassingGrade,
		GPAMax:       cfg.Engine.GPAMax,
	}
	analyticsSvc := service.NewAnalyticsService(gateway, cacheSvc, metrics, logr, cfg.Engine.CacheTTL, scale)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	analyticsSvc.Init(initCtx)
	cancelInit()

	validate := validator.New()
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		Clients:    cfg.Auth.Clients,
	})

	var gradeSvc *service.GradeService
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		gradeSvc = service.NewGradeService(repository.NewGradeRepository(db), cacheSvc, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"accelerator": gateway.State().String(),
		})
	})

	metricsHandler := handler.NewMetricsHandler(metrics)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/token", authHandler.Token)

	// With no clients provisioned the API is open, but presented tokens
	// still attach their claims for request logging.
	protected := api.Group("")
	if len(cfg.Auth.Clients) > 0 {
		protected.Use(middleware.JWT(authSvc))
	} else {
		protected.Use(middleware.OptionalJWT(authSvc))
	}

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	analytics := protected.Group("/analytics")
	{
		analytics.POST("/average", analyticsHandler.Average)
		analytics.POST("/weighted-average", analyticsHandler.WeightedAverage)
		analytics.POST("/gpa", analyticsHandler.GPA)
		analytics.POST("/subject", analyticsHandler.SubjectSummary)
		analytics.POST("/subjects", analyticsHandler.Subjects)
		analytics.POST("/statistics", analyticsHandler.Statistics)
		analytics.POST("/trend", analyticsHandler.Trend)
		analytics.POST("/correlation", analyticsHandler.Correlation)
		analytics.POST("/prediction/next", analyticsHandler.PredictNext)
		analytics.POST("/prediction/needed", analyticsHandler.PredictNeeded)
		analytics.POST("/prediction/final", analyticsHandler.PredictFinal)
		analytics.POST("/prediction/pass-probability", analyticsHandler.PassProbability)
		analytics.POST("/whatif", analyticsHandler.WhatIf)
		analytics.POST("/impact", analyticsHandler.Impact)
		analytics.POST("/targets", analyticsHandler.Targets)
		analytics.POST("/pass-fail", analyticsHandler.PassFail)
		analytics.POST("/running-average", analyticsHandler.RunningAverage)
		analytics.POST("/distribution", analyticsHandler.Distribution)
		analytics.POST("/report", analyticsHandler.Report)
		analytics.GET("/system", analyticsHandler.System)
	}

	if gradeSvc != nil {
		gradeHandler := handler.NewGradeHandler(gradeSvc)
		grades := protected.Group("/grades")
		{
			grades.POST("", gradeHandler.Add)
			grades.POST("/bulk", gradeHandler.BulkAdd)
			grades.GET("", gradeHandler.List)
			grades.GET("/subjects", gradeHandler.Subjects)
		}

		if cfg.Exports.Enabled {
			exportHandler := handler.NewExportHandler(service.NewExportService(analyticsSvc, logr), gradeSvc)
			exports := protected.Group("/export")
			{
				exports.GET("/report.csv", exportHandler.ReportCSV)
				exports.GET("/report.pdf", exportHandler.ReportPDF)
			}
		}
	} else {
		logr.Info("database disabled, grade history and export endpoints not mounted")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("accelerator", gateway.State().String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown interrupted", zap.Error(err))
	}
	logr.Info("server stopped")
}

// newCacheRepository selects the result-cache backend. The in-process cache is
// the default; Redis is opt-in for multi-instance deployments. Falls back to
// memory when Redis is unreachable.
func newCacheRepository(cfg *config.Config, logr *zap.Logger) (service.CacheRepository, func()) {
	if cfg.Engine.CacheBackend == config.CacheBackendRedis {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-memory result cache", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			return repo, func() { _ = repo.Close() }
		}
	}
	return repository.NewMemoryCacheRepository(), func() {}
}
