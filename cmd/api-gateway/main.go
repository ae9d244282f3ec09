package main

import (
	"context"
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

	_ "github.com/noah-isme/sma-seating-api/api/swagger"
	"github.com/noah-isme/sma-seating-api/internal/handler"
	"github.com/noah-isme/sma-seating-api/internal/middleware"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/repository"
	"github.com/noah-isme/sma-seating-api/internal/service"
	"github.com/noah-isme/sma-seating-api/pkg/cache"
	"github.com/noah-isme/sma-seating-api/pkg/config"
	"github.com/noah-isme/sma-seating-api/pkg/database"
	"github.com/noah-isme/sma-seating-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-seating-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-seating-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-seating-api/pkg/storage"
)

// @title SMA Seating API
// @version 0.1.0
// @description Seating arrangement service: grid sessions, auto-placement and chart exports
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	arrangementRepo := repository.NewArrangementRepository(db)
	conditionRepo := repository.NewConditionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Seating.CacheTTL, logr, cfg.Seating.CacheEnabled)
	seatingSvc := service.NewSeatingService(arrangementRepo, logr, metricsSvc, service.SeatingConfig{
		SessionTTL: cfg.Seating.SessionTTL,
	})
	arrangementSvc := service.NewArrangementService(arrangementRepo, conditionRepo, studentRepo, cacheSvc, seatingSvc, validate, logr, service.ArrangementConfig{
		DefaultSeatCount: cfg.Seating.DefaultSeatCount,
		MaxSeatCount:     cfg.Seating.MaxSeatCount,
	})
	placementSvc := service.NewPlacementService(arrangementRepo, conditionRepo, seatingSvc, validate, logr, metricsSvc, service.PlacementConfig{
		ProposalTTL: cfg.Solver.ProposalTTL,
		FrontSeats:  cfg.Solver.FrontSeats,
		BackSeats:   cfg.Solver.BackSeats,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(seatingSvc, store, signer, logr, service.ExportConfig{
			WorkerConcurrency: cfg.Exports.WorkerConcurrency,
			WorkerRetries:     cfg.Exports.WorkerRetries,
			RetentionTTL:      cfg.Exports.RetentionTTL,
		})
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	arrangementHandler := handler.NewArrangementHandler(arrangementSvc)
	seatingHandler := handler.NewSeatingHandler(seatingSvc)
	placementHandler := handler.NewPlacementHandler(placementSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)

	api.GET("/arrangements", staff, arrangementHandler.List)
	api.POST("/arrangement-events", staff, arrangementHandler.Create)
	api.GET("/arrangement-events/deactivated", staff, arrangementHandler.Deactivated)
	api.POST("/arrangement-events/:id/deactivate", staff, arrangementHandler.Deactivate)
	api.POST("/arrangement-events/:id/reactivate", staff, arrangementHandler.Reactivate)

	api.GET("/courses/:courseId/students", staff, arrangementHandler.Students)
	api.GET("/courses/:courseId/conditions", staff, arrangementHandler.Conditions)
	api.POST("/courses/:courseId/conditions", staff, arrangementHandler.CreateCondition)
	api.DELETE("/conditions/:id", staff, arrangementHandler.DeleteCondition)

	api.GET("/arrangements/:id/grid", staff, seatingHandler.Grid)
	api.POST("/arrangements/:id/grid/seat-click", staff, seatingHandler.SeatClick)
	api.POST("/arrangements/:id/grid/roster-click", staff, seatingHandler.RosterClick)
	api.POST("/arrangements/:id/grid/drag-drop", staff, seatingHandler.DragDrop)
	api.POST("/arrangements/:id/grid/clear", staff, seatingHandler.Clear)
	api.POST("/arrangements/:id/grid/save", staff, seatingHandler.Save)

	api.POST("/placements/generate", staff, placementHandler.Generate)
	api.POST("/placements/apply", staff, placementHandler.Apply)

	if exportSvc != nil {
		exportHandler := handler.NewExportHandler(exportSvc)
		api.POST("/arrangements/:id/export", staff, exportHandler.Export)
		// downloads authenticate via the signed token, not the bearer header
		r.GET(cfg.APIPrefix+"/exports/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}
