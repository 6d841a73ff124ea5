package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorhive/tutorplan-api/api/swagger"
	"github.com/tutorhive/tutorplan-api/internal/handler"
	"github.com/tutorhive/tutorplan-api/internal/middleware"
	"github.com/tutorhive/tutorplan-api/internal/repository"
	"github.com/tutorhive/tutorplan-api/internal/service"
	"github.com/tutorhive/tutorplan-api/pkg/cache"
	"github.com/tutorhive/tutorplan-api/pkg/config"
	"github.com/tutorhive/tutorplan-api/pkg/database"
	"github.com/tutorhive/tutorplan-api/pkg/logger"
	corsmiddleware "github.com/tutorhive/tutorplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorhive/tutorplan-api/pkg/middleware/requestid"
	"github.com/tutorhive/tutorplan-api/pkg/storage"
)

// @title TutorPlan API
// @version 1.0.0
// @description Conflict-aware weekly tutoring timetable generator
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

	validate := validator.New()
	metrics := service.NewMetricsService()

	var proposals service.ProposalStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		proposals = service.NewRedisProposalStore(redisClient, cfg.Scheduler.ProposalTTL)
	} else {
		proposals = service.NewMemoryProposalStore(cfg.Scheduler.ProposalTTL)
	}

	generator := service.NewScheduleGeneratorService(validate, logr, metrics, proposals)

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	availability := service.NewAvailabilityService(uploadStore, logr)

	var store *service.ScheduleStoreService
	var exporter *service.ExportService
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close() //nolint:errcheck

		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}

		repo := repository.NewSavedScheduleRepository(db)
		store = service.NewScheduleStoreService(repo, generator, validate, logr)
		exporter = service.NewExportService(store, exportStore, logr)
		exporter.PruneStaleCopies(cfg.Exports.RetentionTTL)
	}

	scheduleHandler := handler.NewScheduleHandler(generator, store, exporter)
	availabilityHandler := handler.NewAvailabilityHandler(availability)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/schedule/generate", scheduleHandler.Generate)
	api.POST("/availability/upload", availabilityHandler.Upload)
	api.GET("/availability/files", availabilityHandler.ListFiles)
	api.GET("/availability/files/:student", availabilityHandler.GetStudent)
	api.DELETE("/availability/files/:student", availabilityHandler.DeleteStudent)

	if cfg.Database.Enabled {
		api.POST("/schedule/save", scheduleHandler.Save)
		api.GET("/schedules", scheduleHandler.List)
		api.GET("/schedules/:id", scheduleHandler.Get)
		api.POST("/schedules/:id/archive", scheduleHandler.Archive)
		api.DELETE("/schedules/:id", scheduleHandler.Delete)
		api.GET("/schedules/:id/export", scheduleHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "persistence", cfg.Database.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
