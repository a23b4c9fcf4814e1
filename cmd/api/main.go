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

	_ "github.com/unisched/course-scheduler-api/api/swagger"
	"github.com/unisched/course-scheduler-api/internal/handler"
	"github.com/unisched/course-scheduler-api/internal/middleware"
	"github.com/unisched/course-scheduler-api/internal/repository"
	"github.com/unisched/course-scheduler-api/internal/service"
	"github.com/unisched/course-scheduler-api/pkg/cache"
	"github.com/unisched/course-scheduler-api/pkg/config"
	"github.com/unisched/course-scheduler-api/pkg/database"
	"github.com/unisched/course-scheduler-api/pkg/logger"
	corsmiddleware "github.com/unisched/course-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unisched/course-scheduler-api/pkg/middleware/requestid"
)

// @title Course Scheduler API
// @version 1.0.0
// @description Deterministic course timetabling service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, grid caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()

	instructorRepo := repository.NewInstructorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "course-scheduler",
	})
	schedulerService := service.NewSchedulerService(db, service.SchedulerRepos{
		Sections:    sectionRepo,
		Departments: departmentRepo,
		Instructors: instructorRepo,
		Courses:     courseRepo,
		Rooms:       roomRepo,
		TimeSlots:   timeSlotRepo,
		Assignments: assignmentRepo,
	}, cacheRepo, validate, logr, cfg.Scheduler.GridCacheTTL).WithMetrics(metricsService)

	instructorService := service.NewInstructorService(instructorRepo, validate, logr).WithAssignmentGuard(assignmentRepo)
	courseService := service.NewCourseService(courseRepo, instructorRepo, validate, logr).WithAssignmentGuard(assignmentRepo)
	roomService := service.NewRoomService(roomRepo, validate, logr).WithAssignmentGuard(assignmentRepo)
	departmentService := service.NewDepartmentService(departmentRepo, courseRepo, validate, logr).WithSectionGuard(sectionRepo)
	sectionService := service.NewSectionService(db, sectionRepo, departmentRepo, assignmentRepo, instructorRepo, cacheRepo, validate, logr)
	timeSlotService := service.NewTimeSlotService(timeSlotRepo, validate, logr).WithAssignmentGuard(assignmentRepo)
	exportService := service.NewExportService(schedulerService, sectionRepo, logr)
	seedService := service.NewSeedService(service.SeedRepos{
		Instructors: instructorRepo,
		Courses:     courseRepo,
		Rooms:       roomRepo,
		Departments: departmentRepo,
		Sections:    sectionRepo,
		TimeSlots:   timeSlotRepo,
	}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Schedule:    handler.NewScheduleHandler(schedulerService),
		Instructors: handler.NewInstructorHandler(instructorService),
		Courses:     handler.NewCourseHandler(courseService),
		Rooms:       handler.NewRoomHandler(roomService),
		Departments: handler.NewDepartmentHandler(departmentService),
		Sections:    handler.NewSectionHandler(sectionService),
		TimeSlots:   handler.NewTimeSlotHandler(timeSlotService),
		Exports:     handler.NewExportHandler(exportService),
		Admin:       handler.NewAdminHandler(seedService, cfg.Seed.Enabled),
		Metrics:     handler.NewMetricsHandler(metricsService),
	}, authService)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Warn("failed to close redis", zap.Error(err))
	}
}
