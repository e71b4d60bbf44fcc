package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/prolink-edu/scholarship-api/api/swagger"
	"github.com/prolink-edu/scholarship-api/internal/handler"
	"github.com/prolink-edu/scholarship-api/internal/middleware"
	"github.com/prolink-edu/scholarship-api/internal/models"
	"github.com/prolink-edu/scholarship-api/internal/repository"
	"github.com/prolink-edu/scholarship-api/internal/service"
	"github.com/prolink-edu/scholarship-api/pkg/cache"
	"github.com/prolink-edu/scholarship-api/pkg/config"
	"github.com/prolink-edu/scholarship-api/pkg/database"
	"github.com/prolink-edu/scholarship-api/pkg/logger"
	corsmiddleware "github.com/prolink-edu/scholarship-api/pkg/middleware/cors"
	reqidmiddleware "github.com/prolink-edu/scholarship-api/pkg/middleware/requestid"
)

// @title Scholarship API
// @version 1.0.0
// @description Scholarship application eligibility and lifecycle service
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The catalog degrades to direct reads without a cache.
		logr.Sugar().Warnw("redis unavailable, featured cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	popularitySvc := service.NewPopularityService(scholarshipRepo, logr, 2)
	popularitySvc.Start(context.Background())
	defer popularitySvc.Stop()

	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	profileSvc := service.NewProfileService(profileRepo, userRepo, validate, logr)
	scholarshipSvc := service.NewScholarshipService(scholarshipRepo, redisClient, cfg.Catalog, validate, logr, metricsSvc)
	applicationSvc := service.NewApplicationService(applicationRepo, scholarshipRepo, userRepo, profileRepo, popularitySvc, validate, logr, cfg.Apply.MaxRetries)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		reportSvc = service.NewReportService(applicationRepo, logr, metricsSvc)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	scholarshipHandler := handler.NewScholarshipHandler(scholarshipSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc, metricsSvc)
	adminHandler := handler.NewAdminHandler(scholarshipSvc, applicationSvc, reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	scholarships := api.Group("/scholarships")
	{
		scholarships.GET("", scholarshipHandler.List)
		scholarships.GET("/featured", scholarshipHandler.Featured)
		scholarships.GET("/:id", scholarshipHandler.Get)
	}

	student := api.Group("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleStudent, models.RoleAdmin))
	{
		student.GET("/profile", profileHandler.Get)
		student.PATCH("/profile", profileHandler.Update)
		student.POST("/applications", applicationHandler.Apply)
		student.GET("/applications", applicationHandler.List)
	}

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/scholarships/merit", adminHandler.CreateMeritScholarship)
		admin.POST("/scholarships/need", adminHandler.CreateNeedScholarship)
		admin.PUT("/scholarships/merit/:id", adminHandler.UpdateMeritScholarship)
		admin.PUT("/scholarships/need/:id", adminHandler.UpdateNeedScholarship)
		admin.DELETE("/scholarships/:id", adminHandler.DeleteScholarship)
		admin.GET("/scholarships/:id/applicants", adminHandler.ListApplicants)
		admin.PATCH("/applications/:id/status", adminHandler.ReviewApplication)
		admin.GET("/reports/scholarships", adminHandler.ScholarshipReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
