package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursecraft/lms/internal/clients/billing"
	"github.com/coursecraft/lms/internal/clients/video"
	"github.com/coursecraft/lms/internal/handlers"
	"github.com/coursecraft/lms/internal/jobs"
	"github.com/coursecraft/lms/internal/leaderboard"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/repositories"
	"github.com/coursecraft/lms/internal/services"
	"github.com/coursecraft/lms/libs/auth/middleware"
	"github.com/coursecraft/lms/libs/auth/service"
	"github.com/coursecraft/lms/libs/config"
	"github.com/coursecraft/lms/libs/logger"
	loggerMiddleware "github.com/coursecraft/lms/libs/logger/middleware"
	sharedMiddleware "github.com/coursecraft/lms/libs/middlewares"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/coursecraft/lms/docs"
)

// @title CourseCraft LMS API
// @version 1.0
// @description Course authoring, student playback, gamification and licensing API

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CourseCraft API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis (leaderboard cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// the leaderboard falls back to MySQL, so Redis is not fatal here
		logger.Logger.Warn("Redis is not reachable", zap.Error(err))
	}

	// Asynq client for e-mail tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// SaaS clients
	billingClient := billing.NewClient(cfg.Billing.APIURL, cfg.Billing.APIKey, logger.Logger)
	videoClient := video.NewClient(video.Config{
		APIURL:    cfg.Video.APIURL,
		LibraryID: cfg.Video.LibraryID,
		APIKey:    cfg.Video.APIKey,
		CDNHost:   cfg.Video.CDNHost,
		TokenKey:  cfg.Video.TokenKey,
		TokenTTL:  cfg.Video.TokenTTL,
	}, logger.Logger)
	enqueuer := jobs.NewEnqueuer(asynqClient, logger.Logger)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	moduleRepo := repositories.NewModuleRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	contentRepo := repositories.NewLessonContentRepository(db)
	curriculumRepo := repositories.NewCurriculumRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	xpRepo := repositories.NewXPRepository(db)
	streakRepo := repositories.NewStreakRepository(db)
	certificateRepo := repositories.NewCertificateRepository(db)
	licenseRepo := repositories.NewLicenseRepository(db)
	webhookEventRepo := repositories.NewWebhookEventRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, userTokenRepo, tokenGenerator, logger.Logger)
	courseService := services.NewCourseService(courseRepo, moduleRepo, lessonRepo, logger.Logger)
	moduleService := services.NewModuleService(moduleRepo, courseRepo, logger.Logger)
	lessonService := services.NewLessonService(lessonRepo, moduleRepo, courseRepo, contentRepo, videoClient, logger.Logger)
	curriculumService := services.NewCurriculumService(curriculumRepo, courseRepo, moduleRepo, lessonRepo, contentRepo, logger.Logger)
	gamificationService := services.NewGamificationService(xpRepo, streakRepo, userRepo, leaderboard.New(rdb, leaderboard.DefaultKey), logger.Logger)
	certificateService := services.NewCertificateService(certificateRepo, logger.Logger)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, courseRepo, enqueuer, logger.Logger)
	catalogService := services.NewCatalogService(services.CatalogDependencies{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		LessonRepo:     lessonRepo,
		ContentRepo:    contentRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		Rewarder:       gamificationService,
		Certificates:   certificateService,
		Signer:         videoClient,
		Notifier:       enqueuer,
	}, logger.Logger)
	licenseService := services.NewLicenseService(licenseRepo, courseRepo, enrollmentRepo, enrollmentService, billingClient, enqueuer, logger.Logger)
	webhookService := services.NewBillingWebhookService(cfg.Billing.WebhookSecret, webhookEventRepo, userRepo, courseRepo, enrollmentRepo, enrollmentService, logger.Logger)
	adminService := services.NewAdminService(userRepo, services.StatsSource{
		Courses:      courseRepo,
		Enrollments:  enrollmentRepo,
		Certificates: certificateRepo,
		XP:           xpRepo,
	}, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, cfg.Server.SecureCookies, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger.Logger)
	moduleHandler := handlers.NewModuleHandler(moduleService, logger.Logger)
	lessonHandler := handlers.NewLessonHandler(lessonService, logger.Logger)
	curriculumHandler := handlers.NewCurriculumHandler(curriculumService, logger.Logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, enrollmentService, logger.Logger)
	learnerHandler := handlers.NewLearnerHandler(enrollmentService, gamificationService, certificateService, logger.Logger)
	licenseHandler := handlers.NewLicenseHandler(licenseService, logger.Logger)
	webhookHandler := handlers.NewWebhookHandler(webhookService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, enrollmentService, licenseService, logger.Logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(gamificationService, licenseService, authService, cfg.JWT.RefreshTokenExpiry, logger.Logger)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"mysql": db.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(tokenGenerator)
	instructorMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleInstructor))
	adminMiddleware := middleware.RoleMiddleware(tokenGenerator, int(models.RoleAdmin))

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("%s/swagger/doc.json", cfg.Server.BaseURL)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		healthHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r, authMiddleware)
		webhookHandler.RegisterRoutes(r)
		catalogHandler.RegisterRoutes(r, authMiddleware, optionalAuthMiddleware)
		learnerHandler.RegisterRoutes(r, authMiddleware)
		licenseHandler.RegisterRoutes(r, authMiddleware)

		// Authoring studio for instructors and admins
		r.Route("/studio", func(r chi.Router) {
			r.Use(instructorMiddleware)
			courseHandler.RegisterRoutes(r)
			moduleHandler.RegisterRoutes(r)
			lessonHandler.RegisterRoutes(r)
			curriculumHandler.RegisterRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminMiddleware)
			adminHandler.RegisterRoutes(r)
		})

		// Operator endpoints for the scheduler jobs
		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			maintenanceHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "lms_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Resolve the migrations folder whether started from the repo root or from cmd/api
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		for _, dir := range []string{"../migrations", "../../migrations"} {
			if _, err := os.Stat(dir); err == nil {
				migrationPath = "file://" + dir
				break
			}
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
