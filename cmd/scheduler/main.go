package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursecraft/lms/internal/clients/billing"
	"github.com/coursecraft/lms/internal/jobs"
	"github.com/coursecraft/lms/internal/leaderboard"
	"github.com/coursecraft/lms/internal/repositories"
	"github.com/coursecraft/lms/internal/services"
	authService "github.com/coursecraft/lms/libs/auth/service"
	"github.com/coursecraft/lms/libs/config"
	"github.com/coursecraft/lms/libs/logger"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

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

	logger.Logger.Info("Starting CourseCraft scheduler")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	enqueuer := jobs.NewEnqueuer(asynqClient, logger.Logger)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)

	// Services driven by the cron jobs
	gamificationService := services.NewGamificationService(
		repositories.NewXPRepository(db),
		repositories.NewStreakRepository(db),
		userRepo,
		leaderboard.New(rdb, leaderboard.DefaultKey),
		logger.Logger,
	)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, courseRepo, enqueuer, logger.Logger)
	licenseService := services.NewLicenseService(
		repositories.NewLicenseRepository(db),
		courseRepo,
		enrollmentRepo,
		enrollmentService,
		billing.NewClient(cfg.Billing.APIURL, cfg.Billing.APIKey, logger.Logger),
		enqueuer,
		logger.Logger,
	)
	tokenGenerator := authService.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	authSvc := services.NewAuthService(userRepo, repositories.NewUserTokenRepository(db), tokenGenerator, logger.Logger)

	// Create scheduler instance
	scheduler, err := NewScheduler(logger.Logger, gamificationService, licenseService, authSvc, cfg.JWT.RefreshTokenExpiry)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Start scheduler
	scheduler.Start()
	defer func() {
		logger.Logger.Info("Shutting down scheduler...")
		scheduler.Stop()
		logger.Logger.Info("Scheduler exited")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
