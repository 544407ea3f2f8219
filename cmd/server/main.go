package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusworks/quiz-attempt-service/internal/cache"
	"github.com/campusworks/quiz-attempt-service/internal/config"
	"github.com/campusworks/quiz-attempt-service/internal/handlers"
	"github.com/campusworks/quiz-attempt-service/internal/models"
	"github.com/campusworks/quiz-attempt-service/internal/repositories/postgres"
	"github.com/campusworks/quiz-attempt-service/internal/services"
	"github.com/campusworks/quiz-attempt-service/internal/utils"
	"github.com/campusworks/quiz-attempt-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.QuizSetting{},
		&models.AnswerSheet{},
		&models.AnswerSlot{},
		&models.AnswerSlotOption{},
	); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	repo := postgres.NewRepository(db)
	defer repo.Close()

	cacheService := cache.NewRedisCache(redisClient, slogger)

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	validator := utils.NewValidator()

	settingService := services.NewQuizSettingService(repo, slogger, validator)
	runtimeService := services.NewRuntimeQuizService(repo, cacheService, slogger)
	gradingService := services.NewGradingService(repo, runtimeService, publisher, slogger)
	dispatcher := services.NewGradingDispatcher(
		gradingService,
		cfg.Grading.Workers,
		cfg.Grading.QueueSize,
		slogger,
	)
	attemptService := services.NewAttemptService(
		repo,
		settingService,
		runtimeService,
		gradingService,
		dispatcher,
		publisher,
		slogger,
		validator,
	)
	exportService := services.NewExportService(repo, runtimeService, slogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		repo,
		attemptService,
		settingService,
		exportService,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	// Drain pending grading work before the process exits.
	if err := dispatcher.Close(); err != nil {
		logger.Error("Grading dispatcher shutdown failed", "error", err)
	}

	logger.Info("Server stopped")
}
