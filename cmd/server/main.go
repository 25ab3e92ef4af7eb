package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/application"
	"github.com/outingly/service-planner/internal/config"
	"github.com/outingly/service-planner/internal/events"
	"github.com/outingly/service-planner/internal/geo"
	"github.com/outingly/service-planner/internal/handler"
	"github.com/outingly/service-planner/internal/platform/auth"
	"github.com/outingly/service-planner/internal/platform/database"
	"github.com/outingly/service-planner/internal/platform/health"
	"github.com/outingly/service-planner/internal/platform/kafka"
	"github.com/outingly/service-planner/internal/platform/logger"
	"github.com/outingly/service-planner/internal/platform/middleware"
	"github.com/outingly/service-planner/internal/repository"
	"github.com/outingly/service-planner/internal/scoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-planner")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-planner",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.VenueModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repository and catalog service
	venueRepo := repository.NewGormVenueRepository(db)
	catalogService := application.NewCatalogService(venueRepo, kafkaProducer, log)

	// Initialize travel matrix client
	geoClient := geo.NewOpenRouteClient(geo.Config{
		BaseURL: cfg.Geo.BaseURL,
		APIKey:  cfg.Geo.APIKey,
		Timeout: cfg.Geo.Timeout,
	}, log)

	// Initialize the scoring chat model
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Deterministic scoring: same itinerary, same score.
	temperature := float32(0)
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.Scoring.BaseURL,
		APIKey:      cfg.Scoring.APIKey,
		Model:       cfg.Scoring.Model,
		Temperature: &temperature,
	})
	if err != nil {
		log.Fatal("failed to create scoring chat model", zap.Error(err))
	}

	scoringEngine := scoring.NewEngine(chatModel, scoring.Config{
		BatchSize: cfg.Scoring.BatchSize,
	}, log)

	// Initialize planner service
	plannerService := application.NewPlannerService(
		venueRepo,
		geoClient,
		scoringEngine,
		kafkaProducer,
		cfg.Scoring.MaxResults,
		log,
	)

	// Initialize and start catalog event consumer in a goroutine
	groupID := cfg.Kafka.GroupPrefix + "-planner-service"
	catalogConsumer := events.NewCatalogEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		catalogService,
		log,
	)
	defer func() { _ = catalogConsumer.Close() }()

	go func() {
		log.Info("starting catalog event consumer")
		if err := catalogConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("catalog event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	plannerHandler := handler.NewPlannerHandler(plannerService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	adminHandler := handler.NewAdminCatalogHandler(catalogService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-planner")
	healthHandler.RegisterRoutes(router)

	// Register routes
	plannerHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	catalogHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-planner...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-planner stopped")
}
