package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"argus/internal/api"
	"argus/internal/api/handlers"
	"argus/internal/config"
	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/internal/infrastructure/database"
	"argus/internal/infrastructure/database/repository"
	"argus/internal/inventory"
	"argus/internal/streaming"
	"argus/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Argus")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories
	repos := repository.New(db.Pool())
	log.Info().Msg("repositories initialized")

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without real-time streaming")
		} else {
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	log.Info().Bool("nats_enabled", natsPublisher != nil).Msg("event bus initialized")

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	// Inventory source: static file or device agent reports
	var provider services.InventoryProvider
	var reported *inventory.ReportedProvider
	if cfg.Inventory.File != "" {
		provider = inventory.NewStaticProvider(cfg.Inventory.File)
		log.Info().Str("file", cfg.Inventory.File).Msg("using static inventory")
	} else {
		reported = inventory.NewReportedProvider(cfg.Inventory.MaxAge, log)
		provider = reported
		log.Info().Msg("using agent-reported inventory")
	}

	// Initialize domain services
	classifier := services.NewClassifier()
	scorer := services.NewRiskScorer(classifier, log)
	privacyCalc := services.NewPrivacyCalculator(classifier)
	optimizer := services.NewSecurityOptimizer(classifier)
	recommender := services.NewRecommender(classifier, log)
	feedbackService := services.NewFeedbackService(repos.Apps, repos.Feedback, log)

	eventPublisher := streaming.NewEventBusPublisher(eventBus, wsHub)
	scanner := services.NewScanner(provider, repos.Apps, repos.Exclusions, scorer, feedbackService, eventPublisher, log)
	scanner.SetSummaryCache(redisCache)

	scheduler := services.NewScheduler(scanner, redisCache, cfg.Scan.Interval, log)
	log.Info().Dur("interval", scheduler.Interval()).Msg("scan scheduler initialized")

	// Initialize handlers
	deps := handlers.Dependencies{
		Apps:        repos.Apps,
		Exclusions:  repos.Exclusions,
		Feedback:    feedbackService,
		Scheduler:   scheduler,
		Recommender: recommender,
		Privacy:     privacyCalc,
		Optimizer:   optimizer,
		Inventory:   reported,
		Provider:    provider,
		Cache:       redisCache,
		EventBus:    eventBus,
		WSHub:       wsHub,
		Logger:      log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start the periodic scan loop
	go scheduler.Run(ctx)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	eventBus.Close()

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache, error) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return db, redisCache, nil
}
