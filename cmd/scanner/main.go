package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"argus/internal/config"
	"argus/internal/domain/services"
	"argus/internal/infrastructure/cache"
	"argus/internal/infrastructure/database"
	"argus/internal/infrastructure/database/repository"
	"argus/internal/inventory"
	"argus/pkg/logger"
)

// Standalone one-shot scanner: loads a static inventory, runs a single
// scan against the shared database and exits. Useful for cron-driven
// deployments and local testing.
func main() {
	var (
		configPath    = flag.String("config", "", "path to config file")
		inventoryPath = flag.String("inventory", "", "path to inventory JSON (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without scan lock")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	path := *inventoryPath
	if path == "" {
		path = cfg.Inventory.File
	}
	if path == "" {
		log.Fatal().Msg("no inventory file configured, set -inventory or inventory.file")
	}
	provider := inventory.NewStaticProvider(path)

	repos := repository.New(db.Pool())
	classifier := services.NewClassifier()
	scorer := services.NewRiskScorer(classifier, log)
	feedbackService := services.NewFeedbackService(repos.Apps, repos.Feedback, log)

	scanner := services.NewScanner(provider, repos.Apps, repos.Exclusions, scorer, feedbackService, nil, log)
	if redisCache != nil {
		scanner.SetSummaryCache(redisCache)
	}

	summary, err := scanner.RunScan(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("scan failed")
	}

	log.Info().
		Str("scan_id", summary.ScanID).
		Int("scanned", summary.Scanned).
		Int("flagged", summary.Flagged).
		Msg("scan finished")
}
