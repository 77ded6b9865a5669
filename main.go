package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codecrawler/config"
	"codecrawler/internal/catalog"
	"codecrawler/internal/crawler"
	"codecrawler/logger"
	"codecrawler/services/cache"
	"codecrawler/services/notifier"
	"codecrawler/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Bool("dry_run", cfg.DryRun).
		Msg("Starting crawl run")

	// Set up context with cancellation on shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the cache service if configured
	var cacheSvc cache.CacheService
	var submitted *cache.SubmittedCache
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		submitted = cache.NewSubmittedCache(cacheSvc, cfg.SubmittedTTL)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	}

	// Initialize the catalog client
	catalogClient := catalog.NewClient(
		cfg.CatalogURL,
		cfg.CatalogAPIKey,
		cfg.CatalogConflictStatus,
		cfg.CatalogTimeout,
	)

	// Initialize the notifier if configured
	var n notifier.Notifier
	if cfg.RedisAddr != "" {
		redisNotifier := notifier.NewRedisNotifier(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMax,
		)
		defer redisNotifier.Close()
		n = redisNotifier
		log.Info().
			Str("addr", cfg.RedisAddr).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}

	// Create source crawlers
	crawlers, err := crawler.CreateCrawlers(&cfg, cacheSvc)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid source configuration")
	}
	if len(crawlers) == 0 {
		log.Fatal().Msg("No source crawlers were created")
	}

	log.Info().
		Int("source_count", len(crawlers)).
		Msg("Created source crawlers")

	// Run one complete pipeline pass
	w := worker.NewWorker(crawlers, catalogClient, n, submitted, cfg.CrawlConcurrency, cfg.DryRun)

	start := time.Now()
	summary, err := w.RunOnce(ctx)
	if err != nil {
		// No dedup baseline; the run was aborted before any submission
		log.Error().Err(err).Msg("Run aborted")
		os.Exit(1)
	}

	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("new_codes", summary.NewCodes).
		Int("accepted", summary.Accepted).
		Msg("Crawl run finished")
}
