package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	apperrors "codecrawler/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Remote catalog configuration
	CatalogURL            string
	CatalogAPIKey         string
	CatalogConflictStatus int
	CatalogTimeout        time.Duration

	// Memcache configuration (empty address disables the cache)
	MemcacheAddr string
	SubmittedTTL time.Duration

	// Redis notifier configuration (empty address disables the notifier)
	RedisAddr      string
	RedisDB        int
	RedisStream    string
	RedisStreamMax int

	// Fetch configuration
	CrawlConcurrency int
	FetchAttempts    int
	FetchRetryDelay  time.Duration

	// Source URLs
	PublisherURL string
	WikiURL      string
	ForumURL     string

	// Run mode
	DryRun      bool
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	conflictStatus, _ := strconv.Atoi(getEnv("CATALOG_CONFLICT_STATUS", "409"))
	catalogTimeout, _ := strconv.Atoi(getEnv("CATALOG_TIMEOUT_SECONDS", "15"))
	submittedTTL, _ := strconv.Atoi(getEnv("SUBMITTED_TTL_HOURS", "168"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMax, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "500"))
	concurrency, _ := strconv.Atoi(getEnv("CRAWL_CONCURRENCY", "4"))
	attempts, _ := strconv.Atoi(getEnv("FETCH_ATTEMPTS", "3"))
	retryDelayMs, _ := strconv.Atoi(getEnv("FETCH_RETRY_DELAY_MS", "250"))

	return Config{
		CatalogURL:            getEnv("CATALOG_URL", ""),
		CatalogAPIKey:         getEnv("CATALOG_API_KEY", ""),
		CatalogConflictStatus: conflictStatus,
		CatalogTimeout:        time.Duration(catalogTimeout) * time.Second,
		MemcacheAddr:          getEnv("MEMCACHE_ADDR", ""),
		SubmittedTTL:          time.Duration(submittedTTL) * time.Hour,
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisDB:               redisDB,
		RedisStream:           getEnv("REDIS_STREAM", "newcodes"),
		RedisStreamMax:        streamMax,
		CrawlConcurrency:      concurrency,
		FetchAttempts:         attempts,
		FetchRetryDelay:       time.Duration(retryDelayMs) * time.Millisecond,
		PublisherURL:          getEnv("PUBLISHER_URL", ""),
		WikiURL:               getEnv("WIKI_URL", ""),
		ForumURL:              getEnv("FORUM_URL", ""),
		DryRun:                getEnv("DRY_RUN", "false") == "true",
		Environment:           getEnv("CRAWLER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration before any network activity happens
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return apperrors.NewConfiguration("CATALOG_URL is required", nil)
	}
	if u, err := url.Parse(c.CatalogURL); err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfiguration("CATALOG_URL is not a valid URL: "+c.CatalogURL, nil)
	}
	if c.PublisherURL == "" && c.WikiURL == "" && c.ForumURL == "" {
		return apperrors.NewConfiguration("at least one source URL must be configured", nil)
	}
	if c.CatalogConflictStatus < 400 || c.CatalogConflictStatus > 599 {
		return apperrors.NewConfiguration("CATALOG_CONFLICT_STATUS must be an HTTP error status", nil)
	}
	if c.CrawlConcurrency < 1 {
		return apperrors.NewConfiguration("CRAWL_CONCURRENCY must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
