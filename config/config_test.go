package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 409, cfg.CatalogConflictStatus)
	assert.Equal(t, 15*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 168*time.Hour, cfg.SubmittedTTL)
	assert.Equal(t, "newcodes", cfg.RedisStream)
	assert.Equal(t, 500, cfg.RedisStreamMax)
	assert.Equal(t, 4, cfg.CrawlConcurrency)
	assert.Equal(t, 3, cfg.FetchAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchRetryDelay)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CATALOG_URL", "https://catalog.example.com")
	t.Setenv("CATALOG_API_KEY", "secret")
	t.Setenv("CATALOG_CONFLICT_STATUS", "422")
	t.Setenv("SUBMITTED_TTL_HOURS", "24")
	t.Setenv("CRAWL_CONCURRENCY", "8")
	t.Setenv("FETCH_RETRY_DELAY_MS", "100")
	t.Setenv("FORUM_URL", "https://forum.example.com/codes")
	t.Setenv("DRY_RUN", "true")

	cfg := LoadConfig()

	assert.Equal(t, "https://catalog.example.com", cfg.CatalogURL)
	assert.Equal(t, "secret", cfg.CatalogAPIKey)
	assert.Equal(t, 422, cfg.CatalogConflictStatus)
	assert.Equal(t, 24*time.Hour, cfg.SubmittedTTL)
	assert.Equal(t, 8, cfg.CrawlConcurrency)
	assert.Equal(t, 100*time.Millisecond, cfg.FetchRetryDelay)
	assert.Equal(t, "https://forum.example.com/codes", cfg.ForumURL)
	assert.True(t, cfg.DryRun)
}

func validConfig() Config {
	return Config{
		CatalogURL:            "https://catalog.example.com",
		CatalogConflictStatus: 409,
		CrawlConcurrency:      4,
		ForumURL:              "https://forum.example.com/codes",
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresCatalogURL(t *testing.T) {
	cfg := validConfig()
	cfg.CatalogURL = ""
	assert.Error(t, cfg.Validate())

	cfg.CatalogURL = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresAtLeastOneSource(t *testing.T) {
	cfg := validConfig()
	cfg.PublisherURL = ""
	cfg.WikiURL = ""
	cfg.ForumURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateConflictStatusRange(t *testing.T) {
	cfg := validConfig()

	cfg.CatalogConflictStatus = 200
	assert.Error(t, cfg.Validate())

	cfg.CatalogConflictStatus = 600
	assert.Error(t, cfg.Validate())

	cfg.CatalogConflictStatus = 422
	assert.NoError(t, cfg.Validate())
}

func TestValidateConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.CrawlConcurrency = 0
	assert.Error(t, cfg.Validate())
}
