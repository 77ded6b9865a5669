package crawler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"

	"codecrawler/helpers"
	"codecrawler/logger"
	apperrors "codecrawler/pkg/errors"
	"codecrawler/services/cache"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 250 * time.Millisecond
)

// BaseCrawler provides common functionality for all source crawlers
type BaseCrawler struct {
	Name        string
	URL         string
	CacheKey    string
	CacheSvc    cache.CacheService
	BlockTime   time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// fetchWithRetry fetches the source URL with a rate-limit guard and
// bounded retries. Transient failures (timeouts, connection resets, 5xx)
// are retried with doubling backoff; client errors are not.
func (c *BaseCrawler) fetchWithRetry() (io.Reader, error) {
	// Check if the source is rate limited
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, apperrors.NewRateLimit(c.Name, c.BlockTime)
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := helpers.Fetch(c.Name, c.URL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var crawlErr *apperrors.CrawlError
		if errors.As(err, &crawlErr) {
			if crawlErr.Type == apperrors.ErrorTypeRateLimit {
				// Block further requests to this source for a while
				if c.CacheSvc != nil && c.CacheKey != "" {
					if setErr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime); setErr != nil {
						logger.ForSource(c.Name).Warn().Err(setErr).Msg("Failed to set rate limit cache")
					}
				}
				return nil, err
			}
			if !crawlErr.IsRetryable() {
				return nil, err
			}
		}

		if attempt < attempts {
			logger.ForSource(c.Name).Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("Fetch failed, retrying")
			time.Sleep(delay)
			delay *= 2
		}
	}

	return nil, lastErr
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewExtraction(c.Name, "failed to parse document", err)
	}
	return doc, nil
}

// GetName returns the source name
func (c *BaseCrawler) GetName() string {
	return c.Name
}
