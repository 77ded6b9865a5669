package crawler

import (
	"time"

	"codecrawler/services/cache"
)

// SourceCrawler crawls one configured source and extracts candidate codes
// according to its extraction rule.
type SourceCrawler struct {
	BaseCrawler
	extractor *Extractor
}

// NewSourceCrawler creates a crawler for a source configuration. The rule
// is compiled up front so invalid configuration fails before any fetch.
func NewSourceCrawler(config SourceConfig, cacheSvc cache.CacheService) (*SourceCrawler, error) {
	extractor, err := NewExtractor(config.Rule)
	if err != nil {
		return nil, err
	}

	return &SourceCrawler{
		BaseCrawler: BaseCrawler{
			Name:        config.Name,
			URL:         config.URL,
			CacheKey:    config.CacheKey,
			CacheSvc:    cacheSvc,
			BlockTime:   time.Duration(config.BlockTime) * time.Second,
			MaxAttempts: config.MaxAttempts,
			RetryDelay:  config.RetryDelay,
		},
		extractor: extractor,
	}, nil
}

// FetchCodes fetches the source page and extracts candidate codes.
// Zero candidates is a valid empty result.
func (c *SourceCrawler) FetchCodes() ([]CandidateCode, error) {
	body, err := c.fetchWithRetry()
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(body)
	if err != nil {
		return nil, err
	}

	return c.extractor.FromDocument(doc, c.Name, c.URL), nil
}
