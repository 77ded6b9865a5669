package crawler

import (
	"codecrawler/config"
	"codecrawler/logger"
	apperrors "codecrawler/pkg/errors"
	"codecrawler/services/cache"
)

// CreateCrawlers creates a crawler for every configured source, in the
// configured order. Sources without a URL are skipped. The order is
// load-bearing: it is the tie-break for intra-run deduplication.
func CreateCrawlers(cfg *config.Config, cacheSvc cache.CacheService) ([]Crawler, error) {
	configurations := []SourceConfig{
		{
			// Publisher announcement page: codes live in a dedicated list
			Name:      "publisher",
			URL:       cfg.PublisherURL,
			CacheKey:  "publisher_rate_limited",
			BlockTime: 300,
			Rule: ExtractionRule{
				Kind:         RuleStructural,
				Selector:     "div.promo-codes li, ul.codes li",
				RequireShape: true,
			},
		},
		{
			// Community wiki: codes table, shape already curated by editors
			Name:      "wiki",
			URL:       cfg.WikiURL,
			CacheKey:  "wiki_rate_limited",
			BlockTime: 300,
			Rule: ExtractionRule{
				Kind:     RuleStructural,
				Selector: "table.codes-table td.code, table.wikitable td:first-child",
			},
		},
		{
			// Forum thread: free text, codes announced behind a label word
			Name:      "forum",
			URL:       cfg.ForumURL,
			CacheKey:  "forum_rate_limited",
			BlockTime: 300,
			Rule: ExtractionRule{
				Kind:   RuleLabel,
				Labels: []string{"code", "use code", "redeem"},
			},
		},
	}

	var crawlers []Crawler
	for _, sc := range configurations {
		if sc.URL == "" {
			logger.Debug("Skipping source '%s', no URL configured", sc.Name)
			continue
		}
		sc.MaxAttempts = cfg.FetchAttempts
		sc.RetryDelay = cfg.FetchRetryDelay

		c, err := NewSourceCrawler(sc, cacheSvc)
		if err != nil {
			return nil, apperrors.NewConfiguration("invalid extraction rule for source "+sc.Name, err)
		}
		crawlers = append(crawlers, c)
	}

	return crawlers, nil
}
