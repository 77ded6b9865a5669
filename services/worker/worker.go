package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"codecrawler/internal/catalog"
	"codecrawler/internal/crawler"
	"codecrawler/logger"
	apperrors "codecrawler/pkg/errors"
	"codecrawler/services/cache"
	"codecrawler/services/notifier"
)

// CatalogClient is the part of the catalog API the worker needs
type CatalogClient interface {
	// ListCodes returns every code currently known to the catalog
	ListCodes(ctx context.Context) ([]string, error)

	// CreateCode submits one new code to the catalog
	CreateCode(ctx context.Context, insert catalog.InsertCodeRequest) error
}

// Worker coordinates one crawl run: snapshot the catalog, fetch and extract
// from every source, deduplicate, submit the delta, and summarize.
type Worker struct {
	crawlers    []crawler.Crawler
	catalog     CatalogClient
	notifier    notifier.Notifier
	submitted   *cache.SubmittedCache
	log         *logger.Logger
	concurrency int
	dryRun      bool
}

// NewWorker creates a new worker
func NewWorker(
	crawlers []crawler.Crawler,
	catalogClient CatalogClient,
	n notifier.Notifier,
	submitted *cache.SubmittedCache,
	concurrency int,
	dryRun bool,
) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		crawlers:    crawlers,
		catalog:     catalogClient,
		notifier:    n,
		submitted:   submitted,
		log:         logger.ForWorker(),
		concurrency: concurrency,
		dryRun:      dryRun,
	}
}

// sourceOutput holds one source's crawl outcome until the join point
type sourceOutput struct {
	codes []crawler.CandidateCode
	err   error
}

// RunOnce executes one complete pipeline pass. A nil error means the run
// completed, even if individual sources or submissions failed; those are
// recorded in the summary. A non-nil error is fatal (no dedup baseline).
func (w *Worker) RunOnce(ctx context.Context) (*RunSummary, error) {
	known, err := w.catalog.ListCodes(ctx)
	if err != nil {
		return nil, err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, code := range known {
		knownSet[crawler.Normalize(code)] = struct{}{}
	}

	summary := &RunSummary{KnownCodes: len(known)}

	// Fetch and extract from all sources with bounded concurrency. The
	// aggregation below must not start before every source finished.
	outputs := make([]sourceOutput, len(w.crawlers))
	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup
	for i, c := range w.crawlers {
		wg.Add(1)
		go func(i int, c crawler.Crawler) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			codes, err := c.FetchCodes()
			outputs[i] = sourceOutput{codes: codes, err: err}
		}(i, c)
	}
	wg.Wait()

	// Aggregate in configured source order so intra-run dedup tie-breaks
	// deterministically.
	var candidates []crawler.CandidateCode
	for i, c := range w.crawlers {
		out := outputs[i]
		summary.Sources = append(summary.Sources, SourceResult{
			Name:       c.GetName(),
			Candidates: len(out.codes),
			Err:        out.err,
		})
		if out.err != nil {
			summary.FailedSources++
			w.log.Warn().
				Str("source", c.GetName()).
				Err(out.err).
				Msg("Source failed, continuing with remaining sources")
			continue
		}
		candidates = append(candidates, out.codes...)
	}
	summary.Candidates = len(candidates)

	newCodes := w.deduplicate(candidates, knownSet, summary)
	summary.NewCodes = len(newCodes)

	w.submit(ctx, newCodes, summary)

	if w.notifier != nil && summary.Accepted > 0 {
		if err := w.notifier.Trim(); err != nil {
			w.log.Warn().Err(err).Msg("Failed to trim notification stream")
		}
	}

	w.logSummary(summary)
	return summary, nil
}

// deduplicate returns candidates whose normalized identity is new: absent
// from the catalog snapshot, not yet seen this run, and not recently
// submitted. First occurrence wins.
func (w *Worker) deduplicate(candidates []crawler.CandidateCode, knownSet map[string]struct{}, summary *RunSummary) []crawler.CandidateCode {
	seenRun := make(map[string]struct{})

	var newCodes []crawler.CandidateCode
	for _, cand := range candidates {
		norm := crawler.Normalize(cand.Code)
		if norm == "" {
			continue
		}
		if _, ok := knownSet[norm]; ok {
			continue
		}
		if _, ok := seenRun[norm]; ok {
			continue
		}
		seenRun[norm] = struct{}{}

		if w.submitted.Has(norm) {
			w.log.Debug().
				Str("code", norm).
				Msg("Skipping recently submitted code")
			summary.Skipped++
			summary.Results = append(summary.Results, SubmissionResult{
				Code:    norm,
				Source:  cand.Source,
				Outcome: OutcomeSkipped,
			})
			continue
		}

		cand.Code = norm
		newCodes = append(newCodes, cand)
	}
	return newCodes
}

// submit issues one create request per code. Failures are isolated per
// code; a rejected code never aborts the remaining submissions.
func (w *Worker) submit(ctx context.Context, newCodes []crawler.CandidateCode, summary *RunSummary) {
	for _, cand := range newCodes {
		result := SubmissionResult{Code: cand.Code, Source: cand.Source}

		if w.dryRun {
			result.Outcome = OutcomeSkipped
			summary.Skipped++
			summary.Results = append(summary.Results, result)
			w.log.Info().
				Str("code", cand.Code).
				Str("source", cand.Source).
				Msg("Dry run, not submitting")
			continue
		}

		insert := catalog.InsertCodeRequest{
			Code:      cand.Code,
			ExpiresAt: cand.ExpiresAt,
			Creator: &catalog.SourceLookup{
				Name: cand.Source,
				URL:  cand.SourceURL,
			},
			Submitter: &catalog.SourceLookup{
				Name: "codecrawler",
				URL:  cand.SourceURL,
			},
		}

		err := w.catalog.CreateCode(ctx, insert)
		switch {
		case err == nil:
			result.Outcome = OutcomeAccepted
			summary.Accepted++
			w.submitted.Mark(cand.Code)
			w.announce(cand, insert)
		case isDuplicate(err):
			// Expected: another crawler instance won the race, or the
			// snapshot went stale mid-run. The catalog is authoritative.
			result.Outcome = OutcomeDuplicate
			summary.Duplicates++
			w.submitted.Mark(cand.Code)
		default:
			result.Outcome = OutcomeError
			result.Err = err
			summary.Failed++
			w.log.Error().
				Str("code", cand.Code).
				Str("source", cand.Source).
				Err(err).
				Msg("Submission failed")
		}
		summary.Results = append(summary.Results, result)
	}
}

// announce publishes an accepted code to the notification stream
func (w *Worker) announce(cand crawler.CandidateCode, insert catalog.InsertCodeRequest) {
	if w.notifier == nil {
		return
	}
	message, err := json.Marshal(insert)
	if err != nil {
		w.log.Warn().Str("code", cand.Code).Err(err).Msg("Failed to encode announcement")
		return
	}
	if err := w.notifier.Announce(cand.Code, message); err != nil {
		w.log.Warn().Str("code", cand.Code).Err(err).Msg("Failed to announce code")
	}
}

// logSummary writes per-code outcomes and the aggregate run summary
func (w *Worker) logSummary(summary *RunSummary) {
	for _, r := range summary.Results {
		event := w.log.Info()
		if r.Outcome == OutcomeError {
			event = w.log.Warn()
		}
		event.
			Str("code", r.Code).
			Str("source", r.Source).
			Str("outcome", string(r.Outcome)).
			Msg("Submission result")
	}

	w.log.Info().
		Int("known_codes", summary.KnownCodes).
		Int("sources", len(summary.Sources)).
		Int("sources_failed", summary.FailedSources).
		Int("candidates", summary.Candidates).
		Int("new_codes", summary.NewCodes).
		Int("accepted", summary.Accepted).
		Int("duplicates", summary.Duplicates).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("Run completed")
}

// isDuplicate reports whether an error is a duplicate rejection from the
// catalog.
func isDuplicate(err error) bool {
	var crawlErr *apperrors.CrawlError
	return errors.As(err, &crawlErr) && crawlErr.Type == apperrors.ErrorTypeDuplicate
}
