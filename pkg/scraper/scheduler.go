package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"xscraper/pkg/config"
	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/retry"
	"xscraper/pkg/twitter"
)

// Scheduler resolves single post URLs into results: it paces
// navigations, walks one page through the load-dismiss-stabilize cycle,
// runs extraction, and retries error outcomes up to the configured
// bound. One scheduler drives one page; the fetch loop is sequential.
type Scheduler struct {
	page    PostPage
	limiter ratelimit.Limiter
	clock   twitter.Clock
	heur    twitter.Heuristics
	cfg     *config.Config
	log     logger.Logger
}

// NewScheduler builds a scheduler. A nil clock means real time.
func NewScheduler(page PostPage, limiter ratelimit.Limiter, clock twitter.Clock, heur twitter.Heuristics, cfg *config.Config, log logger.Logger) *Scheduler {
	if clock == nil {
		clock = twitter.SystemClock{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scheduler{
		page:    page,
		limiter: limiter,
		clock:   clock,
		heur:    heur,
		cfg:     cfg,
		log:     log,
	}
}

// Fetch resolves one post URL. ok and no_counts_found are terminal;
// error attempts are retried after a one-interval pause while attempts
// remain. The last attempt's result is the one returned, whatever its
// status.
func (sch *Scheduler) Fetch(ctx context.Context, rawURL string) models.ScrapeResult {
	target := twitter.NormalizeURL(rawURL)

	var result models.ScrapeResult
	attempts := 0
	_ = retry.Do(func() error {
		attempts++
		var attemptErr error
		result, attemptErr = sch.attempt(ctx, rawURL, target)
		return attemptErr
	}, &retry.Config{
		MaxAttempts: sch.cfg.Scrape.Retries + 1,
		Backoff:     &retry.ConstantBackoff{Delay: sch.cfg.Scrape.MinInterval()},
		RetryIf: func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			return errs.IsRetryableError(err)
		},
		Context: ctx,
		Logger:  sch.log,
	})

	logger.LogFetchOutcome(rawURL, string(result.Status), attempts, result.Error)
	return result
}

// attempt runs one navigate-and-extract cycle. A non-nil error means
// the result carries error status; the error itself feeds the retry
// decision while the result is what gets recorded.
func (sch *Scheduler) attempt(ctx context.Context, rawURL, target string) (models.ScrapeResult, error) {
	if err := sch.limiter.Wait(ctx); err != nil {
		return sch.errorResult(rawURL, err), err
	}

	sch.log.DebugWithFields("navigating to post", map[string]interface{}{
		"url":    rawURL,
		"target": target,
	})

	if err := sch.page.Navigate(ctx, target); err != nil {
		return sch.errorResult(rawURL, err), err
	}

	if sch.page.DismissBanner(ctx) {
		sch.log.Debug("consent banner dismissed")
	}

	if !sch.waitForPost(ctx) {
		sch.log.DebugWithFields("post root never appeared, extracting anyway", map[string]interface{}{
			"url": rawURL,
		})
	}

	html, err := sch.page.HTML(ctx)
	if err != nil {
		return sch.errorResult(rawURL, err), err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		berr := errs.NewBrowser("failed to parse page snapshot", err)
		return sch.errorResult(rawURL, berr), berr
	}

	metrics := twitter.Extract(doc, sch.heur)
	twitter.ReconcileViews(doc, sch.heur, &metrics)

	result := models.ScrapeResult{
		URL:      rawURL,
		PostedAt: metrics.PostedAt,
		Views:    metrics.Views,
		Likes:    metrics.Likes,
		Shares:   metrics.Shares,
		Comments: metrics.Comments,
		Caption:  metrics.Caption,
		Status:   models.StatusOK,
	}
	if !metrics.HasAnyCount() {
		result.Status = models.StatusNoCountsFound
	}
	return result, nil
}

// waitForPost waits for the post root, forcing up to max_refreshes
// reloads when the page stalls. Exhausting the refresh budget is not a
// fault; extraction proceeds against whatever rendered.
func (sch *Scheduler) waitForPost(ctx context.Context) bool {
	if sch.page.WaitPostRoot(ctx) {
		return true
	}

	for i := 0; i < sch.cfg.Browser.MaxRefreshes; i++ {
		if ctx.Err() != nil {
			return false
		}

		sch.log.DebugWithFields("post root missing, forcing refresh", map[string]interface{}{
			"refresh": i + 1,
			"max":     sch.cfg.Browser.MaxRefreshes,
		})
		if err := sch.page.Refresh(ctx); err != nil {
			sch.log.DebugWithFields("refresh failed", map[string]interface{}{
				"error": err.Error(),
			})
		}

		sch.clock.Sleep(sch.cfg.Browser.RefreshPause())

		if sch.page.WaitPostRoot(ctx) {
			return true
		}
	}
	return false
}

// errorResult wraps an attempt fault as a recordable row.
func (sch *Scheduler) errorResult(rawURL string, err error) models.ScrapeResult {
	return models.ScrapeResult{
		URL:    rawURL,
		Status: models.StatusError,
		Error:  err.Error(),
	}
}
