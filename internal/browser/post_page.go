package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"xscraper/pkg/config"
	"xscraper/pkg/logger"
	"xscraper/pkg/twitter"
)

// refreshLoadTimeout bounds a forced reload under a stuck first paint.
// Shorter than the nav timeout: a refresh that slow is not going to
// produce the post either.
const refreshLoadTimeout = 7 * time.Second

// PostPage drives the session's tab through one post's load cycle. It
// remembers the last target so a failed load can be retried with a
// cache-busting renavigation.
type PostPage struct {
	session *Session
	cfg     *config.BrowserConfig
	heur    twitter.Heuristics
	log     logger.Logger
	lastURL string
}

// NewPostPage wraps the session's tab with post-level navigation.
func NewPostPage(session *Session, cfg *config.BrowserConfig, heur twitter.Heuristics, log logger.Logger) *PostPage {
	if log == nil {
		log = logger.GetLogger()
	}
	return &PostPage{session: session, cfg: cfg, heur: heur, log: log}
}

// Navigate loads url and lets the DOM settle. The initial document wait
// is bounded by the nav timeout; settling is best-effort because the
// site keeps streaming requests long after the post is readable.
func (p *PostPage) Navigate(ctx context.Context, url string) error {
	started := time.Now()
	page := p.session.Page().Context(ctx).Timeout(p.cfg.NavTimeout())
	if err := page.Navigate(url); err != nil {
		logger.LogNavigation(url, time.Since(started), err)
		return categorizeError(err, fmt.Sprintf("failed to load %s", url))
	}
	p.lastURL = url

	if err := page.WaitDOMStable(domSettle, 0.1); err != nil {
		p.log.DebugWithFields("DOM did not settle, proceeding", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	logger.LogNavigation(url, time.Since(started), nil)
	return nil
}

// DismissBanner clicks through a consent dialog when one is shown.
func (p *PostPage) DismissBanner(ctx context.Context) bool {
	page := p.session.Page().Context(ctx)
	return clickButtonByLabel(page, p.heur.ConsentLabels)
}

// WaitPostRoot waits up to the stabilize timeout for the post container
// to appear and reports whether it did.
func (p *PostPage) WaitPostRoot(ctx context.Context) bool {
	page := p.session.Page().Context(ctx).Timeout(p.cfg.StabilizeTimeout())
	_, err := page.Element(p.heur.PostRootSelector)
	return err == nil
}

// Refresh forces the page past a stuck load: a cache-ignoring reload
// first, then a cache-busting renavigation when the reload call itself
// fails.
func (p *PostPage) Refresh(ctx context.Context) error {
	page := p.session.Page().Context(ctx).Timeout(refreshLoadTimeout)

	err := proto.PageReload{IgnoreCache: true}.Call(page)
	if err == nil {
		if werr := page.WaitDOMStable(domSettle, 0.1); werr != nil {
			p.log.DebugWithFields("DOM did not settle after reload", map[string]interface{}{
				"error": werr.Error(),
			})
		}
		return nil
	}

	if p.lastURL == "" {
		return categorizeError(err, "failed to reload page")
	}

	bust := cacheBustURL(p.lastURL, time.Now())
	p.log.DebugWithFields("reload failed, renavigating with cache buster", map[string]interface{}{
		"url": bust,
	})
	if nerr := page.Navigate(bust); nerr != nil {
		return categorizeError(nerr, "failed to reload page")
	}
	if werr := page.WaitDOMStable(domSettle, 0.1); werr != nil {
		p.log.DebugWithFields("DOM did not settle after cache-bust reload", map[string]interface{}{
			"error": werr.Error(),
		})
	}
	return nil
}

// HTML returns the page's rendered markup.
func (p *PostPage) HTML(ctx context.Context) (string, error) {
	html, err := p.session.Page().Context(ctx).HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// CurrentURL reports where the tab actually ended up, or "" when the
// browser cannot be asked.
func (p *PostPage) CurrentURL() string {
	return evalStringOrEmpty(p.session.Page(), `() => window.location.href`)
}

// cacheBustURL appends a timestamp query parameter so the renavigation
// cannot be served from cache.
func cacheBustURL(raw string, at time.Time) string {
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_cb=%d", raw, sep, at.UnixMilli())
}
