package scraper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"xscraper/internal/browser"
	"xscraper/pkg/auth"
	"xscraper/pkg/checkpoint"
	"xscraper/pkg/config"
	"xscraper/pkg/logger"
	"xscraper/pkg/metadata"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/retry"
	"xscraper/pkg/storage"
	"xscraper/pkg/twitter"
	"xscraper/pkg/ui"
)

// pauseProbe is how often the loop rechecks a paused TUI.
const pauseProbe = 200 * time.Millisecond

// RunOptions are the per-invocation knobs of a metrics run.
type RunOptions struct {
	InputFile    string
	OutputFile   string
	Resume       bool
	ForceRestart bool
}

// Scraper coordinates a whole metrics run: the browser session, the
// one-time auth bootstrap, the sequential fetch loop, and every output
// file the run produces.
type Scraper struct {
	session       *browser.Session
	scheduler     *Scheduler
	limiter       ratelimit.Limiter
	tracker       *ui.StatusTracker
	progress      *ui.ProgressDisplay
	notifier      *ui.Notifier
	config        *config.Config
	logger        logger.Logger
	checkpointMgr *checkpoint.Manager
	tui           ui.TUI
	clock         twitter.Clock
	authSession   models.AuthSession
}

// New builds a scraper with a live browser session. Callers own Close.
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	session, err := browser.NewSession(&cfg.Browser, log)
	if err != nil {
		return nil, err
	}

	heur := heuristicsFromConfig(cfg.Heuristics)
	limiter := ratelimit.NewPacer(cfg.Scrape.MinInterval())
	clock := twitter.SystemClock{}
	page := browser.NewPostPage(session, &cfg.Browser, heur, log)

	return &Scraper{
		session:   session,
		scheduler: NewScheduler(page, limiter, clock, heur, cfg, log),
		limiter:   limiter,
		tracker:   ui.NewStatusTracker(),
		notifier:  ui.NewNotifier(),
		config:    cfg,
		logger:    log,
		clock:     clock,
	}, nil
}

// SetTUI routes per-URL reporting into a terminal UI instead of the
// plain progress display.
func (s *Scraper) SetTUI(tui ui.TUI) {
	s.tui = tui
}

// AuthSession describes how the current run is authenticated. Valid
// after Run has bootstrapped the session.
func (s *Scraper) AuthSession() models.AuthSession {
	return s.authSession
}

// Close releases the browser session.
func (s *Scraper) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

// Run executes a full metrics run and returns its summary. The summary
// is returned even when the run is interrupted; the error then carries
// the cancellation.
func (s *Scraper) Run(ctx context.Context, opts RunOptions) (*models.RunSummary, error) {
	startedAt := time.Now()

	urls, err := storage.ReadURLs(opts.InputFile)
	if err != nil {
		s.logger.WithError(err).WithField("input", opts.InputFile).Error("failed to read URL list")
		return nil, err
	}
	s.logger.InfoWithFields("URL list loaded", map[string]interface{}{
		"input": opts.InputFile,
		"urls":  len(urls),
	})

	cp, appendResults, err := s.prepareCheckpoint(opts)
	if err != nil {
		return nil, err
	}

	s.authSession = s.bootstrapSession()

	writer, err := storage.NewResultWriter(opts.OutputFile, appendResults)
	if err != nil {
		s.logger.WithError(err).WithField("output", opts.OutputFile).Error("failed to open results file")
		return nil, err
	}
	defer writer.Close()

	if s.tui == nil && s.config.UI.Progress {
		debugMode := strings.ToLower(s.config.Logging.Level) == "debug"
		s.progress = ui.NewProgressDisplay(len(urls), debugMode)
		if cp != nil && cp.TotalProcessed > 0 {
			s.progress.SetProcessedCount(cp.TotalProcessed)
		}
	}

	s.logger.InfoWithFields("starting run", map[string]interface{}{
		"urls":        len(urls),
		"output":      opts.OutputFile,
		"auth_source": string(s.authSession.Source),
		"resume":      appendResults,
	})

	var (
		summary     models.RunSummary
		failed      []string
		interrupted bool
	)

	for i, url := range urls {
		if cp != nil && cp.IsProcessed(url) {
			summary.Skipped++
			status, _ := cp.StatusFor(url)
			s.logger.DebugWithFields("skipping already processed URL", map[string]interface{}{
				"url":    url,
				"status": status,
			})
			continue
		}

		for s.tui != nil && s.tui.IsPaused() && ctx.Err() == nil {
			s.clock.Sleep(pauseProbe)
		}

		if ctx.Err() != nil {
			interrupted = true
			break
		}

		if s.tui != nil {
			s.tui.StartFetch(i+1, len(urls), url)
		} else if s.progress != nil {
			s.progress.StartURL(url)
		}

		result := s.scheduler.Fetch(ctx, url)

		if ctx.Err() != nil && result.Status == models.StatusError {
			// Interrupted mid-attempt. A cancellation is not a scrape
			// outcome, so the row is not recorded.
			interrupted = true
			break
		}

		summary.Add(result)
		s.tracker.Record(result.Status)

		if err := writer.WriteResult(result); err != nil {
			s.logger.WithError(err).WithField("url", url).Error("failed to write result row")
			return &summary, err
		}

		if result.Failed(s.config.Scrape.FailedIncludeNoCounts) {
			failed = append(failed, url)
		}

		if cp != nil && s.checkpointMgr != nil {
			if err := s.checkpointMgr.MarkProcessed(cp, url, string(result.Status)); err != nil {
				s.logger.WithError(err).Warn("failed to update checkpoint")
			}
		}

		s.reportResult(url, result)

		// Trailing pause after every row, independent of the pacing
		// the limiter applies before the next navigation.
		_ = retry.Wait(ctx, s.config.Scrape.MinInterval())
	}

	summary.Elapsed = time.Since(startedAt)

	s.finishRun(opts, startedAt, &summary, failed, interrupted)

	if interrupted {
		s.logger.WarnWithFields("run interrupted", map[string]interface{}{
			"processed": summary.Total,
			"skipped":   summary.Skipped,
		})
		return &summary, ctx.Err()
	}
	return &summary, nil
}

// prepareCheckpoint wires resume and force-restart semantics. The
// returned checkpoint is nil when progress tracking is unavailable;
// appendResults reports whether the results file must be appended to.
func (s *Scraper) prepareCheckpoint(opts RunOptions) (*checkpoint.RunCheckpoint, bool, error) {
	mgr, err := checkpoint.NewManager(opts.InputFile, opts.OutputFile)
	if err != nil {
		s.logger.WithError(err).Warn("checkpoint unavailable, continuing without resume support")
		return nil, false, nil
	}
	s.checkpointMgr = mgr

	switch {
	case opts.ForceRestart && mgr.Exists():
		if err := mgr.Backup(); err != nil {
			s.logger.WithError(err).Warn("failed to back up checkpoint before restart")
		}
		if err := mgr.Delete(); err != nil {
			s.logger.WithError(err).Warn("failed to delete checkpoint")
		}
		ui.PrintInfo("Force restart", "previous progress discarded")

	case opts.Resume && mgr.Exists():
		cp, err := mgr.Load()
		if err != nil {
			s.logger.WithError(err).Error("failed to load checkpoint")
			return nil, false, fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if cp != nil {
			ui.PrintInfo("Resuming", fmt.Sprintf("%d URLs already processed", cp.TotalProcessed))
			s.logger.InfoWithFields("resuming from checkpoint", map[string]interface{}{
				"processed": cp.TotalProcessed,
				"input":     opts.InputFile,
				"output":    opts.OutputFile,
			})
			return cp, true, nil
		}

	case mgr.Exists():
		return nil, false, fmt.Errorf("a previous run for this input/output pair was interrupted - use --resume to continue or --force-restart to start fresh")
	}

	cp, err := mgr.Create()
	if err != nil {
		s.logger.WithError(err).Warn("failed to create checkpoint, continuing without one")
		return nil, false, nil
	}
	return cp, false, nil
}

// bootstrapSession establishes authentication exactly once, before the
// first fetch. Sources are tried in order: state file, cookie header,
// interactive login. Every failure degrades to the next source; a run
// never aborts for auth reasons.
func (s *Scraper) bootstrapSession() models.AuthSession {
	if s.session == nil {
		return models.AuthSession{Source: models.SessionNone}
	}

	statePath := s.config.Twitter.StateFile

	if statePath != "" {
		if _, err := os.Stat(statePath); err == nil {
			st, err := browser.LoadState(statePath)
			if err != nil {
				s.logger.WithError(err).WithField("path", statePath).Warn("state file unreadable, ignoring it")
			} else if err := s.session.ApplyState(st); err != nil {
				s.logger.WithError(err).Warn("failed to restore session from state file")
			} else {
				s.logger.InfoWithFields("session restored from state file", map[string]interface{}{
					"path":    statePath,
					"cookies": len(st.Cookies),
				})
				return models.AuthSession{StatePath: statePath, Authenticated: true, Source: models.SessionFromStateFile}
			}
		}
	}

	if header := s.cookieHeader(); header != "" {
		st, err := browser.StateFromCookieHeader(header)
		if err != nil {
			s.logger.WithError(err).Warn("cookie header unusable")
		} else if err := s.session.ApplyState(st); err != nil {
			s.logger.WithError(err).Warn("failed to install cookies")
		} else {
			if statePath != "" {
				if err := st.Save(statePath); err != nil {
					s.logger.WithError(err).WithField("path", statePath).Warn("failed to persist session state")
				}
			}
			s.logger.Info("session established from cookie header")
			return models.AuthSession{StatePath: statePath, Authenticated: true, Source: models.SessionFromCookies}
		}
	}

	creds := s.credentials()
	if creds.Password != "" && creds.Identifier() != "" {
		if err := s.login(creds); err != nil {
			s.logger.WithError(err).Warn("login failed, continuing unauthenticated")
		} else {
			if statePath != "" {
				if err := s.session.SaveState(statePath); err != nil {
					s.logger.WithError(err).WithField("path", statePath).Warn("failed to persist session state")
				}
			}
			return models.AuthSession{StatePath: statePath, Authenticated: true, Source: models.SessionFromLogin}
		}
	}

	s.logger.Info("no session material, scraping unauthenticated")
	return models.AuthSession{Source: models.SessionNone}
}

// cookieHeader returns the inline cookie header, or the cookie file's
// contents when only the file is configured.
func (s *Scraper) cookieHeader() string {
	if s.config.Twitter.Cookie != "" {
		return s.config.Twitter.Cookie
	}
	if s.config.Twitter.CookieFile != "" {
		data, err := os.ReadFile(s.config.Twitter.CookieFile)
		if err != nil {
			s.logger.WithError(err).WithField("path", s.config.Twitter.CookieFile).Warn("failed to read cookie file")
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	return ""
}

// credentials resolves the login identity: explicit config first, then
// the named account, then the most recently used stored account.
func (s *Scraper) credentials() twitter.Credentials {
	tw := s.config.Twitter
	explicit := twitter.Credentials{Email: tw.Email, Username: tw.Username, Password: tw.Password}
	if explicit.Password != "" && explicit.Identifier() != "" {
		return explicit
	}

	mgr, err := auth.NewManager()
	if err != nil {
		s.logger.WithError(err).Debug("credential stores unavailable")
		return explicit
	}

	var account *auth.Account
	if tw.Account != "" {
		account, err = mgr.Retrieve(tw.Account)
		if err != nil {
			s.logger.WithError(err).WithField("account", tw.Account).Warn("named account not found")
		}
	} else {
		account, err = mgr.RetrieveDefault()
		if err != nil {
			s.logger.WithError(err).Debug("no stored accounts")
		}
	}
	if account == nil {
		return explicit
	}

	s.logger.InfoWithFields("using stored account", map[string]interface{}{
		"account": account.Name,
	})
	return twitter.Credentials{Email: account.Email, Username: account.Username, Password: account.Password}
}

// login drives the interactive login flow on the live page.
func (s *Scraper) login(creds twitter.Credentials) error {
	page := browser.NewLoginPage(s.session, &s.config.Browser, s.logger)
	flow := twitter.NewFlow(page, s.clock, flowConfigFromConfig(s.config.Login, s.scheduler.heur.ConsentLabels), s.logger)
	return flow.Run(creds)
}

// reportResult routes one URL's outcome to whichever display is active
// and into the structured log.
func (s *Scraper) reportResult(url string, r models.ScrapeResult) {
	switch {
	case s.tui != nil:
		if r.Status == models.StatusOK {
			s.tui.CompleteFetch(url, r)
		} else {
			s.tui.FailFetch(url, r)
		}
	case s.progress != nil:
		s.progress.FinishURL(url, r)
	default:
		if !ui.IsQuietMode() {
			s.tracker.PrintProgress()
		}
	}

	fields := map[string]interface{}{
		"url":    url,
		"status": string(r.Status),
	}
	if r.Views != nil {
		fields["views"] = *r.Views
	}
	if r.Error != "" {
		fields["error"] = r.Error
	}

	switch r.Status {
	case models.StatusOK:
		s.logger.InfoWithFields("post scraped", fields)
	case models.StatusNoCountsFound:
		s.logger.WarnWithFields("no counts found on post", fields)
	default:
		s.logger.ErrorWithFields("post fetch failed", fields)
	}
}

// finishRun writes everything a completed loop leaves behind: the
// failure list, the run manifest, the summary, and the checkpoint
// cleanup on normal completion.
func (s *Scraper) finishRun(opts RunOptions, startedAt time.Time, summary *models.RunSummary, failed []string, interrupted bool) {
	failedPath := s.config.Output.FailedFile
	if err := storage.WriteFailed(failedPath, failed); err != nil {
		s.logger.WithError(err).WithField("path", failedPath).Error("failed to write failure list")
	} else if len(failed) > 0 {
		s.logger.InfoWithFields("failure list written", map[string]interface{}{
			"path": failedPath,
			"urls": len(failed),
		})
	}

	if s.config.Output.WriteManifest {
		manifest := metadata.RunManifest{
			InputFile:  opts.InputFile,
			OutputFile: opts.OutputFile,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			AuthSource: s.authSession.Source,
			Headless:   s.config.Browser.Headless,
			Summary:    *summary,
		}
		if err := manifest.Save(); err != nil {
			s.logger.WithError(err).Warn("failed to write run manifest")
		}
	}

	s.logger.InfoWithFields("run finished", map[string]interface{}{
		"total":     summary.Total,
		"ok":        summary.OK,
		"no_counts": summary.NoCounts,
		"errors":    summary.Errors,
		"skipped":   summary.Skipped,
		"elapsed":   summary.Elapsed.Round(time.Millisecond).String(),
	})

	// An interrupted run gets no completion banner; the command layer
	// reports the interruption and how to resume.
	if !interrupted {
		if s.tui != nil {
			s.tui.LogSuccess("run complete: %d ok, %d without counts, %d failed, %d skipped",
				summary.OK, summary.NoCounts, summary.Errors, summary.Skipped)
		} else if s.progress != nil {
			s.progress.Complete(*summary)
		} else if !ui.IsQuietMode() {
			ui.PrintSuccess(fmt.Sprintf("\nDone: %d ok, %d without counts, %d failed, %d skipped (%.0f%% ok)",
				summary.OK, summary.NoCounts, summary.Errors, summary.Skipped, summary.SuccessRate()))
		}

		if s.config.UI.Notifications && s.notifier != nil {
			if summary.Errors > 0 {
				s.notifier.SendNotification("Run finished", fmt.Sprintf("%d/%d posts scraped, %d failed", summary.OK, summary.Total, summary.Errors))
			} else {
				s.notifier.SendSuccess("Run finished", fmt.Sprintf("%d/%d posts scraped", summary.OK, summary.Total))
			}
		}
	}

	if !interrupted && s.checkpointMgr != nil && s.checkpointMgr.Exists() {
		if err := s.checkpointMgr.Delete(); err != nil {
			s.logger.WithError(err).Warn("failed to remove checkpoint")
		} else {
			s.logger.Debug("checkpoint removed after completed run")
		}
	}
}

// heuristicsFromConfig applies config overrides on top of the built-in
// selector tables.
func heuristicsFromConfig(hc config.HeuristicsConfig) twitter.Heuristics {
	return twitter.DefaultHeuristics().Merge(twitter.Heuristics{
		PostRootSelector:   hc.PostRootSelector,
		ReplySelector:      hc.ReplySelector,
		RetweetSelector:    hc.RetweetSelector,
		LikeSelector:       hc.LikeSelector,
		CaptionSelector:    hc.CaptionSelector,
		TimeSelector:       hc.TimeSelector,
		HeaderTimeSelector: hc.HeaderTimeSelector,
		CommentTokens:      hc.CommentTokens,
		ShareTokens:        hc.ShareTokens,
		LikeTokens:         hc.LikeTokens,
		ConsentLabels:      hc.ConsentLabels,
	})
}

// flowConfigFromConfig maps the login section onto the flow's bounds,
// keeping the defaults for anything unset.
func flowConfigFromConfig(lc config.LoginConfig, consentLabels []string) twitter.FlowConfig {
	fc := twitter.DefaultFlowConfig()
	if len(consentLabels) > 0 {
		fc.ConsentLabels = consentLabels
	}
	if lc.IdentifierWaitSeconds > 0 {
		fc.IdentifierWait = time.Duration(lc.IdentifierWaitSeconds) * time.Second
	}
	if lc.PasswordWaitSeconds > 0 {
		fc.PasswordWait = time.Duration(lc.PasswordWaitSeconds) * time.Second
	}
	if lc.ChallengeWindowSeconds > 0 {
		fc.ChallengeWindow = time.Duration(lc.ChallengeWindowSeconds) * time.Second
	}
	if lc.ChallengePauseMillis > 0 {
		fc.ChallengePause = time.Duration(lc.ChallengePauseMillis) * time.Millisecond
	}
	if lc.SuccessWaitSeconds > 0 {
		fc.SuccessWait = time.Duration(lc.SuccessWaitSeconds) * time.Second
	}
	if lc.PollIntervalMillis > 0 {
		fc.PollInterval = time.Duration(lc.PollIntervalMillis) * time.Millisecond
	}
	if lc.TypingDelayMillis > 0 {
		fc.TypingDelay = time.Duration(lc.TypingDelayMillis) * time.Millisecond
	}
	return fc
}
