package scraper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"xscraper/pkg/checkpoint"
	"xscraper/pkg/config"
	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/storage"
	"xscraper/pkg/twitter"
	"xscraper/pkg/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postWithCountsHTML = `
<html><body>
<article>
  <time datetime="2024-03-01T12:00:00.000Z">Mar 1</time>
  <div data-testid="tweetText">Launch day. It is finally here.</div>
  <div aria-label="361,942 Views"></div>
  <button data-testid="reply" aria-label="1,002 Replies"><span>1K</span></button>
  <button data-testid="retweet" aria-label="3,000 reposts"><span>3K</span></button>
  <button data-testid="like" aria-label="50,123 Likes"><span>50K</span></button>
</article>
</body></html>`

const postWithoutCountsHTML = `
<html><body>
<article>
  <div data-testid="tweetText">Nothing rendered yet.</div>
</article>
</body></html>`

// fakePostPage scripts the browser page surface
type fakePostPage struct {
	mu           sync.Mutex
	navigatedTo  []string
	rootCalls    int
	refreshCalls int
	navigate     func(call int, url string) error
	waitRoot     func(call int) bool
	html         string
	htmlErr      error
}

func (f *fakePostPage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	f.navigatedTo = append(f.navigatedTo, url)
	call := len(f.navigatedTo)
	f.mu.Unlock()

	if f.navigate != nil {
		return f.navigate(call, url)
	}
	return nil
}

func (f *fakePostPage) DismissBanner(ctx context.Context) bool {
	return false
}

func (f *fakePostPage) WaitPostRoot(ctx context.Context) bool {
	f.mu.Lock()
	f.rootCalls++
	call := f.rootCalls
	f.mu.Unlock()

	if f.waitRoot != nil {
		return f.waitRoot(call)
	}
	return true
}

func (f *fakePostPage) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return nil
}

func (f *fakePostPage) HTML(ctx context.Context) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	if f.html != "" {
		return f.html, nil
	}
	return postWithCountsHTML, nil
}

func (f *fakePostPage) CurrentURL() string {
	return ""
}

func (f *fakePostPage) navCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.navigatedTo)
}

// fakeClock makes refresh pauses observable without real sleeping
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Scrape.MinIntervalSeconds = 0
	cfg.Twitter.StateFile = filepath.Join(dir, "state.json")
	cfg.Output.FailedFile = filepath.Join(dir, "failed.csv")
	cfg.Output.WriteManifest = false
	cfg.UI.Progress = false
	return cfg
}

func newTestScheduler(cfg *config.Config, page PostPage, clock twitter.Clock) *Scheduler {
	limiter := ratelimit.NewPacer(cfg.Scrape.MinInterval())
	return NewScheduler(page, limiter, clock, twitter.DefaultHeuristics(), cfg, logger.NewNopLogger())
}

func newTestScraper(cfg *config.Config, page PostPage) *Scraper {
	log := logger.NewNopLogger()
	limiter := ratelimit.NewPacer(cfg.Scrape.MinInterval())
	clock := twitter.SystemClock{}

	return &Scraper{
		scheduler: NewScheduler(page, limiter, clock, twitter.DefaultHeuristics(), cfg, log),
		limiter:   limiter,
		tracker:   ui.NewStatusTracker(),
		config:    cfg,
		logger:    log,
		clock:     clock,
	}
}

func writeURLList(t *testing.T, dir string, urls ...string) string {
	t.Helper()
	path := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(urls, "\n")+"\n"), 0644))
	return path
}

func TestSchedulerFetch(t *testing.T) {
	t.Run("extracts metrics from a rendered post", func(t *testing.T) {
		page := &fakePostPage{}
		sch := newTestScheduler(testConfig(t), page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusOK, result.Status)
		assert.Equal(t, "https://x.com/alice/status/1111", result.URL)
		require.NotNil(t, result.Views)
		assert.Equal(t, int64(361942), *result.Views)
		require.NotNil(t, result.Likes)
		assert.Equal(t, int64(50123), *result.Likes)
		require.NotNil(t, result.Shares)
		assert.Equal(t, int64(3000), *result.Shares)
		require.NotNil(t, result.Comments)
		assert.Equal(t, int64(1002), *result.Comments)
		require.NotNil(t, result.PostedAt)
		assert.Equal(t, "2024-03-01T12:00:00.000Z", *result.PostedAt)
		require.NotNil(t, result.Caption)
		assert.Contains(t, *result.Caption, "Launch day")

		assert.Equal(t, 1, page.navCount())
	})

	t.Run("navigates to the canonical mobile URL", func(t *testing.T) {
		page := &fakePostPage{}
		sch := newTestScheduler(testConfig(t), page, newFakeClock())

		sch.Fetch(context.Background(), "twitter.com/alice/status/1111")

		require.Equal(t, 1, page.navCount())
		assert.Equal(t, "https://mobile.twitter.com/alice/status/1111", page.navigatedTo[0])
	})

	t.Run("no counts is terminal", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scrape.Retries = 3
		page := &fakePostPage{html: postWithoutCountsHTML}
		sch := newTestScheduler(cfg, page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusNoCountsFound, result.Status)
		assert.Equal(t, 1, page.navCount())
	})

	t.Run("retries navigation errors until success", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scrape.Retries = 2
		page := &fakePostPage{
			navigate: func(call int, url string) error {
				if call < 3 {
					return errs.NewNavigation("nav failed", nil)
				}
				return nil
			},
		}
		sch := newTestScheduler(cfg, page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusOK, result.Status)
		assert.Equal(t, 3, page.navCount())
	})

	t.Run("records the last error after exhausting retries", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scrape.Retries = 1
		page := &fakePostPage{
			navigate: func(call int, url string) error {
				return errs.NewNavigation("nav failed", nil)
			},
		}
		sch := newTestScheduler(cfg, page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusError, result.Status)
		assert.Contains(t, result.Error, "navigation")
		assert.Equal(t, 2, page.navCount())
	})

	t.Run("auth errors are not retried", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scrape.Retries = 3
		page := &fakePostPage{
			navigate: func(call int, url string) error {
				return errs.NewAuth("login required", nil)
			},
		}
		sch := newTestScheduler(cfg, page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusError, result.Status)
		assert.Equal(t, 1, page.navCount())
	})

	t.Run("canceled context stops the fetch", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scrape.Retries = 3
		page := &fakePostPage{}
		sch := newTestScheduler(cfg, page, newFakeClock())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := sch.Fetch(ctx, "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusError, result.Status)
		assert.Equal(t, 0, page.navCount())
	})
}

func TestSchedulerRefreshLoop(t *testing.T) {
	t.Run("forces bounded refreshes and extracts anyway", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Browser.MaxRefreshes = 3
		clock := newFakeClock()
		page := &fakePostPage{
			waitRoot: func(call int) bool { return false },
		}
		sch := newTestScheduler(cfg, page, clock)

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		// The refresh budget ran out but the snapshot still extracts
		assert.Equal(t, models.StatusOK, result.Status)
		assert.Equal(t, 3, page.refreshCalls)
		assert.Equal(t, 4, page.rootCalls)

		require.Len(t, clock.sleeps, 3)
		for _, d := range clock.sleeps {
			assert.Equal(t, cfg.Browser.RefreshPause(), d)
		}
	})

	t.Run("stops refreshing once the post renders", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Browser.MaxRefreshes = 4
		page := &fakePostPage{
			waitRoot: func(call int) bool { return call >= 2 },
		}
		sch := newTestScheduler(cfg, page, newFakeClock())

		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")

		assert.Equal(t, models.StatusOK, result.Status)
		assert.Equal(t, 1, page.refreshCalls)
	})
}

func TestSchedulerPacing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scrape.MinIntervalSeconds = 0.03
	page := &fakePostPage{}
	sch := newTestScheduler(cfg, page, newFakeClock())

	start := time.Now()
	for i := 0; i < 3; i++ {
		result := sch.Fetch(context.Background(), "https://x.com/alice/status/1111")
		require.Equal(t, models.StatusOK, result.Status)
	}
	elapsed := time.Since(start)

	// First fetch is immediate, the next two wait out the interval
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestRunWritesResults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	input := writeURLList(t, dir,
		"https://x.com/alice/status/1111",
		"https://x.com/bob/status/2222",
	)
	output := filepath.Join(dir, "results.csv")

	cfg := testConfig(t)
	cfg.Output.WriteManifest = true
	s := newTestScraper(cfg, &fakePostPage{})

	summary, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, models.SessionNone, s.AuthSession().Source)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "url,posted_at,views"))
	assert.Contains(t, lines[1], "https://x.com/alice/status/1111")
	assert.Contains(t, lines[1], "361942")

	// No failures, so no failure list
	_, err = os.Stat(cfg.Output.FailedFile)
	assert.True(t, os.IsNotExist(err))

	// Manifest written next to the results
	_, err = os.Stat(output + ".run.json")
	assert.NoError(t, err)

	// Checkpoint removed after a completed run
	mgr, err := checkpoint.NewManager(input, output)
	require.NoError(t, err)
	assert.False(t, mgr.Exists())
}

func TestRunRecordsFailures(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	input := writeURLList(t, dir,
		"https://x.com/alice/status/1111",
		"https://x.com/bad/status/2222",
	)
	output := filepath.Join(dir, "results.csv")

	cfg := testConfig(t)
	cfg.Scrape.Retries = 0
	page := &fakePostPage{
		navigate: func(call int, url string) error {
			if strings.Contains(url, "bad") {
				return errs.NewNavigation("nav failed", nil)
			}
			return nil
		},
	}
	s := newTestScraper(cfg, page)

	summary, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 1, summary.Errors)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "navigation: nav failed")

	failed, err := os.ReadFile(cfg.Output.FailedFile)
	require.NoError(t, err)
	assert.Contains(t, string(failed), "https://x.com/bad/status/2222")
	assert.NotContains(t, string(failed), "alice")
}

func TestRunCheckpointHandling(t *testing.T) {
	url1 := "https://x.com/alice/status/1111"
	url2 := "https://x.com/bob/status/2222"

	seedRun := func(t *testing.T) (input, output string, cfg *config.Config) {
		t.Helper()
		dir := t.TempDir()
		input = writeURLList(t, dir, url1, url2)
		output = filepath.Join(dir, "results.csv")
		cfg = testConfig(t)

		mgr, err := checkpoint.NewManager(input, output)
		require.NoError(t, err)
		cp, err := mgr.Create()
		require.NoError(t, err)
		require.NoError(t, mgr.MarkProcessed(cp, url1, "ok"))

		caption := "seeded-row"
		writer, err := storage.NewResultWriter(output, false)
		require.NoError(t, err)
		require.NoError(t, writer.WriteResult(models.ScrapeResult{
			URL:     url1,
			Status:  models.StatusOK,
			Caption: &caption,
		}))
		require.NoError(t, writer.Close())
		return input, output, cfg
	}

	t.Run("refuses to run over an interrupted pair", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		input, output, cfg := seedRun(t)

		s := newTestScraper(cfg, &fakePostPage{})
		_, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--resume")
		assert.Contains(t, err.Error(), "--force-restart")
	})

	t.Run("resume skips processed URLs and appends", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		input, output, cfg := seedRun(t)

		page := &fakePostPage{}
		s := newTestScraper(cfg, page)

		summary, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output, Resume: true})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, summary.OK)
		assert.Equal(t, 1, page.navCount())
		assert.Contains(t, page.navigatedTo[0], "bob")

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 3)
		assert.Contains(t, string(data), "seeded-row")

		mgr, err := checkpoint.NewManager(input, output)
		require.NoError(t, err)
		assert.False(t, mgr.Exists())
	})

	t.Run("force restart discards progress and truncates", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		input, output, cfg := seedRun(t)

		page := &fakePostPage{}
		s := newTestScraper(cfg, page)

		summary, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output, ForceRestart: true})
		require.NoError(t, err)

		assert.Equal(t, 0, summary.Skipped)
		assert.Equal(t, 2, summary.OK)
		assert.Equal(t, 2, page.navCount())

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 3)
		assert.NotContains(t, string(data), "seeded-row")
	})
}

func TestRunInterrupted(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	input := writeURLList(t, dir,
		"https://x.com/alice/status/1111",
		"https://x.com/bob/status/2222",
	)
	output := filepath.Join(dir, "results.csv")

	cfg := testConfig(t)
	s := newTestScraper(cfg, &fakePostPage{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := s.Run(ctx, RunOptions{InputFile: input, OutputFile: output})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Total)

	// The checkpoint survives so the run can be resumed
	mgr, merr := checkpoint.NewManager(input, output)
	require.NoError(t, merr)
	assert.True(t, mgr.Exists())
}

func TestRunFailedListPolicy(t *testing.T) {
	run := func(t *testing.T, includeNoCounts bool) (*config.Config, *models.RunSummary) {
		t.Helper()
		t.Setenv("XDG_DATA_HOME", t.TempDir())

		dir := t.TempDir()
		input := writeURLList(t, dir, "https://x.com/alice/status/1111")
		output := filepath.Join(dir, "results.csv")

		cfg := testConfig(t)
		cfg.Scrape.FailedIncludeNoCounts = includeNoCounts
		s := newTestScraper(cfg, &fakePostPage{html: postWithoutCountsHTML})

		summary, err := s.Run(context.Background(), RunOptions{InputFile: input, OutputFile: output})
		require.NoError(t, err)
		return cfg, summary
	}

	t.Run("no-counts rows land on the failure list by default", func(t *testing.T) {
		cfg, summary := run(t, true)
		assert.Equal(t, 1, summary.NoCounts)

		failed, err := os.ReadFile(cfg.Output.FailedFile)
		require.NoError(t, err)
		assert.Contains(t, string(failed), "https://x.com/alice/status/1111")
	})

	t.Run("policy off keeps no-counts rows off the list", func(t *testing.T) {
		cfg, summary := run(t, false)
		assert.Equal(t, 1, summary.NoCounts)

		_, err := os.Stat(cfg.Output.FailedFile)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestHeuristicsFromConfig(t *testing.T) {
	t.Run("empty config keeps the defaults", func(t *testing.T) {
		got := heuristicsFromConfig(config.HeuristicsConfig{})
		assert.Equal(t, twitter.DefaultHeuristics(), got)
	})

	t.Run("overrides merge over the defaults", func(t *testing.T) {
		got := heuristicsFromConfig(config.HeuristicsConfig{
			PostRootSelector: "main article",
			LikeTokens:       []string{"fav"},
		})

		assert.Equal(t, "main article", got.PostRootSelector)
		assert.Equal(t, []string{"fav"}, got.LikeTokens)
		assert.Equal(t, twitter.DefaultHeuristics().ReplySelector, got.ReplySelector)
	})
}

func TestFlowConfigFromConfig(t *testing.T) {
	t.Run("zero config keeps the defaults", func(t *testing.T) {
		got := flowConfigFromConfig(config.LoginConfig{}, nil)
		assert.Equal(t, twitter.DefaultFlowConfig(), got)
	})

	t.Run("set fields map onto the flow bounds", func(t *testing.T) {
		got := flowConfigFromConfig(config.LoginConfig{
			IdentifierWaitSeconds: 5,
			TypingDelayMillis:     10,
		}, []string{"Agree"})

		assert.Equal(t, 5*time.Second, got.IdentifierWait)
		assert.Equal(t, 10*time.Millisecond, got.TypingDelay)
		assert.Equal(t, []string{"Agree"}, got.ConsentLabels)
		assert.Equal(t, twitter.DefaultFlowConfig().PasswordWait, got.PasswordWait)
	})
}
