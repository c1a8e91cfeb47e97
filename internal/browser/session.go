package browser

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"xscraper/pkg/config"
	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/retry"
)

// Default network identity. Both values can be overridden through the
// browser config.
const (
	defaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"
)

// Viewport sized like a narrow desktop window so the site serves the
// full post layout rather than the logged-out mobile shell.
const (
	viewportWidth  = 980
	viewportHeight = 1400
)

// Session owns one browser process and the single tab every navigation
// goes through. The fetch loop is sequential, and one tab keeps the
// site's cookies and local storage coherent across posts.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      *config.BrowserConfig
	log      logger.Logger
}

// NewSession launches a browser, opens the scraping tab and installs
// the stealth script and network identity before any navigation.
func NewSession(cfg *config.BrowserConfig, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Session{cfg: cfg, log: log}
	err := retry.Do(s.connect, &retry.Config{
		MaxAttempts: 3,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:    500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: context.Background(),
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	if err := s.preparePage(); err != nil {
		s.Close()
		return nil, err
	}

	s.log.InfoWithFields("browser session ready", map[string]interface{}{
		"headless": cfg.Headless,
	})
	return s, nil
}

// connect launches a fresh browser process and attaches to it. Each
// attempt builds its own launcher; a half-launched one is not reusable.
func (s *Session) connect() error {
	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(true)

	if s.cfg.BinPath != "" {
		l = l.Bin(s.cfg.BinPath)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return errs.NewBrowser("failed to launch browser", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return errs.NewBrowser("failed to connect to browser", err)
	}

	s.launcher = l
	s.browser = b
	return nil
}

// preparePage opens the single tab and applies everything that must be
// in place before the first navigation: the stealth script, the user
// agent, the Accept-Language header and the viewport.
func (s *Session) preparePage() error {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return errs.NewBrowser("failed to open page", err)
	}

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		s.log.WarnWithFields("stealth injection failed, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ua := s.cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if err := (proto.NetworkSetUserAgentOverride{UserAgent: ua}).Call(page); err != nil {
		return errs.NewBrowser("failed to set user agent", err)
	}

	lang := s.cfg.AcceptLanguage
	if lang == "" {
		lang = defaultAcceptLanguage
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": lang}),
	}).Call(page); err != nil {
		s.log.WarnWithFields("failed to set Accept-Language header", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return errs.NewBrowser("failed to set viewport", err)
	}

	s.page = page
	return nil
}

// Page returns the session's single tab.
func (s *Session) Page() *rod.Page {
	return s.page
}

// ApplyState installs the state's cookies into the browser. Must run
// before the first navigation so the session starts authenticated.
func (s *Session) ApplyState(st *State) error {
	if st == nil || len(st.Cookies) == 0 {
		return errs.NewAuth("session state has no cookies", nil)
	}

	params := make([]*proto.NetworkCookieParam, 0, len(st.Cookies))
	for _, c := range st.Cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: sameSiteParam(c.SameSite),
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}

	if err := s.browser.SetCookies(params); err != nil {
		return errs.NewAuth("failed to install session cookies", err)
	}

	s.log.InfoWithFields("session cookies installed", map[string]interface{}{
		"cookies": len(params),
	})
	return nil
}

// CaptureState exports the browser's current cookie jar.
func (s *Session) CaptureState() (*State, error) {
	cookies, err := s.browser.GetCookies()
	if err != nil {
		return nil, errs.NewBrowser("failed to read browser cookies", err)
	}

	st := &State{SavedAt: time.Now().UTC()}
	for _, c := range cookies {
		st.Cookies = append(st.Cookies, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return st, nil
}

// SaveState captures the current cookie jar and writes it to path.
func (s *Session) SaveState(path string) error {
	st, err := s.CaptureState()
	if err != nil {
		return err
	}
	if err := st.Save(path); err != nil {
		return err
	}

	s.log.InfoWithFields("session state saved", map[string]interface{}{
		"path":    path,
		"cookies": len(st.Cookies),
	})
	return nil
}

// Close shuts the tab and browser down and reaps the launched process.
// Safe to call on a partially constructed session.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.log.DebugWithFields("page close failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.DebugWithFields("browser close failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// sameSiteParam maps a stored SameSite string onto the protocol enum.
// Unknown values are left unset so the browser applies its default.
func sameSiteParam(v string) proto.NetworkCookieSameSite {
	switch strings.ToLower(v) {
	case "lax":
		return proto.NetworkCookieSameSiteLax
	case "strict":
		return proto.NetworkCookieSameSiteStrict
	case "none":
		return proto.NetworkCookieSameSiteNone
	default:
		return ""
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) the headers override call requires.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
