package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"xscraper/pkg/config"
	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
)

// alertSelector matches the toasts and inline errors the login page
// surfaces failures through.
const alertSelector = `[role="alert"], [data-testid="toast"]`

// LoginPage adapts the session's tab to the login flow's probe-and-act
// surface. Every method is a single round trip; all waiting and pacing
// lives in the flow.
type LoginPage struct {
	session *Session
	cfg     *config.BrowserConfig
	log     logger.Logger
}

// NewLoginPage wraps the session's tab for the login flow.
func NewLoginPage(session *Session, cfg *config.BrowserConfig, log logger.Logger) *LoginPage {
	if log == nil {
		log = logger.GetLogger()
	}
	return &LoginPage{session: session, cfg: cfg, log: log}
}

// Navigate loads url and lets the DOM settle.
func (p *LoginPage) Navigate(url string) error {
	page := p.session.Page().Timeout(p.cfg.NavTimeout())
	if err := page.Navigate(url); err != nil {
		return categorizeError(err, fmt.Sprintf("failed to load %s", url))
	}
	if werr := page.WaitDOMStable(domSettle, 0.1); werr != nil {
		p.log.DebugWithFields("DOM did not settle on login page", map[string]interface{}{
			"error": werr.Error(),
		})
	}
	return nil
}

// URL returns the page's current address.
func (p *LoginPage) URL() string {
	return evalStringOrEmpty(p.session.Page(), `() => window.location.href`)
}

// DismissConsent clicks the first visible button carrying one of the
// labels and reports whether anything was clicked.
func (p *LoginPage) DismissConsent(labels []string) bool {
	return clickButtonByLabel(p.session.Page(), labels)
}

// FindVisible reports whether any selector has a visible match.
func (p *LoginPage) FindVisible(selectors ...string) bool {
	return p.firstVisible(selectors) != nil
}

// HasAny reports whether any selector has a match, visible or not.
func (p *LoginPage) HasAny(selectors ...string) bool {
	for _, sel := range selectors {
		if ok, _, err := p.session.Page().Has(sel); err == nil && ok {
			return true
		}
	}
	return false
}

// Fill clicks the first visible field among selectors and types value
// one rune at a time so the page's key handlers fire like they would
// for a person.
func (p *LoginPage) Fill(selectors []string, value string, delay time.Duration) error {
	el := p.firstVisible(selectors)
	if el == nil {
		return errs.NewAuth("no visible input field to fill", nil)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		if ferr := el.Focus(); ferr != nil {
			return errs.NewAuth("failed to focus input field", err)
		}
	}

	page := p.session.Page()
	for _, r := range value {
		if err := page.InsertText(string(r)); err != nil {
			return errs.NewAuth("failed to type into input field", err)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}

// FillByScript sets the field value directly and fires the input and
// change events framework-bound inputs listen for. Fallback for fields
// that swallow synthetic typing.
func (p *LoginPage) FillByScript(selectors []string, value string) error {
	const js = `(sels, value) => {
		for (const sel of sels) {
			const el = document.querySelector(sel);
			if (!el) continue;
			el.focus();
			const desc = Object.getOwnPropertyDescriptor(Object.getPrototypeOf(el), 'value');
			if (desc && desc.set) {
				desc.set.call(el, value);
			} else {
				el.value = value;
			}
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		}
		return false;
	}`

	res, err := p.session.Page().Eval(js, selectors, value)
	if err != nil {
		return errs.NewAuth("script fill failed", err)
	}
	if !res.Value.Bool() {
		return errs.NewAuth("no input field matched for script fill", nil)
	}
	return nil
}

// ClickButton clicks the first visible button whose text matches one of
// the labels.
func (p *LoginPage) ClickButton(labels ...string) bool {
	return clickButtonByLabel(p.session.Page(), labels)
}

// PressEnter sends the Enter key to the focused element.
func (p *LoginPage) PressEnter() error {
	if err := p.session.Page().Keyboard.Press(input.Enter); err != nil {
		return errs.NewAuth("failed to press enter", err)
	}
	return nil
}

// BodyContains reports whether the page text contains the phrase,
// case-insensitively.
func (p *LoginPage) BodyContains(phrase string) bool {
	text := evalStringOrEmpty(p.session.Page(), `() => document.body ? document.body.innerText : ''`)
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}

// AlertTexts returns the texts of the alert and toast elements
// currently in the DOM.
func (p *LoginPage) AlertTexts() []string {
	els, err := p.session.Page().Elements(alertSelector)
	if err != nil {
		return nil
	}

	var texts []string
	for _, el := range els {
		t, terr := el.Text()
		if terr != nil {
			continue
		}
		if t = strings.TrimSpace(t); t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}

// firstVisible returns the first visible element matching any selector,
// probing without waiting.
func (p *LoginPage) firstVisible(selectors []string) *rod.Element {
	for _, sel := range selectors {
		ok, el, err := p.session.Page().Has(sel)
		if err != nil || !ok {
			continue
		}
		if visible, verr := el.Visible(); verr == nil && visible {
			return el
		}
	}
	return nil
}
