package browser

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	errs "xscraper/pkg/errors"
)

// domSettle is how long the DOM must stay unchanged after a navigation
// before the page counts as settled.
const domSettle = 300 * time.Millisecond

// buttonSelector matches anything the page renders as a clickable
// button, including div-based ones.
const buttonSelector = `button, [role="button"]`

// clickButtonByLabel clicks the first visible button whose text matches
// one of the labels, case-insensitively, and reports whether anything
// was clicked. Probing is non-blocking; an absent button is not an
// error.
func clickButtonByLabel(page *rod.Page, labels []string) bool {
	for _, label := range labels {
		ok, el, err := page.HasR(buttonSelector, labelPattern(label))
		if err != nil || !ok {
			continue
		}
		if visible, verr := el.Visible(); verr != nil || !visible {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		return true
	}
	return false
}

// labelPattern builds the case-insensitive substring regex the element
// text is matched against.
func labelPattern(label string) string {
	return "/" + regexp.QuoteMeta(label) + "/i"
}

// evalStringOrEmpty evaluates a JS expression and returns the string
// result, swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw browser failures into typed errors so the
// retry layer can tell transient timeouts from cancellation.
func categorizeError(err error, msg string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errs.NewTimeout(msg, err)
	case errors.Is(err, context.Canceled):
		return errs.NewNavigation("navigation canceled", err)
	default:
		return errs.NewNavigation(msg, err)
	}
}
