package twitter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metrics carries the six extracted fields. Nil means "not determined",
// never zero.
type Metrics struct {
	Views    *int64
	Likes    *int64
	Shares   *int64
	Comments *int64
	PostedAt *string
	Caption  *string
}

// HasAnyCount reports whether at least one engagement count was found.
func (m Metrics) HasAnyCount() bool {
	return m.Views != nil || m.Likes != nil || m.Shares != nil || m.Comments != nil
}

var (
	// viewsLabelRe accepts a label that is exactly a compact count plus
	// the views word. Used by the first, strictest views stage.
	viewsLabelRe = regexp.MustCompile(`(?i)^\s*([0-9][0-9.,\s]*[kmb]?)\s*views?\s*$`)

	// viewsInTextRe finds a compact count immediately preceding the views
	// word anywhere in a fragment. Used by the text stage and by the
	// reconciliation pass over composite labels.
	viewsInTextRe = regexp.MustCompile(`(?i)([0-9][0-9.,\s]*[kmb]?)\s*views?\b`)

	// viewsWordRe and viewsOnlyRe locate the views word itself.
	viewsWordRe = regexp.MustCompile(`(?i)\bviews?\b`)
	viewsOnlyRe = regexp.MustCompile(`(?i)^\s*views?\s*$`)

	// viewsTokenRe matches a whitespace-split token that is the views word,
	// tolerating glued punctuation.
	viewsTokenRe = regexp.MustCompile(`(?i)^[·•(]?views?[.,:;·•)]?$`)

	// isoDatetimeRe is the shape of a machine-readable timestamp attribute.
	isoDatetimeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)
)

// maxViewsTextLen bounds the text stage to small, count-like fragments so
// large containers whose text merely mentions views do not win.
const maxViewsTextLen = 80

// Extract runs the full heuristic chain against a rendered document and
// returns whatever could be determined. The document is expected to hold
// one post; when the post root is missing the whole document is scanned so
// a half-rendered page still gets a best-effort pass. Extraction never
// fails: any internal fault yields all-undetermined fields.
func Extract(doc *goquery.Document, h Heuristics) (m Metrics) {
	defer func() {
		if r := recover(); r != nil {
			m = Metrics{}
		}
	}()

	scope := postScope(doc, h)

	if n, ok := countFromButton(scope, h.ReplySelector, h.CommentTokens); ok {
		m.Comments = &n
	}
	if n, ok := countFromButton(scope, h.RetweetSelector, h.ShareTokens); ok {
		m.Shares = &n
	}
	if n, ok := countFromButton(scope, h.LikeSelector, h.LikeTokens); ok {
		m.Likes = &n
	}
	if n, ok := extractViews(scope); ok {
		m.Views = &n
	}
	if s, ok := extractPostedAt(scope, h); ok {
		m.PostedAt = &s
	}
	if s, ok := extractCaption(scope, h); ok {
		m.Caption = &s
	}
	return m
}

// ReconcileViews is the second-chance pass run by the caller after Extract.
// It scans every accessible label under the post root for one that merely
// contains the views word plus a digit, looser than the anchored first
// stage, and fills Views only when the DOM pass left it undetermined.
func ReconcileViews(doc *goquery.Document, h Heuristics, m *Metrics) {
	if m == nil || m.Views != nil {
		return
	}
	defer func() {
		recover()
	}()

	scope := postScope(doc, h)
	scope.Find("[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		if !containsDigit(label) || !viewsWordRe.MatchString(label) {
			return true
		}
		if sub := viewsInTextRe.FindStringSubmatch(label); sub != nil {
			if n, ok := ParseCompactCount(sub[1]); ok {
				m.Views = &n
				return false
			}
		}
		return true
	})
}

// postScope returns the post root when present, else the whole document.
func postScope(doc *goquery.Document, h Heuristics) *goquery.Selection {
	root := doc.Find(h.PostRootSelector).First()
	if root.Length() > 0 {
		return root
	}
	return doc.Selection
}

// countFromButton reads one action button: the accessible label wins when
// it carries a digit; otherwise the visible text counts only when one of
// the field's keyword tokens appears in the label or the text.
func countFromButton(scope *goquery.Selection, selector string, tokens []string) (int64, bool) {
	btn := scope.Find(selector).First()
	if btn.Length() == 0 {
		return 0, false
	}

	label, _ := btn.Attr("aria-label")
	if containsDigit(label) {
		if n, ok := ParseCompactCount(label); ok {
			return n, true
		}
	}

	text := strings.TrimSpace(btn.Text())
	if text == "" || !containsDigit(text) {
		return 0, false
	}
	if !containsAnyFold(label, tokens) && !containsAnyFold(text, tokens) {
		return 0, false
	}
	return ParseCompactCount(text)
}

// extractViews runs the four-stage fallback chain; each stage only runs
// when every earlier stage came back empty.
func extractViews(scope *goquery.Selection) (int64, bool) {
	if n, ok := viewsFromLabels(scope); ok {
		return n, true
	}
	if n, ok := viewsFromText(scope); ok {
		return n, true
	}
	if n, ok := viewsFromNeighbors(scope); ok {
		return n, true
	}
	return viewsFromParentTokens(scope)
}

// viewsFromLabels: stage 1, an accessible label that is exactly a count.
func viewsFromLabels(scope *goquery.Selection) (int64, bool) {
	var views int64
	found := false
	scope.Find("[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		sub := viewsLabelRe.FindStringSubmatch(label)
		if sub == nil {
			return true
		}
		if n, ok := ParseCompactCount(sub[1]); ok {
			views, found = n, true
			return false
		}
		return true
	})
	return views, found
}

// viewsFromText: stage 2, visible text with a digit next to the views word.
func viewsFromText(scope *goquery.Selection) (int64, bool) {
	var views int64
	found := false
	scope.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > maxViewsTextLen {
			return true
		}
		if !containsDigit(text) || !viewsWordRe.MatchString(text) {
			return true
		}
		if sub := viewsInTextRe.FindStringSubmatch(text); sub != nil {
			if n, ok := ParseCompactCount(sub[1]); ok {
				views, found = n, true
				return false
			}
		}
		if n, ok := numberNextToViewsToken(strings.Fields(text)); ok {
			views, found = n, true
			return false
		}
		return true
	})
	return views, found
}

// viewsFromNeighbors: stage 3, an element that says only "views" with the
// count in an adjacent sibling.
func viewsFromNeighbors(scope *goquery.Selection) (int64, bool) {
	var views int64
	found := false
	scope.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !viewsOnlyRe.MatchString(s.Text()) {
			return true
		}
		for _, sib := range []*goquery.Selection{s.Prev(), s.Next()} {
			if sib.Length() == 0 {
				continue
			}
			if n, ok := ParseCompactCount(strings.TrimSpace(sib.Text())); ok {
				views, found = n, true
				return false
			}
		}
		return true
	})
	return views, found
}

// viewsFromParentTokens: stage 4, tokenize the parent's full text and take
// the token adjacent to the views word.
func viewsFromParentTokens(scope *goquery.Selection) (int64, bool) {
	var views int64
	found := false
	scope.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !viewsOnlyRe.MatchString(s.Text()) {
			return true
		}
		parent := s.Parent()
		if parent.Length() == 0 {
			return true
		}
		if n, ok := numberNextToViewsToken(strings.Fields(parent.Text())); ok {
			views, found = n, true
			return false
		}
		return true
	})
	return views, found
}

// numberNextToViewsToken scans whitespace tokens for the views word and
// parses the token before it, then the one after.
func numberNextToViewsToken(tokens []string) (int64, bool) {
	for i, tok := range tokens {
		if !viewsTokenRe.MatchString(tok) {
			continue
		}
		if i > 0 {
			if n, ok := ParseCompactCount(tokens[i-1]); ok {
				return n, true
			}
		}
		if i+1 < len(tokens) {
			if n, ok := ParseCompactCount(tokens[i+1]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// extractPostedAt prefers the machine-readable attribute on the time
// marker, then its human-readable title or text. The header scan only
// runs when no time marker exists at all.
func extractPostedAt(scope *goquery.Selection, h Heuristics) (string, bool) {
	timeEl := scope.Find(h.TimeSelector).First()
	if timeEl.Length() > 0 {
		if dt, ok := timeEl.Attr("datetime"); ok && isoDatetimeRe.MatchString(dt) {
			return dt, true
		}
		if title, ok := timeEl.Attr("title"); ok {
			if t := strings.TrimSpace(title); t != "" {
				return t, true
			}
		}
		if t := strings.TrimSpace(timeEl.Text()); t != "" {
			return t, true
		}
		return "", false
	}

	hdr := scope.Find(h.HeaderTimeSelector).First()
	if hdr.Length() > 0 {
		if dt, ok := hdr.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return dt, true
		}
	}
	return "", false
}

// extractCaption joins every non-empty text block of the post body.
func extractCaption(scope *goquery.Selection, h Heuristics) (string, bool) {
	var blocks []string
	scope.Find(h.CaptionSelector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})
	if len(blocks) == 0 {
		return "", false
	}
	return strings.Join(blocks, "\n"), true
}

// containsAnyFold reports whether s contains any of the tokens,
// case-insensitively.
func containsAnyFold(s string, tokens []string) bool {
	lower := strings.ToLower(s)
	for _, tok := range tokens {
		if tok != "" && strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}
