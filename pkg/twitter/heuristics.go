package twitter

// Heuristics holds every selector, keyword list, and label list the
// extraction and navigation layers match against. Platform markup drifts;
// keeping these as data means an updated config file fixes a broken
// heuristic without a code change.
type Heuristics struct {
	// PostRootSelector identifies the single post container on a status page.
	PostRootSelector string `yaml:"post_root_selector"`

	// Action buttons inside the post root.
	ReplySelector   string `yaml:"reply_selector"`
	RetweetSelector string `yaml:"retweet_selector"`
	LikeSelector    string `yaml:"like_selector"`

	// CaptionSelector matches the post's text blocks; threads and quote
	// posts can produce several.
	CaptionSelector string `yaml:"caption_selector"`

	// TimeSelector finds the machine-readable publish timestamp;
	// HeaderTimeSelector is the fallback scan when no time marker exists.
	TimeSelector       string `yaml:"time_selector"`
	HeaderTimeSelector string `yaml:"header_time_selector"`

	// Keyword tokens that qualify a button's text as belonging to a field.
	CommentTokens []string `yaml:"comment_tokens"`
	ShareTokens   []string `yaml:"share_tokens"`
	LikeTokens    []string `yaml:"like_tokens"`

	// ConsentLabels are button labels tried when dismissing cookie and
	// consent banners, on the login page and on post pages alike.
	ConsentLabels []string `yaml:"consent_labels"`
}

// DefaultHeuristics returns the selector set the platform currently serves.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		PostRootSelector:   "article",
		ReplySelector:      `[data-testid="reply"]`,
		RetweetSelector:    `[data-testid="retweet"]`,
		LikeSelector:       `[data-testid="like"]`,
		CaptionSelector:    `div[data-testid="tweetText"]`,
		TimeSelector:       "time[datetime]",
		HeaderTimeSelector: "header [datetime]",
		CommentTokens:      []string{"repl", "comment"},
		ShareTokens:        []string{"repost", "retweet", "share"},
		LikeTokens:         []string{"like"},
		ConsentLabels:      []string{"Accept all", "Accept", "I agree", "OK", "Got it"},
	}
}

// Merge overlays non-empty fields from o onto h and returns the result.
// Used when the config file overrides part of the default set.
func (h Heuristics) Merge(o Heuristics) Heuristics {
	if o.PostRootSelector != "" {
		h.PostRootSelector = o.PostRootSelector
	}
	if o.ReplySelector != "" {
		h.ReplySelector = o.ReplySelector
	}
	if o.RetweetSelector != "" {
		h.RetweetSelector = o.RetweetSelector
	}
	if o.LikeSelector != "" {
		h.LikeSelector = o.LikeSelector
	}
	if o.CaptionSelector != "" {
		h.CaptionSelector = o.CaptionSelector
	}
	if o.TimeSelector != "" {
		h.TimeSelector = o.TimeSelector
	}
	if o.HeaderTimeSelector != "" {
		h.HeaderTimeSelector = o.HeaderTimeSelector
	}
	if len(o.CommentTokens) > 0 {
		h.CommentTokens = o.CommentTokens
	}
	if len(o.ShareTokens) > 0 {
		h.ShareTokens = o.ShareTokens
	}
	if len(o.LikeTokens) > 0 {
		h.LikeTokens = o.LikeTokens
	}
	if len(o.ConsentLabels) > 0 {
		h.ConsentLabels = o.ConsentLabels
	}
	return h
}
