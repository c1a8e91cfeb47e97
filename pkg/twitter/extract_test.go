package twitter

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const fullPostHTML = `
<html><body>
<article>
  <header><a href="/someone"><span>Someone</span></a></header>
  <div data-testid="tweetText">First block of the post.</div>
  <div data-testid="tweetText">Second block.</div>
  <time datetime="2024-03-01T10:20:30.000Z" title="Mar 1, 2024">Mar 1</time>
  <div aria-label="361,942 Views"></div>
  <button data-testid="reply" aria-label="1,002 Replies"><span>1K</span></button>
  <button data-testid="retweet" aria-label="3,000 reposts"><span>3K</span></button>
  <button data-testid="like" aria-label="50,123 Likes"><span>50K</span></button>
</article>
</body></html>`

func TestExtractFullPost(t *testing.T) {
	doc := mustDoc(t, fullPostHTML)
	m := Extract(doc, DefaultHeuristics())

	require.NotNil(t, m.Comments)
	assert.Equal(t, int64(1002), *m.Comments)
	require.NotNil(t, m.Shares)
	assert.Equal(t, int64(3000), *m.Shares)
	require.NotNil(t, m.Likes)
	assert.Equal(t, int64(50123), *m.Likes)
	require.NotNil(t, m.Views)
	assert.Equal(t, int64(361942), *m.Views)
	require.NotNil(t, m.PostedAt)
	assert.Equal(t, "2024-03-01T10:20:30.000Z", *m.PostedAt)
	require.NotNil(t, m.Caption)
	assert.Equal(t, "First block of the post.\nSecond block.", *m.Caption)
	assert.True(t, m.HasAnyCount())
}

func TestExtractIsIdempotent(t *testing.T) {
	doc := mustDoc(t, fullPostHTML)
	h := DefaultHeuristics()

	first := Extract(doc, h)
	second := Extract(doc, h)
	assert.Equal(t, first, second)
}

func TestExtractScopeFallsBackToDocument(t *testing.T) {
	doc := mustDoc(t, `
<html><body>
  <button data-testid="like" aria-label="17 Likes"></button>
</body></html>`)
	m := Extract(doc, DefaultHeuristics())

	require.NotNil(t, m.Likes)
	assert.Equal(t, int64(17), *m.Likes)
}

func TestExtractEmptyDocument(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)
	m := Extract(doc, DefaultHeuristics())

	assert.Nil(t, m.Views)
	assert.Nil(t, m.Likes)
	assert.Nil(t, m.Shares)
	assert.Nil(t, m.Comments)
	assert.Nil(t, m.PostedAt)
	assert.Nil(t, m.Caption)
	assert.False(t, m.HasAnyCount())
}

func TestCountFromButton(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		field func(Metrics) *int64
		want  *int64
	}{
		{
			name:  "label with digit wins over visible text",
			html:  `<article><button data-testid="like" aria-label="4,512 Likes">4.5K</button></article>`,
			field: func(m Metrics) *int64 { return m.Likes },
			want:  int64Ref(4512),
		},
		{
			name:  "keyword in label unlocks visible text",
			html:  `<article><button data-testid="reply" aria-label="Reply"><span>12</span></button></article>`,
			field: func(m Metrics) *int64 { return m.Comments },
			want:  int64Ref(12),
		},
		{
			name:  "keyword in text unlocks visible text",
			html:  `<article><button data-testid="reply">12 replies</button></article>`,
			field: func(m Metrics) *int64 { return m.Comments },
			want:  int64Ref(12),
		},
		{
			name:  "bare number without keyword stays undetermined",
			html:  `<article><button data-testid="reply">12</button></article>`,
			field: func(m Metrics) *int64 { return m.Comments },
			want:  nil,
		},
		{
			name:  "missing button stays undetermined",
			html:  `<article></article>`,
			field: func(m Metrics) *int64 { return m.Comments },
			want:  nil,
		},
		{
			name:  "label and text both without digits",
			html:  `<article><button data-testid="reply" aria-label="Reply">Reply</button></article>`,
			field: func(m Metrics) *int64 { return m.Comments },
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Extract(mustDoc(t, tt.html), DefaultHeuristics())
			got := tt.field(m)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestViewsStageLabel(t *testing.T) {
	// The anchored label beats any visible text on the page.
	doc := mustDoc(t, `
<article>
  <div aria-label="361,942 Views"></div>
  <span>99 views</span>
</article>`)
	m := Extract(doc, DefaultHeuristics())

	require.NotNil(t, m.Views)
	assert.Equal(t, int64(361942), *m.Views)
}

func TestViewsStageText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int64
	}{
		{
			name: "count before the word",
			html: `<article><span>1,234 Views</span></article>`,
			want: 1234,
		},
		{
			name: "count after the word",
			html: `<article><span>Views: 361</span></article>`,
			want: 361,
		},
		{
			name: "compact suffix",
			html: `<article><span>361.9K Views</span></article>`,
			want: 361900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Extract(mustDoc(t, tt.html), DefaultHeuristics())
			require.NotNil(t, m.Views)
			assert.Equal(t, tt.want, *m.Views)
		})
	}
}

func TestViewsStageTextSkipsLongContainers(t *testing.T) {
	long := strings.Repeat("padding ", 12) + "90 views"
	require.Greater(t, len(long), maxViewsTextLen)

	doc := mustDoc(t, `<article><div>`+long+`</div></article>`)
	m := Extract(doc, DefaultHeuristics())
	assert.Nil(t, m.Views)
}

func TestViewsStageNeighbor(t *testing.T) {
	doc := mustDoc(t, `
<article>
  <div><span>361.9K</span><span>Views</span></div>
</article>`)
	m := Extract(doc, DefaultHeuristics())

	require.NotNil(t, m.Views)
	assert.Equal(t, int64(361900), *m.Views)
}

func TestViewsStageParentTokens(t *testing.T) {
	doc := mustDoc(t, `
<article>
  <div>A long descriptive sentence padding this container well past the eighty character budget: 9,876 <span>Views</span></div>
</article>`)
	m := Extract(doc, DefaultHeuristics())

	require.NotNil(t, m.Views)
	assert.Equal(t, int64(9876), *m.Views)
}

func TestViewsUndetermined(t *testing.T) {
	doc := mustDoc(t, `<article><span>no numbers here</span></article>`)
	m := Extract(doc, DefaultHeuristics())
	assert.Nil(t, m.Views)
}

func TestReconcileViewsFillsFromCompositeLabel(t *testing.T) {
	doc := mustDoc(t, `
<article>
  <div aria-label="1,002 replies, 3,000 reposts, 50,123 likes, 361.9K views"></div>
</article>`)
	h := DefaultHeuristics()

	m := Extract(doc, h)
	assert.Nil(t, m.Views, "the anchored stage must not match a composite label")

	ReconcileViews(doc, h, &m)
	require.NotNil(t, m.Views)
	assert.Equal(t, int64(361900), *m.Views)
}

func TestReconcileViewsKeepsExistingValue(t *testing.T) {
	doc := mustDoc(t, `
<article>
  <div aria-label="777 views"></div>
</article>`)
	h := DefaultHeuristics()

	m := Metrics{Views: int64Ref(5)}
	ReconcileViews(doc, h, &m)
	require.NotNil(t, m.Views)
	assert.Equal(t, int64(5), *m.Views)
}

func TestReconcileViewsNoLabels(t *testing.T) {
	doc := mustDoc(t, `<article><span>hello</span></article>`)
	h := DefaultHeuristics()

	m := Metrics{}
	ReconcileViews(doc, h, &m)
	assert.Nil(t, m.Views)
}

func TestPostedAt(t *testing.T) {
	tests := []struct {
		name string
		html string
		want *string
	}{
		{
			name: "machine readable attribute",
			html: `<article><time datetime="2024-03-01T10:20:30.000Z">Mar 1</time></article>`,
			want: strRef("2024-03-01T10:20:30.000Z"),
		},
		{
			name: "malformed attribute falls back to title",
			html: `<article><time datetime="yesterday" title="Mar 1, 2024">Mar 1</time></article>`,
			want: strRef("Mar 1, 2024"),
		},
		{
			name: "malformed attribute falls back to text",
			html: `<article><time datetime="yesterday">Mar 1</time></article>`,
			want: strRef("Mar 1"),
		},
		{
			name: "header attribute used when no time marker",
			html: `<article><header><span datetime="2024-05-05T00:00:00.000Z">x</span></header></article>`,
			want: strRef("2024-05-05T00:00:00.000Z"),
		},
		{
			name: "header ignored when a time marker exists",
			html: `<article><time datetime="nope"></time><header><span datetime="2024-05-05T00:00:00.000Z">x</span></header></article>`,
			want: nil,
		},
		{
			name: "no markers at all",
			html: `<article></article>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Extract(mustDoc(t, tt.html), DefaultHeuristics())
			if tt.want == nil {
				assert.Nil(t, m.PostedAt)
			} else {
				require.NotNil(t, m.PostedAt)
				assert.Equal(t, *tt.want, *m.PostedAt)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	tests := []struct {
		name string
		html string
		want *string
	}{
		{
			name: "single block",
			html: `<article><div data-testid="tweetText">Hello world.</div></article>`,
			want: strRef("Hello world."),
		},
		{
			name: "blocks joined with newline, empties dropped",
			html: `<article>
				<div data-testid="tweetText">First.</div>
				<div data-testid="tweetText">   </div>
				<div data-testid="tweetText">Second.</div>
			</article>`,
			want: strRef("First.\nSecond."),
		},
		{
			name: "no blocks",
			html: `<article><div>plain text</div></article>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Extract(mustDoc(t, tt.html), DefaultHeuristics())
			if tt.want == nil {
				assert.Nil(t, m.Caption)
			} else {
				require.NotNil(t, m.Caption)
				assert.Equal(t, *tt.want, *m.Caption)
			}
		})
	}
}

func TestContainsAnyFold(t *testing.T) {
	assert.True(t, containsAnyFold("1,002 Replies", []string{"repl", "comment"}))
	assert.True(t, containsAnyFold("REPOST", []string{"repost", "retweet", "share"}))
	assert.False(t, containsAnyFold("likes", []string{"repl", "comment"}))
	assert.False(t, containsAnyFold("", []string{"like"}))
}

func int64Ref(n int64) *int64 { return &n }
func strRef(s string) *string { return &s }
