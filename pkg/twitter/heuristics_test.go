package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHeuristics(t *testing.T) {
	h := DefaultHeuristics()

	assert.Equal(t, "article", h.PostRootSelector)
	assert.NotEmpty(t, h.ReplySelector)
	assert.NotEmpty(t, h.RetweetSelector)
	assert.NotEmpty(t, h.LikeSelector)
	assert.NotEmpty(t, h.CommentTokens)
	assert.NotEmpty(t, h.ShareTokens)
	assert.NotEmpty(t, h.LikeTokens)
	assert.NotEmpty(t, h.ConsentLabels)
}

func TestHeuristicsMerge(t *testing.T) {
	h := DefaultHeuristics().Merge(Heuristics{
		PostRootSelector: "main article",
		LikeTokens:       []string{"fav"},
	})

	assert.Equal(t, "main article", h.PostRootSelector)
	assert.Equal(t, []string{"fav"}, h.LikeTokens)
	// Untouched fields keep their defaults.
	assert.Equal(t, `div[data-testid="tweetText"]`, h.CaptionSelector)
	assert.Equal(t, []string{"repl", "comment"}, h.CommentTokens)
}
