package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"x.com status",
			"https://x.com/someone/status/1790000000000000000",
			"https://mobile.twitter.com/someone/status/1790000000000000000",
		},
		{
			"twitter.com status",
			"https://twitter.com/someone/status/123",
			"https://mobile.twitter.com/someone/status/123",
		},
		{
			"already mobile",
			"https://mobile.twitter.com/someone/status/123",
			"https://mobile.twitter.com/someone/status/123",
		},
		{
			"www prefix stripped",
			"https://www.twitter.com/a/status/9",
			"https://mobile.twitter.com/a/status/9",
		},
		{
			"http upgraded",
			"http://x.com/a/status/9",
			"https://mobile.twitter.com/a/status/9",
		},
		{
			"no scheme",
			"x.com/a/status/9",
			"https://mobile.twitter.com/a/status/9",
		},
		{
			"query preserved",
			"https://x.com/a/status/9?s=20&t=abc",
			"https://mobile.twitter.com/a/status/9?s=20&t=abc",
		},
		{
			"host case insensitive",
			"https://X.com/a/status/9",
			"https://mobile.twitter.com/a/status/9",
		},
		{
			"foreign host untouched",
			"https://example.com/a/status/9",
			"https://example.com/a/status/9",
		},
		{
			"no path separator degrades",
			"https://x.com",
			"https://x.com",
		},
		{
			"no path no scheme degrades normalized",
			"x.com",
			"https://x.com",
		},
		{
			"whitespace trimmed",
			"  https://x.com/a/status/9  ",
			"https://mobile.twitter.com/a/status/9",
		},
		{
			"empty stays empty",
			"",
			"",
		},
		{
			"garbage survives",
			"not a url at all",
			"https://not a url at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestNormalizeURLNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "/", "://", "https://", "http://", "x.com/", "\t\n"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { NormalizeURL(in) })
	}
}
