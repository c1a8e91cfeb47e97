package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompactCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{"plain integer", "42", 42, true},
		{"thousands separators", "12,345", 12345, true},
		{"decimal with k suffix", "1.2K", 1200, true},
		{"lowercase k", "12.4k", 12400, true},
		{"millions", "3M", 3000000, true},
		{"lowercase m", "1.5m", 1500000, true},
		{"billions", "1B", 1000000000, true},
		{"decimal billions", "2.3b", 2300000000, true},
		{"rounding half up", "1.005K", 1005, true},
		{"rounding fraction", "1.2345K", 1235, true},
		{"embedded in label", "361.9K Views", 361900, true},
		{"number after words", "Replies: 1,204", 1204, true},
		{"first match wins", "3 replies, 45 likes", 3, true},
		{"separated thousands with spaces", "12 345", 12345, true},
		{"empty string", "", 0, false},
		{"no digits", "no counts here", 0, false},
		{"suffix only", "K", 0, false},
		{"multiple dots fail to parse", "1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCompactCount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseCompactCountDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		got, ok := ParseCompactCount("1.005K")
		assert.True(t, ok)
		assert.Equal(t, int64(1005), got)
	}
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, containsDigit("abc1"))
	assert.False(t, containsDigit("views"))
	assert.False(t, containsDigit(""))
}
