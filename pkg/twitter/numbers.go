package twitter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// compactCountRe matches the first digit-leading number in a fragment,
// with optional thousands separators, spaces, or a decimal point, followed
// by an optional one-letter magnitude suffix.
var compactCountRe = regexp.MustCompile(`([0-9][0-9,\.\s]*)([kKmMbB]?)`)

// ParseCompactCount converts a human-readable compact count ("12.4K",
// "3,402", "1B") into an integer. It returns false when the fragment is
// empty, contains no digit-leading match, or the numeric portion does not
// parse. Deterministic and side-effect-free; every caller in the repo,
// including the reconciliation pass, goes through this one function.
func ParseCompactCount(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	m := compactCountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	num := strings.NewReplacer(",", "", " ", "", "\t", "").Replace(m[1])
	num = strings.TrimSpace(num)
	if num == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "k":
		f *= 1e3
	case "m":
		f *= 1e6
	case "b":
		f *= 1e9
	}

	return int64(math.Round(f)), true
}

// containsDigit reports whether s has at least one ASCII digit.
func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
