package twitter

import "strings"

// mirrorHosts are the hostnames that all serve the same post content and
// get rewritten to the canonical mobile host for a lighter DOM.
var mirrorHosts = map[string]bool{
	"twitter.com":        true,
	"x.com":              true,
	"mobile.twitter.com": true,
}

// MobileHost is the canonical rendering host for post pages.
const MobileHost = "mobile.twitter.com"

// NormalizeURL rewrites an arbitrary post URL into its canonical mobile
// form. Missing schemes get https prepended, http is upgraded to https,
// and any recognized mirror host is swapped for the mobile host while
// preserving the path and query. Structurally odd inputs degrade to the
// scheme-normalized original; this function never fails.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	if strings.HasPrefix(s, "http://") {
		s = "https://" + strings.TrimPrefix(s, "http://")
	}

	rest := strings.TrimPrefix(s, "https://")
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return s
	}

	host := strings.ToLower(rest[:slash])
	host = strings.TrimPrefix(host, "www.")
	if mirrorHosts[host] {
		return "https://" + MobileHost + rest[slash:]
	}
	return s
}
