package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	errs "xscraper/pkg/errors"
)

// Cookie is one stored browser cookie. Field names follow the browser's
// own export shape so state files written by other tooling still load.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// State is a persisted browser session: the cookie jar captured after a
// login or cookie import, plus when it was captured.
type State struct {
	Cookies []Cookie  `json:"cookies"`
	SavedAt time.Time `json:"saved_at"`
}

// sessionDomains are the hosts a session cookie must cover. The site
// redirects between them, so each imported cookie is installed for both.
var sessionDomains = []string{".x.com", ".twitter.com"}

type cookiePair struct {
	name  string
	value string
}

// splitCookieHeader breaks a raw Cookie header into ordered name/value
// pairs. Segments without an equals sign are skipped; values may contain
// further equals signs.
func splitCookieHeader(header string) []cookiePair {
	var pairs []cookiePair
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" || !strings.Contains(part, "=") {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		pairs = append(pairs, cookiePair{name: name, value: strings.TrimSpace(kv[1])})
	}
	return pairs
}

// ParseCookieHeader parses a Cookie header line as copied from the
// browser devtools into a name/value map.
func ParseCookieHeader(header string) map[string]string {
	pairs := splitCookieHeader(header)
	cookies := make(map[string]string, len(pairs))
	for _, p := range pairs {
		cookies[p.name] = p.value
	}
	return cookies
}

// StateFromCookieHeader builds a session state from a raw Cookie header.
// Every pair becomes a secure cookie on each session domain so the login
// survives redirects between x.com and twitter.com.
func StateFromCookieHeader(header string) (*State, error) {
	pairs := splitCookieHeader(header)
	if len(pairs) == 0 {
		return nil, errs.NewAuth("no cookies found in header", nil)
	}

	st := &State{SavedAt: time.Now().UTC()}
	for _, p := range pairs {
		for _, domain := range sessionDomains {
			st.Cookies = append(st.Cookies, Cookie{
				Name:     p.name,
				Value:    p.value,
				Domain:   domain,
				Path:     "/",
				HTTPOnly: true,
				Secure:   true,
				SameSite: "Lax",
			})
		}
	}
	return st, nil
}

// LoadState reads a session state file. Missing files surface the raw
// filesystem error so callers can test for os.ErrNotExist.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errs.NewAuth(fmt.Sprintf("corrupt session state file %s", path), err)
	}
	return &st, nil
}

// Save writes the state as owner-only JSON, creating parent directories
// as needed.
func (s *State) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.NewAuth(fmt.Sprintf("failed to create state directory %s", dir), err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errs.NewAuth("failed to encode session state", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errs.NewAuth(fmt.Sprintf("failed to write session state file %s", path), err)
	}
	return nil
}
