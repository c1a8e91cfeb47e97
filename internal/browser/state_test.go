package browser

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseCookieHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{
			name:   "basic pairs",
			header: "auth_token=abc123; ct0=def456",
			want:   map[string]string{"auth_token": "abc123", "ct0": "def456"},
		},
		{
			name:   "whitespace trimmed",
			header: "  auth_token = abc123 ;ct0=def456  ",
			want:   map[string]string{"auth_token": "abc123", "ct0": "def456"},
		},
		{
			name:   "value keeps embedded equals",
			header: "session=a=b=c; ct0=x",
			want:   map[string]string{"session": "a=b=c", "ct0": "x"},
		},
		{
			name:   "segments without equals skipped",
			header: "auth_token=abc; secure; httponly",
			want:   map[string]string{"auth_token": "abc"},
		},
		{
			name:   "empty header",
			header: "",
			want:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCookieHeader(tt.header)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d cookies, want %d: %v", len(got), len(tt.want), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("cookie %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestStateFromCookieHeader(t *testing.T) {
	st, err := StateFromCookieHeader("auth_token=abc123; ct0=def456")
	if err != nil {
		t.Fatalf("StateFromCookieHeader failed: %v", err)
	}
	if len(st.Cookies) != 4 {
		t.Fatalf("got %d cookies, want 4 (2 pairs x 2 domains)", len(st.Cookies))
	}

	// Pairs are installed in header order, each for both domains.
	if c := st.Cookies[0]; c.Name != "auth_token" || c.Domain != ".x.com" {
		t.Errorf("cookie 0 = %s@%s, want auth_token@.x.com", c.Name, c.Domain)
	}
	if c := st.Cookies[1]; c.Name != "auth_token" || c.Domain != ".twitter.com" {
		t.Errorf("cookie 1 = %s@%s, want auth_token@.twitter.com", c.Name, c.Domain)
	}
	if c := st.Cookies[2]; c.Name != "ct0" || c.Value != "def456" {
		t.Errorf("cookie 2 = %s=%s, want ct0=def456", c.Name, c.Value)
	}

	for i, c := range st.Cookies {
		if c.Path != "/" {
			t.Errorf("cookie %d path = %q, want /", i, c.Path)
		}
		if !c.HTTPOnly || !c.Secure {
			t.Errorf("cookie %d httpOnly=%v secure=%v, want both true", i, c.HTTPOnly, c.Secure)
		}
		if c.SameSite != "Lax" {
			t.Errorf("cookie %d sameSite = %q, want Lax", i, c.SameSite)
		}
	}

	if st.SavedAt.IsZero() {
		t.Error("SavedAt not stamped")
	}
}

func TestStateFromCookieHeaderRejectsEmpty(t *testing.T) {
	for _, header := range []string{"", "   ", "nocookie; alsonot"} {
		if _, err := StateFromCookieHeader(header); err == nil {
			t.Errorf("StateFromCookieHeader(%q) expected error", header)
		}
	}
}

func TestStateSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	st, err := StateFromCookieHeader("auth_token=abc; ct0=def")
	if err != nil {
		t.Fatalf("StateFromCookieHeader failed: %v", err)
	}
	if err := st.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("state file mode = %o, want 0600", perm)
		}
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(loaded.Cookies) != len(st.Cookies) {
		t.Fatalf("loaded %d cookies, want %d", len(loaded.Cookies), len(st.Cookies))
	}
	if loaded.Cookies[0].Name != "auth_token" || loaded.Cookies[0].Domain != ".x.com" {
		t.Errorf("unexpected first cookie: %+v", loaded.Cookies[0])
	}
	if !loaded.SavedAt.Equal(st.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", loaded.SavedAt, st.SavedAt)
	}
}

func TestLoadStateMissing(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadState(path); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}
