package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.0.1", "1.0.0", true},
		{"1.1.0", "1.0.0", true},
		{"2.0.0", "1.9.9", true},
		{"v1.0.1", "v1.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.0.1", false},
		{"0.9.0", "1.0.0", false},
		{"dev", "dev", false},
		{"abc", "def", false},
		{"v0.5.0", "0.4.2", true},
		{"0.4.2", "v0.5.0", false},
	}

	for _, tc := range tests {
		t.Run(tc.latest+"_vs_"+tc.current, func(t *testing.T) {
			got := isNewerVersion(tc.latest, tc.current)
			if got != tc.want {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tc.latest, tc.current, got, tc.want)
			}
		})
	}
}

func TestCheckVersionSkipsDevBuilds(t *testing.T) {
	if cmd := checkVersion("dev"); cmd != nil {
		t.Error("expected nil cmd for dev build")
	}
	if cmd := checkVersion(""); cmd != nil {
		t.Error("expected nil cmd for empty version")
	}
}

func releaseServer(t *testing.T, status int, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"tag_name": tag}) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckVersionAt(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		tag        string
		current    string
		wantUpdate bool
		wantLatest string
	}{
		{"newer release", http.StatusOK, "v0.5.0", "0.4.0", true, "v0.5.0"},
		{"same release", http.StatusOK, "v0.5.0", "0.5.0", false, ""},
		{"older release", http.StatusOK, "v0.3.0", "0.4.0", false, ""},
		{"server error", http.StatusInternalServerError, "v9.0.0", "0.4.0", false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := releaseServer(t, tc.status, tc.tag)
			cmd := checkVersionAt(srv.URL, tc.current)
			if cmd == nil {
				t.Fatal("expected a command")
			}
			msg, ok := cmd().(versionCheckMsg)
			if !ok {
				t.Fatal("expected versionCheckMsg")
			}
			if msg.hasUpdate != tc.wantUpdate {
				t.Errorf("hasUpdate = %v, want %v", msg.hasUpdate, tc.wantUpdate)
			}
			if msg.latestVersion != tc.wantLatest {
				t.Errorf("latestVersion = %q, want %q", msg.latestVersion, tc.wantLatest)
			}
		})
	}
}

func TestCheckVersionAtUnreachable(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, "v1.0.0")
	url := srv.URL
	srv.Close()

	msg := checkVersionAt(url, "0.1.0")().(versionCheckMsg)
	if msg.hasUpdate {
		t.Error("expected no update when the server is unreachable")
	}
}
