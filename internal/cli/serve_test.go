package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/canopy/pkg/cache"
)

func testServer(t *testing.T, path string) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newPreviewServer(testContext(), path, frameOpts{}, cache.Observe(fc, "artifact"))
	t.Cleanup(srv.close)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeArtifacts(t *testing.T) {
	ts := testServer(t, testScene)

	tests := []struct {
		path        string
		contentType string
	}{
		{"/svg", "image/svg+xml"},
		{"/png", "image/png"},
		{"/png?scale=2", "image/png"},
		{"/json", "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
		})
	}
}

func TestServeCachesArtifacts(t *testing.T) {
	ts := testServer(t, testScene)
	if got := get(t, ts, "/svg").Header.Get("X-Canopy-Cache"); got != "miss" {
		t.Errorf("first request cache = %q, want miss", got)
	}
	if got := get(t, ts, "/svg").Header.Get("X-Canopy-Cache"); got != "hit" {
		t.Errorf("second request cache = %q, want hit", got)
	}
}

func TestServeOrder(t *testing.T) {
	ts := testServer(t, testScene)
	var entries []orderEntry
	if err := json.NewDecoder(get(t, ts, "/order").Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 || entries[0].Name != "panel" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestServePick(t *testing.T) {
	ts := testServer(t, testScene)

	tests := []struct {
		query      string
		widget     string
		scrollable string
	}{
		{"x=30&y=-10", "dot", "panel"},
		{"x=-40&y=-25", "panel", "panel"},
		{"x=59&y=39", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var res pickResult
			if err := json.NewDecoder(get(t, ts, "/pick?"+tt.query).Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.Widget != tt.widget || res.Scrollable != tt.scrollable || res.Hit != (tt.widget != "") {
				t.Errorf("pick = %+v, want widget %q scrollable %q", res, tt.widget, tt.scrollable)
			}
		})
	}
}

func TestServeErrors(t *testing.T) {
	ts := testServer(t, testScene)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/pick?x=1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/png?scale=0", http.StatusBadRequest, "INVALID_INPUT"},
		{"/png?scale=big", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
		})
	}

	missing := testServer(t, filepath.Join(t.TempDir(), "gone.toml"))
	if resp := get(t, missing, "/svg"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing scene status = %d, want 404", resp.StatusCode)
	}
	if resp := get(t, ts, "/healthz"); resp.StatusCode != http.StatusNoContent {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}

func TestServeReloadsScene(t *testing.T) {
	data, err := os.ReadFile(testScene)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	ts := testServer(t, path)

	order := func() []orderEntry {
		var entries []orderEntry
		if err := json.NewDecoder(get(t, ts, "/order").Body).Decode(&entries); err != nil {
			t.Fatal(err)
		}
		return entries
	}
	if n := len(order()); n != 4 {
		t.Fatalf("entries = %d, want 4", n)
	}

	extra := string(data) + "\n[[widget]]\nname = \"badge\"\nkind = \"Rectangle\"\nw = 4\nh = 4\n"
	if err := os.WriteFile(path, []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}
	// Force a visible mtime change on coarse-grained filesystems.
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	entries := order()
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if !strings.Contains(strings.Join(names, " "), "badge") {
		t.Errorf("reloaded order = %v, want badge", names)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, os.ErrPermission)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
