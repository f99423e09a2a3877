// ABOUTME: Tests for CLI commands and server wiring.
// ABOUTME: Verifies health check, seeding, resource listing and the mounted admin.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389/panel/internal/config"
)

func TestServer_Healthz(t *testing.T) {
	srv, closer, err := newServer(&config.File{ActivityDB: ":memory:"})
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	defer closer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, response body: %s", err, rr.Body.String())
	}
	if resp["ok"] != true {
		t.Errorf("ok = %v, want true", resp["ok"])
	}
}

func TestServer_RootRedirectsToAdmin(t *testing.T) {
	srv, closer, err := newServer(&config.File{ActivityDB: ":memory:"})
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	defer closer()

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin" {
		t.Errorf("status %d location %q", rr.Code, rr.Header().Get("Location"))
	}
}

func seedTempDB(t *testing.T) string {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "demo.db")
	sum, err := seedDatabase(context.Background(), path, 3, 5, false)
	if err != nil {
		t.Fatalf("seedDatabase() error = %v", err)
	}
	if sum.Users != 3 || sum.Posts != 5 {
		t.Fatalf("summary = %+v", sum)
	}
	return path
}

func TestServer_ServesSeededDatabase(t *testing.T) {
	path := seedTempDB(t)

	srv, closer, err := newServer(&config.File{
		ActivityDB: ":memory:",
		Databases:  []config.Database{{Name: "demo", Path: path}},
	})
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	defer closer()

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/resources/users", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "alice.chen@example.com") {
		t.Error("users list should contain seeded users")
	}

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/api/resources/posts/records", nil))
	var resp struct {
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, response body: %s", err, rr.Body.String())
	}
	if resp.Meta.Total != 5 {
		t.Errorf("posts total = %d, want 5", resp.Meta.Total)
	}
}

func TestServer_LoginRequired(t *testing.T) {
	srv, closer, err := newServer(&config.File{
		ActivityDB: ":memory:",
		Admin:      config.Account{Email: "admin@example.com", Password: "secret"},
	})
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	defer closer()

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest("GET", "/admin", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin/login" {
		t.Errorf("status %d location %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestSeedReset(t *testing.T) {
	path := seedTempDB(t)

	if _, err := seedDatabase(context.Background(), path, 3, 5, false); err == nil {
		t.Error("seeding twice without reset should fail on unique emails")
	}
	if _, err := seedDatabase(context.Background(), path, 2, 2, true); err != nil {
		t.Errorf("seedDatabase() with reset error = %v", err)
	}
}

func TestResourcesCommand(t *testing.T) {
	path := seedTempDB(t)
	cfg := filepath.Join(t.TempDir(), "panel.yaml")
	content := "databases:\n  - name: demo\n    path: " + path + "\n"
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"resources", "--config", cfg})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"ID", "users", "posts", "demo", "sqlite", "/admin/resources/posts"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "panel ") {
		t.Errorf("output = %q", out.String())
	}
}
