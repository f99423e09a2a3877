// ABOUTME: Test helpers for E2E testing.
// ABOUTME: Starts a full admin server over a seeded SQLite file and makes requests against it.

package e2e_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/adapters/sqlite"
	"github.com/2389/panel/admin"
	"github.com/2389/panel/internal/config"
	"github.com/2389/panel/internal/seed"
	"github.com/2389/panel/internal/store"
	"github.com/2389/panel/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	adminEmail    = "ops@example.com"
	adminPassword = "correct-horse"
)

// TestServer wraps a test HTTP server with its activity store
type TestServer struct {
	Server *httptest.Server
	Store  *store.Store
	Client *http.Client
}

// StartTestServer seeds a demo database and serves the admin with login enabled
func StartTestServer(t *testing.T) *TestServer {
	t.Helper()
	dir := t.TempDir()

	demoPath := filepath.Join(dir, "demo.db")
	db, err := sql.Open("sqlite3", demoPath)
	if err != nil {
		t.Fatalf("failed to open demo database: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "")
	data, err := seed.NewGenerator().Generate(context.Background(), 4, 6)
	if err != nil {
		t.Fatalf("failed to generate data: %v", err)
	}
	if _, err := seed.Apply(context.Background(), db, data); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	db.Close()

	f := &config.File{
		ActivityDB: filepath.Join(dir, "activity.db"),
		Admin:      config.Account{Email: adminEmail, Password: adminPassword},
		Databases:  []config.Database{{Name: "demo", Path: demoPath, Tables: []string{"users"}}},
		Resources: []config.Resource{
			{Database: "demo", Table: "posts", Name: "Blog posts", Parent: "Content", DisabledActions: []string{"delete"}},
		},
	}

	opts, closeDBs, err := f.Options()
	if err != nil {
		t.Fatalf("failed to build options: %v", err)
	}
	reg := core.NewRegistry()
	if err := reg.Register(sqlite.Adapter()); err != nil {
		t.Fatalf("failed to register adapter: %v", err)
	}
	opts.Registry = reg

	a, err := admin.New(opts)
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	s, err := store.New(f.ActivityDB)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	ui.NewHandlers(a, f.Guard(a.Options().LoginPath), s).RegisterRoutes(r)

	srv := httptest.NewServer(r)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	client := srv.Client()
	client.Jar = jar
	// Redirects are asserted, not followed
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	ts := &TestServer{Server: srv, Store: s, Client: client}
	t.Cleanup(func() {
		srv.Close()
		s.Close()
		closeDBs()
	})
	return ts
}

// Login signs in with the configured admin account
func (ts *TestServer) Login(t *testing.T) {
	t.Helper()
	resp := ts.POSTForm(t, "/admin/login", url.Values{"email": {adminEmail}, "password": {adminPassword}})
	defer resp.Body.Close()
	AssertStatusCode(t, resp, http.StatusSeeOther)
}

// SessionToken returns the session cookie held by the client
func (ts *TestServer) SessionToken(t *testing.T) string {
	t.Helper()
	u, _ := url.Parse(ts.Server.URL)
	for _, c := range ts.Client.Jar.Cookies(u) {
		if c.Name == "panel_session" {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

// GET makes a GET request with the client's cookies
func (ts *TestServer) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", ts.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// POSTForm makes a POST request with form data
func (ts *TestServer) POSTForm(t *testing.T, path string, data url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest("POST", ts.Server.URL+path, strings.NewReader(data.Encode()))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// WaitForActivity polls the store until an entry matches or the deadline passes
func (ts *TestServer) WaitForActivity(t *testing.T, q store.ActivityQuery, match func(*store.ActivityLog) bool) *store.ActivityLog {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := ts.Store.GetActivity(q)
		if err != nil {
			t.Fatalf("GetActivity() error = %v", err)
		}
		for _, e := range entries {
			if match(e) {
				return e
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("no matching activity for %+v", q)
	return nil
}

// AssertStatusCode checks if response has expected status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(body))
	}
}

// DecodeJSON decodes response body as JSON
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

// ReadBody reads and returns the response body
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}
