// ABOUTME: Stress tests for concurrent activity logging, table access and registries.
// ABOUTME: Tests race conditions, deadlocks, and thread safety under heavy load.

package stress

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/adapters/memory"
	"github.com/2389/panel/adapters/sqlite"
	"github.com/2389/panel/internal/auth"
	"github.com/2389/panel/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

func newStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newPostsTable opens a SQLite file with one table and returns it as a resource
func newPostsTable(t testing.TB) core.Resource {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "app.db")+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE posts (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, views INTEGER DEFAULT 0)`); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	res, err := sqlite.ResourceKind{}.NewResource(sqlite.Table{Database: "app", DB: db, Name: "posts"})
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	return res
}

// TestConcurrentActivityWrites tests multiple goroutines logging activity simultaneously
func TestConcurrentActivityWrites(t *testing.T) {
	s := newStore(t)

	numGoroutines := 20
	logsPerGoroutine := 50
	var wg sync.WaitGroup
	var errorCount int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				entry := &store.ActivityLog{
					ResourceID: fmt.Sprintf("resource-%d", id%5),
					Action:     []string{"list", "new", "edit", "delete"}[j%4],
					Method:     []string{"GET", "POST", "POST", "POST"}[j%4],
					Path:       fmt.Sprintf("/admin/resources/resource-%d", id%5),
					StatusCode: 200,
					DurationMs: j % 100,
					Admin:      fmt.Sprintf("admin-%d@example.com", id%3),
				}
				if err := s.LogActivity(entry); err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("Error logging activity: %v", err)
				}
			}
		}(i)
	}

	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 errors during concurrent writes, got %d", errorCount)
	}

	stats, err := s.GetActivityStats()
	if err != nil {
		t.Fatalf("GetActivityStats() error = %v", err)
	}
	expected := numGoroutines * logsPerGoroutine
	if stats.Total != expected {
		t.Errorf("Expected %d entries, got %d", expected, stats.Total)
	}
	if stats.UniqueResources != 5 || stats.UniqueAdmins != 3 {
		t.Errorf("unique resources/admins = %d/%d, want 5/3", stats.UniqueResources, stats.UniqueAdmins)
	}
}

// TestConcurrentActivityReadWrite tests simultaneous activity queries and writes
func TestConcurrentActivityReadWrite(t *testing.T) {
	s := newStore(t)

	numWriters := 10
	numReaders := 10
	operationsPerGoroutine := 50
	var wg sync.WaitGroup
	var errorCount int32

	// Writers
	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				entry := &store.ActivityLog{
					ResourceID: fmt.Sprintf("writer-%d", id),
					Method:     "POST",
					Path:       fmt.Sprintf("/admin/resources/writer-%d/new", id),
					StatusCode: 303,
					DurationMs: 5,
				}
				if err := s.LogActivity(entry); err != nil {
					atomic.AddInt32(&errorCount, 1)
				}
			}
		}(i)
	}

	// Readers
	for i := 0; i < numReaders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				q := store.ActivityQuery{Limit: 100}
				if j%2 == 0 {
					q.ResourceID = fmt.Sprintf("writer-%d", j%numWriters)
				}
				if _, err := s.GetActivity(q); err != nil {
					atomic.AddInt32(&errorCount, 1)
				}
			}
		}(i)
	}

	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 errors during concurrent read/write, got %d", errorCount)
	}
}

// TestConcurrentTableCRUD drives a SQLite table resource from many goroutines
func TestConcurrentTableCRUD(t *testing.T) {
	res := newPostsTable(t)
	ctx := context.Background()

	numGoroutines := 10
	recordsPerGoroutine := 20
	var wg sync.WaitGroup
	var errorCount int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < recordsPerGoroutine; j++ {
				rec, err := res.Create(ctx, map[string]any{"title": fmt.Sprintf("post %d-%d", id, j)})
				if err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("Create() error: %v", err)
					continue
				}
				recordID := core.RecordID(res, rec)
				if _, err := res.Update(ctx, recordID, map[string]any{"views": j}); err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Logf("Update() error: %v", err)
				}
				if _, err := res.Find(ctx, nil, core.FindOptions{Limit: 10, SortBy: "id", Direction: "desc"}); err != nil {
					atomic.AddInt32(&errorCount, 1)
				}
				if j%2 == 0 {
					if err := res.Delete(ctx, recordID); err != nil {
						atomic.AddInt32(&errorCount, 1)
						t.Logf("Delete() error: %v", err)
					}
				}
			}
		}(i)
	}

	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 errors during concurrent CRUD, got %d", errorCount)
	}

	n, err := res.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	expected := numGoroutines * recordsPerGoroutine / 2
	if n != expected {
		t.Errorf("Expected %d records to remain, got %d", expected, n)
	}
}

// TestConcurrentMemoryCollection checks the in-memory adapter under contention
func TestConcurrentMemoryCollection(t *testing.T) {
	c := memory.NewCollection("events", "name")
	ctx := context.Background()

	numGoroutines := 50
	opsPerGoroutine := 40
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerGoroutine; j++ {
				if _, err := c.Create(ctx, map[string]any{"name": fmt.Sprintf("event-%d-%d", id, j)}); err != nil {
					t.Errorf("Create() error = %v", err)
				}
				c.Find(ctx, core.Filter{"name": "event-0-0"}, core.FindOptions{SortBy: "name"})
			}
		}(i)
	}

	wg.Wait()

	n, _ := c.Count(ctx, nil)
	if n != numGoroutines*opsPerGoroutine {
		t.Errorf("Expected %d records, got %d", numGoroutines*opsPerGoroutine, n)
	}
}

// TestConcurrentRegistryAccess registers and matches adapters at the same time
func TestConcurrentRegistryAccess(t *testing.T) {
	reg := core.NewRegistry()
	db := &memory.Database{Name: "app", Collections: []*memory.Collection{memory.NewCollection("users", "email")}}

	numGoroutines := 50
	var wg sync.WaitGroup
	var matched int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := reg.Register(memory.Adapter()); err != nil {
				t.Errorf("Register() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, ok := reg.ForDatabase(db); ok {
				atomic.AddInt32(&matched, 1)
			}
		}()
	}

	wg.Wait()

	if reg.Len() != numGoroutines {
		t.Errorf("Expected %d adapters, got %d", numGoroutines, reg.Len())
	}
	if _, ok := reg.ForDatabase(db); !ok {
		t.Error("registry should match the memory database once populated")
	}
}

// TestConcurrentSessions creates, checks and deletes sessions in parallel
func TestConcurrentSessions(t *testing.T) {
	sessions := auth.NewSessions(time.Hour)

	numGoroutines := 100
	var wg sync.WaitGroup
	var errorCount int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			email := fmt.Sprintf("admin-%d@example.com", id)
			token := sessions.Create(email)
			if got, ok := sessions.Lookup(token); !ok || got != email {
				atomic.AddInt32(&errorCount, 1)
			}
			if id%2 == 0 {
				sessions.Delete(token)
			}
		}(i)
	}

	wg.Wait()

	if errorCount > 0 {
		t.Errorf("Expected 0 lookup failures, got %d", errorCount)
	}
	if sessions.Len() != numGoroutines/2 {
		t.Errorf("Expected %d sessions, got %d", numGoroutines/2, sessions.Len())
	}
}

func BenchmarkConcurrentActivityWrites(b *testing.B) {
	s := newStore(b)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.LogActivity(&store.ActivityLog{
				ResourceID: "bench",
				Method:     "GET",
				Path:       "/admin/resources/bench",
				StatusCode: 200,
			})
		}
	})
}

func BenchmarkConcurrentTableReads(b *testing.B) {
	res := newPostsTable(b)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		res.Create(ctx, map[string]any{"title": fmt.Sprintf("post %d", i)})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			res.Find(ctx, nil, core.FindOptions{Limit: 20})
		}
	})
}
