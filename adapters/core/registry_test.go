// ABOUTME: Tests for adapter registration and first-match lookup.
// ABOUTME: Validates configuration errors, ordering, and concurrent access.

package core

import (
	"errors"
	"sync"
	"testing"
)

func TestRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(fakeAdapter("mongo", "mongo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if r.Len() != 1 {
		t.Errorf("expected 1 adapter in registry, got %d", r.Len())
	}
	if names := r.Names(); len(names) != 1 || names[0] != "mongo" {
		t.Errorf("Names() = %v, want [mongo]", names)
	}
}

func TestRegisterMissingKinds(t *testing.T) {
	var nilDB *fakeDatabaseKind
	var nilRes *fakeResourceKind

	tests := []struct {
		name    string
		adapter Adapter
	}{
		{
			name:    "missing database kind",
			adapter: Adapter{Resource: &fakeResourceKind{kind: "mongo"}},
		},
		{
			name:    "missing resource kind",
			adapter: Adapter{Database: &fakeDatabaseKind{kind: "mongo"}},
		},
		{
			name:    "both missing",
			adapter: Adapter{},
		},
		{
			name:    "typed nil database kind",
			adapter: Adapter{Database: nilDB, Resource: &fakeResourceKind{kind: "mongo"}},
		},
		{
			name:    "typed nil resource kind",
			adapter: Adapter{Database: &fakeDatabaseKind{kind: "mongo"}, Resource: nilRes},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Register(fakeAdapter("sql", "sql"))

			err := r.Register(tt.adapter)

			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Register() error = %v, want *ConfigurationError", err)
			}
			if r.Len() != 1 {
				t.Errorf("registry length = %d after failed registration, want 1", r.Len())
			}
		})
	}
}

func TestRegisterKinds(t *testing.T) {
	tests := []struct {
		name     string
		database any
		resource any
		wantErr  bool
	}{
		{
			name:     "capable kinds",
			database: &fakeDatabaseKind{kind: "mongo"},
			resource: &fakeResourceKind{kind: "mongo"},
		},
		{
			name:     "nil database",
			resource: &fakeResourceKind{kind: "mongo"},
			wantErr:  true,
		},
		{
			name:     "nil resource",
			database: &fakeDatabaseKind{kind: "mongo"},
			wantErr:  true,
		},
		{
			name:     "database without capability",
			database: struct{ Name string }{"plain"},
			resource: &fakeResourceKind{kind: "mongo"},
			wantErr:  true,
		},
		{
			name:     "resource without capability",
			database: &fakeDatabaseKind{kind: "mongo"},
			resource: "not an adapter",
			wantErr:  true,
		},
		{
			name:     "kinds swapped",
			database: &fakeResourceKind{kind: "mongo"},
			resource: &fakeDatabaseKind{kind: "mongo"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.RegisterKinds(tt.database, tt.resource)

			if (err != nil) != tt.wantErr {
				t.Fatalf("RegisterKinds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected *ConfigurationError, got %T", err)
				}
				if r.Len() != 0 {
					t.Errorf("registry length = %d after failed registration, want 0", r.Len())
				}
			} else if r.Len() != 1 {
				t.Errorf("registry length = %d, want 1", r.Len())
			}
		})
	}
}

func TestForDatabaseFirstRegisteredWins(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeAdapter("mongo", "A"))
	r.Register(fakeAdapter("mongo", "B"))

	a, ok := r.ForDatabase(fakeDB{Type: "mongo"})
	if !ok {
		t.Fatal("expected a matching adapter")
	}
	if a.Name != "A" {
		t.Errorf("ForDatabase() picked %q, want %q", a.Name, "A")
	}

	if _, ok := r.ForDatabase(fakeDB{Type: "unknown"}); ok {
		t.Error("expected no adapter for unknown database type")
	}
}

func TestForResource(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeAdapter("sql", "sql"))
	r.Register(fakeAdapter("mongo", "mongo"))

	a, ok := r.ForResource(fakeCollection{Type: "mongo", Name: "users"})
	if !ok {
		t.Fatal("expected a matching adapter")
	}
	if a.Name != "mongo" {
		t.Errorf("ForResource() picked %q, want mongo", a.Name)
	}
}

func TestAdaptersSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeAdapter("mongo", "mongo"))

	snapshot := r.Adapters()
	snapshot[0].Name = "changed"

	if r.Adapters()[0].Name != "mongo" {
		t.Error("Adapters() snapshot should not alias registry storage")
	}
}

func TestMustRegisterPanicsOnInvalidPair(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on invalid registration, but didn't panic")
		}
	}()

	MustRegister(Adapter{Name: "broken"})
}

func TestThreadSafeConcurrentRegistration(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	count := 100

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			r.Register(fakeAdapter(string(rune('a'+index)), "x"))
		}(i)
	}

	wg.Wait()

	if r.Len() != count {
		t.Errorf("expected %d adapters after concurrent registration, got %d", count, r.Len())
	}
}

func TestThreadSafeConcurrentReads(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 10; i++ {
		r.Register(fakeAdapter(string(rune('a'+i)), "x"))
	}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.ForDatabase(fakeDB{Type: "c"})
		}()
		go func() {
			defer wg.Done()
			r.Adapters()
		}()
		go func() {
			defer wg.Done()
			r.Names()
		}()
	}
	wg.Wait()
}
