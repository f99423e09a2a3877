// ABOUTME: Resource interface every adapter implements for the admin UI.
// ABOUTME: Covers metadata (id, properties) and record-level CRUD operations.

package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned by adapters when a record id does not exist
var ErrRecordNotFound = errors.New("record not found")

// Resource is an admin-manageable view over one table or collection
type Resource interface {
	// Metadata
	ID() string
	Name() string
	DatabaseName() string
	DatabaseType() string
	Properties() []Property

	// Records
	Count(ctx context.Context, filter Filter) (int, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]Record, error)
	FindOne(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, params map[string]any) (Record, error)
	Update(ctx context.Context, id string, params map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Property describes one field of a resource
type Property struct {
	Name     string // "email", "created_at"
	Type     string // "string", "number", "boolean", "datetime", "text"
	IsID     bool
	Editable bool
}

// Record is a single row/document keyed by property name
type Record map[string]any

// Filter restricts Find and Count to records whose properties equal the given values
type Filter map[string]any

// FindOptions provides pagination and sorting for Find
type FindOptions struct {
	Limit     int
	Offset    int
	SortBy    string
	Direction string // "asc" or "desc"
}

// IDProperty returns the property flagged as the identifier, if any
func IDProperty(r Resource) (Property, bool) {
	for _, p := range r.Properties() {
		if p.IsID {
			return p, true
		}
	}
	return Property{}, false
}

// RecordID returns the identifier value of rec as a string
func RecordID(r Resource, rec Record) string {
	p, ok := IDProperty(r)
	if !ok {
		return ""
	}
	v, ok := rec[p.Name]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// FindProperty looks up a property by name
func FindProperty(r Resource, name string) (Property, bool) {
	for _, p := range r.Properties() {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}
