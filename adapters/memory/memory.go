// ABOUTME: In-memory adapter pair for demos and tests.
// ABOUTME: A Database holds named Collections of records keyed by generated ids.

package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/2389/panel/adapters/core"
	"github.com/google/uuid"
)

const idField = "id"

// Database is a named group of collections
type Database struct {
	Name        string
	Collections []*Collection
}

// Collection is a thread-safe list of records with a fixed set of fields
type Collection struct {
	name   string
	fields []core.Property // the "id" property is added by Properties

	mu      sync.RWMutex
	records []core.Record
}

// NewCollection creates a collection with editable string fields of the given names
func NewCollection(name string, fields ...string) *Collection {
	c := &Collection{name: name}
	for _, f := range fields {
		c.fields = append(c.fields, core.Property{Name: f, Type: "string", Editable: true})
	}
	return c
}

// WithProperty adds a typed field
func (c *Collection) WithProperty(p core.Property) *Collection {
	p.IsID = false
	c.fields = append(c.fields, p)
	return c
}

// Adapter returns the pair to register with a core.Registry
func Adapter() core.Adapter {
	return core.Adapter{
		Name:     "memory",
		Database: DatabaseKind{},
		Resource: ResourceKind{},
	}
}

// DatabaseKind recognizes *Database
type DatabaseKind struct{}

func (DatabaseKind) IsAdapterFor(database any) bool {
	db, ok := database.(*Database)
	return ok && db != nil
}

func (DatabaseKind) Resources(database any) ([]core.Resource, error) {
	db := database.(*Database)
	out := make([]core.Resource, 0, len(db.Collections))
	for _, c := range db.Collections {
		out = append(out, &dbCollection{Collection: c, db: db.Name})
	}
	return out, nil
}

// dbCollection is a collection seen through one Database. The records are
// shared; only the database name differs, so the handle itself is never changed.
type dbCollection struct {
	*Collection
	db string
}

func (c *dbCollection) DatabaseName() string {
	if c.db == "" {
		return "memory"
	}
	return c.db
}

// ResourceKind recognizes *Collection
type ResourceKind struct{}

func (ResourceKind) IsAdapterFor(resource any) bool {
	c, ok := resource.(*Collection)
	return ok && c != nil && c.name != ""
}

func (ResourceKind) NewResource(resource any) (core.Resource, error) {
	return resource.(*Collection), nil
}

func (c *Collection) ID() string   { return c.name }
func (c *Collection) Name() string { return c.name }

func (c *Collection) DatabaseName() string { return "memory" }

func (c *Collection) DatabaseType() string { return "memory" }

func (c *Collection) Properties() []core.Property {
	props := []core.Property{{Name: idField, Type: "string", IsID: true}}
	return append(props, c.fields...)
}

func (c *Collection) Count(ctx context.Context, filter core.Filter) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, rec := range c.records {
		if matches(rec, filter) {
			n++
		}
	}
	return n, nil
}

func (c *Collection) Find(ctx context.Context, filter core.Filter, opts core.FindOptions) ([]core.Record, error) {
	c.mu.RLock()
	var out []core.Record
	for _, rec := range c.records {
		if matches(rec, filter) {
			out = append(out, clone(rec))
		}
	}
	c.mu.RUnlock()

	if opts.SortBy != "" {
		desc := strings.EqualFold(opts.Direction, "desc")
		numeric := c.propertyType(opts.SortBy) == "number"
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return less(out[j][opts.SortBy], out[i][opts.SortBy], numeric)
			}
			return less(out[i][opts.SortBy], out[j][opts.SortBy], numeric)
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (c *Collection) FindOne(ctx context.Context, id string) (core.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return clone(c.records[i]), nil
	}
	return nil, core.ErrRecordNotFound
}

func (c *Collection) Create(ctx context.Context, params map[string]any) (core.Record, error) {
	rec := core.Record{idField: uuid.NewString()}
	for _, f := range c.fields {
		if v, ok := params[f.Name]; ok {
			rec[f.Name] = v
		}
	}

	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	return clone(rec), nil
}

func (c *Collection) Update(ctx context.Context, id string, params map[string]any) (core.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, core.ErrRecordNotFound
	}
	for _, f := range c.fields {
		if v, ok := params[f.Name]; ok && f.Editable {
			c.records[i][f.Name] = v
		}
	}
	return clone(c.records[i]), nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return core.ErrRecordNotFound
	}
	c.records = append(c.records[:i], c.records[i+1:]...)
	return nil
}

func (c *Collection) indexOf(id string) int {
	for i, rec := range c.records {
		if rec[idField] == id {
			return i
		}
	}
	return -1
}

func (c *Collection) propertyType(name string) string {
	for _, f := range c.fields {
		if f.Name == name {
			return f.Type
		}
	}
	return ""
}

// less orders values as numbers when asked and both parse, otherwise as text
func less(a, b any, numeric bool) bool {
	if numeric {
		x, errA := toFloat(a)
		y, errB := toFloat(b)
		if errA == nil && errB == nil {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
	}
}

func matches(rec core.Record, filter core.Filter) bool {
	for k, v := range filter {
		if fmt.Sprint(rec[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func clone(rec core.Record) core.Record {
	out := make(core.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
