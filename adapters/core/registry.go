// ABOUTME: Ordered registry of adapter pairs consulted when resources are built.
// ABOUTME: Registration order is match priority; Default is the process-wide instance.

package core

import (
	"reflect"
	"sync"
)

// Default is the registry used when an admin is built without one
var Default = NewRegistry()

// Registry holds adapter pairs in registration order
type Registry struct {
	mu       sync.RWMutex
	adapters []Adapter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an adapter pair. Both members must be present.
func (r *Registry) Register(a Adapter) error {
	if isNil(a.Database) {
		return &ConfigurationError{Message: "adapter " + a.label() + " has no database kind"}
	}
	if isNil(a.Resource) {
		return &ConfigurationError{Message: "adapter " + a.label() + " has no resource kind"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
	return nil
}

// RegisterKinds registers a pair given as untyped values, checking that each
// one exposes the IsAdapterFor capability of its kind.
func (r *Registry) RegisterKinds(database, resource any) error {
	if isNil(database) || isNil(resource) {
		return &ConfigurationError{Message: "both database and resource kinds are required"}
	}
	db, ok := database.(DatabaseAdapter)
	if !ok {
		return &ConfigurationError{Message: reflect.TypeOf(database).String() + " is not a database adapter"}
	}
	res, ok := resource.(ResourceAdapter)
	if !ok {
		return &ConfigurationError{Message: reflect.TypeOf(resource).String() + " is not a resource adapter"}
	}
	return r.Register(Adapter{Database: db, Resource: res})
}

// Adapters returns a snapshot of the registered pairs in priority order
func (r *Registry) Adapters() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Adapter(nil), r.adapters...)
}

// Len returns the number of registered pairs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

// Names returns the adapter names in priority order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.label())
	}
	return names
}

// ForDatabase returns the first pair whose database kind recognizes database
func (r *Registry) ForDatabase(database any) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.adapters {
		if a.Database.IsAdapterFor(database) {
			return a, true
		}
	}
	return Adapter{}, false
}

// ForResource returns the first pair whose resource kind recognizes resource
func (r *Registry) ForResource(resource any) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.adapters {
		if a.Resource.IsAdapterFor(resource) {
			return a, true
		}
	}
	return Adapter{}, false
}

// Register adds a pair to the Default registry
func Register(a Adapter) error {
	return Default.Register(a)
}

// MustRegister adds a pair to the Default registry and panics on failure
func MustRegister(a Adapter) {
	if err := Default.Register(a); err != nil {
		panic(err)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
