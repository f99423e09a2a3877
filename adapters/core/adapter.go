// ABOUTME: Adapter contracts that let third-party data sources plug into the admin.
// ABOUTME: A database adapter and a resource adapter are registered together as a pair.

package core

// DatabaseAdapter recognizes a raw database handle and expands it into the
// resources (tables, collections) it contains.
type DatabaseAdapter interface {
	IsAdapterFor(database any) bool
	Resources(database any) ([]Resource, error)
}

// ResourceAdapter recognizes a single raw resource handle and wraps it.
type ResourceAdapter interface {
	IsAdapterFor(resource any) bool
	NewResource(resource any) (Resource, error)
}

// Adapter is the pair registered for one storage technology.
type Adapter struct {
	Name     string // "sqlite", "memory"
	Database DatabaseAdapter
	Resource ResourceAdapter
}

func (a Adapter) label() string {
	if a.Name != "" {
		return a.Name
	}
	return "unnamed"
}
