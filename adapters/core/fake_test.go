// ABOUTME: Fake adapters shared by the core package tests.
// ABOUTME: A "document store" keyed by type name that yields one resource per collection.

package core

import "context"

type fakeDB struct {
	Type        string
	Collections []string
}

type fakeCollection struct {
	Type string
	Name string
}

// fakeResource implements Resource with no records
type fakeResource struct {
	id     string
	origin string
}

func (f *fakeResource) ID() string           { return f.id }
func (f *fakeResource) Name() string         { return f.id }
func (f *fakeResource) DatabaseName() string { return f.origin }
func (f *fakeResource) DatabaseType() string { return f.origin }
func (f *fakeResource) Properties() []Property {
	return []Property{
		{Name: "_id", Type: "string", IsID: true},
		{Name: "title", Type: "string", Editable: true},
		{Name: "body", Type: "text", Editable: true},
	}
}
func (f *fakeResource) Count(ctx context.Context, filter Filter) (int, error) { return 0, nil }
func (f *fakeResource) Find(ctx context.Context, filter Filter, opts FindOptions) ([]Record, error) {
	return nil, nil
}
func (f *fakeResource) FindOne(ctx context.Context, id string) (Record, error) {
	return nil, ErrRecordNotFound
}
func (f *fakeResource) Create(ctx context.Context, params map[string]any) (Record, error) {
	return Record(params), nil
}
func (f *fakeResource) Update(ctx context.Context, id string, params map[string]any) (Record, error) {
	return Record(params), nil
}
func (f *fakeResource) Delete(ctx context.Context, id string) error { return nil }

// fakeDatabaseKind matches fakeDB values of one type
type fakeDatabaseKind struct {
	kind  string
	label string // recorded in resources to tell adapters apart
}

func (k *fakeDatabaseKind) IsAdapterFor(database any) bool {
	db, ok := database.(fakeDB)
	return ok && db.Type == k.kind
}

func (k *fakeDatabaseKind) Resources(database any) ([]Resource, error) {
	db := database.(fakeDB)
	out := make([]Resource, 0, len(db.Collections))
	for _, c := range db.Collections {
		out = append(out, &fakeResource{id: c, origin: k.label})
	}
	return out, nil
}

// fakeResourceKind matches fakeCollection values of one type
type fakeResourceKind struct {
	kind  string
	label string
}

func (k *fakeResourceKind) IsAdapterFor(resource any) bool {
	c, ok := resource.(fakeCollection)
	return ok && c.Type == k.kind
}

func (k *fakeResourceKind) NewResource(resource any) (Resource, error) {
	c := resource.(fakeCollection)
	return &fakeResource{id: c.Name, origin: k.label}, nil
}

func fakeAdapter(kind, label string) Adapter {
	return Adapter{
		Name:     label,
		Database: &fakeDatabaseKind{kind: kind, label: label},
		Resource: &fakeResourceKind{kind: kind, label: label},
	}
}
