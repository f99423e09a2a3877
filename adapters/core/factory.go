// ABOUTME: Resource factory turning database handles and resource specs into resources.
// ABOUTME: Picks the first matching adapter per entry and keeps input order.

package core

import (
	"fmt"
	"log"
)

// ResourceSpec is one explicitly listed resource. Options is nil for a bare handle.
type ResourceSpec struct {
	Handle  any
	Options *ResourceOptions
}

// BuildInput is what the factory resolves
type BuildInput struct {
	Databases []any
	Resources []ResourceSpec

	// SkipUnmatched logs and drops entries no adapter recognizes instead of failing
	SkipUnmatched bool
}

// BuildResources resolves every database into its resources, then every
// explicit spec into one resource. Database-derived resources come first.
// Nothing is de-duplicated.
func BuildResources(reg *Registry, in BuildInput) ([]Resource, error) {
	if reg == nil {
		reg = Default
	}

	var out []Resource

	for i, db := range in.Databases {
		adapter, ok := reg.ForDatabase(db)
		if !ok {
			if in.SkipUnmatched {
				log.Printf("Skipping database #%d (%T): no adapter registered", i, db)
				continue
			}
			return nil, &NoAdapterError{Kind: "database", Index: i, Handle: db}
		}

		resources, err := adapter.Database.Resources(db)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: database #%d: %w", adapter.label(), i, err)
		}
		out = append(out, resources...)
	}

	for i, spec := range in.Resources {
		adapter, ok := reg.ForResource(spec.Handle)
		if !ok {
			if in.SkipUnmatched {
				log.Printf("Skipping resource #%d (%T): no adapter registered", i, spec.Handle)
				continue
			}
			return nil, &NoAdapterError{Kind: "resource", Index: i, Handle: spec.Handle}
		}

		res, err := adapter.Resource.NewResource(spec.Handle)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: resource #%d: %w", adapter.label(), i, err)
		}
		if spec.Options != nil {
			res = &Decorated{Resource: res, Options: *spec.Options}
		}
		out = append(out, res)
	}

	return out, nil
}
