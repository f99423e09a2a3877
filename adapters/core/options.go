// ABOUTME: Per-resource options (display name, grouping, visible properties, actions).
// ABOUTME: Options attach to adapter resources through the Decorated wrapper.

package core

import (
	"context"
	"sort"
)

// ResourceOptions customizes how a resource is presented by the admin UI
type ResourceOptions struct {
	Name           string
	Parent         *Parent
	ListProperties []string
	EditProperties []string
	ShowProperties []string
	Actions        map[string]ActionOptions
}

// Parent groups resources in the navigation
type Parent struct {
	Name string
	Icon string
}

// ActionScope is where an action is enabled
type ActionScope string

const (
	ScopeResource ActionScope = "resource" // list-level, no record
	ScopeRecord   ActionScope = "record"   // needs a record id
)

// Built-in action names
const (
	ActionList   = "list"
	ActionNew    = "new"
	ActionShow   = "show"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// ActionOptions defines a built-in or custom action
type ActionOptions struct {
	ID      string
	Icon    string
	Label   string
	Scope   ActionScope
	Enabled *bool // nil means enabled
	Handler ActionHandler
}

// IsEnabled reports whether the action may be invoked
func (a ActionOptions) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// ActionHandler runs an action against a resource
type ActionHandler func(ctx context.Context, req ActionRequest) (ActionResponse, error)

// ActionRequest carries the invocation context of an action
type ActionRequest struct {
	Resource     Resource
	RecordID     string
	Params       map[string]any
	CurrentAdmin string
}

// ActionResponse is the outcome of an action handler
type ActionResponse struct {
	Notice   string
	Record   Record
	Redirect string
}

// DefaultActions returns a fresh copy of the built-in actions
func DefaultActions() map[string]ActionOptions {
	return map[string]ActionOptions{
		ActionList: {ID: ActionList, Icon: "list", Label: "List", Scope: ScopeResource},
		ActionNew: {ID: ActionNew, Icon: "plus", Label: "Create new", Scope: ScopeResource,
			Handler: func(ctx context.Context, req ActionRequest) (ActionResponse, error) {
				rec, err := req.Resource.Create(ctx, req.Params)
				if err != nil {
					return ActionResponse{}, err
				}
				return ActionResponse{Notice: "Successfully created a new record", Record: rec}, nil
			}},
		ActionShow: {ID: ActionShow, Icon: "eye", Label: "Show", Scope: ScopeRecord},
		ActionEdit: {ID: ActionEdit, Icon: "edit", Label: "Edit", Scope: ScopeRecord,
			Handler: func(ctx context.Context, req ActionRequest) (ActionResponse, error) {
				rec, err := req.Resource.Update(ctx, req.RecordID, req.Params)
				if err != nil {
					return ActionResponse{}, err
				}
				return ActionResponse{Notice: "Record has been updated", Record: rec}, nil
			}},
		ActionDelete: {ID: ActionDelete, Icon: "trash", Label: "Delete", Scope: ScopeRecord,
			Handler: func(ctx context.Context, req ActionRequest) (ActionResponse, error) {
				if err := req.Resource.Delete(ctx, req.RecordID); err != nil {
					return ActionResponse{}, err
				}
				return ActionResponse{Notice: "Record has been deleted"}, nil
			}},
	}
}

// Decorated is a resource built from a ResourceSpec that carried options
type Decorated struct {
	Resource
	Options ResourceOptions
}

// Unwrap returns the adapter resource
func (d *Decorated) Unwrap() Resource {
	return d.Resource
}

// OptionsOf returns the fully defaulted options of r. Property lists default
// to every property, the name defaults to the adapter name, and user actions
// are laid over the built-in ones key by key.
func OptionsOf(r Resource) ResourceOptions {
	var user ResourceOptions
	if d, ok := r.(*Decorated); ok {
		user = d.Options
	}

	all := make([]string, 0, len(r.Properties()))
	for _, p := range r.Properties() {
		all = append(all, p.Name)
	}

	opts := ResourceOptions{
		Name:           r.Name(),
		ListProperties: all,
		EditProperties: editable(r),
		ShowProperties: all,
		Actions:        DefaultActions(),
	}
	if user.Name != "" {
		opts.Name = user.Name
	}
	if user.Parent != nil {
		p := *user.Parent
		opts.Parent = &p
	}
	if user.ListProperties != nil {
		opts.ListProperties = append([]string(nil), user.ListProperties...)
	}
	if user.EditProperties != nil {
		opts.EditProperties = append([]string(nil), user.EditProperties...)
	}
	if user.ShowProperties != nil {
		opts.ShowProperties = append([]string(nil), user.ShowProperties...)
	}
	for key, action := range user.Actions {
		base, builtin := opts.Actions[key]
		if action.ID == "" {
			action.ID = key
		}
		if builtin {
			if action.Icon == "" {
				action.Icon = base.Icon
			}
			if action.Label == "" {
				action.Label = base.Label
			}
			if action.Scope == "" {
				action.Scope = base.Scope
			}
			if action.Handler == nil {
				action.Handler = base.Handler
			}
		}
		if action.Label == "" {
			action.Label = key
		}
		if action.Scope == "" {
			action.Scope = ScopeRecord
		}
		opts.Actions[key] = action
	}
	return opts
}

// CustomActions returns the enabled non built-in actions of the given scope, sorted by id
func CustomActions(opts ResourceOptions, scope ActionScope) []ActionOptions {
	var out []ActionOptions
	for key, a := range opts.Actions {
		switch key {
		case ActionList, ActionNew, ActionShow, ActionEdit, ActionDelete:
			continue
		}
		if a.Scope == scope && a.IsEnabled() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func editable(r Resource) []string {
	var names []string
	for _, p := range r.Properties() {
		if p.Editable {
			names = append(names, p.Name)
		}
	}
	return names
}
