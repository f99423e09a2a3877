// ABOUTME: Admin instance holding effective options and the resolved resources.
// ABOUTME: Lookup by id, navigation grouping, and the static login render.

package admin

import (
	"net/url"
	"strings"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/internal/render"
)

// Admin is one mounted admin panel. It is read-only after New returns.
type Admin struct {
	options   Options
	resources []core.Resource
}

// New merges opts over the defaults and resolves every database and resource
// through the adapter registry. Errors from the registry propagate as is.
func New(opts Options) (*Admin, error) {
	effective := Merge(Defaults(), opts)

	resources, err := core.BuildResources(effective.Registry, core.BuildInput{
		Databases:     effective.Databases,
		Resources:     effective.Resources,
		SkipUnmatched: effective.SkipUnmatched,
	})
	if err != nil {
		return nil, err
	}

	return &Admin{options: effective, resources: resources}, nil
}

// Options returns a copy of the effective options
func (a *Admin) Options() Options {
	return Merge(a.options, Options{})
}

// Resources returns the resolved resources in build order
func (a *Admin) Resources() []core.Resource {
	return append([]core.Resource(nil), a.resources...)
}

// FindResource returns the first resource whose ID matches
func (a *Admin) FindResource(id string) (core.Resource, bool) {
	for _, r := range a.resources {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// Path joins elem under the root path: Path("activity") is "/admin/activity"
func (a *Admin) Path(elem ...string) string {
	prefix := strings.TrimSuffix(a.options.RootPath, "/")
	if len(elem) == 0 {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + strings.Join(elem, "/")
}

// LogoURL is the branding logo, with the built-in logo served under the root path
func (a *Admin) LogoURL() string {
	if a.options.Branding.Logo == DefaultLogo {
		return a.Path("assets", "logo.svg")
	}
	return a.options.Branding.Logo
}

// ResourcePath is the list page of a resource
func (a *Admin) ResourcePath(id string) string {
	return a.Path("resources", url.PathEscape(id))
}

// Navigation groups resources by their parent, or by database when no parent is set.
// Groups keep the order in which they first appear.
func (a *Admin) Navigation() []render.NavGroup {
	var groups []render.NavGroup
	index := make(map[string]int)

	for _, r := range a.resources {
		opts := core.OptionsOf(r)
		name, icon := r.DatabaseName(), ""
		if opts.Parent != nil {
			name, icon = opts.Parent.Name, opts.Parent.Icon
		}

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, render.NavGroup{Name: name, Icon: icon})
		}
		groups[i].Items = append(groups[i].Items, render.NavItem{
			ID:   r.ID(),
			Name: opts.Name,
			Href: a.ResourcePath(r.ID()),
		})
	}
	return groups
}

// LoginParams are passed to the login template
type LoginParams struct {
	Action       string
	ErrorMessage string
}

// RenderLogin renders the standalone login page
func RenderLogin(params LoginParams) (string, error) {
	return render.Default().Render("login", render.Login{
		Action:       params.Action,
		ErrorMessage: params.ErrorMessage,
	})
}

// LoginPage renders the login page with this instance's branding
func (a *Admin) LoginPage(errorMessage string) (string, error) {
	return render.Default().Render("login", render.Login{
		Action:       a.options.LoginPath,
		ErrorMessage: errorMessage,
		Logo:         a.LogoURL(),
		CompanyName:  a.options.Branding.CompanyName,
	})
}
