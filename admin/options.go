// ABOUTME: Admin configuration and its defaults.
// ABOUTME: Merge lays user options over defaults without mutating either side.

package admin

import (
	"net/http"

	"github.com/2389/panel/adapters/core"
)

// DefaultLogo is served by the UI under the root path
const DefaultLogo = "/admin/assets/logo.svg"

// Options configures one admin instance. Every field is optional.
type Options struct {
	RootPath   string
	LoginPath  string
	LogoutPath string

	Databases []any
	Resources []core.ResourceSpec

	Branding  Branding
	Assets    Assets
	Dashboard *Dashboard

	// Registry resolves adapters; nil means core.Default
	Registry *core.Registry
	// SkipUnmatched drops databases and resources no adapter recognizes
	SkipUnmatched bool
}

// Branding controls the chrome of every page
type Branding struct {
	Logo            string
	CompanyName     string
	ShowVendorBadge *bool
}

// Assets are extra stylesheets and scripts added to every page
type Assets struct {
	Styles  []string
	Scripts []string
}

// Dashboard describes the landing page. A nil Handler renders the resource overview.
type Dashboard struct {
	Title   string
	Handler http.Handler
}

// Defaults returns a fresh, fully populated set of options
func Defaults() Options {
	badge := true
	return Options{
		RootPath:   "/admin",
		LoginPath:  "/admin/login",
		LogoutPath: "/admin/logout",
		Databases:  []any{},
		Resources:  []core.ResourceSpec{},
		Branding: Branding{
			Logo:            DefaultLogo,
			CompanyName:     "Company",
			ShowVendorBadge: &badge,
		},
		Assets: Assets{
			Styles:  []string{},
			Scripts: []string{},
		},
		Dashboard: &Dashboard{Title: "Dashboard"},
		Registry:  core.Default,
	}
}

// Merge returns defaults overridden by user. Strings replace when non-empty,
// pointers when non-nil and slices wholesale when non-nil. The result shares
// no slice or option pointer with its inputs.
func Merge(defaults, user Options) Options {
	out := Options{
		RootPath:      pick(user.RootPath, defaults.RootPath),
		LoginPath:     pick(user.LoginPath, defaults.LoginPath),
		LogoutPath:    pick(user.LogoutPath, defaults.LogoutPath),
		Databases:     copySlice(pickSlice(user.Databases, defaults.Databases)),
		Resources:     copySlice(pickSlice(user.Resources, defaults.Resources)),
		Branding:      mergeBranding(defaults.Branding, user.Branding),
		Assets:        mergeAssets(defaults.Assets, user.Assets),
		Dashboard:     mergeDashboard(defaults.Dashboard, user.Dashboard),
		Registry:      defaults.Registry,
		SkipUnmatched: defaults.SkipUnmatched || user.SkipUnmatched,
	}
	// The registry is shared process state, not an option value
	if user.Registry != nil {
		out.Registry = user.Registry
	}
	return out
}

func mergeBranding(defaults, user Branding) Branding {
	out := Branding{
		Logo:        pick(user.Logo, defaults.Logo),
		CompanyName: pick(user.CompanyName, defaults.CompanyName),
	}
	switch {
	case user.ShowVendorBadge != nil:
		v := *user.ShowVendorBadge
		out.ShowVendorBadge = &v
	case defaults.ShowVendorBadge != nil:
		v := *defaults.ShowVendorBadge
		out.ShowVendorBadge = &v
	}
	return out
}

func mergeAssets(defaults, user Assets) Assets {
	return Assets{
		Styles:  copySlice(pickSlice(user.Styles, defaults.Styles)),
		Scripts: copySlice(pickSlice(user.Scripts, defaults.Scripts)),
	}
}

func mergeDashboard(defaults, user *Dashboard) *Dashboard {
	if defaults == nil && user == nil {
		return nil
	}
	out := &Dashboard{}
	if defaults != nil {
		*out = *defaults
	}
	if user != nil {
		out.Title = pick(user.Title, out.Title)
		if user.Handler != nil {
			out.Handler = user.Handler
		}
	}
	return out
}

func pick(user, fallback string) string {
	if user != "" {
		return user
	}
	return fallback
}

func pickSlice[T any](user, fallback []T) []T {
	if user != nil {
		return user
	}
	return fallback
}

func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
