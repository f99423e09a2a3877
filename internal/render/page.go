// ABOUTME: View models passed to the admin templates.
// ABOUTME: Layout carries branding and navigation shared by every page.

package render

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Layout is the chrome around every page
type Layout struct {
	Title           string
	CompanyName     string
	Logo            string
	ShowVendorBadge bool
	Styles          []string
	Scripts         []string
	RootPath        string
	ActivityPath    string
	LogoutPath      string
	CurrentAdmin    string
	Navigation      []NavGroup
	Notice          string
	Version         string
}

// NavGroup is one parent heading in the sidebar
type NavGroup struct {
	Name  string
	Icon  string
	Items []NavItem
}

// NavItem links to one resource
type NavItem struct {
	ID   string
	Name string
	Href string
}

// Page is what page templates receive
type Page struct {
	Layout
	Heading string
	Content template.HTML
	Data    map[string]any
}

// Login is what the standalone login template receives
type Login struct {
	Action       string
	ErrorMessage string
	Logo         string
	CompanyName  string
}

// Humanize turns a property name into a label: "created_at" -> "Created at"
func Humanize(name string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
