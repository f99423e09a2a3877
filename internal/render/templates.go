// ABOUTME: Template loading and rendering for the admin UI.
// ABOUTME: Embeds HTML templates; pages share the layout, login renders standalone.

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// standalone templates are rendered without the layout
var standalone = map[string]string{
	"login": "templates/login.html",
}

// pageDefinitions maps page names to their template files
func getPageDefinitions() map[string]string {
	return map[string]string{
		"dashboard":     "templates/dashboard.html",
		"resource-list": "templates/resource_list.html",
		"resource-show": "templates/resource_show.html",
		"resource-form": "templates/resource_form.html",
		"activity":      "templates/activity.html",
	}
}

var funcs = template.FuncMap{
	"humanize": Humanize,
}

// Renderer renders named templates to markup
type Renderer struct {
	pages      map[string]*template.Template
	standalone map[string]*template.Template
}

var defaultRenderer *Renderer

func init() {
	defaultRenderer = New()
}

// Default returns the renderer built from the embedded templates
func Default() *Renderer {
	return defaultRenderer
}

// New parses the embedded templates. It panics on a malformed template.
func New() *Renderer {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))

	r := &Renderer{
		pages:      make(map[string]*template.Template),
		standalone: make(map[string]*template.Template),
	}
	for name, path := range getPageDefinitions() {
		// Each page gets its own copy of the layout so "content" blocks don't collide
		tmpl := template.Must(layout.Clone())
		r.pages[name] = template.Must(tmpl.ParseFS(templateFS, path))
	}
	for name, path := range standalone {
		r.standalone[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, path))
	}
	return r
}

// Render executes the named template and returns the markup
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo executes the named template into w
func (r *Renderer) RenderTo(w io.Writer, name string, data any) error {
	if tmpl, ok := r.standalone[name]; ok {
		return tmpl.ExecuteTemplate(w, name, data)
	}
	if tmpl, ok := r.pages[name]; ok {
		return tmpl.ExecuteTemplate(w, "layout", data)
	}
	return fmt.Errorf("render: unknown template %q", name)
}
