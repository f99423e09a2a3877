// ABOUTME: HTTP handlers for the admin UI.
// ABOUTME: Registers login, dashboard, activity, resource pages and the JSON API on a chi router.

package ui

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/admin"
	"github.com/2389/panel/internal/auth"
	"github.com/2389/panel/internal/logging"
	"github.com/2389/panel/internal/render"
	"github.com/2389/panel/internal/store"
	"github.com/go-chi/chi/v5"
)

//go:embed assets/*
var assetFS embed.FS

type Handlers struct {
	admin *admin.Admin
	guard *auth.Guard
	store *store.Store
}

// NewHandlers wires the UI. guard and s may be nil: no login and no activity log.
func NewHandlers(a *admin.Admin, guard *auth.Guard, s *store.Store) *Handlers {
	return &Handlers{admin: a, guard: guard, store: s}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	opts := h.admin.Options()

	r.Get(opts.LoginPath, h.loginForm)
	r.Post(opts.LoginPath, h.login)
	r.Get(opts.LogoutPath, h.logout)
	r.Post(opts.LogoutPath, h.logout)

	var rec logging.Recorder
	if h.store != nil {
		rec = h.store
	}

	routes := func(r chi.Router) {
		r.Get("/assets/logo.svg", h.logo)

		r.Group(func(r chi.Router) {
			r.Use(h.guard.Middleware)
			r.Use(logging.Middleware(rec, opts.RootPath))

			r.Get("/", h.dashboard)
			r.Get("/activity", h.activity)

			r.Route("/resources/{resourceId}", func(r chi.Router) {
				r.Get("/", h.list)
				r.Get("/new", h.newForm)
				r.Post("/new", h.create)
				r.Post("/actions/{action}", h.resourceAction)
				r.Get("/records/{recordId}/show", h.show)
				r.Get("/records/{recordId}/edit", h.editForm)
				r.Post("/records/{recordId}/{action}", h.recordAction)
			})

			r.Route("/api/resources", func(r chi.Router) {
				r.Get("/", h.apiResources)
				r.Get("/{resourceId}/records", h.apiRecords)
				r.Get("/{resourceId}/records/{recordId}", h.apiRecord)
			})
		})
	}

	if root := strings.TrimSuffix(opts.RootPath, "/"); root != "" {
		r.Route(root, routes)
	} else {
		r.Group(routes)
	}
}

func (h *Handlers) logo(w http.ResponseWriter, r *http.Request) {
	data, err := assetFS.ReadFile("assets/logo.svg")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Enabled() {
		http.Redirect(w, r, h.admin.Path(), http.StatusSeeOther)
		return
	}
	h.writeLogin(w, http.StatusOK, "")
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if !h.guard.Enabled() {
		http.Redirect(w, r, h.admin.Path(), http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeLogin(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	if !h.guard.Login(w, r.PostForm.Get("email"), r.PostForm.Get("password")) {
		log.Printf("Failed login attempt for %q", r.PostForm.Get("email"))
		h.writeLogin(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	http.Redirect(w, r, h.admin.Path(), http.StatusSeeOther)
}

func (h *Handlers) writeLogin(w http.ResponseWriter, status int, message string) {
	page, err := h.admin.LoginPage(message)
	if err != nil {
		log.Printf("Error rendering login page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(page))
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if h.guard.Enabled() {
		h.guard.Logout(w, r)
		http.Redirect(w, r, h.admin.Options().LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.admin.Path(), http.StatusSeeOther)
}

type dashboardCard struct {
	Group    string
	Name     string
	Href     string
	Database string
	Count    string
	Recent   string // requests in the last 24h, empty without an activity store
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	opts := h.admin.Options()
	if opts.Dashboard != nil && opts.Dashboard.Handler != nil {
		opts.Dashboard.Handler.ServeHTTP(w, r)
		return
	}

	var cards []dashboardCard
	for _, group := range h.admin.Navigation() {
		for _, item := range group.Items {
			res, _ := h.admin.FindResource(item.ID)
			count := "?"
			if n, err := res.Count(r.Context(), nil); err == nil {
				count = formatCount(n)
			} else {
				log.Printf("Error counting %s: %v", item.ID, err)
			}
			card := dashboardCard{
				Group:    group.Name,
				Name:     item.Name,
				Href:     item.Href,
				Database: res.DatabaseName() + " (" + res.DatabaseType() + ")",
				Count:    count,
			}
			if h.store != nil {
				n, err := h.store.GetResourceActivityCount(item.ID, time.Now().Add(-24*time.Hour))
				if err != nil {
					log.Printf("Error counting activity for %s: %v", item.ID, err)
				} else {
					card.Recent = formatCount(n)
				}
			}
			cards = append(cards, card)
		}
	}

	title := "Dashboard"
	if opts.Dashboard != nil && opts.Dashboard.Title != "" {
		title = opts.Dashboard.Title
	}
	h.renderPage(w, r, http.StatusOK, "dashboard", render.Page{
		Layout: h.layout(r, title),
		Data:   map[string]any{"Cards": cards},
	})
}

func (h *Handlers) activity(w http.ResponseWriter, r *http.Request) {
	entries := []*store.ActivityLog{}
	stats := &store.ActivityStats{}

	if h.store != nil {
		q := store.ActivityQuery{
			Limit:      100,
			ResourceID: r.URL.Query().Get("resource"),
			Admin:      r.URL.Query().Get("admin"),
			ErrorsOnly: r.URL.Query().Get("errors") == "true",
		}
		var err error
		if entries, err = h.store.GetActivity(q); err != nil {
			log.Printf("Error loading activity: %v", err)
			http.Error(w, "Failed to load activity", http.StatusInternalServerError)
			return
		}
		if stats, err = h.store.GetActivityStats(); err != nil {
			log.Printf("Error loading activity stats: %v", err)
			http.Error(w, "Failed to load activity", http.StatusInternalServerError)
			return
		}
	}

	h.renderPage(w, r, http.StatusOK, "activity", render.Page{
		Layout: h.layout(r, "Activity"),
		Data:   map[string]any{"Entries": entries, "Stats": stats},
	})
}

// layout fills the chrome shared by every page
func (h *Handlers) layout(r *http.Request, title string) render.Layout {
	opts := h.admin.Options()

	l := render.Layout{
		Title:           title,
		CompanyName:     opts.Branding.CompanyName,
		Logo:            h.admin.LogoURL(),
		ShowVendorBadge: opts.Branding.ShowVendorBadge != nil && *opts.Branding.ShowVendorBadge,
		Styles:          opts.Assets.Styles,
		Scripts:         opts.Assets.Scripts,
		RootPath:        h.admin.Path(),
		ActivityPath:    h.admin.Path("activity"),
		Navigation:      h.admin.Navigation(),
		Notice:          r.URL.Query().Get("notice"),
		Version:         admin.Version,
	}
	if h.guard.Enabled() {
		l.LogoutPath = opts.LogoutPath
		l.CurrentAdmin = auth.UserFromContext(r.Context())
	}
	return l
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page render.Page) {
	html, err := render.Default().Render(name, page)
	if err != nil {
		log.Printf("Error rendering %s for %s: %v", name, r.URL.Path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

// resource resolves {resourceId} or writes a 404
func (h *Handlers) resource(w http.ResponseWriter, r *http.Request) (core.Resource, bool) {
	res, ok := h.admin.FindResource(urlParam(r, "resourceId"))
	if !ok {
		http.Error(w, "Resource not found", http.StatusNotFound)
	}
	return res, ok
}

// trusted marks markup built by the render package, which escapes every value itself
func trusted(s string) template.HTML {
	return template.HTML(s)
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}
