// ABOUTME: Resource pages: list, show, new/edit forms and action endpoints.
// ABOUTME: Built-in and custom actions all run through the resource's action handlers.

package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2389/panel/adapters/core"
	"github.com/2389/panel/internal/auth"
	"github.com/2389/panel/internal/render"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPerPage = 10
	maxPerPage     = 500
)

type filterField struct {
	Name  string
	Value string
}

// listQuery holds the paging, sorting and filters of a list request
type listQuery struct {
	Page      int
	PerPage   int
	SortBy    string
	Direction string
	Filter    core.Filter
	Fields    []filterField
}

func parseListQuery(r *http.Request, res core.Resource, properties []string) listQuery {
	q := r.URL.Query()

	lq := listQuery{
		Page:      positiveInt(q.Get("page"), 1),
		PerPage:   positiveInt(q.Get("perPage"), defaultPerPage),
		SortBy:    q.Get("sortBy"),
		Direction: strings.ToLower(q.Get("direction")),
		Filter:    core.Filter{},
	}
	if lq.PerPage > maxPerPage {
		lq.PerPage = maxPerPage
	}
	if _, ok := core.FindProperty(res, lq.SortBy); !ok {
		lq.SortBy = ""
	}
	if lq.Direction != "desc" {
		lq.Direction = "asc"
	}

	for _, name := range properties {
		value := q.Get("filters." + name)
		lq.Fields = append(lq.Fields, filterField{Name: name, Value: value})
		if value != "" {
			lq.Filter[name] = value
		}
	}
	return lq
}

func (lq listQuery) findOptions() core.FindOptions {
	return core.FindOptions{
		Limit:     lq.PerPage,
		Offset:    (lq.Page - 1) * lq.PerPage,
		SortBy:    lq.SortBy,
		Direction: lq.Direction,
	}
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	if !actionEnabled(opts, core.ActionList) {
		http.Error(w, "Action not allowed", http.StatusForbidden)
		return
	}

	lq := parseListQuery(r, res, opts.ListProperties)
	total, err := res.Count(r.Context(), lq.Filter)
	if err != nil {
		h.resourceError(w, r, res, err)
		return
	}
	records, err := res.Find(r.Context(), lq.Filter, lq.findOptions())
	if err != nil {
		h.resourceError(w, r, res, err)
		return
	}

	basePath := h.admin.ResourcePath(res.ID())
	pages := int(math.Ceil(float64(total) / float64(lq.PerPage)))

	data := map[string]any{
		"Total":           total,
		"BasePath":        basePath,
		"CanCreate":       actionEnabled(opts, core.ActionNew),
		"ResourceActions": trusted(render.RenderActions(core.CustomActions(opts, core.ScopeResource), basePath+"/actions")),
		"Filters":         lq.Fields,
		"Page":            lq.Page,
		"Pages":           pages,
		"PrevHref":        "",
		"NextHref":        "",
	}
	if lq.Page > 1 {
		data["PrevHref"] = pageHref(r, basePath, lq.Page-1)
	}
	if lq.Page < pages {
		data["NextHref"] = pageHref(r, basePath, lq.Page+1)
	}

	table := render.RenderRecordTable(render.TableView{
		Resource:  res,
		Options:   opts,
		Records:   records,
		BasePath:  basePath,
		SortBy:    lq.SortBy,
		Direction: lq.Direction,
	})

	h.renderPage(w, r, http.StatusOK, "resource-list", render.Page{
		Layout:  h.layout(r, opts.Name),
		Heading: opts.Name,
		Content: trusted(table),
		Data:    data,
	})
}

// pageHref keeps the current query and swaps the page number
func pageHref(r *http.Request, basePath string, page int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Del("notice")
	return basePath + "?" + q.Encode()
}

func (h *Handlers) show(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	if !actionEnabled(opts, core.ActionShow) {
		http.Error(w, "Action not allowed", http.StatusForbidden)
		return
	}

	recordID := urlParam(r, "recordId")
	rec, err := res.FindOne(r.Context(), recordID)
	if err != nil {
		h.resourceError(w, r, res, err)
		return
	}

	basePath := h.admin.ResourcePath(res.ID())
	h.renderPage(w, r, http.StatusOK, "resource-show", render.Page{
		Layout:  h.layout(r, opts.Name),
		Heading: opts.Name,
		Content: trusted(render.RenderRecordDetail(res, opts.ShowProperties, rec)),
		Data: map[string]any{
			"BasePath": basePath,
			"Actions":  trusted(render.RenderActions(render.RecordActions(opts), recordPath(basePath, recordID))),
		},
	})
}

func (h *Handlers) newForm(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	if !actionEnabled(opts, core.ActionNew) {
		http.Error(w, "Action not allowed", http.StatusForbidden)
		return
	}
	h.renderForm(w, r, http.StatusOK, res, opts, nil, "", "")
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	action, ok := enabledAction(w, opts, core.ActionNew)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	params := formParams(r, res, opts.EditProperties)
	resp, err := h.run(r.Context(), action, res, "", params)
	if err != nil {
		log.Printf("Error creating %s record: %v", res.ID(), err)
		h.renderForm(w, r, http.StatusUnprocessableEntity, res, opts, core.Record(params), "", err.Error())
		return
	}

	target := h.admin.ResourcePath(res.ID())
	if id := core.RecordID(res, resp.Record); id != "" {
		target = recordPath(target, id) + "/show"
	}
	redirect(w, r, resp, target)
}

func (h *Handlers) editForm(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	if !actionEnabled(opts, core.ActionEdit) {
		http.Error(w, "Action not allowed", http.StatusForbidden)
		return
	}

	recordID := urlParam(r, "recordId")
	rec, err := res.FindOne(r.Context(), recordID)
	if err != nil {
		h.resourceError(w, r, res, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, res, opts, rec, recordID, "")
}

// recordAction handles POST .../records/{recordId}/{action}: edit, delete and custom record actions
func (h *Handlers) recordAction(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	name := urlParam(r, "action")
	recordID := urlParam(r, "recordId")

	switch name {
	case core.ActionList, core.ActionNew, core.ActionShow:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	action, ok := enabledAction(w, opts, name)
	if !ok {
		return
	}
	if action.Scope != core.ScopeRecord {
		http.Error(w, "Action is not a record action", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	basePath := h.admin.ResourcePath(res.ID())

	var params map[string]any
	if name == core.ActionEdit {
		params = formParams(r, res, opts.EditProperties)
	} else {
		params = rawParams(r)
	}

	resp, err := h.run(r.Context(), action, res, recordID, params)
	if err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			h.resourceError(w, r, res, err)
			return
		}
		log.Printf("Error running %s on %s/%s: %v", name, res.ID(), recordID, err)
		if name == core.ActionEdit {
			h.renderForm(w, r, http.StatusUnprocessableEntity, res, opts, core.Record(params), recordID, err.Error())
			return
		}
		http.Error(w, "Action failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	target := recordPath(basePath, recordID) + "/show"
	if name == core.ActionDelete {
		target = basePath
	}
	redirect(w, r, resp, target)
}

// resourceAction handles POST .../actions/{action} for custom resource-level actions
func (h *Handlers) resourceAction(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	name := urlParam(r, "action")

	action, ok := enabledAction(w, opts, name)
	if !ok {
		return
	}
	if action.Scope != core.ScopeResource || isBuiltin(name) {
		http.Error(w, "Action is not a resource action", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	resp, err := h.run(r.Context(), action, res, "", rawParams(r))
	if err != nil {
		log.Printf("Error running %s on %s: %v", name, res.ID(), err)
		http.Error(w, "Action failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	redirect(w, r, resp, h.admin.ResourcePath(res.ID()))
}

func (h *Handlers) run(ctx context.Context, action core.ActionOptions, res core.Resource, recordID string, params map[string]any) (core.ActionResponse, error) {
	if action.Handler == nil {
		return core.ActionResponse{}, fmt.Errorf("action %q has no handler", action.ID)
	}
	return action.Handler(ctx, core.ActionRequest{
		Resource:     res,
		RecordID:     recordID,
		Params:       params,
		CurrentAdmin: auth.UserFromContext(ctx),
	})
}

// renderForm renders the new form, or the edit form when recordID is set
func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, res core.Resource, opts core.ResourceOptions, rec core.Record, recordID, formError string) {
	basePath := h.admin.ResourcePath(res.ID())

	action := basePath + "/new"
	back := basePath
	title := "New " + opts.Name
	if recordID != "" {
		action = recordPath(basePath, recordID) + "/edit"
		back = recordPath(basePath, recordID) + "/show"
		title = "Edit " + opts.Name
	}

	h.renderPage(w, r, status, "resource-form", render.Page{
		Layout:  h.layout(r, title),
		Heading: opts.Name,
		Content: trusted(render.RenderRecordForm(res, opts.EditProperties, rec, action)),
		Data:    map[string]any{"BackHref": back, "Error": formError},
	})
}

func (h *Handlers) resourceError(w http.ResponseWriter, r *http.Request, res core.Resource, err error) {
	if errors.Is(err, core.ErrRecordNotFound) {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	log.Printf("Error accessing %s: %v", res.ID(), err)
	http.Error(w, "Failed to load records", http.StatusInternalServerError)
}

// formParams picks the editable properties present in the posted form. For
// repeated keys the last value wins, so a checkbox overrides its hidden "false".
func formParams(r *http.Request, res core.Resource, properties []string) map[string]any {
	params := make(map[string]any)
	for _, name := range properties {
		p, ok := core.FindProperty(res, name)
		if !ok || !p.Editable {
			continue
		}
		values, ok := r.PostForm[name]
		if !ok || len(values) == 0 {
			continue
		}
		params[name] = values[len(values)-1]
	}
	return params
}

func rawParams(r *http.Request) map[string]any {
	params := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	return params
}

func redirect(w http.ResponseWriter, r *http.Request, resp core.ActionResponse, fallback string) {
	target := fallback
	if resp.Redirect != "" {
		target = resp.Redirect
	}
	if resp.Notice != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "notice=" + url.QueryEscape(resp.Notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// urlParam returns a route parameter decoded. chi matches on RawPath when the
// request has one, so an escaped id such as "docs%2Freadme.md" arrives still encoded.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func recordPath(basePath, recordID string) string {
	return basePath + "/records/" + url.PathEscape(recordID)
}

func actionEnabled(opts core.ResourceOptions, name string) bool {
	a, ok := opts.Actions[name]
	return ok && a.IsEnabled()
}

// enabledAction looks up an action, writing 404 or 403 when it cannot run
func enabledAction(w http.ResponseWriter, opts core.ResourceOptions, name string) (core.ActionOptions, bool) {
	a, ok := opts.Actions[name]
	if !ok {
		http.Error(w, "Action not found", http.StatusNotFound)
		return a, false
	}
	if !a.IsEnabled() {
		http.Error(w, "Action not allowed", http.StatusForbidden)
		return a, false
	}
	return a, true
}

func isBuiltin(name string) bool {
	switch name {
	case core.ActionList, core.ActionNew, core.ActionShow, core.ActionEdit, core.ActionDelete:
		return true
	}
	return false
}
