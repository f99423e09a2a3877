// ABOUTME: JSON API over the resolved resources.
// ABOUTME: Lists resources with their metadata and serves paged records.

package ui

import (
	"net/http"

	"github.com/2389/panel/adapters/core"
	apierrors "github.com/2389/panel/internal/errors"
)

type apiAction struct {
	ID    string           `json:"id"`
	Label string           `json:"label"`
	Icon  string           `json:"icon,omitempty"`
	Scope core.ActionScope `json:"scope"`
}

type apiProperty struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsID     bool   `json:"isId"`
	Editable bool   `json:"editable"`
}

type apiResource struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DatabaseName string        `json:"databaseName"`
	DatabaseType string        `json:"databaseType"`
	Parent       *core.Parent  `json:"parent,omitempty"`
	Href         string        `json:"href"`
	Properties   []apiProperty `json:"properties"`
	Actions      []apiAction   `json:"actions"`
}

type apiMeta struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

func (h *Handlers) apiResources(w http.ResponseWriter, r *http.Request) {
	out := []apiResource{}
	for _, res := range h.admin.Resources() {
		opts := core.OptionsOf(res)

		props := []apiProperty{}
		for _, p := range res.Properties() {
			props = append(props, apiProperty{Name: p.Name, Type: p.Type, IsID: p.IsID, Editable: p.Editable})
		}

		actions := []apiAction{}
		for _, name := range []string{core.ActionList, core.ActionNew, core.ActionShow, core.ActionEdit, core.ActionDelete} {
			if a, ok := opts.Actions[name]; ok && a.IsEnabled() {
				actions = append(actions, apiAction{ID: a.ID, Label: a.Label, Icon: a.Icon, Scope: a.Scope})
			}
		}
		for _, scope := range []core.ActionScope{core.ScopeResource, core.ScopeRecord} {
			for _, a := range core.CustomActions(opts, scope) {
				actions = append(actions, apiAction{ID: a.ID, Label: a.Label, Icon: a.Icon, Scope: a.Scope})
			}
		}

		out = append(out, apiResource{
			ID:           res.ID(),
			Name:         opts.Name,
			DatabaseName: res.DatabaseName(),
			DatabaseType: res.DatabaseType(),
			Parent:       opts.Parent,
			Href:         h.admin.ResourcePath(res.ID()),
			Properties:   props,
			Actions:      actions,
		})
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"resources": out})
}

func (h *Handlers) apiRecords(w http.ResponseWriter, r *http.Request) {
	res, ok := h.apiResource(w, r)
	if !ok {
		return
	}
	opts := core.OptionsOf(res)
	if !actionEnabled(opts, core.ActionList) {
		apierrors.Forbidden(w, "list is disabled for this resource")
		return
	}

	lq := parseListQuery(r, res, allProperties(res))
	total, err := res.Count(r.Context(), lq.Filter)
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	records, err := res.Find(r.Context(), lq.Filter, lq.findOptions())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	if records == nil {
		records = []core.Record{}
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"meta":    apiMeta{Total: total, Page: lq.Page, PerPage: lq.PerPage},
	})
}

func (h *Handlers) apiRecord(w http.ResponseWriter, r *http.Request) {
	res, ok := h.apiResource(w, r)
	if !ok {
		return
	}
	if !actionEnabled(core.OptionsOf(res), core.ActionShow) {
		apierrors.Forbidden(w, "show is disabled for this resource")
		return
	}

	rec, err := res.FindOne(r.Context(), urlParam(r, "recordId"))
	if err != nil {
		apierrors.FromError(w, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"record": rec})
}

func (h *Handlers) apiResource(w http.ResponseWriter, r *http.Request) (core.Resource, bool) {
	id := urlParam(r, "resourceId")
	res, ok := h.admin.FindResource(id)
	if !ok {
		apierrors.NotFound(w, "resource "+id+" not found")
	}
	return res, ok
}

func allProperties(res core.Resource) []string {
	names := make([]string, 0, len(res.Properties()))
	for _, p := range res.Properties() {
		names = append(names, p.Name)
	}
	return names
}
