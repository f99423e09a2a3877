// ABOUTME: Property-driven HTML renderer for resource views.
// ABOUTME: Generates Tailwind-styled tables, forms and detail lists from resource properties.

package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/2389/panel/adapters/core"
)

// TableView describes a list page table
type TableView struct {
	Resource  core.Resource
	Options   core.ResourceOptions
	Records   []core.Record
	BasePath  string // {root}/resources/{resourceId}
	SortBy    string
	Direction string
}

// RenderRecordTable generates the list view table
func RenderRecordTable(v TableView) string {
	var sb strings.Builder

	sb.WriteString(`<table class="min-w-full divide-y divide-gray-200">`)
	sb.WriteString(`<thead class="bg-gray-50"><tr>`)

	// Render column headers, each one toggles sorting
	for _, name := range v.Options.ListProperties {
		if _, ok := core.FindProperty(v.Resource, name); !ok {
			continue
		}
		direction := "asc"
		marker := ""
		if v.SortBy == name {
			if v.Direction == "desc" {
				marker = " &darr;"
			} else {
				direction = "desc"
				marker = " &uarr;"
			}
		}
		query := url.Values{"sortBy": {name}, "direction": {direction}}
		sb.WriteString(fmt.Sprintf(`<th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase"><a href="%s?%s">%s%s</a></th>`,
			html.EscapeString(v.BasePath), html.EscapeString(query.Encode()),
			html.EscapeString(Humanize(name)), marker))
	}

	recordActions := recordActions(v.Options)
	if len(recordActions) > 0 {
		sb.WriteString(`<th class="px-6 py-3 text-right text-xs font-medium text-gray-500 uppercase">Actions</th>`)
	}

	sb.WriteString(`</tr></thead>`)
	sb.WriteString(`<tbody class="bg-white divide-y divide-gray-200">`)

	if len(v.Records) == 0 {
		sb.WriteString(`<tr><td class="px-6 py-4 text-sm text-gray-400">No records</td></tr>`)
	}

	for _, rec := range v.Records {
		sb.WriteString(`<tr>`)

		for _, name := range v.Options.ListProperties {
			p, ok := core.FindProperty(v.Resource, name)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">%s</td>`,
				html.EscapeString(formatValue(p.Type, rec[name]))))
		}

		if len(recordActions) > 0 {
			recordPath := v.BasePath + "/records/" + url.PathEscape(core.RecordID(v.Resource, rec))
			sb.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-right text-sm space-x-3">`)
			sb.WriteString(RenderActions(recordActions, recordPath))
			sb.WriteString(`</td>`)
		}

		sb.WriteString(`</tr>`)
	}

	sb.WriteString(`</tbody></table>`)
	return sb.String()
}

// RenderRecordForm generates a create/edit form. rec is nil in create mode.
func RenderRecordForm(res core.Resource, properties []string, rec core.Record, action string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<form method="post" action="%s" class="bg-white rounded-lg shadow p-6 space-y-4 max-w-2xl">`,
		html.EscapeString(action)))

	for _, name := range properties {
		field, ok := core.FindProperty(res, name)
		if !ok || !field.Editable {
			continue
		}

		sb.WriteString(`<div>`)
		sb.WriteString(fmt.Sprintf(`<label class="block text-sm font-medium text-gray-700">%s</label>`,
			html.EscapeString(Humanize(field.Name))))

		value := ""
		if rec != nil {
			if v, ok := rec[field.Name]; ok && v != nil {
				value = formatValue(field.Type, v)
			}
		}

		switch field.Type {
		case "text":
			sb.WriteString(fmt.Sprintf(`<textarea name="%s" class="mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border">%s</textarea>`,
				html.EscapeString(field.Name),
				html.EscapeString(value)))

		case "boolean":
			checked := ""
			if rec != nil && isTruthy(rec[field.Name]) {
				checked = " checked"
			}
			// Hidden input makes an unchecked box submit "false"
			sb.WriteString(fmt.Sprintf(`<input type="hidden" name="%s" value="false">`, html.EscapeString(field.Name)))
			sb.WriteString(fmt.Sprintf(`<input type="checkbox" name="%s" value="true"%s class="mt-1 rounded border-gray-300">`,
				html.EscapeString(field.Name),
				checked))

		case "datetime":
			sb.WriteString(fmt.Sprintf(`<input type="datetime-local" name="%s" value="%s" class="mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border">`,
				html.EscapeString(field.Name),
				html.EscapeString(datetimeLocal(rec[field.Name]))))

		case "number":
			sb.WriteString(fmt.Sprintf(`<input type="number" step="any" name="%s"%s class="mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border">`,
				html.EscapeString(field.Name),
				valueAttr(value)))

		default: // string and others
			sb.WriteString(fmt.Sprintf(`<input type="text" name="%s"%s class="mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border">`,
				html.EscapeString(field.Name),
				valueAttr(value)))
		}

		sb.WriteString(`</div>`)
	}

	sb.WriteString(`<div class="flex gap-4">`)
	sb.WriteString(`<button type="submit" class="px-4 py-2 bg-purple-600 text-white rounded hover:bg-purple-700">Save</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`</form>`)
	return sb.String()
}

// RenderRecordDetail generates a detail view
func RenderRecordDetail(res core.Resource, properties []string, rec core.Record) string {
	var sb strings.Builder

	sb.WriteString(`<div class="bg-white rounded-lg shadow overflow-hidden">`)
	sb.WriteString(`<dl class="divide-y divide-gray-200">`)

	for _, name := range properties {
		field, ok := core.FindProperty(res, name)
		if !ok {
			continue
		}
		sb.WriteString(`<div class="px-6 py-4 grid grid-cols-3 gap-4">`)
		sb.WriteString(fmt.Sprintf(`<dt class="text-sm font-medium text-gray-500">%s</dt>`,
			html.EscapeString(Humanize(field.Name))))
		sb.WriteString(fmt.Sprintf(`<dd class="text-sm text-gray-900 col-span-2">%s</dd>`,
			formatDetailValue(field.Type, rec[field.Name])))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</dl></div>`)
	return sb.String()
}

// RenderActions generates action links and buttons for one record or resource.
// Show and edit are links; everything else posts to {basePath}/{action}.
func RenderActions(actions []core.ActionOptions, basePath string) string {
	var sb strings.Builder

	for i, action := range actions {
		if i > 0 {
			sb.WriteString(" ")
		}

		endpoint := basePath + "/" + url.PathEscape(action.ID)

		switch action.ID {
		case core.ActionShow, core.ActionEdit, core.ActionNew, core.ActionList:
			sb.WriteString(fmt.Sprintf(`<a href="%s" class="text-blue-600 hover:text-blue-900">%s</a>`,
				html.EscapeString(endpoint),
				html.EscapeString(action.Label)))
		default:
			confirm := ""
			cssClass := "text-blue-600 hover:text-blue-900"
			if action.ID == core.ActionDelete {
				confirm = ` onsubmit="return confirm('Delete this record?')"`
				cssClass = "text-red-600 hover:text-red-900"
			}
			sb.WriteString(fmt.Sprintf(`<form method="post" action="%s" class="inline"%s><button type="submit" class="%s">%s</button></form>`,
				html.EscapeString(endpoint),
				confirm,
				cssClass,
				html.EscapeString(action.Label)))
		}
	}

	return sb.String()
}

// recordActions lists the enabled record-level actions in display order
func recordActions(opts core.ResourceOptions) []core.ActionOptions {
	var out []core.ActionOptions
	for _, id := range []string{core.ActionShow, core.ActionEdit} {
		if a, ok := opts.Actions[id]; ok && a.IsEnabled() {
			out = append(out, a)
		}
	}
	out = append(out, core.CustomActions(opts, core.ScopeRecord)...)
	if a, ok := opts.Actions[core.ActionDelete]; ok && a.IsEnabled() {
		out = append(out, a)
	}
	return out
}

// RecordActions is recordActions without show, for the detail page
func RecordActions(opts core.ResourceOptions) []core.ActionOptions {
	var out []core.ActionOptions
	for _, a := range recordActions(opts) {
		if a.ID != core.ActionShow {
			out = append(out, a)
		}
	}
	return out
}

// Helper functions

func formatValue(fieldType string, value any) string {
	if value == nil {
		return ""
	}
	if fieldType == "boolean" {
		if isTruthy(value) {
			return "true"
		}
		return "false"
	}
	if t, ok := value.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(value)
}

func formatDetailValue(fieldType string, value any) string {
	if value == nil {
		return `<span class="text-gray-400">No value</span>`
	}

	if fieldType == "boolean" {
		if isTruthy(value) {
			return "Yes"
		}
		return "No"
	}

	strValue := formatValue(fieldType, value)
	if strValue == "" {
		return `<span class="text-gray-400">No value</span>`
	}

	return html.EscapeString(strValue)
}

func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "on"
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return false
	}
}

func valueAttr(value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(` value="%s"`, html.EscapeString(value))
}

func datetimeLocal(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02T15:04")
	case string:
		return strings.Replace(v, " ", "T", 1)
	}
	return ""
}
