// ABOUTME: Resource detection for activity logging.
// ABOUTME: Extracts the resource id and action from admin URL paths.

package logging

import "strings"

// ParseResourcePath returns the resource id and action an admin path refers to.
// Paths outside {root}/resources and {root}/api/resources return empty strings.
func ParseResourcePath(rootPath, path string) (resourceID, action string) {
	rest, ok := strings.CutPrefix(path, strings.TrimSuffix(rootPath, "/")+"/")
	if !ok {
		return "", ""
	}

	api := false
	if after, found := strings.CutPrefix(rest, "api/"); found {
		api = true
		rest = after
	}

	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] != "resources" || parts[1] == "" {
		return "", ""
	}
	resourceID = parts[1]
	parts = parts[2:]

	switch {
	case len(parts) == 0:
		return resourceID, "list"
	case api && parts[0] == "records" && len(parts) == 1:
		return resourceID, "list"
	case api && parts[0] == "records":
		return resourceID, "show"
	case parts[0] == "new":
		return resourceID, "new"
	case parts[0] == "actions" && len(parts) > 1:
		return resourceID, parts[1]
	case parts[0] == "records" && len(parts) > 2:
		return resourceID, parts[2]
	}
	return resourceID, ""
}
