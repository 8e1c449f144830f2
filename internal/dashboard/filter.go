package dashboard

import (
	"sort"
	"strings"

	"jiradash/internal/api"
)

// FilterState is the ephemeral search/filter state of the dashboard. It is
// not reset automatically when the project list reloads.
type FilterState struct {
	SearchTerm  string
	ProjectType string
}

// Filter returns the projects matching f, preserving server order. A project
// matches when the search term is empty or a case-insensitive substring of
// its name or key, and the type filter is empty or equals its type key.
func Filter(projects []api.Project, f FilterState) []api.Project {
	term := strings.ToLower(f.SearchTerm)

	var out []api.Project
	for _, p := range projects {
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Key), term)
		matchesType := f.ProjectType == "" || p.ProjectTypeKey == f.ProjectType

		if matchesSearch && matchesType {
			out = append(out, p)
		}
	}
	return out
}

// Facets returns the distinct project type keys in the list, sorted. It is
// recomputed wholesale on every list load, never patched incrementally.
func Facets(projects []api.Project) []string {
	seen := make(map[string]bool)
	var facets []string
	for _, p := range projects {
		if !seen[p.ProjectTypeKey] {
			seen[p.ProjectTypeKey] = true
			facets = append(facets, p.ProjectTypeKey)
		}
	}
	sort.Strings(facets)
	return facets
}

// FacetLabel renders a type key for display, e.g. "service_desk" -> "SERVICE DESK".
func FacetLabel(typeKey string) string {
	return strings.ToUpper(strings.ReplaceAll(typeKey, "_", " "))
}
