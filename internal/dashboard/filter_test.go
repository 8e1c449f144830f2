package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jiradash/internal/api"
	"jiradash/internal/dashboard"
)

var sampleProjects = []api.Project{
	{ID: "1", Key: "DEMO", Name: "Demo Project", ProjectTypeKey: "software"},
	{ID: "2", Key: "OPS", Name: "Operations", ProjectTypeKey: "business"},
	{ID: "3", Key: "WEB", Name: "Website Redesign", ProjectTypeKey: "software"},
}

func TestFilterEmptyStateIsIdentity(t *testing.T) {
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{})
	require.Equal(t, sampleProjects, got)
}

func TestFilterSearchMatchesNameOrKey(t *testing.T) {
	// Matches by name substring, case-insensitive.
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{SearchTerm: "demo"})
	require.Len(t, got, 1)
	require.Equal(t, "DEMO", got[0].Key)

	// Matches by key substring.
	got = dashboard.Filter(sampleProjects, dashboard.FilterState{SearchTerm: "ops"})
	require.Len(t, got, 1)
	require.Equal(t, "OPS", got[0].Key)

	// Mixed case.
	got = dashboard.Filter(sampleProjects, dashboard.FilterState{SearchTerm: "WeBsItE"})
	require.Len(t, got, 1)
	require.Equal(t, "WEB", got[0].Key)
}

func TestFilterByType(t *testing.T) {
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{ProjectType: "software"})
	require.Len(t, got, 2)
	require.Equal(t, "DEMO", got[0].Key)
	require.Equal(t, "WEB", got[1].Key)
}

func TestFilterPredicatesAreANDed(t *testing.T) {
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{
		SearchTerm:  "e",
		ProjectType: "business",
	})
	require.Len(t, got, 1)
	require.Equal(t, "OPS", got[0].Key)

	got = dashboard.Filter(sampleProjects, dashboard.FilterState{
		SearchTerm:  "demo",
		ProjectType: "business",
	})
	require.Empty(t, got)
}

func TestFilterComposes(t *testing.T) {
	search := dashboard.FilterState{SearchTerm: "e"}
	byType := dashboard.FilterState{ProjectType: "software"}
	combined := dashboard.FilterState{SearchTerm: "e", ProjectType: "software"}

	sequential := dashboard.Filter(dashboard.Filter(sampleProjects, search), byType)
	reversed := dashboard.Filter(dashboard.Filter(sampleProjects, byType), search)
	oneShot := dashboard.Filter(sampleProjects, combined)

	require.Equal(t, oneShot, sequential)
	require.Equal(t, oneShot, reversed)
}

func TestFilterNoMatch(t *testing.T) {
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{SearchTerm: "nonexistent"})
	require.Empty(t, got)
}

func TestFilterPreservesServerOrder(t *testing.T) {
	got := dashboard.Filter(sampleProjects, dashboard.FilterState{ProjectType: "software"})
	require.Equal(t, []string{"DEMO", "WEB"}, []string{got[0].Key, got[1].Key})
}

func TestFacets(t *testing.T) {
	facets := dashboard.Facets(sampleProjects)
	require.Equal(t, []string{"business", "software"}, facets)
}

func TestFacetsDistinct(t *testing.T) {
	projects := []api.Project{
		{Key: "A", ProjectTypeKey: "software"},
		{Key: "B", ProjectTypeKey: "business"},
		{Key: "C", ProjectTypeKey: "software"},
	}
	facets := dashboard.Facets(projects)
	require.Equal(t, []string{"business", "software"}, facets)
}

func TestFacetsEmptyList(t *testing.T) {
	require.Empty(t, dashboard.Facets(nil))
}

func TestFacetLabel(t *testing.T) {
	require.Equal(t, "SERVICE DESK", dashboard.FacetLabel("service_desk"))
	require.Equal(t, "SOFTWARE", dashboard.FacetLabel("software"))
}
