package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jiradash/internal/api"
	"jiradash/internal/dashboard"
)

type dashboardModel struct {
	client *api.Client
	width  int
	height int

	loading  bool
	loadErr  string
	projects []api.Project
	facets   []string
	facetIdx int // 0 = all types

	search    textinput.Model
	searching bool

	cursor int

	showingDetail bool
	detail        detailModel
}

func newDashboardModel(client *api.Client) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Search projects..."
	ti.CharLimit = 64
	ti.Width = 32

	return dashboardModel{
		client:  client,
		loading: true,
		search:  ti,
		detail:  newDetailModel(client),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.detail.setSize(w, h)
}

// load fetches the project list. The held list is replaced wholesale on
// success and the facet set recomputed from scratch.
func (d dashboardModel) load() tea.Cmd {
	client := d.client
	return func() tea.Msg {
		projects, err := client.ListProjects(context.Background(), nil)
		if err != nil {
			return projectsErrMsg{err: err}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

func (d dashboardModel) filterState() dashboard.FilterState {
	projectType := ""
	if d.facetIdx > 0 && d.facetIdx-1 < len(d.facets) {
		projectType = d.facets[d.facetIdx-1]
	}
	return dashboard.FilterState{
		SearchTerm:  d.search.Value(),
		ProjectType: projectType,
	}
}

func (d dashboardModel) filtered() []api.Project {
	return dashboard.Filter(d.projects, d.filterState())
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case projectsLoadedMsg:
		d.loading = false
		d.loadErr = ""
		d.projects = msg.projects
		d.facets = dashboard.Facets(msg.projects)
		if d.facetIdx > len(d.facets) {
			d.facetIdx = 0
		}
		if d.cursor >= len(d.filtered()) {
			d.cursor = max(0, len(d.filtered())-1)
		}
		return d, nil

	case projectsErrMsg:
		d.loading = false
		d.loadErr = "Failed to fetch projects. Please try again later."
		d.projects = nil
		d.facets = nil
		return d, nil

	case detailLoadedMsg, statsLoadedMsg, detailErrMsg:
		// Routed to the detail model even when it is closed so stale
		// generations get discarded there.
		d.detail, cmd = d.detail.update(msg)
		return d, cmd

	case tea.KeyMsg:
		if d.showingDetail {
			if key.Matches(msg, keys.Back) {
				d.showingDetail = false
				d.detail = d.detail.close()
				return d, nil
			}
			d.detail, cmd = d.detail.update(msg)
			return d, cmd
		}
		return d.updateList(msg)
	}

	// Cursor blink and other input-internal messages.
	if d.searching {
		d.search, cmd = d.search.Update(msg)
		return d, cmd
	}

	return d, nil
}

func (d dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	if d.searching {
		switch msg.String() {
		case "esc", "enter":
			d.searching = false
			d.search.Blur()
			return d, nil
		}
		var cmd tea.Cmd
		d.search, cmd = d.search.Update(msg)
		d.cursor = 0
		return d, cmd
	}

	switch {
	case key.Matches(msg, keys.Search):
		d.searching = true
		d.search.Focus()
		return d, textinput.Blink

	case key.Matches(msg, keys.Type):
		d.facetIdx = (d.facetIdx + 1) % (len(d.facets) + 1)
		d.cursor = 0
		return d, nil

	case key.Matches(msg, keys.Refresh):
		d.loading = true
		d.loadErr = ""
		return d, d.load()

	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil

	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.filtered())-1 {
			d.cursor++
		}
		return d, nil

	case key.Matches(msg, keys.Enter):
		list := d.filtered()
		if d.cursor < len(list) {
			var cmd tea.Cmd
			d.detail, cmd = d.detail.open(list[d.cursor])
			d.showingDetail = true
			return d, cmd
		}
		return d, nil
	}

	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	if d.showingDetail {
		return d.detail.view()
	}

	w := d.width - 4

	if d.loading {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading projects..."))
	}
	if d.loadErr != "" {
		return panelStyle.Width(w).Render(errorStyle.Render(d.loadErr))
	}

	filterRow := d.renderFilterRow()
	list := d.renderProjectList(w)

	return lipgloss.JoinVertical(lipgloss.Left, filterRow, list)
}

func (d dashboardModel) renderFilterRow() string {
	var searchView string
	if d.searching {
		searchView = d.search.View()
	} else if d.search.Value() != "" {
		searchView = highlightStyle.Render("search: " + d.search.Value())
	} else {
		searchView = mutedStyle.Render("/: search")
	}

	tabs := []string{}
	for i, label := range append([]string{"All Types"}, d.facets...) {
		rendered := label
		if i > 0 {
			rendered = dashboard.FacetLabel(label)
		}
		if i == d.facetIdx {
			tabs = append(tabs, activeTabStyle.Render(rendered))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(rendered))
		}
	}

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom,
		searchView, "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	))
}

func (d dashboardModel) renderProjectList(w int) string {
	title := titleStyle.Render("Projects Dashboard")

	list := d.filtered()
	if len(list) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects found matching your criteria"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-10s %-28s %-14s %s", "Key", "Name", "Type", "Lead"))
	rows = append(rows, header)

	for i, p := range list {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		lead := ""
		if p.Lead != nil {
			lead = p.Lead.Label()
		}
		row := style.Render(fmt.Sprintf("%s%-10s %-28s %-14s %s",
			cursor, p.Key, truncate(p.Name, 28), dashboard.FacetLabel(p.ProjectTypeKey), lead))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open  /: search  f: type filter  r: refresh"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
