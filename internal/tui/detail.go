package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jiradash/internal/api"
	"jiradash/internal/dashboard"
	"jiradash/internal/export"
)

// detailModel shows one project's descriptive detail and issue statistics.
// The two halves are fetched concurrently and rendered only once both have
// arrived; a failure of either fails the whole view. Each selection bumps a
// generation counter so responses from a superseded selection are discarded
// when they resolve.
type detailModel struct {
	client *api.Client
	width  int
	height int

	project api.Project
	gen     int
	loading bool
	loadErr string
	detail  *api.ProjectDetail
	stats   *api.ProjectStatistics

	chart barchart.Model
}

func newDetailModel(client *api.Client) detailModel {
	return detailModel{client: client}
}

func (d *detailModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// open starts the aggregation for a newly selected project. Any in-flight
// fetches for an earlier selection keep running but their results will no
// longer match the generation.
func (d detailModel) open(project api.Project) (detailModel, tea.Cmd) {
	d.project = project
	d.gen++
	d.loading = true
	d.loadErr = ""
	d.detail = nil
	d.stats = nil

	return d, tea.Batch(
		fetchDetailCmd(d.client, project.Key, d.gen),
		fetchStatsCmd(d.client, project.Key, d.gen),
	)
}

// close discards the fetched data and supersedes any fetches still in
// flight, so results landing after the view closed are thrown away.
func (d detailModel) close() detailModel {
	d.gen++
	d.loading = false
	d.loadErr = ""
	d.detail = nil
	d.stats = nil
	return d
}

func fetchDetailCmd(client *api.Client, projectKey string, gen int) tea.Cmd {
	return func() tea.Msg {
		detail, err := client.GetProjectDetail(context.Background(), projectKey)
		if err != nil {
			return detailErrMsg{key: projectKey, gen: gen, err: err}
		}
		return detailLoadedMsg{key: projectKey, gen: gen, detail: detail}
	}
}

func fetchStatsCmd(client *api.Client, projectKey string, gen int) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.GetProjectStatistics(context.Background(), projectKey)
		if err != nil {
			return detailErrMsg{key: projectKey, gen: gen, err: err}
		}
		return statsLoadedMsg{key: projectKey, gen: gen, stats: stats}
	}
}

func exportCmd(client *api.Client, projectKey string) tea.Cmd {
	return func() tea.Msg {
		payload, err := client.ExportProject(context.Background(), projectKey, "csv")
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		dir, err := export.DefaultDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path, err := export.Save(dir, projectKey, payload)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (d detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.gen != d.gen {
			return d, nil
		}
		d.detail = msg.detail
		return d.maybeReady(), nil

	case statsLoadedMsg:
		if msg.gen != d.gen {
			return d, nil
		}
		d.stats = msg.stats
		return d.maybeReady(), nil

	case detailErrMsg:
		if msg.gen != d.gen {
			return d, nil
		}
		d.loading = false
		d.loadErr = "Failed to load project details"
		d.detail = nil
		d.stats = nil
		return d, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Export) && !d.loading && d.loadErr == "" {
			return d, exportCmd(d.client, d.project.Key)
		}
	}
	return d, nil
}

func (d detailModel) maybeReady() detailModel {
	if d.detail == nil || d.stats == nil {
		return d
	}
	d.loading = false
	d.buildChart()
	return d
}

func (d *detailModel) buildChart() {
	chartWidth := d.width - 12
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if d.height > 34 {
		chartHeight = 10
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, row := range dashboard.PriorityRows(*d.stats) {
		bars = append(bars, barchart.BarData{
			Label: row.Label,
			Values: []barchart.BarValue{{
				Name:  row.Label,
				Value: float64(row.Count),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "none",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d detailModel) view() string {
	w := d.width - 4

	header := titleStyle.Render(d.project.Name) + "  " + mutedStyle.Render(d.project.Key)

	if d.loading {
		content := lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("Loading details..."))
		return activePanelStyle.Width(w).Render(content)
	}
	if d.loadErr != "" {
		content := lipgloss.JoinVertical(lipgloss.Left, header, "", errorStyle.Render(d.loadErr))
		return activePanelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header, "")

	rows = append(rows, titleStyle.Render("Overview"))
	desc := d.detail.Description
	if desc == "" {
		desc = "No description available"
	}
	rows = append(rows, normalItemStyle.Render(truncate(desc, 300)))
	if d.detail.Lead != nil {
		rows = append(rows, "Lead: "+highlightStyle.Render(d.detail.Lead.Label()))
	}
	rows = append(rows, "Type: "+dashboard.FacetLabel(d.project.ProjectTypeKey))
	if len(d.detail.Components) > 0 {
		names := make([]string, len(d.detail.Components))
		for i, c := range d.detail.Components {
			names[i] = c.Name
		}
		rows = append(rows, "Components: "+mutedStyle.Render(strings.Join(names, ", ")))
	}
	if len(d.detail.Versions) > 0 {
		names := make([]string, len(d.detail.Versions))
		for i, v := range d.detail.Versions {
			names[i] = v.Name
			if v.Released {
				names[i] += " ✓"
			}
		}
		rows = append(rows, "Versions: "+mutedStyle.Render(strings.Join(names, ", ")))
	}

	rows = append(rows, "", titleStyle.Render("Statistics"))
	rows = append(rows, fmt.Sprintf("Total issues: %s", highlightStyle.Render(fmt.Sprintf("%d", d.stats.TotalIssues))))
	for _, row := range dashboard.StatusRows(*d.stats) {
		rows = append(rows, fmt.Sprintf("  %-12s %4d  %5.1f%%", row.Label, row.Count, row.Percent))
	}

	if len(d.stats.ByPriority) > 0 {
		rows = append(rows, "", titleStyle.Render("Issues by Priority"), d.chart.View())
		for _, row := range dashboard.PriorityRows(*d.stats) {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %4d  %5.1f%%", row.Label, row.Count, row.Percent)))
		}
	}
	if len(d.stats.ByType) > 0 {
		rows = append(rows, "", titleStyle.Render("Issues by Type"))
		for _, row := range dashboard.TypeRows(*d.stats) {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %4d  %5.1f%%", row.Label, row.Count, row.Percent)))
		}
	}

	rows = append(rows, "", mutedStyle.Render("  e: export csv  esc: close"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
