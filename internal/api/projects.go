package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListProjects fetches the project list. Optional query refinements are
// passed through to the server opaquely.
func (c *Client) ListProjects(ctx context.Context, params url.Values) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", params, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProjectDetail fetches the descriptive detail for a project.
func (c *Client) GetProjectDetail(ctx context.Context, key string) (*ProjectDetail, error) {
	var detail ProjectDetail
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(key), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetProjectStatistics fetches the issue statistics for a project.
func (c *Client) GetProjectStatistics(ctx context.Context, key string) (*ProjectStatistics, error) {
	var stats ProjectStatistics
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(key)+"/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExportProject retrieves the export payload for a project. The payload is
// opaque bytes, handed to the caller for saving as-is.
func (c *Client) ExportProject(ctx context.Context, key, format string) ([]byte, error) {
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}
	return c.doRaw(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(key)+"/export", params, nil)
}
