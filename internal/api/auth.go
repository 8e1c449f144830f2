package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Credentials Credentials `json:"credentials"`
}

// Login authenticates against the service. The request is unauthenticated:
// with no persisted token nothing is attached.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{Credentials: creds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout tells the server to drop the session. Best-effort on the caller's
// side: local state is cleared regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// GetSession introspects the persisted token against the server.
func (c *Client) GetSession(ctx context.Context) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
