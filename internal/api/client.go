package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jiradash/internal/session"
)

// Client is the single choke point for all outbound calls. Every request
// gets the persisted token attached as a bearer credential; every
// unauthorized response clears the session store and fires OnUnauthorized
// before the caller sees the failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      *session.Store
	logger     *slog.Logger

	// OnUnauthorized is invoked synchronously after a 401 response has
	// cleared the session store. It is the only place a global forced
	// logout originates. Set it before issuing requests.
	OnUnauthorized func()
}

// New creates a client for the service at baseURL. Every request is bounded
// by timeout; a nil logger discards.
func New(baseURL string, timeout time.Duration, store *session.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		logger:     logger,
	}
}

// do issues a request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// doRaw issues a request and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.store.Token()
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts are not distinguished from other transport failures here.
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Forced logout must complete before the caller sees the error, so
		// no later handler can observe a half-cleared session.
		c.logger.Warn("session expired", "path", path)
		if err := c.store.Clear(); err != nil {
			c.logger.Error("clear session store", "error", err)
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	return data, nil
}

// serverMessage pulls a human-readable message out of an error response body.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}
