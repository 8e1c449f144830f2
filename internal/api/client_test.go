package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jiradash/internal/api"
	"jiradash/internal/session"
	"jiradash/internal/testserver"
)

func newTestClient(t *testing.T, baseURL string) (*api.Client, *session.Store) {
	t.Helper()
	store, err := session.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return api.New(baseURL, 5*time.Second, store, nil), store
}

func TestBearerTokenAttached(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken(srv.IssueToken()))

	projects, err := client.ListProjects(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "DEMO", projects[0].Key)
	require.Equal(t, "software", projects[0].ProjectTypeKey)
}

func TestNoTokenRequestProceedsUnauthenticated(t *testing.T) {
	srv := testserver.New(t)
	client, _ := newTestClient(t, srv.URL)

	// Login needs no token; it must not fail just because the store is empty.
	resp, err := client.Login(context.Background(), srv.Creds)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.SessionToken)
}

func TestUnauthorizedClearsStoreAndFiresHook(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken("bogus"))

	hookFired := false
	storeEmptyWhenHookRan := false
	client.OnUnauthorized = func() {
		hookFired = true
		token, err := store.Token()
		storeEmptyWhenHookRan = err == nil && token == ""
	}

	_, err := client.ListProjects(context.Background(), nil)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	// The store is cleared and the hook has run before the caller sees
	// the failure.
	require.True(t, hookFired)
	require.True(t, storeEmptyWhenHookRan)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestUnauthorizedWithoutHook(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken("bogus"))

	_, err := client.GetSession(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestServerErrorPropagated(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken(srv.IssueToken()))

	_, err := client.GetProjectDetail(context.Background(), "NOPE")
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "project not found", apiErr.Message)

	// Non-401 failures never touch the session.
	token, err := store.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestTimeoutSurfacedAsGenericFailure(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	store, err := session.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(slow.URL, 50*time.Millisecond, store, nil)

	_, err = client.ListProjects(context.Background(), nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, api.ErrUnauthorized)
}

func TestGetSessionReportsUnauthenticated(t *testing.T) {
	srv := testserver.New(t)
	srv.ReportUnauthenticated = true
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken("stale"))

	info, err := client.GetSession(context.Background())
	require.NoError(t, err)
	require.False(t, info.Authenticated)
}

func TestLoginFailureIsStructuredNotError(t *testing.T) {
	srv := testserver.New(t)
	client, _ := newTestClient(t, srv.URL)

	resp, err := client.Login(context.Background(), api.Credentials{
		Email:    "wrong@b.com",
		APIToken: "bad",
		Domain:   "foo.atlassian.net",
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "Invalid credentials", resp.Message)
}

func TestProjectStatistics(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken(srv.IssueToken()))

	stats, err := client.GetProjectStatistics(context.Background(), "DEMO")
	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalIssues)
	require.Equal(t, map[string]int{"High": 4, "Low": 6}, stats.ByPriority)
	require.Equal(t, map[string]int{"Bug": 7, "Task": 3}, stats.ByType)
}

func TestExportReturnsOpaquePayload(t *testing.T) {
	srv := testserver.New(t)
	client, store := newTestClient(t, srv.URL)
	require.NoError(t, store.SetToken(srv.IssueToken()))

	payload, err := client.ExportProject(context.Background(), "DEMO", "csv")
	require.NoError(t, err)
	require.Equal(t, srv.Exports["DEMO"], payload)
}

func TestLeadLabelFallback(t *testing.T) {
	require.Equal(t, "Ada", api.Lead{DisplayName: "Ada", Name: "ada.l"}.Label())
	require.Equal(t, "ada.l", api.Lead{Name: "ada.l"}.Label())
	require.Empty(t, api.Lead{}.Label())
}
