package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jiradash/internal/api"
	"jiradash/internal/auth"
	"jiradash/internal/session"
	"jiradash/internal/testserver"
)

func newTestController(t *testing.T, baseURL string) (*auth.Controller, *session.Store) {
	t.Helper()
	store, err := session.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(baseURL, 5*time.Second, store, nil)
	return auth.NewController(store, client, nil), store
}

func TestInitialStateIsChecking(t *testing.T) {
	srv := testserver.New(t)
	ctrl, _ := newTestController(t, srv.URL)

	require.Equal(t, auth.StateChecking, ctrl.State())

	// No session snapshot while checking: fail closed.
	_, ok := ctrl.Session()
	require.False(t, ok)
}

func TestCheckSessionNoTokenSkipsNetwork(t *testing.T) {
	srv := testserver.New(t)
	ctrl, _ := newTestController(t, srv.URL)

	state := ctrl.CheckSession(context.Background())
	require.Equal(t, auth.StateUnauthenticated, state)
	require.Zero(t, srv.RequestCount("GET /api/session"))
}

func TestCheckSessionValidToken(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)
	require.NoError(t, store.SetToken(srv.IssueToken()))

	state := ctrl.CheckSession(context.Background())
	require.Equal(t, auth.StateAuthenticated, state)

	sess, ok := ctrl.Session()
	require.True(t, ok)
	require.Equal(t, "a@b.com", sess.UserEmail)
	require.Equal(t, "foo.atlassian.net", sess.Domain)
}

func TestCheckSessionRejectedTokenClearsStore(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)
	require.NoError(t, store.SetToken("expired"))

	state := ctrl.CheckSession(context.Background())
	require.Equal(t, auth.StateUnauthenticated, state)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestCheckSessionUnauthenticatedReportClearsStore(t *testing.T) {
	srv := testserver.New(t)
	srv.ReportUnauthenticated = true
	ctrl, store := newTestController(t, srv.URL)
	require.NoError(t, store.SetToken("stale"))

	state := ctrl.CheckSession(context.Background())
	require.Equal(t, auth.StateUnauthenticated, state)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestCheckSessionTransportFailure(t *testing.T) {
	srv := testserver.New(t)
	url := srv.URL
	srv.Close()

	ctrl, store := newTestController(t, url)
	require.NoError(t, store.SetToken("whatever"))

	state := ctrl.CheckSession(context.Background())
	require.Equal(t, auth.StateUnauthenticated, state)

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestLoginSuccess(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	result := ctrl.Login(context.Background(), srv.Creds)
	require.True(t, result.OK)
	require.Empty(t, result.Message)
	require.Equal(t, auth.StateAuthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Identity comes from the submitted credentials.
	sess, ok := ctrl.Session()
	require.True(t, ok)
	require.Equal(t, srv.Creds.Email, sess.UserEmail)
	require.Equal(t, srv.Creds.Domain, sess.Domain)
	require.Equal(t, token, sess.Token)
}

func TestLoginPersistsServerToken(t *testing.T) {
	fixed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.LoginResponse{Success: true, SessionToken: "XYZ"})
	}))
	t.Cleanup(fixed.Close)

	ctrl, store := newTestController(t, fixed.URL)

	result := ctrl.Login(context.Background(), api.Credentials{
		Email:    "a@b.com",
		APIToken: "tok",
		Domain:   "foo.atlassian.net",
	})
	require.True(t, result.OK)
	require.Equal(t, auth.StateAuthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.Equal(t, "XYZ", token)
}

func TestLoginServerReportedFailure(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	result := ctrl.Login(context.Background(), api.Credentials{
		Email:    "a@b.com",
		APIToken: "wrong",
		Domain:   "foo.atlassian.net",
	})
	require.False(t, result.OK)
	require.Equal(t, "Invalid credentials", result.Message)
	require.Equal(t, auth.StateChecking, ctrl.State()) // no transition

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestLoginTransportFailureGenericMessage(t *testing.T) {
	srv := testserver.New(t)
	url := srv.URL
	srv.Close()

	ctrl, _ := newTestController(t, url)

	result := ctrl.Login(context.Background(), api.Credentials{
		Email:    "a@b.com",
		APIToken: "tok",
		Domain:   "foo.atlassian.net",
	})
	require.False(t, result.OK)
	require.Equal(t, "Login failed. Please try again.", result.Message)
	require.NotEqual(t, "Invalid credentials", result.Message)
}

func TestLogout(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	result := ctrl.Login(context.Background(), srv.Creds)
	require.True(t, result.OK)

	ctrl.Logout(context.Background())
	require.Equal(t, auth.StateUnauthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)

	_, ok := ctrl.Session()
	require.False(t, ok)
}

func TestLogoutWhileUnauthenticatedIsNoop(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	ctrl.Logout(context.Background())
	ctrl.Logout(context.Background())
	require.Equal(t, auth.StateUnauthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestLogoutServerFailureStillClearsLocally(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	result := ctrl.Login(context.Background(), srv.Creds)
	require.True(t, result.OK)

	srv.Close()
	ctrl.Logout(context.Background())
	require.Equal(t, auth.StateUnauthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestHandleUnauthorized(t *testing.T) {
	srv := testserver.New(t)
	ctrl, store := newTestController(t, srv.URL)

	result := ctrl.Login(context.Background(), srv.Creds)
	require.True(t, result.OK)

	ctrl.HandleUnauthorized()
	require.Equal(t, auth.StateUnauthenticated, ctrl.State())

	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestUnauthorizedMidSessionViaGateway(t *testing.T) {
	srv := testserver.New(t)
	store, err := session.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(srv.URL, 5*time.Second, store, nil)
	ctrl := auth.NewController(store, client, nil)
	client.OnUnauthorized = ctrl.HandleUnauthorized

	result := ctrl.Login(context.Background(), srv.Creds)
	require.True(t, result.OK)

	// Server drops the session behind the client's back; the next request
	// forces a full logout before the caller sees the error.
	srv.RevokeAll()
	_, err = client.ListProjects(context.Background(), nil)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	require.Equal(t, auth.StateUnauthenticated, ctrl.State())
	token, err := store.Token()
	require.NoError(t, err)
	require.Empty(t, token)
}
