package auth

import (
	"context"
	"log/slog"
	"sync"

	"jiradash/internal/api"
	"jiradash/internal/session"
)

// State is the authentication state the UI gates on.
type State int

const (
	// StateChecking is the initial state while the persisted token is being
	// validated. Nothing but a loading affordance should render.
	StateChecking State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Session is the authenticated identity. It exists exactly while the
// controller is StateAuthenticated.
type Session struct {
	Token     string
	UserEmail string
	Domain    string
}

// Result is the decidable outcome of a login attempt. Failures carry a
// user-facing message rather than an error, so callers always get something
// displayable.
type Result struct {
	OK      bool
	Message string
}

const genericLoginMessage = "Login failed. Please try again."

// Controller owns the authentication state machine. Consumers read immutable
// snapshots through State and Session; nothing mutates the session directly.
type Controller struct {
	store  *session.Store
	client *api.Client
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	current *Session
}

func NewController(store *session.Store, client *api.Client, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		store:  store,
		client: client,
		logger: logger,
		state:  StateChecking,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the current session snapshot. It reports false unless the
// controller is authenticated with a session present: an authenticated state
// without one is a defect that fails closed rather than crashing downstream.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated || c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

// CheckSession validates any persisted token on startup and resolves the
// initial Checking state. No token means no network call.
func (c *Controller) CheckSession(ctx context.Context) State {
	token, err := c.store.Token()
	if err != nil {
		c.logger.Error("read session token", "error", err)
		return c.become(StateUnauthenticated, nil)
	}
	if token == "" {
		return c.become(StateUnauthenticated, nil)
	}

	info, err := c.client.GetSession(ctx)
	if err != nil || !info.Authenticated {
		if err != nil {
			c.logger.Warn("session check failed", "error", err)
		}
		if err := c.store.Clear(); err != nil {
			c.logger.Error("clear session store", "error", err)
		}
		return c.become(StateUnauthenticated, nil)
	}

	return c.become(StateAuthenticated, &Session{
		Token:     token,
		UserEmail: info.UserEmail,
		Domain:    info.Domain,
	})
}

// Login attempts authentication with the given credentials. The caller must
// not start another login while one is in flight from the same control point.
func (c *Controller) Login(ctx context.Context, creds api.Credentials) Result {
	resp, err := c.client.Login(ctx, creds)
	if err != nil {
		c.logger.Error("login request failed", "error", err)
		return Result{Message: genericLoginMessage}
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Login failed. Please check your credentials."
		}
		return Result{Message: msg}
	}

	if err := c.store.SetToken(resp.SessionToken); err != nil {
		c.logger.Error("persist session token", "error", err)
		return Result{Message: genericLoginMessage}
	}

	// Identity comes from the submitted credentials, not a later server echo.
	c.become(StateAuthenticated, &Session{
		Token:     resp.SessionToken,
		UserEmail: creds.Email,
		Domain:    creds.Domain,
	})
	c.logger.Info("logged in", "email", creds.Email, "domain", creds.Domain)
	return Result{OK: true}
}

// Logout ends the session. The server call is best-effort; local state is
// cleared unconditionally. Calling it while already unauthenticated is a
// no-op apart from the state report.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.client.Logout(ctx); err != nil {
		c.logger.Warn("server logout failed", "error", err)
	}
	if err := c.store.Clear(); err != nil {
		c.logger.Error("clear session store", "error", err)
	}
	c.become(StateUnauthenticated, nil)
}

// HandleUnauthorized is the gateway's forced-logout hook. The gateway has
// already cleared the store by the time this runs; clearing again is a no-op
// that keeps both components agreeing on the token's absence.
func (c *Controller) HandleUnauthorized() {
	if err := c.store.Clear(); err != nil {
		c.logger.Error("clear session store", "error", err)
	}
	c.become(StateUnauthenticated, nil)
}

func (c *Controller) become(state State, sess *Session) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.current = sess
	return state
}
