package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"jiradash/internal/api"
)

// Server is a fake project-tracking service for tests. It accepts one set of
// credentials, mints bearer tokens, and serves canned project data.
type Server struct {
	*httptest.Server

	Creds          api.Credentials
	FailureMessage string

	// ReportUnauthenticated makes GET /api/session answer 200 with
	// authenticated=false instead of rejecting the token.
	ReportUnauthenticated bool

	Projects []api.Project
	Details  map[string]api.ProjectDetail
	Stats    map[string]api.ProjectStatistics
	Exports  map[string][]byte

	mu       sync.Mutex
	tokens   map[string]bool
	requests map[string]int
}

// New starts a fake service with a default fixture. It is shut down with the
// test.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		Creds: api.Credentials{
			Email:    "a@b.com",
			APIToken: "tok",
			Domain:   "foo.atlassian.net",
		},
		FailureMessage: "Invalid credentials",
		Projects: []api.Project{
			{ID: "10000", Key: "DEMO", Name: "Demo Project", ProjectTypeKey: "software", Lead: &api.Lead{DisplayName: "Ada"}},
			{ID: "10001", Key: "OPS", Name: "Operations", ProjectTypeKey: "business"},
		},
		Details: map[string]api.ProjectDetail{
			"DEMO": {
				Description: "The demo project",
				Lead:        &api.Lead{DisplayName: "Ada"},
				Components:  []api.Component{{Name: "backend"}, {Name: "frontend"}},
				Versions:    []api.Version{{Name: "1.0", Released: true}},
			},
			"OPS": {Description: "Ops work"},
		},
		Stats: map[string]api.ProjectStatistics{
			"DEMO": {
				TotalIssues:      10,
				OpenIssues:       3,
				InProgressIssues: 2,
				ResolvedIssues:   5,
				ByPriority:       map[string]int{"High": 4, "Low": 6},
				ByType:           map[string]int{"Bug": 7, "Task": 3},
			},
			"OPS": {TotalIssues: 0, ByPriority: map[string]int{}, ByType: map[string]int{}},
		},
		Exports: map[string][]byte{
			"DEMO": []byte("id,key,summary\n1,DEMO-1,First issue\n"),
			"OPS":  []byte("id,key,summary\n"),
		},
		tokens:   make(map[string]bool),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/projects/{key}", s.handleDetail)
	mux.HandleFunc("GET /api/projects/{key}/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/projects/{key}/export", s.handleExport)

	s.Server = httptest.NewServer(s.countRequests(mux))
	t.Cleanup(s.Server.Close)
	return s
}

// IssueToken registers a valid session token, as if a login had happened.
func (s *Server) IssueToken() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = true
	s.mu.Unlock()
	return token
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	s.tokens = make(map[string]bool)
	s.mu.Unlock()
}

// RequestCount returns how many requests hit the given "METHOD /path" key.
func (s *Server) RequestCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(r *http.Request) bool {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[token]
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Credentials api.Credentials `json:"credentials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if body.Credentials != s.Creds {
		writeJSON(w, api.LoginResponse{Success: false, Message: s.FailureMessage})
		return
	}

	writeJSON(w, api.LoginResponse{Success: true, SessionToken: s.IssueToken()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		if s.ReportUnauthenticated {
			writeJSON(w, api.SessionInfo{Authenticated: false})
			return
		}
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, api.SessionInfo{
		Authenticated: true,
		UserEmail:     s.Creds.Email,
		Domain:        s.Creds.Domain,
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, s.Projects)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	detail, ok := s.Details[r.PathValue("key")]
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, detail)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	stats, ok := s.Stats[r.PathValue("key")]
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}
	payload, ok := s.Exports[r.PathValue("key")]
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write(payload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
