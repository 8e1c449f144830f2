package tui

import (
	"jiradash/internal/api"
	"jiradash/internal/auth"
)

// --- Messages ---

type sessionCheckedMsg struct {
	state auth.State
}

type loginResultMsg struct {
	creds  api.Credentials
	result auth.Result
}

type loggedOutMsg struct{}

// SessionExpiredMsg is sent from outside the program when the gateway sees an
// unauthorized response. It forces the login view from any screen.
type SessionExpiredMsg struct{}

type projectsLoadedMsg struct {
	projects []api.Project
}

type projectsErrMsg struct {
	err error
}

type detailLoadedMsg struct {
	key    string
	gen    int
	detail *api.ProjectDetail
}

type statsLoadedMsg struct {
	key   string
	gen   int
	stats *api.ProjectStatistics
}

type detailErrMsg struct {
	key string
	gen int
	err error
}

type exportDoneMsg struct {
	path string
}

type statusMsg struct {
	text    string
	isError bool
}

// --- Helpers ---

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
