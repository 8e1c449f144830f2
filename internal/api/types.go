package api

// Credentials are the login inputs. They are transient: only the returned
// session token is ever persisted.
type Credentials struct {
	Email    string `json:"email"`
	APIToken string `json:"api_token"`
	Domain   string `json:"domain"`
}

type LoginResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SessionInfo is the server's view of the current session.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	UserEmail     string `json:"user_email,omitempty"`
	Domain        string `json:"domain,omitempty"`
}

type Lead struct {
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Label returns the display name, falling back to the account name.
func (l Lead) Label() string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	return l.Name
}

// Project is a read-only snapshot from the server. List ordering is the
// server's; the client never re-sorts.
type Project struct {
	ID             string            `json:"id"`
	Key            string            `json:"key"`
	Name           string            `json:"name"`
	ProjectTypeKey string            `json:"project_type_key"`
	Description    string            `json:"description,omitempty"`
	Lead           *Lead             `json:"lead,omitempty"`
	AvatarURLs     map[string]string `json:"avatar_urls,omitempty"`
	URL            string            `json:"url,omitempty"`
}

type Component struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Version struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Released bool   `json:"released,omitempty"`
}

type ProjectDetail struct {
	Description string      `json:"description,omitempty"`
	Lead        *Lead       `json:"lead,omitempty"`
	Components  []Component `json:"components"`
	Versions    []Version   `json:"versions"`
}

// ProjectStatistics holds the server-computed issue counts. The by-priority
// and by-type sums are trusted as reported, never reconciled against totals.
type ProjectStatistics struct {
	TotalIssues      int            `json:"total_issues"`
	OpenIssues       int            `json:"open_issues"`
	InProgressIssues int            `json:"in_progress_issues"`
	ResolvedIssues   int            `json:"resolved_issues"`
	ByPriority       map[string]int `json:"by_priority"`
	ByType           map[string]int `json:"by_type"`
}
