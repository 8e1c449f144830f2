package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the server rejected the session token. By the
// time a caller sees it the session store has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx server response other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}
