package auth

import (
	"errors"
	"regexp"

	"jiradash/internal/api"
)

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+\.atlassian\.net$`)
)

// Field validators for the login form. They run before submission; inputs
// that fail never reach the network.

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

func ValidateAPIToken(token string) error {
	if token == "" {
		return errors.New("API token is required")
	}
	return nil
}

func ValidateDomain(domain string) error {
	if domain == "" {
		return errors.New("Domain is required")
	}
	if !domainPattern.MatchString(domain) {
		return errors.New("Please enter a valid Atlassian domain (e.g., company.atlassian.net)")
	}
	return nil
}

// ValidateCredentials checks all login inputs, returning messages keyed by
// field name. An empty map means the credentials may be submitted.
func ValidateCredentials(creds api.Credentials) map[string]string {
	fieldErrs := make(map[string]string)
	if err := ValidateEmail(creds.Email); err != nil {
		fieldErrs["email"] = err.Error()
	}
	if err := ValidateAPIToken(creds.APIToken); err != nil {
		fieldErrs["api_token"] = err.Error()
	}
	if err := ValidateDomain(creds.Domain); err != nil {
		fieldErrs["domain"] = err.Error()
	}
	return fieldErrs
}
