package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jiradash/internal/api"
	"jiradash/internal/auth"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, auth.ValidateEmail("a@b.com"))
	require.NoError(t, auth.ValidateEmail("first.last@company.co.uk"))

	require.Error(t, auth.ValidateEmail(""))
	require.Error(t, auth.ValidateEmail("not-an-email"))
	require.Error(t, auth.ValidateEmail("missing@tld"))
}

func TestValidateAPIToken(t *testing.T) {
	require.NoError(t, auth.ValidateAPIToken("tok"))
	require.Error(t, auth.ValidateAPIToken(""))
}

func TestValidateDomain(t *testing.T) {
	require.NoError(t, auth.ValidateDomain("foo.atlassian.net"))
	require.NoError(t, auth.ValidateDomain("my-company.atlassian.net"))

	require.Error(t, auth.ValidateDomain(""))
	require.Error(t, auth.ValidateDomain("example.com"))
	require.Error(t, auth.ValidateDomain("atlassian.net"))
	require.Error(t, auth.ValidateDomain("foo.atlassian.net.evil.com"))
	require.Error(t, auth.ValidateDomain("foo bar.atlassian.net"))
}

func TestValidateCredentials(t *testing.T) {
	errs := auth.ValidateCredentials(api.Credentials{
		Email:    "a@b.com",
		APIToken: "tok",
		Domain:   "foo.atlassian.net",
	})
	require.Empty(t, errs)

	errs = auth.ValidateCredentials(api.Credentials{})
	require.Len(t, errs, 3)
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "api_token")
	require.Contains(t, errs, "domain")

	errs = auth.ValidateCredentials(api.Credentials{
		Email:    "a@b.com",
		APIToken: "tok",
		Domain:   "example.com",
	})
	require.Len(t, errs, 1)
	require.Contains(t, errs, "domain")
}
