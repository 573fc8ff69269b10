// Package auth supplies bearer tokens for the challenge platform API.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
)

// TokenSource yields the access token sent as "Authorization: Bearer <token>".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a pre-issued access token.
type StaticToken string

// Token returns the token, or an auth error when it is empty.
func (s StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoCredentials
	}
	return string(s), nil
}

// ErrNoCredentials signals that neither an access token nor password credentials are configured.
var ErrNoCredentials = errors.AuthError("no credentials configured: set auth.access_token or auth.email/auth.password").Build()

// FromConfig picks the token source for cfg. A configured access token wins over
// password credentials.
func FromConfig(cfg config.AuthConfig, httpClient *http.Client) (TokenSource, error) {
	if cfg.AccessToken != "" {
		return StaticToken(cfg.AccessToken), nil
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}
	if cfg.SupabaseURL == "" || cfg.AnonKey == "" {
		return nil, errors.ConfigError("auth.supabase_url and auth.anon_key are required for password login").Build()
	}
	return NewPasswordGrant(httpClient, cfg.SupabaseURL, cfg.AnonKey, cfg.Email, cfg.Password), nil
}
