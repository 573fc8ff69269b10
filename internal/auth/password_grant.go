package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// expiryLeeway renews a cached token shortly before the server would reject it.
const expiryLeeway = 30 * time.Second

// PasswordGrant signs in against a Supabase GoTrue endpoint with email and password
// and caches the resulting access token until it expires.
type PasswordGrant struct {
	httpClient  *http.Client
	supabaseURL string
	anonKey     string
	email       string
	password    string

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

// NewPasswordGrant creates a PasswordGrant. A nil httpClient uses http.DefaultClient.
func NewPasswordGrant(httpClient *http.Client, supabaseURL, anonKey, email, password string) *PasswordGrant {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PasswordGrant{
		httpClient:  httpClient,
		supabaseURL: strings.TrimRight(supabaseURL, "/"),
		anonKey:     anonKey,
		email:       email,
		password:    password,
		now:         time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}

type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e tokenError) message() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	default:
		return e.Error
	}
}

// Token returns the cached access token or signs in again when it is missing or expired.
func (p *PasswordGrant) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiry) {
		return p.token, nil
	}

	tok, err := p.signIn(ctx)
	if err != nil {
		return "", err
	}

	p.token = tok.AccessToken
	switch {
	case tok.ExpiresAt > 0:
		p.expiry = time.Unix(tok.ExpiresAt, 0).Add(-expiryLeeway)
	case tok.ExpiresIn > 0:
		p.expiry = p.now().Add(time.Duration(tok.ExpiresIn)*time.Second - expiryLeeway)
	default:
		p.expiry = p.now()
	}
	return p.token, nil
}

func (p *PasswordGrant) signIn(ctx context.Context) (*tokenResponse, error) {
	endpoint := p.supabaseURL + "/auth/v1/token?grant_type=password"
	body, err := json.Marshal(map[string]string{"email": p.email, "password": p.password})
	if err != nil {
		return nil, errors.InternalError("failed to encode sign-in request").WithCause(err).Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.ConfigError("invalid supabase URL").
			WithCause(err).
			WithContext("url", p.supabaseURL).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError("failed to reach authentication service").
			WithCause(err).
			WithContext("url", p.supabaseURL).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var te tokenError
		_ = json.Unmarshal(raw, &te)
		msg := te.message()
		if msg == "" {
			msg = resp.Status
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errors.RateLimitError(fmt.Sprintf("sign-in rate limited: %s", msg)).Build()
		}
		return nil, errors.AuthError(fmt.Sprintf("sign-in failed: %s", msg)).
			WithContext("code", resp.StatusCode).
			Build()
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, errors.AuthError("failed to decode sign-in response").WithCause(err).Build()
	}
	if tok.AccessToken == "" {
		return nil, errors.AuthError("sign-in response carried no access token").Build()
	}
	return &tok, nil
}
