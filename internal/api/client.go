// Package api is the HTTP client for the challenge platform.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/projectsol/solclient/internal/auth"
	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
	"github.com/projectsol/solclient/internal/logfields"
	"github.com/projectsol/solclient/internal/metrics"
	"github.com/projectsol/solclient/internal/retry"
	"github.com/projectsol/solclient/internal/version"
)

// Client talks to the challenge platform API on behalf of an authenticated agent.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     auth.TokenSource
	policy     retry.Policy
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryPolicy sets the retry policy for idempotent reads.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for baseURL. The trailing slash of baseURL is dropped.
func New(baseURL string, tokens auth.TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.ConfigError("invalid api base URL").
			WithCause(err).
			WithContext("base_url", baseURL).
			Build()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: config.DefaultAPITimeout},
		baseURL:    baseURL,
		tokens:     tokens,
		policy:     retry.DefaultPolicy(),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a Client from the api section of cfg.
func NewFromConfig(cfg *config.Config, tokens auth.TokenSource, opts ...Option) (*Client, error) {
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		WithRetryPolicy(retry.FromConfig(cfg.API.Retry)),
	}
	return New(cfg.API.BaseURL, tokens, append(base, opts...)...)
}

// BaseURL returns the normalised platform URL.
func (c *Client) BaseURL() string { return c.baseURL }

// buildURL joins endpoint onto the base URL, keeping the base path and any query string.
func (c *Client) buildURL(endpoint string) (string, error) {
	clean := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(clean, "?"); idx != -1 {
		rawQuery = clean[idx+1:]
		clean = clean[:idx]
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.ConfigError("failed to parse api base URL").
			WithCause(err).
			WithContext("base_url", c.baseURL).
			Build()
	}
	u.Path = path.Join("/", strings.TrimSuffix(u.Path, "/"), clean)
	u.RawQuery = rawQuery
	return u.String(), nil
}

// newRequest creates a request with the platform's JSON and bearer headers.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any, authenticated bool) (*http.Request, error) {
	target, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.InternalError("failed to marshal request body").
				WithCause(err).
				Build()
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", target).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if authenticated {
		if c.tokens == nil {
			return nil, auth.ErrNoCredentials
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes one request and decodes a JSON response into result.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError("failed to reach challenge platform").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(req, resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.APIError("failed to decode platform response").
				WithCause(err).
				WithContext("url", req.URL.String()).
				Build()
		}
	}
	return nil
}

// statusError classifies a non-2xx platform response.
func statusError(req *http.Request, resp *http.Response) error {
	limited, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var eb errorBody
	_ = json.Unmarshal(limited, &eb)
	detail := eb.text()
	if detail == "" {
		detail = strings.TrimSpace(strings.ReplaceAll(string(limited), "\n", " "))
	}

	var b *errors.ErrorBuilder
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		b = errors.AuthError("platform rejected credentials")
	case http.StatusNotFound:
		b = errors.NotFoundError(notEmpty(detail, "resource not found"))
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		b = errors.ValidationError(notEmpty(detail, "request validation failed"))
	case http.StatusTooManyRequests:
		b = errors.RateLimitError(MsgRateLimited)
	default:
		b = errors.APIError(fmt.Sprintf("platform API error: %s", resp.Status))
	}
	return b.WithContext("code", resp.StatusCode).
		WithContext("url", req.URL.String()).
		WithContext("detail", detail).
		Build()
}

func notEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// call runs one logical API operation, retrying transient failures when retryable is set.
func (c *Client) call(ctx context.Context, method, endpoint string, body, result any, authenticated, retryable bool) error {
	start := time.Now()
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			c.recorder.IncAPIRetry(endpointLabel(endpoint))
			c.logger.DebugContext(ctx, "Retrying platform request",
				logfields.Endpoint(endpoint), logfields.Attempt(attempt))
		}
		req, err := c.newRequest(ctx, method, endpoint, body, authenticated)
		if err != nil {
			return err
		}
		return c.do(req, result)
	}

	policy := c.policy
	if !retryable {
		policy.MaxRetries = 0
	}
	err := policy.Do(ctx, isTransient, op)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.HasCategory(err, errors.CategoryRateLimit):
		outcome = metrics.OutcomeRateLimited
	case err != nil:
		outcome = metrics.OutcomeFailure
	}
	elapsed := time.Since(start)
	c.recorder.ObserveAPIRequest(endpointLabel(endpoint), outcome, elapsed)
	c.logger.DebugContext(ctx, "Platform request finished",
		logfields.Method(method),
		logfields.Endpoint(endpoint),
		logfields.Outcome(string(outcome)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	return err
}

// isTransient reports whether err is worth retrying: network failures, 429 and 5xx.
func isTransient(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	switch ce.Category() {
	case errors.CategoryNetwork, errors.CategoryRateLimit:
		return true
	case errors.CategoryAPI:
		code, _ := ce.Context().Get("code")
		n, _ := code.(int)
		return n >= 500
	default:
		return false
	}
}

// endpointLabel strips the query string so metrics labels stay bounded.
func endpointLabel(endpoint string) string {
	if idx := strings.Index(endpoint, "?"); idx != -1 {
		endpoint = endpoint[:idx]
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}
