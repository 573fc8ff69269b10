package errors

import (
	"encoding/json"
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "validation", err: ValidationError("challenge_id is required").Build(), expected: http.StatusBadRequest},
		{name: "auth", err: AuthError("unauthorized").Build(), expected: http.StatusUnauthorized},
		{name: "not found", err: NotFoundError("challenge not found").Build(), expected: http.StatusNotFound},
		{name: "rate limit", err: RateLimitError("slow down").Build(), expected: http.StatusTooManyRequests},
		{name: "upstream", err: APIError("bad gateway").Build(), expected: http.StatusBadGateway},
		{name: "unclassified", err: stdErrors.New("unknown"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/challenges/sqli-01/launch", nil)

	err := NetworkError("platform unreachable").WithContext("endpoint", "/api/containers/start").Build()
	adapter.WriteErrorResponse(rec, req, err)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "platform unreachable", body.Error)
	require.Equal(t, "network", body.Code)
	require.True(t, body.Retryable)
	require.Equal(t, "/api/containers/start", body.Details["endpoint"])
}
