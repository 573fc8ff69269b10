package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/config"
	"github.com/projectsol/solclient/internal/foundation/errors"
)

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = StaticToken("  ").Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAuth))
}

func TestFromConfig(t *testing.T) {
	src, err := FromConfig(config.AuthConfig{AccessToken: "tok", Email: "a@b.c", Password: "pw"}, nil)
	require.NoError(t, err)
	assert.Equal(t, StaticToken("tok"), src)

	src, err = FromConfig(config.AuthConfig{SupabaseURL: "https://x.supabase.co", AnonKey: "anon", Email: "a@b.c", Password: "pw"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PasswordGrant{}, src)

	_, err = FromConfig(config.AuthConfig{}, nil)
	assert.True(t, errors.HasCategory(err, errors.CategoryAuth))

	_, err = FromConfig(config.AuthConfig{Email: "a@b.c", Password: "pw"}, nil)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestPasswordGrantSignsInAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "agent@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"jwt-1","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	pg := NewPasswordGrant(srv.Client(), srv.URL+"/", "anon-key", "agent@example.com", "hunter2")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pg.now = func() time.Time { return now }

	tok, err := pg.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", tok)

	tok, err = pg.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", tok)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Hour)
	_, err = pg.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPasswordGrantRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	pg := NewPasswordGrant(srv.Client(), srv.URL, "anon", "a@b.c", "wrong")
	_, err := pg.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAuth))
	assert.Contains(t, err.Error(), "Invalid login credentials")
}
