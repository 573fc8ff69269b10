package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solclient.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv("TEST_SOL_HOST", "ctf.example.com")

	path := writeConfig(t, `
api:
  base_url: https://${TEST_SOL_HOST}/
  retry:
    mode: EXPONENTIAL
    max_retries: 3
auth:
  access_token: abc
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://ctf.example.com", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, RetryBackoffExponential, cfg.API.Retry.Mode)
	require.Equal(t, 3, *cfg.API.Retry.MaxRetries)
	require.Equal(t, "abc", cfg.Auth.AccessToken)
	require.Equal(t, DefaultHostPlaceholder, cfg.Writeup.HostPlaceholder)
	require.False(t, cfg.Writeup.Trusted)
	require.Equal(t, DefaultJournalPath, cfg.Journal.Path)
	require.Equal(t, 30*time.Minute, cfg.Reaper.TTL)
}

func TestLoad_RetryCountDefaultsWhenUnset(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://localhost:8000\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.API.Retry.MaxRetries)
	require.Equal(t, DefaultMaxRetries, *cfg.API.Retry.MaxRetries)

	cfg, err = Load(writeConfig(t, "api:\n  base_url: http://localhost:8000\n  retry:\n    max_retries: 0\n"))
	require.NoError(t, err)
	require.Equal(t, 0, *cfg.API.Retry.MaxRetries)
}

func TestLoad_RejectsNegativeRetryCount(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	_, err := Load(writeConfig(t, "api:\n  base_url: http://localhost:8000\n  retry:\n    max_retries: -1\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://10.0.0.5:8000")
	t.Setenv(EnvAccessToken, "from-env")

	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://localhost:8000\n"))
	require.NoError(t, err)

	require.Equal(t, "http://10.0.0.5:8000", cfg.API.BaseURL)
	require.Equal(t, "from-env", cfg.Auth.AccessToken)
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://localhost:8000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	require.NoError(t, cfg.RequireAPI())
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	_, err := Load(writeConfig(t, "api:\n  base_url: localhost:8000/api\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api: [unterminated"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRequireAPI(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireAPI()
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvAPIURL)
}

func TestInit_WritesLoadableExample(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := filepath.Join(t.TempDir(), "solclient.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:3000", cfg.Server.Addr)
	require.True(t, cfg.Reaper.Enabled)
	require.Equal(t, 80, cfg.Writeup.Width)
}

func TestNormalizeRetryBackoff(t *testing.T) {
	require.Equal(t, RetryBackoffFixed, NormalizeRetryBackoff(" Fixed "))
	require.Equal(t, RetryBackoffLinear, NormalizeRetryBackoff("linear"))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("random"))
}

func TestLoad_RejectsUnknownRetryMode(t *testing.T) {
	path := writeConfig(t, "api:\n  retry:\n    mode: jittered\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Contains(t, err.Error(), "api.retry.mode")
}

func TestLoad_Logging(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: WARN\n  format: json\n"))
	require.NoError(t, err)
	require.Equal(t, LogLevelWarn, cfg.Log.Level)
	require.Equal(t, LogFormatJSON, cfg.Log.Format)
	require.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())

	var buf bytes.Buffer
	cfg.Log.NewLogger(&buf, false).Info("hidden")
	cfg.Log.NewLogger(&buf, false).Warn("shown", "k", "v")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	cfg.Log.NewLogger(&buf, true).Debug("verbose")
	require.Contains(t, buf.String(), "verbose")

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
