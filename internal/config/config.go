package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// Config represents the client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Writeup WriteupConfig `yaml:"writeup"`
	Server  ServerConfig  `yaml:"server"`
	Journal JournalConfig `yaml:"journal"`
	Reaper  ReaperConfig  `yaml:"reaper"`
	Log     LoggingConfig `yaml:"log,omitempty"`
}

// APIConfig points the client at the challenge platform.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Retry   RetryConfig   `yaml:"retry,omitempty"`
}

// RetryConfig controls retries of idempotent API reads.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries *int             `yaml:"max_retries,omitempty"` // nil means DefaultMaxRetries; 0 disables retries
}

// AuthConfig holds either a ready access token or Supabase password credentials.
type AuthConfig struct {
	SupabaseURL string `yaml:"supabase_url,omitempty"`
	AnonKey     string `yaml:"anon_key,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Password    string `yaml:"password,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`
}

// WriteupConfig controls how writeups are prepared for display.
type WriteupConfig struct {
	// Trusted skips escaping of raw markup characters before rendering.
	Trusted         bool   `yaml:"trusted"`
	HostPlaceholder string `yaml:"host_placeholder,omitempty"`
	Width           int    `yaml:"width,omitempty"`
}

// ServerConfig configures the local web UI.
type ServerConfig struct {
	Addr    string `yaml:"addr,omitempty"`
	Metrics bool   `yaml:"metrics"`
}

// JournalConfig locates the local SQLite mission journal.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ReaperConfig controls automatic stopping of missions left running.
type ReaperConfig struct {
	Enabled  bool          `yaml:"enabled"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Load reads configPath, expands ${VAR} references, applies environment overrides and
// defaults, and validates the result. A missing file is not an error: the client can be
// configured entirely through the environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	maxRetries := DefaultMaxRetries
	example := Config{
		API: APIConfig{
			BaseURL: "${SOL_API_URL}",
			Timeout: 30 * time.Second,
			Retry:   RetryConfig{Mode: RetryBackoffLinear, Initial: time.Second, Max: 10 * time.Second, MaxRetries: &maxRetries},
		},
		Auth: AuthConfig{
			SupabaseURL: "${SUPABASE_URL}",
			AnonKey:     "${SUPABASE_ANON_KEY}",
			Email:       "agent@example.com",
			Password:    "${SOL_PASSWORD}",
		},
		Writeup: WriteupConfig{Trusted: false, HostPlaceholder: DefaultHostPlaceholder, Width: 80},
		Server:  ServerConfig{Addr: "127.0.0.1:3000", Metrics: true},
		Journal: JournalConfig{Path: DefaultJournalPath},
		Reaper:  ReaperConfig{Enabled: true, TTL: 30 * time.Minute, Interval: time.Minute},
		Log:     LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example configuration").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
