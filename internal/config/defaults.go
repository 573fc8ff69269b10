package config

import (
	"strings"
	"time"
)

const (
	DefaultHostPlaceholder = "{{CONTAINER_HOST}}"
	DefaultJournalPath     = "solclient.db"
	DefaultServerAddr      = "127.0.0.1:3000"
	DefaultWidth           = 80
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 2
)

func applyDefaults(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultAPITimeout
	}
	if cfg.API.Retry.MaxRetries == nil {
		n := DefaultMaxRetries
		cfg.API.Retry.MaxRetries = &n
	}
	// Unknown modes are left as written for Validate to report.
	if mode, err := retryBackoffModes.Parse(string(cfg.API.Retry.Mode)); err == nil {
		cfg.API.Retry.Mode = mode
	}

	if level, err := logLevels.Parse(string(cfg.Log.Level)); err == nil {
		cfg.Log.Level = level
	}
	if format, err := logFormats.Parse(string(cfg.Log.Format)); err == nil {
		cfg.Log.Format = format
	}

	if cfg.Writeup.HostPlaceholder == "" {
		cfg.Writeup.HostPlaceholder = DefaultHostPlaceholder
	}
	if cfg.Writeup.Width <= 0 {
		cfg.Writeup.Width = DefaultWidth
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}

	// The platform stops containers after 30 minutes; mirror that locally.
	if cfg.Reaper.TTL <= 0 {
		cfg.Reaper.TTL = 30 * time.Minute
	}
	if cfg.Reaper.Interval <= 0 {
		cfg.Reaper.Interval = time.Minute
	}
}
