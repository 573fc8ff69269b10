package config

import (
	"net/url"

	"github.com/projectsol/solclient/internal/foundation/errors"
)

// Validate checks the settings every command needs. Credentials are checked lazily by the
// auth package because offline commands (render, lint, preview) never use them.
func Validate(cfg *Config) error {
	if _, err := retryBackoffModes.Parse(string(cfg.API.Retry.Mode)); err != nil {
		return err
	}
	if err := validateLogging(cfg.Log); err != nil {
		return err
	}
	if cfg.API.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ConfigError("api.base_url must be an absolute URL").
			WithContext("base_url", cfg.API.BaseURL).
			Build()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigError("api.base_url must use http or https").
			WithContext("base_url", cfg.API.BaseURL).
			Build()
	}
	if n := cfg.API.Retry.MaxRetries; n != nil && *n < 0 {
		return errors.ConfigError("api.retry.max_retries cannot be negative").Build()
	}
	return nil
}

// RequireAPI reports a config error when no platform URL is configured.
func (c *Config) RequireAPI() error {
	if c.API.BaseURL == "" {
		return errors.ConfigError(EnvAPIURL + " is not set: configure api.base_url or export " + EnvAPIURL).Build()
	}
	return nil
}
