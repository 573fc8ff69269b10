package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvAPIURL      = "SOL_API_URL"
	EnvAccessToken = "SOL_ACCESS_TOKEN"
	EnvSupabaseURL = "SUPABASE_URL"
	EnvAnonKey     = "SUPABASE_ANON_KEY"
)

// envFiles are loaded in order; godotenv.Load never overrides variables that are already set,
// so the process environment wins over .env, and .env wins over .env.local.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.Auth.AccessToken = v
	}
	if v := os.Getenv(EnvSupabaseURL); v != "" && cfg.Auth.SupabaseURL == "" {
		cfg.Auth.SupabaseURL = v
	}
	if v := os.Getenv(EnvAnonKey); v != "" && cfg.Auth.AnonKey == "" {
		cfg.Auth.AnonKey = v
	}
}
