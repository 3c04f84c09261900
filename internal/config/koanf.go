// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fitsched/config.yaml",
	"/etc/fitsched/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			Timeout:     30 * time.Second,
			EnableHTTPS: false,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			URL:            "",
			MaxConnections: 10,
			ConnectTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:     "",
			JWTExpiration: 86400,
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration using koanf with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// Flat names like DATABASE_URL map to nested koanf paths.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars come in as strings; split known slice fields on commas.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	if err := processSharedOAuthRedirect(k); err != nil {
		return nil, fmt.Errorf("failed to process OAuth redirect URL: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, checking the CONFIG_PATH
// env var first and then the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when sourced from env vars.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice from the YAML file.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// oauthRedirectPaths lists the per-provider redirect URL paths filled
// from the shared OAUTH_REDIRECT_URL variable.
var oauthRedirectPaths = []string{
	"oauth.google.redirect_url",
	"oauth.facebook.redirect_url",
	"oauth.github.redirect_url",
}

// processSharedOAuthRedirect applies OAUTH_REDIRECT_URL to every
// provider that has no redirect URL of its own. Per-provider variables
// win over the shared one.
func processSharedOAuthRedirect(k *koanf.Koanf) error {
	shared := k.String("oauth.redirect_url")
	if shared == "" {
		return nil
	}
	for _, path := range oauthRedirectPaths {
		if k.String(path) != "" {
			continue
		}
		if err := k.Set(path, shared); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to
// nested config paths. Unknown variables are ignored.
var envMappings = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"enable_https": "server.enable_https",
	"ssl_cert_path": "server.ssl_cert_path",
	"ssl_key_path":  "server.ssl_key_path",
	"cors_origin":   "server.cors_origins",
	"cors_origins":  "server.cors_origins",

	"database_url":       "database.url",
	"db_max_connections": "database.max_connections",

	"jwt_secret":     "auth.jwt_secret",
	"jwt_expiration": "auth.jwt_expiration",

	"oauth_redirect_url": "oauth.redirect_url",

	"google_client_id":     "oauth.google.client_id",
	"google_client_secret": "oauth.google.client_secret",
	"google_redirect_url":  "oauth.google.redirect_url",

	"facebook_client_id":     "oauth.facebook.client_id",
	"facebook_client_secret": "oauth.facebook.client_secret",
	"facebook_redirect_url":  "oauth.facebook.redirect_url",

	"github_client_id":     "oauth.github.client_id",
	"github_client_secret": "oauth.github.client_secret",
	"github_redirect_url":  "oauth.github.redirect_url",

	"rate_limit_enabled":  "rate_limit.enabled",
	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps environment variable names to koanf config
// paths. Variables without a mapping are dropped so unrelated env vars
// do not leak into the config.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
