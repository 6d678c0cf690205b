// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the eventix configuration from EVENTIX_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// APIURL is the base URL of the REST backend.
	APIURL        string        `env:"EVENTIX_API_URL" envDefault:"http://localhost:8080"`
	APITimeout    time.Duration `env:"EVENTIX_API_TIMEOUT" envDefault:"15s"`
	SessionSecret string        `env:"EVENTIX_SESSION_SECRET,required"`
	// SessionDBPath is the SQLite file holding browser sessions. Empty keeps
	// sessions in memory.
	SessionDBPath  string        `env:"EVENTIX_SESSION_DB" envDefault:"./data/sessions.db"`
	ServerHost     string        `env:"EVENTIX_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int           `env:"EVENTIX_SERVER_PORT" envDefault:"8081"`
	Env            string        `env:"EVENTIX_ENV" envDefault:"development"`
	LogLevel       string        `env:"EVENTIX_LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"EVENTIX_REQUEST_TIMEOUT" envDefault:"30s"`
	BootstrapWait  time.Duration `env:"EVENTIX_BOOTSTRAP_WAIT" envDefault:"3s"`
	// SessionRecheck is how long a resolved login status is trusted before
	// the backend credential is checked again.
	SessionRecheck time.Duration `env:"EVENTIX_SESSION_RECHECK" envDefault:"15m"`

	// Cache configuration
	RedisURL     string `env:"EVENTIX_REDIS_URL"`                          // Optional Redis URL for a shared cache
	CachePrefix  string `env:"EVENTIX_CACHE_PREFIX" envDefault:"eventix:"` // Redis key prefix
	CacheTTL     int    `env:"EVENTIX_CACHE_TTL" envDefault:"60"`          // Listing TTL in seconds
	CacheMaxSize int    `env:"EVENTIX_CACHE_MAX_SIZE" envDefault:"1000"`   // Max memory cache entries

	// WarmSchedule is the cron spec of the listing warm-up job.
	WarmSchedule string `env:"EVENTIX_WARM_SCHEDULE" envDefault:"@every 1m"`

	// ImgBB upload configuration
	ImgBBKey string `env:"EVENTIX_IMGBB_KEY"`
	ImgBBURL string `env:"EVENTIX_IMGBB_URL" envDefault:"https://api.imgbb.com/1/upload"`

	// Login protection
	LoginRate  float64 `env:"EVENTIX_LOGIN_RATE" envDefault:"0.5"` // Form posts per second per IP
	LoginBurst int     `env:"EVENTIX_LOGIN_BURST" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ImagesEnabled returns true if event images can be uploaded.
func (c Config) ImagesEnabled() bool {
	return c.ImgBBKey != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("EVENTIX_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("EVENTIX_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("EVENTIX_SESSION_SECRET is a known default value and must not be used")
		}
	}

	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if err := checkHTTPURL(c.APIURL); err != nil {
		return fmt.Errorf("EVENTIX_API_URL: %w", err)
	}
	if err := checkHTTPURL(c.ImgBBURL); err != nil {
		return fmt.Errorf("EVENTIX_IMGBB_URL: %w", err)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("EVENTIX_SERVER_PORT %d is out of range", c.ServerPort)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("EVENTIX_CACHE_TTL must not be negative")
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return fmt.Errorf("EVENTIX_LOGIN_RATE and EVENTIX_LOGIN_BURST must be positive")
	}
	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
