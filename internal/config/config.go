// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"default_secret_key_change_me_now",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	MongoURI  string `env:"CMS_MONGO_URI,required"`
	MongoDB   string `env:"CMS_MONGO_DB" envDefault:"ktltc_db"`
	JWTSecret string `env:"CMS_JWT_SECRET,required"`

	SiteName string `env:"CMS_SITE_NAME" envDefault:"KTLTC"`
	SiteURL  string `env:"CMS_SITE_URL" envDefault:"http://localhost:8080"`

	ServerHost string `env:"CMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CMS_ENV" envDefault:"development"`
	LogLevel   string `env:"CMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"CMS_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"CMS_CACHE_PREFIX" envDefault:"cms:"`   // Redis key prefix
	CacheTTL     int    `env:"CMS_CACHE_TTL" envDefault:"300"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"CMS_CACHE_MAX_SIZE" envDefault:"5000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"CMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Event log retention
	EventRetentionDays int `env:"CMS_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration
	DoSeed bool `env:"CMS_DO_SEED" envDefault:"false"` // Create the initial super admin account
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

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinJWTSecretLength is the minimum required length for the token-signing secret.
// HS256 keys should be at least 32 bytes.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("CMS_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("CMS_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("CMS_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
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
