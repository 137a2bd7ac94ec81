// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"HOST" envDefault:"localhost"`
	ServerPort int    `env:"PORT" envDefault:"3000"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Database. When empty the server runs on the in-memory store.
	DatabaseURL string `env:"DATABASE_URL"`

	// Auth
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"12h"`

	// Geocoding (Photon). Empty disables geocoding.
	PhotonURL string `env:"PHOTON_URL"`

	// SMTP notifications. Notifications are dropped when unset.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecure   bool   `env:"SMTP_SECURE" envDefault:"false"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL"`

	// Files
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`

	// Cache configuration
	RedisURL string `env:"REDIS_URL"` // Optional Redis URL for distributed caching
	CacheTTL int    `env:"CACHE_TTL" envDefault:"300"` // Default cache TTL in seconds

	// Seeding configuration
	DoSeed bool `env:"DO_SEED" envDefault:"false"` // Enable database seeding
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

// CacheTTLDuration returns the default cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinJWTSecretLength is the minimum required length for the token
// signing secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	return cfg, nil
}
