// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string `env:"ACERVO_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath     string `env:"ACERVO_DB_PATH" envDefault:"acervo.db"`

	// JWTSecret signs access and refresh tokens. Required for the API
	// server; the provisioner binary does not need it.
	JWTSecret       string        `env:"ACERVO_JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACERVO_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"ACERVO_REFRESH_TOKEN_TTL" envDefault:"168h"`

	// Admin bootstrap. All three are optional: when username or password is
	// missing the provisioner skips account creation entirely.
	AdminUsername string `env:"ACERVO_ADMIN_USERNAME"`
	AdminEmail    string `env:"ACERVO_ADMIN_EMAIL"`
	AdminPassword string `env:"ACERVO_ADMIN_PASSWORD"`
}

// HasAdminCredentials returns true when both AdminUsername and AdminPassword
// are non-empty. Used by the provisioner to decide between provisioning and
// skipping.
func (c *Config) HasAdminCredentials() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. Admin credentials are optional; token TTLs must be positive.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACERVO_ACCESS_TOKEN_TTL must be positive, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("ACERVO_REFRESH_TOKEN_TTL must be positive, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.RefreshTokenTTL < cfg.AccessTokenTTL {
		return nil, fmt.Errorf("ACERVO_REFRESH_TOKEN_TTL (%s) must not be shorter than ACERVO_ACCESS_TOKEN_TTL (%s)",
			cfg.RefreshTokenTTL, cfg.AccessTokenTTL)
	}

	return &cfg, nil
}
