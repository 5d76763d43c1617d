package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// DevFallbackJWTSecret is used when JWT_SECRET_KEY is unset. Token forgery is
// possible with this key; production deployments MUST override it.
const DevFallbackJWTSecret = "xandar-lab-dev-secret-do-not-use-in-production"

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"xandar_lab"`

	// Redis Configuration (analytics cache)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWT Configuration
	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"xandar-lab"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"168h"` // 7 days

	// Invite code gating signup and login (static shared secret)
	InviteCode string `env:"INVITE_CODE,required"`

	// Session ledger
	MaxSessionsPerUser int `env:"MAX_SESSIONS_PER_USER" envDefault:"10"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"auth_token"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"` // true in production
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"` // "Lax", "Strict", "None"
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}

	if cfg.JWTSecretKey == "" {
		// Known weakness: a forgeable fallback. Kept for local development;
		// flagged at startup by cmd/main.go.
		cfg.JWTSecretKey = DevFallbackJWTSecret
	}
	if cfg.InviteCode == "" {
		return nil, errors.New("invite_code is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 168 * time.Hour
	}
	if cfg.MaxSessionsPerUser <= 0 {
		cfg.MaxSessionsPerUser = 10
	}

	switch strings.ToLower(cfg.CookieSameSite) {
	case "lax":
		cfg.CookieSameSite = "Lax"
	case "strict":
		cfg.CookieSameSite = "Strict"
	case "none":
		cfg.CookieSameSite = "None"
	default:
		return nil, errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	return cfg, nil
}

// UsingFallbackSecret reports whether the development JWT secret is in use.
func (c *Config) UsingFallbackSecret() bool {
	return c.JWTSecretKey == DevFallbackJWTSecret
}
