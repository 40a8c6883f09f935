// Package config loads and validates service configuration from the
// environment. The process refuses to start on missing or malformed
// required values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pizajolo/nft-ticket-registration/internal/eth"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	// Server
	Port int
	Env  string

	// Session tokens
	JWTSecret  string        // signing secret, >= 32 bytes
	SessionTTL time.Duration // session and token lifetime

	// Admin principal (exactly one, bound to AdminWallet)
	AdminEmail        string
	AdminPasswordHash string // bcrypt
	AdminWallet       string // lowercase-normalized at load

	// Challenges
	ChallengeTTL       time.Duration
	OrgDepositAddress  string
	SignMessagePurpose string // first line of the sign-in message

	// Cookies
	SessionCookieName string
	CSRFCookieName    string

	// Optional Redis backing for sessions and event streaming
	RedisURL string
}

// Load reads configuration from the environment, consulting a .env file
// when present, and fail-fast validates every required value.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               4000,
		Env:                EnvDevelopment,
		SessionTTL:         time.Hour,
		ChallengeTTL:       5 * time.Minute,
		SessionCookieName:  "eucon_sess",
		CSRFCookieName:     "eucon_csrf",
		SignMessagePurpose: "THETA EuroCon Registration",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("PORT must be a valid port number, got %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("ENV"); v != "" {
		switch v {
		case EnvDevelopment, EnvProduction, EnvTest:
			cfg.Env = v
		default:
			return nil, fmt.Errorf("ENV must be one of development, production, test; got %q", v)
		}
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET is required and must be at least 32 bytes")
	}

	cfg.AdminWallet = os.Getenv("ADMIN_WALLET")
	if !eth.ValidAddress(cfg.AdminWallet) {
		return nil, fmt.Errorf("ADMIN_WALLET must be a valid hex address")
	}
	cfg.AdminWallet = strings.ToLower(cfg.AdminWallet)

	cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@localhost"
	}

	cfg.OrgDepositAddress = os.Getenv("ORG_DEPOSIT_ADDRESS")
	if !eth.ValidAddress(cfg.OrgDepositAddress) {
		return nil, fmt.Errorf("ORG_DEPOSIT_ADDRESS must be a valid hex address")
	}

	if v := os.Getenv("SESSION_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("SESSION_TTL_SECONDS must be a positive integer, got %q", v)
		}
		cfg.SessionTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("CHALLENGE_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("CHALLENGE_TTL_SECONDS must be a positive integer, got %q", v)
		}
		cfg.ChallengeTTL = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.SessionCookieName = v
	}
	if v := os.Getenv("CSRF_COOKIE_NAME"); v != "" {
		cfg.CSRFCookieName = v
	}
	if v := os.Getenv("SIGN_MESSAGE_PURPOSE"); v != "" {
		cfg.SignMessagePurpose = v
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")

	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies, terse error responses).
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
