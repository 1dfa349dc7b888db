// Package config loads Houston Texas Pro settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at start by Load.
type Config struct {
	Host     string
	Port     string
	Env      string // development, production or testing
	BaseURL  string // public origin without a trailing slash; QR codes and absolute links use it
	SiteName string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Gallery object storage. Uploads are disabled unless StorageEnabled.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// At most LeadRateLimit lead submissions per IP within LeadRateWindow.
	LeadRateLimit  int
	LeadRateWindow time.Duration

	// TrustProxy makes the server take the client address from
	// X-Forwarded-For and friends. Only set it behind a proxy that
	// overwrites those headers.
	TrustProxy bool
}

// env reads variables, treating empty as unset, and collects parse errors
// so Load can report all of them at once.
type env struct {
	errs []error
}

func (e *env) str(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e *env) origin(key, fallback string) string {
	return strings.TrimRight(e.str(key, fallback), "/")
}

func (e *env) positiveInt(key string, fallback int) int {
	raw := e.str(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		e.errs = append(e.errs, fmt.Errorf("%s must be a positive integer, got %q", key, raw))
		return fallback
	}
	return n
}

func (e *env) boolean(key string, fallback bool) bool {
	raw := e.str(key, strconv.FormatBool(fallback))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be true or false, got %q", key, raw))
		return fallback
	}
	return b
}

func (e *env) positiveDuration(key string, fallback time.Duration) time.Duration {
	raw := e.str(key, fallback.String())
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		e.errs = append(e.errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
		return fallback
	}
	return d
}

// Load builds a Config from the environment with development defaults.
// Production refuses the default database password and a non-https
// base URL.
func Load() (*Config, error) {
	e := &env{}
	cfg := &Config{
		Host:     e.str("APP_HOST", "0.0.0.0"),
		Port:     e.str("APP_PORT", "8080"),
		Env:      e.str("APP_ENV", "development"),
		BaseURL:  e.origin("APP_BASE_URL", "http://localhost:8080"),
		SiteName: e.str("SITE_NAME", "Houston Texas Pro"),

		DBHost:     e.str("POSTGRES_HOST", "localhost"),
		DBPort:     e.str("POSTGRES_PORT", "5432"),
		DBUser:     e.str("POSTGRES_USER", "houstonpro"),
		DBPassword: e.str("POSTGRES_PASSWORD", "changeme"),
		DBName:     e.str("POSTGRES_DB", "houstonpro"),

		ValkeyHost:     e.str("VALKEY_HOST", "localhost"),
		ValkeyPort:     e.str("VALKEY_PORT", "6379"),
		ValkeyPassword: e.str("VALKEY_PASSWORD", ""),

		S3Endpoint:  e.str("S3_ENDPOINT", ""),
		S3Region:    e.str("S3_REGION", "us-east-1"),
		S3AccessKey: e.str("S3_ACCESS_KEY", ""),
		S3SecretKey: e.str("S3_SECRET_KEY", ""),
		S3Bucket:    e.str("S3_BUCKET", "houstonpro"),
		S3PublicURL: e.origin("S3_PUBLIC_URL", ""),

		LeadRateLimit:  e.positiveInt("LEAD_RATE_LIMIT", 5),
		LeadRateWindow: e.positiveDuration("LEAD_RATE_WINDOW", 10*time.Minute),
		TrustProxy:     e.boolean("TRUST_PROXY", false),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			e.errs = append(e.errs, errors.New("POSTGRES_PASSWORD must be set in production"))
		}
		if !strings.HasPrefix(cfg.BaseURL, "https://") {
			e.errs = append(e.errs, errors.New("APP_BASE_URL must use https in production"))
		}
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL URL. Credentials are escaped.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether gallery uploads can reach S3.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
