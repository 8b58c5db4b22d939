// Package config loads rentora-engine configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for rentora-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration for the optional report cache
	Redis RedisConfig `yaml:"redis"`

	// Report generation settings
	Reports ReportsConfig `yaml:"reports"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:"https://auth.rentora.io=https://auth.rentora.io/.well-known/jwks.json"`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host             string        `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port             int           `yaml:"port" env:"PGPORT" env-default:"5432"`
	User             string        `yaml:"user" env:"PGUSER" env-default:"rentora"`
	Password         string        `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database         string        `yaml:"database" env:"PGDATABASE" env-default:"rentora_engine"`
	MaxConnections   int32         `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode          string        `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	AcquireTimeout   time.Duration `yaml:"acquire_timeout" env:"PGACQUIRE_TIMEOUT" env-default:"5s"`
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"PGSTATEMENT_TIMEOUT" env-default:"30s"`
}

// URL assembles the connection string for pgxpool.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Database, d.SSLMode)
}

// RedisConfig holds Redis configuration. An empty host disables caching.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ReportsConfig holds report generation settings.
type ReportsConfig struct {
	// CacheTTL is how long computed reports are cached when Redis is
	// configured.
	CacheTTL time.Duration `yaml:"cache_ttl" env:"REPORTS_CACHE_TTL" env-default:"5m"`
	// DefaultDaysAhead is the window for upcoming-endings reports when the
	// request carries no daysAhead filter.
	DefaultDaysAhead int `yaml:"default_days_ahead" env:"REPORTS_DEFAULT_DAYS_AHEAD" env-default:"30"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	return cfg, nil
}

// parseJWKSEndpoints parses "issuer1=url1,issuer2=url2" into a map.
// Malformed pairs are skipped.
func parseJWKSEndpoints(s string) map[string]string {
	endpoints := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return endpoints
}
