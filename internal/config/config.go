// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for thumbnails and presets.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// StoreBackend selects where thumbnails live: "memory" or "postgres".
	StoreBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Empty host disables the blob cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Image provider settings. A missing key means placeholders only.
	AIProvider     string // "freepik" or "openai"
	FreepikAPIKey  string
	FreepikModel   string
	FreepikBaseURL string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string

	PlaceholderBaseURL string
	FetchTimeout       time.Duration

	// S3-compatible object storage for downloads. Optional.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	// DownloadTTL is how long a prepared download stays fetchable.
	DownloadTTL time.Duration

	// GenerateRateLimit is the number of generation requests one client may
	// make per minute.
	GenerateRateLimit int

	// TrustedProxies are the reverse proxies whose forwarding headers the
	// rate limiter believes. Empty means the peer address is always used.
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value does not
// parse or if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend: envOrDefault("STORE_BACKEND", BackendMemory),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "thumbcraft"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "thumbcraft"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:     envOrDefault("AI_PROVIDER", "freepik"),
		FreepikAPIKey:  os.Getenv("FREEPIK_API_KEY"),
		FreepikModel:   os.Getenv("FREEPIK_MODEL"),
		FreepikBaseURL: os.Getenv("FREEPIK_BASE_URL"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),

		PlaceholderBaseURL: envOrDefault("PLACEHOLDER_BASE_URL", "https://picsum.photos"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
	}

	var err error
	if cfg.FetchTimeout, err = durationOrDefault("FETCH_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.DownloadTTL, err = durationOrDefault("DOWNLOAD_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.GenerateRateLimit, err = intOrDefault("GENERATE_RATE_LIMIT", 30); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixList("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendPostgres, cfg.StoreBackend)
	}

	if cfg.Env == "production" && cfg.StoreBackend == BackendPostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration such as "90s" or "15m".
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

// intOrDefault parses a positive integer.
func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// prefixList parses a comma-separated list of CIDRs or bare addresses.
func prefixList(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid address %q", key, item)
			}
			out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid CIDR %q", key, item)
		}
		out = append(out, p.Masked())
	}
	return out, nil
}
