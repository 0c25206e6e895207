package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/RentalGo/pkg/config"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the rental web front end.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"RENTAL_HTTP_PORT" envDefault:"8080"`

	// Catalog API
	CatalogBaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://myfakeapi.com/api/cars"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`

	// Circuit breaker around the catalog API
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Persistent store
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass     string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	StoreTTLHours int    `env:"STORE_TTL_HOURS" envDefault:"720"`

	// Slow store operation logging, 0 disables it
	SlowStoreOpThresholdMs int `env:"LOG_SLOW_STORE_OP_MS" envDefault:"100"`

	// How long a page view's vehicle snapshot stays available to filter requests.
	SnapshotTTL       time.Duration `env:"SNAPSHOT_TTL" envDefault:"15m"`
	SnapshotCacheSize int           `env:"SNAPSHOT_CACHE_SIZE" envDefault:"1000"`

	// Visitor cookie keys. An empty hash key means an ephemeral one.
	VisitorHashKey  string `env:"VISITOR_HASH_KEY" envDefault:""`
	VisitorBlockKey string `env:"VISITOR_BLOCK_KEY" envDefault:""`

	LoginRedirectDelay time.Duration `env:"LOGIN_REDIRECT_DELAY" envDefault:"800ms"`

	FormRateLimitRPS   float64 `env:"FORM_RATE_LIMIT_RPS" envDefault:"5"`
	FormRateLimitBurst int     `env:"FORM_RATE_LIMIT_BURST" envDefault:"10"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load rental config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StoreTTL is the lifetime of persisted visitor records.
func (c *Config) StoreTTL() time.Duration {
	return time.Duration(c.StoreTTLHours) * time.Hour
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.CatalogBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CATALOG_BASE_URL must be an absolute http(s) URL, got %q", c.CatalogBaseURL)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	switch c.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreMemory, StoreRedis, c.StoreBackend)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1]")
	}
	if c.StoreTTLHours < 1 {
		return fmt.Errorf("STORE_TTL_HOURS must be at least 1")
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}
	if c.SnapshotCacheSize < 1 {
		return fmt.Errorf("SNAPSHOT_CACHE_SIZE must be at least 1")
	}
	if c.LoginRedirectDelay < 0 {
		return fmt.Errorf("LOGIN_REDIRECT_DELAY must not be negative")
	}
	if c.FormRateLimitRPS <= 0 || c.FormRateLimitBurst < 1 {
		return fmt.Errorf("form rate limit must allow at least one request")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}
