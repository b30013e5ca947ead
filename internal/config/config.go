package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Zenuu19/Skill-Swap-Platform/pkg/config"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/httpclient"
	pkgkafka "github.com/Zenuu19/Skill-Swap-Platform/pkg/kafka"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/middleware"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/tracing"
)

// Identity directory backends.
const (
	DirectoryPostgres = "postgres"
	DirectoryHTTP     = "http"
)

const (
	defaultJWTSecret  = "change-this-to-a-secure-secret"
	minJWTSecretBytes = 32
)

// Config holds all configuration for the skill swap service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	HTTPPort       int           `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`

	Postgres           database.PostgresConfig `envPrefix:"POSTGRES_"`
	AutoMigrate        bool                    `env:"AUTO_MIGRATE" envDefault:"true"`
	SlowQueryThreshold time.Duration           `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Redis caches aggregated ratings when enabled.
	RedisEnabled   bool                 `env:"REDIS_ENABLED" envDefault:"false"`
	Redis          database.RedisConfig `envPrefix:"REDIS_"`
	RatingCacheTTL time.Duration        `env:"RATING_CACHE_TTL" envDefault:"5m"`

	Kafka   pkgkafka.ProducerConfig `envPrefix:"KAFKA_"`
	Tracing tracing.Config          `envPrefix:"OTEL_"`
	CORS    middleware.CORSConfig   `envPrefix:"CORS_"`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"skillswap"`

	// Identity directory
	DirectoryMode string            `env:"DIRECTORY_MODE" envDefault:"postgres"`
	DirectoryURL  string            `env:"DIRECTORY_URL"`
	DirectoryHTTP httpclient.Config `envPrefix:"DIRECTORY_HTTP_"`

	// Write endpoints are limited per authenticated user.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load skillswap config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.Postgres.MaxConns < 1 || c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("invalid postgres pool size: min %d, max %d", c.Postgres.MinConns, c.Postgres.MaxConns)
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must list at least one broker")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %g", c.Tracing.SampleRate)
	}
	if c.RedisEnabled && c.RatingCacheTTL <= 0 {
		return fmt.Errorf("RATING_CACHE_TTL must be positive when Redis is enabled")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("invalid rate limit: %g rps, burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	switch c.DirectoryMode {
	case DirectoryPostgres:
	case DirectoryHTTP:
		u, err := url.Parse(c.DirectoryURL)
		if c.DirectoryURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("DIRECTORY_URL must be an absolute URL when DIRECTORY_MODE=http, got %q", c.DirectoryURL)
		}
	default:
		return fmt.Errorf("DIRECTORY_MODE must be %q or %q, got %q", DirectoryPostgres, DirectoryHTTP, c.DirectoryMode)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if !c.IsDevelopment() {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < minJWTSecretBytes {
			return fmt.Errorf("JWT_SECRET must be at least %d characters long, got %d", minJWTSecretBytes, len(c.JWTSecret))
		}
	}

	return nil
}
