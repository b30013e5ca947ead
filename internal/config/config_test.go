package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, int32(20), cfg.Postgres.MaxConns)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 5*time.Minute, cfg.RatingCacheTTL)
	assert.Equal(t, DirectoryPostgres, cfg.DirectoryMode)
	assert.Equal(t, 2, cfg.DirectoryHTTP.MaxRetries)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_NestedPrefixes(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_NAME", "swaps")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")
	t.Setenv("DIRECTORY_HTTP_TIMEOUT", "2s")
	t.Setenv("DIRECTORY_HTTP_BREAKER_MIN_REQUESTS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "swaps", cfg.Postgres.DBName)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRate)
	assert.Equal(t, 2*time.Second, cfg.DirectoryHTTP.Timeout)
	assert.Equal(t, uint32(8), cfg.DirectoryHTTP.Breaker.MinRequests)
	assert.Equal(t, 30*time.Second, cfg.DirectoryHTTP.Breaker.Timeout)
}

func TestLoad_LogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "1.5")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE")
}

func TestLoad_DirectoryMode(t *testing.T) {
	t.Run("http requires url", func(t *testing.T) {
		t.Setenv("DIRECTORY_MODE", "http")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIRECTORY_URL")
	})

	t.Run("http with url", func(t *testing.T) {
		t.Setenv("DIRECTORY_MODE", "http")
		t.Setenv("DIRECTORY_URL", "http://user-service:8006")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "http://user-service:8006", cfg.DirectoryURL)
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("DIRECTORY_MODE", "ldap")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIRECTORY_MODE")
	})
}

func TestLoad_JWTSecretOutsideDevelopment(t *testing.T) {
	t.Run("default secret rejected", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET must be explicitly set")
	})

	t.Run("short secret rejected", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "too-short")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("strong secret accepted", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", strings.Repeat("s", 40))

		cfg, err := Load()

		require.NoError(t, err)
		assert.False(t, cfg.IsDevelopment())
	})
}

func TestLoad_CacheTTLRequiredWithRedis(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATING_CACHE_TTL", "0s")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATING_CACHE_TTL")
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "0")

	_, err := Load()

	require.Error(t, err)
}
