package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SnapshotTTL)
	assert.False(t, cfg.Auth.DevHeaders)
	assert.Equal(t, "0 */15 * * * *", cfg.Sync.Schedule)
	assert.Empty(t, cfg.Upstream.BaseURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_DEV_HEADERS", "true")
	t.Setenv("SNAPSHOT_TTL", "30s")
	t.Setenv("UPSTREAM_RATE_LIMIT", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Auth.DevHeaders)
	assert.Equal(t, 30*time.Second, cfg.Redis.SnapshotTTL)
	assert.Equal(t, 2.5, cfg.Upstream.RateLimit)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB, "invalid integers fall back to the default")
}

func TestValidate(t *testing.T) {
	t.Run("dev headers rejected in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("AUTH_DEV_HEADERS", "true")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("object storage needs credentials", func(t *testing.T) {
		t.Setenv("MINIO_ENDPOINT", "minio:9000")
		_, err := Load()
		assert.Error(t, err)
	})
}
