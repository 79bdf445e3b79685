package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("EXPIRATION_TIME", "45")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_NAME", "hotel_test")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 45*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, "hotel_test", cfg.Database.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
auth:
  secret_key: from-file
  token_ttl: 10m
redis:
  url: redis://localhost:6379/0
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.Equal(t, 10*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	_, _, err := Load()
	assert.Error(t, err)
}

func TestResolveMySQLDSN(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		dsn, err := ResolveMySQLDSN(DatabaseConfig{URL: "mysql://hotel:pw@db.internal/hotel_db"})
		require.NoError(t, err)
		assert.Equal(t, "hotel:pw@tcp(db.internal:3306)/hotel_db?charset=utf8mb4&loc=UTC&parseTime=True", dsn)
	})

	t.Run("url without database", func(t *testing.T) {
		_, err := ResolveMySQLDSN(DatabaseConfig{URL: "mysql://hotel:pw@db.internal"})
		assert.Error(t, err)
	})

	t.Run("fields", func(t *testing.T) {
		dsn, err := ResolveMySQLDSN(DatabaseConfig{User: "root", Password: "x", Host: "127.0.0.1", Port: "3307", Name: "h"})
		require.NoError(t, err)
		assert.Equal(t, "root:x@tcp(127.0.0.1:3307)/h?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
	})
}
