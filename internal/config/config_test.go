package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("LOG_RETENTION_DAYS", "")
	t.Setenv("PORT", "")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, 30, cfg.LogRetentionDays)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_REFRESH_EXPIRY", "24h")
	t.Setenv("LOG_RETENTION_DAYS", "7")
	t.Setenv("DB_NAME", "recipes_test")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.Contains(t, cfg.DSN(), "dbname=recipes_test")
}

func TestLoadFallsBackOnGarbage(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")
	t.Setenv("LOG_RETENTION_DAYS", "-3")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 30, cfg.LogRetentionDays)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("CUISINEO_API_URL", "https://api.cuisineo.test")
	t.Setenv("CUISINEO_CACHE", "/tmp/c.db")
	t.Setenv("CUISINEO_HTTP_TIMEOUT", "3s")

	cfg := LoadClient()
	assert.Equal(t, "https://api.cuisineo.test", cfg.APIURL)
	assert.Equal(t, "/tmp/c.db", cfg.CachePath)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}
