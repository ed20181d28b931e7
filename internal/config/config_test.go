package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "no-such-config.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, 10, cfg.MySQL.MaxIdleConns)
	assert.Equal(t, 50, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 60, cfg.MySQL.ConnMaxLifetimeMinutes)
	assert.False(t, cfg.GeminiEnabled())
	assert.Contains(t, cfg.MySQLDSN(), "tcp(127.0.0.1:3306)/jogai")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "no-such-config.toml")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "some-key")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "5")
	t.Setenv("MYSQL_CONN_MAX_LIFETIME_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTPAddr())
	assert.True(t, cfg.GeminiEnabled())
	assert.Equal(t, 5, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 15, cfg.MySQL.ConnMaxLifetimeMinutes)
}

func TestEnvOverrideIgnoresBadInt(t *testing.T) {
	t.Setenv("CONFIG_FILE", "no-such-config.toml")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}
