package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 26257, cfg.Database.Port)
	assert.Equal(t, "root", cfg.Database.User)
	assert.Equal(t, "defaultdb", cfg.Database.Name)
	assert.Equal(t, "verify-full", cfg.Database.SSLMode)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_HOST", "crdb.internal")
	t.Setenv("DATABASE_PORT", "26258")
	t.Setenv("LOGGER_FORMAT", "json")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "crdb.internal", cfg.Database.Host)
	assert.Equal(t, 26258, cfg.Database.Port)
	assert.Equal(t, "json", cfg.Logger.Format)
}
