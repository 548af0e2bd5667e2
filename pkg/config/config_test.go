package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_BACKEND", "jsonserver")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 15*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "/holdings", cfg.Store.HealthPath)
	assert.Equal(t, 30*time.Second, cfg.Store.HealthInterval)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Interval)
	assert.Equal(t, 30, cfg.Stock.ExpiringDays)
	assert.Equal(t, time.Hour, cfg.Stock.AlertInterval)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.True(t, cfg.DB.Migrate)
}

func TestStoreConfig_BaseURLPorEntorno(t *testing.T) {
	t.Setenv("STORE_BACKEND", "jsonserver")
	t.Setenv("APP_ENV", "production")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "https://epi-bk.onrender.com", cfg.Store.BaseURL(cfg.App.Env))
	assert.Equal(t, "http://localhost:3001", cfg.Store.BaseURL("development"))

	cfg.Store.URL = "http://override:9000"
	assert.Equal(t, "http://override:9000", cfg.Store.BaseURL("production"))
}

func TestLoad_EnteroInvalidoUsaDefecto(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HTTP_PORT", "abc")
	t.Setenv("DB_MIGRATE", "false")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/1", DBName: "epi", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2F1@db:5432/epi?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
