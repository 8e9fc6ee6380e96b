package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "kardex-api", cfg.App.Name)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "1.25", cfg.Pricing.Markup.StringFixed(2))
	assert.Equal(t, 30, cfg.Redis.LockTTLSec)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("PRICING_MARKUP", "1.40")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "1.40", cfg.Pricing.Markup.StringFixed(2))
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_RedisConPostgres(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOCK_TTL_SECONDS", "10")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.LockTTLSec)
}

func TestLoad_RedisConStoreEnMemoriaSeRechaza(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	t.Setenv("PRICING_MARKUP", "-1")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("PRICING_MARKUP", "1.25")
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("LOCK_TTL_SECONDS", "0")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kardex", Password: "p@ss", DBName: "kardex", SSLMode: "disable"}
	assert.Equal(t, "postgres://kardex:p%40ss@db:5432/kardex?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
