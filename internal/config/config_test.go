package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneymanager/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.StorePostgres, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/moneymanager?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_DATABASE", "ledger")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://money.example.com")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "ledger", cfg.Mongo.Database)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, []string{"http://localhost:3000", "https://money.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.ConnectionString(), "postgres:secret@")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}
