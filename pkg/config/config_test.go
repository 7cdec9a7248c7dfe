package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "seguros-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.PermissionTTL)
	assert.Equal(t, 30, cfg.Jobs.RenewalLookaheadDays)
	assert.Equal(t, 2, cfg.Jobs.RunAtHour)
	assert.Equal(t, 24*time.Hour, cfg.Jobs.Interval)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PERMISSION_TTL", "90s")
	t.Setenv("RENEWAL_LOOKAHEAD_DAYS", "45")
	t.Setenv("JOBS_INTERVAL", "6h")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Second, cfg.Redis.PermissionTTL)
	assert.Equal(t, 45, cfg.Jobs.RenewalLookaheadDays)
	assert.Equal(t, 6*time.Hour, cfg.Jobs.Interval)
}

func TestLoad_SinSecreto(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_HoraInvalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("JOBS_RUN_AT_HOUR", "25")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "seguros", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/seguros?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
