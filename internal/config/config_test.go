package config

import (
    "testing"

    "github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
    t.Helper()
    t.Setenv("APP_ENV", "dev")
    t.Setenv("APP_PORT", "3000")
    t.Setenv("DB_USER", "parqueo")
    t.Setenv("DB_HOST", "localhost")
    t.Setenv("DB_PORT", "3306")
    t.Setenv("DB_NAME", "parqueo")
}

func TestLoad_PoolDefaults(t *testing.T) {
    setRequiredEnv(t)

    cfg := Load()

    require.Equal(t, 10, cfg.PoolMaxOpen)
    require.Equal(t, 2, cfg.PoolMaxIdle)
}

// A malformed or non-positive pool size must fall back to the
// defaults: MaxOpen 0 would tell database/sql the pool is unlimited
// and the open-connection cap is what bounds concurrent
// transactions.
func TestLoad_PoolSizeMalformedFallsBack(t *testing.T) {
    setRequiredEnv(t)
    t.Setenv("DB_POOL_MAX_OPEN", "abc")
    t.Setenv("DB_POOL_MAX_IDLE", "many")

    cfg := Load()

    require.Equal(t, 10, cfg.PoolMaxOpen)
    require.Equal(t, 2, cfg.PoolMaxIdle)
}

func TestLoad_PoolSizeNonPositiveFallsBack(t *testing.T) {
    setRequiredEnv(t)
    t.Setenv("DB_POOL_MAX_OPEN", "0")
    t.Setenv("DB_POOL_MAX_IDLE", "-1")

    cfg := Load()

    require.Equal(t, 10, cfg.PoolMaxOpen)
    require.Equal(t, 2, cfg.PoolMaxIdle)
}

func TestLoad_PoolIdleClampedToOpen(t *testing.T) {
    setRequiredEnv(t)
    t.Setenv("DB_POOL_MAX_OPEN", "4")
    t.Setenv("DB_POOL_MAX_IDLE", "8")

    cfg := Load()

    require.Equal(t, 4, cfg.PoolMaxOpen)
    require.Equal(t, 4, cfg.PoolMaxIdle)
}

func TestLoad_PoolSizesFromEnv(t *testing.T) {
    setRequiredEnv(t)
    t.Setenv("DB_POOL_MAX_OPEN", "25")
    t.Setenv("DB_POOL_MAX_IDLE", "5")

    cfg := Load()

    require.Equal(t, 25, cfg.PoolMaxOpen)
    require.Equal(t, 5, cfg.PoolMaxIdle)
}

func TestDev(t *testing.T) {
    require.True(t, Config{Env: "dev"}.Dev())
    require.True(t, Config{Env: "development"}.Dev())
    require.False(t, Config{Env: "prod"}.Dev())
}
