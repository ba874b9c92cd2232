// Package config loads application configuration from environment
// variables.
package config

import (
    "log"
    "os"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Database credentials and
// the listen port are required; pool sizing falls back to the
// defaults the service has always run with (2 idle, 10 open).
type Config struct {
    Env         string // application environment (e.g. "dev", "prod")
    Port        string // HTTP port to listen on
    DBUser      string // database username
    DBPass      string // database password (optional)
    DBHost      string // database host address
    DBPort      string // database port number
    DBName      string // database name
    PoolMaxOpen int    // maximum open connections; bounds concurrent transactions
    PoolMaxIdle int    // connections kept idle in the pool
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Pool sizes are normalized so the open-connection cap is always a
// positive bound; SetMaxOpenConns(0) would mean unlimited.
func Load() Config {
    cfg := Config{
        Env:         must("APP_ENV"),
        Port:        must("APP_PORT"),
        DBUser:      must("DB_USER"),
        DBPass:      os.Getenv("DB_PASS"), // empty allowed
        DBHost:      must("DB_HOST"),
        DBPort:      must("DB_PORT"),
        DBName:      must("DB_NAME"),
        PoolMaxOpen: envInt("DB_POOL_MAX_OPEN", 10),
        PoolMaxIdle: envInt("DB_POOL_MAX_IDLE", 2),
    }
    if cfg.PoolMaxOpen < 1 {
        cfg.PoolMaxOpen = 10
    }
    if cfg.PoolMaxIdle < 0 {
        cfg.PoolMaxIdle = 2
    }
    if cfg.PoolMaxIdle > cfg.PoolMaxOpen {
        cfg.PoolMaxIdle = cfg.PoolMaxOpen
    }
    return cfg
}

// Dev reports whether the service runs outside production.  Error
// responses include store error details only in that case.
func (c Config) Dev() bool { return c.Env != "prod" }

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

