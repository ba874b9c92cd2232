package config

import (
    "time"
)

// CacheConfig defines settings for the availability response cache.
// Only the availability listing is cached: it is the one hot
// read-only endpoint, and a short TTL keeps stale occupancy bounded.
// When Enabled is false or no Redis client is configured, caching is
// disabled entirely.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a
// CacheConfig.  Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 10*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
