package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/require"

    "github.com/jfhernandez/parqueo-api/internal/config"
)

func testContext(t *testing.T) echo.Context {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/insertar_parqueo", nil)
    req.RemoteAddr = "10.1.2.3:5000"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/api/insertar_parqueo")
    return c
}

func TestBucketKeyStrategies(t *testing.T) {
    c := testContext(t)
    base := config.RateLimitConfig{Prefix: "rl"}

    cases := []struct {
        strategy string
        want     string
    }{
        {"ip", "rl:ip:10.1.2.3"},
        {"route", "rl:route:POST /api/insertar_parqueo"},
        {"ip_route", "rl:ip:10.1.2.3:route:POST /api/insertar_parqueo"},
        {"", "rl:ip:10.1.2.3:route:POST /api/insertar_parqueo"},
    }
    for _, tc := range cases {
        cfg := base
        cfg.KeyStrategy = tc.strategy
        require.Equal(t, tc.want, bucketKey(cfg, c), "strategy %q", tc.strategy)
    }
}

// A disabled limiter (or one without Redis) must be a pass-through.
func TestTokenBucketDisabledPassesThrough(t *testing.T) {
    mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
    called := false
    h := mw(func(c echo.Context) error { called = true; return nil })
    require.NoError(t, h(testContext(t)))
    require.True(t, called)
}
