package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/jfhernandez/parqueo-api/internal/config"
    "github.com/jfhernandez/parqueo-api/internal/database"
    "github.com/jfhernandez/parqueo-api/internal/handler"
    "github.com/jfhernandez/parqueo-api/internal/middleware"
    "github.com/jfhernandez/parqueo-api/internal/queue"
    "github.com/jfhernandez/parqueo-api/internal/repository"
    "github.com/jfhernandez/parqueo-api/internal/router"
    "github.com/jfhernandez/parqueo-api/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.PoolMaxOpen, cfg.PoolMaxIdle)
    if err != nil {
        log.Fatalf("database: %v", err)
    }

    shifts := repository.NewShiftRepo(db)
    reservations := repository.NewReservationRepo(db)
    svc := service.NewReservationService(shifts, reservations)
    svc.Publish = queue.PublishActivity

    // Redis is optional: without it the cache and limiter are no-ops.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, response cache and rate limiting disabled")
    }
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:     []string{"http://localhost:5173"},
        AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
        AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
        AllowCredentials: true,
    }))

    h := handler.NewParkingHandler(svc, cfg.Dev())
    router.RegisterRoutes(e, h, limiter, cache)

    go queue.StartActivityConsumer()

    go func() {
        addr := ":" + cfg.Port
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatal(err)
        }
    }()

    // Drain on SIGINT/SIGTERM: stop accepting requests, let in-flight
    // transactions finish, then close the pool.
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
    <-quit

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Printf("shutdown: %v", err)
    }
    if err := db.Close(); err != nil {
        log.Printf("closing pool: %v", err)
    }
    log.Println("server stopped")
}
