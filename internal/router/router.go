// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/jfhernandez/parqueo-api/internal/handler"
)

// RegisterRoutes wires the parking endpoints under /api, keeping the
// route names the deployed frontend calls.  The rate limiter guards
// the whole group; the response cache only makes sense on the
// read-only availability listing, so it is attached there alone.
// Liveness endpoints stay outside the group and outside both
// middlewares.
func RegisterRoutes(e *echo.Echo, h *handler.ParkingHandler, limiter, cache echo.MiddlewareFunc) {
    e.GET("/", handler.Root)
    e.GET("/healthz", handler.Health)

    api := e.Group("/api", limiter)
    api.GET("/disponibilidad_parqueo", h.Availability, cache)
    api.POST("/insertar_parqueo", h.Reserve)
    api.POST("/insertar_entrada_visitas", h.VisitorEntry)
    api.PATCH("/insertar_salida_visitas", h.VisitorExit)
    api.PATCH("/cancelacion_parqueo", h.CancelReservation)
}
