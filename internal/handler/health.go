package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers
// and monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Root answers the bare path with a short liveness message so a
// browser hit confirms the server is up.
func Root(c echo.Context) error {
    return c.String(http.StatusOK, "Servidor funcionando correctamente")
}
