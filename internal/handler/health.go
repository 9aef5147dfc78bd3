package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe. It returns "ok" whenever the process is
// serving requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready is the readiness probe. ping checks the backing store; a failure is
// reported as 503 so load balancers stop routing to this instance.
func Ready(ping func(context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.Logger().Warnf("readiness check failed: %v", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		return c.String(http.StatusOK, "ready")
	}
}
