package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// HealthCheck is a named dependency probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health is the liveness probe.  It returns a plain text "ok" with 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready returns the readiness probe: 200 "ok" when every check passes,
// otherwise 503 naming the first failing dependency.
func Ready(log *zap.Logger, checks ...HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				log.Warn("readiness check failed", zap.String("check", hc.Name), zap.Error(err))
				return c.String(http.StatusServiceUnavailable, "unavailable: "+hc.Name)
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
