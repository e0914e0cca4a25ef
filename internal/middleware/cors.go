package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Fixed CORS values.  Every response carries them, errors included.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

// CORS sets the fixed cross-origin headers on every response and answers
// any OPTIONS request with 200 and an empty body before routing happens.
// It must be registered with Echo.Pre so pre-flights for unknown paths get
// the same answer.  allowHeaders lists the request headers browsers may
// send; Content-Type is always included.
func CORS(allowHeaders ...string) echo.MiddlewareFunc {
	headers := append([]string{echo.HeaderContentType}, allowHeaders...)
	allowed := strings.Join(headers, ", ")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, corsAllowOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, allowed)
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
