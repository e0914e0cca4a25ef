package middleware

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/apperrors"
)

const paramKeyPrefix = "param:"

// ParseID parses a path identifier.  Only plain decimal digits denoting a
// positive int64 are accepted; signs, zero and overflow are rejected.
func ParseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// IntParams parses the named path parameters with ParseID before the
// handler runs.  A malformed value stops the request with a 400 so no
// handler or store ever sees it.  Parsed values are read back with
// ParamInt.
func IntParams(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, name := range names {
				v, ok := ParseID(c.Param(name))
				if !ok {
					return apperrors.Validation(fmt.Sprintf("Invalid %s", name))
				}
				c.Set(paramKeyPrefix+name, v)
			}
			return next(c)
		}
	}
}

// ParamInt returns a parameter parsed by IntParams.  The second result is
// false when the route did not declare it.
func ParamInt(c echo.Context, name string) (int64, bool) {
	v, ok := c.Get(paramKeyPrefix + name).(int64)
	return v, ok
}
