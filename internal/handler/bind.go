package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/apperrors"
	"github.com/iliyamo/room-reservation/internal/middleware"
)

// decodeJSON reads the request body into dst and rejects unknown fields,
// type mismatches and trailing data.  An empty body leaves dst at its zero
// value so the service reports which fields are missing.
func decodeJSON(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validation("Invalid request body")
	}
	if dec.More() {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}

// idParam returns an integer path parameter.  Routes registered through
// the router have it parsed already by middleware.IntParams.
func idParam(c echo.Context, name string) (int64, error) {
	if v, ok := middleware.ParamInt(c, name); ok {
		return v, nil
	}
	v, ok := middleware.ParseID(c.Param(name))
	if !ok {
		return 0, apperrors.Validation("Invalid " + name)
	}
	return v, nil
}
