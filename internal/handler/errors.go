package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/apperrors"
)

const notFoundMessage = "Not Found"

// ErrorHandler renders every error as plain text with its status code.
// Unknown routes and wrong methods both answer 404 "Not Found".  Storage
// and unexpected errors are logged with their cause; the client only sees
// the message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := render(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.String(status, msg)
		}
		if err != nil {
			log.Warn("writing error response failed", zap.Error(err))
		}
	}
}

func render(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			return http.StatusNotFound, notFoundMessage
		case he.Code >= http.StatusInternalServerError:
			return he.Code, apperrors.UnexpectedMessage
		default:
			return he.Code, fmt.Sprint(he.Message)
		}
	}
	appErr := apperrors.As(err)
	return appErr.StatusCode(), appErr.Message
}
