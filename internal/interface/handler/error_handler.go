package handler

import (
	"errors"
	"net/http"

	"tago-service/internal/usecase"
	"tago-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// statusFor maps usecase errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrVersionConflict),
		errors.Is(err, usecase.ErrDuplicate),
		errors.Is(err, usecase.ErrTickInFlight):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrInvalidReservation),
		errors.Is(err, usecase.ErrUnknownAirline),
		errors.Is(err, usecase.ErrInvalidUser),
		errors.Is(err, usecase.ErrInvalidConfig):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NewErrorHandler renders every error as {"message": ...}. Internal errors
// are logged and hidden from the client.
func NewErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}

		if code == http.StatusInternalServerError {
			log.Error("Request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err)
			msg = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"message": msg})
	}
}
