package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the API handlers mounted under /api/v1
type Handlers struct {
	Auth         Authenticator
	Reservations *ReservationHandler
	Reminders    *ReminderHandler
	Admin        *AdminHandler
	Reports      *ReportHandler
}

// Register mounts the API. Everything except login requires a session.
func Register(e *echo.Echo, h Handlers) {
	api := e.Group("/api/v1")
	NewAuthHandler(h.Auth).RegisterRoutes(api.Group("/auth"))

	secured := api.Group("", RequireSession(h.Auth))
	secured.GET("/statuses", ListStatuses)
	h.Reservations.RegisterRoutes(secured.Group("/reservations"))
	h.Reminders.RegisterRoutes(secured.Group("/reminders"))
	h.Admin.RegisterRoutes(secured)
	h.Reports.RegisterRoutes(secured)
}

// Health reports liveness
func Health(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "tago-service",
			"version": version,
		})
	}
}
