package handler

import (
	"context"
	"net/http"

	"tago-service/internal/domain/entity"
	"tago-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ReminderLister derives the reminders of a caller
type ReminderLister interface {
	ListForViewer(ctx context.Context, viewer entity.Viewer) ([]entity.Reminder, error)
}

// ReminderChecker runs a dispatch tick on demand
type ReminderChecker interface {
	CheckNow(ctx context.Context) (entity.DispatchReport, error)
}

type ReminderHandler struct {
	reminders ReminderLister
	checker   ReminderChecker
}

func NewReminderHandler(reminders ReminderLister, checker ReminderChecker) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, checker: checker}
}

func (h *ReminderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListReminders)
	g.POST("/check", h.CheckNow)
}

func (h *ReminderHandler) ListReminders(c echo.Context) error {
	reminders, err := h.reminders.ListForViewer(c.Request().Context(), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reminders)
}

// CheckNow runs the daily dispatch immediately. Already sent reminders
// are not sent again.
func (h *ReminderHandler) CheckNow(c echo.Context) error {
	if !viewerFrom(c).IsAdmin() {
		return usecase.ErrForbidden
	}

	report, err := h.checker.CheckNow(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
