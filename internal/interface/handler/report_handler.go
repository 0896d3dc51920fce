package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/usecase"
	"tago-service/pkg/utils"

	"github.com/labstack/echo/v4"
)

// ReportService produces exports, dashboard figures and the audit trail
type ReportService interface {
	ExportCSV(ctx context.Context, viewer entity.Viewer, airlines []string, w io.Writer) (int, error)
	ExportFileName() string
	Dashboard(ctx context.Context, viewer entity.Viewer) (*usecase.DashboardStats, error)
	AuditLogs(ctx context.Context, viewer entity.Viewer, filter entity.AuditLogFilter) ([]*entity.AuditLogEntry, error)
}

type ReportHandler struct {
	svc ReportService
	loc *time.Location
}

// NewReportHandler creates the report handler; audit log date filters are
// read as calendar days in loc
func NewReportHandler(svc ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{svc: svc, loc: loc}
}

func (h *ReportHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/export.csv", h.ExportCSV)
	api.GET("/reports/dashboard", h.Dashboard)
	api.GET("/audit-logs", h.AuditLogs)
}

// ExportCSV downloads the reservations of ?airlines=ET,UX, or of every
// airline when the parameter is absent
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	var airlines []string
	for _, code := range strings.Split(c.QueryParam("airlines"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			airlines = append(airlines, code)
		}
	}

	var buf bytes.Buffer
	if _, err := h.svc.ExportCSV(c.Request().Context(), viewerFrom(c), airlines, &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", h.svc.ExportFileName()))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ReportHandler) Dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context(), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// AuditLogs accepts ?q=, ?from= and ?to= (inclusive days) and ?limit=
func (h *ReportHandler) AuditLogs(c echo.Context) error {
	filter := entity.AuditLogFilter{Search: c.QueryParam("q")}

	if from := c.QueryParam("from"); from != "" {
		day, err := utils.ParseDay(from, h.loc)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		filter.From = day
	}
	if to := c.QueryParam("to"); to != "" {
		day, err := utils.ParseDay(to, h.loc)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		filter.To = utils.AddDays(day, 1).Add(-time.Nanosecond)
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = n
	}

	entries, err := h.svc.AuditLogs(c.Request().Context(), viewerFrom(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
