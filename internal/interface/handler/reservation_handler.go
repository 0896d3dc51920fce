package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

const timeLayout = time.RFC3339

// ReservationService is the reservation lifecycle used by the API
type ReservationService interface {
	List(ctx context.Context, viewer entity.Viewer, filter usecase.ReservationFilter) ([]entity.Reservation, error)
	Get(ctx context.Context, viewer entity.Viewer, id string) (*entity.Reservation, error)
	Create(ctx context.Context, viewer entity.Viewer, input entity.Reservation) (*entity.Reservation, error)
	Update(ctx context.Context, viewer entity.Viewer, id string, expectedVersion int, input entity.Reservation) (*entity.Reservation, error)
	Delete(ctx context.Context, viewer entity.Viewer, id string) error
}

type ReservationHandler struct {
	svc ReservationService
}

func NewReservationHandler(svc ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListReservations)
	g.POST("", h.CreateReservation)
	g.GET("/:id", h.GetReservation)
	g.PUT("/:id", h.UpdateReservation)
	g.DELETE("/:id", h.DeleteReservation)
}

func (h *ReservationHandler) ListReservations(c echo.Context) error {
	filter := usecase.ReservationFilter{
		Airline: strings.ToUpper(c.QueryParam("airline")),
		Status:  entity.Status(c.QueryParam("status")),
		Agency:  c.QueryParam("agency"),
		Search:  c.QueryParam("q"),
	}

	reservations, err := h.svc.List(c.Request().Context(), viewerFrom(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	reservation, err := h.svc.Get(c.Request().Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req entity.Reservation
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.svc.Create(c.Request().Context(), viewerFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateReservation takes the version the client loaded from the body
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	var req entity.Reservation
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Version <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "version is required")
	}

	updated, err := h.svc.Update(c.Request().Context(), viewerFrom(c), c.Param("id"), req.Version, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), viewerFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type statusResponse struct {
	Value  entity.Status `json:"value"`
	Family string        `json:"family"`
}

// ListStatuses returns the workflow statuses in order
func ListStatuses(c echo.Context) error {
	statuses := make([]statusResponse, 0, len(entity.AllStatuses))
	for _, s := range entity.AllStatuses {
		statuses = append(statuses, statusResponse{Value: s, Family: s.Family()})
	}
	return c.JSON(http.StatusOK, statuses)
}
