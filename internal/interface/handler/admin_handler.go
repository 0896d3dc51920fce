package handler

import (
	"context"
	"net/http"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UserService manages staff accounts
type UserService interface {
	List(ctx context.Context, viewer entity.Viewer) ([]entity.UserAccount, error)
	Create(ctx context.Context, viewer entity.Viewer, input usecase.NewUserInput) (*entity.UserAccount, error)
	SetAllowedAirlines(ctx context.Context, viewer entity.Viewer, userID string, airlines []string) (*entity.UserAccount, error)
}

// AirlineService manages the airline directory and configs
type AirlineService interface {
	List(ctx context.Context, viewer entity.Viewer) ([]string, error)
	Add(ctx context.Context, viewer entity.Viewer, code string) (*entity.AirlineConfig, error)
	GetConfig(ctx context.Context, viewer entity.Viewer, code string) (*entity.AirlineConfig, error)
	SaveConfig(ctx context.Context, viewer entity.Viewer, code string, config entity.AirlineConfig) (*entity.AirlineConfig, error)
}

// EmailService manages the mail integration
type EmailService interface {
	GetSettings(ctx context.Context, viewer entity.Viewer) (*entity.EmailSettings, error)
	SaveSettings(ctx context.Context, viewer entity.Viewer, settings entity.EmailSettings) error
	Test(ctx context.Context, viewer entity.Viewer, to string) (entity.SendResult, error)
}

type AdminHandler struct {
	users    UserService
	airlines AirlineService
	email    EmailService
}

func NewAdminHandler(users UserService, airlines AirlineService, email EmailService) *AdminHandler {
	return &AdminHandler{users: users, airlines: airlines, email: email}
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group) {
	users := api.Group("/users")
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.PUT("/:id/airlines", h.SetUserAirlines)

	airlines := api.Group("/airlines")
	airlines.GET("", h.ListAirlines)
	airlines.POST("", h.AddAirline)
	airlines.GET("/:code/config", h.GetAirlineConfig)
	airlines.PUT("/:code/config", h.SaveAirlineConfig)

	email := api.Group("/email")
	email.GET("/settings", h.GetEmailSettings)
	email.PUT("/settings", h.SaveEmailSettings)
	email.POST("/test", h.TestEmail)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), viewerFrom(c))
	if err != nil {
		return err
	}
	resp := make([]userResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req usecase.NewUserInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.Create(c.Request().Context(), viewerFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

type allowedAirlinesRequest struct {
	Airlines []string `json:"airlines"`
}

func (h *AdminHandler) SetUserAirlines(c echo.Context) error {
	var req allowedAirlinesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.SetAllowedAirlines(c.Request().Context(), viewerFrom(c), c.Param("id"), req.Airlines)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AdminHandler) ListAirlines(c echo.Context) error {
	codes, err := h.airlines.List(c.Request().Context(), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, codes)
}

type addAirlineRequest struct {
	Code string `json:"code"`
}

func (h *AdminHandler) AddAirline(c echo.Context) error {
	var req addAirlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	config, err := h.airlines.Add(c.Request().Context(), viewerFrom(c), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, config)
}

func (h *AdminHandler) GetAirlineConfig(c echo.Context) error {
	config, err := h.airlines.GetConfig(c.Request().Context(), viewerFrom(c), strings.ToUpper(c.Param("code")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, config)
}

func (h *AdminHandler) SaveAirlineConfig(c echo.Context) error {
	var req entity.AirlineConfig
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	config, err := h.airlines.SaveConfig(c.Request().Context(), viewerFrom(c), strings.ToUpper(c.Param("code")), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, config)
}

func (h *AdminHandler) GetEmailSettings(c echo.Context) error {
	settings, err := h.email.GetSettings(c.Request().Context(), viewerFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) SaveEmailSettings(c echo.Context) error {
	var req entity.EmailSettings
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.email.SaveSettings(c.Request().Context(), viewerFrom(c), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

type testEmailRequest struct {
	To string `json:"to"`
}

// TestEmail reports the mail result in the body; a failed send is still a
// 200 so the settings page can show the message
func (h *AdminHandler) TestEmail(c echo.Context) error {
	var req testEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.email.Test(c.Request().Context(), viewerFrom(c), req.To)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
