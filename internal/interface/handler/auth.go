package handler

import (
	"context"
	"net/http"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

const viewerKey = "viewer"

// Authenticator resolves session tokens
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*usecase.Session, error)
	Authenticate(ctx context.Context, token string) (entity.Viewer, error)
}

// RequireSession rejects requests without a valid bearer token and stores
// the caller's viewer on the context
func RequireSession(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			viewer, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}
			c.Set(viewerKey, viewer)
			return next(c)
		}
	}
}

func viewerFrom(c echo.Context) entity.Viewer {
	viewer, _ := c.Get(viewerKey).(entity.Viewer)
	return viewer
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expiresAt"`
	User      userResponse `json:"user"`
}

// userResponse is an account without its password hash
type userResponse struct {
	ID              string      `json:"id"`
	Username        string      `json:"username"`
	Role            entity.Role `json:"role"`
	FullName        string      `json:"fullName"`
	AllowedAirlines []string    `json:"allowedAirlines"`
}

func toUserResponse(u *entity.UserAccount) userResponse {
	allowed := u.AllowedAirlines
	if allowed == nil {
		allowed = []string{}
	}
	return userResponse{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		FullName:        u.FullName,
		AllowedAirlines: allowed,
	}
}

// AuthHandler serves the login endpoint
type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	session, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(timeLayout),
		User:      toUserResponse(session.User),
	})
}
