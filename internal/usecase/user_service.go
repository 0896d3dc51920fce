package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"github.com/google/uuid"
)

// NewUserInput is what an admin submits to create an account
type NewUserInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     entity.Role `json:"role"`
	FullName string      `json:"fullName"`
}

// UserService manages staff accounts; every operation is admin only
type UserService struct {
	users    repository.UserRepository
	airlines repository.AirlineRepository
	logger   logger.Logger
}

// NewUserService creates a user service
func NewUserService(users repository.UserRepository, airlines repository.AirlineRepository, logger logger.Logger) *UserService {
	return &UserService{
		users:    users,
		airlines: airlines,
		logger:   logger,
	}
}

// List returns every account
func (s *UserService) List(ctx context.Context, viewer entity.Viewer) ([]entity.UserAccount, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// Create adds an account. Editors and admins start with every airline,
// viewers with none.
func (s *UserService) Create(ctx context.Context, viewer entity.Viewer, input NewUserInput) (*entity.UserAccount, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Role = entity.Role(strings.ToUpper(string(input.Role)))
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidUser)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, input.Role)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	allowed := []string{}
	if input.Role != entity.RoleViewer {
		allowed, err = s.airlines.ListCodes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list airlines: %w", err)
		}
	}

	user := &entity.UserAccount{
		ID:              uuid.NewString(),
		Username:        input.Username,
		PasswordHash:    hash,
		Role:            input.Role,
		FullName:        strings.TrimSpace(input.FullName),
		AllowedAirlines: allowed,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q", ErrDuplicate, input.Username)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("User created", "username", user.Username, "role", user.Role, "by", viewer.Username)
	return user, nil
}

// SetAllowedAirlines replaces the airlines a user may see
func (s *UserService) SetAllowedAirlines(ctx context.Context, viewer entity.Viewer, userID string, airlines []string) (*entity.UserAccount, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	allowed := make([]string, 0, len(airlines))
	seen := make(map[string]bool)
	for _, code := range airlines {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		if _, err := s.airlines.GetByCode(ctx, code); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownAirline, code)
			}
			return nil, err
		}
		seen[code] = true
		allowed = append(allowed, code)
	}

	user.AllowedAirlines = allowed
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}
