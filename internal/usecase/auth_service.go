package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionIssuer = "tago-service"

// sessionClaims is the JWT payload of a login session
type sessionClaims struct {
	jwt.RegisteredClaims
	Role entity.Role `json:"role"`
}

// Session is the result of a successful login
type Session struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	User      *entity.UserAccount `json:"-"`
}

// AuthService checks passwords and issues signed session tokens
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	clock  Clock
	logger logger.Logger
}

// NewAuthService creates an auth service signing tokens with secret
func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, clock Clock, logger logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies the credentials and issues a session token. Usernames
// match ignoring case.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("Failed login", "username", username)
		return nil, ErrInvalidCredentials
	}

	now := s.clock()
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	s.logger.Info("User logged in", "username", user.Username, "role", user.Role)
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a session token to the caller's viewer. The
// account is reloaded so role and airline changes apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (entity.Viewer, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return entity.Viewer{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return entity.Viewer{}, ErrInvalidCredentials
	} else if err != nil {
		return entity.Viewer{}, fmt.Errorf("failed to load user: %w", err)
	}

	return entity.ViewerFor(user), nil
}
