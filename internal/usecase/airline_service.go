package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"github.com/google/uuid"
)

var airlineCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// AirlineService manages the airline directory and per-airline settings
type AirlineService struct {
	airlines repository.AirlineRepository
	configs  repository.AirlineConfigRepository
	logger   logger.Logger
}

// NewAirlineService creates an airline service
func NewAirlineService(airlines repository.AirlineRepository, configs repository.AirlineConfigRepository, logger logger.Logger) *AirlineService {
	return &AirlineService{
		airlines: airlines,
		configs:  configs,
		logger:   logger,
	}
}

// List returns the airline codes visible to viewer
func (s *AirlineService) List(ctx context.Context, viewer entity.Viewer) ([]string, error) {
	codes, err := s.airlines.ListCodes(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]string, 0, len(codes))
	for _, code := range codes {
		if viewer.CanSee(code) {
			visible = append(visible, code)
		}
	}
	return visible, nil
}

// Add registers a new airline with the default config
func (s *AirlineService) Add(ctx context.Context, viewer entity.Viewer, code string) (*entity.AirlineConfig, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if !airlineCodePattern.MatchString(code) {
		return nil, fmt.Errorf("%w: airline code %q", ErrInvalidConfig, code)
	}

	if err := s.airlines.Add(ctx, code); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: airline %s", ErrDuplicate, code)
		}
		return nil, fmt.Errorf("failed to add airline: %w", err)
	}

	config, err := s.configs.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		defaults := entity.DefaultAirlineConfig(code)
		if err := s.configs.Save(ctx, defaults); err != nil {
			return nil, fmt.Errorf("failed to save airline config: %w", err)
		}
		config = &defaults
	} else if err != nil {
		return nil, err
	}

	s.logger.Info("Airline added", "code", code, "by", viewer.Username)
	return config, nil
}

// GetConfig returns the config of a visible airline, or its defaults if
// none was saved
func (s *AirlineService) GetConfig(ctx context.Context, viewer entity.Viewer, code string) (*entity.AirlineConfig, error) {
	if !viewer.CanSee(code) {
		return nil, ErrForbidden
	}
	if _, err := s.airlines.GetByCode(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	config, err := s.configs.Get(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		defaults := entity.DefaultAirlineConfig(code)
		return &defaults, nil
	}
	return config, err
}

// SaveConfig replaces an airline's config; admins only
func (s *AirlineService) SaveConfig(ctx context.Context, viewer entity.Viewer, code string, config entity.AirlineConfig) (*entity.AirlineConfig, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	if _, err := s.airlines.GetByCode(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	config.AirlineCode = code
	config.RecipientEmail = strings.TrimSpace(config.RecipientEmail)
	if config.Currency == "" {
		config.Currency = entity.CurrencyUSD
	}
	if !config.Currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidConfig, config.Currency)
	}
	for i := range config.Reminders {
		if config.Reminders[i].ID == "" {
			config.Reminders[i].ID = uuid.NewString()
		}
		if config.Reminders[i].DaysBefore < 0 {
			return nil, fmt.Errorf("%w: daysBefore must not be negative", ErrInvalidConfig)
		}
	}
	if config.Reminders == nil {
		config.Reminders = []entity.CustomReminder{}
	}

	if err := s.configs.Save(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save airline config: %w", err)
	}
	return &config, nil
}
