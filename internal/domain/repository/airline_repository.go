package repository

import (
	"context"

	"tago-service/internal/domain/entity"
)

// AirlineRepository defines the interface for the airline directory
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	ListCodes(ctx context.Context) ([]string, error)
	Add(ctx context.Context, code string) error
}

// AirlineConfigRepository stores per-airline reminder configuration
type AirlineConfigRepository interface {
	All(ctx context.Context) (map[string]entity.AirlineConfig, error)
	Get(ctx context.Context, code string) (*entity.AirlineConfig, error)
	Save(ctx context.Context, config entity.AirlineConfig) error
}
