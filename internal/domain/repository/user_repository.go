package repository

import (
	"context"

	"tago-service/internal/domain/entity"
)

// UserRepository defines the interface for staff account storage
type UserRepository interface {
	List(ctx context.Context) ([]entity.UserAccount, error)
	FindByID(ctx context.Context, id string) (*entity.UserAccount, error)
	FindByUsername(ctx context.Context, username string) (*entity.UserAccount, error)
	Save(ctx context.Context, user *entity.UserAccount) error
}

// EmailSettingsRepository stores the sender identity
type EmailSettingsRepository interface {
	Get(ctx context.Context) (*entity.EmailSettings, error)
	Save(ctx context.Context, settings entity.EmailSettings) error
}
