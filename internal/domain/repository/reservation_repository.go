package repository

import (
	"context"

	"tago-service/internal/domain/entity"
)

// ReservationRepository defines the interface for reservation storage
type ReservationRepository interface {
	List(ctx context.Context) ([]entity.Reservation, error)
	FindByID(ctx context.Context, id string) (*entity.Reservation, error)
	Create(ctx context.Context, reservation *entity.Reservation) error
	// Update replaces the stored record. It fails with ErrVersionConflict
	// when the stored version differs from expectedVersion.
	Update(ctx context.Context, reservation *entity.Reservation, expectedVersion int) error
	Delete(ctx context.Context, id string) error
}
