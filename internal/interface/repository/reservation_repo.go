package repository

import (
	"context"
	"sync"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
)

// KVReservationRepository keeps all reservations as one JSON list in the
// store. The mutex serialises read-modify-write cycles within the process.
type KVReservationRepository struct {
	store repository.Store
	mu    sync.Mutex
}

// NewKVReservationRepository creates a reservation repository over store
func NewKVReservationRepository(store repository.Store) *KVReservationRepository {
	return &KVReservationRepository{store: store}
}

func (r *KVReservationRepository) load(ctx context.Context) ([]entity.Reservation, error) {
	var list []entity.Reservation
	if _, err := repository.LoadJSON(ctx, r.store, repository.KeyReservations, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns every stored reservation
func (r *KVReservationRepository) List(ctx context.Context) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByID finds a reservation by ID
func (r *KVReservationRepository) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			found := list[i]
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create appends a new reservation
func (r *KVReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing.ID == reservation.ID {
			return repository.ErrDuplicate
		}
	}
	list = append(list, *reservation)
	return repository.SaveJSON(ctx, r.store, repository.KeyReservations, list)
}

// Update replaces the stored reservation if its version still matches
func (r *KVReservationRepository) Update(ctx context.Context, reservation *entity.Reservation, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != reservation.ID {
			continue
		}
		if list[i].Version != expectedVersion {
			return repository.ErrVersionConflict
		}
		list[i] = *reservation
		return repository.SaveJSON(ctx, r.store, repository.KeyReservations, list)
	}
	return repository.ErrNotFound
}

// Delete removes a reservation
func (r *KVReservationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			return repository.SaveJSON(ctx, r.store, repository.KeyReservations, list)
		}
	}
	return repository.ErrNotFound
}
