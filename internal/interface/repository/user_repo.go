package repository

import (
	"context"
	"strings"
	"sync"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
)

// KVUserRepository stores staff accounts as one JSON list
type KVUserRepository struct {
	store repository.Store
	mu    sync.Mutex
}

// NewKVUserRepository creates a user repository over store
func NewKVUserRepository(store repository.Store) *KVUserRepository {
	return &KVUserRepository{store: store}
}

func (r *KVUserRepository) load(ctx context.Context) ([]entity.UserAccount, error) {
	var users []entity.UserAccount
	if _, err := repository.LoadJSON(ctx, r.store, repository.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// List returns every account
func (r *KVUserRepository) List(ctx context.Context) ([]entity.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByID finds an account by ID
func (r *KVUserRepository) FindByID(ctx context.Context, id string) (*entity.UserAccount, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// FindByUsername finds an account by username, ignoring case
func (r *KVUserRepository) FindByUsername(ctx context.Context, username string) (*entity.UserAccount, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// Save inserts or replaces an account. Usernames are unique ignoring case.
func (r *KVUserRepository) Save(ctx context.Context, user *entity.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range users {
		if users[i].ID == user.ID {
			idx = i
			continue
		}
		if strings.EqualFold(users[i].Username, user.Username) {
			return repository.ErrDuplicate
		}
	}

	if idx >= 0 {
		users[idx] = *user
	} else {
		users = append(users, *user)
	}
	return repository.SaveJSON(ctx, r.store, repository.KeyUsers, users)
}

// KVEmailSettingsRepository stores the sender identity
type KVEmailSettingsRepository struct {
	store repository.Store
}

// NewKVEmailSettingsRepository creates an email settings repository over store
func NewKVEmailSettingsRepository(store repository.Store) *KVEmailSettingsRepository {
	return &KVEmailSettingsRepository{store: store}
}

// Get returns the stored settings, or empty settings if none were saved
func (r *KVEmailSettingsRepository) Get(ctx context.Context) (*entity.EmailSettings, error) {
	var settings entity.EmailSettings
	if _, err := repository.LoadJSON(ctx, r.store, repository.KeyEmailSettings, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save replaces the settings
func (r *KVEmailSettingsRepository) Save(ctx context.Context, settings entity.EmailSettings) error {
	return repository.SaveJSON(ctx, r.store, repository.KeyEmailSettings, settings)
}
