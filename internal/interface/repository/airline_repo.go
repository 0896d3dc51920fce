package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository and
// migrates its table
func NewGormAirlineRepository(db *gorm.DB) (repository.AirlineRepository, error) {
	if err := db.AutoMigrate(&Airlines{}); err != nil {
		return nil, fmt.Errorf("failed to migrate airlines: %w", err)
	}
	return &GormAirlineRepository{
		db: db,
	}, nil
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&airline)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Airline{
		ID:        airline.ID,
		Code:      airline.Code,
		Name:      airline.Name,
		CreatedAt: airline.CreatedAt,
		UpdatedAt: airline.UpdatedAt,
	}, nil
}

// ListCodes returns every airline code in directory order
func (r *GormAirlineRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	result := r.db.WithContext(ctx).Model(&Airlines{}).Order("id").Pluck("code", &codes)
	if result.Error != nil {
		return nil, result.Error
	}
	return codes, nil
}

// Add inserts a new airline
func (r *GormAirlineRepository) Add(ctx context.Context, code string) error {
	if _, err := r.GetByCode(ctx, code); err == nil {
		return repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&Airlines{Code: code, Name: code}).Error
}

// KVAirlineRepository stores the airline directory as a list of codes
type KVAirlineRepository struct {
	store repository.Store
	mu    sync.Mutex
}

// NewKVAirlineRepository creates an airline directory over store
func NewKVAirlineRepository(store repository.Store) *KVAirlineRepository {
	return &KVAirlineRepository{store: store}
}

func (r *KVAirlineRepository) load(ctx context.Context) ([]string, error) {
	var codes []string
	found, err := repository.LoadJSON(ctx, r.store, repository.KeyAirlines, &codes)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]string(nil), entity.DefaultAirlines...), nil
	}
	return codes, nil
}

// GetByCode finds an airline by code
func (r *KVAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	codes, err := r.ListCodes(ctx)
	if err != nil {
		return nil, err
	}
	for i, c := range codes {
		if c == code {
			return &entity.Airline{ID: uint(i + 1), Code: c, Name: c}, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListCodes returns every airline code in directory order
func (r *KVAirlineRepository) ListCodes(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Add appends a new airline code
func (r *KVAirlineRepository) Add(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return repository.ErrDuplicate
		}
	}
	return repository.SaveJSON(ctx, r.store, repository.KeyAirlines, append(codes, code))
}

// KVAirlineConfigRepository stores every airline config in one map
type KVAirlineConfigRepository struct {
	store repository.Store
	mu    sync.Mutex
}

// NewKVAirlineConfigRepository creates a config repository over store
func NewKVAirlineConfigRepository(store repository.Store) *KVAirlineConfigRepository {
	return &KVAirlineConfigRepository{store: store}
}

func (r *KVAirlineConfigRepository) load(ctx context.Context) (map[string]entity.AirlineConfig, error) {
	configs := make(map[string]entity.AirlineConfig)
	if _, err := repository.LoadJSON(ctx, r.store, repository.KeyAirlineConfigs, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = make(map[string]entity.AirlineConfig)
	}
	return configs, nil
}

// All returns every config keyed by airline code
func (r *KVAirlineConfigRepository) All(ctx context.Context) (map[string]entity.AirlineConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Get returns the config of one airline
func (r *KVAirlineConfigRepository) Get(ctx context.Context, code string) (*entity.AirlineConfig, error) {
	configs, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	config, ok := configs[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &config, nil
}

// Save replaces the config of config.AirlineCode
func (r *KVAirlineConfigRepository) Save(ctx context.Context, config entity.AirlineConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	configs, err := r.load(ctx)
	if err != nil {
		return err
	}
	configs[config.AirlineCode] = config
	return repository.SaveJSON(ctx, r.store, repository.KeyAirlineConfigs, configs)
}
