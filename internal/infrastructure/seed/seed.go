package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// User is an account declared in the seed file. Password is plaintext in
// the file and hashed before it is stored.
type User struct {
	Username        string      `yaml:"username"`
	Password        string      `yaml:"password"`
	Role            entity.Role `yaml:"role"`
	FullName        string      `yaml:"fullName"`
	AllowedAirlines []string    `yaml:"allowedAirlines"`
}

// File is the initial data written to an empty store
type File struct {
	Airlines       []string               `yaml:"airlines"`
	AirlineConfigs []entity.AirlineConfig `yaml:"airlineConfigs"`
	Users          []User                 `yaml:"users"`
	EmailSettings  entity.EmailSettings   `yaml:"emailSettings"`
}

// LoadFile reads a seed file. A missing file yields an empty File so the
// built-in defaults apply.
func LoadFile(path string) (*File, error) {
	file := &File{}
	if path == "" {
		return file, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return file, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return file, nil
}

// Seeder writes initial data for every collection that has never been
// stored. Existing data is never overwritten, and a read failure stops
// seeding instead of being mistaken for an empty store.
type Seeder struct {
	store    repository.Store
	airlines repository.AirlineRepository
	logger   logger.Logger
}

// NewSeeder creates a seeder. airlines may be nil when the directory lives
// in the store itself.
func NewSeeder(store repository.Store, airlines repository.AirlineRepository, logger logger.Logger) *Seeder {
	return &Seeder{
		store:    store,
		airlines: airlines,
		logger:   logger,
	}
}

// Apply seeds every absent collection from file
func (s *Seeder) Apply(ctx context.Context, file *File) error {
	codes := normalizeCodes(file.Airlines)
	if len(codes) == 0 {
		codes = append([]string(nil), entity.DefaultAirlines...)
	}

	if err := s.seedKey(ctx, repository.KeyAirlines, codes); err != nil {
		return err
	}
	if err := s.seedDirectory(ctx, codes); err != nil {
		return err
	}

	configs := make(map[string]entity.AirlineConfig, len(codes))
	for _, code := range codes {
		configs[code] = entity.DefaultAirlineConfig(code)
	}
	for _, config := range file.AirlineConfigs {
		config.AirlineCode = strings.ToUpper(config.AirlineCode)
		configs[config.AirlineCode] = config
	}
	if err := s.seedKey(ctx, repository.KeyAirlineConfigs, configs); err != nil {
		return err
	}

	users, err := buildUsers(file.Users, codes)
	if err != nil {
		return err
	}
	if err := s.seedKey(ctx, repository.KeyUsers, users); err != nil {
		return err
	}

	if err := s.seedKey(ctx, repository.KeyReservations, []entity.Reservation{}); err != nil {
		return err
	}
	if err := s.seedKey(ctx, repository.KeyEmailSettings, file.EmailSettings); err != nil {
		return err
	}
	return s.seedKey(ctx, repository.KeyAuditLogs, []*entity.AuditLogEntry{})
}

func (s *Seeder) seedKey(ctx context.Context, key string, value interface{}) error {
	_, err := s.store.Get(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrKeyNotFound) {
		return fmt.Errorf("failed to check %s: %w", key, err)
	}

	if err := repository.SaveJSON(ctx, s.store, key, value); err != nil {
		return err
	}
	s.logger.Info("Seeded collection", "key", key)
	return nil
}

func (s *Seeder) seedDirectory(ctx context.Context, codes []string) error {
	if s.airlines == nil {
		return nil
	}
	existing, err := s.airlines.ListCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list airlines: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, code := range codes {
		if err := s.airlines.Add(ctx, code); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("failed to add airline %s: %w", code, err)
		}
	}
	s.logger.Info("Seeded airline directory", "count", len(codes))
	return nil
}

func buildUsers(seeds []User, codes []string) ([]entity.UserAccount, error) {
	users := make([]entity.UserAccount, 0, len(seeds))
	for _, seed := range seeds {
		role := entity.Role(strings.ToUpper(string(seed.Role)))
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %q has unknown role %q", seed.Username, seed.Role)
		}
		if seed.Username == "" || seed.Password == "" {
			return nil, fmt.Errorf("seed users need a username and password")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of %s: %w", seed.Username, err)
		}

		allowed := normalizeCodes(seed.AllowedAirlines)
		if seed.AllowedAirlines == nil && role != entity.RoleViewer {
			allowed = append([]string(nil), codes...)
		}

		users = append(users, entity.UserAccount{
			ID:              uuid.NewString(),
			Username:        seed.Username,
			PasswordHash:    string(hash),
			Role:            role,
			FullName:        seed.FullName,
			AllowedAirlines: allowed,
		})
	}
	return users, nil
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}
