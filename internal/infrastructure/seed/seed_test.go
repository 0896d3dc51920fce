package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/internal/infrastructure/persistence"
	"tago-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seedYAML = `
airlines: [et, ly]
airlineConfigs:
  - airlineCode: ET
    recipientEmail: groups@et.example
    currency: USD
users:
  - username: admin
    password: secret
    role: admin
  - username: guest
    password: guest
    role: VIEWER
`

func writeSeed(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	return path
}

func TestLoadFile_MissingFileIsEmpty(t *testing.T) {
	file, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Empty(t, file.Airlines)
}

func TestSeeder_ApplyToEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	file, err := LoadFile(writeSeed(t))
	require.NoError(t, err)

	require.NoError(t, NewSeeder(store, nil, logger.NewNopLogger()).Apply(ctx, file))

	var codes []string
	found, err := repository.LoadJSON(ctx, store, repository.KeyAirlines, &codes)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"ET", "LY"}, codes)

	var configs map[string]entity.AirlineConfig
	_, err = repository.LoadJSON(ctx, store, repository.KeyAirlineConfigs, &configs)
	require.NoError(t, err)
	assert.Equal(t, "groups@et.example", configs["ET"].RecipientEmail)
	assert.Equal(t, entity.DefaultAirlineConfig("LY"), configs["LY"])

	var users []entity.UserAccount
	_, err = repository.LoadJSON(ctx, store, repository.KeyUsers, &users)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, entity.RoleAdmin, users[0].Role)
	assert.Equal(t, []string{"ET", "LY"}, users[0].AllowedAirlines)
	assert.Empty(t, users[1].AllowedAirlines)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("secret")))
}

func TestSeeder_NeverOverwritesExistingData(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, repository.SaveJSON(ctx, store, repository.KeyAirlines, []string{"HM"}))

	require.NoError(t, NewSeeder(store, nil, logger.NewNopLogger()).Apply(ctx, &File{}))

	var codes []string
	_, err := repository.LoadJSON(ctx, store, repository.KeyAirlines, &codes)
	require.NoError(t, err)
	assert.Equal(t, []string{"HM"}, codes)
}

type failingStore struct {
	*persistence.MemoryStore
}

func (f failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestSeeder_ReadFailureIsNotTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	inner := persistence.NewMemoryStore()
	store := failingStore{inner}

	err := NewSeeder(store, nil, logger.NewNopLogger()).Apply(ctx, &File{})

	assert.Error(t, err)
	keys, _ := inner.Keys(ctx, "")
	assert.Empty(t, keys)
}
