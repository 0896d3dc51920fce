package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Store.Get when the key has never been set.
// Any other error from Get is a read failure and must not be treated as
// "no data".
var ErrKeyNotFound = errors.New("key not found")

// Storage keys of the named JSON collections
const (
	KeyReservations   = "flight_groups_v3"
	KeyAirlineConfigs = "airline_configs_v1"
	KeyAirlines       = "airline_list_v1"
	KeyUsers          = "system_users"
	KeyEmailSettings  = "email_integration_v1"
	KeyAuditLogs      = "system_audit_logs_v1"
	KeySentPrefix     = "sent_reminders_"
)

// Store is the persistence gateway: get/set over named JSON blobs
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// LoadJSON decodes the blob stored under key into out. found is false
// when the key is absent; err is only set for read or decode failures.
func LoadJSON(ctx context.Context, store Store, key string, out interface{}) (found bool, err error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes value and stores it under key
func SaveJSON(ctx context.Context, store Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
