package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageBadger, cfg.StorageDriver)
	assert.Equal(t, 60*time.Second, cfg.DispatchInterval)
	assert.Equal(t, 9, cfg.DispatchHour)
	assert.Equal(t, 3, cfg.SentRetentionDays)
	assert.Equal(t, "Asia/Jerusalem", cfg.Location().String())
	assert.False(t, cfg.GmailEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Mongo")
	t.Setenv("DISPATCH_INTERVAL", "5s")
	t.Setenv("DISPATCH_TIMEZONE", "UTC")
	t.Setenv("GMAIL_CLIENT_ID", "id")
	t.Setenv("GMAIL_CLIENT_SECRET", "secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "token")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.DispatchInterval)
	assert.Equal(t, time.UTC.String(), cfg.Location().String())
	assert.True(t, cfg.GmailEnabled())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.StorageDriver = "redis" }},
		{"hour out of range", func(c *Config) { c.DispatchHour = 24 }},
		{"zero interval", func(c *Config) { c.DispatchInterval = 0 }},
		{"bad timezone", func(c *Config) { c.DispatchTimezone = "Mars/Olympus" }},
		{"no retention", func(c *Config) { c.SentRetentionDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StorageDriver:     StorageMemory,
				DispatchHour:      9,
				DispatchInterval:  time.Minute,
				DispatchTimezone:  "UTC",
				SentRetentionDays: 3,
			}
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
