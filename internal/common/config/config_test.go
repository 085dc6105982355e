package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Discord.Token)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "🎉", cfg.Discord.JoinEmoji)
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Notify.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.True(t, cfg.Redis.ResetOnStart)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("NOTIFY_RATE", "0.5")
	t.Setenv("LOCK_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.InDelta(t, 0.5, cfg.Notify.Rate, 1e-9)
	assert.Equal(t, 5*time.Second, cfg.Store.LockTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"zero concurrency", func(c *Config) { c.Notify.Concurrency = 0 }},
		{"zero rate", func(c *Config) { c.Notify.Rate = 0 }},
		{"empty emoji", func(c *Config) { c.Discord.JoinEmoji = "" }},
		{"redis reset without prefix", func(c *Config) {
			c.Store.Backend = StoreBackendRedis
			c.Redis.ResetOnStart = true
			c.Redis.KeyPrefix = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, validConfig().Validate())

	keep := validConfig()
	keep.Store.Backend = StoreBackendRedis
	keep.Redis.ResetOnStart = false
	assert.NoError(t, keep.Validate(), "an empty prefix is fine when nothing is reset")
}
