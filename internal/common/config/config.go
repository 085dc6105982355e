package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"giveaway-bot"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`

	// Keep-alive HTTP server
	Server struct {
		Port   int    `env:"PORT" envDefault:"4000"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Discord struct {
		Token string `env:"TOKEN,required,notEmpty"`
		// Empty registers global commands.
		GuildID        string        `env:"DISCORD_GUILD_ID"`
		JoinEmoji      string        `env:"JOIN_EMOJI" envDefault:"🎉"`
		GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	}

	Store struct {
		Backend     string        `env:"STORE_BACKEND" envDefault:"memory"`
		LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"30s"`
	}

	Redis struct {
		Host         string `env:"REDIS_HOST" envDefault:"localhost"`
		Port         int    `env:"REDIS_PORT" envDefault:"6379"`
		Password     string `env:"REDIS_PASSWORD" envDefault:""`
		DB           int    `env:"REDIS_DB" envDefault:"0"`
		KeyPrefix    string `env:"REDIS_KEY_PREFIX" envDefault:"giveaway-bot:"`
		ResetOnStart bool   `env:"REDIS_RESET_ON_START" envDefault:"true"`
	}

	Notify struct {
		Concurrency int           `env:"NOTIFY_CONCURRENCY" envDefault:"5"`
		Rate        float64       `env:"NOTIFY_RATE" envDefault:"5"`
		Burst       int           `env:"NOTIFY_BURST" envDefault:"5"`
		Timeout     time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in production; variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", c.Store.Backend, StoreBackendMemory, StoreBackendRedis)
	}
	if c.Notify.Concurrency < 1 {
		return fmt.Errorf("invalid NOTIFY_CONCURRENCY: %d", c.Notify.Concurrency)
	}
	if c.Notify.Rate <= 0 || c.Notify.Burst < 1 {
		return fmt.Errorf("invalid NOTIFY_RATE/NOTIFY_BURST: %v/%d", c.Notify.Rate, c.Notify.Burst)
	}
	if c.Discord.JoinEmoji == "" {
		return fmt.Errorf("JOIN_EMOJI must not be empty")
	}
	// Reset deletes everything under the prefix.
	if c.Store.Backend == StoreBackendRedis && c.Redis.ResetOnStart && c.Redis.KeyPrefix == "" {
		return fmt.Errorf("REDIS_KEY_PREFIX must not be empty when REDIS_RESET_ON_START is set")
	}
	return nil
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
