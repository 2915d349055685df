package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process configuration, loaded from the environment
type Config struct {
	// DiscordToken is the bot token; required
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// ApplicationID is the Discord application ID
	ApplicationID string `env:"APPLICATION_ID"`

	// GuildID scopes slash commands to one guild during development
	GuildID string `env:"GUILD_ID"`

	// RedisAddr is the Redis host:port
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword is the Redis password, if any
	RedisPassword string `env:"REDIS_PASSWORD"`

	// PollWindow is how long the book-selection poll stays open
	PollWindow time.Duration `env:"POLL_WINDOW" envDefault:"48h"`

	// SweepInterval is how often the reconciliation sweep runs
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`

	// Debug switches the logger to development output
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads configuration from a .env file (when present) and the
// environment
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}
