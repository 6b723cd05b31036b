package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Discord   DiscordConfig
	Redis     RedisConfig
	Dialog    DialogConfig
	Telemetry TelemetryConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration. URL wins over the
// address fields when set.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// DialogConfig holds test dialog configuration
type DialogConfig struct {
	ScriptsPath string        `env:"TEST_DIALOG_SCRIPTS" envDefault:"configs/scripts.yaml"`
	RollMode    string        `env:"TEST_DIALOG_ROLL_MODE" envDefault:"publicroll"`
	ResultTTL   time.Duration `env:"TEST_RESULT_TTL" envDefault:"168h"`
}

// TelemetryConfig holds tracing configuration. Tracing is off without an endpoint.
type TelemetryConfig struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"dnd-test-dialog"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if !validRollMode(cfg.Dialog.RollMode) {
		return nil, dnderr.InvalidArgumentf("TEST_DIALOG_ROLL_MODE %q is not a known roll mode", cfg.Dialog.RollMode)
	}
	if cfg.Dialog.ResultTTL <= 0 {
		return nil, dnderr.InvalidArgument("TEST_RESULT_TTL must be positive")
	}

	return cfg, nil
}

// Validate checks the settings the Discord bot needs
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Discord.AppID == "" {
		return fmt.Errorf("DISCORD_APP_ID is required")
	}
	return nil
}

// RollMode returns the configured default roll mode
func (c *Config) RollMode() dialog.RollMode {
	return dialog.RollMode(c.Dialog.RollMode)
}

func validRollMode(mode string) bool {
	for _, m := range dialog.RollModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}
