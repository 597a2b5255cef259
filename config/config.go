package config

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Mode selects which entrypoint the configuration is validated for
type Mode string

const (
	ModeBot      Mode = "bot"
	ModeSimulate Mode = "simulate"
	ModeMigrate  Mode = "migrate"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken      string `env:"DISCORD_TOKEN"`
	DiscordGuildID    string `env:"DISCORD_GUILD_ID"`
	AnnounceChannelID string `env:"SIMULATION_CHANNEL_ID"` // Channel that receives completed runs, empty disables announcements

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Simulation configuration
	DefaultRounds int   `env:"DEFAULT_ROUNDS"     envDefault:"100"`     // Batch size when none is requested
	MaxRounds     int   `env:"MAX_ROUNDS"         envDefault:"1000000"` // Upper bound on a single batch
	Seed          int64 `env:"SIMULATION_SEED"    envDefault:"0"`       // Fixed seed for every run, 0 means seed from the clock
	Workers       int   `env:"SIMULATION_WORKERS" envDefault:"0"`       // Goroutines per batch, 0 means one per CPU
	ChunkSize     int   `env:"CHUNK_SIZE"         envDefault:"1024"`    // Rounds per random stream

	// NATS configuration
	NATSServers string `env:"NATS_SERVERS"` // Comma-separated server URLs, empty disables event forwarding

	// OpenTelemetry metrics
	OTelEnabled              bool   `env:"OTEL_ENABLED"                envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME"           envDefault:"montyhall"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE"          envDefault:"console"` // "console", "otlp" or "none"
	OTelOTLPEndpoint         string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MS"     envDefault:"60000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "text" or "json"

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

// Load reads configuration from the environment, after merging a .env file if present
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables win over it
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Workers == 0 {
		config.Workers = runtime.NumCPU()
	}

	if config.DefaultRounds < 1 {
		return nil, fmt.Errorf("DEFAULT_ROUNDS must be at least 1, got %d", config.DefaultRounds)
	}
	if config.MaxRounds < config.DefaultRounds {
		return nil, fmt.Errorf("MAX_ROUNDS (%d) must not be below DEFAULT_ROUNDS (%d)", config.MaxRounds, config.DefaultRounds)
	}
	if config.Workers < 1 {
		return nil, fmt.Errorf("SIMULATION_WORKERS must be at least 1, got %d", config.Workers)
	}
	if config.ChunkSize < 1 {
		return nil, fmt.Errorf("CHUNK_SIZE must be at least 1, got %d", config.ChunkSize)
	}
	if config.OTelExportIntervalMillis < 1 {
		return nil, fmt.Errorf("OTEL_EXPORT_INTERVAL_MS must be at least 1, got %d", config.OTelExportIntervalMillis)
	}

	return config, nil
}

// Validate checks that the settings a mode depends on are present
func (c *Config) Validate(mode Mode) error {
	if c.Environment == "test" {
		return nil
	}

	switch mode {
	case ModeBot:
		if c.DiscordToken == "" {
			return fmt.Errorf("DISCORD_TOKEN is required")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case ModeMigrate:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}

	return nil
}

// EventForwardingEnabled reports whether events are published to NATS
func (c *Config) EventForwardingEnabled() bool {
	return c.NATSServers != ""
}

// PersistenceEnabled reports whether runs can be stored
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
