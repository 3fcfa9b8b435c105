// Package config reads server settings from the environment.
// A .env file in the working directory, if present, is loaded first.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Tick sources.
const (
	TickServer = "server" // the server ticks every running session
	TickClient = "client" // the shell ticks via POST /session/tick
)

type Config struct {
	Port         string        `env:"PORT"          envDefault:"5175"`
	LogLevel     string        `env:"LOG_LEVEL"     envDefault:"info"`
	LogFormat    string        `env:"LOG_FORMAT"    envDefault:"json"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	TokenSecret  string        `env:"TOKEN_SECRET"  envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"     envDefault:"1h"`
	TickSource   string        `env:"TICK_SOURCE"   envDefault:"server"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SessionTTL   time.Duration `env:"SESSION_TTL"   envDefault:"10m"`
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TickSource != TickServer && c.TickSource != TickClient {
		return fmt.Errorf("TICK_SOURCE must be %q or %q, got %q", TickServer, TickClient, c.TickSource)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.SessionTTL < time.Second {
		return fmt.Errorf("SESSION_TTL must be at least 1s, got %s", c.SessionTTL)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// SetupLogging applies the level and output format to the global logger.
func (c Config) SetupLogging() zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	var l zerolog.Logger
	if c.LogFormat == "console" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		l = zerolog.New(os.Stderr)
	}
	return l.With().Timestamp().Logger()
}
