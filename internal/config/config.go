// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the arena server.
type Config struct {
	Addr           string        `env:"ARENA_ADDR"            envDefault:":8080"`
	TacticsURL     string        `env:"ARENA_TACTICS_URL"     envDefault:"https://api.tactics.dev/api/run"`
	TacticsTimeout time.Duration `env:"ARENA_TACTICS_TIMEOUT" envDefault:"60s"`
	ScenarioFile   string        `env:"ARENA_SCENARIO_FILE"`
	LogLevel       string        `env:"ARENA_LOG_LEVEL"       envDefault:"info"`
	LogFormat      string        `env:"ARENA_LOG_FORMAT"      envDefault:"text"`
	SessionIdle    time.Duration `env:"ARENA_SESSION_IDLE"    envDefault:"30m"`
	SessionSweep   time.Duration `env:"ARENA_SESSION_SWEEP"   envDefault:"1m"`
}

// Load reads Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TacticsTimeout <= 0 {
		return Config{}, fmt.Errorf("ARENA_TACTICS_TIMEOUT must be positive, got %s", cfg.TacticsTimeout)
	}
	if cfg.SessionIdle <= 0 || cfg.SessionSweep <= 0 {
		return Config{}, fmt.Errorf("ARENA_SESSION_IDLE and ARENA_SESSION_SWEEP must be positive, got %s and %s",
			cfg.SessionIdle, cfg.SessionSweep)
	}
	return cfg, nil
}
