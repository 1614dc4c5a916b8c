package game

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadScenario loads a default scenario from a YAML file. Keys that are
// missing keep the built-in defaults. The result is validated the same way
// as a submitted form.
func LoadScenario(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse scenario %s: %w", cleanPath, err)
	}
	if _, err := NewState(cfg); err != nil {
		return Config{}, fmt.Errorf("scenario %s: %w", cleanPath, err)
	}
	return cfg, nil
}
