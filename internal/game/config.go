package game

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ConfigError reports a Config field that could not be turned into game state.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var errNegative = errors.New("must not be negative")

// DefaultConfig is the scenario a new game starts with.
func DefaultConfig() Config {
	return Config{
		PlayerHP:     "100",
		PlayerItems:  "sword,shield",
		EnemyType:    "Dragon",
		EnemyHP:      "200",
		StoryOpening: "Once upon a time...",
	}
}

// NewState builds a fresh GameState from cfg: turn 1, not over, both sides at
// full health.
func NewState(cfg Config) (GameState, error) {
	playerHP, err := parseHP("playerHp", cfg.PlayerHP)
	if err != nil {
		return GameState{}, err
	}
	enemyHP, err := parseHP("enemyHp", cfg.EnemyHP)
	if err != nil {
		return GameState{}, err
	}

	tacticURL := strings.TrimSpace(cfg.TacticURL)
	return GameState{
		TurnCounter: 1,
		GameOver:    false,
		TacticURL:   tacticURL,
		TacticID:    TacticIDFromURL(tacticURL),
		UserStats: PlayerStats{
			HP:    playerHP,
			MaxHP: playerHP,
			Items: ParseItems(cfg.PlayerItems),
		},
		EnemyStats: EnemyStats{
			Type:  strings.TrimSpace(cfg.EnemyType),
			HP:    enemyHP,
			MaxHP: enemyHP,
		},
		StoryOpening: strings.TrimSpace(cfg.StoryOpening),
	}, nil
}

func parseHP(field, raw string) (int, error) {
	v := strings.TrimSpace(raw)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigError{Field: field, Value: raw, Err: errors.New("must be a whole number")}
	}
	if n < 0 {
		return 0, &ConfigError{Field: field, Value: raw, Err: errNegative}
	}
	return n, nil
}

// ParseItems splits a comma separated list, trimming each entry and
// dropping empty ones.
func ParseItems(raw string) []string {
	items := []string{}
	for _, it := range strings.Split(raw, ",") {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	return items
}

// TacticIDFromURL returns the last path segment of a tactic URL, or "" when
// the URL does not parse.
func TacticIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segs := strings.Split(u.Path, "/")
	return segs[len(segs)-1]
}
