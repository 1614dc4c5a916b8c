package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestTacticIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://x/y/abc", "abc"},
		{"https://tactics.dev/t/dragon-fight?ref=home", "dragon-fight"},
		{"https://tactics.dev/t/dragon-fight/", ""},
		{"just-an-id", "just-an-id"},
		{"", ""},
		{"http://[::1", ""}, // does not parse
	}
	for _, tt := range tests {
		if got := TacticIDFromURL(tt.in); got != tt.want {
			t.Errorf("TacticIDFromURL(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b", []string{"a", "b"}},
		{"sword,shield", []string{"sword", "shield"}},
		{"  potion  ", []string{"potion"}},
		{"a,,b, ", []string{"a", "b"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := ParseItems(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseItems(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNewState_HPValidation(t *testing.T) {
	tests := []struct {
		name      string
		playerHP  string
		enemyHP   string
		wantField string
	}{
		{"zero is allowed", "0", "0", ""},
		{"whitespace trimmed", " 12 ", "7", ""},
		{"negative player", "-1", "10", "playerHp"},
		{"not a number", "ten", "10", "playerHp"},
		{"empty enemy", "10", "", "enemyHp"},
		{"fraction", "10", "2.5", "enemyHp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.PlayerHP = tt.playerHP
			cfg.EnemyHP = tt.enemyHP

			st, err := NewState(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if st.UserStats.HP != st.UserStats.MaxHP || st.EnemyStats.HP != st.EnemyStats.MaxHP {
					t.Errorf("Expected full health at start, got %+v", st)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestGameStateOutcome(t *testing.T) {
	st := GameState{UserStats: PlayerStats{HP: 10}, EnemyStats: EnemyStats{HP: 10}}
	if st.Outcome() != "" {
		t.Errorf("Expected no outcome, got %q", st.Outcome())
	}
	st.EnemyStats.HP = 0
	if st.Outcome() != OutcomeVictory {
		t.Errorf("Expected victory, got %q", st.Outcome())
	}
	st.UserStats.HP = 0
	if st.Outcome() != OutcomeDefeat {
		t.Errorf("Expected defeat when both fall, got %q", st.Outcome())
	}
}

func TestCombatResultRolls(t *testing.T) {
	r := CombatResult{PlayerRoll: 12, PlayerDifficulty: 12, EnemyRoll: 3, EnemyDifficulty: 9}
	if !r.PlayerSucceeded() {
		t.Error("Expected a roll equal to the difficulty to succeed")
	}
	if r.EnemySucceeded() {
		t.Error("Expected a roll below the difficulty to fail")
	}
}
