package game

// PlayerStats is the player's stat block.
type PlayerStats struct {
	HP    int      `json:"hp"`
	MaxHP int      `json:"max_hp"`
	Items []string `json:"items"`
}

// EnemyStats is the opponent's stat block.
type EnemyStats struct {
	Type  string `json:"type"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// GameState is the authoritative record of one game. It is owned by a
// StateManager and only changes through StateManager.SetState.
type GameState struct {
	TurnCounter  int         `json:"turn_counter"`
	GameOver     bool        `json:"game_over"`
	TacticURL    string      `json:"tactic_url"`
	TacticID     string      `json:"tactic_id"`
	UserStats    PlayerStats `json:"user_stats"`
	EnemyStats   EnemyStats  `json:"enemy_stats"`
	StoryOpening string      `json:"story_opening"`
}

// Clone returns a copy that shares no memory with s.
func (s GameState) Clone() GameState {
	s.UserStats = s.UserStats.clone()
	return s
}

func (p PlayerStats) clone() PlayerStats {
	if p.Items != nil {
		items := make([]string, len(p.Items))
		copy(items, p.Items)
		p.Items = items
	}
	return p
}

// Outcome values reported by GameState.Outcome.
const (
	OutcomeVictory = "victory"
	OutcomeDefeat  = "defeat"
)

// Outcome reports how the fight ended, or "" while both sides stand.
// A player at 0 hp has lost even if the enemy fell in the same turn.
func (s GameState) Outcome() string {
	switch {
	case s.UserStats.HP <= 0:
		return OutcomeDefeat
	case s.EnemyStats.HP <= 0:
		return OutcomeVictory
	default:
		return ""
	}
}

// CombatResult is the resolution of one turn as returned by the tactics
// service. The narrative and roll fields are for display only.
type CombatResult struct {
	UserStats          PlayerStats `json:"user_stats"`
	EnemyStats         EnemyStats  `json:"enemy_stats"`
	UserAction         string      `json:"user_action"`
	EnemyAction        string      `json:"enemy_action"`
	PlayerRoll         int         `json:"player_roll"`
	EnemyRoll          int         `json:"enemy_roll"`
	PlayerDifficulty   int         `json:"player_difficulty"`
	EnemyDifficulty    int         `json:"enemy_difficulty"`
	PlayerActionResult string      `json:"player_action_result"`
	EnemyActionResult  string      `json:"enemy_action_result"`
}

func (r CombatResult) PlayerSucceeded() bool { return r.PlayerRoll >= r.PlayerDifficulty }
func (r CombatResult) EnemySucceeded() bool  { return r.EnemyRoll >= r.EnemyDifficulty }

// Defeated reports whether either side is out of hit points.
func (r CombatResult) Defeated() bool {
	return r.UserStats.HP <= 0 || r.EnemyStats.HP <= 0
}

// Config is the raw scenario a player submits before a game starts. Values
// arrive as form strings and are validated by StateManager.InitializeFromConfig.
type Config struct {
	TacticURL    string `yaml:"tacticUrl" json:"tacticUrl"`
	PlayerHP     string `yaml:"playerHp" json:"playerHp"`
	PlayerItems  string `yaml:"playerItems" json:"playerItems"`
	EnemyType    string `yaml:"enemyType" json:"enemyType"`
	EnemyHP      string `yaml:"enemyHp" json:"enemyHp"`
	StoryOpening string `yaml:"storyOpening" json:"storyOpening"`
}

// StatePatch lists the GameState fields replaced by one merge. Nil fields
// are left as they are.
type StatePatch struct {
	TurnCounter  *int
	GameOver     *bool
	TacticURL    *string
	TacticID     *string
	UserStats    *PlayerStats
	EnemyStats   *EnemyStats
	StoryOpening *string
}
