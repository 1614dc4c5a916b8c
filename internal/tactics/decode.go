package tactics

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"arena/internal/game"
)

// envelopePath locates the encoded turn result inside a run response.
const envelopePath = "result.content.value"

type requiredField struct {
	path string
	typ  gjson.Type
}

// Fields a turn result must carry. Narrative and roll fields are optional.
var requiredFields = []requiredField{
	{"user_stats.hp", gjson.Number},
	{"user_stats.max_hp", gjson.Number},
	{"enemy_stats.hp", gjson.Number},
	{"enemy_stats.max_hp", gjson.Number},
}

// DecodeResult unwraps a run response body into a CombatResult.
func DecodeResult(body []byte) (game.CombatResult, error) {
	if !gjson.ValidBytes(body) {
		return game.CombatResult{}, &FormatError{Reason: "response is not JSON"}
	}
	value := gjson.GetBytes(body, envelopePath)
	if !value.Exists() {
		return game.CombatResult{}, &FormatError{Reason: "missing " + envelopePath}
	}
	if value.Type != gjson.String || value.Str == "" {
		return game.CombatResult{}, &FormatError{Reason: envelopePath + " is not an encoded result"}
	}

	payload := value.Str
	if !gjson.Valid(payload) {
		return game.CombatResult{}, &FormatError{Reason: "encoded result is not JSON"}
	}
	if !gjson.Parse(payload).IsObject() {
		return game.CombatResult{}, &FormatError{Reason: "encoded result is not an object"}
	}
	for _, stats := range []string{"user_stats", "enemy_stats"} {
		if !gjson.Get(payload, stats).IsObject() {
			return game.CombatResult{}, &FormatError{Reason: "missing " + stats}
		}
	}
	for _, f := range requiredFields {
		v := gjson.Get(payload, f.path)
		if !v.Exists() {
			return game.CombatResult{}, &FormatError{Reason: "missing " + f.path}
		}
		if v.Type != f.typ {
			return game.CombatResult{}, &FormatError{Reason: f.path + " has the wrong type"}
		}
	}

	var res game.CombatResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return game.CombatResult{}, &FormatError{Reason: "decode result", Err: err}
	}
	return res, nil
}
