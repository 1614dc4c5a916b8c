package tactics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"arena/internal/game"
)

const turnJSON = `{
	"user_stats": {"hp": 90, "max_hp": 100, "items": ["sword", "shield"]},
	"enemy_stats": {"type": "Dragon", "hp": 180, "max_hp": 200},
	"user_action": "swing sword",
	"enemy_action": "breathes fire",
	"player_roll": 14,
	"enemy_roll": 6,
	"player_difficulty": 10,
	"enemy_difficulty": 12,
	"player_action_result": "Your blade bites into scale.",
	"enemy_action_result": "The flames miss you."
}`

// envelope wraps an encoded turn the way the run endpoint does.
func envelope(t *testing.T, value string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"result": map[string]any{
			"content": map[string]any{"value": value},
		},
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return b
}

func testState() game.GameState {
	st, _ := game.NewState(game.Config{
		TacticURL:    "https://tactics.dev/t/dragon-duel",
		PlayerHP:     "100",
		PlayerItems:  "sword, shield",
		EnemyType:    "Dragon",
		EnemyHP:      "200",
		StoryOpening: "Once upon a time...",
	})
	return st
}

func TestExecuteTurn_Success(t *testing.T) {
	var got runRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing Content-Type header")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		_, _ = w.Write(envelope(t, turnJSON))
	}))
	defer server.Close()

	c := NewClient(Config{Endpoint: server.URL})
	st := testState()
	res, err := c.ExecuteTurn(context.Background(), st, "swing sword")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Request carries the action and the current state.
	if got.InitialVariables.Action != "swing sword" {
		t.Errorf("expected action 'swing sword', got %q", got.InitialVariables.Action)
	}
	if got.TacticID != "dragon-duel" {
		t.Errorf("expected tactic_id 'dragon-duel', got %q", got.TacticID)
	}
	if !reflect.DeepEqual(got.InitialVariables.UserStats, st.UserStats) {
		t.Errorf("expected user_stats %+v, got %+v", st.UserStats, got.InitialVariables.UserStats)
	}
	if got.InitialVariables.EnemyStats != st.EnemyStats {
		t.Errorf("expected enemy_stats %+v, got %+v", st.EnemyStats, got.InitialVariables.EnemyStats)
	}
	if got.InitialVariables.StoryOpening != "Once upon a time..." {
		t.Errorf("expected story_opening, got %q", got.InitialVariables.StoryOpening)
	}

	want := game.CombatResult{
		UserStats:          game.PlayerStats{HP: 90, MaxHP: 100, Items: []string{"sword", "shield"}},
		EnemyStats:         game.EnemyStats{Type: "Dragon", HP: 180, MaxHP: 200},
		UserAction:         "swing sword",
		EnemyAction:        "breathes fire",
		PlayerRoll:         14,
		EnemyRoll:          6,
		PlayerDifficulty:   10,
		EnemyDifficulty:    12,
		PlayerActionResult: "Your blade bites into scale.",
		EnemyActionResult:  "The flames miss you.",
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("expected %+v, got %+v", want, res)
	}
}

func TestExecuteTurn_RequestShape(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write(envelope(t, turnJSON))
	}))
	defer server.Close()

	st := testState()
	st.UserStats.Items = nil
	if _, err := NewClient(Config{Endpoint: server.URL}).ExecuteTurn(context.Background(), st, "wait"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	vars, ok := raw["initial_variables"].(map[string]any)
	if !ok {
		t.Fatalf("expected initial_variables object, got %v", raw)
	}
	for _, k := range []string{"action", "user_stats", "enemy_stats", "story_opening"} {
		if _, ok := vars[k]; !ok {
			t.Errorf("expected initial_variables.%s", k)
		}
	}
	items := vars["user_stats"].(map[string]any)["items"]
	if _, ok := items.([]any); !ok {
		t.Errorf("expected items to be sent as an array, got %v", items)
	}
	if _, ok := raw["tactic_id"].(string); !ok {
		t.Errorf("expected tactic_id string, got %v", raw["tactic_id"])
	}
}

func TestExecuteTurn_TransportErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(Config{Endpoint: server.URL}).ExecuteTurn(context.Background(), testState(), "x")
		if !IsTransport(err) {
			t.Fatalf("expected TransportError, got %v", err)
		}
		te := err.(*TransportError)
		if te.StatusCode != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", te.StatusCode)
		}
		if calls != 1 {
			t.Errorf("expected exactly one attempt, got %d", calls)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewClient(Config{Endpoint: url}).ExecuteTurn(context.Background(), testState(), "x")
		if !IsTransport(err) {
			t.Fatalf("expected TransportError, got %v", err)
		}
		if IsFormat(err) {
			t.Error("expected transport failure not to be a FormatError")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		c := NewClient(Config{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
		_, err := c.ExecuteTurn(context.Background(), testState(), "x")
		if !IsTransport(err) {
			t.Fatalf("expected TransportError, got %v", err)
		}
	})
}

func TestDecodeResult_FormatErrors(t *testing.T) {
	missingHP := `{"user_stats":{"max_hp":100,"items":[]},"enemy_stats":{"type":"Dragon","hp":1,"max_hp":2}}`
	stringHP := `{"user_stats":{"hp":"ninety","max_hp":100},"enemy_stats":{"type":"Dragon","hp":1,"max_hp":2}}`
	fractionHP := `{"user_stats":{"hp":9.5,"max_hp":100},"enemy_stats":{"type":"Dragon","hp":1,"max_hp":2}}`
	noEnemy := `{"user_stats":{"hp":9,"max_hp":100}}`
	itemsNotList := `{"user_stats":{"hp":9,"max_hp":100,"items":"sword"},"enemy_stats":{"type":"Dragon","hp":1,"max_hp":2}}`

	tests := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("<html>oops</html>")},
		{"empty object", []byte(`{}`)},
		{"missing content", []byte(`{"result":{}}`)},
		{"value not a string", []byte(`{"result":{"content":{"value":{"user_stats":{}}}}}`)},
		{"value empty", envelope(t, "")},
		{"value not json", envelope(t, "the dragon roars")},
		{"value is array", envelope(t, "[1,2]")},
		{"missing hp", envelope(t, missingHP)},
		{"hp wrong type", envelope(t, stringHP)},
		{"hp not integer", envelope(t, fractionHP)},
		{"missing enemy_stats", envelope(t, noEnemy)},
		{"items wrong type", envelope(t, itemsNotList)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResult(tt.body)
			if !IsFormat(err) {
				t.Errorf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestExecuteTurn_FormatErrorFromServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"content":{}}}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL}).ExecuteTurn(context.Background(), testState(), "x")
	if !IsFormat(err) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if IsTransport(err) {
		t.Error("expected FormatError not to be a TransportError")
	}
}

func TestExecuteTurn_OversizedResponse(t *testing.T) {
	// A valid result followed by padding past the limit.
	body := append(envelope(t, turnJSON), strings.Repeat(" ", maxResponseBytes)...)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL}).ExecuteTurn(context.Background(), testState(), "x")
	if !IsFormat(err) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("expected the error to name the size limit, got %q", err.Error())
	}
}

func TestDecodeResult_OptionalNarrative(t *testing.T) {
	body := envelope(t, `{"user_stats":{"hp":0,"max_hp":100},"enemy_stats":{"type":"Dragon","hp":15,"max_hp":200},"extra":"ignored"}`)
	res, err := DecodeResult(body)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.UserStats.HP != 0 || res.EnemyStats.HP != 15 {
		t.Errorf("expected hp 0/15, got %d/%d", res.UserStats.HP, res.EnemyStats.HP)
	}
	if !res.Defeated() {
		t.Error("expected a player at 0 hp to count as defeated")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("expected default endpoint %s, got %s", DefaultEndpoint, c.Endpoint())
	}
	if c.http.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", c.http.Timeout)
	}
}
