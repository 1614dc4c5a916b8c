// Package combatlog keeps the battle log of one game by listening to its
// event bus.
package combatlog

import (
	"fmt"
	"sync"

	"arena/internal/events"
	"arena/internal/game"
)

// Kind classifies a log entry.
type Kind string

const (
	KindAction   Kind = "action"
	KindResult   Kind = "result"
	KindError    Kind = "error"
	KindGameOver Kind = "game-over"
)

// ErrorText is what players see when a turn fails. The cause is only logged.
const ErrorText = "An error occurred. Please try again."

// Line is one rendered line; Class is the CSS class the page styles it with.
type Line struct {
	Class string
	Text  string
}

// Entry is one event in the log.
type Entry struct {
	Kind   Kind
	Turn   int
	Text   string
	Result *game.CombatResult
}

// Lines renders the entry for display.
func (e Entry) Lines() []Line {
	switch e.Kind {
	case KindAction:
		return []Line{{"user-input", "You attempt to: " + e.Text}}
	case KindError:
		return []Line{{"error", e.Text}}
	case KindGameOver:
		return []Line{{"game-over", e.Text}}
	case KindResult:
		if e.Result == nil {
			return nil
		}
		r := e.Result
		enemy := r.EnemyStats.Type
		if enemy == "" {
			enemy = "Enemy"
		}
		return []Line{
			{"turn-header", fmt.Sprintf("Turn %d:", e.Turn)},
			{"combat-details", "Your action: " + r.UserAction},
			rollLine(r.PlayerRoll, r.PlayerDifficulty, r.PlayerSucceeded()),
			{"combat-details", "Result: " + r.PlayerActionResult},
			{"combat-details", fmt.Sprintf("%s's action: %s", enemy, r.EnemyAction)},
			rollLine(r.EnemyRoll, r.EnemyDifficulty, r.EnemySucceeded()),
			{"combat-details", "Result: " + r.EnemyActionResult},
		}
	}
	return nil
}

func rollLine(roll, difficulty int, ok bool) Line {
	verdict, class := "FAILURE", "roll-details failure"
	if ok {
		verdict, class = "SUCCESS", "roll-details success"
	}
	return Line{class, fmt.Sprintf("Roll: %d vs difficulty %d (%s)", roll, difficulty, verdict)}
}

// StateSource is read after a turn completes to number it and detect the end
// of the fight.
type StateSource interface {
	State() game.GameState
}

// Log records the turns of one game.
type Log struct {
	state StateSource

	mu        sync.RWMutex
	entries   []Entry
	announced bool
	unsubs    []func()
}

// New creates a log subscribed to bus.
func New(bus *events.Bus, state StateSource) *Log {
	l := &Log{state: state}
	l.unsubs = []func(){
		bus.Subscribe(events.GameStart, func(any) { l.Clear() }),
		bus.Subscribe(events.ActionStart, l.onActionStart),
		bus.Subscribe(events.ActionComplete, l.onActionComplete),
		bus.Subscribe(events.Error, l.onError),
	}
	return l
}

func (l *Log) onActionStart(p any) {
	action, _ := p.(string)
	l.append(Entry{Kind: KindAction, Text: action})
}

func (l *Log) onActionComplete(p any) {
	res, ok := p.(game.CombatResult)
	if !ok {
		return
	}
	st := l.state.State()
	l.append(Entry{Kind: KindResult, Turn: st.TurnCounter - 1, Result: &res})

	if !st.GameOver {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.announced {
		return
	}
	l.announced = true
	l.entries = append(l.entries, Entry{Kind: KindGameOver, Turn: st.TurnCounter - 1, Text: gameOverText(st)})
}

func gameOverText(st game.GameState) string {
	if st.Outcome() == game.OutcomeDefeat {
		return fmt.Sprintf("You have been defeated by the %s.", st.EnemyStats.Type)
	}
	return fmt.Sprintf("Congratulations! You have slain the %s!", st.EnemyStats.Type)
}

func (l *Log) onError(any) {
	l.append(Entry{Kind: KindError, Text: ErrorText})
}

func (l *Log) append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Entries returns a copy of the log in order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines renders every entry.
func (l *Log) Lines() []Line {
	var out []Line
	for _, e := range l.Entries() {
		out = append(out, e.Lines()...)
	}
	return out
}

// Clear empties the log for a new game.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.announced = false
	l.mu.Unlock()
}

// Close unsubscribes the log from its bus.
func (l *Log) Close() {
	for _, u := range l.unsubs {
		u()
	}
	l.unsubs = nil
}
