package game

import (
	"sync"

	"arena/internal/events"
)

// StateManager owns the GameState of one game. Every change goes through
// SetState, which emits a single events.StateChanged with the new state.
type StateManager struct {
	bus      *events.Bus
	defaults Config

	mu    sync.RWMutex
	state GameState
}

// NewStateManager seeds the manager from defaults. The defaults are also what
// Reset returns to.
func NewStateManager(bus *events.Bus, defaults Config) (*StateManager, error) {
	st, err := NewState(defaults)
	if err != nil {
		return nil, err
	}
	return &StateManager{bus: bus, defaults: defaults, state: st}, nil
}

// State returns a snapshot that callers may modify freely.
func (m *StateManager) State() GameState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// SetState replaces every non-nil field of p wholesale, then notifies
// subscribers once with the merged state.
func (m *StateManager) SetState(p StatePatch) {
	m.mu.Lock()
	if p.TurnCounter != nil {
		m.state.TurnCounter = *p.TurnCounter
	}
	if p.GameOver != nil {
		m.state.GameOver = *p.GameOver
	}
	if p.TacticURL != nil {
		m.state.TacticURL = *p.TacticURL
	}
	if p.TacticID != nil {
		m.state.TacticID = *p.TacticID
	}
	if p.UserStats != nil {
		m.state.UserStats = p.UserStats.clone()
	}
	if p.EnemyStats != nil {
		m.state.EnemyStats = *p.EnemyStats
	}
	if p.StoryOpening != nil {
		m.state.StoryOpening = *p.StoryOpening
	}
	snapshot := m.state.Clone()
	m.mu.Unlock()

	m.bus.Emit(events.StateChanged, snapshot)
}

// InitializeFromConfig replaces the whole state with a fresh game built from
// cfg. On a validation error the state is left untouched.
func (m *StateManager) InitializeFromConfig(cfg Config) error {
	st, err := NewState(cfg)
	if err != nil {
		return err
	}
	m.SetState(patchAll(st))
	return nil
}

// Reset starts over from the default scenario.
func (m *StateManager) Reset() error {
	return m.InitializeFromConfig(m.defaults)
}

func patchAll(st GameState) StatePatch {
	return StatePatch{
		TurnCounter:  &st.TurnCounter,
		GameOver:     &st.GameOver,
		TacticURL:    &st.TacticURL,
		TacticID:     &st.TacticID,
		UserStats:    &st.UserStats,
		EnemyStats:   &st.EnemyStats,
		StoryOpening: &st.StoryOpening,
	}
}
