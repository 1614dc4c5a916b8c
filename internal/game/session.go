package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"arena/internal/events"
)

// Errors returned by Session.Play when an action is not sent.
var (
	ErrBlankAction    = errors.New("action is empty")
	ErrGameOver       = errors.New("game is over")
	ErrTurnInProgress = errors.New("a turn is already being resolved")
)

// Session is one game: its bus, its state and the engine running its turns.
// It is created once per player and handed to every component that needs it.
type Session struct {
	Bus    *events.Bus
	State  *StateManager
	Engine *Engine

	ctx   context.Context
	turn  sync.Mutex
	unsub func()
}

// NewSession wires a fresh game. Turns triggered through events.PlayerAction
// run under ctx.
func NewSession(ctx context.Context, defaults Config, r Resolver, log logrus.FieldLogger) (*Session, error) {
	bus := events.NewBus()
	sm, err := NewStateManager(bus, defaults)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Bus:    bus,
		State:  sm,
		Engine: &Engine{State: sm, Bus: bus, Resolver: r, Log: log},
		ctx:    ctx,
	}
	s.unsub = bus.Subscribe(events.PlayerAction, func(p any) {
		action, _ := p.(string)
		// The outcome is reported through ActionComplete or Error.
		_ = s.Engine.ProcessAction(s.ctx, action)
	})
	return s, nil
}

// Play sends a player action unless it is blank, the game is over or another
// turn is still being resolved. It returns once the turn has finished.
// The action is sent as typed; trimming only decides whether it is blank.
func (s *Session) Play(action string) error {
	if strings.TrimSpace(action) == "" {
		return ErrBlankAction
	}
	if !s.turn.TryLock() {
		return ErrTurnInProgress
	}
	defer s.turn.Unlock()

	if s.State.State().GameOver {
		return ErrGameOver
	}
	s.Bus.Emit(events.PlayerAction, action)
	return nil
}

// Start applies a submitted scenario and announces the new game.
func (s *Session) Start(cfg Config) error {
	if !s.turn.TryLock() {
		return ErrTurnInProgress
	}
	defer s.turn.Unlock()

	if err := s.State.InitializeFromConfig(cfg); err != nil {
		return err
	}
	s.Bus.Emit(events.GameStart, cfg)
	return nil
}

// Reset returns the game to its default scenario.
func (s *Session) Reset() error {
	if !s.turn.TryLock() {
		return ErrTurnInProgress
	}
	defer s.turn.Unlock()
	return s.State.Reset()
}

// Close detaches the session from player actions.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}
