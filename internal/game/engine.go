package game

import (
	"context"

	"github.com/sirupsen/logrus"

	"arena/internal/events"
	"arena/internal/logger"
)

// Resolver resolves one player action against the current state. It must not
// modify shared state; the Engine applies the result.
type Resolver interface {
	ExecuteTurn(ctx context.Context, state GameState, action string) (CombatResult, error)
}

// Engine runs turns: it announces the action, resolves it, merges the result
// into the state and announces the outcome.
type Engine struct {
	State    *StateManager
	Bus      *events.Bus
	Resolver Resolver
	Log      logrus.FieldLogger
}

// ProcessAction plays one turn. A failed resolution emits events.Error, leaves
// the state exactly as it was and returns the error. The engine does not
// refuse actions once the game is over; callers stop sending them.
func (e *Engine) ProcessAction(ctx context.Context, action string) error {
	e.Bus.Emit(events.ActionStart, action)

	before := e.State.State()
	res, err := e.Resolver.ExecuteTurn(ctx, before, action)
	if err != nil {
		e.log().WithError(err).WithField("turn", before.TurnCounter).Warn("turn failed")
		e.Bus.Emit(events.Error, err)
		return err
	}

	turn := before.TurnCounter + 1
	over := before.GameOver || res.Defeated()
	e.State.SetState(StatePatch{
		UserStats:   &res.UserStats,
		EnemyStats:  &res.EnemyStats,
		TurnCounter: &turn,
		GameOver:    &over,
	})
	e.log().WithFields(logrus.Fields{
		"turn":      turn,
		"player_hp": res.UserStats.HP,
		"enemy_hp":  res.EnemyStats.HP,
		"game_over": over,
	}).Debug("turn resolved")

	e.Bus.Emit(events.ActionComplete, res)
	return nil
}

func (e *Engine) log() logrus.FieldLogger {
	if e.Log != nil {
		return e.Log
	}
	return logger.Discard()
}
