package web

import (
	"strconv"
	"strings"

	"arena/internal/combatlog"
	"arena/internal/game"
)

// StartViewModel contains data for rendering the scenario form.
type StartViewModel struct {
	Form  game.Config
	Error string // validation message shown above the form
}

// GameViewModel contains data for rendering the fight.
type GameViewModel struct {
	State game.GameState
	Lines []combatlog.Line
}

// formFromState turns the current scenario back into form values.
func formFromState(st game.GameState) game.Config {
	return game.Config{
		TacticURL:    st.TacticURL,
		PlayerHP:     strconv.Itoa(st.UserStats.MaxHP),
		PlayerItems:  strings.Join(st.UserStats.Items, ", "),
		EnemyType:    st.EnemyStats.Type,
		EnemyHP:      strconv.Itoa(st.EnemyStats.MaxHP),
		StoryOpening: st.StoryOpening,
	}
}

func (m *Match) view() GameViewModel {
	return GameViewModel{State: m.State.State(), Lines: m.Log.Lines()}
}
