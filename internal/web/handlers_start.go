package web

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"arena/internal/game"
)

// maxFieldLen caps each submitted form value in bytes. Values are cut on a
// character boundary.
const maxFieldLen = 2048

func formValue(r *http.Request, key string) string {
	v := r.FormValue(key)
	if len(v) <= maxFieldLen {
		return v
	}
	cut := maxFieldLen
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}
	return v[:cut]
}

// GET /start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	m, _, err := s.match(w, r)
	if err != nil {
		s.log().WithError(err).Error("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	// Prevent caching so the form always shows the scenario in play.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	form := formFromState(m.State.State())
	if t := strings.TrimSpace(r.URL.Query().Get("tactic")); t != "" {
		form.TacticURL = t
	}
	s.render(w, http.StatusOK, "layout.html", map[string]any{
		"Start": StartViewModel{Form: form},
	})
}

// POST /start
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	m, id, err := s.match(w, r)
	if err != nil {
		s.log().WithError(err).Error("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	cfg := game.Config{
		TacticURL:    formValue(r, "tacticUrl"),
		PlayerHP:     formValue(r, "playerHp"),
		PlayerItems:  formValue(r, "playerItems"),
		EnemyType:    formValue(r, "enemyType"),
		EnemyHP:      formValue(r, "enemyHp"),
		StoryOpening: formValue(r, "storyOpening"),
	}

	var cfgErr *game.ConfigError
	switch err := m.Start(cfg); {
	case err == nil:
	case errors.Is(err, game.ErrTurnInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.As(err, &cfgErr):
		s.render(w, http.StatusBadRequest, "layout.html", map[string]any{
			"Start": StartViewModel{Form: cfg, Error: cfgErr.Error()},
		})
		return
	default:
		s.log().WithError(err).WithField("session", id).Error("start game")
		http.Error(w, "failed to start game", http.StatusInternalServerError)
		return
	}

	st := m.State.State()
	s.log().WithFields(logrus.Fields{
		"session":   id,
		"tactic_id": st.TacticID,
		"enemy":     st.EnemyStats.Type,
	}).Info("game started")
	http.Redirect(w, r, "/play", http.StatusSeeOther)
}

// POST /reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	m, _, err := s.match(w, r)
	if err != nil {
		s.log().WithError(err).Error("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	switch err := m.Reset(); {
	case errors.Is(err, game.ErrTurnInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.log().WithError(err).Error("reset game")
		http.Error(w, "failed to reset game", http.StatusInternalServerError)
		return
	}
	m.Log.Clear()
	http.Redirect(w, r, "/start", http.StatusSeeOther)
}
