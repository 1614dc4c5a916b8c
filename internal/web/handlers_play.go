package web

import (
	"errors"
	"net/http"

	"arena/internal/game"
	"arena/internal/report"
)

// GET /play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	m, _, err := s.match(w, r)
	if err != nil {
		s.log().WithError(err).Error("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, http.StatusOK, "layout.html", map[string]any{
		"Game": m.view(),
	})
}

// POST /action
//
// Blank actions and actions after the game has ended are dropped and the
// current fight is rendered unchanged. A second action while one is being
// resolved gets 409.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
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

	switch err := m.Play(formValue(r, "action")); {
	case errors.Is(err, game.ErrTurnInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		s.log().WithError(err).WithField("session", id).Debug("action ignored")
	}

	// htmx: return fragment for #game only
	s.render(w, http.StatusOK, "game.html", m.view())
}

// GET /report.pdf
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	m, _, err := s.match(w, r)
	if err != nil {
		s.log().WithError(err).Error("create session")
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	pdf, err := report.Generate(m.State.State(), m.Log.Lines(), "")
	if err != nil {
		s.log().WithError(err).Error("generate report")
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="battle-report.pdf"`)
	_, _ = w.Write(pdf)
}
