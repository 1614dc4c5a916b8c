package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"arena/internal/combatlog"
	"arena/internal/game"
	"arena/internal/logger"
	"arena/internal/session"
)

// Match is everything the server keeps for one player: the game session
// and the battle log listening to it.
type Match struct {
	*game.Session
	Log *combatlog.Log
}

// Close detaches the match from its bus.
func (m *Match) Close() {
	m.Log.Close()
	m.Session.Close()
}

type Server struct {
	Resolver game.Resolver
	Defaults game.Config
	Store    session.Store[*Match]
	Tmpl     *template.Template
	Log      logrus.FieldLogger

	// Ctx bounds every turn. Request contexts are not used so a player
	// closing the tab does not abort a resolution half way.
	Ctx context.Context
}

const cookieName = "arena_sid"

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/", s.handleIndex)
	r.Get("/start", s.handleStart)
	r.Post("/start", s.handleBegin)
	r.Get("/play", s.handlePlay)
	r.Post("/action", s.handleAction)
	r.Post("/reset", s.handleReset)
	r.Get("/ws", s.handleStream)
	r.Get("/report.pdf", s.handleReport)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/start", http.StatusFound)
}

// match returns the caller's match. A missing or unknown cookie gets a fresh
// server issued id and a new match; client supplied ids are never adopted.
func (s *Server) match(w http.ResponseWriter, r *http.Request) (*Match, string, error) {
	if m, id, ok := s.existing(r); ok {
		return m, id, nil
	}

	id := s.Store.NewID()
	m, err := s.newMatch(id)
	if err != nil {
		return nil, "", err
	}
	if err := s.Store.Put(r.Context(), id, m); err != nil {
		m.Close()
		return nil, "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return m, id, nil
}

// existing looks up the match named by the request's cookie.
func (s *Server) existing(r *http.Request) (*Match, string, bool) {
	id := s.sessionID(r)
	if id == "" {
		return nil, "", false
	}
	m, ok, err := s.Store.Get(r.Context(), id)
	if err != nil || !ok {
		return nil, "", false
	}
	return m, id, true
}

func (s *Server) newMatch(id string) (*Match, error) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := game.NewSession(ctx, s.Defaults, s.Resolver, s.log().WithField("session", id))
	if err != nil {
		return nil, err
	}
	s.log().WithField("session", id).Info("new session")
	return &Match{Session: sess, Log: combatlog.New(sess.Bus, sess.State)}, nil
}

// Evict closes and drops every match idle for at least maxIdle.
func (s *Server) Evict(ctx context.Context, maxIdle time.Duration) int {
	return s.Store.Sweep(ctx, maxIdle, func(id string, m *Match) {
		m.Close()
		s.log().WithField("session", id).Info("session expired")
	})
}

// RunEviction calls Evict every interval until ctx is done.
func (s *Server) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Evict(ctx, maxIdle)
		}
	}
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) log() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logger.Discard()
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log().WithError(err).WithField("template", name).Error("render failed")
	}
}
