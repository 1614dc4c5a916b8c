package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"arena/internal/config"
	"arena/internal/game"
	"arena/internal/logger"
	"arena/internal/session"
	"arena/internal/tactics"
	"arena/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	defaults := game.DefaultConfig()
	if cfg.ScenarioFile != "" {
		defaults, err = game.LoadScenario(cfg.ScenarioFile)
		if err != nil {
			log.WithError(err).Fatal("load scenario")
		}
		log.WithField("file", cfg.ScenarioFile).Info("default scenario loaded")
	}

	tmpl, err := web.ParseTemplates()
	if err != nil {
		log.WithError(err).Fatal("parse templates")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := tactics.NewClient(tactics.Config{
		Endpoint: cfg.TacticsURL,
		Timeout:  cfg.TacticsTimeout,
		Log:      log,
	})

	srv := &web.Server{
		Resolver: client,
		Defaults: defaults,
		Store:    session.NewMemoryStore[*web.Match](),
		Tmpl:     tmpl,
		Log:      log,
		Ctx:      ctx,
	}

	go srv.RunEviction(ctx, cfg.SessionSweep, cfg.SessionIdle)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.Addr,
		"tactics": client.Endpoint(),
		"timeout": cfg.TacticsTimeout,
	}).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("serve")
	}
}
