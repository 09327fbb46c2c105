// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/feed"
)

type webServer struct {
	ctx      context.Context
	cfg      *config.Config
	hub      *feed.Hub
	log      *zap.Logger
	sessions *sessionRegistry
}

// RunWeb serves the browser client and its scene sessions until ctx ends.
func RunWeb(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("web")

	var hub *feed.Hub
	if cfg.FeedEnabled() {
		h, err := feed.Connect(cfg, cfg.MQTTClientIDWeb, log.Named("feed"))
		if err != nil {
			log.Warn("MQTT feed unavailable, scenes use browser input only", zap.Error(err))
		} else {
			hub = h
			defer hub.Close()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := &webServer{
		ctx:      gctx,
		cfg:      cfg,
		hub:      hub,
		log:      log,
		sessions: newSessionRegistry(),
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: srv.routes(),
	}

	g.Go(func() error {
		log.Info("web server listening", zap.String("addr", httpSrv.Addr), zap.String("static", cfg.WebStaticDir))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (srv *webServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orientation", srv.handleOrientation)
	mux.HandleFunc("/api/sessions", srv.handleSessions)
	mux.HandleFunc("/ws/scene", srv.handleScene)
	mux.Handle("/", http.FileServer(http.Dir(srv.cfg.WebStaticDir)))
	return mux
}

func (srv *webServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.log.Warn("json encode error", zap.Error(err))
	}
}

// handleOrientation returns the latest pose from the MQTT feed.
func (srv *webServer) handleOrientation(w http.ResponseWriter, r *http.Request) {
	if srv.hub == nil {
		http.Error(w, "no feed configured", http.StatusServiceUnavailable)
		return
	}
	pose, ok := srv.hub.LastPose()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	srv.writeJSON(w, pose)
}

func (srv *webServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	list := srv.sessions.snapshot()
	srv.writeJSON(w, struct {
		Count    int           `json:"count"`
		Sessions []sessionInfo `json:"sessions"`
	}{len(list), list})
}

func (srv *webServer) handleScene(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	s := newSession(conn, srv.cfg, srv.hub, srv.log)
	srv.sessions.add(s)
	defer srv.sessions.remove(s)

	if err := s.run(srv.ctx); err != nil {
		s.log.Warn("scene session failed", zap.Error(err))
	}
}
