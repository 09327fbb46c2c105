// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/feed"
	"github.com/relabs-tech/parallax_computer/internal/loop"
	"github.com/relabs-tech/parallax_computer/internal/parallax"
	"github.com/relabs-tech/parallax_computer/internal/stage"
)

// localScene is a scene file drawn by this process, fed by the MQTT sensor
// feed and whatever pointer device the host has.
type localScene struct {
	log  *zap.Logger
	doc  *stage.Document
	loop *loop.Loop
	hub  *feed.Hub

	// owned by the loop
	scene *parallax.Scene
}

func newLocalScene(cfg *config.Config, clientID string, interval time.Duration, doc *stage.Document, log *zap.Logger) *localScene {
	ls := &localScene{
		log:  log,
		doc:  doc,
		loop: loop.New(interval, log),
	}
	if cfg.FeedEnabled() {
		hub, err := feed.Connect(cfg, clientID, log.Named("feed"))
		if err != nil {
			log.Warn("MQTT feed unavailable", zap.Error(err))
		} else {
			ls.hub = hub
		}
	}
	return ls
}

// run builds the scene and drives it until ctx ends. started runs once the
// scene exists and before the loop starts, so input sources hooked up there
// never see a scene without listeners. render runs after every frame on
// the loop goroutine.
func (ls *localScene) run(ctx context.Context, started func(), render func()) error {
	feedOn := ls.hub != nil
	caps := parallax.Capabilities{
		Orientation: feedOn,
		Motion:      feedOn,
		Transform:   parallax.TransformNone,
	}
	host := loop.NewHost(ls.doc, ls.loop, caps)

	// the loop is not running yet, so this goroutine owns it
	ls.scene = parallax.New(host, ls.doc.Root(),
		parallax.WithLogger(ls.log),
		parallax.WithReady(func() { ls.log.Info("input source ready") }),
	)
	ls.loop.AfterFrame(render)
	ls.log.Info("scene started",
		zap.String("scene", ls.doc.Name()),
		zap.Int("layers", len(ls.doc.Layers())),
		zap.Stringer("source", ls.scene.Source()),
		zap.Bool("feed", feedOn))

	if feedOn {
		stop := ls.hub.Attach(ls.loop)
		defer ls.hub.Close()
		defer stop()
	}
	if started != nil {
		started()
	}

	err := ls.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resize changes the document window and tells the scene. Safe from any
// goroutine.
func (ls *localScene) resize(s parallax.Size) {
	ls.loop.Post(func() { ls.doc.Resize(s) })
	ls.loop.Dispatch(parallax.ResizeEvent{})
}
