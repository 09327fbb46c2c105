// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/feed"
	"github.com/relabs-tech/parallax_computer/internal/orientation"
)

// RunMockProducer publishes a synthetic swaying pose, for driving scenes
// without hardware.
func RunMockProducer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("producer")

	pub, err := feed.NewPublisher(cfg, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer pub.Close()
	log.Info("publishing mock poses", zap.String("topic", cfg.TopicPose))

	return produce(ctx, orientation.NewMockSource(), pub, 100*time.Millisecond, nil, log)
}
