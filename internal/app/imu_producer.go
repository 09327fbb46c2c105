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
	"github.com/relabs-tech/parallax_computer/internal/imu"
	"github.com/relabs-tech/parallax_computer/internal/orientation"
	"github.com/relabs-tech/parallax_computer/internal/sensors"
)

// samplePublisher is where producers send their samples.
type samplePublisher interface {
	PublishPose(p orientation.Pose) error
	PublishIMU(raw imu.IMURaw) error
}

// RunIMUProducer reads the MPU9250 and publishes fused poses and raw
// samples until ctx ends.
func RunIMUProducer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("imu_producer")

	reader, err := sensors.NewIMUSource(cfg, log.Named("imu"))
	if err != nil {
		return err
	}
	src := orientation.NewIMUSource(reader)

	pub, err := feed.NewPublisher(cfg, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer pub.Close()
	log.Info("connected to MQTT, starting publish loop",
		zap.String("pose_topic", cfg.TopicPose), zap.String("imu_topic", cfg.TopicIMU))

	interval := time.Duration(cfg.IMUSampleInterval) * time.Millisecond
	return produce(ctx, src, pub, interval, func() (imu.IMURaw, bool) { return src.Raw, true }, log)
}

// produce samples src every interval. raw, when set, supplies the IMU
// sample behind each pose.
func produce(ctx context.Context, src orientation.Source, pub samplePublisher, interval time.Duration,
	raw func() (imu.IMURaw, bool), log *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		pose, err := src.Next()
		if err != nil {
			log.Warn("error from orientation source", zap.Error(err))
			continue
		}
		if err := pub.PublishPose(pose); err != nil {
			log.Warn("pose publish error", zap.Error(err))
			continue
		}
		if raw != nil {
			if s, ok := raw(); ok {
				if err := pub.PublishIMU(s); err != nil {
					log.Warn("imu publish error", zap.Error(err))
				}
			}
		}
		log.Debug("published pose",
			zap.Float64("roll", pose.Roll), zap.Float64("pitch", pose.Pitch), zap.Float64("yaw", pose.Yaw))
	}
}
