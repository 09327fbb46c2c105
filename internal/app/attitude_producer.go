// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/attitude"
	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/feed"
	"github.com/relabs-tech/parallax_computer/internal/orientation"
)

// RunAttitudeProducer reads $PRDID attitude sentences from a serial
// sensor and publishes them as poses until ctx ends.
func RunAttitudeProducer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("attitude_producer")

	pub, err := feed.NewPublisher(cfg, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer pub.Close()

	serialOpts := serial.OpenOptions{
		PortName:              cfg.AttitudeSerialPort,
		BaudRate:              uint(cfg.AttitudeBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("attitude: open %s: %w", serialOpts.PortName, err)
	}
	log.Info("attitude serial port opened",
		zap.String("port", serialOpts.PortName), zap.Uint("baud", serialOpts.BaudRate))

	// closing the port unblocks the reader
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	err = stream(attitude.NewReader(port), pub, log)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// stream publishes every pose src yields until it fails. A clean end of
// input is not an error.
func stream(src orientation.Source, pub samplePublisher, log *zap.Logger) error {
	for {
		pose, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("attitude read: %w", err)
		}
		if err := pub.PublishPose(pose); err != nil {
			log.Warn("pose publish error", zap.Error(err))
			continue
		}
		log.Debug("published attitude",
			zap.Float64("roll", pose.Roll), zap.Float64("pitch", pose.Pitch), zap.Float64("heading", pose.Yaw))
	}
}
