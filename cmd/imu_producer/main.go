// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/app"
	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/logging"
)

func main() {
	configPath := flag.String("config", "./parallax_config.txt", "path to configuration file")
	flag.Parse()

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	log := logging.Must(cfg.LogLevel, cfg.LogEncoding)
	defer log.Sync()
	log.Info("starting IMU producer (MPU9250 → MQTT)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunIMUProducer(ctx, cfg, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}
