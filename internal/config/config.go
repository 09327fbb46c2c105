// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT. An empty broker disables the sensor feed.
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicPose string
	TopicIMU  string

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange      byte
	IMUSampleInterval int // milliseconds

	// Serial attitude sensor (NMEA $PRDID)
	AttitudeSerialPort string
	AttitudeBaudRate   int

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Scenes
	FrameInterval int // milliseconds between animation ticks
	SceneFile     string

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds

	// Logging
	LogLevel    string
	LogEncoding string
}

// Default returns the configuration used for keys the file omits.
func Default() *Config {
	return &Config{
		MQTTClientIDProducer:  "parallax-producer",
		MQTTClientIDWeb:       "parallax-web",
		MQTTClientIDConsole:   "parallax-console",
		MQTTClientIDDisplay:   "parallax-display",
		TopicPose:             "inertial/pose",
		TopicIMU:              "inertial/imu/left",
		IMUSPIDevice:          "/dev/spidev6.0",
		IMUCSPin:              "18",
		IMUSampleInterval:     20,
		AttitudeSerialPort:    "/dev/serial0",
		AttitudeBaudRate:      9600,
		WebServerPort:         8080,
		WebStaticDir:          "web",
		FrameInterval:         16,
		SceneFile:             "scenes/hero.yaml",
		DisplayUpdateInterval: 50,
		LogLevel:              "info",
		LogEncoding:           "console",
	}
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// intInRange parses value and checks it against [min, max].
func intInRange(key, value string, min, max int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, min, max, v)
	}
	return v, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	var n int

	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_IMU":
		c.TopicIMU = value

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		if n, err = intInRange(key, value, 0, 3); err == nil {
			c.IMUAccelRange = byte(n)
		}
	case "IMU_GYRO_RANGE":
		if n, err = intInRange(key, value, 0, 3); err == nil {
			c.IMUGyroRange = byte(n)
		}
	case "IMU_SAMPLE_INTERVAL":
		if n, err = intInRange(key, value, 1, 60_000); err == nil {
			c.IMUSampleInterval = n
		}

	// Serial attitude sensor
	case "ATTITUDE_SERIAL_PORT":
		c.AttitudeSerialPort = value
	case "ATTITUDE_BAUD_RATE":
		if n, err = intInRange(key, value, 1, 4_000_000); err == nil {
			c.AttitudeBaudRate = n
		}

	// Web Server
	case "WEB_SERVER_PORT":
		if n, err = intInRange(key, value, 1, 65535); err == nil {
			c.WebServerPort = n
		}
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Scenes
	case "FRAME_INTERVAL":
		if n, err = intInRange(key, value, 1, 1000); err == nil {
			c.FrameInterval = n
		}
	case "SCENE_FILE":
		c.SceneFile = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		if n, err = intInRange(key, value, 1, 60_000); err == nil {
			c.DisplayUpdateInterval = n
		}

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = value
	case "LOG_ENCODING":
		c.LogEncoding = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker != "" && c.TopicPose == "" {
		return fmt.Errorf("TOPIC_POSE is required when MQTT_BROKER is set")
	}
	if c.SceneFile == "" {
		return fmt.Errorf("SCENE_FILE is required")
	}
	return nil
}

// FeedEnabled reports whether a broker is configured.
func (c *Config) FeedEnabled() bool {
	return c.MQTTBroker != ""
}

// Frame returns the animation tick interval.
func (c *Config) Frame() time.Duration {
	return time.Duration(c.FrameInterval) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
