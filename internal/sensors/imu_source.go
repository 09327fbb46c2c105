// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/parallax_computer/internal/config"
	imu_raw "github.com/relabs-tech/parallax_computer/internal/imu"
)

var accelRangeG = []int{2, 4, 8, 16}
var gyroRangeDPS = []int{250, 500, 1000, 2000}

type imuSource struct {
	imu       *mpu9250.MPU9250
	gyroRange byte
}

// NewIMUSource initializes the MPU9250 on the configured SPI device.
func NewIMUSource(cfg *config.Config, log *zap.Logger) (imu_raw.IMURawSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("IMU: periph host init: %w", err)
	}

	cs := gpioreg.ByName(cfg.IMUCSPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU: CS pin %q not found", cfg.IMUCSPin)
	}

	tr, err := mpu9250.NewSpiTransport(cfg.IMUSPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU: SPI transport (%s): %w", cfg.IMUSPIDevice, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("IMU: device creation: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU: initialization: %w", err)
	}

	if err := dev.SetAccelRange(cfg.IMUAccelRange); err != nil {
		return nil, fmt.Errorf("IMU: set accel range: %w", err)
	}
	log.Info("IMU accelerometer range set",
		zap.Uint8("range", cfg.IMUAccelRange), zap.Int("g", accelRangeG[cfg.IMUAccelRange]))

	if err := dev.SetGyroRange(cfg.IMUGyroRange); err != nil {
		return nil, fmt.Errorf("IMU: set gyro range: %w", err)
	}
	log.Info("IMU gyroscope range set",
		zap.Uint8("range", cfg.IMUGyroRange), zap.Int("dps", gyroRangeDPS[cfg.IMUGyroRange]))

	if _, err := dev.SelfTest(); err != nil {
		log.Warn("IMU self-test failed", zap.Error(err))
	} else {
		log.Info("IMU self-test passed")
	}

	if err := dev.Calibrate(); err != nil {
		log.Warn("IMU calibration failed", zap.Error(err))
	} else {
		log.Info("IMU calibration complete")
	}

	return &imuSource{imu: dev, gyroRange: cfg.IMUGyroRange}, nil
}

// ReadRaw reads accelerometer and gyroscope data.
func (s *imuSource) ReadRaw() (imu_raw.IMURaw, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU accel X: %w", err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU accel Y: %w", err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU accel Z: %w", err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu_raw.IMURaw{}, fmt.Errorf("IMU gyro Z: %w", err)
	}

	return imu_raw.IMURaw{
		Source:    "mpu9250",
		Ax:        ax,
		Ay:        ay,
		Az:        az,
		Gx:        gx,
		Gy:        gy,
		Gz:        gz,
		GyroRange: s.gyroRange,
	}, nil
}
