// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// IMURaw represents a single raw IMU sample.
type IMURaw struct {
	Source string `json:"source"`

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`

	// GyroRange is the full-scale selector the sample was taken with
	// (0=±250°/s .. 3=±2000°/s).
	GyroRange byte `json:"gyro_range"`
}

// IMURawSource is anything that can produce raw samples.
type IMURawSource interface {
	ReadRaw() (IMURaw, error)
}

// gyroSensitivity is LSB per °/s for each full-scale selector.
var gyroSensitivity = [4]float64{131, 65.5, 32.8, 16.4}

// GyroDPS converts a raw gyro reading to degrees per second.
func GyroDPS(raw int16, gyroRange byte) float64 {
	if int(gyroRange) >= len(gyroSensitivity) {
		gyroRange = 0
	}
	return float64(raw) / gyroSensitivity[gyroRange]
}

// Rates returns the rotation rates in degrees per second.
func (s IMURaw) Rates() (x, y, z float64) {
	return GyroDPS(s.Gx, s.GyroRange), GyroDPS(s.Gy, s.GyroRange), GyroDPS(s.Gz, s.GyroRange)
}
