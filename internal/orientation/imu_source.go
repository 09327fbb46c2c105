// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"
	"time"

	"github.com/relabs-tech/parallax_computer/internal/imu"
)

// IMUSource turns raw IMU samples into fused poses.
type IMUSource struct {
	reader imu.IMURawSource
	filter Complementary
	last   time.Time
	now    func() time.Time

	// Raw is the sample behind the last pose.
	Raw imu.IMURaw
}

// NewIMUSource wraps a raw reader with a complementary filter.
func NewIMUSource(reader imu.IMURawSource) *IMUSource {
	return &IMUSource{
		reader: reader,
		filter: Complementary{Alpha: 0.98},
		now:    time.Now,
	}
}

// Next reads one sample and returns the fused pose.
func (s *IMUSource) Next() (Pose, error) {
	raw, err := s.reader.ReadRaw()
	if err != nil {
		return Pose{}, fmt.Errorf("imu source: %w", err)
	}
	s.Raw = raw

	t := s.now()
	dt := 0.0
	if !s.last.IsZero() {
		dt = t.Sub(s.last).Seconds()
	}
	s.last = t

	gx, gy, gz := raw.Rates()
	accel := ComputePoseFromAccel(float64(raw.Ax), float64(raw.Ay), float64(raw.Az))
	return s.filter.Update(accel, gx, gy, gz, dt), nil
}
