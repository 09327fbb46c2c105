// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Pose is the canonical representation of orientation, in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is set to 0.
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	rollRad := math.Atan2(ay, az)
	pitchRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Pose{
		Roll:  rollRad * 180.0 / math.Pi,
		Pitch: pitchRad * 180.0 / math.Pi,
	}
}

// Complementary fuses integrated gyro rates with the accelerometer tilt.
// Alpha is the gyro weight, typically 0.95-0.98.
type Complementary struct {
	Alpha float64

	pose   Pose
	primed bool
}

// Update advances the filter by dt seconds. Rates are in °/s around the
// x (roll), y (pitch) and z (yaw) axes.
func (c *Complementary) Update(accel Pose, gx, gy, gz, dt float64) Pose {
	if !c.primed {
		c.pose = accel
		c.primed = true
		return c.pose
	}
	a := c.Alpha
	c.pose.Roll = a*(c.pose.Roll+gx*dt) + (1-a)*accel.Roll
	c.pose.Pitch = a*(c.pose.Pitch+gy*dt) + (1-a)*accel.Pitch
	c.pose.Yaw = math.Mod(c.pose.Yaw+gz*dt+360, 360)
	return c.pose
}
