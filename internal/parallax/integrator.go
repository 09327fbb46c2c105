// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

// MotionState is the smoothed motion carried across ticks.
type MotionState struct {
	MotionX   float64 `json:"motion_x"`
	MotionY   float64 `json:"motion_y"`
	VelocityX float64 `json:"velocity_x"`
	VelocityY float64 `json:"velocity_y"`
}

// Sample is what a single tick integrates.
type Sample struct {
	InputX   float64
	InputY   float64
	Baseline Baseline
	Portrait bool
	// Width and Height are the input element dimensions.
	Width  float64
	Height float64
}

// Calibrated returns the baseline-subtracted input.
func (s Sample) Calibrated() (x, y float64) {
	return s.InputX - s.Baseline.X, s.InputY - s.Baseline.Y
}

// Advance integrates one sample: axis selection (swapped in portrait),
// scaling by the element size, clamping and exponential smoothing.
func (m *MotionState) Advance(s Sample, o *Options) {
	cx, cy := s.Calibrated()
	rawX, rawY := s.InputX, s.InputY
	if s.Portrait {
		cx, cy = cy, cx
		rawX, rawY = rawY, rawX
	}

	m.MotionX = rawX
	if o.CalibrateX {
		m.MotionX = cx
	}
	m.MotionY = rawY
	if o.CalibrateY {
		m.MotionY = cy
	}

	m.MotionX *= s.Width * (o.ScalarX / 100)
	m.MotionY *= s.Height * (o.ScalarY / 100)

	if limit, ok := o.LimitX.Get(); ok {
		m.MotionX = Clamp(m.MotionX, -limit, limit)
	}
	if limit, ok := o.LimitY.Get(); ok {
		m.MotionY = Clamp(m.MotionY, -limit, limit)
	}

	m.VelocityX = Smooth(m.VelocityX, m.MotionX, o.FrictionX)
	m.VelocityY = Smooth(m.VelocityY, m.MotionY, o.FrictionY)
}

// Offset is the translation of a layer with the given depths.
func (m *MotionState) Offset(depthX, depthY float64, o *Options) (x, y float64) {
	return LayerOffset(m.VelocityX, depthX, o.InvertX),
		LayerOffset(m.VelocityY, depthY, o.InvertY)
}
