// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"math"
	"time"
)

// Baseline is the per-axis zero offset subtracted from raw input.
type Baseline struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// calibration keeps the baseline and the one-shot "snapshot the next
// sample" flag armed by a debounce timer.
type calibration struct {
	sched   Scheduler
	base    Baseline
	pending bool
	timer   Timer
	gen     uint64
}

func newCalibration(sched Scheduler) *calibration {
	return &calibration{sched: sched}
}

// set overrides the axes that are provided.
func (c *calibration) set(x, y Opt[float64]) {
	x.assign(&c.base.X)
	y.assign(&c.base.Y)
}

// queue arms the flag after delay, replacing any pending timer.
func (c *calibration) queue(delay time.Duration) {
	c.stop()
	gen := c.gen
	c.timer = c.sched.AfterFunc(delay, func() {
		if gen != c.gen {
			return
		}
		c.timer = nil
		c.pending = true
	})
}

// force arms the flag immediately.
func (c *calibration) force() {
	c.pending = true
}

// stop cancels the pending timer. A timer that already fired into the
// scheduler queue is invalidated by the generation bump.
func (c *calibration) stop() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// observe takes the sample as the new baseline when the flag is armed.
func (c *calibration) observe(x, y float64) bool {
	if !c.pending {
		return false
	}
	c.pending = false
	c.base = Baseline{X: x, Y: y}
	return true
}

// drifted reports whether a baseline-subtracted sample exceeds threshold on
// either axis.
func drifted(calibratedX, calibratedY, threshold float64) bool {
	return math.Abs(calibratedX) > threshold || math.Abs(calibratedY) > threshold
}
