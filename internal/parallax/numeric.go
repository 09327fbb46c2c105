// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import "math"

// Clamp limits v to the range spanned by a and b. The bounds may be given in
// either order.
func Clamp(v, a, b float64) float64 {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MaxPrecision is the largest number of decimal digits offsets are
// written with.
const MaxPrecision = 100

// Round rounds v to the given number of decimal digits, clamped to
// [0, MaxPrecision].
func Round(v float64, digits int) float64 {
	digits = min(max(digits, 0), MaxPrecision)
	p := math.Pow(10, float64(digits))
	r := math.Round(v*p) / p
	if r == 0 {
		// drop the sign of negative zero
		return 0
	}
	return r
}

// Smooth moves velocity toward target by the friction coefficient.
func Smooth(velocity, target, friction float64) float64 {
	return velocity + (target-velocity)*friction
}

// LayerOffset is the translation of a layer of the given depth.
func LayerOffset(velocity, depth float64, invert bool) float64 {
	if invert {
		return velocity * -depth
	}
	return velocity * depth
}
