// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import "math"

// Geometry holds the window and input element measurements used to
// normalize pointer input and scale motion.
type Geometry struct {
	WindowWidth   float64
	WindowHeight  float64
	WindowCenterX float64
	WindowCenterY float64
	WindowRadiusX float64
	WindowRadiusY float64

	ElementX       float64
	ElementY       float64
	ElementWidth   float64
	ElementHeight  float64
	ElementCenterX float64
	ElementCenterY float64
	ElementRangeX  float64
	ElementRangeY  float64

	windowX, windowY   bool
	elementX, elementY bool
}

// pivot returns the weighted center of a span and the larger of the two
// distances from it to the span ends.
func pivot(size, origin float64) (center, radius float64) {
	center = size * origin
	return center, math.Max(center, size-center)
}

// UpdateWindow recomputes the window measurements for each axis whose
// origin is set.
func (g *Geometry) UpdateWindow(s Size, originX, originY Opt[float64]) {
	if ox, ok := originX.Get(); ok {
		g.WindowWidth = s.Width
		g.WindowCenterX, g.WindowRadiusX = pivot(s.Width, ox)
		g.windowX = true
	}
	if oy, ok := originY.Get(); ok {
		g.WindowHeight = s.Height
		g.WindowCenterY, g.WindowRadiusY = pivot(s.Height, oy)
		g.windowY = true
	}
}

// UpdateElement recomputes the element measurements for each axis whose
// origin is set.
func (g *Geometry) UpdateElement(r Rect, originX, originY Opt[float64]) {
	if ox, ok := originX.Get(); ok {
		g.ElementX = r.Left
		g.ElementWidth = r.Width
		g.ElementCenterX, g.ElementRangeX = pivot(r.Width, ox)
		g.elementX = true
	}
	if oy, ok := originY.Get(); ok {
		g.ElementY = r.Top
		g.ElementHeight = r.Height
		g.ElementCenterY, g.ElementRangeY = pivot(r.Height, oy)
		g.elementY = true
	}
}

// HasWindow reports whether both window axes have been measured.
func (g *Geometry) HasWindow() bool {
	return g.windowX && g.windowY
}

// HasElement reports whether both element axes have been measured.
func (g *Geometry) HasElement() bool {
	return g.elementX && g.elementY
}

// Contains reports whether a window point lies inside the element bounds.
func (g *Geometry) Contains(x, y float64) bool {
	return x >= g.ElementX && x <= g.ElementX+g.ElementWidth &&
		y >= g.ElementY && y <= g.ElementY+g.ElementHeight
}

// Normalize maps a pointer position into input space, relative to either
// the element or the window. ok is false when the reference has no extent.
func (g *Geometry) Normalize(x, y float64, relative, clip bool) (nx, ny float64, ok bool) {
	if relative {
		if clip {
			x = Clamp(x, g.ElementX, g.ElementX+g.ElementWidth)
			y = Clamp(y, g.ElementY, g.ElementY+g.ElementHeight)
		}
		if !g.HasElement() || g.ElementRangeX == 0 || g.ElementRangeY == 0 {
			return 0, 0, false
		}
		return (x - g.ElementX - g.ElementCenterX) / g.ElementRangeX,
			(y - g.ElementY - g.ElementCenterY) / g.ElementRangeY, true
	}
	if !g.HasWindow() || g.WindowRadiusX == 0 || g.WindowRadiusY == 0 {
		return 0, 0, false
	}
	return (x - g.WindowCenterX) / g.WindowRadiusX,
		(y - g.WindowCenterY) / g.WindowRadiusY, true
}
