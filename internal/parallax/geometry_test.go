// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometryWindow(t *testing.T) {
	var g Geometry
	g.UpdateWindow(Size{Width: 800, Height: 600}, Some(0.25), Some(0.5))

	assert.True(t, g.HasWindow())
	assert.Equal(t, 200.0, g.WindowCenterX)
	assert.Equal(t, 600.0, g.WindowRadiusX)
	assert.Equal(t, 300.0, g.WindowCenterY)
	assert.Equal(t, 300.0, g.WindowRadiusY)
}

func TestGeometryUnsetOriginFreezesAxis(t *testing.T) {
	var g Geometry
	g.UpdateElement(Rect{Left: 10, Top: 20, Width: 100, Height: 50}, Some(0.5), None[float64]())
	assert.False(t, g.HasElement())
	assert.Equal(t, 100.0, g.ElementWidth)
	assert.Equal(t, 0.0, g.ElementHeight)

	g.UpdateElement(Rect{Left: 10, Top: 20, Width: 100, Height: 50}, Some(0.5), Some(0.5))
	assert.True(t, g.HasElement())
	assert.Equal(t, 25.0, g.ElementRangeY)
}

func TestGeometryNormalize(t *testing.T) {
	var g Geometry
	g.UpdateWindow(Size{Width: 800, Height: 600}, Some(0.5), Some(0.5))
	g.UpdateElement(Rect{Left: 100, Top: 100, Width: 200, Height: 100}, Some(0.5), Some(0.5))

	x, y, ok := g.Normalize(800, 0, false, false)
	assert.True(t, ok)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, -1.0, y)

	x, y, ok = g.Normalize(200, 150, true, false)
	assert.True(t, ok)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, _, _ = g.Normalize(500, 150, true, false)
	assert.Equal(t, 3.0, x)

	x, _, _ = g.Normalize(500, 150, true, true)
	assert.Equal(t, 1.0, x, "clipped to the element edge")

	assert.True(t, g.Contains(150, 150))
	assert.False(t, g.Contains(50, 150))
}

func TestGeometryNormalizeWithoutExtent(t *testing.T) {
	var g Geometry
	g.UpdateWindow(Size{}, Some(0.5), Some(0.5))
	_, _, ok := g.Normalize(10, 10, false, false)
	assert.False(t, ok)
}
