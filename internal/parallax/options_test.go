// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAttribute(t *testing.T) {
	assert.Equal(t, true, ParseAttribute("true"))
	assert.Equal(t, false, ParseAttribute("false"))
	assert.Nil(t, ParseAttribute("null"))
	assert.Equal(t, 2.5, ParseAttribute("2.5"))
	assert.Equal(t, -3.0, ParseAttribute(" -3 "))
	assert.Equal(t, ".layer", ParseAttribute(".layer"))
	assert.Equal(t, "Infinity", ParseAttribute("Infinity"))
}

func TestAttrName(t *testing.T) {
	assert.Equal(t, "calibrate-x", AttrName("calibrateX"))
	assert.Equal(t, "clip-relative-input", AttrName("clipRelativeInput"))
	assert.Equal(t, "precision", AttrName("precision"))
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.False(t, o.CalibrateX)
	assert.True(t, o.CalibrateY)
	assert.True(t, o.InvertX)
	assert.True(t, o.InvertY)
	assert.False(t, o.LimitX.IsSet())
	assert.Equal(t, 10.0, o.ScalarX)
	assert.Equal(t, 0.1, o.FrictionY)
	assert.Equal(t, 0.5, o.OriginX.Or(0))
	assert.Equal(t, 1, o.Precision)
	assert.Equal(t, 100.0, o.CalibrationThreshold)
	assert.Equal(t, 500*time.Millisecond, o.CalibrationDelay)
	assert.Equal(t, 500*time.Millisecond, o.SupportDelay)
	assert.True(t, o.RejectZeroRotation)
}

func TestApplyAttributes(t *testing.T) {
	o := DefaultOptions()
	o.ApplyAttributes(Attributes{
		"invert-x":          "false",
		"limit-x":           "20",
		"limit-y":           "false",
		"scalar-y":          "abc",
		"friction-x":        "0.2",
		"origin-y":          "null",
		"precision":         "3",
		"calibration-delay": "250",
		"support-delay":     "-1",
		"selector":          ".layer",
		"hover-only":        "1",
	}, nil)

	assert.False(t, o.InvertX)
	limit, ok := o.LimitX.Get()
	assert.True(t, ok)
	assert.Equal(t, 20.0, limit)
	assert.False(t, o.LimitY.IsSet())
	assert.Equal(t, 10.0, o.ScalarY, "malformed keeps default")
	assert.Equal(t, 0.2, o.FrictionX)
	assert.False(t, o.OriginY.IsSet())
	assert.Equal(t, 3, o.Precision)
	assert.Equal(t, 250*time.Millisecond, o.CalibrationDelay)
	assert.Equal(t, 500*time.Millisecond, o.SupportDelay, "negative keeps default")
	assert.Equal(t, ".layer", o.Selector)
	assert.False(t, o.HoverOnly, "non-bool keeps default")
}

func TestPrecisionOutOfRangeKeepsDefault(t *testing.T) {
	for _, raw := range []string{"400", "101", "-1", "1.5"} {
		o := DefaultOptions()
		o.ApplyAttributes(Attributes{"precision": raw}, nil)
		assert.Equal(t, DefaultOptions().Precision, o.Precision, raw)
	}

	o := DefaultOptions()
	o.ApplyAttributes(Attributes{"precision": "100"}, nil)
	assert.Equal(t, MaxPrecision, o.Precision)
}

func TestTransformDeclarations(t *testing.T) {
	tr := Transform{Mode: Transform3D, X: 1.25, Y: -3, Precision: 1}
	assert.Equal(t, []Declaration{{"transform", "translate3d(1.2px,-3.0px,0)"}}, tr.Declarations())

	tr.Mode = Transform2D
	tr.Precision = 2
	assert.Equal(t, []Declaration{{"transform", "translate(1.25px,-3.00px)"}}, tr.Declarations())

	tr.Mode = TransformNone
	tr.Precision = 0
	assert.Equal(t, []Declaration{{"left", "1px"}, {"top", "-3px"}}, tr.Declarations())
}
