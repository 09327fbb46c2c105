// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configures a Scene.
type Options struct {
	CalibrateX bool
	CalibrateY bool
	InvertX    bool
	InvertY    bool

	// LimitX and LimitY clamp the motion magnitude; unset disables clamping.
	LimitX    Opt[float64]
	LimitY    Opt[float64]
	ScalarX   float64
	ScalarY   float64
	FrictionX float64
	FrictionY float64

	// OriginX and OriginY are the pivot of the geometry calculations; an
	// unset origin freezes that axis' geometry.
	OriginX   Opt[float64]
	OriginY   Opt[float64]
	Precision int

	RelativeInput     bool
	ClipRelativeInput bool
	HoverOnly         bool
	PointerEvents     bool

	CalibrationThreshold float64
	CalibrationDelay     time.Duration
	SupportDelay         time.Duration

	// Selector picks the layers; empty means the root's direct children.
	Selector string
	// InputElement is the pointer and geometry reference; empty means root.
	InputElement string

	// RejectZeroRotation drops motion samples whose rotation rate is exactly
	// zero on either axis.
	RejectZeroRotation bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		CalibrateX:           false,
		CalibrateY:           true,
		InvertX:              true,
		InvertY:              true,
		ScalarX:              10.0,
		ScalarY:              10.0,
		FrictionX:            0.1,
		FrictionY:            0.1,
		OriginX:              Some(0.5),
		OriginY:              Some(0.5),
		Precision:            1,
		CalibrationThreshold: 100,
		CalibrationDelay:     500 * time.Millisecond,
		SupportDelay:         500 * time.Millisecond,
		RejectZeroRotation:   true,
	}
}

// ParseAttribute deserializes an attribute string: "true" and "false" become
// bool, "null" becomes nil, finite numbers become float64 and anything else
// stays a string.
func ParseAttribute(raw string) any {
	s := strings.TrimSpace(raw)
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return raw
}

// AttrName converts an option name such as "calibrateX" to its attribute
// form "calibrate-x".
func AttrName(option string) string {
	var b strings.Builder
	for i, r := range option {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ApplyAttributes overrides options with the attributes present in r.
// Malformed values are logged and leave the option unchanged.
func (o *Options) ApplyAttributes(r AttributeReader, log *zap.Logger) {
	if r == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	read := func(option string) (any, bool) {
		raw, ok := r.Attr(AttrName(option))
		if !ok {
			return nil, false
		}
		return ParseAttribute(raw), true
	}
	warn := func(option string, v any) {
		log.Warn("ignoring malformed option",
			zap.String("option", option), zap.Any("value", v))
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"calibrateX", &o.CalibrateX},
		{"calibrateY", &o.CalibrateY},
		{"invertX", &o.InvertX},
		{"invertY", &o.InvertY},
		{"relativeInput", &o.RelativeInput},
		{"clipRelativeInput", &o.ClipRelativeInput},
		{"hoverOnly", &o.HoverOnly},
		{"pointerEvents", &o.PointerEvents},
		{"rejectZeroRotation", &o.RejectZeroRotation},
	}
	for _, f := range bools {
		if v, ok := read(f.name); ok {
			if b, isBool := v.(bool); isBool {
				*f.dst = b
			} else {
				warn(f.name, v)
			}
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"scalarX", &o.ScalarX},
		{"scalarY", &o.ScalarY},
		{"frictionX", &o.FrictionX},
		{"frictionY", &o.FrictionY},
		{"calibrationThreshold", &o.CalibrationThreshold},
	}
	for _, f := range floats {
		if v, ok := read(f.name); ok {
			if n, isNum := v.(float64); isNum {
				*f.dst = n
			} else {
				warn(f.name, v)
			}
		}
	}

	// limit accepts false (disabled) or a number.
	limits := []struct {
		name string
		dst  *Opt[float64]
	}{
		{"limitX", &o.LimitX},
		{"limitY", &o.LimitY},
	}
	for _, f := range limits {
		if v, ok := read(f.name); ok {
			switch t := v.(type) {
			case float64:
				*f.dst = Some(t)
			case bool:
				if t {
					warn(f.name, v)
				} else {
					*f.dst = None[float64]()
				}
			case nil:
				*f.dst = None[float64]()
			default:
				warn(f.name, v)
			}
		}
	}

	origins := []struct {
		name string
		dst  *Opt[float64]
	}{
		{"originX", &o.OriginX},
		{"originY", &o.OriginY},
	}
	for _, f := range origins {
		if v, ok := read(f.name); ok {
			switch t := v.(type) {
			case float64:
				*f.dst = Some(t)
			case nil:
				*f.dst = None[float64]()
			default:
				warn(f.name, v)
			}
		}
	}

	if v, ok := read("precision"); ok {
		if n, isNum := v.(float64); isNum && n >= 0 && n <= MaxPrecision && n == math.Trunc(n) {
			o.Precision = int(n)
		} else {
			warn("precision", v)
		}
	}

	delays := []struct {
		name string
		dst  *time.Duration
	}{
		{"calibrationDelay", &o.CalibrationDelay},
		{"supportDelay", &o.SupportDelay},
	}
	for _, f := range delays {
		if v, ok := read(f.name); ok {
			if n, isNum := v.(float64); isNum && n >= 0 {
				*f.dst = time.Duration(n * float64(time.Millisecond))
			} else {
				warn(f.name, v)
			}
		}
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"selector", &o.Selector},
		{"inputElement", &o.InputElement},
	} {
		if v, ok := read(f.name); ok {
			switch t := v.(type) {
			case string:
				*f.dst = t
			case nil:
				*f.dst = ""
			default:
				*f.dst = fmt.Sprint(t)
			}
		}
	}
}
