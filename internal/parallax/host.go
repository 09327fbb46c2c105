// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"strconv"
	"time"
)

// Element is an opaque handle to a visual element owned by the host.
type Element string

// Rect is an element bounding box in window coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a window size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TransformMode selects how layer offsets are written.
type TransformMode int

const (
	// TransformNone writes offsets as left/top positions.
	TransformNone TransformMode = iota
	// Transform2D writes translate(x, y).
	Transform2D
	// Transform3D writes translate3d(x, y, 0).
	Transform3D
)

func (m TransformMode) String() string {
	switch m {
	case Transform2D:
		return "2d"
	case Transform3D:
		return "3d"
	default:
		return "none"
	}
}

// ParseTransformMode parses "3d", "2d" or anything else as TransformNone.
func ParseTransformMode(s string) TransformMode {
	switch s {
	case "3d":
		return Transform3D
	case "2d":
		return Transform2D
	default:
		return TransformNone
	}
}

// Capabilities are the platform features detected once at startup.
type Capabilities struct {
	Orientation bool
	Motion      bool
	Transform   TransformMode
}

// Declaration is a single style property assignment.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Transform is a layer translation, already rounded to Precision digits.
type Transform struct {
	Mode      TransformMode
	X, Y      float64
	Precision int
}

// Declarations renders the transform as style declarations.
func (t Transform) Declarations() []Declaration {
	x := strconv.FormatFloat(t.X, 'f', t.Precision, 64) + "px"
	y := strconv.FormatFloat(t.Y, 'f', t.Precision, 64) + "px"
	switch t.Mode {
	case Transform3D:
		return []Declaration{{"transform", "translate3d(" + x + "," + y + ",0)"}}
	case Transform2D:
		return []Declaration{{"transform", "translate(" + x + "," + y + ")"}}
	default:
		return []Declaration{{"left", x}, {"top", y}}
	}
}

// AttributeReader reads raw declarative attributes of an element.
type AttributeReader interface {
	Attr(name string) (string, bool)
}

// Attributes is a map backed AttributeReader.
type Attributes map[string]string

func (a Attributes) Attr(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Document is the element tree and style sink of the host.
type Document interface {
	Attributes(el Element) AttributeReader
	// Children returns the layers of root: elements matching selector, or
	// the direct children when selector is empty.
	Children(root Element, selector string) []Element
	Find(selector string) (Element, bool)
	Bounds(el Element) (Rect, bool)
	WindowSize() Size
	SetStyle(el Element, property, value string)
	ApplyTransform(el Element, t Transform)
	ClearStyle(el Element)
}

// TickID identifies a requested animation tick.
type TickID uint64

// Timer is a pending single-shot timer.
type Timer interface {
	Stop() bool
}

// Scheduler provides animation ticks and timers. Callbacks run on the
// host's single scheduling goroutine.
type Scheduler interface {
	RequestTick(fn func()) TickID
	CancelTick(id TickID)
	AfterFunc(d time.Duration, fn func()) Timer
}

// EventTarget delivers input events to listeners on the scheduling goroutine.
type EventTarget interface {
	Listen(kind EventKind, fn func(Event)) (remove func())
}

// Host bundles everything a Scene needs from its environment.
type Host interface {
	Document
	Scheduler
	EventTarget
	Capabilities() Capabilities
}
