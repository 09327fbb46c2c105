// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

// EventKind names an input event stream.
type EventKind string

const (
	KindOrientation EventKind = "orientation"
	KindMotion      EventKind = "motion"
	KindPointer     EventKind = "pointer"
	KindResize      EventKind = "resize"
)

// Event is any input event.
type Event interface {
	Kind() EventKind
}

// OrientationEvent carries device tilt in degrees.
type OrientationEvent struct {
	Beta  Opt[float64]
	Gamma Opt[float64]
}

func (OrientationEvent) Kind() EventKind { return KindOrientation }

// MotionEvent carries the device rotation rate in degrees per second.
type MotionEvent struct {
	RotationBeta  Opt[float64]
	RotationGamma Opt[float64]
}

func (MotionEvent) Kind() EventKind { return KindMotion }

// PointerEvent carries the pointer position in window coordinates.
type PointerEvent struct {
	ClientX float64
	ClientY float64
}

func (PointerEvent) Kind() EventKind { return KindPointer }

// ResizeEvent signals a window size change. The new size is read from the
// Document.
type ResizeEvent struct{}

func (ResizeEvent) Kind() EventKind { return KindResize }
