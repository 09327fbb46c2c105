// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import "time"

// Source is the active input source. The fallback chain is
// orientation -> motion -> pointer; pointer is terminal.
type Source int

const (
	SourceNone Source = iota
	SourceOrientation
	SourceMotion
	SourcePointer
)

func (s Source) String() string {
	switch s {
	case SourceOrientation:
		return "orientation"
	case SourceMotion:
		return "motion"
	case SourcePointer:
		return "pointer"
	default:
		return "none"
	}
}

// SourceState tracks whether a sensor has produced a qualifying event since
// it was activated.
type SourceState int

const (
	Undetected SourceState = iota
	Confirmed
)

// sensorScale converts degrees (or degrees per second) into input units.
const sensorScale = 30.0

// inputController owns the single active input source, its listeners and
// its detection timer.
type inputController struct {
	target       EventTarget
	sched        Scheduler
	supportDelay time.Duration
	rejectZero   bool

	// capability flags, demoted when detection times out
	orientation bool
	motion      bool

	state     Source
	status    SourceState
	gen       uint64
	detection Timer
	remove    []func()

	onSample      func(x, y float64)
	onPointer     func(PointerEvent)
	onResize      func()
	onConfirmed   func()
	onUnsupported func(Source)
}

// next picks the first source whose capability flag is still up.
func (c *inputController) next() Source {
	switch {
	case c.orientation:
		return SourceOrientation
	case c.motion:
		return SourceMotion
	default:
		return SourcePointer
	}
}

// enable activates exactly one source and returns it. It is a no-op while a
// source is active.
func (c *inputController) enable() Source {
	if c.state != SourceNone {
		return c.state
	}
	c.gen++
	gen := c.gen
	c.state = c.next()
	c.status = Undetected

	switch c.state {
	case SourceOrientation:
		c.listen(gen, KindOrientation, c.handleOrientation)
		c.arm(gen)
	case SourceMotion:
		c.listen(gen, KindMotion, c.handleMotion)
		c.arm(gen)
	case SourcePointer:
		c.listen(gen, KindPointer, func(ev Event) {
			if p, ok := ev.(PointerEvent); ok {
				c.onPointer(p)
			}
		})
		c.status = Confirmed
	}
	c.listen(gen, KindResize, func(Event) { c.onResize() })
	return c.state
}

// disable removes every listener and the detection timer registered by
// enable.
func (c *inputController) disable() {
	if c.state == SourceNone {
		return
	}
	c.gen++
	if c.detection != nil {
		c.detection.Stop()
		c.detection = nil
	}
	for _, remove := range c.remove {
		remove()
	}
	c.remove = nil
	c.state = SourceNone
}

func (c *inputController) listen(gen uint64, kind EventKind, fn func(Event)) {
	remove := c.target.Listen(kind, func(ev Event) {
		if gen != c.gen {
			return
		}
		fn(ev)
	})
	c.remove = append(c.remove, remove)
}

func (c *inputController) arm(gen uint64) {
	c.detection = c.sched.AfterFunc(c.supportDelay, func() {
		if gen != c.gen {
			return
		}
		c.detection = nil
		c.detected()
	})
}

// detected runs when the detection timer fires.
func (c *inputController) detected() {
	if c.status == Confirmed {
		c.onConfirmed()
		return
	}
	failed := c.state
	switch failed {
	case SourceOrientation:
		c.orientation = false
	case SourceMotion:
		c.motion = false
	}
	c.onUnsupported(failed)
}

func (c *inputController) handleOrientation(ev Event) {
	o, ok := ev.(OrientationEvent)
	if !ok {
		return
	}
	beta, okBeta := o.Beta.Get()
	gamma, okGamma := o.Gamma.Get()
	if !okBeta || !okGamma {
		return
	}
	c.status = Confirmed
	c.onSample(beta/sensorScale, gamma/sensorScale)
}

func (c *inputController) handleMotion(ev Event) {
	m, ok := ev.(MotionEvent)
	if !ok {
		return
	}
	beta, okBeta := m.RotationBeta.Get()
	gamma, okGamma := m.RotationGamma.Get()
	if !okBeta || !okGamma {
		return
	}
	if c.rejectZero && (beta == 0 || gamma == 0) {
		return
	}
	c.status = Confirmed
	c.onSample(beta/sensorScale, gamma/sensorScale)
}
