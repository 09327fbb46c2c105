// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package loop runs a scene host on a single goroutine: posted tasks,
// timers, input events and frame ticks are all serialized through it.
package loop

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

const taskBuffer = 256

// Loop implements parallax.Scheduler and parallax.EventTarget.
type Loop struct {
	interval time.Duration
	log      *zap.Logger
	tasks    chan func()
	done     chan struct{}

	// owned by the loop goroutine
	ticks        map[parallax.TickID]func()
	nextTick     parallax.TickID
	listeners    map[parallax.EventKind]map[int]func(parallax.Event)
	nextListener int
	afterFrame   []func()
	frames       uint64
}

// New creates a loop producing a frame every interval.
func New(interval time.Duration, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Loop{
		interval:  interval,
		log:       log,
		tasks:     make(chan func(), taskBuffer),
		done:      make(chan struct{}),
		ticks:     make(map[parallax.TickID]func()),
		listeners: make(map[parallax.EventKind]map[int]func(parallax.Event)),
	}
}

// Run processes tasks and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("loop stopped", zap.Uint64("frames", l.frames))
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.Frame()
		}
	}
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine and reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Frame runs the ticks requested before it started, then the after-frame
// hooks. Run calls it on every interval.
func (l *Loop) Frame() {
	l.frames++
	if len(l.ticks) > 0 {
		ids := make([]parallax.TickID, 0, len(l.ticks))
		for id := range l.ticks {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		pending := l.ticks
		l.ticks = make(map[parallax.TickID]func())
		for _, id := range ids {
			pending[id]()
		}
	}
	for _, fn := range l.afterFrame {
		fn()
	}
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 { return l.frames }

// AfterFrame registers fn to run at the end of every frame, typically to
// flush what the frame rendered.
func (l *Loop) AfterFrame(fn func()) {
	l.afterFrame = append(l.afterFrame, fn)
}

// RequestTick schedules fn for the next frame.
func (l *Loop) RequestTick(fn func()) parallax.TickID {
	l.nextTick++
	l.ticks[l.nextTick] = fn
	return l.nextTick
}

// CancelTick drops a pending tick.
func (l *Loop) CancelTick(id parallax.TickID) {
	delete(l.ticks, id)
}

type timer struct {
	t       *time.Timer
	stopped bool
	fired   bool
}

// Stop must be called on the loop goroutine.
func (t *timer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	t.t.Stop()
	return active
}

// AfterFunc runs fn on the loop goroutine after d. A stopped timer never
// runs, even if its deadline already passed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) parallax.Timer {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

// Listen registers fn for events of kind. The returned func removes it.
func (l *Loop) Listen(kind parallax.EventKind, fn func(parallax.Event)) func() {
	if l.listeners[kind] == nil {
		l.listeners[kind] = make(map[int]func(parallax.Event))
	}
	l.nextListener++
	id := l.nextListener
	l.listeners[kind][id] = fn
	return func() { delete(l.listeners[kind], id) }
}

// Listeners returns the number of registered listeners.
func (l *Loop) Listeners() int {
	n := 0
	for _, m := range l.listeners {
		n += len(m)
	}
	return n
}

// Dispatch delivers ev on the loop goroutine. Safe from any goroutine.
func (l *Loop) Dispatch(ev parallax.Event) bool {
	return l.Post(func() { l.deliver(ev) })
}

func (l *Loop) deliver(ev parallax.Event) {
	m := l.listeners[ev.Kind()]
	if len(m) == 0 {
		return
	}
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		// a listener may remove another one
		if fn, ok := m[id]; ok {
			fn(ev)
		}
	}
}
