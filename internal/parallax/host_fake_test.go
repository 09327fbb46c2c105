// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"sort"
	"time"
)

// fakeHost is a deterministic single-threaded host with a manual clock.
type fakeHost struct {
	caps     Capabilities
	window   Size
	bounds   map[Element]Rect
	attrs    map[Element]Attributes
	children map[Element][]Element

	styles     map[Element]map[string]string
	transforms map[Element]Transform
	cleared    map[Element]bool

	now      time.Duration
	timers   []*fakeTimer
	ticks    map[TickID]func()
	nextTick TickID

	listeners    map[EventKind]map[int]func(Event)
	nextListener int
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newFakeHost(w, h float64) *fakeHost {
	return &fakeHost{
		window:     Size{Width: w, Height: h},
		bounds:     map[Element]Rect{"scene": {Width: w, Height: h}},
		attrs:      map[Element]Attributes{},
		children:   map[Element][]Element{},
		styles:     map[Element]map[string]string{},
		transforms: map[Element]Transform{},
		cleared:    map[Element]bool{},
		ticks:      map[TickID]func(){},
		listeners:  map[EventKind]map[int]func(Event){},
	}
}

// addLayers registers one child of "scene" per depth.
func (h *fakeHost) addLayers(depths ...string) []Element {
	var out []Element
	for i, d := range depths {
		el := Element("layer" + string(rune('0'+i)))
		h.attrs[el] = Attributes{"depth": d}
		out = append(out, el)
	}
	h.children["scene"] = out
	return out
}

func (h *fakeHost) Capabilities() Capabilities { return h.caps }

func (h *fakeHost) Attributes(el Element) AttributeReader {
	if a, ok := h.attrs[el]; ok {
		return a
	}
	return Attributes{}
}

func (h *fakeHost) Children(root Element, _ string) []Element {
	return append([]Element(nil), h.children[root]...)
}

func (h *fakeHost) Find(selector string) (Element, bool) {
	_, ok := h.bounds[Element(selector)]
	return Element(selector), ok
}

func (h *fakeHost) Bounds(el Element) (Rect, bool) {
	r, ok := h.bounds[el]
	return r, ok
}

func (h *fakeHost) WindowSize() Size { return h.window }

func (h *fakeHost) SetStyle(el Element, property, value string) {
	if h.styles[el] == nil {
		h.styles[el] = map[string]string{}
	}
	h.styles[el][property] = value
}

func (h *fakeHost) ApplyTransform(el Element, t Transform) {
	h.transforms[el] = t
}

func (h *fakeHost) ClearStyle(el Element) {
	delete(h.styles, el)
	delete(h.transforms, el)
	h.cleared[el] = true
}

func (h *fakeHost) RequestTick(fn func()) TickID {
	h.nextTick++
	h.ticks[h.nextTick] = fn
	return h.nextTick
}

func (h *fakeHost) CancelTick(id TickID) {
	delete(h.ticks, id)
}

func (h *fakeHost) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: h.now + d, seq: len(h.timers), fn: fn}
	h.timers = append(h.timers, t)
	return t
}

func (h *fakeHost) Listen(kind EventKind, fn func(Event)) func() {
	if h.listeners[kind] == nil {
		h.listeners[kind] = map[int]func(Event){}
	}
	h.nextListener++
	id := h.nextListener
	h.listeners[kind][id] = fn
	return func() { delete(h.listeners[kind], id) }
}

func (h *fakeHost) listenerCount() int {
	n := 0
	for _, m := range h.listeners {
		n += len(m)
	}
	return n
}

func (h *fakeHost) dispatch(ev Event) {
	ids := make([]int, 0, len(h.listeners[ev.Kind()]))
	for id := range h.listeners[ev.Kind()] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := h.listeners[ev.Kind()][id]; ok {
			fn(ev)
		}
	}
}

// frame runs the ticks requested before it started.
func (h *fakeHost) frame() {
	ids := make([]TickID, 0, len(h.ticks))
	for id := range h.ticks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	pending := h.ticks
	h.ticks = map[TickID]func(){}
	for _, id := range ids {
		pending[id]()
	}
}

func (h *fakeHost) frames(n int) {
	for i := 0; i < n; i++ {
		h.frame()
	}
}

// advance moves the clock and fires due timers in deadline order.
func (h *fakeHost) advance(d time.Duration) {
	target := h.now + d
	for {
		var next *fakeTimer
		for _, t := range h.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		h.now = next.at
		next.fired = true
		next.fn()
	}
	h.now = target
}

func (h *fakeHost) pendingTimers() int {
	n := 0
	for _, t := range h.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
