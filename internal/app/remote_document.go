// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"strings"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

// remoteElement is an element as described by the browser client.
type remoteElement struct {
	ID         string            `json:"id"`
	Classes    []string          `json:"classes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Bounds     *parallax.Rect    `json:"bounds,omitempty"`
}

func (e *remoteElement) hasClass(c string) bool {
	for _, have := range e.Classes {
		if have == c {
			return true
		}
	}
	return false
}

// helloPayload opens a scene session.
type helloPayload struct {
	Window      parallax.Size   `json:"window"`
	Orientation bool            `json:"orientation"`
	Motion      bool            `json:"motion"`
	Transform   string          `json:"transform"`
	Root        remoteElement   `json:"root"`
	Layers      []remoteElement `json:"layers"`
	// Elements are further elements reachable by selector, such as a
	// separate input element.
	Elements []remoteElement `json:"elements,omitempty"`
}

func (h *helloPayload) capabilities() parallax.Capabilities {
	return parallax.Capabilities{
		Orientation: h.Orientation,
		Motion:      h.Motion,
		Transform:   parallax.ParseTransformMode(h.Transform),
	}
}

// stylePatch is what one frame changed in the browser document.
type stylePatch struct {
	Styles map[string]map[string]string
	Clear  []string
}

// remoteDocument mirrors the browser document of one session and buffers
// style writes until the end of the frame.
type remoteDocument struct {
	window parallax.Size
	root   parallax.Element
	layers []parallax.Element
	elems  map[parallax.Element]*remoteElement

	dirty   map[parallax.Element]map[string]string
	cleared []parallax.Element
}

func newRemoteDocument(h *helloPayload) *remoteDocument {
	d := &remoteDocument{
		window: h.Window,
		root:   parallax.Element(h.Root.ID),
		elems:  make(map[parallax.Element]*remoteElement),
		dirty:  make(map[parallax.Element]map[string]string),
	}
	root := h.Root
	d.elems[d.root] = &root
	for i := range h.Elements {
		e := h.Elements[i]
		d.elems[parallax.Element(e.ID)] = &e
	}
	d.setLayers(h.Layers)
	return d
}

// setLayers replaces the layer list, as after a DOM change on the client.
func (d *remoteDocument) setLayers(layers []remoteElement) {
	d.layers = d.layers[:0]
	for i := range layers {
		e := layers[i]
		el := parallax.Element(e.ID)
		d.elems[el] = &e
		d.layers = append(d.layers, el)
	}
}

func (d *remoteDocument) setWindow(s parallax.Size) { d.window = s }

func (d *remoteDocument) setBounds(el parallax.Element, r parallax.Rect) {
	if e, ok := d.elems[el]; ok {
		e.Bounds = &r
	}
}

func (d *remoteDocument) matches(e *remoteElement, selector string) bool {
	switch {
	case selector == "" || selector == "*":
		return true
	case strings.HasPrefix(selector, "."):
		return e.hasClass(selector[1:])
	case strings.HasPrefix(selector, "#"):
		return e.ID == selector[1:]
	default:
		return e.ID == selector
	}
}

func (d *remoteDocument) Attributes(el parallax.Element) parallax.AttributeReader {
	e, ok := d.elems[el]
	if !ok {
		return nil
	}
	return parallax.Attributes(e.Attributes)
}

func (d *remoteDocument) Children(root parallax.Element, selector string) []parallax.Element {
	if root != d.root {
		return nil
	}
	var out []parallax.Element
	for _, el := range d.layers {
		if d.matches(d.elems[el], selector) {
			out = append(out, el)
		}
	}
	return out
}

func (d *remoteDocument) Find(selector string) (parallax.Element, bool) {
	if selector == "" {
		return "", false
	}
	if d.matches(d.elems[d.root], selector) {
		return d.root, true
	}
	for _, el := range d.layers {
		if d.matches(d.elems[el], selector) {
			return el, true
		}
	}
	for el, e := range d.elems {
		if d.matches(e, selector) {
			return el, true
		}
	}
	return "", false
}

func (d *remoteDocument) Bounds(el parallax.Element) (parallax.Rect, bool) {
	e, ok := d.elems[el]
	if !ok || e.Bounds == nil {
		return parallax.Rect{}, false
	}
	return *e.Bounds, true
}

func (d *remoteDocument) WindowSize() parallax.Size { return d.window }

func (d *remoteDocument) SetStyle(el parallax.Element, property, value string) {
	m := d.dirty[el]
	if m == nil {
		m = make(map[string]string)
		d.dirty[el] = m
	}
	m[property] = value
}

func (d *remoteDocument) ApplyTransform(el parallax.Element, t parallax.Transform) {
	for _, decl := range t.Declarations() {
		d.SetStyle(el, decl.Property, decl.Value)
	}
}

func (d *remoteDocument) ClearStyle(el parallax.Element) {
	delete(d.dirty, el)
	d.cleared = append(d.cleared, el)
}

// flush hands out the buffered writes. It returns false when nothing
// changed since the last flush.
func (d *remoteDocument) flush() (stylePatch, bool) {
	if len(d.dirty) == 0 && len(d.cleared) == 0 {
		return stylePatch{}, false
	}
	p := stylePatch{}
	for _, el := range d.cleared {
		p.Clear = append(p.Clear, string(el))
	}
	if len(d.dirty) > 0 {
		p.Styles = make(map[string]map[string]string, len(d.dirty))
		for el, m := range d.dirty {
			p.Styles[string(el)] = m
		}
	}
	d.dirty = make(map[parallax.Element]map[string]string)
	d.cleared = nil
	return p, true
}
