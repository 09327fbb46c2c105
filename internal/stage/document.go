// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stage

import (
	"strings"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

type node struct {
	attrs  parallax.Attributes
	class  string
	bounds parallax.Rect
	styles map[string]string
	offset [2]float64
	spec   LayerSpec
}

// Document is a parallax.Document over a scene file. It is not safe for
// concurrent use; hosts touch it from their loop goroutine only.
type Document struct {
	file   *File
	root   parallax.Element
	window parallax.Size
	order  []parallax.Element
	nodes  map[parallax.Element]*node
}

// NewDocument builds the element tree of sf.
func NewDocument(sf *File) *Document {
	d := &Document{
		file:   sf,
		root:   parallax.Element(sf.Root),
		window: sf.Window,
		nodes:  make(map[parallax.Element]*node, len(sf.Layers)+1),
	}

	rootAttrs := parallax.Attributes{}
	for k, v := range sf.Attributes {
		rootAttrs[k] = v
	}
	bounds := parallax.Rect{Width: sf.Window.Width, Height: sf.Window.Height}
	if sf.Input != nil {
		bounds = *sf.Input
	}
	d.nodes[d.root] = &node{attrs: rootAttrs, bounds: bounds, styles: map[string]string{}}

	for _, l := range sf.Layers {
		attrs := parallax.Attributes{}
		if l.Depth != "" {
			attrs["depth"] = l.Depth
		}
		if l.DepthX != "" {
			attrs["depth-x"] = l.DepthX
		}
		if l.DepthY != "" {
			attrs["depth-y"] = l.DepthY
		}
		w, h := l.Size()
		el := d.LayerElement(l.Name)
		d.order = append(d.order, el)
		d.nodes[el] = &node{
			attrs:  attrs,
			class:  l.Class,
			bounds: parallax.Rect{Left: bounds.Left + l.X, Top: bounds.Top + l.Y, Width: w, Height: h},
			styles: map[string]string{},
			spec:   l,
		}
	}
	return d
}

// Root is the scene root element.
func (d *Document) Root() parallax.Element { return d.root }

// Name is the scene name from the file.
func (d *Document) Name() string { return d.file.Name }

// LayerElement is the element handle of the named layer.
func (d *Document) LayerElement(name string) parallax.Element {
	return parallax.Element(string(d.root) + "/" + name)
}

// Layers returns the layer elements in file order.
func (d *Document) Layers() []parallax.Element {
	return append([]parallax.Element(nil), d.order...)
}

// Spec returns the file description of a layer.
func (d *Document) Spec(el parallax.Element) (LayerSpec, bool) {
	n, ok := d.nodes[el]
	if !ok || el == d.root {
		return LayerSpec{}, false
	}
	return n.spec, true
}

// Offset returns the last transform written to el.
func (d *Document) Offset(el parallax.Element) (x, y float64) {
	if n, ok := d.nodes[el]; ok {
		return n.offset[0], n.offset[1]
	}
	return 0, 0
}

// Style returns a style property written to el.
func (d *Document) Style(el parallax.Element, property string) (string, bool) {
	n, ok := d.nodes[el]
	if !ok {
		return "", false
	}
	v, ok := n.styles[property]
	return v, ok
}

// Resize changes the window size. When the file gives no input rect the
// root follows the window.
func (d *Document) Resize(s parallax.Size) {
	d.window = s
	if d.file.Input == nil {
		d.nodes[d.root].bounds = parallax.Rect{Width: s.Width, Height: s.Height}
	}
}

// SetBounds moves or resizes an element.
func (d *Document) SetBounds(el parallax.Element, r parallax.Rect) {
	if n, ok := d.nodes[el]; ok {
		n.bounds = r
	}
}

func (d *Document) Attributes(el parallax.Element) parallax.AttributeReader {
	n, ok := d.nodes[el]
	if !ok {
		return nil
	}
	return n.attrs
}

// Children understands "#name", ".class" and "*" selectors. An empty
// selector returns every layer.
func (d *Document) Children(root parallax.Element, selector string) []parallax.Element {
	if root != d.root {
		return nil
	}
	var out []parallax.Element
	for _, el := range d.order {
		if d.matches(el, selector) {
			out = append(out, el)
		}
	}
	return out
}

func (d *Document) matches(el parallax.Element, selector string) bool {
	n := d.nodes[el]
	switch {
	case selector == "" || selector == "*":
		return true
	case strings.HasPrefix(selector, "."):
		return n.class != "" && n.class == selector[1:]
	case strings.HasPrefix(selector, "#"):
		return n.spec.Name == selector[1:]
	default:
		return n.spec.Name == selector
	}
}

func (d *Document) Find(selector string) (parallax.Element, bool) {
	if selector == "#"+string(d.root) || selector == string(d.root) {
		return d.root, true
	}
	for _, el := range d.order {
		if d.matches(el, selector) {
			return el, true
		}
	}
	return "", false
}

func (d *Document) Bounds(el parallax.Element) (parallax.Rect, bool) {
	n, ok := d.nodes[el]
	if !ok {
		return parallax.Rect{}, false
	}
	return n.bounds, true
}

func (d *Document) WindowSize() parallax.Size { return d.window }

func (d *Document) SetStyle(el parallax.Element, property, value string) {
	if n, ok := d.nodes[el]; ok {
		n.styles[property] = value
	}
}

func (d *Document) ApplyTransform(el parallax.Element, t parallax.Transform) {
	n, ok := d.nodes[el]
	if !ok {
		return
	}
	n.offset = [2]float64{t.X, t.Y}
	for _, decl := range t.Declarations() {
		n.styles[decl.Property] = decl.Value
	}
}

func (d *Document) ClearStyle(el parallax.Element) {
	if n, ok := d.nodes[el]; ok {
		n.styles = map[string]string{}
		n.offset = [2]float64{}
	}
}
