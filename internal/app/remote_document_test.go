// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

func testHello() *helloPayload {
	return &helloPayload{
		Window:    parallax.Size{Width: 200, Height: 100},
		Transform: "2d",
		Root: remoteElement{
			ID:     "scene",
			Bounds: &parallax.Rect{Width: 200, Height: 100},
		},
		Layers: []remoteElement{
			{ID: "a", Classes: []string{"layer"}, Attributes: map[string]string{"depth": "1"}},
			{ID: "b", Attributes: map[string]string{"depth": "0.5"}},
		},
		Elements: []remoteElement{
			{ID: "pad", Bounds: &parallax.Rect{Left: 10, Top: 10, Width: 50, Height: 50}},
		},
	}
}

func TestRemoteDocumentQueries(t *testing.T) {
	d := newRemoteDocument(testHello())

	assert.Equal(t, []parallax.Element{"a", "b"}, d.Children("scene", ""))
	assert.Equal(t, []parallax.Element{"a"}, d.Children("scene", ".layer"))
	assert.Nil(t, d.Children("a", ""))

	el, ok := d.Find("#pad")
	require.True(t, ok)
	assert.Equal(t, parallax.Element("pad"), el)
	_, ok = d.Find("#missing")
	assert.False(t, ok)

	_, ok = d.Bounds("a")
	assert.False(t, ok, "layers without bounds are unmeasured")
	d.setBounds("a", parallax.Rect{Width: 5, Height: 5})
	r, ok := d.Bounds("a")
	require.True(t, ok)
	assert.Equal(t, 5.0, r.Width)

	v, ok := d.Attributes("b").Attr("depth")
	assert.True(t, ok)
	assert.Equal(t, "0.5", v)
	assert.Nil(t, d.Attributes("nope"))
}

func TestRemoteDocumentFlush(t *testing.T) {
	d := newRemoteDocument(testHello())
	_, ok := d.flush()
	assert.False(t, ok)

	d.SetStyle("scene", "position", "relative")
	d.ApplyTransform("a", parallax.Transform{Mode: parallax.Transform3D, X: 1, Y: 2, Precision: 1})
	p, ok := d.flush()
	require.True(t, ok)
	assert.Equal(t, "relative", p.Styles["scene"]["position"])
	assert.Equal(t, "translate3d(1.0px,2.0px,0)", p.Styles["a"]["transform"])

	d.SetStyle("a", "left", "0")
	d.ClearStyle("a")
	p, ok = d.flush()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, p.Clear)
	assert.Empty(t, p.Styles)

	_, ok = d.flush()
	assert.False(t, ok)
}

func TestRemoteDocumentSetLayers(t *testing.T) {
	d := newRemoteDocument(testHello())
	d.setLayers([]remoteElement{{ID: "c"}})
	assert.Equal(t, []parallax.Element{"c"}, d.Children("scene", ""))
}
