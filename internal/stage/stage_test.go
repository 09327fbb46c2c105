// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

const hero = `
name: hero
attributes:
  scalar-x: "20"
  limit-y: "false"
window: {width: 80, height: 24}
layers:
  - name: sky
    depth: "0.1"
    art: ["~~~~~~"]
  - name: hills
    class: ground
    depth: "0.5"
    depth-y: "0"
    y: 10
    art: ["/\\/\\", "----"]
`

func TestParse(t *testing.T) {
	sf, err := Parse(strings.NewReader(hero))
	require.NoError(t, err)
	assert.Equal(t, "hero", sf.Name)
	assert.Equal(t, DefaultRoot, sf.Root)
	require.Len(t, sf.Layers, 2)
	w, h := sf.Layers[1].Size()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 2.0, h)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse(strings.NewReader("layers: [{name: a}, {name: a}]"))
	assert.ErrorContains(t, err, "duplicate layer")

	_, err = Parse(strings.NewReader("layers: [{name: 'a b'}]"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("colour: red"))
	assert.Error(t, err)
}

func TestDocumentTree(t *testing.T) {
	sf, err := Parse(strings.NewReader(hero))
	require.NoError(t, err)
	d := NewDocument(sf)

	assert.Len(t, d.Children(d.Root(), ""), 2)
	assert.Equal(t, []parallax.Element{d.LayerElement("hills")}, d.Children(d.Root(), ".ground"))
	assert.Empty(t, d.Children(d.LayerElement("sky"), ""))

	el, ok := d.Find("#sky")
	require.True(t, ok)
	assert.Equal(t, d.LayerElement("sky"), el)
	_, ok = d.Find("#moon")
	assert.False(t, ok)

	v, ok := d.Attributes(d.Root()).Attr("scalar-x")
	assert.True(t, ok)
	assert.Equal(t, "20", v)
	v, _ = d.Attributes(d.LayerElement("hills")).Attr("depth-y")
	assert.Equal(t, "0", v)

	r, ok := d.Bounds(d.LayerElement("hills"))
	require.True(t, ok)
	assert.Equal(t, 10.0, r.Top)

	d.Resize(parallax.Size{Width: 100, Height: 30})
	r, _ = d.Bounds(d.Root())
	assert.Equal(t, 100.0, r.Width)
}

func TestDocumentStyles(t *testing.T) {
	sf, err := Parse(strings.NewReader(hero))
	require.NoError(t, err)
	d := NewDocument(sf)
	sky := d.LayerElement("sky")

	d.ApplyTransform(sky, parallax.Transform{Mode: parallax.Transform2D, X: 1.5, Y: -2, Precision: 1})
	x, y := d.Offset(sky)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, -2.0, y)
	s, _ := d.Style(sky, "transform")
	assert.Equal(t, "translate(1.5px,-2.0px)", s)

	d.ClearStyle(sky)
	_, ok := d.Style(sky, "transform")
	assert.False(t, ok)
	x, _ = d.Offset(sky)
	assert.Zero(t, x)
}

func TestShippedScenes(t *testing.T) {
	for _, path := range []string{"../../scenes/hero.yaml", "../../scenes/oled.yaml"} {
		sf, err := Load(path)
		require.NoError(t, err, path)
		assert.NotEmpty(t, sf.Layers, path)
	}
}
