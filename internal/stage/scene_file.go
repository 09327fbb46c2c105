// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stage describes scenes declaratively and keeps an in-memory
// document for hosts that draw them locally.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

// DefaultRoot is the root element name when a file does not set one.
const DefaultRoot = "scene"

// File is a YAML scene description.
type File struct {
	Name       string            `yaml:"name"`
	Root       string            `yaml:"root"`
	Attributes map[string]string `yaml:"attributes"`
	Window     parallax.Size     `yaml:"window"`
	Input      *parallax.Rect    `yaml:"input"`
	Layers     []LayerSpec       `yaml:"layers"`
}

// LayerSpec is one layer of a scene file. Depths are kept as raw attribute
// strings so they go through the same parsing as any other host.
type LayerSpec struct {
	Name   string   `yaml:"name"`
	Class  string   `yaml:"class"`
	Depth  string   `yaml:"depth"`
	DepthX string   `yaml:"depth-x"`
	DepthY string   `yaml:"depth-y"`
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Art    []string `yaml:"art"`
}

// Load reads a scene file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stage: open %s: %w", path, err)
	}
	defer f.Close()
	sf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("stage: %s: %w", path, err)
	}
	return sf, nil
}

// Parse decodes and validates a scene description.
func Parse(r io.Reader) (*File, error) {
	var sf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := sf.normalize(); err != nil {
		return nil, err
	}
	return &sf, nil
}

func (sf *File) normalize() error {
	if sf.Root == "" {
		sf.Root = DefaultRoot
	}
	if sf.Window.Width < 0 || sf.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative")
	}
	seen := make(map[string]bool, len(sf.Layers))
	for i := range sf.Layers {
		l := &sf.Layers[i]
		if l.Name == "" {
			l.Name = fmt.Sprintf("layer%d", i)
		}
		if strings.ContainsAny(l.Name, "/# .") {
			return fmt.Errorf("layer %q: name must not contain '/', '#', '.' or spaces", l.Name)
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate layer %q", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// Size returns the extent of the widest and tallest layer art.
func (l LayerSpec) Size() (w, h float64) {
	for _, row := range l.Art {
		if n := float64(len([]rune(row))); n > w {
			w = n
		}
	}
	return w, float64(len(l.Art))
}
