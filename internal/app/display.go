// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/parallax"
	"github.com/relabs-tech/parallax_computer/internal/stage"
)

const (
	oledWidth  = 128
	oledHeight = 64
	// basicfont.Face7x13 line metrics
	glyphAscent = 11
	lineHeight  = 13
)

// RunDisplay draws the scene file on an SSD1306 OLED. The only inputs are
// the MQTT orientation and motion feed.
func RunDisplay(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("display")
	if !cfg.FeedEnabled() {
		return errors.New("display: MQTT_BROKER is required, the display has no other input")
	}

	sf, err := stage.Load(cfg.SceneFile)
	if err != nil {
		return err
	}
	doc := stage.NewDocument(sf)
	doc.Resize(parallax.Size{Width: oledWidth, Height: oledHeight})

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return errors.Join(errors.New("display: failed to initialize periph"), err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return errors.Join(errors.New("display: failed to open I2C bus"), err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return errors.Join(errors.New("display: failed to initialize display"), err)
	}
	defer dev.Halt()
	log.Info("display initialized", zap.String("bus", cfg.DisplayI2CBus))

	img := image1bit.NewVerticalLSB(dev.Bounds())
	drawSplash(img, sf.Name)
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Warn("error showing splash", zap.Error(err))
	}

	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	ls := newLocalScene(cfg, cfg.MQTTClientIDDisplay, interval, doc, log)
	if ls.hub == nil {
		return errors.New("display: MQTT feed unavailable")
	}

	return ls.run(ctx, nil, func() {
		clear(img.Pix)
		drawScene(img, doc)
		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Warn("error updating display", zap.Error(err))
		}
	})
}

func newDrawer(dst draw.Image) *font.Drawer {
	return &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func drawSplash(img *image1bit.VerticalLSB, name string) {
	clear(img.Pix)
	d := newDrawer(img)
	d.Dot = fixed.P(10, 26)
	d.DrawString("Parallax")
	d.Dot = fixed.P(10, 43)
	d.DrawString(name)
}

// drawScene paints every layer at its file position plus its current
// offset, in pixels, one text row per art line.
func drawScene(dst draw.Image, doc *stage.Document) {
	d := newDrawer(dst)
	for _, el := range doc.Layers() {
		spec, ok := doc.Spec(el)
		if !ok {
			continue
		}
		r, _ := doc.Bounds(el)
		ox, oy := doc.Offset(el)
		x := int(math.Round(r.Left + ox))
		y := int(math.Round(r.Top + oy))
		for row, line := range spec.Art {
			d.Dot = fixed.P(x, y+glyphAscent+row*lineHeight)
			d.DrawString(line)
		}
	}
}
