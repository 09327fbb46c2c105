// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/parallax"
	"github.com/relabs-tech/parallax_computer/internal/stage"
)

// console draws a scene file in the terminal. The mouse is the pointer;
// the MQTT feed, when configured, supplies orientation and motion.
type console struct {
	screen tcell.Screen
	ls     *localScene
}

// RunConsole runs the terminal scene until ctx ends or the user quits.
func RunConsole(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// anything below error level would scribble over the screen
	log = log.Named("console").WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))

	sf, err := stage.Load(cfg.SceneFile)
	if err != nil {
		return err
	}
	doc := stage.NewDocument(sf)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("console: new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("console: init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	c := newConsole(screen, newLocalScene(cfg, cfg.MQTTClientIDConsole, cfg.Frame(), doc, log))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return c.ls.run(ctx, func() { go c.poll(cancel) }, c.draw)
}

func newConsole(screen tcell.Screen, ls *localScene) *console {
	c := &console{screen: screen, ls: ls}
	ls.doc.Resize(c.sceneSize())
	return c
}

// sceneSize leaves the bottom row for the status line.
func (c *console) sceneSize() parallax.Size {
	w, h := c.screen.Size()
	if h > 0 {
		h--
	}
	return parallax.Size{Width: float64(w), Height: float64(h)}
}

func (c *console) poll(quit func()) {
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		if !c.handleEvent(ev) {
			quit()
			return
		}
	}
}

// handleEvent reports false when the user asked to quit.
func (c *console) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.ls.resize(c.sceneSize())
		c.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		c.ls.loop.Dispatch(parallax.PointerEvent{ClientX: float64(x), ClientY: float64(y)})
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			return c.command(ev.Rune())
		}
	}
	return true
}

func (c *console) command(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'd':
		c.ls.loop.Post(func() {
			if c.ls.scene.Enabled() {
				c.ls.scene.Disable()
			} else {
				c.ls.scene.Enable()
			}
		})
	case 'i':
		c.ls.loop.Post(func() {
			o := c.ls.scene.Options()
			c.ls.scene.Invert(parallax.Some(!o.InvertX), parallax.Some(!o.InvertY))
		})
	case 'c':
		c.ls.loop.Post(func() {
			x, y := c.ls.scene.Input()
			c.ls.scene.Calibrate(x, y)
		})
	case 'r':
		c.ls.loop.Post(func() { c.ls.scene.Rescan() })
	}
	return true
}

func (c *console) draw() {
	c.screen.Clear()
	drawLayers(c.screen, c.ls.doc)
	c.drawStatus()
	c.screen.Show()
}

// drawLayers paints every layer at its file position plus its current
// offset, in cells. Spaces are transparent.
func drawLayers(screen tcell.Screen, doc *stage.Document) {
	for _, el := range doc.Layers() {
		spec, ok := doc.Spec(el)
		if !ok {
			continue
		}
		r, _ := doc.Bounds(el)
		ox, oy := doc.Offset(el)
		x0 := int(math.Round(r.Left + ox))
		y0 := int(math.Round(r.Top + oy))
		for row, line := range spec.Art {
			col := 0
			for _, ch := range line {
				if ch != ' ' {
					screen.SetContent(x0+col, y0+row, ch, nil, tcell.StyleDefault)
				}
				col++
			}
		}
	}
}

func (c *console) drawStatus() {
	w, h := c.screen.Size()
	if h == 0 {
		return
	}
	sc := c.ls.scene
	m := sc.Motion()
	line := fmt.Sprintf(" %s  source=%s enabled=%t  vx=%6.2f vy=%6.2f  [c]alibrate [i]nvert [d]isable [r]escan [q]uit",
		c.ls.doc.Name(), sc.Source(), sc.Enabled(), m.VelocityX, m.VelocityY)
	style := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, ch := range line {
		if col >= w {
			break
		}
		c.screen.SetContent(col, h-1, ch, nil, style)
		col++
	}
	for ; col < w; col++ {
		c.screen.SetContent(col, h-1, ' ', nil, style)
	}
}
