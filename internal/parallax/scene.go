// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"go.uber.org/zap"
)

// Layer is a snapshot of one scene layer.
type Layer struct {
	Element Element `json:"element"`
	DepthX  float64 `json:"depth_x"`
	DepthY  float64 `json:"depth_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Scene drives a set of layers from the active input source. All methods
// must be called from the host's scheduling goroutine.
type Scene struct {
	host Host
	log  *zap.Logger
	caps Capabilities
	opts Options

	overrides []func(*Options)
	onReady   func()
	ready     bool

	root  Element
	input Element

	layers  []Element
	depthsX []float64
	depthsY []float64
	offsets [][2]float64

	geom   Geometry
	cal    *calibration
	ctl    *inputController
	motion MotionState

	inputX   Opt[float64]
	inputY   Opt[float64]
	portrait bool

	enabled bool
	inert   bool
	tick    TickID
	ticking bool
	tickGen uint64
}

// Option customizes a Scene at construction.
type Option func(*Scene)

// WithLogger sets the scene logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReady registers the callback run the first time an input source is
// confirmed usable.
func WithReady(fn func()) Option {
	return func(s *Scene) { s.onReady = fn }
}

// WithOptions applies fn after the root attributes have been read.
func WithOptions(fn func(*Options)) Option {
	return func(s *Scene) { s.overrides = append(s.overrides, fn) }
}

// New builds a scene over root, reads its options, scans its layers and
// enables it. A missing root yields an inert scene.
func New(host Host, root Element, opts ...Option) *Scene {
	s := &Scene{
		host: host,
		root: root,
		log:  zap.NewNop(),
		opts: DefaultOptions(),
	}
	for _, o := range opts {
		o(s)
	}
	if host == nil || root == "" {
		s.log.Error("parallax scene root element missing")
		s.inert = true
		return s
	}

	s.caps = host.Capabilities()
	s.opts.ApplyAttributes(host.Attributes(root), s.log)
	for _, fn := range s.overrides {
		fn(&s.opts)
	}

	s.input = root
	if sel := s.opts.InputElement; sel != "" {
		if el, ok := host.Find(sel); ok {
			s.input = el
		} else {
			s.log.Warn("input element not found, using scene root", zap.String("selector", sel))
		}
	}

	s.cal = newCalibration(host)
	s.ctl = &inputController{
		target:        host,
		sched:         host,
		supportDelay:  s.opts.SupportDelay,
		rejectZero:    s.opts.RejectZeroRotation,
		orientation:   s.caps.Orientation,
		motion:        s.caps.Motion,
		onSample:      s.rotate,
		onPointer:     s.pointer,
		onResize:      s.updateDimensions,
		onConfirmed:   s.signalReady,
		onUnsupported: s.fallback,
	}

	s.prepareRoot()
	s.Rescan()
	s.updateDimensions()
	s.Enable()
	return s
}

func (s *Scene) prepareRoot() {
	if s.caps.Transform == Transform3D {
		s.accelerate(s.root)
	}
	s.host.SetStyle(s.root, "position", "relative")
	if !s.opts.PointerEvents {
		s.host.SetStyle(s.root, "pointer-events", "none")
	}
}

func (s *Scene) accelerate(el Element) {
	s.host.SetStyle(el, "transform", "translate3d(0,0,0)")
	s.host.SetStyle(el, "transform-style", "preserve-3d")
	s.host.SetStyle(el, "backface-visibility", "hidden")
}

// Rescan re-derives the layers and their depths from the document.
func (s *Scene) Rescan() {
	if s.inert {
		return
	}
	layers := s.host.Children(s.root, s.opts.Selector)
	if len(layers) == 0 {
		s.log.Warn("parallax scene has no layers", zap.String("root", string(s.root)))
	}

	s.layers = layers
	s.depthsX = make([]float64, len(layers))
	s.depthsY = make([]float64, len(layers))
	s.offsets = make([][2]float64, len(layers))

	for i, el := range layers {
		if s.caps.Transform == Transform3D {
			s.accelerate(el)
		}
		position := "absolute"
		if i == 0 {
			position = "relative"
		}
		s.host.SetStyle(el, "position", position)
		s.host.SetStyle(el, "display", "block")
		s.host.SetStyle(el, "left", "0")
		s.host.SetStyle(el, "top", "0")

		attrs := s.host.Attributes(el)
		depth := attrFloat(attrs, "depth").Or(0)
		s.depthsX[i] = attrFloat(attrs, "depth-x").Or(depth)
		s.depthsY[i] = attrFloat(attrs, "depth-y").Or(depth)
	}
	s.log.Debug("layers scanned", zap.Int("count", len(layers)))
}

func attrFloat(r AttributeReader, name string) Opt[float64] {
	if r == nil {
		return None[float64]()
	}
	raw, ok := r.Attr(name)
	if !ok {
		return None[float64]()
	}
	if f, isNum := ParseAttribute(raw).(float64); isNum {
		return Some(f)
	}
	return None[float64]()
}

// Enable activates an input source and starts ticking. It is a no-op when
// already enabled.
func (s *Scene) Enable() {
	if s.inert || s.enabled {
		return
	}
	s.enabled = true
	s.portrait = false

	src := s.ctl.enable()
	if src == SourcePointer {
		s.cal.set(Some(0.0), Some(0.0))
		s.signalReady()
	}
	s.cal.queue(s.opts.CalibrationDelay)
	s.schedule()
	s.log.Debug("scene enabled", zap.Stringer("source", src))
}

// Disable removes every listener, timer and pending tick. It is a no-op when
// already disabled.
func (s *Scene) Disable() {
	if s.inert || !s.enabled {
		return
	}
	s.enabled = false
	s.ctl.disable()
	s.cal.stop()
	s.tickGen++
	if s.ticking {
		s.host.CancelTick(s.tick)
		s.ticking = false
	}
	s.log.Debug("scene disabled")
}

// Destroy disables the scene, clears the styles it applied and releases its
// elements. The scene stays inert afterwards.
func (s *Scene) Destroy() {
	if s.inert {
		return
	}
	s.Disable()
	s.host.ClearStyle(s.root)
	for _, el := range s.layers {
		s.host.ClearStyle(el)
	}
	s.layers, s.depthsX, s.depthsY, s.offsets = nil, nil, nil, nil
	s.root, s.input = "", ""
	s.onReady = nil
	s.inert = true
	s.log.Debug("scene destroyed")
}

func (s *Scene) fallback(failed Source) {
	s.log.Info("input source unsupported, falling back", zap.Stringer("source", failed))
	s.Disable()
	s.Enable()
}

func (s *Scene) signalReady() {
	if s.ready {
		return
	}
	s.ready = true
	s.log.Info("parallax scene ready", zap.Stringer("source", s.ctl.state))
	if s.onReady != nil {
		s.onReady()
	}
}

func (s *Scene) schedule() {
	gen := s.tickGen
	s.ticking = true
	s.tick = s.host.RequestTick(func() {
		if gen != s.tickGen || !s.enabled {
			return
		}
		s.ticking = false
		s.onTick()
		s.schedule()
	})
}

func (s *Scene) updateDimensions() {
	s.geom.UpdateWindow(s.host.WindowSize(), s.opts.OriginX, s.opts.OriginY)
	s.updateBounds()
}

func (s *Scene) updateBounds() {
	if r, ok := s.host.Bounds(s.input); ok {
		s.geom.UpdateElement(r, s.opts.OriginX, s.opts.OriginY)
	}
}

// rotate takes a sensor sample in input units.
func (s *Scene) rotate(x, y float64) {
	portrait := s.geom.WindowHeight > s.geom.WindowWidth
	if s.portrait != portrait {
		s.portrait = portrait
		s.cal.force()
	}
	s.cal.observe(x, y)
	s.inputX, s.inputY = Some(x), Some(y)
}

func (s *Scene) pointer(ev PointerEvent) {
	if s.opts.HoverOnly && !s.geom.Contains(ev.ClientX, ev.ClientY) {
		s.inputX, s.inputY = Some(0.0), Some(0.0)
		return
	}
	x, y, ok := s.geom.Normalize(ev.ClientX, ev.ClientY, s.opts.RelativeInput, s.opts.ClipRelativeInput)
	if !ok {
		return
	}
	s.inputX, s.inputY = Some(x), Some(y)
}

func (s *Scene) onTick() {
	s.updateBounds()

	ix, okX := s.inputX.Get()
	iy, okY := s.inputY.Get()
	if !okX || !okY || !s.geom.HasElement() || len(s.layers) == 0 {
		return
	}

	sample := Sample{
		InputX:   ix,
		InputY:   iy,
		Baseline: s.cal.base,
		Portrait: s.portrait,
		Width:    s.geom.ElementWidth,
		Height:   s.geom.ElementHeight,
	}
	if cx, cy := sample.Calibrated(); drifted(cx, cy, s.opts.CalibrationThreshold) {
		s.cal.queue(0)
	}
	s.motion.Advance(sample, &s.opts)

	for i, el := range s.layers {
		x, y := s.motion.Offset(s.depthsX[i], s.depthsY[i], &s.opts)
		s.setPosition(i, el, x, y)
	}
}

func (s *Scene) setPosition(i int, el Element, x, y float64) {
	p := s.opts.Precision
	t := Transform{
		Mode:      s.caps.Transform,
		X:         Round(x, p),
		Y:         Round(y, p),
		Precision: p,
	}
	s.offsets[i] = [2]float64{t.X, t.Y}
	s.host.ApplyTransform(el, t)
}

// Calibrate sets the baseline of the provided axes.
func (s *Scene) Calibrate(x, y Opt[float64]) {
	if s.inert {
		return
	}
	s.cal.set(x, y)
}

// CalibrateAxes chooses per axis whether the baseline-subtracted input is
// used.
func (s *Scene) CalibrateAxes(x, y Opt[bool]) {
	x.assign(&s.opts.CalibrateX)
	y.assign(&s.opts.CalibrateY)
}

// Invert sets the sign flip of the provided axes.
func (s *Scene) Invert(x, y Opt[bool]) {
	x.assign(&s.opts.InvertX)
	y.assign(&s.opts.InvertY)
}

// Friction sets the smoothing coefficient of the provided axes.
func (s *Scene) Friction(x, y Opt[float64]) {
	x.assign(&s.opts.FrictionX)
	y.assign(&s.opts.FrictionY)
}

// Scalar sets the motion scale, in percent of the element size, of the
// provided axes.
func (s *Scene) Scalar(x, y Opt[float64]) {
	x.assign(&s.opts.ScalarX)
	y.assign(&s.opts.ScalarY)
}

// Limit sets the motion clamp of the provided axes.
func (s *Scene) Limit(x, y Opt[float64]) {
	if v, ok := x.Get(); ok {
		s.opts.LimitX = Some(v)
	}
	if v, ok := y.Get(); ok {
		s.opts.LimitY = Some(v)
	}
}

// Unlimit removes the motion clamp of the selected axes.
func (s *Scene) Unlimit(x, y bool) {
	if x {
		s.opts.LimitX = None[float64]()
	}
	if y {
		s.opts.LimitY = None[float64]()
	}
}

// Origin sets the geometry pivot of the provided axes and remeasures.
func (s *Scene) Origin(x, y Opt[float64]) {
	if v, ok := x.Get(); ok {
		s.opts.OriginX = Some(v)
	}
	if v, ok := y.Get(); ok {
		s.opts.OriginY = Some(v)
	}
	if !s.inert {
		s.updateDimensions()
	}
}

// SetInputElement swaps the pointer and geometry reference element.
func (s *Scene) SetInputElement(el Element) {
	if s.inert {
		return
	}
	s.input = el
	s.updateDimensions()
}

// Enabled reports whether the scene is ticking.
func (s *Scene) Enabled() bool { return s.enabled }

// Source returns the active input source.
func (s *Scene) Source() Source {
	if s.ctl == nil {
		return SourceNone
	}
	return s.ctl.state
}

// Baseline returns the calibration baseline.
func (s *Scene) Baseline() Baseline {
	if s.cal == nil {
		return Baseline{}
	}
	return s.cal.base
}

// Motion returns the smoothed motion state.
func (s *Scene) Motion() MotionState { return s.motion }

// Input returns the last raw input sample.
func (s *Scene) Input() (x, y Opt[float64]) { return s.inputX, s.inputY }

// Portrait reports whether the last sensor sample saw a portrait window.
func (s *Scene) Portrait() bool { return s.portrait }

// Geometry returns the latest measurements.
func (s *Scene) Geometry() Geometry { return s.geom }

// Options returns a copy of the current options.
func (s *Scene) Options() Options { return s.opts }

// Layers returns a snapshot of the layers and their last offsets.
func (s *Scene) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, el := range s.layers {
		out[i] = Layer{
			Element: el,
			DepthX:  s.depthsX[i],
			DepthY:  s.depthsY[i],
			OffsetX: s.offsets[i][0],
			OffsetY: s.offsets[i][1],
		}
	}
	return out
}

// Offsets returns the last written offset of every layer, in layer order.
func (s *Scene) Offsets() [][2]float64 {
	return append([][2]float64(nil), s.offsets...)
}
