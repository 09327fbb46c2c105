// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointerScene(t *testing.T, opts ...Option) (*fakeHost, *Scene) {
	t.Helper()
	h := newFakeHost(800, 600)
	h.caps.Transform = Transform3D
	h.addLayers("1", "2")
	s := New(h, "scene", opts...)
	require.Equal(t, SourcePointer, s.Source())
	return h, s
}

func TestPointerAtCenterLeavesLayersInPlace(t *testing.T) {
	h, s := pointerScene(t)

	h.dispatch(PointerEvent{ClientX: 400, ClientY: 300})
	h.frame()

	for _, l := range s.Layers() {
		assert.InDelta(t, 0, l.OffsetX, 1e-9)
		assert.InDelta(t, 0, l.OffsetY, 1e-9)
	}
	assert.Equal(t, "translate3d(0.0px,0.0px,0)", h.transforms["layer0"].Declarations()[0].Value)
}

func TestPointerAtEdgeOffsetsFollowDepthRatio(t *testing.T) {
	h, s := pointerScene(t)

	h.dispatch(PointerEvent{ClientX: 800, ClientY: 300})
	x, _ := s.Input()
	assert.Equal(t, 1.0, x.Or(0))

	h.frames(300)

	layers := s.Layers()
	require.Len(t, layers, 2)
	assert.InDelta(t, -80, layers[0].OffsetX, 0.1)
	assert.InDelta(t, -160, layers[1].OffsetX, 0.1)
	assert.InDelta(t, 2, layers[1].OffsetX/layers[0].OffsetX, 1e-3)
	assert.Equal(t, layers[1].OffsetX, s.Offsets()[1][0])
}

func TestPointerFallbackIsReadyImmediately(t *testing.T) {
	ready := 0
	h, _ := pointerScene(t, WithReady(func() { ready++ }))
	assert.Equal(t, 1, ready)

	h.advance(2 * time.Second)
	assert.Equal(t, 1, ready)
}

func TestHoverOnlyZeroesInputOutsideElement(t *testing.T) {
	h, s := pointerScene(t, WithOptions(func(o *Options) { o.HoverOnly = true }))
	h.bounds["scene"] = Rect{Left: 100, Top: 100, Width: 200, Height: 200}
	h.frame()

	h.dispatch(PointerEvent{ClientX: 10, ClientY: 10})
	x, y := s.Input()
	assert.Equal(t, 0.0, x.Or(-1))
	assert.Equal(t, 0.0, y.Or(-1))
}

func TestRelativeInputUsesElement(t *testing.T) {
	h, s := pointerScene(t, WithOptions(func(o *Options) { o.RelativeInput = true }))
	h.bounds["scene"] = Rect{Left: 100, Top: 100, Width: 200, Height: 100}
	h.frame()

	h.dispatch(PointerEvent{ClientX: 300, ClientY: 100})
	x, y := s.Input()
	assert.Equal(t, 1.0, x.Or(0))
	assert.Equal(t, -1.0, y.Or(0))
}

func TestTickSkippedWithoutInput(t *testing.T) {
	h, s := pointerScene(t)
	h.frames(5)

	assert.Empty(t, h.transforms)
	assert.Equal(t, MotionState{}, s.Motion())
	assert.True(t, s.Enabled())
}

func TestLimitClampsMotion(t *testing.T) {
	h, s := pointerScene(t)
	s.Limit(Some(5.0), None[float64]())

	h.dispatch(PointerEvent{ClientX: 800, ClientY: 600})
	h.frames(100)
	assert.InDelta(t, 5, s.Motion().MotionX, 1e-9)
	assert.InDelta(t, 60, s.Motion().MotionY, 1e-9)

	s.Unlimit(true, false)
	h.frame()
	assert.InDelta(t, 80, s.Motion().MotionX, 1e-9)
}

func TestInvertFlipsOffsetSign(t *testing.T) {
	h, s := pointerScene(t)
	h.dispatch(PointerEvent{ClientX: 800, ClientY: 300})
	h.frames(300)
	inverted := s.Layers()[1].OffsetX

	s.Invert(Some(false), None[bool]())
	h.frame()
	assert.InDelta(t, -inverted, s.Layers()[1].OffsetX, 0.2)
	assert.True(t, s.Options().InvertY)
}

func TestCalibrateSetsProvidedAxesOnly(t *testing.T) {
	_, s := pointerScene(t)
	s.Calibrate(Some(1.0), Some(1.0))
	s.Calibrate(Some(2.0), None[float64]())
	assert.Equal(t, Baseline{X: 2, Y: 1}, s.Baseline())
}

func TestSettersLeaveUnsetAxes(t *testing.T) {
	_, s := pointerScene(t)
	s.Friction(Some(0.5), None[float64]())
	s.Scalar(None[float64](), Some(20.0))
	s.CalibrateAxes(Some(true), None[bool]())

	o := s.Options()
	assert.Equal(t, 0.5, o.FrictionX)
	assert.Equal(t, 0.1, o.FrictionY)
	assert.Equal(t, 10.0, o.ScalarX)
	assert.Equal(t, 20.0, o.ScalarY)
	assert.True(t, o.CalibrateX)
	assert.True(t, o.CalibrateY)
}

func TestOriginRemeasuresWindow(t *testing.T) {
	_, s := pointerScene(t)
	s.Origin(Some(0.0), None[float64]())
	g := s.Geometry()
	assert.Equal(t, 0.0, g.WindowCenterX)
	assert.Equal(t, 800.0, g.WindowRadiusX)
	assert.Equal(t, 300.0, g.WindowCenterY)
}

func TestSetInputElementRemeasures(t *testing.T) {
	h, s := pointerScene(t)
	h.bounds["panel"] = Rect{Left: 10, Top: 20, Width: 40, Height: 30}
	s.SetInputElement("panel")
	g := s.Geometry()
	assert.Equal(t, 40.0, g.ElementWidth)
	assert.Equal(t, 20.0, g.ElementRangeX)
}

func TestDisableRemovesEverything(t *testing.T) {
	h, s := pointerScene(t)
	h.dispatch(PointerEvent{ClientX: 400, ClientY: 300})
	h.frame()
	before := s.Layers()

	s.Disable()
	assert.False(t, s.Enabled())
	assert.Equal(t, 0, h.listenerCount())
	assert.Empty(t, h.ticks)
	assert.Equal(t, 0, h.pendingTimers())

	h.dispatch(PointerEvent{ClientX: 800, ClientY: 600})
	h.frames(10)
	h.advance(time.Minute)
	x, _ := s.Input()
	assert.Equal(t, 0.0, x.Or(-1))
	assert.Equal(t, before, s.Layers())

	s.Disable()
	s.Enable()
	s.Enable()
	assert.Equal(t, 2, h.listenerCount(), "pointer and resize")
	assert.Len(t, h.ticks, 1)
}

func TestDestroyClearsStyles(t *testing.T) {
	h, s := pointerScene(t)
	assert.Equal(t, "none", h.styles["scene"]["pointer-events"])
	assert.Equal(t, "relative", h.styles["layer0"]["position"])
	assert.Equal(t, "absolute", h.styles["layer1"]["position"])

	s.Destroy()
	assert.True(t, h.cleared["scene"])
	assert.True(t, h.cleared["layer0"])
	assert.True(t, h.cleared["layer1"])
	assert.Empty(t, s.Layers())
	assert.Equal(t, 0, h.listenerCount())

	s.Enable()
	assert.False(t, s.Enabled())
}

func TestMissingRootIsInert(t *testing.T) {
	h := newFakeHost(800, 600)
	s := New(h, "")
	assert.False(t, s.Enabled())
	assert.Equal(t, SourceNone, s.Source())
	s.Enable()
	s.Calibrate(Some(1.0), Some(1.0))
	s.Destroy()
	assert.Equal(t, 0, h.listenerCount())
}

func TestEmptySceneStaysEnabledWithoutWriting(t *testing.T) {
	h := newFakeHost(800, 600)
	s := New(h, "scene")
	h.dispatch(PointerEvent{ClientX: 800, ClientY: 600})
	h.frames(3)
	assert.True(t, s.Enabled())
	assert.Empty(t, h.transforms)
}

func TestRescanPicksUpNewLayers(t *testing.T) {
	h, s := pointerScene(t)
	h.attrs["extra"] = Attributes{"depth": "3", "depth-y": "0"}
	h.children["scene"] = append(h.children["scene"], "extra")

	s.Rescan()
	s.Rescan()
	layers := s.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, 3.0, layers[2].DepthX)
	assert.Equal(t, 0.0, layers[2].DepthY, "explicit zero depth is kept")
	assert.Equal(t, 2, h.listenerCount())
}

func orientationScene(t *testing.T, caps Capabilities, opts ...Option) (*fakeHost, *Scene) {
	t.Helper()
	h := newFakeHost(800, 600)
	h.caps = caps
	h.addLayers("1", "2")
	return h, New(h, "scene", opts...)
}

func TestOrientationConfirmedSignalsReadyOnce(t *testing.T) {
	ready := 0
	h, s := orientationScene(t, Capabilities{Orientation: true, Motion: true}, WithReady(func() { ready++ }))
	assert.Equal(t, SourceOrientation, s.Source())

	h.dispatch(OrientationEvent{Beta: Some(15.0), Gamma: Some(-30.0)})
	assert.Equal(t, 0, ready)

	h.advance(500 * time.Millisecond)
	assert.Equal(t, 1, ready)
	assert.Equal(t, SourceOrientation, s.Source())

	x, y := s.Input()
	assert.InDelta(t, 0.5, x.Or(0), 1e-9)
	assert.InDelta(t, -1.0, y.Or(0), 1e-9)

	s.Disable()
	s.Enable()
	h.dispatch(OrientationEvent{Beta: Some(1.0), Gamma: Some(1.0)})
	h.advance(time.Second)
	assert.Equal(t, 1, ready)
}

func TestOrientationNullValuesDoNotConfirm(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Orientation: true})
	h.dispatch(OrientationEvent{Beta: Some(10.0)})
	h.advance(500 * time.Millisecond)
	assert.Equal(t, SourcePointer, s.Source())
}

func TestFallbackChain(t *testing.T) {
	ready := 0
	h, s := orientationScene(t, Capabilities{Orientation: true, Motion: true}, WithReady(func() { ready++ }))
	require.Equal(t, SourceOrientation, s.Source())

	h.advance(499 * time.Millisecond)
	assert.Equal(t, SourceOrientation, s.Source())

	h.advance(time.Millisecond)
	assert.Equal(t, SourceMotion, s.Source())
	assert.True(t, s.Enabled())
	assert.Equal(t, 0, ready)

	h.advance(500 * time.Millisecond)
	assert.Equal(t, SourcePointer, s.Source())
	assert.Equal(t, 1, ready)
	assert.Equal(t, 2, h.listenerCount())
	assert.Len(t, h.ticks, 1)

	// Stale orientation events have nowhere to go.
	h.dispatch(OrientationEvent{Beta: Some(10.0), Gamma: Some(10.0)})
	x, _ := s.Input()
	assert.False(t, x.IsSet())
}

func TestMotionZeroRotationRejected(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Motion: true})
	require.Equal(t, SourceMotion, s.Source())

	h.dispatch(MotionEvent{RotationBeta: Some(0.0), RotationGamma: Some(3.0)})
	h.advance(500 * time.Millisecond)
	assert.Equal(t, SourcePointer, s.Source())
}

func TestMotionZeroRotationAccepted(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Motion: true},
		WithOptions(func(o *Options) { o.RejectZeroRotation = false }))

	h.dispatch(MotionEvent{RotationBeta: Some(0.0), RotationGamma: Some(3.0)})
	h.advance(500 * time.Millisecond)
	assert.Equal(t, SourceMotion, s.Source())
	_, y := s.Input()
	assert.InDelta(t, 0.1, y.Or(0), 1e-9)
}

func TestCalibrationDelaySnapshotsNextSample(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Orientation: true})

	h.dispatch(OrientationEvent{Beta: Some(3.0), Gamma: Some(6.0)})
	assert.Equal(t, Baseline{}, s.Baseline())

	h.advance(500 * time.Millisecond)
	h.dispatch(OrientationEvent{Beta: Some(6.0), Gamma: Some(9.0)})
	assert.InDelta(t, 0.2, s.Baseline().X, 1e-9)
	assert.InDelta(t, 0.3, s.Baseline().Y, 1e-9)

	h.dispatch(OrientationEvent{Beta: Some(12.0), Gamma: Some(12.0)})
	assert.InDelta(t, 0.2, s.Baseline().X, 1e-9, "flag is one-shot")
}

func TestPlaneFlipForcesSnapshot(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Orientation: true},
		WithOptions(func(o *Options) { o.CalibrationDelay = time.Hour }))

	h.dispatch(OrientationEvent{Beta: Some(30.0), Gamma: Some(60.0)})
	assert.Equal(t, Baseline{}, s.Baseline())
	assert.False(t, s.Portrait())

	h.window = Size{Width: 600, Height: 800}
	h.dispatch(ResizeEvent{})
	h.dispatch(OrientationEvent{Beta: Some(3.0), Gamma: Some(6.0)})

	assert.True(t, s.Portrait())
	assert.InDelta(t, 0.1, s.Baseline().X, 1e-9)
	assert.InDelta(t, 0.2, s.Baseline().Y, 1e-9)
}

func TestDriftRequeuesCalibration(t *testing.T) {
	h, s := orientationScene(t, Capabilities{Orientation: true},
		WithOptions(func(o *Options) {
			o.CalibrationThreshold = 1
			o.CalibrationDelay = time.Hour
		}))

	h.dispatch(OrientationEvent{Beta: Some(90.0), Gamma: Some(0.0)})
	h.frame()
	assert.Equal(t, Baseline{}, s.Baseline())

	h.advance(0)
	h.dispatch(OrientationEvent{Beta: Some(90.0), Gamma: Some(0.0)})
	assert.InDelta(t, 3.0, s.Baseline().X, 1e-9)
}
