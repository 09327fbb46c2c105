// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/feed"
	"github.com/relabs-tech/parallax_computer/internal/loop"
	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

const writeTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// clientMessage is any message the browser sends. Type selects which
// fields are meaningful.
type clientMessage struct {
	Type string `json:"type"` // hello, orientation, motion, pointer, resize, bounds, layers, control

	Hello *helloPayload `json:"hello,omitempty"`

	Beta          *float64 `json:"beta,omitempty"`
	Gamma         *float64 `json:"gamma,omitempty"`
	RotationBeta  *float64 `json:"rotation_beta,omitempty"`
	RotationGamma *float64 `json:"rotation_gamma,omitempty"`

	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`

	Window  *parallax.Size  `json:"window,omitempty"`
	Element string          `json:"element,omitempty"`
	Bounds  *parallax.Rect  `json:"bounds,omitempty"`
	Layers  []remoteElement `json:"layers,omitempty"`

	Call     string          `json:"call,omitempty"`
	X        json.RawMessage `json:"x,omitempty"`
	Y        json.RawMessage `json:"y,omitempty"`
	Selector string          `json:"selector,omitempty"`
}

// serverFrame is any message sent to the browser.
type serverFrame struct {
	Type    string                       `json:"type"` // ready, frame, error
	Session string                       `json:"session,omitempty"`
	Source  string                       `json:"source,omitempty"`
	Styles  map[string]map[string]string `json:"styles,omitempty"`
	Clear   []string                     `json:"clear,omitempty"`
	Message string                       `json:"message,omitempty"`
}

// sessionInfo is the status of a session as served by /api/sessions.
type sessionInfo struct {
	ID      string    `json:"id"`
	Root    string    `json:"root"`
	Source  string    `json:"source"`
	Enabled bool      `json:"enabled"`
	Feed    bool      `json:"feed"`
	Frames  uint64    `json:"frames"`
	Started time.Time `json:"started"`
}

// session is one browser scene driven over a websocket.
type session struct {
	id   string
	conn *websocket.Conn
	cfg  *config.Config
	hub  *feed.Hub
	log  *zap.Logger

	writeMu sync.Mutex
	info    atomic.Pointer[sessionInfo]
	started time.Time

	// owned by the session loop
	loop         *loop.Loop
	doc          *remoteDocument
	scene        *parallax.Scene
	useFeed      bool
	readyPending bool
}

func newSession(conn *websocket.Conn, cfg *config.Config, hub *feed.Hub, log *zap.Logger) *session {
	id := uuid.New().String()
	s := &session{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		hub:     hub,
		log:     log.With(zap.String("session", id)),
		started: time.Now(),
	}
	s.info.Store(&sessionInfo{ID: id, Source: parallax.SourceNone.String(), Started: s.started})
	return s
}

func (s *session) send(f serverFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(f)
}

func (s *session) sendError(msg string) {
	if err := s.send(serverFrame{Type: "error", Session: s.id, Message: msg}); err != nil {
		s.log.Debug("error frame not sent", zap.Error(err))
	}
}

// run serves the session until the client goes away or ctx ends.
func (s *session) run(ctx context.Context) error {
	var hello clientMessage
	if err := s.conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if hello.Type != "hello" || hello.Hello == nil {
		s.sendError("first message must be hello")
		return errors.New("session opened without hello")
	}

	s.doc = newRemoteDocument(hello.Hello)
	caps := hello.Hello.capabilities()
	feedAttr, _ := parallax.Attributes(hello.Hello.Root.Attributes).Attr("input-feed")
	if feedAttr == "mqtt" {
		if s.hub != nil {
			s.useFeed = true
			caps.Orientation = true
			caps.Motion = true
		} else {
			s.log.Warn("scene asks for the MQTT feed but none is configured")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.loop = loop.New(s.cfg.Frame(), s.log)
	host := loop.NewHost(s.doc, s.loop, caps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	s.loop.Post(func() {
		s.scene = parallax.New(host, s.doc.root,
			parallax.WithLogger(s.log),
			parallax.WithReady(func() { s.readyPending = true }),
		)
		s.loop.AfterFrame(s.flush)
		s.log.Info("scene session started",
			zap.String("root", string(s.doc.root)),
			zap.Int("layers", len(s.scene.Layers())),
			zap.Bool("feed", s.useFeed))
	})

	if s.useFeed {
		stop := s.hub.Attach(s.loop)
		defer stop()
	}

	g.Go(func() error {
		defer cancel()
		return s.readLoop(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.conn.Close()
	})

	err := g.Wait()
	s.log.Info("scene session ended")
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

func (s *session) readLoop(ctx context.Context) error {
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.handle(msg)
	}
}

func optFromPtr(p *float64) parallax.Opt[float64] {
	if p == nil {
		return parallax.None[float64]()
	}
	return parallax.Some(*p)
}

// handle forwards a client message to the session loop.
func (s *session) handle(msg clientMessage) {
	switch msg.Type {
	case "orientation":
		if s.useFeed {
			return
		}
		s.loop.Dispatch(parallax.OrientationEvent{Beta: optFromPtr(msg.Beta), Gamma: optFromPtr(msg.Gamma)})
	case "motion":
		if s.useFeed {
			return
		}
		s.loop.Dispatch(parallax.MotionEvent{
			RotationBeta:  optFromPtr(msg.RotationBeta),
			RotationGamma: optFromPtr(msg.RotationGamma),
		})
	case "pointer":
		s.loop.Dispatch(parallax.PointerEvent{ClientX: msg.ClientX, ClientY: msg.ClientY})
	case "resize":
		if msg.Window != nil {
			w := *msg.Window
			s.loop.Post(func() { s.doc.setWindow(w) })
		}
		s.loop.Dispatch(parallax.ResizeEvent{})
	case "bounds":
		if msg.Bounds == nil {
			s.sendError("bounds without rect")
			return
		}
		el, r := parallax.Element(msg.Element), *msg.Bounds
		s.loop.Post(func() { s.doc.setBounds(el, r) })
	case "layers":
		layers := msg.Layers
		s.loop.Post(func() { s.doc.setLayers(layers) })
	case "control":
		s.loop.Post(func() {
			if err := s.control(msg); err != nil {
				s.sendError(err.Error())
			}
		})
	default:
		s.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func decodeOpt[T any](raw json.RawMessage) (parallax.Opt[T], error) {
	if len(raw) == 0 || string(raw) == "null" {
		return parallax.None[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return parallax.None[T](), err
	}
	return parallax.Some(v), nil
}

func decodePair[T any](msg clientMessage) (x, y parallax.Opt[T], err error) {
	if x, err = decodeOpt[T](msg.X); err != nil {
		return x, y, fmt.Errorf("%s: x: %w", msg.Call, err)
	}
	if y, err = decodeOpt[T](msg.Y); err != nil {
		return x, y, fmt.Errorf("%s: y: %w", msg.Call, err)
	}
	return x, y, nil
}

// control runs a remote Scene API call on the loop goroutine.
func (s *session) control(msg clientMessage) error {
	sc := s.scene
	switch msg.Call {
	case "enable":
		sc.Enable()
	case "disable":
		sc.Disable()
	case "destroy":
		sc.Destroy()
	case "rescan":
		sc.Rescan()
	case "calibrate-now":
		sc.Calibrate(sc.Input())
	case "calibrate", "friction", "scalar", "limit", "origin":
		x, y, err := decodePair[float64](msg)
		if err != nil {
			return err
		}
		switch msg.Call {
		case "calibrate":
			sc.Calibrate(x, y)
		case "friction":
			sc.Friction(x, y)
		case "scalar":
			sc.Scalar(x, y)
		case "limit":
			sc.Limit(x, y)
		case "origin":
			sc.Origin(x, y)
		}
	case "calibrate-axes", "invert", "unlimit":
		x, y, err := decodePair[bool](msg)
		if err != nil {
			return err
		}
		switch msg.Call {
		case "calibrate-axes":
			sc.CalibrateAxes(x, y)
		case "invert":
			sc.Invert(x, y)
		case "unlimit":
			sc.Unlimit(x.Or(false), y.Or(false))
		}
	case "input-element":
		el, ok := s.doc.Find(msg.Selector)
		if !ok {
			return fmt.Errorf("input-element: %q not found", msg.Selector)
		}
		sc.SetInputElement(el)
	default:
		return fmt.Errorf("unknown call %q", msg.Call)
	}
	s.log.Debug("control call", zap.String("call", msg.Call))
	return nil
}

// flush runs after every frame: it sends the frame's style patch and
// publishes the session status.
func (s *session) flush() {
	if s.readyPending {
		s.readyPending = false
		if err := s.send(serverFrame{Type: "ready", Session: s.id, Source: s.scene.Source().String()}); err != nil {
			s.log.Debug("ready frame not sent", zap.Error(err))
		}
	}
	if p, ok := s.doc.flush(); ok {
		if err := s.send(serverFrame{Type: "frame", Styles: p.Styles, Clear: p.Clear}); err != nil {
			s.log.Debug("frame not sent", zap.Error(err))
		}
	}
	s.info.Store(&sessionInfo{
		ID:      s.id,
		Root:    string(s.doc.root),
		Source:  s.scene.Source().String(),
		Enabled: s.scene.Enabled(),
		Feed:    s.useFeed,
		Frames:  s.loop.Frames(),
		Started: s.started,
	})
}

// sessionRegistry tracks live sessions for /api/sessions.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *sessionRegistry) remove(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.id)
}

func (r *sessionRegistry) snapshot() []sessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]sessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s.info.Load())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}
