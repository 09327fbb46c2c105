// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package feed carries sensor samples over MQTT and turns them into scene
// input events.
package feed

import (
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/relabs-tech/parallax_computer/internal/config"
	"github.com/relabs-tech/parallax_computer/internal/imu"
	"github.com/relabs-tech/parallax_computer/internal/orientation"
	"github.com/relabs-tech/parallax_computer/internal/parallax"
)

// OrientationFromPose maps pitch to beta and roll to gamma.
func OrientationFromPose(p orientation.Pose) parallax.OrientationEvent {
	return parallax.OrientationEvent{
		Beta:  parallax.Some(p.Pitch),
		Gamma: parallax.Some(p.Roll),
	}
}

// MotionFromRaw maps the x and y gyro rates to the rotation rate.
func MotionFromRaw(s imu.IMURaw) parallax.MotionEvent {
	x, y, _ := s.Rates()
	return parallax.MotionEvent{
		RotationBeta:  parallax.Some(x),
		RotationGamma: parallax.Some(y),
	}
}

// Dispatcher receives events, usually a loop.Loop.
type Dispatcher interface {
	Dispatch(ev parallax.Event) bool
}

// Hub fans MQTT sensor samples out to subscribers.
type Hub struct {
	client mqtt.Client
	log    *zap.Logger

	mu       sync.RWMutex
	subs     map[int]func(parallax.Event)
	next     int
	lastPose orientation.Pose
	havePose bool
	haveIMU  bool
}

// NewHub returns a hub with no broker attached. Payloads are fed through
// HandlePose and HandleIMU.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{log: log, subs: make(map[int]func(parallax.Event))}
}

// Connect subscribes a new hub to the pose and IMU topics.
func Connect(cfg *config.Config, clientID string, log *zap.Logger) (*Hub, error) {
	h := NewHub(log)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	h.client = mqtt.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("feed: connect %s: %w", cfg.MQTTBroker, token.Error())
	}
	h.log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTTBroker))

	subscribe := func(topic string, handle func([]byte) error) error {
		if topic == "" {
			return nil
		}
		token := h.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := handle(msg.Payload()); err != nil {
				h.log.Warn("dropping MQTT payload", zap.String("topic", msg.Topic()), zap.Error(err))
			}
		})
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("feed: subscribe %s: %w", topic, token.Error())
		}
		h.log.Info("subscribed to MQTT topic", zap.String("topic", topic))
		return nil
	}
	if err := subscribe(cfg.TopicPose, h.HandlePose); err != nil {
		h.Close()
		return nil, err
	}
	if err := subscribe(cfg.TopicIMU, h.HandleIMU); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// HandlePose decodes a pose payload and publishes an orientation event.
func (h *Hub) HandlePose(payload []byte) error {
	var p orientation.Pose
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("pose unmarshal: %w", err)
	}
	h.mu.Lock()
	h.lastPose = p
	h.havePose = true
	h.mu.Unlock()
	h.publish(OrientationFromPose(p))
	return nil
}

// HandleIMU decodes a raw IMU payload and publishes a motion event.
func (h *Hub) HandleIMU(payload []byte) error {
	var s imu.IMURaw
	if err := json.Unmarshal(payload, &s); err != nil {
		return fmt.Errorf("imu unmarshal: %w", err)
	}
	h.mu.Lock()
	h.haveIMU = true
	h.mu.Unlock()
	h.publish(MotionFromRaw(s))
	return nil
}

func (h *Hub) publish(ev parallax.Event) {
	h.mu.RLock()
	subs := make([]func(parallax.Event), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Subscribe registers fn for every event. fn runs on the MQTT goroutine.
func (h *Hub) Subscribe(fn func(parallax.Event)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Attach forwards every event to d.
func (h *Hub) Attach(d Dispatcher) (cancel func()) {
	return h.Subscribe(func(ev parallax.Event) { d.Dispatch(ev) })
}

// LastPose returns the most recent pose.
func (h *Hub) LastPose() (orientation.Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastPose, h.havePose
}

// Capabilities reports which sensor streams have been seen so far.
func (h *Hub) Capabilities() (orientation, motion bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.havePose, h.haveIMU
}

// Close disconnects from the broker.
func (h *Hub) Close() {
	if h.client != nil && h.client.IsConnected() {
		h.client.Disconnect(250)
	}
}

// Publisher sends sensor samples to the broker.
type Publisher struct {
	client mqtt.Client
	cfg    *config.Config
}

// NewPublisher connects a producer client.
func NewPublisher(cfg *config.Config, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("feed: connect %s: %w", cfg.MQTTBroker, token.Error())
	}
	return &Publisher{client: client, cfg: cfg}, nil
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if token := p.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish %s: %w", topic, token.Error())
	}
	return nil
}

// PublishPose publishes on the pose topic.
func (p *Publisher) PublishPose(pose orientation.Pose) error {
	return p.publish(p.cfg.TopicPose, pose)
}

// PublishIMU publishes on the IMU topic.
func (p *Publisher) PublishIMU(raw imu.IMURaw) error {
	if p.cfg.TopicIMU == "" {
		return nil
	}
	return p.publish(p.cfg.TopicIMU, raw)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
