// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

const (
	// mockHold is how long the mock device rests in one pose.
	mockHold = 15 * time.Second
	// mockMove is how long it takes to move to the next pose.
	mockMove = time.Second
)

// mockRests are the poses the mock device is held in, in turn. Moving from
// the first to the third crosses the default calibration threshold on roll.
var mockRests = []Pose{
	{Pitch: 40},             // held in the hand
	{},                      // set down flat
	{Pitch: 40, Roll: -110}, // turned on its side
}

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock orientation source that sways a little
// around a resting pose and now and then moves to the next one.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (Pose, error) {
	elapsed := m.now().Sub(m.start)
	rest := mockRest(elapsed)
	s := elapsed.Seconds()

	return Pose{
		Roll:  rest.Roll + 4*math.Sin(s),
		Pitch: rest.Pitch + 3*math.Cos(s*0.7),
		Yaw:   math.Mod(s*6, 360),
	}, nil
}

// mockRest returns the resting pose at elapsed, easing linearly between
// poses during a move.
func mockRest(elapsed time.Duration) Pose {
	period := mockHold + mockMove
	n := int(elapsed / period)
	from := mockRests[n%len(mockRests)]
	to := mockRests[(n+1)%len(mockRests)]

	into := elapsed % period
	if into < mockHold {
		return from
	}
	f := float64(into-mockHold) / float64(mockMove)
	return Pose{
		Roll:  from.Roll + (to.Roll-from.Roll)*f,
		Pitch: from.Pitch + (to.Pitch-from.Pitch)*f,
	}
}
