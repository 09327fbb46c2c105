// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package attitude reads NMEA attitude sentences ($PRDID pitch, roll,
// heading) from a serial AHRS.
package attitude

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/parallax_computer/internal/orientation"
)

// ErrNotAttitude is returned for valid sentences that carry no attitude.
var ErrNotAttitude = errors.New("attitude: not an attitude sentence")

// ParseLine parses one NMEA line into a pose.
func ParseLine(line string) (orientation.Pose, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return orientation.Pose{}, ErrNotAttitude
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return orientation.Pose{}, fmt.Errorf("attitude: %w", err)
	}

	switch sentence.DataType() {
	case nmea.TypePRDID:
		m := sentence.(nmea.PRDID)
		return orientation.Pose{
			Roll:  m.Roll,
			Pitch: m.Pitch,
			Yaw:   m.Heading,
		}, nil
	default:
		// ignore other sentence types (GGA, RMC, HDT, ...)
		return orientation.Pose{}, ErrNotAttitude
	}
}

// Reader yields poses from an NMEA stream. It implements
// orientation.Source.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps a serial port or any other line stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next blocks until the next attitude sentence. Noise, partial sentences
// and other sentence types are skipped.
func (r *Reader) Next() (orientation.Pose, error) {
	for {
		line, err := r.r.ReadString('\n')
		if line != "" {
			if pose, perr := ParseLine(line); perr == nil {
				return pose, nil
			}
		}
		if err != nil {
			return orientation.Pose{}, err
		}
	}
}
