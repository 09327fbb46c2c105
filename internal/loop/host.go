// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package loop

import "github.com/relabs-tech/parallax_computer/internal/parallax"

// Host binds a document to a loop, giving a complete parallax.Host.
type Host struct {
	parallax.Document
	*Loop
	Caps parallax.Capabilities
}

// NewHost returns a host over doc driven by l.
func NewHost(doc parallax.Document, l *Loop, caps parallax.Capabilities) *Host {
	return &Host{Document: doc, Loop: l, Caps: caps}
}

func (h *Host) Capabilities() parallax.Capabilities { return h.Caps }
