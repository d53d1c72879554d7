/*
   go8086 - CGA mode register and framebuffer bridge.

   Copyright (c) 2026, go8086 contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package cga implements the mode/color/status ports, and
// the mutex-guarded mode register the rendering collaborator reads.
// The framebuffer itself is simply a region of internal/memory; cga
// does not own a second copy of it.
package cga

import "sync"

const (
	PortMode   uint16 = 0x3D8
	PortColor  uint16 = 0x3D9
	PortStatus uint16 = 0x3DA

	// FramebufferBase is the physical start of the CGA text page used
	// by the BIOS at B800:0000.
	FramebufferBase uint32 = 0xB8000
	// FramebufferBytes covers an 80x25 text page, two bytes per cell.
	FramebufferBytes = 80 * 25 * 2

	modeText80x25 byte = 0x01
	modeEnable    byte = 0x08
)

// CGA owns the mode/color registers and the "start the renderer once"
// guard: first CGA register activity requests the renderer
// collaborator start exactly once.
type CGA struct {
	mu        sync.Mutex
	mode      byte
	color     byte
	started   bool
	startOnce func()
}

// New returns a CGA whose mode register is zero until first written.
// startOnce, if non-nil, is invoked exactly once on the first write to
// the mode register, to idempotently kick off the rendering collaborator.
func New(startOnce func()) *CGA {
	return &CGA{startOnce: startOnce}
}

// In reads the mode, color, or status port. The status port's retrace
// bits are not modeled (no-goal: cycle/bus timing); it always reports
// "not in retrace" so BIOS polling loops terminate promptly.
func (c *CGA) In(port uint16) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch port {
	case PortMode:
		return c.mode
	case PortColor:
		return c.color
	case PortStatus:
		return 0x00
	default:
		return 0xFF
	}
}

// Out writes the mode or color register. A mode-register write takes
// the same lock the rendering collaborator reads under, and triggers
// the one-shot renderer-start hook.
func (c *CGA) Out(port uint16, v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch port {
	case PortMode:
		c.mode = v
		if !c.started {
			c.started = true
			if c.startOnce != nil {
				c.startOnce()
			}
		}
	case PortColor:
		c.color = v
	}
}

// Mode returns the current mode register under the shared lock, for
// the rendering collaborator.
func (c *CGA) Mode() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// TextModeActive reports whether the mode register selects the 80x25
// text mode this emulator renders (non-goal: high-resolution graphics
// modes, which are accepted but rendered blank).
func TextModeActive(mode byte) bool {
	return mode&modeEnable != 0 && mode&modeText80x25 != 0 && mode&0x02 == 0
}
