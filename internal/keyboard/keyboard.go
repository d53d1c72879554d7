/*
   go8086 - PC/XT keyboard port.

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

// Package keyboard implements an 8-entry scancode FIFO fed
// by the rendering collaborator's host key events, the PPI port-B
// sense-switch/reset-gate bits, and the reset-sequence detector that
// re-seeds the FIFO with 0xAA.
package keyboard

import "sync"

const (
	PortData    uint16 = 0x60
	PortControl uint16 = 0x61
	PortStatus  uint16 = 0x62

	fifoCapacity = 8

	// Reset sequence: port-B bit 7 pulsed low-then-high is the
	// documented PC/XT "clear keyboard" handshake.
	resetBit = 0x80
)

// Keyboard owns the bounded scancode queue; producer (host key events
// from the rendering thread) and consumer (port 0x60 reads from the
// CPU) are serialized through mu.
type Keyboard struct {
	mu       sync.Mutex
	fifo     [fifoCapacity]byte
	head     int
	count    int
	controlB byte
	senseGate bool // when true, IRQ1 is suppressed regardless of FIFO state

	sawLow     bool // portB bit 7 has been observed low since the last high
	resetPend  int  // countdown until a detected reset re-seeds the FIFO
	lastRaised bool
}

// New returns a Keyboard whose FIFO is seeded with the 0xAA power-on
// self-test response.
func New() *Keyboard {
	k := &Keyboard{}
	k.push(0xAA)
	return k
}

// Push enqueues a scancode from a host key event. The FIFO is bounded;
// overflow silently drops the new code.
func (k *Keyboard) Push(code byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.push(code)
}

func (k *Keyboard) push(code byte) {
	if k.count >= fifoCapacity {
		return
	}
	k.fifo[(k.head+k.count)%fifoCapacity] = code
	k.count++
}

func (k *Keyboard) pop() (byte, bool) {
	if k.count == 0 {
		return 0, false
	}
	v := k.fifo[k.head]
	k.head = (k.head + 1) % fifoCapacity
	k.count--
	return v, true
}

// In reads the data port (dequeues the oldest scancode), the control
// port (port-B state), or the status port (sense switches, which the
// bus reports as fixed high while nothing else claims the port).
func (k *Keyboard) In(port uint16) byte {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch port {
	case PortData:
		v, ok := k.pop()
		if !ok {
			return 0
		}
		return v
	case PortControl:
		return k.controlB
	case PortStatus:
		return 0xFF
	default:
		return 0xFF
	}
}

// Out handles writes to port-B (0x61): bit 7 gates the keyboard clock
// (the BIOS pulses it to acknowledge/reset the keyboard), and a
// specific pulse pattern is recognized as a reset request.
func (k *Keyboard) Out(port uint16, v byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if port != PortControl {
		return
	}
	k.controlB = v
	k.senseGate = v&0x08 != 0 // bit 3: enable sense-switch readback, gates IRQ1 off

	// A reset is the documented low-then-high pulse of bit 7: once a
	// write has driven it low, the next write driving it high arms the
	// re-seed timer (a short wait, modeled as two Tick calls).
	if v&resetBit == 0 {
		k.sawLow = true
		return
	}
	if k.sawLow {
		k.resetPend = 2
		k.sawLow = false
	}
}

// Tick advances the reset-sequence timer and reports whether IRQ1
// should currently be asserted: high when a scancode is ready and the
// sense-switch gate is not open.
func (k *Keyboard) Tick() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.resetPend > 0 {
		k.resetPend--
		if k.resetPend == 0 {
			k.head, k.count = 0, 0
			k.push(0xAA)
		}
	}
	if k.senseGate {
		k.lastRaised = false
		return false
	}
	k.lastRaised = k.count > 0
	return k.lastRaised
}
