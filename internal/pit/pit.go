/*
   go8086 - 8253-style programmable interval timer.

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

// Package pit implements the three-channel interval timer. Only counter
// 0 is wired to an IRQ line (IRQ0 through the PIC); the other two
// counters support the mode 0/mode 3 countdown and latch protocol but
// are not connected to anything else.
package pit

const (
	PortCounter0 uint16 = 0x40
	PortCounter1 uint16 = 0x41
	PortCounter2 uint16 = 0x42
	PortControl  uint16 = 0x43
)

// counter holds one channel's countdown state.
type counter struct {
	value  uint16
	reload uint16
	latch  uint16
	mode   int // 0 or 3
	rwMode int // 1 = LSB only, 2 = MSB only, 3 = LSB then MSB

	latched   bool
	toggle    bool // which half of a two-byte access comes next
	out       bool
	haveValue bool // counter has been loaded at least once
}

// PIT models three 8253 counters; only counter 0's out line is wired to
// an IRQ (IRQ0).
type PIT struct {
	counters [3]counter
}

// New returns a PIT with all three counters idle.
func New() *PIT {
	return &PIT{}
}

// In reads a counter's current (or latched) value, one byte per access
// according to its read/write mode.
func (p *PIT) In(port uint16) byte {
	idx := int(port - PortCounter0)
	if idx < 0 || idx > 2 {
		return 0xFF
	}
	c := &p.counters[idx]
	v := c.value
	if c.latched {
		v = c.latch
	}
	switch c.rwMode {
	case 1:
		c.latched = false
		return byte(v)
	case 2:
		c.latched = false
		return byte(v >> 8)
	default: // LSB then MSB
		if !c.toggle {
			c.toggle = true
			return byte(v)
		}
		c.toggle = false
		c.latched = false
		return byte(v >> 8)
	}
}

// Out writes a counter's reload value or the shared control port.
func (p *PIT) Out(port uint16, v byte) {
	if port == PortControl {
		p.writeControl(v)
		return
	}
	idx := int(port - PortCounter0)
	if idx < 0 || idx > 2 {
		return
	}
	c := &p.counters[idx]
	switch c.rwMode {
	case 1:
		c.reload = uint16(v)
		c.load()
	case 2:
		c.reload = uint16(v) << 8
		c.load()
	default: // LSB then MSB
		if !c.toggle {
			c.reload = (c.reload & 0xFF00) | uint16(v)
			c.toggle = true
			return
		}
		c.reload = (c.reload & 0x00FF) | uint16(v)<<8
		c.toggle = false
		c.load()
	}
}

func (c *counter) load() {
	c.value = c.reload
	c.haveValue = true
	if c.mode == 3 {
		c.out = true
	} else {
		c.out = false
	}
}

// writeControl decodes an 8253 control word: channel select, access
// mode (latch/LSB/MSB/LSB+MSB), and counting mode. Only modes 0 and 3
// are modeled; bus-level timing fidelity beyond that is out of scope.
func (p *PIT) writeControl(v byte) {
	sel := int(v>>6) & 3
	if sel == 3 {
		return // read-back command, not modeled
	}
	rw := int(v>>4) & 3
	mode := int(v>>1) & 7
	if mode > 3 {
		mode = 3
	}
	c := &p.counters[sel]
	if rw == 0 {
		// Counter latch command: snapshot the current value for the
		// next In() calls, without disturbing counting.
		c.latch = c.value
		c.latched = true
		return
	}
	c.rwMode = rw
	if mode == 0 || mode == 3 {
		c.mode = mode
	}
	c.toggle = false
}

// Tick advances counter 0 by one count and returns its out-line level,
// which the caller feeds to the PIC as IRQ0. The tick driver calls this
// on every other instruction, a deliberately coarse cadence.
func (p *PIT) Tick() bool {
	c := &p.counters[0]
	if !c.haveValue {
		return c.out
	}
	switch c.mode {
	case 0:
		if c.value == 0 {
			c.out = true
			return c.out
		}
		c.value--
		if c.value == 0 {
			c.out = true
		}
	case 3:
		if c.value <= 2 {
			c.value = c.reload
			if c.value == 0 {
				c.value = 1
			}
		} else {
			c.value -= 2
		}
		half := c.reload / 2
		c.out = c.value >= half
	}
	return c.out
}

// Out0 reports counter 0's current out line without advancing it.
func (p *PIT) Out0() bool { return p.counters[0].out }
