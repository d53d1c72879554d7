/*
   go8086 - interrupt acceptance protocol.

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

package cpu

import "github.com/rcornwell/go8086/internal/cpudefs"

// acceptInterrupt runs at each instruction boundary: pick one pending
// source in priority order and run the INTn micro-sequence.
func (c *CPU) acceptInterrupt() {
	switch {
	case c.intSrc >= 0:
		c.enterInterrupt(byte(c.intSrc))
	case c.flag(cpudefs.FlagIF) && c.Bus.PIC != nil:
		if vec, ok := c.Bus.PIC.Ack(); ok {
			c.enterInterrupt(vec)
		}
	case c.flag(cpudefs.FlagTF):
		c.enterInterrupt(1)
	}
	c.intSrc = -1
}

// enterInterrupt performs the push-flags/push-CS/push-IP micro-sequence
// and loads CS:IP from the IVT at physical vec*4. If the saved TF was
// set, the sequence repeats once more with vector 1 so the
// instruction after a software INT traps into the single-step handler.
func (c *CPU) enterInterrupt(vec byte) {
	savedTF := c.flag(cpudefs.FlagTF)

	c.push(c.Flags)
	c.setFlag(cpudefs.FlagIF, false)
	c.setFlag(cpudefs.FlagTF, false)
	c.push(c.Seg[cpudefs.CS])
	c.push(c.IP)

	base := uint32(vec) * 4
	c.IP = c.Bus.LoadU16(base)
	c.Seg[cpudefs.CS] = c.Bus.LoadU16(base + 2)

	if savedTF {
		c.push(c.Flags)
		c.setFlag(cpudefs.FlagIF, false)
		c.setFlag(cpudefs.FlagTF, false)
		c.push(c.Seg[cpudefs.CS])
		c.push(c.IP)

		base = 1 * 4
		c.IP = c.Bus.LoadU16(base)
		c.Seg[cpudefs.CS] = c.Bus.LoadU16(base + 2)
	}
}
