/*
   go8086 - stack push/pop helpers.

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

import (
	"github.com/rcornwell/go8086/internal/cpudefs"
)

// push decrements SP before writing. The write goes through the
// segment-wrapping accessor: a push with SP at 0x0000 lands at SS:0xFFFE,
// not in the next 64 KiB segment.
func (c *CPU) push(v uint16) {
	c.Regs[sp] -= 2
	c.Bus.StoreSegU16(c.Seg[cpudefs.SS], c.Regs[sp], v)
}

// pop reads then increments SP after.
func (c *CPU) pop() uint16 {
	v := c.Bus.LoadSegU16(c.Seg[cpudefs.SS], c.Regs[sp])
	c.Regs[sp] += 2
	return v
}

// pushMemOperand implements the group FF /6 PUSH m16 quirk: SP is
// predecremented, and the memory operand is then read using the
// already-adjusted SP, so a PUSH [SP]-relative operand observes the
// new stack pointer, not the old one.
func (c *CPU) pushMemOperand(m modRM) {
	c.Regs[sp] -= 2
	v := c.loadRM16(m)
	c.Bus.StoreSegU16(c.Seg[cpudefs.SS], c.Regs[sp], v)
}
