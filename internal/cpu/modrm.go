/*
   go8086 - ModR/M decode and effective-address computation.

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
	"github.com/rcornwell/go8086/internal/memory"
)

// modRM is the decoded record for one ModR/M byte: mod(2):reg(3):rm(3)
// plus any trailing displacement.
type modRM struct {
	mod, reg, rm int
	disp         uint16
	isMem        bool
}

// decodeModRM reads the ModR/M byte and its displacement, if any.
func (c *CPU) decodeModRM() modRM {
	b := c.fetch8()
	m := modRM{mod: int(b >> 6), reg: int(b>>3) & 7, rm: int(b) & 7}
	m.isMem = m.mod != 3

	switch {
	case m.mod == 1:
		d := c.fetch8()
		m.disp = uint16(int16(int8(d)))
	case m.mod == 2, m.mod == 0 && m.rm == 6:
		m.disp = c.fetch16()
	}
	return m
}

// effAddr computes the 16-bit offset and default segment for a memory
// ModR/M operand, per the 8086's effective-address table. Only valid
// when m.isMem is true.
func (c *CPU) effAddr(m modRM) (offset uint16, seg cpudefs.Seg) {
	var base uint16
	ssDefault := false

	switch m.rm {
	case 0:
		base = c.Regs[bx] + c.Regs[si]
	case 1:
		base = c.Regs[bx] + c.Regs[di]
	case 2:
		base = c.Regs[bp] + c.Regs[si]
		ssDefault = true
	case 3:
		base = c.Regs[bp] + c.Regs[di]
		ssDefault = true
	case 4:
		base = c.Regs[si]
	case 5:
		base = c.Regs[di]
	case 6:
		if m.mod == 0 {
			base = 0 // disp16 carries the whole direct address
		} else {
			base = c.Regs[bp]
			ssDefault = true
		}
	case 7:
		base = c.Regs[bx]
	}

	offset = base + m.disp
	seg = c.selectSeg(ssDefault)
	return offset, seg
}

// register index aliases into c.Regs, matching cpudefs.Reg16's order.
const (
	ax = iota
	cx
	dx
	bx
	sp
	bp
	si
	di
)

// physOf reduces a ModR/M memory operand to a physical address. Only
// used for byte operands (loadRM8/storeRM8), where there is no 16-bit
// segment-wrap concern; 16-bit operand and far-pointer accesses go
// through the segment-wrapping Bus accessors instead.
func (c *CPU) physOf(m modRM) uint32 {
	off, seg := c.effAddr(m)
	return memory.Phys(c.Seg[seg], off)
}

// loadRM8/storeRM8 and loadRM16/storeRM16 read or write the r/m operand
// of a decoded ModR/M, dispatching to a register or a memory operand.
func (c *CPU) loadRM8(m modRM) byte {
	if !m.isMem {
		return c.Get8(cpudefs.Reg8(m.rm))
	}
	return c.Bus.LoadU8(c.physOf(m))
}

func (c *CPU) storeRM8(m modRM, v byte) {
	if !m.isMem {
		c.Set8(cpudefs.Reg8(m.rm), v)
		return
	}
	c.Bus.StoreU8(c.physOf(m), v)
}

func (c *CPU) loadRM16(m modRM) uint16 {
	if !m.isMem {
		return c.Get16(cpudefs.Reg16(m.rm))
	}
	off, seg := c.effAddr(m)
	return c.Bus.LoadSegU16(c.Seg[seg], off)
}

func (c *CPU) storeRM16(m modRM, v uint16) {
	if !m.isMem {
		c.Set16(cpudefs.Reg16(m.rm), v)
		return
	}
	off, seg := c.effAddr(m)
	c.Bus.StoreSegU16(c.Seg[seg], off, v)
}

// farPtrSeg reads the selector half of a far pointer ModR/M operand, the
// word immediately following the offset half read by loadRM16. off+2
// wraps within the uint16 segment the same way loadRM16 does, so a far
// pointer stored at the top of a segment is read back correctly.
func (c *CPU) farPtrSeg(m modRM) uint16 {
	off, seg := c.effAddr(m)
	return c.Bus.LoadSegU16(c.Seg[seg], off+2)
}
