/*
   go8086 - string instruction primitives and REP repetition.

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

// execString runs a string opcode. With a REP prefix present, the
// primitive repeats CX times,
// decrementing CX after each iteration; CMPS/SCAS additionally stop
// early when ZF no longer matches the repeat prefix's Z bit.
func (c *CPU) execString(op byte) error {
	word := op&1 != 0
	width := 8
	if word {
		width = 16
	}

	step := func() bool {
		switch op &^ 1 {
		case 0xA4: // MOVSB/MOVSW
			c.movs(width)
		case 0xA6: // CMPSB/CMPSW
			c.cmps(width)
		case 0xAA: // STOSB/STOSW
			c.stos(width)
		case 0xAC: // LODSB/LODSW
			c.lods(width)
		case 0xAE: // SCASB/SCASW
			c.scas(width)
		default:
			return false
		}
		return true
	}

	if c.repPrefix == 0 {
		if !step() {
			return &DecodeError{Opcode: op}
		}
		return nil
	}

	isCompare := op&^1 == 0xA6 || op&^1 == 0xAE
	wantZF := c.repPrefix == 0xF3 // REP/REPE/REPZ wants ZF==1 to continue

	for c.Regs[cx] != 0 {
		if !step() {
			return &DecodeError{Opcode: op}
		}
		c.Regs[cx]--
		if isCompare && c.flag(cpudefs.FlagZF) != wantZF {
			break
		}
	}
	return nil
}

func (c *CPU) diStep() int16 {
	if c.flag(cpudefs.FlagDF) {
		return -1
	}
	return 1
}

func (c *CPU) movs(width int) {
	delta := uint16(width / 8)
	srcSeg := c.selectSeg(false)
	srcAddr := memory.Phys(c.Seg[srcSeg], c.Regs[si])
	dstAddr := memory.Phys(c.Seg[cpudefs.ES], c.Regs[di])
	if width == 8 {
		c.Bus.StoreU8(dstAddr, c.Bus.LoadU8(srcAddr))
	} else {
		c.Bus.StoreU16(dstAddr, c.Bus.LoadU16(srcAddr))
	}
	step := uint16(c.diStep()) * delta
	c.Regs[si] += step
	c.Regs[di] += step
}

func (c *CPU) cmps(width int) {
	delta := uint16(width / 8)
	srcSeg := c.selectSeg(false)
	srcAddr := memory.Phys(c.Seg[srcSeg], c.Regs[si])
	dstAddr := memory.Phys(c.Seg[cpudefs.ES], c.Regs[di])
	var a, b uint32
	if width == 8 {
		a, b = uint32(c.Bus.LoadU8(srcAddr)), uint32(c.Bus.LoadU8(dstAddr))
	} else {
		a, b = uint32(c.Bus.LoadU16(srcAddr)), uint32(c.Bus.LoadU16(dstAddr))
	}
	_, f := aluSub(a, b, 0, width)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	step := uint16(c.diStep()) * delta
	c.Regs[si] += step
	c.Regs[di] += step
}

func (c *CPU) stos(width int) {
	delta := uint16(width / 8)
	dstAddr := memory.Phys(c.Seg[cpudefs.ES], c.Regs[di])
	if width == 8 {
		c.Bus.StoreU8(dstAddr, c.Get8(cpudefs.AL))
	} else {
		c.Bus.StoreU16(dstAddr, c.Get16(cpudefs.AX))
	}
	c.Regs[di] += uint16(c.diStep()) * delta
}

func (c *CPU) lods(width int) {
	delta := uint16(width / 8)
	srcSeg := c.selectSeg(false)
	srcAddr := memory.Phys(c.Seg[srcSeg], c.Regs[si])
	if width == 8 {
		c.Set8(cpudefs.AL, c.Bus.LoadU8(srcAddr))
	} else {
		c.Set16(cpudefs.AX, c.Bus.LoadU16(srcAddr))
	}
	c.Regs[si] += uint16(c.diStep()) * delta
}

func (c *CPU) scas(width int) {
	delta := uint16(width / 8)
	dstAddr := memory.Phys(c.Seg[cpudefs.ES], c.Regs[di])
	var a, b uint32
	if width == 8 {
		a, b = uint32(c.Get8(cpudefs.AL)), uint32(c.Bus.LoadU8(dstAddr))
	} else {
		a, b = uint32(c.Get16(cpudefs.AX)), uint32(c.Bus.LoadU16(dstAddr))
	}
	_, f := aluSub(a, b, 0, width)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	c.Regs[di] += uint16(c.diStep()) * delta
}

// flagsArith is the set of flags every arithmetic/logic primitive
// fully redefines (CF/PF/AF/ZF/SF/OF); reserved bits are untouched.
const flagsArith = cpudefs.FlagCF | cpudefs.FlagPF | cpudefs.FlagAF |
	cpudefs.FlagZF | cpudefs.FlagSF | cpudefs.FlagOF
