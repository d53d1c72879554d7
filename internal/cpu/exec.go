/*
   go8086 - top-level execute dispatch: class and singleton opcodes.

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
	"github.com/rcornwell/go8086/internal/opcodemap"
)

// execute classifies op and dispatches to the appropriate class or
// singleton handler.
func (c *CPU) execute(op byte) error {
	switch opcodemap.Classify(op) {
	case opcodemap.ClassAluRM:
		return c.execAluRM(op)
	case opcodemap.ClassAluImmAcc:
		return c.execAluImmAcc(op)
	case opcodemap.ClassIncR16:
		c.incDecR16(op&7, false)
	case opcodemap.ClassDecR16:
		c.incDecR16(op&7, true)
	case opcodemap.ClassPushR16:
		c.push(c.Get16(cpudefs.Reg16(op & 7)))
	case opcodemap.ClassPopR16:
		c.Set16(cpudefs.Reg16(op&7), c.pop())
	case opcodemap.ClassXchgAX:
		r := cpudefs.Reg16(op & 7)
		if r != cpudefs.AX {
			a, b := c.Get16(cpudefs.AX), c.Get16(r)
			c.Set16(cpudefs.AX, b)
			c.Set16(r, a)
		}
	case opcodemap.ClassMovR16Imm:
		c.Set16(cpudefs.Reg16(op&7), c.fetch16())
	case opcodemap.ClassMovR8Imm:
		c.Set8(cpudefs.Reg8(op&7), c.fetch8())
	case opcodemap.ClassCondBranch:
		c.execCondBranch(op)
	case opcodemap.ClassAluImmRM:
		return c.execAluImmRM(op)
	case opcodemap.ClassShiftRot:
		return c.execShiftRot(op)
	case opcodemap.ClassString:
		return c.execString(op)
	case opcodemap.ClassPrefix:
		return &DecodeError{Opcode: op, CS: c.Seg[cpudefs.CS], IP: c.IP}
	default:
		return c.execSingleton(op)
	}
	return nil
}

func (c *CPU) incDecR16(reg byte, dec bool) {
	r := cpudefs.Reg16(reg)
	result, f := aluIncDec(uint32(c.Get16(r)), dec, 16, c.Flags)
	c.Set16(r, uint16(result))
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
}

func (c *CPU) execAluRM(op byte) error {
	m := c.decodeModRM()
	if op&0xFC == 0x88 { // MOV r/m <-> reg
		w := op&1 != 0
		toReg := op&2 != 0
		if w {
			if toReg {
				c.Set16(cpudefs.Reg16(m.reg), c.loadRM16(m))
			} else {
				c.storeRM16(m, c.Get16(cpudefs.Reg16(m.reg)))
			}
		} else {
			if toReg {
				c.Set8(cpudefs.Reg8(m.reg), c.loadRM8(m))
			} else {
				c.storeRM8(m, c.Get8(cpudefs.Reg8(m.reg)))
			}
		}
		return nil
	}

	aluOp := opcodemap.AluOp((op >> 3) & 7)
	toReg := op&2 != 0
	w := op&1 != 0
	if w {
		regVal := c.Get16(cpudefs.Reg16(m.reg))
		rmVal := c.loadRM16(m)
		if toReg {
			result := c.doAlu(aluOp, uint32(regVal), uint32(rmVal), 16)
			if aluOp != opcodemap.AluCMP {
				c.Set16(cpudefs.Reg16(m.reg), uint16(result))
			}
		} else {
			result := c.doAlu(aluOp, uint32(rmVal), uint32(regVal), 16)
			if aluOp != opcodemap.AluCMP {
				c.storeRM16(m, uint16(result))
			}
		}
	} else {
		regVal := c.Get8(cpudefs.Reg8(m.reg))
		rmVal := c.loadRM8(m)
		if toReg {
			result := c.doAlu(aluOp, uint32(regVal), uint32(rmVal), 8)
			if aluOp != opcodemap.AluCMP {
				c.Set8(cpudefs.Reg8(m.reg), byte(result))
			}
		} else {
			result := c.doAlu(aluOp, uint32(rmVal), uint32(regVal), 8)
			if aluOp != opcodemap.AluCMP {
				c.storeRM8(m, byte(result))
			}
		}
	}
	return nil
}

func (c *CPU) execAluImmAcc(op byte) error {
	aluOp := opcodemap.AluOp((op >> 3) & 7)
	w := op&1 != 0
	if w {
		imm := c.fetch16()
		result := c.doAlu(aluOp, uint32(c.Get16(cpudefs.AX)), uint32(imm), 16)
		if aluOp != opcodemap.AluCMP {
			c.Set16(cpudefs.AX, uint16(result))
		}
	} else {
		imm := c.fetch8()
		result := c.doAlu(aluOp, uint32(c.Get8(cpudefs.AL)), uint32(imm), 8)
		if aluOp != opcodemap.AluCMP {
			c.Set8(cpudefs.AL, byte(result))
		}
	}
	return nil
}

func (c *CPU) execAluImmRM(op byte) error {
	m := c.decodeModRM()
	word := op == 0x81 || op == 0x83
	width := 8
	if word {
		width = 16
	}
	var imm uint32
	if op == 0x83 {
		imm = uint32(uint16(int16(int8(c.fetch8()))))
	} else if word {
		imm = uint32(c.fetch16())
	} else {
		imm = uint32(c.fetch8())
	}

	aluOp := opcodemap.AluOp(m.reg)
	var rmVal uint32
	if width == 16 {
		rmVal = uint32(c.loadRM16(m))
	} else {
		rmVal = uint32(c.loadRM8(m))
	}
	result := c.doAlu(aluOp, rmVal, imm, width)
	if aluOp != opcodemap.AluCMP {
		if width == 16 {
			c.storeRM16(m, uint16(result))
		} else {
			c.storeRM8(m, byte(result))
		}
	}
	return nil
}

// doAlu runs one of the eight group-1 ALU ops and updates c.Flags,
// returning the result (irrelevant for CMP, which the caller discards).
func (c *CPU) doAlu(op opcodemap.AluOp, dst, src uint32, width int) uint32 {
	c.LastOp = opcodemap.AluMnemonic[op&7]
	var result uint32
	var f uint16
	switch op {
	case opcodemap.AluADD:
		result, f = aluAdd(dst, src, 0, width)
	case opcodemap.AluOR:
		result = (dst | src) & widthMask(width)
		f = aluLogic(result, width)
	case opcodemap.AluADC:
		carry := uint32(0)
		if c.flag(cpudefs.FlagCF) {
			carry = 1
		}
		result, f = aluAdd(dst, src, carry, width)
	case opcodemap.AluSBB:
		borrow := uint32(0)
		if c.flag(cpudefs.FlagCF) {
			borrow = 1
		}
		result, f = aluSub(dst, src, borrow, width)
	case opcodemap.AluAND:
		result = (dst & src) & widthMask(width)
		f = aluLogic(result, width)
	case opcodemap.AluSUB:
		result, f = aluSub(dst, src, 0, width)
	case opcodemap.AluXOR:
		result = (dst ^ src) & widthMask(width)
		f = aluLogic(result, width)
	case opcodemap.AluCMP:
		result, f = aluSub(dst, src, 0, width)
	}
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	return result
}

func (c *CPU) execShiftRot(op byte) error {
	m := c.decodeModRM()
	width := 8
	if op&1 != 0 {
		width = 16
	}
	var count int
	if op&2 != 0 {
		count = int(c.Get8(cpudefs.CL))
	} else {
		count = 1
	}
	shiftOp := opcodemap.ShiftOp(m.reg)
	c.LastOp = opcodemap.ShiftMnemonic[shiftOp&7]

	var val uint32
	if width == 16 {
		val = uint32(c.loadRM16(m))
	} else {
		val = uint32(c.loadRM8(m))
	}
	result, f, _ := shiftRotate(shiftOp, val, count, width, c.flag(cpudefs.FlagCF))
	if count != 0 {
		keep := c.Flags &^ (cpudefs.FlagCF | cpudefs.FlagOF | cpudefs.FlagZF | cpudefs.FlagSF | cpudefs.FlagPF)
		c.Flags = cpudefs.CanonicalFlags(keep | f)
	}
	if width == 16 {
		c.storeRM16(m, uint16(result))
	} else {
		c.storeRM8(m, byte(result))
	}
	return nil
}

func condBranchTaken(op byte, c *CPU) bool {
	if op == 0xE3 {
		return c.Get16(cpudefs.CX) == 0
	}
	of, cf, zf, sf, pf := c.flag(cpudefs.FlagOF), c.flag(cpudefs.FlagCF),
		c.flag(cpudefs.FlagZF), c.flag(cpudefs.FlagSF), c.flag(cpudefs.FlagPF)
	switch op & 0x0F {
	case 0x0:
		return of
	case 0x1:
		return !of
	case 0x2:
		return cf
	case 0x3:
		return !cf
	case 0x4:
		return zf
	case 0x5:
		return !zf
	case 0x6:
		return cf || zf
	case 0x7:
		return !cf && !zf
	case 0x8:
		return sf
	case 0x9:
		return !sf
	case 0xA:
		return pf
	case 0xB:
		return !pf
	case 0xC:
		return sf != of
	case 0xD:
		return sf == of
	case 0xE:
		return zf || sf != of
	case 0xF:
		return !zf && sf == of
	}
	return false
}

func (c *CPU) execCondBranch(op byte) {
	disp := int16(int8(c.fetch8()))
	if condBranchTaken(op, c) {
		c.IP = uint16(int32(c.IP) + int32(disp))
	}
}
