/*
   go8086 - singleton opcode dispatch: every instruction not covered by
   a layer-1 class mask.

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
	"github.com/rcornwell/go8086/internal/opcodemap"
)

// execSingleton handles every opcode outside the layer-1 classes:
// segment push/pop, TEST, XCHG r/m, MOV sreg, LEA, POP m16, CBW/CWD,
// far call/jump, PUSHF/POPF, SAHF/LAHF, accumulator<->moffs MOV,
// RET/RETF, LES/LDS, MOV r/m,imm, INT3/INTn/INTO/IRET, XLATB,
// LOOP family, IN/OUT, HLT/CMC/flag-bit opcodes, groups F6/F7/FE/FF,
// plus the supplemented AAA/AAS/AAM/AAD/DAA/DAS and WAIT/ESC/LOCK.
func (c *CPU) execSingleton(op byte) error {
	switch op {
	case 0x06:
		c.push(c.Seg[cpudefs.ES])
	case 0x07:
		c.Seg[cpudefs.ES] = c.pop()
	case 0x0E:
		c.push(c.Seg[cpudefs.CS])
	case 0x16:
		c.push(c.Seg[cpudefs.SS])
	case 0x17:
		c.Seg[cpudefs.SS] = c.pop()
	case 0x1E:
		c.push(c.Seg[cpudefs.DS])
	case 0x1F:
		c.Seg[cpudefs.DS] = c.pop()

	case 0x27:
		c.daa()
	case 0x2F:
		c.das()
	case 0x37:
		c.aaa()
	case 0x3F:
		c.aas()

	case 0x84, 0x85:
		return c.execTestRM(op)
	case 0x86, 0x87:
		return c.execXchgRM(op)
	case 0x8C:
		m := c.decodeModRM()
		c.storeRM16(m, c.Seg[cpudefs.SregIndex(m.reg)])
	case 0x8E:
		m := c.decodeModRM()
		c.Seg[cpudefs.SregIndex(m.reg)] = c.loadRM16(m)
	case 0x8D: // LEA
		m := c.decodeModRM()
		off, _ := c.effAddr(m)
		c.Set16(cpudefs.Reg16(m.reg), off)
	case 0x8F: // POP m16 (or register, per general ModR/M)
		m := c.decodeModRM()
		c.storeRM16(m, c.pop())

	case 0x98: // CBW
		c.Set16(cpudefs.AX, uint16(int16(int8(c.Get8(cpudefs.AL)))))
	case 0x99: // CWD
		if c.Get16(cpudefs.AX)&0x8000 != 0 {
			c.Set16(cpudefs.DX, 0xFFFF)
		} else {
			c.Set16(cpudefs.DX, 0)
		}

	case 0x9A: // CALLF ptr16:16
		offset := c.fetch16()
		seg := c.fetch16()
		c.push(c.Seg[cpudefs.CS])
		c.push(c.IP)
		c.Seg[cpudefs.CS] = seg
		c.IP = offset
	case 0x9B: // WAIT: no coprocessor, no-op.
	case 0x9C: // PUSHF
		c.push(c.Flags)
	case 0x9D: // POPF
		c.Flags = cpudefs.CanonicalFlags(c.pop())
	case 0x9E: // SAHF
		lo := c.Get8(cpudefs.AH)
		c.Flags = cpudefs.CanonicalFlags((c.Flags &^ 0xFF) | uint16(lo))
	case 0x9F: // LAHF
		c.Set8(cpudefs.AH, byte(c.Flags))

	case 0xA0:
		off := c.fetch16()
		c.Set8(cpudefs.AL, c.Bus.LoadU8(memory.Phys(c.Seg[c.selectSeg(false)], off)))
	case 0xA1:
		off := c.fetch16()
		c.Set16(cpudefs.AX, c.Bus.LoadSegU16(c.Seg[c.selectSeg(false)], off))
	case 0xA2:
		off := c.fetch16()
		c.Bus.StoreU8(memory.Phys(c.Seg[c.selectSeg(false)], off), c.Get8(cpudefs.AL))
	case 0xA3:
		off := c.fetch16()
		c.Bus.StoreSegU16(c.Seg[c.selectSeg(false)], off, c.Get16(cpudefs.AX))

	case 0xA8:
		imm := c.fetch8()
		c.doAlu(opcodemap.AluAND, uint32(c.Get8(cpudefs.AL)), uint32(imm), 8)
	case 0xA9:
		imm := c.fetch16()
		c.doAlu(opcodemap.AluAND, uint32(c.Get16(cpudefs.AX)), uint32(imm), 16)

	case 0xC2:
		imm := c.fetch16()
		c.IP = c.pop()
		c.Regs[sp] += imm
	case 0xC3:
		c.IP = c.pop()
	case 0xC4:
		m := c.decodeModRM()
		off := c.loadRM16(m)
		seg := c.farPtrSeg(m)
		c.Set16(cpudefs.Reg16(m.reg), off)
		c.Seg[cpudefs.ES] = seg
	case 0xC5:
		m := c.decodeModRM()
		off := c.loadRM16(m)
		seg := c.farPtrSeg(m)
		c.Set16(cpudefs.Reg16(m.reg), off)
		c.Seg[cpudefs.DS] = seg
	case 0xC6:
		m := c.decodeModRM()
		imm := c.fetch8()
		c.storeRM8(m, imm)
	case 0xC7:
		m := c.decodeModRM()
		imm := c.fetch16()
		c.storeRM16(m, imm)

	case 0xCA:
		imm := c.fetch16()
		c.IP = c.pop()
		c.Seg[cpudefs.CS] = c.pop()
		c.Regs[sp] += imm
	case 0xCB:
		c.IP = c.pop()
		c.Seg[cpudefs.CS] = c.pop()
	case 0xCC:
		c.intSrc = 3
	case 0xCD:
		c.intSrc = int(c.fetch8())
	case 0xCE:
		if c.flag(cpudefs.FlagOF) {
			c.intSrc = 4
		}
	case 0xCF:
		c.IP = c.pop()
		c.Seg[cpudefs.CS] = c.pop()
		c.Flags = cpudefs.CanonicalFlags(c.pop())

	case 0xD4:
		return c.aam()
	case 0xD5:
		c.aad()

	case 0xD7: // XLATB
		off := c.Get16(cpudefs.BX) + uint16(c.Get8(cpudefs.AL))
		c.Set8(cpudefs.AL, c.Bus.LoadU8(memory.Phys(c.Seg[c.selectSeg(false)], off)))

	case 0xD8, 0xD9, 0xDA, 0xDB, 0xDC, 0xDD, 0xDE, 0xDF:
		return &DecodeError{Opcode: op, CS: c.Seg[cpudefs.CS], IP: c.IP} // ESC: no coprocessor

	case 0xE0, 0xE1, 0xE2:
		disp := int16(int8(c.fetch8()))
		cx := c.Get16(cpudefs.CX) - 1
		c.Set16(cpudefs.CX, cx)
		take := cx != 0
		if op == 0xE0 {
			take = take && !c.flag(cpudefs.FlagZF)
		} else if op == 0xE1 {
			take = take && c.flag(cpudefs.FlagZF)
		}
		if take {
			c.IP = uint16(int32(c.IP) + int32(disp))
		}

	case 0xE4:
		port := uint16(c.fetch8())
		v, err := c.Bus.InChecked(port)
		if err != nil {
			return err
		}
		c.Set8(cpudefs.AL, v)
	case 0xE5:
		port := uint16(c.fetch8())
		lo, err := c.Bus.InChecked(port)
		if err != nil {
			return err
		}
		hi, err := c.Bus.InChecked(port + 1)
		if err != nil {
			return err
		}
		c.Set16(cpudefs.AX, uint16(lo)|uint16(hi)<<8)
	case 0xE6:
		port := uint16(c.fetch8())
		return c.Bus.Out(port, c.Get8(cpudefs.AL))
	case 0xE7:
		port := uint16(c.fetch8())
		v := c.Get16(cpudefs.AX)
		if err := c.Bus.Out(port, byte(v)); err != nil {
			return err
		}
		return c.Bus.Out(port+1, byte(v>>8))

	case 0xE8: // CALL near rel16
		disp := int16(c.fetch16())
		c.push(c.IP)
		c.IP = uint16(int32(c.IP) + int32(disp))
	case 0xE9: // JMP near rel16
		disp := int16(c.fetch16())
		c.IP = uint16(int32(c.IP) + int32(disp))
	case 0xEA: // JMP far ptr16:16
		offset := c.fetch16()
		seg := c.fetch16()
		c.IP = offset
		c.Seg[cpudefs.CS] = seg
	case 0xEB: // JMP short rel8
		disp := int16(int8(c.fetch8()))
		c.IP = uint16(int32(c.IP) + int32(disp))

	case 0xEC:
		v, err := c.Bus.InChecked(c.Get16(cpudefs.DX))
		if err != nil {
			return err
		}
		c.Set8(cpudefs.AL, v)
	case 0xED:
		port := c.Get16(cpudefs.DX)
		lo, err := c.Bus.InChecked(port)
		if err != nil {
			return err
		}
		hi, err := c.Bus.InChecked(port + 1)
		if err != nil {
			return err
		}
		c.Set16(cpudefs.AX, uint16(lo)|uint16(hi)<<8)
	case 0xEE:
		return c.Bus.Out(c.Get16(cpudefs.DX), c.Get8(cpudefs.AL))
	case 0xEF:
		port := c.Get16(cpudefs.DX)
		v := c.Get16(cpudefs.AX)
		if err := c.Bus.Out(port, byte(v)); err != nil {
			return err
		}
		return c.Bus.Out(port+1, byte(v>>8))

	case 0xF4:
		c.Halted = true
	case 0xF5:
		c.setFlag(cpudefs.FlagCF, !c.flag(cpudefs.FlagCF))

	case 0xF6, 0xF7:
		return c.execGroupF6F7(op)

	case 0xF8:
		c.setFlag(cpudefs.FlagCF, false)
	case 0xF9:
		c.setFlag(cpudefs.FlagCF, true)
	case 0xFA:
		c.setFlag(cpudefs.FlagIF, false)
	case 0xFB:
		c.setFlag(cpudefs.FlagIF, true)
	case 0xFC:
		c.setFlag(cpudefs.FlagDF, false)
	case 0xFD:
		c.setFlag(cpudefs.FlagDF, true)

	case 0xFE:
		return c.execGroupFE()
	case 0xFF:
		return c.execGroupFF()

	default:
		return &DecodeError{Opcode: op, CS: c.Seg[cpudefs.CS], IP: c.IP}
	}
	return nil
}

func (c *CPU) execTestRM(op byte) error {
	m := c.decodeModRM()
	if op == 0x84 {
		a, b := c.Get8(cpudefs.Reg8(m.reg)), c.loadRM8(m)
		c.doAlu(opcodemap.AluAND, uint32(a), uint32(b), 8)
	} else {
		a, b := c.Get16(cpudefs.Reg16(m.reg)), c.loadRM16(m)
		c.doAlu(opcodemap.AluAND, uint32(a), uint32(b), 16)
	}
	return nil
}

func (c *CPU) execXchgRM(op byte) error {
	m := c.decodeModRM()
	if op == 0x86 {
		a, b := c.Get8(cpudefs.Reg8(m.reg)), c.loadRM8(m)
		c.Set8(cpudefs.Reg8(m.reg), b)
		c.storeRM8(m, a)
	} else {
		a, b := c.Get16(cpudefs.Reg16(m.reg)), c.loadRM16(m)
		c.Set16(cpudefs.Reg16(m.reg), b)
		c.storeRM16(m, a)
	}
	return nil
}

// execGroupF6F7 covers TEST/NOT/NEG/MUL/IMUL/DIV/IDIV, selected by the
// ModR/M reg field under opcodes F6 (byte) and F7 (word).
func (c *CPU) execGroupF6F7(op byte) error {
	m := c.decodeModRM()
	width := 8
	if op == 0xF7 {
		width = 16
	}

	switch m.reg {
	case 0, 1: // TEST r/m, imm
		var imm uint32
		var rm uint32
		if width == 16 {
			imm = uint32(c.fetch16())
			rm = uint32(c.loadRM16(m))
		} else {
			imm = uint32(c.fetch8())
			rm = uint32(c.loadRM8(m))
		}
		c.doAlu(opcodemap.AluAND, rm, imm, width)
	case 2: // NOT
		if width == 16 {
			c.storeRM16(m, ^c.loadRM16(m))
		} else {
			c.storeRM8(m, ^c.loadRM8(m))
		}
	case 3: // NEG
		if width == 16 {
			result, f := aluNeg(uint32(c.loadRM16(m)), 16)
			c.storeRM16(m, uint16(result))
			c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
		} else {
			result, f := aluNeg(uint32(c.loadRM8(m)), 8)
			c.storeRM8(m, byte(result))
			c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
		}
	case 4:
		c.mul(m, width, false)
	case 5:
		c.mul(m, width, true)
	case 6:
		return c.div(m, width, false)
	case 7:
		return c.div(m, width, true)
	}
	return nil
}

func (c *CPU) execGroupFE() error {
	m := c.decodeModRM()
	switch m.reg {
	case 0:
		result, f := aluIncDec(uint32(c.loadRM8(m)), false, 8, c.Flags)
		c.storeRM8(m, byte(result))
		c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	case 1:
		result, f := aluIncDec(uint32(c.loadRM8(m)), true, 8, c.Flags)
		c.storeRM8(m, byte(result))
		c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	default:
		return &DecodeError{Opcode: 0xFE, CS: c.Seg[cpudefs.CS], IP: c.IP}
	}
	return nil
}

func (c *CPU) execGroupFF() error {
	m := c.decodeModRM()
	switch m.reg {
	case 0:
		result, f := aluIncDec(uint32(c.loadRM16(m)), false, 16, c.Flags)
		c.storeRM16(m, uint16(result))
		c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	case 1:
		result, f := aluIncDec(uint32(c.loadRM16(m)), true, 16, c.Flags)
		c.storeRM16(m, uint16(result))
		c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	case 2: // CALL r/m16 near indirect
		target := c.loadRM16(m)
		c.push(c.IP)
		c.IP = target
	case 3: // CALLF r/m32 far indirect
		off := c.loadRM16(m)
		seg := c.farPtrSeg(m)
		c.push(c.Seg[cpudefs.CS])
		c.push(c.IP)
		c.IP = off
		c.Seg[cpudefs.CS] = seg
	case 4: // JMP r/m16 near indirect
		c.IP = c.loadRM16(m)
	case 5: // JMPF r/m32 far indirect
		off := c.loadRM16(m)
		seg := c.farPtrSeg(m)
		c.IP = off
		c.Seg[cpudefs.CS] = seg
	case 6: // PUSH m16/r16
		if m.isMem {
			c.pushMemOperand(m)
		} else {
			c.push(c.loadRM16(m))
		}
	default:
		return &DecodeError{Opcode: 0xFF, CS: c.Seg[cpudefs.CS], IP: c.IP}
	}
	return nil
}
