/*
   go8086 - ALU flag-computing primitives.

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
	"math/bits"

	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/opcodemap"
)

func widthMask(width int) uint32 {
	if width == 8 {
		return 0xFF
	}
	return 0xFFFF
}

func signBit(width int) uint32 {
	if width == 8 {
		return 0x80
	}
	return 0x8000
}

func parityEven(v byte) bool {
	return bits.OnesCount8(v)%2 == 0
}

// aluAdd implements ADD/ADC's flag contract.
func aluAdd(op1, op2, carryIn uint32, width int) (uint32, uint16) {
	mask := widthMask(width)
	a, b := op1&mask, op2&mask
	raw := a + b + carryIn
	result := raw & mask

	var f uint16
	if raw&(mask+1) != 0 {
		f |= cpudefs.FlagCF
	}
	if (a&0xF)+(b&0xF)+carryIn > 0xF {
		f |= cpudefs.FlagAF
	}
	f |= commonFlags(result, width)
	s1, s2, sr := a&signBit(width) != 0, b&signBit(width) != 0, result&signBit(width) != 0
	if s1 == s2 && sr != s1 {
		f |= cpudefs.FlagOF
	}
	return result, f
}

// aluSub implements SUB/SBB/CMP's flag contract. borrowIn is 0 for
// SUB/CMP, the previous CF for SBB.
func aluSub(op1, op2, borrowIn uint32, width int) (uint32, uint16) {
	mask := widthMask(width)
	a, b := op1&mask, (op2&mask)+borrowIn
	raw := a - b
	result := raw & mask

	var f uint16
	if a < b {
		f |= cpudefs.FlagCF
	}
	if (a & 0xF) < (op2&0xF)+borrowIn {
		f |= cpudefs.FlagAF
	}
	f |= commonFlags(result, width)
	s1, s2, sr := a&signBit(width) != 0, (op2&mask)&signBit(width) != 0, result&signBit(width) != 0
	if s1 != s2 && sr != s1 {
		f |= cpudefs.FlagOF
	}
	return result, f
}

// commonFlags computes ZF/SF/PF, shared by every arithmetic/logic op.
func commonFlags(result uint32, width int) uint16 {
	var f uint16
	if result&signBit(width) != 0 {
		f |= cpudefs.FlagSF
	}
	if result == 0 {
		f |= cpudefs.FlagZF
	}
	if parityEven(byte(result)) {
		f |= cpudefs.FlagPF
	}
	return f
}

// aluLogic implements OR/AND/XOR: CF=OF=AF=0, remaining flags from result.
func aluLogic(result uint32, width int) uint16 {
	return commonFlags(result, width)
}

// aluIncDec implements INC/DEC: identical arithmetic to ADD/SUB by one,
// but CF is preserved from the flags before the operation.
func aluIncDec(op1 uint32, dec bool, width int, prevFlags uint16) (uint32, uint16) {
	var result uint32
	var f uint16
	if dec {
		result, f = aluSub(op1, 1, 0, width)
	} else {
		result, f = aluAdd(op1, 1, 0, width)
	}
	f = (f &^ cpudefs.FlagCF) | (prevFlags & cpudefs.FlagCF)
	return result, f
}

// aluNeg implements NEG as 0-op with full flag update.
func aluNeg(op1 uint32, width int) (uint32, uint16) {
	return aluSub(0, op1, 0, width)
}

// shiftRotate implements ROL/ROR/RCL/RCR/SHL/SHR/SAR per the 8086's
// truth tables. count is the already-decoded shift amount (not yet reduced
// modulo width/width+1); cf is the incoming carry flag.
func shiftRotate(op opcodemap.ShiftOp, val uint32, count int, width int, cf bool) (uint32, uint16, bool) {
	mask := widthMask(width)
	val &= mask
	of := false
	ofValid := count == 1

	switch op {
	case opcodemap.ShROL:
		n := count % width
		for i := 0; i < n; i++ {
			top := val&signBit(width) != 0
			val = ((val << 1) & mask)
			if top {
				val |= 1
				cf = true
			} else {
				cf = false
			}
		}
		if ofValid {
			of = cf != (val&signBit(width) != 0)
		}
	case opcodemap.ShROR:
		n := count % width
		for i := 0; i < n; i++ {
			bit0 := val&1 != 0
			val >>= 1
			if bit0 {
				val |= signBit(width)
				cf = true
			} else {
				cf = false
			}
		}
		if ofValid {
			top := val&signBit(width) != 0
			second := val&(signBit(width)>>1) != 0
			of = top != second
		}
	case opcodemap.ShRCL:
		n := count % (width + 1)
		for i := 0; i < n; i++ {
			top := val&signBit(width) != 0
			newCF := top
			val = (val << 1) & mask
			if cf {
				val |= 1
			}
			cf = newCF
		}
		if ofValid {
			of = cf != (val&signBit(width) != 0)
		}
	case opcodemap.ShRCR:
		n := count % (width + 1)
		for i := 0; i < n; i++ {
			bit0 := val&1 != 0
			newCF := bit0
			val >>= 1
			if cf {
				val |= signBit(width)
			}
			cf = newCF
		}
		if ofValid {
			top := val&signBit(width) != 0
			second := val&(signBit(width)>>1) != 0
			of = top != second
		}
	case opcodemap.ShSHL, opcodemap.ShSHLAlt:
		for i := 0; i < count; i++ {
			cf = val&signBit(width) != 0
			val = (val << 1) & mask
		}
		if ofValid {
			of = (val&signBit(width) != 0) != cf
		}
	case opcodemap.ShSHR:
		origMSB := val&signBit(width) != 0
		for i := 0; i < count; i++ {
			cf = val&1 != 0
			val >>= 1
		}
		if ofValid {
			of = origMSB
		}
	case opcodemap.ShSAR:
		signSet := val&signBit(width) != 0
		for i := 0; i < count; i++ {
			cf = val&1 != 0
			val >>= 1
			if signSet {
				val |= signBit(width)
			}
		}
		if ofValid {
			of = false
		}
	}

	var f uint16
	f |= commonFlags(val, width)
	if cf {
		f |= cpudefs.FlagCF
	}
	if of {
		f |= cpudefs.FlagOF
	}
	return val, f, cf
}
