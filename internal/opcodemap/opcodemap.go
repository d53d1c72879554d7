/*
   go8086 - Opcode classification tables for decode and disassembly.

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

// Package opcodemap holds the opcode-class mask table from the decoder
// design (layer 1 of the two-layer decode) plus a small mnemonic table
// used by the debugger's trace output.
package opcodemap

// Class is the layer-1 opcode classification token.
type Class int

const (
	ClassNone      Class = iota
	ClassAluRM           // ALU r/m <-> reg (8 group ops + MOV)
	ClassAluImmAcc       // ALU AX/AL <-> imm
	ClassIncR16
	ClassDecR16
	ClassPushR16
	ClassPopR16
	ClassXchgAX
	ClassMovR16Imm
	ClassMovR8Imm
	ClassCondBranch
	ClassAluImmRM // immediate-form ALU (group 80..83)
	ClassShiftRot // group D0..D3
	ClassString
	ClassPrefix
	ClassSingleton // explicit dispatch, not covered by a mask
)

// Classify returns the layer-1 class for a primary opcode byte, checked
// in descending-specificity priority order.
func Classify(op byte) Class {
	switch {
	case op&0xC4 == 0x00, op&0xFC == 0x88:
		return ClassAluRM
	case op&0xC6 == 0x04:
		return ClassAluImmAcc
	case op&0xF8 == 0x40:
		return ClassIncR16
	case op&0xF8 == 0x48:
		return ClassDecR16
	case op&0xF8 == 0x50:
		return ClassPushR16
	case op&0xF8 == 0x58:
		return ClassPopR16
	case op&0xF8 == 0x90:
		return ClassXchgAX
	case op&0xF8 == 0xB8:
		return ClassMovR16Imm
	case op&0xF8 == 0xB0:
		return ClassMovR8Imm
	case op&0xF0 == 0x70, op == 0xE3:
		return ClassCondBranch
	case op&0xFC == 0x80:
		return ClassAluImmRM
	case op&0xFC == 0xD0:
		return ClassShiftRot
	case op&0xF4 == 0xA4, op&0xFE == 0xAA:
		return ClassString
	case op&0xFC == 0xF0, op&0xE7 == 0x26:
		return ClassPrefix
	default:
		return ClassSingleton
	}
}

// AluOp is one of the eight group-1 ALU operations selected by the reg
// field of ModR/M (or bits 5:3 of the opcode for the immediate-accumulator
// forms).
type AluOp int

const (
	AluADD AluOp = iota
	AluOR
	AluADC
	AluSBB
	AluAND
	AluSUB
	AluXOR
	AluCMP
)

// ShiftOp is one of the eight group-2 shift/rotate operations selected
// by the reg field of ModR/M under opcodes D0-D3.
type ShiftOp int

const (
	ShROL ShiftOp = iota
	ShROR
	ShRCL
	ShRCR
	ShSHL // SAL is the same encoding as SHL
	ShSHR
	ShSHLAlt // undocumented alias of SHL, reg==6
	ShSAR
)

// Mnemonics used by the debugger's trace/disassembly output, keyed by
// AluOp and ShiftOp for the many opcodes that share one operation table.
var AluMnemonic = [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}

var ShiftMnemonic = [8]string{"ROL", "ROR", "RCL", "RCR", "SHL", "SHR", "SHL", "SAR"}
