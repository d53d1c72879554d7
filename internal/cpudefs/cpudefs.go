/*
   go8086 - CPU register, segment, and flag enumerations.

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

// Package cpudefs holds the small, explicit enumerations that replace
// the original 8086 emulator's pointer-into-struct register selection:
// a 3-bit reg/rm field or a 2-bit sreg field picks a register by table
// lookup here, never by address arithmetic on a CPU struct.
package cpudefs

// Reg16 names a 16-bit general register.
type Reg16 int

const (
	AX Reg16 = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var reg16Names = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}

func (r Reg16) String() string { return reg16Names[r&7] }

// Reg8 names an 8-bit general register (AL, CL, ... BH).
type Reg8 int

const (
	AL Reg8 = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
)

var reg8Names = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}

func (r Reg8) String() string { return reg8Names[r&7] }

// Seg names a segment register. The CPU's implicit-segment-override
// encoding (seg_override == -1 means "none / default DS") reuses these
// same small integers, with -1 as a sentinel handled by the caller
// rather than being part of this enumeration.
type Seg int

const (
	ES Seg = iota
	CS
	SS
	DS
)

var segNames = [4]string{"ES", "CS", "SS", "DS"}

func (s Seg) String() string { return segNames[s&3] }

// Flag bit positions in the 16-bit FLAGS register.
const (
	FlagCF = 1 << 0
	FlagR1 = 1 << 1 // reserved, always 1
	FlagPF = 1 << 2
	FlagR3 = 1 << 3 // reserved, always 0
	FlagAF = 1 << 4
	FlagR5 = 1 << 5 // reserved, always 0
	FlagZF = 1 << 6
	FlagSF = 1 << 7
	FlagTF = 1 << 8
	FlagIF = 1 << 9
	FlagDF = 1 << 10
	FlagOF = 1 << 11
)

// ReservedSet is the mask of bits that are forced to 1; ReservedClear is
// the mask of bits forced to 0 on every pop-flags. The remaining
// reserved bits (15:12) are forced to 1, matching real 8086 behavior.
const (
	ReservedSet   uint16 = FlagR1 | 0xF000
	ReservedClear uint16 = FlagR3 | FlagR5
)

// CanonicalFlags forces the reserved bits of f to their architectural
// values, leaving the defined flag bits untouched.
func CanonicalFlags(f uint16) uint16 {
	f |= ReservedSet
	f &^= ReservedClear
	return f
}

// SregIndex maps the 2-bit sreg ModR/M field to a segment register.
func SregIndex(idx int) Seg {
	return Seg(idx & 3)
}
