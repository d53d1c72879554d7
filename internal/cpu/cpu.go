/*
   go8086 - CPU state, instruction fetch, and the top-level step loop.

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

// Package cpu implements the 8086 real-mode
// fetch/decode/execute engine and the interrupt acceptance protocol
// that runs at each instruction boundary.
package cpu

import (
	"fmt"

	"github.com/rcornwell/go8086/internal/bus"
	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/memory"
)

// DecodeError is returned by Step when the primary opcode (after all
// prefixes) matches no implemented class or singleton. It is fatal to
// the run.
type DecodeError struct {
	Opcode byte
	CS, IP uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: undefined opcode %#02x at %04X:%04X", e.Opcode, e.CS, e.IP)
}

// segNone is the seg_override sentinel meaning no prefix was seen:
// each addressing form falls back to its own default segment (effAddr's
// ssDefault for BP-based forms, DS otherwise).
const segNone = -1

// CPU holds the full architectural state of one 8086 core: general and
// segment registers, flags, instruction pointer, and the per-instruction
// transient fields. A CPU is created once per run and lives for its
// whole lifetime; there is no pooling or reset beyond Reset.
type CPU struct {
	Regs [8]uint16 // indexed by cpudefs.Reg16: AX,CX,DX,BX,SP,BP,SI,DI
	Seg  [4]uint16 // indexed by cpudefs.Seg: ES,CS,SS,DS
	IP   uint16
	Flags uint16

	Bus *bus.Bus

	segOverride int
	repPrefix   byte // 0xF2 REPNE/REPNZ, 0xF3 REP/REPE/REPZ, 0 none
	intSrc      int  // pending software/fault vector, -1 when none

	Halted  bool
	Cycles  uint64

	// LastOp names the ALU or shift/rotate operation the most recently
	// executed instruction performed (e.g. "ADD", "SHR"), or "" for
	// instructions outside those two groups. Consumed by the trace log.
	LastOp string

	// Breakpoint hook set by internal/debugger and checked by
	// internal/machine before each fetch; the CPU itself never reads it.
	Breakpoint int64 // physical address, -1 disables
}

// New returns a CPU wired to bus b, with CS=0xFFFF, IP=0, SP=0 and
// canonical flags, matching real hardware reset state.
func New(b *bus.Bus) *CPU {
	c := &CPU{Bus: b, segOverride: segNone, intSrc: -1, Breakpoint: -1}
	c.Seg[cpudefs.CS] = 0xFFFF
	c.Flags = cpudefs.CanonicalFlags(0)
	return c
}

// Get16 reads a general 16-bit register.
func (c *CPU) Get16(r cpudefs.Reg16) uint16 { return c.Regs[r&7] }

// Set16 writes a general 16-bit register.
func (c *CPU) Set16(r cpudefs.Reg16, v uint16) { c.Regs[r&7] = v }

// Get8 reads an 8-bit register, selecting the low or high byte of the
// corresponding 16-bit pair per the AL..BH encoding.
func (c *CPU) Get8(r cpudefs.Reg8) byte {
	i := int(r) & 7
	if i < 4 {
		return byte(c.Regs[i])
	}
	return byte(c.Regs[i-4] >> 8)
}

// Set8 writes an 8-bit register, preserving the other byte of its pair.
func (c *CPU) Set8(r cpudefs.Reg8, v byte) {
	i := int(r) & 7
	if i < 4 {
		c.Regs[i] = (c.Regs[i] &^ 0xFF) | uint16(v)
		return
	}
	c.Regs[i-4] = (c.Regs[i-4] &^ 0xFF00) | uint16(v)<<8
}

// GetSeg/SetSeg access a segment register.
func (c *CPU) GetSeg(s cpudefs.Seg) uint16     { return c.Seg[s&3] }
func (c *CPU) SetSeg(s cpudefs.Seg, v uint16)  { c.Seg[s&3] = v }

func (c *CPU) flag(bit uint16) bool { return c.Flags&bit != 0 }

func (c *CPU) setFlag(bit uint16, v bool) {
	if v {
		c.Flags |= bit
	} else {
		c.Flags &^= bit
	}
	c.Flags = cpudefs.CanonicalFlags(c.Flags)
}

// fetch8 reads the next byte at CS:IP and advances IP.
func (c *CPU) fetch8() byte {
	v := c.Bus.LoadU8(memory.Phys(c.Seg[cpudefs.CS], c.IP))
	c.IP++
	return v
}

// fetch16 reads the next little-endian word at CS:IP and advances IP
// by two, one byte at a time so IP wraps exactly as a real 8086 would.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

// csip returns the current physical fetch address, for breakpoint
// comparison and trace output.
func (c *CPU) csip() uint32 {
	return memory.Phys(c.Seg[cpudefs.CS], c.IP)
}

// Step executes exactly one instruction: prefixes, opcode, ModR/M if
// required, dispatch, then the I/O tick and interrupt acceptance.
// everyOtherCycle selects whether this call should also tick the PIT,
// which only advances on every other instruction.
func (c *CPU) Step(everyOtherCycle bool) error {
	c.segOverride = segNone
	c.intSrc = -1
	c.repPrefix = 0
	c.LastOp = ""
	c.Cycles++

	for {
		op := c.fetch8()
		if prefixByte(op) {
			c.applyPrefix(op)
			continue
		}
		if err := c.execute(op); err != nil {
			return err
		}
		break
	}

	c.Bus.Tick(everyOtherCycle)
	c.acceptInterrupt()
	return nil
}

func prefixByte(op byte) bool {
	switch op {
	case 0xF0, 0xF2, 0xF3: // LOCK, REPNE, REP/REPE
		return true
	case 0x26, 0x2E, 0x36, 0x3E: // ES, CS, SS, DS override
		return true
	}
	return false
}

func (c *CPU) applyPrefix(op byte) {
	switch op {
	case 0xF0: // LOCK: no-op, single-CPU model has no bus contention.
	case 0xF2, 0xF3:
		c.repPrefix = op
	case 0x26:
		c.segOverride = int(cpudefs.ES)
	case 0x2E:
		c.segOverride = int(cpudefs.CS)
	case 0x36:
		c.segOverride = int(cpudefs.SS)
	case 0x3E:
		c.segOverride = int(cpudefs.DS)
	}
}

// selectSeg resolves the segment an effective address should use:
// an explicit override wins; otherwise the addressing-mode default
// (ssDefault) applies.
func (c *CPU) selectSeg(ssDefault bool) cpudefs.Seg {
	if c.segOverride >= 0 {
		return cpudefs.Seg(c.segOverride)
	}
	if ssDefault {
		return cpudefs.SS
	}
	return cpudefs.DS
}
