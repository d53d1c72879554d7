/*
   go8086 - top-level run loop.

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

// Package machine owns the CPU and the bus and drives the cooperative
// run loop: step until a breakpoint, HLT, cycle budget, or a fatal
// error stops it. There is no goroutine or event queue here; the CPU
// loop runs on the caller's own goroutine and returns control at every
// suspension point the design allows.
package machine

import (
	"errors"
	"log/slog"

	"github.com/rcornwell/go8086/internal/bus"
	"github.com/rcornwell/go8086/internal/cpu"
	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/memory"
)

// StopReason explains why Run returned.
type StopReason int

const (
	// StopCycles means the cycle budget was exhausted.
	StopCycles StopReason = iota
	// StopBreakpoint means the CPU's Breakpoint address matched before fetch.
	StopBreakpoint
	// StopHalt means the CPU executed HLT.
	StopHalt
	// StopExit means the program wrote the synthetic exit port.
	StopExit
	// StopError means Step returned a decode or other fatal error.
	StopError
)

func (r StopReason) String() string {
	switch r {
	case StopCycles:
		return "cycles"
	case StopBreakpoint:
		return "breakpoint"
	case StopHalt:
		return "halt"
	case StopExit:
		return "exit"
	case StopError:
		return "error"
	}
	return "unknown"
}

// Machine wires one CPU to one Bus and runs the cooperative loop.
type Machine struct {
	CPU *cpu.CPU
	Bus *bus.Bus

	// ExitCode is set when Run stops with StopExit.
	ExitCode byte
	// Err is set when Run stops with StopError.
	Err error

	// Trace, when true, logs a full register/flag dump after each
	// instruction. TraceDiff limits the dump to fields whose value
	// changed since the previous instruction.
	Trace     bool
	TraceDiff bool

	prevRegs  [8]uint16
	prevSeg   [4]uint16
	prevFlags uint16
	prevIP    uint16
	haveTrace bool

	cycleParity bool // alternates every Step, feeding the PIT's every-other-cycle cadence

	// justHitBP is the one-shot "cleared" latch: set when Run returns
	// StopBreakpoint, so the next Run call executes the armed
	// instruction once before re-checking the breakpoint, instead of
	// refiring on the same CS:IP forever.
	justHitBP bool
}

// New wires a fresh Machine around a shared memory instance, including
// the CGA renderer's start hook.
func New(mem *memory.Memory, startRenderer func()) *Machine {
	b := bus.New(mem, startRenderer)
	c := cpu.New(b)
	return &Machine{CPU: c, Bus: b}
}

// Load reads a raw binary image into memory at the given segment:offset
// and points CS:IP at it, matching the CLI's `<bin> <seg:off>` contract.
func (m *Machine) Load(seg, off uint16, image []byte) {
	m.Bus.Mem.Load(memory.Phys(seg, off), image)
	m.CPU.Seg[cpudefs.CS] = seg
	m.CPU.IP = off
}

// Step executes exactly one instruction and advances the tick-parity
// counter used for the PIT's every-other-cycle cadence.
func (m *Machine) Step() error {
	everyOther := m.cycleParity
	m.cycleParity = !m.cycleParity
	err := m.CPU.Step(everyOther)
	if m.Trace {
		m.logTrace()
	}
	return err
}

// breakpointHit compares the CPU's armed breakpoint against the next
// fetch address. After it fires, the next Run call skips this check
// once so the instruction at that address executes (see justHitBP); it
// fires again the next time execution reaches the address.
func (m *Machine) breakpointHit() bool {
	if m.CPU.Breakpoint < 0 {
		return false
	}
	return uint32(m.CPU.Breakpoint) == memory.Phys(m.CPU.Seg[cpudefs.CS], m.CPU.IP)
}

// Run executes up to maxCycles instructions (unbounded if maxCycles <=
// 0), stopping at a breakpoint, HLT, an exit-port write, or a decode
// error, and returns why it stopped.
func (m *Machine) Run(maxCycles int64) StopReason {
	executed := int64(0)
	for maxCycles <= 0 || executed < maxCycles {
		if m.CPU.Halted {
			return StopHalt
		}
		if m.justHitBP {
			m.justHitBP = false
		} else if m.breakpointHit() {
			m.justHitBP = true
			return StopBreakpoint
		}

		if err := m.Step(); err != nil {
			var exit *bus.ErrExit
			if errors.As(err, &exit) {
				m.ExitCode = exit.Code
				return StopExit
			}
			m.Err = err
			slog.Error("run stopped", "error", err)
			return StopError
		}
		executed++

		if m.CPU.Halted {
			return StopHalt
		}
	}
	return StopCycles
}

func (m *Machine) logTrace() {
	c := m.CPU
	if m.TraceDiff && m.haveTrace {
		attrs := diffAttrs(m.prevRegs, c.Regs, m.prevSeg, c.Seg, m.prevFlags, c.Flags, m.prevIP, c.IP)
		if c.LastOp != "" {
			attrs = append(attrs, "op", c.LastOp)
		}
		if len(attrs) > 0 {
			slog.Info("step", attrs...)
		}
	} else {
		attrs := []any{
			"ax", c.Get16(cpudefs.AX), "bx", c.Get16(cpudefs.BX),
			"cx", c.Get16(cpudefs.CX), "dx", c.Get16(cpudefs.DX),
			"sp", c.Get16(cpudefs.SP), "bp", c.Get16(cpudefs.BP),
			"si", c.Get16(cpudefs.SI), "di", c.Get16(cpudefs.DI),
			"cs", c.Seg[cpudefs.CS], "ds", c.Seg[cpudefs.DS],
			"es", c.Seg[cpudefs.ES], "ss", c.Seg[cpudefs.SS],
			"ip", c.IP, "flags", c.Flags,
		}
		if c.LastOp != "" {
			attrs = append(attrs, "op", c.LastOp)
		}
		slog.Info("step", attrs...)
	}
	m.prevRegs = c.Regs
	m.prevSeg = c.Seg
	m.prevFlags = c.Flags
	m.prevIP = c.IP
	m.haveTrace = true
}

func diffAttrs(prevRegs, regs [8]uint16, prevSeg, seg [4]uint16, prevFlags, flags uint16, prevIP, ip uint16) []any {
	var attrs []any
	names := [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
	for i, name := range names {
		if prevRegs[i] != regs[i] {
			attrs = append(attrs, name, regs[i])
		}
	}
	segNames := [4]string{"es", "cs", "ss", "ds"}
	for i, name := range segNames {
		if prevSeg[i] != seg[i] {
			attrs = append(attrs, name, seg[i])
		}
	}
	if prevFlags != flags {
		attrs = append(attrs, "flags", flags)
	}
	if prevIP != ip {
		attrs = append(attrs, "ip", ip)
	}
	return attrs
}
