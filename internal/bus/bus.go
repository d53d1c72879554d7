/*
   go8086 - peripheral port and memory bus.

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

// Package bus implements the port I/O dispatcher that wires the CPU to
// the DMA controller, PIC, PIT, keyboard, and CGA adapter, plus the
// linear-memory read/write surface the CPU uses for every other access.
package bus

import (
	"fmt"

	"github.com/rcornwell/go8086/internal/cga"
	"github.com/rcornwell/go8086/internal/device"
	"github.com/rcornwell/go8086/internal/dma"
	"github.com/rcornwell/go8086/internal/keyboard"
	"github.com/rcornwell/go8086/internal/memory"
	"github.com/rcornwell/go8086/internal/pic"
	"github.com/rcornwell/go8086/internal/pit"
)

// The PIC is both a Port (plain In/Out/Tick dispatch) and the IRQLine
// sink the other peripherals raise their lines against.
var (
	_ device.Port    = (*pic.PIC)(nil)
	_ device.IRQLine = (*pic.PIC)(nil)
)

// ExitPort is the synthetic port that terminates emulation, the low
// byte of the written value becoming the process exit code.
const ExitPort uint16 = 0xFF

// ErrUnknownPort is returned by Out (and, for non-PPI ports, by InChecked)
// when no peripheral claims the port: a harness-visible error that
// ends the run rather than silently returning garbage.
type ErrUnknownPort struct {
	Port uint16
}

func (e *ErrUnknownPort) Error() string {
	return fmt.Sprintf("bus: unregistered I/O port %#04x", e.Port)
}

// ErrExit is returned by Out when the synthetic exit port is written;
// Code is the low byte of the value.
type ErrExit struct {
	Code byte
}

func (e *ErrExit) Error() string {
	return fmt.Sprintf("bus: exit port written with code %d", e.Code)
}

// Bus owns the memory array and every peripheral, and is the sole
// object the CPU talks to for loads, stores, and port I/O.
type Bus struct {
	Mem *memory.Memory
	DMA *dma.Controller
	PIC *pic.PIC
	PIT *pit.PIT
	Kbd *keyboard.Keyboard
	CGA *cga.CGA
}

// New wires a fresh peripheral set around a shared memory instance.
// startRenderer is invoked exactly once, on the first CGA mode-register
// write, regardless of how many writes follow.
func New(mem *memory.Memory, startRenderer func()) *Bus {
	return &Bus{
		Mem: mem,
		DMA: dma.New(mem),
		PIC: pic.New(),
		PIT: pit.New(),
		Kbd: keyboard.New(),
		CGA: cga.New(startRenderer),
	}
}

// In reads a port. An unregistered port is not an error by itself for
// plain reads (the PPI-port-B wildcard case returns 0xFF); InChecked is
// what turns an unclaimed port into a harness-visible fault.
func (b *Bus) In(port uint16) byte {
	switch {
	case port <= 0x0F:
		return b.DMA.In(port)
	case port == pic.PortCommand, port == pic.PortData:
		return b.PIC.In(port)
	case port >= pit.PortCounter0 && port <= pit.PortControl:
		return b.PIT.In(port)
	case port == keyboard.PortData, port == keyboard.PortControl, port == keyboard.PortStatus:
		return b.Kbd.In(port)
	case port == 0x81 || port == 0x82 || port == 0x83 || port == 0x87:
		return b.DMA.In(port)
	case port == cga.PortMode, port == cga.PortColor, port == cga.PortStatus:
		return b.CGA.In(port)
	default:
		return 0xFF
	}
}

// InChecked is like In but reports an ErrUnknownPort for any port that
// is not one of the PPI ports and not claimed by a peripheral.
func (b *Bus) InChecked(port uint16) (byte, error) {
	if !b.claimed(port) && port != keyboard.PortControl && port != keyboard.PortStatus {
		return 0xFF, &ErrUnknownPort{Port: port}
	}
	return b.In(port), nil
}

func (b *Bus) claimed(port uint16) bool {
	switch {
	case port <= 0x0F:
		return true
	case port == pic.PortCommand, port == pic.PortData:
		return true
	case port >= pit.PortCounter0 && port <= pit.PortControl:
		return true
	case port == keyboard.PortData, port == keyboard.PortControl, port == keyboard.PortStatus:
		return true
	case port == 0x81 || port == 0x82 || port == 0x83 || port == 0x87:
		return true
	case port == cga.PortMode, port == cga.PortColor, port == cga.PortStatus:
		return true
	case port == ExitPort:
		return true
	default:
		return false
	}
}

// Out writes a port. Writing ExitPort yields ErrExit rather than
// performing any peripheral write.
func (b *Bus) Out(port uint16, v byte) error {
	switch {
	case port == ExitPort:
		return &ErrExit{Code: v}
	case port <= 0x0F:
		b.DMA.Out(port, v)
	case port == pic.PortCommand, port == pic.PortData:
		b.PIC.Out(port, v)
	case port >= pit.PortCounter0 && port <= pit.PortControl:
		b.PIT.Out(port, v)
	case port == keyboard.PortData, port == keyboard.PortControl, port == keyboard.PortStatus:
		b.Kbd.Out(port, v)
	case port == 0x81 || port == 0x82 || port == 0x83 || port == 0x87:
		b.DMA.Out(port, v)
	case port == cga.PortMode, port == cga.PortColor, port == cga.PortStatus:
		b.CGA.Out(port, v)
	default:
		return &ErrUnknownPort{Port: port}
	}
	return nil
}

// Tick advances every peripheral that needs per-instruction service and
// latches their IRQ lines into the PIC: IRQ0 (PIT) only on every other
// call, IRQ1 (keyboard) on every call, then lets the PIC edge-detect
// and prioritize.
func (b *Bus) Tick(everyOtherCycle bool) {
	var lines device.IRQLine = b.PIC
	if everyOtherCycle {
		lines.SetLine(0, b.PIT.Tick())
	}
	lines.SetLine(1, b.Kbd.Tick())
	b.PIC.Tick()
}

// LoadU8/StoreU8/LoadU16/StoreU16 expose the flat memory space directly
// to the CPU for non-port accesses; the bus does not interpose on
// ordinary memory reads and writes.
func (b *Bus) LoadU8(addr uint32) byte        { return b.Mem.LoadU8(addr) }
func (b *Bus) StoreU8(addr uint32, v byte)    { b.Mem.StoreU8(addr, v) }
func (b *Bus) LoadU16(addr uint32) uint16     { return b.Mem.LoadU16(addr) }
func (b *Bus) StoreU16(addr uint32, v uint16) { b.Mem.StoreU16(addr, v) }

// LoadSegU16/StoreSegU16 expose the segment-relative word accessors: a
// word at offset 0xFFFF wraps within the segment rather than crossing
// into the next 64 KiB of physical memory. The CPU uses these for every
// 16-bit operand and stack access, where that wrap is part of the 8086's
// addressing rules.
func (b *Bus) LoadSegU16(seg, off uint16) uint16     { return b.Mem.LoadSegU16(seg, off) }
func (b *Bus) StoreSegU16(seg, off uint16, v uint16) { b.Mem.StoreSegU16(seg, off, v) }
