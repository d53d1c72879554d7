/*
   go8086 - 8237-style DMA controller.

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

// Package dma implements four independently addressed DMA
// channels (address, count, page, mask, mode) plus a shared byte
// flip-flop for the two-byte address/count ports and a global enable,
// and the block-transfer helper the tick driver/bus call on request.
package dma

import "github.com/rcornwell/go8086/internal/memory"

// Port ranges for the 8237 DMA controller as wired into the IBM PC.
const (
	PortChannelBase uint16 = 0x00 // 0x00-0x07: address/count per channel
	PortCommand     uint16 = 0x08
	PortMaskSingle  uint16 = 0x0A
	PortModeReg     uint16 = 0x0B
	PortFlipFlop    uint16 = 0x0C
	PortMasterClear uint16 = 0x0D
	PortMaskAll     uint16 = 0x0F

	// Page registers are scattered; index maps channel 0..3.
	PortPage2 uint16 = 0x81
	PortPage3 uint16 = 0x82
	PortPage1 uint16 = 0x83
	PortPage0 uint16 = 0x87
)

// Direction of a channel's transfer.
type Direction int

const (
	DirVerify Direction = iota
	DirWrite            // peripheral -> memory
	DirRead             // memory -> peripheral
)

// Mode of operation, from the channel's mode-register bits 7:6.
type Mode int

const (
	ModeDemand Mode = iota
	ModeSingle
	ModeBlock
	ModeCascade
)

type channel struct {
	address  uint16
	count    uint16
	baseAddr uint16
	baseCnt  uint16
	page     byte
	masked   bool
	autoInit bool
	dir      Direction
	mode     Mode
}

// Controller is the four-channel 8237 DMA controller.
type Controller struct {
	channels [4]channel
	flipFlop bool // shared low/high byte toggle for address/count ports
	enabled  bool
	mem      *memory.Memory
}

// New returns a Controller with all channels masked and the controller
// itself enabled, matching power-on reset state (the 8237 comes up
// enabled; software disables it explicitly via the command register).
func New(mem *memory.Memory) *Controller {
	c := &Controller{mem: mem, enabled: true}
	for i := range c.channels {
		c.channels[i].masked = true
	}
	return c
}

// In reads a channel's current address/count byte, alternating low/high
// on the shared flip-flop, or the mask register.
func (c *Controller) In(port uint16) byte {
	if port <= 0x07 {
		ch := &c.channels[port/2]
		var v uint16
		if port%2 == 0 {
			v = ch.address
		} else {
			v = ch.count
		}
		b := lowHigh(v, c.flipFlop)
		c.flipFlop = !c.flipFlop
		return b
	}
	switch port {
	case PortMaskSingle, PortMaskAll:
		var m byte
		for i, ch := range c.channels {
			if ch.masked {
				m |= 1 << uint(i)
			}
		}
		return m
	default:
		return 0xFF
	}
}

func lowHigh(v uint16, high bool) byte {
	if high {
		return byte(v >> 8)
	}
	return byte(v)
}

// Out handles every DMA port range: per-channel address/count
// (auto-toggling low/high byte), mode, single mask, master clear,
// mask-all, and the four page registers.
func (c *Controller) Out(port uint16, v byte) {
	if port <= 0x07 {
		ch := &c.channels[port/2]
		if port%2 == 0 {
			ch.address = setLowHigh(ch.address, v, c.flipFlop)
			ch.baseAddr = ch.address
		} else {
			ch.count = setLowHigh(ch.count, v, c.flipFlop)
			ch.baseCnt = ch.count
		}
		c.flipFlop = !c.flipFlop
		return
	}
	switch port {
	case PortCommand:
		c.Enable(v&0x04 == 0) // bit 2: 0 enables the controller, 1 disables it
	case PortMaskSingle:
		idx := int(v & 0x03)
		c.channels[idx].masked = v&0x04 != 0
	case PortModeReg:
		idx := int(v & 0x03)
		ch := &c.channels[idx]
		ch.autoInit = v&0x10 != 0
		ch.dir = Direction((v >> 2) & 0x03)
		ch.mode = Mode((v >> 6) & 0x03)
	case PortFlipFlop:
		c.flipFlop = false
	case PortMasterClear:
		c.reset()
	case PortMaskAll:
		for i := range c.channels {
			c.channels[i].masked = v&(1<<uint(i)) != 0
		}
	case PortPage0:
		c.channels[0].page = v
	case PortPage1:
		c.channels[1].page = v
	case PortPage2:
		c.channels[2].page = v
	case PortPage3:
		c.channels[3].page = v
	}
}

func setLowHigh(v uint16, b byte, high bool) uint16 {
	if high {
		return (v & 0x00FF) | uint16(b)<<8
	}
	return (v & 0xFF00) | uint16(b)
}

func (c *Controller) reset() {
	c.flipFlop = false
	for i := range c.channels {
		c.channels[i] = channel{masked: true}
	}
}

// Enable sets the controller-wide enable gate (the command register's
// controller-enable bit on a real 8237). While disabled, Transfer is a
// no-op regardless of any channel's mask bit.
func (c *Controller) Enable(on bool) { c.enabled = on }

// physAddr computes the 20-bit physical address a channel's page
// register and 16-bit address register describe.
func physAddr(page byte, addr uint16) uint32 {
	return uint32(page)<<16 | uint32(addr)
}

// Transfer performs a block transfer between memory and a peripheral
// buffer for the given channel, honoring auto-init (the address/count
// reload to their base values once the count is exhausted) and the
// read/write direction. It is invoked by a peripheral (or the bus) on
// DMA request as a direct call rather than a cycle-stolen transfer;
// bus-mastering timing fidelity is out of scope.
func (c *Controller) Transfer(ch int, buf []byte) int {
	if !c.enabled {
		return 0
	}
	chn := &c.channels[ch]
	if chn.masked {
		return 0
	}
	n := 0
	for n < len(buf) {
		addr := physAddr(chn.page, chn.address)
		switch chn.dir {
		case DirWrite:
			c.mem.StoreU8(addr, buf[n])
		case DirRead:
			buf[n] = c.mem.LoadU8(addr)
		}
		chn.address++
		n++
		if chn.count == 0 {
			if chn.autoInit {
				chn.address = chn.baseAddr
				chn.count = chn.baseCnt
			} else {
				chn.masked = true
				break
			}
		} else {
			chn.count--
		}
	}
	return n
}
