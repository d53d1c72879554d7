/*
   go8086 - 8259-style programmable interrupt controller.

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

// Package pic implements the single 8-line priority interrupt
// controller: edge detection on eight IRQ inputs, priority
// arbitration (lowest index wins), masking, and the ICW1/ICW2/ICW4
// initialization sequence the IBM PC BIOS performs at boot.
package pic

const (
	PortCommand uint16 = 0x20
	PortData    uint16 = 0x21

	cmdICW1 = 0x10 // bit 4 of a command-port write selects ICW1
	cmdEOI  = 0x20 // OCW2 bit 5: non-specific EOI
)

// icwInd values: -1 uninitialized, 0 operational, 1..3 mid-init.
const (
	indUninit   = -1
	indReady    = 0
	indWantICW2 = 1
	indWantICW3 = 2
	indWantICW4 = 3
)

// PIC models the 8259A as wired on the original IBM PC: one controller,
// eight IRQ lines, vector = (ICW2 & 0xF8) + irq.
type PIC struct {
	icwInd int
	icw    [4]byte

	irqs     [8]bool // current line level
	irqsLast [8]bool // level as of the previous tick, for edge detection

	irr byte
	isr byte
	imr byte
}

// New returns a PIC in its uninitialized (icwInd == -1) state.
func New() *PIC {
	return &PIC{icwInd: indUninit}
}

// SetLine records the current level of IRQ line irq (0-7). It does not
// itself touch IRR; that happens on the next Tick, keeping "peripherals
// raise lines" separate from "the PIC edge-detects them once per
// instruction."
func (p *PIC) SetLine(irq int, level bool) {
	if irq < 0 || irq > 7 {
		return
	}
	p.irqs[irq] = level
}

// Tick edge-detects all eight lines: a line that has gone high since
// the last tick sets the corresponding IRR bit; a line that has gone
// low clears it.
func (p *PIC) Tick() {
	for i := 0; i < 8; i++ {
		cur, prev := p.irqs[i], p.irqsLast[i]
		bit := byte(1) << uint(i)
		switch {
		case cur && !prev:
			p.irr |= bit
		case !cur && prev:
			p.irr &^= bit
		}
		p.irqsLast[i] = cur
	}
}

// In reads the command or data port (0x20/0x21).
func (p *PIC) In(port uint16) byte {
	switch port {
	case PortCommand:
		return p.irr // OCW3 read-register select is not modeled; IRR is
		// the commonly probed value and matches the BIOS's usage.
	case PortData:
		return p.imr
	default:
		return 0xFF
	}
}

// Out writes the command or data port, driving the ICW1/ICW2/ICW4
// initialization sequence and OCW2 EOI / OCW1 mask commands.
func (p *PIC) Out(port uint16, v byte) {
	switch port {
	case PortCommand:
		if v&cmdICW1 != 0 {
			p.icw[0] = v
			p.icwInd = indWantICW2
			p.irr = 0
			p.isr = 0
			p.imr = 0
			return
		}
		if v&cmdEOI != 0 {
			p.eoi()
		}
	case PortData:
		switch p.icwInd {
		case indWantICW2:
			p.icw[1] = v
			if p.icw[0]&0x02 != 0 { // ICW1 bit1: single (no ICW3 expected)
				p.icwInd = indWantICW4
				if p.icw[0]&0x01 == 0 {
					p.icwInd = indReady
				}
			} else {
				p.icwInd = indWantICW3
			}
		case indWantICW3:
			p.icw[2] = v
			p.icwInd = indWantICW4
			if p.icw[0]&0x01 == 0 {
				p.icwInd = indReady
			}
		case indWantICW4:
			p.icw[3] = v
			p.icwInd = indReady
		default:
			p.imr = v
		}
	}
}

// eoi clears exactly the highest-priority (lowest-index) set ISR bit.
func (p *PIC) eoi() {
	for i := 0; i < 8; i++ {
		bit := byte(1) << uint(i)
		if p.isr&bit != 0 {
			p.isr &^= bit
			return
		}
	}
}

// Ack arbitrates among pending, unmasked IRQs and returns the
// interrupt vector for the highest-priority one, setting its ISR bit.
// An already-set ISR bit blocks any IRQ of equal or lower priority
// (higher or equal index) until EOI. ok is false when nothing is
// eligible to be delivered.
func (p *PIC) Ack() (vector byte, ok bool) {
	if p.icwInd != indReady {
		return 0, false
	}
	pending := p.irr &^ p.imr
	if pending == 0 {
		return 0, false
	}
	highestISR := 8
	for i := 0; i < 8; i++ {
		if p.isr&(1<<uint(i)) != 0 {
			highestISR = i
			break
		}
	}
	for i := 0; i < highestISR; i++ {
		bit := byte(1) << uint(i)
		if pending&bit != 0 {
			p.isr |= bit
			p.irr &^= bit
			return p.icw[1]&0xF8 + byte(i), true
		}
	}
	return 0, false
}

// IRR, ISR, IMR expose raw register state for the debugger and tests.
func (p *PIC) IRR() byte { return p.irr }
func (p *PIC) ISR() byte { return p.isr }
func (p *PIC) IMR() byte { return p.imr }
