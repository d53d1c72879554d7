/*
go8086 Peripheral bus interface definitions

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
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/
package device

// Port is a peripheral reachable through the port I/O bus. Tick is
// called once per instruction by the tick driver; it never runs on its
// own goroutine or timer.
type Port interface {
	In(port uint16) byte
	Out(port uint16, v byte)
	Tick()
}

// IRQLine is the small surface the interrupt controller exposes to
// peripherals that need to raise or drop one of its edge-detected
// inputs.
type IRQLine interface {
	SetLine(irq int, level bool)
}

// NoDev marks an unregistered port; reads of it return 0xFF.
const NoDev = 0xFF
