/*
   go8086 - Linear memory.

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

// Package memory implements the 1 MiB flat address space a real-mode
// 8086 sees: a byte array addressed by 20-bit physical address, with
// little-endian accessors and segment:offset reduction.
package memory

const (
	// Size is the full 1 MiB real-mode physical address space.
	Size = 1 << 20
	// AddrMask masks any computed address to 20 bits.
	AddrMask = Size - 1
)

// Memory is a flat byte-addressed 1 MiB store. The zero value is not
// usable; construct with New.
type Memory struct {
	bytes [Size]byte
}

// New returns a freshly zeroed 1 MiB address space.
func New() *Memory {
	return &Memory{}
}

// Phys reduces a segment:offset pair to a 20-bit physical address,
// matching the 8086's ((seg<<4)+off) & 0xFFFFF rule.
func Phys(seg, off uint16) uint32 {
	return (uint32(seg)<<4 + uint32(off)) & AddrMask
}

// LoadU8 reads one byte at a physical address.
func (m *Memory) LoadU8(addr uint32) byte {
	return m.bytes[addr&AddrMask]
}

// StoreU8 writes one byte at a physical address.
func (m *Memory) StoreU8(addr uint32, v byte) {
	m.bytes[addr&AddrMask] = v
}

// LoadU16 reads a little-endian word at a physical address. The second
// byte address is independently masked so that a word access starting
// at the top of the address space wraps within the 1 MiB space (this is
// distinct from the 16-bit segment-wrap rule used by LoadSegU16).
func (m *Memory) LoadU16(addr uint32) uint16 {
	lo := m.bytes[addr&AddrMask]
	hi := m.bytes[(addr+1)&AddrMask]
	return uint16(lo) | uint16(hi)<<8
}

// StoreU16 writes a little-endian word at a physical address.
func (m *Memory) StoreU16(addr uint32, v uint16) {
	m.bytes[addr&AddrMask] = byte(v)
	m.bytes[(addr+1)&AddrMask] = byte(v >> 8)
}

// LoadU32 reads a little-endian doubleword at a physical address.
func (m *Memory) LoadU32(addr uint32) uint32 {
	return uint32(m.LoadU16(addr)) | uint32(m.LoadU16(addr+2))<<16
}

// StoreU32 writes a little-endian doubleword at a physical address.
func (m *Memory) StoreU32(addr uint32, v uint32) {
	m.StoreU16(addr, uint16(v))
	m.StoreU16(addr+2, uint16(v>>16))
}

// LoadSegU8 reads one byte at segment:offset.
func (m *Memory) LoadSegU8(seg, off uint16) byte {
	return m.LoadU8(Phys(seg, off))
}

// StoreSegU8 writes one byte at segment:offset.
func (m *Memory) StoreSegU8(seg, off uint16, v byte) {
	m.StoreU8(Phys(seg, off), v)
}

// LoadSegU16 reads a little-endian word at segment:offset. Per spec, a
// 16-bit access at offset 0xFFFF wraps within the segment to offset 0,
// not into the next segment's bytes.
func (m *Memory) LoadSegU16(seg, off uint16) uint16 {
	lo := m.LoadSegU8(seg, off)
	hi := m.LoadSegU8(seg, off+1)
	return uint16(lo) | uint16(hi)<<8
}

// StoreSegU16 writes a little-endian word at segment:offset with the
// same 16-bit segment-wrap semantics as LoadSegU16.
func (m *Memory) StoreSegU16(seg, off uint16, v uint16) {
	m.StoreSegU8(seg, off, byte(v))
	m.StoreSegU8(seg, off+1, byte(v>>8))
}

// Load copies src into memory starting at the given physical address,
// used by the raw program loader.
func (m *Memory) Load(addr uint32, src []byte) {
	for i, b := range src {
		m.bytes[(addr+uint32(i))&AddrMask] = b
	}
}

// Slice returns a read-only view of length bytes starting at a physical
// address, without wraparound; used by the CGA renderer to read the
// framebuffer region. Callers must not retain the slice across a Load.
func (m *Memory) Slice(addr uint32, length int) []byte {
	return m.bytes[addr : addr+uint32(length)]
}
