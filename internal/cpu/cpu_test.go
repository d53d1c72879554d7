package cpu

import (
	"errors"
	"testing"

	"github.com/rcornwell/go8086/internal/bus"
	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/memory"
)

func newTestCPU() *CPU {
	mem := memory.New()
	b := bus.New(mem, nil)
	c := New(b)
	c.Seg[cpudefs.CS] = 0
	c.IP = 0
	return c
}

func load(c *CPU, code []byte) {
	c.Bus.Mem.Load(0, code)
}

func TestMovRegImmAndAluAdd(t *testing.T) {
	c := newTestCPU()
	// MOV AX, 0x1234 ; MOV BX, 0x0001 ; ADD AX, BX
	load(c, []byte{0xB8, 0x34, 0x12, 0xBB, 0x01, 0x00, 0x01, 0xD8})
	for i := 0; i < 3; i++ {
		if err := c.Step(false); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Get16(cpudefs.AX); got != 0x1235 {
		t.Errorf("AX = %#04x, want 0x1235", got)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.Set16(cpudefs.SP, 0x0100)
	c.Set16(cpudefs.AX, 0xBEEF)
	// PUSH AX ; POP BX
	load(c, []byte{0x50, 0x5B})
	for i := 0; i < 2; i++ {
		if err := c.Step(false); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Get16(cpudefs.BX); got != 0xBEEF {
		t.Errorf("BX = %#04x, want 0xBEEF", got)
	}
	if got := c.Get16(cpudefs.SP); got != 0x0100 {
		t.Errorf("SP = %#04x, want 0x0100 after matched push/pop", got)
	}
}

func TestConditionalJumpTaken(t *testing.T) {
	c := newTestCPU()
	// CMP AX, AX (forces ZF=1) ; JZ +3 ; (skipped) MOV AX,1 ; MOV BX,2
	load(c, []byte{0x39, 0xC0, 0x74, 0x03, 0xB8, 0x01, 0x00, 0xBB, 0x02, 0x00})
	for i := 0; i < 3; i++ {
		if err := c.Step(false); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := c.Get16(cpudefs.BX); got != 0x0002 {
		t.Errorf("BX = %#04x, want 0x0002 (JZ should have skipped the MOV AX,1)", got)
	}
}

func TestInt3ThenIret(t *testing.T) {
	c := newTestCPU()
	c.Set16(cpudefs.SP, 0x0200)
	c.Seg[cpudefs.SS] = 0x1000

	// IVT entry 3 -> handler at 0x2000:0x0000, handler is IRET.
	c.Bus.StoreU16(3*4, 0x0000)
	c.Bus.StoreU16(3*4+2, 0x2000)
	c.Bus.StoreU8(memory.Phys(0x2000, 0), 0xCF) // IRET

	load(c, []byte{0xCC, 0x90}) // INT3 ; NOP
	if err := c.Step(false); err != nil {
		t.Fatalf("INT3 step: %v", err)
	}
	if c.Seg[cpudefs.CS] != 0x2000 || c.IP != 0 {
		t.Fatalf("after INT3 acceptance, CS:IP = %04X:%04X, want 2000:0000", c.Seg[cpudefs.CS], c.IP)
	}
	if err := c.Step(false); err != nil {
		t.Fatalf("IRET step: %v", err)
	}
	if c.Seg[cpudefs.CS] != 0 || c.IP != 1 {
		t.Errorf("after IRET, CS:IP = %04X:%04X, want 0000:0001", c.Seg[cpudefs.CS], c.IP)
	}
}

func TestRepMovsb(t *testing.T) {
	c := newTestCPU()
	c.Seg[cpudefs.ES] = 0
	c.Set16(cpudefs.CX, 3)
	c.Set16(cpudefs.SI, 0x0100)
	c.Set16(cpudefs.DI, 0x0200)
	c.Bus.StoreU8(0x0100, 0xAA)
	c.Bus.StoreU8(0x0101, 0xBB)
	c.Bus.StoreU8(0x0102, 0xCC)

	load(c, []byte{0xF3, 0xA4}) // REP MOVSB
	if err := c.Step(false); err != nil {
		t.Fatalf("step: %v", err)
	}
	for i, want := range []byte{0xAA, 0xBB, 0xCC} {
		if got := c.Bus.LoadU8(0x0200 + uint32(i)); got != want {
			t.Errorf("byte %d = %#02x, want %#02x", i, got, want)
		}
	}
	if c.Get16(cpudefs.CX) != 0 {
		t.Errorf("CX = %d, want 0 after REP MOVSB of 3 bytes", c.Get16(cpudefs.CX))
	}
}

func TestDivideByZeroFaults(t *testing.T) {
	c := newTestCPU()
	c.Set16(cpudefs.AX, 100)
	c.Set16(cpudefs.BX, 0)
	c.Bus.StoreU16(0*4, 0x9000)
	c.Bus.StoreU16(0*4+2, 0x3000)
	c.Bus.StoreU8(memory.Phys(0x3000, 0x9000), 0xF4) // HLT, just a landing pad

	// DIV BL ; i.e. F6 /6 with BL as r/m8 -- ModRM 11 110 011 = 0xF3
	load(c, []byte{0xF6, 0xF3})
	if err := c.Step(false); err != nil {
		t.Fatalf("step: %v", err)
	}
	if c.Seg[cpudefs.CS] != 0x3000 || c.IP != 0x9000 {
		t.Errorf("divide fault did not vector through IVT 0: CS:IP = %04X:%04X", c.Seg[cpudefs.CS], c.IP)
	}
}

func TestInUnknownPortFaults(t *testing.T) {
	c := newTestCPU()
	// IN AL, 0x99 -- port 0x99 is not claimed by any peripheral.
	load(c, []byte{0xE4, 0x99})
	err := c.Step(false)
	if err == nil {
		t.Fatal("expected an error reading an unclaimed port, got nil")
	}
	var unknown *bus.ErrUnknownPort
	if !errors.As(err, &unknown) {
		t.Errorf("error = %v, want an *bus.ErrUnknownPort", err)
	}
}

func TestInDXUnknownPortFaults(t *testing.T) {
	c := newTestCPU()
	c.Set16(cpudefs.DX, 0x99)
	// IN AL, DX
	load(c, []byte{0xEC})
	if err := c.Step(false); err == nil {
		t.Fatal("expected an error reading an unclaimed port via DX, got nil")
	}
}

func TestPopAtTopOfSegmentWrapsWithinSegment(t *testing.T) {
	c := newTestCPU()
	c.Seg[cpudefs.SS] = 0x1000
	c.Set16(cpudefs.SP, 0xFFFF)
	// The word straddling the segment boundary: low byte at SS:0xFFFF,
	// high byte wraps to SS:0x0000, not into the next 64 KiB segment.
	c.Bus.StoreSegU16(0x1000, 0xFFFF, 0xBEEF)

	// POP AX
	load(c, []byte{0x58})
	if err := c.Step(false); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := c.Get16(cpudefs.AX); got != 0xBEEF {
		t.Errorf("AX = %#04x, want 0xBEEF (segment-wrapped pop)", got)
	}
	if got := c.Get16(cpudefs.SP); got != 0x0001 {
		t.Errorf("SP = %#04x, want 0x0001 after popping from 0xFFFF", got)
	}
}

func TestIncPreservesCarryFlag(t *testing.T) {
	c := newTestCPU()
	c.setFlag(cpudefs.FlagCF, true)
	c.Set16(cpudefs.AX, 0x00FF)
	// INC AX ; class IncR16, opcode 0x40
	load(c, []byte{0x40})
	if err := c.Step(false); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !c.flag(cpudefs.FlagCF) {
		t.Errorf("INC must preserve CF, got cleared")
	}
	if got := c.Get16(cpudefs.AX); got != 0x0100 {
		t.Errorf("AX = %#04x, want 0x0100", got)
	}
}
