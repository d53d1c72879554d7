package cpu

import (
	"testing"

	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/opcodemap"
)

func TestAluAddCarryAndOverflow(t *testing.T) {
	result, f := aluAdd(0x00FF, 0x0001, 0, 8)
	if result != 0 {
		t.Errorf("0xFF+1 (8-bit) = %#x, want 0", result)
	}
	if f&cpudefs.FlagCF == 0 {
		t.Errorf("expected CF set on 8-bit overflow")
	}
	if f&cpudefs.FlagZF == 0 {
		t.Errorf("expected ZF set when result wraps to 0")
	}

	// 0x7F + 0x01 = 0x80: signed overflow (positive + positive = negative).
	_, f = aluAdd(0x7F, 0x01, 0, 8)
	if f&cpudefs.FlagOF == 0 {
		t.Errorf("expected OF set for 0x7F+0x01 (8-bit signed overflow)")
	}
	if f&cpudefs.FlagCF != 0 {
		t.Errorf("expected CF clear for 0x7F+0x01")
	}
}

func TestAluSubBorrowAndOverflow(t *testing.T) {
	result, f := aluSub(0x00, 0x01, 0, 8)
	if result != 0xFF {
		t.Errorf("0-1 (8-bit) = %#x, want 0xFF", result)
	}
	if f&cpudefs.FlagCF == 0 {
		t.Errorf("expected CF (borrow) set for 0-1")
	}

	// 0x80 - 0x01 = 0x7F: signed overflow (negative - positive = positive).
	_, f = aluSub(0x80, 0x01, 0, 8)
	if f&cpudefs.FlagOF == 0 {
		t.Errorf("expected OF set for 0x80-0x01 (8-bit signed overflow)")
	}
}

func TestAluIncDecPreservesIncomingCF(t *testing.T) {
	result, f := aluIncDec(0xFFFF, false, 16, cpudefs.FlagCF)
	if result != 0 {
		t.Errorf("INC 0xFFFF = %#x, want 0", result)
	}
	if f&cpudefs.FlagCF == 0 {
		t.Errorf("aluIncDec must preserve an incoming CF=1")
	}

	_, f = aluIncDec(0xFFFF, false, 16, 0)
	if f&cpudefs.FlagCF != 0 {
		t.Errorf("aluIncDec must preserve an incoming CF=0, even though the underlying add sets CF on 0xFFFF+1")
	}
}

func TestShiftRotateROL(t *testing.T) {
	// ROL 0x81 (1000_0001b), count 1 -> 0x03, CF=1, OF = CF xor new MSB = 1 xor 0 = 1.
	result, f, cf := shiftRotate(opcodemap.ShROL, 0x81, 1, 8, false)
	if result != 0x03 {
		t.Errorf("ROL 0x81,1 = %#x, want 0x03", result)
	}
	if !cf {
		t.Errorf("expected CF set after ROL of a value with bit7 set")
	}
	if f&cpudefs.FlagOF == 0 {
		t.Errorf("expected OF set for single-bit ROL when CF != new MSB")
	}
}

func TestShiftRotateSAR(t *testing.T) {
	// SAR 0x80 (-128), count 1: sign-extends -> 0xC0, CF = old bit0 = 0.
	result, f, cf := shiftRotate(opcodemap.ShSAR, 0x80, 1, 8, false)
	if result != 0xC0 {
		t.Errorf("SAR 0x80,1 = %#x, want 0xC0", result)
	}
	if cf {
		t.Errorf("expected CF clear, old bit0 of 0x80 is 0")
	}
	if f&cpudefs.FlagOF != 0 {
		t.Errorf("SAR by 1 never sets OF (result always shares the operand's sign)")
	}
}

func TestMulUnsignedSetsCFOnSignificantHigh(t *testing.T) {
	c := newTestCPU()
	c.Set8(cpudefs.AL, 0x10)
	m := modRM{mod: 3, rm: int(cpudefs.BL) & 7, isMem: false}
	c.Set8(cpudefs.BL, 0x10)
	c.mul(m, 8, false)
	if got := c.Get16(cpudefs.AX); got != 0x0100 {
		t.Errorf("AX = %#04x, want 0x0100 after 0x10*0x10", got)
	}
	if !c.flag(cpudefs.FlagCF) {
		t.Errorf("expected CF set: AH is non-zero")
	}
}

func TestDivUnsignedWord(t *testing.T) {
	c := newTestCPU()
	c.Set16(cpudefs.DX, 0)
	c.Set16(cpudefs.AX, 100)
	m := modRM{mod: 3, rm: int(cpudefs.CX) & 7, isMem: false}
	c.Set16(cpudefs.CX, 7)
	if err := c.div(m, 16, false); err != nil {
		t.Fatalf("div: %v", err)
	}
	if got := c.Get16(cpudefs.AX); got != 14 {
		t.Errorf("quotient = %d, want 14", got)
	}
	if got := c.Get16(cpudefs.DX); got != 2 {
		t.Errorf("remainder = %d, want 2", got)
	}
}
