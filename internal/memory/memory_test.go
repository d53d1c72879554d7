package memory

import "testing"

func TestPhysReduction(t *testing.T) {
	tests := []struct {
		seg, off uint16
		want     uint32
	}{
		{0, 0, 0},
		{0xFFFF, 0, 0xFFFF0},
		{0x1000, 0x0010, 0x10010},
		{0xFFFF, 0xFFFF, 0x0FFEF}, // wraps within 20 bits
	}
	for _, tc := range tests {
		if got := Phys(tc.seg, tc.off); got != tc.want {
			t.Errorf("Phys(%04x,%04x) = %05x, want %05x", tc.seg, tc.off, got, tc.want)
		}
	}
}

func TestU16RoundTrip(t *testing.T) {
	m := New()
	m.StoreU16(0x1234, 0xBEEF)
	if got := m.LoadU16(0x1234); got != 0xBEEF {
		t.Errorf("LoadU16 = %04x, want BEEF", got)
	}
	if b := m.LoadU8(0x1234); b != 0xEF {
		t.Errorf("low byte = %02x, want EF", b)
	}
	if b := m.LoadU8(0x1235); b != 0xBE {
		t.Errorf("high byte = %02x, want BE", b)
	}
}

func TestU16WrapsAcross1MiB(t *testing.T) {
	m := New()
	m.StoreU16(AddrMask, 0x0102)
	if got := m.LoadU8(AddrMask); got != 0x02 {
		t.Errorf("low byte at top = %02x, want 02", got)
	}
	if got := m.LoadU8(0); got != 0x01 {
		t.Errorf("high byte wrapped to 0 = %02x, want 01", got)
	}
}

func TestSegmentWrapAt0xFFFF(t *testing.T) {
	// A 16-bit access at offset 0xFFFF must wrap within the segment,
	// landing on offset 0, not spilling into the next paragraph.
	m := New()
	seg := uint16(0x1000)
	m.StoreSegU8(seg, 0xFFFF, 0x34)
	m.StoreSegU8(seg, 0x0000, 0x12)
	if got := m.LoadSegU16(seg, 0xFFFF); got != 0x1234 {
		t.Errorf("LoadSegU16 wrap = %04x, want 1234", got)
	}
}

func TestLoad(t *testing.T) {
	m := New()
	m.Load(0x100, []byte{1, 2, 3, 4})
	for i, want := range []byte{1, 2, 3, 4} {
		if got := m.LoadU8(0x100 + uint32(i)); got != want {
			t.Errorf("byte %d = %d, want %d", i, got, want)
		}
	}
}
