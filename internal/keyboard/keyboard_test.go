package keyboard

import "testing"

func TestSeededWithAAOnCreate(t *testing.T) {
	k := New()
	if v := k.In(PortData); v != 0xAA {
		t.Errorf("first scancode = %#02x, want 0xAA", v)
	}
}

func TestFIFOOverflowDropsNewCodes(t *testing.T) {
	k := New()
	k.In(PortData) // drain seed byte
	for i := 0; i < fifoCapacity+4; i++ {
		k.Push(byte(i))
	}
	seen := 0
	for {
		_, ok := k.pop()
		if !ok {
			break
		}
		seen++
	}
	if seen != fifoCapacity {
		t.Errorf("got %d queued codes, want %d (bounded FIFO)", seen, fifoCapacity)
	}
}

func TestIRQ1RaisedWhenScancodeReady(t *testing.T) {
	k := New()
	if !k.Tick() {
		t.Errorf("expected IRQ1 asserted with a scancode pending")
	}
}

func TestSenseGateSuppressesIRQ1(t *testing.T) {
	k := New()
	k.Out(PortControl, 0x08) // gate bit set
	if k.Tick() {
		t.Errorf("expected IRQ1 suppressed while sense-switch gate is open")
	}
}

func TestResetSequenceReseedsFIFO(t *testing.T) {
	k := New()
	k.In(PortData) // drain seed
	k.Out(PortControl, 0x00)
	k.Out(PortControl, resetBit) // rising edge marks one reset shift bit
	k.Tick()
	k.Tick()
	if v := k.In(PortData); v != 0xAA {
		t.Errorf("expected re-seeded 0xAA after reset sequence, got %#02x", v)
	}
}
