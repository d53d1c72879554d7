package pic

import "testing"

// Init with ICW1=0x13, ICW2=0x08, ICW4=0x01, then raise IRQ0 and
// acknowledge it.
func TestInitAndAckScenarioG(t *testing.T) {
	p := New()
	p.Out(PortCommand, 0x13)
	p.Out(PortData, 0x08)
	p.Out(PortData, 0x01)

	p.SetLine(0, true)
	p.Tick()

	vec, ok := p.Ack()
	if !ok {
		t.Fatalf("expected an interrupt to be pending")
	}
	if vec != 0x08 {
		t.Errorf("vector = %#02x, want 0x08", vec)
	}
	if p.ISR() != 0x01 {
		t.Errorf("ISR = %#02x, want 0x01", p.ISR())
	}

	p.Out(PortCommand, 0x20) // non-specific EOI
	if p.ISR() != 0 {
		t.Errorf("ISR after EOI = %#02x, want 0", p.ISR())
	}
}

func TestPriorityBlocksLowerDuringService(t *testing.T) {
	p := New()
	p.Out(PortCommand, 0x13)
	p.Out(PortData, 0x00)
	p.Out(PortData, 0x01)

	p.SetLine(0, true)
	p.SetLine(2, true)
	p.Tick()

	vec, ok := p.Ack()
	if !ok || vec != 0 {
		t.Fatalf("expected irq0 first, got vec=%d ok=%v", vec, ok)
	}
	// IRQ0's ISR bit is set; IRQ2 is lower priority and must wait.
	if _, ok := p.Ack(); ok {
		t.Errorf("irq2 should not be acknowledged while irq0 is in service")
	}
	p.Out(PortCommand, cmdEOI)
	vec, ok = p.Ack()
	if !ok || vec != 2 {
		t.Errorf("after EOI expected irq2, got vec=%d ok=%v", vec, ok)
	}
}

func TestMaskBlocksAck(t *testing.T) {
	p := New()
	p.Out(PortCommand, 0x13)
	p.Out(PortData, 0x00)
	p.Out(PortData, 0x01)
	p.Out(PortData, 0x01) // mask IRQ0

	p.SetLine(0, true)
	p.Tick()
	if _, ok := p.Ack(); ok {
		t.Errorf("masked IRQ0 must not be acknowledged")
	}
}

func TestEdgeDetectClearsOnLineDrop(t *testing.T) {
	p := New()
	p.Out(PortCommand, 0x13)
	p.Out(PortData, 0x00)
	p.Out(PortData, 0x01)

	p.SetLine(3, true)
	p.Tick()
	if p.IRR()&(1<<3) == 0 {
		t.Fatalf("expected IRR bit 3 set after rising edge")
	}
	p.SetLine(3, false)
	p.Tick()
	if p.IRR()&(1<<3) != 0 {
		t.Errorf("expected IRR bit 3 cleared after line drop")
	}
}
