package dma

import (
	"testing"

	"github.com/rcornwell/go8086/internal/memory"
)

func TestChannelAddressCountRoundTrip(t *testing.T) {
	mem := memory.New()
	c := New(mem)

	c.Out(PortFlipFlop, 0) // reset flip-flop
	c.Out(0x00, 0x34)      // channel 0 address low
	c.Out(0x00, 0x12)      // channel 0 address high
	c.Out(PortFlipFlop, 0)
	c.Out(0x01, 0x04) // channel 0 count low
	c.Out(0x01, 0x00) // channel 0 count high

	c.Out(PortFlipFlop, 0)
	lo := c.In(0x00)
	hi := c.In(0x00)
	got := uint16(lo) | uint16(hi)<<8
	if got != 0x1234 {
		t.Errorf("address readback = %#04x, want 0x1234", got)
	}
}

func TestMaskSingleAndBlockTransfer(t *testing.T) {
	mem := memory.New()
	c := New(mem)

	c.Out(PortFlipFlop, 0)
	c.Out(0x00, 0x00) // channel 0 address = 0x0500
	c.Out(0x00, 0x05)
	c.Out(PortFlipFlop, 0)
	c.Out(0x01, 0x03) // count = 3 (4 bytes: the 8237 transfers count+1 bytes)
	c.Out(0x01, 0x00)
	c.Out(PortPage0, 0x00)

	// Mode: channel 0, write to memory (dir=01), single mode.
	c.Out(PortModeReg, 0x44|0x00)
	c.Out(PortMaskSingle, 0x00) // unmask channel 0

	n := c.Transfer(0, []byte{0xAA, 0xBB, 0xCC, 0xDD})
	if n != 4 {
		t.Fatalf("Transfer returned %d, want 4", n)
	}
	for i, want := range []byte{0xAA, 0xBB, 0xCC, 0xDD} {
		if got := mem.LoadU8(0x0500 + uint32(i)); got != want {
			t.Errorf("byte %d = %#02x, want %#02x", i, got, want)
		}
	}
}

func TestMaskedChannelTransfersNothing(t *testing.T) {
	mem := memory.New()
	c := New(mem)
	if n := c.Transfer(1, make([]byte, 4)); n != 0 {
		t.Errorf("masked channel transferred %d bytes, want 0", n)
	}
}

func TestMasterClearResetsChannels(t *testing.T) {
	mem := memory.New()
	c := New(mem)
	c.Out(PortMaskSingle, 0x00) // unmask channel 0
	c.Out(PortMasterClear, 0)
	if n := c.Transfer(0, make([]byte, 1)); n != 0 {
		t.Errorf("channel should be masked again after master clear")
	}
}

func TestDisabledControllerTransfersNothing(t *testing.T) {
	mem := memory.New()
	c := New(mem)

	c.Out(PortFlipFlop, 0)
	c.Out(0x00, 0x00) // channel 0 address = 0x0500
	c.Out(0x00, 0x05)
	c.Out(PortFlipFlop, 0)
	c.Out(0x01, 0x03) // count = 3 (4 bytes, per the convention above)
	c.Out(0x01, 0x00)
	c.Out(PortPage0, 0x00)
	c.Out(PortModeReg, 0x44)
	c.Out(PortMaskSingle, 0x00) // unmask channel 0

	c.Out(PortCommand, 0x04) // bit 2 set: disable the controller
	if n := c.Transfer(0, []byte{0xAA, 0xBB, 0xCC, 0xDD}); n != 0 {
		t.Errorf("disabled controller transferred %d bytes, want 0", n)
	}

	c.Out(PortCommand, 0x00) // bit 2 clear: re-enable
	if n := c.Transfer(0, []byte{0xAA, 0xBB, 0xCC, 0xDD}); n != 4 {
		t.Errorf("re-enabled controller transferred %d bytes, want 4", n)
	}
}
