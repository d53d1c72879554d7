package bus

import (
	"errors"
	"testing"

	"github.com/rcornwell/go8086/internal/memory"
	"github.com/rcornwell/go8086/internal/pic"
)

func TestExitPortReturnsErrExit(t *testing.T) {
	b := New(memory.New(), nil)
	err := b.Out(ExitPort, 7)
	var exit *ErrExit
	if !errors.As(err, &exit) {
		t.Fatalf("Out(ExitPort, 7) = %v, want *ErrExit", err)
	}
	if exit.Code != 7 {
		t.Errorf("exit code = %d, want 7", exit.Code)
	}
}

func TestUnknownPortReportsError(t *testing.T) {
	b := New(memory.New(), nil)
	if err := b.Out(0x2E8, 0); err == nil {
		t.Errorf("expected error writing an unregistered port")
	}
	if _, err := b.InChecked(0x2E8); err == nil {
		t.Errorf("expected error reading an unregistered port")
	}
}

func TestMemoryPassThrough(t *testing.T) {
	b := New(memory.New(), nil)
	b.StoreU16(0x1000, 0xBEEF)
	if got := b.LoadU16(0x1000); got != 0xBEEF {
		t.Errorf("LoadU16 = %#04x, want 0xBEEF", got)
	}
}

func TestCGAWriteTriggersStartOnce(t *testing.T) {
	started := 0
	b := New(memory.New(), func() { started++ })
	b.Out(0x3D8, 0x09)
	b.Out(0x3D8, 0x0A)
	if started != 1 {
		t.Errorf("renderer start callback fired %d times, want 1", started)
	}
}

func TestTickRoutesKeyboardIntoPIC(t *testing.T) {
	b := New(memory.New(), nil)
	b.Out(pic.PortCommand, 0x13)
	b.Out(pic.PortData, 0x08)
	b.Out(pic.PortData, 0x01)
	b.Out(0x21, 0x00) // unmask all

	b.Tick(false) // keyboard has the 0xAA seed scancode ready -> IRQ1
	if _, ok := b.PIC.Ack(); !ok {
		t.Errorf("expected an interrupt acknowledged after keyboard tick")
	}
}
