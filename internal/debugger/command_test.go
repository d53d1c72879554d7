package debugger

import (
	"testing"

	"github.com/rcornwell/go8086/internal/machine"
	"github.com/rcornwell/go8086/internal/memory"
)

func TestStepAdvancesIP(t *testing.T) {
	m := machine.New(memory.New(), nil)
	m.Load(0, 0, []byte{0x90, 0x90})
	quit, err := ProcessCommand("step", m)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if quit {
		t.Fatalf("step should never request quit")
	}
	if m.CPU.IP != 1 {
		t.Errorf("IP = %d, want 1 after one NOP", m.CPU.IP)
	}
}

func TestBkptAcceptsSegOffAndPlainHex(t *testing.T) {
	m := machine.New(memory.New(), nil)
	if _, err := ProcessCommand("bkpt 1000:0020", m); err != nil {
		t.Fatalf("bkpt seg:off: %v", err)
	}
	if want := int64(memory.Phys(0x1000, 0x0020)); m.CPU.Breakpoint != want {
		t.Errorf("Breakpoint = %#x, want %#x", m.CPU.Breakpoint, want)
	}

	if _, err := ProcessCommand("b FFFF", m); err != nil {
		t.Fatalf("bkpt plain hex: %v", err)
	}
	if m.CPU.Breakpoint != 0xFFFF {
		t.Errorf("Breakpoint = %#x, want 0xFFFF", m.CPU.Breakpoint)
	}
}

func TestTraceToggles(t *testing.T) {
	m := machine.New(memory.New(), nil)
	if _, err := ProcessCommand("trace", m); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if !m.Trace {
		t.Errorf("expected Trace true after one toggle")
	}
	if _, err := ProcessCommand("t", m); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if m.Trace {
		t.Errorf("expected Trace false after second toggle")
	}
}

func TestQuitCommand(t *testing.T) {
	m := machine.New(memory.New(), nil)
	quit, err := ProcessCommand("quit", m)
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if !quit {
		t.Errorf("expected quit=true")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	m := machine.New(memory.New(), nil)
	// None of the five commands share a first letter, so no prefix is
	// ambiguous; check that an unknown command reports an error.
	if _, err := ProcessCommand("frobnicate", m); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestRunScript(t *testing.T) {
	m := machine.New(memory.New(), nil)
	m.Load(0, 0, []byte{0x90, 0x90, 0x90})
	if err := ProcessScript("step;step;trace", m); err != nil {
		t.Fatalf("script: %v", err)
	}
	if m.CPU.IP != 2 {
		t.Errorf("IP = %d, want 2 after two steps", m.CPU.IP)
	}
	if !m.Trace {
		t.Errorf("expected trace toggled on by script")
	}
}
