package machine

import (
	"testing"

	"github.com/rcornwell/go8086/internal/bus"
	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/memory"
)

func TestLoadAndRunUntilExit(t *testing.T) {
	m := New(memory.New(), nil)
	// MOV AL, 7 ; OUT 0xFF, AL  (writes the synthetic exit port)
	m.Load(0, 0x100, []byte{0xB0, 0x07, 0xE6, 0xFF})

	reason := m.Run(0)
	if reason != StopExit {
		t.Fatalf("stop reason = %v, want exit", reason)
	}
	if m.ExitCode != 7 {
		t.Errorf("exit code = %d, want 7", m.ExitCode)
	}
}

func TestRunStopsOnHalt(t *testing.T) {
	m := New(memory.New(), nil)
	m.Load(0, 0, []byte{0xB8, 0x01, 0x00, 0xF4}) // MOV AX,1 ; HLT

	reason := m.Run(0)
	if reason != StopHalt {
		t.Fatalf("stop reason = %v, want halt", reason)
	}
	if got := m.CPU.Get16(cpudefs.AX); got != 1 {
		t.Errorf("AX = %d, want 1", got)
	}
}

func TestRunStopsOnCycleBudget(t *testing.T) {
	m := New(memory.New(), nil)
	m.Load(0, 0, []byte{0x90, 0x90, 0x90, 0x90}) // four NOPs

	reason := m.Run(2)
	if reason != StopCycles {
		t.Fatalf("stop reason = %v, want cycles", reason)
	}
	if m.CPU.IP != 2 {
		t.Errorf("IP = %d, want 2 after 2 single-byte NOPs", m.CPU.IP)
	}
}

func TestRunStopsOnBreakpoint(t *testing.T) {
	m := New(memory.New(), nil)
	m.Load(0, 0, []byte{0x90, 0x90, 0x90})
	m.CPU.Breakpoint = int64(memory.Phys(0, 2))

	reason := m.Run(0)
	if reason != StopBreakpoint {
		t.Fatalf("stop reason = %v, want breakpoint", reason)
	}
	if m.CPU.IP != 2 {
		t.Errorf("IP = %d, want 2 (breakpoint should fire before executing the third NOP)", m.CPU.IP)
	}
}

func TestRunStopsOnDecodeError(t *testing.T) {
	m := New(memory.New(), nil)
	m.Load(0, 0, []byte{0x0F}) // undefined in this instruction set

	reason := m.Run(0)
	if reason != StopError {
		t.Fatalf("stop reason = %v, want error", reason)
	}
	if m.Err == nil {
		t.Errorf("expected Err to be set on decode failure")
	}
}

func TestUnknownPortIsVisibleThroughBus(t *testing.T) {
	m := New(memory.New(), nil)
	if _, err := m.Bus.InChecked(0x0278); err == nil {
		t.Errorf("expected an error reading an unregistered port")
	}
	var unknown *bus.ErrUnknownPort
	if _, err := m.Bus.InChecked(0x0278); err != nil {
		if e, ok := err.(*bus.ErrUnknownPort); !ok {
			t.Errorf("error type = %T, want *bus.ErrUnknownPort", err)
		} else {
			unknown = e
		}
	}
	if unknown == nil || unknown.Port != 0x0278 {
		t.Errorf("ErrUnknownPort.Port not populated correctly")
	}
}
