package conformance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRunMovImmMatchesExpectedFinalState(t *testing.T) {
	tc := TestCase{
		Name:  "mov ax,0x1234",
		Bytes: []int{0xB8, 0x34, 0x12},
		Initial: State{
			Regs: Regs{CS: 0, IP: 0},
		},
		Final: State{
			Regs: Regs{CS: 0, IP: 3, AX: 0x1234, FL: canonicalFlags},
		},
	}

	mismatches, err := Run(tc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("mismatches: %v", mismatches)
	}
}

func TestRunReportsMismatch(t *testing.T) {
	tc := TestCase{
		Name:  "mov ax,0x1234 with wrong expectation",
		Bytes: []int{0xB8, 0x34, 0x12},
		Initial: State{
			Regs: Regs{CS: 0, IP: 0},
		},
		Final: State{
			Regs: Regs{CS: 0, IP: 3, AX: 0xFFFF, FL: canonicalFlags},
		},
	}

	mismatches, err := Run(tc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mismatches) == 0 {
		t.Fatalf("expected a mismatch on AX")
	}
}

func TestRunDiffsRAM(t *testing.T) {
	tc := TestCase{
		Name:  "push ax",
		Bytes: []int{0x50},
		Initial: State{
			Regs: Regs{SS: 0, SP: 0x0100, AX: 0x1234},
		},
		Final: State{
			Regs: Regs{SS: 0, SP: 0x00FE, AX: 0x1234, IP: 1, FL: canonicalFlags},
			RAM:  []RAMEntry{{0x00FE, 0x34}, {0x00FF, 0x12}},
		},
	}

	mismatches, err := Run(tc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("mismatches: %v", mismatches)
	}
}

func TestLoadCasesFromPlainJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.json")
	cases := []TestCase{{
		Name:  "nop",
		Bytes: []int{0x90},
		Initial: State{
			Regs: Regs{IP: 0},
		},
		Final: State{
			Regs: Regs{IP: 1, FL: canonicalFlags},
		},
	}}
	data, err := json.Marshal(cases)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "nop" {
		t.Fatalf("loaded = %+v", loaded)
	}
}

// canonicalFlags matches cpudefs.CanonicalFlags(0): reserved bit 1 set,
// bits 3/5/12-15 clear/clear/set, no condition bits set.
const canonicalFlags = 0xF002
