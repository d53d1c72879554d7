/*
   go8086 - single-instruction conformance test harness.

   Copyright (c) 2026, go8086 contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package conformance runs a single-step-per-instruction JSON test
// format against a fresh machine.Machine: seed state, execute exactly
// one instruction, diff the result.
package conformance

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcornwell/go8086/internal/bus"
	"github.com/rcornwell/go8086/internal/cpu"
	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/memory"
)

// Regs holds the 16-bit register snapshot named in each test case's
// "initial"/"final" object, keyed by two-letter register names.
type Regs struct {
	AX uint16 `json:"ax"`
	BX uint16 `json:"bx"`
	CX uint16 `json:"cx"`
	DX uint16 `json:"dx"`
	CS uint16 `json:"cs"`
	SS uint16 `json:"ss"`
	DS uint16 `json:"ds"`
	ES uint16 `json:"es"`
	SP uint16 `json:"sp"`
	BP uint16 `json:"bp"`
	SI uint16 `json:"si"`
	DI uint16 `json:"di"`
	IP uint16 `json:"ip"`
	FL uint16 `json:"fl"`
}

// RAMEntry is one [address, byte] tuple.
type RAMEntry [2]int

// State is one half (initial or final) of a test case.
type State struct {
	Regs Regs       `json:"regs"`
	RAM  []RAMEntry `json:"ram"`
}

// TestCase is one conformance test.
type TestCase struct {
	Name    string `json:"name"`
	Bytes   []int  `json:"bytes"`
	Initial State  `json:"initial"`
	Final   State  `json:"final"`
}

// Mismatch describes one field that differed from the expected final state.
type Mismatch struct {
	Field string
	Got   uint16
	Want  uint16
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: got %#04x, want %#04x", m.Field, m.Got, m.Want)
}

// LoadCases reads a JSON (optionally gzip-compressed) array of test
// cases from path. Gzip is detected by magic bytes, not by extension,
// since corpora are distributed under varying file names.
func LoadCases(path string) ([]TestCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("conformance: %w", err)
	}
	if len(raw) >= 2 && raw[0] == 0x1F && raw[1] == 0x8B {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("conformance: gzip: %w", err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("conformance: gzip: %w", err)
		}
	}

	var cases []TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("conformance: %w", err)
	}
	return cases, nil
}

// seed applies a State's registers and RAM bytes to a fresh CPU/bus pair.
func seed(c *cpu.CPU, b *bus.Bus, s State) {
	c.Set16(cpudefs.AX, s.Regs.AX)
	c.Set16(cpudefs.BX, s.Regs.BX)
	c.Set16(cpudefs.CX, s.Regs.CX)
	c.Set16(cpudefs.DX, s.Regs.DX)
	c.Set16(cpudefs.SP, s.Regs.SP)
	c.Set16(cpudefs.BP, s.Regs.BP)
	c.Set16(cpudefs.SI, s.Regs.SI)
	c.Set16(cpudefs.DI, s.Regs.DI)
	c.Seg[cpudefs.CS] = s.Regs.CS
	c.Seg[cpudefs.SS] = s.Regs.SS
	c.Seg[cpudefs.DS] = s.Regs.DS
	c.Seg[cpudefs.ES] = s.Regs.ES
	c.IP = s.Regs.IP
	c.Flags = cpudefs.CanonicalFlags(s.Regs.FL)

	for _, e := range s.RAM {
		b.StoreU8(uint32(e[0])&memory.AddrMask, byte(e[1]))
	}
}

// Run seeds a fresh machine from tc.Initial, writes tc.Bytes at the
// initial CS:IP, executes exactly one instruction, and diffs every
// field named in tc.Final (registers, full 16-bit flags including
// reserved bits, and every listed RAM byte) against the resulting state.
func Run(tc TestCase) ([]Mismatch, error) {
	mem := memory.New()
	b := bus.New(mem, nil)
	c := cpu.New(b)

	seed(c, b, tc.Initial)

	code := make([]byte, len(tc.Bytes))
	for i, v := range tc.Bytes {
		code[i] = byte(v)
	}
	mem.Load(memory.Phys(tc.Initial.Regs.CS, tc.Initial.Regs.IP), code)

	if err := c.Step(true); err != nil {
		return nil, fmt.Errorf("conformance: %s: %w", tc.Name, err)
	}

	var mismatches []Mismatch
	check := func(field string, got, want uint16) {
		if got != want {
			mismatches = append(mismatches, Mismatch{Field: field, Got: got, Want: want})
		}
	}
	f := tc.Final.Regs
	check("ax", c.Get16(cpudefs.AX), f.AX)
	check("bx", c.Get16(cpudefs.BX), f.BX)
	check("cx", c.Get16(cpudefs.CX), f.CX)
	check("dx", c.Get16(cpudefs.DX), f.DX)
	check("sp", c.Get16(cpudefs.SP), f.SP)
	check("bp", c.Get16(cpudefs.BP), f.BP)
	check("si", c.Get16(cpudefs.SI), f.SI)
	check("di", c.Get16(cpudefs.DI), f.DI)
	check("cs", c.Seg[cpudefs.CS], f.CS)
	check("ss", c.Seg[cpudefs.SS], f.SS)
	check("ds", c.Seg[cpudefs.DS], f.DS)
	check("es", c.Seg[cpudefs.ES], f.ES)
	check("ip", c.IP, f.IP)
	check("flags", c.Flags, f.FL)

	for _, e := range tc.Final.RAM {
		addr := uint32(e[0]) & memory.AddrMask
		want := byte(e[1])
		if got := b.LoadU8(addr); got != want {
			mismatches = append(mismatches, Mismatch{
				Field: fmt.Sprintf("ram[%#05x]", addr),
				Got:   uint16(got),
				Want:  uint16(want),
			})
		}
	}

	return mismatches, nil
}
