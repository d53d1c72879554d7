/*
   go8086 - debugger command table.

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

// Package debugger implements the stepping/tracing REPL: a prefix-
// matched command table (run/step/bkpt/trace/quit) driving a
// machine.Machine, plus an interactive line reader for live sessions.
package debugger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/go8086/internal/cpudefs"
	"github.com/rcornwell/go8086/internal/machine"
	"github.com/rcornwell/go8086/internal/memory"
)

type cmd struct {
	name    string
	min     int // minimum prefix length that uniquely selects this command
	process func(*cmdLine, *machine.Machine) (bool, error)
}

var cmdList = []cmd{
	{name: "run", min: 1, process: cmdRun},
	{name: "step", min: 1, process: cmdStep},
	{name: "bkpt", min: 1, process: cmdBkpt},
	{name: "trace", min: 1, process: cmdTrace},
	{name: "quit", min: 1, process: cmdQuit},
}

// cmdLine is a cursor over one command line, in the style of the
// teacher's parser.cmdLine.
type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) isEOL() bool { return l.pos >= len(l.line) }

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

func matchCommand(c cmd, name string) bool {
	if len(name) < c.min || len(name) > len(c.name) {
		return false
	}
	return c.name[:len(name)] == name
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var matches []cmd
	for _, c := range cmdList {
		if matchCommand(c, strings.ToLower(name)) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ProcessCommand runs one command line against m, returning (quit, err).
func ProcessCommand(commandLine string, m *machine.Machine) (bool, error) {
	line := &cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		return false, nil
	}

	matches := matchList(name)
	switch len(matches) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return matches[0].process(line, m)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// ProcessScript runs a semicolon-separated script of commands, stopping
// early (without error) if one of them requests quit.
func ProcessScript(script string, m *machine.Machine) error {
	for _, part := range strings.Split(script, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		quit, err := ProcessCommand(part, m)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	return nil
}

func cmdRun(line *cmdLine, m *machine.Machine) (bool, error) {
	arg := line.getWord()
	var n int64
	if arg != "" {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return false, fmt.Errorf("run: invalid cycle count %q", arg)
		}
		n = v
	}
	reason := m.Run(n)
	fmt.Printf("stopped: %s\n", reason)
	if reason == machine.StopError {
		return false, m.Err
	}
	return false, nil
}

func cmdStep(_ *cmdLine, m *machine.Machine) (bool, error) {
	err := m.Step()
	fmt.Printf("%04X:%04X\n", m.CPU.Seg[cpudefs.CS], m.CPU.IP)
	return false, err
}

func cmdBkpt(line *cmdLine, m *machine.Machine) (bool, error) {
	arg := line.getWord()
	if arg == "" {
		m.CPU.Breakpoint = -1
		fmt.Println("breakpoint cleared")
		return false, nil
	}
	addr, err := parseSegOff(arg)
	if err != nil {
		return false, err
	}
	m.CPU.Breakpoint = int64(addr)
	fmt.Printf("breakpoint set at %#05x\n", addr)
	return false, nil
}

func cmdTrace(_ *cmdLine, m *machine.Machine) (bool, error) {
	m.Trace = !m.Trace
	fmt.Printf("trace %s\n", onOff(m.Trace))
	return false, nil
}

func cmdQuit(_ *cmdLine, _ *machine.Machine) (bool, error) {
	return true, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// parseSegOff accepts either "seg:off" (both hex) or a single hex
// physical address.
func parseSegOff(s string) (uint32, error) {
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		seg, err := strconv.ParseUint(s[:idx], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("bkpt: invalid segment %q", s[:idx])
		}
		off, err := strconv.ParseUint(s[idx+1:], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("bkpt: invalid offset %q", s[idx+1:])
		}
		return memory.Phys(uint16(seg), uint16(off)), nil
	}
	addr, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bkpt: invalid address %q", s)
	}
	return uint32(addr) & memory.AddrMask, nil
}
