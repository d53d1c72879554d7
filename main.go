/*
   go8086 - command-line entry point.

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

// Command go8086 loads a flat binary image at a given segment:offset and
// runs it, optionally under the stepping/tracing debugger.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/go8086/internal/cga"
	"github.com/rcornwell/go8086/internal/debugger"
	"github.com/rcornwell/go8086/internal/loader"
	"github.com/rcornwell/go8086/internal/machine"
	"github.com/rcornwell/go8086/internal/memory"
	"github.com/rcornwell/go8086/util/logger"
)

func main() {
	os.Exit(run())
}

// run contains the bulk of main so that deferred cleanup and os.Exit
// don't fight each other.
func run() int {
	optDebug := getopt.BoolLong("debug", 'd', "Start the debugger REPL after any -c commands")
	optTrace := getopt.BoolLong("trace", 't', "Enable instruction trace")
	optScript := getopt.StringLong("commands", 'c', "", "Semicolon-separated debugger commands to run first")
	optFont := getopt.StringLong("font", 'f', "", "8x8 character ROM for the CGA renderer (2048 bytes); omit to run headless")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optVerbose := getopt.BoolLong("verbose", 'v', "Mirror every log record to stderr, not only warnings and errors")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return 0
	}

	var logFile *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log file: "+err.Error())
			return 1
		}
		logFile = f
		defer logFile.Close()
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optVerbose)
	slog.SetDefault(slog.New(handler))

	args := getopt.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: go8086 [-d] [-t] [-c <cmds>] [-f <font>] <bin> <seg:off>")
		return 1
	}
	binPath, segOff := args[0], args[1]

	image, err := loader.LoadFile(binPath)
	if err != nil {
		slog.Error("load program", "error", err)
		return 1
	}
	seg, off, err := loader.ParseSegOff(segOff)
	if err != nil {
		slog.Error("parse seg:off", "error", err)
		return 1
	}

	mem := memory.New()

	// m is filled in below; the closure only runs (on the CPU's first
	// write to the CGA mode register) long after that assignment, so
	// the capture is safe.
	var m *machine.Machine
	var startRenderer func()
	if *optFont != "" {
		font, err := loader.FontROM(*optFont)
		if err != nil {
			slog.Error("load font ROM", "error", err)
			return 1
		}
		var once sync.Once
		startRenderer = func() {
			once.Do(func() {
				go func() {
					r := cga.NewRenderer(m.Bus.CGA, mem, font[:])
					if err := r.Run("go8086"); err != nil {
						slog.Error("renderer stopped", "error", err)
					}
				}()
			})
		}
	}

	m = machine.New(mem, startRenderer)
	m.Load(seg, off, image)
	m.Trace = *optTrace

	if *optScript != "" {
		if err := debugger.ProcessScript(*optScript, m); err != nil {
			fmt.Fprintln(os.Stderr, "error: "+err.Error())
		}
	}

	if *optDebug {
		debugger.ConsoleReader(m)
		return 0
	}

	if *optScript == "" {
		reason := m.Run(0)
		if reason == machine.StopError {
			slog.Error("run stopped", "error", m.Err)
			return 1
		}
	}

	return int(m.ExitCode)
}
