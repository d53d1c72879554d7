/*
   go8086 - raw program file loader.

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

// Package loader reads a raw flat binary image off disk for the CLI's
// `<bin> <seg:off>` argument pair.
package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads path in full and returns its bytes, erroring out with
// the path included if the read fails.
func LoadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return data, nil
}

// ParseSegOff parses the CLI's "seg:off" argument, two colon-separated
// hex numbers, into a segment and offset pair.
func ParseSegOff(s string) (seg, off uint16, err error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return 0, 0, fmt.Errorf("loader: %q is not seg:off", s)
	}
	segVal, err := strconv.ParseUint(s[:idx], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("loader: invalid segment %q: %w", s[:idx], err)
	}
	offVal, err := strconv.ParseUint(s[idx+1:], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("loader: invalid offset %q: %w", s[idx+1:], err)
	}
	return uint16(segVal), uint16(offVal), nil
}

// FontROM reads an 8x8 character font ROM, which must be exactly 2048
// bytes (256 glyphs x 8 rows).
func FontROM(path string) ([256 * 8]byte, error) {
	var font [256 * 8]byte
	data, err := LoadFile(path)
	if err != nil {
		return font, err
	}
	if len(data) != len(font) {
		return font, fmt.Errorf("loader: font ROM %s is %d bytes, want %d", path, len(data), len(font))
	}
	copy(font[:], data)
	return font, nil
}
