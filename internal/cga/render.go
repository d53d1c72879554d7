/*
   go8086 - CGA text-mode rendering collaborator.

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

package cga

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/rcornwell/go8086/internal/memory"
)

const (
	cols, rows  = 80, 25
	glyphW      = 8
	glyphH      = 8
	windowScale = 1
)

// Renderer is the out-of-core rendering collaborator: it runs on its
// own goroutine, reads the CGA text page and mode register, and never
// writes either. font holds 2048 bytes (256 glyphs of 8x8
// one-bit-per-pixel rows), passed in already read from the font ROM
// file by the caller.
type Renderer struct {
	cga  *CGA
	mem  *memory.Memory
	font [2048]byte
	img  *ebiten.Image
}

// NewRenderer builds a Renderer over the shared CGA/memory state. font
// is copied, not retained by reference, since the caller may free its
// backing file buffer after construction.
func NewRenderer(c *CGA, mem *memory.Memory, font []byte) *Renderer {
	r := &Renderer{cga: c, mem: mem, img: ebiten.NewImage(cols*glyphW, rows*glyphH)}
	copy(r.font[:], font)
	return r
}

// Run starts the ebiten game loop. It blocks until the window is
// closed; callers run it on its own goroutine, separate from the CPU's.
func (r *Renderer) Run(title string) error {
	ebiten.SetWindowSize(cols*glyphW*4*windowScale, rows*glyphH*8*windowScale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(r)
}

// Update implements ebiten.Game. The renderer has no simulated state of
// its own to advance; all state lives in the shared memory/CGA objects.
func (r *Renderer) Update() error {
	return nil
}

// Draw implements ebiten.Game: it takes the CGA lock just long enough
// to read the mode byte, then reads the framebuffer bytes from memory
// without the lock and blits glyphs.
func (r *Renderer) Draw(screen *ebiten.Image) {
	mode := r.cga.Mode()
	if !TextModeActive(mode) {
		screen.Fill(blankColor)
		return
	}
	cells := r.mem.Slice(FramebufferBase, FramebufferBytes)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := (row*cols + col) * 2
			ch := cells[i]
			attr := cells[i+1]
			r.drawGlyph(row, col, ch, attr)
		}
	}
	screen.DrawImage(r.img, nil)
}

func (r *Renderer) drawGlyph(row, col int, ch, attr byte) {
	fg, bg := colorsFor(attr)
	base := int(ch) * glyphH
	for gy := 0; gy < glyphH; gy++ {
		bits := r.font[base+gy]
		for gx := 0; gx < glyphW; gx++ {
			on := bits&(0x80>>uint(gx)) != 0
			c := bg
			if on {
				c = fg
			}
			r.img.Set(col*glyphW+gx, row*glyphH+gy, c)
		}
	}
}

// Layout implements ebiten.Game with a fixed logical resolution; the
// physical window may be scaled by the host window manager.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols * glyphW, rows * glyphH
}
