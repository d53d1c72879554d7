/*
   go8086 - MUL/IMUL/DIV/IDIV and the ASCII/decimal adjust opcodes.

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

package cpu

import "github.com/rcornwell/go8086/internal/cpudefs"

// mul implements MUL/IMUL: 8-bit forms write AX, 16-bit forms
// write DX:AX. CF/OF are set when the high half is significant (MUL)
// or when the high half is not the sign extension of the low half
// (IMUL).
func (c *CPU) mul(m modRM, width int, signed bool) {
	var cf bool
	if width == 8 {
		operand := c.loadRM8(m)
		if signed {
			product := int16(int8(c.Get8(cpudefs.AL))) * int16(int8(operand))
			c.Set16(cpudefs.AX, uint16(product))
			cf = product != int16(int8(byte(product)))
		} else {
			product := uint16(c.Get8(cpudefs.AL)) * uint16(operand)
			c.Set16(cpudefs.AX, product)
			cf = byte(product>>8) != 0
		}
	} else {
		operand := c.loadRM16(m)
		if signed {
			product := int32(int16(c.Get16(cpudefs.AX))) * int32(int16(operand))
			c.Set16(cpudefs.AX, uint16(product))
			c.Set16(cpudefs.DX, uint16(product>>16))
			cf = product != int32(int16(uint16(product)))
		} else {
			product := uint32(c.Get16(cpudefs.AX)) * uint32(operand)
			c.Set16(cpudefs.AX, uint16(product))
			c.Set16(cpudefs.DX, uint16(product>>16))
			cf = uint16(product>>16) != 0
		}
	}
	c.setFlag(cpudefs.FlagCF, cf)
	c.setFlag(cpudefs.FlagOF, cf)
}

// div implements DIV/IDIV. A zero divisor or a quotient that overflows
// the destination raises vector 0 via intSrc; in that case PF/ZF are
// left reflecting the pre-fault AX value and the other flags are left
// untouched.
func (c *CPU) div(m modRM, width int, signed bool) error {
	if width == 8 {
		divisor := c.loadRM8(m)
		dividend := c.Get16(cpudefs.AX)
		if divisor == 0 {
			return c.divideFault()
		}
		if signed {
			q := int16(dividend) / int16(int8(divisor))
			r := int16(dividend) % int16(int8(divisor))
			if q < -128 || q > 127 {
				return c.divideFault()
			}
			c.Set8(cpudefs.AL, byte(q))
			c.Set8(cpudefs.AH, byte(r))
		} else {
			q := dividend / uint16(divisor)
			r := dividend % uint16(divisor)
			if q > 0xFF {
				return c.divideFault()
			}
			c.Set8(cpudefs.AL, byte(q))
			c.Set8(cpudefs.AH, byte(r))
		}
		return nil
	}

	divisor := c.loadRM16(m)
	dividend := uint32(c.Get16(cpudefs.DX))<<16 | uint32(c.Get16(cpudefs.AX))
	if divisor == 0 {
		return c.divideFault()
	}
	if signed {
		q := int32(dividend) / int32(int16(divisor))
		r := int32(dividend) % int32(int16(divisor))
		if q < -32768 || q > 32767 {
			return c.divideFault()
		}
		c.Set16(cpudefs.AX, uint16(q))
		c.Set16(cpudefs.DX, uint16(r))
	} else {
		q := dividend / uint32(divisor)
		r := dividend % uint32(divisor)
		if q > 0xFFFF {
			return c.divideFault()
		}
		c.Set16(cpudefs.AX, uint16(q))
		c.Set16(cpudefs.DX, uint16(r))
	}
	return nil
}

// divideFault arms int_src=0 so interrupt acceptance delivers vector 0,
// clearing PF/ZF to reflect the pre-fault AX value while leaving the
// other flag bits untouched.
func (c *CPU) divideFault() error {
	f := commonFlags(uint32(c.Get16(cpudefs.AX)), 16) & (cpudefs.FlagPF | cpudefs.FlagZF)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ (cpudefs.FlagPF | cpudefs.FlagZF)) | f)
	c.intSrc = 0
	return nil
}

// aaa/aas/aam/aad are the ASCII-adjust opcodes; daa/das are the
// decimal-adjust opcodes. All operate on AL alone
// (AAM/AAD also touch AH) with the documented flag side effects.
func (c *CPU) aaa() {
	al := c.Get8(cpudefs.AL)
	if al&0x0F > 9 || c.flag(cpudefs.FlagAF) {
		c.Set8(cpudefs.AL, (al+6)&0x0F)
		c.Set8(cpudefs.AH, c.Get8(cpudefs.AH)+1)
		c.setFlag(cpudefs.FlagAF, true)
		c.setFlag(cpudefs.FlagCF, true)
	} else {
		c.Set8(cpudefs.AL, al&0x0F)
		c.setFlag(cpudefs.FlagAF, false)
		c.setFlag(cpudefs.FlagCF, false)
	}
}

func (c *CPU) aas() {
	al := c.Get8(cpudefs.AL)
	if al&0x0F > 9 || c.flag(cpudefs.FlagAF) {
		c.Set8(cpudefs.AL, (al-6)&0x0F)
		c.Set8(cpudefs.AH, c.Get8(cpudefs.AH)-1)
		c.setFlag(cpudefs.FlagAF, true)
		c.setFlag(cpudefs.FlagCF, true)
	} else {
		c.Set8(cpudefs.AL, al&0x0F)
		c.setFlag(cpudefs.FlagAF, false)
		c.setFlag(cpudefs.FlagCF, false)
	}
}

func (c *CPU) aam() error {
	base := c.fetch8()
	if base == 0 {
		return c.divideFault()
	}
	al := c.Get8(cpudefs.AL)
	c.Set8(cpudefs.AH, al/base)
	c.Set8(cpudefs.AL, al%base)
	f := commonFlags(uint32(c.Get8(cpudefs.AL)), 8)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
	return nil
}

func (c *CPU) aad() {
	base := c.fetch8()
	al, ah := c.Get8(cpudefs.AL), c.Get8(cpudefs.AH)
	result := uint16(ah)*uint16(base) + uint16(al)
	c.Set8(cpudefs.AL, byte(result))
	c.Set8(cpudefs.AH, 0)
	f := commonFlags(uint32(byte(result)), 8)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ flagsArith) | f)
}

func (c *CPU) daa() {
	al := c.Get8(cpudefs.AL)
	oldAF, oldCF := c.flag(cpudefs.FlagAF), c.flag(cpudefs.FlagCF)
	cf := false
	if al&0x0F > 9 || oldAF {
		cf = al > 0xF9 || oldCF
		al += 6
		c.setFlag(cpudefs.FlagAF, true)
	} else {
		c.setFlag(cpudefs.FlagAF, false)
	}
	if (al&0xF0)>>4 > 9 || oldCF {
		al += 0x60
		cf = true
	}
	c.Set8(cpudefs.AL, al)
	c.setFlag(cpudefs.FlagCF, cf)
	f := commonFlags(uint32(al), 8)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ (cpudefs.FlagZF | cpudefs.FlagSF | cpudefs.FlagPF)) | f)
}

func (c *CPU) das() {
	al := c.Get8(cpudefs.AL)
	oldAF, oldCF := c.flag(cpudefs.FlagAF), c.flag(cpudefs.FlagCF)
	cf := false
	if al&0x0F > 9 || oldAF {
		cf = al < 6 || oldCF
		al -= 6
		c.setFlag(cpudefs.FlagAF, true)
	} else {
		c.setFlag(cpudefs.FlagAF, false)
	}
	if (al&0xF0)>>4 > 9 || oldCF {
		al -= 0x60
		cf = true
	}
	c.Set8(cpudefs.AL, al)
	c.setFlag(cpudefs.FlagCF, cf)
	f := commonFlags(uint32(al), 8)
	c.Flags = cpudefs.CanonicalFlags((c.Flags &^ (cpudefs.FlagZF | cpudefs.FlagSF | cpudefs.FlagPF)) | f)
}
