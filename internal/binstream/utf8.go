package binstream

import (
	"unicode"
	"unicode/utf16"
)

// trailingBytes maps the top five bits of a lead byte to the number of
// continuation bytes that follow it. -1 marks bytes that cannot start
// a sequence.
var trailingBytes = [32]int8{
	// 0xxxxxxx
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	// 10xxxxxx continuation
	-1, -1, -1, -1, -1, -1, -1, -1,
	// 110xxxxx, 1110xxxx, 11110xxx, 11111xxx
	1, 1, 1, 1, 2, 2, 3, -1,
}

// leadMask strips the length prefix from a lead byte.
var leadMask = [4]byte{0x7f, 0x1f, 0x0f, 0x07}

// minCodePoint rejects overlong encodings per sequence length.
var minCodePoint = [4]rune{0, 0x80, 0x800, 0x10000}

// UTF8String decodes n bytes of UTF-8. Code points above U+FFFF are
// produced as UTF-16 surrogate pairs before the final conversion, so a
// malformed pair in the input degrades to U+FFFD instead of leaking an
// unpaired surrogate. Invalid sequences decode as U+FFFD.
func (c *Cursor) UTF8String(n int) string {
	b := c.Bytes(n)
	if len(b) == 0 {
		return ""
	}
	return string(utf16.Decode(decodeUTF8Units(b)))
}

func decodeUTF8Units(b []byte) []uint16 {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		lead := b[i]
		extra := int(trailingBytes[lead>>3])
		if extra < 0 || i+extra >= len(b) {
			units = append(units, unicode.ReplacementChar)
			i++
			continue
		}
		r := rune(lead & leadMask[extra])
		ok := true
		for k := 1; k <= extra; k++ {
			cb := b[i+k]
			if cb&0xc0 != 0x80 {
				ok = false
				break
			}
			r = r<<6 | rune(cb&0x3f)
		}
		if !ok || r < minCodePoint[extra] || r > 0x10ffff || (r >= 0xd800 && r <= 0xdfff) {
			units = append(units, unicode.ReplacementChar)
			i++
			continue
		}
		i += extra + 1
		if r > 0xffff {
			hi, lo := utf16.EncodeRune(r)
			units = append(units, uint16(hi), uint16(lo))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}
