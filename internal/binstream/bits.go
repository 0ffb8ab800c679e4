package binstream

// UB reads an unsigned n-bit field, most significant bit first. Bits
// carry over between calls, so consecutive fields may straddle byte
// boundaries. n is clamped to 0..32.
func (c *Cursor) UB(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n > 32 {
		n = 32
	}
	var v uint32
	for i := 0; i < n; i++ {
		if c.bitLeft == 0 {
			if !c.take(1) {
				return 0
			}
			c.bitBuf = c.data[c.off]
			c.off++
			c.bitLeft = 8
		}
		c.bitLeft--
		v = v<<1 | uint32(c.bitBuf>>uint(c.bitLeft))&1
	}
	return v
}

// SB reads a signed n-bit two's-complement field.
func (c *Cursor) SB(n int) int32 {
	if n <= 0 {
		return 0
	}
	if n > 32 {
		n = 32
	}
	return signExtend(c.UB(n), uint(n))
}

// AlignBits drops any buffered bits so the next bit read starts on a
// fresh byte.
func (c *Cursor) AlignBits() { c.bitLeft = 0 }
