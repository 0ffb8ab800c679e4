package binstream

import "math"

// Fixed reads a signed 16.16 fixed-point number.
func (c *Cursor) Fixed() float64 {
	return float64(c.S32()) / (1 << 16)
}

// Fixed8 reads a signed 8.8 fixed-point number.
func (c *Cursor) Fixed8() float64 {
	return float64(c.S16()) / (1 << 8)
}

// Float32 reads an IEEE-754 single. The value is unpacked by hand so
// that the rules for zero, subnormal and non-finite patterns stay
// explicit rather than delegated.
func (c *Cursor) Float32() float32 {
	return float32(unpackFloat(uint64(c.U32()), 8, 23))
}

// Float64 reads an IEEE-754 double as two 32-bit words in the cursor's
// byte order.
func (c *Cursor) Float64() float64 {
	lo, hi := uint64(c.U32()), uint64(c.U32())
	if c.order == BigEndian {
		lo, hi = hi, lo
	}
	return unpackFloat(hi<<32|lo, 11, 52)
}

// unpackFloat decodes sign, biased exponent and mantissa fields of the
// given widths.
func unpackFloat(bits uint64, expBits, sigBits uint) float64 {
	sign := 1.0
	if bits>>(expBits+sigBits)&1 == 1 {
		sign = -1
	}
	bias := int(1)<<(expBits-1) - 1
	rawExp := int(bits >> sigBits & (1<<expBits - 1))
	sig := bits & (1<<sigBits - 1)
	frac := float64(sig) / float64(uint64(1)<<sigBits)

	switch rawExp {
	case 0:
		if sig == 0 {
			return 0 * sign
		}
		return sign * math.Ldexp(frac, 1-bias)
	case 1<<expBits - 1:
		if sig != 0 {
			return math.NaN()
		}
		return math.Inf(int(sign))
	}
	return sign * math.Ldexp(1+frac, rawExp-bias)
}
