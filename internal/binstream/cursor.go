// Package binstream reads primitive values out of an immutable byte
// buffer: fixed-width integers, fixed-point and IEEE-754 numbers,
// arbitrary-width bit fields and length-prefixed UTF-8 text.
//
// Reads never panic. A read that would cross the active limit returns
// the zero value, parks the cursor at the limit and records a sticky
// ErrUnexpectedEOF that callers inspect with Err.
package binstream

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF reports a read that ran past the active limit.
var ErrUnexpectedEOF = errors.New("binstream: unexpected end of data")

// ByteOrder selects how multi-byte integers are assembled.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// Cursor is a forward reader over a byte slice. The zero value is not
// usable; construct with New.
type Cursor struct {
	data  []byte
	off   int
	order ByteOrder

	// Persistent bit buffer for UB/SB. bitLeft counts the unread bits
	// of bitBuf (0..8); any byte-aligned read discards them.
	bitBuf  byte
	bitLeft int

	limits []int
	err    error
}

// New returns a little-endian cursor positioned at the start of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// SetByteOrder switches the integer byte order for subsequent reads.
func (c *Cursor) SetByteOrder(o ByteOrder) { c.order = o }

// Len is the total buffer length.
func (c *Cursor) Len() int { return len(c.data) }

// Tell returns the absolute byte offset of the next read.
func (c *Cursor) Tell() int { return c.off }

// BytesAvailable is the number of bytes between the cursor and the end
// of the buffer, ignoring limits.
func (c *Cursor) BytesAvailable() int {
	if c.off >= len(c.data) {
		return 0
	}
	return len(c.data) - c.off
}

// Seek moves to an absolute offset, clamped to the buffer. It is the
// only operation that may move the cursor backwards.
func (c *Cursor) Seek(off int) {
	switch {
	case off < 0:
		off = 0
	case off > len(c.data):
		off = len(c.data)
	}
	c.off = off
	c.bitLeft = 0
}

// Skip advances n bytes, honouring the active limit.
func (c *Cursor) Skip(n int) {
	if n <= 0 {
		return
	}
	if c.take(n) {
		c.off += n
	}
}

// Limit returns the offset reads may not cross.
func (c *Cursor) Limit() int {
	if len(c.limits) == 0 {
		return len(c.data)
	}
	return c.limits[len(c.limits)-1]
}

// PushLimit bounds subsequent reads to end. Limits nest; a new limit
// never extends past the enclosing one.
func (c *Cursor) PushLimit(end int) {
	if outer := c.Limit(); end > outer {
		end = outer
	}
	if end < c.off {
		end = c.off
	}
	c.limits = append(c.limits, end)
}

// PopLimit removes the innermost limit and returns (and clears) the
// sticky error collected while it was active.
func (c *Cursor) PopLimit() error {
	if len(c.limits) > 0 {
		c.limits = c.limits[:len(c.limits)-1]
	}
	err := c.err
	c.err = nil
	return err
}

// Err returns the sticky read error, if any.
func (c *Cursor) Err() error { return c.err }

// take reports whether n more bytes fit under the limit. On failure it
// records ErrUnexpectedEOF and parks the cursor at the limit.
func (c *Cursor) take(n int) bool {
	c.bitLeft = 0
	if c.err != nil {
		return false
	}
	limit := c.Limit()
	if c.off+n > limit {
		c.err = fmt.Errorf("%w: need %d bytes at offset %d, limit %d", ErrUnexpectedEOF, n, c.off, limit)
		c.off = limit
		return false
	}
	return true
}

// Bytes returns the next n bytes. The slice aliases the buffer.
func (c *Cursor) Bytes(n int) []byte {
	if n < 0 || !c.take(n) {
		return nil
	}
	b := c.data[c.off : c.off+n : c.off+n]
	c.off += n
	return b
}

// Rest returns every byte up to the active limit without copying.
func (c *Cursor) Rest() []byte {
	return c.Bytes(c.Limit() - c.off)
}

func (c *Cursor) uint(n int) uint32 {
	if !c.take(n) {
		return 0
	}
	var v uint32
	b := c.data[c.off : c.off+n]
	if c.order == BigEndian {
		for i := 0; i < n; i++ {
			v = v<<8 | uint32(b[i])
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint32(b[i])
		}
	}
	c.off += n
	return v
}

func (c *Cursor) U8() uint8   { return uint8(c.uint(1)) }
func (c *Cursor) U16() uint16 { return uint16(c.uint(2)) }
func (c *Cursor) U24() uint32 { return c.uint(3) }
func (c *Cursor) U32() uint32 { return c.uint(4) }

// S8, S16 and S32 reinterpret the unsigned value as two's complement.
func (c *Cursor) S8() int8   { return int8(signExtend(c.uint(1), 8)) }
func (c *Cursor) S16() int16 { return int16(signExtend(c.uint(2), 16)) }
func (c *Cursor) S32() int32 { return signExtend(c.uint(4), 32) }

// Bool reads one byte; any non-zero value is true.
func (c *Cursor) Bool() bool { return c.U8() != 0 }

// signExtend treats the low width bits of v as a signed quantity.
func signExtend(v uint32, width uint) int32 {
	if width >= 32 {
		return int32(v)
	}
	mask := uint32(1)<<width - 1
	v &= mask
	if v&(1<<(width-1)) != 0 {
		return -int32((^v + 1) & mask)
	}
	return int32(v)
}
