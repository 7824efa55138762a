package ot

import (
	"fmt"

	"golang.org/x/image/math/fixed"
)

// Cursor is a bounds-checked, big-endian reader over the bytes of a single table
// (or of a sub-structure of a table).
//
// All offsets in OpenType are relative to the start of some table or sub-table,
// which is why Cursor supports seeking to absolute positions within its data.
// Reading past the end of the data is an error wrapping ErrOutOfRange; the position
// of the cursor will not change in that case.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor at position 0 of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{data: b}
}

// Pos returns the current read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the size of the underlying data.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of bytes not yet read.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Data returns the bytes the cursor reads from.
func (c *Cursor) Data() []byte {
	return c.data
}

// Seek sets the read position to an absolute offset. Seeking to the end of the
// data is allowed, seeking beyond it is not.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("seek to %d in %d bytes: %w", offset, len(c.data), ErrOutOfRange)
	}
	c.pos = offset
	return nil
}

// Skip advances the read position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("skip %d at %d of %d bytes: %w", n, c.pos, len(c.data), ErrOutOfRange)
	}
	c.pos += n
	return nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("read %d bytes at %d of %d: %w", n, c.pos, len(c.data), ErrOutOfRange)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Bytes reads a run of n bytes. The returned slice shares memory with the cursor's data.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// I8 reads a signed byte.
func (c *Cursor) I8() (int8, error) {
	n, err := c.U8()
	return int8(n), err
}

// U16 reads a big-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return u16(b), nil
}

// I16 reads a big-endian int16.
func (c *Cursor) I16() (int16, error) {
	n, err := c.U16()
	return int16(n), err
}

// U24 reads a big-endian 24-bit unsigned integer.
func (c *Cursor) U24() (uint32, error) {
	b, err := c.take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// U32 reads a big-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return u32(b), nil
}

// I32 reads a big-endian int32.
func (c *Cursor) I32() (int32, error) {
	n, err := c.U32()
	return int32(n), err
}

// U64 reads a big-endian uint64, e.g. a LONGDATETIME.
func (c *Cursor) U64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return uint64(u32(b))<<32 | uint64(u32(b[4:])), nil
}

// I64 reads a big-endian int64.
func (c *Cursor) I64() (int64, error) {
	n, err := c.U64()
	return int64(n), err
}

// Tag reads a 4-byte tag.
func (c *Cursor) Tag() (Tag, error) {
	n, err := c.U32()
	return Tag(n), err
}

// Fixed reads a 16.16 fixed-point number.
func (c *Cursor) Fixed() (Fixed, error) {
	n, err := c.U32()
	return Fixed(n), err
}

// F2Dot14 reads a 2.14 fixed-point number.
func (c *Cursor) F2Dot14() (F2Dot14, error) {
	n, err := c.U16()
	return F2Dot14(n), err
}

// Offset reads an unsigned offset of size 1 to 4 bytes, as used by CFF.
func (c *Cursor) Offset(size int) (uint32, error) {
	switch size {
	case 1:
		n, err := c.U8()
		return uint32(n), err
	case 2:
		n, err := c.U16()
		return uint32(n), err
	case 3:
		return c.U24()
	case 4:
		return c.U32()
	}
	return 0, fmt.Errorf("offset size %d: %w", size, ErrStructure)
}

// --- Fixed point numbers ---------------------------------------------------

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

// Float returns f as a floating point number.
func (f Fixed) Float() float64 {
	return float64(f) / 65536.0
}

// Int26_6 converts f to the fixed-point format of golang.org/x/image.
func (f Fixed) Int26_6() fixed.Int26_6 {
	return fixed.Int26_6(int32(f) >> 10)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%.4f", f.Float())
}

// F2Dot14 is a signed 2.14 fixed-point number, used for scale factors.
type F2Dot14 int16

// One is 1.0 in 2.14 format.
const One F2Dot14 = 1 << 14

// Float returns f as a floating point number.
func (f F2Dot14) Float() float64 {
	return float64(f) / 16384.0
}

func (f F2Dot14) String() string {
	return fmt.Sprintf("%.4f", f.Float())
}
