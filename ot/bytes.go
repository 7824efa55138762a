package ot

import (
	"fmt"
)

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data, usually the bytes of a single table.
type binarySegm []byte

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, fmt.Errorf("view [%d:+%d] of %d bytes: %w", offset, n, len(b), ErrOutOfRange)
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// cursor returns a cursor over b, positioned at offset.
func (b binarySegm) cursor(offset int) (*Cursor, error) {
	c := NewCursor(b)
	if err := c.Seek(offset); err != nil {
		return nil, err
	}
	return c, nil
}

// from returns the tail of b starting at offset.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, fmt.Errorf("offset %d in segment of size %d: %w", offset, len(b), ErrOutOfRange)
	}
	return b[offset:], nil
}

// readU16s reads n consecutive uint16 values at the cursor's position.
func readU16s(c *Cursor, n int) ([]uint16, error) {
	buf, err := c.Bytes(2 * n)
	if err != nil {
		return nil, err
	}
	v := make([]uint16, n)
	for i := range v {
		v[i] = u16(buf[2*i:])
	}
	return v, nil
}
