package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func TestCursorReads(t *testing.T) {
	var b fontBytes
	b.u8(0xff).u16(0x1234).u32(0xcafebabe).tag("cmap").u16(0xfffe).u8(1, 2, 3)
	c := NewCursor(b.bytes())
	u8, err := c.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), u8)
	u16, _ := c.U16()
	assert.Equal(t, uint16(0x1234), u16)
	u32, _ := c.U32()
	assert.Equal(t, uint32(0xcafebabe), u32)
	tag, _ := c.Tag()
	assert.Equal(t, "cmap", tag.String())
	i16, _ := c.I16()
	assert.Equal(t, int16(-2), i16)
	u24, err := c.U24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), u24)
	assert.Equal(t, 0, c.Remaining())
}

func TestCursorOutOfRange(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	_ = c.Skip(2)
	_, err := c.U16()
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 2, c.Pos(), "failed read must not move the cursor")
	assert.ErrorIs(t, c.Seek(4), ErrOutOfRange)
	assert.NoError(t, c.Seek(3))
	_, err = c.Bytes(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = c.Offset(5)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestCursorOffsetSizes(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x01, 0x02, 0x01, 0x02, 0x03, 0x01, 0x02, 0x03, 0x04})
	for size, expected := range []uint32{0x01, 0x0102, 0x010203, 0x01020304} {
		n, err := c.Offset(size + 1)
		require.NoError(t, err)
		assert.Equal(t, expected, n)
	}
}

func TestFixedPoint(t *testing.T) {
	f := Fixed(0x00018000)
	assert.Equal(t, 1.5, f.Float())
	assert.Equal(t, fixed.Int26_6(96), f.Int26_6())
	assert.Equal(t, "1.5000", f.String())
	assert.Equal(t, 1.0, One.Float())
	assert.Equal(t, -0.5, F2Dot14(-0x2000).Float())
}

func TestOption(t *testing.T) {
	some := Some(7)
	none := None[int]()
	assert.True(t, some.IsSome())
	assert.True(t, none.IsNone())
	assert.Equal(t, 7, some.Or(0))
	assert.Equal(t, 3, none.Or(3))
	assert.Equal(t, "Some(7)", some.String())
	assert.Equal(t, "None", none.String())
	assert.Panics(t, func() { none.MustUnwrap() })
	double := Map(some, func(n int) int { return 2 * n })
	assert.Equal(t, 14, double.MustUnwrap())
	chained := AndThen(some, func(n int) Option[string] { return None[string]() })
	assert.True(t, chained.IsNone())
}
