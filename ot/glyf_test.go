package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyphFlagRepeat(t *testing.T) {
	flags, err := decodeGlyphFlags(NewCursor([]byte{0x09, 3}), 4)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x09, 0x09, 0x09, 0x09}, flags)
	//
	_, err = decodeGlyphFlags(NewCursor([]byte{0x09, 5}), 4)
	assert.ErrorIs(t, err, ErrStructure)
	_, err = decodeGlyphFlags(NewCursor([]byte{0x01}), 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestGlyphCoordinateDeltas(t *testing.T) {
	// +5 short positive, -2 short negative, +10 as 16-bit word
	flags := []uint8{glyphXShort | glyphXSame, glyphXShort, 0}
	var b fontBytes
	b.u8(5, 2).i16(10)
	xs, err := decodeGlyphCoordinates(NewCursor(b.bytes()), flags, glyphXShort, glyphXSame)
	require.NoError(t, err)
	assert.Equal(t, []int16{5, 3, 13}, xs)
	// 'same' without 'short' repeats the previous value without reading
	flags = []uint8{glyphYShort | glyphYSame, glyphYSame}
	ys, err := decodeGlyphCoordinates(NewCursor([]byte{7}), flags, glyphYShort, glyphYSame)
	require.NoError(t, err)
	assert.Equal(t, []int16{7, 7}, ys)
}

func parseTestGlyf(t *testing.T, glyf []byte, loca []uint32) (*GlyfTable, error) {
	lb := locaTable(loca)
	l, err := parseLoca(DirectoryEntry{Tag: T("loca")}, binarySegm(lb), 1, len(loca)-1)
	require.NoError(t, err)
	return parseGlyf(DirectoryEntry{Tag: T("glyf")}, binarySegm(glyf), l, len(loca)-1)
}

func TestSimpleAndCompositeGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data, loca := testGlyphs()
	glyf, err := parseTestGlyf(t, data, loca)
	require.NoError(t, err)
	require.Equal(t, 3, glyf.NumGlyphs())
	g0 := glyf.Glyph(0).MustUnwrap()
	assert.IsType(t, &EmptyGlyph{}, g0)
	assert.Equal(t, 0, g0.PointCount())
	//
	g1 := glyf.Glyph(1).MustUnwrap()
	require.IsType(t, &SimpleGlyph{}, g1)
	assert.Equal(t, 3, g1.PointCount())
	assert.Equal(t, 1, g1.ContourCount())
	assert.Equal(t, 2, g1.EndPtOfContours(0))
	assert.Equal(t, GlyphBounds{XMin: 0, YMin: 0, XMax: 100, YMax: 100}, g1.Bounds())
	assert.Equal(t, 100, g1.X(1))
	assert.Equal(t, 100, g1.Y(2))
	assert.Equal(t, GlyphOnCurve, g1.Flags(0)&GlyphOnCurve)
	//
	g2 := glyf.Glyph(2).MustUnwrap()
	require.True(t, g2.IsComposite())
	cg := g2.(*CompositeGlyph)
	require.Len(t, cg.Components, 1)
	assert.Equal(t, 3, g2.PointCount())
	assert.Equal(t, 1, g2.ContourCount())
	assert.Equal(t, 0, cg.Components[0].FirstIndex)
	assert.Equal(t, 2, g2.EndPtOfContours(0))
	x, y := cg.Point(1)
	assert.Equal(t, [2]int{200, 0}, [2]int{x, y})
	assert.Equal(t, 100, g2.X(0))
	assert.Equal(t, 0, g2.X(5), "point index out of range")
	//
	assert.True(t, glyf.Glyph(3).IsNone())
}

// sixPointGlyph is a simple glyph with 2 contours of 3 points each.
func sixPointGlyph() []byte {
	var b fontBytes
	b.i16(2, 0, 0, 50, 50).u16(2, 5, 0)
	b.u8(0x09, 5) // 6 flags: on curve, 16-bit coordinates
	b.i16(0, 0, 0, 0, 0, 0)
	b.i16(0, 10, 10, 10, 10, 10)
	return b.bytes()
}

func TestEmptyContour(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var b fontBytes
	b.i16(2, 0, 0, 0, 0).u16(0, 0, 0) // 2 contours ending at point 0, no instructions
	b.u8(0x31, 0)                     // on curve, x and y same as previous
	glyf, err := parseTestGlyf(t, b.bytes(), []uint32{0, uint32(len(b))})
	require.NoError(t, err)
	g := glyf.Glyph(0).MustUnwrap()
	require.IsType(t, &SimpleGlyph{}, g)
	assert.Equal(t, 2, g.ContourCount())
	assert.Equal(t, 1, g.PointCount())
	assert.Equal(t, 0, g.EndPtOfContours(1))
	//
	b = nil
	b.i16(2, 0, 0, 0, 0).u16(1, 0, 0).u8(0x31, 0x31)
	_, err = parseTestGlyf(t, b.bytes(), []uint32{0, uint32(len(b))})
	assert.ErrorIs(t, err, ErrStructure)
}

func TestCompositeOfSixPointGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	simple := sixPointGlyph()
	var composite fontBytes
	composite.i16(-1, 0, 0, 50, 50).u16(ArgsAreXYValues, 1).u8(0, 0)
	glyf := append(append([]byte(nil), simple...), composite...)
	loca := []uint32{0, 0, uint32(len(simple)), uint32(len(glyf))}
	table, err := parseTestGlyf(t, glyf, loca)
	require.NoError(t, err)
	g1 := table.Glyph(1).MustUnwrap()
	assert.Equal(t, 6, g1.PointCount())
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50}, []int{g1.Y(0), g1.Y(1), g1.Y(2), g1.Y(3), g1.Y(4), g1.Y(5)})
	g2 := table.Glyph(2).MustUnwrap().(*CompositeGlyph)
	assert.Equal(t, 6, g2.PointCount())
	assert.Equal(t, 2, g2.ContourCount())
	assert.Equal(t, 0, g2.Components[0].FirstIndex)
	assert.Equal(t, 5, g2.EndPtOfContours(1))
}

func TestCompositeScaleAndPointMatching(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	glyf, loca := testGlyphs()
	// glyph 3: glyph 1 scaled by 0.5, then glyph 1 with its point 0 matched to
	// the composite's point 2
	var composite fontBytes
	composite.i16(-1, 0, 0, 150, 150)
	composite.u16(ArgsAreXYValues|WeHaveAScale|MoreComponents, 1).u8(0, 0).i16(int16(One / 2))
	composite.u16(0, 1).u8(2, 0)
	glyf = append(glyf, composite...)
	loca = append(loca, uint32(len(glyf)))
	table, err := parseTestGlyf(t, glyf, loca)
	require.NoError(t, err)
	g3 := table.Glyph(3).MustUnwrap().(*CompositeGlyph)
	assert.Equal(t, 6, g3.PointCount())
	assert.Equal(t, 0.5, g3.Components[0].XScale)
	x, y := g3.Point(2)
	assert.Equal(t, [2]int{50, 50}, [2]int{x, y})
	assert.Equal(t, 3, g3.Components[1].FirstIndex)
	x, y = g3.Point(3)
	assert.Equal(t, [2]int{50, 50}, [2]int{x, y}, "matched point coincides")
	x, y = g3.Point(4)
	assert.Equal(t, [2]int{150, 50}, [2]int{x, y})
}

func TestCompositeCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// glyph 1 → glyph 2 → glyph 1
	var g1, g2 fontBytes
	g1.i16(-1, 0, 0, 0, 0).u16(ArgsAreXYValues, 2).u8(0, 0)
	g2.i16(-1, 0, 0, 0, 0).u16(ArgsAreXYValues, 1).u8(0, 0)
	glyf := append(g1.bytes(), g2...)
	loca := []uint32{0, 0, uint32(len(g1)), uint32(len(glyf))}
	_, err := parseTestGlyf(t, glyf, loca)
	assert.ErrorIs(t, err, ErrStructure)
	//
	var self fontBytes
	self.i16(-1, 0, 0, 0, 0).u16(ArgsAreXYValues, 1).u8(0, 0)
	_, err = parseTestGlyf(t, self.bytes(), []uint32{0, 0, uint32(len(self))})
	assert.ErrorIs(t, err, ErrStructure)
	//
	var dangling fontBytes
	dangling.i16(-1, 0, 0, 0, 0).u16(ArgsAreXYValues, 99).u8(0, 0)
	_, err = parseTestGlyf(t, dangling.bytes(), []uint32{0, uint32(len(dangling))})
	assert.ErrorIs(t, err, ErrStructure)
}

func TestLocaNotAscending(t *testing.T) {
	_, err := parseLoca(DirectoryEntry{Tag: T("loca")}, binarySegm(locaTable([]uint32{0, 20, 10})), 1, 2)
	assert.ErrorIs(t, err, ErrStructure)
	var short fontBytes
	short.u16(0, 10, 20) // short format, offsets / 2
	loca, err := parseLoca(DirectoryEntry{Tag: T("loca")}, binarySegm(short), 0, 2)
	require.NoError(t, err)
	off, size := loca.IndexToLocation(1)
	assert.Equal(t, uint32(20), off)
	assert.Equal(t, uint32(20), size)
	off, size = loca.IndexToLocation(7)
	assert.Equal(t, uint32(0), off+size)
}
