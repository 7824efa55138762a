package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cmapRecord struct {
	platform PlatformID
	encoding uint16
	subtable int // index into the list of sub-tables
}

// makeCMap assembles a 'cmap' table. Sub-tables are stored in list order,
// directly after the encoding records.
func makeCMap(t *testing.T, recs []cmapRecord, subtables ...[]byte) *CMapTable {
	var b fontBytes
	b.u16(0, uint16(len(recs)))
	offsets := make([]uint32, len(subtables))
	offset := uint32(4 + 8*len(recs))
	for i, st := range subtables {
		offsets[i] = offset
		offset += uint32(len(st))
	}
	for _, rec := range recs {
		b.u16(uint16(rec.platform), rec.encoding).u32(offsets[rec.subtable])
	}
	for _, st := range subtables {
		b = append(b, st...)
	}
	cmap, err := parseCMap(DirectoryEntry{Tag: T("cmap"), Length: uint32(len(b))}, binarySegm(b))
	require.NoError(t, err)
	return cmap
}

func cmapFormat0(mapping map[int]uint8) []byte {
	var b fontBytes
	b.u16(0, 262, 0)
	var ids [256]uint8
	for code, g := range mapping {
		ids[code] = g
	}
	return b.u8(ids[:]...).bytes()
}

// cmapFormat4 builds a format 4 sub-table from segments. Segments with
// IDRangeOffset != 0 must be set up by the caller to index into glyphIDs.
func cmapFormat4(segs []CMap4Segment, glyphIDs ...uint16) []byte {
	var b fontBytes
	n := len(segs)
	b.u16(4, uint16(16+8*n+2*len(glyphIDs)), 0)
	b.u16(uint16(2*n), 0, 0, 0)
	for _, s := range segs {
		b.u16(s.EndCode)
	}
	b.u16(0)
	for _, s := range segs {
		b.u16(s.StartCode)
	}
	for _, s := range segs {
		b.i16(s.IDDelta)
	}
	for _, s := range segs {
		b.u16(s.IDRangeOffset)
	}
	return b.u16(glyphIDs...).bytes()
}

func TestCMapFormat0(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	cmap := makeCMap(t, []cmapRecord{{PlatformMacintosh, 0, 0}}, cmapFormat0(map[int]uint8{65: 7}))
	st := cmap.Subtable(PlatformMacintosh, 0).MustUnwrap()
	require.IsType(t, &CMapFormat0{}, st)
	assert.Equal(t, GlyphIndex(7), st.Lookup(65))
	assert.Equal(t, GlyphIndex(0), st.Lookup(66))
	assert.Equal(t, GlyphIndex(0), st.Lookup(300))
	assert.True(t, cmap.UnicodeSubtable().IsNone(), "Mac Roman is not a Unicode encoding")
	assert.Equal(t, GlyphIndex(0), cmap.Lookup('A'))
}

func TestCMapFormat4Delta(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	st := cmapFormat4([]CMap4Segment{
		{StartCode: 10, EndCode: 20, IDDelta: 5},
		{StartCode: 0xffff, EndCode: 0xffff, IDDelta: 1},
	})
	cmap := makeCMap(t, []cmapRecord{{PlatformWindows, 1, 0}}, st)
	assert.Equal(t, GlyphIndex(20), cmap.Lookup(15))
	assert.Equal(t, GlyphIndex(15), cmap.Lookup(10))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup(25))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup(9))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup(0x10000))
	assert.Equal(t, 2, cmap.UnicodeSubtable().MustUnwrap().RangeCount())
}

func TestCMapFormat4RangeOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// segment 0 indexes glyphIDs[0…2]: idRangeOffset is the distance in bytes
	// from its own entry in the idRangeOffset array, i.e. 2 entries × 2 bytes
	st := cmapFormat4([]CMap4Segment{
		{StartCode: 0x30, EndCode: 0x32, IDDelta: 0, IDRangeOffset: 4},
		{StartCode: 0xffff, EndCode: 0xffff, IDDelta: 1},
	}, 40, 0, 42)
	cmap := makeCMap(t, []cmapRecord{{PlatformUnicode, 3, 0}}, st)
	assert.Equal(t, GlyphIndex(40), cmap.Lookup('0'))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup('1'), "glyph 0 in the array is unmapped")
	assert.Equal(t, GlyphIndex(42), cmap.Lookup('2'))
}

func TestCMapFormat6And12(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var f6 fontBytes
	f6.u16(6, 16, 0, 0x61, 3).u16(10, 11, 12)
	var f12 fontBytes
	f12.u16(12, 0).u32(16+2*12, 0, 2)
	f12.u32(0x1f600, 0x1f602, 100)
	f12.u32(0x20000, 0x20000, 0x10000) // glyph beyond 16 bits
	cmap := makeCMap(t, []cmapRecord{
		{PlatformUnicode, 3, 0},
		{PlatformWindows, 10, 1},
	}, f6.bytes(), f12.bytes())
	st6 := cmap.Subtable(PlatformUnicode, 3).MustUnwrap()
	assert.Equal(t, GlyphIndex(11), st6.Lookup('b'))
	assert.Equal(t, GlyphIndex(0), st6.Lookup('d'))
	assert.Equal(t, GlyphIndex(0), st6.Lookup('A'))
	// Windows UCS-4 is preferred over Unicode BMP
	assert.Equal(t, uint16(12), cmap.UnicodeSubtable().MustUnwrap().Format())
	assert.Equal(t, GlyphIndex(101), cmap.Lookup(0x1f601))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup(0x1f603))
	assert.Equal(t, GlyphIndex(0), cmap.Lookup(0x20000))
}

func TestCMapFormat2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var b fontBytes
	b.u16(2, 6+512+16+8, 0)
	for i := 0; i < 256; i++ {
		if i == 0x81 {
			b.u16(8) // lead byte 0x81 selects sub-header 1
		} else {
			b.u16(0)
		}
	}
	// sub-header 0: single bytes 0x20…0x21 → glyph array [0:2], delta 1
	// sub-header 1: trail bytes 0x40…0x41 → glyph array [2:4], delta 10
	// idRangeOffset counts from the idRangeOffset field
	b.u16(0x20, 2).i16(1).u16(10)
	b.u16(0x40, 2).i16(10).u16(6)
	b.u16(3, 0, 5, 6)
	cmap := makeCMap(t, []cmapRecord{{PlatformMacintosh, 1, 0}}, b.bytes())
	st := cmap.Subtable(PlatformMacintosh, 1).MustUnwrap()
	require.IsType(t, &CMapFormat2{}, st)
	assert.Equal(t, GlyphIndex(4), st.Lookup(0x20))
	assert.Equal(t, GlyphIndex(0), st.Lookup(0x21), "glyph 0 is not shifted by delta")
	assert.Equal(t, GlyphIndex(0), st.Lookup(0x81), "lead byte alone is unmapped")
	assert.Equal(t, GlyphIndex(15), st.Lookup(0x8140))
	assert.Equal(t, GlyphIndex(16), st.Lookup(0x8141))
	assert.Equal(t, GlyphIndex(0), st.Lookup(0x8142))
	assert.Equal(t, GlyphIndex(0), st.Lookup(0x8240))
}

func TestCMapSharedAndUnknownSubtables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var f14 fontBytes
	f14.u16(14).u32(10, 0)
	f4 := cmapFormat4([]CMap4Segment{{StartCode: 0xffff, EndCode: 0xffff, IDDelta: 1}})
	// records are sorted by platform, sub-tables are not in record order
	cmap := makeCMap(t, []cmapRecord{
		{PlatformUnicode, 3, 1},
		{PlatformUnicode, 5, 0},
		{PlatformWindows, 1, 1},
	}, f14.bytes(), f4)
	assert.Len(t, cmap.Subtables, 2)
	uni, _ := cmap.Subtable(PlatformUnicode, 3).Unwrap()
	win, _ := cmap.Subtable(PlatformWindows, 1).Unwrap()
	assert.Same(t, uni, win)
	vs := cmap.Subtable(PlatformUnicode, 5).MustUnwrap()
	require.IsType(t, &CMapUnknown{}, vs)
	assert.Equal(t, GlyphIndex(0), vs.Lookup('A'))
	assert.True(t, cmap.Subtable(PlatformISO, 0).IsNone())
}

func TestCMapMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var b fontBytes
	b.u16(0, 1).u16(3, 1).u32(12)
	b.u16(4, 20, 0).u16(3, 0, 0, 0) // odd segCountX2
	_, err := parseCMap(DirectoryEntry{Tag: T("cmap")}, binarySegm(b))
	assert.ErrorIs(t, err, ErrStructure)
	b = nil
	b.u16(0, 1).u16(3, 1).u32(100) // offset beyond table
	_, err = parseCMap(DirectoryEntry{Tag: T("cmap")}, binarySegm(b))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCMapLengthShorterThanHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var b fontBytes
	b.u16(6, 4, 0).u16(0x61, 1, 10) // length covers format and length only
	_, err := parseCMapSubtable(binarySegm(b), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "seek to 6 in 4 bytes")
}
