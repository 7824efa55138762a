package ot

import (
	"sort"
)

// fontBytes is a big-endian byte builder for synthetic test fonts.
type fontBytes []byte

func (b *fontBytes) u8(v ...uint8) *fontBytes {
	*b = append(*b, v...)
	return b
}

func (b *fontBytes) u16(v ...uint16) *fontBytes {
	for _, x := range v {
		*b = append(*b, byte(x>>8), byte(x))
	}
	return b
}

func (b *fontBytes) i16(v ...int16) *fontBytes {
	for _, x := range v {
		b.u16(uint16(x))
	}
	return b
}

func (b *fontBytes) u32(v ...uint32) *fontBytes {
	for _, x := range v {
		*b = append(*b, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	}
	return b
}

func (b *fontBytes) tag(s string) *fontBytes {
	return b.u32(uint32(T(s)))
}

func (b *fontBytes) bytes() []byte {
	return []byte(*b)
}

// buildFont assembles an sfnt file with TrueType outlines from raw tables.
// Table records are sorted by tag, table data is 4-byte aligned.
func buildFont(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return T(tags[i]) < T(tags[j]) })
	var font fontBytes
	font.u32(fontTypeTrueType).u16(uint16(len(tags)), 0, 0, 0)
	offset := uint32(offsetTableSize + directoryEntrySize*len(tags))
	var data fontBytes
	for _, tag := range tags {
		t := tables[tag]
		font.tag(tag).u32(0, offset+uint32(len(data)), uint32(len(t)))
		data = append(data, t...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
	}
	return append(font, data...)
}

func headTable(unitsPerEm uint16, locFormat int16) []byte {
	var b fontBytes
	b.u16(1, 0).u32(0x00010000, 0, headMagicNumber)
	b.u16(0, unitsPerEm).u32(0, 0, 0, 0) // flags, upem, created, modified
	b.i16(0, -200, 1000, 800)            // bounding box
	b.u16(0, 8).i16(2, locFormat, 0)
	return b.bytes()
}

func maxpTable(numGlyphs uint16) []byte {
	var b fontBytes
	b.u32(0x00005000).u16(numGlyphs)
	return b.bytes()
}

func hheaTable(numberOfHMetrics uint16) []byte {
	var b fontBytes
	b.u16(1, 0).i16(800, -200, 0).u16(1000)
	b.i16(0, 0, 1000, 1, 0, 0)
	b.u16(0, 0, 0, 0).i16(0).u16(numberOfHMetrics)
	return b.bytes()
}

// testGlyphs returns a 'glyf' table with
//
//	glyph 0: empty
//	glyph 1: a simple glyph with 1 contour of 3 points
//	glyph 2: a composite of glyph 1, shifted by (100, 0)
//
// and the matching long 'loca' offsets.
func testGlyphs() (glyf []byte, loca []uint32) {
	var simple fontBytes
	simple.i16(1, 0, 0, 100, 100) // 1 contour, bounds
	simple.u16(2, 0)              // endPtsOfContours, no instructions
	// flags: on curve, x and y short and positive
	simple.u8(0x37, 0x37, 0x37)
	simple.u8(0, 100, 0) // x: 0, 100, 100
	simple.u8(0, 0, 100) // y: 0, 0, 100
	for len(simple)%2 != 0 {
		simple.u8(0)
	}
	var composite fontBytes
	composite.i16(-1, 100, 0, 200, 100)
	composite.u16(ArgsAreXYValues|Arg1And2AreWords, 1).i16(100, 0)
	loca = []uint32{0, 0, uint32(len(simple)), uint32(len(simple) + len(composite))}
	return append(simple.bytes(), composite...), loca
}

func locaTable(offsets []uint32) []byte {
	var b fontBytes
	b.u32(offsets...)
	return b.bytes()
}

// cmapTable returns a 'cmap' table with a single format 4 sub-table for
// platform 3, encoding 1, mapping 'A'…'B' to glyphs 1…2.
func cmapTable() []byte {
	var b fontBytes
	b.u16(0, 1)         // version, numTables
	b.u16(3, 1).u32(12) // encoding record
	b.u16(4, 32, 0)     // format, length, language
	b.u16(4, 0, 0, 0)   // segCountX2, search parameters
	b.u16(0x42, 0xffff) // end codes
	b.u16(0)            // reserved pad
	b.u16(0x41, 0xffff) // start codes
	b.i16(-0x40, 1)     // deltas
	b.u16(0, 0)         // range offsets
	return b.bytes()
}

// testFont returns a minimal TrueType font with 3 glyphs.
func testFont() []byte {
	glyf, loca := testGlyphs()
	var hmtx fontBytes
	hmtx.u16(500).i16(0).u16(600).i16(0).i16(100) // 2 long metrics, 1 lsb
	return buildFont(map[string][]byte{
		"head": headTable(1000, 1),
		"maxp": maxpTable(3),
		"hhea": hheaTable(2),
		"hmtx": hmtx.bytes(),
		"loca": locaTable(loca),
		"glyf": glyf,
		"cmap": cmapTable(),
	})
}
