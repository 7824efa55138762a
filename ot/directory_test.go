package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testFont()
	dir, err := ReadTableDirectory(font, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), dir.NumTables)
	assert.False(t, dir.HasCFFOutlines())
	assert.Equal(t, []Tag{T("cmap"), T("glyf"), T("head"), T("hhea"), T("hmtx"), T("loca"), T("maxp")},
		dir.Tags())
	e, ok := dir.EntryByTag(T("head")).Unwrap()
	require.True(t, ok)
	assert.Equal(t, uint32(54), e.Length)
	assert.True(t, dir.EntryByTag(T("GSUB")).IsNone())
}

func TestTableDirectoryErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	_, err := ReadTableDirectory([]byte{0, 1, 0, 0, 0}, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ReadTableDirectory([]byte("wOFF0000000000000"), 0)
	assert.ErrorIs(t, err, ErrStructure)
	var short fontBytes
	short.u32(fontTypeTrueType).u16(2, 0, 0, 0).tag("head") // record truncated
	_, err = ReadTableDirectory(short.bytes(), 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	var nilDir *TableDirectory
	assert.True(t, nilDir.EntryByTag(T("head")).IsNone())
}

func TestTableBoundsChecked(t *testing.T) {
	e := DirectoryEntry{Tag: T("glyf"), Offset: 10, Length: 100}
	_, err := e.tableBytes(make([]byte, 50))
	assert.ErrorIs(t, err, ErrStructure)
	e = DirectoryEntry{Tag: T("glyf"), Offset: 0xfffffff0, Length: 0x20}
	_, err = e.tableBytes(make([]byte, 50))
	assert.ErrorIs(t, err, ErrStructure)
}

func TestFontCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	single := testFont()
	var ttc fontBytes
	ttc.tag("ttcf").u16(1, 0).u32(2, 20, 20) // two fonts sharing one table directory
	base := uint32(len(ttc))
	// table offsets of the embedded font are relative to the start of the file
	embedded := append([]byte(nil), single...)
	dir, err := ReadTableDirectory(single, 0)
	require.NoError(t, err)
	for i, e := range dir.Entries {
		p := offsetTableSize + i*directoryEntrySize + 8
		var off fontBytes
		off.u32(e.Offset + base)
		copy(embedded[p:], off)
	}
	font := append(ttc.bytes(), embedded...)
	require.True(t, IsCollection(font))
	offsets, err := CollectionOffsets(font)
	require.NoError(t, err)
	assert.Equal(t, []uint32{20, 20}, offsets)
	otf, err := ParseCollectionFont(font, 1, IsTestfont)
	require.NoError(t, err)
	assert.Equal(t, 3, otf.NumGlyphs())
	_, err = ParseCollectionFont(font, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, IsCollection(single))
}
