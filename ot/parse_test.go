package ot

import (
	"bytes"
	"encoding/binary"
	"testing"

	gotext "github.com/go-text/typesetting/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestTags(t *testing.T) {
	assert.Equal(t, "cmap", Tag(0x636d6170).String())
	assert.Equal(t, T("cmap"), MakeTag([]byte("cmap")))
	assert.Equal(t, "CFF ", T("CFF").String())
	assert.Equal(t, "GSUB", T("GSUBX").String())
	assert.Equal(t, DFLT, T("DFLT"))
}

func TestTableName(t *testing.T) {
	tb := tableBase{entry: DirectoryEntry{Tag: T("cmap")}}
	assert.Equal(t, "cmap", tb.Self().NameTag().String())
	assert.Nil(t, tb.Self().AsCMap(), "table base without decoded table")
}

func TestParseTestFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(testFont(), IsTestfont)
	require.NoError(t, err)
	assert.Empty(t, otf.Errors())
	assert.Empty(t, otf.Warnings())
	assert.Equal(t, 3, otf.NumGlyphs())
	assert.Equal(t, uint16(1000), otf.Head.UnitsPerEm)
	assert.Equal(t, 2, otf.HHea.NumberOfHMetrics)
	assert.Equal(t, int16(800), otf.HHea.Ascender)
	//
	m, ok := otf.HMtx.Metrics(1)
	assert.True(t, ok)
	assert.Equal(t, HMetricRecord{AdvanceWidth: 600}, m)
	m, ok = otf.HMtx.Metrics(2)
	assert.True(t, ok)
	assert.Equal(t, HMetricRecord{AdvanceWidth: 600, LeftSideBearing: 100}, m, "trailing left side bearing")
	_, ok = otf.HMtx.Metrics(3)
	assert.False(t, ok)
	//
	assert.Equal(t, GlyphIndex(1), otf.CMap.Lookup('A'))
	assert.Equal(t, GlyphIndex(2), otf.CMap.Lookup('B'))
	assert.Equal(t, GlyphIndex(0), otf.CMap.Lookup('C'))
	g := otf.Glyf.Glyph(2).MustUnwrap()
	assert.True(t, g.IsComposite())
	//
	assert.Same(t, otf.Glyf, otf.Table(T("glyf")).Self().AsGlyf())
	assert.Nil(t, otf.Table(T("glyf")).Self().AsCMap())
	assert.Nil(t, otf.Table(T("GSUB")))
	assert.Nil(t, otf.Layout.GSub)
	assert.Len(t, otf.TableTags(), 7)
	off, size := otf.Table(T("head")).Extent()
	assert.Equal(t, uint32(54), size)
	assert.Equal(t, headTable(1000, 1), otf.Table(T("head")).Binary())
	assert.NotZero(t, off)
}

func TestParseIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := fullTestFont()
	otf1, err := Parse(font)
	require.NoError(t, err)
	otf2, err := Parse(font)
	require.NoError(t, err)
	assert.NotSame(t, otf1.Glyf, otf2.Glyf)
	assert.Equal(t, otf1, otf2)
}

func TestParseMissingTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(testFont())
	require.NoError(t, err)
	missing := map[Tag]bool{}
	for _, w := range otf.Warnings() {
		missing[w.Table] = true
	}
	assert.Equal(t, map[Tag]bool{T("name"): true, T("OS/2"): true, T("post"): true}, missing)
	//
	_, err = Parse(buildFont(map[string][]byte{
		"head": headTable(1000, 0),
		"cmap": cmapTable(),
	}))
	assert.ErrorIs(t, err, ErrStructure, "font without maxp")
	//
	head := headTable(1000, 0)
	head[12] = 0 // break magic number
	_, err = Parse(buildFont(map[string][]byte{
		"head": head,
		"maxp": maxpTable(1),
	}), IsTestfont)
	assert.ErrorIs(t, err, ErrStructure, "broken head")
}

func TestParseBrokenOptionalTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	glyf, loca := testGlyphs()
	tables := map[string][]byte{
		"head": headTable(1000, 1),
		"maxp": maxpTable(3),
		"loca": locaTable(loca),
		"glyf": glyf,
		"cmap": {0, 0, 0, 1, 0, 3, 0, 1, 0, 0, 1, 0}, // sub-table offset out of range
	}
	otf, err := Parse(buildFont(tables), IsTestfont)
	require.NoError(t, err)
	require.Len(t, otf.Errors(), 1)
	fe := otf.Errors()[0]
	assert.Equal(t, T("cmap"), fe.Table)
	assert.Equal(t, SeverityMajor, fe.Severity)
	assert.ErrorIs(t, fe, ErrOutOfRange)
	assert.Empty(t, otf.CriticalErrors())
	assert.Nil(t, otf.CMap)
	require.NotNil(t, otf.Table(T("cmap")), "kept as generic table")
	assert.Equal(t, GlyphIndex(0), otf.CMap.Lookup('A'))
	assert.NotNil(t, otf.Glyf)
	//
	_, err = Parse(buildFont(tables), IsTestfont, StrictTables)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseBrokenDirectoryRecord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	font := testFont()
	dir, err := ReadTableDirectory(font, 0)
	require.NoError(t, err)
	at := -1
	for i, e := range dir.Entries {
		if e.Tag == T("cmap") {
			at = i
		}
	}
	require.GreaterOrEqual(t, at, 0)
	binary.BigEndian.PutUint32(font[offsetTableSize+directoryEntrySize*at+12:], 0x7fff0000)
	otf, err := Parse(font, IsTestfont)
	require.NoError(t, err)
	require.Len(t, otf.Errors(), 1)
	fe := otf.Errors()[0]
	assert.Equal(t, T("cmap"), fe.Table)
	assert.Equal(t, SeverityMajor, fe.Severity)
	assert.ErrorIs(t, fe, ErrStructure)
	assert.Empty(t, otf.CriticalErrors())
	assert.Nil(t, otf.Table(T("cmap")), "cmap skipped")
	assert.Nil(t, otf.CMap)
	assert.NotNil(t, otf.Glyf)
	assert.NotNil(t, otf.Head)
	//
	_, err = Parse(font, IsTestfont, StrictTables)
	assert.ErrorIs(t, err, ErrStructure)
}

// --- Supplementary tables --------------------------------------------------

func nameTable() []byte {
	var b fontBytes
	b.u16(0, 2, 6+2*12)
	b.u16(3, 1, 0x409, 1, 8, 0) // Windows, family name
	b.u16(1, 0, 0, 4, 8, 8)     // Macintosh, full name
	b.u16('T', 'e', 's', 't')
	b.u8([]byte("Test Mac")...)
	return b.bytes()
}

func postTable() []byte {
	var b fontBytes
	b.u32(0x00020000, 0xfff38000) // version 2.0, italic angle -12.5
	b.i16(-100, 50).u32(0, 0, 0, 0, 0)
	b.u16(3, 0, 36, 258)
	b.u8(6).u8([]byte("custom")...)
	return b.bytes()
}

func kernTable() []byte {
	var b fontBytes
	b.u16(0, 1)
	b.u16(0, 6+8+2*6, 0x0001)
	b.u16(2, 12, 1, 0)
	b.u16(2, 1).i16(-30)
	b.u16(1, 2).i16(-50)
	return b.bytes()
}

func os2Table(version uint16) []byte {
	var b fontBytes
	b.u16(version).i16(500).u16(400, 5, 0)
	b.u16(0, 0, 0, 0, 0, 0, 0, 0) // sub- and superscripts
	b.i16(50, 250, 0)
	b.u8(2, 11, 6, 3, 3, 5, 2, 3, 2, 4)
	b.u32(1, 0, 0, 0).tag("TEST")
	b.u16(0x40, 0x20, 0x7e).i16(800, -200, 0).u16(1000, 200)
	return b.bytes()
}

// fullTestFont is testFont extended by tables name, post, kern, OS/2 and GSUB.
func fullTestFont() []byte {
	glyf, loca := testGlyphs()
	var hmtx fontBytes
	hmtx.u16(500).i16(0).u16(600).i16(0).i16(100)
	return buildFont(map[string][]byte{
		"head": headTable(1000, 1),
		"maxp": maxpTable(3),
		"hhea": hheaTable(2),
		"hmtx": hmtx.bytes(),
		"loca": locaTable(loca),
		"glyf": glyf,
		"cmap": cmapTable(),
		"name": nameTable(),
		"post": postTable(),
		"kern": kernTable(),
		"OS/2": os2Table(0),
		"GSUB": testGSub(),
	})
}

func TestSupplementaryTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(fullTestFont())
	require.NoError(t, err)
	assert.Empty(t, otf.Errors())
	assert.Empty(t, otf.Warnings())
	//
	assert.Equal(t, "Test", otf.Name.Lookup(sfnt.NameIDFamily).MustUnwrap())
	assert.Equal(t, "Test Mac", otf.Name.Lookup(sfnt.NameIDFull).MustUnwrap())
	assert.True(t, otf.Name.Lookup(sfnt.NameIDVersion).IsNone())
	//
	assert.Equal(t, -12.5, otf.Post.ItalicAngle.Float())
	assert.Equal(t, int16(-100), otf.Post.UnderlinePosition)
	assert.Equal(t, ".notdef", otf.Post.GlyphName(0).MustUnwrap())
	assert.Equal(t, "A", otf.Post.GlyphName(1).MustUnwrap())
	assert.Equal(t, "custom", otf.Post.GlyphName(2).MustUnwrap())
	assert.True(t, otf.Post.GlyphName(3).IsNone())
	//
	require.Len(t, otf.Kern.Subtables, 1)
	assert.Equal(t, GlyphIndex(1), otf.Kern.Subtables[0].Pairs[0].Left, "pairs are sorted")
	v, ok := otf.Kern.Value(1, 2)
	assert.True(t, ok)
	assert.Equal(t, int16(-50), v)
	_, ok = otf.Kern.Value(1, 1)
	assert.False(t, ok)
	//
	assert.Equal(t, uint16(400), otf.OS2.WeightClass)
	assert.Equal(t, T("TEST"), otf.OS2.VendorID)
	assert.Equal(t, int16(-200), otf.OS2.TypoDescender)
	assert.Equal(t, uint16(200), otf.OS2.WinDescent)
	//
	require.NotNil(t, otf.Layout.GSub)
	assert.Same(t, otf.Layout.GSub, otf.Table(T("GSUB")).Self().AsGSub())
	//
	_, err = parseOS2(DirectoryEntry{Tag: T("OS/2")}, binarySegm(os2Table(2)))
	assert.ErrorIs(t, err, ErrOutOfRange, "version 2 fields missing")
}

// --- Cross-checks with a real font -----------------------------------------

func TestGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	require.NoError(t, err)
	assert.Empty(t, otf.CriticalErrors())
	ref, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := gotext.ParseTTF(bytes.NewReader(goregular.TTF))
	require.NoError(t, err)
	//
	assert.Equal(t, ref.NumGlyphs(), otf.NumGlyphs())
	assert.Equal(t, int(ref.UnitsPerEm()), int(otf.Head.UnitsPerEm))
	assert.Equal(t, face.Upem(), otf.Head.UnitsPerEm)
	require.NotNil(t, otf.Glyf)
	assert.Equal(t, otf.NumGlyphs(), otf.Glyf.NumGlyphs())
	//
	var buf sfnt.Buffer
	ppem := fixed.I(int(otf.Head.UnitsPerEm))
	for _, r := range "AZaz09&äßé€ﬁЖ" {
		x, err := ref.GlyphIndex(&buf, r)
		require.NoError(t, err)
		gid := otf.CMap.Lookup(r)
		assert.Equal(t, uint16(x), uint16(gid), "glyph index of %q", r)
		y, _ := face.NominalGlyph(r)
		assert.Equal(t, uint32(y), uint32(gid), "glyph index of %q", r)
		if gid == 0 {
			continue
		}
		adv, err := ref.GlyphAdvance(&buf, x, ppem, font.HintingNone)
		require.NoError(t, err)
		m, ok := otf.HMtx.Metrics(gid)
		require.True(t, ok)
		assert.Equal(t, adv.Round(), int(m.AdvanceWidth), "advance of %q", r)
		name, _ := ref.GlyphName(&buf, x)
		if psname, ok := otf.Post.GlyphName(gid).Unwrap(); ok {
			assert.Equal(t, name, psname)
		}
		g := otf.Glyf.Glyph(gid).MustUnwrap()
		assert.Positive(t, g.PointCount(), "points of %q", r)
	}
	//
	family, err := ref.Name(&buf, sfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, family, otf.Name.Lookup(sfnt.NameIDFamily).Or("?"))
}
