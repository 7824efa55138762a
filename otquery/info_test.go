package otquery

import (
	"testing"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
	ref *sfnt.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.otquery")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("font.opentype").SetTraceLevel(tracing.LevelError)
	var err error
	env.otf, err = ot.Parse(goregular.TTF)
	env.Require().NoError(err, "cannot parse Go Regular")
	env.ref, err = sfnt.Parse(goregular.TTF)
	env.Require().NoError(err, "reference decoder cannot parse Go Regular")
}

// run once, after test suite methods
func (env *InfoTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	env.Equal("TrueType", FontType(env.otf), "expected font type of test font to be TrueType")
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.otf)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font family identifier not found in font info")
	env.Equal("Go", fam, "expected font family name 'Go'")
	env.Equal("Regular", info["subfamily"])
	//
	var buf sfnt.Buffer
	n := 0
	for id, value := range NamesRange(env.otf) {
		n++
		if id == sfnt.NameIDFull {
			full, err := env.ref.Name(&buf, sfnt.NameIDFull)
			env.Require().NoError(err)
			env.Equal(full, value)
		}
	}
	env.Positive(n, "expected name records")
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(env.ref.UnitsPerEm(), h.UnitsPerEm, "expected matching UnitsPerEm")
	env.Equal(env.otf.Head.IndexToLocFormat, h.IndexToLocFormat)
	env.Equal("1.0", h.Version)
	env.False(h.Modified.Before(h.Created), "created %v, modified %v", h.Created, h.Modified)
	env.False(h.BBox.IsEmpty())
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(env.ref.NumGlyphs(), m.NumGlyphs, "expected matching numGlyphs")
	env.True(m.HasExtendedProfile, "TrueType fonts have maxp version 1.0")
	env.Positive(m.MaxPoints)
}

func (env *InfoTestEnviron) TestLayoutInfo() {
	layouts := LayoutTables(env.otf)
	env.T().Logf("test font layout tables: %v", layouts)
	for _, table := range layouts {
		env.Contains([]string{"GSUB", "GPOS", "GDEF", "BASE", "JSTF"}, table)
	}
	scr, lang := FontSupportsScript(env.otf, ot.T("xxxx"), ot.T("DEU "))
	env.Equal(ot.DFLT, scr)
	env.Equal(ot.DFLT, lang)
	if gsub := env.otf.Layout.GSub; gsub != nil {
		for tag, script := range gsub.ScriptList.Range() {
			scr, lang = FontSupportsScript(env.otf, tag, ot.T("xxxx"))
			env.Equal(tag, scr)
			env.Equal(ot.DFLT, lang)
			for lstag := range script.Range() {
				_, lang = FontSupportsScript(env.otf, tag, lstag)
				env.Equal(lstag, lang)
			}
		}
	}
}

func (env *InfoTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.otf)
	env.Equal(env.ref.UnitsPerEm(), m.UnitsPerEm)
	env.Positive(int(m.Ascent))
	env.Negative(int(m.Descent))
	env.Positive(int(m.MaxAdvance))
}

func (env *InfoTestEnviron) TestGlyphs() {
	var buf sfnt.Buffer
	x, err := env.ref.GlyphIndex(&buf, 'A')
	env.Require().NoError(err)
	gid := GlyphIndex(env.otf, 'A')
	env.Equal(uint16(x), uint16(gid))
	env.Equal('A', CodePointForGlyph(env.otf, gid))
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0))
	//
	m := GlyphMetrics(env.otf, gid)
	upem := fixed.I(int(env.otf.Head.UnitsPerEm))
	adv, err := env.ref.GlyphAdvance(&buf, x, upem, font.HintingNone)
	env.Require().NoError(err)
	env.Equal(adv.Round(), int(m.Advance))
	env.False(m.BBox.IsEmpty())
	env.Equal(m.Advance-m.LSB-m.BBox.Dx(), m.RSB)
	//
	outline := GlyphOutline(env.otf, gid)
	env.Equal("glyf", outline.Outlines)
	env.False(outline.Composite)
	env.Positive(outline.Points)
	env.Positive(outline.Contours)
	outline = GlyphOutline(env.otf, GlyphIndex(env.otf, 'Ä'))
	if outline.Composite {
		env.NotEmpty(outline.Components)
	}
	env.Equal(GlyphOutlineInfo{}, GlyphOutline(env.otf, ot.GlyphIndex(env.otf.NumGlyphs())))
}

func TestQueriesWithoutFont(t *testing.T) {
	assert.Equal(t, "unknown", FontType(nil))
	assert.Empty(t, NameInfo(nil))
	assert.Equal(t, ot.GlyphIndex(0), GlyphIndex(nil, 'A'))
	assert.Equal(t, FontMetricsInfo{}, FontMetrics(nil))
	assert.Equal(t, GlyphMetricsInfo{}, GlyphMetrics(nil, 1))
	_, ok := HeadInfo(nil)
	assert.False(t, ok)
	_, ok = MaxPInfo(nil)
	assert.False(t, ok)
	assert.Empty(t, LayoutTables(nil))
	for range NamesRange(nil) {
		t.Error("expected no names")
	}
	scr, lang := FontSupportsScript(nil, ot.T("latn"), ot.DFLT)
	assert.Equal(t, ot.Tag(0), scr)
	assert.Equal(t, ot.Tag(0), lang)
}
