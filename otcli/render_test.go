package main

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOutline is a single-contour glyph given by its points.
type testOutline struct {
	xs, ys []int
	on     []bool
}

func (g testOutline) GlyphIndex() ot.GlyphIndex { return 1 }
func (g testOutline) IsComposite() bool         { return false }
func (g testOutline) PointCount() int           { return len(g.xs) }
func (g testOutline) ContourCount() int         { return 1 }
func (g testOutline) EndPtOfContours(int) int   { return len(g.xs) - 1 }
func (g testOutline) X(i int) int               { return g.xs[i] }
func (g testOutline) Y(i int) int               { return g.ys[i] }
func (g testOutline) Instructions() []byte      { return nil }
func (g testOutline) Bounds() ot.GlyphBounds    { return ot.GlyphBounds{} }
func (g testOutline) Flags(i int) uint8 {
	if g.on[i] {
		return ot.GlyphOnCurve
	}
	return 0
}

func TestGlyphSegments(t *testing.T) {
	// triangle with a curved right edge
	g := testOutline{
		xs: []int{0, 100, 0},
		ys: []int{0, 50, 100},
		on: []bool{true, false, true},
	}
	segs := glyphSegments(g)
	require.Len(t, segs, 3)
	assert.Equal(t, segMoveTo, segs[0].op)
	assert.Equal(t, outlinePoint{0, 0}, segs[0].pts[0])
	assert.Equal(t, segQuadTo, segs[1].op)
	assert.Equal(t, []outlinePoint{{100, 50}, {0, 100}}, segs[1].pts)
	assert.Equal(t, segLineTo, segs[2].op)
	assert.Equal(t, outlinePoint{0, 0}, segs[2].pts[0], "contour is closed")
	//
	// all points off curve: start between first and second point
	g = testOutline{
		xs: []int{0, 100, 100, 0},
		ys: []int{0, 0, 100, 100},
		on: []bool{false, false, false, false},
	}
	segs = glyphSegments(g)
	require.Len(t, segs, 6)
	assert.Equal(t, outlinePoint{50, 0}, segs[0].pts[0])
	assert.Equal(t, []outlinePoint{{100, 0}, {100, 50}}, segs[1].pts)
	assert.Equal(t, []outlinePoint{{0, 0}, {50, 0}}, segs[5].pts, "back to the start")
}

func TestRenderGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.otcli")
	defer teardown()
	//
	intp := &Intp{}
	require.NoError(t, intp.loadFont("", 0))
	gid := otquery.GlyphIndex(intp.font, 'O')
	require.NotZero(t, gid)
	img, err := intp.renderGlyph(gid, 100, 100, 64)
	require.NoError(t, err)
	black, red := 0, 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			switch c := img.RGBAAt(x, y); c {
			case color.RGBA{255, 0, 0, 255}:
				red++
			default:
				if c.R < 128 && c.G < 128 {
					black++
				}
			}
		}
	}
	assert.Positive(t, black, "outline is filled")
	assert.Positive(t, red, "bounding box is drawn")
	c := img.RGBAAt(50, 50)
	assert.Greater(t, int(c.G), 128, "the inner contour of 'O' stays white")
	//
	out := filepath.Join(t.TempDir(), "O.png")
	cmd, _ := intp.parseCommand("render:" + strconv.Itoa(int(gid)) + ":" + out)
	err, _ = intp.execute(cmd)
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
