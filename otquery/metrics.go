package otquery

import (
	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, DFLT will be returned. If the script has no support in the font,
// DFLT will be returned for the script.
func FontSupportsScript(otf *ot.Font, scr ot.Tag, lang ot.Tag) (ot.Tag, ot.Tag) {
	if otf == nil {
		return 0, 0
	}
	gsub := otf.Layout.GSub
	if gsub == nil {
		return ot.DFLT, ot.DFLT
	}
	script := gsub.ScriptList.Script(scr)
	if script == nil {
		tracer().Infof("cannot find script %s in font", scr.String())
		return ot.DFLT, ot.DFLT
	}
	tracer().Debugf("script %s is contained in GSUB", scr.String())
	if script.LangSys(lang) != nil {
		return scr, lang
	}
	return scr, ot.DFLT
}

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if hhea := otf.HHea; hhea != nil {
		metrics.Ascent = sfnt.Units(hhea.Ascender)
		metrics.Descent = sfnt.Units(hhea.Descender)
		metrics.LineGap = sfnt.Units(hhea.LineGap)
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	}
	if os2 := otf.OS2; os2 != nil {
		if metrics.Ascent == 0 && metrics.Descent == 0 {
			tracer().Debugf("no vertical metrics in hhea, using OS/2")
			metrics.Ascent = sfnt.Units(os2.TypoAscender)
			metrics.Descent = sfnt.Units(os2.TypoDescender)
			metrics.LineGap = sfnt.Units(os2.TypoLineGap)
		}
		metrics.XHeight = sfnt.Units(os2.XHeight)
		metrics.CapHeight = sfnt.Units(os2.CapHeight)
	}
	if otf.Head != nil {
		metrics.UnitsPerEm = sfnt.Units(otf.Head.UnitsPerEm)
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf == nil {
		return 0
	}
	return otf.CMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points of the Unicode BMP (and, for
// fonts with a format 12 cmap, of all planes) are checked sequentially if they
// produce the given glyph. If the glyph index does not correspond to a code-point,
// 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf == nil {
		return 0
	}
	cmap, ok := otf.CMap.UnicodeSubtable().Unwrap()
	if !ok {
		return 0
	}
	last := rune(0xffff)
	if cmap.Format() == 12 {
		last = 0x10ffff
	}
	for r := rune(1); r <= last; r++ {
		if cmap.Lookup(uint32(r)) == gid {
			return r
		}
	}
	return 0
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf == nil {
		return metrics
	}
	//
	// table hmtx: advance width and left side bearing
	if m, ok := otf.HMtx.Metrics(gid); ok {
		metrics.Advance = sfnt.Units(m.AdvanceWidth)
		metrics.LSB = sfnt.Units(m.LeftSideBearing)
	}
	//
	// table glyf: bounding box
	if g, ok := otf.Glyf.Glyph(gid).Unwrap(); ok {
		b := g.Bounds()
		metrics.BBox = BoundingBox{
			MinX: sfnt.Units(b.XMin),
			MinY: sfnt.Units(b.YMin),
			MaxX: sfnt.Units(b.XMax),
			MaxY: sfnt.Units(b.YMax),
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType specification:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.IsEmpty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// GlyphOutline summarizes the outline of a glyph, either from table 'glyf' or
// from table 'CFF '. For CFF outlines, contours and points are not counted.
func GlyphOutline(otf *ot.Font, gid ot.GlyphIndex) GlyphOutlineInfo {
	info := GlyphOutlineInfo{}
	if otf == nil {
		return info
	}
	if g, ok := otf.Glyf.Glyph(gid).Unwrap(); ok {
		info.Outlines = "glyf"
		info.Composite = g.IsComposite()
		info.Contours = g.ContourCount()
		info.Points = g.PointCount()
		info.Instructions = len(g.Instructions())
		if cg, ok := g.(*ot.CompositeGlyph); ok {
			for _, comp := range cg.Components {
				info.Components = append(info.Components, comp.GlyphIndex)
			}
		}
		return info
	}
	if cs, ok := otf.CFF.Charstring(gid).Unwrap(); ok {
		info.Outlines = "CFF"
		instrs, err := cs.Disassemble()
		if err != nil {
			tracer().Errorf("charstring of glyph %d: %v", gid, err)
		}
		info.Instructions = len(instrs)
	}
	return info
}
