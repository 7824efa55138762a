package ot

import "fmt"

// Predefined charsets, selected by a Top DICT charset offset of 0, 1 or 2.
const (
	CharsetISOAdobe = iota
	CharsetExpert
	CharsetExpertSubset
)

// cffSIDRanges expands inclusive SID ranges, given as pairs, into a flat list.
func cffSIDRanges(ranges ...uint16) []uint16 {
	var sids []uint16
	for i := 0; i+1 < len(ranges); i += 2 {
		for sid := ranges[i]; sid <= ranges[i+1]; sid++ {
			sids = append(sids, sid)
		}
	}
	return sids
}

var cffExpertCharset = cffSIDRanges(
	0, 1, 229, 238, 13, 15, 99, 99, 239, 248, 27, 28, 249, 266, 109, 110,
	267, 318, 158, 158, 155, 155, 163, 163, 319, 326, 150, 150, 164, 164,
	169, 169, 327, 378,
)

var cffExpertSubsetCharset = cffSIDRanges(
	0, 1, 231, 232, 235, 238, 13, 15, 99, 99, 239, 248, 27, 28, 249, 251,
	253, 266, 109, 110, 267, 270, 272, 272, 300, 302, 305, 305, 314, 315,
	158, 158, 155, 155, 163, 163, 320, 326, 150, 150, 164, 164, 169, 169,
	327, 346,
)

// parseCFFCharset decodes the charset of a CFF font with numGlyphs glyphs.
// The result maps glyph indices to SIDs (or CIDs for CID-keyed fonts).
// Glyph 0 is always .notdef.
func parseCFFCharset(b binarySegm, offset, numGlyphs int) ([]uint16, error) {
	if numGlyphs <= 0 {
		return nil, nil
	}
	var predefined []uint16
	switch offset {
	case CharsetISOAdobe:
		predefined = cffSIDRanges(0, 228)
	case CharsetExpert:
		predefined = cffExpertCharset
	case CharsetExpertSubset:
		predefined = cffExpertSubsetCharset
	}
	if predefined != nil {
		if numGlyphs > len(predefined) {
			return nil, errFontFormat("predefined CFF charset %d has %d glyphs, font has %d",
				offset, len(predefined), numGlyphs)
		}
		return append([]uint16(nil), predefined[:numGlyphs]...), nil
	}
	c, err := b.cursor(offset)
	if err != nil {
		return nil, err
	}
	format, err := c.U8()
	if err != nil {
		return nil, err
	}
	charset := make([]uint16, 1, numGlyphs)
	switch format {
	case 0:
		for len(charset) < numGlyphs {
			sid, err := c.U16()
			if err != nil {
				return nil, fmt.Errorf("CFF charset format 0: %w", err)
			}
			charset = append(charset, sid)
		}
	case 1, 2:
		for len(charset) < numGlyphs {
			first, err := c.U16()
			if err != nil {
				return nil, fmt.Errorf("CFF charset format %d: %w", format, err)
			}
			var nLeft int
			if format == 1 {
				n, err := c.U8()
				if err != nil {
					return nil, fmt.Errorf("CFF charset format 1: %w", err)
				}
				nLeft = int(n)
			} else {
				n, err := c.U16()
				if err != nil {
					return nil, fmt.Errorf("CFF charset format 2: %w", err)
				}
				nLeft = int(n)
			}
			for i := 0; i <= nLeft && len(charset) < numGlyphs; i++ {
				charset = append(charset, first+uint16(i))
			}
		}
	default:
		return nil, errFontFormat("CFF charset format %d", format)
	}
	return charset, nil
}

// GlyphName returns the name of a glyph as given by the font's charset.
// CID-keyed fonts have no glyph names.
func (t *CFFTable) GlyphName(gid GlyphIndex) Option[string] {
	if t == nil || t.TopDict.IsCIDFont || int(gid) >= len(t.Charset) {
		return None[string]()
	}
	return t.String(int(t.Charset[gid]))
}
