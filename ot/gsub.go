package ot

import (
	"fmt"
)

// GSUB lookup types
const (
	GSubLookupTypeSingle          uint16 = 1
	GSubLookupTypeMultiple        uint16 = 2
	GSubLookupTypeAlternate       uint16 = 3
	GSubLookupTypeLigature        uint16 = 4
	GSubLookupTypeContext         uint16 = 5
	GSubLookupTypeChainingContext uint16 = 6
	GSubLookupTypeExtensionSubs   uint16 = 7
	GSubLookupTypeReverseChaining uint16 = 8
)

// GSubTable is the OpenType Glyph Substitution table. It provides data for
// substitution of glyphs for appropriate rendering of scripts.
//
// Only single substitution (type 1) and ligature substitution (type 4) subtables
// are decoded. Subtables of all other lookup types appear as nil entries in
// their lookup. Extension subtables (type 7) are resolved to the subtable they
// wrap.
type GSubTable struct {
	tableBase
	MajorVersion uint16
	MinorVersion uint16
	ScriptList   *ScriptList
	FeatureList  *FeatureList
	LookupList   *LookupList
}

func parseGSub(e DirectoryEntry, b binarySegm) (*GSubTable, error) {
	t := &GSubTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	var err error
	if t.MajorVersion, err = c.U16(); err != nil {
		return nil, err
	}
	if t.MinorVersion, err = c.U16(); err != nil {
		return nil, err
	}
	if t.MajorVersion != 1 {
		return nil, errFontFormat("GSUB version %d.%d", t.MajorVersion, t.MinorVersion)
	}
	offsets, err := readU16s(c, 3)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("GSUB %d.%d: script list @%d, feature list @%d, lookup list @%d",
		t.MajorVersion, t.MinorVersion, offsets[0], offsets[1], offsets[2])
	// features first: language systems are validated against the feature count
	fb, err := b.from(int(offsets[1]))
	if err != nil {
		return nil, fmt.Errorf("GSUB feature list: %w", err)
	}
	if t.FeatureList, err = parseFeatureList(fb); err != nil {
		return nil, fmt.Errorf("GSUB feature list: %w", err)
	}
	sb, err := b.from(int(offsets[0]))
	if err != nil {
		return nil, fmt.Errorf("GSUB script list: %w", err)
	}
	if t.ScriptList, err = parseScriptList(sb, t.FeatureList.Len()); err != nil {
		return nil, fmt.Errorf("GSUB script list: %w", err)
	}
	lb, err := b.from(int(offsets[2]))
	if err != nil {
		return nil, fmt.Errorf("GSUB lookup list: %w", err)
	}
	if t.LookupList, err = parseLookupList(lb, gsubSubtable); err != nil {
		return nil, fmt.Errorf("GSUB lookup list: %w", err)
	}
	return t, nil
}

// FindFeature returns the first feature with tag that language system ls
// refers to.
func (t *GSubTable) FindFeature(ls *LangSys, tag Tag) Option[*Feature] {
	if t == nil || ls == nil {
		return None[*Feature]()
	}
	return t.FeatureList.Find(ls, tag)
}

// LookupsForFeature returns the lookups of feature f, skipping invalid indices.
func (t *GSubTable) LookupsForFeature(f *Feature) []*Lookup {
	if t == nil || f == nil {
		return nil
	}
	lookups := make([]*Lookup, 0, len(f.LookupIndices))
	for _, i := range f.LookupIndices {
		if l := t.LookupList.Lookup(int(i)); l != nil {
			lookups = append(lookups, l)
		}
	}
	return lookups
}

func gsubSubtable(lookupType uint16, b binarySegm) (LookupSubtable, error) {
	switch lookupType {
	case GSubLookupTypeSingle:
		return parseSingleSubst(b)
	case GSubLookupTypeLigature:
		return parseLigatureSubst(b)
	case GSubLookupTypeExtensionSubs:
		c := NewCursor(b)
		hdr, err := readU16s(c, 2)
		if err != nil {
			return nil, err
		}
		off, err := c.U32()
		if err != nil {
			return nil, err
		}
		if hdr[0] != 1 {
			return nil, errFontFormat("GSUB extension format %d", hdr[0])
		}
		if hdr[1] == GSubLookupTypeExtensionSubs {
			return nil, errFontFormat("GSUB extension subtable wraps another extension")
		}
		if uint64(off) > uint64(len(b)) {
			return nil, fmt.Errorf("GSUB extension offset %d: %w", off, ErrOutOfRange)
		}
		return gsubSubtable(hdr[1], b[off:])
	}
	return nil, nil
}

// --- Single substitution ---------------------------------------------------

// SingleSubst is a GSUB lookup type 1 subtable: it replaces a single glyph with
// another glyph. Format 1 adds a delta to the glyph index, format 2 lists
// substitutes by coverage index.
type SingleSubst struct {
	format       uint16
	coverage     Coverage
	DeltaGlyphID int16
	Substitutes  []GlyphIndex
}

// LookupType is 1.
func (s *SingleSubst) LookupType() uint16 { return GSubLookupTypeSingle }

// Format is 1 or 2.
func (s *SingleSubst) Format() uint16 { return s.format }

// Coverage returns the glyphs this subtable applies to.
func (s *SingleSubst) Coverage() Coverage { return s.coverage }

// Substitute returns the substitute glyph for g, or false if g is not covered.
func (s *SingleSubst) Substitute(g GlyphIndex) (GlyphIndex, bool) {
	inx, ok := s.coverage.Match(g)
	if !ok {
		return 0, false
	}
	if s.format == 1 {
		return GlyphIndex(int(g) + int(s.DeltaGlyphID)), true // modulo 65536
	}
	if inx >= len(s.Substitutes) {
		return 0, false
	}
	return s.Substitutes[inx], true
}

func parseSingleSubst(b binarySegm) (*SingleSubst, error) {
	c := NewCursor(b)
	hdr, err := readU16s(c, 2)
	if err != nil {
		return nil, err
	}
	s := &SingleSubst{format: hdr[0]}
	if s.coverage, err = coverageAt(b, hdr[1]); err != nil {
		return nil, err
	}
	switch s.format {
	case 1:
		if s.DeltaGlyphID, err = c.I16(); err != nil {
			return nil, err
		}
	case 2:
		n, err := c.U16()
		if err != nil {
			return nil, err
		}
		gids, err := readU16s(c, int(n))
		if err != nil {
			return nil, fmt.Errorf("single substitution: %w", err)
		}
		s.Substitutes = make([]GlyphIndex, n)
		for i, g := range gids {
			s.Substitutes[i] = GlyphIndex(g)
		}
	default:
		return nil, errFontFormat("single substitution format %d", s.format)
	}
	return s, nil
}

// --- Ligature substitution -------------------------------------------------

// LigatureSubst is a GSUB lookup type 4 subtable: it replaces a sequence of
// glyphs with a single ligature glyph. LigatureSets are indexed by the coverage
// index of the first glyph of the sequence.
type LigatureSubst struct {
	coverage     Coverage
	LigatureSets [][]Ligature
}

// Ligature is a ligature glyph together with the glyphs it replaces, starting
// with the second one.
type Ligature struct {
	Glyph      GlyphIndex
	Components []GlyphIndex
}

// LookupType is 4.
func (s *LigatureSubst) LookupType() uint16 { return GSubLookupTypeLigature }

// Format is 1.
func (s *LigatureSubst) Format() uint16 { return 1 }

// Coverage returns the glyphs this subtable applies to.
func (s *LigatureSubst) Coverage() Coverage { return s.coverage }

// Substitute matches the ligatures for glyphs[0] against the start of glyphs,
// in order of preference. It returns the ligature glyph and the number of
// glyphs it replaces, or false if no ligature matches.
func (s *LigatureSubst) Substitute(glyphs []GlyphIndex) (GlyphIndex, int, bool) {
	if len(glyphs) == 0 {
		return 0, 0, false
	}
	inx, ok := s.coverage.Match(glyphs[0])
	if !ok || inx >= len(s.LigatureSets) {
		return 0, 0, false
	}
	for _, lig := range s.LigatureSets[inx] {
		if len(lig.Components)+1 > len(glyphs) {
			continue
		}
		match := true
		for i, g := range lig.Components {
			if glyphs[i+1] != g {
				match = false
				break
			}
		}
		if match {
			return lig.Glyph, len(lig.Components) + 1, true
		}
	}
	return 0, 0, false
}

func parseLigatureSubst(b binarySegm) (*LigatureSubst, error) {
	c := NewCursor(b)
	hdr, err := readU16s(c, 3)
	if err != nil {
		return nil, err
	}
	if hdr[0] != 1 {
		return nil, errFontFormat("ligature substitution format %d", hdr[0])
	}
	s := &LigatureSubst{}
	if s.coverage, err = coverageAt(b, hdr[1]); err != nil {
		return nil, err
	}
	setOffsets, err := readU16s(c, int(hdr[2]))
	if err != nil {
		return nil, fmt.Errorf("ligature substitution: %w", err)
	}
	s.LigatureSets = make([][]Ligature, len(setOffsets))
	for i, off := range setOffsets {
		lb, err := b.from(int(off))
		if err != nil {
			return nil, fmt.Errorf("ligature set %d: %w", i, err)
		}
		if s.LigatureSets[i], err = parseLigatureSet(lb); err != nil {
			return nil, fmt.Errorf("ligature set %d: %w", i, err)
		}
	}
	return s, nil
}

func parseLigatureSet(b binarySegm) ([]Ligature, error) {
	c := NewCursor(b)
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	offsets, err := readU16s(c, int(n))
	if err != nil {
		return nil, err
	}
	ligs := make([]Ligature, len(offsets))
	for i, off := range offsets {
		lc, err := b.cursor(int(off))
		if err != nil {
			return nil, err
		}
		hdr, err := readU16s(lc, 2)
		if err != nil {
			return nil, err
		}
		if hdr[1] == 0 {
			return nil, errFontFormat("ligature %d without components", i)
		}
		comps, err := readU16s(lc, int(hdr[1])-1)
		if err != nil {
			return nil, err
		}
		ligs[i] = Ligature{Glyph: GlyphIndex(hdr[0]), Components: make([]GlyphIndex, len(comps))}
		for j, g := range comps {
			ligs[i].Components[j] = GlyphIndex(g)
		}
	}
	return ligs, nil
}

func coverageAt(b binarySegm, offset uint16) (Coverage, error) {
	cb, err := b.from(int(offset))
	if err != nil {
		return Coverage{}, fmt.Errorf("coverage: %w", err)
	}
	return parseCoverage(cb)
}
