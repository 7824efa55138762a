package ot

import (
	"fmt"
	"iter"

	"github.com/bits-and-blooms/bitset"
)

// OpenType layout tables (GSUB, and in principle GPOS) share a common
// structure: a ScriptList selects a LangSys, which indexes into a FeatureList;
// features point to lookups in a LookupList.
//
// The types in this file are semantic containers for this graph. Record-level
// offsets are resolved at parse time and are not part of the API.

// LayoutTableLookupFlag is a flag type for layout lookups.
type LayoutTableLookupFlag uint16

// Lookup flags of layout tables (GPOS and GSUB)
const (
	LookupRightToLeft            LayoutTableLookupFlag = 0x0001
	LookupIgnoreBaseGlyphs       LayoutTableLookupFlag = 0x0002 // skips over base glyphs
	LookupIgnoreLigatures        LayoutTableLookupFlag = 0x0004 // skips over ligatures
	LookupIgnoreMarks            LayoutTableLookupFlag = 0x0008 // skips over all combining marks
	LookupUseMarkFilteringSet    LayoutTableLookupFlag = 0x0010 // lookup table is followed by a MarkFilteringSet field
	LookupMarkAttachmentTypeMask LayoutTableLookupFlag = 0xFF00
)

// --- Script list -----------------------------------------------------------

// ScriptList is the list of scripts supported by a layout table, in
// declaration order.
type ScriptList struct {
	scripts []*Script
}

// Script is one OpenType Script table together with its language systems.
type Script struct {
	Tag            Tag
	defaultLangSys *LangSys
	langSystems    []*LangSys
}

// LangSys is a language system of a script. It selects features from the
// FeatureList by index.
type LangSys struct {
	Tag                  Tag
	requiredFeatureIndex uint16 // 0xFFFF means no required feature
	FeatureIndices       []uint16
	indexed              *bitset.BitSet
}

// Len returns the number of scripts in the list.
func (sl *ScriptList) Len() int {
	if sl == nil {
		return 0
	}
	return len(sl.scripts)
}

// Script returns the script for tag, or nil.
func (sl *ScriptList) Script(tag Tag) *Script {
	if sl == nil {
		return nil
	}
	for _, s := range sl.scripts {
		if s.Tag == tag {
			return s
		}
	}
	return nil
}

// Range iterates scripts in declaration order.
func (sl *ScriptList) Range() iter.Seq2[Tag, *Script] {
	return func(yield func(Tag, *Script) bool) {
		if sl == nil {
			return
		}
		for _, s := range sl.scripts {
			if !yield(s.Tag, s) {
				return
			}
		}
	}
}

// DefaultLangSys returns the default language system of a script, or nil.
func (s *Script) DefaultLangSys() *LangSys {
	if s == nil {
		return nil
	}
	return s.defaultLangSys
}

// LangSys returns a language system by tag. DFLT selects the default
// language system.
func (s *Script) LangSys(tag Tag) *LangSys {
	if s == nil {
		return nil
	}
	if tag == DFLT {
		return s.defaultLangSys
	}
	for _, ls := range s.langSystems {
		if ls.Tag == tag {
			return ls
		}
	}
	return nil
}

// Range iterates the non-default language systems in declaration order.
func (s *Script) Range() iter.Seq2[Tag, *LangSys] {
	return func(yield func(Tag, *LangSys) bool) {
		if s == nil {
			return
		}
		for _, ls := range s.langSystems {
			if !yield(ls.Tag, ls) {
				return
			}
		}
	}
}

// RequiredFeatureIndex returns the required-feature index and whether it is set.
func (ls *LangSys) RequiredFeatureIndex() (uint16, bool) {
	if ls == nil || ls.requiredFeatureIndex == 0xffff {
		return 0, false
	}
	return ls.requiredFeatureIndex, true
}

// IsFeatureIndexed reports whether the language system refers to the
// feature at index i of the FeatureList, either as required feature or
// through its feature indices.
func (ls *LangSys) IsFeatureIndexed(i int) bool {
	if ls == nil || ls.indexed == nil || i < 0 {
		return false
	}
	return ls.indexed.Test(uint(i))
}

// --- Feature list ----------------------------------------------------------

// FeatureList is the list of features of a layout table. Feature tags need
// not be unique.
type FeatureList struct {
	features []*Feature
}

// Feature is one OpenType Feature table.
type Feature struct {
	Tag           Tag
	Index         int      // index in the FeatureList
	LookupIndices []uint16 // indices into the LookupList
}

// Len returns the number of features in the list.
func (fl *FeatureList) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.features)
}

// Feature returns the feature at index i, or nil.
func (fl *FeatureList) Feature(i int) *Feature {
	if fl == nil || i < 0 || i >= len(fl.features) {
		return nil
	}
	return fl.features[i]
}

// Range iterates features in list order, by index.
func (fl *FeatureList) Range() iter.Seq2[int, *Feature] {
	return func(yield func(int, *Feature) bool) {
		if fl == nil {
			return
		}
		for i, f := range fl.features {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Find returns the first feature with tag which is indexed by language
// system ls. With ls == nil every feature of the list qualifies.
func (fl *FeatureList) Find(ls *LangSys, tag Tag) Option[*Feature] {
	if fl == nil {
		return None[*Feature]()
	}
	for i, f := range fl.features {
		if f.Tag != tag {
			continue
		}
		if ls == nil || ls.IsFeatureIndexed(i) {
			return Some(f)
		}
	}
	return None[*Feature]()
}

// --- Lookup list -----------------------------------------------------------

// LookupList is the list of lookups of a layout table.
type LookupList struct {
	lookups []*Lookup
}

// Lookup is a lookup table. Subtables of lookup types this package does not
// decode are represented as nil entries.
type Lookup struct {
	Type             uint16
	Flag             LayoutTableLookupFlag
	MarkFilteringSet uint16
	Subtables        []LookupSubtable
}

// LookupSubtable is implemented by the decoded lookup subtable types.
type LookupSubtable interface {
	LookupType() uint16
	Format() uint16
	Coverage() Coverage
}

// Len returns the number of lookups in the list.
func (ll *LookupList) Len() int {
	if ll == nil {
		return 0
	}
	return len(ll.lookups)
}

// Lookup returns the lookup at index i, or nil.
func (ll *LookupList) Lookup(i int) *Lookup {
	if ll == nil || i < 0 || i >= len(ll.lookups) {
		return nil
	}
	return ll.lookups[i]
}

// Range iterates lookups in list order, by index.
func (ll *LookupList) Range() iter.Seq2[int, *Lookup] {
	return func(yield func(int, *Lookup) bool) {
		if ll == nil {
			return
		}
		for i, l := range ll.lookups {
			if !yield(i, l) {
				return
			}
		}
	}
}

// --- Coverage --------------------------------------------------------------

// Coverage denotes an indexed set of glyphs.
// Each lookup subtable references a Coverage table, which specifies all the
// glyphs affected by a substitution or positioning operation described in
// the subtable. If a glyph does not appear in a Coverage table, the client
// can skip that subtable.
type Coverage struct {
	Format uint16
	Glyphs []GlyphIndex    // format 1: sorted glyph array
	Ranges []CoverageRange // format 2
}

// CoverageRange is a range record of a format 2 coverage table.
type CoverageRange struct {
	Start, End         GlyphIndex
	StartCoverageIndex uint16
}

// Match returns the coverage index for a glyph, and true if present.
func (cov Coverage) Match(g GlyphIndex) (int, bool) {
	switch cov.Format {
	case 1:
		lo, hi := 0, len(cov.Glyphs)
		for lo < hi {
			mid := (lo + hi) / 2
			switch {
			case cov.Glyphs[mid] == g:
				return mid, true
			case cov.Glyphs[mid] < g:
				lo = mid + 1
			default:
				hi = mid
			}
		}
	case 2:
		for _, r := range cov.Ranges {
			if g >= r.Start && g <= r.End {
				return int(r.StartCoverageIndex) + int(g-r.Start), true
			}
		}
	}
	return 0, false
}

// Contains reports whether a glyph is present in the coverage.
func (cov Coverage) Contains(g GlyphIndex) bool {
	_, ok := cov.Match(g)
	return ok
}

func parseCoverage(b binarySegm) (Coverage, error) {
	cov := Coverage{}
	c := NewCursor(b)
	var err error
	if cov.Format, err = c.U16(); err != nil {
		return cov, err
	}
	count, err := c.U16()
	if err != nil {
		return cov, err
	}
	tracer().Debugf("coverage format = %d, count = %d", cov.Format, count)
	switch cov.Format {
	case 1:
		gids, err := readU16s(c, int(count))
		if err != nil {
			return cov, fmt.Errorf("coverage glyph array: %w", err)
		}
		cov.Glyphs = make([]GlyphIndex, len(gids))
		for i, g := range gids {
			cov.Glyphs[i] = GlyphIndex(g)
		}
	case 2:
		recs, err := readU16s(c, 3*int(count))
		if err != nil {
			return cov, fmt.Errorf("coverage range records: %w", err)
		}
		cov.Ranges = make([]CoverageRange, count)
		for i := range cov.Ranges {
			r := CoverageRange{
				Start:              GlyphIndex(recs[3*i]),
				End:                GlyphIndex(recs[3*i+1]),
				StartCoverageIndex: recs[3*i+2],
			}
			if r.End < r.Start {
				return cov, errFontFormat("coverage range %d: end %d before start %d", i, r.End, r.Start)
			}
			cov.Ranges[i] = r
		}
	default:
		return cov, errFontFormat("coverage format %d", cov.Format)
	}
	return cov, nil
}

// --- Parsing the layout graph ----------------------------------------------

// tagOffsetRecord is a ScriptRecord, LangSysRecord or FeatureRecord.
type tagOffsetRecord struct {
	tag    Tag
	offset uint16
}

func readTagOffsetRecords(c *Cursor, limit int, what string) ([]tagOffsetRecord, error) {
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if int(n) > limit {
		return nil, errFontFormat("%s with %d records", what, n)
	}
	recs := make([]tagOffsetRecord, n)
	for i := range recs {
		if recs[i].tag, err = c.Tag(); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", what, i, err)
		}
		if recs[i].offset, err = c.U16(); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", what, i, err)
		}
	}
	return recs, nil
}

func parseScriptList(b binarySegm, numFeatures int) (*ScriptList, error) {
	recs, err := readTagOffsetRecords(NewCursor(b), MaxScriptCount, "ScriptList")
	if err != nil {
		return nil, err
	}
	sl := &ScriptList{scripts: make([]*Script, 0, len(recs))}
	for _, rec := range recs {
		sb, err := b.from(int(rec.offset))
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", rec.tag, err)
		}
		s, err := parseScript(sb, rec.tag, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", rec.tag, err)
		}
		sl.scripts = append(sl.scripts, s)
	}
	return sl, nil
}

func parseScript(b binarySegm, tag Tag, numFeatures int) (*Script, error) {
	s := &Script{Tag: tag}
	c := NewCursor(b)
	dflt, err := c.U16()
	if err != nil {
		return nil, err
	}
	recs, err := readTagOffsetRecords(c, MaxLangSysCount, "Script")
	if err != nil {
		return nil, err
	}
	if dflt != 0 {
		lb, err := b.from(int(dflt))
		if err != nil {
			return nil, err
		}
		if s.defaultLangSys, err = parseLangSys(lb, DFLT, numFeatures); err != nil {
			return nil, fmt.Errorf("default language system: %w", err)
		}
	}
	s.langSystems = make([]*LangSys, 0, len(recs))
	for _, rec := range recs {
		lb, err := b.from(int(rec.offset))
		if err != nil {
			return nil, fmt.Errorf("language system %s: %w", rec.tag, err)
		}
		ls, err := parseLangSys(lb, rec.tag, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("language system %s: %w", rec.tag, err)
		}
		s.langSystems = append(s.langSystems, ls)
	}
	return s, nil
}

func parseLangSys(b binarySegm, tag Tag, numFeatures int) (*LangSys, error) {
	ls := &LangSys{Tag: tag}
	c := NewCursor(b)
	if err := c.Skip(2); err != nil { // lookupOrderOffset is reserved
		return nil, err
	}
	var err error
	if ls.requiredFeatureIndex, err = c.U16(); err != nil {
		return nil, err
	}
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if int(n) > MaxFeatureCount {
		return nil, errFontFormat("language system with %d feature indices", n)
	}
	if ls.FeatureIndices, err = readU16s(c, int(n)); err != nil {
		return nil, err
	}
	ls.indexed = bitset.New(uint(numFeatures))
	for _, i := range ls.FeatureIndices {
		if int(i) >= numFeatures {
			return nil, fmt.Errorf("feature index %d of %d: %w", i, numFeatures, ErrOutOfRange)
		}
		ls.indexed.Set(uint(i))
	}
	if i, ok := ls.RequiredFeatureIndex(); ok && int(i) < numFeatures {
		ls.indexed.Set(uint(i))
	}
	return ls, nil
}

func parseFeatureList(b binarySegm) (*FeatureList, error) {
	recs, err := readTagOffsetRecords(NewCursor(b), MaxFeatureCount, "FeatureList")
	if err != nil {
		return nil, err
	}
	fl := &FeatureList{features: make([]*Feature, len(recs))}
	for i, rec := range recs {
		c, err := b.cursor(int(rec.offset))
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, rec.tag, err)
		}
		f := &Feature{Tag: rec.tag, Index: i}
		if err = c.Skip(2); err != nil { // featureParamsOffset
			return nil, fmt.Errorf("feature %d (%s): %w", i, rec.tag, err)
		}
		n, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, rec.tag, err)
		}
		if f.LookupIndices, err = readU16s(c, int(n)); err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, rec.tag, err)
		}
		fl.features[i] = f
	}
	return fl, nil
}

// subtableFactory decodes a lookup subtable of a given lookup type. It
// returns nil for lookup types it does not support.
type subtableFactory func(lookupType uint16, b binarySegm) (LookupSubtable, error)

func parseLookupList(b binarySegm, factory subtableFactory) (*LookupList, error) {
	c := NewCursor(b)
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if int(n) > MaxLookupCount {
		return nil, errFontFormat("LookupList with %d lookups", n)
	}
	offsets, err := readU16s(c, int(n))
	if err != nil {
		return nil, err
	}
	ll := &LookupList{lookups: make([]*Lookup, n)}
	for i, off := range offsets {
		lb, err := b.from(int(off))
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		if ll.lookups[i], err = parseLookup(lb, factory); err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
	}
	return ll, nil
}

func parseLookup(b binarySegm, factory subtableFactory) (*Lookup, error) {
	c := NewCursor(b)
	l := &Lookup{}
	var err error
	if l.Type, err = c.U16(); err != nil {
		return nil, err
	}
	flag, err := c.U16()
	if err != nil {
		return nil, err
	}
	l.Flag = LayoutTableLookupFlag(flag)
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if int(n) > MaxSubtableCount {
		return nil, errFontFormat("lookup with %d subtables", n)
	}
	offsets, err := readU16s(c, int(n))
	if err != nil {
		return nil, err
	}
	if l.Flag&LookupUseMarkFilteringSet != 0 {
		if l.MarkFilteringSet, err = c.U16(); err != nil {
			return nil, err
		}
	}
	l.Subtables = make([]LookupSubtable, n)
	for i, off := range offsets {
		sb, err := b.from(int(off))
		if err != nil {
			return nil, fmt.Errorf("subtable %d: %w", i, err)
		}
		if l.Subtables[i], err = factory(l.Type, sb); err != nil {
			return nil, fmt.Errorf("subtable %d: %w", i, err)
		}
	}
	return l, nil
}
