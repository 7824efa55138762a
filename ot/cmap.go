package ot

import (
	"fmt"
	"sort"
)

// CMapTable maps character codes to glyph indices.
//
// A cmap table contains one or more encoding records, each of which references a
// sub-table in one of several formats. Different encoding records may reference the
// same sub-table; these records share a single decoded CMapSubtable.
type CMapTable struct {
	tableBase
	Version   uint16
	Encodings []EncodingRecord // in the order of the table
	Subtables []CMapSubtable   // distinct sub-tables, in ascending offset order
	unicode   CMapSubtable     // preferred sub-table for Unicode lookups
}

// EncodingRecord associates a platform and a platform-specific encoding with a sub-table.
type EncodingRecord struct {
	PlatformID PlatformID
	EncodingID uint16
	Offset     uint32 // from the beginning of the cmap table
	Subtable   CMapSubtable
}

// CMapSubtable is a character-to-glyph mapping in one of the cmap formats.
// Lookup never fails: codes which are not mapped return glyph 0 (".notdef").
type CMapSubtable interface {
	Format() uint16
	Language() uint32
	Lookup(code uint32) GlyphIndex
	RangeCount() int
}

// unicodeEncodings is the order of preference for Unicode lookups.
var unicodeEncodings = []platformEncoding{
	{PlatformWindows, 10},
	{PlatformUnicode, 6},
	{PlatformUnicode, 4},
	{PlatformWindows, 1},
	{PlatformUnicode, 3},
	{PlatformUnicode, 2},
	{PlatformUnicode, 1},
	{PlatformUnicode, 0},
	{PlatformWindows, 0},
}

func parseCMap(e DirectoryEntry, b binarySegm) (*CMapTable, error) {
	t := &CMapTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	var err error
	if t.Version, err = c.U16(); err != nil {
		return nil, err
	}
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if n > MaxCmapSubtables {
		return nil, errFontFormat("cmap table with %d encoding records", n)
	}
	t.Encodings = make([]EncodingRecord, n)
	for i := range t.Encodings {
		rec, err := c.Bytes(8)
		if err != nil {
			return nil, fmt.Errorf("cmap encoding record %d: %w", i, err)
		}
		t.Encodings[i] = EncodingRecord{
			PlatformID: PlatformID(u16(rec)),
			EncodingID: u16(rec[2:]),
			Offset:     u32(rec[4:]),
		}
	}
	// Encoding records are ordered by platform and encoding, not by offset.
	// We decode the sub-tables in offset order, sharing sub-tables between records
	// with equal offsets.
	order := make([]int, len(t.Encodings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return t.Encodings[order[i]].Offset < t.Encodings[order[j]].Offset
	})
	var prev *EncodingRecord
	for _, i := range order {
		rec := &t.Encodings[i]
		if prev != nil && prev.Offset == rec.Offset {
			rec.Subtable = prev.Subtable
			continue
		}
		if rec.Subtable, err = parseCMapSubtable(b, rec.Offset); err != nil {
			return nil, fmt.Errorf("cmap sub-table %s: %w", EncodingName(rec.PlatformID, rec.EncodingID), err)
		}
		tracer().Debugf("cmap sub-table %s has format %d", EncodingName(rec.PlatformID, rec.EncodingID),
			rec.Subtable.Format())
		t.Subtables = append(t.Subtables, rec.Subtable)
		prev = rec
	}
	for _, pe := range unicodeEncodings {
		if st, ok := t.Subtable(pe.platform, pe.encoding).Unwrap(); ok {
			t.unicode = st
			break
		}
	}
	return t, nil
}

// Subtable returns the sub-table for a platform/encoding pair.
func (t *CMapTable) Subtable(platform PlatformID, encoding uint16) Option[CMapSubtable] {
	if t == nil {
		return None[CMapSubtable]()
	}
	for _, rec := range t.Encodings {
		if rec.PlatformID == platform && rec.EncodingID == encoding {
			return Some(rec.Subtable)
		}
	}
	return None[CMapSubtable]()
}

// UnicodeSubtable returns the sub-table used for Unicode lookups, if the font has one.
func (t *CMapTable) UnicodeSubtable() Option[CMapSubtable] {
	if t == nil || t.unicode == nil {
		return None[CMapSubtable]()
	}
	return Some(t.unicode)
}

// Lookup returns the glyph for a Unicode code-point, or 0 if r is not mapped.
func (t *CMapTable) Lookup(r rune) GlyphIndex {
	if t == nil || t.unicode == nil || r < 0 {
		return 0
	}
	return t.unicode.Lookup(uint32(r))
}

// parseCMapSubtable decodes the sub-table at offset, dispatching on its format.
func parseCMapSubtable(b binarySegm, offset uint32) (CMapSubtable, error) {
	c, err := b.cursor(int(offset))
	if err != nil {
		return nil, err
	}
	format, err := c.U16()
	if err != nil {
		return nil, err
	}
	h := cmapHeader{format: format}
	switch format {
	case 0, 2, 4, 6:
		l, err := c.U16()
		if err != nil {
			return nil, err
		}
		lang, err := c.U16()
		if err != nil {
			return nil, err
		}
		h.length, h.language = uint32(l), uint32(lang)
	case 8, 10, 12, 13:
		if err = c.Skip(2); err != nil {
			return nil, err
		}
		if h.length, err = c.U32(); err != nil {
			return nil, err
		}
		if h.language, err = c.U32(); err != nil {
			return nil, err
		}
	case 14:
		if h.length, err = c.U32(); err != nil {
			return nil, err
		}
	default:
		tracer().Infof("cmap sub-table format %d unknown", format)
		return &CMapUnknown{cmapHeader: h}, nil
	}
	if format != 0 && format != 2 && format != 4 && format != 6 && format != 12 {
		tracer().Infof("cmap sub-table format %d not supported", format)
		return &CMapUnknown{cmapHeader: h}, nil
	}
	data, err := b.view(int(offset), int(h.length))
	if err != nil {
		if format == 4 {
			// Some fonts have a wrong length for format 4 sub-tables, which
			// overflows 16 bits. We read the sub-table up to the end of 'cmap'.
			data, err = b.view(int(offset), len(b)-int(offset))
		}
		if err != nil {
			return nil, fmt.Errorf("cmap sub-table format %d: %w", format, err)
		}
	}
	c = NewCursor(data)
	if err := c.Seek(h.size()); err != nil {
		return nil, fmt.Errorf("cmap sub-table format %d: %w", format, err)
	}
	switch format {
	case 0:
		return parseCMapFormat0(h, c)
	case 2:
		return parseCMapFormat2(h, c)
	case 4:
		return parseCMapFormat4(h, c)
	case 6:
		return parseCMapFormat6(h, c)
	}
	return parseCMapFormat12(h, c)
}

// cmapHeader holds the fields common to all cmap sub-table formats.
type cmapHeader struct {
	format   uint16
	length   uint32
	language uint32
}

// Format returns the sub-table's format number.
func (h cmapHeader) Format() uint16 { return h.format }

// Language returns the Macintosh language code of a sub-table, or 0.
func (h cmapHeader) Language() uint32 { return h.language }

// Length returns the byte size of a sub-table.
func (h cmapHeader) Length() uint32 { return h.length }

func (h cmapHeader) size() int {
	switch h.format {
	case 8, 10, 12, 13:
		return 12
	}
	return 6
}

// --- Format 0 --------------------------------------------------------------

// CMapFormat0 is the Apple standard character to glyph index mapping table,
// mapping single-byte codes with a 256-entry array.
type CMapFormat0 struct {
	cmapHeader
	GlyphIDs [256]uint8
}

func parseCMapFormat0(h cmapHeader, c *Cursor) (*CMapFormat0, error) {
	st := &CMapFormat0{cmapHeader: h}
	b, err := c.Bytes(256)
	if err != nil {
		return nil, err
	}
	copy(st.GlyphIDs[:], b)
	return st, nil
}

// Lookup maps a code to a glyph.
func (st *CMapFormat0) Lookup(code uint32) GlyphIndex {
	if code >= 256 {
		return 0
	}
	return GlyphIndex(st.GlyphIDs[code])
}

// RangeCount is 1 for format 0 sub-tables.
func (st *CMapFormat0) RangeCount() int { return 1 }

// --- Format 2 --------------------------------------------------------------

// CMapFormat2 is a high-byte mapping through table, used for mixed 8/16-bit
// encodings (Japanese, Chinese and Korean).
type CMapFormat2 struct {
	cmapHeader
	SubHeaderKeys [256]uint16 // sub-header index × 8
	SubHeaders    []CMap2SubHeader
	GlyphIDs      []uint16
}

// CMap2SubHeader is a sub-header of a format 2 cmap sub-table. ArrayIndex is the
// resolved start of the sub-header's range within GlyphIDs.
type CMap2SubHeader struct {
	FirstCode     uint16
	EntryCount    uint16
	IDDelta       int16
	IDRangeOffset uint16
	ArrayIndex    int
}

func parseCMapFormat2(h cmapHeader, c *Cursor) (*CMapFormat2, error) {
	st := &CMapFormat2{cmapHeader: h}
	maxKey := 0
	for i := range st.SubHeaderKeys {
		k, err := c.U16()
		if err != nil {
			return nil, err
		}
		st.SubHeaderKeys[i] = k
		maxKey = max(maxKey, int(k)/8)
	}
	st.SubHeaders = make([]CMap2SubHeader, maxKey+1)
	subHeadersStart := c.Pos()
	arrayStart := subHeadersStart + 8*len(st.SubHeaders)
	for i := range st.SubHeaders {
		sh := &st.SubHeaders[i]
		var err error
		if sh.FirstCode, err = c.U16(); err != nil {
			return nil, fmt.Errorf("format 2 sub-header %d: %w", i, err)
		}
		sh.EntryCount, _ = c.U16()
		sh.IDDelta, _ = c.I16()
		if sh.IDRangeOffset, err = c.U16(); err != nil {
			return nil, fmt.Errorf("format 2 sub-header %d: %w", i, err)
		}
		// idRangeOffset counts from the position of the idRangeOffset field itself
		pos := subHeadersStart + 8*i + 6 + int(sh.IDRangeOffset)
		sh.ArrayIndex = (pos - arrayStart) / 2
	}
	st.GlyphIDs = make([]uint16, c.Remaining()/2)
	for i := range st.GlyphIDs {
		st.GlyphIDs[i], _ = c.U16()
	}
	return st, nil
}

// Lookup maps a code to a glyph. Codes below 256 with a sub-header key of 0 are
// single-byte codes; all other codes are two-byte codes with a high byte selecting
// the sub-header.
func (st *CMapFormat2) Lookup(code uint32) GlyphIndex {
	if code > 0xffff {
		return 0
	}
	var sh CMap2SubHeader
	var low uint32
	if code < 256 {
		if st.SubHeaderKeys[code] != 0 {
			return 0 // lead byte of a two-byte code
		}
		sh, low = st.SubHeaders[0], code
	} else {
		k := int(st.SubHeaderKeys[code>>8]) / 8
		if k == 0 {
			return 0
		}
		sh, low = st.SubHeaders[k], code&0xff
	}
	if low < uint32(sh.FirstCode) || low >= uint32(sh.FirstCode)+uint32(sh.EntryCount) {
		return 0
	}
	inx := sh.ArrayIndex + int(low-uint32(sh.FirstCode))
	if inx < 0 || inx >= len(st.GlyphIDs) {
		return 0
	}
	g := st.GlyphIDs[inx]
	if g == 0 {
		return 0
	}
	return GlyphIndex(uint16(int(g) + int(sh.IDDelta)))
}

// RangeCount returns the number of sub-headers.
func (st *CMapFormat2) RangeCount() int { return len(st.SubHeaders) }

// --- Format 4 --------------------------------------------------------------

// CMapFormat4 is the segment mapping to delta values format, the standard
// format for Unicode BMP fonts.
type CMapFormat4 struct {
	cmapHeader
	Segments []CMap4Segment // sorted by EndCode
	GlyphIDs []uint16
}

// CMap4Segment is a contiguous range of codes of a format 4 sub-table.
type CMap4Segment struct {
	StartCode     uint16
	EndCode       uint16
	IDDelta       int16
	IDRangeOffset uint16
}

func parseCMapFormat4(h cmapHeader, c *Cursor) (*CMapFormat4, error) {
	st := &CMapFormat4{cmapHeader: h}
	segCountX2, err := c.U16()
	if err != nil {
		return nil, err
	}
	if segCountX2&1 != 0 {
		return nil, errFontFormat("cmap format 4 with odd segCountX2 %d", segCountX2)
	}
	segCount := int(segCountX2 / 2)
	if segCount > MaxCmapSegments {
		return nil, errFontFormat("cmap format 4 with %d segments", segCount)
	}
	if err = c.Skip(6); err != nil { // search parameters
		return nil, err
	}
	if c.Remaining() < 8*segCount+2 {
		return nil, fmt.Errorf("cmap format 4 with %d segments: %w", segCount, ErrOutOfRange)
	}
	st.Segments = make([]CMap4Segment, segCount)
	for i := range st.Segments {
		st.Segments[i].EndCode, _ = c.U16()
	}
	_ = c.Skip(2) // reserved pad
	for i := range st.Segments {
		st.Segments[i].StartCode, _ = c.U16()
	}
	for i := range st.Segments {
		st.Segments[i].IDDelta, _ = c.I16()
	}
	for i := range st.Segments {
		st.Segments[i].IDRangeOffset, _ = c.U16()
	}
	st.GlyphIDs = make([]uint16, c.Remaining()/2)
	for i := range st.GlyphIDs {
		st.GlyphIDs[i], _ = c.U16()
	}
	return st, nil
}

// Lookup maps a code to a glyph. Segments are scanned linearly for the first
// segment with an end code ≥ code.
func (st *CMapFormat4) Lookup(code uint32) GlyphIndex {
	if code > 0xffff {
		return 0
	}
	segCount := len(st.Segments)
	for i, seg := range st.Segments {
		if uint32(seg.EndCode) < code {
			continue
		}
		if code < uint32(seg.StartCode) {
			return 0 // code falls into a hole between segments
		}
		if seg.IDRangeOffset == 0 {
			return GlyphIndex(uint16(int(code) + int(seg.IDDelta)))
		}
		// the glyph ID array directly follows the idRangeOffset array,
		// and idRangeOffset counts from the segment's entry in that array
		inx := int(seg.IDRangeOffset)/2 + int(code-uint32(seg.StartCode)) - (segCount - i)
		if inx < 0 || inx >= len(st.GlyphIDs) {
			return 0
		}
		g := st.GlyphIDs[inx]
		if g == 0 {
			return 0
		}
		return GlyphIndex(uint16(int(g) + int(seg.IDDelta)))
	}
	return 0
}

// RangeCount returns the number of segments.
func (st *CMapFormat4) RangeCount() int { return len(st.Segments) }

// --- Format 6 --------------------------------------------------------------

// CMapFormat6 is a trimmed table mapping for a single contiguous range of codes.
type CMapFormat6 struct {
	cmapHeader
	FirstCode uint16
	GlyphIDs  []uint16
}

func parseCMapFormat6(h cmapHeader, c *Cursor) (*CMapFormat6, error) {
	st := &CMapFormat6{cmapHeader: h}
	var err error
	if st.FirstCode, err = c.U16(); err != nil {
		return nil, err
	}
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if c.Remaining() < 2*int(n) {
		return nil, fmt.Errorf("cmap format 6 with %d entries: %w", n, ErrOutOfRange)
	}
	st.GlyphIDs = make([]uint16, n)
	for i := range st.GlyphIDs {
		st.GlyphIDs[i], _ = c.U16()
	}
	return st, nil
}

// Lookup maps a code to a glyph.
func (st *CMapFormat6) Lookup(code uint32) GlyphIndex {
	if code < uint32(st.FirstCode) || code-uint32(st.FirstCode) >= uint32(len(st.GlyphIDs)) {
		return 0
	}
	return GlyphIndex(st.GlyphIDs[code-uint32(st.FirstCode)])
}

// RangeCount is 1 for format 6 sub-tables.
func (st *CMapFormat6) RangeCount() int { return 1 }

// --- Format 12 -------------------------------------------------------------

// CMapFormat12 is the segmented coverage format for 32-bit code points.
type CMapFormat12 struct {
	cmapHeader
	Groups []CMap12Group
}

// CMap12Group maps a range of codes to a range of consecutive glyphs.
type CMap12Group struct {
	StartCharCode uint32
	EndCharCode   uint32
	StartGlyphID  uint32
}

func parseCMapFormat12(h cmapHeader, c *Cursor) (*CMapFormat12, error) {
	st := &CMapFormat12{cmapHeader: h}
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	if n > MaxCmapSegments {
		return nil, errFontFormat("cmap format 12 with %d groups", n)
	}
	if c.Remaining() < 12*int(n) {
		return nil, fmt.Errorf("cmap format 12 with %d groups: %w", n, ErrOutOfRange)
	}
	st.Groups = make([]CMap12Group, n)
	for i := range st.Groups {
		g := &st.Groups[i]
		g.StartCharCode, _ = c.U32()
		g.EndCharCode, _ = c.U32()
		g.StartGlyphID, _ = c.U32()
		if g.EndCharCode < g.StartCharCode {
			return nil, errFontFormat("cmap format 12 group %d: end %d < start %d", i, g.EndCharCode, g.StartCharCode)
		}
	}
	return st, nil
}

// Lookup maps a code to a glyph. Groups are scanned linearly and the first
// group containing code wins, even if groups are not ordered.
// Glyph indices beyond 16 bits are treated as unmapped.
func (st *CMapFormat12) Lookup(code uint32) GlyphIndex {
	for _, g := range st.Groups {
		if code < g.StartCharCode || code > g.EndCharCode {
			continue
		}
		gid := uint64(code-g.StartCharCode) + uint64(g.StartGlyphID)
		if gid > 0xffff {
			return 0
		}
		return GlyphIndex(gid)
	}
	return 0
}

// RangeCount returns the number of groups.
func (st *CMapFormat12) RangeCount() int { return len(st.Groups) }

// --- Unknown formats -------------------------------------------------------

// CMapUnknown stands in for sub-tables in formats this package does not decode
// (e.g. formats 8, 10, 13 and 14). It maps every code to glyph 0.
type CMapUnknown struct {
	cmapHeader
}

// Lookup returns 0 for every code.
func (st *CMapUnknown) Lookup(uint32) GlyphIndex { return 0 }

// RangeCount is 0 for unknown formats.
func (st *CMapUnknown) RangeCount() int { return 0 }
