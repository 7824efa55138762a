package ot

import (
	"fmt"
)

// --- head ------------------------------------------------------------------

// HeadTable gives global information about the font.
type HeadTable struct {
	tableBase
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       Fixed
	ChecksumAdjustment uint32
	Flags              uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm         uint16 // values 16 … 16384 are valid
	Created            int64  // seconds since 1904-01-01
	Modified           int64  // seconds since 1904-01-01
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16 // 0 for short offsets, 1 for long
	GlyphDataFormat    int16
}

const headMagicNumber = 0x5f0f3cf5

func parseHead(e DirectoryEntry, b binarySegm) (*HeadTable, error) {
	if len(b) < 54 {
		return nil, errFontFormat("head table too short: %d bytes", len(b))
	}
	t := &HeadTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	t.MajorVersion, _ = c.U16()
	t.MinorVersion, _ = c.U16()
	t.FontRevision, _ = c.Fixed()
	t.ChecksumAdjustment, _ = c.U32()
	if magic, _ := c.U32(); magic != headMagicNumber {
		return nil, errFontFormat("head table magic number %x", magic)
	}
	t.Flags, _ = c.U16()
	t.UnitsPerEm, _ = c.U16()
	t.Created, _ = c.I64()
	t.Modified, _ = c.I64()
	t.XMin, _ = c.I16()
	t.YMin, _ = c.I16()
	t.XMax, _ = c.I16()
	t.YMax, _ = c.I16()
	t.MacStyle, _ = c.U16()
	t.LowestRecPPEM, _ = c.U16()
	t.FontDirectionHint, _ = c.I16()
	t.IndexToLocFormat, _ = c.I16()
	t.GlyphDataFormat, _ = c.I16()
	if t.IndexToLocFormat != 0 && t.IndexToLocFormat != 1 {
		return nil, errFontFormat("head table indexToLocFormat %d", t.IndexToLocFormat)
	}
	tracer().Debugf("head: units per em = %d, loca format = %d", t.UnitsPerEm, t.IndexToLocFormat)
	return t, nil
}

// --- maxp ------------------------------------------------------------------

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Fields other than NumGlyphs are set for version 1.0 tables (TrueType outlines) only.
type MaxPTable struct {
	tableBase
	Version               Fixed
	NumGlyphs             int
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

func parseMaxP(e DirectoryEntry, b binarySegm) (*MaxPTable, error) {
	t := &MaxPTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	var err error
	if t.Version, err = c.Fixed(); err != nil {
		return nil, err
	}
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	t.NumGlyphs = int(n)
	if t.Version == 0x00010000 {
		fields := []*uint16{
			&t.MaxPoints, &t.MaxContours, &t.MaxCompositePoints, &t.MaxCompositeContours,
			&t.MaxZones, &t.MaxTwilightPoints, &t.MaxStorage, &t.MaxFunctionDefs,
			&t.MaxInstructionDefs, &t.MaxStackElements, &t.MaxSizeOfInstructions,
			&t.MaxComponentElements, &t.MaxComponentDepth,
		}
		for _, f := range fields {
			if *f, err = c.U16(); err != nil {
				return nil, err
			}
		}
	}
	tracer().Debugf("maxp: %d glyphs", t.NumGlyphs)
	return t, nil
}

// --- hhea ------------------------------------------------------------------

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	MetricDataFormat    int16
	NumberOfHMetrics    int
}

func parseHHea(e DirectoryEntry, b binarySegm) (*HHeaTable, error) {
	if len(b) < 36 {
		return nil, errFontFormat("hhea table too short: %d bytes", len(b))
	}
	t := &HHeaTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	_ = c.Skip(4) // version
	t.Ascender, _ = c.I16()
	t.Descender, _ = c.I16()
	t.LineGap, _ = c.I16()
	t.AdvanceWidthMax, _ = c.U16()
	t.MinLeftSideBearing, _ = c.I16()
	t.MinRightSideBearing, _ = c.I16()
	t.XMaxExtent, _ = c.I16()
	t.CaretSlopeRise, _ = c.I16()
	t.CaretSlopeRun, _ = c.I16()
	t.CaretOffset, _ = c.I16()
	_ = c.Skip(8) // reserved
	t.MetricDataFormat, _ = c.I16()
	n, _ := c.U16()
	t.NumberOfHMetrics = int(n)
	return t, nil
}

// --- hmtx ------------------------------------------------------------------

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the `hhea` table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance width as that found in the last entry in the hMetrics array.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	longMetrics      []HMetricRecord
	leftSideBearings []int16
}

// HMetricRecord is one long horizontal metric record from table hmtx.
type HMetricRecord struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

func parseHMtx(e DirectoryEntry, b binarySegm, numGlyphs, numberOfHMetrics int) (*HMtxTable, error) {
	if numberOfHMetrics < 1 || numberOfHMetrics > numGlyphs {
		return nil, errFontFormat("invalid numberOfHMetrics %d (numGlyphs=%d)", numberOfHMetrics, numGlyphs)
	}
	t := &HMtxTable{tableBase: newTableBase(e, b), NumberOfHMetrics: numberOfHMetrics}
	t.self = t
	c := NewCursor(b)
	t.longMetrics = make([]HMetricRecord, numberOfHMetrics)
	for i := range t.longMetrics {
		aw, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("hmtx record %d: %w", i, err)
		}
		lsb, err := c.I16()
		if err != nil {
			return nil, fmt.Errorf("hmtx record %d: %w", i, err)
		}
		t.longMetrics[i] = HMetricRecord{AdvanceWidth: aw, LeftSideBearing: lsb}
	}
	t.leftSideBearings = make([]int16, numGlyphs-numberOfHMetrics)
	for i := range t.leftSideBearings {
		lsb, err := c.I16()
		if err != nil {
			return nil, fmt.Errorf("hmtx left side bearing %d: %w", i, err)
		}
		t.leftSideBearings[i] = lsb
	}
	return t, nil
}

// Metrics returns the horizontal metrics for a glyph. Glyphs beyond NumberOfHMetrics
// share the advance width of the last long metric record.
// For glyph indices out of range, a zero record and false are returned.
func (t *HMtxTable) Metrics(gid GlyphIndex) (HMetricRecord, bool) {
	if t == nil || len(t.longMetrics) == 0 {
		return HMetricRecord{}, false
	}
	g := int(gid)
	if g < len(t.longMetrics) {
		return t.longMetrics[g], true
	}
	g -= len(t.longMetrics)
	if g >= len(t.leftSideBearings) {
		return HMetricRecord{}, false
	}
	return HMetricRecord{
		AdvanceWidth:    t.longMetrics[len(t.longMetrics)-1].AdvanceWidth,
		LeftSideBearing: t.leftSideBearings[g],
	}, true
}

// --- loca ------------------------------------------------------------------

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font.
type LocaTable struct {
	tableBase
	offsets []uint32 // numGlyphs+1 byte offsets into 'glyf'
}

func parseLoca(e DirectoryEntry, b binarySegm, format int16, numGlyphs int) (*LocaTable, error) {
	t := &LocaTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	t.offsets = make([]uint32, numGlyphs+1)
	for i := range t.offsets {
		if format == 0 {
			n, err := c.U16()
			if err != nil {
				return nil, fmt.Errorf("loca offset %d: %w", i, err)
			}
			t.offsets[i] = uint32(n) * 2
		} else {
			n, err := c.U32()
			if err != nil {
				return nil, fmt.Errorf("loca offset %d: %w", i, err)
			}
			t.offsets[i] = n
		}
		if i > 0 && t.offsets[i] < t.offsets[i-1] {
			return nil, errFontFormat("loca offsets not ascending at glyph %d", i)
		}
	}
	return t, nil
}

// IndexToLocation returns the location of a glyph's data within the 'glyf' table,
// together with its size in bytes. A size of 0 denotes a glyph without outline.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) (uint32, uint32) {
	if t == nil || int(gid)+1 >= len(t.offsets) {
		return 0, 0 // link to 'missing character'
	}
	return t.offsets[gid], t.offsets[gid+1] - t.offsets[gid]
}

// NumGlyphs returns the number of glyph locations.
func (t *LocaTable) NumGlyphs() int {
	if t == nil || len(t.offsets) == 0 {
		return 0
	}
	return len(t.offsets) - 1
}

// --- OS/2 ------------------------------------------------------------------

// OS2Table contains metrics and classification values from table 'OS/2'.
// Fields introduced with later table versions are zero for older versions.
type OS2Table struct {
	tableBase
	Version         uint16
	XAvgCharWidth   int16
	WeightClass     uint16
	WidthClass      uint16
	FsType          uint16
	FamilyClass     int16
	Panose          [10]byte
	UnicodeRange    [4]uint32
	VendorID        Tag
	FsSelection     uint16
	FirstCharIndex  uint16
	LastCharIndex   uint16
	TypoAscender    int16
	TypoDescender   int16
	TypoLineGap     int16
	WinAscent       uint16
	WinDescent      uint16
	CodePageRange   [2]uint32 // version ≥ 1
	XHeight         int16     // version ≥ 2
	CapHeight       int16     // version ≥ 2
	DefaultChar     uint16    // version ≥ 2
	BreakChar       uint16    // version ≥ 2
	MaxContext      uint16    // version ≥ 2
	StrikeoutSize   int16
	StrikeoutOffset int16
}

func parseOS2(e DirectoryEntry, b binarySegm) (*OS2Table, error) {
	if len(b) < 78 {
		return nil, errFontFormat("OS/2 table too short: %d bytes", len(b))
	}
	t := &OS2Table{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	t.Version, _ = c.U16()
	t.XAvgCharWidth, _ = c.I16()
	t.WeightClass, _ = c.U16()
	t.WidthClass, _ = c.U16()
	t.FsType, _ = c.U16()
	_ = c.Skip(16) // sub- and superscript metrics
	t.StrikeoutSize, _ = c.I16()
	t.StrikeoutOffset, _ = c.I16()
	t.FamilyClass, _ = c.I16()
	panose, _ := c.Bytes(10)
	copy(t.Panose[:], panose)
	for i := range t.UnicodeRange {
		t.UnicodeRange[i], _ = c.U32()
	}
	t.VendorID, _ = c.Tag()
	t.FsSelection, _ = c.U16()
	t.FirstCharIndex, _ = c.U16()
	t.LastCharIndex, _ = c.U16()
	t.TypoAscender, _ = c.I16()
	t.TypoDescender, _ = c.I16()
	t.TypoLineGap, _ = c.I16()
	t.WinAscent, _ = c.U16()
	t.WinDescent, _ = c.U16()
	if t.Version < 1 {
		return t, nil
	}
	var err error
	for i := range t.CodePageRange {
		if t.CodePageRange[i], err = c.U32(); err != nil {
			return nil, fmt.Errorf("OS/2 version %d: %w", t.Version, err)
		}
	}
	if t.Version < 2 {
		return t, nil
	}
	if c.Remaining() < 10 {
		return nil, fmt.Errorf("OS/2 version %d: %d bytes: %w", t.Version, len(b), ErrOutOfRange)
	}
	t.XHeight, _ = c.I16()
	t.CapHeight, _ = c.I16()
	t.DefaultChar, _ = c.U16()
	t.BreakChar, _ = c.U16()
	t.MaxContext, _ = c.U16()
	return t, nil
}
